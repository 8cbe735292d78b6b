package httpapi

import (
	"net/http"

	"github.com/riskibarqy/futgol/internal/usecase"
)

func (h *Handler) ListFields(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFields")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	groupID, err := requiredQuery(r, "groupId")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fields, err := h.fieldService.ListByGroup(ctx, principal.UserID, groupID)
	if err != nil {
		h.fail(ctx, w, "list fields failed", err, "group_id", groupID)
		return
	}

	writeSuccess(w, http.StatusOK, fieldsToDTO(fields))
}

func (h *Handler) GetField(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetField")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fieldID := pathID(r)
	f, err := h.fieldService.Get(ctx, principal.UserID, fieldID)
	if err != nil {
		h.fail(ctx, w, "get field failed", err, "field_id", fieldID)
		return
	}

	writeSuccess(w, http.StatusOK, fieldToDTO(f))
}

func (h *Handler) CreateField(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateField")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req fieldRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	f, err := h.fieldService.Create(ctx, fieldInputOf(principal.UserID, "", req))
	if err != nil {
		h.fail(ctx, w, "create field failed", err, "group_id", req.GroupID)
		return
	}

	writeSuccess(w, http.StatusCreated, fieldToDTO(f))
}

func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateField")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req fieldRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	fieldID := pathID(r)
	f, err := h.fieldService.Update(ctx, fieldInputOf(principal.UserID, fieldID, req))
	if err != nil {
		h.fail(ctx, w, "update field failed", err, "field_id", fieldID)
		return
	}

	writeSuccess(w, http.StatusOK, fieldToDTO(f))
}

func (h *Handler) DeleteField(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteField")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fieldID := pathID(r)
	if err := h.fieldService.Delete(ctx, principal.UserID, fieldID); err != nil {
		h.fail(ctx, w, "delete field failed", err, "field_id", fieldID)
		return
	}

	writeSuccess(w, http.StatusOK, deletedDTO{ID: fieldID, Deleted: true})
}

func fieldInputOf(actorID, fieldID string, req fieldRequest) usecase.FieldInput {
	return usecase.FieldInput{
		ActorID:      actorID,
		GroupID:      req.GroupID,
		FieldID:      fieldID,
		Name:         req.Name,
		Location:     req.Location,
		HourlyRate:   req.HourlyRate,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}
}
