package httpapi

import (
	"net/http"

	"github.com/riskibarqy/futgol/internal/usecase"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Register")
	defer span.End()

	var req registerRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.authService.Register(ctx, usecase.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Nickname:     req.Nickname,
		BirthDate:    req.BirthDate,
		FavoriteTeam: req.FavoriteTeam,
		Position:     req.Position,
	})
	if err != nil {
		h.fail(ctx, w, "register failed", err)
		return
	}

	writeSuccess(w, http.StatusCreated, authToDTO(res))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.authService.Login(ctx, usecase.LoginInput{
		Identifier:       req.Identifier,
		Password:         req.Password,
		AccessTTLMinutes: req.AccessTTLMinutes,
	})
	if err != nil {
		h.fail(ctx, w, "login failed", err)
		return
	}

	writeSuccess(w, http.StatusOK, authToDTO(res))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	u, err := h.authService.Me(ctx, principal.UserID)
	if err != nil {
		h.fail(ctx, w, "get profile failed", err, "user_id", principal.UserID)
		return
	}

	writeSuccess(w, http.StatusOK, userToDTO(u))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMe")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateProfileRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	u, err := h.authService.UpdateMe(ctx, usecase.UpdateProfileInput{
		UserID:       principal.UserID,
		Name:         req.Name,
		Nickname:     req.Nickname,
		Email:        req.Email,
		AvatarURL:    req.AvatarURL,
		BirthDate:    req.BirthDate,
		FavoriteTeam: req.FavoriteTeam,
		Position:     req.Position,
	})
	if err != nil {
		h.fail(ctx, w, "update profile failed", err, "user_id", principal.UserID)
		return
	}

	writeSuccess(w, http.StatusOK, userToDTO(u))
}

func (h *Handler) LookupByPhone(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LookupByPhone")
	defer span.End()

	phone, err := requiredQuery(r, "phone")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.authService.LookupByPhone(ctx, phone)
	if err != nil {
		h.fail(ctx, w, "lookup by phone failed", err)
		return
	}

	writeSuccess(w, http.StatusOK, lookupToDTO(res))
}
