package httpapi

import (
	"net/http"

	"github.com/riskibarqy/futgol/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
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

	players, err := h.playerService.ListByGroup(ctx, principal.UserID, groupID)
	if err != nil {
		h.fail(ctx, w, "list players failed", err, "group_id", groupID)
		return
	}

	writeSuccess(w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := pathID(r)
	p, err := h.playerService.Get(ctx, principal.UserID, playerID)
	if err != nil {
		h.fail(ctx, w, "get player failed", err, "player_id", playerID)
		return
	}

	writeSuccess(w, http.StatusOK, playerToDTO(p))
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req playerRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.CreatePlayerInput{
		ActorID:      principal.UserID,
		GroupID:      req.GroupID,
		UserID:       req.UserID,
		Name:         req.Name,
		Nickname:     req.Nickname,
		Position:     req.Position,
		Rating:       req.Rating,
		Phone:        req.Phone,
		Email:        req.Email,
		AvatarURL:    req.AvatarURL,
		BirthDate:    req.BirthDate,
		FavoriteTeam: req.FavoriteTeam,
	}
	if req.IsMonthlySubscriber != nil {
		input.IsMonthlySubscriber = *req.IsMonthlySubscriber
	}
	if req.IsGuest != nil {
		input.IsGuest = *req.IsGuest
	}
	if req.MonthlyStartMonth != nil {
		input.MonthlyStartMonth = *req.MonthlyStartMonth
	}

	p, err := h.playerService.Create(ctx, input)
	if err != nil {
		h.fail(ctx, w, "create player failed", err, "group_id", req.GroupID)
		return
	}

	writeSuccess(w, http.StatusCreated, playerToDTO(p))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req playerRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := pathID(r)
	p, err := h.playerService.Update(ctx, usecase.UpdatePlayerInput{
		ActorID:             principal.UserID,
		PlayerID:            playerID,
		Name:                req.Name,
		Nickname:            req.Nickname,
		Position:            req.Position,
		Phone:               req.Phone,
		Email:               req.Email,
		AvatarURL:           req.AvatarURL,
		BirthDate:           req.BirthDate,
		FavoriteTeam:        req.FavoriteTeam,
		Rating:              req.Rating,
		IsMonthlySubscriber: req.IsMonthlySubscriber,
		IsGuest:             req.IsGuest,
		MonthlyStartMonth:   req.MonthlyStartMonth,
	})
	if err != nil {
		h.fail(ctx, w, "update player failed", err, "player_id", playerID)
		return
	}

	writeSuccess(w, http.StatusOK, playerToDTO(p))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := pathID(r)
	if err := h.playerService.Delete(ctx, principal.UserID, playerID); err != nil {
		h.fail(ctx, w, "delete player failed", err, "player_id", playerID)
		return
	}

	writeSuccess(w, http.StatusOK, deletedDTO{ID: playerID, Deleted: true})
}
