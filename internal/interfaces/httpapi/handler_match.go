package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/futgol/internal/usecase"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
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

	matches, err := h.matchService.ListByGroup(ctx, principal.UserID, groupID)
	if err != nil {
		h.fail(ctx, w, "list matches failed", err, "group_id", groupID)
		return
	}

	writeSuccess(w, http.StatusOK, matchesToDTO(matches))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathID(r)
	details, err := h.matchService.Get(ctx, principal.UserID, matchID)
	if err != nil {
		h.fail(ctx, w, "get match failed", err, "match_id", matchID)
		return
	}

	writeSuccess(w, http.StatusOK, matchToDTO(details))
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req matchRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	details, err := h.matchService.Create(ctx, usecase.MatchInput{
		ActorID: principal.UserID,
		GroupID: req.GroupID,
		Date:    req.Date,
		Time:    req.Time,
		FieldID: req.FieldID,
	})
	if err != nil {
		h.fail(ctx, w, "create match failed", err, "group_id", req.GroupID)
		return
	}

	writeSuccess(w, http.StatusCreated, matchToDTO(details))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req matchRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathID(r)
	details, err := h.matchService.Update(ctx, usecase.MatchInput{
		ActorID: principal.UserID,
		MatchID: matchID,
		Date:    req.Date,
		Time:    req.Time,
		FieldID: req.FieldID,
	})
	if err != nil {
		h.fail(ctx, w, "update match failed", err, "match_id", matchID)
		return
	}

	writeSuccess(w, http.StatusOK, matchToDTO(details))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathID(r)
	if err := h.matchService.Delete(ctx, principal.UserID, matchID); err != nil {
		h.fail(ctx, w, "delete match failed", err, "match_id", matchID)
		return
	}

	writeSuccess(w, http.StatusOK, deletedDTO{ID: matchID, Deleted: true})
}

func (h *Handler) TogglePresence(w http.ResponseWriter, r *http.Request) {
	h.matchPlayerAction(w, r, "httpapi.Handler.TogglePresence", h.matchService.TogglePresence)
}

func (h *Handler) TogglePayment(w http.ResponseWriter, r *http.Request) {
	h.matchPlayerAction(w, r, "httpapi.Handler.TogglePayment", h.matchService.TogglePayment)
}

func (h *Handler) GenerateTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateTeams")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathID(r)
	res, err := h.matchService.GenerateTeams(ctx, principal.UserID, matchID)
	if err != nil {
		h.fail(ctx, w, "generate teams failed", err, "match_id", matchID)
		return
	}

	writeSuccess(w, http.StatusOK, teamsDTO{
		Match:     matchToDTO(res.Details),
		Reasoning: res.Reasoning,
	})
}

func (h *Handler) FinalizeMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req finalizeMatchRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathID(r)
	details, err := h.matchService.Finalize(ctx, usecase.FinalizeMatchInput{
		ActorID: principal.UserID,
		MatchID: matchID,
		ScoreA:  req.ScoreA,
		ScoreB:  req.ScoreB,
		MVPID:   req.MVPID,
	})
	if err != nil {
		h.fail(ctx, w, "finalize match failed", err, "match_id", matchID)
		return
	}

	writeSuccess(w, http.StatusOK, matchToDTO(details))
}

func (h *Handler) ReopenMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReopenMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathID(r)
	details, err := h.matchService.Reopen(ctx, principal.UserID, matchID)
	if err != nil {
		h.fail(ctx, w, "reopen match failed", err, "match_id", matchID)
		return
	}

	writeSuccess(w, http.StatusOK, matchToDTO(details))
}

func (h *Handler) matchPlayerAction(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	action func(ctx context.Context, input usecase.MatchPlayerInput) (usecase.MatchDetails, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req matchPlayerRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathID(r)
	details, err := action(ctx, usecase.MatchPlayerInput{
		ActorID:  principal.UserID,
		MatchID:  matchID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.fail(ctx, w, "match player action failed", err, "match_id", matchID, "player_id", req.PlayerID)
		return
	}

	writeSuccess(w, http.StatusOK, matchToDTO(details))
}
