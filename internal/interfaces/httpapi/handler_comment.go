package httpapi

import (
	"net/http"

	"github.com/riskibarqy/futgol/internal/usecase"
)

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListComments")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID, err := requiredQuery(r, "matchId")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	threads, err := h.commentService.ListByMatch(ctx, principal.UserID, matchID)
	if err != nil {
		h.fail(ctx, w, "list comments failed", err, "match_id", matchID)
		return
	}

	writeSuccess(w, http.StatusOK, threadsToDTO(threads))
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateComment")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	c, err := h.commentService.Create(ctx, usecase.CreateCommentInput{
		ActorID:  principal.UserID,
		MatchID:  req.MatchID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		h.fail(ctx, w, "create comment failed", err, "match_id", req.MatchID)
		return
	}

	writeSuccess(w, http.StatusCreated, commentToDTO(c))
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateComment")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	commentID := pathID(r)
	c, err := h.commentService.Update(ctx, usecase.UpdateCommentInput{
		ActorID:   principal.UserID,
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		h.fail(ctx, w, "update comment failed", err, "comment_id", commentID)
		return
	}

	writeSuccess(w, http.StatusOK, commentToDTO(c))
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteComment")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	commentID := pathID(r)
	if err := h.commentService.Delete(ctx, principal.UserID, commentID); err != nil {
		h.fail(ctx, w, "delete comment failed", err, "comment_id", commentID)
		return
	}

	writeSuccess(w, http.StatusOK, deletedDTO{ID: commentID, Deleted: true})
}
