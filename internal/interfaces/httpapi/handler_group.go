package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/usecase"
)

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGroups")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	switch scope := queryValue(r, "scope"); scope {
	case "", "mine":
		groups, err := h.groupService.ListMine(ctx, principal.UserID)
		if err != nil {
			h.fail(ctx, w, "list my groups failed", err, "user_id", principal.UserID)
			return
		}
		items := make([]groupDTO, 0, len(groups))
		for _, g := range groups {
			items = append(items, groupToDTO(g, principal.UserID))
		}
		writeSuccess(w, http.StatusOK, items)
	case "all":
		summaries, err := h.groupService.Directory(ctx)
		if err != nil {
			h.fail(ctx, w, "list group directory failed", err)
			return
		}
		items := make([]groupSummaryDTO, 0, len(summaries))
		for _, s := range summaries {
			items = append(items, groupSummaryToDTO(s))
		}
		writeSuccess(w, http.StatusOK, items)
	default:
		writeError(ctx, w, fmt.Errorf("%w: unknown scope %q", usecase.ErrInvalidInput, scope))
	}
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGroup")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req groupRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.groupService.Create(ctx, usecase.CreateGroupInput{
		UserID:      principal.UserID,
		Name:        req.Name,
		Sport:       req.Sport,
		City:        req.City,
		LogoURL:     req.LogoURL,
		PaymentMode: req.PaymentMode,
		FixedAmount: decimalOrZero(req.FixedAmount),
		MonthlyFee:  decimalOrZero(req.MonthlyFee),
	})
	if err != nil {
		h.fail(ctx, w, "create group failed", err, "user_id", principal.UserID)
		return
	}

	writeSuccess(w, http.StatusCreated, groupToDTO(g, principal.UserID))
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroup")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := pathID(r)
	g, err := h.groupService.Get(ctx, principal.UserID, groupID)
	if err != nil {
		h.fail(ctx, w, "get group failed", err, "group_id", groupID)
		return
	}

	writeSuccess(w, http.StatusOK, groupToDTO(g, principal.UserID))
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGroup")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req groupRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := pathID(r)
	g, err := h.groupService.Update(ctx, usecase.UpdateGroupInput{
		UserID:      principal.UserID,
		GroupID:     groupID,
		Name:        req.Name,
		Sport:       req.Sport,
		City:        req.City,
		LogoURL:     req.LogoURL,
		PaymentMode: req.PaymentMode,
		FixedAmount: req.FixedAmount,
		MonthlyFee:  req.MonthlyFee,
	})
	if err != nil {
		h.fail(ctx, w, "update group failed", err, "group_id", groupID)
		return
	}

	writeSuccess(w, http.StatusOK, groupToDTO(g, principal.UserID))
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGroup")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := pathID(r)
	if err := h.groupService.Delete(ctx, principal.UserID, groupID); err != nil {
		h.fail(ctx, w, "delete group failed", err, "group_id", groupID)
		return
	}

	writeSuccess(w, http.StatusOK, deletedDTO{ID: groupID, Deleted: true})
}

func (h *Handler) GetGroupOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroupOverview")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := pathID(r)
	overview, err := h.overviewService.Get(ctx, principal.UserID, groupID)
	if err != nil {
		h.fail(ctx, w, "get group overview failed", err, "group_id", groupID)
		return
	}

	writeSuccess(w, http.StatusOK, overviewToDTO(overview, principal.UserID))
}

func (h *Handler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	h.selfMembership(w, r, "httpapi.Handler.RequestJoin", h.groupService.RequestJoin)
}

func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	h.selfMembership(w, r, "httpapi.Handler.CancelRequest", h.groupService.CancelRequest)
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, "httpapi.Handler.ApproveRequest", h.groupService.ApproveRequest)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, "httpapi.Handler.RejectRequest", h.groupService.RejectRequest)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, "httpapi.Handler.RemoveMember", h.groupService.RemoveMember)
}

func (h *Handler) PromoteMember(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, "httpapi.Handler.PromoteMember", h.groupService.PromoteMember)
}

func (h *Handler) DemoteMember(w http.ResponseWriter, r *http.Request) {
	h.memberAction(w, r, "httpapi.Handler.DemoteMember", h.groupService.DemoteMember)
}

func (h *Handler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveGroup")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := pathID(r)
	if err := h.groupService.Leave(ctx, principal.UserID, groupID); err != nil {
		h.fail(ctx, w, "leave group failed", err, "group_id", groupID, "user_id", principal.UserID)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"groupId": groupID, "left": true})
}

func (h *Handler) GenerateInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateInvite")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := pathID(r)
	invite, err := h.groupService.GenerateInvite(ctx, principal.UserID, groupID)
	if err != nil {
		h.fail(ctx, w, "generate invite failed", err, "group_id", groupID)
		return
	}

	writeSuccess(w, http.StatusOK, inviteDTO{
		GroupID:    invite.GroupID,
		Token:      invite.Token,
		InviteCode: invite.InviteCode,
		ExpiresAt:  invite.ExpiresAt,
	})
}

func (h *Handler) JoinWithInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinWithInvite")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req joinWithInviteRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.groupService.JoinWithInvite(ctx, usecase.JoinWithInviteInput{
		UserID:     principal.UserID,
		Token:      req.Token,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		h.fail(ctx, w, "join with invite failed", err, "user_id", principal.UserID)
		return
	}

	writeSuccess(w, http.StatusOK, groupToDTO(g, principal.UserID))
}

func (h *Handler) selfMembership(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	action func(ctx context.Context, actorID, groupID string) (group.Group, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := pathID(r)
	g, err := action(ctx, principal.UserID, groupID)
	if err != nil {
		h.fail(ctx, w, "membership request failed", err, "group_id", groupID, "user_id", principal.UserID)
		return
	}

	writeSuccess(w, http.StatusOK, groupToDTO(g, principal.UserID))
}

func (h *Handler) memberAction(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	action func(ctx context.Context, input usecase.MemberActionInput) (group.Group, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req memberActionRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := pathID(r)
	g, err := action(ctx, usecase.MemberActionInput{
		ActorID:      principal.UserID,
		GroupID:      groupID,
		TargetUserID: req.UserID,
	})
	if err != nil {
		h.fail(ctx, w, "member action failed", err, "group_id", groupID, "target_user_id", req.UserID)
		return
	}

	writeSuccess(w, http.StatusOK, groupToDTO(g, principal.UserID))
}

func decimalOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
