package httpapi

import (
	"net/http"

	"github.com/riskibarqy/futgol/internal/usecase"
)

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTransactions")
	defer span.End()

	query, err := ledgerQueryOf(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.financeService.ListTransactions(ctx, query)
	if err != nil {
		h.fail(ctx, w, "list transactions failed", err, "group_id", query.GroupID)
		return
	}

	out := make([]transactionDTO, 0, len(items))
	for _, t := range items {
		out = append(out, transactionToDTO(t))
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *Handler) GetFinanceSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFinanceSummary")
	defer span.End()

	query, err := ledgerQueryOf(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.financeService.Summary(ctx, query)
	if err != nil {
		h.fail(ctx, w, "finance summary failed", err, "group_id", query.GroupID)
		return
	}

	writeSuccess(w, http.StatusOK, summaryToDTO(summary))
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTransaction")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	transactionID := pathID(r)
	t, err := h.financeService.GetTransaction(ctx, principal.UserID, transactionID)
	if err != nil {
		h.fail(ctx, w, "get transaction failed", err, "transaction_id", transactionID)
		return
	}

	writeSuccess(w, http.StatusOK, transactionToDTO(t))
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTransaction")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req transactionRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	t, err := h.financeService.CreateTransaction(ctx, transactionInputOf(principal.UserID, "", req))
	if err != nil {
		h.fail(ctx, w, "create transaction failed", err, "group_id", req.GroupID)
		return
	}

	writeSuccess(w, http.StatusCreated, transactionToDTO(t))
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTransaction")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req transactionRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	transactionID := pathID(r)
	t, err := h.financeService.UpdateTransaction(ctx, transactionInputOf(principal.UserID, transactionID, req))
	if err != nil {
		h.fail(ctx, w, "update transaction failed", err, "transaction_id", transactionID)
		return
	}

	writeSuccess(w, http.StatusOK, transactionToDTO(t))
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTransaction")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	transactionID := pathID(r)
	if err := h.financeService.DeleteTransaction(ctx, principal.UserID, transactionID); err != nil {
		h.fail(ctx, w, "delete transaction failed", err, "transaction_id", transactionID)
		return
	}

	writeSuccess(w, http.StatusOK, deletedDTO{ID: transactionID, Deleted: true})
}

func (h *Handler) UpsertMatchRevenue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertMatchRevenue")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req upsertMatchRevenueRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	t, written, err := h.financeService.UpsertMatchRevenue(ctx, usecase.UpsertMatchRevenueInput{
		ActorID:     principal.UserID,
		GroupID:     req.GroupID,
		MatchID:     req.MatchID,
		Total:       req.Total,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		h.fail(ctx, w, "upsert match revenue failed", err, "match_id", req.MatchID)
		return
	}

	out := upsertMatchRevenueDTO{Deleted: !written}
	if written {
		dto := transactionToDTO(t)
		out.Transaction = &dto
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *Handler) ListMonthlyFees(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMonthlyFees")
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
	month, err := requiredQuery(r, "month")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.financeService.ListMonthlyFees(ctx, principal.UserID, groupID, month)
	if err != nil {
		h.fail(ctx, w, "list monthly fees failed", err, "group_id", groupID, "month", month)
		return
	}

	out := make([]monthlyFeeStatusDTO, 0, len(items))
	for _, s := range items {
		out = append(out, monthlyFeeStatusToDTO(s))
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *Handler) ToggleMonthlyFee(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleMonthlyFee")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req toggleMonthlyFeeRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.financeService.ToggleMonthlyFee(ctx, usecase.MonthlyFeeInput{
		ActorID:  principal.UserID,
		GroupID:  req.GroupID,
		PlayerID: req.PlayerID,
		Month:    req.Month,
	})
	if err != nil {
		h.fail(ctx, w, "toggle monthly fee failed", err, "group_id", req.GroupID, "player_id", req.PlayerID)
		return
	}

	writeSuccess(w, http.StatusOK, monthlyFeeToggleDTO{
		Status:    monthlyFeeStatusToDTO(res.Status),
		PaidCount: res.PaidCount,
		Aggregate: res.Aggregate,
	})
}

func (h *Handler) ReconcileFinance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReconcileFinance")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	groupID := pathID(r)
	res, err := h.financeService.Reconcile(ctx, principal.UserID, groupID)
	if err != nil {
		h.fail(ctx, w, "reconcile finance failed", err, "group_id", groupID)
		return
	}

	h.logger.InfoContext(ctx, "finance reconciled",
		"group_id", groupID,
		"success_count", res.SuccessCount,
		"failed_count", res.FailedCount,
	)
	writeSuccess(w, http.StatusOK, reconcileToDTO(res))
}

func ledgerQueryOf(r *http.Request) (usecase.LedgerQuery, error) {
	principal, err := requirePrincipal(r.Context())
	if err != nil {
		return usecase.LedgerQuery{}, err
	}
	groupID, err := requiredQuery(r, "groupId")
	if err != nil {
		return usecase.LedgerQuery{}, err
	}
	return usecase.LedgerQuery{
		ActorID: principal.UserID,
		GroupID: groupID,
		From:    queryValue(r, "from"),
		To:      queryValue(r, "to"),
	}, nil
}

func transactionInputOf(actorID, transactionID string, req transactionRequest) usecase.TransactionInput {
	return usecase.TransactionInput{
		ActorID:         actorID,
		GroupID:         req.GroupID,
		TransactionID:   transactionID,
		Type:            req.Type,
		Category:        req.Category,
		Description:     req.Description,
		Amount:          req.Amount,
		Date:            req.Date,
		RelatedPlayerID: req.RelatedPlayerID,
		RelatedMatchID:  req.RelatedMatchID,
	}
}
