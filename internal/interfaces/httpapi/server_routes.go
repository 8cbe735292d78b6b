package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsHandler http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /api/health/{$}", handler.Healthz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/auth/register/{$}", handler.Register)
	mux.HandleFunc("POST /api/auth/login/{$}", handler.Login)
	mux.HandleFunc("GET /api/accounts/lookup_by_phone/{$}", handler.LookupByPhone)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedAccountRoutes(mux, handler, verifier)
	registerAuthorizedGroupRoutes(mux, handler, verifier)
	registerAuthorizedRosterRoutes(mux, handler, verifier)
	registerAuthorizedMatchRoutes(mux, handler, verifier)
	registerAuthorizedFinanceRoutes(mux, handler, verifier)
	registerAuthorizedCommentRoutes(mux, handler, verifier)
}

func registerAuthorizedAccountRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/auth/me/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
	mux.Handle("PUT /api/auth/me/{$}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMe)))
}

func registerAuthorizedGroupRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/groups/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ListGroups)))
	mux.Handle("POST /api/groups/{$}", RequireAuth(verifier, http.HandlerFunc(handler.CreateGroup)))
	mux.Handle("POST /api/groups/join_with_invite/{$}", RequireAuth(verifier, http.HandlerFunc(handler.JoinWithInvite)))
	mux.Handle("GET /api/groups/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GetGroup)))
	mux.Handle("PUT /api/groups/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateGroup)))
	mux.Handle("DELETE /api/groups/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteGroup)))
	mux.Handle("GET /api/groups/{id}/overview/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GetGroupOverview)))
	mux.Handle("POST /api/groups/{id}/request_join/{$}", RequireAuth(verifier, http.HandlerFunc(handler.RequestJoin)))
	mux.Handle("POST /api/groups/{id}/cancel_request/{$}", RequireAuth(verifier, http.HandlerFunc(handler.CancelRequest)))
	mux.Handle("POST /api/groups/{id}/approve_request/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ApproveRequest)))
	mux.Handle("POST /api/groups/{id}/reject_request/{$}", RequireAuth(verifier, http.HandlerFunc(handler.RejectRequest)))
	mux.Handle("POST /api/groups/{id}/remove_member/{$}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveMember)))
	mux.Handle("POST /api/groups/{id}/promote_member/{$}", RequireAuth(verifier, http.HandlerFunc(handler.PromoteMember)))
	mux.Handle("POST /api/groups/{id}/demote_member/{$}", RequireAuth(verifier, http.HandlerFunc(handler.DemoteMember)))
	mux.Handle("POST /api/groups/{id}/leave/{$}", RequireAuth(verifier, http.HandlerFunc(handler.LeaveGroup)))
	mux.Handle("POST /api/groups/{id}/generate_invite/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GenerateInvite)))
	mux.Handle("POST /api/groups/{id}/finance/reconcile/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ReconcileFinance)))
}

func registerAuthorizedRosterRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/players/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("POST /api/players/{$}", RequireAuth(verifier, http.HandlerFunc(handler.CreatePlayer)))
	mux.Handle("GET /api/players/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayer)))
	mux.Handle("PUT /api/players/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePlayer)))
	mux.Handle("DELETE /api/players/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.DeletePlayer)))

	mux.Handle("GET /api/fields/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ListFields)))
	mux.Handle("POST /api/fields/{$}", RequireAuth(verifier, http.HandlerFunc(handler.CreateField)))
	mux.Handle("GET /api/fields/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GetField)))
	mux.Handle("PUT /api/fields/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateField)))
	mux.Handle("DELETE /api/fields/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteField)))
}

func registerAuthorizedMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/matches/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("POST /api/matches/{$}", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("GET /api/matches/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GetMatch)))
	mux.Handle("PUT /api/matches/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("DELETE /api/matches/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))
	mux.Handle("POST /api/matches/{id}/presence/{$}", RequireAuth(verifier, http.HandlerFunc(handler.TogglePresence)))
	mux.Handle("POST /api/matches/{id}/payment/{$}", RequireAuth(verifier, http.HandlerFunc(handler.TogglePayment)))
	mux.Handle("POST /api/matches/{id}/generate_teams/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GenerateTeams)))
	mux.Handle("POST /api/matches/{id}/finalize/{$}", RequireAuth(verifier, http.HandlerFunc(handler.FinalizeMatch)))
	mux.Handle("POST /api/matches/{id}/reopen/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ReopenMatch)))
}

func registerAuthorizedFinanceRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/transactions/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ListTransactions)))
	mux.Handle("POST /api/transactions/{$}", RequireAuth(verifier, http.HandlerFunc(handler.CreateTransaction)))
	mux.Handle("POST /api/transactions/upsert_match/{$}", RequireAuth(verifier, http.HandlerFunc(handler.UpsertMatchRevenue)))
	mux.Handle("GET /api/transactions/summary/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GetFinanceSummary)))
	mux.Handle("GET /api/transactions/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.GetTransaction)))
	mux.Handle("PUT /api/transactions/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTransaction)))
	mux.Handle("DELETE /api/transactions/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteTransaction)))

	mux.Handle("GET /api/monthly_fees/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ListMonthlyFees)))
	mux.Handle("POST /api/monthly_fees/toggle/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ToggleMonthlyFee)))
}

func registerAuthorizedCommentRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/comments/{$}", RequireAuth(verifier, http.HandlerFunc(handler.ListComments)))
	mux.Handle("POST /api/comments/{$}", RequireAuth(verifier, http.HandlerFunc(handler.CreateComment)))
	mux.Handle("PUT /api/comments/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateComment)))
	mux.Handle("DELETE /api/comments/{id}/{$}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteComment)))
}
