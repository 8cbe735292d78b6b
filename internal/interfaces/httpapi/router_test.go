package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/futgol/internal/infrastructure/account/password"
	"github.com/riskibarqy/futgol/internal/infrastructure/account/token"
	"github.com/riskibarqy/futgol/internal/infrastructure/balancer"
	"github.com/riskibarqy/futgol/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/futgol/internal/platform/id"
	"github.com/riskibarqy/futgol/internal/platform/logging"
	"github.com/riskibarqy/futgol/internal/usecase"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (f *fakeRecorder) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, recordedRequest{method: method, route: route, status: status})
}

func (f *fakeRecorder) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.seen) == 0 {
		return recordedRequest{}
	}
	return f.seen[len(f.seen)-1]
}

func newTestRouter(t *testing.T) (http.Handler, *fakeRecorder) {
	t.Helper()

	users := memory.NewUserRepository(nil)
	groups := memory.NewGroupRepository(nil)
	players := memory.NewPlayerRepository(nil)
	fields := memory.NewFieldRepository(nil)
	matches := memory.NewMatchRepository(nil)
	transactions := memory.NewTransactionRepository(nil)
	fees := memory.NewMonthlyFeeRepository()
	comments := memory.NewCommentRepository()

	tokens := token.NewManager("router-test-secret", time.Hour, 0)
	ids := idgen.NewSequenceGenerator("t")
	logger := logging.NewNop()

	authService := usecase.NewAuthService(users, players, groups, tokens, password.NewBcryptHasher(4), logger)
	groupService := usecase.NewGroupService(usecase.GroupRepositories{
		Groups:       groups,
		Players:      players,
		Fields:       fields,
		Matches:      matches,
		Transactions: transactions,
		MonthlyFees:  fees,
		Comments:     comments,
		Users:        users,
	}, tokens, ids, logger)
	playerService := usecase.NewPlayerService(usecase.PlayerRepositories{
		Groups:       groups,
		Players:      players,
		Fields:       fields,
		Matches:      matches,
		Transactions: transactions,
	}, ids, logger)
	fieldService := usecase.NewFieldService(groups, fields, matches, ids, logger)
	matchService := usecase.NewMatchService(usecase.MatchRepositories{
		Groups:       groups,
		Players:      players,
		Fields:       fields,
		Matches:      matches,
		Transactions: transactions,
		Comments:     comments,
	}, balancer.NewLocalBalancer(), ids, logger)
	financeService := usecase.NewFinanceService(usecase.FinanceRepositories{
		Groups:       groups,
		Players:      players,
		Fields:       fields,
		Matches:      matches,
		Transactions: transactions,
		MonthlyFees:  fees,
	}, 2, ids, logger)
	commentService := usecase.NewCommentService(groups, players, matches, comments, ids, logger)
	overviewService := usecase.NewOverviewService(groups, players, fields, matches, transactions)

	handler := NewHandler(
		authService,
		groupService,
		playerService,
		fieldService,
		matchService,
		financeService,
		commentService,
		overviewService,
		logger,
	)
	recorder := &fakeRecorder{}
	return NewRouter(handler, authService, logger, []string{"*"}, recorder, nil), recorder
}

func doJSON(t *testing.T, router http.Handler, method, path, accessToken string, payload any) (int, map[string]any) {
	t.Helper()

	var body *bytes.Reader
	if payload == nil {
		body = bytes.NewReader(nil)
	} else {
		raw, err := sonic.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal %s %s response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func errorStatusOf(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	status, _ := errObj["status"].(string)
	return status
}

func registerUser(t *testing.T, router http.Handler, name, email, phone string) (string, string) {
	t.Helper()

	status, body := doJSON(t, router, http.MethodPost, "/api/auth/register/", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "segredo123",
		"phone":    phone,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status=%d body=%v", email, status, body)
	}
	data := dataOf(t, body)
	u := data["user"].(map[string]any)
	return u["id"].(string), data["accessToken"].(string)
}

func TestRouter_GroupMatchFlow(t *testing.T) {
	t.Parallel()

	router, recorder := newTestRouter(t)
	_, ownerToken := registerUser(t, router, "Carlos Silva", "carlos@example.com", "(11) 99999-0001")
	memberID, memberToken := registerUser(t, router, "Bruno Lima", "bruno@example.com", "11999990002")

	status, body := doJSON(t, router, http.MethodPost, "/api/groups/", ownerToken, map[string]any{
		"name":        "Pelada dos Amigos",
		"city":        "Sao Paulo",
		"paymentMode": "split",
	})
	if status != http.StatusCreated {
		t.Fatalf("create group: status=%d body=%v", status, body)
	}
	group := dataOf(t, body)
	groupID := group["id"].(string)
	inviteCode, _ := group["inviteCode"].(string)
	if inviteCode == "" {
		t.Fatalf("owner should see the invite code, got %v", group)
	}
	if got := recorder.last().route; got != "POST /api/groups/{$}" {
		t.Fatalf("metrics route=%q", got)
	}

	status, body = doJSON(t, router, http.MethodGet, "/api/groups/"+groupID+"/", memberToken, nil)
	if status != http.StatusForbidden || errorStatusOf(body) != "PERMISSION_DENIED" {
		t.Fatalf("outsider get group: status=%d body=%v", status, body)
	}

	status, body = doJSON(t, router, http.MethodPost, "/api/groups/join_with_invite/", memberToken, map[string]any{
		"inviteCode": inviteCode,
	})
	if status != http.StatusOK {
		t.Fatalf("join with invite: status=%d body=%v", status, body)
	}
	if _, ok := dataOf(t, body)["inviteCode"]; ok {
		t.Fatalf("non-admin must not see the invite code")
	}

	status, body = doJSON(t, router, http.MethodPost, "/api/fields/", ownerToken, map[string]any{
		"groupId":    groupID,
		"name":       "Arena Society",
		"location":   "Rua das Flores, 10",
		"hourlyRate": 200,
	})
	if status != http.StatusCreated {
		t.Fatalf("create field: status=%d body=%v", status, body)
	}
	fieldID := dataOf(t, body)["id"].(string)

	status, body = doJSON(t, router, http.MethodPost, "/api/matches/", ownerToken, map[string]any{
		"groupId": groupID,
		"date":    "2026-11-07",
		"time":    "09:00",
		"fieldId": fieldID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create match: status=%d body=%v", status, body)
	}
	matchID := dataOf(t, body)["id"].(string)

	status, body = doJSON(t, router, http.MethodGet, "/api/players/?groupId="+groupID, memberToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list players: status=%d body=%v", status, body)
	}
	roster, _ := body["data"].([]any)
	if len(roster) != 2 {
		t.Fatalf("expected owner and member players, got %d", len(roster))
	}
	var memberPlayerID string
	for _, item := range roster {
		p := item.(map[string]any)
		if p["userId"] == memberID {
			memberPlayerID = p["id"].(string)
		}
	}
	if memberPlayerID == "" {
		t.Fatalf("member player not found in %v", roster)
	}

	status, body = doJSON(t, router, http.MethodPost, "/api/matches/"+matchID+"/presence/", memberToken, map[string]any{
		"playerId": memberPlayerID,
	})
	if status != http.StatusOK {
		t.Fatalf("toggle presence: status=%d body=%v", status, body)
	}
	m := dataOf(t, body)
	if confirmed, _ := m["confirmedPlayerIds"].([]any); len(confirmed) != 1 {
		t.Fatalf("expected one confirmed player, got %v", m["confirmedPlayerIds"])
	}
	if got := m["costPerPerson"]; got != "200" {
		t.Fatalf("split cost with one confirmed player=%v want 200", got)
	}

	status, body = doJSON(t, router, http.MethodPost, "/api/matches/"+matchID+"/finalize/", memberToken, map[string]any{
		"scoreA": 1,
		"scoreB": 0,
	})
	if status != http.StatusForbidden {
		t.Fatalf("member finalize: status=%d body=%v", status, body)
	}

	status, body = doJSON(t, router, http.MethodPost, "/api/matches/"+matchID+"/finalize/", ownerToken, map[string]any{
		"scoreA": 3,
		"scoreB": 2,
		"mvpId":  memberPlayerID,
	})
	if status != http.StatusOK {
		t.Fatalf("finalize: status=%d body=%v", status, body)
	}
	if finished, _ := dataOf(t, body)["finished"].(bool); !finished {
		t.Fatalf("expected finished match, got %v", body)
	}

	status, body = doJSON(t, router, http.MethodPost, "/api/matches/"+matchID+"/presence/", memberToken, map[string]any{
		"playerId": memberPlayerID,
	})
	if status != http.StatusConflict || errorStatusOf(body) != "FAILED_PRECONDITION" {
		t.Fatalf("presence on finished match: status=%d body=%v", status, body)
	}

	status, body = doJSON(t, router, http.MethodGet, "/api/groups/"+groupID+"/overview/", memberToken, nil)
	if status != http.StatusOK {
		t.Fatalf("overview: status=%d body=%v", status, body)
	}
	overview := dataOf(t, body)
	if finished, _ := overview["finished"].([]any); len(finished) != 1 {
		t.Fatalf("expected one finished match in overview, got %v", overview["finished"])
	}
	ledger := overview["ledger"].(map[string]any)
	if ledger["expense"] != "200" || ledger["balance"] != "-200" {
		t.Fatalf("expected field rent booked as expense, got %v", ledger)
	}
	if got := recorder.last().route; got != "GET /api/groups/{id}/overview/{$}" {
		t.Fatalf("metrics route=%q", got)
	}
}

func TestRouter_AuthAndValidationErrors(t *testing.T) {
	t.Parallel()

	router, recorder := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodGet, "/api/auth/me/", "", nil)
	if status != http.StatusUnauthorized || errorStatusOf(body) != "UNAUTHENTICATED" {
		t.Fatalf("missing token: status=%d body=%v", status, body)
	}

	status, _ = doJSON(t, router, http.MethodGet, "/api/auth/me/", "not-a-jwt", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("garbage token: status=%d", status)
	}

	userID, accessToken := registerUser(t, router, "Ana Souza", "ana@example.com", "21988887777")
	status, body = doJSON(t, router, http.MethodGet, "/api/auth/me/", accessToken, nil)
	if status != http.StatusOK || dataOf(t, body)["id"] != userID {
		t.Fatalf("me: status=%d body=%v", status, body)
	}

	status, body = doJSON(t, router, http.MethodPost, "/api/auth/login/", "", map[string]any{
		"identifier": "ana@example.com",
		"password":   "segredo123",
		"unexpected": true,
	})
	if status != http.StatusBadRequest || errorStatusOf(body) != "INVALID_ARGUMENT" {
		t.Fatalf("unknown field: status=%d body=%v", status, body)
	}

	status, body = doJSON(t, router, http.MethodPost, "/api/auth/login/", "", map[string]any{
		"identifier":       "21988887777",
		"password":         "segredo123",
		"accessTtlMinutes": 2,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("ttl below minimum: status=%d body=%v", status, body)
	}

	status, body = doJSON(t, router, http.MethodPost, "/api/auth/login/", "", map[string]any{
		"identifier": "21988887777",
		"password":   "segredo123",
	})
	if status != http.StatusOK {
		t.Fatalf("login by phone: status=%d body=%v", status, body)
	}

	status, body = doJSON(t, router, http.MethodGet, "/api/players/", accessToken, nil)
	if status != http.StatusBadRequest || !strings.Contains(body["error"].(map[string]any)["message"].(string), "groupId") {
		t.Fatalf("missing groupId: status=%d body=%v", status, body)
	}

	status, body = doJSON(t, router, http.MethodGet, "/api/accounts/lookup_by_phone/?phone=21988887777", "", nil)
	if status != http.StatusOK || dataOf(t, body)["source"] != "profile" {
		t.Fatalf("lookup by phone: status=%d body=%v", status, body)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: status=%d", rec.Code)
	}
	if got := recorder.last(); got.route != "unmatched" || got.status != http.StatusNotFound {
		t.Fatalf("unexpected metrics for unmatched route: %+v", got)
	}
}

func TestRouter_HealthAndRecover(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	for _, path := range []string{"/healthz", "/api/health/"} {
		status, body := doJSON(t, router, http.MethodGet, path, "", nil)
		if status != http.StatusOK || dataOf(t, body)["status"] != "ok" {
			t.Fatalf("%s: status=%d body=%v", path, status, body)
		}
	}

	panicking := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/groups/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}
