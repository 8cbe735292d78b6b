package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/futgol/internal/domain/user"
	"github.com/riskibarqy/futgol/internal/usecase"
)

type stubVerifier struct {
	principal user.Principal
	err       error
	gotToken  string
}

func (s *stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	s.gotToken = token
	return s.principal, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"https://pelada.example.com"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/groups/", nil)
	req.Header.Set("Origin", "https://pelada.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://pelada.example.com" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("unexpected Vary: %q", got)
	}
}

func TestCORS_OptionsPreflight(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"*"}, okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/matches/m-1/presence/", nil)
	req.Header.Set("Origin", "https://pelada.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
}

func TestCORS_DisallowsUnconfiguredOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"https://allowed.example.com"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/groups/", nil)
	req.Header.Set("Origin", "https://not-allowed.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected empty Access-Control-Allow-Origin, got %q", got)
	}
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/healthz", "/health", "/livez", "/readyz", " /healthz ", "/api/health/", "/metrics"} {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
	for _, path := range []string{"/api/groups/", "/api/matches/m-1/", "/"} {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		verifyErr  error
		wantStatus int
		wantToken  string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer   ", wantStatus: http.StatusUnauthorized},
		{name: "verifier rejects", header: "Bearer expired", verifyErr: usecase.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantToken: "expired"},
		{name: "valid token", header: "bearer good-token", wantStatus: http.StatusOK, wantToken: "good-token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			verifier := &stubVerifier{principal: user.Principal{UserID: "11999990001"}, err: tc.verifyErr}
			var seen user.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				p, err := requirePrincipal(r.Context())
				if err != nil {
					t.Errorf("principal missing: %v", err)
				}
				seen = p
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			RequireAuth(verifier, next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status=%d want %d", rec.Code, tc.wantStatus)
			}
			if verifier.gotToken != tc.wantToken {
				t.Fatalf("verifier got token %q want %q", verifier.gotToken, tc.wantToken)
			}
			if tc.wantStatus == http.StatusOK && seen.UserID != "11999990001" {
				t.Fatalf("unexpected principal: %+v", seen)
			}
		})
	}
}

func TestRequirePrincipal_Missing(t *testing.T) {
	t.Parallel()

	if _, err := requirePrincipal(context.Background()); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestMetrics_RecordsCapturedRoute(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/fields/{id}/{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	recorder := &fakeRecorder{}
	handler := Metrics(recorder, captureRoute(mux))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/fields/f-9/", nil))

	got := recorder.last()
	if got.method != http.MethodDelete || got.route != "DELETE /api/fields/{id}/{$}" || got.status != http.StatusTeapot {
		t.Fatalf("unexpected observation: %+v", got)
	}
}

func TestMetrics_NilRecorderPassesThrough(t *testing.T) {
	t.Parallel()

	next := okHandler()
	rec := httptest.NewRecorder()
	Metrics(nil, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}
