package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/futgol/internal/config"
	"github.com/riskibarqy/futgol/internal/platform/logging"
)

func TestStart_AllDisabled(t *testing.T) {
	t.Parallel()

	cfgs := []config.Config{
		{ServiceName: "futgol-api", ServiceVersion: "dev", AppEnv: config.EnvDev},
		{UptraceEnabled: true, UptraceDSN: "  ", ServiceName: "futgol-api", AppEnv: config.EnvDev},
	}
	for _, cfg := range cfgs {
		stack, err := Start(context.Background(), cfg, logging.NewNop())
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if got := stack.Enabled(); len(got) != 0 {
			t.Fatalf("expected nothing enabled, got %v", got)
		}
		if err := stack.Shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}
}

func TestStart_PprofServesAndStops(t *testing.T) {
	t.Parallel()

	stack, err := Start(context.Background(), config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := stack.Enabled(); len(got) != 1 || got[0] != "pprof" {
		t.Fatalf("expected pprof enabled, got %v", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stack.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if got := stack.Enabled(); len(got) != 0 {
		t.Fatalf("expected stack to be empty after shutdown, got %v", got)
	}
}

func TestStart_PprofBadAddrFails(t *testing.T) {
	t.Parallel()

	_, err := Start(context.Background(), config.Config{PprofEnabled: true, PprofAddr: "not-an-addr"}, logging.NewNop())
	if err == nil || !strings.Contains(err.Error(), "start pprof") {
		t.Fatalf("expected pprof start error, got %v", err)
	}
}

func TestPprofMux(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "goroutine") {
		t.Fatalf("unexpected pprof index: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/debug/pprof/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for DELETE, got %d", rec.Code)
	}
}

func TestStack_ShutdownJoinsErrors(t *testing.T) {
	t.Parallel()

	var order []string
	errA := errors.New("a failed")
	s := &Stack{logger: logging.NewNop(), stops: []stopFunc{
		{name: "a", fn: func(context.Context) error { order = append(order, "a"); return errA }},
		{name: "b", fn: func(context.Context) error { order = append(order, "b"); return nil }},
	}}

	err := s.Shutdown(context.Background())
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error to wrap errA, got %v", err)
	}
	if strings.Join(order, ",") != "b,a" {
		t.Fatalf("expected reverse order, got %v", order)
	}

	var nilStack *Stack
	if err := nilStack.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil stack shutdown: %v", err)
	}
}
