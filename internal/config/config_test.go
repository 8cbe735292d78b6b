package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolateEnv keeps a stray .env in the package dir from leaking into tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_DOTENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("APP_ENV", EnvDev)
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory || cfg.CacheDriver != CacheMemory || cfg.BalancerProvider != BalancerLocal {
		t.Fatalf("unexpected drivers: storage=%s cache=%s balancer=%s", cfg.StorageDriver, cfg.CacheDriver, cfg.BalancerProvider)
	}
	if cfg.AuthInviteTTL != 168*time.Hour {
		t.Fatalf("unexpected AuthInviteTTL: %s", cfg.AuthInviteTTL)
	}
	if cfg.FinanceWorkers != 4 || !cfg.MetricsEnabled {
		t.Fatalf("unexpected defaults: workers=%d metrics=%v", cfg.FinanceWorkers, cfg.MetricsEnabled)
	}
	if cfg.PyroscopeAppName != cfg.ServiceName {
		t.Fatalf("expected pyroscope app name to default to service name, got %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_ENV", "invalid")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_ProdRequiresJWTSecret(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("AUTH_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when prod runs with the default JWT secret")
	}

	t.Setenv("AUTH_JWT_SECRET", "a-real-secret")
	if _, err := Load(); err != nil {
		t.Fatalf("load config with secret: %v", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "redis cache without url", env: map[string]string{"CACHE_DRIVER": "redis", "REDIS_URL": ""}},
		{name: "gemini without api key", env: map[string]string{"BALANCER_PROVIDER": "gemini", "BALANCER_API_KEY": ""}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": "", "OTEL_EXPORTER_OTLP_HEADERS": ""}},
		{name: "pyroscope without address", env: map[string]string{"PYROSCOPE_ENABLED": "true", "PYROSCOPE_SERVER_ADDRESS": ""}},
		{name: "zero finance workers", env: map[string]string{"FINANCE_WORKERS": "0"}},
		{name: "unknown log format", env: map[string]string{"APP_LOG_FORMAT": "xml"}},
		{name: "bad cache ttl", env: map[string]string{"CACHE_TTL": "soon"}},
		{name: "negative access ttl", env: map[string]string{"AUTH_ACCESS_TTL": "-1h"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	isolateEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_ReadsDotenvWithoutOverridingEnv(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	content := "FINANCE_WORKERS=7\nAPP_SERVICE_NAME=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("APP_DOTENV_PATH", path)
	t.Setenv("APP_SERVICE_NAME", "from-env")
	// Registered so the value written by the dotenv loader is restored afterwards.
	t.Setenv("FINANCE_WORKERS", "")
	if err := os.Unsetenv("FINANCE_WORKERS"); err != nil {
		t.Fatalf("unset FINANCE_WORKERS: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FinanceWorkers != 7 {
		t.Fatalf("expected FINANCE_WORKERS from dotenv, got %d", cfg.FinanceWorkers)
	}
	if cfg.ServiceName != "from-env" {
		t.Fatalf("expected process env to win, got %q", cfg.ServiceName)
	}
}

func TestSplitCSV(t *testing.T) {
	t.Parallel()

	got := splitCSV(" https://a.example.com, ,https://b.example.com ")
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Fatalf("unexpected split: %#v", got)
	}
}
