package app

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/futgol/internal/config"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/infrastructure/account/password"
	"github.com/riskibarqy/futgol/internal/infrastructure/account/token"
	"github.com/riskibarqy/futgol/internal/infrastructure/balancer"
	"github.com/riskibarqy/futgol/internal/interfaces/httpapi"
	"github.com/riskibarqy/futgol/internal/observability"
	idgen "github.com/riskibarqy/futgol/internal/platform/id"
	"github.com/riskibarqy/futgol/internal/platform/logging"
	"github.com/riskibarqy/futgol/internal/platform/resilience"
	"github.com/riskibarqy/futgol/internal/usecase"
)

// NewHTTPServer wires storage, services and the router. The returned close
// func must run after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, closeRepos, err := OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	router := NewRouter(cfg, repos, logger)
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeRepos, nil
}

// NewRouter builds every service on top of repos and returns the HTTP handler.
func NewRouter(cfg config.Config, repos Repositories, logger *logging.Logger) http.Handler {
	tokens := token.NewManager(cfg.AuthJWTSecret, cfg.AuthAccessTTL, cfg.AuthInviteTTL)
	ids := idgen.NewUUIDGenerator()

	authSvc := usecase.NewAuthService(repos.Users, repos.Players, repos.Groups, tokens, password.NewBcryptHasher(bcrypt.DefaultCost), logger)
	groupSvc := usecase.NewGroupService(usecase.GroupRepositories{
		Groups:       repos.Groups,
		Players:      repos.Players,
		Fields:       repos.Fields,
		Matches:      repos.Matches,
		Transactions: repos.Transactions,
		MonthlyFees:  repos.MonthlyFees,
		Comments:     repos.Comments,
		Users:        repos.Users,
	}, tokens, ids, logger)
	playerSvc := usecase.NewPlayerService(usecase.PlayerRepositories{
		Groups:       repos.Groups,
		Players:      repos.Players,
		Fields:       repos.Fields,
		Matches:      repos.Matches,
		Transactions: repos.Transactions,
	}, ids, logger)
	fieldSvc := usecase.NewFieldService(repos.Groups, repos.Fields, repos.Matches, ids, logger)
	matchSvc := usecase.NewMatchService(usecase.MatchRepositories{
		Groups:       repos.Groups,
		Players:      repos.Players,
		Fields:       repos.Fields,
		Matches:      repos.Matches,
		Transactions: repos.Transactions,
		Comments:     repos.Comments,
	}, newTeamBalancer(cfg, logger), ids, logger)
	financeSvc := usecase.NewFinanceService(usecase.FinanceRepositories{
		Groups:       repos.Groups,
		Players:      repos.Players,
		Fields:       repos.Fields,
		Matches:      repos.Matches,
		Transactions: repos.Transactions,
		MonthlyFees:  repos.MonthlyFees,
	}, cfg.FinanceWorkers, ids, logger)
	commentSvc := usecase.NewCommentService(repos.Groups, repos.Players, repos.Matches, repos.Comments, ids, logger)
	overviewSvc := usecase.NewOverviewService(repos.Groups, repos.Players, repos.Fields, repos.Matches, repos.Transactions)

	handler := httpapi.NewHandler(
		authSvc,
		groupSvc,
		playerSvc,
		fieldSvc,
		matchSvc,
		financeSvc,
		commentSvc,
		overviewSvc,
		logger,
	)

	var (
		recorder       httpapi.RequestRecorder
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		metrics := observability.NewHTTPMetrics(cfg.ServiceName)
		recorder = metrics
		metricsHandler = metrics.Handler()
	}

	return httpapi.NewRouter(handler, authSvc, logger, cfg.CORSAllowedOrigins, recorder, metricsHandler)
}

func newTeamBalancer(cfg config.Config, logger *logging.Logger) match.TeamBalancer {
	if cfg.BalancerProvider != config.BalancerGemini {
		logger.Info("team balancer ready", "provider", config.BalancerLocal)
		return balancer.NewLocalBalancer()
	}

	logger.Info("team balancer ready", "provider", config.BalancerGemini, "model", cfg.BalancerModel)
	return balancer.NewGeminiClient(balancer.GeminiConfig{
		BaseURL: cfg.BalancerBaseURL,
		Model:   cfg.BalancerModel,
		APIKey:  cfg.BalancerAPIKey,
		Timeout: cfg.BalancerTimeout,
		Logger:  logger.Named("balancer"),
		CircuitBreaker: resilience.Config{
			Enabled:          cfg.BalancerCircuitEnabled,
			FailureThreshold: cfg.BalancerCircuitFailures,
			OpenTimeout:      cfg.BalancerCircuitOpenTime,
			HalfOpenProbes:   cfg.BalancerCircuitHalfOpen,
		},
	})
}
