package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/futgol/internal/app"
	"github.com/riskibarqy/futgol/internal/config"
	"github.com/riskibarqy/futgol/internal/infrastructure/account/password"
	idgen "github.com/riskibarqy/futgol/internal/platform/id"
	"github.com/riskibarqy/futgol/internal/platform/logging"
	"github.com/riskibarqy/futgol/internal/usecase"
)

func main() {
	path := flag.String("file", "db/seed/pelada.yaml", "seed file to load")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).Named("seed")
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *path); err != nil {
		logger.Error("seed failed", "file", *path, "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.Logger, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	file, err := parseSeed(f)
	if err != nil {
		return err
	}

	// Seeding writes straight to storage; a cache in front would only hold
	// stale misses.
	cfg.CacheEnabled = false
	repos, closeRepos, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepos(); err != nil {
			logger.Warn("close repositories failed", "error", err)
		}
	}()

	report, err := newSeeder(repos, cfg.FinanceWorkers, logger).apply(ctx, file)
	if err != nil {
		return err
	}

	logger.Info("seed applied",
		"file", path,
		"storage", cfg.StorageDriver,
		"users", report.Users,
		"groups", report.Groups,
		"fields", report.Fields,
		"players", report.Players,
		"matches", report.Matches,
		"skipped", report.Skipped,
	)
	return nil
}

func newSeeder(repos app.Repositories, workers int, logger *logging.Logger) *seeder {
	return &seeder{
		repos:  repos,
		hasher: password.NewBcryptHasher(bcrypt.DefaultCost),
		finance: usecase.NewFinanceService(usecase.FinanceRepositories{
			Groups:       repos.Groups,
			Players:      repos.Players,
			Fields:       repos.Fields,
			Matches:      repos.Matches,
			Transactions: repos.Transactions,
			MonthlyFees:  repos.MonthlyFees,
		}, workers, idgen.NewUUIDGenerator(), logger),
		logger: logger,
		now:    time.Now,
	}
}
