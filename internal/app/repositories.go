package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/futgol/internal/config"
	"github.com/riskibarqy/futgol/internal/domain/comment"
	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/finance"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	"github.com/riskibarqy/futgol/internal/domain/player"
	"github.com/riskibarqy/futgol/internal/domain/user"
	cacherepo "github.com/riskibarqy/futgol/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/futgol/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/futgol/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/futgol/internal/platform/cache"
	"github.com/riskibarqy/futgol/internal/platform/logging"
)

// Repositories is the full persistence surface used by the services and
// the seed command.
type Repositories struct {
	Users        user.Repository
	Groups       group.Repository
	Players      player.Repository
	Fields       field.Repository
	Matches      match.Repository
	Transactions finance.TransactionRepository
	MonthlyFees  finance.MonthlyFeeRepository
	Comments     comment.Repository
}

// OpenRepositories builds the configured storage driver and, when enabled,
// wraps the hot read paths with the cache decorators. The returned close
// func releases the database and redis handles.
func OpenRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (Repositories, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		repos   Repositories
		closers []func() error
	)
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return Repositories{}, nil, err
		}
		closers = append(closers, db.Close)
		repos = postgresRepositories(db)
		logger.Info("storage ready", "driver", config.StoragePostgres, "db_name", dbNameFromURL(cfg.DBURL))
	default:
		repos = memoryRepositories()
		logger.Info("storage ready", "driver", config.StorageMemory)
	}

	if !cfg.CacheEnabled {
		return repos, closeAll, nil
	}

	store, closeStore, err := openCacheStore(ctx, cfg, logger)
	if err != nil {
		_ = closeAll()
		return Repositories{}, nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}
	repos.Groups = cacherepo.NewGroupRepository(repos.Groups, store)
	repos.Players = cacherepo.NewPlayerRepository(repos.Players, store)
	repos.Fields = cacherepo.NewFieldRepository(repos.Fields, store)
	logger.Info("repository cache enabled", "driver", cfg.CacheDriver, "ttl", cfg.CacheTTL.String())

	return repos, closeAll, nil
}

func memoryRepositories() Repositories {
	return Repositories{
		Users:        memory.NewUserRepository(nil),
		Groups:       memory.NewGroupRepository(nil),
		Players:      memory.NewPlayerRepository(nil),
		Fields:       memory.NewFieldRepository(nil),
		Matches:      memory.NewMatchRepository(nil),
		Transactions: memory.NewTransactionRepository(nil),
		MonthlyFees:  memory.NewMonthlyFeeRepository(),
		Comments:     memory.NewCommentRepository(),
	}
}

func postgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Users:        postgres.NewUserRepository(db),
		Groups:       postgres.NewGroupRepository(db),
		Players:      postgres.NewPlayerRepository(db),
		Fields:       postgres.NewFieldRepository(db),
		Matches:      postgres.NewMatchRepository(db),
		Transactions: postgres.NewTransactionRepository(db),
		MonthlyFees:  postgres.NewMonthlyFeeRepository(db),
		Comments:     postgres.NewCommentRepository(db),
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(dbNameFromURL(cfg.DBURL)))

	return db, nil
}

func openCacheStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*cache.Store, func() error, error) {
	if cfg.CacheDriver != config.CacheRedis {
		return cache.NewStore(cache.NewMemoryBackend(), cfg.CacheTTL, logger), nil, nil
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open redis cache: %w", err)
	}
	store := cache.NewStore(cache.NewRedisBackend(rdb, cfg.ServiceName), cfg.CacheTTL, logger)
	return store, rdb.Close, nil
}
