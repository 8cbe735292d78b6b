package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/riskibarqy/futgol/internal/app"
	"github.com/riskibarqy/futgol/internal/config"
	"github.com/riskibarqy/futgol/internal/platform/logging"
)

var defaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

func main() {
	dir := flag.String("dir", os.Getenv("MIGRATIONS_DIR"), "migrations directory (default ./db/migrations or /app/db/migrations)")
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() == 0 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).Named("migration")
	defer func() { _ = logger.Sync() }()

	name, args := flag.Arg(0), flag.Args()[1:]
	if err := run(cfg, logger, *dir, name, args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			printUsage()
			os.Exit(2)
		}
		logger.Error("migration failed", "command", name, "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.Logger, dir, name string, args []string) error {
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
	if strings.TrimSpace(cfg.DBURL) == "" {
		return errors.New("DB_URL is required")
	}

	migrationsDir, err := resolveMigrationsDir(dir)
	if err != nil {
		return err
	}
	sourceURL := "file://" + filepath.ToSlash(migrationsDir)
	m, err := migrate.New(sourceURL, app.NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrator failed", "error", err)
		}
	}()

	logger.Debug("migration source resolved", "source", sourceURL)
	return cmd.run(m, logger.With("command", name), args, os.Stdout)
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := defaultMigrationDirs
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		candidates = []string{explicit}
	}

	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found (checked %s)", strings.Join(candidates, ", "))
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s [-dir path] <command> [args]\n\ncommands:\n", name)
	for _, key := range commandOrder {
		fmt.Fprintf(os.Stderr, "  %-18s %s\n", key+" "+commands[key].args, commands[key].help)
	}
}
