package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/riskibarqy/futgol/internal/platform/logging"
)

var errUsage = errors.New("usage")

// migrator is the part of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Migrate(version uint) error
	Force(version int) error
	Version() (uint, bool, error)
}

type command struct {
	args string
	help string
	run  func(m migrator, logger *logging.Logger, args []string, out io.Writer) error
}

var commandOrder = []string{"up", "down", "goto", "force", "version"}

var commands = map[string]command{
	"up": {
		help: "apply every pending migration",
		run: func(m migrator, logger *logging.Logger, _ []string, _ io.Writer) error {
			if err := ignoreNoChange(m.Up(), logger); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			logger.Info("migrations applied")
			return nil
		},
	},
	"down": {
		args: "[n]",
		help: "roll back n migrations (default 1)",
		run: func(m migrator, logger *logging.Logger, args []string, _ io.Writer) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
				return fmt.Errorf("migrate down %d: %w", steps, err)
			}
			logger.Info("migrations rolled back", "steps", steps)
			return nil
		},
	},
	"goto": {
		args: "<v>",
		help: "migrate up or down to version v",
		run: func(m migrator, logger *logging.Logger, args []string, _ io.Writer) error {
			target, err := parseTarget(args)
			if err != nil {
				return err
			}
			if err := ignoreNoChange(m.Migrate(target), logger); err != nil {
				return fmt.Errorf("migrate to %d: %w", target, err)
			}
			logger.Info("migrated", "version", target)
			return nil
		},
	},
	"force": {
		args: "<v>",
		help: "set version v and clear the dirty flag without migrating",
		run: func(m migrator, logger *logging.Logger, args []string, _ io.Writer) error {
			version, err := parseVersion(args)
			if err != nil {
				return err
			}
			if err := m.Force(version); err != nil {
				return fmt.Errorf("force version %d: %w", version, err)
			}
			logger.Info("migration version forced", "version", version)
			return nil
		},
	},
	"version": {
		help: "print the applied version and dirty flag",
		run: func(m migrator, _ *logging.Logger, _ []string, out io.Writer) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				_, err = fmt.Fprintln(out, "version: none\ndirty: false")
				return err
			}
			if err != nil {
				return fmt.Errorf("read version: %w", err)
			}
			_, err = fmt.Fprintf(out, "version: %d\ndirty: %t\n", version, dirty)
			return err
		},
	},
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || steps <= 0 {
		return 0, fmt.Errorf("%w: down steps must be a positive integer, got %q", errUsage, args[0])
	}
	return steps, nil
}

func parseVersion(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: force requires a version", errUsage)
	}
	v, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || v < -1 {
		return 0, fmt.Errorf("%w: invalid version %q", errUsage, args[0])
	}
	return v, nil
}

func parseTarget(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: goto requires a version", errUsage)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid target version %q", errUsage, args[0])
	}
	return uint(v), nil
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}
