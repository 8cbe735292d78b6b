// Package observability starts the process-wide telemetry of the API:
// Uptrace tracing, Pyroscope profiling, the private pprof listener and the
// Prometheus request metrics.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/futgol/internal/config"
	"github.com/riskibarqy/futgol/internal/platform/logging"
)

type stopFunc struct {
	name string
	fn   func(context.Context) error
}

// Stack holds whatever Start enabled, in start order.
type Stack struct {
	logger *logging.Logger
	stops  []stopFunc
}

// Start enables each exporter its config asks for. On error everything
// already started is stopped again.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}

	steps := []struct {
		name  string
		start func(config.Config, *logging.Logger) (func(context.Context) error, error)
	}{
		{name: "uptrace", start: startUptrace},
		{name: "pyroscope", start: startPyroscope},
		{name: "pprof", start: startPprof},
	}
	for _, step := range steps {
		stop, err := step.start(cfg, logger)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("start %s: %w", step.name, err), s.Shutdown(ctx))
		}
		if stop != nil {
			s.stops = append(s.stops, stopFunc{name: step.name, fn: stop})
		}
	}
	return s, nil
}

// Enabled lists the running components.
func (s *Stack) Enabled() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.stops))
	for _, st := range s.stops {
		out = append(out, st.name)
	}
	return out
}

// Shutdown stops components in reverse start order and joins their errors.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.stops) - 1; i >= 0; i-- {
		st := s.stops[i]
		if err := st.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", st.name, err))
			continue
		}
		s.logger.Debug("telemetry stopped", "component", st.name)
	}
	s.stops = nil
	return errors.Join(errs...)
}
