package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/riskibarqy/futgol/internal/platform/logging"
)

// NewRouter wires every route behind the middleware chain. metrics and
// metricsHandler may be nil when metrics are disabled.
func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	metrics RequestRecorder,
	metricsHandler http.Handler,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, metricsHandler)
	registerPublicRoutes(mux, handler)
	registerAuthorizedRoutes(mux, handler, verifier)

	return RequestTracing(Metrics(metrics, RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, captureRoute(mux))))))
}

// recoverPanic turns a handler panic into a 500. http.ErrAbortHandler is
// re-raised so net/http can drop the connection as intended.
func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered",
				"panic", fmt.Sprint(rec),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			writeInternalError(w)
		}()
		next.ServeHTTP(w, r)
	})
}
