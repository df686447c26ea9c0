package httpapi

import (
	"net/http"

	"github.com/riskibarqy/subway-lines/internal/platform/id"
	"github.com/riskibarqy/subway-lines/internal/platform/logging"
)

type routerOptions struct {
	compression    bool
	rateLimitRPS   float64
	rateLimitBurst int
}

type RouterOption func(*routerOptions)

// WithCompression gzips large responses.
func WithCompression() RouterOption {
	return func(o *routerOptions) { o.compression = true }
}

// WithRateLimit limits each client address to rps requests per second.
func WithRateLimit(rps float64, burst int) RouterOption {
	return func(o *routerOptions) {
		o.rateLimitRPS = rps
		o.rateLimitBurst = burst
	}
}

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	swaggerEnabled bool,
	corsAllowedOrigins []string,
	opts ...RouterOption,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	var options routerOptions
	for _, opt := range opts {
		opt(&options)
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, swaggerEnabled)
	registerStationRoutes(mux, handler)
	registerLineRoutes(mux, handler)

	var inner http.Handler = recoverPanic(logger, mux)
	inner = RateLimit(options.rateLimitRPS, options.rateLimitBurst, inner)
	inner = CORS(corsAllowedOrigins, inner)
	if options.compression {
		inner = Compression(inner)
	}

	return RequestTracing(
		RequestID(id.NewUUIDGenerator(),
			RequestLogging(logger, inner)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
