package transport

import (
	"cloud-function-discovery/internal/logging"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Options configures the middleware chain around the router.
type Options struct {
	CORSOrigins       []string
	IsProduction      bool
	RateLimitRequests int // 0 disables rate limiting
	RateLimitWindow   time.Duration
}

// Chain wraps the router:
// CORS -> Security Headers -> Request ID -> Rate Limit -> Compression -> Router
func Chain(router http.Handler, opts Options) http.Handler {
	handler := WithCompression(router)
	handler = WithRateLimit(handler, opts.RateLimitRequests, opts.RateLimitWindow)
	handler = WithRequestID(handler)
	handler = WithSecurityHeaders(handler, opts.IsProduction)
	return WithCORS(handler, opts.CORSOrigins)
}

// WithCORS answers preflight requests and sets the CORS headers for the allowed origins.
func WithCORS(next http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})(next)
}

// WithRequestID propagates the caller's request id, or assigns one, and attaches it to the
// request context for logging.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = logging.GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

// WithRateLimit limits requests per client IP. Cloud Functions sit behind Google's front end,
// so the client address comes from the forwarding headers.
func WithRateLimit(next http.Handler, requests int, window time.Duration) http.Handler {
	if requests <= 0 || window <= 0 {
		return next
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			respondError(w, r, errRateLimited)
		}),
	)(next)
}
