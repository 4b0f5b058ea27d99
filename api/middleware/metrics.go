package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/atelier-backend/pkg/metrics"
)

// Metrics records request counts and latency keyed by the chi route pattern
// so path parameters do not explode label cardinality.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			route := routePattern(r)
			if !matchedRoute(r) {
				route = "unmatched"
			}
			m.Observe(r.Method, route, rec.Status(), time.Since(start))
		})
	}
}

func matchedRoute(r *http.Request) bool {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		return ctx.RoutePattern() != ""
	}
	return false
}
