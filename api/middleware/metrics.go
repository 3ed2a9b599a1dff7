package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/buybuddy-backend/pkg/metrics"
)

// Metrics records request latency keyed by the matched chi route pattern so
// path parameters do not explode label cardinality.
func Metrics(recorder *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			route := routePattern(r)
			if route == r.URL.Path {
				route = "unmatched"
			}
			recorder.Observe(r.Method, route, rec.statusCode(), time.Since(start))
		})
	}
}
