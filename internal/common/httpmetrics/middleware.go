package httpmetrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AlibekovAA/storefront/internal/observability/metrics"
)

type Collector struct {
	skip map[string]bool
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// New returns a collector that ignores the given paths (typically /metrics).
func New(skipPaths ...string) *Collector {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return &Collector{skip: skip}
}

func (c *Collector) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.skip[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		method := r.Method
		path := NormalizePath(r.URL.Path)

		metrics.StorefrontRequestsTotal.WithLabelValues(method, path).Inc()
		metrics.StorefrontRequestsInFlight.Inc()
		defer metrics.StorefrontRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		statusClass := fmt.Sprintf("%dxx", rec.status/100)
		metrics.StorefrontRequestDurationSeconds.WithLabelValues(method, path, statusClass).Observe(time.Since(start).Seconds())
	})
}
