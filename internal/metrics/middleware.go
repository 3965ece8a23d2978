package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// scrapePath is served by promhttp and left out of request metrics.
const scrapePath = "/metrics"

// unmatchedRoute labels requests no route matched (scanners, typos).
const unmatchedRoute = "unmatched"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "estaterec",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route",
			// Uploads parse and swap the whole listing table, so the tail runs to tens of seconds.
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estaterec",
			Name:      "http_requests_total",
			Help:      "API requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)

// Middleware records request latency and count per chi route pattern.
// It must run inside a chi router so the pattern is known after routing.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == scrapePath {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = routeLabel(rctx.RoutePattern())
			}
			labels := []string{r.Method, route, strconv.Itoa(status)}
			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()
		})
	}
}

// routeLabel keeps the label set bounded: raw paths never become labels,
// only route patterns such as /api/feedback/{property_id}. A pattern ending in
// a wildcard is a mount point whose subrouter matched nothing.
func routeLabel(pattern string) string {
	if pattern == "" || strings.HasSuffix(pattern, "*") {
		return unmatchedRoute
	}
	return pattern
}
