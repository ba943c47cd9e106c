package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP and gameplay collectors.
type Metrics struct {
	requests    *prometheus.HistogramVec
	submissions *prometheus.CounterVec
	scores      *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wordplay",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordplay",
			Name:      "submissions_total",
			Help:      "Scored game submissions by game kind.",
		}, []string{"kind"}),
		scores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wordplay",
			Name:      "submission_score",
			Help:      "Distribution of submission scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}, []string{"kind"}),
	}
}

func (m *Metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) observeSubmission(kind string, score int) {
	m.submissions.WithLabelValues(kind).Inc()
	m.scores.WithLabelValues(kind).Observe(float64(score))
}
