// Package obs groups Prometheus collectors and the middleware that feeds
// them.
package obs

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors for HTTP traffic and engine calculations.
type Metrics struct {
	ReqTotal  *prometheus.CounterVec
	ReqDur    *prometheus.HistogramVec
	CalcTotal *prometheus.CounterVec
}

// NewMetrics registers and returns the collectors. Passing nil uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tallyup",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tallyup",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method"}),
		CalcTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tallyup",
			Name:      "calculations_total",
			Help:      "Total number of split calculation passes, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.ReqTotal, m.ReqDur, m.CalcTotal)
	return m
}

// ObserveCalculation records one engine pass with outcome "ok" or "error".
func (m *Metrics) ObserveCalculation(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.CalcTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request count and latency for every handled request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		m.ReqTotal.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		m.ReqDur.WithLabelValues(r.Method).Observe(float64(time.Since(start).Milliseconds()))
	})
}
