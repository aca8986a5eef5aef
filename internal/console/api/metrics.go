package api

import (
	"strconv"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "botadmin"

// Refresh outcomes.
const (
	refreshSucceeded = "success"
	refreshFailed    = "failure"
	refreshMissing   = "no_refresh_token"
	refreshReused    = "reused"
)

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	refreshes     *prometheus.CounterVec
	forcedLogouts *prometheus.CounterVec
}

// NewMetrics registers the pipeline collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend requests by method and status class.",
		}, []string{"method", "class"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "session",
			Name:      "refreshes_total",
			Help:      "Token refresh attempts by outcome.",
		}, []string{"outcome"}),

		forcedLogouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "session",
			Name:      "forced_logouts_total",
			Help:      "Forced logouts triggered by the request pipeline.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) request(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, statusClass(status)).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) refresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) forcedLogout(reason domain.LogoutReason) {
	if m == nil {
		return
	}
	m.forcedLogouts.WithLabelValues(string(reason)).Inc()
}

func statusClass(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
