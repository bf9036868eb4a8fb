// Package metrics holds the Prometheus collectors exported by the status
// server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeDiscarded   = "discarded"
)

var (
	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signaldesk_fetches_total", Help: "Signal fetches by pair and outcome"},
		[]string{"pair", "outcome"},
	)
	FetchSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signaldesk_fetch_duration_seconds",
			Help:    "Latency of signal fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
		[]string{"pair"},
	)
	Countdown = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "signaldesk_countdown_seconds", Help: "Seconds left on the current signal"},
		[]string{"pair"},
	)
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signaldesk_logins_total", Help: "Login attempts by result"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(FetchesTotal, FetchSeconds, Countdown, LoginsTotal)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
