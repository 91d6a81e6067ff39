// Package metrics exposes engine counters and gauges over Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "algotrader_signals_total", Help: "Signals generated, by strategy"},
		[]string{"strategy"},
	)
	SignalsAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "algotrader_signals_accepted_total", Help: "Signals that passed risk arbitration"},
		[]string{"strategy"},
	)
	OrdersExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "algotrader_orders_executed_total", Help: "Orders confirmed by the broker"},
		[]string{"side"},
	)
	OrdersFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "algotrader_orders_failed_total", Help: "Orders abandoned after retry exhaustion"},
	)
	OpenPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "algotrader_open_positions", Help: "Currently open positions"},
	)
	DailyPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "algotrader_daily_pnl", Help: "Realized profit and loss for the current day"},
	)
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "algotrader_ticks_total", Help: "Engine ticks, by task"},
		[]string{"task"},
	)
	AlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "algotrader_alerts_total", Help: "Risk alerts raised, by kind"},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		SignalsTotal,
		SignalsAccepted,
		OrdersExecuted,
		OrdersFailed,
		OpenPositions,
		DailyPnL,
		TicksTotal,
		AlertsTotal,
	)
}

// Serve starts an HTTP listener exposing /metrics and returns the server so
// the caller can shut it down.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
