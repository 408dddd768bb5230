package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Metrics holds all Prometheus metrics for the poll loop.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal     prometheus.Counter
	TickerRunsTotal *prometheus.CounterVec // labels: status
	AlertsTotal     *prometheus.CounterVec // labels: channel, status
	EvaluationDur   prometheus.Histogram
	LastCycle       prometheus.Gauge // unix seconds of the last completed cycle
}

// NewMetrics registers and returns all metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_cycles_total",
			Help: "Total poll cycles started",
		}),
		TickerRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_ticker_runs_total",
			Help: "Ticker evaluations by outcome",
		}, []string{"status"}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_alerts_total",
			Help: "Notification attempts by channel and outcome",
		}, []string{"channel", "status"}),
		EvaluationDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_evaluation_seconds",
			Help:    "Fetch plus evaluation time per ticker",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		LastCycle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_cycle_timestamp_seconds",
			Help: "Completion time of the last poll cycle",
		}),
	}
	m.registry.MustRegister(
		m.CyclesTotal,
		m.TickerRunsTotal,
		m.AlertsTotal,
		m.EvaluationDur,
		m.LastCycle,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRun counts one ticker evaluation.
func (m *Metrics) ObserveRun(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.TickerRunsTotal.WithLabelValues(status).Inc()
	m.EvaluationDur.Observe(d.Seconds())
}

// ObserveAlert counts one notification attempt.
func (m *Metrics) ObserveAlert(channel string, sent bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !sent {
		status = "failed"
	}
	m.AlertsTotal.WithLabelValues(channel, status).Inc()
}

// CycleStarted and CycleDone bracket one poll cycle.
func (m *Metrics) CycleStarted() {
	if m != nil {
		m.CyclesTotal.Inc()
	}
}

func (m *Metrics) CycleDone(at time.Time) {
	if m != nil {
		m.LastCycle.Set(float64(at.Unix()))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.WithField("addr", s.addr).Info("metrics server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server error: %v", err)
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
