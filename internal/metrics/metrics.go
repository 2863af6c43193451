// Package metrics exposes the latest risk figures of scheduled reports to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"RiskSentinel/internal/report"
)

const namespace = "risksentinel"

// Metrics holds every collector, registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	VaR               *prometheus.GaugeVec
	ExpectedShortfall *prometheus.GaugeVec
	BacktestPValue    *prometheus.GaugeVec
	Exceptions        *prometheus.GaugeVec
	GBMSigma          *prometheus.GaugeVec
	ReportFailures    *prometheus.CounterVec
	SectionFailures   *prometheus.CounterVec
	RunDuration       prometheus.Histogram
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		VaR: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "value_at_risk",
			Help:      "Latest historical VaR, as a (negative) return",
		}, []string{"symbol", "confidence", "horizon"}),
		ExpectedShortfall: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expected_shortfall",
			Help:      "Latest historical expected shortfall, as a (negative) return",
		}, []string{"symbol", "confidence", "horizon"}),
		BacktestPValue: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "p_value",
			Help:      "P(X <= exceptions) under the binomial model of the latest backtest",
		}, []string{"symbol"}),
		Exceptions: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "exceptions",
			Help:      "VaR exceptions in the latest backtest window",
		}, []string{"symbol", "zone"}),
		GBMSigma: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gbm",
			Name:      "sigma",
			Help:      "Daily volatility of the latest GBM calibration",
		}, []string{"symbol"}),
		ReportFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_failures_total",
			Help:      "Reports that could not be built, usually for lack of data",
		}, []string{"symbol"}),
		SectionFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_section_failures_total",
			Help:      "Report sections left empty",
		}, []string{"symbol"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a scheduled run over all symbols",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Observe records the figures of one report.
func (m *Metrics) Observe(r *report.RiskReport) {
	if r.VaR != nil {
		m.VaR.WithLabelValues(r.Symbol, label(r.VaR.Confidence), itoa(r.VaR.Horizon)).Set(r.VaR.Value)
	}
	if es := r.ExpectedShortfall; es != nil {
		m.ExpectedShortfall.WithLabelValues(r.Symbol, label(es.Confidence), itoa(es.Horizon)).Set(es.Value)
	}
	if bt := r.Backtest; bt != nil {
		m.BacktestPValue.WithLabelValues(r.Symbol).Set(bt.Test.PValue)
		m.Exceptions.DeletePartialMatch(prometheus.Labels{"symbol": r.Symbol})
		m.Exceptions.WithLabelValues(r.Symbol, string(bt.Test.Zone)).Set(float64(bt.Test.Exceptions))
	}
	if r.GBM != nil {
		m.GBMSigma.WithLabelValues(r.Symbol).Set(r.GBM.Sigma)
	}
	if len(r.Notes) > 0 {
		m.SectionFailures.WithLabelValues(r.Symbol).Add(float64(len(r.Notes)))
	}
}

// ReportFailed counts a report that could not be built.
func (m *Metrics) ReportFailed(symbol string) {
	m.ReportFailures.WithLabelValues(symbol).Inc()
}

// ObserveRun records the duration of a run started at start.
func (m *Metrics) ObserveRun(start time.Time) {
	m.RunDuration.Observe(time.Since(start).Seconds())
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func label(confidence float64) string {
	return strconv.FormatFloat(confidence, 'f', -1, 64)
}

func itoa(n int) string { return strconv.Itoa(n) }
