// Package metrics exposes verification outcomes as Prometheus metrics,
// either served over HTTP or written in text exposition format for the
// node-exporter textfile collector.
package metrics

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/cloudberry-contrib/imagecheck/internal/report"
	"github.com/cloudberry-contrib/imagecheck/internal/verify"
)

// Exporter holds the imagecheck metric set on a private registry so it
// never collides with a host application's default registry.
type Exporter struct {
	registry *prometheus.Registry

	checkStatus *prometheus.GaugeVec
	passed      prometheus.Gauge
	failed      prometheus.Gauge
	errored     prometheus.Gauge
	runOk       prometheus.Gauge
	duration    prometheus.Gauge
}

// NewExporter creates and registers the metric set.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		checkStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "imagecheck_check_status",
			Help: "Outcome of each check: 1 passed, 0 failed or errored",
		}, []string{"check"}),
		passed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagecheck_checks_passed",
			Help: "Number of checks that passed in the last run",
		}),
		failed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagecheck_checks_failed",
			Help: "Number of checks that failed in the last run",
		}),
		errored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagecheck_checks_errored",
			Help: "Number of checks whose queries errored in the last run",
		}),
		runOk: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagecheck_run_ok",
			Help: "1 if every check in the last run passed, 0 otherwise",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagecheck_run_duration_seconds",
			Help: "Wall-clock duration of the last verification run",
		}),
	}
	e.registry.MustRegister(e.checkStatus, e.passed, e.failed, e.errored, e.runOk, e.duration)
	return e
}

// Observe records one run's report.
func (e *Exporter) Observe(r *report.Report) {
	for _, res := range r.Results {
		v := 0.0
		if res.Status == verify.StatusPass {
			v = 1.0
		}
		e.checkStatus.WithLabelValues(res.Name).Set(v)
	}
	e.passed.Set(float64(r.Passed))
	e.failed.Set(float64(r.Failed))
	e.errored.Set(float64(r.Errored))
	if r.Ok() {
		e.runOk.Set(1)
	} else {
		e.runOk.Set(0)
	}
	e.duration.Set(r.Duration.Seconds())
}

// Handler serves the registry in Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metric state to path in text
// exposition format, suitable for the textfile collector. The file is
// written atomically via a temp file rename.
func (e *Exporter) WriteTextfile(path string) error {
	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close metrics file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename metrics file: %w", err)
	}
	return nil
}
