// Package telemetry exposes simulation and verification outcomes as
// Prometheus metrics, written in the textfile collector format.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/rxnsim/internal/sim"
	"github.com/san-kum/rxnsim/internal/verify"
)

// Recorder owns a private registry so one process can write several
// independent metric files.
type Recorder struct {
	reg *prometheus.Registry

	suitePassed  *prometheus.GaugeVec
	suiteCases   *prometheus.GaugeVec
	suiteFailed  *prometheus.GaugeVec
	caseDuration *prometheus.HistogramVec
	caseOutcomes *prometheus.CounterVec

	runDuration *prometheus.HistogramVec
	runSteps    *prometheus.CounterVec
	runRejected *prometheus.CounterVec
	runMetric   *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		suitePassed: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rxnsim_verify_suite_passed",
			Help: "1 if every case of the last run of the suite passed",
		}, []string{"suite"}),
		suiteCases: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rxnsim_verify_suite_cases",
			Help: "Number of cases in the last run of the suite",
		}, []string{"suite"}),
		suiteFailed: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rxnsim_verify_suite_failures",
			Help: "Number of failed cases in the last run of the suite",
		}, []string{"suite"}),
		caseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rxnsim_verify_case_duration_seconds",
			Help:    "Time to set up and check one case",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10},
		}, []string{"suite"}),
		caseOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rxnsim_verify_cases_total",
			Help: "Verification cases by outcome",
		}, []string{"suite", "status"}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rxnsim_simulation_duration_seconds",
			Help:    "Wall time of one simulation",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10},
		}, []string{"model"}),
		runSteps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rxnsim_simulation_steps_total",
			Help: "Accepted integration steps",
		}, []string{"model"}),
		runRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rxnsim_simulation_rejected_steps_total",
			Help: "Adaptive steps rejected by error control",
		}, []string{"model"}),
		runMetric: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rxnsim_simulation_metric",
			Help: "Final value of a simulation metric",
		}, []string{"model", "metric"}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) ObserveReport(report *verify.Report) {
	suite := report.Suite

	passed := 0.0
	if report.Passed() {
		passed = 1
	}
	r.suitePassed.WithLabelValues(suite).Set(passed)
	r.suiteCases.WithLabelValues(suite).Set(float64(len(report.Results)))
	r.suiteFailed.WithLabelValues(suite).Set(float64(len(report.Failures())))

	for _, res := range report.Results {
		status := "pass"
		switch {
		case res.Skipped:
			status = "skip"
		case res.Err != nil:
			status = "fail"
		}
		r.caseOutcomes.WithLabelValues(suite, status).Inc()
		if !res.Skipped {
			r.caseDuration.WithLabelValues(suite).Observe(res.Duration.Seconds())
		}
	}
}

func (r *Recorder) ObserveRun(model string, result *sim.Result, elapsed time.Duration) {
	r.runDuration.WithLabelValues(model).Observe(elapsed.Seconds())
	if result == nil {
		return
	}
	r.runSteps.WithLabelValues(model).Add(float64(result.StepsTaken))
	r.runRejected.WithLabelValues(model).Add(float64(result.Rejected))
	for name, v := range result.Metrics {
		r.runMetric.WithLabelValues(model, name).Set(v)
	}
}

// WriteTextfile writes every metric to path for a node_exporter textfile
// collector. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
