package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/rxnsim/internal/sim"
	"github.com/san-kum/rxnsim/internal/verify"
)

func TestObserveReport(t *testing.T) {
	r := NewRecorder()
	r.ObserveReport(&verify.Report{
		Suite: "cascade",
		Results: []verify.CaseResult{
			{Name: "a", Duration: time.Millisecond},
			{Name: "b", Err: errors.New("boom")},
			{Name: "c", Skipped: true},
		},
	})

	if got := testutil.ToFloat64(r.suitePassed.WithLabelValues("cascade")); got != 0 {
		t.Errorf("expected passed=0, got %v", got)
	}
	if got := testutil.ToFloat64(r.suiteFailed.WithLabelValues("cascade")); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(r.caseOutcomes.WithLabelValues("cascade", "skip")); got != 1 {
		t.Errorf("expected 1 skipped case, got %v", got)
	}
	if got := testutil.CollectAndCount(r.caseDuration); got != 1 {
		t.Errorf("expected one duration series, got %d", got)
	}
}

func TestObserveRun(t *testing.T) {
	r := NewRecorder()
	result := &sim.Result{StepsTaken: 120, Rejected: 3, Metrics: map[string]float64{"mass_drift": 1e-12}}

	r.ObserveRun("decay", result, 5*time.Millisecond)
	r.ObserveRun("decay", result, 5*time.Millisecond)

	if got := testutil.ToFloat64(r.runSteps.WithLabelValues("decay")); got != 240 {
		t.Errorf("expected 240 steps, got %v", got)
	}
	if got := testutil.ToFloat64(r.runMetric.WithLabelValues("decay", "mass_drift")); got != 1e-12 {
		t.Errorf("unexpected metric gauge %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveReport(&verify.Report{Suite: "decay", Results: []verify.CaseResult{{Name: "a"}}})

	path := filepath.Join(t.TempDir(), "rxnsim.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `rxnsim_verify_suite_passed{suite="decay"} 1`) {
		t.Errorf("expected suite gauge in output, got:\n%s", data)
	}
}
