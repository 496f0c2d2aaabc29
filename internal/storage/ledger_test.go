package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/rxnsim/internal/verify"
)

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := OpenLedger(context.Background(), filepath.Join(t.TempDir(), "ledger", "verify.db"))
	if err != nil {
		t.Fatalf("open ledger failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedgerRecordHistory(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)

	passing := &verify.Report{
		Suite:    "cascade",
		Started:  time.Now(),
		Duration: 12 * time.Millisecond,
		Results: []verify.CaseResult{
			{Name: "not empty", Duration: time.Millisecond},
			{Name: "S6 near 10", Duration: 2 * time.Millisecond},
		},
	}
	failing := &verify.Report{
		Suite:   "cascade",
		Started: time.Now(),
		Results: []verify.CaseResult{
			{Name: "S6 low", Err: errors.New("final value 10 is not below 1")},
			{Name: "not empty", Skipped: true},
		},
	}

	firstID, err := l.Record(ctx, passing)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	secondID, err := l.Record(ctx, failing)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	runs, err := l.History(ctx, 10)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != secondID || runs[0].Passed || runs[0].Failures != 1 {
		t.Errorf("unexpected newest run: %+v", runs[0])
	}
	if runs[1].ID != firstID || !runs[1].Passed || runs[1].Cases != 2 {
		t.Errorf("unexpected oldest run: %+v", runs[1])
	}

	limited, err := l.History(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}

	cases, err := l.Cases(ctx, secondID)
	if err != nil {
		t.Fatalf("cases failed: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].Status != "fail" || cases[0].Error == "" {
		t.Errorf("unexpected first case: %+v", cases[0])
	}
	if cases[1].Status != "skip" {
		t.Errorf("expected skipped case, got %+v", cases[1])
	}
}

func TestLedgerReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "verify.db")

	l, err := OpenLedger(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Record(ctx, &verify.Report{Suite: "decay", Started: time.Now()}); err != nil {
		t.Fatal(err)
	}
	l.Close()

	l, err = OpenLedger(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer l.Close()

	runs, err := l.History(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Suite != "decay" {
		t.Errorf("expected recorded run to persist, got %+v", runs)
	}
}
