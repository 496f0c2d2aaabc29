package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/san-kum/rxnsim/internal/verify"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS suite_runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    suite       TEXT NOT NULL,
    started_at  TEXT NOT NULL,
    duration_ms REAL NOT NULL,
    passed      INTEGER NOT NULL,
    cases       INTEGER NOT NULL,
    failures    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS case_results (
    run_id      INTEGER NOT NULL REFERENCES suite_runs(id) ON DELETE CASCADE,
    position    INTEGER NOT NULL,
    name        TEXT NOT NULL,
    status      TEXT NOT NULL,
    error       TEXT,
    duration_ms REAL NOT NULL,
    PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_suite_runs_suite ON suite_runs(suite);
`

// Ledger records verification suite outcomes in SQLite.
type Ledger struct {
	db *sql.DB
}

type SuiteRun struct {
	ID        int64
	Suite     string
	StartedAt time.Time
	Duration  time.Duration
	Passed    bool
	Cases     int
	Failures  int
}

type CaseRecord struct {
	Name     string
	Status   string
	Error    string
	Duration time.Duration
}

// OpenLedger opens or creates the ledger database at path.
func OpenLedger(ctx context.Context, path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error { return l.db.Close() }

func caseStatus(res verify.CaseResult) string {
	switch {
	case res.Skipped:
		return "skip"
	case res.Err != nil:
		return "fail"
	default:
		return "pass"
	}
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// Record stores a report and its cases in one transaction.
func (l *Ledger) Record(ctx context.Context, report *verify.Report) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	passed := 0
	if report.Passed() {
		passed = 1
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO suite_runs (suite, started_at, duration_ms, passed, cases, failures) VALUES (?, ?, ?, ?, ?, ?)`,
		report.Suite, report.Started.UTC().Format(time.RFC3339Nano), millis(report.Duration),
		passed, len(report.Results), len(report.Failures()))
	if err != nil {
		return 0, fmt.Errorf("insert suite run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, c := range report.Results {
		var errText sql.NullString
		if c.Err != nil {
			errText = sql.NullString{String: c.Err.Error(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO case_results (run_id, position, name, status, error, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, c.Name, caseStatus(c), errText, millis(c.Duration)); err != nil {
			return 0, fmt.Errorf("insert case %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// History returns the most recent suite runs, newest first. A limit of zero
// or less returns every run.
func (l *Ledger) History(ctx context.Context, limit int) ([]SuiteRun, error) {
	query := `SELECT id, suite, started_at, duration_ms, passed, cases, failures FROM suite_runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SuiteRun
	for rows.Next() {
		var (
			r       SuiteRun
			started string
			ms      float64
			passed  int
		)
		if err := rows.Scan(&r.ID, &r.Suite, &started, &ms, &passed, &r.Cases, &r.Failures); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.Duration = time.Duration(ms * float64(time.Millisecond))
		r.Passed = passed == 1
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Cases returns the recorded cases of one suite run in execution order.
func (l *Ledger) Cases(ctx context.Context, runID int64) ([]CaseRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT name, status, COALESCE(error, ''), duration_ms FROM case_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CaseRecord
	for rows.Next() {
		var (
			c  CaseRecord
			ms float64
		)
		if err := rows.Scan(&c.Name, &c.Status, &c.Error, &ms); err != nil {
			return nil, err
		}
		c.Duration = time.Duration(ms * float64(time.Millisecond))
		out = append(out, c)
	}
	return out, rows.Err()
}
