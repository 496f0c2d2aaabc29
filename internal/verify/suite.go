package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Case is one named check with the setup that feeds it.
type Case struct {
	Name  string
	Setup SetupFunc
	Check Check
}

// Suite is an ordered list of cases. Cases without their own Setup use the
// suite's.
type Suite struct {
	Name     string
	Setup    SetupFunc
	Cases    []Case
	FailFast bool
}

type CaseResult struct {
	Name     string
	Err      error
	Skipped  bool
	Duration time.Duration
}

func (r CaseResult) Passed() bool { return r.Err == nil && !r.Skipped }

type Report struct {
	Suite    string
	Results  []CaseResult
	Started  time.Time
	Duration time.Duration
}

// Passed reports whether every case ran and passed.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return true
}

// Failures returns the cases that ran and failed.
func (r *Report) Failures() []CaseResult {
	var out []CaseResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err joins every failure into one error, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failures() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
	}
	return errors.Join(errs...)
}

// Run executes the cases in order, calling each case's setup right before
// its check.
func (s *Suite) Run(ctx context.Context, logger *slog.Logger) *Report {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("suite", s.Name)

	report := &Report{
		Suite:   s.Name,
		Results: make([]CaseResult, 0, len(s.Cases)),
		Started: time.Now(),
	}

	stopped := false
	for _, c := range s.Cases {
		if stopped {
			report.Results = append(report.Results, CaseResult{Name: c.Name, Skipped: true})
			continue
		}

		res := s.runCase(ctx, c)
		report.Results = append(report.Results, res)

		if res.Err != nil {
			logger.Debug("case failed", "case", c.Name, "err", res.Err)
			if s.FailFast || ctx.Err() != nil {
				stopped = true
			}
			continue
		}
		logger.Debug("case passed", "case", c.Name, "duration", res.Duration)
	}

	report.Duration = time.Since(report.Started)
	return report
}

func (s *Suite) runCase(ctx context.Context, c Case) CaseResult {
	start := time.Now()
	res := CaseResult{Name: c.Name}

	if err := ctx.Err(); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	setup := c.Setup
	if setup == nil {
		setup = s.Setup
	}
	if setup == nil {
		res.Err = fmt.Errorf("%w: case has no setup", ErrSetup)
		res.Duration = time.Since(start)
		return res
	}
	if c.Check == nil {
		res.Err = fmt.Errorf("%w: case has no check", ErrAssertion)
		res.Duration = time.Since(start)
		return res
	}

	f, err := runSetup(ctx, setup)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	res.Err = runCheck(c.Check, f)
	res.Duration = time.Since(start)
	return res
}

func runSetup(ctx context.Context, setup SetupFunc) (f *Fixture, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrSetup, r)
		}
	}()
	f, err = setup(ctx)
	if err == nil && f == nil {
		err = fmt.Errorf("%w: no fixture returned", ErrSetup)
	}
	return f, err
}

// runCheck reports a panicking check as a failed assertion.
func runCheck(check Check, f *Fixture) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AssertionError{Check: "panic", Msg: fmt.Sprint(r)}
		}
	}()
	return check(f)
}
