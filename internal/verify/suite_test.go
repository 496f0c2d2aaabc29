package verify_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rxnsim/internal/models"
	"github.com/san-kum/rxnsim/internal/network"
	"github.com/san-kum/rxnsim/internal/sim"
	"github.com/san-kum/rxnsim/internal/verify"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cascadeOptions() sim.Options {
	opts := sim.DefaultOptions()
	opts.End = 50
	opts.Points = 101
	return opts
}

var _ = Describe("Suite", func() {
	var setup verify.SetupFunc

	BeforeEach(func() {
		setup = verify.NewSetup(models.Cascade(6, 1, 10), cascadeOptions())
	})

	Context("with the cascade checks", func() {
		It("passes and prints the success message", func() {
			suite := &verify.Suite{
				Name:  "cascade",
				Setup: setup,
				Cases: []verify.Case{
					{Name: "table is not empty", Check: verify.NotEmpty()},
					{Name: "S6 approaches 10", Check: verify.FinalNear("S6", 10, 1e-2)},
					{Name: "S1 is depleted", Check: verify.FinalBelow("[S1]", 1e-6)},
					{Name: "mass is conserved", Check: verify.Conserved(1e-6)},
				},
				FailFast: true,
			}

			report := suite.Run(context.Background(), quietLogger())
			Expect(report.Passed()).To(BeTrue())
			Expect(report.Err()).NotTo(HaveOccurred())
			Expect(report.Results).To(HaveLen(4))

			var buf bytes.Buffer
			Expect(report.Render(&buf)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring(verify.SuccessMessage))
		})
	})

	Context("with a failing case", func() {
		var suite *verify.Suite

		BeforeEach(func() {
			suite = &verify.Suite{
				Name:  "cascade",
				Setup: setup,
				Cases: []verify.Case{
					{Name: "S6 stays low", Check: verify.FinalBelow("S6", 1)},
					{Name: "table is not empty", Check: verify.NotEmpty()},
				},
			}
		})

		It("stops at the first failure with FailFast", func() {
			suite.FailFast = true
			report := suite.Run(context.Background(), quietLogger())

			Expect(report.Passed()).To(BeFalse())
			Expect(report.Results[0].Err).To(MatchError(verify.ErrAssertion))
			Expect(report.Results[1].Skipped).To(BeTrue())
			Expect(report.Failures()).To(HaveLen(1))
		})

		It("runs the remaining cases without FailFast", func() {
			suite.FailFast = false
			report := suite.Run(context.Background(), quietLogger())

			Expect(report.Results[0].Passed()).To(BeFalse())
			Expect(report.Results[1].Passed()).To(BeTrue())
		})

		It("does not print the success message", func() {
			report := suite.Run(context.Background(), quietLogger())

			var buf bytes.Buffer
			Expect(report.Render(&buf)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("FAILED (1 of 2)"))
			Expect(strings.Contains(buf.String(), verify.SuccessMessage)).To(BeFalse())
		})
	})

	It("gives every case a fresh fixture", func() {
		var seen []*verify.Fixture
		record := func(f *verify.Fixture) error {
			seen = append(seen, f)
			f.Values["touched"] = 1
			return nil
		}
		expectFresh := func(f *verify.Fixture) error {
			if _, ok := f.Values["touched"]; ok {
				return errors.New("fixture leaked between cases")
			}
			return nil
		}

		suite := &verify.Suite{
			Name:  "isolation",
			Setup: setup,
			Cases: []verify.Case{
				{Name: "mutate", Check: record},
				{Name: "fresh", Check: expectFresh},
			},
		}
		report := suite.Run(context.Background(), quietLogger())
		Expect(report.Passed()).To(BeTrue())
		Expect(seen).To(HaveLen(1))
	})

	It("reports setup failures", func() {
		suite := &verify.Suite{
			Name:  "broken",
			Setup: verify.NewSetup("A -> B; k*A", sim.DefaultOptions()),
			Cases: []verify.Case{{Name: "anything", Check: verify.NotEmpty()}},
		}
		report := suite.Run(context.Background(), quietLogger())
		Expect(report.Results[0].Err).To(MatchError(verify.ErrSetup))
		Expect(report.Results[0].Err).To(MatchError(network.ErrUndefinedSymbol))
	})

	It("prefers a case's own setup", func() {
		suite := &verify.Suite{
			Name:  "override",
			Setup: setup,
			Cases: []verify.Case{{
				Name:  "decay",
				Setup: verify.NewSetup("J1: A -> ; A\nA = 1", sim.DefaultOptions()),
				Check: verify.FinalBelow("A", 1e-3),
			}},
		}
		Expect(suite.Run(context.Background(), quietLogger()).Passed()).To(BeTrue())
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		suite := &verify.Suite{
			Name:  "cancelled",
			Setup: setup,
			Cases: []verify.Case{
				{Name: "first", Check: verify.NotEmpty()},
				{Name: "second", Check: verify.NotEmpty()},
			},
		}
		report := suite.Run(ctx, quietLogger())
		Expect(report.Results[0].Err).To(MatchError(context.Canceled))
		Expect(report.Results[1].Skipped).To(BeTrue())
	})

	It("fails a table check when the setup only fills values", func() {
		suite := &verify.Suite{
			Name: "values only",
			Setup: func(context.Context) (*verify.Fixture, error) {
				return &verify.Fixture{Values: map[string]float64{"S1": 1}}, nil
			},
			Cases: []verify.Case{
				{Name: "monotonic", Check: verify.Monotonic("S1", true, 0)},
			},
		}
		var report *verify.Report
		Expect(func() { report = suite.Run(context.Background(), quietLogger()) }).NotTo(Panic())
		Expect(report.Passed()).To(BeFalse())
		Expect(report.Results[0].Err).To(MatchError(verify.ErrAssertion))
	})

	It("turns a panicking check into a failure and keeps going", func() {
		suite := &verify.Suite{
			Name:  "panics",
			Setup: setup,
			Cases: []verify.Case{
				{Name: "explodes", Check: func(*verify.Fixture) error { panic("boom") }},
				{Name: "still runs", Check: verify.NotEmpty()},
			},
		}
		report := suite.Run(context.Background(), quietLogger())

		var assertErr *verify.AssertionError
		Expect(errors.As(report.Results[0].Err, &assertErr)).To(BeTrue())
		Expect(assertErr.Msg).To(ContainSubstring("boom"))
		Expect(report.Results[1].Passed()).To(BeTrue())
	})

	It("fails a case whose setup panics or returns nothing", func() {
		suite := &verify.Suite{
			Name: "bad setups",
			Cases: []verify.Case{
				{
					Name:  "panics",
					Setup: func(context.Context) (*verify.Fixture, error) { panic("no model") },
					Check: verify.NotEmpty(),
				},
				{
					Name:  "nil fixture",
					Setup: func(context.Context) (*verify.Fixture, error) { return nil, nil },
					Check: verify.NotEmpty(),
				},
			},
		}
		report := suite.Run(context.Background(), quietLogger())
		Expect(report.Results[0].Err).To(MatchError(verify.ErrSetup))
		Expect(report.Results[1].Err).To(MatchError(verify.ErrSetup))
	})
})

var _ = Describe("CascadeSuite", func() {
	It("passes", func() {
		report := verify.CascadeSuite().Run(context.Background(), quietLogger())
		Expect(report.Err()).NotTo(HaveOccurred())
		Expect(report.Passed()).To(BeTrue())
	})
})
