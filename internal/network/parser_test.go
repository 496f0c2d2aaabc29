package network_test

import (
	"errors"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rxnsim/internal/dynamo"
	"github.com/san-kum/rxnsim/internal/network"
)

const cascade = `
// six-species linear cascade
model *cascade()
  J1: S1 -> S2; k1*S1
  J2: S2 -> S3; k2*S2
  J3: S3 -> S4; k3*S3
  J4: S4 -> S5; k4*S4
  J5: S5 -> S6; k5*S5

  S1 = 10
  k1 = 1; k2 = 1; k3 = 1; k4 = 1; k5 = 1
end
`

var _ = Describe("Parse", func() {
	Context("with a linear cascade", func() {
		var m *network.Model

		BeforeEach(func() {
			var err error
			m, err = network.Parse(cascade)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reads the model name", func() {
			Expect(m.Name).To(Equal("cascade"))
		})

		It("orders species by first appearance", func() {
			Expect(m.Species()).To(Equal([]string{"S1", "S2", "S3", "S4", "S5", "S6"}))
			Expect(m.StateDim()).To(Equal(6))
		})

		It("separates parameters from species", func() {
			Expect(m.Parameters()).To(Equal([]string{"k1", "k2", "k3", "k4", "k5"}))
			Expect(m.IsSpecies("S3")).To(BeTrue())
			Expect(m.IsSpecies("k3")).To(BeFalse())
		})

		It("defaults unassigned species to zero", func() {
			Expect(m.InitialState()).To(Equal(dynamo.State{10, 0, 0, 0, 0, 0}))
		})

		It("builds the stoichiometry matrix", func() {
			n := m.Stoichiometry()
			Expect(n).To(HaveLen(6))
			Expect(n[0]).To(Equal([]float64{-1, 0, 0, 0, 0}))
			Expect(n[1]).To(Equal([]float64{1, -1, 0, 0, 0}))
			Expect(n[5]).To(Equal([]float64{0, 0, 0, 0, 1}))
		})

		It("derives mass-action rates", func() {
			dx := m.Derive(dynamo.State{10, 2, 0, 0, 0, 0}, 0)
			Expect(dx).To(Equal(dynamo.State{-10, 8, 2, 0, 0, 0}))
		})

		It("conserves total mass in the derivative", func() {
			dx := m.Derive(dynamo.State{3, 1, 4, 1, 5, 9}, 0)
			Expect(dx.Sum()).To(BeNumerically("~", 0, 1e-12))
		})
	})

	It("names anonymous reactions in order", func() {
		m, err := network.Parse("S1 -> S2; k*S1\nS2 -> ; k*S2\nk = 0.5")
		Expect(err).NotTo(HaveOccurred())
		ids := []string{}
		for _, r := range m.Reactions() {
			ids = append(ids, r.ID)
		}
		Expect(ids).To(Equal([]string{"_J0", "_J1"}))
	})

	It("accepts source and sink reactions", func() {
		m, err := network.Parse("J0: -> X; v0\nJ1: X -> ; kd*X\nv0 = 2; kd = 0.5")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Derive(dynamo.State{1}, 0)).To(Equal(dynamo.State{1.5}))
	})

	It("renders reactions back in model notation", func() {
		m, err := network.Parse("J1: 2 A + $B -> C; k*A\nJ2: -> A; v\nk = 1; v = 1")
		Expect(err).NotTo(HaveOccurred())
		rs := m.Reactions()
		Expect(rs[0].String()).To(Equal("J1: 2 A + $B -> C; k*A"))
		Expect(rs[1].String()).To(Equal("J2: -> A; v"))
	})

	It("applies stoichiometric coefficients", func() {
		m, err := network.Parse("J1: 2 A + B -> 3 C; k*A^2*B\nk = 0.1; A = 2; B = 1")
		Expect(err).NotTo(HaveOccurred())
		dx := m.Derive(m.InitialState(), 0)
		Expect(dx[0]).To(BeNumerically("~", -0.8, 1e-12))
		Expect(dx[1]).To(BeNumerically("~", -0.4, 1e-12))
		Expect(dx[2]).To(BeNumerically("~", 1.2, 1e-12))
	})

	It("cancels species present on both sides", func() {
		m, err := network.Parse("J1: E + S -> E + P; k*E*S\nE = 1; S = 5; k = 2")
		Expect(err).NotTo(HaveOccurred())
		dx := m.Derive(m.InitialState(), 0)
		Expect(dx).To(Equal(dynamo.State{0, -10, 10}))
	})

	It("holds boundary species fixed", func() {
		m, err := network.Parse("J1: $X0 -> S1; k*X0\nJ2: S1 -> $X1; k*S1\nX0 = 4; k = 1")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.FloatingSpecies()).To(Equal([]string{"S1"}))
		Expect(m.BoundarySpecies()).To(Equal([]string{"X0", "X1"}))
		Expect(m.Derive(dynamo.State{1}, 0)).To(Equal(dynamo.State{3}))
	})

	It("marks species declared boundary before use", func() {
		m, err := network.Parse("species $A, B\nJ1: A -> B; k*A\nA = 1; k = 1")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.BoundarySpecies()).To(Equal([]string{"A"}))
	})

	It("evaluates assignments in dependency order", func() {
		m, err := network.Parse("J1: A -> B; k*A\nk = base*2\nbase = 3\nA = k + 1")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Get("k")).To(Equal(6.0))
		Expect(m.Get("A")).To(Equal(7.0))
	})

	It("lets time appear in rate laws", func() {
		m, err := network.Parse("J1: -> A; amp*sin(time)\namp = 2")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Derive(dynamo.State{0}, 0)).To(Equal(dynamo.State{0}))
		Expect(m.Rates(dynamo.State{0}, 1.5707963267948966)[0]).To(BeNumerically("~", 2, 1e-12))
	})

	It("ignores const and var modifiers", func() {
		m, err := network.Parse("const k = 2\nvar A = 1\nJ1: A -> ; k*A")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Get("k")).To(Equal(2.0))
	})

	DescribeTable("rejects malformed models",
		func(src string, target error) {
			_, err := network.Parse(src)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, target)).To(BeTrue(), "got %v", err)
		},
		Entry("missing rate law", "J1: A -> B", network.ErrSyntax),
		Entry("bad character", "J1: A -> B; k*A @", network.ErrSyntax),
		Entry("unbalanced parens", "J1: A -> B; (k*A", network.ErrSyntax),
		Entry("unknown function", "J1: A -> B; foo(A)\n", network.ErrSyntax),
		Entry("wrong arity", "J1: A -> B; pow(A)", network.ErrSyntax),
		Entry("wrong arity in an assignment", "J1: A -> B; k*A\nk = exp(1, 2)", network.ErrSyntax),
		Entry("non-ASCII name", "J1: A -> B; kß*A", network.ErrSyntax),
		Entry("zero coefficient", "J1: 0 A -> B; A", network.ErrSyntax),
		Entry("undefined parameter", "J1: A -> B; k*A\nA = 1", network.ErrUndefinedSymbol),
		Entry("duplicate id", "J1: A -> B; A\nJ1: B -> A; B", network.ErrDuplicate),
		Entry("circular assignment", "J1: A -> B; k*A\nk = j\nj = k", network.ErrCircular),
		Entry("no reactions", "A = 1", network.ErrEmpty),
	)

	It("reports the line and column of syntax errors", func() {
		_, err := network.Parse("J1: A -> B; k*A\nk = 1\nJ2: B -> C; k*B )")
		var perr *network.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Line).To(Equal(3))
		Expect(perr.Col).To(Equal(17))
	})

	It("accepts => as a reaction arrow", func() {
		m, err := network.Parse("J1: A => B; k*A\nA = 2; k = 0.5")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Derive(m.InitialState(), 0)).To(Equal(dynamo.State{-1, 1}))
		Expect(m.Reactions()[0].String()).To(Equal("J1: A -> B; k*A"))
	})

	It("reads lines longer than the default scanner buffer", func() {
		terms := make([]string, 12000)
		for i := range terms {
			terms[i] = "k*A"
		}
		src := "J1: A -> B; " + strings.Join(terms, " + ") + "\nA = 1; k = 1"
		Expect(len(src)).To(BeNumerically(">", 64*1024))

		m, err := network.Parse(src)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Derive(m.InitialState(), 0)[0]).To(Equal(-12000.0))
	})

	It("keeps the rate law as written", func() {
		m, err := network.Parse("J1: S -> P; Vm*S/(Km + S)\nVm = 2; Km = 1; S = 1")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Reactions()[0].Rate).To(Equal("Vm*S/(Km + S)"))
		Expect(m.Rates(m.InitialState(), 0)[0]).To(Equal(1.0))
	})

	It("stores non-finite assignments", func() {
		m, err := network.Parse("J1: A -> ; k*A\nk = 1; unused = 1/0")
		Expect(err).NotTo(HaveOccurred())
		v, err := m.Get("unused")
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsInf(v, 1)).To(BeTrue())
	})

	It("reads from a reader", func() {
		m, err := network.ParseReader(strings.NewReader(cascade))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Reactions()).To(HaveLen(5))
		Expect(m.Reactions()[0].Rate).To(Equal("k1*S1"))
	})
})

var _ = Describe("Model values", func() {
	var m *network.Model

	BeforeEach(func() {
		var err error
		m, err = network.Parse(cascade)
		Expect(err).NotTo(HaveOccurred())
	})

	It("sets parameters that rate laws see", func() {
		Expect(m.Set("k1", 3)).To(Succeed())
		Expect(m.Derive(dynamo.State{1, 0, 0, 0, 0, 0}, 0)[0]).To(Equal(-3.0))
	})

	It("sets initial concentrations", func() {
		Expect(m.Set("S2", 4)).To(Succeed())
		Expect(m.InitialState()[1]).To(Equal(4.0))
	})

	It("rejects unknown names", func() {
		Expect(errors.Is(m.Set("nope", 1), network.ErrUndefinedSymbol)).To(BeTrue())
		_, err := m.Get("nope")
		Expect(errors.Is(err, network.ErrUndefinedSymbol)).To(BeTrue())
	})

	It("clones values independently", func() {
		c := m.Clone()
		Expect(c.Set("k1", 9)).To(Succeed())
		Expect(m.Get("k1")).To(Equal(1.0))
		Expect(c.Get("k1")).To(Equal(9.0))
	})

	It("returns a fresh initial state", func() {
		x := m.InitialState()
		x[0] = 0
		Expect(m.InitialState()[0]).To(Equal(10.0))
	})
})
