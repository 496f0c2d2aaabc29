package network

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/rxnsim/internal/dynamo"
)

// Term is one participant on a side of a reaction.
type Term struct {
	Species  string
	Coef     float64
	Boundary bool
}

// Reaction is a rate-governed conversion of reactants into products.
type Reaction struct {
	ID        string
	Reactants []Term
	Products  []Term
	Rate      string
}

func (t Term) String() string {
	name := t.Species
	if t.Boundary {
		name = "$" + name
	}
	if t.Coef == 1 {
		return name
	}
	return strconv.FormatFloat(t.Coef, 'g', -1, 64) + " " + name
}

// String renders the reaction back in model notation.
func (r Reaction) String() string {
	side := func(terms []Term) string {
		parts := make([]string, len(terms))
		for i, t := range terms {
			parts[i] = t.String()
		}
		return strings.Join(parts, " + ")
	}
	lhs, rhs := side(r.Reactants), side(r.Products)
	arrow := " -> "
	if lhs == "" {
		arrow = "-> "
	}
	if rhs == "" {
		arrow = strings.TrimRight(arrow, " ")
	}
	return fmt.Sprintf("%s: %s%s%s; %s", r.ID, lhs, arrow, rhs, r.Rate)
}

type symbolKind int

const (
	symFloating symbolKind = iota
	symBoundary
	symParameter
)

type symbol struct {
	kind  symbolKind
	index int
}

type stoichEntry struct {
	species int
	coef    float64
}

type compiledReaction struct {
	Reaction
	rate    *rateLaw
	changes []stoichEntry
}

// Model is a parsed reaction network. It implements dynamo.System over the
// floating species in declaration order.
type Model struct {
	Name string

	floating  []string
	boundary  []string
	params    []string
	symbols   map[string]symbol
	init      []float64 // floating species initial concentrations
	values    []float64 // boundary species, then parameters
	reactions []compiledReaction
}

var _ dynamo.System = (*Model)(nil)

func (d *draft) build() (*Model, error) {
	if len(d.reactions) == 0 {
		return nil, ErrEmpty
	}

	m := &Model{Name: d.name, symbols: make(map[string]symbol)}
	if m.Name == "" {
		m.Name = "model"
	}

	for _, name := range d.species {
		if d.boundary[name] {
			m.symbols[name] = symbol{kind: symBoundary, index: len(m.boundary)}
			m.boundary = append(m.boundary, name)
		} else {
			m.symbols[name] = symbol{kind: symFloating, index: len(m.floating)}
			m.floating = append(m.floating, name)
		}
	}
	for _, name := range d.order {
		if !d.seen[name] {
			m.params = append(m.params, name)
		}
	}
	sort.Strings(m.params)

	// values holds boundary species first, parameters after.
	for i, name := range m.params {
		m.symbols[name] = symbol{kind: symParameter, index: len(m.boundary) + i}
	}
	m.init = make([]float64, len(m.floating))
	m.values = make([]float64, len(m.boundary)+len(m.params))

	ev := &evaluator{d: d, done: make(map[string]float64), active: make(map[string]bool)}
	for _, name := range d.order {
		v, err := ev.value(name)
		if err != nil {
			return nil, err
		}
		sym := m.symbols[name]
		switch sym.kind {
		case symFloating:
			m.init[sym.index] = v
		default:
			m.values[sym.index] = v
		}
	}

	for _, dr := range d.reactions {
		rate, err := dr.rate.compile(m.ref)
		if err != nil {
			return nil, fmt.Errorf("reaction %s (line %d): %w", dr.id, dr.line, err)
		}
		cr := compiledReaction{
			Reaction: Reaction{
				ID:        dr.id,
				Reactants: dr.reactants,
				Products:  dr.products,
				Rate:      rate.text,
			},
			rate: rate,
		}
		cr.changes = m.netChanges(dr.reactants, dr.products)
		m.reactions = append(m.reactions, cr)
	}

	return m, nil
}

// netChanges folds both sides into per-species stoichiometry, dropping
// boundary species and species that cancel out.
func (m *Model) netChanges(reactants, products []Term) []stoichEntry {
	net := make(map[int]float64)
	var order []int
	add := func(terms []Term, sign float64) {
		for _, term := range terms {
			sym := m.symbols[term.Species]
			if sym.kind != symFloating {
				continue
			}
			if _, ok := net[sym.index]; !ok {
				order = append(order, sym.index)
			}
			net[sym.index] += sign * term.Coef
		}
	}
	add(reactants, -1)
	add(products, 1)

	changes := make([]stoichEntry, 0, len(order))
	for _, idx := range order {
		if net[idx] != 0 {
			changes = append(changes, stoichEntry{species: idx, coef: net[idx]})
		}
	}
	return changes
}

// ref names the slot of a symbol in a rateEnv.
func (m *Model) ref(name string) (string, error) {
	sym, ok := m.symbols[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUndefinedSymbol, name)
	}
	if sym.kind == symFloating {
		return fmt.Sprintf("X[%d]", sym.index), nil
	}
	return fmt.Sprintf("V[%d]", sym.index), nil
}

// evaluator computes assignment values in dependency order.
type evaluator struct {
	d      *draft
	done   map[string]float64
	active map[string]bool
}

func (ev *evaluator) value(name string) (float64, error) {
	if v, ok := ev.done[name]; ok {
		return v, nil
	}
	x, ok := ev.d.assignments[name]
	if !ok {
		if ev.d.seen[name] {
			// Unassigned species start empty.
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUndefinedSymbol, name)
	}
	if ev.active[name] {
		return 0, fmt.Errorf("%w: %s (line %d)", ErrCircular, name, ev.d.assignLine[name])
	}
	ev.active[name] = true
	defer delete(ev.active, name)

	var deps []float64
	slots := make(map[string]int)
	for _, ref := range x.idents() {
		if _, ok := slots[ref]; ok {
			continue
		}
		v, err := ev.value(ref)
		if err != nil {
			return 0, err
		}
		slots[ref] = len(deps)
		deps = append(deps, v)
	}

	law, err := x.compile(func(ref string) (string, error) {
		return fmt.Sprintf("V[%d]", slots[ref]), nil
	})
	if err != nil {
		return 0, err
	}
	v := law.eval(&rateEnv{V: deps})
	ev.done[name] = v
	return v, nil
}

func (m *Model) StateDim() int { return len(m.floating) }

// Derive returns d[S]/dt for every floating species.
func (m *Model) Derive(x dynamo.State, t float64) dynamo.State {
	dx := make(dynamo.State, len(m.floating))
	e := &rateEnv{X: x, V: m.values, T: t}
	for _, r := range m.reactions {
		v := r.rate.eval(e)
		for _, c := range r.changes {
			dx[c.species] += c.coef * v
		}
	}
	return dx
}

// Rates evaluates every reaction rate at state x and time t.
func (m *Model) Rates(x dynamo.State, t float64) []float64 {
	e := &rateEnv{X: x, V: m.values, T: t}
	rates := make([]float64, len(m.reactions))
	for i, r := range m.reactions {
		rates[i] = r.rate.eval(e)
	}
	return rates
}

// Stoichiometry returns the floating-species by reaction matrix.
func (m *Model) Stoichiometry() [][]float64 {
	n := make([][]float64, len(m.floating))
	for i := range n {
		n[i] = make([]float64, len(m.reactions))
	}
	for j, r := range m.reactions {
		for _, c := range r.changes {
			n[c.species][j] = c.coef
		}
	}
	return n
}

// Species lists floating species followed by boundary species.
func (m *Model) Species() []string {
	out := make([]string, 0, len(m.floating)+len(m.boundary))
	out = append(out, m.floating...)
	return append(out, m.boundary...)
}

func (m *Model) FloatingSpecies() []string { return append([]string(nil), m.floating...) }
func (m *Model) BoundarySpecies() []string { return append([]string(nil), m.boundary...) }
func (m *Model) Parameters() []string      { return append([]string(nil), m.params...) }

func (m *Model) Reactions() []Reaction {
	out := make([]Reaction, len(m.reactions))
	for i, r := range m.reactions {
		out[i] = r.Reaction
	}
	return out
}

// InitialState returns a fresh copy of the floating species initial values.
func (m *Model) InitialState() dynamo.State {
	return dynamo.State(m.init).Clone()
}

// IsSpecies reports whether name is a floating or boundary species.
func (m *Model) IsSpecies(name string) bool {
	sym, ok := m.symbols[name]
	return ok && sym.kind != symParameter
}

// Get returns a parameter value or a species initial concentration.
func (m *Model) Get(name string) (float64, error) {
	sym, ok := m.symbols[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUndefinedSymbol, name)
	}
	if sym.kind == symFloating {
		return m.init[sym.index], nil
	}
	return m.values[sym.index], nil
}

// Set changes a parameter value or a species initial concentration.
func (m *Model) Set(name string, v float64) error {
	sym, ok := m.symbols[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUndefinedSymbol, name)
	}
	if sym.kind == symFloating {
		m.init[sym.index] = v
	} else {
		m.values[sym.index] = v
	}
	return nil
}

// Clone copies the model's values; compiled rate laws are shared.
func (m *Model) Clone() *Model {
	c := *m
	c.init = append([]float64(nil), m.init...)
	c.values = append([]float64(nil), m.values...)
	return &c
}
