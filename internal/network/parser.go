package network

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// draft collects statements before symbols are resolved.
type draft struct {
	name        string
	reactions   []draftReaction
	species     []string // first-appearance order
	seen        map[string]bool
	boundary    map[string]bool
	assignments map[string]expression
	assignLine  map[string]int
	order       []string // assignment order
	reactionIDs map[string]bool
}

type draftReaction struct {
	id        string
	reactants []Term
	products  []Term
	rate      expression
	line      int
}

func newDraft() *draft {
	return &draft{
		seen:        make(map[string]bool),
		boundary:    make(map[string]bool),
		assignments: make(map[string]expression),
		assignLine:  make(map[string]int),
		reactionIDs: make(map[string]bool),
	}
}

func (d *draft) addSpecies(name string, boundary bool) {
	if !d.seen[name] {
		d.seen[name] = true
		d.species = append(d.species, name)
	}
	if boundary {
		d.boundary[name] = true
	}
}

// Parse reads a model from its text form.
func Parse(src string) (*Model, error) {
	return ParseReader(strings.NewReader(src))
}

// ParseFile reads a model from a file.
func ParseFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseReader(f)
}

// maxLineLength bounds a single line of model text.
const maxLineLength = 1 << 20

// ParseReader reads a model line by line from r. Statements end at a
// newline or ';'.
func ParseReader(r io.Reader) (*Model, error) {
	d := newDraft()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := stripComment(sc.Text())
		toks, err := lex(line, lineNo)
		if err != nil {
			return nil, err
		}
		p := &lineParser{cursor: cursor{toks: toks, line: lineNo}, src: line, d: d}
		if err := p.parseLine(); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return d.build()
}

// cursor walks the tokens of one line.
type cursor struct {
	toks []token
	pos  int
	line int
}

func (p *cursor) peek() token { return p.toks[p.pos] }

func (p *cursor) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *cursor) errorf(t token, format string, args ...any) error {
	return &ParseError{Line: p.line, Col: t.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *cursor) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.errorf(t, "expected %s, found %s", kind, describe(t))
	}
	return t, nil
}

func describe(t token) string {
	if t.text != "" {
		return fmt.Sprintf("%q", t.text)
	}
	return t.kind.String()
}

type lineParser struct {
	cursor
	src string
	d   *draft
}

func (p *lineParser) parseLine() error {
	for p.peek().kind != tokEOF {
		if p.peek().kind == tokSemicolon {
			p.next()
			continue
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	return nil
}

func (p *lineParser) parseStatement() error {
	t := p.peek()
	if t.kind == tokIdent {
		switch t.text {
		case "model":
			return p.parseModelHeader()
		case "end":
			p.next()
			return nil
		case "species":
			p.next()
			return p.parseSpeciesDecl()
		case "const", "var":
			p.next()
			return nil
		}
	}

	if p.hasArrow() {
		return p.parseReaction()
	}

	name, err := p.expect(tokIdent)
	if err != nil {
		return err
	}
	if _, err := p.expect(tokAssign); err != nil {
		return err
	}
	x, err := p.parseExpr()
	if err != nil {
		return err
	}
	if err := p.endStatement(); err != nil {
		return err
	}
	if _, ok := p.d.assignments[name.text]; !ok {
		p.d.order = append(p.d.order, name.text)
	}
	p.d.assignments[name.text] = x
	p.d.assignLine[name.text] = p.line
	return nil
}

// hasArrow reports whether the current statement is a reaction.
func (p *lineParser) hasArrow() bool {
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].kind {
		case tokArrow:
			return true
		case tokSemicolon, tokEOF, tokAssign:
			return false
		}
	}
	return false
}

func (p *lineParser) endStatement() error {
	switch t := p.peek(); t.kind {
	case tokSemicolon:
		p.next()
		return nil
	case tokEOF:
		return nil
	default:
		return p.errorf(t, "unexpected %s", describe(t))
	}
}

func (p *lineParser) parseModelHeader() error {
	p.next()
	if p.peek().kind == tokStar {
		p.next()
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return err
	}
	p.d.name = name.text
	if p.peek().kind == tokLParen {
		p.next()
		if _, err := p.expect(tokRParen); err != nil {
			return err
		}
	}
	return p.endStatement()
}

func (p *lineParser) parseSpeciesDecl() error {
	for {
		boundary := false
		if p.peek().kind == tokDollar {
			p.next()
			boundary = true
		}
		name, err := p.expect(tokIdent)
		if err != nil {
			return err
		}
		p.d.addSpecies(name.text, boundary)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	return p.endStatement()
}

func (p *lineParser) parseReaction() error {
	start := p.peek()
	var id string
	if p.peek().kind == tokIdent && p.toks[p.pos+1].kind == tokColon {
		id = p.next().text
		p.next()
	}

	reactants, err := p.parseSide()
	if err != nil {
		return err
	}
	if _, err := p.expect(tokArrow); err != nil {
		return err
	}
	products, err := p.parseSide()
	if err != nil {
		return err
	}
	if t := p.next(); t.kind != tokSemicolon {
		return p.errorf(t, "expected ';' before rate law, found %s", describe(t))
	}
	rate, err := p.parseExpr()
	if err != nil {
		return err
	}
	if err := p.endStatement(); err != nil {
		return err
	}

	if id == "" {
		id = fmt.Sprintf("_J%d", len(p.d.reactions))
	}
	if p.d.reactionIDs[id] {
		return &ParseError{Line: p.line, Col: start.col, Msg: fmt.Sprintf("reaction %q already defined", id), Err: ErrDuplicate}
	}
	p.d.reactionIDs[id] = true

	for _, side := range [][]Term{reactants, products} {
		for _, term := range side {
			p.d.addSpecies(term.Species, term.Boundary)
		}
	}
	p.d.reactions = append(p.d.reactions, draftReaction{
		id:        id,
		reactants: reactants,
		products:  products,
		rate:      rate,
		line:      p.line,
	})
	return nil
}

// parseSide reads "term (+ term)*" or nothing.
func (p *lineParser) parseSide() ([]Term, error) {
	var terms []Term
	switch p.peek().kind {
	case tokArrow, tokSemicolon, tokEOF:
		return terms, nil
	}
	for {
		term := Term{Coef: 1}
		if t := p.peek(); t.kind == tokNumber {
			p.next()
			if t.num <= 0 {
				return nil, p.errorf(t, "stoichiometric coefficient must be positive, got %s", t.text)
			}
			term.Coef = t.num
		}
		if p.peek().kind == tokDollar {
			p.next()
			term.Boundary = true
		}
		name, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		term.Species = name.text
		terms = append(terms, term)

		if p.peek().kind != tokPlus {
			return terms, nil
		}
		p.next()
	}
}
