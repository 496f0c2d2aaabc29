package network

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// rateEnv is what compiled expressions see: floating species by index,
// boundary species and parameters by index, and the current time.
type rateEnv struct {
	X []float64
	V []float64
	T float64
}

// expression is a rate law or assignment right-hand side as written.
type expression struct {
	toks []token
	text string
	line int
	col  int
}

// idents lists the variable names an expression refers to, in order of
// appearance. Function names and time are not included.
func (x expression) idents() []string {
	var out []string
	for i, t := range x.toks {
		if t.kind == tokIdent && !x.isCall(i) && t.text != "time" {
			out = append(out, t.text)
		}
	}
	return out
}

func (x expression) isCall(i int) bool {
	return i+1 < len(x.toks) && x.toks[i+1].kind == tokLParen
}

// compile rewrites every variable through ref and compiles the result.
// Numbers are written as float literals so arithmetic is always float64.
func (x expression) compile(ref func(name string) (string, error)) (*rateLaw, error) {
	var sb strings.Builder
	for i, t := range x.toks {
		switch {
		case t.kind == tokNumber:
			sb.WriteString(floatLiteral(t.num))
		case t.kind == tokIdent && x.isCall(i):
			sb.WriteString(t.text)
		case t.kind == tokIdent && t.text == "time":
			sb.WriteString("T")
		case t.kind == tokIdent:
			r, err := ref(t.text)
			if err != nil {
				return nil, err
			}
			sb.WriteString(r)
		default:
			sb.WriteString(t.text)
		}
		sb.WriteByte(' ')
	}

	program, err := expr.Compile(sb.String(), exprOptions...)
	if err != nil {
		msg, _, _ := strings.Cut(err.Error(), "\n")
		return nil, &ParseError{Line: x.line, Col: x.col, Msg: fmt.Sprintf("%s: %s", x.text, msg)}
	}
	return &rateLaw{text: x.text, program: program}, nil
}

func floatLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// rateLaw is a compiled expression.
type rateLaw struct {
	text    string
	program *vm.Program
}

var machines = sync.Pool{New: func() any { return new(vm.VM) }}

func (r *rateLaw) eval(e *rateEnv) float64 {
	machine := machines.Get().(*vm.VM)
	out, err := machine.Run(r.program, e)
	machines.Put(machine)
	if err != nil {
		return math.NaN()
	}
	v, ok := out.(float64)
	if !ok {
		return math.NaN()
	}
	return v
}

// function is callable from rate laws; typ is its signature for the
// expression checker.
type function struct {
	typ  any
	call func(args []float64) float64
}

func unary(f func(float64) float64) function {
	return function{
		typ:  new(func(float64) float64),
		call: func(a []float64) float64 { return f(a[0]) },
	}
}

func fold(f func(a, b float64) float64) function {
	return function{
		typ: new(func(float64, ...float64) float64),
		call: func(a []float64) float64 {
			m := a[0]
			for _, v := range a[1:] {
				m = f(m, v)
			}
			return m
		},
	}
}

var functions = map[string]function{
	"exp":   unary(math.Exp),
	"ln":    unary(math.Log),
	"log":   unary(math.Log),
	"log10": unary(math.Log10),
	"sqrt":  unary(math.Sqrt),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"pow": {
		typ:  new(func(float64, float64) float64),
		call: func(a []float64) float64 { return math.Pow(a[0], a[1]) },
	},
	"min": fold(math.Min),
	"max": fold(math.Max),
}

var exprOptions = func() []expr.Option {
	opts := []expr.Option{expr.Env(&rateEnv{}), expr.AsFloat64()}
	for name, fn := range functions {
		call := fn.call
		opts = append(opts, expr.Function(name, func(params ...any) (any, error) {
			args, err := floatArgs(params)
			if err != nil {
				return nil, err
			}
			return call(args), nil
		}, fn.typ))
	}
	return opts
}()

func floatArgs(params []any) ([]float64, error) {
	args := make([]float64, 0, len(params))
	for _, p := range params {
		switch v := p.(type) {
		case float64:
			args = append(args, v)
		case []float64:
			args = append(args, v...)
		default:
			return nil, fmt.Errorf("network: non-numeric argument %v", p)
		}
	}
	return args, nil
}

// parseExpr takes the tokens up to the end of the statement as one
// expression. Parentheses must balance and calls must name a known
// function; the rest is checked when the expression is compiled.
func (p *lineParser) parseExpr() (expression, error) {
	first := p.peek()
	x := expression{line: p.line, col: first.col}
	depth := 0
	for {
		t := p.peek()
		if t.kind == tokEOF || t.kind == tokSemicolon {
			break
		}
		switch t.kind {
		case tokLParen:
			depth++
		case tokRParen:
			if depth == 0 {
				return x, p.errorf(t, "unexpected %s", describe(t))
			}
			depth--
		case tokIdent:
			if p.toks[p.pos+1].kind == tokLParen {
				if _, ok := functions[t.text]; !ok {
					return x, p.errorf(t, "unknown function %q", t.text)
				}
			}
		}
		x.toks = append(x.toks, p.next())
	}

	end := p.peek()
	if len(x.toks) == 0 {
		return x, p.errorf(end, "expected expression, found %s", describe(end))
	}
	if depth > 0 {
		return x, p.errorf(end, "expected ')', found %s", describe(end))
	}
	x.text = strings.TrimSpace(p.src[first.col-1 : end.col-1])
	return x, nil
}
