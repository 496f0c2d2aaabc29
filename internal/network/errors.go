package network

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates malformed model text.
	ErrSyntax = errors.New("network: syntax error")

	// ErrUndefinedSymbol indicates a name with no value: a rate law or
	// assignment referencing an unassigned parameter, or Get/Set on an
	// unknown name.
	ErrUndefinedSymbol = errors.New("network: undefined symbol")

	// ErrDuplicate indicates two reactions sharing an id.
	ErrDuplicate = errors.New("network: duplicate reaction id")

	// ErrCircular indicates assignments that depend on each other.
	ErrCircular = errors.New("network: circular assignment")

	// ErrEmpty indicates a model without reactions.
	ErrEmpty = errors.New("network: model has no reactions")
)

// ParseError locates a syntax problem in the model text.
type ParseError struct {
	Line int
	Col  int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("network: line %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *ParseError) Unwrap() error {
	if e.Err == nil {
		return ErrSyntax
	}
	return e.Err
}
