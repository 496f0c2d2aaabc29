package verify

import (
	"errors"
	"fmt"
)

var (
	ErrAssertion    = errors.New("verify: assertion failed")
	ErrSetup        = errors.New("verify: setup failed")
	ErrUnknownCheck = errors.New("verify: unknown check kind")
	ErrNoModel      = errors.New("verify: suite names no model")
)

// AssertionError describes a failed check.
type AssertionError struct {
	Check   string
	Species string
	Msg     string
}

func (e *AssertionError) Error() string {
	if e.Species != "" {
		return fmt.Sprintf("%s(%s): %s", e.Check, e.Species, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Check, e.Msg)
}

func (e *AssertionError) Unwrap() error { return ErrAssertion }

func failf(check, species, format string, args ...any) error {
	return &AssertionError{Check: check, Species: species, Msg: fmt.Sprintf(format, args...)}
}
