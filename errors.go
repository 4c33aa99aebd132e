package minipy

import "errors"

// Error kinds reported by the semantic passes. Every failure returned by
// ResolveNames or TypeCheck wraps exactly one of these, so callers can
// classify it with errors.Is.
var (
	ErrDuplicateBinding = errors.New("duplicate binding")
	ErrUnresolvedName   = errors.New("unresolved name")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrNoScope          = errors.New("no open scope")
)

// ErrSyntax is wrapped by every failure to read a program from its
// S-expression form.
var ErrSyntax = errors.New("syntax error")

// Phase names a pipeline stage that can fail. Translation never fails.
type Phase string

const (
	PhaseParse   Phase = "parse"
	PhaseResolve Phase = "resolve"
	PhaseCheck   Phase = "check"
)

// PhaseError reports which pipeline phase failed.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return string(e.Phase) + ": " + e.Err.Error()
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
