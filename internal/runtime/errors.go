package runtime

import (
	"errors"
	"fmt"

	"nsc-lang/internal/ast"
	"nsc-lang/internal/span"
)

// ErrorKind classifies runtime errors.
type ErrorKind int

const (
	AlreadyDeclared ErrorKind = iota + 1
	UndeclaredVariable
	UninitializedAccess
	TypeMismatch
	InvalidCallee
	NoSuchMember
	UnsupportedNode
	ArityMismatch
)

var errorKindNames = map[ErrorKind]string{
	AlreadyDeclared:     "AlreadyDeclared",
	UndeclaredVariable:  "UndeclaredVariable",
	UninitializedAccess: "UninitializedAccess",
	TypeMismatch:        "TypeMismatch",
	InvalidCallee:       "InvalidCallee",
	NoSuchMember:        "NoSuchMember",
	UnsupportedNode:     "UnsupportedNode",
	ArityMismatch:       "ArityMismatch",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseErrorKind returns the kind with the given name.
func ParseErrorKind(name string) (ErrorKind, bool) {
	for k, n := range errorKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Sentinels for errors.Is. They match any *RuntimeError of the same kind.
var (
	ErrAlreadyDeclared     = &RuntimeError{Kind: AlreadyDeclared}
	ErrUndeclaredVariable  = &RuntimeError{Kind: UndeclaredVariable}
	ErrUninitializedAccess = &RuntimeError{Kind: UninitializedAccess}
	ErrTypeMismatch        = &RuntimeError{Kind: TypeMismatch}
	ErrInvalidCallee       = &RuntimeError{Kind: InvalidCallee}
	ErrNoSuchMember        = &RuntimeError{Kind: NoSuchMember}
	ErrUnsupportedNode     = &RuntimeError{Kind: UnsupportedNode}
	ErrArityMismatch       = &RuntimeError{Kind: ArityMismatch}
)

// RuntimeError represents an error during interpretation. Span is zero for
// errors raised by scope and value operations until the evaluator attaches
// the location of the node that observed them.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Span    span.Span
}

func (e *RuntimeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Span.IsZero() {
		return "runtime error: " + msg
	}
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, msg)
}

// Is reports whether target is a *RuntimeError of the same kind.
func (e *RuntimeError) Is(target error) bool {
	t, ok := target.(*RuntimeError)
	return ok && t.Kind == e.Kind
}

func runtimeErr(kind ErrorKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// attachSpan gives a location to errors that do not have one yet.
func attachSpan(err error, s span.Span) error {
	var re *RuntimeError
	if errors.As(err, &re) {
		if re.Span.IsZero() {
			re.Span = s
		}
		return err
	}
	if errors.Is(err, ast.ErrUnsupportedNode) {
		return &RuntimeError{Kind: UnsupportedNode, Message: err.Error(), Span: s}
	}
	return err
}
