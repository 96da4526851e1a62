package calc

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned when the input is not a well-formed expression.
	ErrSyntax = errors.New("syntax error")

	// ErrDisallowed is returned when the input parses but uses a construct outside the
	// arithmetic whitelist (names, calls, member access, comparisons...).
	ErrDisallowed = errors.New("disallowed construct")

	// ErrDivisionByZero is returned for x/0 and x%0.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidOperation is returned when an operation yields NaN or overflows.
	ErrInvalidOperation = errors.New("invalid operation")
)

// Kind classifies evaluation failures.
type Kind int

const (
	KindSyntax Kind = iota + 1
	KindDisallowed
	KindDivisionByZero
	KindInvalidOperation
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindDisallowed:
		return "DisallowedConstruct"
	case KindDivisionByZero:
		return "DivisionByZero"
	case KindInvalidOperation:
		return "InvalidOperation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindSyntax:
		return ErrSyntax
	case KindDisallowed:
		return ErrDisallowed
	case KindDivisionByZero:
		return ErrDivisionByZero
	default:
		return ErrInvalidOperation
	}
}

// Error describes a failed evaluation.
// Pos is the 0-based byte offset of the offending token, or -1 for runtime errors.
type Error struct {
	Kind Kind
	Pos  int
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at column %d: %s", e.Kind.sentinel(), e.Pos+1, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Msg)
}

// Unwrap lets errors.Is match the package sentinels.
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// KindOf returns the Kind of err, or 0 if err did not come from this package.
func KindOf(err error) Kind {
	var calcErr *Error
	if errors.As(err, &calcErr) {
		return calcErr.Kind
	}
	return 0
}

func syntaxErr(pos int, format string, args ...any) error {
	return &Error{Kind: KindSyntax, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func disallowedErr(pos int, format string, args ...any) error {
	return &Error{Kind: KindDisallowed, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func runtimeErr(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Pos: -1, Msg: fmt.Sprintf(format, args...)}
}
