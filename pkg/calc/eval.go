package calc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Evaluate parses expr and computes its value.
// Errors are *Error values that match ErrSyntax, ErrDisallowed, ErrDivisionByZero
// or ErrInvalidOperation via errors.Is.
func Evaluate(expr string) (float64, error) {
	tree, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	return Eval(tree)
}

// Parse returns the restricted tree for expr without evaluating it.
func Parse(expr string) (Expr, error) {
	host, err := parseHost(expr)
	if err != nil {
		return nil, err
	}
	return restrict(host)
}

// Eval computes the value of a tree, post-order.
func Eval(e Expr) (float64, error) {
	switch e := e.(type) {
	case Literal:
		return float64(e), nil
	case *Unary:
		v, err := Eval(e.Operand)
		if err != nil {
			return 0, err
		}
		return e.Op.apply(v)
	case *Binary:
		l, err := Eval(e.Left)
		if err != nil {
			return 0, err
		}
		r, err := Eval(e.Right)
		if err != nil {
			return 0, err
		}
		return e.Op.apply(l, r)
	default:
		return 0, runtimeErr(KindInvalidOperation, "unknown node %T", e)
	}
}

func (op UnaryOp) apply(v float64) (float64, error) {
	switch op {
	case Negate:
		return -v, nil
	case Identity:
		return v, nil
	default:
		return 0, runtimeErr(KindInvalidOperation, "unknown unary operator %s", op)
	}
}

func (op BinaryOp) apply(l, r float64) (float64, error) {
	var v float64
	switch op {
	case Add:
		v = l + r
	case Subtract:
		v = l - r
	case Multiply:
		v = l * r
	case Divide:
		if r == 0 {
			return 0, runtimeErr(KindDivisionByZero, "%s / 0", Format(l))
		}
		v = l / r
	case Modulo:
		if r == 0 {
			return 0, runtimeErr(KindDivisionByZero, "%s %% 0", Format(l))
		}
		v = floorMod(l, r)
	case Power:
		if l == 0 && r < 0 {
			return 0, runtimeErr(KindDivisionByZero, "0 ^ %s", Format(r))
		}
		v = math.Pow(l, r)
	default:
		return 0, runtimeErr(KindInvalidOperation, "unknown binary operator %s", op)
	}

	if math.IsNaN(v) {
		return 0, runtimeErr(KindInvalidOperation, "%s %s %s is not a number", Format(l), op, Format(r))
	}
	if math.IsInf(v, 0) {
		return 0, runtimeErr(KindInvalidOperation, "%s %s %s overflows", Format(l), op, Format(r))
	}
	return v, nil
}

// floorMod takes the sign of the divisor: floorMod(-7, 3) == 2.
func floorMod(l, r float64) float64 {
	m := math.Mod(l, r)
	if m != 0 && (m < 0) != (r < 0) {
		m += r
	}
	return m
}

// Format renders a result: integral values without a fraction, everything else in
// the shortest form that round-trips.
func Format(v float64) string {
	if v == 0 {
		return "0" // also folds -0
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var mathOnly = regexp.MustCompile(`^[0-9.\s+\-*/%()^]+$`)

// LooksLikeMath reports whether raw consists only of digits, whitespace and
// arithmetic punctuation, i.e. whether it can be handed to Evaluate as-is.
func LooksLikeMath(raw string) bool {
	return strings.TrimSpace(raw) != "" && mathOnly.MatchString(raw)
}
