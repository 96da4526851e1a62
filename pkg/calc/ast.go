package calc

import (
	"fmt"
	"strconv"
)

// Expr is a node of the evaluable tree. The set of implementations is closed:
// Literal, *Unary and *Binary.
type Expr interface {
	expr()
}

// Literal is a numeric leaf.
type Literal float64

// UnaryOp enumerates the allowed prefix operators.
type UnaryOp int

const (
	Negate UnaryOp = iota + 1
	Identity
)

// Unary applies a prefix operator to its operand.
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

// BinaryOp enumerates the allowed infix operators.
type BinaryOp int

const (
	Add BinaryOp = iota + 1
	Subtract
	Multiply
	Divide
	Modulo
	Power
)

// Binary applies an infix operator to two operands.
type Binary struct {
	Op          BinaryOp
	Left, Right Expr
}

func (Literal) expr() {}
func (*Unary) expr()  {}
func (*Binary) expr() {}

func (op UnaryOp) String() string {
	switch op {
	case Negate:
		return "-"
	case Identity:
		return "+"
	default:
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
}

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	case Power:
		return "^"
	default:
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
}

// String renders e fully parenthesised, e.g. "(2 + (2 * 3))".
func String(e Expr) string {
	switch e := e.(type) {
	case Literal:
		return strconv.FormatFloat(float64(e), 'g', -1, 64)
	case *Unary:
		return "(" + e.Op.String() + String(e.Operand) + ")"
	case *Binary:
		return "(" + String(e.Left) + " " + e.Op.String() + " " + String(e.Right) + ")"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}
