/*
Package calc implements a sandboxed arithmetic evaluator.

Input is lexed and parsed with a deliberately wider "host" grammar that understands names,
calls, member access, indexing, assignment, strings, lists, lambdas, comparisons, logical
and bitwise operators, floor division and matrix multiplication.
The host tree is then restricted to a closed set of node kinds before anything is evaluated:

  - Literal: a decimal number.
  - Unary:   Negate (-x) or Identity (+x).
  - Binary:  Add, Subtract, Multiply, Divide, Modulo, Power.

Anything else is rejected structurally with ErrDisallowed. Parsing never evaluates and
evaluation never reads or writes process state. Nesting deeper than 256 levels is a
syntax error.

# Grammar

Precedence from high to low:

	unary   -x  +x
	power   x ^ y      (right-associative, "**" is an alias)
	mult    x * y  x / y  x % y
	add     x + y  x - y

Unary operators bind tighter than power, so "-2^2" is 4 and "2^-1" is 0.5.

# Usage

	v, err := calc.Evaluate("2+2*3")
	if errors.Is(err, calc.ErrDivisionByZero) {
		// ...
	}
	fmt.Println(calc.Format(v)) // 8
*/
package calc
