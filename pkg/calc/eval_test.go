package calc_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/aretw0/minibot/pkg/calc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want float64
	}{
		{"Precedence", "2+2*3", 8},
		{"Parentheses", "(2+3)*4", 20},
		{"Right Associative Power", "2^3^2", 512},
		{"Double Star Alias", "2**3", 8},
		{"Left Associative Subtraction", "10-3-2", 5},
		{"Left Associative Division", "100/10/5", 2},
		{"Fractional Division", "10/4", 2.5},
		{"Unary Binds Tighter Than Power", "-2^2", 4},
		{"Negative Exponent", "2^-1", 0.5},
		{"Repeated Unary", "--3", 3},
		{"Identity", "+5", 5},
		{"Modulo", "7 % 3", 1},
		{"Modulo Takes Divisor Sign", "-7 % 3", 2},
		{"Modulo Negative Divisor", "7 % -3", -2},
		{"Bare Fractions", ".5 + 1.", 1.5},
		{"Exponent Literal", "1e3", 1000},
		{"Whitespace", " 2 * ( 3 + 4 ) ", 14},
		{"Nested Parentheses", "((((7))))", 7},
		{"Mixed", "3 + 4 * 2 / (1 - 5) ^ 2", 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Evaluate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_NonTerminating(t *testing.T) {
	got, err := calc.Evaluate("1/3")
	require.NoError(t, err)
	assert.InDelta(t, 0.333333, got, 1e-6)

	got, err = calc.Evaluate("2^0.5")
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, got, 1e-12)
}

func TestEvaluate_DisallowedConstructs(t *testing.T) {
	inputs := []string{
		"x",
		"pi * 2",
		"2 + foo",
		"abs(-3)",
		"__import__('os')",
		"os.system",
		"a[0]",
		"x = 3",
		"1 < 2",
		"1 == 1",
		"2 && 3",
		"!1",
		"'abc'",
		"(1).real",
		"7 // 2",
		"2 @ 3",
		"2 & 3",
		"2 | 3",
		"1 << 2",
		"8 >> 1",
		"~1",
		"[1,2]",
		"[]",
		"lambda: 1",
		"lambda x, y: x",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v, err := calc.Evaluate(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, calc.ErrDisallowed)
			assert.Equal(t, calc.KindDisallowed, calc.KindOf(err))
			assert.Zero(t, v)
		})
	}
}

func TestEvaluate_StructureCheckedBeforeEvaluation(t *testing.T) {
	// Division by zero would fail first if anything were evaluated.
	_, err := calc.Evaluate("1/0 + x")
	assert.ErrorIs(t, err, calc.ErrDisallowed)
}

func TestEvaluate_SyntaxErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"2+",
		"(2+3",
		"2+3)",
		"2 3",
		"*2",
		"1..2",
		"()",
		"#",
		"2 $ 3",
		"lambda 1",
		"[1,",
		"'unterminated",
		"f(1,",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := calc.Evaluate(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, calc.ErrSyntax)
		})
	}
}

func TestEvaluate_DeepNesting(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"Parentheses", strings.Repeat("(", 1_000_000) + "1" + strings.Repeat(")", 1_000_000)},
		{"Unclosed Parentheses", strings.Repeat("(", 1_000_000)},
		{"Prefix Operators", strings.Repeat("-", 1_000_000) + "1"},
		{"Power Chain", strings.Repeat("2^", 1_000_000) + "2"},
		{"Lists", strings.Repeat("[", 1_000_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Evaluate(tt.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, calc.ErrSyntax)
			assert.Contains(t, err.Error(), "nested too deeply")
		})
	}

	got, err := calc.Evaluate(strings.Repeat("(", 200) + "7" + strings.Repeat(")", 200))
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestEvaluate_RuntimeErrors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"1/0", calc.ErrDivisionByZero},
		{"1%0", calc.ErrDivisionByZero},
		{"5/(2-2)", calc.ErrDivisionByZero},
		{"0^-1", calc.ErrDivisionByZero},
		{"(-8)^0.5", calc.ErrInvalidOperation},
		{"10^400", calc.ErrInvalidOperation},
		{"1e400", calc.ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v, err := calc.Evaluate(tt.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, math.IsInf(v, 0))
			assert.False(t, math.IsNaN(v))
		})
	}
}

func TestError_Position(t *testing.T) {
	_, err := calc.Evaluate("2 + x")
	var calcErr *calc.Error
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, 4, calcErr.Pos)
	assert.Equal(t, `disallowed construct at column 5: name "x" is not allowed`, calcErr.Error())

	_, err = calc.Evaluate("1/0")
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, -1, calcErr.Pos)
	assert.Equal(t, "DivisionByZero", calcErr.Kind.String())
}

func TestParse_Tree(t *testing.T) {
	tests := []struct {
		expr string
		want calc.Expr
	}{
		{
			expr: "1+2*3",
			want: &calc.Binary{
				Op:   calc.Add,
				Left: calc.Literal(1),
				Right: &calc.Binary{
					Op:    calc.Multiply,
					Left:  calc.Literal(2),
					Right: calc.Literal(3),
				},
			},
		},
		{
			expr: "2^3^2",
			want: &calc.Binary{
				Op:   calc.Power,
				Left: calc.Literal(2),
				Right: &calc.Binary{
					Op:    calc.Power,
					Left:  calc.Literal(3),
					Right: calc.Literal(2),
				},
			},
		},
		{
			expr: "-(4)",
			want: &calc.Unary{Op: calc.Negate, Operand: calc.Literal(4)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := calc.Parse(tt.expr)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestString(t *testing.T) {
	tree, err := calc.Parse("1 + 2 * -3")
	require.NoError(t, err)
	assert.Equal(t, "(1 + (2 * (-3)))", calc.String(tree))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "8", calc.Format(8))
	assert.Equal(t, "2.5", calc.Format(2.5))
	assert.Equal(t, "0", calc.Format(math.Copysign(0, -1)))
	assert.Equal(t, "-3", calc.Format(-3))
	assert.Equal(t, "0.3333333333333333", calc.Format(1.0/3.0))
	assert.Equal(t, "1e+20", calc.Format(1e20))
}

func TestLooksLikeMath(t *testing.T) {
	assert.True(t, calc.LooksLikeMath("2+2*3"))
	assert.True(t, calc.LooksLikeMath("(1 + 2) ^ 3"))
	assert.True(t, calc.LooksLikeMath("2**3"))
	assert.False(t, calc.LooksLikeMath("hesapla 2"))
	assert.False(t, calc.LooksLikeMath(""))
	assert.False(t, calc.LooksLikeMath("  "))
}
