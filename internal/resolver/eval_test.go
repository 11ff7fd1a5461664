package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/expr"
)

func lit(kind expr.LiteralKind, v any) *expr.Expression {
	l := &expr.LiteralExpr{Kind: kind}
	switch kind {
	case expr.LitBool:
		l.Bool = v.(bool)
	case expr.LitSignedInt:
		l.Int = v.(int64)
	case expr.LitUnsignedInt:
		l.Uint = v.(uint64)
	case expr.LitFloat:
		l.Float = v.(float64)
	}
	return &expr.Expression{Kind: expr.KindLiteral, Literal: l}
}

func binary(op expr.BinaryOp, l, r *expr.Expression) *expr.Expression {
	return &expr.Expression{Kind: expr.KindBinary, Binary: &expr.BinaryExpr{Op: op, Left: l, Right: r}}
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		e    *expr.Expression
		want int64
	}{
		{"add", binary(expr.OpAdd, lit(expr.LitSignedInt, int64(2)), lit(expr.LitSignedInt, int64(3))), 5},
		{"sub", binary(expr.OpSub, lit(expr.LitSignedInt, int64(10)), lit(expr.LitSignedInt, int64(4))), 6},
		{"mul", binary(expr.OpMul, lit(expr.LitSignedInt, int64(6)), lit(expr.LitSignedInt, int64(7))), 42},
		{"div", binary(expr.OpDiv, lit(expr.LitSignedInt, int64(20)), lit(expr.LitSignedInt, int64(4))), 5},
		{"mod", binary(expr.OpMod, lit(expr.LitSignedInt, int64(10)), lit(expr.LitSignedInt, int64(3))), 1},
		{"shl", binary(expr.OpShl, lit(expr.LitSignedInt, int64(1)), lit(expr.LitSignedInt, int64(4))), 16},
		{"bitand", binary(expr.OpBitAnd, lit(expr.LitSignedInt, int64(0b110)), lit(expr.LitSignedInt, int64(0b011))), 0b010},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvaluator(ModeCompileTime, &diag.Bag{}, nil)
			v, ok := ev.Eval(tt.e)
			require.True(t, ok)
			assert.Equal(t, VSInt, v.Kind)
			assert.Equal(t, tt.want, v.SInt)
		})
	}
}

func TestEvalMixedSIntUIntPromotesToSInt(t *testing.T) {
	// spec.md §4.3.1 flags this cell "(!)": unlike C's usual arithmetic
	// conversions, a mix of SInt and UInt operands promotes to SInt, not
	// UInt.
	e := binary(expr.OpAdd, lit(expr.LitSignedInt, int64(2)), lit(expr.LitUnsignedInt, uint64(3)))
	ev := NewEvaluator(ModeCompileTime, &diag.Bag{}, nil)
	v, ok := ev.Eval(e)
	require.True(t, ok)
	assert.Equal(t, VSInt, v.Kind)
	assert.Equal(t, int64(5), v.SInt)

	// Operand order must not matter.
	e2 := binary(expr.OpAdd, lit(expr.LitUnsignedInt, uint64(3)), lit(expr.LitSignedInt, int64(2)))
	v2, ok := ev.Eval(e2)
	require.True(t, ok)
	assert.Equal(t, VSInt, v2.Kind)
	assert.Equal(t, int64(5), v2.SInt)
}

func TestEvalDivisionByZeroFails(t *testing.T) {
	ev := NewEvaluator(ModeCompileTime, &diag.Bag{}, nil)
	_, ok := ev.Eval(binary(expr.OpDiv, lit(expr.LitSignedInt, int64(1)), lit(expr.LitSignedInt, int64(0))))
	assert.False(t, ok)
}

func TestEvalShortCircuitAndSkipsRightOperand(t *testing.T) {
	ev := NewEvaluator(ModeCompileTime, &diag.Bag{}, nil)
	// The right operand is a division by zero; short-circuit must never
	// evaluate it once the left operand is false.
	badRight := binary(expr.OpDiv, lit(expr.LitSignedInt, int64(1)), lit(expr.LitSignedInt, int64(0)))
	e := binary(expr.OpAnd, lit(expr.LitBool, false), badRight)
	v, ok := ev.Eval(e)
	require.True(t, ok)
	assert.False(t, v.Bool)
}

func TestEvalShortCircuitOrSkipsRightOperand(t *testing.T) {
	ev := NewEvaluator(ModeCompileTime, &diag.Bag{}, nil)
	badRight := binary(expr.OpDiv, lit(expr.LitSignedInt, int64(1)), lit(expr.LitSignedInt, int64(0)))
	e := binary(expr.OpOr, lit(expr.LitBool, true), badRight)
	v, ok := ev.Eval(e)
	require.True(t, ok)
	assert.True(t, v.Bool)
}

func TestEvalComparison(t *testing.T) {
	e := binary(expr.OpLt, lit(expr.LitSignedInt, int64(2)), lit(expr.LitSignedInt, int64(3)))
	ev := NewEvaluator(ModeCompileTime, &diag.Bag{}, nil)
	v, ok := ev.Eval(e)
	require.True(t, ok)
	assert.True(t, v.Bool)
}

func TestEvalFloatPromotion(t *testing.T) {
	e := binary(expr.OpAdd, lit(expr.LitSignedInt, int64(1)), lit(expr.LitFloat, 1.5))
	ev := NewEvaluator(ModeCompileTime, &diag.Bag{}, nil)
	v, ok := ev.Eval(e)
	require.True(t, ok)
	assert.Equal(t, VFloat, v.Kind)
	assert.InDelta(t, 2.5, v.Float, 1e-9)
}

func TestEvalUnresolvedIdentifierRecordsDiagnostic(t *testing.T) {
	bag := &diag.Bag{}
	ev := NewEvaluator(ModePreprocessor, bag, nil)
	e := &expr.Expression{Kind: expr.KindIdentifier, Identifier: &expr.IdentifierExpr{Name: "X"}}
	_, ok := ev.Eval(e)
	assert.False(t, ok)
	require.Equal(t, 1, bag.Count())
	assert.Equal(t, diag.NotResolvableAtPreprocessorTime, bag.All()[0].Kind)
}

func TestEvalIdentifierLookup(t *testing.T) {
	bag := &diag.Bag{}
	lookup := func(name string) (Value, bool) {
		if name == "N" {
			return Value{Kind: VSInt, SInt: 10}, true
		}
		return Value{}, false
	}
	ev := NewEvaluator(ModeCompileTime, bag, lookup)
	e := &expr.Expression{Kind: expr.KindIdentifier, Identifier: &expr.IdentifierExpr{Name: "N"}}
	v, ok := ev.Eval(e)
	require.True(t, ok)
	assert.Equal(t, int64(10), v.SInt)
}

func TestEvalTernary(t *testing.T) {
	e := &expr.Expression{Kind: expr.KindTernary, Ternary: &expr.TernaryExpr{
		Cond: lit(expr.LitBool, true),
		Then: lit(expr.LitSignedInt, int64(1)),
		Else: lit(expr.LitSignedInt, int64(2)),
	}}
	ev := NewEvaluator(ModeCompileTime, &diag.Bag{}, nil)
	v, ok := ev.Eval(e)
	require.True(t, ok)
	assert.Equal(t, int64(1), v.SInt)
}

func TestEvalUnaryOperators(t *testing.T) {
	tests := []struct {
		op   expr.UnaryOp
		e    *expr.Expression
		want int64
	}{
		{expr.OpNeg, lit(expr.LitSignedInt, int64(5)), -5},
		{expr.OpBitNot, lit(expr.LitSignedInt, int64(0)), -1},
	}
	for _, tt := range tests {
		e := &expr.Expression{Kind: expr.KindUnary, Unary: &expr.UnaryExpr{Op: tt.op, Operand: tt.e}}
		ev := NewEvaluator(ModeCompileTime, &diag.Bag{}, nil)
		v, ok := ev.Eval(e)
		require.True(t, ok)
		assert.Equal(t, tt.want, v.SInt)
	}
}
