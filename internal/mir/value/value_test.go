package value

import (
	"testing"

	"github.com/stretchr/testify/assert"

	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
)

func TestIsReference(t *testing.T) {
	assert.True(t, Reg("r.0", mirtypes.I32()).IsReference())
	assert.True(t, Param("p.0", mirtypes.I32()).IsReference())
	assert.True(t, Var(".0", mirtypes.I32()).IsReference())
	assert.False(t, Int(1, mirtypes.I32()).IsReference())
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "r.0", Reg("r.0", mirtypes.I32()).String())
	assert.Equal(t, "42", Int(42, mirtypes.I32()).String())
	assert.Equal(t, "@foo", Const("foo", mirtypes.I32()).String())
	assert.Equal(t, "nil", Nil(mirtypes.Ptr(mirtypes.I32())).String())
	assert.Equal(t, "undef", Undef(mirtypes.I32()).String())
	assert.Equal(t, "unit", Unit().String())
}

func TestStructuredValuesCarryElements(t *testing.T) {
	arr := Array([]Value{Int(1, mirtypes.I32()), Int(2, mirtypes.I32())}, mirtypes.Array(2, mirtypes.I32()))
	assert.Len(t, arr.Elements, 2)

	tup := Tuple([]Value{Int(1, mirtypes.I32()), Str("hi")})
	assert.Len(t, tup.Elements, 2)

	sl := Slice(Var(".0", mirtypes.Ptr(mirtypes.I32())), mirtypes.Ptr(mirtypes.I32()))
	assert.Len(t, sl.Elements, 1)
}
