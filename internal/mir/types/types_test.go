package mirtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitWidth(t *testing.T) {
	assert.Equal(t, 1, I1().BitWidth())
	assert.Equal(t, 8, I8().BitWidth())
	assert.Equal(t, 32, I32().BitWidth())
	assert.Equal(t, 64, U64().BitWidth())
	assert.Equal(t, 0, Isize().BitWidth())
	assert.Equal(t, 0, F32().BitWidth())
}

func TestIsIntegerSignedFloatPointerLike(t *testing.T) {
	assert.True(t, I32().IsInteger())
	assert.True(t, I32().IsSigned())
	assert.False(t, U32().IsSigned())
	assert.True(t, F64().IsFloat())
	assert.False(t, I32().IsFloat())
	assert.True(t, Ptr(I32()).IsPointerLike())
	assert.True(t, Ref(I32()).IsPointerLike())
	assert.True(t, MutRef(I32()).IsPointerLike())
	assert.False(t, I32().IsPointerLike())
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "i32", I32().String())
	assert.Equal(t, "ptr(i32)", Ptr(I32()).String())
	assert.Equal(t, "mut ref(i32)", MutRef(I32()).String())
	assert.Equal(t, "array(4, i8)", Array(4, I8()).String())
	assert.Equal(t, "struct(i32, i8)", Struct([]*Type{I32(), I8()}).String())
	assert.Equal(t, "named", Named("named").String())
}

func TestEqualStructural(t *testing.T) {
	assert.True(t, Equal(Ptr(I32()), Ptr(I32())))
	assert.False(t, Equal(Ptr(I32()), Ptr(I64())))
	assert.True(t, Equal(Array(4, I8()), Array(4, I8())))
	assert.False(t, Equal(Array(4, I8()), Array(5, I8())))
	assert.True(t, Equal(Named("foo"), Named("foo")))
	assert.False(t, Equal(Named("foo"), Named("bar")))
}
