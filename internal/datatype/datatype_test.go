package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefAndReleaseShareCount(t *testing.T) {
	dt := New(KindI32)
	assert.Equal(t, 1, dt.RefCount())
	dt.Ref()
	assert.Equal(t, 2, dt.RefCount())
	dt.Release()
	assert.Equal(t, 1, dt.RefCount())
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	dt := New(KindI32)
	clone := dt.Clone()
	dt.Ref()
	assert.Equal(t, 2, dt.RefCount())
	assert.Equal(t, 1, clone.RefCount())
}

func TestWrapPtr(t *testing.T) {
	inner := New(KindI32)
	ptr := WrapPtr(inner, CtxHeap)
	assert.Equal(t, KindPointer, ptr.Kind)
	assert.True(t, ptr.Context.Has(CtxHeap))
	assert.Same(t, inner, ptr.Pointer)
}

func TestEqualStructural(t *testing.T) {
	a := WrapPtr(New(KindI32), 0)
	b := WrapPtr(New(KindI32), 0)
	c := WrapPtr(New(KindI64), 0)
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func TestSerializeNameWithNoGenericsReturnsBase(t *testing.T) {
	assert.Equal(t, "foo", SerializeName("foo", nil))
}

func TestSerializeNameMangling(t *testing.T) {
	got := SerializeName("foo", []*DataType{New(KindI32), WrapPtr(New(KindU8), 0)})
	assert.Equal(t, "foo.I32.PtrU8", got)
}
