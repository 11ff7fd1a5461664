package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorIsMonotonic(t *testing.T) {
	a := NewAllocator()
	first := a.Next()
	second := a.Next()
	assert.Equal(t, first+1, second)
}

func TestInsertAndLookupWithinScope(t *testing.T) {
	s := New(0, nil, false)
	require.NoError(t, s.Insert(NsVariable, "x", 1))
	id, ok := s.Lookup(NsVariable, "x")
	require.True(t, ok)
	assert.Equal(t, uint64(1), id)
}

func TestInsertDuplicateInSameScopeFails(t *testing.T) {
	s := New(0, nil, false)
	require.NoError(t, s.Insert(NsVariable, "x", 1))
	assert.Error(t, s.Insert(NsVariable, "x", 2))
}

func TestLookupWalksParentChain(t *testing.T) {
	parent := New(0, nil, false)
	require.NoError(t, parent.Insert(NsVariable, "x", 1))
	child := New(1, parent, true)
	id, ok := child.Lookup(NsVariable, "x")
	require.True(t, ok)
	assert.Equal(t, uint64(1), id)
}

func TestChildShadowsParentBinding(t *testing.T) {
	parent := New(0, nil, false)
	require.NoError(t, parent.Insert(NsVariable, "x", 1))
	child := New(1, parent, true)
	require.NoError(t, child.Insert(NsVariable, "x", 2))

	id, ok := child.Lookup(NsVariable, "x")
	require.True(t, ok)
	assert.Equal(t, uint64(2), id)

	pid, ok := parent.Lookup(NsVariable, "x")
	require.True(t, ok)
	assert.Equal(t, uint64(1), pid)
}

func TestNamespacesAreIndependent(t *testing.T) {
	s := New(0, nil, false)
	require.NoError(t, s.Insert(NsStruct, "Foo", 1))
	require.NoError(t, s.Insert(NsFunction, "Foo", 2))

	sid, _ := s.Lookup(NsStruct, "Foo")
	fid, _ := s.Lookup(NsFunction, "Foo")
	assert.Equal(t, uint64(1), sid)
	assert.Equal(t, uint64(2), fid)
}

func TestBorrowStateWalksParentChain(t *testing.T) {
	parent := New(0, nil, false)
	parent.SetBorrowState("x", BorrowOwned)
	child := New(1, parent, true)
	st, ok := child.BorrowStateOf("x")
	require.True(t, ok)
	assert.Equal(t, BorrowOwned, st)
}

func TestIsDescendantOf(t *testing.T) {
	parent := New(0, nil, false)
	child := New(1, parent, true)
	grandchild := New(2, child, true)
	assert.True(t, grandchild.IsDescendantOf(parent))
	assert.False(t, parent.IsDescendantOf(grandchild))
}
