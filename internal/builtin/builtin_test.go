package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelilylang/lily-sub004/internal/datatype"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Entry{Name: "Vec", Type: datatype.New(datatype.KindBuiltin)}))

	e, idx, ok := r.Lookup("Vec")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "Vec", e.Name)
}

func TestRegisterRejectsEmptyNameAndDuplicate(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(Entry{Name: ""}))

	require.NoError(t, r.Register(Entry{Name: "Vec"}))
	assert.Error(t, r.Register(Entry{Name: "Vec"}))
}

func TestAliasResolvesToCanonical(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Entry{Name: "write"}))
	require.NoError(t, r.Alias("sys_write", "write"))

	e, _, ok := r.Lookup("sys_write")
	require.True(t, ok)
	assert.Equal(t, "write", e.Name)
}

func TestAliasRejectsUnregisteredCanonical(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Alias("sys_write", "write"))
}

func TestByIndex(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Entry{Name: "Vec"}))
	e, ok := r.ByIndex(0)
	require.True(t, ok)
	assert.Equal(t, "Vec", e.Name)

	_, ok = r.ByIndex(5)
	assert.False(t, ok)
}
