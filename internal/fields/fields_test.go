package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelilylang/lily-sub004/internal/datatype"
)

func TestAddAndGet(t *testing.T) {
	fc := NewFieldsContainer()
	require.NoError(t, fc.Add(&Field{Kind: KindMember, Name: "x", Member: &Member{Type: datatype.New(datatype.KindI32)}}))
	f, ok := fc.Get("x")
	require.True(t, ok)
	assert.Equal(t, datatype.KindI32, f.Member.Type.Kind)
}

func TestAddDuplicateNameFails(t *testing.T) {
	fc := NewFieldsContainer()
	require.NoError(t, fc.Add(&Field{Kind: KindMember, Name: "x", Member: &Member{Type: datatype.New(datatype.KindI32)}}))
	err := fc.Add(&Field{Kind: KindMember, Name: "x", Member: &Member{Type: datatype.New(datatype.KindI32)}})
	assert.Error(t, err)
}

func TestGetFieldFromPathDescendsNestedNamedStruct(t *testing.T) {
	inner := NewFieldsContainer()
	require.NoError(t, inner.Add(&Field{Kind: KindMember, Name: "y", Member: &Member{Type: datatype.New(datatype.KindI32)}}))

	outer := NewFieldsContainer()
	require.NoError(t, outer.Add(&Field{Kind: KindNamedStruct, Name: "inner", Nested: inner}))

	f, err := outer.GetFieldFromPath("inner.y")
	require.NoError(t, err)
	assert.Equal(t, datatype.KindI32, f.Member.Type.Kind)
}

func TestGetFieldFromPathTransparentAnonymousMember(t *testing.T) {
	inner := NewFieldsContainer()
	require.NoError(t, inner.Add(&Field{Kind: KindMember, Name: "y", Member: &Member{Type: datatype.New(datatype.KindI32)}}))

	outer := NewFieldsContainer()
	require.NoError(t, outer.Add(&Field{Kind: KindAnonymousStruct, Nested: inner}))

	f, err := outer.GetFieldFromPath("y")
	require.NoError(t, err)
	assert.Equal(t, datatype.KindI32, f.Member.Type.Kind)
}

func TestHasGenericDetectsGenericMember(t *testing.T) {
	fc := NewFieldsContainer()
	require.NoError(t, fc.Add(&Field{Kind: KindMember, Name: "t", Member: &Member{Type: &datatype.DataType{Kind: datatype.KindGeneric, Generic: &datatype.GenericPayload{Name: "T"}}}}))
	assert.True(t, fc.HasGeneric())
}

func TestValidateBitWidth(t *testing.T) {
	u8 := datatype.New(datatype.KindU8)
	assert.NoError(t, ValidateBitWidth(u8, 4))
	assert.Error(t, ValidateBitWidth(u8, 9))
	assert.Error(t, ValidateBitWidth(u8, 0))
}
