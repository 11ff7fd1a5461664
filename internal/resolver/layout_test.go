package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelilylang/lily-sub004/internal/datatype"
	"github.com/thelilylang/lily-sub004/internal/fields"
)

func TestSizeOfPrimitives(t *testing.T) {
	l := NewLayout(DefaultPlatform)
	size, err := l.SizeOf(&datatype.DataType{Kind: datatype.KindI32})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), size)
}

func TestSizeOfGenericIsZeroWithoutError(t *testing.T) {
	// spec.md §4.3.2 / CI_DATA_TYPE_KIND_GENERIC: a generic type is
	// "unknown at this stage", sized 0 with no error, until monomorphized.
	l := NewLayout(DefaultPlatform)
	size, err := l.SizeOf(&datatype.DataType{Kind: datatype.KindGeneric, Generic: &datatype.GenericPayload{Name: "T"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), size)

	align, err := l.AlignOf(&datatype.DataType{Kind: datatype.KindGeneric, Generic: &datatype.GenericPayload{Name: "T"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), align)
}

func TestSizeAlignAggregateSkipsGenericFieldAndLaysOutTheRest(t *testing.T) {
	fc := fields.NewFieldsContainer()
	require.NoError(t, fc.Add(&fields.Field{
		Kind: fields.KindMember, Name: "tag",
		Member: &fields.Member{Type: &datatype.DataType{Kind: datatype.KindI32}},
	}))
	require.NoError(t, fc.Add(&fields.Field{
		Kind: fields.KindMember, Name: "value",
		Member: &fields.Member{Type: &datatype.DataType{Kind: datatype.KindGeneric, Generic: &datatype.GenericPayload{Name: "T"}}},
	}))
	require.NoError(t, fc.Add(&fields.Field{
		Kind: fields.KindMember, Name: "next",
		Member: &fields.Member{Type: &datatype.DataType{Kind: datatype.KindI32}},
	}))

	l := NewLayout(DefaultPlatform)
	size, align, err := l.sizeAlignAggregate(&datatype.AggregatePayload{Name: "Box", Fields: fc}, false)
	require.NoError(t, err)
	// The generic field contributes neither size nor padding: two i32
	// fields back to back, 8 bytes, 4-byte aligned.
	assert.Equal(t, uint64(8), size)
	assert.Equal(t, uint64(4), align)
}

func TestSizeAlignUnionTakesMaxIgnoringGenericMember(t *testing.T) {
	fc := fields.NewFieldsContainer()
	require.NoError(t, fc.Add(&fields.Field{
		Kind: fields.KindMember, Name: "i",
		Member: &fields.Member{Type: &datatype.DataType{Kind: datatype.KindI64}},
	}))
	require.NoError(t, fc.Add(&fields.Field{
		Kind: fields.KindMember, Name: "g",
		Member: &fields.Member{Type: &datatype.DataType{Kind: datatype.KindGeneric, Generic: &datatype.GenericPayload{Name: "T"}}},
	}))

	l := NewLayout(DefaultPlatform)
	size, align, err := l.sizeAlignAggregate(&datatype.AggregatePayload{Name: "U", Fields: fc}, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), size)
	assert.Equal(t, uint64(8), align)
}

func TestSizeAlignAggregateRejectsUnparsedFields(t *testing.T) {
	l := NewLayout(DefaultPlatform)
	_, _, err := l.sizeAlignAggregate(&datatype.AggregatePayload{Name: "Incomplete"}, false)
	assert.Error(t, err)
}
