// Package lower walks the typed AST (internal/expr, internal/decl) and
// drives internal/mir/builder to produce MIR, connecting the resolver's
// constant folding and the builder's structured control-flow lowering to
// real statement/expression trees instead of the ad hoc callbacks their
// unit tests construct directly. Grounded on the teacher's
// internal/manipulator package: a single-purpose "walk this tree, emit
// that other representation" module with no state beyond what one pass
// needs.
package lower

import (
	"fmt"

	"github.com/thelilylang/lily-sub004/internal/datatype"
	"github.com/thelilylang/lily-sub004/internal/fields"
	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
)

// Type converts a source-level DataType into the MIR type algebra
// (spec.md §3.6), dropping qualifiers and borrow-context bits the MIR does
// not carry.
func Type(dt *datatype.DataType) (*mirtypes.Type, error) {
	if dt == nil {
		return mirtypes.Unit(), nil
	}
	switch dt.Kind {
	case datatype.KindBool:
		return mirtypes.I1(), nil
	case datatype.KindChar, datatype.KindI8:
		return mirtypes.I8(), nil
	case datatype.KindI16:
		return mirtypes.I16(), nil
	case datatype.KindI32:
		return mirtypes.I32(), nil
	case datatype.KindI64:
		return mirtypes.I64(), nil
	case datatype.KindIsize:
		return mirtypes.Isize(), nil
	case datatype.KindU8:
		return mirtypes.U8(), nil
	case datatype.KindU16:
		return mirtypes.U16(), nil
	case datatype.KindU32:
		return mirtypes.U32(), nil
	case datatype.KindU64:
		return mirtypes.U64(), nil
	case datatype.KindUsize:
		return mirtypes.Usize(), nil
	case datatype.KindF32:
		return mirtypes.F32(), nil
	case datatype.KindF64:
		return mirtypes.F64(), nil
	case datatype.KindUnit, datatype.KindNever:
		return mirtypes.Unit(), nil
	case datatype.KindCStr:
		return mirtypes.Ptr(mirtypes.U8()), nil
	case datatype.KindStr, datatype.KindBytes, datatype.KindList:
		return mirtypes.Ptr(mirtypes.U8()), nil
	case datatype.KindPointer:
		inner, err := Type(dt.Pointer)
		if err != nil {
			return nil, err
		}
		return mirtypes.Ptr(inner), nil
	case datatype.KindRef:
		inner, err := Type(dt.Pointer)
		if err != nil {
			return nil, err
		}
		if dt.Context.Has(datatype.CtxHeap) {
			return mirtypes.MutRef(inner), nil
		}
		return mirtypes.Ref(inner), nil
	case datatype.KindTrace:
		inner, err := Type(dt.Pointer)
		if err != nil {
			return nil, err
		}
		return mirtypes.Trace(inner), nil
	case datatype.KindArray:
		if dt.Array == nil || !dt.Array.Size.Sized {
			return nil, fmt.Errorf("lower: array type has no known size")
		}
		elem, err := Type(dt.Array.Element)
		if err != nil {
			return nil, err
		}
		return mirtypes.Array(dt.Array.Size.Size, elem), nil
	case datatype.KindStruct:
		return aggregateType(dt.Struct)
	case datatype.KindUnion:
		// MIR has no native union; a union is lowered to the same
		// member-sequence struct type as a struct, so its MIR type does
		// not reflect that the members overlap.
		return aggregateType(dt.Union)
	case datatype.KindFunction:
		// MIR represents a function value as an opaque code pointer; the
		// mangled callee name carried on call instructions is what
		// actually selects the target (spec.md §4.4.6), so no parameter/
		// return shape needs to survive into the type algebra itself.
		return mirtypes.Ptr(mirtypes.Unit()), nil
	case datatype.KindTypedef:
		if dt.Typedef != nil {
			return mirtypes.Named(dt.Typedef.Name), nil
		}
		return nil, fmt.Errorf("lower: typedef with no payload")
	case datatype.KindEnum:
		if dt.Enum != nil && dt.Enum.Underlying != nil {
			return Type(dt.Enum.Underlying)
		}
		return mirtypes.I32(), nil
	default:
		return nil, fmt.Errorf("lower: type kind %d has no MIR representation", dt.Kind)
	}
}

func aggregateType(agg *datatype.AggregatePayload) (*mirtypes.Type, error) {
	if agg == nil {
		return nil, fmt.Errorf("lower: aggregate type has no payload")
	}
	container, ok := agg.Fields.(*fields.FieldsContainer)
	if !ok || container == nil {
		// Layout not yet attached (forward declaration): represent it as
		// an opaque named type until the full definition is available.
		return mirtypes.Named(agg.Name), nil
	}
	var memberTypes []*mirtypes.Type
	for _, f := range container.All() {
		switch {
		case f.Member != nil:
			t, err := Type(f.Member.Type)
			if err != nil {
				return nil, err
			}
			memberTypes = append(memberTypes, t)
		case f.Nested != nil:
			t, err := aggregateType(&datatype.AggregatePayload{Name: f.Name, Fields: f.Nested})
			if err != nil {
				return nil, err
			}
			memberTypes = append(memberTypes, t)
		}
	}
	return mirtypes.Struct(memberTypes), nil
}
