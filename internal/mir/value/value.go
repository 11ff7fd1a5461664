// Package value defines MIR operand values (spec.md §3.6): registers,
// parameters, immediates, and aggregate/composite literals. Grounded on
// the teacher's internal/types/core.go tagged-value shape, mirrored here
// one layer below internal/datatype's source-level values.
package value

import (
	"fmt"

	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
)

// Kind is the closed set of MIR value forms spec.md §3.6 names.
type Kind int

const (
	KindArray Kind = iota
	KindBytes
	KindConst
	KindCstr
	KindException
	KindFloat
	KindInt
	KindList
	KindNil
	KindParam
	KindReg
	KindSlice
	KindStr
	KindStruct
	KindTrace
	KindTuple
	KindUInt
	KindUndef
	KindUnit
	KindVar
)

// Value is a single MIR operand. Exactly one payload field matching Kind
// is populated; Type is set by every constructor except Bytes and Tuple.
type Value struct {
	Kind Kind
	Type *mirtypes.Type

	// Reg/Param/Var carry a name allocated by the builder's name
	// managers (spec.md §4.4.1: "r.", ".", and the bb namespace for
	// blocks).
	Name string

	Int      int64
	UInt     uint64
	Float    float64
	Str      string
	Bytes    []byte
	Elements []Value // Array/List/Tuple/Struct/Slice payload
	ConstRef string  // Const: the name of a global constant
}

func Reg(name string, t *mirtypes.Type) Value  { return Value{Kind: KindReg, Name: name, Type: t} }
func Param(name string, t *mirtypes.Type) Value {
	return Value{Kind: KindParam, Name: name, Type: t}
}
func Var(name string, t *mirtypes.Type) Value { return Value{Kind: KindVar, Name: name, Type: t} }

func Int(v int64, t *mirtypes.Type) Value   { return Value{Kind: KindInt, Int: v, Type: t} }
func UInt(v uint64, t *mirtypes.Type) Value { return Value{Kind: KindUInt, UInt: v, Type: t} }
func Float(v float64, t *mirtypes.Type) Value {
	return Value{Kind: KindFloat, Float: v, Type: t}
}
func Str(s string) Value   { return Value{Kind: KindStr, Str: s, Type: mirtypes.Ptr(mirtypes.U8())} }
func Cstr(s string) Value  { return Value{Kind: KindCstr, Str: s, Type: mirtypes.Ptr(mirtypes.U8())} }
func Bytes(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }
func Nil(t *mirtypes.Type) Value  { return Value{Kind: KindNil, Type: t} }
func Undef(t *mirtypes.Type) Value { return Value{Kind: KindUndef, Type: t} }
func Unit() Value                  { return Value{Kind: KindUnit, Type: mirtypes.Unit()} }
func Exception(t *mirtypes.Type) Value { return Value{Kind: KindException, Type: t} }

func Array(elems []Value, t *mirtypes.Type) Value {
	return Value{Kind: KindArray, Elements: elems, Type: t}
}
func Struct(fields []Value, t *mirtypes.Type) Value {
	return Value{Kind: KindStruct, Elements: fields, Type: t}
}
func Tuple(elems []Value) Value { return Value{Kind: KindTuple, Elements: elems} }
func List(elems []Value, t *mirtypes.Type) Value {
	return Value{Kind: KindList, Elements: elems, Type: t}
}
func Slice(base Value, t *mirtypes.Type) Value {
	return Value{Kind: KindSlice, Elements: []Value{base}, Type: t}
}
func Const(name string, t *mirtypes.Type) Value {
	return Value{Kind: KindConst, ConstRef: name, Type: t}
}
func Trace(inner Value, t *mirtypes.Type) Value {
	return Value{Kind: KindTrace, Elements: []Value{inner}, Type: t}
}

// IsReference reports whether v names a location (register, parameter,
// or variable) rather than an immediate.
func (v Value) IsReference() bool {
	return v.Kind == KindReg || v.Kind == KindParam || v.Kind == KindVar
}

// String renders v in the textual MIR form used by golden-file tests
// (spec.md §6).
func (v Value) String() string {
	switch v.Kind {
	case KindReg, KindParam, KindVar:
		return v.Name
	case KindConst:
		return "@" + v.ConstRef
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindUInt:
		return fmt.Sprintf("%d", v.UInt)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindStr:
		return fmt.Sprintf("%q", v.Str)
	case KindCstr:
		return fmt.Sprintf("c%q", v.Str)
	case KindBytes:
		return fmt.Sprintf("b%q", v.Bytes)
	case KindNil:
		return "nil"
	case KindUndef:
		return "undef"
	case KindUnit:
		return "unit"
	case KindException:
		return "exception"
	default:
		return fmt.Sprintf("<%d values>", len(v.Elements))
	}
}
