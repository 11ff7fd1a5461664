// Package types defines the MIR-level type algebra of spec.md §3.6:
// fixed-width integers, floats, pointers/refs, arrays, structs, trace
// (GC-traced) wrappers, unit, and named opaque types. Grounded on the
// teacher's internal/types/core.go closed-enum-plus-payload shape, now one
// level lower than internal/datatype (the MIR never carries qualifiers or
// borrow-context bits, only what codegen needs).
package mirtypes

import "fmt"

// Kind is the closed set of MIR type forms.
type Kind int

const (
	KindI1 Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindIsize
	KindU8
	KindU16
	KindU32
	KindU64
	KindUsize
	KindF32
	KindF64
	KindPtr
	KindRef
	KindMutRef
	KindArray
	KindStruct
	KindTrace
	KindUnit
	KindNamed
)

// Type is a MIR type value. Only the field matching Kind is populated.
type Type struct {
	Kind Kind

	Inner  *Type  // Ptr/Ref/MutRef/Array/Trace element type
	Len    uint64 // Array length
	Fields []*Type
	Name   string // Named opaque type
}

func I1() *Type    { return &Type{Kind: KindI1} }
func I8() *Type    { return &Type{Kind: KindI8} }
func I16() *Type   { return &Type{Kind: KindI16} }
func I32() *Type   { return &Type{Kind: KindI32} }
func I64() *Type   { return &Type{Kind: KindI64} }
func Isize() *Type { return &Type{Kind: KindIsize} }
func U8() *Type    { return &Type{Kind: KindU8} }
func U16() *Type   { return &Type{Kind: KindU16} }
func U32() *Type   { return &Type{Kind: KindU32} }
func U64() *Type   { return &Type{Kind: KindU64} }
func Usize() *Type { return &Type{Kind: KindUsize} }
func F32() *Type   { return &Type{Kind: KindF32} }
func F64() *Type   { return &Type{Kind: KindF64} }
func Unit() *Type  { return &Type{Kind: KindUnit} }

func Ptr(inner *Type) *Type    { return &Type{Kind: KindPtr, Inner: inner} }
func Ref(inner *Type) *Type    { return &Type{Kind: KindRef, Inner: inner} }
func MutRef(inner *Type) *Type { return &Type{Kind: KindMutRef, Inner: inner} }
func Trace(inner *Type) *Type  { return &Type{Kind: KindTrace, Inner: inner} }
func Array(len uint64, elem *Type) *Type {
	return &Type{Kind: KindArray, Len: len, Inner: elem}
}
func Struct(fields []*Type) *Type { return &Type{Kind: KindStruct, Fields: fields} }
func Named(name string) *Type     { return &Type{Kind: KindNamed, Name: name} }

// IsInteger reports whether t is any fixed-width signed or unsigned
// integer kind (the i1 boolean kind counts as an integer for MIR purposes,
// matching spec.md §3.6's "i1 is the boolean representation").
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case KindI1, KindI8, KindI16, KindI32, KindI64, KindIsize,
		KindU8, KindU16, KindU32, KindU64, KindUsize:
		return true
	}
	return false
}

func (t *Type) IsSigned() bool {
	switch t.Kind {
	case KindI8, KindI16, KindI32, KindI64, KindIsize:
		return true
	}
	return false
}

func (t *Type) IsFloat() bool {
	return t.Kind == KindF32 || t.Kind == KindF64
}

func (t *Type) IsPointerLike() bool {
	return t.Kind == KindPtr || t.Kind == KindRef || t.Kind == KindMutRef
}

// BitWidth returns the integer bit width of t, or 0 if t is not an
// integer kind. Isize/Usize report 0 since their width is platform
// dependent; callers needing a concrete width thread it in separately.
func (t *Type) BitWidth() int {
	switch t.Kind {
	case KindI1:
		return 1
	case KindI8, KindU8:
		return 8
	case KindI16, KindU16:
		return 16
	case KindI32, KindU32:
		return 32
	case KindI64, KindU64:
		return 64
	}
	return 0
}

// String renders t in the textual MIR form spec.md §6 describes for
// golden-file tests.
func (t *Type) String() string {
	if t == nil {
		return "?"
	}
	switch t.Kind {
	case KindI1:
		return "i1"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindIsize:
		return "isize"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindUsize:
		return "usize"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindUnit:
		return "unit"
	case KindPtr:
		return fmt.Sprintf("ptr(%s)", t.Inner)
	case KindRef:
		return fmt.Sprintf("ref(%s)", t.Inner)
	case KindMutRef:
		return fmt.Sprintf("mut ref(%s)", t.Inner)
	case KindTrace:
		return fmt.Sprintf("trace(%s)", t.Inner)
	case KindArray:
		return fmt.Sprintf("array(%d, %s)", t.Len, t.Inner)
	case KindStruct:
		s := "struct("
		for i, f := range t.Fields {
			if i > 0 {
				s += ", "
			}
			s += f.String()
		}
		return s + ")"
	case KindNamed:
		return t.Name
	default:
		return "?"
	}
}

// Equal reports structural equality, ignoring Named's resolved definition
// (two Named types are equal iff their names match).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPtr, KindRef, KindMutRef, KindTrace:
		return Equal(a.Inner, b.Inner)
	case KindArray:
		return a.Len == b.Len && Equal(a.Inner, b.Inner)
	case KindStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !Equal(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true
	case KindNamed:
		return a.Name == b.Name
	default:
		return true
	}
}
