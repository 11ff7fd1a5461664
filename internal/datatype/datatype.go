// Package datatype implements the structural type representation of
// spec.md §3.2: a Kind tag, borrow-checker context/qualifier bitsets, a
// refcount, and a kind-specific payload. Grounded on the teacher's
// internal/types/core.go re-export pattern (a closed set of Kind constants)
// and internal/core/contracts.go's tagged-value shape.
package datatype

import "strings"

// Kind enumerates the ~35 primitive/composite data-type kinds of
// spec.md §3.2.
type Kind int

const (
	KindUnknown Kind = iota

	// Primitives.
	KindBool
	KindChar
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
	KindUnit
	KindNever
	KindCStr
	KindStr
	KindBytes
	KindAny
	KindSelf

	// Composites.
	KindArray
	KindEnum
	KindFunction
	KindStruct
	KindUnion
	KindTypedef
	KindPointer
	KindGeneric
	KindBuiltin
	KindTypeInfo
	KindOptional
	KindRef
	KindTrace
	KindList
)

// Context is the borrow-checker hint bitset (spec.md §3.2). It is carried
// on every DataType but, per spec.md §1, interpreted only by the external
// borrow-state checker; this module never branches on it.
type Context uint8

const (
	CtxHeap Context = 1 << iota
	CtxNonNull
	CtxStack
	CtxTrace
)

func (c Context) Has(flag Context) bool { return c&flag != 0 }

// Qualifier is the C-style type-qualifier bitset (spec.md §3.2).
type Qualifier uint8

const (
	QualConst Qualifier = 1 << iota
	QualVolatile
	QualRestrict
	QualAtomic
	QualNoreturn
)

func (q Qualifier) Has(flag Qualifier) bool { return q&flag != 0 }

// DataType is the shared, reference-counted type representation threaded
// through the AST, the resolver, and the MIR builder.
type DataType struct {
	Kind      Kind
	Context   Context
	Qualifier Qualifier
	refs      *int

	Array    *ArrayPayload
	Enum     *EnumPayload
	Function *FunctionPayload
	Struct   *AggregatePayload
	Union    *AggregatePayload
	Typedef  *TypedefPayload
	Pointer  *DataType
	Generic  *GenericPayload
	Builtin  int // index into the process-wide builtin table
	TypeInfo int
}

// New creates a fresh DataType with an initial refcount of 1.
func New(kind Kind) *DataType {
	n := 1
	return &DataType{Kind: kind, refs: &n}
}

// Ref increments the shared refcount and returns dt itself: the "explicit
// ref_count-incrementing helper" of spec.md §5 that shares rather than
// deep-copies.
func (dt *DataType) Ref() *DataType {
	if dt == nil {
		return nil
	}
	*dt.refs++
	return dt
}

// Release decrements the refcount; callers free payloads once it reaches
// zero. The core does not implement GC-style finalization itself (spec.md
// §5: declarations/types are freed "when the last reference drops", a
// concern for the owning language's runtime in the Go translation — here
// represented as an explicit, caller-driven counter).
func (dt *DataType) Release() int {
	if dt == nil {
		return 0
	}
	*dt.refs--
	return *dt.refs
}

// RefCount reports the current refcount, for tests and invariant checks.
func (dt *DataType) RefCount() int {
	if dt == nil || dt.refs == nil {
		return 0
	}
	return *dt.refs
}

// Clone performs the deep copy spec.md §5 requires of ordinary clones (as
// opposed to Ref, which shares). Composite payloads are cloned
// structurally; Pointer's inner type is cloned recursively.
func (dt *DataType) Clone() *DataType {
	if dt == nil {
		return nil
	}
	out := New(dt.Kind)
	out.Context = dt.Context
	out.Qualifier = dt.Qualifier
	out.Builtin = dt.Builtin
	out.TypeInfo = dt.TypeInfo
	if dt.Pointer != nil {
		out.Pointer = dt.Pointer.Clone()
	}
	if dt.Array != nil {
		a := *dt.Array
		a.Element = dt.Array.Element.Clone()
		out.Array = &a
	}
	if dt.Enum != nil {
		e := *dt.Enum
		out.Enum = &e
	}
	if dt.Function != nil {
		f := *dt.Function
		f.Return = dt.Function.Return.Clone()
		if dt.Function.Params != nil {
			params := make([]*DataType, len(dt.Function.Params))
			for i, p := range dt.Function.Params {
				params[i] = p.Clone()
			}
			f.Params = params
		}
		out.Function = &f
	}
	if dt.Struct != nil {
		c := *dt.Struct
		out.Struct = &c
	}
	if dt.Union != nil {
		c := *dt.Union
		out.Union = &c
	}
	if dt.Typedef != nil {
		t := *dt.Typedef
		out.Typedef = &t
	}
	if dt.Generic != nil {
		g := *dt.Generic
		out.Generic = &g
	}
	return out
}

// WrapPtr produces a pointer DataType wrapping dt with the given context,
// as spec.md §3.2 describes for `wrap_ptr`.
func WrapPtr(dt *DataType, ctx Context) *DataType {
	out := New(KindPointer)
	out.Context = ctx
	out.Pointer = dt
	return out
}

// ArraySize is either Sized(n) or None (spec.md §3.2).
type ArraySize struct {
	Sized bool
	Size  uint64
}

type ArrayPayload struct {
	Element *DataType
	Name    string // optional, for emission
	Size    ArraySize
}

type EnumPayload struct {
	Name     string
	Variants []string
	Underlying *DataType
}

type FunctionPayload struct {
	Name    string
	Params  []*DataType
	Return  *DataType
	OuterFn *DataType // optional "function-of-function" type
}

// AggregatePayload backs both Struct and Union kinds: an optional name,
// optional generic params, and an optional field tree (populated once
// parsing finishes; spec.md §4.2 "defer layout computation").
type AggregatePayload struct {
	Name          string
	GenericParams []*GenericPayload
	Fields        FieldTreeRef
}

// FieldTreeRef is satisfied by *fields.FieldsContainer; it is declared here
// as an interface to avoid an import cycle between datatype and fields
// (fields.Field embeds *DataType for its Member payload).
type FieldTreeRef interface {
	FieldNames() []string
}

type TypedefPayload struct {
	Name          string
	GenericParams []*GenericPayload
}

// GenericPayload names a type parameter (spec.md §3.2 Generic kind) and
// also serves as the element type of a Struct/Union/Typedef's generic
// parameter list.
type GenericPayload struct {
	Name string
}

// Equal implements the structural, refcount-ignoring equality of
// spec.md §3.2.
func Equal(a, b *DataType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Context != b.Context || a.Qualifier != b.Qualifier {
		return false
	}
	switch a.Kind {
	case KindPointer:
		return Equal(a.Pointer, b.Pointer)
	case KindArray:
		if a.Array == nil || b.Array == nil {
			return a.Array == b.Array
		}
		return a.Array.Size == b.Array.Size && Equal(a.Array.Element, b.Array.Element)
	case KindFunction:
		if a.Function == nil || b.Function == nil {
			return a.Function == b.Function
		}
		if len(a.Function.Params) != len(b.Function.Params) {
			return false
		}
		for i := range a.Function.Params {
			if !Equal(a.Function.Params[i], b.Function.Params[i]) {
				return false
			}
		}
		return Equal(a.Function.Return, b.Function.Return)
	case KindStruct, KindUnion:
		ap, bp := a.Struct, b.Struct
		if a.Kind == KindUnion {
			ap, bp = a.Union, b.Union
		}
		if ap == nil || bp == nil {
			return ap == bp
		}
		return ap.Name == bp.Name
	case KindTypedef:
		if a.Typedef == nil || b.Typedef == nil {
			return a.Typedef == b.Typedef
		}
		return a.Typedef.Name == b.Typedef.Name
	case KindGeneric:
		if a.Generic == nil || b.Generic == nil {
			return a.Generic == b.Generic
		}
		return a.Generic.Name == b.Generic.Name
	case KindBuiltin:
		return a.Builtin == b.Builtin
	case KindTypeInfo:
		return a.TypeInfo == b.TypeInfo
	default:
		return true
	}
}

// SerializeName mangles base with the serialized argument types (spec.md
// §3.2 "serialize_name(called_generic_params)"), used by monomorphization
// and by the MIR builder's mangled-name lookups.
func SerializeName(base string, calledGenericParams []*DataType) string {
	if len(calledGenericParams) == 0 {
		return base
	}
	var sb strings.Builder
	sb.WriteString(base)
	for _, dt := range calledGenericParams {
		sb.WriteByte('.')
		sb.WriteString(Mangle(dt))
	}
	return sb.String()
}

// Mangle produces a short, deterministic textual form for a DataType,
// used by SerializeName and by the MIR builder's function-name mangling
// (spec.md §4.4.6).
func Mangle(dt *DataType) string {
	if dt == nil {
		return "?"
	}
	switch dt.Kind {
	case KindPointer:
		return "Ptr" + Mangle(dt.Pointer)
	case KindArray:
		if dt.Array != nil {
			return "Array" + Mangle(dt.Array.Element)
		}
		return "Array?"
	case KindStruct:
		if dt.Struct != nil {
			return dt.Struct.Name
		}
		return "Struct?"
	case KindUnion:
		if dt.Union != nil {
			return dt.Union.Name
		}
		return "Union?"
	case KindTypedef:
		if dt.Typedef != nil {
			return dt.Typedef.Name
		}
		return "Typedef?"
	case KindGeneric:
		if dt.Generic != nil {
			return dt.Generic.Name
		}
		return "Generic?"
	default:
		return kindName(dt.Kind)
	}
}

func kindName(k Kind) string {
	switch k {
	case KindBool:
		return "Bool"
	case KindChar:
		return "Char"
	case KindI8:
		return "I8"
	case KindI16:
		return "I16"
	case KindI32:
		return "I32"
	case KindI64:
		return "I64"
	case KindIsize:
		return "Isize"
	case KindU8:
		return "U8"
	case KindU16:
		return "U16"
	case KindU32:
		return "U32"
	case KindU64:
		return "U64"
	case KindUsize:
		return "Usize"
	case KindF32:
		return "F32"
	case KindF64:
		return "F64"
	case KindUnit:
		return "Unit"
	case KindCStr:
		return "CStr"
	case KindStr:
		return "Str"
	case KindBytes:
		return "Bytes"
	default:
		return "Unknown"
	}
}
