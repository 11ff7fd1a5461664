// Package decl implements the declaration model of spec.md §3.4: a tagged
// union over the twelve declaration forms, a storage-class bitset with
// combinability validation, and the SizeInfo cache later filled in by the
// resolver. Grounded on the teacher's internal/model tagged-record shape
// and internal/core/contracts.go's refcounted-value convention.
package decl

import (
	"fmt"

	"github.com/thelilylang/lily-sub004/internal/datatype"
	"github.com/thelilylang/lily-sub004/internal/fields"
	"github.com/thelilylang/lily-sub004/internal/scope"
)

// Kind is the closed set of declaration forms spec.md §3.4 names.
type Kind int

const (
	KindEnum Kind = iota
	KindEnumVariant
	KindFunction
	KindFunctionGen
	KindLabel
	KindStruct
	KindStructGen
	KindTypedef
	KindTypedefGen
	KindUnion
	KindUnionGen
	KindVariable
)

// StorageClass is the C-style storage-class bitset of spec.md §3.4.
type StorageClass uint8

const ScNone StorageClass = 0

const (
	ScAuto StorageClass = 1 << iota
	ScConstexpr
	ScExtern
	ScInline
	ScRegister
	ScStatic
	ScThreadLocal
	ScTypedef
)

// ValidateStorageClass enforces the combinability rules the distillation
// dropped (SPEC_FULL.md §3 item 1): auto/extern/register/static/typedef are
// the classic mutually-exclusive storage-class specifiers (only one may
// appear); thread_local may combine with extern or static but not
// register, auto, or typedef; inline cannot combine with register,
// typedef, auto, or thread_local; constexpr cannot combine with extern,
// register, or typedef.
func ValidateStorageClass(sc StorageClass) error {
	exclusive := []StorageClass{ScAuto, ScExtern, ScRegister, ScStatic, ScTypedef}
	count := 0
	for _, f := range exclusive {
		if sc&f != 0 {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf("decl: auto, extern, register, static, and typedef are mutually exclusive")
	}
	if sc&ScThreadLocal != 0 && (sc&ScRegister != 0 || sc&ScAuto != 0 || sc&ScTypedef != 0) {
		return fmt.Errorf("decl: thread_local cannot combine with register, auto, or typedef")
	}
	if sc&ScInline != 0 && (sc&ScRegister != 0 || sc&ScTypedef != 0 || sc&ScAuto != 0) {
		return fmt.Errorf("decl: inline cannot combine with register, typedef, or auto")
	}
	if sc&ScInline != 0 && sc&ScThreadLocal != 0 {
		return fmt.Errorf("decl: inline cannot combine with thread_local")
	}
	if sc&ScConstexpr != 0 && (sc&ScExtern != 0 || sc&ScRegister != 0 || sc&ScTypedef != 0) {
		return fmt.Errorf("decl: constexpr cannot combine with extern, register, or typedef")
	}
	return nil
}

// SizeInfo is the declaration-level size/alignment cache spec.md §4.3
// requires the resolver to populate once and reuse thereafter
// (SPEC_FULL.md §3 item 2: persisted, not recomputed per use).
type SizeInfo struct {
	Computed  bool
	Size      uint64
	Alignment uint64
}

// Decl is the tagged union over every declaration kind. Only the field(s)
// matching Kind are populated.
type Decl struct {
	Kind         Kind
	Name         string
	Scope        *scope.Scope
	StorageClass StorageClass
	IsPrototype  bool // function/struct/union forward declarations
	Size         SizeInfo

	Enum        *EnumDecl
	EnumVariant *EnumVariantDecl
	Function    *FunctionDecl
	Label       *LabelDecl
	Struct      *AggregateDecl
	Union       *AggregateDecl
	Typedef     *TypedefDecl
	Variable    *VariableDecl

	// Gen holds the generic-parameter shape when Kind is one of the
	// *Gen forms (spec.md §3.4 "monomorphization shape": the generic
	// template plus a cache of already-instantiated concrete decls).
	Gen *GenericShape
}

type EnumDecl struct {
	Variants   []string
	Underlying *datatype.DataType
}

type EnumVariantDecl struct {
	ParentEnum string
	Value      int64
	HasValue   bool
}

type FunctionDecl struct {
	Params     []*VariableDecl
	ReturnType *datatype.DataType
	Body       *FunctionBody
}

// FunctionBody pairs a scope with an ordered list of statement items
// (spec.md §3.4: "function body as (scope_id, ordered items)"). Items are
// `any` here (populated with *expr.Statement values) to avoid an import
// cycle between decl and expr, which in turn references decl for
// identifier resolution.
type FunctionBody struct {
	Scope *scope.Scope
	Items []any
}

type LabelDecl struct {
	Name string
}

type AggregateDecl struct {
	Fields        *fields.FieldsContainer
	GenericParams []string
}

type TypedefDecl struct {
	Aliased       *datatype.DataType
	GenericParams []string
}

type VariableDecl struct {
	Name    string // parameter name; empty for an anonymous local temporary
	Type    *datatype.DataType
	Initial any // optional initializer expression (*expr.Expression)
}

// GenericShape records a template declaration's generic parameter names
// and a cache of already-monomorphized instances keyed by
// datatype.SerializeName, so repeated calls with the same concrete
// arguments reuse one generated declaration (spec.md §3.4).
type GenericShape struct {
	Params    []string
	Instances map[string]*Decl
}

// NewGenericShape returns an empty monomorphization cache for params.
func NewGenericShape(params []string) *GenericShape {
	return &GenericShape{Params: params, Instances: make(map[string]*Decl)}
}

// Instantiate returns the cached instance for calledParams if present, or
// nil, false if this generic has not yet been monomorphized with that
// exact argument list.
func (g *GenericShape) Instantiate(base string, calledParams []*datatype.DataType) (*Decl, bool) {
	key := datatype.SerializeName(base, calledParams)
	d, ok := g.Instances[key]
	return d, ok
}

// Cache records a newly monomorphized instance under calledParams's
// serialized key.
func (g *GenericShape) Cache(base string, calledParams []*datatype.DataType, d *Decl) {
	g.Instances[datatype.SerializeName(base, calledParams)] = d
}
