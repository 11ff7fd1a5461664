// Package fields implements the field tree of spec.md §3.3: an
// insertion-ordered container of named or anonymous struct/union members,
// with dotted-path lookup and generic-parameter detection. Grounded on the
// teacher's internal/model ordered-collection-plus-index-map pattern.
package fields

import (
	"fmt"
	"strings"

	"github.com/thelilylang/lily-sub004/internal/datatype"
)

// Kind distinguishes the five field forms of spec.md §3.3.
type Kind int

const (
	KindMember Kind = iota
	KindAnonymousStruct
	KindAnonymousUnion
	KindNamedStruct
	KindNamedUnion
)

// Field is the tagged union described by spec.md §3.3. Only one of
// Member/Nested is populated, selected by Kind.
type Field struct {
	Kind Kind
	Name string // empty for anonymous fields

	// Member payload: a leaf data member.
	Member *Member

	// Nested payload: an inline struct/union, named or anonymous.
	Nested *FieldsContainer

	// BitWidth is non-nil when this member is a C-style bit-field
	// (SPEC_FULL.md §3 item 3).
	BitWidth *uint8
}

// Member is a leaf field's payload: its type (the name lives on Field).
type Member struct {
	Type *datatype.DataType
}

// FieldsContainer is an insertion-ordered map of fields: a slice for
// iteration order plus a name index, mirroring the teacher's
// internal/model result-set shape (slice + index map) rather than a bare
// Go map, so that emitted struct layouts preserve declaration order.
type FieldsContainer struct {
	order []*Field
	index map[string]int
}

// NewFieldsContainer returns an empty container.
func NewFieldsContainer() *FieldsContainer {
	return &FieldsContainer{index: make(map[string]int)}
}

// Add appends f, keyed by f.Name for named fields. Anonymous fields
// (Kind == KindAnonymousStruct/Union) are appended without an index entry;
// their members are reachable only through GetFieldFromPath via nested
// traversal, matching spec.md §3.3's "anonymous members are looked up
// through the enclosing aggregate".
func (fc *FieldsContainer) Add(f *Field) error {
	if f.Name != "" {
		if _, exists := fc.index[f.Name]; exists {
			return fmt.Errorf("fields: duplicate field %q", f.Name)
		}
		fc.index[f.Name] = len(fc.order)
	}
	fc.order = append(fc.order, f)
	return nil
}

// All returns fields in insertion order.
func (fc *FieldsContainer) All() []*Field {
	return fc.order
}

// Len reports the number of direct (non-recursed) fields.
func (fc *FieldsContainer) Len() int { return len(fc.order) }

// FieldNames implements datatype.FieldTreeRef.
func (fc *FieldsContainer) FieldNames() []string {
	names := make([]string, 0, len(fc.order))
	for _, f := range fc.order {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return names
}

// Get looks up a direct, named field.
func (fc *FieldsContainer) Get(name string) (*Field, bool) {
	i, ok := fc.index[name]
	if !ok {
		return nil, false
	}
	return fc.order[i], true
}

// GetFieldFromPath resolves a dotted path such as "a.b.c" (spec.md §3.3),
// descending into named and anonymous nested struct/union fields as
// needed. Anonymous fields are searched transparently: a path segment that
// doesn't match any direct named field also probes each anonymous
// field's nested container.
func (fc *FieldsContainer) GetFieldFromPath(path string) (*Field, error) {
	segments := strings.Split(path, ".")
	cur := fc
	var found *Field
	for i, seg := range segments {
		f, ok := cur.get(seg)
		if !ok {
			return nil, fmt.Errorf("fields: no field named %q in path %q", seg, path)
		}
		found = f
		if i == len(segments)-1 {
			break
		}
		if f.Nested == nil {
			return nil, fmt.Errorf("fields: %q in path %q is not an aggregate", seg, path)
		}
		cur = f.Nested
	}
	return found, nil
}

// get resolves a single path segment, transparently probing anonymous
// nested containers when a direct match is absent.
func (fc *FieldsContainer) get(name string) (*Field, bool) {
	if f, ok := fc.Get(name); ok {
		return f, true
	}
	for _, f := range fc.order {
		if f.Name != "" || f.Nested == nil {
			continue
		}
		if nf, ok := f.Nested.get(name); ok {
			return nf, true
		}
	}
	return nil, false
}

// HasGeneric reports whether any direct or nested field's type references
// a generic parameter (spec.md §3.3 "has_generic").
func (fc *FieldsContainer) HasGeneric() bool {
	for _, f := range fc.order {
		switch {
		case f.Member != nil && referencesGeneric(f.Member.Type):
			return true
		case f.Nested != nil && f.Nested.HasGeneric():
			return true
		}
	}
	return false
}

func referencesGeneric(dt *datatype.DataType) bool {
	if dt == nil {
		return false
	}
	switch dt.Kind {
	case datatype.KindGeneric:
		return true
	case datatype.KindPointer:
		return referencesGeneric(dt.Pointer)
	case datatype.KindArray:
		return dt.Array != nil && referencesGeneric(dt.Array.Element)
	default:
		return false
	}
}

// ValidateBitWidth checks a bit-field's declared width against its
// underlying integer type's bit size (SPEC_FULL.md §3 item 3: the
// distillation dropped the original's bit-field width check).
func ValidateBitWidth(underlying *datatype.DataType, width uint8) error {
	max := bitSizeOf(underlying)
	if max == 0 {
		return fmt.Errorf("fields: bit-field base type must be an integer type")
	}
	if width == 0 {
		return fmt.Errorf("fields: bit-field width must be non-zero")
	}
	if int(width) > max {
		return fmt.Errorf("fields: bit-field width %d exceeds %d-bit underlying type", width, max)
	}
	return nil
}

func bitSizeOf(dt *datatype.DataType) int {
	if dt == nil {
		return 0
	}
	switch dt.Kind {
	case datatype.KindBool, datatype.KindI8, datatype.KindU8, datatype.KindChar:
		return 8
	case datatype.KindI16, datatype.KindU16:
		return 16
	case datatype.KindI32, datatype.KindU32:
		return 32
	case datatype.KindI64, datatype.KindU64:
		return 64
	default:
		return 0
	}
}
