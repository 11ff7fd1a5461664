package resolver

import (
	"fmt"

	"github.com/thelilylang/lily-sub004/internal/datatype"
	"github.com/thelilylang/lily-sub004/internal/decl"
	"github.com/thelilylang/lily-sub004/internal/fields"
)

// Platform carries the target-dependent sizes spec.md §4.3 requires for
// pointer-width-sensitive computation (isize/usize, pointer size), loaded
// from internal/config in the full pipeline.
type Platform struct {
	PointerSize uint64 // bytes
	IntSize     uint64 // bytes, sizeof(int)
}

// DefaultPlatform matches a common 64-bit target (8-byte pointers,
// 4-byte int), the fallback used when no internal/config override is
// supplied.
var DefaultPlatform = Platform{PointerSize: 8, IntSize: 4}

// Layout computes sizeof/alignof for data types and declarations,
// caching per-declaration results in decl.SizeInfo (SPEC_FULL.md §3
// item 2).
type Layout struct {
	Platform Platform
}

func NewLayout(p Platform) *Layout { return &Layout{Platform: p} }

// SizeOf returns the byte size of dt, or an error if dt is incomplete
// (e.g. a struct/union whose fields haven't been parsed yet — spec.md §7
// TypeIsIncomplete/CannotResolveSize). An unresolved generic sizes to 0
// without an error.
func (l *Layout) SizeOf(dt *datatype.DataType) (uint64, error) {
	size, _, err := l.sizeAlign(dt)
	return size, err
}

// AlignOf returns the byte alignment of dt.
func (l *Layout) AlignOf(dt *datatype.DataType) (uint64, error) {
	_, align, err := l.sizeAlign(dt)
	return align, err
}

func (l *Layout) sizeAlign(dt *datatype.DataType) (size, align uint64, err error) {
	if dt == nil {
		return 0, 0, fmt.Errorf("resolver: cannot size a nil type")
	}
	switch dt.Kind {
	case datatype.KindBool, datatype.KindI8, datatype.KindU8, datatype.KindChar:
		return 1, 1, nil
	case datatype.KindI16, datatype.KindU16:
		return 2, 2, nil
	case datatype.KindI32, datatype.KindU32, datatype.KindF32:
		return 4, 4, nil
	case datatype.KindI64, datatype.KindU64, datatype.KindF64:
		return 8, 8, nil
	case datatype.KindIsize, datatype.KindUsize:
		return l.Platform.PointerSize, l.Platform.PointerSize, nil
	case datatype.KindUnit:
		return 0, 1, nil
	case datatype.KindPointer, datatype.KindCStr, datatype.KindRef:
		return l.Platform.PointerSize, l.Platform.PointerSize, nil
	case datatype.KindStr, datatype.KindBytes, datatype.KindList:
		// (pointer, length) fat pointer.
		return l.Platform.PointerSize * 2, l.Platform.PointerSize, nil
	case datatype.KindArray:
		return l.sizeAlignArray(dt)
	case datatype.KindEnum:
		return l.sizeAlignEnum(dt)
	case datatype.KindStruct:
		return l.sizeAlignAggregate(dt.Struct, false)
	case datatype.KindUnion:
		return l.sizeAlignAggregate(dt.Union, true)
	case datatype.KindTypedef:
		return 0, 0, fmt.Errorf("resolver: %s: typedef layout must be resolved via the declaration, not the bare type", dt.Typedef.Name)
	case datatype.KindGeneric:
		// Unknown at this stage (spec.md §4.3.2); monomorphization resolves
		// the real size later. Ground truth:
		// CI_DATA_TYPE_KIND_GENERIC: return 0 in
		// original_source/src/core/cc/ci/resolver/expr.c.
		return 0, 0, nil
	default:
		return 0, 0, fmt.Errorf("resolver: no layout rule for this type kind")
	}
}

func (l *Layout) sizeAlignArray(dt *datatype.DataType) (uint64, uint64, error) {
	if dt.Array == nil || !dt.Array.Size.Sized {
		return 0, 0, fmt.Errorf("resolver: array type has unknown length")
	}
	elemSize, elemAlign, err := l.sizeAlign(dt.Array.Element)
	if err != nil {
		return 0, 0, fmt.Errorf("array element: %w", err)
	}
	return elemSize * dt.Array.Size.Size, elemAlign, nil
}

func (l *Layout) sizeAlignEnum(dt *datatype.DataType) (uint64, uint64, error) {
	if dt.Enum == nil {
		return 0, 0, fmt.Errorf("resolver: enum type missing payload")
	}
	if dt.Enum.Underlying != nil {
		return l.sizeAlign(dt.Enum.Underlying)
	}
	// Default underlying representation is a 4-byte signed int, matching
	// the platform's `int` unless the declaration specifies otherwise.
	return l.Platform.IntSize, l.Platform.IntSize, nil
}

// sizeAlignAggregate computes struct/union layout by walking fields in
// declaration order, inserting padding for alignment (struct) or taking
// the max (union), matching spec.md §4.3's layout algorithm.
func (l *Layout) sizeAlignAggregate(agg *datatype.AggregatePayload, isUnion bool) (uint64, uint64, error) {
	if agg == nil {
		return 0, 0, fmt.Errorf("resolver: aggregate type missing payload")
	}
	container, ok := agg.Fields.(*fields.FieldsContainer)
	if !ok || container == nil {
		return 0, 0, fmt.Errorf("resolver: %s: fields not yet parsed (incomplete type)", agg.Name)
	}

	var offset, maxAlign uint64
	for _, f := range container.All() {
		var fsize, falign uint64
		var err error
		switch {
		case f.Member != nil:
			fsize, falign, err = l.sizeAlign(f.Member.Type)
		case f.Nested != nil:
			fsize, falign, err = l.sizeAlignAggregate(&datatype.AggregatePayload{Name: f.Name, Fields: f.Nested}, f.Kind == fields.KindAnonymousUnion || f.Kind == fields.KindNamedUnion)
		default:
			err = fmt.Errorf("resolver: field %q has no payload", f.Name)
		}
		// A field whose alignment can't be determined yet (a generic field,
		// or any other per-field error) is skipped rather than aborting the
		// whole aggregate: it contributes no size and no padding, matching
		// calculate_struct_size__CIResolverExpr's
		// `if (field_alignment == 0) { continue; }`.
		if err != nil || falign == 0 {
			continue
		}
		if falign > maxAlign {
			maxAlign = falign
		}
		if isUnion {
			if fsize > offset {
				offset = fsize
			}
			continue
		}
		offset = alignUp(offset, falign)
		offset += fsize
	}
	if maxAlign == 0 {
		maxAlign = 1
	}
	if !isUnion {
		offset = alignUp(offset, maxAlign)
	}
	return offset, maxAlign, nil
}

// ResolveDeclSize computes and caches d.Size for a struct/union/typedef/
// array declaration, matching SPEC_FULL.md §3 item 2's "computed once,
// reused" requirement.
func (l *Layout) ResolveDeclSize(d *decl.Decl, dt *datatype.DataType) error {
	if d.Size.Computed {
		return nil
	}
	size, align, err := l.sizeAlign(dt)
	if err != nil {
		return err
	}
	d.Size = decl.SizeInfo{Computed: true, Size: size, Alignment: align}
	return nil
}

func alignUp(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}
