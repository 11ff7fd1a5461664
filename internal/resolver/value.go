// Package resolver implements the constant-expression evaluator of
// spec.md §4.3: arithmetic/bitwise/logical/comparison/unary folding with
// the operand-kind promotion table, plus sizeof/alignof and struct/union/
// array/enum/typedef layout computation. Grounded on the teacher's
// internal/evaluator package (a typed-tree evaluator of the same shape:
// walk a resolved node, dispatch on its kind, return a typed result).
package resolver

import (
	"fmt"
)

// ValueKind is the closed set of constant-value shapes the evaluator
// promotes operands to, per spec.md §4.3's dispatch table (Bool/Char/
// Float/SInt/UInt).
type ValueKind int

const (
	VBool ValueKind = iota
	VChar
	VFloat
	VSInt
	VUInt
)

// Value is a single constant-evaluation result. Only the field matching
// Kind is meaningful.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Char  rune
	Float float64
	SInt  int64
	UInt  uint64
}

func (v Value) String() string {
	switch v.Kind {
	case VBool:
		return fmt.Sprintf("%t", v.Bool)
	case VChar:
		return fmt.Sprintf("%q", v.Char)
	case VFloat:
		return fmt.Sprintf("%g", v.Float)
	case VSInt:
		return fmt.Sprintf("%d", v.SInt)
	default:
		return fmt.Sprintf("%d", v.UInt)
	}
}

// AsFloat widens any numeric kind to float64 for mixed arithmetic.
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case VFloat:
		return v.Float
	case VSInt:
		return float64(v.SInt)
	case VUInt:
		return float64(v.UInt)
	case VChar:
		return float64(v.Char)
	default:
		if v.Bool {
			return 1
		}
		return 0
	}
}

// AsSInt widens any integral kind to int64.
func (v Value) AsSInt() int64 {
	switch v.Kind {
	case VSInt:
		return v.SInt
	case VUInt:
		return int64(v.UInt)
	case VChar:
		return int64(v.Char)
	case VBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return int64(v.Float)
	}
}

// AsUInt widens any integral kind to uint64.
func (v Value) AsUInt() uint64 {
	switch v.Kind {
	case VUInt:
		return v.UInt
	case VSInt:
		return uint64(v.SInt)
	case VChar:
		return uint64(v.Char)
	case VBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return uint64(v.Float)
	}
}

// IsTruthy reports the value's boolean interpretation, used by short-
// circuit && / || and by `if`-condition folding at preprocessor time.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case VBool:
		return v.Bool
	case VFloat:
		return v.Float != 0
	case VSInt:
		return v.SInt != 0
	case VUInt:
		return v.UInt != 0
	case VChar:
		return v.Char != 0
	}
	return false
}

