package resolver

import (
	"fmt"

	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/expr"
)

// Mode selects preprocessor-time evaluation (stricter: no reads of
// run-time-only identifiers) versus ordinary compile-time constant
// folding (spec.md §4.3 "preprocessor-mode special rules").
type Mode int

const (
	ModeCompileTime Mode = iota
	ModePreprocessor
)

// Evaluator folds a constant expression tree into a Value, reporting
// failures through a diag.Bag rather than stopping at the first error
// (spec.md §5).
type Evaluator struct {
	Mode  Mode
	Diags *diag.Bag
	// Lookup resolves an identifier to a constant Value (e.g. an enum
	// variant or a `val` declaration's folded initializer). Preprocessor
	// mode rejects any identifier Lookup does not resolve.
	Lookup func(name string) (Value, bool)
}

// NewEvaluator returns an Evaluator accumulating into diags.
func NewEvaluator(mode Mode, diags *diag.Bag, lookup func(string) (Value, bool)) *Evaluator {
	return &Evaluator{Mode: mode, Diags: diags, Lookup: lookup}
}

// Eval folds e, returning ok=false if e is not a constant expression under
// the evaluator's mode. Only some failures record a diagnostic in Diags.
func (ev *Evaluator) Eval(e *expr.Expression) (Value, bool) {
	if e == nil {
		return Value{}, false
	}
	switch e.Kind {
	case expr.KindLiteral:
		return ev.evalLiteral(e.Literal)
	case expr.KindBinary:
		return ev.evalBinary(e.Binary)
	case expr.KindUnary:
		return ev.evalUnary(e.Unary)
	case expr.KindTernary:
		return ev.evalTernary(e.Ternary)
	case expr.KindGrouping:
		return ev.Eval(e.Grouping)
	case expr.KindIdentifier:
		return ev.evalIdentifier(e.Identifier)
	default:
		loc := e.Location
		ev.Diags.Add(diag.Diagnostic{
			Kind:     diag.NotResolvableAtPreprocessorTime,
			Severity: diag.SeverityError,
			Message:  "expression is not resolvable at compile time",
			Location: &loc,
		})
		return Value{}, false
	}
}

func (ev *Evaluator) evalLiteral(l *expr.LiteralExpr) (Value, bool) {
	switch l.Kind {
	case expr.LitBool:
		return Value{Kind: VBool, Bool: l.Bool}, true
	case expr.LitChar:
		return Value{Kind: VChar, Char: l.Char}, true
	case expr.LitFloat:
		return Value{Kind: VFloat, Float: l.Float}, true
	case expr.LitSignedInt:
		return Value{Kind: VSInt, SInt: l.Int}, true
	case expr.LitUnsignedInt:
		return Value{Kind: VUInt, UInt: l.Uint}, true
	default:
		return Value{}, false
	}
}

func (ev *Evaluator) evalIdentifier(id *expr.IdentifierExpr) (Value, bool) {
	if ev.Lookup != nil {
		if v, ok := ev.Lookup(id.Name); ok {
			return v, true
		}
	}
	kind := diag.UnsureAtCompileTime
	if ev.Mode == ModePreprocessor {
		kind = diag.NotResolvableAtPreprocessorTime
	}
	ev.Diags.Add(diag.Diagnostic{
		Kind:     kind,
		Severity: diag.SeverityError,
		Message:  fmt.Sprintf("identifier %q is not a compile-time constant", id.Name),
	})
	return Value{}, false
}

// promote implements spec.md §4.3's operand-promotion table: Float beats
// SInt/UInt/Char/Bool; Char and Bool promote to SInt. The SInt/UInt cell is
// a deliberate divergence from C's usual arithmetic conversions (spec.md
// §4.3.1, flagged "(!)"): a mix of SInt and UInt promotes to SInt rather
// than UInt, preserved for observable compatibility with the binary/bitwise
// expression macros (spec.md §9).
func promote(a, b ValueKind) ValueKind {
	if (a == VSInt && b == VUInt) || (a == VUInt && b == VSInt) {
		return VSInt
	}
	rank := func(k ValueKind) int {
		switch k {
		case VBool:
			return 0
		case VChar:
			return 1
		case VSInt:
			return 2
		case VUInt:
			return 3
		case VFloat:
			return 4
		}
		return 0
	}
	if rank(a) >= rank(b) {
		if a == VBool || a == VChar {
			return VSInt
		}
		return a
	}
	if b == VBool || b == VChar {
		return VSInt
	}
	return b
}

func (ev *Evaluator) evalBinary(b *expr.BinaryExpr) (Value, bool) {
	// Short-circuit && / || evaluate the left operand first and may skip
	// the right entirely (spec.md §4.3).
	if b.Op == expr.OpAnd {
		l, ok := ev.Eval(b.Left)
		if !ok {
			return Value{}, false
		}
		if !l.IsTruthy() {
			return Value{Kind: VBool, Bool: false}, true
		}
		r, ok := ev.Eval(b.Right)
		if !ok {
			return Value{}, false
		}
		return Value{Kind: VBool, Bool: r.IsTruthy()}, true
	}
	if b.Op == expr.OpOr {
		l, ok := ev.Eval(b.Left)
		if !ok {
			return Value{}, false
		}
		if l.IsTruthy() {
			return Value{Kind: VBool, Bool: true}, true
		}
		r, ok := ev.Eval(b.Right)
		if !ok {
			return Value{}, false
		}
		return Value{Kind: VBool, Bool: r.IsTruthy()}, true
	}

	l, ok := ev.Eval(b.Left)
	if !ok {
		return Value{}, false
	}
	r, ok := ev.Eval(b.Right)
	if !ok {
		return Value{}, false
	}

	// Comparisons fold through compareValues at the operands' promoted
	// kind and produce VBool, matching the teacher evaluator's "compare, don't
	// reimplement per-type" dispatch shape.
	switch b.Op {
	case expr.OpEq, expr.OpNe, expr.OpLt, expr.OpLe, expr.OpGt, expr.OpGe:
		return compareValues(b.Op, l, r), true
	}

	kind := promote(l.Kind, r.Kind)
	switch kind {
	case VFloat:
		return evalFloatBinary(b.Op, l.AsFloat(), r.AsFloat())
	case VUInt:
		return evalUIntBinary(b.Op, l.AsUInt(), r.AsUInt())
	default:
		return evalSIntBinary(b.Op, l.AsSInt(), r.AsSInt())
	}
}

func compareValues(op expr.BinaryOp, l, r Value) Value {
	kind := promote(l.Kind, r.Kind)
	var cmp int
	switch kind {
	case VFloat:
		lf, rf := l.AsFloat(), r.AsFloat()
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	case VUInt:
		lu, ru := l.AsUInt(), r.AsUInt()
		switch {
		case lu < ru:
			cmp = -1
		case lu > ru:
			cmp = 1
		}
	default:
		li, ri := l.AsSInt(), r.AsSInt()
		switch {
		case li < ri:
			cmp = -1
		case li > ri:
			cmp = 1
		}
	}
	var b bool
	switch op {
	case expr.OpEq:
		b = cmp == 0
	case expr.OpNe:
		b = cmp != 0
	case expr.OpLt:
		b = cmp < 0
	case expr.OpLe:
		b = cmp <= 0
	case expr.OpGt:
		b = cmp > 0
	case expr.OpGe:
		b = cmp >= 0
	}
	return Value{Kind: VBool, Bool: b}
}

func evalFloatBinary(op expr.BinaryOp, l, r float64) (Value, bool) {
	switch op {
	case expr.OpAdd:
		return Value{Kind: VFloat, Float: l + r}, true
	case expr.OpSub:
		return Value{Kind: VFloat, Float: l - r}, true
	case expr.OpMul:
		return Value{Kind: VFloat, Float: l * r}, true
	case expr.OpDiv:
		if r == 0 {
			return Value{}, false
		}
		return Value{Kind: VFloat, Float: l / r}, true
	default:
		return Value{}, false
	}
}

func evalSIntBinary(op expr.BinaryOp, l, r int64) (Value, bool) {
	switch op {
	case expr.OpAdd:
		return Value{Kind: VSInt, SInt: l + r}, true
	case expr.OpSub:
		return Value{Kind: VSInt, SInt: l - r}, true
	case expr.OpMul:
		return Value{Kind: VSInt, SInt: l * r}, true
	case expr.OpDiv:
		if r == 0 {
			return Value{}, false
		}
		return Value{Kind: VSInt, SInt: l / r}, true
	case expr.OpMod:
		if r == 0 {
			return Value{}, false
		}
		return Value{Kind: VSInt, SInt: l % r}, true
	case expr.OpBitAnd:
		return Value{Kind: VSInt, SInt: l & r}, true
	case expr.OpBitOr:
		return Value{Kind: VSInt, SInt: l | r}, true
	case expr.OpBitXor:
		return Value{Kind: VSInt, SInt: l ^ r}, true
	case expr.OpShl:
		return Value{Kind: VSInt, SInt: l << uint(r)}, true
	case expr.OpShr:
		return Value{Kind: VSInt, SInt: l >> uint(r)}, true
	default:
		return Value{}, false
	}
}

func evalUIntBinary(op expr.BinaryOp, l, r uint64) (Value, bool) {
	switch op {
	case expr.OpAdd:
		return Value{Kind: VUInt, UInt: l + r}, true
	case expr.OpSub:
		return Value{Kind: VUInt, UInt: l - r}, true
	case expr.OpMul:
		return Value{Kind: VUInt, UInt: l * r}, true
	case expr.OpDiv:
		if r == 0 {
			return Value{}, false
		}
		return Value{Kind: VUInt, UInt: l / r}, true
	case expr.OpMod:
		if r == 0 {
			return Value{}, false
		}
		return Value{Kind: VUInt, UInt: l % r}, true
	case expr.OpBitAnd:
		return Value{Kind: VUInt, UInt: l & r}, true
	case expr.OpBitOr:
		return Value{Kind: VUInt, UInt: l | r}, true
	case expr.OpBitXor:
		return Value{Kind: VUInt, UInt: l ^ r}, true
	case expr.OpShl:
		return Value{Kind: VUInt, UInt: l << r}, true
	case expr.OpShr:
		return Value{Kind: VUInt, UInt: l >> r}, true
	default:
		return Value{}, false
	}
}

func (ev *Evaluator) evalUnary(u *expr.UnaryExpr) (Value, bool) {
	v, ok := ev.Eval(u.Operand)
	if !ok {
		return Value{}, false
	}
	switch u.Op {
	case expr.OpPos:
		return v, true
	case expr.OpNeg:
		if v.Kind == VFloat {
			return Value{Kind: VFloat, Float: -v.Float}, true
		}
		return Value{Kind: VSInt, SInt: -v.AsSInt()}, true
	case expr.OpBitNot:
		return Value{Kind: VSInt, SInt: ^v.AsSInt()}, true
	case expr.OpNot:
		return Value{Kind: VBool, Bool: !v.IsTruthy()}, true
	default:
		return Value{}, false
	}
}

func (ev *Evaluator) evalTernary(t *expr.TernaryExpr) (Value, bool) {
	c, ok := ev.Eval(t.Cond)
	if !ok {
		return Value{}, false
	}
	if c.IsTruthy() {
		return ev.Eval(t.Then)
	}
	return ev.Eval(t.Else)
}
