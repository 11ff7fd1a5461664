package lower

import (
	"fmt"

	"github.com/thelilylang/lily-sub004/internal/datatype"
	"github.com/thelilylang/lily-sub004/internal/expr"
	"github.com/thelilylang/lily-sub004/internal/mir/builder"
	mirinstr "github.com/thelilylang/lily-sub004/internal/mir/instr"
	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
	"github.com/thelilylang/lily-sub004/internal/mir/value"
	"github.com/thelilylang/lily-sub004/internal/resolver"
)

// Lowerer lowers one decl.FunctionDecl body (via LowerFunction in stmt.go)
// into MIR, tracking the variable-name-to-MIR-slot
// binding for the function currently being built (spec.md §4.4.2's
// "identifier resolves to a Var/Param/Reg operand" rule).
type Lowerer struct {
	Module *builder.Module
	// Vars maps a source-level variable name to the MIR value (Var or
	// Param) the builder should load/store through. LowerFunction
	// populates it with the function's parameters.
	Vars map[string]value.Value
	// Layout computes sizeof/alignof against the target platform
	// (spec.md §4.3.2), used to fold KindSizeof/KindAlignof expressions
	// that reach lowering unevaluated.
	Layout *resolver.Layout
}

// NewLowerer returns a Lowerer emitting into m, sizing sizeof/alignof
// expressions against platform.
func NewLowerer(m *builder.Module, platform resolver.Platform) *Lowerer {
	return &Lowerer{Module: m, Vars: make(map[string]value.Value), Layout: resolver.NewLayout(platform)}
}

func (l *Lowerer) boolType() *mirtypes.Type { return mirtypes.I1() }

// Expr lowers e to the MIR value.Value it evaluates to, emitting whatever
// instructions are necessary into the builder's currently open block.
func (l *Lowerer) Expr(e *expr.Expression) (value.Value, error) {
	if e == nil {
		return value.Unit(), nil
	}
	switch e.Kind {
	case expr.KindLiteral:
		return l.literal(e.Literal, e.Type)
	case expr.KindGrouping:
		return l.Expr(e.Grouping)
	case expr.KindIdentifier:
		return l.identifier(e.Identifier, e.Type)
	case expr.KindBinary:
		return l.binary(e.Binary, e.Type)
	case expr.KindUnary:
		return l.unary(e.Unary, e.Type)
	case expr.KindTernary:
		return l.ternary(e.Ternary, e.Type)
	case expr.KindCast:
		return l.cast(e.Cast)
	case expr.KindArrayAccess:
		return l.arrayAccess(e.ArrayAccess, e.Type)
	case expr.KindFunctionCall:
		return l.call(e.FunctionCall, e.Type)
	case expr.KindFunctionCallBuiltin:
		return l.callBuiltin(e.FunctionCallBuiltin, e.Type)
	case expr.KindSizeof:
		n, err := l.Layout.SizeOf(e.Sizeof.Of)
		if err != nil {
			return value.Value{}, err
		}
		return value.UInt(n, mirtypes.Usize()), nil
	case expr.KindAlignof:
		n, err := l.Layout.AlignOf(e.Alignof.Of)
		if err != nil {
			return value.Value{}, err
		}
		return value.UInt(n, mirtypes.Usize()), nil
	default:
		return value.Value{}, fmt.Errorf("lower: expression kind %d not supported", e.Kind)
	}
}

func (l *Lowerer) literal(lit *expr.LiteralExpr, dt *datatype.DataType) (value.Value, error) {
	t, err := Type(dt)
	if err != nil {
		return value.Value{}, err
	}
	switch lit.Kind {
	case expr.LitBool:
		if lit.Bool {
			return value.Int(1, mirtypes.I1()), nil
		}
		return value.Int(0, mirtypes.I1()), nil
	case expr.LitChar:
		return value.Int(int64(lit.Char), mirtypes.I8()), nil
	case expr.LitFloat:
		return value.Float(lit.Float, t), nil
	case expr.LitSignedInt:
		return value.Int(lit.Int, t), nil
	case expr.LitUnsignedInt:
		return value.UInt(lit.Uint, t), nil
	case expr.LitString:
		return value.Str(lit.Str), nil
	default:
		return value.Value{}, fmt.Errorf("lower: unknown literal kind %d", lit.Kind)
	}
}

func (l *Lowerer) identifier(id *expr.IdentifierExpr, dt *datatype.DataType) (value.Value, error) {
	slot, ok := l.Vars[id.Name]
	if !ok {
		return value.Value{}, fmt.Errorf("lower: identifier %q has no bound MIR slot", id.Name)
	}
	if slot.Kind == value.KindParam {
		return slot, nil
	}
	t, err := Type(dt)
	if err != nil {
		t = slot.Type
	}
	return l.Module.LilyMirAddLoad(slot, t)
}

var binaryOps = map[expr.BinaryOp]mirinstr.Op{
	expr.OpAdd: mirinstr.OpIAdd,
	expr.OpSub: mirinstr.OpISub,
	expr.OpMul: mirinstr.OpIMul,
	expr.OpDiv: mirinstr.OpIDiv,
	expr.OpMod: mirinstr.OpIRem,
	expr.OpBitAnd: mirinstr.OpBitAnd,
	expr.OpBitOr:  mirinstr.OpBitOr,
	expr.OpBitXor: mirinstr.OpXor,
	expr.OpShl: mirinstr.OpShl,
	expr.OpShr: mirinstr.OpShr,
	expr.OpEq: mirinstr.OpICmpEq,
	expr.OpNe: mirinstr.OpICmpNe,
	expr.OpLt: mirinstr.OpICmpLt,
	expr.OpLe: mirinstr.OpICmpLe,
	expr.OpGt: mirinstr.OpICmpGt,
	expr.OpGe: mirinstr.OpICmpGe,
}

var floatBinaryOps = map[expr.BinaryOp]mirinstr.Op{
	expr.OpAdd: mirinstr.OpFAdd,
	expr.OpSub: mirinstr.OpFSub,
	expr.OpMul: mirinstr.OpFMul,
	expr.OpDiv: mirinstr.OpFDiv,
	expr.OpEq: mirinstr.OpFCmpEq,
	expr.OpNe: mirinstr.OpFCmpNe,
	expr.OpLt: mirinstr.OpFCmpLt,
	expr.OpLe: mirinstr.OpFCmpLe,
	expr.OpGt: mirinstr.OpFCmpGt,
	expr.OpGe: mirinstr.OpFCmpGe,
}

// binary emits short-circuit control flow for &&/|| (mirroring the
// resolver's evalBinary short-circuit rule, spec.md §4.3, now at the MIR
// level via LowerIf) and a single instruction for every other operator.
func (l *Lowerer) binary(b *expr.BinaryExpr, dt *datatype.DataType) (value.Value, error) {
	if b.Op == expr.OpAnd || b.Op == expr.OpOr {
		return l.shortCircuit(b)
	}

	left, err := l.Expr(b.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := l.Expr(b.Right)
	if err != nil {
		return value.Value{}, err
	}

	ops := binaryOps
	if left.Type != nil && left.Type.IsFloat() {
		ops = floatBinaryOps
	}
	op, ok := ops[b.Op]
	if !ok {
		return value.Value{}, fmt.Errorf("lower: binary operator %d has no MIR opcode", b.Op)
	}

	resultType, err := Type(dt)
	if err != nil {
		resultType = left.Type
	}
	reg, err := l.Module.NewRegName()
	if err != nil {
		return value.Value{}, err
	}
	result := value.Reg(reg, resultType)
	if err := l.Module.LilyMirAddInst(mirinstr.Inst{
		Op: op, Result: reg, Type: resultType, Operands: []value.Value{left, right},
	}); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

// shortCircuit lowers && and || through LowerIf so the right operand's
// instructions are only emitted on the branch where they are actually
// evaluated (spec.md §4.3's short-circuit rule carried into codegen).
func (l *Lowerer) shortCircuit(b *expr.BinaryExpr) (value.Value, error) {
	slot, err := l.Module.NewVarName()
	if err != nil {
		return value.Value{}, err
	}
	resultVar := value.Var(slot, mirtypes.I1())

	left, err := l.Expr(b.Left)
	if err != nil {
		return value.Value{}, err
	}

	var elseFn func() error
	thenFn := func() error {
		if b.Op == expr.OpAnd {
			right, err := l.Expr(b.Right)
			if err != nil {
				return err
			}
			return l.Module.LilyMirAddInst(mirinstr.Inst{Op: mirinstr.OpStore, Operands: []value.Value{resultVar, right}})
		}
		return l.Module.LilyMirAddInst(mirinstr.Inst{Op: mirinstr.OpStore, Operands: []value.Value{resultVar, value.Int(1, mirtypes.I1())}})
	}
	if b.Op == expr.OpAnd {
		elseFn = func() error {
			return l.Module.LilyMirAddInst(mirinstr.Inst{Op: mirinstr.OpStore, Operands: []value.Value{resultVar, value.Int(0, mirtypes.I1())}})
		}
	} else {
		elseFn = func() error {
			right, err := l.Expr(b.Right)
			if err != nil {
				return err
			}
			return l.Module.LilyMirAddInst(mirinstr.Inst{Op: mirinstr.OpStore, Operands: []value.Value{resultVar, right}})
		}
	}

	if err := l.Module.LowerIf(left, thenFn, nil, elseFn); err != nil {
		return value.Value{}, err
	}
	return l.Module.LilyMirAddLoad(resultVar, mirtypes.I1())
}

func (l *Lowerer) unary(u *expr.UnaryExpr, dt *datatype.DataType) (value.Value, error) {
	operand, err := l.Expr(u.Operand)
	if err != nil {
		return value.Value{}, err
	}
	resultType, err := Type(dt)
	if err != nil {
		resultType = operand.Type
	}

	var op mirinstr.Op
	switch u.Op {
	case expr.OpPos:
		return operand, nil
	case expr.OpNeg:
		if resultType != nil && resultType.IsFloat() {
			op = mirinstr.OpFNeg
		} else {
			op = mirinstr.OpINeg
		}
	case expr.OpBitNot:
		op = mirinstr.OpBitNot
	case expr.OpNot:
		op = mirinstr.OpNot
	default:
		return value.Value{}, fmt.Errorf("lower: unary operator %d has no MIR opcode", u.Op)
	}

	reg, err := l.Module.NewRegName()
	if err != nil {
		return value.Value{}, err
	}
	result := value.Reg(reg, resultType)
	if err := l.Module.LilyMirAddInst(mirinstr.Inst{Op: op, Result: reg, Type: resultType, Operands: []value.Value{operand}}); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

// ternary lowers cond ? then : else through LowerIf, storing whichever
// branch's value into a fresh slot (the same pattern shortCircuit uses).
func (l *Lowerer) ternary(t *expr.TernaryExpr, dt *datatype.DataType) (value.Value, error) {
	resultType, err := Type(dt)
	if err != nil {
		return value.Value{}, err
	}
	slot, err := l.Module.NewVarName()
	if err != nil {
		return value.Value{}, err
	}
	resultVar := value.Var(slot, resultType)

	cond, err := l.Expr(t.Cond)
	if err != nil {
		return value.Value{}, err
	}

	thenFn := func() error {
		v, err := l.Expr(t.Then)
		if err != nil {
			return err
		}
		return l.Module.LilyMirAddInst(mirinstr.Inst{Op: mirinstr.OpStore, Operands: []value.Value{resultVar, v}})
	}
	elseFn := func() error {
		v, err := l.Expr(t.Else)
		if err != nil {
			return err
		}
		return l.Module.LilyMirAddInst(mirinstr.Inst{Op: mirinstr.OpStore, Operands: []value.Value{resultVar, v}})
	}
	if err := l.Module.LowerIf(cond, thenFn, nil, elseFn); err != nil {
		return value.Value{}, err
	}
	return l.Module.LilyMirAddLoad(resultVar, resultType)
}

func (l *Lowerer) cast(c *expr.CastExpr) (value.Value, error) {
	operand, err := l.Expr(c.Value)
	if err != nil {
		return value.Value{}, err
	}
	target, err := Type(c.Target)
	if err != nil {
		return value.Value{}, err
	}

	// spec.md §3.7's opcode set has exactly two conversion instructions,
	// `trunc` and `bitcast` — there is no separate sign/zero-extend or
	// float/int conversion opcode. A narrowing integer cast lowers to
	// `trunc`; every other cast (widening, float<->int, same-width
	// reinterpretation) lowers to `bitcast`, folding the int/float
	// conversion into the single catch-all opcode the spec provides.
	op := mirinstr.OpBitcast
	if operand.Type != nil && operand.Type.IsInteger() && target.IsInteger() && target.BitWidth() < operand.Type.BitWidth() {
		op = mirinstr.OpTrunc
	}

	reg, err := l.Module.NewRegName()
	if err != nil {
		return value.Value{}, err
	}
	result := value.Reg(reg, target)
	if err := l.Module.LilyMirAddInst(mirinstr.Inst{Op: op, Result: reg, Type: target, Operands: []value.Value{operand}}); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

func (l *Lowerer) arrayAccess(a *expr.ArrayAccessExpr, dt *datatype.DataType) (value.Value, error) {
	base, err := l.Expr(a.Array)
	if err != nil {
		return value.Value{}, err
	}
	index, err := l.Expr(a.Index)
	if err != nil {
		return value.Value{}, err
	}
	elemType, err := Type(dt)
	if err != nil {
		return value.Value{}, err
	}
	ptrType := mirtypes.Ptr(elemType)

	reg, err := l.Module.NewRegName()
	if err != nil {
		return value.Value{}, err
	}
	addr := value.Reg(reg, ptrType)
	if err := l.Module.LilyMirAddInst(mirinstr.Inst{
		Op: mirinstr.OpGetArray, Result: reg, Type: ptrType, Operands: []value.Value{base, index},
	}); err != nil {
		return value.Value{}, err
	}
	return l.Module.LilyMirAddLoad(addr, elemType)
}

func (l *Lowerer) call(c *expr.FunctionCallExpr, dt *datatype.DataType) (value.Value, error) {
	if c.Callee.Kind != expr.KindIdentifier {
		return value.Value{}, fmt.Errorf("lower: only direct calls to a named function are supported")
	}
	args := make([]value.Value, len(c.Args))
	argTypes := make([]*datatype.DataType, len(c.Args))
	for i, a := range c.Args {
		v, err := l.Expr(a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
		argTypes[i] = a.Type
	}

	callee := c.Callee.Identifier.Name
	mangled := datatype.SerializeName(callee, argTypes)
	fn, err := l.Module.GetFunNameFromTypes(callee, mangled)
	if err != nil {
		return value.Value{}, err
	}

	resultType, err := Type(dt)
	if err != nil {
		resultType = fn.ReturnType
	}
	reg, err := l.Module.NewRegName()
	if err != nil {
		return value.Value{}, err
	}
	result := value.Reg(reg, resultType)
	if err := l.Module.LilyMirAddInst(mirinstr.Inst{
		Op: mirinstr.OpCall, Result: reg, Type: resultType, Operands: args, Callee: fn.MangledName,
	}); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

func (l *Lowerer) callBuiltin(c *expr.FunctionCallBuiltinExpr, dt *datatype.DataType) (value.Value, error) {
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := l.Expr(a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	resultType, err := Type(dt)
	if err != nil {
		resultType = mirtypes.Unit()
	}
	reg, err := l.Module.NewRegName()
	if err != nil {
		return value.Value{}, err
	}
	result := value.Reg(reg, resultType)
	callee := c.Name
	if c.Operand != "" {
		callee = c.Name + "." + c.Operand
	}
	if err := l.Module.LilyMirAddInst(mirinstr.Inst{
		Op: mirinstr.OpCallBuiltin, Result: reg, Type: resultType, Operands: args, Callee: callee,
	}); err != nil {
		return value.Value{}, err
	}
	return result, nil
}
