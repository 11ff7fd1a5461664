// Package instr defines the MIR instruction set of spec.md §3.7: roughly
// eighty opcodes grouped into memory, arithmetic, bitwise/logical,
// comparison, control, and structural families, plus the Block and
// Function shells that hold them. Grounded on the teacher's internal/model
// node shapes and internal/manipulator's linear-emission discipline (a
// Block is an ordered instruction list, emitted in order, exactly once
// each, the same as Manipulator's ordered Rewrite list).
package instr

import (
	"fmt"

	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
	"github.com/thelilylang/lily-sub004/internal/mir/value"
)

// Op is the closed opcode set: spec.md §3.7's ~80 opcodes, grouped into
// memory, arithmetic, bitwise/logical, comparison, control, and
// structural families, bit-exact with that list (no invented ops, no
// dropped ones). Conversions are deliberately limited to `trunc` and
// `bitcast` — the spec names no separate sext/zext/fp-conversion
// opcodes, so a widening or float/int cast lowers through `bitcast`
// the same as a same-width reinterpretation (see internal/lower.cast).
type Op int

const (
	// Memory family.
	OpAlloc Op = iota
	OpLoad
	OpStore
	OpGetPtr   // pointer arithmetic / GEP-equivalent
	OpGetArg   // function-argument slot access
	OpGetField // struct field access
	OpGetArray // array element access
	OpGetList  // list element access
	OpGetSlice // slice sub-range access
	OpMakeRef  // construct a ref/mut-ref value
	OpMakeOpt  // construct an optional value
	OpRefPtr   // the raw pointer backing a ref/trace value
	OpIncTrace // bump a trace's refcount
	OpDrop     // release an owned value

	// Arithmetic family (signed/float variants, spec.md §3.7).
	OpIAdd
	OpISub
	OpIMul
	OpIDiv
	OpIRem
	OpINeg
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFRem
	OpFNeg
	OpExp
	OpShl
	OpShr

	// Bitwise / logical family.
	OpBitAnd
	OpBitOr
	OpBitNot
	OpXor
	OpNot

	// Comparison family.
	OpICmpEq
	OpICmpNe
	OpICmpLt
	OpICmpLe
	OpICmpGt
	OpICmpGe
	OpFCmpEq
	OpFCmpNe
	OpFCmpLt
	OpFCmpLe
	OpFCmpGt
	OpFCmpGe

	// Control family.
	OpJmp
	OpJmpCond
	OpReturn
	OpSwitch
	OpUnreachable
	OpTry    // unwrap a Result value, propagating the error
	OpTryPtr // OpTry through a pointer/ref operand
	OpIsOk
	OpIsErr
	OpNonNil

	// Structural family. `fun`/`fun_prototype`/`struct`/`const`/`block`
	// are top-level/bookkeeping forms this builder represents with the
	// dedicated Function/Block/Global shells below rather than as Inst
	// values in a block's instruction list; they remain in the opcode
	// enum for bit-exactness with spec.md §3.7, unused by Block.Push.
	OpFun
	OpFunPrototype
	OpStruct
	OpConst
	OpBlock
	OpArg
	OpReg
	OpVar
	OpVal
	OpAsm
	OpTrunc
	OpBitcast
	OpCall
	OpSysCall
	OpCallBuiltin
	OpLen
)

func (op Op) String() string {
	names := [...]string{
		"alloc", "load", "store", "getptr", "getarg", "getfield", "getarray",
		"getlist", "getslice", "makeref", "makeopt", "ref_ptr", "inctrace", "drop",
		"iadd", "isub", "imul", "idiv", "irem", "ineg",
		"fadd", "fsub", "fmul", "fdiv", "frem", "fneg", "exp", "shl", "shr",
		"bitand", "bitor", "bitnot", "xor", "not",
		"icmp_eq", "icmp_ne", "icmp_lt", "icmp_le", "icmp_gt", "icmp_ge",
		"fcmp_eq", "fcmp_ne", "fcmp_lt", "fcmp_le", "fcmp_gt", "fcmp_ge",
		"jmp", "jmpcond", "ret", "switch", "unreachable",
		"try", "try_ptr", "isok", "iserr", "non_nil",
		"fun", "fun_prototype", "struct", "const", "block", "arg", "reg", "var", "val",
		"asm", "trunc", "bitcast", "call", "sys_call", "builtin_call", "len",
	}
	if int(op) < 0 || int(op) >= len(names) {
		return "?"
	}
	return names[op]
}

// Inst is a single MIR instruction: an opcode, an optional result name
// (the abstract value it defines, keyed by the "r." namespace of
// spec.md §4.4.1), its operands, and branch targets for control ops.
type Inst struct {
	Op       Op
	Result   string // empty if the instruction produces no named value
	Type     *mirtypes.Type
	Operands []value.Value

	// Control-flow targets, by block name (spec.md's "bb" namespace).
	Targets []string
	// Switch-only: parallel to Targets[1:], Cases[i] is the guard value
	// for Targets[i+1]; Targets[0] is always the default.
	Cases []value.Value

	// Field/array access.
	FieldIndex int
	FieldName  string

	Callee string // Call/CallBuiltin target function name
}

// String renders one instruction in the textual MIR form of spec.md §6.
func (i Inst) String() string {
	prefix := ""
	if i.Result != "" {
		prefix = i.Result + " = "
	}
	switch i.Op {
	case OpJmp:
		return fmt.Sprintf("jmp %s", i.Targets[0])
	case OpJmpCond:
		return fmt.Sprintf("jmpcond %s, %s, %s", i.Operands[0], i.Targets[0], i.Targets[1])
	case OpSwitch:
		s := fmt.Sprintf("switch %s, default %s", i.Operands[0], i.Targets[0])
		for idx, c := range i.Cases {
			s += fmt.Sprintf(", %s -> %s", c, i.Targets[idx+1])
		}
		return s
	case OpReturn:
		if len(i.Operands) == 0 {
			return "ret"
		}
		return fmt.Sprintf("ret %s", i.Operands[0])
	case OpUnreachable:
		return "unreachable"
	case OpCall, OpCallBuiltin:
		s := prefix + fmt.Sprintf("%s %s(", i.Op, i.Callee)
		for idx, op := range i.Operands {
			if idx > 0 {
				s += ", "
			}
			s += op.String()
		}
		return s + ")"
	case OpGetField:
		return fmt.Sprintf("%s%s.%s %s", prefix, i.Op, i.FieldName, i.Operands[0])
	default:
		s := prefix + i.Op.String()
		for _, op := range i.Operands {
			s += " " + op.String()
		}
		return s
	}
}

// DefaultBlockLimit is the default cap on the number of instructions a
// single basic block may hold (spec.md §3.7 "Block{.., BlockLimit,..}").
const DefaultBlockLimit = 4096

// Block is a single basic block: a name (in the "bb" namespace), a
// numeric ID for ordering, an instruction limit, and its instruction
// list in emission order.
type Block struct {
	Name         string
	ID           int
	BlockLimit   int
	Instructions []Inst
	Terminated   bool
}

// NewBlock returns an empty block named name with the default limit.
func NewBlock(name string, id int) *Block {
	return &Block{Name: name, ID: id, BlockLimit: DefaultBlockLimit}
}

// Push appends inst, erroring if the block already holds a terminator or
// has hit BlockLimit (spec.md §4.4.5's idempotent-terminator invariant:
// at most one terminator per block).
func (b *Block) Push(inst Inst) error {
	if b.Terminated {
		return fmt.Errorf("mir: block %q already terminated, cannot append %s", b.Name, inst.Op)
	}
	if b.BlockLimit > 0 && len(b.Instructions) >= b.BlockLimit {
		return fmt.Errorf("mir: block %q exceeded its instruction limit (%d)", b.Name, b.BlockLimit)
	}
	b.Instructions = append(b.Instructions, inst)
	if isTerminator(inst.Op) {
		b.Terminated = true
	}
	return nil
}

func isTerminator(op Op) bool {
	switch op {
	case OpJmp, OpJmpCond, OpSwitch, OpReturn, OpUnreachable:
		return true
	}
	return false
}

// Linkage is the function's external visibility (spec.md §3.7).
type Linkage int

const (
	LinkagePrivate Linkage = iota
	LinkagePublic
	LinkageExternal
)

// Function is one MIR function: its mangled and base names, linkage,
// parameters, generic parameter names, its blocks keyed by name with a
// stack recording the currently-open block (the builder pushes/pops as it
// descends into nested control-flow constructs), and its return type.
type Function struct {
	MangledName   string
	BaseName      string
	Linkage       Linkage
	Args          []value.Value
	GenericParams []string
	ReturnType    *mirtypes.Type

	Blocks     map[string]*Block
	BlockOrder []string
	blockStack []string

	nextBlockID int
}

// NewFunction returns an empty function shell named by mangled/base.
func NewFunction(mangled, base string, linkage Linkage, ret *mirtypes.Type) *Function {
	return &Function{
		MangledName: mangled,
		BaseName:    base,
		Linkage:     linkage,
		ReturnType:  ret,
		Blocks:      make(map[string]*Block),
	}
}

// NewBlock allocates and registers a fresh block, assigning it the next
// sequential ID.
func (f *Function) NewBlock(name string) *Block {
	b := NewBlock(name, f.nextBlockID)
	f.nextBlockID++
	f.Blocks[name] = b
	f.BlockOrder = append(f.BlockOrder, name)
	return b
}

// PushCurrent marks name as the block the builder is actively emitting
// into (spec.md §4.4's "LilyMirPopCurrent" pairing).
func (f *Function) PushCurrent(name string) {
	f.blockStack = append(f.blockStack, name)
}

// PopCurrent restores the previously active block, matching
// LilyMirPopCurrent.
func (f *Function) PopCurrent() {
	if len(f.blockStack) == 0 {
		return
	}
	f.blockStack = f.blockStack[:len(f.blockStack)-1]
}

// Current returns the block the builder is actively emitting into, or
// nil if the stack is empty.
func (f *Function) Current() *Block {
	if len(f.blockStack) == 0 {
		return nil
	}
	return f.Blocks[f.blockStack[len(f.blockStack)-1]]
}
