package builder

import (
	"fmt"

	mirinstr "github.com/thelilylang/lily-sub004/internal/mir/instr"
	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
	"github.com/thelilylang/lily-sub004/internal/mir/value"
)

// nameManager allocates sequential names within one namespace (spec.md
// §4.4.1 names three: "r." for register results, "bb" for block labels,
// and "." for scoped variable slots).
type nameManager struct {
	prefix string
	next   int
}

func newNameManager(prefix string) *nameManager { return &nameManager{prefix: prefix} }

func (n *nameManager) Next() string {
	name := fmt.Sprintf("%s%d", n.prefix, n.next)
	n.next++
	return name
}

// loadRecord remembers the most recent load of a given source location
// within a basic block, the key the CSE pass checks before emitting a
// fresh OpLoad (spec.md §4.4.3).
type loadRecord struct {
	block  string
	result value.Value
}

// frame is the per-function builder state: the function being emitted,
// its scope-chain-driven break/next targets, its three name managers, and
// the load-CSE table.
type frame struct {
	fn *mirinstr.Function

	regNames  *nameManager
	bbNames   *nameManager
	varNames  *nameManager

	// loads maps a source operand's string form to its last-loaded
	// value within the current block; invalidated on any store to an
	// overlapping location and cleared whenever the active block
	// changes (spec.md §4.4.3: CSE is block-local, not whole-function).
	loads map[string]loadRecord

	// loopTargets is a stack of (continueBlock, breakBlock) pairs for
	// while/for (and break-only entries for switch and bare blocks),
	// pushed on entry and popped on exit, so `next`/`break` lowering can
	// find its nearest enclosing target (spec.md §4.4.4).
	loopTargets []loopTarget
}

type loopTarget struct {
	continueBlock string
	breakBlock    string
}

func newFrame(fn *mirinstr.Function) *frame {
	return &frame{
		fn:       fn,
		regNames: newNameManager("r."),
		bbNames:  newNameManager("bb"),
		varNames: newNameManager("."),
		loads:    make(map[string]loadRecord),
	}
}

// BeginFunction opens a fresh frame over fn and makes it the module's
// active build target.
func (m *Module) BeginFunction(fn *mirinstr.Function) {
	m.current = newFrame(fn)
}

// EndFunction registers the just-built function into the module and
// clears the active frame.
func (m *Module) EndFunction() error {
	if m.current == nil {
		return m.fatal("EndFunction called with no active function")
	}
	fn := m.current.fn
	m.current = nil
	return m.AddFunction(fn)
}

// NewBlockName allocates the next sequential block label.
func (m *Module) NewBlockName() (string, error) {
	if m.current == nil {
		return "", m.fatal("NewBlockName called outside a function")
	}
	return m.current.bbNames.Next(), nil
}

// NewRegName allocates the next sequential register result name.
func (m *Module) NewRegName() (string, error) {
	if m.current == nil {
		return "", m.fatal("NewRegName called outside a function")
	}
	return m.current.regNames.Next(), nil
}

// NewVarName allocates the next sequential variable-slot name.
func (m *Module) NewVarName() (string, error) {
	if m.current == nil {
		return "", m.fatal("NewVarName called outside a function")
	}
	return m.current.varNames.Next(), nil
}

// OpenBlock creates and switches into a new block, pushing it onto the
// function's current-block stack.
func (m *Module) OpenBlock(name string) (*mirinstr.Block, error) {
	if m.current == nil {
		return nil, m.fatal("OpenBlock called outside a function")
	}
	b := m.current.fn.NewBlock(name)
	m.current.fn.PushCurrent(name)
	m.current.loads = make(map[string]loadRecord) // CSE resets per block
	return b, nil
}

// LilyMirPopCurrent restores the previously active block, keeping
// spec.md §4.4's LilyMir operation name.
func (m *Module) LilyMirPopCurrent() {
	if m.current == nil {
		return
	}
	m.current.fn.PopCurrent()
}

// LilyMirAddInst appends inst to the function's currently active block,
// invalidating any cached load that the instruction may alias (a Store
// clears every cached load: spec.md §4.4.3's conservative invalidation
// rule, since the MIR has no alias analysis of its own).
func (m *Module) LilyMirAddInst(inst mirinstr.Inst) error {
	if m.current == nil {
		return m.fatal("LilyMirAddInst called outside a function")
	}
	b := m.current.fn.Current()
	if b == nil {
		return m.fatal("LilyMirAddInst called with no open block")
	}
	if inst.Op == mirinstr.OpStore {
		m.current.loads = make(map[string]loadRecord)
	}
	return b.Push(inst)
}

// LilyMirAddLoad emits an OpLoad for src, reusing a cached value from
// earlier in the same block when one exists for an identical source
// operand (spec.md §4.4.3 "load-CSE keyed by abstract value name").
func (m *Module) LilyMirAddLoad(src value.Value, resultType *mirtypes.Type) (value.Value, error) {
	if m.current == nil {
		return value.Value{}, m.fatal("LilyMirAddLoad called outside a function")
	}
	b := m.current.fn.Current()
	if b == nil {
		return value.Value{}, m.fatal("LilyMirAddLoad called with no open block")
	}
	key := src.String()
	if rec, ok := m.current.loads[key]; ok && rec.block == b.Name {
		return rec.result, nil
	}
	name, err := m.NewRegName()
	if err != nil {
		return value.Value{}, err
	}
	result := value.Reg(name, resultType)
	if err := b.Push(mirinstr.Inst{Op: mirinstr.OpLoad, Result: name, Type: resultType, Operands: []value.Value{src}}); err != nil {
		return value.Value{}, err
	}
	m.current.loads[key] = loadRecord{block: b.Name, result: result}
	return result, nil
}

// PushLoop registers continueBlock/breakBlock as the nearest enclosing
// loop's targets for the duration of the loop body's lowering.
func (m *Module) PushLoop(continueBlock, breakBlock string) {
	m.current.loopTargets = append(m.current.loopTargets, loopTarget{continueBlock, breakBlock})
}

// PopLoop removes the innermost loop target frame.
func (m *Module) PopLoop() {
	n := len(m.current.loopTargets)
	if n == 0 {
		return
	}
	m.current.loopTargets = m.current.loopTargets[:n-1]
}

// CurrentLoop returns the nearest enclosing loop's continue/break block
// names, used to lower `next` and `break` statements (spec.md §4.4.4).
func (m *Module) CurrentLoop() (continueBlock, breakBlock string, ok bool) {
	n := len(m.current.loopTargets)
	if n == 0 {
		return "", "", false
	}
	t := m.current.loopTargets[n-1]
	return t.continueBlock, t.breakBlock, true
}
