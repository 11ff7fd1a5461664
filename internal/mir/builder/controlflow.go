package builder

import (
	mirinstr "github.com/thelilylang/lily-sub004/internal/mir/instr"
	"github.com/thelilylang/lily-sub004/internal/mir/value"
)

// LilyMirAddFinalInstruction appends inst to the current block only if the
// block has no terminator yet, matching spec.md §4.4.5's idempotent
// terminator rule: lowering a fallthrough path that already jumped out
// (e.g. every arm of an if returned) must not append a second terminator.
func (m *Module) LilyMirAddFinalInstruction(inst mirinstr.Inst) error {
	if m.current == nil {
		return m.fatal("LilyMirAddFinalInstruction called outside a function")
	}
	b := m.current.fn.Current()
	if b == nil {
		return m.fatal("LilyMirAddFinalInstruction called with no open block")
	}
	if b.Terminated {
		return nil
	}
	return b.Push(inst)
}

// jumpTo is a small helper emitting an unconditional jump as a final
// instruction (a no-op if the block already terminated).
func (m *Module) jumpTo(target string) error {
	return m.LilyMirAddFinalInstruction(mirinstr.Inst{Op: mirinstr.OpJmp, Targets: []string{target}})
}

// LowerIf builds the MIR for an if/elif/else chain (spec.md §4.4.4): one
// condition block per branch, a then-block per branch, and a single exit
// block every non-terminating branch falls through to. thenFn/elifFns/
// elseFn are callbacks that lower the corresponding statement bodies,
// emitting into whatever block is current when they are called.
func (m *Module) LowerIf(
	cond value.Value,
	thenFn func() error,
	elifs []ElifBranch,
	elseFn func() error, // nil if there is no else
) error {
	exit, err := m.NewBlockName()
	if err != nil {
		return err
	}

	if err := m.lowerIfArm(cond, thenFn, elifs, elseFn, exit); err != nil {
		return err
	}

	if _, err := m.OpenBlock(exit); err != nil {
		return err
	}
	return nil
}

// ElifBranch pairs a condition with its lowering callback.
type ElifBranch struct {
	Cond   value.Value
	LowerFn func() error
}

func (m *Module) lowerIfArm(cond value.Value, thenFn func() error, elifs []ElifBranch, elseFn func() error, exit string) error {
	thenName, err := m.NewBlockName()
	if err != nil {
		return err
	}
	elseName, err := m.NewBlockName()
	if err != nil {
		return err
	}

	if err := m.LilyMirAddFinalInstruction(mirinstr.Inst{
		Op: mirinstr.OpJmpCond, Operands: []value.Value{cond}, Targets: []string{thenName, elseName},
	}); err != nil {
		return err
	}

	if _, err := m.OpenBlock(thenName); err != nil {
		return err
	}
	if err := thenFn(); err != nil {
		return err
	}
	if err := m.jumpTo(exit); err != nil {
		return err
	}
	m.LilyMirPopCurrent()

	if _, err := m.OpenBlock(elseName); err != nil {
		return err
	}
	switch {
	case len(elifs) > 0:
		next := elifs[0]
		if err := m.lowerIfArm(next.Cond, next.LowerFn, elifs[1:], elseFn, exit); err != nil {
			return err
		}
	case elseFn != nil:
		if err := elseFn(); err != nil {
			return err
		}
		if err := m.jumpTo(exit); err != nil {
			return err
		}
	default:
		if err := m.jumpTo(exit); err != nil {
			return err
		}
	}
	m.LilyMirPopCurrent()
	return nil
}

// LowerWhile builds the MIR for a while loop: a condition block, a body
// block, and an exit block, registering (condition, exit) as the loop's
// next/break targets for the duration of bodyFn (spec.md §4.4.4).
func (m *Module) LowerWhile(condFn func() (value.Value, error), bodyFn func() error) error {
	condName, err := m.NewBlockName()
	if err != nil {
		return err
	}
	bodyName, err := m.NewBlockName()
	if err != nil {
		return err
	}
	exitName, err := m.NewBlockName()
	if err != nil {
		return err
	}

	if err := m.jumpTo(condName); err != nil {
		return err
	}
	m.LilyMirPopCurrent()

	if _, err := m.OpenBlock(condName); err != nil {
		return err
	}
	cond, err := condFn()
	if err != nil {
		return err
	}
	if err := m.LilyMirAddFinalInstruction(mirinstr.Inst{
		Op: mirinstr.OpJmpCond, Operands: []value.Value{cond}, Targets: []string{bodyName, exitName},
	}); err != nil {
		return err
	}
	m.LilyMirPopCurrent()

	if _, err := m.OpenBlock(bodyName); err != nil {
		return err
	}
	m.PushLoop(condName, exitName)
	if err := bodyFn(); err != nil {
		m.PopLoop()
		return err
	}
	m.PopLoop()
	if err := m.jumpTo(condName); err != nil {
		return err
	}
	m.LilyMirPopCurrent()

	if _, err := m.OpenBlock(exitName); err != nil {
		return err
	}
	return nil
}

// SwitchCase pairs a top-level dispatch value with its body lowering
// callback; a nil Guard marks the default case. A sub-case guard
// (spec.md §4.4.4's secondary boolean condition) is not part of the
// dispatch table itself — it is lowered inside LowerFn as a jmpcond over
// the case body; on guard failure control reaches the switch's exit
// (see lower.Lowerer.caseBody).
type SwitchCase struct {
	Guard   *value.Value
	LowerFn func() error
}

// LowerSwitch builds the MIR for a switch statement, resolving the
// has_else Open Question per spec.md §9 (see DESIGN.md): when hasElse is
// true, the default case (the one with a nil Guard) is lowered into
// default_block, which then jumps to exit; when false, default_block
// contains an `unreachable` instruction, since the source language's
// switch is exhaustiveness-checked and a missing default is unreachable
// by construction.
func (m *Module) LowerSwitch(subject value.Value, cases []SwitchCase, hasElse bool) error {
	exit, err := m.NewBlockName()
	if err != nil {
		return err
	}
	defaultBlock, err := m.NewBlockName()
	if err != nil {
		return err
	}

	var guardCases []value.Value
	var targets []string
	var defaultFn func() error
	blockNames := make([]string, len(cases))
	for i, c := range cases {
		if c.Guard == nil {
			defaultFn = c.LowerFn
			continue
		}
		name, err := m.NewBlockName()
		if err != nil {
			return err
		}
		blockNames[i] = name
		guardCases = append(guardCases, *c.Guard)
		targets = append(targets, name)
	}

	if err := m.LilyMirAddFinalInstruction(mirinstr.Inst{
		Op: mirinstr.OpSwitch, Operands: []value.Value{subject},
		Targets: append([]string{defaultBlock}, targets...), Cases: guardCases,
	}); err != nil {
		return err
	}
	m.LilyMirPopCurrent()

	m.PushLoop("", exit) // switch has no `next` target, only `break`
	for i, c := range cases {
		if c.Guard == nil {
			continue
		}
		if _, err := m.OpenBlock(blockNames[i]); err != nil {
			return err
		}
		if err := c.LowerFn(); err != nil {
			m.PopLoop()
			return err
		}
		if err := m.jumpTo(exit); err != nil {
			m.PopLoop()
			return err
		}
		m.LilyMirPopCurrent()
	}
	m.PopLoop()

	if _, err := m.OpenBlock(defaultBlock); err != nil {
		return err
	}
	if hasElse {
		if defaultFn != nil {
			m.PushLoop("", exit)
			err := defaultFn()
			m.PopLoop()
			if err != nil {
				return err
			}
		}
		if err := m.jumpTo(exit); err != nil {
			return err
		}
	} else {
		if err := m.LilyMirAddFinalInstruction(mirinstr.Inst{Op: mirinstr.OpUnreachable}); err != nil {
			return err
		}
	}
	m.LilyMirPopCurrent()

	if _, err := m.OpenBlock(exit); err != nil {
		return err
	}
	return nil
}

// LowerBlock opens a fresh bare block (spec.md's `block { ... }` form,
// used for local scoping without a loop or conditional), lowers bodyFn
// inside it, and falls through to an exit block.
func (m *Module) LowerBlock(bodyFn func() error) error {
	enter, err := m.NewBlockName()
	if err != nil {
		return err
	}
	exit, err := m.NewBlockName()
	if err != nil {
		return err
	}
	if err := m.jumpTo(enter); err != nil {
		return err
	}
	m.LilyMirPopCurrent()

	if _, err := m.OpenBlock(enter); err != nil {
		return err
	}
	m.PushLoop("", exit) // `break` may exit a bare block; `next` is invalid here
	if err := bodyFn(); err != nil {
		m.PopLoop()
		return err
	}
	m.PopLoop()
	if err := m.jumpTo(exit); err != nil {
		return err
	}
	m.LilyMirPopCurrent()

	if _, err := m.OpenBlock(exit); err != nil {
		return err
	}
	return nil
}

// LowerUnsafe lowers an `unsafe { ... }` block. It carries no distinct
// control-flow shape of its own (spec.md §4.4.4 treats it as a bare
// block whose only effect is suppressing the borrow checker inside it,
// a concern external to MIR construction), so it reuses LowerBlock.
func (m *Module) LowerUnsafe(bodyFn func() error) error {
	return m.LowerBlock(bodyFn)
}

// LowerBreak lowers a `break` by jumping to the nearest enclosing loop's
// or switch's break target.
func (m *Module) LowerBreak() error {
	_, brk, ok := m.CurrentLoop()
	if !ok {
		return m.fatal("break statement outside any loop or switch")
	}
	return m.LilyMirAddFinalInstruction(mirinstr.Inst{Op: mirinstr.OpJmp, Targets: []string{brk}})
}

// LowerNext lowers a `next` (continue) by jumping to the nearest
// enclosing loop's condition/post block.
func (m *Module) LowerNext() error {
	cont, _, ok := m.CurrentLoop()
	if !ok || cont == "" {
		return m.fatal("next statement outside any loop")
	}
	return m.LilyMirAddFinalInstruction(mirinstr.Inst{Op: mirinstr.OpJmp, Targets: []string{cont}})
}
