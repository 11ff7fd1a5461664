package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelilylang/lily-sub004/internal/diag"
	mirinstr "github.com/thelilylang/lily-sub004/internal/mir/instr"
	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
	"github.com/thelilylang/lily-sub004/internal/mir/value"
)

func newTestModule() *Module {
	return NewModule(&diag.Bag{})
}

func TestLowerIfWithoutElseFallsThroughToExit(t *testing.T) {
	m := newTestModule()
	fn := mirinstr.NewFunction("test.if", "if", mirinstr.LinkagePrivate, mirtypes.Unit())
	m.BeginFunction(fn)

	entry, err := m.OpenBlock("bb0")
	require.NoError(t, err)
	_ = entry

	cond := value.Int(1, mirtypes.I1())
	err = m.LowerIf(cond, func() error {
		return m.LilyMirAddInst(mirinstr.Inst{Op: mirinstr.OpIAdd, Result: "r.0", Operands: []value.Value{cond, cond}})
	}, nil, nil)
	require.NoError(t, err)
	m.LilyMirPopCurrent()

	require.NoError(t, m.EndFunction())

	out := m.Print()
	assert.Contains(t, out, "jmpcond")
	assert.Contains(t, out, "iadd")
}

func TestLowerWhileRegistersLoopTargets(t *testing.T) {
	m := newTestModule()
	fn := mirinstr.NewFunction("test.while", "while", mirinstr.LinkagePrivate, mirtypes.Unit())
	m.BeginFunction(fn)
	_, err := m.OpenBlock("bb0")
	require.NoError(t, err)

	err = m.LowerWhile(func() (value.Value, error) {
		return value.Int(1, mirtypes.I1()), nil
	}, func() error {
		return m.LowerBreak()
	})
	require.NoError(t, err)
	m.LilyMirPopCurrent()
	require.NoError(t, m.EndFunction())

	out := m.Print()
	assert.Contains(t, out, "jmpcond")
}

func TestLowerSwitchWithoutElseEmitsUnreachableDefault(t *testing.T) {
	m := newTestModule()
	fn := mirinstr.NewFunction("test.switch", "switch", mirinstr.LinkagePrivate, mirtypes.Unit())
	m.BeginFunction(fn)
	_, err := m.OpenBlock("bb0")
	require.NoError(t, err)

	guard := value.Int(1, mirtypes.I32())
	err = m.LowerSwitch(value.Int(1, mirtypes.I32()), []SwitchCase{
		{Guard: &guard, LowerFn: func() error { return nil }},
	}, false)
	require.NoError(t, err)
	m.LilyMirPopCurrent()
	require.NoError(t, m.EndFunction())

	out := m.Print()
	assert.Contains(t, out, "unreachable")
}

func TestLowerSwitchWithElseJumpsToExitInsteadOfUnreachable(t *testing.T) {
	m := newTestModule()
	fn := mirinstr.NewFunction("test.switch2", "switch2", mirinstr.LinkagePrivate, mirtypes.Unit())
	m.BeginFunction(fn)
	_, err := m.OpenBlock("bb0")
	require.NoError(t, err)

	guard := value.Int(1, mirtypes.I32())
	err = m.LowerSwitch(value.Int(1, mirtypes.I32()), []SwitchCase{
		{Guard: &guard, LowerFn: func() error { return nil }},
	}, true)
	require.NoError(t, err)
	m.LilyMirPopCurrent()
	require.NoError(t, m.EndFunction())

	out := m.Print()
	assert.NotContains(t, out, "unreachable")
}

func TestLoadCSEReusesValueWithinBlock(t *testing.T) {
	m := newTestModule()
	fn := mirinstr.NewFunction("test.cse", "cse", mirinstr.LinkagePrivate, mirtypes.I32())
	m.BeginFunction(fn)
	_, err := m.OpenBlock("bb0")
	require.NoError(t, err)

	src := value.Var(".0", mirtypes.Ptr(mirtypes.I32()))
	v1, err := m.LilyMirAddLoad(src, mirtypes.I32())
	require.NoError(t, err)
	v2, err := m.LilyMirAddLoad(src, mirtypes.I32())
	require.NoError(t, err)
	assert.Equal(t, v1.Name, v2.Name)

	require.NoError(t, m.LilyMirAddInst(mirinstr.Inst{Op: mirinstr.OpStore, Operands: []value.Value{src, v1}}))
	v3, err := m.LilyMirAddLoad(src, mirtypes.I32())
	require.NoError(t, err)
	assert.NotEqual(t, v1.Name, v3.Name)
}

func TestBreakOutsideLoopIsFatal(t *testing.T) {
	m := newTestModule()
	fn := mirinstr.NewFunction("test.breakbad", "breakbad", mirinstr.LinkagePrivate, mirtypes.Unit())
	m.BeginFunction(fn)
	_, err := m.OpenBlock("bb0")
	require.NoError(t, err)
	err = m.LowerBreak()
	assert.Error(t, err)
	assert.True(t, m.Diags.Failed())
}
