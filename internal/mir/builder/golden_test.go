package builder

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/thelilylang/lily-sub004/internal/diag"
	mirinstr "github.com/thelilylang/lily-sub004/internal/mir/instr"
	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
	"github.com/thelilylang/lily-sub004/internal/mir/value"
)

// assertGoldenPrint compares got against the expected golden MIR text form,
// failing with a unified diff (github.com/pmezard/go-difflib) plus a
// pretty-printed dump of both sides (github.com/kr/pretty) when they
// diverge, the same pairing the teacher's internal/util.UnifiedDiff and
// providers/base test failures use for "show me exactly what moved".
func assertGoldenPrint(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "golden",
		ToFile:   "actual",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	require.NoError(t, err)
	t.Fatalf("MIR golden-form mismatch:\n%s\nwant: %s\ngot:  %s", text, pretty.Sprint(want), pretty.Sprint(got))
}

func TestModulePrintMatchesGoldenAddFunction(t *testing.T) {
	m := NewModule(&diag.Bag{})
	fn := mirinstr.NewFunction("m.add", "add", mirinstr.LinkagePublic, mirtypes.I32())
	a := value.Param("a", mirtypes.I32())
	b := value.Param("b", mirtypes.I32())
	fn.Args = []value.Value{a, b}
	m.BeginFunction(fn)
	_, err := m.OpenBlock("entry")
	require.NoError(t, err)

	require.NoError(t, m.LilyMirAddInst(mirinstr.Inst{Op: mirinstr.OpIAdd, Result: "r.0", Operands: []value.Value{a, b}}))
	require.NoError(t, m.LilyMirAddFinalInstruction(mirinstr.Inst{
		Op:       mirinstr.OpReturn,
		Operands: []value.Value{value.Reg("r.0", mirtypes.I32())},
	}))
	m.LilyMirPopCurrent()
	require.NoError(t, m.EndFunction())

	const golden = "fun m.add(a: i32, b: i32) -> i32 {\nentry:\n  r.0 = iadd a b\n  ret r.0\n}\n"
	assertGoldenPrint(t, golden, m.Print())
}

func TestModulePrintMatchesGoldenEmptyUnitFunction(t *testing.T) {
	m := NewModule(&diag.Bag{})
	fn := mirinstr.NewFunction("m.noop", "noop", mirinstr.LinkagePrivate, mirtypes.Unit())
	m.BeginFunction(fn)
	_, err := m.OpenBlock("entry")
	require.NoError(t, err)
	require.NoError(t, m.LilyMirAddFinalInstruction(mirinstr.Inst{Op: mirinstr.OpReturn}))
	m.LilyMirPopCurrent()
	require.NoError(t, m.EndFunction())

	const golden = "fun m.noop() -> unit {\nentry:\n  ret\n}\n"
	assertGoldenPrint(t, golden, m.Print())
}
