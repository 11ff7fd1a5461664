package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelilylang/lily-sub004/internal/datatype"
	"github.com/thelilylang/lily-sub004/internal/decl"
	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/expr"
	"github.com/thelilylang/lily-sub004/internal/mir/builder"
	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
	"github.com/thelilylang/lily-sub004/internal/resolver"
)

func i32() *datatype.DataType { return &datatype.DataType{Kind: datatype.KindI32} }

func TestTypeLowersPrimitives(t *testing.T) {
	mt, err := Type(i32())
	require.NoError(t, err)
	assert.True(t, mirtypes.Equal(mirtypes.I32(), mt))

	mt, err = Type(&datatype.DataType{Kind: datatype.KindBool})
	require.NoError(t, err)
	assert.True(t, mirtypes.Equal(mirtypes.I1(), mt))
}

func TestTypeLowersPointerAndArray(t *testing.T) {
	mt, err := Type(&datatype.DataType{Kind: datatype.KindPointer, Pointer: i32()})
	require.NoError(t, err)
	assert.True(t, mirtypes.Equal(mirtypes.Ptr(mirtypes.I32()), mt))

	arr := &datatype.DataType{
		Kind:  datatype.KindArray,
		Array: &datatype.ArrayPayload{Element: i32(), Size: datatype.ArraySize{Sized: true, Size: 4}},
	}
	mt, err = Type(arr)
	require.NoError(t, err)
	assert.True(t, mirtypes.Equal(mirtypes.Array(4, mirtypes.I32()), mt))
}

func TestTypeRejectsUnsizedArray(t *testing.T) {
	arr := &datatype.DataType{Kind: datatype.KindArray, Array: &datatype.ArrayPayload{Element: i32()}}
	_, err := Type(arr)
	assert.Error(t, err)
}

// buildAddFunction constructs `fn add(a: i32, b: i32) -> i32 { return a + b; }`
// by hand, mirroring the shape a parser would produce.
func buildAddFunction() *decl.Decl {
	aExpr := &expr.Expression{Kind: expr.KindIdentifier, Type: i32(), Identifier: &expr.IdentifierExpr{Name: "a"}}
	bExpr := &expr.Expression{Kind: expr.KindIdentifier, Type: i32(), Identifier: &expr.IdentifierExpr{Name: "b"}}
	sum := &expr.Expression{
		Kind: expr.KindBinary, Type: i32(),
		Binary: &expr.BinaryExpr{Op: expr.OpAdd, Left: aExpr, Right: bExpr},
	}
	ret := &expr.Statement{Kind: expr.StmtReturn, Return: &expr.ReturnStmt{Value: sum}}

	return &decl.Decl{
		Kind: decl.KindFunction,
		Name: "add",
		Function: &decl.FunctionDecl{
			Params: []*decl.VariableDecl{
				{Name: "a", Type: i32()},
				{Name: "b", Type: i32()},
			},
			ReturnType: i32(),
			Body:       &decl.FunctionBody{Items: []any{ret}},
		},
	}
}

func TestLowerFunctionEmitsAddBody(t *testing.T) {
	m := builder.NewModule(&diag.Bag{})
	require.NoError(t, LowerFunction(m, buildAddFunction(), resolver.DefaultPlatform))

	fns := m.Functions()
	require.Len(t, fns, 1)
	fn := fns[0]
	assert.Equal(t, "add", fn.BaseName)

	var sawAdd, sawReturn bool
	for _, name := range fn.BlockOrder {
		for _, inst := range fn.Blocks[name].Instructions {
			if inst.Op.String() == "iadd" {
				sawAdd = true
			}
			if inst.Op.String() == "ret" {
				sawReturn = true
			}
		}
	}
	assert.True(t, sawAdd, "expected an iadd instruction somewhere in the function")
	assert.True(t, sawReturn, "expected a ret instruction somewhere in the function")
}

// TestSwitchCaseGuardExpandsToJmpCond exercises spec.md §4.4.4's sub-case
// guard: a case whose body only runs if a secondary boolean condition also
// holds, expanded as a jmpcond nested inside the matched case.
func TestSwitchCaseGuardExpandsToJmpCond(t *testing.T) {
	boolType := &datatype.DataType{Kind: datatype.KindBool}
	trueLit := func() *expr.Expression {
		return &expr.Expression{Kind: expr.KindLiteral, Type: boolType, Literal: &expr.LiteralExpr{Kind: expr.LitBool, Bool: true}}
	}
	subject := &expr.Expression{Kind: expr.KindLiteral, Type: i32(), Literal: &expr.LiteralExpr{Kind: expr.LitSignedInt, Int: 1}}
	caseValue := &expr.Expression{Kind: expr.KindLiteral, Type: i32(), Literal: &expr.LiteralExpr{Kind: expr.LitSignedInt, Int: 1}}
	retStmt := &expr.Statement{Kind: expr.StmtReturn, Return: &expr.ReturnStmt{}}

	switchStmt := &expr.Statement{Kind: expr.StmtSwitch, Switch: &expr.SwitchStmt{
		Subject: subject,
		Cases: []*expr.CaseStmt{
			{Value: caseValue, Guard: trueLit(), Body: []*expr.Statement{retStmt}},
		},
		HasElse: false,
	}}

	d := &decl.Decl{
		Kind: decl.KindFunction,
		Name: "guarded",
		Function: &decl.FunctionDecl{
			ReturnType: &datatype.DataType{Kind: datatype.KindUnit},
			Body:       &decl.FunctionBody{Items: []any{switchStmt}},
		},
	}

	m := builder.NewModule(&diag.Bag{})
	require.NoError(t, LowerFunction(m, d, resolver.DefaultPlatform))

	out := m.Print()
	assert.Contains(t, out, "switch ")
	assert.Contains(t, out, "jmpcond")
}

func TestLowerFunctionRejectsNonFunctionDecl(t *testing.T) {
	m := builder.NewModule(&diag.Bag{})
	err := LowerFunction(m, &decl.Decl{Kind: decl.KindVariable, Name: "x"}, resolver.DefaultPlatform)
	assert.Error(t, err)
}

func TestIfStatementLowersToStructuredBlocks(t *testing.T) {
	cond := &expr.Expression{
		Kind: expr.KindLiteral, Type: &datatype.DataType{Kind: datatype.KindBool},
		Literal: &expr.LiteralExpr{Kind: expr.LitBool, Bool: true},
	}
	thenRet := &expr.Statement{Kind: expr.StmtReturn, Return: &expr.ReturnStmt{}}
	ifStmt := &expr.Statement{Kind: expr.StmtIf, If: &expr.IfStmt{Cond: cond, Then: thenRet}}

	d := &decl.Decl{
		Kind: decl.KindFunction,
		Name: "maybe_return",
		Function: &decl.FunctionDecl{
			ReturnType: &datatype.DataType{Kind: datatype.KindUnit},
			Body:       &decl.FunctionBody{Items: []any{ifStmt}},
		},
	}

	m := builder.NewModule(&diag.Bag{})
	require.NoError(t, LowerFunction(m, d, resolver.DefaultPlatform))

	fn := m.Functions()[0]
	assert.Greater(t, len(fn.BlockOrder), 1, "an if statement must split the function into multiple blocks")
}
