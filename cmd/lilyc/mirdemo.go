package main

import (
	"github.com/thelilylang/lily-sub004/internal/datatype"
	"github.com/thelilylang/lily-sub004/internal/decl"
	"github.com/thelilylang/lily-sub004/internal/expr"
	"github.com/thelilylang/lily-sub004/internal/lower"
	"github.com/thelilylang/lily-sub004/internal/mir/builder"
	"github.com/thelilylang/lily-sub004/internal/resolver"
)

// lowerSampleAddFunction hand-builds `fn add(a: i32, b: i32) -> i32 {
// return a + b; }`'s typed-AST shape and lowers it into m, the same
// fixture internal/lower's own tests use — a parser would normally
// produce this tree from source text (see DESIGN.md's noted gap).
func lowerSampleAddFunction(m *builder.Module) error {
	i32 := func() *datatype.DataType { return &datatype.DataType{Kind: datatype.KindI32} }

	a := &expr.Expression{Kind: expr.KindIdentifier, Type: i32(), Identifier: &expr.IdentifierExpr{Name: "a"}}
	b := &expr.Expression{Kind: expr.KindIdentifier, Type: i32(), Identifier: &expr.IdentifierExpr{Name: "b"}}
	sum := &expr.Expression{
		Kind: expr.KindBinary, Type: i32(),
		Binary: &expr.BinaryExpr{Op: expr.OpAdd, Left: a, Right: b},
	}
	ret := &expr.Statement{Kind: expr.StmtReturn, Return: &expr.ReturnStmt{Value: sum}}

	fn := &decl.Decl{
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

	return lower.LowerFunction(m, fn, resolver.DefaultPlatform)
}
