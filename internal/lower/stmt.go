package lower

import (
	"fmt"

	"github.com/thelilylang/lily-sub004/internal/datatype"
	"github.com/thelilylang/lily-sub004/internal/decl"
	"github.com/thelilylang/lily-sub004/internal/expr"
	"github.com/thelilylang/lily-sub004/internal/mir/builder"
	mirinstr "github.com/thelilylang/lily-sub004/internal/mir/instr"
	"github.com/thelilylang/lily-sub004/internal/mir/value"
	"github.com/thelilylang/lily-sub004/internal/resolver"
)

// LowerFunction opens a MIR function for d (Kind must be KindFunction or
// KindFunctionGen), binds its parameters, lowers its body statement-by-
// statement, and closes it. Grounded on the teacher's internal/manipulator
// top-level "visit one declaration, emit one ordered output unit" entry
// point (Manipulator.start() walking a tree and accumulating Rewrites).
func LowerFunction(m *builder.Module, d *decl.Decl, platform resolver.Platform) error {
	if d.Function == nil {
		return fmt.Errorf("lower: %q is not a function declaration", d.Name)
	}

	paramTypes := make([]*datatype.DataType, len(d.Function.Params))
	for i, p := range d.Function.Params {
		paramTypes[i] = p.Type
	}
	mangled := datatype.SerializeName(d.Name, paramTypes)

	retType, err := Type(d.Function.ReturnType)
	if err != nil {
		return err
	}

	linkage := mirinstr.LinkagePublic
	switch {
	case d.StorageClass&decl.ScStatic != 0:
		linkage = mirinstr.LinkagePrivate
	case d.StorageClass&decl.ScExtern != 0:
		linkage = mirinstr.LinkageExternal
	}

	fn := mirinstr.NewFunction(mangled, d.Name, linkage, retType)

	l := NewLowerer(m, platform)
	args := make([]value.Value, len(d.Function.Params))
	for i, p := range d.Function.Params {
		pt, err := Type(p.Type)
		if err != nil {
			return err
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		args[i] = value.Param(name, pt)
		l.Vars[p.Name] = args[i]
	}
	fn.Args = args

	m.BeginFunction(fn)
	entry, err := m.NewBlockName()
	if err != nil {
		return err
	}
	if _, err := m.OpenBlock(entry); err != nil {
		return err
	}

	if d.Function.Body != nil {
		for _, item := range d.Function.Body.Items {
			s, ok := item.(*expr.Statement)
			if !ok || s == nil {
				continue
			}
			if err := l.Stmt(s); err != nil {
				return err
			}
		}
	}

	if err := m.LilyMirAddFinalInstruction(mirinstr.Inst{Op: mirinstr.OpReturn}); err != nil {
		return err
	}

	return m.EndFunction()
}

// Stmt lowers one statement node, dispatching on its Kind and calling the
// matching builder.Lower* structured control-flow entry point.
func (l *Lowerer) Stmt(s *expr.Statement) error {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case expr.StmtExpr:
		_, err := l.Expr(s.Expr)
		return err
	case expr.StmtBlock:
		return l.block(s.Block)
	case expr.StmtIf:
		return l.ifStmt(s.If)
	case expr.StmtWhile:
		return l.whileStmt(s.While)
	case expr.StmtDoWhile:
		return l.doWhileStmt(s.DoWhile)
	case expr.StmtFor:
		return l.forStmt(s.For)
	case expr.StmtSwitch:
		return l.switchStmt(s.Switch)
	case expr.StmtBreak:
		return l.Module.LowerBreak()
	case expr.StmtContinue:
		return l.Module.LowerNext()
	case expr.StmtReturn:
		return l.returnStmt(s.Return)
	case expr.StmtGoto:
		return fmt.Errorf("lower: goto %q has no MIR lowering (structured control flow only)", s.Goto.Label)
	case expr.StmtCase, expr.StmtDefault:
		// Reached only if a case body is walked outside its owning switch;
		// normal lowering handles cases via switchStmt's CaseStmt.Body.
		return fmt.Errorf("lower: case/default statement outside a switch")
	default:
		return fmt.Errorf("lower: statement kind %d not supported", s.Kind)
	}
}

func (l *Lowerer) stmts(list []*expr.Statement) func() error {
	return func() error {
		for _, s := range list {
			if err := l.Stmt(s); err != nil {
				return err
			}
		}
		return nil
	}
}

func (l *Lowerer) block(b *expr.BlockStmt) error {
	if b == nil {
		return nil
	}
	body := l.stmts(b.Items)
	if b.IsUnsafe {
		return l.Module.LowerUnsafe(body)
	}
	return l.Module.LowerBlock(body)
}

func (l *Lowerer) ifStmt(s *expr.IfStmt) error {
	cond, err := l.Expr(s.Cond)
	if err != nil {
		return err
	}

	var elifs []builder.ElifBranch
	for _, e := range s.ElifBranches {
		e := e
		elifCond, err := l.Expr(e.Cond)
		if err != nil {
			return err
		}
		elifs = append(elifs, builder.ElifBranch{
			Cond:    elifCond,
			LowerFn: func() error { return l.Stmt(e.Then) },
		})
	}

	var elseFn func() error
	if s.Else != nil {
		elseFn = func() error { return l.Stmt(s.Else) }
	}

	return l.Module.LowerIf(cond, func() error { return l.Stmt(s.Then) }, elifs, elseFn)
}

func (l *Lowerer) whileStmt(s *expr.WhileStmt) error {
	return l.Module.LowerWhile(
		func() (value.Value, error) { return l.Expr(s.Cond) },
		func() error { return l.Stmt(s.Body) },
	)
}

// doWhileStmt lowers `do { body } while (cond)` by running the body once
// unconditionally before entering the ordinary while-loop shape, since the
// MIR builder only exposes a pre-tested LowerWhile (spec.md §4.4.4 does not
// distinguish the two at the instruction level, only at the source AST).
func (l *Lowerer) doWhileStmt(s *expr.DoWhileStmt) error {
	if err := l.Stmt(s.Body); err != nil {
		return err
	}
	return l.Module.LowerWhile(
		func() (value.Value, error) { return l.Expr(s.Cond) },
		func() error { return l.Stmt(s.Body) },
	)
}

func (l *Lowerer) forStmt(s *expr.ForStmt) error {
	return l.Module.LowerBlock(func() error {
		if s.Init != nil {
			if err := l.Stmt(s.Init); err != nil {
				return err
			}
		}
		return l.Module.LowerWhile(
			func() (value.Value, error) {
				if s.Cond == nil {
					return value.Int(1, l.boolType()), nil
				}
				return l.Expr(s.Cond)
			},
			func() error {
				if err := l.Stmt(s.Body); err != nil {
					return err
				}
				if s.Post != nil {
					if _, err := l.Expr(s.Post); err != nil {
						return err
					}
				}
				return nil
			},
		)
	})
}

func (l *Lowerer) switchStmt(s *expr.SwitchStmt) error {
	subject, err := l.Expr(s.Subject)
	if err != nil {
		return err
	}

	var cases []builder.SwitchCase
	for _, c := range s.Cases {
		c := c
		if c.Value == nil {
			// nil Guard marks the default case; LowerSwitch lowers it into
			// default_block when hasElse is set.
			cases = append(cases, builder.SwitchCase{LowerFn: l.caseBody(c)})
			continue
		}
		dispatch, err := l.Expr(c.Value)
		if err != nil {
			return err
		}
		cases = append(cases, builder.SwitchCase{
			Guard:   &dispatch,
			LowerFn: l.caseBody(c),
		})
	}

	return l.Module.LowerSwitch(subject, cases, s.HasElse)
}

// caseBody returns the lowering function for a case's body. A case with a
// sub-case guard (spec.md §4.4.4) expands into a jmpcond on the guard
// expression once its top-level case value has matched: the body runs
// only if the guard also holds, otherwise this case contributes nothing
// and control jumps to the switch's exit; later cases and the default
// case are not tried.
func (l *Lowerer) caseBody(c *expr.CaseStmt) func() error {
	body := l.stmts(c.Body)
	if c.Guard == nil {
		return body
	}
	return func() error {
		guard, err := l.Expr(c.Guard)
		if err != nil {
			return err
		}
		return l.Module.LowerIf(guard, body, nil, nil)
	}
}

func (l *Lowerer) returnStmt(s *expr.ReturnStmt) error {
	if s.Value == nil {
		return l.Module.LilyMirAddFinalInstruction(mirinstr.Inst{Op: mirinstr.OpReturn})
	}
	v, err := l.Expr(s.Value)
	if err != nil {
		return err
	}
	return l.Module.LilyMirAddFinalInstruction(mirinstr.Inst{Op: mirinstr.OpReturn, Operands: []value.Value{v}})
}
