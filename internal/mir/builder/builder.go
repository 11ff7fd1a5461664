// Package builder implements the MIR construction pass of spec.md §4.4: a
// Module holding an insertion-ordered global table, a per-function frame
// stack, load-CSE keyed by abstract value name, and structured
// control-flow lowering for if/while/switch/block/unsafe/break/next.
// Grounded on the teacher's internal/manipulator package (Manipulator
// walks a *sitter.Node tree and accumulates ordered Rewrite operations;
// this builder walks expr/decl trees and accumulates ordered Inst values
// into blocks the same way) and internal/registry's name-to-index table
// for the module-level global map.
package builder

import (
	"fmt"

	"github.com/thelilylang/lily-sub004/internal/diag"
	mirinstr "github.com/thelilylang/lily-sub004/internal/mir/instr"
	mirtypes "github.com/thelilylang/lily-sub004/internal/mir/types"
	"github.com/thelilylang/lily-sub004/internal/mir/value"
)

// Global is a module-level constant or external declaration.
type Global struct {
	Name  string
	Type  *mirtypes.Type
	Value *value.Value // nil for an external declaration
}

// DebugFile records one source file contributing to this module, used by
// the debug-info manager (internal/debuginfo) to anchor emitted records.
type DebugFile struct {
	Path string
}

// Module is the top-level MIR unit: an insertion-ordered set of globals
// and functions (spec.md §4.4: "insertion-ordered global map"), plus the
// debug-info file list.
type Module struct {
	globals      map[string]*Global
	globalOrder  []string
	functions    map[string]*mirinstr.Function
	functionOrder []string

	DebugFiles []DebugFile

	Diags *diag.Bag

	current *frame // the function frame currently being built
}

// NewModule returns an empty Module, accumulating builder diagnostics
// into diags (spec.md §5: diagnostics never escape as ordinary errors).
func NewModule(diags *diag.Bag) *Module {
	return &Module{
		globals:   make(map[string]*Global),
		functions: make(map[string]*mirinstr.Function),
		Diags:     diags,
	}
}

// AddGlobal inserts g, preserving first-seen order.
func (m *Module) AddGlobal(g *Global) error {
	if _, exists := m.globals[g.Name]; exists {
		return fmt.Errorf("mir: global %q already exists", g.Name)
	}
	m.globals[g.Name] = g
	m.globalOrder = append(m.globalOrder, g.Name)
	return nil
}

// Globals returns every global in insertion order.
func (m *Module) Globals() []*Global {
	out := make([]*Global, 0, len(m.globalOrder))
	for _, n := range m.globalOrder {
		out = append(out, m.globals[n])
	}
	return out
}

// AddFunction registers fn under its mangled name, preserving insertion
// order.
func (m *Module) AddFunction(fn *mirinstr.Function) error {
	if _, exists := m.functions[fn.MangledName]; exists {
		return fmt.Errorf("mir: function %q already exists", fn.MangledName)
	}
	m.functions[fn.MangledName] = fn
	m.functionOrder = append(m.functionOrder, fn.MangledName)
	return nil
}

// Functions returns every function in insertion order.
func (m *Module) Functions() []*mirinstr.Function {
	out := make([]*mirinstr.Function, 0, len(m.functionOrder))
	for _, n := range m.functionOrder {
		out = append(out, m.functions[n])
	}
	return out
}

// GetFunNameFromTypes resolves an overloaded call site to the concrete
// mangled function name matching baseName and the call's argument types
// (spec.md §4.4.6): it tries the exact serialized-name mangling first,
// then falls back to the bare base name for non-generic, non-overloaded
// functions.
func (m *Module) GetFunNameFromTypes(baseName string, mangled string) (*mirinstr.Function, error) {
	if fn, ok := m.functions[mangled]; ok {
		return fn, nil
	}
	if fn, ok := m.functions[baseName]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("mir: no function named %q (tried mangled form %q)", baseName, mangled)
}

// fatal records a MirInvariantViolation diagnostic and returns it as an
// error, matching spec.md §7's "MIR builder kind, always fatal" policy.
func (m *Module) fatal(format string, args ...any) error {
	return m.Diags.Fatal(diag.Diagnostic{
		Kind:     diag.MirInvariantViolation,
		Severity: diag.SeverityFatal,
		Message:  fmt.Sprintf(format, args...),
	})
}
