package builder

import (
	"fmt"
	"strings"
)

// Print renders the module in the flat textual MIR form spec.md §6
// describes for golden-file comparisons: one line per global, then one
// function per section with its blocks in the order they were opened and one line
// per instruction. Grounded on the teacher's internal/manipulator
// emission style: walk the tree once, emit each unit in order, never
// buffer the whole tree into an intermediate structure.
func (m *Module) Print() string {
	var sb strings.Builder
	for _, g := range m.Globals() {
		if g.Value != nil {
			fmt.Fprintf(&sb, "global %s: %s = %s\n", g.Name, g.Type, g.Value)
		} else {
			fmt.Fprintf(&sb, "global %s: %s\n", g.Name, g.Type)
		}
	}
	for _, fn := range m.Functions() {
		fmt.Fprintf(&sb, "fun %s(", fn.MangledName)
		for i, a := range fn.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", a, a.Type)
		}
		fmt.Fprintf(&sb, ") -> %s {\n", fn.ReturnType)
		for _, name := range fn.BlockOrder {
			b := fn.Blocks[name]
			fmt.Fprintf(&sb, "%s:\n", b.Name)
			for _, inst := range b.Instructions {
				fmt.Fprintf(&sb, "  %s\n", inst)
			}
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}
