// Package source holds the file and position primitives shared by every
// later compiler phase: the scanner stamps them on tokens, the AST carries
// them on declarations and expressions, and diagnostics quote them back.
package source

import "fmt"

// FileKind distinguishes a header compilation unit from a source one. The CI
// frontend resolves declarations differently depending on which kind of file
// introduced them (a header's declarations are visible to every source file
// that includes it).
type FileKind uint8

const (
	Header FileKind = iota
	Source
)

func (k FileKind) String() string {
	if k == Header {
		return "header"
	}
	return "source"
}

// FileID tags a process-unique file index with the kind of file it refers
// to, so a bare integer is never confused between the header and source
// namespaces.
type FileID struct {
	Kind FileKind
	ID   uint32
}

func (f FileID) String() string {
	return fmt.Sprintf("%s#%d", f.Kind, f.ID)
}

// Position is a byte-oriented cursor into a source buffer. Line and Column
// are 1-based; Offset is the 0-based byte index, kept alongside the
// line/column pair because the scanner advances both in lockstep and later
// phases need the cheap byte offset for slicing.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Location is the external interface described in spec.md §6: a span over a
// named file, reported verbatim by diagnostics. Renderers live outside this
// module; Location only carries the data they need.
type Location struct {
	Filename     string
	StartLine    int
	EndLine      int
	StartColumn  int
	EndColumn    int
	StartPosition int
	EndPosition   int
}

// Single builds a zero-width Location at a single position, the common case
// for token and identifier locations.
func Single(filename string, p Position) Location {
	return Location{
		Filename:      filename,
		StartLine:     p.Line,
		EndLine:       p.Line,
		StartColumn:   p.Column,
		EndColumn:     p.Column,
		StartPosition: p.Offset,
		EndPosition:   p.Offset,
	}
}

// Span builds a Location covering [start, end).
func Span(filename string, start, end Position) Location {
	return Location{
		Filename:      filename,
		StartLine:     start.Line,
		EndLine:       end.Line,
		StartColumn:   start.Column,
		EndColumn:     end.Column,
		StartPosition: start.Offset,
		EndPosition:   end.Offset,
	}
}

// Merge returns the smallest Location enclosing both a and b. Both must
// share a filename; the caller is responsible for that invariant since
// Location carries no cross-file ordering.
func Merge(a, b Location) Location {
	m := a
	if b.StartPosition < a.StartPosition {
		m.StartLine = b.StartLine
		m.StartColumn = b.StartColumn
		m.StartPosition = b.StartPosition
	}
	if b.EndPosition > a.EndPosition {
		m.EndLine = b.EndLine
		m.EndColumn = b.EndColumn
		m.EndPosition = b.EndPosition
	}
	return m
}
