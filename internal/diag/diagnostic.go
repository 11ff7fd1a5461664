// Package diag defines the structured diagnostic values emitted by every
// phase of the pipeline (spec.md §6, §7). Diagnostics never escape as
// ordinary Go errors from non-diagnostic APIs: a phase appends to a
// *Bag and the toplevel driver inspects Bag.Failed() once the phase is
// done, exactly as spec.md §5 describes the single shared error counter.
package diag

import (
	"fmt"

	"github.com/thelilylang/lily-sub004/internal/source"
)

// ErrorKind is the closed taxonomy from spec.md §7. It is a string type, the
// same choice the teacher makes for its own ErrorCode enum, so kinds read
// well in JSON or test failure output without a separate stringer.
type ErrorKind string

const (
	// Lex kinds.
	UnexpectedCharacter                  ErrorKind = "unexpected-character"
	UnclosedCharLiteral                  ErrorKind = "unclosed-char-literal"
	UnclosedStringLiteral                ErrorKind = "unclosed-string-literal"
	UnclosedCommentBlock                 ErrorKind = "unclosed-comment-block"
	InvalidEscape                        ErrorKind = "invalid-escape"
	InvalidFloatLiteral                  ErrorKind = "invalid-float-literal"
	InvalidHexadecimalLiteral            ErrorKind = "invalid-hexadecimal-literal"
	InvalidOctalLiteral                  ErrorKind = "invalid-octal-literal"
	InvalidBinLiteral                    ErrorKind = "invalid-bin-literal"
	InvalidLiteralSuffix                 ErrorKind = "invalid-literal-suffix"
	MismatchedClosingDelimiter            ErrorKind = "mismatched-closing-delimiter"
	ExpectedOneOrManyCharacters           ErrorKind = "expected-one-or-many-characters"
	RestrictedCharacterOnIdentifierString ErrorKind = "restricted-character-on-identifier-string"
	Int8OutOfRange                       ErrorKind = "int8-out-of-range"
	Int16OutOfRange                      ErrorKind = "int16-out-of-range"
	Int32OutOfRange                      ErrorKind = "int32-out-of-range"
	Int64OutOfRange                      ErrorKind = "int64-out-of-range"
	UInt8OutOfRange                      ErrorKind = "uint8-out-of-range"
	UInt16OutOfRange                     ErrorKind = "uint16-out-of-range"
	UInt32OutOfRange                     ErrorKind = "uint32-out-of-range"
	UInt64OutOfRange                     ErrorKind = "uint64-out-of-range"
	IsizeOutOfRange                      ErrorKind = "isize-out-of-range"
	UsizeOutOfRange                      ErrorKind = "usize-out-of-range"

	// Resolver kinds.
	NotResolvableAtPreprocessorTime ErrorKind = "not-resolvable-at-preprocessor-time"
	UnsureAtCompileTime             ErrorKind = "unsure-at-compile-time"
	TypeIsIncomplete                ErrorKind = "type-is-incomplete"
	CannotResolveSize               ErrorKind = "cannot-resolve-size"

	// MIR builder kinds: invariant violations, always fatal.
	MirInvariantViolation ErrorKind = "mir-invariant-violation"
)

// Severity distinguishes recoverable lex errors (the scanner keeps going)
// from fatal resolver/MIR invariant violations (spec.md §7 policy).
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityFatal
)

// Diagnostic is the structured value every phase emits; rendering it to text
// is external (spec.md §6).
type Diagnostic struct {
	Kind     ErrorKind
	Severity Severity
	Message  string
	Help     string
	Note     string
	Quote    string
	Location *source.Location
}

func (d Diagnostic) Error() string {
	if d.Location != nil {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.Location.Filename, d.Location.StartLine, d.Location.StartColumn, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Bag accumulates diagnostics for one phase. It is the sole signal a
// toplevel driver inspects between phases (spec.md §5): lex errors
// accumulate and the phase still runs to completion, while a fatal
// diagnostic (resolver/MIR invariant violation) should be raised by the
// caller as soon as it is appended, via Bag.Fatal.
type Bag struct {
	diagnostics []Diagnostic
}

// Add appends a non-fatal diagnostic and keeps going.
func (b *Bag) Add(d Diagnostic) {
	b.diagnostics = append(b.diagnostics, d)
}

// Fatal appends a fatal diagnostic and returns it wrapped as an error, for
// callers that abort the current phase immediately (resolver, MIR builder).
func (b *Bag) Fatal(d Diagnostic) error {
	d.Severity = SeverityFatal
	b.diagnostics = append(b.diagnostics, d)
	return d
}

// All returns every diagnostic appended so far, in emission order.
func (b *Bag) All() []Diagnostic {
	return b.diagnostics
}

// Failed reports whether any diagnostic was accumulated, the condition the
// toplevel driver checks after each phase to decide the process exit code
// (spec.md §6, §7).
func (b *Bag) Failed() bool {
	return len(b.diagnostics) > 0
}

// Count returns the number of accumulated diagnostics.
func (b *Bag) Count() int {
	return len(b.diagnostics)
}
