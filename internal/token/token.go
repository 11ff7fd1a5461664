package token

import "github.com/thelilylang/lily-sub004/internal/source"

// Literal is the typed value carried by a literal token. Only the field
// matching Kind is meaningful; the others are zero.
type Literal struct {
	Bool    bool
	Char    rune
	Float   float64
	Int     int64
	Uint    uint64
	Str     string
	Suffix  IntegerSuffix
	HasSign bool // true when the literal was parsed as signed (Int vs Uint)
}

// AtOperand is the optional payload carried by @builtin/@cc/@cpp/@sys
// tokens (SPEC_FULL.md §3 item 5): a following string or parenthesized
// identifier, e.g. @cc("printf").
type AtOperand struct {
	Present bool
	Value   string
}

// Token is the scanner's output unit: a Kind, its Location, and whatever
// kind-specific payload applies. A single struct (rather than one type per
// kind) keeps the token stream homogeneous, matching the spec's "vector of
// Token values" framing (spec.md §4.1).
type Token struct {
	Kind     Kind
	Location source.Location
	Text     string // raw lexeme, always populated
	Literal  Literal
	At       AtOperand
}

// IsComment reports whether this token is one of the four comment kinds,
// used by the delimiter balancer to filter comments out of nested token
// runs (spec.md §4.1).
func (t Token) IsComment() bool {
	switch t.Kind {
	case CommentLine, CommentBlock, CommentDoc, CommentDebug:
		return true
	default:
		return false
	}
}

// IsOpenDelimiter reports whether t opens a balanced (..)/[..]/{..} group.
func (t Token) IsOpenDelimiter() bool {
	switch t.Kind {
	case LParen, LBracket, LBrace:
		return true
	default:
		return false
	}
}

// IsCloseDelimiter reports whether t closes a balanced (..)/[..]/{..} group.
func (t Token) IsCloseDelimiter() bool {
	switch t.Kind {
	case RParen, RBracket, RBrace:
		return true
	default:
		return false
	}
}

// Matches reports whether close is the correct closing delimiter for the
// opening delimiter open.
func Matches(open, close Kind) bool {
	switch open {
	case LParen:
		return close == RParen
	case LBracket:
		return close == RBracket
	case LBrace:
		return close == RBrace
	default:
		return false
	}
}
