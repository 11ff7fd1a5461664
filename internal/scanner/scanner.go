// Package scanner implements the context-aware lexer of spec.md §4.1: a
// byte cursor that produces a delimiter-balanced token stream with
// recovery. Grounded on the teacher's internal/scanner.Scanner shape (a
// Config struct feeding a New constructor, small single-purpose private
// helpers) even though the traversal here is over bytes, not a file tree.
package scanner

import (
	"fmt"

	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/source"
	"github.com/thelilylang/lily-sub004/internal/token"
)

// Config configures a Scanner instance.
type Config struct {
	Filename string
	Source   []byte
}

// Scanner turns a byte source into a token.Token stream. It is not safe for
// concurrent use; spec.md §5 specifies the whole pipeline is single
// threaded and synchronous.
type Scanner struct {
	filename string
	src      []byte
	pos      int // byte offset
	line     int
	col      int

	depth int // nesting depth inside (), [], {}

	Diagnostics diag.Bag
}

// New creates a Scanner over cfg.Source.
func New(cfg Config) *Scanner {
	return &Scanner{
		filename: cfg.Filename,
		src:      cfg.Source,
		pos:      0,
		line:     1,
		col:      1,
	}
}

func (s *Scanner) here() source.Position {
	return source.Position{Line: s.line, Column: s.col, Offset: s.pos}
}

func (s *Scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) peekAt(offset int) byte {
	i := s.pos + offset
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

func (s *Scanner) peek() byte {
	return s.peekAt(0)
}

func (s *Scanner) advance() byte {
	b := s.src[s.pos]
	s.pos++
	if b == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return b
}

func (s *Scanner) match(b byte) bool {
	if !s.eof() && s.peek() == b {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) errorf(kind diag.ErrorKind, start source.Position, format string, args ...any) {
	loc := source.Single(s.filename, start)
	s.Diagnostics.Add(diag.Diagnostic{
		Kind:     kind,
		Severity: diag.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Location: &loc,
	})
}

// Scan tokenizes the whole source and returns the resulting stream,
// terminated by a single EOF token (spec.md §4.1 "Output"). Delimiters are
// balanced as they are produced: a stack of open (/[/{ tracks nesting, a
// mismatched closer or an EOF reached with the stack non-empty raises
// MismatchedClosingDelimiter (a mismatched closer also closes the innermost
// open group, so "(]" is reported once), and comments are dropped from any run nested
// inside an open delimiter group, matching spec.md §4.1's "recursively
// consumes tokens (filtering out comments) until the matching closer".
func (s *Scanner) Scan() []token.Token {
	var toks []token.Token
	var stack []token.Kind
	for {
		tok, ok := s.next()
		if !ok {
			continue // a recovered error: the bad span produced no token
		}

		if tok.Kind == token.EOF {
			if len(stack) > 0 {
				s.errorf(diag.MismatchedClosingDelimiter, s.here(),
					"unexpected end of file, expected closing delimiter for %d open group(s)", len(stack))
			}
			toks = append(toks, tok)
			break
		}

		switch {
		case tok.IsOpenDelimiter():
			stack = append(stack, tok.Kind)
		case tok.IsCloseDelimiter():
			if len(stack) == 0 || !token.Matches(stack[len(stack)-1], tok.Kind) {
				s.errorf(diag.MismatchedClosingDelimiter, s.here(),
					"mismatched closing delimiter %q", tok.Text)
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			} else {
				stack = stack[:len(stack)-1]
			}
		case tok.IsComment() && len(stack) > 0:
			continue // filtered out of nested delimiter runs
		}

		toks = append(toks, tok)
	}
	return toks
}

func (s *Scanner) skipSpaces() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.advance()
		default:
			return
		}
	}
}

// next scans and returns a single token. ok is false when the span
// produced a diagnostic and no recovery token should be appended (spec.md
// §4.1: "tokens with errors return a null recovery token").
func (s *Scanner) next() (token.Token, bool) {
	s.skipSpaces()
	if s.eof() {
		return token.Token{Kind: token.EOF, Location: source.Single(s.filename, s.here())}, true
	}

	start := s.here()
	b := s.peek()

	switch {
	case isMultilineStringStart(s):
		return s.scanMultilineString(start)
	case b == '"':
		return s.scanString(start, '"', false)
	case b == '\'':
		return s.scanChar(start)
	case b == '`':
		return s.scanOperatorIdent(start)
	case b == '@':
		return s.scanAt(start)
	case b == '$':
		return s.scanDollarIdent(start)
	case b == '/' && (s.peekAt(1) == '/' || s.peekAt(1) == '*'):
		return s.scanComment(start)
	case isDigit(b):
		return s.scanNumber(start)
	case isIdentStart(b):
		return s.scanIdentOrPrefixedLiteral(start)
	default:
		return s.scanPunct(start)
	}
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool   { return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') }
func isIdentStart(b byte) bool { return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isIdentCont(b byte) bool  { return isIdentStart(b) || isDigit(b) }
