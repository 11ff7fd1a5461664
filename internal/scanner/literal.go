package scanner

import (
	"strings"

	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/source"
	"github.com/thelilylang/lily-sub004/internal/token"
)

// scanEscape consumes a backslash escape and returns its decoded byte and
// whether it was valid (spec.md §4.1: \n \t \r \b \\ \' \").
func (s *Scanner) scanEscape(start source.Position) (byte, bool) {
	c := s.advance()
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case 'b':
		return '\b', true
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	default:
		s.errorf(diag.InvalidEscape, start, "invalid escape sequence '\\%c'", c)
		return 0, false
	}
}

// scanString scans a "..." literal. isBytes selects the `bytes` token kind
// over `str`.
func (s *Scanner) scanString(start source.Position, quote byte, isBytes bool) (token.Token, bool) {
	s.advance() // opening quote
	var sb strings.Builder
	ok := true
	for {
		if s.eof() {
			s.errorf(diag.UnclosedStringLiteral, start, "unclosed string literal")
			return token.Token{}, false
		}
		c := s.peek()
		if c == quote {
			s.advance()
			break
		}
		if c == '\n' {
			s.errorf(diag.UnclosedStringLiteral, start, "unclosed string literal")
			return token.Token{}, false
		}
		if c == '\\' {
			escStart := s.here()
			s.advance()
			b, escOK := s.scanEscape(escStart)
			if !escOK {
				ok = false
				continue
			}
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte(s.advance())
	}
	if !ok {
		return token.Token{}, false
	}

	kind := token.LitStr
	if isBytes {
		kind = token.LitBytes
	}
	tok := s.makeToken(kind, start, sb.String())
	tok.Literal.Str = sb.String()
	return tok, true
}

// isMultilineStringStart reports whether the cursor sits at the start of a
// multi-line string: a physical line whose first non-space byte is '\'
// immediately followed by more text on the same line (spec.md §4.1).
func isMultilineStringStart(s *Scanner) bool {
	if s.peek() != '\\' {
		return false
	}
	// Only a line-start backslash introduces a multi-line string; a
	// mid-expression backslash is not a valid token start at all and falls
	// through to scanPunct's UnexpectedCharacter handling.
	return s.col == 1 || onlySpacesSincePos(s)
}

func onlySpacesSincePos(s *Scanner) bool {
	i := s.pos - 1
	for i >= 0 && s.src[i] != '\n' {
		if s.src[i] != ' ' && s.src[i] != '\t' {
			return false
		}
		i--
	}
	return true
}

// scanMultilineString joins consecutive backslash-prefixed lines with '\n'
// (spec.md §4.1; for example,
// "\\hello\n\\world" scans to the single string "hello\nworld").
func (s *Scanner) scanMultilineString(start source.Position) (token.Token, bool) {
	var parts []string
	for isMultilineStringStart(s) {
		s.advance() // leading '\'
		begin := s.pos
		for !s.eof() && s.peek() != '\n' {
			s.advance()
		}
		parts = append(parts, string(s.src[begin:s.pos]))
		if !s.eof() {
			s.advance() // consume the real newline joining the lines
		}
		s.skipBlankLineWhitespace()
	}
	value := strings.Join(parts, "\n")
	tok := s.makeToken(token.LitStr, start, value)
	tok.Literal.Str = value
	return tok, true
}

// skipBlankLineWhitespace skips leading spaces/tabs on the line the cursor
// now sits on, so the next isMultilineStringStart check sees the '\' if one
// immediately follows indentation.
func (s *Scanner) skipBlankLineWhitespace() {
	for !s.eof() && (s.peek() == ' ' || s.peek() == '\t') {
		s.advance()
	}
}

// scanChar scans a 'c' literal. Callers that already consumed a leading
// 'b' (byte literal, b'c') call scanCharLiteral with isByte=true to get a
// LitByte token instead.
func (s *Scanner) scanChar(start source.Position) (token.Token, bool) {
	return s.scanCharLiteral(start, false)
}

func (s *Scanner) scanCharLiteral(start source.Position, isByte bool) (token.Token, bool) {
	s.advance() // opening quote
	if s.eof() {
		s.errorf(diag.UnclosedCharLiteral, start, "unclosed char literal")
		return token.Token{}, false
	}

	var value byte
	if s.peek() == '\\' {
		escStart := s.here()
		s.advance()
		b, ok := s.scanEscape(escStart)
		if !ok {
			return token.Token{}, false
		}
		value = b
	} else {
		value = s.advance()
	}

	if s.eof() || s.peek() != '\'' {
		s.errorf(diag.UnclosedCharLiteral, start, "unclosed char literal")
		return token.Token{}, false
	}
	s.advance() // closing quote

	kind := token.LitChar
	if isByte {
		kind = token.LitByte
	}
	tok := s.makeToken(kind, start, string(rune(value)))
	tok.Literal.Char = rune(value)
	return tok, true
}

// scanComment scans // line, /* */ block, /// doc, and /*-- */ debug
// comments. A bare "/--" is not a comment: it scans as Slash, MinusMinus.
func (s *Scanner) scanComment(start source.Position) (token.Token, bool) {
	s.advance() // first '/'
	if s.peek() == '/' {
		s.advance()
		kind := token.CommentLine
		if s.peek() == '/' {
			s.advance()
			kind = token.CommentDoc
		}
		begin := s.pos
		for !s.eof() && s.peek() != '\n' {
			s.advance()
		}
		return s.makeToken(kind, start, string(s.src[begin:s.pos])), true
	}

	// Block comment: '/*' ... '*/'; a body starting with "--" ('/*--' ...
	// '*/') makes it a debug comment.
	s.advance() // '*'
	kind := token.CommentBlock
	if s.peek() == '-' && s.peekAt(1) == '-' {
		kind = token.CommentDebug
	}
	begin := s.pos
	for {
		if s.eof() {
			s.errorf(diag.UnclosedCommentBlock, start, "unclosed block comment")
			return token.Token{}, false
		}
		if s.peek() == '*' && s.peekAt(1) == '/' {
			text := string(s.src[begin:s.pos])
			s.advance()
			s.advance()
			return s.makeToken(kind, start, text), true
		}
		s.advance()
	}
}
