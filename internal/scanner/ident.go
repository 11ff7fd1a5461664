package scanner

import (
	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/source"
	"github.com/thelilylang/lily-sub004/internal/token"
)

func (s *Scanner) makeToken(kind token.Kind, start source.Position, text string) token.Token {
	return token.Token{Kind: kind, Location: source.Span(s.filename, start, s.here()), Text: text}
}

// scanIdentOrPrefixedLiteral scans a bare word and decides whether it is a
// byte/bytes/cstr literal prefix (b'..', b"..", c"..") a keyword, or a plain
// identifier (spec.md §4.1).
func (s *Scanner) scanIdentOrPrefixedLiteral(start source.Position) (token.Token, bool) {
	first := s.peek()
	if first == 'b' && s.peekAt(1) == '\'' {
		s.advance() // consume 'b'
		return s.scanCharLiteral(start, true)
	}
	if first == 'b' && s.peekAt(1) == '"' {
		s.advance()
		return s.scanString(start, '"', true)
	}
	if first == 'c' && s.peekAt(1) == '"' {
		s.advance()
		tok, ok := s.scanString(start, '"', false)
		if ok {
			tok.Kind = token.LitCstr
		}
		return tok, ok
	}

	begin := s.pos
	for !s.eof() && isIdentCont(s.peek()) {
		s.advance()
	}
	word := string(s.src[begin:s.pos])

	if kind, ok := token.LookupKeyword(word); ok {
		return s.makeToken(kind, start, word), true
	}
	return s.makeToken(token.IdentNormal, start, word), true
}

// scanDollarIdent scans a $foo identifier.
func (s *Scanner) scanDollarIdent(start source.Position) (token.Token, bool) {
	s.advance() // '$'
	begin := s.pos
	for !s.eof() && isIdentCont(s.peek()) {
		s.advance()
	}
	word := "$" + string(s.src[begin:s.pos])
	return s.makeToken(token.IdentDollar, start, word), true
}

// scanOperatorIdent scans a `foo` backtick-quoted operator identifier.
func (s *Scanner) scanOperatorIdent(start source.Position) (token.Token, bool) {
	s.advance() // opening backtick
	begin := s.pos
	for !s.eof() && s.peek() != '`' {
		s.advance()
	}
	if s.eof() {
		s.errorf(diag.UnclosedStringLiteral, start, "unclosed operator identifier")
		return token.Token{}, false
	}
	word := string(s.src[begin:s.pos])
	s.advance() // closing backtick
	return s.makeToken(token.IdentOperator, start, word), true
}

// scanAt scans @keyword, @builtin-class keywords, or a @"..." identifier
// string (spec.md §4.1).
func (s *Scanner) scanAt(start source.Position) (token.Token, bool) {
	s.advance() // '@'

	if s.peek() == '"' {
		tok, ok := s.scanString(start, '"', false)
		if !ok {
			return tok, ok
		}
		tok.Kind = token.IdentString
		if err := validateIdentifierString(tok.Literal.Str); err != "" {
			s.errorf(diag.RestrictedCharacterOnIdentifierString, start, "%s", err)
			return token.Token{}, false
		}
		return tok, true
	}

	begin := s.pos
	for !s.eof() && isIdentCont(s.peek()) {
		s.advance()
	}
	word := string(s.src[begin:s.pos])

	kind, ok := token.LookupAtKeyword(word)
	if !ok {
		s.errorf(diag.UnexpectedCharacter, start, "unknown @-keyword %q", word)
		return token.Token{}, false
	}

	tok := s.makeToken(kind, start, "@"+word)
	switch kind {
	case token.AtBuiltin, token.AtCc, token.AtCpp, token.AtSys:
		s.skipSpaces()
		if s.peek() == '(' {
			s.advance()
			s.skipSpaces()
			opBegin := s.pos
			for !s.eof() && s.peek() != ')' {
				s.advance()
			}
			operand := string(s.src[opBegin:s.pos])
			if !s.eof() {
				s.advance() // ')'
			}
			tok.At = token.AtOperand{Present: true, Value: trimQuotes(operand)}
		} else if s.peek() == '"' {
			opStart := s.here()
			opTok, ok := s.scanString(opStart, '"', false)
			if ok {
				tok.At = token.AtOperand{Present: true, Value: opTok.Literal.Str}
			}
		}
		tok.Location = source.Span(s.filename, start, s.here())
	}
	return tok, true
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// validateIdentifierString enforces spec.md §4.1: @"..." names must not
// contain '.', '$', or non-ASCII bytes.
func validateIdentifierString(s string) string {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == '.' || b == '$' || b >= 0x80 {
			return "identifier string contains a restricted character"
		}
	}
	return ""
}
