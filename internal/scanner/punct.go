package scanner

import (
	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/source"
	"github.com/thelilylang/lily-sub004/internal/token"
)

// scanPunct scans a single- or multi-character punctuation token, always
// preferring the longest match (spec.md §4.1 examples: ==, .., ...,
// >>=, <<=, ++=, --=, **=).
func (s *Scanner) scanPunct(start source.Position) (token.Token, bool) {
	c := s.advance()

	three := func(a, b byte, k3 token.Kind) (token.Kind, bool) {
		if s.peek() == a && s.peekAt(1) == b {
			s.advance()
			s.advance()
			return k3, true
		}
		return token.Invalid, false
	}

	switch c {
	case '(':
		return s.makeToken(token.LParen, start, "("), true
	case ')':
		return s.makeToken(token.RParen, start, ")"), true
	case '[':
		return s.makeToken(token.LBracket, start, "["), true
	case ']':
		return s.makeToken(token.RBracket, start, "]"), true
	case '{':
		if s.peek() == '|' {
			return s.scanMacroForm(start)
		}
		return s.makeToken(token.LBrace, start, "{"), true
	case '}':
		return s.makeToken(token.RBrace, start, "}"), true
	case ',':
		return s.makeToken(token.Comma, start, ","), true
	case ';':
		return s.makeToken(token.Semicolon, start, ";"), true
	case ':':
		return s.makeToken(token.Colon, start, ":"), true
	case '?':
		return s.makeToken(token.Question, start, "?"), true
	case '~':
		return s.makeToken(token.Tilde, start, "~"), true

	case '.':
		if k, ok := three('.', '.', token.DotDotDot); ok {
			return s.makeToken(k, start, "..."), true
		}
		if s.match('.') {
			return s.makeToken(token.DotDot, start, ".."), true
		}
		return s.makeToken(token.Dot, start, "."), true

	case '+':
		if k, ok := three('+', '=', token.PlusPlusEq); ok {
			return s.makeToken(k, start, "++="), true
		}
		if s.match('+') {
			return s.makeToken(token.PlusPlus, start, "++"), true
		}
		if s.match('=') {
			return s.makeToken(token.PlusEq, start, "+="), true
		}
		return s.makeToken(token.Plus, start, "+"), true

	case '-':
		if k, ok := three('-', '=', token.MinusMinusEq); ok {
			return s.makeToken(k, start, "--="), true
		}
		if s.match('-') {
			return s.makeToken(token.MinusMinus, start, "--"), true
		}
		if s.match('=') {
			return s.makeToken(token.MinusEq, start, "-="), true
		}
		if s.match('>') {
			return s.makeToken(token.Arrow, start, "->"), true
		}
		return s.makeToken(token.Minus, start, "-"), true

	case '*':
		if k, ok := three('*', '=', token.StarStarEq); ok {
			return s.makeToken(k, start, "**="), true
		}
		if s.match('*') {
			return s.makeToken(token.StarStar, start, "**"), true
		}
		if s.match('=') {
			return s.makeToken(token.StarEq, start, "*="), true
		}
		return s.makeToken(token.Star, start, "*"), true

	case '/':
		if s.match('=') {
			return s.makeToken(token.SlashEq, start, "/="), true
		}
		return s.makeToken(token.Slash, start, "/"), true

	case '%':
		if s.match('=') {
			return s.makeToken(token.PercentEq, start, "%="), true
		}
		return s.makeToken(token.Percent, start, "%"), true

	case '&':
		if s.match('&') {
			return s.makeToken(token.AmpAmp, start, "&&"), true
		}
		if s.match('=') {
			return s.makeToken(token.AmpEq, start, "&="), true
		}
		return s.makeToken(token.Amp, start, "&"), true

	case '|':
		if s.peek() == '|' {
			s.advance()
			return s.makeToken(token.PipePipe, start, "||"), true
		}
		if s.match('=') {
			return s.makeToken(token.PipeEq, start, "|="), true
		}
		return s.makeToken(token.Pipe, start, "|"), true

	case '^':
		if s.match('=') {
			return s.makeToken(token.CaretEq, start, "^="), true
		}
		return s.makeToken(token.Caret, start, "^"), true

	case '!':
		if s.match('=') {
			return s.makeToken(token.BangEq, start, "!="), true
		}
		return s.makeToken(token.Bang, start, "!"), true

	case '=':
		if s.match('=') {
			return s.makeToken(token.EqEq, start, "=="), true
		}
		if s.match('>') {
			return s.makeToken(token.FatArrow, start, "=>"), true
		}
		return s.makeToken(token.Eq, start, "="), true

	case '<':
		if k, ok := three('<', '=', token.LtLtEq); ok {
			return s.makeToken(k, start, "<<="), true
		}
		if s.match('<') {
			return s.makeToken(token.LtLt, start, "<<"), true
		}
		if s.match('=') {
			return s.makeToken(token.LtEq, start, "<="), true
		}
		return s.makeToken(token.Lt, start, "<"), true

	case '>':
		if k, ok := three('>', '=', token.GtGtEq); ok {
			return s.makeToken(k, start, ">>="), true
		}
		if s.match('>') {
			return s.makeToken(token.GtGt, start, ">>"), true
		}
		if s.match('=') {
			return s.makeToken(token.GtEq, start, ">="), true
		}
		return s.makeToken(token.Gt, start, ">"), true

	default:
		s.errorf(diag.UnexpectedCharacter, start, "unexpected character %q", rune(c))
		return token.Token{}, false
	}
}

// scanMacroForm scans the distinct {|ident|} token (spec.md §4.1).
func (s *Scanner) scanMacroForm(start source.Position) (token.Token, bool) {
	s.advance() // '|'
	begin := s.pos
	for !s.eof() && isIdentCont(s.peek()) {
		s.advance()
	}
	name := string(s.src[begin:s.pos])
	if s.peek() != '|' || s.peekAt(1) != '}' {
		s.errorf(diag.ExpectedOneOrManyCharacters, start, "malformed macro form, expected {|%s|}", name)
		return token.Token{}, false
	}
	s.advance() // '|'
	s.advance() // '}'
	return s.makeToken(token.IdentMacro, start, "{|"+name+"|}"), true
}
