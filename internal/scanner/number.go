package scanner

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/thelilylang/lily-sub004/internal/diag"
	"github.com/thelilylang/lily-sub004/internal/source"
	"github.com/thelilylang/lily-sub004/internal/token"
)

// scanNumber scans a decimal, hex (0x), octal (0o), or binary (0b) integer,
// or a float, and then applies any typed literal suffix (spec.md §4.1).
func (s *Scanner) scanNumber(start source.Position) (token.Token, bool) {
	if s.peek() == '0' && (lower(s.peekAt(1)) == 'x' || lower(s.peekAt(1)) == 'o' || lower(s.peekAt(1)) == 'b') {
		return s.scanPrefixedInt(start)
	}
	return s.scanDecimalOrFloat(start)
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func isBinDigit(b byte) bool { return b == '0' || b == '1' }
func isOctDigit(b byte) bool { return b >= '0' && b <= '7' }

func (s *Scanner) scanPrefixedInt(start source.Position) (token.Token, bool) {
	s.advance() // '0'
	baseChar := lower(s.advance())

	var base int
	var kind token.Kind
	var digitOK func(byte) bool
	var errKind diag.ErrorKind
	switch baseChar {
	case 'x':
		base, kind, digitOK, errKind = 16, token.LitIntHex, isHexDigit, diag.InvalidHexadecimalLiteral
	case 'o':
		base, kind, digitOK, errKind = 8, token.LitIntOct, isOctDigit, diag.InvalidOctalLiteral
	case 'b':
		base, kind, digitOK, errKind = 2, token.LitIntBin, isBinDigit, diag.InvalidBinLiteral
	}

	var sb strings.Builder
	for !s.eof() && (digitOK(s.peek()) || s.peek() == '_') {
		c := s.advance()
		if c != '_' {
			sb.WriteByte(c)
		}
	}
	body := stripLeadingZeros(sb.String())
	if sb.Len() == 0 {
		s.errorf(errKind, start, "empty numeric literal body")
		return token.Token{}, false
	}

	suffix, suffixErr := s.scanSuffix(start, false)
	if suffixErr {
		return token.Token{}, false
	}

	raw := ""
	if len(body) > 0 {
		raw = body
	} else {
		raw = "0"
	}
	return s.finishInt(start, raw, base, kind, suffix)
}

func stripLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

// scanDecimalOrFloat scans a bare decimal integer or a float (exactly one
// '.' not followed by another '.', or scientific notation with at most one
// 'e'/'E' — spec.md §4.1).
func (s *Scanner) scanDecimalOrFloat(start source.Position) (token.Token, bool) {
	var sb strings.Builder
	for !s.eof() && (isDigit(s.peek()) || s.peek() == '_') {
		c := s.advance()
		if c != '_' {
			sb.WriteByte(c)
		}
	}

	isFloat := false
	if s.peek() == '.' && s.peekAt(1) != '.' && isDigit(s.peekAt(1)) {
		isFloat = true
		sb.WriteByte(s.advance()) // '.'
		for !s.eof() && (isDigit(s.peek()) || s.peek() == '_') {
			c := s.advance()
			if c != '_' {
				sb.WriteByte(c)
			}
		}
	}

	if c := s.peek(); c == 'e' || c == 'E' {
		isFloat = true
		sb.WriteByte(s.advance())
		if s.peek() == '+' || s.peek() == '-' {
			sb.WriteByte(s.advance())
		}
		if !isDigit(s.peek()) {
			s.errorf(diag.InvalidFloatLiteral, start, "malformed exponent")
			return token.Token{}, false
		}
		for !s.eof() && isDigit(s.peek()) {
			sb.WriteByte(s.advance())
		}
	}

	suffix, suffixErr := s.scanSuffix(start, isFloat)
	if suffixErr {
		return token.Token{}, false
	}
	if suffix.IsFloat() {
		isFloat = true
	}

	if isFloat {
		f, err := strconv.ParseFloat(sb.String(), 64)
		if err != nil {
			s.errorf(diag.InvalidFloatLiteral, start, "invalid float literal %q", sb.String())
			return token.Token{}, false
		}
		tok := s.makeToken(token.LitFloat, start, sb.String())
		tok.Literal.Float = f
		tok.Literal.Suffix = suffix
		return tok, true
	}

	return s.finishInt(start, sb.String(), 10, token.LitIntDec, suffix)
}

// scanSuffix scans an optional typed literal suffix following an int/float
// body. bodyWasFloat marks that the literal already contains a '.' or
// exponent, which forbids an integer suffix (spec.md §4.1:
// "integer suffixes on a float literal produce InvalidLiteralSuffix").
func (s *Scanner) scanSuffix(start source.Position, bodyWasFloat bool) (token.IntegerSuffix, bool) {
	begin := s.pos
	if !isIdentStart(s.peek()) {
		return token.NoSuffix, false
	}
	for !s.eof() && isIdentCont(s.peek()) {
		s.advance()
	}
	word := string(s.src[begin:s.pos])

	suffix, ok := suffixTable[word]
	if !ok {
		s.pos = begin // not a suffix at all; rewind and let the next token start here
		s.col -= len(word)
		return token.NoSuffix, false
	}
	if bodyWasFloat && !suffix.IsFloat() {
		s.errorf(diag.InvalidLiteralSuffix, start, "integer suffix %q on a float literal", word)
		return token.NoSuffix, true
	}
	return suffix, false
}

var suffixTable = map[string]token.IntegerSuffix{
	"I8": token.SuffixI8, "I16": token.SuffixI16, "I32": token.SuffixI32, "I64": token.SuffixI64, "Iz": token.SuffixIz,
	"U8": token.SuffixU8, "U16": token.SuffixU16, "U32": token.SuffixU32, "U64": token.SuffixU64, "Uz": token.SuffixUz,
	"F32": token.SuffixF32, "F64": token.SuffixF64,
}

// finishInt parses raw in base and range-checks it against suffix, emitting
// the documented *OutOfRange diagnostic on overflow (spec.md §4.1, §8).
func (s *Scanner) finishInt(start source.Position, raw string, base int, kind token.Kind, suffix token.IntegerSuffix) (token.Token, bool) {
	if raw == "" {
		raw = "0"
	}

	bitSize, signed, errKind := suffixBounds(suffix)

	tok := s.makeToken(kind, start, raw)
	tok.Literal.Suffix = suffix

	if suffix == token.NoSuffix {
		u, err := strconv.ParseUint(raw, base, 64)
		if err != nil {
			s.errorf(diag.InvalidLiteralSuffix, start, "invalid numeric literal %q", raw)
			return token.Token{}, false
		}
		tok.Literal.Uint = u
		return tok, true
	}

	if signed {
		v, err := strconv.ParseInt(raw, base, bitSize)
		if err != nil {
			s.errorf(errKind, start, "%s%s out of range for %s", raw, suffix, suffix)
			return token.Token{}, false
		}
		tok.Literal.Int = v
		tok.Literal.HasSign = true
		return tok, true
	}

	v, err := strconv.ParseUint(raw, base, bitSize)
	if err != nil {
		s.errorf(errKind, start, "%s%s out of range for %s", raw, suffix, suffix)
		return token.Token{}, false
	}
	tok.Literal.Uint = v
	return tok, true
}

// suffixBounds returns the bit width, signedness, and *OutOfRange kind for
// an integer suffix. Isize/Usize use the host pointer width (bits.UintSize),
// matching spec.md §4.1's "Isize/Usize dependent on target pointer width".
func suffixBounds(suffix token.IntegerSuffix) (bitSize int, signed bool, kind diag.ErrorKind) {
	switch suffix {
	case token.SuffixI8:
		return 8, true, diag.Int8OutOfRange
	case token.SuffixI16:
		return 16, true, diag.Int16OutOfRange
	case token.SuffixI32:
		return 32, true, diag.Int32OutOfRange
	case token.SuffixI64:
		return 64, true, diag.Int64OutOfRange
	case token.SuffixIz:
		return bits.UintSize, true, diag.IsizeOutOfRange
	case token.SuffixU8:
		return 8, false, diag.UInt8OutOfRange
	case token.SuffixU16:
		return 16, false, diag.UInt16OutOfRange
	case token.SuffixU32:
		return 32, false, diag.UInt32OutOfRange
	case token.SuffixU64:
		return 64, false, diag.UInt64OutOfRange
	case token.SuffixUz:
		return bits.UintSize, false, diag.UsizeOutOfRange
	default:
		return 64, false, diag.InvalidLiteralSuffix
	}
}
