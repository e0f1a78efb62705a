package parser

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/sandrolain/jmesq/pkg/types"
)

const eof = -1

// Lexer converts a selector expression into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique.
type Lexer struct {
	input      string // Input string being scanned
	length     int    // Length of input string
	start      int    // Start position of current token
	current    int    // Current position in input
	width      int    // Width of last rune read
	rawEscapes bool   // Honor \' and \\ inside raw strings
	err        *types.SyntaxError
}

// NewLexer creates a new lexer from the provided input string.
func NewLexer(input string, rawEscapes bool) *Lexer {
	return &Lexer{
		input:      input,
		length:     len(input),
		rawEscapes: rawEscapes,
	}
}

// Tokenize scans the whole input and returns the token sequence,
// terminated by an EOF sentinel token. The first lexical error aborts
// the scan.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		t := l.Next()
		if t.Type == TokenError {
			return nil, l.err
		}
		tokens = append(tokens, t)
		if t.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// Next returns the next token from the input. When the end of the input is
// reached, Next returns TokenEOF for all subsequent calls.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	ch := l.nextRune()
	if ch == eof {
		return Token{Type: TokenEOF, Offset: l.current}
	}

	switch ch {
	case '.':
		return l.newToken(TokenDot)
	case ',':
		return l.newToken(TokenComma)
	case '?':
		return l.newToken(TokenQuestion)
	case '*':
		return l.newToken(TokenStar)
	case '@':
		return l.newToken(TokenCurrent)
	case '(':
		return l.newToken(TokenLParen)
	case ')':
		return l.newToken(TokenRParen)
	case '{':
		return l.newToken(TokenLBrace)
	case '}':
		return l.newToken(TokenRBrace)
	case ']':
		return l.newToken(TokenRBracket)
	case '[':
		// One extra character of lookahead classifies the bracket; the
		// parser later disambiguates a plain bracket by its contents.
		if l.acceptRune('?') {
			return l.newToken(TokenFilter)
		}
		if l.acceptRune(']') {
			return l.newToken(TokenFlatten)
		}
		return l.newToken(TokenLBracket)
	case ':':
		if l.acceptRune('=') {
			return l.newToken(TokenAssign)
		}
		return l.newToken(TokenColon)
	case '|':
		if l.acceptRune('|') {
			return l.newToken(TokenOr)
		}
		return l.newToken(TokenPipe)
	case '&':
		if l.acceptRune('&') {
			return l.newToken(TokenAnd)
		}
		return l.newToken(TokenAmpersand)
	case '!':
		if l.acceptRune('=') {
			return l.newToken(TokenNE)
		}
		return l.newToken(TokenNot)
	case '<':
		if l.acceptRune('=') {
			return l.newToken(TokenLTE)
		}
		return l.newToken(TokenLT)
	case '>':
		if l.acceptRune('=') {
			return l.newToken(TokenGTE)
		}
		return l.newToken(TokenGT)
	case '=':
		if l.acceptRune('=') {
			return l.newToken(TokenEQ)
		}
		return l.error(types.ErrUnexpectedChar, "'=' is not an operator, use '=='")
	case '/':
		if l.acceptRune('/') {
			return l.newToken(TokenIntDivide)
		}
		return l.newToken(TokenDivide)
	case '%':
		return l.newToken(TokenModulo)
	case '+':
		return l.newToken(TokenPlus)
	case '-':
		if isDigit(l.peekRune()) {
			l.backup()
			return l.scanNumber()
		}
		return l.newToken(TokenMinus)
	case '$':
		if isIdentStart(l.peekRune()) {
			return l.scanVariable()
		}
		return l.newToken(TokenRoot)
	case '\'':
		return l.scanRawString()
	case '"':
		return l.scanQuotedString()
	case '`':
		return l.scanJSONLiteral()
	}

	if isDigit(ch) {
		l.backup()
		return l.scanNumber()
	}
	if isIdentStart(ch) {
		l.backup()
		return l.scanIdentifier()
	}

	return l.error(types.ErrUnexpectedChar, "unexpected character "+strconv.QuoteRune(ch))
}

// scanNumber reads a number literal: an optional leading minus, an integer
// part of `0` or `[1-9][0-9]*`, a fraction only when the dot is followed by
// a digit (so `1.foo` tokenizes as NUMBER DOT IDENTIFIER), and an optional
// exponent that must carry at least one digit.
func (l *Lexer) scanNumber() Token {
	l.acceptRune('-')

	if !l.acceptRune('0') {
		if !l.accept(isNonZeroDigit) {
			return l.error(types.ErrInvalidToken, "expected digit after '-'")
		}
		l.acceptAll(isDigit)
	}

	if l.peekRune() == '.' {
		save := l.current
		l.nextRune()
		if !l.acceptAll(isDigit) {
			// The dot is not part of the number; it starts a field access.
			l.current = save
		}
	}

	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigit) {
			return l.error(types.ErrInvalidToken, "malformed exponent")
		}
	}

	t := l.newToken(TokenNumber)
	f, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return l.error(types.ErrInvalidToken, "malformed number "+strconv.Quote(t.Text))
	}
	t.Value = f
	return t
}

// scanRawString reads a raw string literal. The opening quote has been
// consumed. Only \' and \\ are escapes; any other backslash sequence
// passes through verbatim. Escape handling can be disabled entirely via
// CompileOptions.
func (l *Lexer) scanRawString() Token {
	var sb strings.Builder
	for {
		switch r := l.nextRune(); r {
		case '\'':
			t := l.newToken(TokenRawString)
			t.Value = sb.String()
			return t
		case '\\':
			if !l.rawEscapes {
				sb.WriteRune('\\')
				continue
			}
			switch n := l.nextRune(); n {
			case '\'', '\\':
				sb.WriteRune(n)
			case eof:
				return l.errorExpect(types.ErrUnterminatedToken, "unterminated raw string", "'")
			default:
				sb.WriteRune('\\')
				sb.WriteRune(n)
			}
		case eof:
			return l.errorExpect(types.ErrUnterminatedToken, "unterminated raw string", "'")
		default:
			sb.WriteRune(r)
		}
	}
}

// scanQuotedString reads a quoted string. The opening quote has been
// consumed. The standard JSON escape set is supported plus \` for a
// backtick; an unescaped backtick inside the string is an error.
func (l *Lexer) scanQuotedString() Token {
	var sb strings.Builder
	for {
		switch r := l.nextRune(); r {
		case '"':
			t := l.newToken(TokenQuoted)
			t.Value = sb.String()
			return t
		case '`':
			return l.errorAt(l.current-1, types.ErrInvalidToken, "unescaped '`' in quoted string")
		case '\\':
			escPos := l.current - 1
			switch n := l.nextRune(); n {
			case '"', '\\', '/', '`':
				sb.WriteRune(n)
			case 'b':
				sb.WriteRune('\b')
			case 'f':
				sb.WriteRune('\f')
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case 't':
				sb.WriteRune('\t')
			case 'u':
				r, ok := l.scanUnicodeEscape()
				if !ok {
					return l.errorAt(escPos, types.ErrInvalidToken, `\u requires exactly four hex digits`)
				}
				sb.WriteRune(r)
			case eof:
				return l.errorExpect(types.ErrUnterminatedToken, "unterminated string", `"`)
			default:
				return l.errorAt(escPos, types.ErrInvalidToken, "invalid escape sequence '\\"+string(n)+"'")
			}
		case eof:
			return l.errorExpect(types.ErrUnterminatedToken, "unterminated string", `"`)
		default:
			sb.WriteRune(r)
		}
	}
}

// scanUnicodeEscape reads the four hex digits of a \uXXXX escape, joining
// a surrogate pair with a following \uXXXX when present.
func (l *Lexer) scanUnicodeEscape() (rune, bool) {
	r1, ok := l.readHex4()
	if !ok {
		return 0, false
	}
	if !utf16.IsSurrogate(r1) {
		return r1, true
	}
	if l.acceptRune('\\') {
		if l.acceptRune('u') {
			r2, ok := l.readHex4()
			if !ok {
				return 0, false
			}
			if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
				return r, true
			}
			return utf8.RuneError, true
		}
		l.backup()
	}
	return utf8.RuneError, true
}

func (l *Lexer) readHex4() (rune, bool) {
	var v rune
	for i := 0; i < 4; i++ {
		r := l.nextRune()
		switch {
		case r >= '0' && r <= '9':
			v = v<<4 | (r - '0')
		case r >= 'a' && r <= 'f':
			v = v<<4 | (r - 'a' + 10)
		case r >= 'A' && r <= 'F':
			v = v<<4 | (r - 'A' + 10)
		default:
			return 0, false
		}
	}
	return v, true
}

// scanJSONLiteral reads a backtick literal. The opening backtick has been
// consumed. The raw inner text, trimmed of surrounding whitespace, is
// stored as the token value; the parser decides how to interpret it as
// JSON.
func (l *Lexer) scanJSONLiteral() Token {
	var sb strings.Builder
	for {
		switch r := l.nextRune(); r {
		case '`':
			t := l.newToken(TokenJSONLiteral)
			t.Value = strings.TrimSpace(sb.String())
			return t
		case '\\':
			switch n := l.nextRune(); n {
			case '`':
				sb.WriteRune('`')
			case eof:
				return l.errorExpect(types.ErrUnterminatedToken, "unterminated literal", "`")
			default:
				sb.WriteRune('\\')
				sb.WriteRune(n)
			}
		case eof:
			return l.errorExpect(types.ErrUnterminatedToken, "unterminated literal", "`")
		default:
			sb.WriteRune(r)
		}
	}
}

// scanIdentifier reads a name. The literal texts true, false and null are
// reclassified to their keyword kinds on an exact whole-token match only.
func (l *Lexer) scanIdentifier() Token {
	l.accept(isIdentStart)
	l.acceptAll(isIdentPart)

	t := l.newToken(TokenIdentifier)
	switch t.Text {
	case "true":
		t.Type, t.Value = TokenTrue, true
	case "false":
		t.Type, t.Value = TokenFalse, false
	case "null":
		t.Type = TokenNull
	default:
		t.Value = t.Text
	}
	return t
}

// scanVariable reads a $name variable reference. The dollar sign has been
// consumed.
func (l *Lexer) scanVariable() Token {
	l.accept(isIdentStart)
	l.acceptAll(isIdentPart)

	t := l.newToken(TokenVariable)
	t.Value = t.Text[1:] // strip the leading $
	return t
}

// Helper methods

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:   tt,
		Text:   l.input[l.start:l.current],
		Offset: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	return l.errorAt(l.start, code, message)
}

func (l *Lexer) errorAt(offset int, code types.ErrorCode, message string) Token {
	l.err = types.NewSyntaxError(code, message, l.input, offset)
	return Token{Type: TokenError, Offset: offset}
}

func (l *Lexer) errorExpect(code types.ErrorCode, message, expected string) Token {
	t := l.errorAt(l.start, code, message)
	l.err.WithExpected(expected)
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peekRune() rune {
	if l.err != nil || l.current >= l.length {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.current:])
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
	l.width = 0
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

func (l *Lexer) skipWhitespace() {
	l.acceptAll(isWhitespace)
	l.start = l.current
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNonZeroDigit(r rune) bool {
	return r >= '1' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
