package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals and names
	TokenNumber      // 123, -3.14, 1e-10
	TokenRawString   // 'raw string'
	TokenQuoted      // "quoted identifier"
	TokenJSONLiteral // `{"a": 1}`
	TokenIdentifier  // fieldName
	TokenTrue        // true
	TokenFalse       // false
	TokenNull        // null
	TokenVariable    // $name

	// Context references
	TokenCurrent // @
	TokenRoot    // $

	// Grouping symbols
	TokenLParen   // (
	TokenRParen   // )
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenFilter   // [?
	TokenFlatten  // []

	// Basic symbols
	TokenDot      // .
	TokenComma    // ,
	TokenColon    // :
	TokenQuestion // ?
	TokenStar     // *

	// Operators
	TokenPipe      // |
	TokenOr        // ||
	TokenAnd       // &&
	TokenAmpersand // &
	TokenNot       // !
	TokenEQ        // ==
	TokenNE        // !=
	TokenLT        // <
	TokenLTE       // <=
	TokenGT        // >
	TokenGTE       // >=
	TokenAssign    // :=
	TokenPlus      // +
	TokenMinus     // -
	TokenDivide    // /
	TokenIntDivide // //
	TokenModulo    // %
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenNumber:
		return "(number)"
	case TokenRawString:
		return "(raw string)"
	case TokenQuoted:
		return "(quoted string)"
	case TokenJSONLiteral:
		return "(literal)"
	case TokenIdentifier:
		return "(identifier)"
	case TokenTrue:
		return "true"
	case TokenFalse:
		return "false"
	case TokenNull:
		return "null"
	case TokenVariable:
		return "(variable)"
	case TokenCurrent:
		return "@"
	case TokenRoot:
		return "$"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenFilter:
		return "[?"
	case TokenFlatten:
		return "[]"
	case TokenDot:
		return "."
	case TokenComma:
		return ","
	case TokenColon:
		return ":"
	case TokenQuestion:
		return "?"
	case TokenStar:
		return "*"
	case TokenPipe:
		return "|"
	case TokenOr:
		return "||"
	case TokenAnd:
		return "&&"
	case TokenAmpersand:
		return "&"
	case TokenNot:
		return "!"
	case TokenEQ:
		return "=="
	case TokenNE:
		return "!="
	case TokenLT:
		return "<"
	case TokenLTE:
		return "<="
	case TokenGT:
		return ">"
	case TokenGTE:
		return ">="
	case TokenAssign:
		return ":="
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenDivide:
		return "/"
	case TokenIntDivide:
		return "//"
	case TokenModulo:
		return "%"
	default:
		return "(unknown)"
	}
}

// Token is a single lexical token. Tokens are immutable and produced once
// per parse; Offset is the byte position of the token's first character
// and is used for all diagnostics.
type Token struct {
	Type   TokenType
	Text   string
	Value  any // decoded value for literal and identifier kinds
	Offset int
}
