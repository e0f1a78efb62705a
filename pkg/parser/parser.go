// Package parser implements the selector-language compiler.
//
// The parser uses a hand-written recursive descent approach with Pratt's
// "Top Down Operator Precedence" algorithm: parseExpression computes a
// left operand via a prefix production, then applies infix productions
// while the next token's binding power exceeds the caller's right binding
// power. Projections ([*], .*, filters, slices, flatten) pull trailing
// postfix operators into a sub-expression rooted at an implicit current
// element; the continuation is parsed before the projection node is
// constructed, so nodes are never mutated after construction.
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/sandrolain/jmesq/pkg/types"
)

// Operator precedence table (binding power).
// Higher values bind more tightly.
var bindingPower = map[TokenType]int{
	TokenPipe:      1,
	TokenQuestion:  2, // ternary
	TokenOr:        3,
	TokenAnd:       4,
	TokenEQ:        7,
	TokenNE:        7,
	TokenLT:        7,
	TokenLTE:       7,
	TokenGT:        7,
	TokenGTE:       7,
	TokenPlus:      8,
	TokenMinus:     8,
	TokenStar:      9, // multiplication in infix position
	TokenDivide:    9,
	TokenIntDivide: 9,
	TokenModulo:    9,
	TokenFlatten:   9,
	TokenFilter:    21,
	TokenDot:       40,
	TokenLBracket:  55,
}

const (
	// bpProjection is the threshold at or above which a postfix operator
	// continues inside an open projection rather than terminating it.
	bpProjection = 10
	// Continuation right binding powers per projection kind.
	bpStarProjection    = 20
	bpFilterProjection  = 21
	bpFlattenProjection = 9
	// bpUnary is the binding power of prefix ! and unary arithmetic.
	bpUnary = 45
)

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// StrictJSONLiterals makes invalid JSON inside backtick literals a
	// syntax error. When false (the default) the literal falls back to a
	// bare string value.
	StrictJSONLiterals bool
	// RawStringEscapes controls whether \' and \\ are honored inside raw
	// strings. Enabled by default.
	RawStringEscapes bool
	// MaxDepth limits expression nesting depth.
	MaxDepth int
}

// WithStrictJSONLiterals makes malformed backtick literals a hard error.
func WithStrictJSONLiterals(strict bool) CompileOption {
	return func(opts *CompileOptions) {
		opts.StrictJSONLiterals = strict
	}
}

// WithRawStringEscapes controls backslash handling inside raw strings.
func WithRawStringEscapes(enable bool) CompileOption {
	return func(opts *CompileOptions) {
		opts.RawStringEscapes = enable
	}
}

// WithMaxDepth sets the maximum expression nesting depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}

// Parse parses a selector expression and returns the compiled Expression.
func Parse(selector string, opts ...CompileOption) (*types.Expression, error) {
	p, err := NewParser(selector, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// Compile is an alias for Parse, provided for API consistency.
func Compile(selector string, opts ...CompileOption) (*types.Expression, error) {
	return Parse(selector, opts...)
}

// Parser builds an AST from the token sequence of one selector.
type Parser struct {
	source string
	tokens []Token
	pos    int
	depth  int
	opts   CompileOptions
}

// NewParser tokenizes the input and prepares a parser over it.
func NewParser(selector string, opts ...CompileOption) (*Parser, error) {
	options := CompileOptions{
		RawStringEscapes: true,
		MaxDepth:         100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	tokens, err := NewLexer(selector, options.RawStringEscapes).Tokenize()
	if err != nil {
		return nil, err
	}

	return &Parser{
		source: selector,
		tokens: tokens,
		opts:   options,
	}, nil
}

// Parse parses the entire expression and asserts that EOF follows.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.peek().Type == TokenEOF {
		return nil, p.errorf(types.ErrUnexpectedEOF, "empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.Type != TokenEOF {
		return nil, p.errorf(types.ErrUnexpectedToken, "unexpected token after expression")
	}

	return types.NewExpression(node, p.source), nil
}

// Token cursor

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF sentinel
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if t.Type != TokenEOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tt TokenType, context string) (Token, error) {
	t := p.peek()
	if t.Type != tt {
		code := types.ErrUnexpectedToken
		if t.Type == TokenEOF {
			code = types.ErrUnexpectedEOF
		}
		err := p.errorf(code, "unexpected %s in %s", t.Type, context)
		err.WithExpected(tt.String())
		return t, err
	}
	return p.advance(), nil
}

func (p *Parser) errorf(code types.ErrorCode, format string, args ...any) *types.SyntaxError {
	t := p.peek()
	err := types.NewSyntaxError(code, fmt.Sprintf(format, args...), p.source, t.Offset)
	err.WithToken(t.Text)
	return err
}

func (p *Parser) getBP(tt TokenType) int {
	return bindingPower[tt]
}

// parseExpression parses an expression with right binding power rbp:
// prefix first, then infix productions while the next token binds tighter.
func (p *Parser) parseExpression(rbp int) (types.Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxDepth {
		return nil, p.errorf(types.ErrInvalidToken, "expression exceeds maximum nesting depth %d", p.opts.MaxDepth)
	}

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	return p.parseInfixLoop(left, rbp)
}

func (p *Parser) parseInfixLoop(left types.Node, rbp int) (types.Node, error) {
	var err error
	for rbp < p.getBP(p.peek().Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parsePrefix parses a prefix or primary expression (nud).
func (p *Parser) parsePrefix() (types.Node, error) {
	t := p.peek()

	switch t.Type {
	case TokenNumber:
		p.advance()
		return &types.Literal{Position: t.Offset, Value: t.Value}, nil
	case TokenRawString:
		p.advance()
		return &types.Literal{Position: t.Offset, Value: t.Value}, nil
	case TokenTrue, TokenFalse:
		p.advance()
		return &types.Literal{Position: t.Offset, Value: t.Value}, nil
	case TokenNull:
		p.advance()
		return &types.Literal{Position: t.Offset}, nil
	case TokenJSONLiteral:
		p.advance()
		return p.parseJSONLiteral(t)
	case TokenQuoted:
		p.advance()
		return &types.Identifier{Position: t.Offset, ID: t.Value.(string)}, nil
	case TokenIdentifier:
		if t.Text == "let" && p.peekAt(1).Type == TokenVariable {
			return p.parseLet()
		}
		if p.peekAt(1).Type == TokenLParen {
			return p.parseFunctionCall()
		}
		p.advance()
		return &types.Identifier{Position: t.Offset, ID: t.Text}, nil
	case TokenVariable:
		p.advance()
		return &types.VariableRef{Position: t.Offset, Name: t.Value.(string)}, nil
	case TokenCurrent:
		p.advance()
		return &types.Current{Position: t.Offset}, nil
	case TokenRoot:
		p.advance()
		return &types.Root{Position: t.Offset}, nil
	case TokenNot:
		p.advance()
		expr, err := p.parseExpression(bpUnary)
		if err != nil {
			return nil, err
		}
		return &types.Not{Position: t.Offset, Expr: expr}, nil
	case TokenMinus, TokenPlus:
		p.advance()
		expr, err := p.parseExpression(bpUnary)
		if err != nil {
			return nil, err
		}
		op := types.ArithSubtract
		if t.Type == TokenPlus {
			op = types.ArithAdd
		}
		return &types.UnaryArithmetic{Position: t.Offset, Op: op, Expr: expr}, nil
	case TokenAmpersand:
		p.advance()
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		return &types.ExpressionRef{Position: t.Offset, Expr: expr}, nil
	case TokenLParen:
		p.advance()
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, "grouped expression"); err != nil {
			return nil, err
		}
		return expr, nil
	case TokenStar:
		// Leading * is an object wildcard on the implicit current context.
		p.advance()
		return p.parseObjectProject(&types.Current{Position: t.Offset}, t.Offset)
	case TokenLBracket:
		p.advance()
		return p.parseLeadingBracket(t)
	case TokenFilter:
		p.advance()
		return p.parseFilter(&types.Current{Position: t.Offset}, t.Offset)
	case TokenFlatten:
		p.advance()
		return p.parseFlatten(&types.Current{Position: t.Offset}, t.Offset)
	case TokenLBrace:
		return p.parseMultiSelectHash()
	case TokenEOF:
		return nil, p.errorf(types.ErrUnexpectedEOF, "unexpected end of expression")
	default:
		return nil, p.errorf(types.ErrUnexpectedToken, "unexpected token %s", t.Type)
	}
}

// parseInfix parses an infix or postfix expression (led).
func (p *Parser) parseInfix(left types.Node) (types.Node, error) {
	t := p.peek()

	switch t.Type {
	case TokenDot:
		p.advance()
		return p.parseDotRHS(left)
	case TokenLBracket:
		p.advance()
		return p.parseBracket(left, t.Offset)
	case TokenFilter:
		p.advance()
		return p.parseFilter(left, t.Offset)
	case TokenFlatten:
		p.advance()
		return p.parseFlatten(left, t.Offset)
	case TokenPipe:
		p.advance()
		rhs, err := p.parseExpression(1)
		if err != nil {
			return nil, err
		}
		return &types.Pipe{Position: t.Offset, LHS: left, RHS: rhs}, nil
	case TokenOr:
		p.advance()
		rhs, err := p.parseExpression(3)
		if err != nil {
			return nil, err
		}
		return &types.Or{Position: t.Offset, LHS: left, RHS: rhs}, nil
	case TokenAnd:
		p.advance()
		rhs, err := p.parseExpression(4)
		if err != nil {
			return nil, err
		}
		return &types.And{Position: t.Offset, LHS: left, RHS: rhs}, nil
	case TokenEQ, TokenNE, TokenLT, TokenLTE, TokenGT, TokenGTE:
		p.advance()
		rhs, err := p.parseExpression(7)
		if err != nil {
			return nil, err
		}
		return &types.Compare{Position: t.Offset, Op: compareOps[t.Type], LHS: left, RHS: rhs}, nil
	case TokenPlus, TokenMinus, TokenStar, TokenDivide, TokenIntDivide, TokenModulo:
		bp := p.getBP(t.Type)
		p.advance()
		rhs, err := p.parseExpression(bp)
		if err != nil {
			return nil, err
		}
		return &types.Arithmetic{Position: t.Offset, Op: arithmeticOps[t.Type], LHS: left, RHS: rhs}, nil
	case TokenQuestion:
		return p.parseTernary(left)
	default:
		return nil, p.errorf(types.ErrUnexpectedToken, "unexpected token %s", t.Type)
	}
}

var compareOps = map[TokenType]types.CompareOp{
	TokenEQ:  types.CompareEQ,
	TokenNE:  types.CompareNE,
	TokenLT:  types.CompareLT,
	TokenLTE: types.CompareLTE,
	TokenGT:  types.CompareGT,
	TokenGTE: types.CompareGTE,
}

var arithmeticOps = map[TokenType]types.ArithmeticOp{
	TokenPlus:      types.ArithAdd,
	TokenMinus:     types.ArithSubtract,
	TokenStar:      types.ArithMultiply,
	TokenDivide:    types.ArithDivide,
	TokenIntDivide: types.ArithIntDivide,
	TokenModulo:    types.ArithModulo,
}

// parseTernary parses `cond ? then : else`. The alternate branch is
// parsed at the pipe's binding power, so a trailing pipe applies to the
// whole ternary while nested ternaries associate to the right.
func (p *Parser) parseTernary(cond types.Node) (types.Node, error) {
	t := p.advance() // '?'

	then, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon, "ternary expression"); err != nil {
		return nil, err
	}
	alt, err := p.parseExpression(1)
	if err != nil {
		return nil, err
	}

	return &types.Ternary{Position: t.Offset, Condition: cond, Then: then, Else: alt}, nil
}

// parseJSONLiteral interprets a backtick token's trimmed text as JSON.
// Invalid JSON falls back to a bare string value unless strict literals
// are enabled.
func (p *Parser) parseJSONLiteral(t Token) (types.Node, error) {
	raw := t.Value.(string)

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		if p.opts.StrictJSONLiterals {
			serr := types.NewSyntaxError(types.ErrInvalidToken, "invalid JSON literal", p.source, t.Offset)
			serr.WithToken(t.Text)
			return nil, serr
		}
		v = raw
	}
	return &types.Literal{Position: t.Offset, Value: v}, nil
}

// parseDotRHS parses the construct following a dot: a field name, an
// object wildcard, or a multi-select or function call applied to the
// left-hand value.
func (p *Parser) parseDotRHS(left types.Node) (types.Node, error) {
	t := p.peek()

	switch t.Type {
	case TokenIdentifier:
		if p.peekAt(1).Type == TokenLParen {
			call, err := p.parseFunctionCall()
			if err != nil {
				return nil, err
			}
			return &types.Pipe{Position: t.Offset, LHS: left, RHS: call}, nil
		}
		p.advance()
		return &types.FieldAccess{Position: t.Offset, Expr: left, Field: t.Text}, nil
	case TokenQuoted:
		p.advance()
		return &types.FieldAccess{Position: t.Offset, Expr: left, Field: t.Value.(string)}, nil
	case TokenStar:
		p.advance()
		return p.parseObjectProject(left, t.Offset)
	case TokenLBracket:
		p.advance()
		list, err := p.parseMultiSelectList(t.Offset)
		if err != nil {
			return nil, err
		}
		return &types.Pipe{Position: t.Offset, LHS: left, RHS: list}, nil
	case TokenLBrace:
		hash, err := p.parseMultiSelectHash()
		if err != nil {
			return nil, err
		}
		return &types.Pipe{Position: t.Offset, LHS: left, RHS: hash}, nil
	default:
		err := p.errorf(types.ErrUnexpectedToken, "unexpected %s after '.'", t.Type)
		err.WithExpected("identifier, '*', '[' or '{'")
		return nil, err
	}
}

// parseLeadingBracket handles a '[' with no left-hand side: bracket
// contents that name an index, slice, id or wildcard apply to the implicit
// current context; anything else starts a multi-select list.
func (p *Parser) parseLeadingBracket(t Token) (types.Node, error) {
	switch p.peek().Type {
	case TokenStar, TokenRawString, TokenNumber, TokenColon:
		return p.parseBracket(&types.Current{Position: t.Offset}, t.Offset)
	default:
		return p.parseMultiSelectList(t.Offset)
	}
}

// parseBracket parses the contents of a plain '[' applied to expr. The
// first content token chooses the construct: '*' wildcard, raw string id
// access, number index or slice, ':' slice.
func (p *Parser) parseBracket(expr types.Node, pos int) (types.Node, error) {
	t := p.peek()

	switch t.Type {
	case TokenStar:
		p.advance()
		if _, err := p.expect(TokenRBracket, "wildcard projection"); err != nil {
			return nil, err
		}
		proj, err := p.parseProjection(bpStarProjection)
		if err != nil {
			return nil, err
		}
		return &types.Project{Position: pos, Expr: expr, Projection: proj}, nil
	case TokenRawString:
		p.advance()
		if _, err := p.expect(TokenRBracket, "id access"); err != nil {
			return nil, err
		}
		return &types.IdAccess{Position: pos, Expr: expr, ID: t.Value.(string)}, nil
	case TokenNumber:
		if p.peekAt(1).Type == TokenColon {
			return p.parseSlice(expr, pos)
		}
		p.advance()
		idx, err := p.tokenToIndex(t)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRBracket, "index access"); err != nil {
			return nil, err
		}
		return &types.IndexAccess{Position: pos, Expr: expr, Index: idx}, nil
	case TokenColon:
		return p.parseSlice(expr, pos)
	default:
		err := p.errorf(types.ErrUnexpectedToken, "unexpected %s in bracket expression", t.Type)
		err.WithExpected("'*', index, slice or id string")
		return nil, err
	}
}

// parseSlice parses `[start:end:step]` contents; the leading '[' has been
// consumed and the first token is a number or ':'.
func (p *Parser) parseSlice(expr types.Node, pos int) (types.Node, error) {
	var start, end, step *int

	if t := p.peek(); t.Type == TokenNumber {
		p.advance()
		v, err := p.tokenToIndex(t)
		if err != nil {
			return nil, err
		}
		start = &v
	}
	if _, err := p.expect(TokenColon, "slice expression"); err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type == TokenNumber {
		p.advance()
		v, err := p.tokenToIndex(t)
		if err != nil {
			return nil, err
		}
		end = &v
	}
	if p.peek().Type == TokenColon {
		p.advance()
		if t := p.peek(); t.Type == TokenNumber {
			p.advance()
			v, err := p.tokenToIndex(t)
			if err != nil {
				return nil, err
			}
			step = &v
		}
	}
	if _, err := p.expect(TokenRBracket, "slice expression"); err != nil {
		return nil, err
	}

	proj, err := p.parseProjection(bpStarProjection)
	if err != nil {
		return nil, err
	}
	return &types.Slice{Position: pos, Expr: expr, Start: start, End: end, Step: step, Projection: proj}, nil
}

func (p *Parser) tokenToIndex(t Token) (int, error) {
	f := t.Value.(float64)
	i := int(f)
	if float64(i) != f {
		err := types.NewSyntaxError(types.ErrInvalidToken, "index must be an integer", p.source, t.Offset)
		err.WithToken(t.Text)
		return 0, err
	}
	return i, nil
}

// parseObjectProject parses the continuation of an object wildcard; the
// '*' has been consumed.
func (p *Parser) parseObjectProject(expr types.Node, pos int) (types.Node, error) {
	proj, err := p.parseProjection(bpStarProjection)
	if err != nil {
		return nil, err
	}
	return &types.ObjectProject{Position: pos, Expr: expr, Projection: proj}, nil
}

// parseFilter parses `[?cond]` contents; the '[?' has been consumed.
func (p *Parser) parseFilter(expr types.Node, pos int) (types.Node, error) {
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRBracket, "filter expression"); err != nil {
		return nil, err
	}
	proj, err := p.parseProjection(bpFilterProjection)
	if err != nil {
		return nil, err
	}
	return &types.Filter{Position: pos, Expr: expr, Condition: cond, Projection: proj}, nil
}

// parseFlatten parses the continuation of `[]`; the token has been
// consumed.
func (p *Parser) parseFlatten(expr types.Node, pos int) (types.Node, error) {
	proj, err := p.parseProjection(bpFlattenProjection)
	if err != nil {
		return nil, err
	}
	return &types.Flatten{Position: pos, Expr: expr, Projection: proj}, nil
}

// parseProjection decides whether trailing postfix operators continue
// inside the projection just parsed. Operators binding at or above the
// projection threshold are pulled into a sub-expression rooted at an
// implicit current element and become the projection's continuation;
// weaker operators are left for the enclosing expression. The returned
// node is attached by the caller when it constructs the projection node,
// so no node is ever mutated after construction.
func (p *Parser) parseProjection(rbp int) (types.Node, error) {
	t := p.peek()
	if p.getBP(t.Type) < bpProjection {
		return nil, nil
	}

	var left types.Node
	var err error
	switch t.Type {
	case TokenDot:
		p.advance()
		left, err = p.parseDotRHS(&types.Current{Position: t.Offset})
	case TokenLBracket:
		p.advance()
		left, err = p.parseBracket(&types.Current{Position: t.Offset}, t.Offset)
	case TokenFilter:
		p.advance()
		left, err = p.parseFilter(&types.Current{Position: t.Offset}, t.Offset)
	default:
		err = p.errorf(types.ErrUnexpectedToken, "unexpected %s after projection", t.Type)
	}
	if err != nil {
		return nil, err
	}

	return p.parseInfixLoop(left, rbp)
}

// parseFunctionCall parses `name(arg, ...)`; the current token is the
// function name identifier.
func (p *Parser) parseFunctionCall() (types.Node, error) {
	name := p.advance()
	if _, err := p.expect(TokenLParen, "function call"); err != nil {
		return nil, err
	}

	var args []types.Node
	if p.peek().Type != TokenRParen {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().Type != TokenComma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(TokenRParen, "function call"); err != nil {
		return nil, err
	}

	return &types.FunctionCall{Position: name.Offset, Name: name.Text, Args: args}, nil
}

// parseLet parses `let $x := expr, ... in body`. let and in are
// contextual identifiers, not keywords.
func (p *Parser) parseLet() (types.Node, error) {
	let := p.advance() // 'let'

	var bindings []types.LetBinding
	for {
		v, err := p.expect(TokenVariable, "let binding")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenAssign, "let binding"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, types.LetBinding{Name: v.Value.(string), Value: value})
		if p.peek().Type != TokenComma {
			break
		}
		p.advance()
	}

	in := p.peek()
	if in.Type != TokenIdentifier || in.Text != "in" {
		err := p.errorf(types.ErrUnexpectedToken, "unexpected %s in let expression", in.Type)
		err.WithExpected("'in'")
		return nil, err
	}
	p.advance()

	body, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	return &types.Let{Position: let.Offset, Bindings: bindings, Body: body}, nil
}

// parseMultiSelectList parses the elements of `[a, b, ...]`; the '[' has
// been consumed.
func (p *Parser) parseMultiSelectList(pos int) (types.Node, error) {
	var exprs []types.Node
	for {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if p.peek().Type != TokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRBracket, "multi-select list"); err != nil {
		return nil, err
	}
	return &types.MultiSelectList{Position: pos, Expressions: exprs}, nil
}

// parseMultiSelectHash parses `{key: expr, ...}`; the current token is the
// opening brace.
func (p *Parser) parseMultiSelectHash() (types.Node, error) {
	brace := p.advance() // '{'

	var entries []types.HashEntry
	for {
		key := p.peek()
		switch key.Type {
		case TokenIdentifier:
			p.advance()
			entries = append(entries, types.HashEntry{Key: key.Text})
		case TokenQuoted:
			p.advance()
			entries = append(entries, types.HashEntry{Key: key.Value.(string)})
		default:
			err := p.errorf(types.ErrUnexpectedToken, "unexpected %s in multi-select hash", key.Type)
			err.WithExpected("key name")
			return nil, err
		}
		if _, err := p.expect(TokenColon, "multi-select hash"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		entries[len(entries)-1].Value = value
		if p.peek().Type != TokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRBrace, "multi-select hash"); err != nil {
		return nil, err
	}

	return &types.MultiSelectHash{Position: brace.Offset, Entries: entries}, nil
}
