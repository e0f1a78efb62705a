package types

// Expression is a compiled selector expression.
//
// An Expression can be evaluated any number of times against different
// documents and used to build any number of accessors. It is safe for
// concurrent use by multiple goroutines.
type Expression struct {
	ast    Node
	source string
}

// NewExpression creates an Expression from a parsed AST and its source.
func NewExpression(ast Node, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// AST returns the root node of the expression.
func (e *Expression) AST() Node {
	return e.ast
}

// Source returns the original selector text of the expression.
func (e *Expression) Source() string {
	return e.source
}

// String returns the original selector text.
func (e *Expression) String() string {
	return e.source
}
