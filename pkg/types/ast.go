// Package types defines the core type system for jmesq.
//
// This package contains type definitions for:
//   - Node: the closed set of AST node kinds produced by the parser
//   - Expression: compiled selector expressions
//   - Error types: structured errors with codes
//   - JSON value helpers shared by the evaluator and the accessor compiler
package types

// Node is a node of a parsed selector expression.
//
// The set of implementations is closed: every node kind the parser can
// produce lives in this package, and both the evaluator and the accessor
// compiler dispatch over the full set. Nodes are immutable once the parser
// returns them and may be shared freely across goroutines.
type Node interface {
	// Pos returns the byte offset of the node in the source selector.
	Pos() int

	node()
}

// CompareOp is a comparison operator.
type CompareOp string

const (
	CompareEQ  CompareOp = "=="
	CompareNE  CompareOp = "!="
	CompareLT  CompareOp = "<"
	CompareLTE CompareOp = "<="
	CompareGT  CompareOp = ">"
	CompareGTE CompareOp = ">="
)

// ArithmeticOp is an arithmetic operator. IntDivide is floor division.
type ArithmeticOp string

const (
	ArithAdd       ArithmeticOp = "+"
	ArithSubtract  ArithmeticOp = "-"
	ArithMultiply  ArithmeticOp = "*"
	ArithDivide    ArithmeticOp = "/"
	ArithIntDivide ArithmeticOp = "//"
	ArithModulo    ArithmeticOp = "%"
)

// Current is the current context value, written `@`. The parser also seeds
// implicit Current nodes for leading brackets and wildcards.
type Current struct {
	Position int
}

// Root is the root context value, written `$`.
type Root struct {
	Position int
}

// Literal is a constant JSON value: a raw string, a number, a keyword
// literal, or the parsed contents of a backtick literal.
type Literal struct {
	Position int
	Value    any
}

// Identifier is a bare or quoted field name applied to the current context.
type Identifier struct {
	Position int
	ID       string
}

// FieldAccess selects a named property of the value of Expr, `.field`.
type FieldAccess struct {
	Position int
	Expr     Node
	Field    string
}

// IndexAccess selects array element `[n]`; negative indexes count from the
// end.
type IndexAccess struct {
	Position int
	Expr     Node
	Index    int
}

// IdAccess selects the first array element whose "id" property equals ID,
// written `['some-id']`.
type IdAccess struct {
	Position int
	Expr     Node
	ID       string
}

// Project is the array wildcard `[*]`. Projection, when non-nil, is an
// expression rooted at an implicit Current node applied to each element.
type Project struct {
	Position   int
	Expr       Node
	Projection Node
}

// ObjectProject is the object-value wildcard `.*`.
type ObjectProject struct {
	Position   int
	Expr       Node
	Projection Node
}

// Filter keeps array elements whose Condition is not false-or-empty,
// written `[?cond]`.
type Filter struct {
	Position   int
	Expr       Node
	Condition  Node
	Projection Node
}

// Slice is a Python-style slice `[start:end:step]`. Missing components are
// nil.
type Slice struct {
	Position   int
	Expr       Node
	Start      *int
	End        *int
	Step       *int
	Projection Node
}

// Flatten concatenates one level of nested arrays, written `[]`.
type Flatten struct {
	Position   int
	Expr       Node
	Projection Node
}

// Not is logical negation `!expr`; it returns a boolean.
type Not struct {
	Position int
	Expr     Node
}

// Compare applies a comparison operator. Equality is deep structural
// equality; ordering operators yield null unless both operands are numbers.
type Compare struct {
	Position int
	Op       CompareOp
	LHS      Node
	RHS      Node
}

// Arithmetic applies a binary arithmetic operator to two numbers.
type Arithmetic struct {
	Position int
	Op       ArithmeticOp
	LHS      Node
	RHS      Node
}

// UnaryArithmetic applies unary `-` or `+` to a number.
type UnaryArithmetic struct {
	Position int
	Op       ArithmeticOp
	Expr     Node
}

// And is short-circuit conjunction; it returns an operand value, not a
// boolean.
type And struct {
	Position int
	LHS      Node
	RHS      Node
}

// Or is short-circuit disjunction; it returns an operand value, not a
// boolean.
type Or struct {
	Position int
	LHS      Node
	RHS      Node
}

// Ternary is `cond ? then : else`; only the taken branch is evaluated.
type Ternary struct {
	Position  int
	Condition Node
	Then      Node
	Else      Node
}

// Pipe evaluates RHS with the result of LHS as its context, `lhs | rhs`.
type Pipe struct {
	Position int
	LHS      Node
	RHS      Node
}

// FunctionCall invokes a named function supplied by the function provider.
type FunctionCall struct {
	Position int
	Name     string
	Args     []Node
}

// ExpressionRef is an unevaluated expression `&expr` passed to higher-order
// functions. Evaluating it yields the node itself.
type ExpressionRef struct {
	Position int
	Expr     Node
}

// VariableRef reads a lexically bound variable `$name`.
type VariableRef struct {
	Position int
	Name     string
}

// LetBinding is a single `$name := value` binding of a Let expression.
type LetBinding struct {
	Name  string
	Value Node
}

// Let introduces lexical bindings for its body,
// `let $x := expr, ... in body`. Bindings are evaluated in order against
// the current context; later bindings see earlier ones.
type Let struct {
	Position int
	Bindings []LetBinding
	Body     Node
}

// MultiSelectList evaluates every child against the same context and
// collects the results, `[a, b]`. A null context short-circuits to null.
type MultiSelectList struct {
	Position    int
	Expressions []Node
}

// HashEntry is one `key: value` pair of a MultiSelectHash.
type HashEntry struct {
	Key   string
	Value Node
}

// MultiSelectHash evaluates every entry value against the same context and
// collects the results into an object, `{a: x, b: y}`.
type MultiSelectHash struct {
	Position int
	Entries  []HashEntry
}

func (n *Current) Pos() int         { return n.Position }
func (n *Root) Pos() int            { return n.Position }
func (n *Literal) Pos() int         { return n.Position }
func (n *Identifier) Pos() int      { return n.Position }
func (n *FieldAccess) Pos() int     { return n.Position }
func (n *IndexAccess) Pos() int     { return n.Position }
func (n *IdAccess) Pos() int        { return n.Position }
func (n *Project) Pos() int         { return n.Position }
func (n *ObjectProject) Pos() int   { return n.Position }
func (n *Filter) Pos() int          { return n.Position }
func (n *Slice) Pos() int           { return n.Position }
func (n *Flatten) Pos() int         { return n.Position }
func (n *Not) Pos() int             { return n.Position }
func (n *Compare) Pos() int         { return n.Position }
func (n *Arithmetic) Pos() int      { return n.Position }
func (n *UnaryArithmetic) Pos() int { return n.Position }
func (n *And) Pos() int             { return n.Position }
func (n *Or) Pos() int              { return n.Position }
func (n *Ternary) Pos() int         { return n.Position }
func (n *Pipe) Pos() int            { return n.Position }
func (n *FunctionCall) Pos() int    { return n.Position }
func (n *ExpressionRef) Pos() int   { return n.Position }
func (n *VariableRef) Pos() int     { return n.Position }
func (n *Let) Pos() int             { return n.Position }
func (n *MultiSelectList) Pos() int { return n.Position }
func (n *MultiSelectHash) Pos() int { return n.Position }

func (*Current) node()         {}
func (*Root) node()            {}
func (*Literal) node()         {}
func (*Identifier) node()      {}
func (*FieldAccess) node()     {}
func (*IndexAccess) node()     {}
func (*IdAccess) node()        {}
func (*Project) node()         {}
func (*ObjectProject) node()   {}
func (*Filter) node()          {}
func (*Slice) node()           {}
func (*Flatten) node()         {}
func (*Not) node()             {}
func (*Compare) node()         {}
func (*Arithmetic) node()      {}
func (*UnaryArithmetic) node() {}
func (*And) node()             {}
func (*Or) node()              {}
func (*Ternary) node()         {}
func (*Pipe) node()            {}
func (*FunctionCall) node()    {}
func (*ExpressionRef) node()   {}
func (*VariableRef) node()     {}
func (*Let) node()             {}
func (*MultiSelectList) node() {}
func (*MultiSelectHash) node() {}

// String returns the canonical selector text of the node.
func (n *Current) String() string         { return Render(n) }
func (n *Root) String() string            { return Render(n) }
func (n *Literal) String() string         { return Render(n) }
func (n *Identifier) String() string      { return Render(n) }
func (n *FieldAccess) String() string     { return Render(n) }
func (n *IndexAccess) String() string     { return Render(n) }
func (n *IdAccess) String() string        { return Render(n) }
func (n *Project) String() string         { return Render(n) }
func (n *ObjectProject) String() string   { return Render(n) }
func (n *Filter) String() string          { return Render(n) }
func (n *Slice) String() string           { return Render(n) }
func (n *Flatten) String() string         { return Render(n) }
func (n *Not) String() string             { return Render(n) }
func (n *Compare) String() string         { return Render(n) }
func (n *Arithmetic) String() string      { return Render(n) }
func (n *UnaryArithmetic) String() string { return Render(n) }
func (n *And) String() string             { return Render(n) }
func (n *Or) String() string              { return Render(n) }
func (n *Ternary) String() string         { return Render(n) }
func (n *Pipe) String() string            { return Render(n) }
func (n *FunctionCall) String() string    { return Render(n) }
func (n *ExpressionRef) String() string   { return Render(n) }
func (n *VariableRef) String() string     { return Render(n) }
func (n *Let) String() string             { return Render(n) }
func (n *MultiSelectList) String() string { return Render(n) }
func (n *MultiSelectHash) String() string { return Render(n) }
