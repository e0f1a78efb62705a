// Package accessor compiles selector expressions into reusable accessors
// exposing get, set and delete over JSON-shaped documents.
//
// An accessor is compiled once from an AST and then bound to many
// documents. Reads share the evaluator's semantics exactly. Writes mutate
// the caller's document in place where possible; where Go slices cannot
// be spliced in place (index delete, filter and slice writes, flatten
// replacement) the rebuilt container is assigned to the parent location,
// and when the rewritten container is the document itself the new
// document is returned. Callers must therefore always keep the returned
// document.
//
// Each operation comes in a best-effort form, which silently leaves the
// document untouched when the structure does not match, and a strict
// *OrThrow form, which reports a *types.AccessorError carrying the
// failing sub-path, the attempted operation and a machine-readable
// reason.
package accessor

import (
	"github.com/sandrolain/jmesq/pkg/evaluator"
	"github.com/sandrolain/jmesq/pkg/types"
)

// Option configures accessor compilation.
type Option func(*Options)

// Options holds accessor configuration.
type Options struct {
	// Evaluator runs the read path and filter conditions. Defaults to a
	// fresh evaluator with the builtin function registry.
	Evaluator *evaluator.Evaluator
}

// WithEvaluator sets the evaluator used for reads and conditions.
func WithEvaluator(ev *evaluator.Evaluator) Option {
	return func(opts *Options) {
		opts.Evaluator = ev
	}
}

// Accessor is a compiled selector bound to no particular document. It is
// immutable after compilation and safe for concurrent reads; concurrent
// writes against a shared document require caller-side serialization.
type Accessor struct {
	expr *types.Expression
	ev   *evaluator.Evaluator
	root op
}

// Compile builds an accessor from a compiled expression.
func Compile(expr *types.Expression, opts ...Option) *Accessor {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Evaluator == nil {
		options.Evaluator = evaluator.New()
	}

	a := &Accessor{expr: expr, ev: options.Evaluator}
	a.root = a.compile(expr.AST())
	return a
}

// Selector returns the selector text the accessor was compiled from.
func (a *Accessor) Selector() string {
	return a.expr.Source()
}

// bind prepares the per-operation state for one document. The top-level
// replace channel captures container rewrites that reach the document
// itself.
func (a *Accessor) bind(data any, captured *any) *binding {
	replaceDoc := func(v any) error {
		*captured = v
		return nil
	}
	return &binding{
		ctx:         data,
		root:        data,
		replace:     replaceDoc,
		replaceRoot: replaceDoc,
	}
}

// Get evaluates the selector against data, yielding null on any
// structural mismatch or evaluation failure.
func (a *Accessor) Get(data any) any {
	v, err := a.root.get(a.bind(data, new(any)))
	if err != nil {
		return nil
	}
	return v
}

// GetOrThrow evaluates the selector against data. A structural mismatch
// (wrong container kind, index out of range, no id match) is an error;
// an absent value on a matching structure is a plain null result.
func (a *Accessor) GetOrThrow(data any) (any, error) {
	b := a.bind(data, new(any))
	if err := a.root.check(b); err != nil {
		return nil, tagOp(err, types.OpGet)
	}
	return a.root.get(b)
}

// Set assigns value at the selector's location, best effort, and returns
// the possibly-replaced document.
func (a *Accessor) Set(data any, value any) any {
	doc := data
	b := a.bind(data, &doc)
	_ = a.root.set(b, value, false)
	return doc
}

// SetOrThrow assigns value at the selector's location and returns the
// possibly-replaced document; structural mismatches are errors.
func (a *Accessor) SetOrThrow(data any, value any) (any, error) {
	doc := data
	b := a.bind(data, &doc)
	if err := a.root.set(b, value, true); err != nil {
		return data, err
	}
	return doc, nil
}

// Delete removes the selector's location, best effort, and returns the
// possibly-replaced document.
func (a *Accessor) Delete(data any) any {
	doc := data
	b := a.bind(data, &doc)
	_ = a.root.del(b, false)
	return doc
}

// DeleteOrThrow removes the selector's location and returns the
// possibly-replaced document; structural mismatches are errors.
func (a *Accessor) DeleteOrThrow(data any) (any, error) {
	doc := data
	b := a.bind(data, &doc)
	if err := a.root.del(b, true); err != nil {
		return data, err
	}
	return doc, nil
}

// IsValidContext reports whether the selector structurally applies to
// data: whether get would reach its location regardless of the value
// found there.
func (a *Accessor) IsValidContext(data any) bool {
	return a.root.check(a.bind(data, new(any))) == nil
}

// tagOp stamps the attempted operation on structural errors surfacing
// from the shared check path.
func tagOp(err error, aop types.AccessOp) error {
	if aerr, ok := err.(*types.AccessorError); ok {
		aerr.Op = aop
	}
	return err
}

// compile dispatches a node to its compiled op. Pure combinators share
// the read-only op; everything else gets a kind-specific write
// implementation.
func (a *Accessor) compile(n types.Node) op {
	switch n := n.(type) {
	case *types.Current:
		return &currentOp{src: n}
	case *types.Root:
		return &rootOp{src: n}
	case *types.Identifier:
		return &fieldOp{src: n, field: n.ID, child: &currentOp{src: n}}
	case *types.FieldAccess:
		return &fieldOp{src: n, field: n.Field, child: a.compile(n.Expr)}
	case *types.IndexAccess:
		return &indexOp{src: n, index: n.Index, child: a.compile(n.Expr)}
	case *types.IdAccess:
		return &idOp{src: n, id: n.ID, child: a.compile(n.Expr)}
	case *types.Project:
		return &projectOp{src: n, ev: a.ev, child: a.compile(n.Expr), projection: a.compileProjection(n.Projection)}
	case *types.ObjectProject:
		return &objectProjectOp{src: n, ev: a.ev, child: a.compile(n.Expr), projection: a.compileProjection(n.Projection)}
	case *types.Filter:
		return &filterOp{src: n, ev: a.ev, child: a.compile(n.Expr), cond: n.Condition, projection: a.compileProjection(n.Projection)}
	case *types.Slice:
		return &sliceOp{src: n, ev: a.ev, child: a.compile(n.Expr), start: n.Start, end: n.End, step: n.Step, projection: a.compileProjection(n.Projection)}
	case *types.Flatten:
		return &flattenOp{src: n, ev: a.ev, child: a.compile(n.Expr), projection: a.compileProjection(n.Projection)}
	case *types.Pipe:
		return &pipeOp{src: n, ev: a.ev, lhs: a.compile(n.LHS), rhs: a.compile(n.RHS)}
	case *types.Literal, *types.Not, *types.Compare, *types.Arithmetic,
		*types.UnaryArithmetic, *types.And, *types.Or, *types.Ternary,
		*types.FunctionCall, *types.ExpressionRef, *types.VariableRef,
		*types.Let, *types.MultiSelectList, *types.MultiSelectHash:
		return &readonlyOp{src: n, ev: a.ev}
	default:
		panic("accessor: unreachable node kind")
	}
}

func (a *Accessor) compileProjection(n types.Node) op {
	if n == nil {
		return nil
	}
	return a.compile(n)
}
