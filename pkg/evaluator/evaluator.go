// Package evaluator implements read-only evaluation of compiled selector
// expressions against JSON-shaped Go values (nil, bool, float64, string,
// []any, map[string]any).
//
// Evaluation never mutates the document, the AST or the scope, so one
// compiled expression may serve concurrent evaluations against different
// documents without synchronization.
package evaluator

import (
	"io"
	"log/slog"
	"math"

	"github.com/sandrolain/jmesq/pkg/functions"
	"github.com/sandrolain/jmesq/pkg/types"
)

// Option configures an Evaluator.
type Option func(*Options)

// Options holds evaluator configuration.
type Options struct {
	// Functions resolves named function calls. Defaults to the builtin
	// registry.
	Functions functions.Provider
	// MaxDepth bounds evaluation recursion depth.
	MaxDepth int
	// Logger receives debug-level evaluation traces.
	Logger *slog.Logger
}

// WithFunctions sets the function provider.
func WithFunctions(p functions.Provider) Option {
	return func(opts *Options) {
		opts.Functions = p
	}
}

// WithMaxDepth bounds evaluation recursion depth.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// Evaluator evaluates expressions. It is immutable after construction and
// safe for concurrent use.
type Evaluator struct {
	opts Options
}

// New returns an Evaluator with the given options applied over defaults.
func New(opts ...Option) *Evaluator {
	options := Options{
		Functions: functions.NewRegistry(),
		MaxDepth:  1000,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Evaluator{opts: options}
}

// Scope carries the per-evaluation state threaded through recursion: the
// root document and the lexical variable bindings.
type Scope struct {
	Root     any
	Bindings map[string]any
}

// Eval evaluates a compiled expression against data.
func (e *Evaluator) Eval(expr *types.Expression, data any) (any, error) {
	e.opts.Logger.Debug("evaluating expression", "selector", expr.Source())
	return e.eval(expr.AST(), data, &Scope{Root: data}, 0)
}

// EvalNode evaluates a bare AST node against a context value within the
// given scope. It is the entry point used by the accessor package and by
// function providers re-entering the evaluator.
func (e *Evaluator) EvalNode(node types.Node, context any, scope *Scope) (any, error) {
	return e.eval(node, context, scope, 0)
}

func (e *Evaluator) eval(node types.Node, ctx any, scope *Scope, depth int) (any, error) {
	if depth > e.opts.MaxDepth {
		return nil, types.NewRuntimeError(types.ErrMaxDepth, "evaluation exceeds maximum depth %d", e.opts.MaxDepth)
	}
	depth++

	switch n := node.(type) {
	case *types.Current:
		return ctx, nil
	case *types.Root:
		return scope.Root, nil
	case *types.Literal:
		return n.Value, nil
	case *types.Identifier:
		return lookupField(ctx, n.ID), nil
	case *types.FieldAccess:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		return lookupField(v, n.Field), nil
	case *types.IndexAccess:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		arr, ok := v.([]any)
		if !ok {
			return nil, nil
		}
		idx := n.Index
		if idx < 0 {
			idx += len(arr)
		}
		if idx < 0 || idx >= len(arr) {
			return nil, nil
		}
		return arr[idx], nil
	case *types.IdAccess:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		arr, ok := v.([]any)
		if !ok {
			return nil, nil
		}
		for _, elem := range arr {
			if m, ok := elem.(map[string]any); ok && types.Equal(m["id"], n.ID) {
				return elem, nil
			}
		}
		return nil, nil
	case *types.Project:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		arr, ok := v.([]any)
		if !ok {
			return nil, nil
		}
		return e.project(arr, n.Projection, scope, depth)
	case *types.ObjectProject:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, nil
		}
		values := make([]any, 0, len(obj))
		for _, k := range types.SortedKeys(obj) {
			values = append(values, obj[k])
		}
		return e.project(values, n.Projection, scope, depth)
	case *types.Filter:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		arr, ok := v.([]any)
		if !ok {
			return nil, nil
		}
		kept := make([]any, 0, len(arr))
		for _, elem := range arr {
			cond, err := e.eval(n.Condition, elem, scope, depth)
			if err != nil {
				return nil, err
			}
			if !types.IsFalseOrEmpty(cond) {
				kept = append(kept, elem)
			}
		}
		return e.project(kept, n.Projection, scope, depth)
	case *types.Slice:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		arr, ok := v.([]any)
		if !ok {
			return nil, nil
		}
		indices, err := types.SliceIndices(n.Start, n.End, n.Step, len(arr))
		if err != nil {
			return nil, err
		}
		selected := make([]any, len(indices))
		for i, idx := range indices {
			selected[i] = arr[idx]
		}
		return e.project(selected, n.Projection, scope, depth)
	case *types.Flatten:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		arr, ok := v.([]any)
		if !ok {
			return nil, nil
		}
		return e.project(flattenOnce(arr), n.Projection, scope, depth)
	case *types.Not:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		return types.IsFalseOrEmpty(v), nil
	case *types.Compare:
		return e.evalCompare(n, ctx, scope, depth)
	case *types.Arithmetic:
		return e.evalArithmetic(n, ctx, scope, depth)
	case *types.UnaryArithmetic:
		v, err := e.eval(n.Expr, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		f, ok := types.AsNumber(v)
		if !ok {
			return nil, types.NewRuntimeError(types.ErrInvalidType, "unary %s requires a number operand", n.Op)
		}
		if n.Op == types.ArithSubtract {
			return -f, nil
		}
		return f, nil
	case *types.And:
		l, err := e.eval(n.LHS, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		if types.IsFalseOrEmpty(l) {
			return l, nil
		}
		return e.eval(n.RHS, ctx, scope, depth)
	case *types.Or:
		l, err := e.eval(n.LHS, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		if !types.IsFalseOrEmpty(l) {
			return l, nil
		}
		return e.eval(n.RHS, ctx, scope, depth)
	case *types.Ternary:
		cond, err := e.eval(n.Condition, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		if !types.IsFalseOrEmpty(cond) {
			return e.eval(n.Then, ctx, scope, depth)
		}
		return e.eval(n.Else, ctx, scope, depth)
	case *types.Pipe:
		l, err := e.eval(n.LHS, ctx, scope, depth)
		if err != nil {
			return nil, err
		}
		return e.eval(n.RHS, l, scope, depth)
	case *types.FunctionCall:
		call := &functions.Call{
			Context:  ctx,
			Root:     scope.Root,
			Bindings: scope.Bindings,
			Args:     n.Args,
			Eval: func(node types.Node, context any) (any, error) {
				return e.eval(node, context, scope, depth)
			},
		}
		return e.opts.Functions.CallFunction(n.Name, call)
	case *types.ExpressionRef:
		return n, nil
	case *types.VariableRef:
		if v, ok := scope.Bindings[n.Name]; ok {
			return v, nil
		}
		return nil, types.NewRuntimeError(types.ErrUndefinedVariable, "undefined variable $%s", n.Name)
	case *types.Let:
		bindings := make(map[string]any, len(scope.Bindings)+len(n.Bindings))
		for k, v := range scope.Bindings {
			bindings[k] = v
		}
		inner := &Scope{Root: scope.Root, Bindings: bindings}
		for _, b := range n.Bindings {
			v, err := e.eval(b.Value, ctx, inner, depth)
			if err != nil {
				return nil, err
			}
			bindings[b.Name] = v
		}
		return e.eval(n.Body, ctx, inner, depth)
	case *types.MultiSelectList:
		if ctx == nil {
			return nil, nil
		}
		out := make([]any, len(n.Expressions))
		for i, expr := range n.Expressions {
			v, err := e.eval(expr, ctx, scope, depth)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *types.MultiSelectHash:
		if ctx == nil {
			return nil, nil
		}
		out := make(map[string]any, len(n.Entries))
		for _, entry := range n.Entries {
			v, err := e.eval(entry.Value, ctx, scope, depth)
			if err != nil {
				return nil, err
			}
			out[entry.Key] = v
		}
		return out, nil
	default:
		return nil, types.NewRuntimeError(types.ErrInvalidType, "unsupported node %T", node)
	}
}

// project applies the projection continuation to each element and drops
// null results. A nil continuation is the identity, so null elements are
// still dropped.
func (e *Evaluator) project(elems []any, projection types.Node, scope *Scope, depth int) (any, error) {
	out := make([]any, 0, len(elems))
	for _, elem := range elems {
		v := elem
		if projection != nil {
			var err error
			v, err = e.eval(projection, elem, scope, depth)
			if err != nil {
				return nil, err
			}
		}
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func (e *Evaluator) evalCompare(n *types.Compare, ctx any, scope *Scope, depth int) (any, error) {
	l, err := e.eval(n.LHS, ctx, scope, depth)
	if err != nil {
		return nil, err
	}
	r, err := e.eval(n.RHS, ctx, scope, depth)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case types.CompareEQ:
		return types.Equal(l, r), nil
	case types.CompareNE:
		return !types.Equal(l, r), nil
	}

	// Ordering operators require numbers and degrade to null otherwise.
	lf, lok := types.AsNumber(l)
	rf, rok := types.AsNumber(r)
	if !lok || !rok {
		return nil, nil
	}

	switch n.Op {
	case types.CompareLT:
		return lf < rf, nil
	case types.CompareLTE:
		return lf <= rf, nil
	case types.CompareGT:
		return lf > rf, nil
	default:
		return lf >= rf, nil
	}
}

func (e *Evaluator) evalArithmetic(n *types.Arithmetic, ctx any, scope *Scope, depth int) (any, error) {
	l, err := e.eval(n.LHS, ctx, scope, depth)
	if err != nil {
		return nil, err
	}
	r, err := e.eval(n.RHS, ctx, scope, depth)
	if err != nil {
		return nil, err
	}

	lf, lok := types.AsNumber(l)
	rf, rok := types.AsNumber(r)
	if !lok || !rok {
		return nil, types.NewRuntimeError(types.ErrInvalidType, "operator %s requires number operands", n.Op)
	}

	switch n.Op {
	case types.ArithAdd:
		return lf + rf, nil
	case types.ArithSubtract:
		return lf - rf, nil
	case types.ArithMultiply:
		return lf * rf, nil
	case types.ArithDivide:
		if rf == 0 {
			return nil, types.NewRuntimeError(types.ErrDivideByZero, "division by zero")
		}
		return lf / rf, nil
	case types.ArithIntDivide:
		if rf == 0 {
			return nil, types.NewRuntimeError(types.ErrDivideByZero, "integer division by zero")
		}
		return math.Floor(lf / rf), nil
	default: // modulo
		if rf == 0 {
			return nil, types.NewRuntimeError(types.ErrDivideByZero, "modulo by zero")
		}
		return math.Mod(lf, rf), nil
	}
}

func lookupField(v any, field string) any {
	if m, ok := v.(map[string]any); ok {
		return m[field]
	}
	return nil
}

func flattenOnce(arr []any) []any {
	out := make([]any, 0, len(arr))
	for _, elem := range arr {
		if inner, ok := elem.([]any); ok {
			out = append(out, inner...)
		} else {
			out = append(out, elem)
		}
	}
	return out
}
