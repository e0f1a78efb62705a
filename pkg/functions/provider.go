// Package functions defines the named-function capability consumed by the
// evaluator and ships a default provider with the classic query builtins.
//
// The evaluator does not evaluate call arguments itself: it hands the
// provider the raw argument nodes together with an evaluation thunk, so
// higher-order functions can apply expression references to values of
// their own choosing.
package functions

import "github.com/sandrolain/jmesq/pkg/types"

// EvalFunc re-enters the evaluator on a sub-expression against the given
// context value. The evaluation keeps the root context and lexical
// bindings of the enclosing call.
type EvalFunc func(node types.Node, context any) (any, error)

// Call carries everything a function implementation may need: the current
// context value, the root document, the lexical bindings in scope, the
// unevaluated argument nodes, and the evaluation thunk.
type Call struct {
	Context  any
	Root     any
	Bindings map[string]any
	Args     []types.Node
	Eval     EvalFunc
}

// Arg evaluates the i-th argument against the current context. Expression
// references are not evaluated; they surface as *types.ExpressionRef for
// higher-order functions to apply via Eval.
func (c *Call) Arg(i int) (any, error) {
	if ref, ok := c.Args[i].(*types.ExpressionRef); ok {
		return ref, nil
	}
	return c.Eval(c.Args[i], c.Context)
}

// Provider resolves and invokes named functions. Implementations report
// misuse through UnknownFunctionError, InvalidArityError and
// InvalidArgumentError.
type Provider interface {
	CallFunction(name string, call *Call) (any, error)
}
