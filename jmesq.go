// Package jmesq provides a query-expression engine for JSON-shaped data:
// a JMESPath-style selector language with read evaluation plus writable
// accessors exposing get, set and delete through the same selectors.
//
// # Quick Start
//
//	// Simple evaluation
//	result, err := jmesq.Search("users[?age > `30`].name", data)
//
//	// Compile once, evaluate many times
//	expr, err := jmesq.Compile("users[?age > `30`].name")
//	result1, _ := jmesq.Eval(expr, data1)
//	result2, _ := jmesq.Eval(expr, data2)
//
//	// Writable accessors: set and delete return the possibly-replaced
//	// document, so always keep the result.
//	acc, err := jmesq.Access("items[?price > `100`]")
//	doc = acc.Delete(doc)
//
// # Concurrency
//
// Compiled expressions and accessors are immutable and safe for
// concurrent reads. Concurrent writes against one shared document
// require caller-side serialization.
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/jmesq/pkg/parser
//   - Evaluator: github.com/sandrolain/jmesq/pkg/evaluator
//   - Accessor: github.com/sandrolain/jmesq/pkg/accessor
//   - Functions: github.com/sandrolain/jmesq/pkg/functions
//   - Types: github.com/sandrolain/jmesq/pkg/types
package jmesq

import (
	"fmt"

	"github.com/sandrolain/jmesq/pkg/accessor"
	"github.com/sandrolain/jmesq/pkg/cache"
	"github.com/sandrolain/jmesq/pkg/evaluator"
	"github.com/sandrolain/jmesq/pkg/parser"
	"github.com/sandrolain/jmesq/pkg/types"
)

// Version returns the current version of the module.
func Version() string {
	return "v0.1.0-dev"
}

// Compile compiles a selector for repeated evaluation.
//
// The compiled expression can be evaluated multiple times against
// different documents. It is safe for concurrent use.
func Compile(selector string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(selector, opts...)
}

// MustCompile is like Compile but panics if the selector cannot be
// compiled. It simplifies safe initialization of global variables.
func MustCompile(selector string) *types.Expression {
	expr, err := Compile(selector)
	if err != nil {
		panic(fmt.Sprintf("jmesq: Compile(%q): %v", selector, err))
	}
	return expr
}

// Eval evaluates a compiled expression against data with default
// evaluator options.
func Eval(expr *types.Expression, data any, opts ...evaluator.Option) (any, error) {
	return evaluator.New(opts...).Eval(expr, data)
}

// Search compiles and evaluates a selector in a single call.
//
// For repeated evaluations of the same selector, use Compile, or a
// Searcher with caching enabled.
func Search(selector string, data any, opts ...evaluator.Option) (any, error) {
	expr, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return Eval(expr, data, opts...)
}

// Access compiles a selector into a writable accessor.
func Access(selector string, opts ...accessor.Option) (*accessor.Accessor, error) {
	expr, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return accessor.Compile(expr, opts...), nil
}

// SearcherOption configures a Searcher.
type SearcherOption func(*searcherOptions)

type searcherOptions struct {
	caching     bool
	cacheSize   int
	compileOpts []parser.CompileOption
	evalOpts    []evaluator.Option
}

// WithCaching enables the LRU compile cache.
func WithCaching(enable bool) SearcherOption {
	return func(o *searcherOptions) {
		o.caching = enable
	}
}

// WithCacheSize sets the compile cache capacity. Implies caching.
func WithCacheSize(size int) SearcherOption {
	return func(o *searcherOptions) {
		o.caching = true
		o.cacheSize = size
	}
}

// WithCompileOptions sets parser options applied to every compilation.
func WithCompileOptions(opts ...parser.CompileOption) SearcherOption {
	return func(o *searcherOptions) {
		o.compileOpts = append(o.compileOpts, opts...)
	}
}

// WithEvalOptions sets evaluator options applied to every search.
func WithEvalOptions(opts ...evaluator.Option) SearcherOption {
	return func(o *searcherOptions) {
		o.evalOpts = append(o.evalOpts, opts...)
	}
}

// Searcher bundles a parser configuration, an evaluator and an optional
// compile cache behind one reusable front end. Safe for concurrent use.
type Searcher struct {
	opts  searcherOptions
	ev    *evaluator.Evaluator
	cache *cache.Cache
}

// NewSearcher returns a Searcher with the given options applied.
func NewSearcher(opts ...SearcherOption) *Searcher {
	options := searcherOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s := &Searcher{
		opts: options,
		ev:   evaluator.New(options.evalOpts...),
	}
	if options.caching {
		s.cache = cache.New(options.cacheSize)
	}
	return s
}

// Compile compiles a selector through the searcher's cache when caching
// is enabled.
func (s *Searcher) Compile(selector string) (*types.Expression, error) {
	if s.cache == nil {
		return parser.Compile(selector, s.opts.compileOpts...)
	}
	return s.cache.GetOrCompile(selector, func() (*types.Expression, error) {
		return parser.Compile(selector, s.opts.compileOpts...)
	})
}

// Search compiles (or retrieves from cache) and evaluates a selector.
func (s *Searcher) Search(selector string, data any) (any, error) {
	expr, err := s.Compile(selector)
	if err != nil {
		return nil, err
	}
	return s.ev.Eval(expr, data)
}

// Access compiles (or retrieves from cache) a selector into a writable
// accessor sharing the searcher's evaluator.
func (s *Searcher) Access(selector string) (*accessor.Accessor, error) {
	expr, err := s.Compile(selector)
	if err != nil {
		return nil, err
	}
	return accessor.Compile(expr, accessor.WithEvaluator(s.ev)), nil
}
