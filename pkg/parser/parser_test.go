package parser

import (
	"errors"
	"testing"

	"github.com/sandrolain/jmesq/pkg/types"
)

// roundTripCase parses input, renders it, and expects the canonical text.
// An empty canonical means the input is already canonical. The canonical
// text must itself parse back to the same rendering.
type roundTripCase struct {
	name      string
	input     string
	canonical string
}

func runRoundTripTests(t *testing.T, tests []roundTripCase) {
	t.Helper()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			want := tc.canonical
			if want == "" {
				want = tc.input
			}

			expr, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.input, err)
			}
			got := types.Render(expr.AST())
			if got != want {
				t.Fatalf("Render(Parse(%q)) = %q, want %q", tc.input, got, want)
			}

			again, err := Parse(got)
			if err != nil {
				t.Fatalf("Parse(%q) (re-parse) unexpected error: %v", got, err)
			}
			if r := types.Render(again.AST()); r != got {
				t.Errorf("Render not stable: %q re-rendered as %q", got, r)
			}
		})
	}
}

func TestParsePaths(t *testing.T) {
	runRoundTripTests(t, []roundTripCase{
		{name: "identifier", input: "foo"},
		{name: "dotted path", input: "a.b.c"},
		{name: "quoted field", input: `a."b c"`, canonical: `a."b c"`},
		{name: "index access", input: "a[0]"},
		{name: "negative index", input: "a[-1]"},
		{name: "id access", input: "a['user-1']"},
		{name: "current", input: "@"},
		{name: "root path", input: "$.a", canonical: "$.a"},
		{name: "index on current", input: "[0]", canonical: "@[0]"},
	})
}

func TestParseProjections(t *testing.T) {
	runRoundTripTests(t, []roundTripCase{
		{name: "wildcard", input: "a[*]"},
		{name: "wildcard with trail", input: "a[*].b.c"},
		{name: "object wildcard", input: "a.*.b"},
		{name: "leading object wildcard", input: "*.b", canonical: "@.*.b"},
		{name: "flatten", input: "a[].b"},
		{name: "double flatten", input: "a[][]"},
		{name: "filter", input: "a[?b == 1]"},
		{name: "filter with trail", input: "a[?b].c"},
		{name: "chained filters", input: "a[?b][?c]"},
		{name: "filter then index", input: "a[?b][0]"},
		{name: "slice", input: "a[1:3]"},
		{name: "slice with step", input: "a[::2]"},
		{name: "slice open start", input: "a[:2]"},
		{name: "leading filter", input: "[?a]", canonical: "@[?a]"},
		{name: "leading flatten", input: "[].a", canonical: "@[].a"},
		{name: "projection stops at comparison", input: "a[*].b == 1"},
	})
}

func TestParseOperators(t *testing.T) {
	runRoundTripTests(t, []roundTripCase{
		{name: "pipe", input: "a | b"},
		{name: "or", input: "a || b"},
		{name: "and binds tighter than or", input: "a || b && c"},
		{name: "grouping preserved", input: "(a || b) && c"},
		{name: "not", input: "!a"},
		{name: "not group", input: "!(a || b)"},
		{name: "comparison", input: "a < b"},
		{name: "arithmetic precedence", input: "a + b * c"},
		{name: "arithmetic grouping", input: "(a + b) * c"},
		{name: "integer divide", input: "a // b"},
		{name: "modulo", input: "a % b"},
		{name: "unary minus", input: "-a"},
		{name: "negative literal", input: "-5"},
		{name: "unary minus on literal keeps space", input: "- 5"},
		{name: "ternary", input: "a ? b : c"},
		{name: "nested ternary", input: "a ? b : c ? d : e"},
		{name: "ternary then pipe", input: "a ? b : c | d"},
	})
}

func TestParseConstructs(t *testing.T) {
	runRoundTripTests(t, []roundTripCase{
		{name: "multi-select list", input: "[a, b.c]"},
		{name: "multi-select hash", input: "{x: a, y: b[0]}"},
		{name: "hash with quoted key", input: `{"x y": a}`},
		{name: "dot multi-select list", input: "a.[b, c]", canonical: "a | [b, c]"},
		{name: "dot multi-select hash", input: "a.{x: b}", canonical: "a | {x: b}"},
		{name: "function call", input: "length(a)"},
		{name: "function no args", input: "keys(@) | length(@)", canonical: "keys(@) | length(@)"},
		{name: "higher order", input: "sort_by(a, &b.c)"},
		{name: "dot function call", input: "a.length(@)", canonical: "a | length(@)"},
		{name: "expression ref", input: "&a.b"},
		{name: "variable", input: "$x.a"},
		{name: "let single", input: "let $x := a in $x.b"},
		{name: "let multiple", input: "let $x := a, $y := $x.b in $y"},
		{name: "literal string", input: "'hi'"},
		{name: "literal true", input: "true"},
		{name: "literal null", input: "null"},
		{name: "json literal array", input: "`[1, 2]`", canonical: "`[1,2]`"},
	})
}

func TestParseLiteralValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{name: "number", input: "42", want: 42.0},
		{name: "negative number", input: "-3.5", want: -3.5},
		{name: "raw string", input: "'abc'", want: "abc"},
		{name: "true", input: "true", want: true},
		{name: "false", input: "false", want: false},
		{name: "null", input: "null", want: nil},
		{name: "json number", input: "`7`", want: 7.0},
		{name: "json string", input: "`\"s\"`", want: "s"},
		{name: "invalid json falls back to string", input: "`not json`", want: "not json"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.input, err)
			}
			lit, ok := expr.AST().(*types.Literal)
			if !ok {
				t.Fatalf("Parse(%q) = %T, want *types.Literal", tc.input, expr.AST())
			}
			if lit.Value != tc.want {
				t.Errorf("Parse(%q) literal = %#v, want %#v", tc.input, lit.Value, tc.want)
			}
		})
	}
}

func TestParseStructure(t *testing.T) {
	t.Run("ternary then pipe nests pipe outermost", func(t *testing.T) {
		expr := mustParse(t, "a ? b : c | d")
		pipe, ok := expr.AST().(*types.Pipe)
		if !ok {
			t.Fatalf("AST = %T, want *types.Pipe", expr.AST())
		}
		if _, ok := pipe.LHS.(*types.Ternary); !ok {
			t.Errorf("pipe LHS = %T, want *types.Ternary", pipe.LHS)
		}
	})

	t.Run("infix star is multiplication", func(t *testing.T) {
		expr := mustParse(t, "a * b")
		arith, ok := expr.AST().(*types.Arithmetic)
		if !ok {
			t.Fatalf("AST = %T, want *types.Arithmetic", expr.AST())
		}
		if arith.Op != types.ArithMultiply {
			t.Errorf("op = %s, want %s", arith.Op, types.ArithMultiply)
		}
	})

	t.Run("dot star is a wildcard", func(t *testing.T) {
		expr := mustParse(t, "a.*")
		if _, ok := expr.AST().(*types.ObjectProject); !ok {
			t.Fatalf("AST = %T, want *types.ObjectProject", expr.AST())
		}
	})

	t.Run("projection continuation is rooted at the element", func(t *testing.T) {
		expr := mustParse(t, "a[*].b")
		proj, ok := expr.AST().(*types.Project)
		if !ok {
			t.Fatalf("AST = %T, want *types.Project", expr.AST())
		}
		fa, ok := proj.Projection.(*types.FieldAccess)
		if !ok {
			t.Fatalf("projection = %T, want *types.FieldAccess", proj.Projection)
		}
		if _, ok := fa.Expr.(*types.Current); !ok {
			t.Errorf("projection root = %T, want *types.Current", fa.Expr)
		}
	})

	t.Run("flatten terminates an enclosing projection", func(t *testing.T) {
		expr := mustParse(t, "a[*].b[]")
		if _, ok := expr.AST().(*types.Flatten); !ok {
			t.Fatalf("AST = %T, want *types.Flatten", expr.AST())
		}
	})

	t.Run("let bindings are sequential", func(t *testing.T) {
		expr := mustParse(t, "let $x := a, $y := $x in $y")
		let, ok := expr.AST().(*types.Let)
		if !ok {
			t.Fatalf("AST = %T, want *types.Let", expr.AST())
		}
		if len(let.Bindings) != 2 {
			t.Fatalf("bindings = %d, want 2", len(let.Bindings))
		}
		if let.Bindings[0].Name != "x" || let.Bindings[1].Name != "y" {
			t.Errorf("binding names = %q, %q", let.Bindings[0].Name, let.Bindings[1].Name)
		}
	})

	t.Run("let is contextual", func(t *testing.T) {
		expr := mustParse(t, "let.in")
		if _, ok := expr.AST().(*types.FieldAccess); !ok {
			t.Fatalf("AST = %T, want *types.FieldAccess", expr.AST())
		}
	})
}

func mustParse(t *testing.T, input string) *types.Expression {
	t.Helper()
	expr, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", input, err)
	}
	return expr
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  types.ErrorCode
	}{
		{name: "empty", input: "", code: types.ErrUnexpectedEOF},
		{name: "only whitespace", input: "  ", code: types.ErrUnexpectedEOF},
		{name: "dangling dot", input: "a.", code: types.ErrUnexpectedToken},
		{name: "dangling pipe", input: "a |", code: types.ErrUnexpectedEOF},
		{name: "unclosed bracket", input: "a[0", code: types.ErrUnexpectedEOF},
		{name: "unclosed filter", input: "a[?b", code: types.ErrUnexpectedEOF},
		{name: "unclosed group", input: "(a", code: types.ErrUnexpectedEOF},
		{name: "trailing junk", input: "a b", code: types.ErrUnexpectedToken},
		{name: "ternary missing colon", input: "a ? b", code: types.ErrUnexpectedEOF},
		{name: "slice non-integer", input: "a[1.5:]", code: types.ErrInvalidToken},
		{name: "let missing in", input: "let $x := a $x", code: types.ErrUnexpectedToken},
		{name: "hash missing key", input: "{: a}", code: types.ErrUnexpectedToken},
		{name: "number after dot", input: "a.0", code: types.ErrUnexpectedToken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tc.input)
			}
			var serr *types.SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("Parse(%q) error type %T, want *types.SyntaxError", tc.input, err)
			}
			if serr.Code != tc.code {
				t.Errorf("Parse(%q) error code %s, want %s", tc.input, serr.Code, tc.code)
			}
			if serr.Source != tc.input {
				t.Errorf("Parse(%q) error source %q", tc.input, serr.Source)
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	t.Run("strict json literals", func(t *testing.T) {
		if _, err := Parse("`not json`", WithStrictJSONLiterals(true)); err == nil {
			t.Fatal("expected error for invalid JSON literal in strict mode")
		}
	})

	t.Run("raw string escapes disabled", func(t *testing.T) {
		expr, err := Parse(`'a\nb'`, WithRawStringEscapes(false))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lit := expr.AST().(*types.Literal)
		if lit.Value != `a\nb` {
			t.Errorf("literal = %q, want %q", lit.Value, `a\nb`)
		}
	})

	t.Run("max depth", func(t *testing.T) {
		if _, err := Parse("((((a))))", WithMaxDepth(3)); err == nil {
			t.Fatal("expected depth error")
		}
		if _, err := Parse("((((a))))", WithMaxDepth(50)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"a.b.c",
		"a[*].b",
		"items[?price > 100].name",
		"a[1:10:2]",
		"let $x := a in $x | b",
		"{x: a, y: [b, c]}",
		"sort_by(a, &b) | [0]",
		"`{\"k\": [1, 2]}`",
		"'it\\'s' == \"it's\"",
		"a.b[0][*].c[?d][]",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		expr, err := Parse(input)
		if err != nil {
			return
		}
		// A render of a parsed tree must re-parse, and re-rendering must
		// be a fixed point.
		text := types.Render(expr.AST())
		again, err := Parse(text)
		if err != nil {
			t.Fatalf("Render(%q) = %q does not re-parse: %v", input, text, err)
		}
		if r := types.Render(again.AST()); r != text {
			t.Fatalf("render not stable for %q: %q != %q", input, r, text)
		}
	})
}
