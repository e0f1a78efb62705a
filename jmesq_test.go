package jmesq_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/jmesq"
	"github.com/sandrolain/jmesq/pkg/evaluator"
	"github.com/sandrolain/jmesq/pkg/types"
)

type searchCase struct {
	Name     string `yaml:"name"`
	Selector string `yaml:"selector"`
	Data     any    `yaml:"data"`
	Result   any    `yaml:"result"`
	Error    bool   `yaml:"error"`
}

type searchGroup struct {
	Group string       `yaml:"group"`
	Cases []searchCase `yaml:"cases"`
}

type accessCase struct {
	Name     string `yaml:"name"`
	Selector string `yaml:"selector"`
	Doc      any    `yaml:"doc"`
	Op       string `yaml:"op"`
	Value    any    `yaml:"value"`
	Result   any    `yaml:"result"`
	Want     any    `yaml:"want"`
}

type accessGroup struct {
	Group string       `yaml:"group"`
	Cases []accessCase `yaml:"cases"`
}

func loadFixtures[T any](t *testing.T, name string) []T {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "reading fixture %s", name)
	var groups []T
	require.NoError(t, yaml.Unmarshal(raw, &groups), "parsing fixture %s", name)
	return groups
}

func TestSearchSuite(t *testing.T) {
	for _, g := range loadFixtures[searchGroup](t, "search.yaml") {
		t.Run(g.Group, func(t *testing.T) {
			for _, tc := range g.Cases {
				t.Run(tc.Name, func(t *testing.T) {
					got, err := jmesq.Search(tc.Selector, tc.Data)
					if tc.Error {
						require.Error(t, err, "selector %q", tc.Selector)
						return
					}
					require.NoError(t, err, "selector %q", tc.Selector)
					assert.True(t, types.Equal(tc.Result, got),
						"selector %q: got %#v, want %#v", tc.Selector, got, tc.Result)
				})
			}
		})
	}
}

func TestAccessSuite(t *testing.T) {
	for _, g := range loadFixtures[accessGroup](t, "access.yaml") {
		t.Run(g.Group, func(t *testing.T) {
			for _, tc := range g.Cases {
				t.Run(tc.Name, func(t *testing.T) {
					acc, err := jmesq.Access(tc.Selector)
					require.NoError(t, err, "selector %q", tc.Selector)

					switch tc.Op {
					case "get":
						got := acc.Get(tc.Doc)
						assert.True(t, types.Equal(tc.Result, got),
							"get %q: got %#v, want %#v", tc.Selector, got, tc.Result)
					case "set":
						doc := acc.Set(tc.Doc, tc.Value)
						assert.True(t, types.Equal(tc.Want, doc),
							"set %q: got %#v, want %#v", tc.Selector, doc, tc.Want)
					case "delete":
						doc := acc.Delete(tc.Doc)
						assert.True(t, types.Equal(tc.Want, doc),
							"delete %q: got %#v, want %#v", tc.Selector, doc, tc.Want)
					default:
						t.Fatalf("unknown op %q", tc.Op)
					}
				})
			}
		})
	}
}

func TestCompileEval(t *testing.T) {
	expr, err := jmesq.Compile("a.b")
	require.NoError(t, err)

	got, err := jmesq.Eval(expr, map[string]any{"a": map[string]any{"b": 1.0}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	// The same compiled expression works against a second document.
	got, err = jmesq.Eval(expr, map[string]any{"a": map[string]any{"b": "x"}})
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestCompileError(t *testing.T) {
	_, err := jmesq.Compile("a.[")
	require.Error(t, err)
	var serr *types.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "a.[", serr.Source)
}

func TestMustCompile(t *testing.T) {
	expr := jmesq.MustCompile("a")
	require.NotNil(t, expr)

	assert.Panics(t, func() { jmesq.MustCompile("a ||") })
}

func TestSearchWithEvalOptions(t *testing.T) {
	_, err := jmesq.Search("a.b.c", map[string]any{}, evaluator.WithMaxDepth(1))
	require.Error(t, err)
	var rerr *types.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, types.ErrMaxDepth, rerr.Code)
}

func TestSearcherCaching(t *testing.T) {
	s := jmesq.NewSearcher(jmesq.WithCaching(true))

	first, err := s.Compile("a.b")
	require.NoError(t, err)
	second, err := s.Compile("a.b")
	require.NoError(t, err)
	assert.Same(t, first, second, "expected the cached expression on the second compile")

	got, err := s.Search("a.b", map[string]any{"a": map[string]any{"b": true}})
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestSearcherWithoutCaching(t *testing.T) {
	s := jmesq.NewSearcher()

	first, err := s.Compile("a")
	require.NoError(t, err)
	second, err := s.Compile("a")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestSearcherCacheSize(t *testing.T) {
	// WithCacheSize implies caching.
	s := jmesq.NewSearcher(jmesq.WithCacheSize(2))
	first, err := s.Compile("a")
	require.NoError(t, err)
	second, err := s.Compile("a")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSearcherAccess(t *testing.T) {
	s := jmesq.NewSearcher(jmesq.WithCaching(true))
	acc, err := s.Access("a.b")
	require.NoError(t, err)

	doc := acc.Set(map[string]any{"a": map[string]any{}}, 1.0)
	assert.True(t, types.Equal(map[string]any{"a": map[string]any{"b": 1.0}}, doc))
}

func TestAccessCompileError(t *testing.T) {
	_, err := jmesq.Access("a.[")
	require.Error(t, err)
}

func TestAccessorSelectorRoundTrip(t *testing.T) {
	acc, err := jmesq.Access("users[?age > `30`].name")
	require.NoError(t, err)
	assert.Contains(t, acc.Selector(), "users")
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, jmesq.Version())
}
