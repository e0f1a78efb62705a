package accessor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/jmesq/pkg/parser"
	"github.com/sandrolain/jmesq/pkg/types"
)

func compile(t *testing.T, selector string) *Accessor {
	t.Helper()
	expr, err := parser.Parse(selector)
	require.NoError(t, err, "parse %q", selector)
	return Compile(expr)
}

func doc(t *testing.T, text string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	return v
}

func TestAccessorGet(t *testing.T) {
	data := doc(t, `{"a": {"b": [1, 2, 3]}, "users": [{"id": "u1", "age": 30}]}`)

	assert.Equal(t, 2.0, compile(t, "a.b[1]").Get(data))
	assert.Equal(t, 30.0, compile(t, "users['u1'].age").Get(data))
	assert.Nil(t, compile(t, "a.missing").Get(data))
	assert.Nil(t, compile(t, "a.b[9]").Get(data))
}

func TestAccessorGetOrThrow(t *testing.T) {
	data := doc(t, `{"a": {"b": [1]}}`)

	t.Run("absent value on matching structure is null", func(t *testing.T) {
		v, err := compile(t, "a.missing").GetOrThrow(data)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("wrong container kind errors", func(t *testing.T) {
		_, err := compile(t, "a.b.c").GetOrThrow(data)
		var aerr *types.AccessorError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, types.ReasonTypeMismatch, aerr.Reason)
		assert.Equal(t, types.OpGet, aerr.Op)
		assert.Equal(t, "a.b.c", aerr.Path)
	})

	t.Run("index out of bounds errors", func(t *testing.T) {
		_, err := compile(t, "a.b[5]").GetOrThrow(data)
		var aerr *types.AccessorError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, types.ReasonIndexOutOfBounds, aerr.Reason)
	})

	t.Run("missing id errors", func(t *testing.T) {
		_, err := compile(t, "a.b['nope']").GetOrThrow(data)
		var aerr *types.AccessorError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, types.ReasonMissingID, aerr.Reason)
	})
}

func TestAccessorSetField(t *testing.T) {
	data := doc(t, `{"a": {"b": 1}}`)

	out := compile(t, "a.b").Set(data, 9.0)
	assert.Equal(t, doc(t, `{"a": {"b": 9}}`), out)

	out = compile(t, "a.c").Set(out, "new")
	assert.Equal(t, doc(t, `{"a": {"b": 9, "c": "new"}}`), out)

	t.Run("best effort no-ops on mismatch", func(t *testing.T) {
		data := doc(t, `{"a": [1]}`)
		out := compile(t, "a.b").Set(data, 1.0)
		assert.Equal(t, doc(t, `{"a": [1]}`), out)
	})

	t.Run("strict errors on mismatch", func(t *testing.T) {
		data := doc(t, `{"a": [1]}`)
		_, err := compile(t, "a.b").SetOrThrow(data, 1.0)
		var aerr *types.AccessorError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, types.ReasonTypeMismatch, aerr.Reason)
		assert.Equal(t, types.OpSet, aerr.Op)
	})

	t.Run("strict reports missing parent", func(t *testing.T) {
		data := doc(t, `{}`)
		_, err := compile(t, "a.b").SetOrThrow(data, 1.0)
		var aerr *types.AccessorError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, types.ReasonMissingParent, aerr.Reason)
	})
}

func TestAccessorIndexWrites(t *testing.T) {
	t.Run("set in place", func(t *testing.T) {
		data := doc(t, `{"a": [1, 2, 3]}`)
		out := compile(t, "a[1]").Set(data, 9.0)
		assert.Equal(t, doc(t, `{"a": [1, 9, 3]}`), out)
	})

	t.Run("negative index write", func(t *testing.T) {
		data := doc(t, `{"a": [1, 2, 3]}`)
		out := compile(t, "a[-1]").Set(data, 9.0)
		assert.Equal(t, doc(t, `{"a": [1, 2, 9]}`), out)
	})

	t.Run("delete splices", func(t *testing.T) {
		data := doc(t, `{"a": [1, 2, 3]}`)
		out := compile(t, "a[1]").Delete(data)
		assert.Equal(t, doc(t, `{"a": [1, 3]}`), out)
	})

	t.Run("delete at top level replaces document", func(t *testing.T) {
		data := doc(t, `[1, 2, 3]`)
		out := compile(t, "@[0]").Delete(data)
		assert.Equal(t, doc(t, `[2, 3]`), out)
	})

	t.Run("strict delete out of bounds", func(t *testing.T) {
		data := doc(t, `{"a": [1]}`)
		_, err := compile(t, "a[5]").DeleteOrThrow(data)
		var aerr *types.AccessorError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, types.ReasonIndexOutOfBounds, aerr.Reason)
		assert.Equal(t, types.OpDelete, aerr.Op)
	})
}

func TestAccessorIDWrites(t *testing.T) {
	data := doc(t, `{"users": [{"id": "u1"}, {"id": "u2"}]}`)

	out := compile(t, "users['u2']").Set(data, map[string]any{"id": "u2", "x": 1.0})
	assert.Equal(t, doc(t, `{"users": [{"id": "u1"}, {"id": "u2", "x": 1}]}`), out)

	out = compile(t, "users['u1']").Delete(out)
	assert.Equal(t, doc(t, `{"users": [{"id": "u2", "x": 1}]}`), out)

	t.Run("strict missing id", func(t *testing.T) {
		data := doc(t, `{"users": []}`)
		_, err := compile(t, "users['nope']").DeleteOrThrow(data)
		var aerr *types.AccessorError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, types.ReasonMissingID, aerr.Reason)
	})
}

func TestAccessorFilterInversion(t *testing.T) {
	t.Run("set appends to complement", func(t *testing.T) {
		data := doc(t, `[1, 2, 3, 4, 5]`)
		out := compile(t, "@[?@ > 3]").Set(data, []any{9.0})
		assert.Equal(t, doc(t, `[1, 2, 3, 9]`), out)
	})

	t.Run("set coerces scalar", func(t *testing.T) {
		data := doc(t, `[1, 5]`)
		out := compile(t, "@[?@ > 3]").Set(data, 7.0)
		assert.Equal(t, doc(t, `[1, 7]`), out)
	})

	t.Run("delete keeps complement in order", func(t *testing.T) {
		data := doc(t, `[5, 1, 4, 2, 3]`)
		out := compile(t, "@[?@ > 3]").Delete(data)
		assert.Equal(t, doc(t, `[1, 2, 3]`), out)
	})

	t.Run("get after delete is empty", func(t *testing.T) {
		acc := compile(t, "@[?@ > 3]")
		out := acc.Delete(doc(t, `[1, 2, 3, 4, 5]`))
		assert.Equal(t, []any{}, acc.Get(out))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		acc := compile(t, "items[?done]")
		data := doc(t, `{"items": [{"done": true}, {"done": false}]}`)
		once := acc.Delete(data)
		twice := acc.Delete(once)
		assert.Equal(t, doc(t, `{"items": [{"done": false}]}`), twice)
	})

	t.Run("filter with continuation pushes down", func(t *testing.T) {
		data := doc(t, `{"users": [{"adm": true, "n": 1}, {"adm": false, "n": 2}]}`)
		out := compile(t, "users[?adm].n").Set(data, 0.0)
		assert.Equal(t, doc(t, `{"users": [{"adm": true, "n": 0}, {"adm": false, "n": 2}]}`), out)
	})
}

func TestAccessorSliceInversion(t *testing.T) {
	t.Run("delete removes selected range", func(t *testing.T) {
		data := doc(t, `[0, 1, 2, 3, 4]`)
		out := compile(t, "@[1:3]").Delete(data)
		assert.Equal(t, doc(t, `[0, 3, 4]`), out)
	})

	t.Run("delete with step matches read selection", func(t *testing.T) {
		acc := compile(t, "@[::2]")
		data := doc(t, `[0, 1, 2, 3, 4]`)
		out := acc.Delete(data)
		assert.Equal(t, doc(t, `[1, 3]`), out)
		assert.Equal(t, []any{}, acc.Get(doc(t, `[]`)))
	})

	t.Run("set replaces selected range", func(t *testing.T) {
		data := doc(t, `[0, 1, 2, 3]`)
		out := compile(t, "@[0:2]").Set(data, []any{9.0})
		assert.Equal(t, doc(t, `[2, 3, 9]`), out)
	})
}

func TestAccessorProjectionWrites(t *testing.T) {
	t.Run("wildcard set replaces container", func(t *testing.T) {
		data := doc(t, `{"a": [1, 2, 3]}`)
		out := compile(t, "a[*]").Set(data, []any{9.0, 8.0})
		assert.Equal(t, doc(t, `{"a": [9, 8]}`), out)
	})

	t.Run("wildcard delete empties container", func(t *testing.T) {
		data := doc(t, `{"a": [1, 2]}`)
		out := compile(t, "a[*]").Delete(data)
		assert.Equal(t, doc(t, `{"a": []}`), out)
	})

	t.Run("wildcard with continuation writes every element", func(t *testing.T) {
		data := doc(t, `{"a": [{"b": 1}, {"b": 2}]}`)
		out := compile(t, "a[*].b").Set(data, 0.0)
		assert.Equal(t, doc(t, `{"a": [{"b": 0}, {"b": 0}]}`), out)
	})

	t.Run("wildcard with continuation deletes every element field", func(t *testing.T) {
		data := doc(t, `{"a": [{"b": 1, "c": 2}, {"b": 3}]}`)
		out := compile(t, "a[*].b").Delete(data)
		assert.Equal(t, doc(t, `{"a": [{"c": 2}, {}]}`), out)
	})

	t.Run("object wildcard set overwrites every value", func(t *testing.T) {
		data := doc(t, `{"a": {"x": 1, "y": 2}}`)
		out := compile(t, "a.*").Set(data, 0.0)
		assert.Equal(t, doc(t, `{"a": {"x": 0, "y": 0}}`), out)
	})

	t.Run("object wildcard delete removes every key", func(t *testing.T) {
		data := doc(t, `{"a": {"x": 1, "y": 2}}`)
		out := compile(t, "a.*").Delete(data)
		assert.Equal(t, doc(t, `{"a": {}}`), out)
	})

	t.Run("flatten set replaces with coerced array", func(t *testing.T) {
		data := doc(t, `{"a": [[1], [2, 3]]}`)
		out := compile(t, "a[]").Set(data, 9.0)
		assert.Equal(t, doc(t, `{"a": [9]}`), out)
	})

	t.Run("flatten delete empties", func(t *testing.T) {
		data := doc(t, `{"a": [[1], [2]]}`)
		out := compile(t, "a[]").Delete(data)
		assert.Equal(t, doc(t, `{"a": []}`), out)
	})
}

func TestAccessorPipeWrites(t *testing.T) {
	t.Run("write forwards through pipe", func(t *testing.T) {
		data := doc(t, `{"a": {"b": {"c": 1}}}`)
		out := compile(t, "a.b | c").Set(data, 9.0)
		assert.Equal(t, doc(t, `{"a": {"b": {"c": 9}}}`), out)
	})

	t.Run("container rewrite propagates through pipe", func(t *testing.T) {
		data := doc(t, `{"a": {"b": [1, 2, 3]}}`)
		out := compile(t, "a.b | @[0]").Delete(data)
		assert.Equal(t, doc(t, `{"a": {"b": [2, 3]}}`), out)
	})
}

func TestAccessorReadOnly(t *testing.T) {
	data := doc(t, `{"a": 1, "b": 2}`)

	for _, selector := range []string{"a + b", "a == b", "!a", "length(a)", "`1`", "[a, b]", "{x: a}", "@", "$"} {
		acc := compile(t, selector)

		out := acc.Set(data, 0.0)
		assert.Equal(t, doc(t, `{"a": 1, "b": 2}`), out, "best-effort set of %q must no-op", selector)

		_, err := acc.SetOrThrow(data, 0.0)
		var aerr *types.AccessorError
		require.ErrorAs(t, err, &aerr, "strict set of %q", selector)
		assert.Equal(t, types.ReasonNotWritable, aerr.Reason)

		_, err = acc.DeleteOrThrow(data)
		require.ErrorAs(t, err, &aerr, "strict delete of %q", selector)
		assert.Equal(t, types.ReasonNotWritable, aerr.Reason)
	}
}

func TestAccessorIsValidContext(t *testing.T) {
	acc := compile(t, "a.b[0]")

	assert.True(t, acc.IsValidContext(doc(t, `{"a": {"b": [null]}}`)), "null value still has valid structure")
	assert.False(t, acc.IsValidContext(doc(t, `{"a": {"b": []}}`)), "index out of range")
	assert.False(t, acc.IsValidContext(doc(t, `{"a": {"b": {}}}`)), "wrong container kind")
	assert.False(t, acc.IsValidContext(doc(t, `{}`)), "missing parent")

	assert.True(t, compile(t, "a + b").IsValidContext(doc(t, `{}`)), "pure combinators always apply")
}

func TestAccessorNilSliceWrites(t *testing.T) {
	// A nil []any is an empty array, not a type mismatch; writes through
	// filters, slices and wildcards must treat it like [].
	t.Run("filter set refills a nil slice", func(t *testing.T) {
		data := map[string]any{"items": []any(nil)}
		out, err := compile(t, "items[?@ > `3`]").SetOrThrow(data, 9.0)
		require.NoError(t, err)
		assert.Equal(t, doc(t, `{"items": [9]}`), out)
	})

	t.Run("slice set refills a nil slice", func(t *testing.T) {
		data := map[string]any{"items": []any(nil)}
		out, err := compile(t, "items[0:2]").SetOrThrow(data, []any{1.0})
		require.NoError(t, err)
		assert.Equal(t, doc(t, `{"items": [1]}`), out)
	})

	t.Run("wildcard delete leaves an empty array", func(t *testing.T) {
		data := map[string]any{"items": []any(nil)}
		out, err := compile(t, "items[*]").DeleteOrThrow(data)
		require.NoError(t, err)
		assert.Equal(t, doc(t, `{"items": []}`), out)
	})

	t.Run("flatten set replaces a nil slice", func(t *testing.T) {
		data := map[string]any{"items": []any(nil)}
		out, err := compile(t, "items[]").SetOrThrow(data, 7.0)
		require.NoError(t, err)
		assert.Equal(t, doc(t, `{"items": [7]}`), out)
	})
}

func TestAccessorSelector(t *testing.T) {
	assert.Equal(t, "a.b[0]", compile(t, "a.b[0]").Selector())
}
