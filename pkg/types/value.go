package types

import (
	"reflect"
	"sort"
)

// Values handled by the engine are the JSON-like kinds produced by
// encoding/json: nil, bool, float64, string, []any and map[string]any.
// Integer Go values are tolerated on input and coerced through AsNumber.

// AsNumber reports v as a float64 when it is a numeric value.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Equal reports deep structural equality of two JSON-like values.
// Numbers compare by value regardless of their Go representation.
func Equal(a, b any) bool {
	if an, ok := AsNumber(a); ok {
		bn, ok := AsNumber(b)
		return ok && an == bn
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, present := bv[k]
			if !present || !Equal(v, bvv) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// IsFalseOrEmpty is the language's truthiness predicate, used by not, and,
// or, filters and the ternary condition: false, null, the empty string,
// the empty array and the empty object are false-or-empty. Numbers,
// including zero, never are.
func IsFalseOrEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// SortedKeys returns the keys of m in lexical order. Object wildcards and
// object-valued builtins iterate in this order so results are
// deterministic.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SliceIndices resolves a slice's start/end/step against a container of
// length n and returns the selected indices in traversal order.
//
// A nil component defaults to the natural traversal bound implied by the
// step's sign. Out-of-range bounds clamp rather than error: negative
// values add n (clamped to the natural bound if still negative) and
// values at or over n clamp to the natural bound. A zero step is a
// runtime error.
//
// The read path and the write path's inversion both use this function, so
// a slice always selects exactly the same element set in either mode.
func SliceIndices(start, end, step *int, n int) ([]int, error) {
	st := 1
	if step != nil {
		st = *step
	}
	if st == 0 {
		return nil, NewRuntimeError(ErrInvalidSliceStep, "slice step cannot be zero")
	}

	lo := 0
	hi := n
	if st < 0 {
		lo = n - 1
		hi = -1
	}

	from := lo
	if start != nil {
		from = clampSliceBound(*start, n, st)
	}
	to := hi
	if end != nil {
		to = clampSliceBound(*end, n, st)
	}

	var indices []int
	if st > 0 {
		for i := from; i < to; i += st {
			indices = append(indices, i)
		}
	} else {
		for i := from; i > to; i += st {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

func clampSliceBound(v, n, step int) int {
	if v < 0 {
		v += n
		if v < 0 {
			if step < 0 {
				return -1
			}
			return 0
		}
		return v
	}
	if v >= n {
		if step < 0 {
			return n - 1
		}
		return n
	}
	return v
}
