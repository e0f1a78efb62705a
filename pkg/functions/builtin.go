package functions

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sandrolain/jmesq/pkg/types"
)

// builtinFunc receives the positional arguments already evaluated; any
// expression-reference argument arrives as *types.ExpressionRef.
type builtinFunc func(name string, call *Call, args []any) (any, error)

type registryEntry struct {
	minArgs int
	maxArgs int // -1 means variadic
	fn      builtinFunc
}

// Registry is a Provider backed by a name-to-function map. The zero value
// is not usable; construct via NewRegistry, which preloads the builtins.
type Registry struct {
	entries map[string]registryEntry
}

// NewRegistry returns a Registry with the default builtin library
// registered.
func NewRegistry() *Registry {
	r := &Registry{entries: map[string]registryEntry{}}
	r.registerBuiltins()
	return r
}

// Register adds or replaces a function. maxArgs of -1 makes the function
// variadic above minArgs.
func (r *Registry) Register(name string, minArgs, maxArgs int, fn builtinFunc) {
	r.entries[name] = registryEntry{minArgs: minArgs, maxArgs: maxArgs, fn: fn}
}

// CallFunction implements Provider.
func (r *Registry) CallFunction(name string, call *Call) (any, error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}

	n := len(call.Args)
	if n < entry.minArgs || (entry.maxArgs >= 0 && n > entry.maxArgs) {
		expected := strconv.Itoa(entry.minArgs)
		if entry.maxArgs < 0 {
			expected = "at least " + expected
		} else if entry.maxArgs != entry.minArgs {
			expected = fmt.Sprintf("%d to %d", entry.minArgs, entry.maxArgs)
		}
		return nil, &InvalidArityError{Name: name, Expected: expected, Got: n}
	}

	args := make([]any, n)
	for i := range call.Args {
		v, err := call.Arg(i)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	return entry.fn(name, call, args)
}

func (r *Registry) registerBuiltins() {
	r.Register("abs", 1, 1, builtinAbs)
	r.Register("avg", 1, 1, builtinAvg)
	r.Register("ceil", 1, 1, builtinCeil)
	r.Register("contains", 2, 2, builtinContains)
	r.Register("ends_with", 2, 2, builtinEndsWith)
	r.Register("floor", 1, 1, builtinFloor)
	r.Register("join", 2, 2, builtinJoin)
	r.Register("keys", 1, 1, builtinKeys)
	r.Register("length", 1, 1, builtinLength)
	r.Register("map", 2, 2, builtinMap)
	r.Register("max", 1, 1, builtinMax)
	r.Register("max_by", 2, 2, builtinMaxBy)
	r.Register("merge", 1, -1, builtinMerge)
	r.Register("min", 1, 1, builtinMin)
	r.Register("min_by", 2, 2, builtinMinBy)
	r.Register("not_null", 1, -1, builtinNotNull)
	r.Register("reverse", 1, 1, builtinReverse)
	r.Register("sort", 1, 1, builtinSort)
	r.Register("sort_by", 2, 2, builtinSortBy)
	r.Register("starts_with", 2, 2, builtinStartsWith)
	r.Register("sum", 1, 1, builtinSum)
	r.Register("to_array", 1, 1, builtinToArray)
	r.Register("to_number", 1, 1, builtinToNumber)
	r.Register("to_string", 1, 1, builtinToString)
	r.Register("type", 1, 1, builtinType)
	r.Register("values", 1, 1, builtinValues)
}

// Argument coercion helpers.

func numberArg(name string, args []any, i int) (float64, error) {
	f, ok := types.AsNumber(args[i])
	if !ok {
		return 0, &InvalidArgumentError{Name: name, Message: fmt.Sprintf("argument %d must be a number", i+1)}
	}
	return f, nil
}

func stringArg(name string, args []any, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", &InvalidArgumentError{Name: name, Message: fmt.Sprintf("argument %d must be a string", i+1)}
	}
	return s, nil
}

func arrayArg(name string, args []any, i int) ([]any, error) {
	a, ok := args[i].([]any)
	if !ok {
		return nil, &InvalidArgumentError{Name: name, Message: fmt.Sprintf("argument %d must be an array", i+1)}
	}
	return a, nil
}

func objectArg(name string, args []any, i int) (map[string]any, error) {
	m, ok := args[i].(map[string]any)
	if !ok {
		return nil, &InvalidArgumentError{Name: name, Message: fmt.Sprintf("argument %d must be an object", i+1)}
	}
	return m, nil
}

func refArg(name string, args []any, i int) (*types.ExpressionRef, error) {
	ref, ok := args[i].(*types.ExpressionRef)
	if !ok {
		return nil, &InvalidArgumentError{Name: name, Message: fmt.Sprintf("argument %d must be an expression reference", i+1)}
	}
	return ref, nil
}

func numberArrayArg(name string, args []any, i int) ([]float64, error) {
	arr, err := arrayArg(name, args, i)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(arr))
	for j, v := range arr {
		f, ok := types.AsNumber(v)
		if !ok {
			return nil, &InvalidArgumentError{Name: name, Message: "array elements must be numbers"}
		}
		out[j] = f
	}
	return out, nil
}

// Builtins.

func builtinAbs(name string, _ *Call, args []any) (any, error) {
	f, err := numberArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	return math.Abs(f), nil
}

func builtinAvg(name string, _ *Call, args []any) (any, error) {
	nums, err := numberArrayArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, nil
	}
	var sum float64
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums)), nil
}

func builtinCeil(name string, _ *Call, args []any) (any, error) {
	f, err := numberArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	return math.Ceil(f), nil
}

func builtinContains(name string, _ *Call, args []any) (any, error) {
	switch subject := args[0].(type) {
	case string:
		s, ok := args[1].(string)
		if !ok {
			return false, nil
		}
		return strings.Contains(subject, s), nil
	case []any:
		for _, v := range subject {
			if types.Equal(v, args[1]) {
				return true, nil
			}
		}
		return false, nil
	default:
		return nil, &InvalidArgumentError{Name: name, Message: "argument 1 must be a string or array"}
	}
}

func builtinEndsWith(name string, _ *Call, args []any) (any, error) {
	subject, err := stringArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	suffix, err := stringArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	return strings.HasSuffix(subject, suffix), nil
}

func builtinFloor(name string, _ *Call, args []any) (any, error) {
	f, err := numberArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	return math.Floor(f), nil
}

func builtinJoin(name string, _ *Call, args []any) (any, error) {
	glue, err := stringArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	arr, err := arrayArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, &InvalidArgumentError{Name: name, Message: "array elements must be strings"}
		}
		parts[i] = s
	}
	return strings.Join(parts, glue), nil
}

func builtinKeys(name string, _ *Call, args []any) (any, error) {
	m, err := objectArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	keys := types.SortedKeys(m)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out, nil
}

func builtinLength(name string, _ *Call, args []any) (any, error) {
	switch v := args[0].(type) {
	case string:
		return float64(utf8.RuneCountInString(v)), nil
	case []any:
		return float64(len(v)), nil
	case map[string]any:
		return float64(len(v)), nil
	default:
		return nil, &InvalidArgumentError{Name: name, Message: "argument 1 must be a string, array or object"}
	}
}

func builtinMap(name string, call *Call, args []any) (any, error) {
	ref, err := refArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	arr, err := arrayArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(arr))
	for i, v := range arr {
		r, err := call.Eval(ref.Expr, v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// comparableArray validates an array of all numbers or all strings and
// returns a less-than comparator over its elements.
func comparableArray(name string, arr []any) (func(a, b any) bool, error) {
	if len(arr) == 0 {
		return nil, nil
	}
	switch arr[0].(type) {
	case string:
		for _, v := range arr {
			if _, ok := v.(string); !ok {
				return nil, &InvalidArgumentError{Name: name, Message: "array elements must be all numbers or all strings"}
			}
		}
		return func(a, b any) bool { return a.(string) < b.(string) }, nil
	default:
		for _, v := range arr {
			if _, ok := types.AsNumber(v); !ok {
				return nil, &InvalidArgumentError{Name: name, Message: "array elements must be all numbers or all strings"}
			}
		}
		return func(a, b any) bool {
			fa, _ := types.AsNumber(a)
			fb, _ := types.AsNumber(b)
			return fa < fb
		}, nil
	}
}

func builtinMax(name string, _ *Call, args []any) (any, error) {
	arr, err := arrayArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	less, err := comparableArray(name, arr)
	if err != nil {
		return nil, err
	}
	if less == nil {
		return nil, nil
	}
	best := arr[0]
	for _, v := range arr[1:] {
		if less(best, v) {
			best = v
		}
	}
	return best, nil
}

func builtinMin(name string, _ *Call, args []any) (any, error) {
	arr, err := arrayArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	less, err := comparableArray(name, arr)
	if err != nil {
		return nil, err
	}
	if less == nil {
		return nil, nil
	}
	best := arr[0]
	for _, v := range arr[1:] {
		if less(v, best) {
			best = v
		}
	}
	return best, nil
}

// sortKeys applies the key expression to every element and validates that
// the keys are all numbers or all strings.
func sortKeys(name string, call *Call, ref *types.ExpressionRef, arr []any) ([]any, func(a, b any) bool, error) {
	keys := make([]any, len(arr))
	for i, v := range arr {
		k, err := call.Eval(ref.Expr, v)
		if err != nil {
			return nil, nil, err
		}
		keys[i] = k
	}
	less, err := comparableArray(name, keys)
	if err != nil {
		return nil, nil, &InvalidArgumentError{Name: name, Message: "key expression must produce all numbers or all strings"}
	}
	return keys, less, nil
}

func builtinMaxBy(name string, call *Call, args []any) (any, error) {
	arr, err := arrayArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	ref, err := refArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	keys, less, err := sortKeys(name, call, ref, arr)
	if err != nil {
		return nil, err
	}
	if less == nil {
		return nil, nil
	}
	best := 0
	for i := 1; i < len(arr); i++ {
		if less(keys[best], keys[i]) {
			best = i
		}
	}
	return arr[best], nil
}

func builtinMinBy(name string, call *Call, args []any) (any, error) {
	arr, err := arrayArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	ref, err := refArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	keys, less, err := sortKeys(name, call, ref, arr)
	if err != nil {
		return nil, err
	}
	if less == nil {
		return nil, nil
	}
	best := 0
	for i := 1; i < len(arr); i++ {
		if less(keys[i], keys[best]) {
			best = i
		}
	}
	return arr[best], nil
}

func builtinMerge(name string, _ *Call, args []any) (any, error) {
	out := map[string]any{}
	for i := range args {
		m, err := objectArg(name, args, i)
		if err != nil {
			return nil, err
		}
		for k, v := range m {
			out[k] = v
		}
	}
	return out, nil
}

func builtinNotNull(_ string, _ *Call, args []any) (any, error) {
	for _, v := range args {
		if v != nil {
			return v, nil
		}
	}
	return nil, nil
}

func builtinReverse(name string, _ *Call, args []any) (any, error) {
	switch v := args[0].(type) {
	case string:
		runes := []rune(v)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[len(v)-1-i] = e
		}
		return out, nil
	default:
		return nil, &InvalidArgumentError{Name: name, Message: "argument 1 must be a string or array"}
	}
}

func builtinSort(name string, _ *Call, args []any) (any, error) {
	arr, err := arrayArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	less, err := comparableArray(name, arr)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(arr))
	copy(out, arr)
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out, nil
}

func builtinSortBy(name string, call *Call, args []any) (any, error) {
	arr, err := arrayArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	ref, err := refArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	keys, less, err := sortKeys(name, call, ref, arr)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(arr))
	for i := range idx {
		idx[i] = i
	}
	if less != nil {
		sort.SliceStable(idx, func(a, b int) bool { return less(keys[idx[a]], keys[idx[b]]) })
	}
	out := make([]any, len(arr))
	for i, j := range idx {
		out[i] = arr[j]
	}
	return out, nil
}

func builtinStartsWith(name string, _ *Call, args []any) (any, error) {
	subject, err := stringArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	prefix, err := stringArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	return strings.HasPrefix(subject, prefix), nil
}

func builtinSum(name string, _ *Call, args []any) (any, error) {
	nums, err := numberArrayArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, f := range nums {
		sum += f
	}
	return sum, nil
}

func builtinToArray(_ string, _ *Call, args []any) (any, error) {
	if arr, ok := args[0].([]any); ok {
		return arr, nil
	}
	if args[0] == nil {
		return []any{nil}, nil
	}
	return []any{args[0]}, nil
}

func builtinToNumber(_ string, _ *Call, args []any) (any, error) {
	switch v := args[0].(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, nil
		}
		return f, nil
	default:
		if f, ok := types.AsNumber(v); ok {
			return f, nil
		}
		return nil, nil
	}
}

func builtinToString(_ string, _ *Call, args []any) (any, error) {
	if s, ok := args[0].(string); ok {
		return s, nil
	}
	data, err := json.Marshal(args[0])
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func builtinType(_ string, _ *Call, args []any) (any, error) {
	switch v := args[0].(type) {
	case nil:
		return "null", nil
	case bool:
		return "boolean", nil
	case string:
		return "string", nil
	case []any:
		return "array", nil
	case map[string]any:
		return "object", nil
	default:
		if _, ok := types.AsNumber(v); ok {
			return "number", nil
		}
		return "null", nil
	}
}

func builtinValues(name string, _ *Call, args []any) (any, error) {
	m, err := objectArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(m))
	for _, k := range types.SortedKeys(m) {
		out = append(out, m[k])
	}
	return out, nil
}
