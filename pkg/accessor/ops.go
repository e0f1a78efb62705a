package accessor

import (
	"fmt"

	"github.com/sandrolain/jmesq/pkg/evaluator"
	"github.com/sandrolain/jmesq/pkg/types"
)

// op is one compiled accessor node. get mirrors the evaluator; set and
// del apply writes; replace assigns a new value to the location this
// op's result was read from, which is how container rewrites propagate
// upward; check validates structural applicability without writing.
type op interface {
	get(b *binding) (any, error)
	set(b *binding, value any, strict bool) error
	del(b *binding, strict bool) error
	replace(b *binding, value any, strict bool, aop types.AccessOp) error
	check(b *binding) error
}

// binding binds compiled ops to one document for one operation. The
// replace channel assigns a new value to the location the context was
// read from; at the top level it captures the replaced document, and
// pipes re-root it at the left side's location.
type binding struct {
	ctx         any
	root        any
	bindings    map[string]any
	replace     func(any) error
	replaceRoot func(any) error
}

func (b *binding) scope() *evaluator.Scope {
	return &evaluator.Scope{Root: b.root, Bindings: b.bindings}
}

func accessErr(n types.Node, aop types.AccessOp, reason types.AccessReason, format string, args ...any) *types.AccessorError {
	return &types.AccessorError{
		Reason:  reason,
		Op:      aop,
		Path:    types.Render(n),
		Message: fmt.Sprintf(format, args...),
	}
}

// notWritable reports a write against a read-only location; best-effort
// writes no-op instead.
func notWritable(n types.Node, aop types.AccessOp, strict bool) error {
	if !strict {
		return nil
	}
	return accessErr(n, aop, types.ReasonNotWritable, "expression is not writable")
}

// parentErr classifies a write whose parent container is missing or of
// the wrong kind.
func parentErr(n types.Node, aop types.AccessOp, parent any, strict bool, want string) error {
	if !strict {
		return nil
	}
	if parent == nil {
		return accessErr(n, aop, types.ReasonMissingParent, "parent is null, expected %s", want)
	}
	return accessErr(n, aop, types.ReasonTypeMismatch, "parent is %T, expected %s", parent, want)
}

// coerceArray turns a written value into the element list appended by
// container-rewriting writes.
func coerceArray(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return []any{v}
}

func flattenArray(arr []any) []any {
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

// currentOp resolves the context value. Direct writes are rejected, but
// the binding's replace channel lets container rewrites rooted here
// surface as a document replacement.
type currentOp struct {
	src types.Node
}

func (o *currentOp) get(b *binding) (any, error) { return b.ctx, nil }

func (o *currentOp) set(b *binding, _ any, strict bool) error {
	return notWritable(o.src, types.OpSet, strict)
}

func (o *currentOp) del(b *binding, strict bool) error {
	return notWritable(o.src, types.OpDelete, strict)
}

func (o *currentOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	if b.replace == nil {
		return notWritable(o.src, aop, strict)
	}
	return b.replace(value)
}

func (o *currentOp) check(b *binding) error { return nil }

// rootOp resolves the root document.
type rootOp struct {
	src types.Node
}

func (o *rootOp) get(b *binding) (any, error) { return b.root, nil }

func (o *rootOp) set(b *binding, _ any, strict bool) error {
	return notWritable(o.src, types.OpSet, strict)
}

func (o *rootOp) del(b *binding, strict bool) error {
	return notWritable(o.src, types.OpDelete, strict)
}

func (o *rootOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	if b.replaceRoot == nil {
		return notWritable(o.src, aop, strict)
	}
	return b.replaceRoot(value)
}

func (o *rootOp) check(b *binding) error { return nil }

// readonlyOp evaluates pure combinator nodes and rejects all writes.
type readonlyOp struct {
	src types.Node
	ev  *evaluator.Evaluator
}

func (o *readonlyOp) get(b *binding) (any, error) {
	return o.ev.EvalNode(o.src, b.ctx, b.scope())
}

func (o *readonlyOp) set(b *binding, _ any, strict bool) error {
	return notWritable(o.src, types.OpSet, strict)
}

func (o *readonlyOp) del(b *binding, strict bool) error {
	return notWritable(o.src, types.OpDelete, strict)
}

func (o *readonlyOp) replace(b *binding, _ any, strict bool, aop types.AccessOp) error {
	return notWritable(o.src, aop, strict)
}

func (o *readonlyOp) check(b *binding) error { return nil }

// fieldOp reads and writes a named property on the parent object.
type fieldOp struct {
	src   types.Node
	field string
	child op
}

func (o *fieldOp) get(b *binding) (any, error) {
	parent, err := o.child.get(b)
	if err != nil {
		return nil, err
	}
	if m, ok := parent.(map[string]any); ok {
		return m[o.field], nil
	}
	return nil, nil
}

func (o *fieldOp) set(b *binding, value any, strict bool) error {
	return o.replace(b, value, strict, types.OpSet)
}

func (o *fieldOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	parent, err := o.child.get(b)
	if err != nil {
		return err
	}
	m, ok := parent.(map[string]any)
	if !ok {
		return parentErr(o.src, aop, parent, strict, "object")
	}
	m[o.field] = value
	return nil
}

func (o *fieldOp) del(b *binding, strict bool) error {
	parent, err := o.child.get(b)
	if err != nil {
		return err
	}
	m, ok := parent.(map[string]any)
	if !ok {
		return parentErr(o.src, types.OpDelete, parent, strict, "object")
	}
	delete(m, o.field)
	return nil
}

func (o *fieldOp) check(b *binding) error {
	if err := o.child.check(b); err != nil {
		return err
	}
	parent, err := o.child.get(b)
	if err != nil {
		return err
	}
	if _, ok := parent.(map[string]any); !ok {
		return parentErr(o.src, types.OpGet, parent, true, "object")
	}
	return nil
}

// indexOp reads and writes one array slot. Deletion splices the array
// and assigns the shortened copy through the child's replace channel.
type indexOp struct {
	src   types.Node
	index int
	child op
}

func (o *indexOp) resolve(n int) (int, bool) {
	idx := o.index
	if idx < 0 {
		idx += n
	}
	return idx, idx >= 0 && idx < n
}

func (o *indexOp) get(b *binding) (any, error) {
	parent, err := o.child.get(b)
	if err != nil {
		return nil, err
	}
	arr, ok := parent.([]any)
	if !ok {
		return nil, nil
	}
	idx, ok := o.resolve(len(arr))
	if !ok {
		return nil, nil
	}
	return arr[idx], nil
}

func (o *indexOp) set(b *binding, value any, strict bool) error {
	return o.replace(b, value, strict, types.OpSet)
}

func (o *indexOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	parent, err := o.child.get(b)
	if err != nil {
		return err
	}
	arr, ok := parent.([]any)
	if !ok {
		return parentErr(o.src, aop, parent, strict, "array")
	}
	idx, ok := o.resolve(len(arr))
	if !ok {
		if !strict {
			return nil
		}
		return accessErr(o.src, aop, types.ReasonIndexOutOfBounds, "index %d out of bounds for length %d", o.index, len(arr))
	}
	arr[idx] = value
	return nil
}

func (o *indexOp) del(b *binding, strict bool) error {
	parent, err := o.child.get(b)
	if err != nil {
		return err
	}
	arr, ok := parent.([]any)
	if !ok {
		return parentErr(o.src, types.OpDelete, parent, strict, "array")
	}
	idx, ok := o.resolve(len(arr))
	if !ok {
		if !strict {
			return nil
		}
		return accessErr(o.src, types.OpDelete, types.ReasonIndexOutOfBounds, "index %d out of bounds for length %d", o.index, len(arr))
	}
	spliced := make([]any, 0, len(arr)-1)
	spliced = append(spliced, arr[:idx]...)
	spliced = append(spliced, arr[idx+1:]...)
	return o.child.replace(b, spliced, strict, types.OpDelete)
}

func (o *indexOp) check(b *binding) error {
	if err := o.child.check(b); err != nil {
		return err
	}
	parent, err := o.child.get(b)
	if err != nil {
		return err
	}
	arr, ok := parent.([]any)
	if !ok {
		return parentErr(o.src, types.OpGet, parent, true, "array")
	}
	if _, ok := o.resolve(len(arr)); !ok {
		return accessErr(o.src, types.OpGet, types.ReasonIndexOutOfBounds, "index %d out of bounds for length %d", o.index, len(arr))
	}
	return nil
}

// idOp locates the array element whose id property equals the given id.
type idOp struct {
	src   types.Node
	id    string
	child op
}

func (o *idOp) find(arr []any) (int, bool) {
	for i, elem := range arr {
		if m, ok := elem.(map[string]any); ok && types.Equal(m["id"], o.id) {
			return i, true
		}
	}
	return 0, false
}

func (o *idOp) get(b *binding) (any, error) {
	parent, err := o.child.get(b)
	if err != nil {
		return nil, err
	}
	arr, ok := parent.([]any)
	if !ok {
		return nil, nil
	}
	idx, ok := o.find(arr)
	if !ok {
		return nil, nil
	}
	return arr[idx], nil
}

func (o *idOp) set(b *binding, value any, strict bool) error {
	return o.replace(b, value, strict, types.OpSet)
}

func (o *idOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	parent, err := o.child.get(b)
	if err != nil {
		return err
	}
	arr, ok := parent.([]any)
	if !ok {
		return parentErr(o.src, aop, parent, strict, "array")
	}
	idx, ok := o.find(arr)
	if !ok {
		if !strict {
			return nil
		}
		return accessErr(o.src, aop, types.ReasonMissingID, "no element with id %q", o.id)
	}
	arr[idx] = value
	return nil
}

func (o *idOp) del(b *binding, strict bool) error {
	parent, err := o.child.get(b)
	if err != nil {
		return err
	}
	arr, ok := parent.([]any)
	if !ok {
		return parentErr(o.src, types.OpDelete, parent, strict, "array")
	}
	idx, ok := o.find(arr)
	if !ok {
		if !strict {
			return nil
		}
		return accessErr(o.src, types.OpDelete, types.ReasonMissingID, "no element with id %q", o.id)
	}
	spliced := make([]any, 0, len(arr)-1)
	spliced = append(spliced, arr[:idx]...)
	spliced = append(spliced, arr[idx+1:]...)
	return o.child.replace(b, spliced, strict, types.OpDelete)
}

func (o *idOp) check(b *binding) error {
	if err := o.child.check(b); err != nil {
		return err
	}
	parent, err := o.child.get(b)
	if err != nil {
		return err
	}
	arr, ok := parent.([]any)
	if !ok {
		return parentErr(o.src, types.OpGet, parent, true, "array")
	}
	if _, ok := o.find(arr); !ok {
		return accessErr(o.src, types.OpGet, types.ReasonMissingID, "no element with id %q", o.id)
	}
	return nil
}

// elementBinding re-roots a binding at one array slot so a projection
// continuation can rewrite that element through its own replace channel.
func elementBinding(b *binding, arr []any, i int) *binding {
	return &binding{
		ctx:      arr[i],
		root:     b.root,
		bindings: b.bindings,
		replace: func(v any) error {
			arr[i] = v
			return nil
		},
		replaceRoot: b.replaceRoot,
	}
}

// pushDown applies a write to every selected element via the projection
// continuation's op.
func pushDown(proj op, b *binding, arr []any, selected []int, apply func(op, *binding) error) error {
	for _, i := range selected {
		if err := apply(proj, elementBinding(b, arr, i)); err != nil {
			return err
		}
	}
	return nil
}

// projectOp is the array wildcard. Without a continuation, writes rewrite
// the whole container; with one, they are pushed down to every element.
type projectOp struct {
	src        types.Node
	ev         *evaluator.Evaluator
	child      op
	projection op
}

func (o *projectOp) get(b *binding) (any, error) {
	return o.ev.EvalNode(o.src, b.ctx, b.scope())
}

func (o *projectOp) array(b *binding, aop types.AccessOp, strict bool) ([]any, bool, error) {
	parent, err := o.child.get(b)
	if err != nil {
		return nil, false, err
	}
	arr, ok := parent.([]any)
	if !ok {
		return nil, false, parentErr(o.src, aop, parent, strict, "array")
	}
	return arr, true, nil
}

func (o *projectOp) set(b *binding, value any, strict bool) error {
	arr, ok, err := o.array(b, types.OpSet, strict)
	if !ok {
		return err
	}
	if o.projection != nil {
		return pushDown(o.projection, b, arr, allIndices(len(arr)), func(p op, eb *binding) error {
			return p.set(eb, value, strict)
		})
	}
	return o.child.replace(b, coerceArray(value), strict, types.OpSet)
}

func (o *projectOp) del(b *binding, strict bool) error {
	arr, ok, err := o.array(b, types.OpDelete, strict)
	if !ok {
		return err
	}
	if o.projection != nil {
		return pushDown(o.projection, b, arr, allIndices(len(arr)), func(p op, eb *binding) error {
			return p.del(eb, strict)
		})
	}
	return o.child.replace(b, []any{}, strict, types.OpDelete)
}

func (o *projectOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	_, ok, err := o.array(b, aop, strict)
	if !ok {
		return err
	}
	return o.child.replace(b, coerceArray(value), strict, aop)
}

func (o *projectOp) check(b *binding) error {
	if err := o.child.check(b); err != nil {
		return err
	}
	_, _, err := o.array(b, types.OpGet, true)
	return err
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// objectProjectOp is the object wildcard over an object's own values.
type objectProjectOp struct {
	src        types.Node
	ev         *evaluator.Evaluator
	child      op
	projection op
}

func (o *objectProjectOp) get(b *binding) (any, error) {
	return o.ev.EvalNode(o.src, b.ctx, b.scope())
}

func (o *objectProjectOp) object(b *binding, aop types.AccessOp, strict bool) (map[string]any, error) {
	parent, err := o.child.get(b)
	if err != nil {
		return nil, err
	}
	m, ok := parent.(map[string]any)
	if !ok {
		return nil, parentErr(o.src, aop, parent, strict, "object")
	}
	return m, nil
}

func (o *objectProjectOp) set(b *binding, value any, strict bool) error {
	m, err := o.object(b, types.OpSet, strict)
	if m == nil {
		return err
	}
	for _, k := range types.SortedKeys(m) {
		if o.projection != nil {
			key := k
			eb := &binding{
				ctx:      m[key],
				root:     b.root,
				bindings: b.bindings,
				replace: func(v any) error {
					m[key] = v
					return nil
				},
				replaceRoot: b.replaceRoot,
			}
			if err := o.projection.set(eb, value, strict); err != nil {
				return err
			}
			continue
		}
		m[k] = value
	}
	return nil
}

func (o *objectProjectOp) del(b *binding, strict bool) error {
	m, err := o.object(b, types.OpDelete, strict)
	if m == nil {
		return err
	}
	for _, k := range types.SortedKeys(m) {
		if o.projection != nil {
			key := k
			eb := &binding{
				ctx:      m[key],
				root:     b.root,
				bindings: b.bindings,
				replace: func(v any) error {
					m[key] = v
					return nil
				},
				replaceRoot: b.replaceRoot,
			}
			if err := o.projection.del(eb, strict); err != nil {
				return err
			}
			continue
		}
		delete(m, k)
	}
	return nil
}

func (o *objectProjectOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	m, err := o.object(b, aop, strict)
	if m == nil {
		return err
	}
	for k := range m {
		m[k] = value
	}
	return nil
}

func (o *objectProjectOp) check(b *binding) error {
	if err := o.child.check(b); err != nil {
		return err
	}
	_, err := o.object(b, types.OpGet, true)
	return err
}

// filterOp selects array elements by condition. Writes with no
// continuation invert the selection: the complement of the selected
// elements is kept, in original order, and set appends the written
// values to it, so a get after a delete on the same selector always
// comes back empty.
type filterOp struct {
	src        types.Node
	ev         *evaluator.Evaluator
	child      op
	cond       types.Node
	projection op
}

func (o *filterOp) get(b *binding) (any, error) {
	return o.ev.EvalNode(o.src, b.ctx, b.scope())
}

func (o *filterOp) array(b *binding, aop types.AccessOp, strict bool) ([]any, bool, error) {
	parent, err := o.child.get(b)
	if err != nil {
		return nil, false, err
	}
	arr, ok := parent.([]any)
	if !ok {
		return nil, false, parentErr(o.src, aop, parent, strict, "array")
	}
	return arr, true, nil
}

func (o *filterOp) selected(b *binding, arr []any) ([]int, error) {
	scope := b.scope()
	var out []int
	for i, elem := range arr {
		cond, err := o.ev.EvalNode(o.cond, elem, scope)
		if err != nil {
			return nil, err
		}
		if !types.IsFalseOrEmpty(cond) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (o *filterOp) set(b *binding, value any, strict bool) error {
	arr, ok, err := o.array(b, types.OpSet, strict)
	if !ok {
		return err
	}
	selected, err := o.selected(b, arr)
	if err != nil {
		return err
	}
	if o.projection != nil {
		return pushDown(o.projection, b, arr, selected, func(p op, eb *binding) error {
			return p.set(eb, value, strict)
		})
	}
	result := append(complement(arr, selected), coerceArray(value)...)
	return o.child.replace(b, result, strict, types.OpSet)
}

func (o *filterOp) del(b *binding, strict bool) error {
	arr, ok, err := o.array(b, types.OpDelete, strict)
	if !ok {
		return err
	}
	selected, err := o.selected(b, arr)
	if err != nil {
		return err
	}
	if o.projection != nil {
		return pushDown(o.projection, b, arr, selected, func(p op, eb *binding) error {
			return p.del(eb, strict)
		})
	}
	return o.child.replace(b, complement(arr, selected), strict, types.OpDelete)
}

func (o *filterOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	arr, ok, err := o.array(b, aop, strict)
	if !ok {
		return err
	}
	selected, err := o.selected(b, arr)
	if err != nil {
		return err
	}
	result := append(complement(arr, selected), coerceArray(value)...)
	return o.child.replace(b, result, strict, aop)
}

func (o *filterOp) check(b *binding) error {
	if err := o.child.check(b); err != nil {
		return err
	}
	_, _, err := o.array(b, types.OpGet, true)
	return err
}

// complement keeps the elements whose index is not selected, preserving
// original order.
func complement(arr []any, selected []int) []any {
	sel := make(map[int]struct{}, len(selected))
	for _, i := range selected {
		sel[i] = struct{}{}
	}
	out := make([]any, 0, len(arr)-len(selected))
	for i, elem := range arr {
		if _, ok := sel[i]; !ok {
			out = append(out, elem)
		}
	}
	return out
}

// sliceOp selects array elements by start, end and step. The write path
// reuses the same index computation as the read path, then inverts the
// selection exactly like filterOp.
type sliceOp struct {
	src        types.Node
	ev         *evaluator.Evaluator
	child      op
	start      *int
	end        *int
	step       *int
	projection op
}

func (o *sliceOp) get(b *binding) (any, error) {
	return o.ev.EvalNode(o.src, b.ctx, b.scope())
}

func (o *sliceOp) array(b *binding, aop types.AccessOp, strict bool) ([]any, bool, error) {
	parent, err := o.child.get(b)
	if err != nil {
		return nil, false, err
	}
	arr, ok := parent.([]any)
	if !ok {
		return nil, false, parentErr(o.src, aop, parent, strict, "array")
	}
	return arr, true, nil
}

func (o *sliceOp) set(b *binding, value any, strict bool) error {
	arr, ok, err := o.array(b, types.OpSet, strict)
	if !ok {
		return err
	}
	selected, err := types.SliceIndices(o.start, o.end, o.step, len(arr))
	if err != nil {
		return err
	}
	if o.projection != nil {
		return pushDown(o.projection, b, arr, selected, func(p op, eb *binding) error {
			return p.set(eb, value, strict)
		})
	}
	result := append(complement(arr, selected), coerceArray(value)...)
	return o.child.replace(b, result, strict, types.OpSet)
}

func (o *sliceOp) del(b *binding, strict bool) error {
	arr, ok, err := o.array(b, types.OpDelete, strict)
	if !ok {
		return err
	}
	selected, err := types.SliceIndices(o.start, o.end, o.step, len(arr))
	if err != nil {
		return err
	}
	if o.projection != nil {
		return pushDown(o.projection, b, arr, selected, func(p op, eb *binding) error {
			return p.del(eb, strict)
		})
	}
	return o.child.replace(b, complement(arr, selected), strict, types.OpDelete)
}

func (o *sliceOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	arr, ok, err := o.array(b, aop, strict)
	if !ok {
		return err
	}
	selected, err := types.SliceIndices(o.start, o.end, o.step, len(arr))
	if err != nil {
		return err
	}
	result := append(complement(arr, selected), coerceArray(value)...)
	return o.child.replace(b, result, strict, aop)
}

func (o *sliceOp) check(b *binding) error {
	if err := o.child.check(b); err != nil {
		return err
	}
	arr, ok, err := o.array(b, types.OpGet, true)
	if !ok {
		return err
	}
	_, err = types.SliceIndices(o.start, o.end, o.step, len(arr))
	return err
}

// flattenOp concatenates one level of nesting. Set replaces the whole
// flattened array with the written value coerced to an array; delete
// empties it. A continuation is applied per flattened element, which can
// mutate objects in place but cannot re-slot elements, since flattening
// discards their original positions.
type flattenOp struct {
	src        types.Node
	ev         *evaluator.Evaluator
	child      op
	projection op
}

func (o *flattenOp) get(b *binding) (any, error) {
	return o.ev.EvalNode(o.src, b.ctx, b.scope())
}

func (o *flattenOp) array(b *binding, aop types.AccessOp, strict bool) ([]any, bool, error) {
	parent, err := o.child.get(b)
	if err != nil {
		return nil, false, err
	}
	arr, ok := parent.([]any)
	if !ok {
		return nil, false, parentErr(o.src, aop, parent, strict, "array")
	}
	return arr, true, nil
}

func (o *flattenOp) elementBindings(b *binding, arr []any) []*binding {
	flat := flattenArray(arr)
	out := make([]*binding, len(flat))
	for i, elem := range flat {
		out[i] = &binding{
			ctx:         elem,
			root:        b.root,
			bindings:    b.bindings,
			replaceRoot: b.replaceRoot,
		}
	}
	return out
}

func (o *flattenOp) set(b *binding, value any, strict bool) error {
	arr, ok, err := o.array(b, types.OpSet, strict)
	if !ok {
		return err
	}
	if o.projection != nil {
		for _, eb := range o.elementBindings(b, arr) {
			if err := o.projection.set(eb, value, strict); err != nil {
				return err
			}
		}
		return nil
	}
	return o.child.replace(b, coerceArray(value), strict, types.OpSet)
}

func (o *flattenOp) del(b *binding, strict bool) error {
	arr, ok, err := o.array(b, types.OpDelete, strict)
	if !ok {
		return err
	}
	if o.projection != nil {
		for _, eb := range o.elementBindings(b, arr) {
			if err := o.projection.del(eb, strict); err != nil {
				return err
			}
		}
		return nil
	}
	return o.child.replace(b, []any{}, strict, types.OpDelete)
}

func (o *flattenOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	_, ok, err := o.array(b, aop, strict)
	if !ok {
		return err
	}
	return o.child.replace(b, coerceArray(value), strict, aop)
}

func (o *flattenOp) check(b *binding) error {
	if err := o.child.check(b); err != nil {
		return err
	}
	_, _, err := o.array(b, types.OpGet, true)
	return err
}

// pipeOp forwards writes: the left side is evaluated read-only to obtain
// the intermediate context, and the write runs against the right side's
// accessor re-rooted there, with the left side's location as the replace
// channel.
type pipeOp struct {
	src types.Node
	ev  *evaluator.Evaluator
	lhs op
	rhs op
}

func (o *pipeOp) get(b *binding) (any, error) {
	return o.ev.EvalNode(o.src, b.ctx, b.scope())
}

func (o *pipeOp) rebind(b *binding, strict bool, aop types.AccessOp) (*binding, error) {
	intermediate, err := o.lhs.get(b)
	if err != nil {
		return nil, err
	}
	return &binding{
		ctx:      intermediate,
		root:     b.root,
		bindings: b.bindings,
		replace: func(v any) error {
			return o.lhs.replace(b, v, strict, aop)
		},
		replaceRoot: b.replaceRoot,
	}, nil
}

func (o *pipeOp) set(b *binding, value any, strict bool) error {
	nb, err := o.rebind(b, strict, types.OpSet)
	if err != nil {
		return err
	}
	return o.rhs.set(nb, value, strict)
}

func (o *pipeOp) del(b *binding, strict bool) error {
	nb, err := o.rebind(b, strict, types.OpDelete)
	if err != nil {
		return err
	}
	return o.rhs.del(nb, strict)
}

func (o *pipeOp) replace(b *binding, value any, strict bool, aop types.AccessOp) error {
	nb, err := o.rebind(b, strict, aop)
	if err != nil {
		return err
	}
	return o.rhs.replace(nb, value, strict, aop)
}

func (o *pipeOp) check(b *binding) error {
	if err := o.lhs.check(b); err != nil {
		return err
	}
	nb, err := o.rebind(b, true, types.OpGet)
	if err != nil {
		return err
	}
	return o.rhs.check(nb)
}
