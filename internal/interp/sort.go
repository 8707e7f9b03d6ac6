package interp

import (
	"sort"

	"github.com/jacoelho/jmespath/internal/value"
)

// compareOrdered compares two values that must both be Number or both be
// String — JMESPath's "number-or-string, homogeneous" family used by
// sort/sort_by/max/min/max_by/min_by. ok is false when the values are not
// both of a comparable kind, or their kinds differ.
func compareOrdered(a, b value.Value) (int, bool) {
	switch av := a.(type) {
	case value.Number:
		bv, ok := b.(value.Number)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case value.String:
		bv, ok := b.(value.String)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// sortByKeys stable-sorts elems according to the parallel keys slice,
// decorating each element with its original index and breaking ties by
// that index, per spec.md section 4.4's stable-sort description.
func sortByKeys(elems, keys []value.Value) ([]value.Value, error) {
	type pair struct {
		idx  int
		elem value.Value
		key  value.Value
	}
	pairs := make([]pair, len(elems))
	for i := range elems {
		pairs[i] = pair{idx: i, elem: elems[i], key: keys[i]}
	}

	var sortErr error
	sort.SliceStable(pairs, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, ok := compareOrdered(pairs[i].key, pairs[j].key)
		if !ok {
			sortErr = runtimeError("sort keys must be all numbers or all strings, got %s and %s",
				pairs[i].key.Type(), pairs[j].key.Type())
			return false
		}
		if c != 0 {
			return c < 0
		}
		return pairs[i].idx < pairs[j].idx
	})
	if sortErr != nil {
		return nil, sortErr
	}

	out := make([]value.Value, len(pairs))
	for i, p := range pairs {
		out[i] = p.elem
	}
	return out, nil
}

// typedReduce folds over elems, fixing the accumulator's concrete type from
// the first element and erroring the moment a later element's concrete
// type differs, per spec.md section 4.4's "typed reduce" helper (used by
// max/min). better(candidate, current) reports whether candidate should
// replace current as the running result.
func typedReduce(elems []value.Value, better func(candidate, current value.Value) (bool, bool)) (value.Value, error) {
	if len(elems) == 0 {
		return value.Null{}, nil
	}

	best := elems[0]
	bestType := best.Type()
	for _, e := range elems[1:] {
		if e.Type() != bestType {
			return nil, runtimeError("array elements must all be the same type, got %s and %s", bestType, e.Type())
		}
		replace, ok := better(e, best)
		if !ok {
			return nil, runtimeError("array elements must be numbers or strings, got %s", e.Type())
		}
		if replace {
			best = e
		}
	}
	return best, nil
}
