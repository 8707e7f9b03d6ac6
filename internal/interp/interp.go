// Package interp is the tree-walking evaluator for JMESPath ASTs, plus the
// builtin function registry it consults for function nodes, per spec.md
// sections 4.3 and 4.4.
package interp

import (
	"github.com/jacoelho/jmespath/internal/ast"
	"github.com/jacoelho/jmespath/internal/value"
)

// maxDepth mirrors internal/parser's guard: a syntactically valid but
// pathologically deep AST still must not overflow the native stack during
// evaluation (spec.md section 5).
const maxDepth = 200

// Dispatcher resolves a function call by name. The default implementation
// is Registry; callers can wrap or replace it via Runtime's FnDispatcher
// option (spec.md section 6.1).
type Dispatcher interface {
	Call(name string, args []value.Value) (value.Value, error)
}

// Interpreter walks an AST against a data Value. It keeps no state beyond
// the call stack and the (read-only, shareable) Dispatcher, per spec.md
// section 5's concurrency model: interpreters are safe to reuse across
// evaluations and, since neither field is ever mutated after New, across
// goroutines too.
type Interpreter struct {
	dispatcher Dispatcher
}

// New returns an Interpreter backed by dispatcher. A nil dispatcher falls
// back to DefaultRegistry.
func New(dispatcher Dispatcher) *Interpreter {
	if dispatcher == nil {
		dispatcher = DefaultRegistry
	}
	return &Interpreter{dispatcher: dispatcher}
}

// Eval evaluates node against data.
func (it *Interpreter) Eval(node ast.Node, data value.Value) (value.Value, error) {
	return it.eval(node, data, 0)
}

func (it *Interpreter) eval(node ast.Node, data value.Value, depth int) (value.Value, error) {
	depth++
	if depth > maxDepth {
		return nil, runtimeError("expression nested too deeply")
	}

	switch n := node.(type) {
	case ast.Current:
		return data, nil

	case ast.Literal:
		return n.Value, nil

	case ast.Field:
		obj, ok := data.(value.Object)
		if !ok {
			return value.Null{}, nil
		}
		v, ok := obj.Get(n.Key)
		if !ok {
			return value.Null{}, nil
		}
		return v, nil

	case ast.Index:
		arr, ok := data.(value.Array)
		if !ok {
			return value.Null{}, nil
		}
		v, ok := arr.At(n.Value)
		if !ok {
			return value.Null{}, nil
		}
		return v, nil

	case ast.Slice:
		return it.evalSlice(n, data)

	case ast.Subexpression:
		left, err := it.eval(n.Left, data, depth)
		if err != nil {
			return nil, err
		}
		return it.eval(n.Right, left, depth)

	case ast.Pipe:
		// Pipe is structurally identical to Subexpression at evaluation
		// time: it always hands Right the fully-resolved Left value. What
		// makes it "close" a projection is purely how the parser builds
		// the tree (a low pipe binding power always finishes any
		// in-progress projection grammar before consuming '|'), not any
		// special evaluation rule here. See spec.md section 9.
		left, err := it.eval(n.Left, data, depth)
		if err != nil {
			return nil, err
		}
		return it.eval(n.Right, left, depth)

	case ast.Or:
		left, err := it.eval(n.Left, data, depth)
		if err != nil {
			return nil, err
		}
		if value.Truthy(left) {
			return left, nil
		}
		return it.eval(n.Right, data, depth)

	case ast.And:
		left, err := it.eval(n.Left, data, depth)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(left) {
			return left, nil
		}
		return it.eval(n.Right, data, depth)

	case ast.Not:
		child, err := it.eval(n.Child, data, depth)
		if err != nil {
			return nil, err
		}
		return value.Bool(!value.Truthy(child)), nil

	case ast.Flatten:
		return it.evalFlatten(n, data, depth)

	case ast.ArrayProjection:
		return it.evalArrayProjection(n, data, depth)

	case ast.ObjectProjection:
		return it.evalObjectProjection(n, data, depth)

	case ast.Comparator:
		return it.evalComparator(n, data, depth)

	case ast.Condition:
		pred, err := it.eval(n.Predicate, data, depth)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(pred) {
			return value.Null{}, nil
		}
		return it.eval(n.Then, data, depth)

	case ast.MultiSelectList:
		if _, isNull := data.(value.Null); isNull {
			return value.Null{}, nil
		}
		out := make(value.Array, len(n.Children))
		for i, c := range n.Children {
			v, err := it.eval(c, data, depth)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case ast.MultiSelectHash:
		if _, isNull := data.(value.Null); isNull {
			return value.Null{}, nil
		}
		obj := value.NewObject()
		for _, pair := range n.Pairs {
			v, err := it.eval(pair.Value, data, depth)
			if err != nil {
				return nil, err
			}
			obj.Set(pair.Key, v)
		}
		return obj, nil

	case ast.Function:
		args := make([]value.Value, len(n.Args))
		for i, a := range n.Args {
			v, err := it.eval(a, data, depth)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return it.dispatcher.Call(n.Name, args)

	case ast.Expref:
		child := n.Child
		return value.Expression{
			Node: child,
			Evaluate: func(node any, x value.Value) (value.Value, error) {
				return it.eval(node.(ast.Node), x, depth)
			},
		}, nil

	default:
		return nil, runtimeError("invalid AST node %T", node)
	}
}

func (it *Interpreter) evalFlatten(n ast.Flatten, data value.Value, depth int) (value.Value, error) {
	child, err := it.eval(n.Child, data, depth)
	if err != nil {
		return nil, err
	}
	arr, ok := child.(value.Array)
	if !ok {
		return value.Null{}, nil
	}
	out := make(value.Array, 0, len(arr))
	for _, elem := range arr {
		if inner, ok := elem.(value.Array); ok {
			out = append(out, inner...)
		} else {
			out = append(out, elem)
		}
	}
	return out, nil
}

func (it *Interpreter) evalArrayProjection(n ast.ArrayProjection, data value.Value, depth int) (value.Value, error) {
	left, err := it.eval(n.Left, data, depth)
	if err != nil {
		return nil, err
	}
	arr, ok := left.(value.Array)
	if !ok {
		return value.Null{}, nil
	}
	out := make(value.Array, 0, len(arr))
	for _, elem := range arr {
		v, err := it.eval(n.Right, elem, depth)
		if err != nil {
			return nil, err
		}
		if _, isNull := v.(value.Null); isNull {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (it *Interpreter) evalObjectProjection(n ast.ObjectProjection, data value.Value, depth int) (value.Value, error) {
	left, err := it.eval(n.Left, data, depth)
	if err != nil {
		return nil, err
	}
	obj, ok := left.(value.Object)
	if !ok {
		return value.Null{}, nil
	}
	out := make(value.Array, 0, obj.Len())
	for _, elem := range obj.Values() {
		v, err := it.eval(n.Right, elem, depth)
		if err != nil {
			return nil, err
		}
		if _, isNull := v.(value.Null); isNull {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (it *Interpreter) evalComparator(n ast.Comparator, data value.Value, depth int) (value.Value, error) {
	left, err := it.eval(n.Left, data, depth)
	if err != nil {
		return nil, err
	}
	right, err := it.eval(n.Right, data, depth)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ast.OpEqual:
		return value.Bool(value.Equal(left, right)), nil
	case ast.OpNotEqual:
		return value.Bool(!value.Equal(left, right)), nil
	case ast.OpLessThan, ast.OpLessEqual, ast.OpGreaterThan, ast.OpGreaterEqual:
		ln, lok := left.(value.Number)
		rn, rok := right.(value.Number)
		if !lok || !rok {
			return value.Null{}, nil
		}
		switch n.Op {
		case ast.OpLessThan:
			return value.Bool(ln < rn), nil
		case ast.OpLessEqual:
			return value.Bool(ln <= rn), nil
		case ast.OpGreaterThan:
			return value.Bool(ln > rn), nil
		default:
			return value.Bool(ln >= rn), nil
		}
	default:
		return nil, runtimeError("unknown comparator %q", n.Op)
	}
}

func (it *Interpreter) evalSlice(n ast.Slice, data value.Value) (value.Value, error) {
	step := 1
	if n.Step != nil {
		step = *n.Step
	}
	if step == 0 {
		return nil, runtimeError("invalid slice step of 0")
	}

	switch t := data.(type) {
	case value.Array:
		indices := sliceIndices(len(t), n.Start, n.Stop, step)
		out := make(value.Array, 0, len(indices))
		for _, i := range indices {
			out = append(out, t[i])
		}
		return out, nil
	case value.String:
		runes := []rune(t)
		indices := sliceIndices(len(runes), n.Start, n.Stop, step)
		out := make([]rune, 0, len(indices))
		for _, i := range indices {
			out = append(out, runes[i])
		}
		return value.String(out), nil
	default:
		return value.Null{}, nil
	}
}

// sliceIndices implements Python-style slicing: negative bounds count from
// the end, and the result never runs off the container regardless of how
// out-of-range start/stop are.
func sliceIndices(length int, start, stop *int, step int) []int {
	normalize := func(i int) int {
		if i < 0 {
			i += length
		}
		if i < 0 {
			if step < 0 {
				return -1
			}
			return 0
		}
		if i > length {
			if step < 0 {
				return length - 1
			}
			return length
		}
		return i
	}

	var lo, hi int
	if step > 0 {
		if start == nil {
			lo = 0
		} else {
			lo = normalize(*start)
		}
		if stop == nil {
			hi = length
		} else {
			hi = normalize(*stop)
		}
		var out []int
		for i := lo; i < hi; i += step {
			out = append(out, i)
		}
		return out
	}

	if start == nil {
		lo = length - 1
	} else {
		lo = normalize(*start)
	}
	if stop == nil {
		hi = -1
	} else {
		hi = normalize(*stop)
	}
	var out []int
	for i := lo; i > hi; i += step {
		if i < 0 || i >= length {
			continue
		}
		out = append(out, i)
	}
	return out
}
