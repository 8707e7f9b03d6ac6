package interp

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/jmespath/internal/value"
)

// builtinFunc is one entry of the registry: a name, an arity window, and the
// implementation. Argument type-checking happens inside fn rather than via a
// declarative schema, matching internal/rq/expr/eval.go's compareValues,
// which validates operand kinds with a type switch at the point of use
// rather than through a separate description table.
type builtinFunc struct {
	name    string
	minArgs int
	maxArgs int // -1 means unbounded
	fn      func(args []value.Value) (value.Value, error)
}

// Registry is a Dispatcher backed by a fixed table of builtin functions. The
// zero value is not usable; construct one with NewRegistry or use
// DefaultRegistry.
type Registry struct {
	fns map[string]builtinFunc
}

// NewRegistry returns an empty Registry. Callers typically start from
// DefaultRegistry and wrap it (see internal/customfn) rather than building
// one from scratch.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]builtinFunc)}
}

// Register adds or replaces a builtin. It returns the Registry to allow
// chaining during construction.
func (r *Registry) Register(name string, minArgs, maxArgs int, fn func(args []value.Value) (value.Value, error)) *Registry {
	r.fns[name] = builtinFunc{name: name, minArgs: minArgs, maxArgs: maxArgs, fn: fn}
	return r
}

// Call implements Dispatcher.
func (r *Registry) Call(name string, args []value.Value) (value.Value, error) {
	b, ok := r.fns[name]
	if !ok {
		return nil, functionError(name, "unknown function")
	}
	if len(args) < b.minArgs || (b.maxArgs >= 0 && len(args) > b.maxArgs) {
		return nil, functionError(name, "invalid arity: got %d arguments", len(args))
	}
	v, err := b.fn(args)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DefaultRegistry implements every builtin listed in spec.md section 4.4.
var DefaultRegistry = buildDefaultRegistry()

func buildDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("abs", 1, 1, func(args []value.Value) (value.Value, error) {
		n, err := requireNumber("abs", args[0], 0)
		if err != nil {
			return nil, err
		}
		return value.Number(math.Abs(float64(n))), nil
	})

	r.Register("avg", 1, 1, func(args []value.Value) (value.Value, error) {
		arr, err := requireArray("avg", args[0], 0)
		if err != nil {
			return nil, err
		}
		if len(arr) == 0 {
			return value.Null{}, nil
		}
		var sum float64
		for i, e := range arr {
			n, err := requireNumber("avg", e, i)
			if err != nil {
				return nil, err
			}
			sum += float64(n)
		}
		return value.Number(sum / float64(len(arr))), nil
	})

	r.Register("ceil", 1, 1, func(args []value.Value) (value.Value, error) {
		n, err := requireNumber("ceil", args[0], 0)
		if err != nil {
			return nil, err
		}
		return value.Number(math.Ceil(float64(n))), nil
	})

	r.Register("contains", 2, 2, func(args []value.Value) (value.Value, error) {
		switch subject := args[0].(type) {
		case value.Array:
			for _, e := range subject {
				if value.Equal(e, args[1]) {
					return value.Bool(true), nil
				}
			}
			return value.Bool(false), nil
		case value.String:
			target, ok := args[1].(value.String)
			if !ok {
				return value.Bool(false), nil
			}
			return value.Bool(strings.Contains(string(subject), string(target))), nil
		default:
			return nil, functionError("contains", "argument 1 must be an array or string, got %s", args[0].Type())
		}
	})

	r.Register("ends_with", 2, 2, func(args []value.Value) (value.Value, error) {
		s, err := requireString("ends_with", args[0], 0)
		if err != nil {
			return nil, err
		}
		suffix, err := requireString("ends_with", args[1], 1)
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.HasSuffix(string(s), string(suffix))), nil
	})

	r.Register("floor", 1, 1, func(args []value.Value) (value.Value, error) {
		n, err := requireNumber("floor", args[0], 0)
		if err != nil {
			return nil, err
		}
		return value.Number(math.Floor(float64(n))), nil
	})

	r.Register("join", 2, 2, func(args []value.Value) (value.Value, error) {
		sep, err := requireString("join", args[0], 0)
		if err != nil {
			return nil, err
		}
		arr, err := requireArray("join", args[1], 1)
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(arr))
		for i, e := range arr {
			s, err := requireString("join", e, 1)
			if err != nil {
				return nil, err
			}
			parts[i] = string(s)
		}
		return value.String(strings.Join(parts, string(sep))), nil
	})

	r.Register("keys", 1, 1, func(args []value.Value) (value.Value, error) {
		obj, err := requireObject("keys", args[0], 0)
		if err != nil {
			return nil, err
		}
		out := make(value.Array, obj.Len())
		for i, k := range obj.Keys() {
			out[i] = value.String(k)
		}
		return out, nil
	})

	r.Register("length", 1, 1, func(args []value.Value) (value.Value, error) {
		switch t := args[0].(type) {
		case value.String:
			return value.Number(utf8.RuneCountInString(string(t))), nil
		case value.Array:
			return value.Number(len(t)), nil
		case value.Object:
			return value.Number(t.Len()), nil
		default:
			return nil, functionError("length", "argument 1 must be a string, array or object, got %s", args[0].Type())
		}
	})

	r.Register("map", 2, 2, func(args []value.Value) (value.Value, error) {
		expr, err := requireExpression("map", args[0], 0)
		if err != nil {
			return nil, err
		}
		arr, err := requireArray("map", args[1], 1)
		if err != nil {
			return nil, err
		}
		out := make(value.Array, len(arr))
		for i, e := range arr {
			v, err := expr.Invoke(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	})

	r.Register("max", 1, 1, func(args []value.Value) (value.Value, error) {
		arr, err := requireArray("max", args[0], 0)
		if err != nil {
			return nil, err
		}
		return typedReduce(arr, func(candidate, current value.Value) (bool, bool) {
			c, ok := compareOrdered(candidate, current)
			return c > 0, ok
		})
	})

	r.Register("min", 1, 1, func(args []value.Value) (value.Value, error) {
		arr, err := requireArray("min", args[0], 0)
		if err != nil {
			return nil, err
		}
		return typedReduce(arr, func(candidate, current value.Value) (bool, bool) {
			c, ok := compareOrdered(candidate, current)
			return c < 0, ok
		})
	})

	r.Register("max_by", 2, 2, byFunc("max_by", func(candidate, current value.Value) (bool, bool) {
		c, ok := compareOrdered(candidate, current)
		return c > 0, ok
	}))

	r.Register("min_by", 2, 2, byFunc("min_by", func(candidate, current value.Value) (bool, bool) {
		c, ok := compareOrdered(candidate, current)
		return c < 0, ok
	}))

	r.Register("not_null", 1, -1, func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			if _, isNull := a.(value.Null); !isNull {
				return a, nil
			}
		}
		return value.Null{}, nil
	})

	r.Register("reverse", 1, 1, func(args []value.Value) (value.Value, error) {
		switch t := args[0].(type) {
		case value.Array:
			out := make(value.Array, len(t))
			for i, e := range t {
				out[len(t)-1-i] = e
			}
			return out, nil
		case value.String:
			runes := []rune(t)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return value.String(runes), nil
		default:
			return nil, functionError("reverse", "argument 1 must be an array or string, got %s", args[0].Type())
		}
	})

	r.Register("sort", 1, 1, func(args []value.Value) (value.Value, error) {
		arr, err := requireArray("sort", args[0], 0)
		if err != nil {
			return nil, err
		}
		sorted, err := sortByKeys(arr, arr)
		if err != nil {
			return nil, err
		}
		return value.Array(sorted), nil
	})

	r.Register("sort_by", 2, 2, func(args []value.Value) (value.Value, error) {
		arr, err := requireArray("sort_by", args[0], 0)
		if err != nil {
			return nil, err
		}
		expr, err := requireExpression("sort_by", args[1], 1)
		if err != nil {
			return nil, err
		}
		keys := make([]value.Value, len(arr))
		for i, e := range arr {
			k, err := expr.Invoke(e)
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
		sorted, err := sortByKeys(arr, keys)
		if err != nil {
			return nil, err
		}
		return value.Array(sorted), nil
	})

	r.Register("starts_with", 2, 2, func(args []value.Value) (value.Value, error) {
		s, err := requireString("starts_with", args[0], 0)
		if err != nil {
			return nil, err
		}
		prefix, err := requireString("starts_with", args[1], 1)
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.HasPrefix(string(s), string(prefix))), nil
	})

	r.Register("sum", 1, 1, func(args []value.Value) (value.Value, error) {
		arr, err := requireArray("sum", args[0], 0)
		if err != nil {
			return nil, err
		}
		var sum float64
		for i, e := range arr {
			n, err := requireNumber("sum", e, i)
			if err != nil {
				return nil, err
			}
			sum += float64(n)
		}
		return value.Number(sum), nil
	})

	r.Register("to_array", 1, 1, func(args []value.Value) (value.Value, error) {
		if arr, ok := args[0].(value.Array); ok {
			return arr, nil
		}
		return value.Array{args[0]}, nil
	})

	r.Register("to_number", 1, 1, func(args []value.Value) (value.Value, error) {
		switch t := args[0].(type) {
		case value.Number:
			return t, nil
		case value.String:
			f, err := strconv.ParseFloat(string(t), 64)
			if err != nil {
				return value.Null{}, nil
			}
			return value.Number(f), nil
		default:
			return value.Null{}, nil
		}
	})

	r.Register("to_string", 1, 1, func(args []value.Value) (value.Value, error) {
		if s, ok := args[0].(value.String); ok {
			return s, nil
		}
		b, err := value.MarshalOrdered(args[0])
		if err != nil {
			return nil, functionError("to_string", "%s", err)
		}
		return value.String(b), nil
	})

	r.Register("type", 1, 1, func(args []value.Value) (value.Value, error) {
		return value.String(args[0].Type()), nil
	})

	r.Register("values", 1, 1, func(args []value.Value) (value.Value, error) {
		obj, err := requireObject("values", args[0], 0)
		if err != nil {
			return nil, err
		}
		out := make(value.Array, len(obj.Values()))
		copy(out, obj.Values())
		return out, nil
	})

	return r
}

// byFunc builds the shared max_by/min_by implementation: evaluate expr
// against every element to get a comparison key, then reduce with better.
func byFunc(name string, better func(candidate, current value.Value) (bool, bool)) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		arr, err := requireArray(name, args[0], 0)
		if err != nil {
			return nil, err
		}
		expr, err := requireExpression(name, args[1], 1)
		if err != nil {
			return nil, err
		}
		if len(arr) == 0 {
			return value.Null{}, nil
		}
		keys := make([]value.Value, len(arr))
		for i, e := range arr {
			k, err := expr.Invoke(e)
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
		bestIdx := 0
		bestType := keys[0].Type()
		for i := 1; i < len(keys); i++ {
			if keys[i].Type() != bestType {
				return nil, functionError(name, "expression results must all be the same type, got %s and %s", bestType, keys[i].Type())
			}
			replace, ok := better(keys[i], keys[bestIdx])
			if !ok {
				return nil, functionError(name, "expression results must be numbers or strings, got %s", keys[i].Type())
			}
			if replace {
				bestIdx = i
			}
		}
		return arr[bestIdx], nil
	}
}

func requireNumber(fn string, v value.Value, pos int) (value.Number, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, functionError(fn, "argument %d must be a number, got %s", pos+1, v.Type())
	}
	return n, nil
}

func requireString(fn string, v value.Value, pos int) (value.String, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", functionError(fn, "argument %d must be a string, got %s", pos+1, v.Type())
	}
	return s, nil
}

func requireArray(fn string, v value.Value, pos int) (value.Array, error) {
	a, ok := v.(value.Array)
	if !ok {
		return nil, functionError(fn, "argument %d must be an array, got %s", pos+1, v.Type())
	}
	return a, nil
}

func requireObject(fn string, v value.Value, pos int) (value.Object, error) {
	o, ok := v.(value.Object)
	if !ok {
		return value.Object{}, functionError(fn, "argument %d must be an object, got %s", pos+1, v.Type())
	}
	return o, nil
}

func requireExpression(fn string, v value.Value, pos int) (value.Expression, error) {
	e, ok := v.(value.Expression)
	if !ok {
		return value.Expression{}, functionError(fn, "argument %d must be an expression reference, got %s", pos+1, v.Type())
	}
	return e, nil
}
