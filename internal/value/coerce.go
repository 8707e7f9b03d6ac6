package value

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FromJSON converts a decoded encoding/json value (as produced by
// json.Unmarshal into an any, with UseNumber enabled) into a Value, per
// spec.md section 6.3's JSON interop rules.
//
// A map[string]any has already lost its source key order by the time it
// reaches here (Go maps have none), so object keys are sorted
// lexicographically as a deterministic fallback. Callers that need the
// insertion-order guarantee from spec.md 3.1 should decode with
// DecodeJSON/DecodeJSONString instead, which walk the JSON token stream
// directly and never lose order.
func FromJSON(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case bool:
		return Bool(t)
	case json.Number:
		f, _ := t.Float64()
		return Number(f)
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case string:
		return String(t)
	case []any:
		out := make(Array, len(t))
		for i, e := range t {
			out[i] = FromJSON(e)
		}
		return out
	case map[string]any:
		obj := NewObject()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, FromJSON(t[k]))
		}
		return obj
	default:
		return Null{}
	}
}

// ToJSON converts a Value back into a plain Go value suitable for
// encoding/json.Marshal. Objects become map[string]any, which has no key
// order; callers that need ordered output should use MarshalOrdered
// instead.
func ToJSON(v Value) any {
	switch t := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToJSON(e)
		}
		return out
	case Object:
		out := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			out[k] = ToJSON(val)
		}
		return out
	case Expression:
		return nil
	default:
		return nil
	}
}

// MarshalOrdered renders v as JSON text, preserving Object key order (which
// json.Marshal on a map[string]any cannot do).
func MarshalOrdered(v Value) ([]byte, error) {
	switch t := v.(type) {
	case Null:
		return []byte("null"), nil
	case Bool, Number, String:
		return json.Marshal(ToJSON(t))
	case Array:
		out := []byte{'['}
		for i, e := range t {
			if i > 0 {
				out = append(out, ',')
			}
			b, err := MarshalOrdered(e)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return append(out, ']'), nil
	case Object:
		out := []byte{'{'}
		for i, k := range t.Keys() {
			if i > 0 {
				out = append(out, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			out = append(out, kb...)
			out = append(out, ':')
			val, _ := t.Get(k)
			vb, err := MarshalOrdered(val)
			if err != nil {
				return nil, err
			}
			out = append(out, vb...)
		}
		return append(out, '}'), nil
	case Expression:
		return nil, fmt.Errorf("cannot encode an expression reference as JSON")
	default:
		return nil, fmt.Errorf("cannot encode value of type %T as JSON", v)
	}
}

// ToFloat64 converts a numeric Go value (as might arrive through a custom
// function dispatcher) into float64. Adapted directly from
// internal/rq/number/number.go's ToFloat64, trimmed to the concrete numeric
// kinds json.Unmarshal and this package's own Number type actually produce.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case Number:
		return float64(n), true
	default:
		return 0, false
	}
}
