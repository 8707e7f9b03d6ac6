package value

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeJSON parses r as a single JSON document into a Value, preserving
// object key order exactly as it appears in the source text. This is the
// order-preserving counterpart to FromJSON: json.Unmarshal into
// map[string]any loses key order because Go maps have none, so anything
// that must honor spec.md 3.1's "Object preserves insertion order" and
// section 8.1's key-order property needs to walk the token stream directly,
// in the spirit of internal/jsonpath's token-by-token decoder from the
// teacher repo.
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	return v, nil
}

// DecodeJSONString is a convenience wrapper around DecodeJSON for callers
// holding an in-memory document.
func DecodeJSONString(s string) (Value, error) {
	return DecodeJSON(jsonStringReader(s))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		default:
			return nil, fmt.Errorf("unexpected JSON delimiter %q", t)
		}
	default:
		return nil, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var out Array
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	if out == nil {
		out = Array{}
	}
	return out, nil
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected JSON object key, got %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return obj, nil
}

type jsonStrReader struct {
	s   string
	pos int
}

func jsonStringReader(s string) *jsonStrReader { return &jsonStrReader{s: s} }

func (r *jsonStrReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.s) {
		return 0, io.EOF
	}
	n := copy(p, r.s[r.pos:])
	r.pos += n
	return n, nil
}
