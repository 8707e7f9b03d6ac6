package value

import "testing"

func TestDecodeJSONStringPreservesKeyOrder(t *testing.T) {
	v, err := DecodeJSONString(`{"z": 1, "a": 2, "m": 3}`)
	if err != nil {
		t.Fatalf("DecodeJSONString: unexpected error: %v", err)
	}

	obj, ok := v.(Object)
	if !ok {
		t.Fatalf("DecodeJSONString returned %T, want Object", v)
	}

	want := []string{"z", "a", "m"}
	got := obj.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i, k := range want {
		if got[i] != k {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], k)
		}
	}
}

func TestDecodeJSONStringNested(t *testing.T) {
	v, err := DecodeJSONString(`{"a": [1, 2, {"b": true, "c": null}], "d": "hi"}`)
	if err != nil {
		t.Fatalf("DecodeJSONString: unexpected error: %v", err)
	}

	obj := v.(Object)
	a, ok := obj.Get("a")
	if !ok {
		t.Fatal(`missing key "a"`)
	}
	arr, ok := a.(Array)
	if !ok || len(arr) != 3 {
		t.Fatalf("a = %v, want a 3-element array", a)
	}

	nested, ok := arr[2].(Object)
	if !ok {
		t.Fatalf("arr[2] = %v, want Object", arr[2])
	}
	b, _ := nested.Get("b")
	if b != Bool(true) {
		t.Errorf("nested.b = %v, want true", b)
	}
	c, _ := nested.Get("c")
	if _, isNull := c.(Null); !isNull {
		t.Errorf("nested.c = %v, want Null", c)
	}

	d, _ := obj.Get("d")
	if d != String("hi") {
		t.Errorf("d = %v, want \"hi\"", d)
	}
}

func TestDecodeJSONStringInvalid(t *testing.T) {
	if _, err := DecodeJSONString(`{invalid`); err == nil {
		t.Error("expected an error decoding invalid JSON")
	}
}
