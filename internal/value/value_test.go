package value

import "testing"

func TestTruthy(t *testing.T) {
	obj := NewObject()
	nonEmptyObj := NewObject()
	nonEmptyObj.Set("a", Number(1))

	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null{}, false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero number", Number(0), true},
		{"empty string", String(""), false},
		{"non-empty string", String("x"), true},
		{"empty array", Array{}, false},
		{"non-empty array", Array{Number(1)}, true},
		{"empty object", obj, false},
		{"non-empty object", nonEmptyObj, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.v); got != tt.want {
				t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := NewObject()
	a.Set("x", Number(1))
	a.Set("y", Number(2))

	b := NewObject()
	b.Set("y", Number(2))
	b.Set("x", Number(1))

	c := NewObject()
	c.Set("x", Number(1))

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal numbers", Number(1), Number(1), true},
		{"unequal numbers", Number(1), Number(2), false},
		{"equal strings", String("a"), String("a"), true},
		{"equal arrays", Array{Number(1), String("a")}, Array{Number(1), String("a")}, true},
		{"unequal array order", Array{Number(1), Number(2)}, Array{Number(2), Number(1)}, false},
		{"objects equal regardless of key order", a, b, true},
		{"objects unequal key sets", a, c, false},
		{"mismatched types", Number(1), String("1"), false},
		{"null equals null", Null{}, Null{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestArrayAt(t *testing.T) {
	arr := Array{Number(1), Number(2), Number(3)}

	tests := []struct {
		i    int
		want Number
		ok   bool
	}{
		{0, 1, true},
		{2, 3, true},
		{-1, 3, true},
		{-3, 1, true},
		{3, 0, false},
		{-4, 0, false},
	}

	for _, tt := range tests {
		v, ok := arr.At(tt.i)
		if ok != tt.ok {
			t.Errorf("At(%d) ok = %v, want %v", tt.i, ok, tt.ok)
			continue
		}
		if ok && v.(Number) != tt.want {
			t.Errorf("At(%d) = %v, want %v", tt.i, v, tt.want)
		}
	}
}

func TestNumberIsInteger(t *testing.T) {
	if !Number(5).IsInteger() {
		t.Error("Number(5).IsInteger() = false, want true")
	}
	if Number(5.5).IsInteger() {
		t.Error("Number(5.5).IsInteger() = true, want false")
	}
}
