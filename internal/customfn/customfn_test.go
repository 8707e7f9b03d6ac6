package customfn

import (
	"testing"

	"github.com/jacoelho/jmespath/internal/ast"
	"github.com/jacoelho/jmespath/internal/interp"
	"github.com/jacoelho/jmespath/internal/value"
)

func TestWithUUID(t *testing.T) {
	d := WithUUID(nil)

	v, err := d.Call("uuid", nil)
	if err != nil {
		t.Fatalf("uuid(): unexpected error: %v", err)
	}
	s, ok := v.(value.String)
	if !ok {
		t.Fatalf("uuid(): got %T, want value.String", v)
	}
	if len(s) != 36 {
		t.Errorf("uuid(): got %q, want a 36-character UUID string", s)
	}

	if _, err := d.Call("uuid", []value.Value{value.Number(1)}); err == nil {
		t.Error("uuid(1): expected an arity error, got nil")
	}

	if _, err := d.Call("length", []value.Value{value.String("abc")}); err != nil {
		t.Errorf("length(\"abc\") via delegated registry: unexpected error: %v", err)
	}

	node := ast.Function{Name: "uuid", Args: []ast.Node{ast.Literal{Value: value.Number(1)}}}
	if _, err := interp.New(d).Eval(node, value.Null{}); err == nil {
		t.Error("expected an error evaluating uuid(`1`)")
	}
}
