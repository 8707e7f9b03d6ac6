package ast

import "testing"

// TestNodeSet is a compile-time-flavored check that every node kind listed
// in spec.md section 3.3 implements Node, so a future accidental removal of
// an astNode() method fails here instead of silently dropping a case from
// every exhaustive switch over Node in internal/interp.
func TestNodeSet(t *testing.T) {
	var nodes = []Node{
		Field{},
		Index{},
		Slice{},
		Current{},
		Literal{},
		Expref{},
		Subexpression{},
		Pipe{},
		Or{},
		And{},
		Not{},
		Flatten{},
		ArrayProjection{},
		ObjectProjection{},
		Comparator{},
		Condition{},
		MultiSelectList{},
		MultiSelectHash{},
		Function{},
	}

	if len(nodes) != 19 {
		t.Fatalf("expected 19 node kinds, got %d", len(nodes))
	}
}
