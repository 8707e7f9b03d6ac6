// Package ast defines the JMESPath abstract syntax tree, per spec.md
// section 3.3. Each node kind is its own Go struct; Node is a sealed
// interface (a private marker method) so the interpreter's type switch is
// exhaustive and a misspelled or missing case is a compile error instead of
// a silently no-op string-keyed dispatch (spec.md section 9's "eliminating
// the possibility of misspelled visitors" note).
package ast

import "github.com/jacoelho/jmespath/internal/value"

// Node is implemented by every AST variant in this package.
type Node interface {
	astNode()
}

// Field selects a named property from the current value: a.b
type Field struct {
	Key string
}

// Index selects a signed integer offset from an array: a[1]
type Index struct {
	Value int
}

// Slice takes a Python-style slice of an array or string: a[0:2:1]
// A nil pointer means "not specified" for that slot.
type Slice struct {
	Start *int
	Stop  *int
	Step  *int
}

// Current refers to the value under evaluation: @
type Current struct{}

// Literal holds a fully-decoded Value produced by a `...` raw literal.
type Literal struct {
	Value value.Value
}

// Expref wraps an unevaluated expression: &expr
type Expref struct {
	Child Node
}

// Subexpression chains two expressions: left.right
type Subexpression struct {
	Left  Node
	Right Node
}

// Pipe chains two expressions but closes any open projection: left | right
type Pipe struct {
	Left  Node
	Right Node
}

// Or implements the falsy-or operator: left || right
type Or struct {
	Left  Node
	Right Node
}

// And implements short-circuiting boolean and: left && right
type And struct {
	Left  Node
	Right Node
}

// Not implements boolean negation: !child
type Not struct {
	Child Node
}

// Flatten splices one level of nested arrays: child[]
type Flatten struct {
	Child Node
}

// ArrayProjection evaluates Right once per element of the array produced by
// Left, dropping Null results.
type ArrayProjection struct {
	Left  Node
	Right Node
}

// ObjectProjection evaluates Right once per value of the object produced by
// Left, in the object's insertion order, dropping Null results.
type ObjectProjection struct {
	Left  Node
	Right Node
}

// ComparatorOp enumerates the six comparison operators.
type ComparatorOp string

const (
	OpEqual        ComparatorOp = "=="
	OpNotEqual     ComparatorOp = "!="
	OpLessThan     ComparatorOp = "<"
	OpLessEqual    ComparatorOp = "<="
	OpGreaterThan  ComparatorOp = ">"
	OpGreaterEqual ComparatorOp = ">="
)

// Comparator applies Op to the results of Left and Right.
type Comparator struct {
	Op    ComparatorOp
	Left  Node
	Right Node
}

// Condition guards Then on Predicate being truthy; used inside filter
// projections: [?predicate]
type Condition struct {
	Predicate Node
	Then      Node
}

// MultiSelectList builds a fresh array from each child expression evaluated
// against the current value: [a, b, c]
type MultiSelectList struct {
	Children []Node
}

// KeyValue is a single key/expression pair inside a multi_select_hash.
type KeyValue struct {
	Key   string
	Value Node
}

// MultiSelectHash builds a fresh object from key/expression pairs
// evaluated against the current value: {a: x, b: y}
type MultiSelectHash struct {
	Pairs []KeyValue
}

// Function calls a builtin (or dispatcher-provided) function by name with
// evaluated arguments.
type Function struct {
	Name string
	Args []Node
}

func (Field) astNode()            {}
func (Index) astNode()            {}
func (Slice) astNode()            {}
func (Current) astNode()          {}
func (Literal) astNode()          {}
func (Expref) astNode()           {}
func (Subexpression) astNode()    {}
func (Pipe) astNode()             {}
func (Or) astNode()               {}
func (And) astNode()              {}
func (Not) astNode()              {}
func (Flatten) astNode()          {}
func (ArrayProjection) astNode()  {}
func (ObjectProjection) astNode() {}
func (Comparator) astNode()       {}
func (Condition) astNode()        {}
func (MultiSelectList) astNode()  {}
func (MultiSelectHash) astNode()  {}
func (Function) astNode()         {}
