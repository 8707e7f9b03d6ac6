// Package jmespath implements a JMESPath query engine: a lexer, a Pratt
// parser, and a tree-walking interpreter over a dynamically-typed value
// model, following the grammar and semantics described at jmespath.org.
//
// Its public shape mirrors the reference jmespath-go package
// (NewLexer/NewParser alongside Search/Compile/MustCompile) so callers
// migrating from it find the same entry points.
package jmespath

import (
	"fmt"
	"sync"

	"github.com/jacoelho/jmespath/internal/ast"
	"github.com/jacoelho/jmespath/internal/interp"
	"github.com/jacoelho/jmespath/internal/lexer"
	"github.com/jacoelho/jmespath/internal/parser"
	"github.com/jacoelho/jmespath/internal/token"
	"github.com/jacoelho/jmespath/internal/value"
)

// Value re-exports the interpreter's value type so callers can construct
// literals (for a custom Dispatcher, say) without importing internal/value
// directly.
type Value = value.Value

// Lexer tokenizes a JMESPath expression. It is stateless beyond the method
// call itself; the zero value is ready to use.
type Lexer struct{}

// NewLexer returns a Lexer.
func NewLexer() *Lexer {
	return &Lexer{}
}

// Tokenize scans expr into its token stream.
func (*Lexer) Tokenize(expr string) ([]token.Token, error) {
	return lexer.Tokenize(expr)
}

// Parser parses a JMESPath expression into an AST. The zero value is ready
// to use.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses expr into an AST node.
func (*Parser) Parse(expr string) (ast.Node, error) {
	return parser.Parse(expr)
}

// Expression is a parsed, ready-to-evaluate JMESPath expression.
type Expression struct {
	node ast.Node
	it   *interp.Interpreter
}

// Search evaluates the expression against data, which must be a value
// produced by json.Unmarshal (or an equivalent any-shaped document: nil,
// bool, float64/json.Number, string, []any, map[string]any).
func (e *Expression) Search(data any) (any, error) {
	v, err := e.it.Eval(e.node, value.FromJSON(data))
	if err != nil {
		return nil, err
	}
	return value.ToJSON(v), nil
}

// SearchValue evaluates the expression against an already-constructed
// Value, preserving object key order on both sides. Prefer this over
// Search when the input came from DecodeJSON/DecodeJSONString, since
// round-tripping through any loses key order.
func (e *Expression) SearchValue(data Value) (Value, error) {
	return e.it.Eval(e.node, data)
}

// String renders the expression's original source is not retained; String
// returns a debug representation of the parsed AST node's Go type instead.
func (e *Expression) String() string {
	return fmt.Sprintf("%T", e.node)
}

// Options configures a Runtime.
type Options struct {
	// FnDispatcher, if set, replaces the default builtin function registry.
	// Wrap interp.DefaultRegistry (via internal/customfn's pattern) to add
	// functions rather than reimplementing the builtin set from scratch.
	FnDispatcher interp.Dispatcher
}

// Runtime is a configured JMESPath engine: a Dispatcher plus the compile
// cache that Parse/Search share when called as package-level functions
// backed by DefaultRuntime.
type Runtime struct {
	it *interp.Interpreter

	mu    sync.Mutex
	cache map[string]ast.Node
}

// maxCacheEntries bounds the compiled-expression cache; once full, it is
// reset rather than evicted piecemeal, since JMESPath expressions are short
// and programs typically use a small, stable set of them.
const maxCacheEntries = 1024

// NewRuntime returns a Runtime configured with opts.
func NewRuntime(opts Options) *Runtime {
	return &Runtime{
		it:    interp.New(opts.FnDispatcher),
		cache: make(map[string]ast.Node),
	}
}

// DefaultRuntime is the Runtime used by the package-level Parse/Search/
// MustCompile functions.
var DefaultRuntime = NewRuntime(Options{})

// Compile parses expr, caching the resulting AST for subsequent calls with
// the same source text.
func (rt *Runtime) Compile(expr string) (*Expression, error) {
	rt.mu.Lock()
	node, ok := rt.cache[expr]
	rt.mu.Unlock()
	if !ok {
		var err error
		node, err = parser.Parse(expr)
		if err != nil {
			return nil, err
		}
		rt.mu.Lock()
		if len(rt.cache) >= maxCacheEntries {
			rt.cache = make(map[string]ast.Node)
		}
		rt.cache[expr] = node
		rt.mu.Unlock()
	}
	return &Expression{node: node, it: rt.it}, nil
}

// MustCompile is like Compile but panics on error. It is intended for
// package-level expression variables initialized at startup.
func (rt *Runtime) MustCompile(expr string) *Expression {
	e, err := rt.Compile(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// Search parses expr (using the compile cache) and evaluates it against
// data in one call.
func (rt *Runtime) Search(expr string, data any) (any, error) {
	e, err := rt.Compile(expr)
	if err != nil {
		return nil, err
	}
	return e.Search(data)
}

// Parse compiles expr using DefaultRuntime.
func Parse(expr string) (*Expression, error) {
	return DefaultRuntime.Compile(expr)
}

// MustCompile compiles expr using DefaultRuntime, panicking on error.
func MustCompile(expr string) *Expression {
	return DefaultRuntime.MustCompile(expr)
}

// Search parses and evaluates expr against data using DefaultRuntime.
func Search(expr string, data any) (any, error) {
	return DefaultRuntime.Search(expr, data)
}

// Decode parses a JSON document into a Value, preserving object key
// insertion order (unlike json.Unmarshal into an any).
func Decode(data []byte) (Value, error) {
	return value.DecodeJSONString(string(data))
}
