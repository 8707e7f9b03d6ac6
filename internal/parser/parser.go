// Package parser implements a Pratt (top-down operator-precedence) parser
// for JMESPath expressions, driven by per-token-kind nud (null-denotation)
// and led (left-denotation) handlers and a binding-power table, per
// spec.md section 4.2.
//
// nud and led are switches over the token kind enum rather than a dispatch
// keyed on a stringly-typed "visit_" + kind, so a token kind with no
// handler falls to a default case that reports "invalid use of <kind>"
// instead of a silently no-op typo.
package parser

import (
	"encoding/json"

	"github.com/jacoelho/jmespath/internal/ast"
	"github.com/jacoelho/jmespath/internal/lexer"
	"github.com/jacoelho/jmespath/internal/stack"
	"github.com/jacoelho/jmespath/internal/token"
	"github.com/jacoelho/jmespath/internal/value"
)

// maxDepth bounds expression nesting, per spec.md section 5's guidance to
// fail with a ParseError rather than overflow the native stack.
const maxDepth = 200

// Binding powers. See DESIGN.md for why this table's or/and/comparator
// values differ from the literal numbers spec.md section 4.2 states: those
// numbers are internally inconsistent with the Pratt algorithm spec.md
// itself defines, and spec.md section 9 directs implementers to the
// compliance corpus as the normative source when a draft's numbers and its
// described behavior disagree.
const (
	bpPipe       = 1
	bpOr         = 2
	bpAnd        = 3
	bpComparator = 5
	bpFlatten    = 6
	bpStar       = 20
	bpDot        = 40
	bpNot        = 45
	bpLBrace     = 50
	bpFilter     = 50
	bpLBracket   = 50
	bpLParen     = 60
)

func bindingPower(k token.Kind) int {
	switch k {
	case token.Pipe:
		return bpPipe
	case token.Or:
		return bpOr
	case token.And:
		return bpAnd
	case token.Comparator:
		return bpComparator
	case token.Flatten:
		return bpFlatten
	case token.Star:
		return bpStar
	case token.Dot:
		return bpDot
	case token.Not:
		return bpNot
	case token.LBrace:
		return bpLBrace
	case token.Filter:
		return bpFilter
	case token.LBracket:
		return bpLBracket
	case token.LParen:
		return bpLParen
	default:
		return 0
	}
}

// afterDot is the set of token kinds legal immediately following a '.'.
func afterDot(k token.Kind) bool {
	switch k {
	case token.Identifier, token.QuotedIdentifier, token.LBracket, token.LBrace, token.Star:
		return true
	default:
		return false
	}
}

type parser struct {
	tokens []token.Token
	pos    int
	source string
	depth  int
	nest   *stack.Stack[byte]
}

// Parse tokenizes and parses expr into an AST, per spec.md section 4.2's
// contract: after the top-level expression, the current token must be eof.
func Parse(expr string) (ast.Node, error) {
	tokens, err := lexer.Tokenize(expr)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, source: expr, nest: stack.New[byte]()}
	if p.current().Kind == token.EOF {
		return nil, parseError(expr, 1, "expression is empty")
	}

	root, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Kind != token.EOF {
		return nil, parseError(expr, tok.Pos, "unexpected token %s", tok.Kind)
	}

	return root, nil
}

func (p *parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF, Pos: len(p.source) + 1}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() token.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	tok := p.current()
	if tok.Kind != k {
		return tok, parseError(p.source, tok.Pos, "expected %s, found %s", k, tok.Kind)
	}
	return tok, nil
}

// parseExpression is the Pratt driver: expr(rbp) from spec.md section 4.2.
func (p *parser) parseExpression(rbp int) (ast.Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, parseError(p.source, p.current().Pos, "expression nested too deeply")
	}

	tok := p.advance()
	left, err := p.nud(tok)
	if err != nil {
		return nil, err
	}

	for bindingPower(p.current().Kind) > rbp {
		tok = p.advance()
		left, err = p.led(tok, left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *parser) nud(tok token.Token) (ast.Node, error) {
	switch tok.Kind {
	case token.Identifier:
		return ast.Field{Key: tok.Value}, nil
	case token.QuotedIdentifier:
		key, err := decodeQuotedIdentifier(tok.Value)
		if err != nil {
			return nil, parseError(p.source, tok.Pos, "%s", err)
		}
		if p.current().Kind == token.LParen {
			return nil, parseError(p.source, p.current().Pos, "quoted identifiers are not allowed for function names")
		}
		return ast.Field{Key: key}, nil
	case token.Current:
		return ast.Current{}, nil
	case token.Literal:
		v, err := value.DecodeJSONString(tok.Value)
		if err != nil {
			return nil, parseError(p.source, tok.Pos, "invalid raw string literal: %s", err)
		}
		return ast.Literal{Value: v}, nil
	case token.Expref:
		child, err := p.parseExpression(bpOr)
		if err != nil {
			return nil, err
		}
		return ast.Expref{Child: child}, nil
	case token.Not:
		child, err := p.parseExpression(bpNot)
		if err != nil {
			return nil, err
		}
		return ast.Not{Child: child}, nil
	case token.LBrace:
		return p.parseMultiSelectHash()
	case token.Flatten:
		return p.ledFlatten(ast.Current{})
	case token.Filter:
		return p.ledFilter(ast.Current{})
	case token.Star:
		right, err := p.parseProjectionRHS(bpStar)
		if err != nil {
			return nil, err
		}
		return ast.ObjectProjection{Left: ast.Current{}, Right: right}, nil
	case token.LBracket:
		return p.nudLBracket()
	default:
		return nil, parseError(p.source, tok.Pos, "invalid use of %s", tok.Kind)
	}
}

func (p *parser) led(tok token.Token, left ast.Node) (ast.Node, error) {
	switch tok.Kind {
	case token.LBracket:
		return p.ledLBracket(left)
	case token.Dot:
		return p.ledDot(left)
	case token.Flatten:
		return p.ledFlatten(left)
	case token.Or:
		right, err := p.parseExpression(bpOr)
		if err != nil {
			return nil, err
		}
		return ast.Or{Left: left, Right: right}, nil
	case token.And:
		right, err := p.parseExpression(bpAnd)
		if err != nil {
			return nil, err
		}
		return ast.And{Left: left, Right: right}, nil
	case token.Pipe:
		right, err := p.parseExpression(bpPipe)
		if err != nil {
			return nil, err
		}
		return ast.Pipe{Left: left, Right: right}, nil
	case token.Comparator:
		right, err := p.parseExpression(bpComparator)
		if err != nil {
			return nil, err
		}
		return ast.Comparator{Op: ast.ComparatorOp(tok.Value), Left: left, Right: right}, nil
	case token.Filter:
		return p.ledFilter(left)
	case token.LParen:
		return p.ledLParen(left, tok)
	default:
		return nil, parseError(p.source, tok.Pos, "invalid use of %s", tok.Kind)
	}
}

func (p *parser) ledFlatten(left ast.Node) (ast.Node, error) {
	right, err := p.parseProjectionRHS(bpFlatten)
	if err != nil {
		return nil, err
	}
	return ast.ArrayProjection{Left: ast.Flatten{Child: left}, Right: right}, nil
}

func (p *parser) ledFilter(left ast.Node) (ast.Node, error) {
	predicate, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	p.advance()
	right, err := p.parseProjectionRHS(bpFilter)
	if err != nil {
		return nil, err
	}
	return ast.ArrayProjection{Left: left, Right: ast.Condition{Predicate: predicate, Then: right}}, nil
}

func (p *parser) ledDot(left ast.Node) (ast.Node, error) {
	// The Pratt driver has already consumed the '.' before calling led.
	if !afterDot(p.current().Kind) {
		return nil, parseError(p.source, p.current().Pos, "expected identifier, '*', '{' or '[' after '.', found %s", p.current().Kind)
	}

	if p.current().Kind == token.Star {
		p.advance()
		right, err := p.parseProjectionRHS(bpStar)
		if err != nil {
			return nil, err
		}
		return ast.ObjectProjection{Left: left, Right: right}, nil
	}

	if p.current().Kind == token.LBracket {
		p.advance()
		list, err := p.parseMultiSelectList()
		if err != nil {
			return nil, err
		}
		return ast.Subexpression{Left: left, Right: list}, nil
	}

	right, err := p.parseExpression(bpDot)
	if err != nil {
		return nil, err
	}
	return ast.Subexpression{Left: left, Right: right}, nil
}

func (p *parser) ledLBracket(left ast.Node) (ast.Node, error) {
	switch p.current().Kind {
	case token.Number, token.Colon:
		idx, err := p.parseArrayIndexExpr()
		if err != nil {
			return nil, err
		}
		return ast.Subexpression{Left: left, Right: idx}, nil
	case token.Star:
		p.advance()
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		p.advance()
		right, err := p.parseProjectionRHS(bpStar)
		if err != nil {
			return nil, err
		}
		return ast.ArrayProjection{Left: left, Right: right}, nil
	default:
		return nil, parseError(p.source, p.current().Pos, "expected number, ':' or '*' after '[', found %s", p.current().Kind)
	}
}

func (p *parser) ledLParen(left ast.Node, tok token.Token) (ast.Node, error) {
	field, ok := left.(ast.Field)
	if !ok {
		return nil, parseError(p.source, tok.Pos, "invalid function call syntax")
	}

	var args []ast.Node
	if p.current().Kind != token.RParen {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current().Kind != token.Comma {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	p.advance()

	return ast.Function{Name: field.Key, Args: args}, nil
}

// nudLBracket dispatches on lookahead per spec.md section 4.2.
func (p *parser) nudLBracket() (ast.Node, error) {
	switch p.current().Kind {
	case token.Number, token.Colon:
		return p.parseArrayIndexExpr()
	case token.Star:
		if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == token.RBracket {
			p.advance() // '*'
			p.advance() // ']'
			right, err := p.parseProjectionRHS(bpStar)
			if err != nil {
				return nil, err
			}
			return ast.ArrayProjection{Left: ast.Current{}, Right: right}, nil
		}
		return p.parseMultiSelectList()
	default:
		return p.parseMultiSelectList()
	}
}

// parseProjectionRHS is parse_projection(rbp) from spec.md section 4.2.
func (p *parser) parseProjectionRHS(rbp int) (ast.Node, error) {
	if bindingPower(p.current().Kind) < 10 {
		return ast.Current{}, nil
	}

	switch p.current().Kind {
	case token.Dot:
		p.advance()
		if !afterDot(p.current().Kind) {
			return nil, parseError(p.source, p.current().Pos, "expected identifier, '*', '{' or '[' after '.', found %s", p.current().Kind)
		}
		return p.parseDot(rbp)
	case token.LBracket, token.Filter:
		return p.parseExpression(rbp)
	default:
		return nil, parseError(p.source, p.current().Pos, "syntax error after projection")
	}
}

// parseDot is parse_dot(rbp): disambiguates a.[b,c] from a[b].
func (p *parser) parseDot(rbp int) (ast.Node, error) {
	if p.current().Kind == token.LBracket {
		p.advance()
		return p.parseMultiSelectList()
	}
	return p.parseExpression(rbp)
}

// parseArrayIndexExpr is parse_array_index_expr from spec.md section 4.2.
func (p *parser) parseArrayIndexExpr() (ast.Node, error) {
	if err := p.pushBracket('['); err != nil {
		return nil, err
	}
	defer p.popBracket()

	var parts [3]*int
	colons := 0
	i := 0
	for {
		switch p.current().Kind {
		case token.Number:
			n := int(p.current().Num)
			parts[i] = &n
			p.advance()
		case token.Colon:
			colons++
			i++
			if i > 2 {
				return nil, parseError(p.source, p.current().Pos, "too many colons in slice expression")
			}
			p.advance()
			continue
		case token.RBracket:
			p.advance()
			if colons == 0 {
				if parts[0] == nil {
					return nil, parseError(p.source, p.current().Pos, "expected a number inside '[]'")
				}
				return ast.Index{Value: *parts[0]}, nil
			}
			return ast.Slice{Start: parts[0], Stop: parts[1], Step: parts[2]}, nil
		default:
			return nil, parseError(p.source, p.current().Pos, "expected number, ':' or ']', found %s", p.current().Kind)
		}
	}
}

// parseMultiSelectList parses "[a, b, c]" with the leading '[' already
// consumed.
func (p *parser) parseMultiSelectList() (ast.Node, error) {
	if err := p.pushBracket('['); err != nil {
		return nil, err
	}
	defer p.popBracket()

	var children []ast.Node
	for {
		child, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		if p.current().Kind != token.Comma {
			break
		}
		p.advance()
	}

	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	p.advance()

	return ast.MultiSelectList{Children: children}, nil
}

// parseMultiSelectHash parses "{a: x, b: y}" with the leading '{' already
// consumed (it is the nud for LBrace).
func (p *parser) parseMultiSelectHash() (ast.Node, error) {
	if err := p.pushBracket('{'); err != nil {
		return nil, err
	}
	defer p.popBracket()

	var pairs []ast.KeyValue
	for {
		keyTok := p.current()
		var key string
		switch keyTok.Kind {
		case token.Identifier:
			key = keyTok.Value
			p.advance()
		case token.QuotedIdentifier:
			var err error
			key, err = decodeQuotedIdentifier(keyTok.Value)
			if err != nil {
				return nil, parseError(p.source, keyTok.Pos, "%s", err)
			}
			p.advance()
		default:
			return nil, parseError(p.source, keyTok.Pos, "expected identifier or quoted identifier, found %s", keyTok.Kind)
		}

		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		p.advance()

		val, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ast.KeyValue{Key: key, Value: val})

		if p.current().Kind != token.Comma {
			break
		}
		p.advance()
	}

	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	p.advance()

	return ast.MultiSelectHash{Pairs: pairs}, nil
}

// pushBracket tracks open '[' / '{' nesting on a stack (adapted from
// internal/stack's generic Stack[T], originally used by the teacher's
// jsonpath streamer to track container frames). It gives a second,
// bracket-specific depth guard alongside parseExpression's general
// recursion counter.
func (p *parser) pushBracket(b byte) error {
	p.nest.Push(b)
	if p.nest.Size() > maxDepth {
		return parseError(p.source, p.current().Pos, "expression nested too deeply")
	}
	return nil
}

func (p *parser) popBracket() { p.nest.Pop() }

func decodeQuotedIdentifier(raw string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return "", err
	}
	return s, nil
}
