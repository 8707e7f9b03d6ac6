package lexer

import (
	"testing"

	"github.com/jacoelho/jmespath/internal/token"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		kinds []token.Kind
	}{
		{
			name:  "field chain",
			expr:  "foo.bar",
			kinds: []token.Kind{token.Identifier, token.Dot, token.Identifier, token.EOF},
		},
		{
			name:  "index and slice",
			expr:  "a[0][1:2:1]",
			kinds: []token.Kind{token.Identifier, token.LBracket, token.Number, token.RBracket, token.LBracket, token.Number, token.Colon, token.Number, token.Colon, token.Number, token.RBracket, token.EOF},
		},
		{
			name:  "flatten and filter",
			expr:  "a[].b[?c]",
			kinds: []token.Kind{token.Identifier, token.Flatten, token.Dot, token.Identifier, token.Filter, token.Identifier, token.RBracket, token.EOF},
		},
		{
			name:  "operators",
			expr:  "a || b && !c == d != e <= f >= g < h > i",
			kinds: []token.Kind{
				token.Identifier, token.Or, token.Identifier, token.And, token.Not, token.Identifier,
				token.Comparator, token.Identifier, token.Comparator, token.Identifier,
				token.Comparator, token.Identifier, token.Comparator, token.Identifier,
				token.Comparator, token.Identifier, token.Comparator, token.Identifier, token.EOF,
			},
		},
		{
			name:  "pipe and expref",
			expr:  "a | &b",
			kinds: []token.Kind{token.Identifier, token.Pipe, token.Expref, token.Identifier, token.EOF},
		},
		{
			name:  "quoted identifier and literal",
			expr:  "\"a b\".c | `[1,2]`",
			kinds: []token.Kind{token.QuotedIdentifier, token.Dot, token.Identifier, token.Pipe, token.Literal, token.EOF},
		},
		{
			name:  "multi-select",
			expr:  "{a: b, c: d}",
			kinds: []token.Kind{token.LBrace, token.Identifier, token.Colon, token.Identifier, token.Comma, token.Identifier, token.Colon, token.Identifier, token.RBrace, token.EOF},
		},
		{
			name:  "function call",
			expr:  "length(@)",
			kinds: []token.Kind{token.Identifier, token.LParen, token.Current, token.RParen, token.EOF},
		},
		{
			name:  "negative number",
			expr:  "a[-1]",
			kinds: []token.Kind{token.Identifier, token.LBracket, token.Number, token.RBracket, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.expr)
			if err != nil {
				t.Fatalf("Tokenize(%q): unexpected error: %v", tt.expr, err)
			}
			if len(tokens) != len(tt.kinds) {
				t.Fatalf("Tokenize(%q) produced %d tokens, want %d: %v", tt.expr, len(tokens), len(tt.kinds), tokens)
			}
			for i, k := range tt.kinds {
				if tokens[i].Kind != k {
					t.Errorf("Tokenize(%q) token[%d].Kind = %s, want %s", tt.expr, i, tokens[i].Kind, k)
				}
			}
		})
	}
}

func TestTokenizeNumberValue(t *testing.T) {
	tokens, err := Tokenize("a[-12]")
	if err != nil {
		t.Fatalf("Tokenize: unexpected error: %v", err)
	}
	if tokens[2].Kind != token.Number || tokens[2].Num != -12 {
		t.Errorf("got %+v, want Number -12", tokens[2])
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []string{
		"a = b",
		`"unterminated`,
		"`unterminated",
		"#",
	}
	for _, expr := range tests {
		if _, err := Tokenize(expr); err == nil {
			t.Errorf("Tokenize(%q): expected an error, got nil", expr)
		}
	}
}

func TestDecodeLiteralToken(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"`1`", "1"},
		{"`\"a\"`", "\"a\""},
		{"`true`", "true"},
		{"`null`", "null"},
		{"`[1,2]`", "[1,2]"},
		{"`abc`", `"abc"`},
	}
	for _, tt := range tests {
		tokens, err := Tokenize(tt.expr)
		if err != nil {
			t.Fatalf("Tokenize(%q): unexpected error: %v", tt.expr, err)
		}
		if tokens[0].Value != tt.want {
			t.Errorf("Tokenize(%q) literal value = %q, want %q", tt.expr, tokens[0].Value, tt.want)
		}
	}
}
