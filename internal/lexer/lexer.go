// Package lexer turns a JMESPath expression string into a token stream.
//
// The scanner is a single-pass, hand-rolled state machine in the style of
// jacoelho-rq's internal/rq/expr lexer: a position cursor, a handful of
// character-class predicates, and a switch over the current byte for
// multi-character operators.
package lexer

import (
	"strings"
	"unicode"

	"github.com/jacoelho/jmespath/internal/token"
)

// Tokenize scans expr into a token stream terminated by an EOF token whose
// Pos is len(expr)+1.
func Tokenize(expr string) ([]token.Token, error) {
	tokens := make([]token.Token, 0, len(expr)/2+1)
	pos := 0

	for pos < len(expr) {
		c := expr[pos]

		if isSpace(c) {
			pos++
			continue
		}

		switch {
		case isIdentifierStart(rune(c)):
			tok, next := lexIdentifier(expr, pos)
			tokens = append(tokens, tok)
			pos = next
			continue
		case c >= '0' && c <= '9', c == '-' && pos+1 < len(expr) && isDigit(expr[pos+1]):
			tok, next, err := lexNumber(expr, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next
			continue
		case c == '"':
			tok, next, err := lexQuotedIdentifier(expr, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next
			continue
		case c == '`':
			tok, next, err := lexLiteral(expr, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next
			continue
		}

		switch c {
		case '.':
			tokens = append(tokens, token.Token{Kind: token.Dot, Pos: pos + 1})
			pos++
		case '*':
			tokens = append(tokens, token.Token{Kind: token.Star, Pos: pos + 1})
			pos++
		case ',':
			tokens = append(tokens, token.Token{Kind: token.Comma, Pos: pos + 1})
			pos++
		case ':':
			tokens = append(tokens, token.Token{Kind: token.Colon, Pos: pos + 1})
			pos++
		case '{':
			tokens = append(tokens, token.Token{Kind: token.LBrace, Pos: pos + 1})
			pos++
		case '}':
			tokens = append(tokens, token.Token{Kind: token.RBrace, Pos: pos + 1})
			pos++
		case ')':
			tokens = append(tokens, token.Token{Kind: token.RParen, Pos: pos + 1})
			pos++
		case '(':
			tokens = append(tokens, token.Token{Kind: token.LParen, Pos: pos + 1})
			pos++
		case ']':
			tokens = append(tokens, token.Token{Kind: token.RBracket, Pos: pos + 1})
			pos++
		case '@':
			tokens = append(tokens, token.Token{Kind: token.Current, Pos: pos + 1})
			pos++
		case '[':
			switch {
			case pos+1 < len(expr) && expr[pos+1] == ']':
				tokens = append(tokens, token.Token{Kind: token.Flatten, Pos: pos + 1})
				pos += 2
			case pos+1 < len(expr) && expr[pos+1] == '?':
				tokens = append(tokens, token.Token{Kind: token.Filter, Pos: pos + 1})
				pos += 2
			default:
				tokens = append(tokens, token.Token{Kind: token.LBracket, Pos: pos + 1})
				pos++
			}
		case '|':
			if pos+1 < len(expr) && expr[pos+1] == '|' {
				tokens = append(tokens, token.Token{Kind: token.Or, Pos: pos + 1})
				pos += 2
			} else {
				tokens = append(tokens, token.Token{Kind: token.Pipe, Pos: pos + 1})
				pos++
			}
		case '&':
			if pos+1 < len(expr) && expr[pos+1] == '&' {
				tokens = append(tokens, token.Token{Kind: token.And, Pos: pos + 1})
				pos += 2
			} else {
				tokens = append(tokens, token.Token{Kind: token.Expref, Pos: pos + 1})
				pos++
			}
		case '!':
			if pos+1 < len(expr) && expr[pos+1] == '=' {
				tokens = append(tokens, token.Token{Kind: token.Comparator, Pos: pos + 1, Value: "!="})
				pos += 2
			} else {
				tokens = append(tokens, token.Token{Kind: token.Not, Pos: pos + 1})
				pos++
			}
		case '=':
			if pos+1 < len(expr) && expr[pos+1] == '=' {
				tokens = append(tokens, token.Token{Kind: token.Comparator, Pos: pos + 1, Value: "=="})
				pos += 2
			} else {
				return nil, lexError(pos+1, "unexpected '=', did you mean '=='?")
			}
		case '<':
			if pos+1 < len(expr) && expr[pos+1] == '=' {
				tokens = append(tokens, token.Token{Kind: token.Comparator, Pos: pos + 1, Value: "<="})
				pos += 2
			} else {
				tokens = append(tokens, token.Token{Kind: token.Comparator, Pos: pos + 1, Value: "<"})
				pos++
			}
		case '>':
			if pos+1 < len(expr) && expr[pos+1] == '=' {
				tokens = append(tokens, token.Token{Kind: token.Comparator, Pos: pos + 1, Value: ">="})
				pos += 2
			} else {
				tokens = append(tokens, token.Token{Kind: token.Comparator, Pos: pos + 1, Value: ">"})
				pos++
			}
		default:
			return nil, lexError(pos+1, "unexpected character %q", c)
		}
	}

	tokens = append(tokens, token.Token{Kind: token.EOF, Pos: len(expr) + 1})
	return tokens, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lexIdentifier(expr string, start int) (token.Token, int) {
	pos := start + 1
	for pos < len(expr) && isIdentifierPart(rune(expr[pos])) {
		pos++
	}
	return token.Token{Kind: token.Identifier, Pos: start + 1, Value: expr[start:pos]}, pos
}

func lexNumber(expr string, start int) (token.Token, int, error) {
	pos := start
	if expr[pos] == '-' {
		pos++
	}
	digitStart := pos
	for pos < len(expr) && isDigit(expr[pos]) {
		pos++
	}
	if pos == digitStart {
		return token.Token{}, 0, lexError(start+1, "invalid number")
	}

	text := expr[start:pos]
	var n float64
	neg := false
	i := 0
	if text[0] == '-' {
		neg = true
		i = 1
	}
	for ; i < len(text); i++ {
		n = n*10 + float64(text[i]-'0')
	}
	if neg {
		n = -n
	}

	return token.Token{Kind: token.Number, Pos: start + 1, Value: text, Num: n}, pos, nil
}

func lexQuotedIdentifier(expr string, start int) (token.Token, int, error) {
	pos := start + 1
	for pos < len(expr) {
		switch expr[pos] {
		case '"':
			return token.Token{Kind: token.QuotedIdentifier, Pos: start + 1, Value: expr[start : pos+1]}, pos + 1, nil
		case '\\':
			pos += 2
			continue
		default:
			pos++
		}
	}
	return token.Token{}, 0, lexError(start+1, "unterminated quoted identifier")
}

func lexLiteral(expr string, start int) (token.Token, int, error) {
	var raw strings.Builder
	pos := start + 1
	for pos < len(expr) {
		switch expr[pos] {
		case '`':
			return decodeLiteralToken(raw.String(), start), pos + 1, nil
		case '\\':
			if pos+1 < len(expr) && expr[pos+1] == '`' {
				raw.WriteByte('`')
				pos += 2
				continue
			}
			raw.WriteByte(expr[pos])
			pos++
		default:
			raw.WriteByte(expr[pos])
			pos++
		}
	}
	return token.Token{}, 0, lexError(start+1, "unterminated raw string literal")
}

// decodeLiteralToken normalizes the backtick payload into JSON text that the
// parser's literal nud handler can hand to encoding/json unmodified.
func decodeLiteralToken(content string, start int) token.Token {
	trimmed := strings.TrimSpace(content)
	var jsonText string
	switch {
	case strings.HasPrefix(trimmed, "\""), strings.HasPrefix(trimmed, "["), strings.HasPrefix(trimmed, "{"),
		len(trimmed) > 0 && (trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')):
		jsonText = content
	case trimmed == "null", trimmed == "true", trimmed == "false":
		jsonText = trimmed
	default:
		jsonText = strconvQuote(content)
	}
	return token.Token{Kind: token.Literal, Pos: start + 1, Value: jsonText}
}

// strconvQuote wraps content as a bare JSON string, escaping the minimal set
// of characters JSON requires.
func strconvQuote(content string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range content {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
