package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

func (k tokenKind) comparison() bool {
	return k >= tokenEq && k <= tokenGte
}

func (k tokenKind) String() string {
	switch k {
	case tokenEq:
		return "=="
	case tokenNeq:
		return "!="
	case tokenLt:
		return "<"
	case tokenLte:
		return "<="
	case tokenGt:
		return ">"
	case tokenGte:
		return ">="
	case tokenAnd:
		return "&&"
	case tokenOr:
		return "||"
	case tokenNot:
		return "!"
	}
	return "?"
}

type token struct {
	kind tokenKind
	raw  string
	pos  int
}

// lexer splits a rule into tokens. Identifiers may contain any letter, digit,
// '_', '-' or '.', so non-ASCII widget identifiers work unquoted.
type lexer struct {
	input  string
	pos    int
	tokens []token
}

func tokenize(input string) ([]token, error) {
	lx := &lexer{input: input}
	for {
		r, size := lx.peek()
		if size == 0 {
			return lx.tokens, nil
		}
		if unicode.IsSpace(r) {
			lx.pos += size
			continue
		}
		if err := lx.next(r); err != nil {
			return nil, fmt.Errorf("visibility/expr: %w at offset %d", err, lx.pos)
		}
	}
}

func (lx *lexer) peek() (rune, int) {
	if lx.pos >= len(lx.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(lx.input[lx.pos:])
}

func (lx *lexer) emit(kind tokenKind, raw string, width int) {
	lx.tokens = append(lx.tokens, token{kind: kind, raw: raw, pos: lx.pos})
	lx.pos += width
}

func (lx *lexer) follows(s string) bool {
	return strings.HasPrefix(lx.input[lx.pos:], s)
}

func (lx *lexer) next(r rune) error {
	switch {
	case r == '(':
		lx.emit(tokenLParen, "(", 1)
	case r == ')':
		lx.emit(tokenRParen, ")", 1)
	case lx.follows("=="):
		lx.emit(tokenEq, "==", 2)
	case lx.follows("!="):
		lx.emit(tokenNeq, "!=", 2)
	case lx.follows("<="):
		lx.emit(tokenLte, "<=", 2)
	case lx.follows(">="):
		lx.emit(tokenGte, ">=", 2)
	case lx.follows("&&"):
		lx.emit(tokenAnd, "&&", 2)
	case lx.follows("||"):
		lx.emit(tokenOr, "||", 2)
	case r == '<':
		lx.emit(tokenLt, "<", 1)
	case r == '>':
		lx.emit(tokenGt, ">", 1)
	case r == '!':
		lx.emit(tokenNot, "!", 1)
	case r == '=':
		return errors.New("unexpected '='; use '=='")
	case r == '&':
		return errors.New("unexpected '&'; use '&&'")
	case r == '|':
		return errors.New("unexpected '|'; use '||'")
	case r == '"' || r == '\'':
		return lx.quoted(r)
	case unicode.IsDigit(r) || ((r == '-' || r == '+') && lx.digitAfterSign()):
		lx.number()
	case identRune(r):
		lx.word()
	default:
		return fmt.Errorf("unexpected character %q", r)
	}
	return nil
}

func (lx *lexer) digitAfterSign() bool {
	if lx.pos+1 >= len(lx.input) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(lx.input[lx.pos+1:])
	return unicode.IsDigit(next) || next == '.'
}

func (lx *lexer) quoted(quote rune) error {
	start := lx.pos
	end := start + 1
	escaped := false
	for end < len(lx.input) {
		c := lx.input[end]
		end++
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case rune(c) == quote:
			body := lx.input[start+1 : end-1]
			if quote == '\'' {
				body = strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return fmt.Errorf("invalid string literal: %w", err)
			}
			lx.emit(tokenString, value, end-start)
			return nil
		}
	}
	return errors.New("unterminated string literal")
}

func (lx *lexer) number() {
	end := lx.pos + 1
	for end < len(lx.input) {
		c := lx.input[end]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '_' {
			end++
			continue
		}
		break
	}
	lx.emit(tokenNumber, lx.input[lx.pos:end], end-lx.pos)
}

func (lx *lexer) word() {
	end := lx.pos
	for end < len(lx.input) {
		r, size := utf8.DecodeRuneInString(lx.input[end:])
		if !identRune(r) {
			break
		}
		end += size
	}
	raw := lx.input[lx.pos:end]
	switch strings.ToLower(raw) {
	case "true", "false":
		lx.emit(tokenBool, strings.ToLower(raw), end-lx.pos)
	case "null", "nil":
		lx.emit(tokenNull, "null", end-lx.pos)
	case "and":
		lx.emit(tokenAnd, "&&", end-lx.pos)
	case "or":
		lx.emit(tokenOr, "||", end-lx.pos)
	case "not":
		lx.emit(tokenNot, "!", end-lx.pos)
	default:
		lx.emit(tokenIdentifier, raw, end-lx.pos)
	}
}

func identRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}
