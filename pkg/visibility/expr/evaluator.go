package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/visibility"
)

// Evaluator is the default visibility evaluator. Rules are compiled once and
// cached, so evaluating the same rule across passes only walks the tree.
//
// Supported syntax:
//   - truthiness: `name`, `!terms`
//   - comparisons: `category == "books"`, `age >= 18`, `toggle != false`
//   - composition: `submitted.signup && terms`, `a || (b && !c)`
//   - keywords `and`, `or`, `not` as aliases
//
// Identifiers resolve against Context.Values first, then Context.Extras. The
// `extras.` prefix forces an extras lookup.
type Evaluator struct {
	mu    sync.Mutex
	cache map[string]*Program
}

// New returns an Evaluator with an empty rule cache.
func New() *Evaluator {
	return &Evaluator{cache: make(map[string]*Program)}
}

// Eval compiles (or reuses) rule and evaluates it. An empty rule is visible.
func (e *Evaluator) Eval(nodeID, rule string, ctx visibility.Context) (bool, error) {
	program, err := e.compile(rule)
	if err != nil {
		return false, fmt.Errorf("%w (node %q)", err, nodeID)
	}
	return program.Eval(ctx)
}

func (e *Evaluator) compile(rule string) (*Program, error) {
	key := strings.TrimSpace(rule)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache == nil {
		e.cache = make(map[string]*Program)
	}
	if program, ok := e.cache[key]; ok {
		return program, nil
	}
	program, err := Compile(key)
	if err != nil {
		return nil, err
	}
	e.cache[key] = program
	return program, nil
}

// Program is a compiled rule.
type Program struct {
	source string
	root   node
}

// Compile parses rule. Loaders use it to reject malformed rules up front.
func Compile(rule string) (*Program, error) {
	source := strings.TrimSpace(rule)
	if source == "" {
		return &Program{}, nil
	}
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q at offset %d", tok.raw, tok.pos)
	}
	return &Program{source: source, root: root}, nil
}

// Source returns the trimmed rule text.
func (p *Program) Source() string { return p.source }

// Identifiers lists the identifiers referenced by the rule in order of first
// use.
func (p *Program) Identifiers() []string {
	if p.root == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	p.root.identifiers(func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	})
	return out
}

// Eval evaluates the program against ctx.
func (p *Program) Eval(ctx visibility.Context) (bool, error) {
	if p.root == nil {
		return true, nil
	}
	return p.root.eval(ctx)
}

type node interface {
	eval(ctx visibility.Context) (bool, error)
	identifiers(visit func(string))
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

func (n orNode) identifiers(visit func(string)) {
	n.left.identifiers(visit)
	n.right.identifiers(visit)
}

type andNode struct{ left, right node }

func (n andNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

func (n andNode) identifiers(visit func(string)) {
	n.left.identifiers(visit)
	n.right.identifiers(visit)
}

type notNode struct{ inner node }

func (n notNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	return !ok, err
}

func (n notNode) identifiers(visit func(string)) { n.inner.identifiers(visit) }

type truthyNode struct{ ident string }

func (n truthyNode) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.ident)
	return truthy(value), nil
}

func (n truthyNode) identifiers(visit func(string)) { visit(n.ident) }

type compareNode struct {
	ident string
	op    tokenKind
	lit   token
}

func (n compareNode) identifiers(visit func(string)) { visit(n.ident) }

func (n compareNode) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.ident)

	switch n.lit.kind {
	case tokenNull:
		switch n.op {
		case tokenEq:
			return isNull(value), nil
		case tokenNeq:
			return !isNull(value), nil
		}
	case tokenBool:
		want := n.lit.raw == "true"
		got := boolOf(value)
		switch n.op {
		case tokenEq:
			return got == want, nil
		case tokenNeq:
			return got != want, nil
		}
	case tokenNumber:
		want, err := strconv.ParseFloat(strings.ReplaceAll(n.lit.raw, "_", ""), 64)
		if err != nil {
			return false, fmt.Errorf("visibility/expr: invalid number literal %q", n.lit.raw)
		}
		got, ok := toNumber(value)
		if !ok {
			return n.op == tokenNeq, nil
		}
		return compareOrdered(got, want, n.op), nil
	case tokenString, tokenIdentifier:
		if list, ok := value.([]string); ok && (n.op == tokenEq || n.op == tokenNeq) {
			has := contains(list, n.lit.raw)
			return has == (n.op == tokenEq), nil
		}
		return compareOrdered(toString(value), n.lit.raw, n.op), nil
	}
	return false, fmt.Errorf("visibility/expr: operator %s is not supported for %s", n.op, n.lit.raw)
}

func compareOrdered[T float64 | string](got, want T, op tokenKind) bool {
	switch op {
	case tokenEq:
		return got == want
	case tokenNeq:
		return got != want
	case tokenLt:
		return got < want
	case tokenLte:
		return got <= want
	case tokenGt:
		return got > want
	case tokenGte:
		return got >= want
	}
	return false
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) match(kind tokenKind) bool {
	if tok, ok := p.peek(); ok && tok.kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.match(tokenNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.match(tokenLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	tok, ok := p.peek()
	if !ok {
		return nil, errors.New("visibility/expr: unexpected end of expression")
	}
	if tok.kind != tokenIdentifier {
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q at offset %d", tok.raw, tok.pos)
	}
	p.pos++

	op, ok := p.peek()
	if !ok || !op.kind.comparison() {
		return truthyNode{ident: tok.raw}, nil
	}
	p.pos++

	lit, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("visibility/expr: missing value after %s", op.kind)
	}
	switch lit.kind {
	case tokenString, tokenNumber, tokenBool, tokenNull, tokenIdentifier:
		// Bare words on the right-hand side read as strings.
	default:
		return nil, fmt.Errorf("visibility/expr: expected literal, got %q at offset %d", lit.raw, lit.pos)
	}
	p.pos++
	if (lit.kind == tokenBool || lit.kind == tokenNull) && op.kind != tokenEq && op.kind != tokenNeq {
		return nil, fmt.Errorf("visibility/expr: operator %s cannot compare with %s", op.kind, lit.raw)
	}
	return compareNode{ident: tok.raw, op: op.kind, lit: lit}, nil
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	if rest, ok := strings.CutPrefix(key, "extras."); ok {
		return lookupPath(ctx.Extras, rest)
	}
	if value, ok := lookupPath(ctx.Values, key); ok {
		return value, true
	}
	return lookupPath(ctx.Extras, key)
}

// lookupPath prefers an exact key, then walks dotted segments through nested
// maps.
func lookupPath(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, part := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]bool:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func isNull(value any) bool {
	if value == nil {
		return true
	}
	if file, ok := value.(*model.File); ok {
		return file == nil
	}
	return false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case *model.File:
		return v != nil
	case model.Date:
		return !v.IsZero()
	case model.Metric:
		return v.Value != ""
	case model.Table:
		return len(v.Rows) > 0
	}
	return true
}

// boolOf accepts "true"/"false" style strings before falling back to
// truthiness.
func boolOf(value any) bool {
	if s, ok := value.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return truthy(value)
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case []string:
		return float64(len(v)), true
	}
	return 0, false
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
