package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/sqlweave/nodes"
)

// tokenize splits input into tokens, keeping single-quoted strings whole
// and recognising the two-character operators.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]
		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		var next byte
		if i+1 < len(input) {
			next = input[i+1]
		}
		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true
		case (ch == '!' && next == '=') || (ch == '<' && (next == '>' || next == '=')) ||
			(ch == '>' && next == '=') || (ch == '|' && next == '|'):
			flush()
			tokens = append(tokens, string([]byte{ch, next}))
			i++
		case ch == '*' && strings.HasSuffix(cur.String(), "."):
			cur.WriteByte(ch)
		case strings.IndexByte("(),=<>+-*/%", ch) >= 0:
			flush()
			tokens = append(tokens, string(ch))
		case ch == ' ' || ch == '\t':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// splitTopLevelCommas splits s on commas outside parentheses and quotes,
// so that function calls like COALESCE(a, b) stay intact.
func splitTopLevelCommas(s string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
		case inQuote:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(ch)
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// parseValue converts a literal token to a Go value.
func parseValue(token string) (any, error) {
	if len(token) >= 2 && token[0] == '\'' && token[len(token)-1] == '\'' {
		return strings.ReplaceAll(token[1:len(token)-1], "''", "'"), nil
	}
	switch strings.ToLower(token) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}
	if token != "" && (token[0] == '.' || (token[0] >= '0' && token[0] <= '9')) {
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("cannot parse value: %s", token)
}

// parseColumn turns col, table.col or schema.table.col into a column
// reference. A trailing * selects all columns.
func parseColumn(ref string) (*nodes.ColumnExpr, error) {
	parts := strings.Split(ref, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid column reference %q", ref)
		}
	}
	switch len(parts) {
	case 1:
		if parts[0] == "*" {
			return nodes.Star(), nil
		}
		return nodes.Col(parts[0]), nil
	case 2:
		if parts[1] == "*" {
			return nodes.TableStar(parts[0]), nil
		}
		return nodes.TableCol(parts[0], parts[1]), nil
	case 3:
		return nodes.SchemaTableCol(parts[0], parts[1], parts[2]), nil
	}
	return nil, fmt.Errorf("invalid column reference %q", ref)
}

// parseTableRef parses "name [as] [alias]" and "schema.name [alias]".
func parseTableRef(args string) (*nodes.TableRef, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return nil, errors.New("missing table name")
	}
	var t *nodes.TableRef
	switch parts := strings.Split(fields[0], "."); len(parts) {
	case 1:
		t = nodes.NewTable(parts[0])
	case 2:
		t = nodes.SchemaTable(parts[0], parts[1])
	case 3:
		t = nodes.DatabaseSchemaTable(parts[0], parts[1], parts[2])
	default:
		return nil, fmt.Errorf("invalid table name %q", fields[0])
	}
	rest := fields[1:]
	if len(rest) > 0 && strings.EqualFold(rest[0], "as") {
		rest = rest[1:]
	}
	switch len(rest) {
	case 0:
		return t, nil
	case 1:
		return t.As(rest[0]), nil
	}
	return nil, fmt.Errorf("unexpected %q after table name", strings.Join(rest, " "))
}

// parser is a recursive-descent parser over tokenize output.
type parser struct {
	toks []string
	pos  int
}

func newParser(input string) *parser { return &parser{toks: tokenize(input)} }

func (p *parser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *parser) peekIs(words ...string) bool {
	for i, w := range words {
		if p.pos+i >= len(p.toks) || !strings.EqualFold(p.toks[p.pos+i], w) {
			return false
		}
	}
	return true
}

func (p *parser) next() string {
	t := p.peek()
	if t != "" {
		p.pos++
	}
	return t
}

func (p *parser) accept(words ...string) bool {
	if p.peekIs(words...) {
		p.pos += len(words)
		return true
	}
	return false
}

func (p *parser) expect(word string) error {
	if !p.accept(word) {
		if p.peek() == "" {
			return fmt.Errorf("expected %s at end of input", word)
		}
		return fmt.Errorf("expected %s, got %q", word, p.peek())
	}
	return nil
}

func (p *parser) done() error {
	if p.pos < len(p.toks) {
		return fmt.Errorf("unexpected %q", strings.Join(p.toks[p.pos:], " "))
	}
	return nil
}

// parseCondition parses a full boolean condition such as
// "age >= 18 and (name like 'a%' or admin = true)".
func parseCondition(input string) (nodes.ConditionExpression, error) {
	p := newParser(input)
	if p.peek() == "" {
		return nil, errors.New("empty condition")
	}
	c, err := p.orCondition()
	if err != nil {
		return nil, err
	}
	return c, p.done()
}

// parseExpression parses a scalar expression such as "price * 2".
func parseExpression(input string) (nodes.Expr, error) {
	p := newParser(input)
	if p.peek() == "" {
		return nil, errors.New("empty expression")
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return e, p.done()
}

func (p *parser) orCondition() (nodes.ConditionExpression, error) {
	first, err := p.andCondition()
	if err != nil {
		return nil, err
	}
	items := []nodes.ConditionExpression{first}
	for p.accept("or") {
		c, err := p.andCondition()
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if len(items) == 1 {
		return first, nil
	}
	return nodes.Any(items...), nil
}

func (p *parser) andCondition() (nodes.ConditionExpression, error) {
	first, err := p.notCondition()
	if err != nil {
		return nil, err
	}
	items := []nodes.ConditionExpression{first}
	for p.accept("and") {
		c, err := p.notCondition()
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if len(items) == 1 {
		return first, nil
	}
	return nodes.All(items...), nil
}

func (p *parser) notCondition() (nodes.ConditionExpression, error) {
	if !p.accept("not") {
		return p.predicate()
	}
	c, err := p.notCondition()
	if err != nil {
		return nil, err
	}
	e, ok := c.(nodes.Expr)
	if !ok {
		return nil, errors.New("NOT applies to a single comparison, not a group")
	}
	return nodes.Not(e), nil
}

var comparisonOps = map[string]nodes.BinOp{
	"=":      nodes.OpEq,
	"!=":     nodes.OpNotEq,
	"<>":     nodes.OpNotEq,
	"<":      nodes.OpLt,
	"<=":     nodes.OpLtEq,
	">":      nodes.OpGt,
	">=":     nodes.OpGtEq,
	"like":   nodes.OpLike,
	"ilike":  nodes.OpILike,
	"regexp": nodes.OpRegexp,
}

func (p *parser) predicate() (nodes.ConditionExpression, error) {
	if p.peek() == "(" {
		// A parenthesised condition, unless it turns out to be the start
		// of an arithmetic operand like (a + b) > 3.
		save := p.pos
		p.next()
		if c, err := p.orCondition(); err == nil && p.accept(")") && !p.atOperator() {
			return c, nil
		}
		p.pos = save
	}

	left, err := p.expr()
	if err != nil {
		return nil, err
	}

	switch {
	case p.accept("is", "not", "null"):
		return nodes.Binary(left, nodes.OpIsNot, nodes.Null()), nil
	case p.accept("is", "null"):
		return nodes.Binary(left, nodes.OpIs, nodes.Null()), nil
	case p.accept("not", "in"):
		return p.inList(left, nodes.OpNotIn)
	case p.accept("in"):
		return p.inList(left, nodes.OpIn)
	case p.accept("not", "between"):
		return p.between(left, nodes.OpNotBetween)
	case p.accept("between"):
		return p.between(left, nodes.OpBetween)
	case p.accept("not", "like"):
		return p.rhs(left, nodes.OpNotLike)
	case p.accept("not", "ilike"):
		return p.rhs(left, nodes.OpNotILike)
	}
	if op, ok := comparisonOps[strings.ToLower(p.peek())]; ok {
		p.next()
		return p.rhs(left, op)
	}
	// A bare boolean expression such as a column or function call.
	return left, nil
}

func (p *parser) atOperator() bool {
	t := strings.ToLower(p.peek())
	if _, ok := comparisonOps[t]; ok {
		return true
	}
	switch t {
	case "+", "-", "*", "/", "%", "||", "is", "in", "between":
		return true
	}
	return false
}

func (p *parser) rhs(left nodes.Expr, op nodes.BinOp) (nodes.ConditionExpression, error) {
	right, err := p.expr()
	if err != nil {
		return nil, err
	}
	return nodes.Binary(left, op, right), nil
}

func (p *parser) inList(left nodes.Expr, op nodes.BinOp) (nodes.ConditionExpression, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var items []any
	for !p.accept(")") {
		if len(items) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if len(items) == 0 {
		return nil, errors.New("IN requires at least one value")
	}
	return nodes.Binary(left, op, nodes.Tuple(items...)), nil
}

func (p *parser) between(left nodes.Expr, op nodes.BinOp) (nodes.ConditionExpression, error) {
	low, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect("and"); err != nil {
		return nil, err
	}
	high, err := p.expr()
	if err != nil {
		return nil, err
	}
	return nodes.Binary(left, op, nodes.Tuple(low, high)), nil
}

var additiveOps = map[string]nodes.BinOp{"+": nodes.OpAdd, "-": nodes.OpSub, "||": nodes.OpConcat}
var multiplicativeOps = map[string]nodes.BinOp{"*": nodes.OpMul, "/": nodes.OpDiv, "%": nodes.OpMod}

func (p *parser) expr() (nodes.Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := additiveOps[p.peek()]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = nodes.Binary(left, op, right)
	}
}

func (p *parser) term() (nodes.Expr, error) {
	left, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.peek()]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.atom()
		if err != nil {
			return nil, err
		}
		left = nodes.Binary(left, op, right)
	}
}

var constants = map[string]func() *nodes.ConstantExpr{
	"null":              nodes.Null,
	"default":           nodes.Default,
	"current_timestamp": nodes.CurrentTimestamp,
	"current_date":      nodes.CurrentDate,
	"current_time":      nodes.CurrentTime,
}

func (p *parser) atom() (nodes.Expr, error) {
	tok := p.next()
	switch {
	case tok == "":
		return nil, errors.New("unexpected end of input")
	case tok == "(":
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return nodes.Group(e), nil
	case tok == "-":
		e, err := p.atom()
		if err != nil {
			return nil, err
		}
		if v, ok := e.(*nodes.ValueExpr); ok {
			switch n := v.Value.Any().(type) {
			case int64:
				return nodes.Val(-n), nil
			case float64:
				return nodes.Val(-n), nil
			}
		}
		return nodes.Neg(e), nil
	case tok == "*":
		return nodes.Star(), nil
	}

	if v, err := parseValue(tok); err == nil {
		return nodes.Val(v), nil
	}
	lower := strings.ToLower(tok)
	if c, ok := constants[lower]; ok {
		return c(), nil
	}
	if p.peek() == "(" {
		return p.call(tok)
	}
	if strings.HasPrefix(tok, "'") {
		return nil, fmt.Errorf("unterminated string %s", tok)
	}
	return parseColumn(tok)
}

func (p *parser) call(name string) (nodes.Expr, error) {
	p.next()
	distinct := p.accept("distinct")
	var args []nodes.Expr
	for !p.accept(")") {
		if len(args) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	fn := nodes.Func(strings.ToUpper(name), args...)
	fn.Distinct = distinct
	return fn, nil
}

// parseSelectItem parses "expr [as alias]".
func parseSelectItem(item string) (nodes.SelectExpr, error) {
	p := newParser(item)
	e, err := p.expr()
	if err != nil {
		return nodes.SelectExpr{}, err
	}
	var alias string
	if p.accept("as") {
		alias = p.next()
		if alias == "" {
			return nodes.SelectExpr{}, errors.New("missing alias after AS")
		}
	}
	return nodes.SelectExpr{Expr: e, Alias: alias}, p.done()
}

// parseOrderItem parses "expr [asc|desc] [nulls first|last]".
func parseOrderItem(item string) (nodes.OrderExpr, error) {
	p := newParser(item)
	e, err := p.expr()
	if err != nil {
		return nodes.OrderExpr{}, err
	}
	o := nodes.OrderExpr{Expr: e}
	switch {
	case p.accept("desc"):
		o.Direction = nodes.Desc
	case p.accept("asc"):
	}
	switch {
	case p.accept("nulls", "first"):
		o.Nulls = nodes.NullsFirst
	case p.accept("nulls", "last"):
		o.Nulls = nodes.NullsLast
	}
	return o, p.done()
}
