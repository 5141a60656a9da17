package nodes

import (
	"github.com/bawdo/sqlweave/sqlwriter"
	"github.com/bawdo/sqlweave/value"
)

// ValueExpr is a bound parameter. It always compiles to a placeholder.
type ValueExpr struct {
	Predications
	Value value.Value
}

// Val wraps v (converted with value.Of) as a bound parameter.
func Val(v any) *ValueExpr {
	n := &ValueExpr{Value: value.Of(v)}
	n.self = n
	return n
}

func (n *ValueExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitValue(w, n) }

// ConstantExpr is a fixed SQL keyword emitted verbatim. Only the
// constructors in this package create them, so the text is never user
// input.
type ConstantExpr struct {
	Predications
	Keyword string
}

func constant(kw string) *ConstantExpr {
	n := &ConstantExpr{Keyword: kw}
	n.self = n
	return n
}

func Null() *ConstantExpr             { return constant("NULL") }
func True() *ConstantExpr             { return constant("TRUE") }
func False() *ConstantExpr            { return constant("FALSE") }
func Default() *ConstantExpr          { return constant("DEFAULT") }
func CurrentTimestamp() *ConstantExpr { return constant("CURRENT_TIMESTAMP") }
func CurrentDate() *ConstantExpr      { return constant("CURRENT_DATE") }
func CurrentTime() *ConstantExpr      { return constant("CURRENT_TIME") }

func (n *ConstantExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitConstant(w, n) }

// CustomExpr is a raw SQL fragment. Each ? outside a single-quoted string
// becomes a placeholder bound to the next entry in Values.
//
// SECURITY: SQL is emitted verbatim. Never build it from user input; pass
// user data through Values.
type CustomExpr struct {
	Predications
	SQL    string
	Values []value.Value
}

// Custom creates a raw fragment with bound values.
func Custom(sql string, vals ...any) *CustomExpr {
	n := &CustomExpr{SQL: sql, Values: make([]value.Value, len(vals))}
	for i, v := range vals {
		n.Values[i] = value.Of(v)
	}
	n.self = n
	return n
}

func (n *CustomExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitCustom(w, n) }
