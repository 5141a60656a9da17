package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// SubQueryOp is the optional quantifier in front of a subquery.
type SubQueryOp int

const (
	SubQueryNone SubQueryOp = iota
	SubQueryExists
	SubQueryNotExists
	// SubQueryIn and SubQueryNotIn mark the right side of an IN / NOT IN
	// binary; the binary operator supplies the keyword.
	SubQueryIn
	SubQueryNotIn
	SubQueryAll
	SubQueryAny
	SubQuerySome
)

// Keyword returns the SQL keyword written before the parenthesized
// subquery, or "" when the quantifier writes nothing itself.
func (op SubQueryOp) Keyword() string {
	switch op {
	case SubQueryExists:
		return "EXISTS"
	case SubQueryNotExists:
		return "NOT EXISTS"
	case SubQueryAll:
		return "ALL"
	case SubQueryAny:
		return "ANY"
	case SubQuerySome:
		return "SOME"
	default:
		return ""
	}
}

// SubQueryExpr is an optionally quantified (SELECT ...).
type SubQueryExpr struct {
	Predications
	Op    SubQueryOp
	Query *SelectStatement
}

func newSubQuery(op SubQueryOp, q *SelectStatement) *SubQueryExpr {
	n := &SubQueryExpr{Op: op, Query: q}
	n.self = n
	return n
}

// SubQuery creates a scalar subquery.
func SubQuery(q *SelectStatement) *SubQueryExpr { return newSubQuery(SubQueryNone, q) }

// Exists creates EXISTS (q).
func Exists(q *SelectStatement) *SubQueryExpr { return newSubQuery(SubQueryExists, q) }

// NotExists creates NOT EXISTS (q).
func NotExists(q *SelectStatement) *SubQueryExpr { return newSubQuery(SubQueryNotExists, q) }

// AllOf creates ALL (q), for use as the right side of a comparison.
func AllOf(q *SelectStatement) *SubQueryExpr { return newSubQuery(SubQueryAll, q) }

// AnyOf creates ANY (q).
func AnyOf(q *SelectStatement) *SubQueryExpr { return newSubQuery(SubQueryAny, q) }

// SomeOf creates SOME (q).
func SomeOf(q *SelectStatement) *SubQueryExpr { return newSubQuery(SubQuerySome, q) }

func (n *SubQueryExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitSubQuery(w, n) }

// TupleExpr is a parenthesized list: (a, b, c). A one-item tuple is a
// plain parenthesized expression.
type TupleExpr struct {
	Predications
	Items []Expr
}

// Tuple creates (items...). Non-expression items are bound.
func Tuple(items ...any) *TupleExpr {
	n := &TupleExpr{Items: lits(items)}
	n.self = n
	return n
}

// Group parenthesizes e.
func Group(e Expr) *TupleExpr { return Tuple(e) }

func (n *TupleExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitTuple(w, n) }
