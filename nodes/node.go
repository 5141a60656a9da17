// Package nodes defines the AST used to describe SQL statements before
// they are compiled for a dialect.
package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// Node is the interface that all AST nodes implement. Accept dispatches to
// the matching Visit method, which writes the node's SQL into w.
type Node interface {
	Accept(v Visitor, w *sqlwriter.Writer)
}

// Visitor defines the interface for compiling the AST. Each dialect
// builder implements every method, so adding a node type is a compile
// error until all dialects handle it.
type Visitor interface {
	VisitColumn(w *sqlwriter.Writer, n *ColumnExpr)
	VisitValue(w *sqlwriter.Writer, n *ValueExpr)
	VisitBinary(w *sqlwriter.Writer, n *BinaryExpr)
	VisitUnary(w *sqlwriter.Writer, n *UnaryExpr)
	VisitFunctionCall(w *sqlwriter.Writer, n *FunctionCall)
	VisitConstant(w *sqlwriter.Writer, n *ConstantExpr)
	VisitCustom(w *sqlwriter.Writer, n *CustomExpr)
	VisitSubQuery(w *sqlwriter.Writer, n *SubQueryExpr)
	VisitWindow(w *sqlwriter.Writer, n *WindowExpr)
	VisitWindowNamed(w *sqlwriter.Writer, n *WindowNamedExpr)
	VisitTuple(w *sqlwriter.Writer, n *TupleExpr)
	VisitCase(w *sqlwriter.Writer, n *CaseExpr)
	VisitCast(w *sqlwriter.Writer, n *CastExpr)
	VisitExcluded(w *sqlwriter.Writer, n *ExcludedExpr)
	VisitCondition(w *sqlwriter.Writer, n *Condition)
	VisitSelect(w *sqlwriter.Writer, n *SelectStatement)
	VisitInsert(w *sqlwriter.Writer, n *InsertStatement)
	VisitUpdate(w *sqlwriter.Writer, n *UpdateStatement)
	VisitDelete(w *sqlwriter.Writer, n *DeleteStatement)
	VisitGrant(w *sqlwriter.Writer, n *GrantStatement)
	VisitRevoke(w *sqlwriter.Writer, n *RevokeStatement)
	VisitGrantRole(w *sqlwriter.Writer, n *GrantRoleStatement)
	VisitRevokeRole(w *sqlwriter.Writer, n *RevokeRoleStatement)
	VisitCreateRole(w *sqlwriter.Writer, n *CreateRoleStatement)
	VisitDropRole(w *sqlwriter.Writer, n *DropRoleStatement)
	VisitSetRole(w *sqlwriter.Writer, n *SetRoleStatement)
}

// ConditionExpression is anything that may appear in a WHERE, HAVING or
// ON clause: a *Condition or any Expr.
type ConditionExpression interface {
	Node
	conditionExpression()
}

// Expr is a scalar SQL expression. The set of implementations is closed;
// every one embeds Predications.
type Expr interface {
	ConditionExpression
	expr()
}

// Lit wraps a Go value for use as an expression operand. Expressions are
// returned unchanged, a *SelectStatement becomes a scalar subquery, and
// anything else becomes a bound value.
func Lit(v any) Expr {
	switch x := v.(type) {
	case Expr:
		return x
	case *SelectStatement:
		return SubQuery(x)
	}
	return Val(v)
}

func lits(vals []any) []Expr {
	out := make([]Expr, len(vals))
	for i, v := range vals {
		out[i] = Lit(v)
	}
	return out
}
