// Package testutil provides shared test helpers for the sqlweave project.
package testutil

import (
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/sqlwriter"
)

// StubVisitor implements nodes.Visitor by writing a short token per node,
// so tests can check which Visit method a node dispatches to. It uses ?
// placeholders and leaves identifiers unquoted.
type StubVisitor struct{}

var (
	_ nodes.Visitor = StubVisitor{}
	_ Builder       = StubVisitor{}
)

func (StubVisitor) EscapeIdentifier(name string) string { return name }
func (StubVisitor) FormatPlaceholder(int) string        { return "?" }

func (StubVisitor) VisitColumn(w *sqlwriter.Writer, n *nodes.ColumnExpr) {
	if n.Ref.Star {
		w.Push("*")
		return
	}
	w.Push(n.Ref.Name)
}

func (StubVisitor) VisitValue(w *sqlwriter.Writer, n *nodes.ValueExpr) { w.PushValue(n.Value) }

func (sv StubVisitor) VisitBinary(w *sqlwriter.Writer, n *nodes.BinaryExpr) {
	n.Left.Accept(sv, w)
	w.Push(" " + n.Op.String() + " ")
	n.Right.Accept(sv, w)
}

func (StubVisitor) VisitUnary(w *sqlwriter.Writer, n *nodes.UnaryExpr)                { w.Push("unary") }
func (StubVisitor) VisitFunctionCall(w *sqlwriter.Writer, n *nodes.FunctionCall)      { w.Push(n.Name) }
func (StubVisitor) VisitConstant(w *sqlwriter.Writer, n *nodes.ConstantExpr)          { w.Push(n.Keyword) }
func (StubVisitor) VisitCustom(w *sqlwriter.Writer, n *nodes.CustomExpr)              { w.Push(n.SQL) }
func (StubVisitor) VisitSubQuery(w *sqlwriter.Writer, n *nodes.SubQueryExpr)          { w.Push("subquery") }
func (StubVisitor) VisitWindow(w *sqlwriter.Writer, n *nodes.WindowExpr)              { w.Push("window") }
func (StubVisitor) VisitWindowNamed(w *sqlwriter.Writer, n *nodes.WindowNamedExpr)    { w.Push("window_named") }
func (StubVisitor) VisitTuple(w *sqlwriter.Writer, n *nodes.TupleExpr)                { w.Push("tuple") }
func (StubVisitor) VisitCase(w *sqlwriter.Writer, n *nodes.CaseExpr)                  { w.Push("case") }
func (StubVisitor) VisitCast(w *sqlwriter.Writer, n *nodes.CastExpr)                  { w.Push("cast") }
func (StubVisitor) VisitExcluded(w *sqlwriter.Writer, n *nodes.ExcludedExpr)          { w.Push("excluded") }
func (StubVisitor) VisitCondition(w *sqlwriter.Writer, n *nodes.Condition)            { w.Push("condition") }
func (StubVisitor) VisitSelect(w *sqlwriter.Writer, n *nodes.SelectStatement)         { w.Push("select") }
func (StubVisitor) VisitInsert(w *sqlwriter.Writer, n *nodes.InsertStatement)         { w.Push("insert") }
func (StubVisitor) VisitUpdate(w *sqlwriter.Writer, n *nodes.UpdateStatement)         { w.Push("update") }
func (StubVisitor) VisitDelete(w *sqlwriter.Writer, n *nodes.DeleteStatement)         { w.Push("delete") }
func (StubVisitor) VisitGrant(w *sqlwriter.Writer, n *nodes.GrantStatement)           { w.Push("grant") }
func (StubVisitor) VisitRevoke(w *sqlwriter.Writer, n *nodes.RevokeStatement)         { w.Push("revoke") }
func (StubVisitor) VisitGrantRole(w *sqlwriter.Writer, n *nodes.GrantRoleStatement)   { w.Push("grant_role") }
func (StubVisitor) VisitRevokeRole(w *sqlwriter.Writer, n *nodes.RevokeRoleStatement) { w.Push("revoke_role") }
func (StubVisitor) VisitCreateRole(w *sqlwriter.Writer, n *nodes.CreateRoleStatement) { w.Push("create_role") }
func (StubVisitor) VisitDropRole(w *sqlwriter.Writer, n *nodes.DropRoleStatement)     { w.Push("drop_role") }
func (StubVisitor) VisitSetRole(w *sqlwriter.Writer, n *nodes.SetRoleStatement)       { w.Push("set_role") }
