package visitors

import (
	"github.com/bawdo/sqlweave/dialect"
	"github.com/bawdo/sqlweave/internal/quoting"
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/sqlwriter"
)

// MySQLBuilder generates MySQL-dialect SQL.
// Identifiers are quoted with backticks: `table`.`column`.
type MySQLBuilder struct {
	*baseBuilder
}

var _ QueryBuilder = (*MySQLBuilder)(nil)

// NewMySQLBuilder creates a MySQLBuilder ready for use.
func NewMySQLBuilder(opts ...Option) *MySQLBuilder {
	v := &MySQLBuilder{}
	v.baseBuilder = newBase(dialect.MySQL, DefaultMySQLVersion, quoting.Backtick, quoting.Question)
	v.outer = v
	v.applyOptions(opts)
	return v
}

func (v *MySQLBuilder) VisitBinary(w *sqlwriter.Writer, n *nodes.BinaryExpr) {
	switch n.Op {
	case nodes.OpConcat:
		// || is logical OR unless PIPES_AS_CONCAT is set.
		w.Push("CONCAT(")
		v.visit(w, n.Left)
		w.Push(", ")
		v.visit(w, n.Right)
		w.Push(")")
	case nodes.OpRegexp:
		v.writeInfix(w, n, "REGEXP")
	case nodes.OpILike, nodes.OpNotILike:
		v.unsupported(w, n.Op.String())
	default:
		v.baseBuilder.VisitBinary(w, n)
	}
}

// VisitExcluded renders the proposed row's value in ON DUPLICATE KEY UPDATE.
func (v *MySQLBuilder) VisitExcluded(w *sqlwriter.Writer, n *nodes.ExcludedExpr) {
	w.Push("VALUES(")
	w.PushIdentifier(n.Column)
	w.Push(")")
}

func (v *MySQLBuilder) VisitInsert(w *sqlwriter.Writer, n *nodes.InsertStatement) {
	oc := n.OnConflict
	if oc == nil || oc.DoNothing {
		v.baseBuilder.VisitInsert(w, n)
		return
	}
	if len(oc.Where) > 0 {
		v.unsupported(w, "conditional ON DUPLICATE KEY UPDATE")
		return
	}
	if len(oc.Updates) == 0 {
		w.Fail(malformed("conflict clause needs DO NOTHING or updates"))
		return
	}
	plain := *n
	plain.OnConflict = nil
	returning := plain.Returning
	plain.Returning = nil
	v.baseBuilder.VisitInsert(w, &plain)
	v.clause(w, "ON DUPLICATE KEY UPDATE")
	v.writeAssignments(w, oc.Updates)
	v.writeReturning(w, returning)
}
