package visitors

import (
	"github.com/bawdo/sqlweave/dialect"
	"github.com/bawdo/sqlweave/internal/quoting"
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/sqlwriter"
)

// SQLiteBuilder generates SQLite-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column" (ANSI SQL).
type SQLiteBuilder struct {
	*baseBuilder
}

var _ QueryBuilder = (*SQLiteBuilder)(nil)

// NewSQLiteBuilder creates a SQLiteBuilder ready for use.
func NewSQLiteBuilder(opts ...Option) *SQLiteBuilder {
	v := &SQLiteBuilder{}
	v.baseBuilder = newBase(dialect.SQLite, DefaultSQLiteVersion, quoting.DoubleQuote, quoting.Question)
	v.outer = v
	v.applyOptions(opts)
	return v
}

func (v *SQLiteBuilder) VisitBinary(w *sqlwriter.Writer, n *nodes.BinaryExpr) {
	switch n.Op {
	case nodes.OpRegexp:
		// Requires a regexp() function registered on the connection.
		v.writeInfix(w, n, "REGEXP")
	case nodes.OpILike, nodes.OpNotILike:
		v.unsupported(w, n.Op.String())
	default:
		v.baseBuilder.VisitBinary(w, n)
	}
}
