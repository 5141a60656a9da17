package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// ColumnRef names a column, optionally qualified by table and schema, or
// a star. When Star is set, Name is ignored.
type ColumnRef struct {
	Schema string
	Table  string
	Name   string
	Star   bool
}

// ColumnExpr is an expression that reads a column.
type ColumnExpr struct {
	Predications
	Ref ColumnRef
}

func newColumn(ref ColumnRef) *ColumnExpr {
	c := &ColumnExpr{Ref: ref}
	c.self = c
	return c
}

// Col creates an unqualified column reference.
func Col(name string) *ColumnExpr {
	return newColumn(ColumnRef{Name: name})
}

// TableCol creates a table-qualified column reference.
func TableCol(table, name string) *ColumnExpr {
	return newColumn(ColumnRef{Table: table, Name: name})
}

// SchemaTableCol creates a schema- and table-qualified column reference.
func SchemaTableCol(schema, table, name string) *ColumnExpr {
	return newColumn(ColumnRef{Schema: schema, Table: table, Name: name})
}

// Star creates an unqualified *.
func Star() *ColumnExpr {
	return newColumn(ColumnRef{Star: true})
}

// TableStar creates table.*.
func TableStar(table string) *ColumnExpr {
	return newColumn(ColumnRef{Table: table, Star: true})
}

func (n *ColumnExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitColumn(w, n) }

// ExcludedExpr refers to the value proposed for insertion in an upsert:
// EXCLUDED.col on PostgreSQL and SQLite, VALUES(col) on MySQL.
type ExcludedExpr struct {
	Predications
	Column string
}

// Excluded creates an ExcludedExpr for col.
func Excluded(col string) *ExcludedExpr {
	e := &ExcludedExpr{Column: col}
	e.self = e
	return e
}

func (n *ExcludedExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitExcluded(w, n) }
