package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// Assignment is column = value in a SET list.
type Assignment struct {
	Column string
	Value  Expr
}

// Set creates an assignment. A non-expression value is bound.
func Set(column string, val any) Assignment {
	return Assignment{Column: column, Value: Lit(val)}
}

// Returning is the RETURNING clause of a DML statement. A nil *Returning
// omits the clause.
type Returning struct {
	All     bool
	Columns []Expr
}

// ReturningAll creates RETURNING *.
func ReturningAll() *Returning {
	return &Returning{All: true}
}

// ReturningColumns creates RETURNING col, ... for unqualified columns.
func ReturningColumns(names ...string) *Returning {
	r := &Returning{Columns: make([]Expr, len(names))}
	for i, n := range names {
		r.Columns[i] = Col(n)
	}
	return r
}

// ReturningExprs creates RETURNING expr, ....
func ReturningExprs(exprs ...Expr) *Returning {
	return &Returning{Columns: exprs}
}

// OnConflict is the upsert clause of an INSERT. When DoNothing is false,
// Updates are applied to the conflicting row.
type OnConflict struct {
	Columns   []string
	DoNothing bool
	Updates   []Assignment
	Where     []ConditionExpression
}

// InsertStatement is an INSERT. Select, when set, replaces Rows. With
// neither, the statement inserts a row of defaults.
type InsertStatement struct {
	With       []CommonTableExpression
	Table      *TableRef
	Columns    []string
	Rows       [][]Expr
	Select     *SelectStatement
	OnConflict *OnConflict
	Returning  *Returning
}

// NewInsert creates an INSERT INTO table.
func NewInsert(table *TableRef) *InsertStatement {
	return &InsertStatement{Table: table}
}

func (s *InsertStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitInsert(w, s) }

func (*InsertStatement) statement() {}

// Clone returns a copy of s with its own slices.
func (s *InsertStatement) Clone() *InsertStatement {
	if s == nil {
		return nil
	}
	c := *s
	c.With = cloneSlice(s.With)
	c.Columns = cloneSlice(s.Columns)
	c.Rows = cloneSlice(s.Rows)
	for i, row := range c.Rows {
		c.Rows[i] = cloneSlice(row)
	}
	if s.OnConflict != nil {
		oc := *s.OnConflict
		oc.Updates = cloneSlice(oc.Updates)
		oc.Where = cloneSlice(oc.Where)
		c.OnConflict = &oc
	}
	return &c
}

// UpdateStatement is an UPDATE.
type UpdateStatement struct {
	With      []CommonTableExpression
	Table     *TableRef
	Set       []Assignment
	Where     []ConditionExpression
	Returning *Returning
}

// NewUpdate creates an UPDATE table.
func NewUpdate(table *TableRef) *UpdateStatement {
	return &UpdateStatement{Table: table}
}

func (s *UpdateStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitUpdate(w, s) }

func (*UpdateStatement) statement() {}

// Clone returns a copy of s with its own slices.
func (s *UpdateStatement) Clone() *UpdateStatement {
	if s == nil {
		return nil
	}
	c := *s
	c.With = cloneSlice(s.With)
	c.Set = cloneSlice(s.Set)
	c.Where = cloneSlice(s.Where)
	return &c
}

// DeleteStatement is a DELETE.
type DeleteStatement struct {
	With      []CommonTableExpression
	Table     *TableRef
	Where     []ConditionExpression
	Returning *Returning
}

// NewDelete creates a DELETE FROM table.
func NewDelete(table *TableRef) *DeleteStatement {
	return &DeleteStatement{Table: table}
}

func (s *DeleteStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitDelete(w, s) }

func (*DeleteStatement) statement() {}

// Clone returns a copy of s with its own slices.
func (s *DeleteStatement) Clone() *DeleteStatement {
	if s == nil {
		return nil
	}
	c := *s
	c.With = cloneSlice(s.With)
	c.Where = cloneSlice(s.Where)
	return &c
}
