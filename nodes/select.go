package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// Statement is a complete SQL statement.
type Statement interface {
	Node
	statement()
}

// SelectExpr is one projection, with an optional AS alias.
type SelectExpr struct {
	Expr  Expr
	Alias string
}

// DistinctKind selects the SELECT set quantifier.
type DistinctKind int

const (
	DistinctNone DistinctKind = iota
	DistinctAll
	DistinctPlain
	DistinctRow // MySQL DISTINCTROW
	DistinctOn  // PostgreSQL DISTINCT ON (...)
)

// LockMode specifies the row-level lock of a SELECT.
type LockMode int

const (
	NoLock LockMode = iota
	ForUpdate
	ForNoKeyUpdate
	ForShare
	ForKeyShare
)

// LockWait is the wait policy of a lock clause.
type LockWait int

const (
	LockWaitDefault LockWait = iota
	NoWait
	SkipLocked
)

// SelectStatement is a SELECT query, possibly combined with others by set
// operations.
type SelectStatement struct {
	With        []CommonTableExpression
	Distinct    DistinctKind
	DistinctOn  []Expr
	Projections []SelectExpr
	From        []*TableRef
	Joins       []JoinExpr
	Where       []ConditionExpression
	GroupBy     []Expr
	Having      []ConditionExpression
	OrderBy     []OrderExpr
	Windows     []NamedWindow
	Limit       *uint64
	Offset      *uint64
	Lock        LockMode
	Wait        LockWait
	Unions      []SetOperation
}

// NewSelect returns an empty SELECT. Compiled as is, it renders SELECT *.
func NewSelect() *SelectStatement {
	return &SelectStatement{}
}

func (s *SelectStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitSelect(w, s) }

func (*SelectStatement) statement() {}

// As wraps s as a derived table named alias.
func (s *SelectStatement) As(alias string) *TableRef {
	return SubQueryTable(s, alias)
}

// Clone returns a copy of s whose clause slices can be appended to without
// affecting s. Nodes inside the slices are shared.
func (s *SelectStatement) Clone() *SelectStatement {
	if s == nil {
		return nil
	}
	c := *s
	c.With = cloneSlice(s.With)
	c.DistinctOn = cloneSlice(s.DistinctOn)
	c.Projections = cloneSlice(s.Projections)
	c.From = cloneSlice(s.From)
	c.Joins = cloneSlice(s.Joins)
	c.Where = cloneSlice(s.Where)
	c.GroupBy = cloneSlice(s.GroupBy)
	c.Having = cloneSlice(s.Having)
	c.OrderBy = cloneSlice(s.OrderBy)
	c.Windows = cloneSlice(s.Windows)
	c.Unions = cloneSlice(s.Unions)
	if s.Limit != nil {
		l := *s.Limit
		c.Limit = &l
	}
	if s.Offset != nil {
		o := *s.Offset
		c.Offset = &o
	}
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
