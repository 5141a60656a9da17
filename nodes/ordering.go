package nodes

// Direction is the sort direction of an ORDER BY term.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// NullsOrder places NULLs in an ORDER BY term.
type NullsOrder int

const (
	NullsDefault NullsOrder = iota
	NullsFirst
	NullsLast
)

// OrderExpr is one ORDER BY term.
type OrderExpr struct {
	Expr      Expr
	Direction Direction
	Nulls     NullsOrder
}

// NullsFirst returns o with NULLS FIRST.
func (o OrderExpr) NullsFirst() OrderExpr {
	o.Nulls = NullsFirst
	return o
}

// NullsLast returns o with NULLS LAST.
func (o OrderExpr) NullsLast() OrderExpr {
	o.Nulls = NullsLast
	return o
}
