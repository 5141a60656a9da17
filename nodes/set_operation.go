package nodes

// SetOpType is the kind of set operation combining two SELECTs.
type SetOpType int

const (
	Union SetOpType = iota
	UnionAll
	Intersect
	IntersectAll
	Except
	ExceptAll
)

// SetOperation appends Query to the enclosing SELECT with the given
// operator.
type SetOperation struct {
	Type  SetOpType
	Query *SelectStatement
}

// CommonTableExpression is one WITH entry: name [(columns)] AS (query).
// A statement renders WITH RECURSIVE when any of its entries is recursive.
type CommonTableExpression struct {
	Name      string
	Columns   []string
	Query     *SelectStatement
	Recursive bool
}
