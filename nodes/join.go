package nodes

// JoinType represents the type of SQL join.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	CrossJoin
)

// JoinExpr is one JOIN clause. At most one of On and Using is set; a
// CROSS JOIN uses neither.
type JoinExpr struct {
	Type    JoinType
	Table   *TableRef
	On      ConditionExpression
	Using   []string
	Lateral bool
}
