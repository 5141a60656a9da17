package managers

import "github.com/bawdo/sqlweave/nodes"

// JoinContext is returned by SelectManager.Join() and asks for the join
// condition, via On or Using, before the query continues.
type JoinContext struct {
	manager *SelectManager
	index   int
}

func (jc *JoinContext) join() *nodes.JoinExpr {
	return &jc.manager.Statement.Joins[jc.index]
}

// On sets the join condition and returns the SelectManager for
// continued method chaining.
func (jc *JoinContext) On(condition nodes.ConditionExpression) *SelectManager {
	jc.join().On = condition
	return jc.manager
}

// Using joins on the named columns present in both tables.
func (jc *JoinContext) Using(columns ...string) *SelectManager {
	jc.join().Using = columns
	return jc.manager
}
