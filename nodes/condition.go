package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// ConditionType selects how a Condition joins its items.
type ConditionType int

const (
	ConditionAll ConditionType = iota // AND
	ConditionAny                      // OR
)

// Condition is an AND/OR group of condition expressions. An empty group
// compiles to nothing; a single item compiles without parentheses.
type Condition struct {
	Type   ConditionType
	Negate bool
	Items  []ConditionExpression
}

// All creates an AND group.
func All(items ...ConditionExpression) *Condition {
	return &Condition{Type: ConditionAll, Items: items}
}

// Any creates an OR group.
func Any(items ...ConditionExpression) *Condition {
	return &Condition{Type: ConditionAny, Items: items}
}

// Add appends items to the group.
func (c *Condition) Add(items ...ConditionExpression) *Condition {
	c.Items = append(c.Items, items...)
	return c
}

// Not toggles the negation flag.
func (c *Condition) Not() *Condition {
	c.Negate = !c.Negate
	return c
}

// IsEmpty reports whether the group has no items.
func (c *Condition) IsEmpty() bool { return len(c.Items) == 0 }

func (c *Condition) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitCondition(w, c) }

func (*Condition) conditionExpression() {}
