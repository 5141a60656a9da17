package managers

import (
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/plugins"
	"github.com/bawdo/sqlweave/value"
)

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager struct {
	treeManager
	Statement *nodes.UpdateStatement
}

// NewUpdateManager creates a new UpdateManager targeting the given table.
func NewUpdateManager(table *nodes.TableRef) *UpdateManager {
	return &UpdateManager{Statement: nodes.NewUpdate(table)}
}

// Set adds a column assignment to the SET clause.
// val can be a raw Go value or an expression.
func (m *UpdateManager) Set(col string, val any) *UpdateManager {
	m.Statement.Set = append(m.Statement.Set, nodes.Set(col, val))
	return m
}

// Where appends conditions to the WHERE clause.
func (m *UpdateManager) Where(conditions ...nodes.ConditionExpression) *UpdateManager {
	m.Statement.Where = append(m.Statement.Where, conditions...)
	return m
}

// With adds a Common Table Expression ahead of the UPDATE.
func (m *UpdateManager) With(name string, q *SelectManager, columns ...string) *UpdateManager {
	m.Statement.With = append(m.Statement.With, cte(name, q, false, columns))
	return m
}

// Returning sets the RETURNING clause columns.
func (m *UpdateManager) Returning(cols ...string) *UpdateManager {
	m.Statement.Returning = nodes.ReturningColumns(cols...)
	return m
}

// ReturningAll sets RETURNING *.
func (m *UpdateManager) ReturningAll() *UpdateManager {
	m.Statement.Returning = nodes.ReturningAll()
	return m
}

// Use registers a transformer plugin.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	m.addTransformer(t)
	return m
}

// Build returns a copy of the statement with every registered transformer
// applied.
func (m *UpdateManager) Build() (*nodes.UpdateStatement, error) {
	return plugins.Chain(m.Statement.Clone(), m.transformers, plugins.Transformer.TransformUpdate)
}

// ToSQL applies transformers and compiles the result with b.
func (m *UpdateManager) ToSQL(b Builder) (string, value.Values, error) {
	s, err := m.Build()
	if err != nil {
		return "", nil, err
	}
	return b.BuildUpdate(s)
}
