package managers

import (
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/plugins"
	"github.com/bawdo/sqlweave/value"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.DeleteStatement
}

// NewDeleteManager creates a new DeleteManager targeting the given table.
func NewDeleteManager(from *nodes.TableRef) *DeleteManager {
	return &DeleteManager{Statement: nodes.NewDelete(from)}
}

// Where appends conditions to the WHERE clause.
func (m *DeleteManager) Where(conditions ...nodes.ConditionExpression) *DeleteManager {
	m.Statement.Where = append(m.Statement.Where, conditions...)
	return m
}

// With adds a Common Table Expression ahead of the DELETE.
func (m *DeleteManager) With(name string, q *SelectManager, columns ...string) *DeleteManager {
	m.Statement.With = append(m.Statement.With, cte(name, q, false, columns))
	return m
}

// Returning sets the RETURNING clause columns.
func (m *DeleteManager) Returning(cols ...string) *DeleteManager {
	m.Statement.Returning = nodes.ReturningColumns(cols...)
	return m
}

// ReturningAll sets RETURNING *.
func (m *DeleteManager) ReturningAll() *DeleteManager {
	m.Statement.Returning = nodes.ReturningAll()
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

// Build returns a copy of the statement with every registered transformer
// applied.
func (m *DeleteManager) Build() (*nodes.DeleteStatement, error) {
	return plugins.Chain(m.Statement.Clone(), m.transformers, plugins.Transformer.TransformDelete)
}

// ToSQL applies transformers and compiles the result with b.
func (m *DeleteManager) ToSQL(b Builder) (string, value.Values, error) {
	s, err := m.Build()
	if err != nil {
		return "", nil, err
	}
	return b.BuildDelete(s)
}
