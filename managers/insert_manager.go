package managers

import (
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/plugins"
	"github.com/bawdo/sqlweave/value"
)

// InsertManager provides a fluent API for building INSERT statements.
type InsertManager struct {
	treeManager
	Statement *nodes.InsertStatement
}

// NewInsertManager creates a new InsertManager targeting the given table.
func NewInsertManager(into *nodes.TableRef) *InsertManager {
	return &InsertManager{Statement: nodes.NewInsert(into)}
}

// Columns sets the column list for the INSERT statement.
func (m *InsertManager) Columns(cols ...string) *InsertManager {
	m.Statement.Columns = cols
	return m
}

// Values appends a row of values to the INSERT statement.
// Each call to Values adds one row. Raw Go values are bound as
// parameters; expressions such as nodes.Default() are used as given.
func (m *InsertManager) Values(vals ...any) *InsertManager {
	row := make([]nodes.Expr, len(vals))
	for i, v := range vals {
		row[i] = nodes.Lit(v)
	}
	m.Statement.Rows = append(m.Statement.Rows, row)
	return m
}

// FromSelect sets a SELECT as the source of rows. It cannot be combined
// with Values.
func (m *InsertManager) FromSelect(sel *SelectManager) *InsertManager {
	m.Statement.Select = sel.Statement
	return m
}

// With adds a Common Table Expression ahead of the INSERT.
func (m *InsertManager) With(name string, q *SelectManager, columns ...string) *InsertManager {
	m.Statement.With = append(m.Statement.With, cte(name, q, false, columns))
	return m
}

// Returning sets the RETURNING clause columns.
func (m *InsertManager) Returning(cols ...string) *InsertManager {
	m.Statement.Returning = nodes.ReturningColumns(cols...)
	return m
}

// ReturningAll sets RETURNING *.
func (m *InsertManager) ReturningAll() *InsertManager {
	m.Statement.Returning = nodes.ReturningAll()
	return m
}

// OnConflict begins a conflict clause targeting the given columns.
// Returns an OnConflictContext for specifying the action.
func (m *InsertManager) OnConflict(cols ...string) *OnConflictContext {
	oc := &nodes.OnConflict{Columns: cols}
	m.Statement.OnConflict = oc
	return &OnConflictContext{manager: m, node: oc}
}

// Use registers a transformer plugin.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	m.addTransformer(t)
	return m
}

// Build returns a copy of the statement with every registered transformer
// applied.
func (m *InsertManager) Build() (*nodes.InsertStatement, error) {
	return plugins.Chain(m.Statement.Clone(), m.transformers, plugins.Transformer.TransformInsert)
}

// ToSQL applies transformers and compiles the result with b.
func (m *InsertManager) ToSQL(b Builder) (string, value.Values, error) {
	s, err := m.Build()
	if err != nil {
		return "", nil, err
	}
	return b.BuildInsert(s)
}

// OnConflictContext guides conflict clause construction.
type OnConflictContext struct {
	manager *InsertManager
	node    *nodes.OnConflict
}

// DoNothing skips conflicting rows and returns the InsertManager.
func (c *OnConflictContext) DoNothing() *InsertManager {
	c.node.DoNothing = true
	c.node.Updates = nil
	return c.manager
}

// DoUpdate updates the conflicting row with the given assignments.
// Returns an OnConflictUpdateContext for an optional WHERE clause.
func (c *OnConflictContext) DoUpdate(assignments ...nodes.Assignment) *OnConflictUpdateContext {
	c.node.DoNothing = false
	c.node.Updates = assignments
	return &OnConflictUpdateContext{manager: c.manager, node: c.node}
}

// OnConflictUpdateContext allows adding a WHERE to DO UPDATE.
type OnConflictUpdateContext struct {
	manager *InsertManager
	node    *nodes.OnConflict
}

// Where adds conditions to the DO UPDATE clause.
func (c *OnConflictUpdateContext) Where(conditions ...nodes.ConditionExpression) *InsertManager {
	c.node.Where = conditions
	return c.manager
}

// Done returns the InsertManager without adding a WHERE.
func (c *OnConflictUpdateContext) Done() *InsertManager {
	return c.manager
}
