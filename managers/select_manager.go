// Package managers provides high-level fluent APIs for building SQL ASTs.
package managers

import (
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/plugins"
	"github.com/bawdo/sqlweave/value"
)

// SelectManager provides a fluent API for building SELECT queries.
// It wraps a SelectStatement and applies transformer plugins before SQL
// generation.
type SelectManager struct {
	treeManager
	Statement *nodes.SelectStatement
}

// NewSelectManager creates a new SelectManager with the given table as FROM.
// If from is nil, the FROM clause is left unset.
func NewSelectManager(from *nodes.TableRef) *SelectManager {
	s := nodes.NewSelect()
	if from != nil {
		s.From = []*nodes.TableRef{from}
	}
	return &SelectManager{Statement: s}
}

// Select sets the projection list, replacing any existing projections.
// Items may be expressions, aliased projections from As, or raw Go values,
// which are bound as parameters.
func (m *SelectManager) Select(projections ...any) *SelectManager {
	out := make([]nodes.SelectExpr, 0, len(projections))
	for _, p := range projections {
		if se, ok := p.(nodes.SelectExpr); ok {
			out = append(out, se)
			continue
		}
		out = append(out, nodes.SelectExpr{Expr: nodes.Lit(p)})
	}
	m.Statement.Projections = out
	return m
}

// Project is an alias for Select.
func (m *SelectManager) Project(projections ...any) *SelectManager {
	return m.Select(projections...)
}

// Distinct enables or disables the DISTINCT modifier on the SELECT clause.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	if len(on) == 0 || on[0] {
		m.Statement.Distinct = nodes.DistinctPlain
	} else {
		m.Statement.Distinct = nodes.DistinctNone
	}
	m.Statement.DistinctOn = nil
	return m
}

// DistinctOn sets the DISTINCT ON expressions (PostgreSQL).
func (m *SelectManager) DistinctOn(exprs ...nodes.Expr) *SelectManager {
	m.Statement.Distinct = nodes.DistinctOn
	m.Statement.DistinctOn = exprs
	return m
}

// DistinctRow sets the DISTINCTROW modifier (MySQL).
func (m *SelectManager) DistinctRow() *SelectManager {
	m.Statement.Distinct = nodes.DistinctRow
	m.Statement.DistinctOn = nil
	return m
}

// Where appends one or more conditions to the WHERE clause.
// Multiple calls to Where are combined with AND.
func (m *SelectManager) Where(conditions ...nodes.ConditionExpression) *SelectManager {
	m.Statement.Where = append(m.Statement.Where, conditions...)
	return m
}

// From replaces the FROM list.
func (m *SelectManager) From(tables ...*nodes.TableRef) *SelectManager {
	m.Statement.From = tables
	return m
}

// Join adds a join to the query and returns a JoinContext for specifying
// the condition. The default join type is InnerJoin.
func (m *SelectManager) Join(table *nodes.TableRef, joinTypes ...nodes.JoinType) *JoinContext {
	return m.addJoin(table, false, joinTypes)
}

// OuterJoin is a convenience for Join with LeftOuterJoin type.
func (m *SelectManager) OuterJoin(table *nodes.TableRef) *JoinContext {
	return m.Join(table, nodes.LeftOuterJoin)
}

// LateralJoin adds a LATERAL join. Default join type is InnerJoin.
func (m *SelectManager) LateralJoin(table *nodes.TableRef, joinTypes ...nodes.JoinType) *JoinContext {
	return m.addJoin(table, true, joinTypes)
}

// CrossJoin adds a cross join (no ON clause).
func (m *SelectManager) CrossJoin(table *nodes.TableRef) *SelectManager {
	m.Statement.Joins = append(m.Statement.Joins, nodes.JoinExpr{Type: nodes.CrossJoin, Table: table})
	return m
}

func (m *SelectManager) addJoin(table *nodes.TableRef, lateral bool, joinTypes []nodes.JoinType) *JoinContext {
	jt := nodes.InnerJoin
	if len(joinTypes) > 0 {
		jt = joinTypes[0]
	}
	m.Statement.Joins = append(m.Statement.Joins, nodes.JoinExpr{Type: jt, Table: table, Lateral: lateral})
	return &JoinContext{manager: m, index: len(m.Statement.Joins) - 1}
}

// Group appends one or more expressions to the GROUP BY clause.
func (m *SelectManager) Group(exprs ...nodes.Expr) *SelectManager {
	m.Statement.GroupBy = append(m.Statement.GroupBy, exprs...)
	return m
}

// Having appends one or more conditions to the HAVING clause.
func (m *SelectManager) Having(conditions ...nodes.ConditionExpression) *SelectManager {
	m.Statement.Having = append(m.Statement.Having, conditions...)
	return m
}

// Window appends a named window definition to the WINDOW clause.
func (m *SelectManager) Window(name string, w *nodes.WindowStatement) *SelectManager {
	m.Statement.Windows = append(m.Statement.Windows, nodes.NamedWindow{Name: name, Window: w})
	return m
}

// Order appends to the ORDER BY clause.
func (m *SelectManager) Order(orderings ...nodes.OrderExpr) *SelectManager {
	m.Statement.OrderBy = append(m.Statement.OrderBy, orderings...)
	return m
}

// Limit sets the LIMIT value.
func (m *SelectManager) Limit(n uint64) *SelectManager {
	m.Statement.Limit = &n
	return m
}

// Offset sets the OFFSET value.
func (m *SelectManager) Offset(n uint64) *SelectManager {
	m.Statement.Offset = &n
	return m
}

// Take is an alias for Limit.
func (m *SelectManager) Take(n uint64) *SelectManager {
	return m.Limit(n)
}

// ForUpdate sets the FOR UPDATE lock mode.
func (m *SelectManager) ForUpdate() *SelectManager {
	m.Statement.Lock = nodes.ForUpdate
	return m
}

// ForShare sets the FOR SHARE lock mode.
func (m *SelectManager) ForShare() *SelectManager {
	m.Statement.Lock = nodes.ForShare
	return m
}

// ForNoKeyUpdate sets the FOR NO KEY UPDATE lock mode.
func (m *SelectManager) ForNoKeyUpdate() *SelectManager {
	m.Statement.Lock = nodes.ForNoKeyUpdate
	return m
}

// ForKeyShare sets the FOR KEY SHARE lock mode.
func (m *SelectManager) ForKeyShare() *SelectManager {
	m.Statement.Lock = nodes.ForKeyShare
	return m
}

// NoWait adds NOWAIT to the current lock mode.
func (m *SelectManager) NoWait() *SelectManager {
	m.Statement.Wait = nodes.NoWait
	return m
}

// SkipLocked adds SKIP LOCKED to the current lock mode.
func (m *SelectManager) SkipLocked() *SelectManager {
	m.Statement.Wait = nodes.SkipLocked
	return m
}

// With adds a Common Table Expression. The CTE body is q's statement as
// it stands; q's own transformers are not applied.
func (m *SelectManager) With(name string, q *SelectManager, columns ...string) *SelectManager {
	m.Statement.With = append(m.Statement.With, cte(name, q, false, columns))
	return m
}

// WithRecursive adds a recursive Common Table Expression.
func (m *SelectManager) WithRecursive(name string, q *SelectManager, columns ...string) *SelectManager {
	m.Statement.With = append(m.Statement.With, cte(name, q, true, columns))
	return m
}

func (m *SelectManager) setOp(t nodes.SetOpType, other *SelectManager) *SelectManager {
	m.Statement.Unions = append(m.Statement.Unions, nodes.SetOperation{Type: t, Query: other.Statement})
	return m
}

// Union appends UNION other.
func (m *SelectManager) Union(other *SelectManager) *SelectManager {
	return m.setOp(nodes.Union, other)
}

// UnionAll appends UNION ALL other.
func (m *SelectManager) UnionAll(other *SelectManager) *SelectManager {
	return m.setOp(nodes.UnionAll, other)
}

// Intersect appends INTERSECT other.
func (m *SelectManager) Intersect(other *SelectManager) *SelectManager {
	return m.setOp(nodes.Intersect, other)
}

// IntersectAll appends INTERSECT ALL other.
func (m *SelectManager) IntersectAll(other *SelectManager) *SelectManager {
	return m.setOp(nodes.IntersectAll, other)
}

// Except appends EXCEPT other.
func (m *SelectManager) Except(other *SelectManager) *SelectManager {
	return m.setOp(nodes.Except, other)
}

// ExceptAll appends EXCEPT ALL other.
func (m *SelectManager) ExceptAll(other *SelectManager) *SelectManager {
	return m.setOp(nodes.ExceptAll, other)
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// Build returns a copy of the statement with every registered transformer
// applied. The manager's own statement is left unchanged.
func (m *SelectManager) Build() (*nodes.SelectStatement, error) {
	return plugins.Chain(m.Statement.Clone(), m.transformers, plugins.Transformer.TransformSelect)
}

// ToSQL applies all registered transformers and compiles the result with b.
func (m *SelectManager) ToSQL(b Builder) (string, value.Values, error) {
	s, err := m.Build()
	if err != nil {
		return "", nil, err
	}
	return b.BuildSelect(s)
}

// As wraps the query in a derived table, enabling it to be used as a
// named subquery in FROM or JOIN clauses.
func (m *SelectManager) As(alias string) *nodes.TableRef {
	return m.Statement.As(alias)
}

// SubQuery returns the query as a scalar subquery expression, for use in
// projections and comparisons.
func (m *SelectManager) SubQuery() *nodes.SubQueryExpr {
	return nodes.SubQuery(m.Statement)
}
