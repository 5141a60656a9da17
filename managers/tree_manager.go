package managers

import (
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/plugins"
	"github.com/bawdo/sqlweave/value"
)

// Builder compiles statements for one dialect. Every visitors.QueryBuilder
// satisfies it.
type Builder interface {
	BuildSelect(s *nodes.SelectStatement) (string, value.Values, error)
	BuildInsert(s *nodes.InsertStatement) (string, value.Values, error)
	BuildUpdate(s *nodes.UpdateStatement) (string, value.Values, error)
	BuildDelete(s *nodes.DeleteStatement) (string, value.Values, error)
}

// treeManager is the shared base for all manager types. It holds the
// transformer pipeline common to Select, Insert, Update, and Delete managers.
type treeManager struct {
	transformers []plugins.Transformer
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

func cte(name string, q *SelectManager, recursive bool, columns []string) nodes.CommonTableExpression {
	return nodes.CommonTableExpression{
		Name:      name,
		Columns:   columns,
		Query:     q.Statement,
		Recursive: recursive,
	}
}
