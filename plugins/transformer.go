// Package plugins defines the Transformer interface for AST middleware.
package plugins

import "github.com/bawdo/sqlweave/nodes"

// Transformer rewrites a statement before it is compiled. Managers hand
// each transformer a clone, so implementations may modify the statement
// in place and return it. Plugins embed BaseTransformer and override
// only the methods they need.
type Transformer interface {
	TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error)
	TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error)
	TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error)
	TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error)
}

// BaseTransformer provides no-op defaults for all Transformer methods.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return s, nil
}

// Chain applies ts to s in order, stopping at the first error.
func Chain[S any](s S, ts []Transformer, apply func(Transformer, S) (S, error)) (S, error) {
	for _, t := range ts {
		var err error
		s, err = apply(t, s)
		if err != nil {
			var zero S
			return zero, err
		}
	}
	return s, nil
}
