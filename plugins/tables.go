package plugins

import "github.com/bawdo/sqlweave/nodes"

// Relation is a table referenced by a statement. Table is the reference
// used to create column references (so aliases are respected) and Name is
// the underlying table name used for matching.
type Relation struct {
	Table *nodes.TableRef
	Name  string
}

// Col returns a column owned by the relation, qualified by its alias when
// it has one.
func (r Relation) Col(name string) *nodes.ColumnExpr { return r.Table.Col(name) }

// CollectTables returns the named tables in a SELECT's FROM list and JOIN
// targets, in order. Derived tables are skipped.
func CollectTables(s *nodes.SelectStatement) []Relation {
	var rels []Relation
	for _, t := range s.From {
		if rel, ok := relationOf(t); ok {
			rels = append(rels, rel)
		}
	}
	for _, j := range s.Joins {
		if rel, ok := relationOf(j.Table); ok {
			rels = append(rels, rel)
		}
	}
	return rels
}

// Target returns the relation for the table of an INSERT, UPDATE or
// DELETE.
func Target(t *nodes.TableRef) (Relation, bool) {
	return relationOf(t)
}

func relationOf(t *nodes.TableRef) (Relation, bool) {
	if t == nil || t.Kind() == nodes.SubQueryTableName || t.Name == "" {
		return Relation{}, false
	}
	return Relation{Table: t, Name: t.Name}, true
}
