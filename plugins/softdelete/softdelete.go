// Package softdelete provides a Transformer that hides soft-deleted rows
// by injecting "column IS NULL" conditions.
//
// By default it appends "deleted_at" IS NULL for every table referenced
// in a SELECT's FROM and JOIN clauses, and for the target table of an
// UPDATE or DELETE, so soft-deleted rows are neither read nor modified.
// INSERT statements are left alone.
//
// # Basic usage
//
//	sd := softdelete.New()
//	query := managers.NewSelectManager(users).Use(sd)
//	// SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL
//
// # Custom column
//
//	sd := softdelete.New(softdelete.WithColumn("removed_at"))
//
// # Restrict to specific tables
//
//	sd := softdelete.New(softdelete.WithTables("users"))
//	// Only "users" gets the IS NULL condition; other joined tables are unchanged.
//
// # Per-table columns
//
//	sd := softdelete.New(
//	    softdelete.WithTableColumn("users", "deleted_at"),
//	    softdelete.WithTableColumn("posts", "removed_at"),
//	)
package softdelete

import (
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/plugins"
)

// DefaultColumn is the soft-delete column used when none is configured.
const DefaultColumn = "deleted_at"

// SoftDelete appends IS NULL conditions for a soft-delete column on every
// referenced table, or on a configured subset.
type SoftDelete struct {
	plugins.BaseTransformer
	Column  string
	Columns map[string]string // per-table column overrides (table name → column name)
	tables  map[string]bool   // nil means apply to all tables
}

// Option configures a SoftDelete transformer.
type Option func(*SoftDelete)

// WithColumn sets the soft-delete column name.
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.Column = name }
}

// WithTables restricts the plugin to the named tables.
func WithTables(names ...string) Option {
	return func(sd *SoftDelete) {
		if sd.tables == nil {
			sd.tables = make(map[string]bool, len(names))
		}
		for _, n := range names {
			sd.tables[n] = true
		}
	}
}

// WithTableColumn sets a per-table column. The table is added to the
// whitelist, restricting the plugin's scope.
func WithTableColumn(table, column string) Option {
	return func(sd *SoftDelete) {
		if sd.Columns == nil {
			sd.Columns = make(map[string]string)
		}
		sd.Columns[table] = column
		WithTables(table)(sd)
	}
}

// New creates a SoftDelete transformer with the given options.
func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{Column: DefaultColumn}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

// TransformSelect appends "owner.column IS NULL" to the WHERE clause for
// each matching table in FROM and JOIN.
func (sd *SoftDelete) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	for _, rel := range plugins.CollectTables(s) {
		if cond, ok := sd.conditionFor(rel); ok {
			s.Where = append(s.Where, cond)
		}
	}
	return s, nil
}

// TransformUpdate restricts the update to rows that are not soft-deleted.
func (sd *SoftDelete) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	if rel, ok := plugins.Target(s.Table); ok {
		if cond, ok := sd.conditionFor(rel); ok {
			s.Where = append(s.Where, cond)
		}
	}
	return s, nil
}

// TransformDelete restricts the delete to rows that are not already
// soft-deleted.
func (sd *SoftDelete) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	if rel, ok := plugins.Target(s.Table); ok {
		if cond, ok := sd.conditionFor(rel); ok {
			s.Where = append(s.Where, cond)
		}
	}
	return s, nil
}

func (sd *SoftDelete) conditionFor(rel plugins.Relation) (nodes.ConditionExpression, bool) {
	if sd.tables != nil && !sd.tables[rel.Name] {
		return nil, false
	}
	return rel.Col(sd.columnFor(rel.Name)).IsNull(), true
}

// columnFor returns the per-table override for tableName, or Column.
func (sd *SoftDelete) columnFor(tableName string) string {
	if col, ok := sd.Columns[tableName]; ok {
		return col
	}
	return sd.Column
}
