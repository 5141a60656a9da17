// Package sqlweave compiles SQL statement trees into dialect-specific SQL
// text and an ordered list of bound values.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/sqlweave/managers (fluent statement builders)
//   - github.com/bawdo/sqlweave/nodes (statement and expression trees)
//   - github.com/bawdo/sqlweave/visitors (per-dialect SQL generation)
//   - github.com/bawdo/sqlweave/plugins (statement transformers)
//   - github.com/bawdo/sqlweave/bind (driver arguments for database/sql)
package sqlweave

import (
	"github.com/bawdo/sqlweave/bind"
	"github.com/bawdo/sqlweave/dialect"
	"github.com/bawdo/sqlweave/managers"
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/value"
	"github.com/bawdo/sqlweave/visitors"
)

// --- Dialects ---

// Dialect names a supported SQL dialect.
type Dialect = dialect.Name

const (
	Postgres = dialect.Postgres
	MySQL    = dialect.MySQL
	SQLite   = dialect.SQLite
)

// --- Manager Types ---

// SelectManager provides a fluent API for building SELECT statements.
type SelectManager = managers.SelectManager

// InsertManager provides a fluent API for building INSERT statements.
type InsertManager = managers.InsertManager

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager = managers.UpdateManager

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager = managers.DeleteManager

// --- Manager Constructors ---

// NewSelect creates a new SelectManager with the given table as FROM.
func NewSelect(from *nodes.TableRef) *managers.SelectManager {
	return managers.NewSelectManager(from)
}

// NewInsert creates a new InsertManager for inserting into the given table.
func NewInsert(into *nodes.TableRef) *managers.InsertManager {
	return managers.NewInsertManager(into)
}

// NewUpdate creates a new UpdateManager for updating the given table.
func NewUpdate(table *nodes.TableRef) *managers.UpdateManager {
	return managers.NewUpdateManager(table)
}

// NewDelete creates a new DeleteManager for deleting from the given table.
func NewDelete(from *nodes.TableRef) *managers.DeleteManager {
	return managers.NewDeleteManager(from)
}

// --- Core Node Types ---

// TableRef is a table, optionally schema-qualified and aliased.
type TableRef = nodes.TableRef

// Expr is any scalar expression.
type Expr = nodes.Expr

// Values is the ordered list of bound values produced by a build.
type Values = value.Values

// --- Common Node Constructors ---

// NewTable creates a new table reference.
func NewTable(name string) *nodes.TableRef {
	return nodes.NewTable(name)
}

// Col creates an unqualified column reference.
func Col(name string) *nodes.ColumnExpr {
	return nodes.Col(name)
}

// Val binds v as a parameter.
func Val(v any) *nodes.ValueExpr {
	return nodes.Val(v)
}

// Star creates an unqualified * for SELECT *.
func Star() *nodes.ColumnExpr {
	return nodes.Star()
}

// All joins conditions with AND.
func All(conds ...nodes.ConditionExpression) *nodes.Condition {
	return nodes.All(conds...)
}

// Any joins conditions with OR.
func Any(conds ...nodes.ConditionExpression) *nodes.Condition {
	return nodes.Any(conds...)
}

// --- Aggregate Functions ---

func Count(e nodes.Expr) *nodes.FunctionCall         { return nodes.Count(e) }
func CountStar() *nodes.FunctionCall                 { return nodes.CountStar() }
func CountDistinct(e nodes.Expr) *nodes.FunctionCall { return nodes.CountDistinct(e) }
func Sum(e nodes.Expr) *nodes.FunctionCall           { return nodes.Sum(e) }
func Avg(e nodes.Expr) *nodes.FunctionCall           { return nodes.Avg(e) }
func Min(e nodes.Expr) *nodes.FunctionCall           { return nodes.Min(e) }
func Max(e nodes.Expr) *nodes.FunctionCall           { return nodes.Max(e) }

// --- Builders ---

// QueryBuilder compiles statements for one dialect.
type QueryBuilder = visitors.QueryBuilder

// New returns the builder for d.
func New(d dialect.Name, opts ...visitors.Option) (visitors.QueryBuilder, error) {
	return visitors.New(d, opts...)
}

// NewPostgresBuilder creates a PostgreSQL builder.
func NewPostgresBuilder(opts ...visitors.Option) *visitors.PostgresBuilder {
	return visitors.NewPostgresBuilder(opts...)
}

// NewMySQLBuilder creates a MySQL builder.
func NewMySQLBuilder(opts ...visitors.Option) *visitors.MySQLBuilder {
	return visitors.NewMySQLBuilder(opts...)
}

// NewSQLiteBuilder creates a SQLite builder.
func NewSQLiteBuilder(opts ...visitors.Option) *visitors.SQLiteBuilder {
	return visitors.NewSQLiteBuilder(opts...)
}

// WithServerVersion gates dialect features on the target server version.
func WithServerVersion(v string) visitors.Option {
	return visitors.WithServerVersion(v)
}

// WithPretty places each top-level clause on its own line.
func WithPretty() visitors.Option {
	return visitors.WithPretty()
}

// Args converts built values to database/sql arguments for dialect d.
func Args(d dialect.Name, vals value.Values) ([]any, error) {
	return bind.Args(d, vals)
}
