package visitors

import (
	"github.com/bawdo/sqlweave/dialect"
	"github.com/bawdo/sqlweave/internal/quoting"
)

// PostgresBuilder generates PostgreSQL-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column".
// Placeholders are numbered: $1, $2, ...
type PostgresBuilder struct {
	*baseBuilder
}

var _ QueryBuilder = (*PostgresBuilder)(nil)

// NewPostgresBuilder creates a PostgresBuilder ready for use.
func NewPostgresBuilder(opts ...Option) *PostgresBuilder {
	v := &PostgresBuilder{}
	v.baseBuilder = newBase(dialect.Postgres, DefaultPostgresVersion, quoting.DoubleQuote, quoting.Dollar)
	v.outer = v
	v.applyOptions(opts)
	return v
}
