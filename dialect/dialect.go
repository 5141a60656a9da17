// Package dialect names the SQL dialects sqlweave compiles for.
package dialect

import (
	"fmt"
	"strings"
)

// Name identifies a SQL dialect.
type Name string

const (
	Postgres Name = "postgres"
	MySQL    Name = "mysql"
	SQLite   Name = "sqlite"
)

// All lists every supported dialect in a stable order.
var All = []Name{Postgres, MySQL, SQLite}

// Parse resolves a dialect name, accepting common aliases.
func Parse(s string) (Name, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unknown dialect %q", s)
}

func (n Name) String() string { return string(n) }
