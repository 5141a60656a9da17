// Package quoting provides identifier quoting, placeholder and name
// validation primitives shared by the dialect builders.
package quoting

import (
	"strconv"
	"strings"
)

// DoubleQuote quotes a SQL identifier using double quotes (PostgreSQL, SQLite, ANSI SQL).
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes a SQL identifier using backticks (MySQL).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Dollar formats a numbered PostgreSQL placeholder. Indexes start at 1.
func Dollar(i int) string {
	return "$" + strconv.Itoa(i)
}

// Question formats a positional placeholder. The index is ignored.
func Question(int) string {
	return "?"
}

// LikeEscape is the escape character paired with EscapeLikePattern. It is
// neither a backslash nor a quote so the ESCAPE clause reads the same in
// every dialect.
const LikeEscape = "!"

// EscapeLikePattern escapes LIKE wildcard characters (%, _) and the escape
// character itself so they are matched literally.
func EscapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, LikeEscape, LikeEscape+LikeEscape)
	s = strings.ReplaceAll(s, "%", LikeEscape+"%")
	s = strings.ReplaceAll(s, "_", LikeEscape+"_")
	return s
}

// IsFunctionName reports whether name is safe to emit verbatim as a SQL
// function name: letters, digits and underscores, optionally qualified
// with dots, not starting with a digit.
func IsFunctionName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" || (part[0] >= '0' && part[0] <= '9') {
			return false
		}
		for _, c := range part {
			if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
				(c < '0' || c > '9') && c != '_' {
				return false
			}
		}
	}
	return true
}

// IsTypeName reports whether name is safe to emit verbatim as a CAST
// target: letters, digits, spaces, underscores, parentheses and commas.
func IsTypeName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			(c < '0' || c > '9') && c != ' ' && c != '(' &&
			c != ')' && c != ',' && c != '_' && c != '[' && c != ']' {
			return false
		}
	}
	return true
}
