package main

import (
	"strings"

	"github.com/bawdo/sqlweave/dialect"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextTableName                          // after from/join/etc
	contextColumnRef                          // after select/where/having/group
	contextDialect                            // after dialect
	contextPlugin                             // after plugin
	contextPluginOff                          // after plugin off
	contextOrderDir                           // after a column in order
	contextOperator                           // after a column in a condition
)

var orderDirs = []string{"asc", "desc", "nulls first", "nulls last"}

var operators = []string{
	"!=", "<", "<=", "<>", "=", ">", ">=",
	"between", "ilike", "in", "is", "like", "not", "regexp",
}

var functionNames = []string{
	"AVG(", "COALESCE(", "COUNT(", "COUNT(DISTINCT ", "LOWER(", "MAX(", "MIN(", "SUM(", "UPPER(",
}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for line[:pos]. length is the number of
// runes before pos that form the prefix being completed; each candidate is
// the suffix to append.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	ctx, prefix := c.parseContext(string(line[:pos]))

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextTableName:
		candidates = c.completeTableNames(prefix)
	case contextColumnRef:
		candidates = c.completeColumnRef(prefix)
	case contextDialect:
		names := make([]string, len(dialect.All))
		for i, d := range dialect.All {
			names[i] = string(d)
		}
		candidates = filterPrefix(names, prefix)
	case contextPlugin:
		candidates = filterPrefix(append([]string{"off"}, c.sess.pluginNames()...), prefix)
	case contextPluginOff:
		candidates = filterPrefix(c.sess.plugins.names(), prefix)
	case contextOrderDir:
		candidates = filterPrefix(orderDirs, prefix)
	case contextOperator:
		candidates = filterPrefix(operators, prefix)
	}

	for _, cand := range candidates {
		newLine = append(newLine, []rune(cand[len(prefix):]+" "))
	}
	return newLine, len([]rune(prefix))
}

// parseContext finds the command being typed and asks its completer what
// kind of argument comes next.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)
	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue
		}
		if strings.HasPrefix(lower, cmd.prefix) && cmd.completer != nil {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}
	return contextCommand, strings.TrimSpace(line)
}

func (c *replCompleter) completeTableNames(prefix string) []string {
	if c.sess.conn == nil {
		return nil
	}
	return filterPrefix(c.sess.conn.tables, prefix)
}

// completeColumnRef completes table names before a dot and column names
// after it.
func (c *replCompleter) completeColumnRef(prefix string) []string {
	if table, _, ok := strings.Cut(prefix, "."); ok {
		candidates := []string{table + ".*"}
		if c.sess.conn != nil {
			for _, col := range c.sess.conn.schemaColumns(table) {
				candidates = append(candidates, table+"."+col)
			}
		}
		return filterPrefix(candidates, prefix)
	}
	return append(c.completeTableNames(prefix), filterPrefix(functionNames, prefix)...)
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the text after the last space, tab or comma.
func lastToken(s string) string {
	if i := strings.LastIndexAny(s, " \t,("); i >= 0 {
		return s[i+1:]
	}
	return s
}

// --- per-command argument completers ---

// completeJoinArgs: table name, then ON, then column refs.
func completeJoinArgs(args string) (completionContext, string) {
	if !strings.Contains(args, " ") {
		return contextTableName, args
	}
	if strings.HasSuffix(args, " ") {
		return contextOperator, ""
	}
	return contextColumnRef, lastToken(args)
}

func completeTableArgs(args string) (completionContext, string) {
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") && !strings.HasSuffix(args, " ") {
		return contextTableName, arg
	}
	return contextCommand, ""
}

func completeColumnArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") {
		if f := strings.Fields(args); len(f) > 0 && strings.Contains(f[len(f)-1], ".") {
			return contextOperator, ""
		}
		return contextColumnRef, ""
	}
	return contextColumnRef, lastToken(args)
}

func completeOrderArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") {
		if f := strings.Fields(args); len(f) > 0 && !strings.HasSuffix(f[len(f)-1], ",") {
			return contextOrderDir, ""
		}
		return contextColumnRef, ""
	}
	last := lastToken(args)
	if f := strings.Fields(args); len(f) > 1 && !strings.HasSuffix(f[len(f)-2], ",") {
		return contextOrderDir, last
	}
	return contextColumnRef, last
}

func completeDialectArgs(args string) (completionContext, string) {
	return contextDialect, strings.TrimSpace(args)
}

// completePluginArgs: plugin names, or after "off" the enabled plugins.
func completePluginArgs(args string) (completionContext, string) {
	if strings.HasPrefix(strings.ToLower(args), "off ") {
		return contextPluginOff, strings.TrimSpace(args[4:])
	}
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") {
		return contextPlugin, arg
	}
	return contextCommand, ""
}
