package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/sqlweave/managers"
	"github.com/bawdo/sqlweave/nodes"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
// Prefixes ending in a space take arguments; the rest must match exactly.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- output ---
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "all", handler: func(_ string) error { return s.cmdAll() }},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},
		{prefix: "status", handler: func(_ string) error { s.cmdStatus(); return nil }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- builder settings ---
		{prefix: "dialect ", handler: s.cmdDialect, completer: completeDialectArgs},
		{prefix: "version ", handler: s.cmdVersion},
		{prefix: "version", handler: func(_ string) error { return s.cmdVersion("") }},
		{prefix: "pretty", handler: func(_ string) error { return s.cmdPretty() }},

		// --- query building ---
		{prefix: "from ", handler: s.cmdFrom, completer: completeTableArgs},
		{prefix: "select ", handler: s.cmdSelect, completer: completeColumnArgs},
		{prefix: "distinct on ", handler: s.cmdDistinctOn, completer: completeColumnArgs},
		{prefix: "distinct", handler: func(_ string) error { return s.cmdDistinct() }},
		{prefix: "where ", handler: s.cmdWhere, completer: completeColumnArgs},
		{prefix: "group ", handler: s.cmdGroup, completer: completeColumnArgs},
		{prefix: "having ", handler: s.cmdHaving, completer: completeColumnArgs},
		{prefix: "order ", handler: s.cmdOrder, completer: completeOrderArgs},
		{prefix: "limit ", handler: s.cmdLimit},
		{prefix: "offset ", handler: s.cmdOffset},

		// --- joins ---
		{prefix: "join ", handler: func(a string) error { return s.cmdJoin(a, nodes.InnerJoin) }, completer: completeJoinArgs},
		{prefix: "inner join ", handler: func(a string) error { return s.cmdJoin(a, nodes.InnerJoin) }, completer: completeJoinArgs, hidden: true},
		{prefix: "left join ", handler: func(a string) error { return s.cmdJoin(a, nodes.LeftOuterJoin) }, completer: completeJoinArgs},
		{prefix: "right join ", handler: func(a string) error { return s.cmdJoin(a, nodes.RightOuterJoin) }, completer: completeJoinArgs},
		{prefix: "full join ", handler: func(a string) error { return s.cmdJoin(a, nodes.FullOuterJoin) }, completer: completeJoinArgs},
		{prefix: "cross join ", handler: s.cmdCrossJoin, completer: completeTableArgs},

		// --- locking ---
		{prefix: "for update", handler: func(_ string) error {
			return s.cmdLock((*managers.SelectManager).ForUpdate, "FOR UPDATE")
		}},
		{prefix: "for share", handler: func(_ string) error {
			return s.cmdLock((*managers.SelectManager).ForShare, "FOR SHARE")
		}},
		{prefix: "for no key update", handler: func(_ string) error {
			return s.cmdLock((*managers.SelectManager).ForNoKeyUpdate, "FOR NO KEY UPDATE")
		}},
		{prefix: "for key share", handler: func(_ string) error {
			return s.cmdLock((*managers.SelectManager).ForKeyShare, "FOR KEY SHARE")
		}},
		{prefix: "skip locked", handler: func(_ string) error {
			return s.cmdLock((*managers.SelectManager).SkipLocked, "SKIP LOCKED")
		}},
		{prefix: "nowait", handler: func(_ string) error {
			return s.cmdLock((*managers.SelectManager).NoWait, "NOWAIT")
		}},

		// --- set operations ---
		{prefix: "union", handler: func(_ string) error { return s.cmdSetOp(nodes.Union) }},
		{prefix: "union all", handler: func(_ string) error { return s.cmdSetOp(nodes.UnionAll) }},
		{prefix: "intersect", handler: func(_ string) error { return s.cmdSetOp(nodes.Intersect) }},
		{prefix: "intersect all", handler: func(_ string) error { return s.cmdSetOp(nodes.IntersectAll) }},
		{prefix: "except", handler: func(_ string) error { return s.cmdSetOp(nodes.Except) }},
		{prefix: "except all", handler: func(_ string) error { return s.cmdSetOp(nodes.ExceptAll) }},

		// --- CTEs ---
		{prefix: "with recursive ", handler: func(a string) error { return s.cmdWith(a, true) }},
		{prefix: "with ", handler: func(a string) error { return s.cmdWith(a, false) }},

		// --- DML builders ---
		{prefix: "insert into ", handler: s.cmdInsertInto, completer: completeTableArgs},
		{prefix: "columns ", handler: s.cmdColumns, completer: completeColumnArgs},
		{prefix: "values ", handler: s.cmdValues},
		{prefix: "on conflict ", handler: s.cmdOnConflict},
		{prefix: "update ", handler: s.cmdUpdate, completer: completeTableArgs},
		{prefix: "set ", handler: s.cmdSet, completer: completeColumnArgs},
		{prefix: "delete from ", handler: s.cmdDeleteFrom, completer: completeTableArgs},
		{prefix: "returning ", handler: s.cmdReturning, completer: completeColumnArgs},

		// --- database connectivity ---
		{prefix: "connect ", handler: s.cmdConnect},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "exec", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "run", handler: func(_ string) error { return s.cmdExec() }, hidden: true},
		{prefix: "explain", handler: func(_ string) error { return s.cmdExplain() }},
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},

		// --- plugins ---
		{prefix: "plugin ", handler: s.cmdPlugin, completer: completePluginArgs},
		{prefix: "plugins", handler: func(_ string) error { s.cmdPlugins(); return nil }},
	}

	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the REPL loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Query Building:
    from <table> [as alias]   Start a new SELECT
    select <expr> [as a], ... Set projections (col, t.col, t.*, COUNT(*), ...)
    distinct                  Enable DISTINCT
    distinct on <expr>, ...   DISTINCT ON (PostgreSQL)
    where <condition>         Add a WHERE condition (SELECT, UPDATE, DELETE)
    group <expr>, ...         Add GROUP BY
    having <condition>        Add a HAVING condition
    order <expr> [asc|desc] [nulls first|last], ...
    limit <n> / offset <n>    Set LIMIT / OFFSET

  Joins:
    join <t> on <cond>        INNER JOIN (also: using <cols>)
    left join / right join / full join <t> on <cond>
    cross join <t>            CROSS JOIN

  Locking:
    for update / for share / for no key update / for key share
    skip locked / nowait

  Set Operations and CTEs:
    union [all] / intersect [all] / except [all]
                              Queue the current SELECT; the next 'from' is the right side
    with [recursive] <name>   Save the current SELECT as a named CTE

  INSERT / UPDATE / DELETE:
    insert into <table>       Start an INSERT
    columns <col>, ...        Set the column list
    values <expr>, ...        Add a row (repeatable)
    on conflict (<cols>) do nothing
    on conflict (<cols>) do update <col>, ...
                              Upsert using the proposed row's values
    update <table>            Start an UPDATE
    set <col> = <expr>        Add an assignment (repeatable)
    delete from <table>       Start a DELETE
    returning <cols> | *      Set RETURNING

  Output:
    sql                       Compile for the active dialect
    all                       Compile for every dialect
    dialect <name>            postgres, mysql or sqlite
    version [<x.y.z>]         Target server version (empty = default)
    pretty                    Toggle clause-per-line output
    status                    Show session state
    reset                     Clear the statement, CTEs and set operations

  Database:
    connect [<dsn>]           Open a connection for the active dialect
    disconnect                Close it
    exec                      Run the compiled statement
    explain                   Run EXPLAIN on the compiled statement
    tables                    List tables

  Plugins:
    plugin softdelete [col | col on t1 t2 | t.col, ...]
    plugin off [name]         Disable one or all plugins
    plugins                   List enabled plugins

  Conditions: =, !=, <>, <, <=, >, >=, like, ilike, not like, not ilike,
  regexp, in (...), not in (...), between a and b, is [not] null,
  combined with and / or / not and parentheses.

    exit / quit               Leave the REPL`)
}
