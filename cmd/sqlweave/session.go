package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bawdo/sqlweave/dialect"
	"github.com/bawdo/sqlweave/managers"
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/plugins"
	"github.com/bawdo/sqlweave/value"
	"github.com/bawdo/sqlweave/visitors"
)

var errNoQuery = errors.New("no statement defined (start with 'from', 'insert into', 'update' or 'delete from')")

// stmtMode tracks which kind of statement the session is building.
type stmtMode int

const (
	modeNone stmtMode = iota
	modeSelect
	modeInsert
	modeUpdate
	modeDelete
)

func (m stmtMode) String() string {
	switch m {
	case modeSelect:
		return "select"
	case modeInsert:
		return "insert"
	case modeUpdate:
		return "update"
	case modeDelete:
		return "delete"
	}
	return "none"
}

// setOpEntry is a finished SELECT waiting to be combined with the next one.
type setOpEntry struct {
	opType nodes.SetOpType
	query  *managers.SelectManager
}

// cteEntry is a finished SELECT saved under a name for the WITH clause.
type cteEntry struct {
	name      string
	query     *managers.SelectManager
	recursive bool
}

// Session holds the REPL state: the statement being built, the active
// dialect and builder options, enabled plugins and the optional database
// connection.
type Session struct {
	dialect       dialect.Name
	serverVersion string
	pretty        bool
	builder       visitors.QueryBuilder
	logger        *slog.Logger

	mode     stmtMode
	query    *managers.SelectManager
	insert   *managers.InsertManager
	update   *managers.UpdateManager
	del      *managers.DeleteManager
	setOps   []setOpEntry
	ctes     []cteEntry
	plugins  pluginRegistry
	commands []commandEntry
	conn     *dbConn
	out      io.Writer
}

// NewSession creates a session configured by cfg that prints to out.
func NewSession(cfg *Config, out io.Writer, logger *slog.Logger) (*Session, error) {
	d, err := dialect.Parse(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	s := &Session{
		dialect:       d,
		serverVersion: cfg.ServerVersion,
		pretty:        cfg.Pretty,
		logger:        logger,
		out:           out,
	}
	if err := s.rebuildBuilder(); err != nil {
		return nil, err
	}
	s.initCommands()
	return s, nil
}

// Close releases the database connection, if any.
func (s *Session) Close() {
	if s.conn != nil {
		_ = s.conn.close()
		s.conn = nil
	}
}

func (s *Session) prompt() string {
	if s.mode == modeNone {
		return prompt
	}
	return fmt.Sprintf("sqlweave(%s:%s)> ", s.dialect, s.mode)
}

// builderFor returns a builder for d with the session's options.
func (s *Session) builderFor(d dialect.Name) (visitors.QueryBuilder, error) {
	opts := []visitors.Option{visitors.WithLogger(s.logger)}
	if s.serverVersion != "" && d == s.dialect {
		opts = append(opts, visitors.WithServerVersion(s.serverVersion))
	}
	if s.pretty {
		opts = append(opts, visitors.WithPretty())
	}
	return visitors.New(d, opts...)
}

func (s *Session) rebuildBuilder() error {
	b, err := s.builderFor(s.dialect)
	if err != nil {
		return err
	}
	s.builder = b
	return nil
}

// Execute parses and runs a single REPL command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(strings.TrimSpace(line[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// compile builds the current statement, with CTEs and set operations
// attached, for b.
func (s *Session) compile(b managers.Builder) (string, value.Values, error) {
	ctes, err := s.buildCTEs()
	if err != nil {
		return "", nil, err
	}
	switch s.mode {
	case modeSelect:
		st, err := s.buildSelect()
		if err != nil {
			return "", nil, err
		}
		st.With = append(ctes, st.With...)
		return b.BuildSelect(st)
	case modeInsert:
		st, err := s.insert.Build()
		if err != nil {
			return "", nil, err
		}
		st.With = append(ctes, st.With...)
		return b.BuildInsert(st)
	case modeUpdate:
		st, err := s.update.Build()
		if err != nil {
			return "", nil, err
		}
		st.With = append(ctes, st.With...)
		return b.BuildUpdate(st)
	case modeDelete:
		st, err := s.del.Build()
		if err != nil {
			return "", nil, err
		}
		st.With = append(ctes, st.With...)
		return b.BuildDelete(st)
	}
	return "", nil, errNoQuery
}

// buildSelect chains pending set operations left to right, ending with the
// current query.
func (s *Session) buildSelect() (*nodes.SelectStatement, error) {
	if len(s.setOps) == 0 {
		return s.query.Build()
	}
	root, err := s.setOps[0].query.Build()
	if err != nil {
		return nil, err
	}
	for i, op := range s.setOps {
		right := s.query
		if i+1 < len(s.setOps) {
			right = s.setOps[i+1].query
		}
		rs, err := right.Build()
		if err != nil {
			return nil, err
		}
		root.Unions = append(root.Unions, nodes.SetOperation{Type: op.opType, Query: rs})
	}
	return root, nil
}

func (s *Session) buildCTEs() ([]nodes.CommonTableExpression, error) {
	var out []nodes.CommonTableExpression
	for _, c := range s.ctes {
		q, err := c.query.Build()
		if err != nil {
			return nil, fmt.Errorf("CTE %q: %w", c.name, err)
		}
		out = append(out, nodes.CommonTableExpression{Name: c.name, Query: q, Recursive: c.recursive})
	}
	return out, nil
}

// resetStatement clears the statement being built but keeps CTEs and set
// operations, which outlive a single statement.
func (s *Session) resetStatement(mode stmtMode) {
	s.mode = mode
	s.query = nil
	s.insert = nil
	s.update = nil
	s.del = nil
}

func (s *Session) requireSelect() (*managers.SelectManager, error) {
	if s.mode != modeSelect || s.query == nil {
		return nil, errors.New("no SELECT in progress (use 'from <table>' first)")
	}
	return s.query, nil
}

// --- Command handlers ---

func (s *Session) cmdFrom(args string) error {
	t, err := parseTableRef(args)
	if err != nil {
		return fmt.Errorf("usage: from <table> [as alias]: %w", err)
	}
	s.resetStatement(modeSelect)
	s.query = managers.NewSelectManager(t)
	s.plugins.applyTo(func(tr plugins.Transformer) { s.query.Use(tr) })
	info(s.out, "SELECT from %s", t.RefName())
	return nil
}

func (s *Session) cmdSelect(args string) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	var projs []any
	for _, item := range splitTopLevelCommas(args) {
		p, err := parseSelectItem(item)
		if err != nil {
			return fmt.Errorf("select %q: %w", item, err)
		}
		projs = append(projs, p)
	}
	if len(projs) == 0 {
		return errors.New("usage: select <expr> [as alias], ...")
	}
	m.Select(projs...)
	info(s.out, "Projections: %d", len(projs))
	return nil
}

func (s *Session) cmdDistinct() error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	m.Distinct()
	info(s.out, "DISTINCT on")
	return nil
}

func (s *Session) cmdDistinctOn(args string) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	var exprs []nodes.Expr
	for _, item := range splitTopLevelCommas(args) {
		e, err := parseExpression(item)
		if err != nil {
			return err
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 0 {
		return errors.New("usage: distinct on <expr>, ...")
	}
	m.DistinctOn(exprs...)
	info(s.out, "DISTINCT ON %d expression(s)", len(exprs))
	return nil
}

// cmdWhere adds a condition to whichever statement is being built.
func (s *Session) cmdWhere(args string) error {
	cond, err := parseCondition(args)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	conds := topLevelAnd(cond)
	switch s.mode {
	case modeSelect:
		s.query.Where(conds...)
	case modeUpdate:
		s.update.Where(conds...)
	case modeDelete:
		s.del.Where(conds...)
	case modeInsert:
		return errors.New("INSERT has no WHERE clause")
	default:
		return errNoQuery
	}
	info(s.out, "WHERE added")
	return nil
}

// topLevelAnd splits "a and b" into separate clause items so the builder
// writes them without an enclosing group.
func topLevelAnd(c nodes.ConditionExpression) []nodes.ConditionExpression {
	if g, ok := c.(*nodes.Condition); ok && g.Type == nodes.ConditionAll && !g.Negate {
		return g.Items
	}
	return []nodes.ConditionExpression{c}
}

func (s *Session) cmdJoin(args string, jt nodes.JoinType) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	lower := strings.ToLower(args)
	usage := errors.New("usage: join <table> [alias] on <condition> | using <col>, ...")
	if idx := strings.Index(lower, " using "); idx > 0 {
		t, err := parseTableRef(args[:idx])
		if err != nil {
			return err
		}
		var cols []string
		for _, c := range splitTopLevelCommas(strings.Trim(strings.TrimSpace(args[idx+7:]), "()")) {
			cols = append(cols, strings.TrimSpace(c))
		}
		m.Join(t, jt).Using(cols...)
		info(s.out, "JOIN %s", t.RefName())
		return nil
	}
	idx := strings.Index(lower, " on ")
	if idx <= 0 {
		return usage
	}
	t, err := parseTableRef(args[:idx])
	if err != nil {
		return err
	}
	cond, err := parseCondition(args[idx+4:])
	if err != nil {
		return fmt.Errorf("join condition: %w", err)
	}
	m.Join(t, jt).On(cond)
	info(s.out, "JOIN %s", t.RefName())
	return nil
}

func (s *Session) cmdCrossJoin(args string) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	t, err := parseTableRef(args)
	if err != nil {
		return err
	}
	m.CrossJoin(t)
	info(s.out, "CROSS JOIN %s", t.RefName())
	return nil
}

func (s *Session) cmdGroup(args string) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	var exprs []nodes.Expr
	for _, item := range splitTopLevelCommas(args) {
		e, err := parseExpression(item)
		if err != nil {
			return err
		}
		exprs = append(exprs, e)
	}
	m.Group(exprs...)
	info(s.out, "GROUP BY %d expression(s)", len(exprs))
	return nil
}

func (s *Session) cmdHaving(args string) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	cond, err := parseCondition(args)
	if err != nil {
		return fmt.Errorf("having: %w", err)
	}
	m.Having(topLevelAnd(cond)...)
	info(s.out, "HAVING added")
	return nil
}

func (s *Session) cmdOrder(args string) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	var orders []nodes.OrderExpr
	for _, item := range splitTopLevelCommas(args) {
		o, err := parseOrderItem(item)
		if err != nil {
			return fmt.Errorf("order %q: %w", item, err)
		}
		orders = append(orders, o)
	}
	m.Order(orders...)
	info(s.out, "ORDER BY %d term(s)", len(orders))
	return nil
}

func parseCount(args, name string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("usage: %s <n> (non-negative integer)", name)
	}
	return n, nil
}

func (s *Session) cmdLimit(args string) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	n, err := parseCount(args, "limit")
	if err != nil {
		return err
	}
	m.Limit(n)
	info(s.out, "LIMIT %d", n)
	return nil
}

func (s *Session) cmdOffset(args string) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	n, err := parseCount(args, "offset")
	if err != nil {
		return err
	}
	m.Offset(n)
	info(s.out, "OFFSET %d", n)
	return nil
}

func (s *Session) cmdLock(lock func(*managers.SelectManager) *managers.SelectManager, label string) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	lock(m)
	info(s.out, "%s", label)
	return nil
}

// cmdSetOp parks the current SELECT; the next 'from' starts the right side.
func (s *Session) cmdSetOp(op nodes.SetOpType) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	s.setOps = append(s.setOps, setOpEntry{opType: op, query: m})
	s.resetStatement(modeNone)
	info(s.out, "Set operation queued; start the next SELECT with 'from'")
	return nil
}

// cmdWith saves the current SELECT as a named CTE.
func (s *Session) cmdWith(args string, recursive bool) error {
	m, err := s.requireSelect()
	if err != nil {
		return err
	}
	name := strings.TrimSpace(args)
	if name == "" || strings.ContainsAny(name, " \t") {
		return errors.New("usage: with <name>")
	}
	s.ctes = append(s.ctes, cteEntry{name: name, query: m, recursive: recursive})
	s.resetStatement(modeNone)
	info(s.out, "Saved CTE %q", name)
	return nil
}

func (s *Session) cmdSQL() error {
	sql, vals, err := s.compile(s.builder)
	if err != nil {
		return err
	}
	printStatement(s.out, sql, vals)
	return nil
}

// cmdAll compiles the current statement for every dialect. Failures are
// reported per dialect rather than aborting.
func (s *Session) cmdAll() error {
	if s.mode == modeNone {
		return errNoQuery
	}
	for _, d := range dialect.All {
		printDialectHeader(s.out, d)
		b, err := s.builderFor(d)
		if err != nil {
			printError(s.out, err)
			continue
		}
		sql, vals, err := s.compile(b)
		if err != nil {
			printError(s.out, err)
			continue
		}
		printStatement(s.out, sql, vals)
	}
	return nil
}

func (s *Session) cmdDialect(args string) error {
	d, err := dialect.Parse(args)
	if err != nil {
		return fmt.Errorf("%w (choose: postgres, mysql, sqlite)", err)
	}
	prev := s.dialect
	s.dialect = d
	if err := s.rebuildBuilder(); err != nil {
		s.dialect = prev
		return err
	}
	info(s.out, "Dialect set to %s", d)
	return nil
}

func (s *Session) cmdVersion(args string) error {
	prev := s.serverVersion
	s.serverVersion = strings.TrimSpace(args)
	if err := s.rebuildBuilder(); err != nil {
		s.serverVersion = prev
		return err
	}
	if s.serverVersion == "" {
		info(s.out, "Server version reset to the %s default", s.dialect)
	} else {
		info(s.out, "Server version set to %s", s.serverVersion)
	}
	return nil
}

func (s *Session) cmdPretty() error {
	s.pretty = !s.pretty
	if err := s.rebuildBuilder(); err != nil {
		return err
	}
	if s.pretty {
		info(s.out, "Pretty output on")
	} else {
		info(s.out, "Pretty output off")
	}
	return nil
}

func (s *Session) cmdReset() error {
	s.resetStatement(modeNone)
	s.setOps = nil
	s.ctes = nil
	info(s.out, "Session reset")
	return nil
}

func (s *Session) cmdStatus() {
	_, _ = fmt.Fprintf(s.out, "  Dialect:    %s\n", s.dialect)
	if s.serverVersion != "" {
		_, _ = fmt.Fprintf(s.out, "  Version:    %s\n", s.serverVersion)
	}
	_, _ = fmt.Fprintf(s.out, "  Statement:  %s\n", s.mode)
	_, _ = fmt.Fprintf(s.out, "  CTEs:       %d\n", len(s.ctes))
	_, _ = fmt.Fprintf(s.out, "  Set ops:    %d\n", len(s.setOps))
	_, _ = fmt.Fprintf(s.out, "  Plugins:    %s\n", strings.Join(s.plugins.names(), ", "))
	if s.conn != nil {
		_, _ = fmt.Fprintf(s.out, "  Connected:  %s (%s)\n", sanitizeDSN(s.conn.dsn), s.conn.dialect)
	}
}
