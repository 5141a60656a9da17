package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/bawdo/sqlweave/bind"
	"github.com/bawdo/sqlweave/dialect"
)

var driverName = map[dialect.Name]string{
	dialect.Postgres: "pgx",
	dialect.MySQL:    "mysql",
	dialect.SQLite:   "sqlite",
}

const (
	maxRows      = 1000
	queryTimeout = 30 * time.Second
)

type dbConn struct {
	db      *sql.DB
	dsn     string
	dialect dialect.Name
	tables  []string
	columns map[string][]string // table name -> column names
}

func connect(ctx context.Context, d dialect.Name, dsn string) (*dbConn, error) {
	driver, ok := driverName[d]
	if !ok {
		return nil, fmt.Errorf("no driver for dialect %q", d)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if d == dialect.SQLite {
		// Each new connection to :memory: is a fresh database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &dbConn{db: db, dsn: dsn, dialect: d, columns: make(map[string][]string)}, nil
}

func (c *dbConn) close() error {
	return c.db.Close()
}

// query runs a row-returning statement and formats the result as a table.
func (c *dbConn) query(ctx context.Context, sqlStr string, args []any) (string, error) {
	rows, err := c.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return formatRows(rows)
}

func (c *dbConn) exec(ctx context.Context, sqlStr string, args []any) (int64, error) {
	res, err := c.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", err)
	}
	return res.RowsAffected()
}

func formatRows(rows *sql.Rows) (string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("columns: %w", err)
	}

	var data [][]string
	truncated := false
	for rows.Next() {
		if len(data) >= maxRows {
			truncated = true
			break
		}
		vals := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows: %w", err)
	}

	result := formatTable(columns, data)
	if truncated {
		result += fmt.Sprintf("(truncated at %d rows)\n", maxRows)
	}
	return result, nil
}

func formatTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var b strings.Builder
	sep := buildSeparator(widths)
	b.WriteString(sep)
	b.WriteByte('|')
	for i, c := range columns {
		fmt.Fprintf(&b, " %-*s |", widths[i], c)
	}
	b.WriteByte('\n')
	b.WriteString(sep)
	for _, row := range rows {
		b.WriteByte('|')
		for i, cell := range row {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteByte('\n')
	}
	b.WriteString(sep)

	if n := len(rows); n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}
	return b.String()
}

func buildSeparator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

func (c *dbConn) loadTables(ctx context.Context) ([]string, error) {
	var q string
	switch c.dialect {
	case dialect.Postgres:
		q = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name"
	case dialect.MySQL:
		q = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name"
	case dialect.SQLite:
		q = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	}
	tables, err := c.queryStringColumn(ctx, q)
	if err != nil {
		return nil, err
	}
	c.tables = tables
	return tables, nil
}

// schemaColumns returns the column names of table, cached after the first
// lookup. Errors yield nil since completion is best-effort.
func (c *dbConn) schemaColumns(table string) []string {
	if cols, ok := c.columns[table]; ok {
		return cols
	}
	var q string
	switch c.dialect {
	case dialect.Postgres:
		q = "SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position"
	case dialect.MySQL:
		q = "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position"
	case dialect.SQLite:
		q = "SELECT name FROM pragma_table_info(?)"
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	cols, err := c.queryStringColumn(ctx, q, table)
	if err != nil {
		return nil
	}
	c.columns[table] = cols
	return cols
}

func (c *dbConn) queryStringColumn(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// sanitizeDSN masks the password in URL-style and MySQL-style DSNs.
func sanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Rebuilt by hand so the mask is not percent-encoded.
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
		return dsn
	}

	// user:pass@tcp(host)/db
	if at := strings.Index(dsn, "@"); at > 0 {
		userPass := dsn[:at]
		if colon := strings.Index(userPass, ":"); colon >= 0 {
			return userPass[:colon+1] + "****" + dsn[at:]
		}
	}
	return dsn
}

// --- Command handlers ---

var errNotConnected = errors.New("not connected (use 'connect <dsn>')")

func (s *Session) cmdConnect(dsn string) error {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return errors.New("usage: connect <dsn>")
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	conn, err := connect(ctx, s.dialect, dsn)
	if err != nil {
		return err
	}
	if _, err := conn.loadTables(ctx); err != nil {
		s.logger.Debug("schema introspection failed", "err", err)
	}
	s.Close()
	s.conn = conn
	s.logger.Debug("connected", "dialect", s.dialect, "dsn", sanitizeDSN(dsn))
	info(s.out, "Connected to %s (%s)", sanitizeDSN(dsn), s.dialect)
	return nil
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errNotConnected
	}
	s.Close()
	info(s.out, "Disconnected")
	return nil
}

// compileForConn compiles the current statement for the connection's
// dialect, which may differ from the dialect being previewed.
func (s *Session) compileForConn() (string, []any, error) {
	if s.conn == nil {
		return "", nil, errNotConnected
	}
	b, err := s.builderFor(s.conn.dialect)
	if err != nil {
		return "", nil, err
	}
	sqlStr, vals, err := s.compile(b)
	if err != nil {
		return "", nil, err
	}
	args, err := bind.Args(s.conn.dialect, vals)
	if err != nil {
		return "", nil, err
	}
	return sqlStr, args, nil
}

// returnsRows reports whether the current statement produces a result set.
func (s *Session) returnsRows() bool {
	switch s.mode {
	case modeSelect:
		return true
	case modeInsert:
		return s.insert.Statement.Returning != nil
	case modeUpdate:
		return s.update.Statement.Returning != nil
	case modeDelete:
		return s.del.Statement.Returning != nil
	}
	return false
}

func (s *Session) cmdExec() error {
	sqlStr, args, err := s.compileForConn()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if s.returnsRows() {
		out, err := s.conn.query(ctx, sqlStr, args)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(s.out, out)
		return nil
	}
	n, err := s.conn.exec(ctx, sqlStr, args)
	if err != nil {
		return err
	}
	info(s.out, "%d row(s) affected", n)
	return nil
}

func (s *Session) cmdExplain() error {
	sqlStr, args, err := s.compileForConn()
	if err != nil {
		return err
	}
	prefix := "EXPLAIN "
	if s.conn.dialect == dialect.SQLite {
		prefix = "EXPLAIN QUERY PLAN "
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	out, err := s.conn.query(ctx, prefix+sqlStr, args)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, out)
	return nil
}

func (s *Session) cmdTables() error {
	if s.conn == nil {
		return errNotConnected
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	tables, err := s.conn.loadTables(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	rows := make([][]string, len(tables))
	for i, t := range tables {
		rows[i] = []string{t}
	}
	_, _ = fmt.Fprint(s.out, formatTable([]string{"table"}, rows))
	return nil
}
