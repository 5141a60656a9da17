// Package visitors provides the dialect query builders that walk the AST
// and compile it into parameterized SQL.
package visitors

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/hashicorp/go-version"

	"github.com/bawdo/sqlweave/dialect"
	"github.com/bawdo/sqlweave/internal/quoting"
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/sqlwriter"
	"github.com/bawdo/sqlweave/value"
)

// QueryBuilder compiles statements for one dialect. Implementations are
// immutable after construction and safe for concurrent use.
type QueryBuilder interface {
	Dialect() dialect.Name
	EscapeIdentifier(name string) string
	FormatPlaceholder(index int) string
	BuildSelect(s *nodes.SelectStatement) (string, value.Values, error)
	BuildInsert(s *nodes.InsertStatement) (string, value.Values, error)
	BuildUpdate(s *nodes.UpdateStatement) (string, value.Values, error)
	BuildDelete(s *nodes.DeleteStatement) (string, value.Values, error)
	BuildDCL(s nodes.DCLStatement) (string, value.Values, error)
}

// New returns the builder for d. Unlike the dialect constructors, it
// reports an invalid option such as an unparsable server version up front.
func New(d dialect.Name, opts ...Option) (QueryBuilder, error) {
	var (
		qb   QueryBuilder
		base *baseBuilder
	)
	switch d {
	case dialect.Postgres:
		b := NewPostgresBuilder(opts...)
		qb, base = b, b.baseBuilder
	case dialect.MySQL:
		b := NewMySQLBuilder(opts...)
		qb, base = b, b.baseBuilder
	case dialect.SQLite:
		b := NewSQLiteBuilder(opts...)
		qb, base = b, b.baseBuilder
	default:
		return nil, &UnsupportedError{Dialect: d, Feature: "query building"}
	}
	if base.configErr != nil {
		return nil, base.configErr
	}
	return qb, nil
}

// SQL keywords for JoinType values.
var joinTypeSQL = [...]string{
	nodes.InnerJoin:      "INNER JOIN",
	nodes.LeftOuterJoin:  "LEFT OUTER JOIN",
	nodes.RightOuterJoin: "RIGHT OUTER JOIN",
	nodes.FullOuterJoin:  "FULL OUTER JOIN",
	nodes.CrossJoin:      "CROSS JOIN",
}

// SQL keywords for LockMode values.
var lockModeSQL = [...]string{
	nodes.NoLock:         "",
	nodes.ForUpdate:      "FOR UPDATE",
	nodes.ForNoKeyUpdate: "FOR NO KEY UPDATE",
	nodes.ForShare:       "FOR SHARE",
	nodes.ForKeyShare:    "FOR KEY SHARE",
}

// SQL keywords for SetOpType values.
var setOpTypeSQL = [...]string{
	nodes.Union:        "UNION",
	nodes.UnionAll:     "UNION ALL",
	nodes.Intersect:    "INTERSECT",
	nodes.IntersectAll: "INTERSECT ALL",
	nodes.Except:       "EXCEPT",
	nodes.ExceptAll:    "EXCEPT ALL",
}

// Binding strength of binary operators, used to decide when a nested
// binary operand needs parentheses.
func precedence(op nodes.BinOp) int {
	switch op {
	case nodes.OpOr:
		return 1
	case nodes.OpAnd:
		return 2
	case nodes.OpAdd, nodes.OpSub, nodes.OpConcat:
		return 4
	case nodes.OpMul, nodes.OpDiv, nodes.OpMod:
		return 5
	default:
		return 3
	}
}

// baseBuilder implements the shared SQL generation used by all dialects.
// Dialect builders embed *baseBuilder and set the outer field to
// themselves, enabling correct virtual dispatch through the Visitor
// interface.
type baseBuilder struct {
	// outer is the concrete dialect builder. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer nodes.Visitor

	dialect     dialect.Name
	quoteIdent  func(string) string
	placeholder func(int) string

	logger    *slog.Logger
	version   *version.Version
	pretty    bool
	configErr error

	caps capabilities
}

func newBase(d dialect.Name, defaultVersion string, quote func(string) string, placeholder func(int) string) *baseBuilder {
	return &baseBuilder{
		dialect:     d,
		quoteIdent:  quote,
		placeholder: placeholder,
		logger:      slog.New(slog.DiscardHandler),
		version:     version.Must(version.NewVersion(defaultVersion)),
	}
}

// applyOptions applies functional options and resolves the feature matrix.
func (b *baseBuilder) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
	b.caps = resolveCapabilities(b.dialect, b.version)
}

// Dialect returns the builder's dialect.
func (b *baseBuilder) Dialect() dialect.Name { return b.dialect }

// EscapeIdentifier quotes name for the dialect.
func (b *baseBuilder) EscapeIdentifier(name string) string { return b.quoteIdent(name) }

// FormatPlaceholder renders the placeholder for the index-th value.
func (b *baseBuilder) FormatPlaceholder(index int) string { return b.placeholder(index) }

// BuildSelect compiles a SELECT statement.
func (b *baseBuilder) BuildSelect(s *nodes.SelectStatement) (string, value.Values, error) {
	if s == nil {
		return "", nil, malformed("nil select statement")
	}
	return b.build("select", s)
}

// BuildInsert compiles an INSERT statement.
func (b *baseBuilder) BuildInsert(s *nodes.InsertStatement) (string, value.Values, error) {
	if s == nil {
		return "", nil, malformed("nil insert statement")
	}
	return b.build("insert", s)
}

// BuildUpdate compiles an UPDATE statement.
func (b *baseBuilder) BuildUpdate(s *nodes.UpdateStatement) (string, value.Values, error) {
	if s == nil {
		return "", nil, malformed("nil update statement")
	}
	return b.build("update", s)
}

// BuildDelete compiles a DELETE statement.
func (b *baseBuilder) BuildDelete(s *nodes.DeleteStatement) (string, value.Values, error) {
	if s == nil {
		return "", nil, malformed("nil delete statement")
	}
	return b.build("delete", s)
}

// BuildDCL compiles a GRANT, REVOKE or role statement.
func (b *baseBuilder) BuildDCL(s nodes.DCLStatement) (string, value.Values, error) {
	if s == nil {
		return "", nil, malformed("nil DCL statement")
	}
	return b.build("dcl", s)
}

func (b *baseBuilder) build(kind string, s nodes.Statement) (string, value.Values, error) {
	if b.configErr != nil {
		return "", nil, b.configErr
	}
	w := sqlwriter.New(b)
	s.Accept(b.outer, w)
	sql, vals, err := w.Finish()
	if err != nil {
		b.logger.Debug("build failed", "dialect", b.dialect, "statement", kind, "error", err)
		return "", nil, err
	}
	b.logger.Debug("built statement", "dialect", b.dialect, "statement", kind, "params", len(vals))
	return sql, vals, nil
}

func (b *baseBuilder) unsupported(w *sqlwriter.Writer, feature string) {
	w.Fail(&UnsupportedError{Dialect: b.dialect, Feature: feature})
}

// visit compiles n through the outer builder, failing on a missing node.
func (b *baseBuilder) visit(w *sqlwriter.Writer, n nodes.Node) {
	if n == nil {
		w.Fail(malformed("missing expression"))
		return
	}
	n.Accept(b.outer, w)
}

// visitSub compiles a nested SELECT into a child writer and splices it
// into w.
func (b *baseBuilder) visitSub(w *sqlwriter.Writer, q *nodes.SelectStatement) {
	if q == nil {
		w.Fail(malformed("missing subquery"))
		return
	}
	child := w.Sub()
	q.Accept(b.outer, child)
	w.Splice(child)
}

// --- Expressions ---

func (b *baseBuilder) VisitColumn(w *sqlwriter.Writer, n *nodes.ColumnExpr) {
	ref := n.Ref
	if ref.Schema != "" {
		w.PushIdentifier(ref.Schema)
		w.Push(".")
	}
	if ref.Table != "" {
		w.PushIdentifier(ref.Table)
		w.Push(".")
	}
	if ref.Star {
		w.Push("*")
		return
	}
	if ref.Name == "" {
		w.Fail(malformed("column without a name"))
		return
	}
	w.PushIdentifier(ref.Name)
}

func (b *baseBuilder) VisitValue(w *sqlwriter.Writer, n *nodes.ValueExpr) {
	v := n.Value
	if v == nil {
		v = value.Of(nil)
	}
	w.PushValue(v)
}

func (b *baseBuilder) VisitBinary(w *sqlwriter.Writer, n *nodes.BinaryExpr) {
	switch n.Op {
	case nodes.OpBetween, nodes.OpNotBetween:
		if t, ok := n.Right.(*nodes.TupleExpr); ok && len(t.Items) == 2 {
			b.operand(w, n.Left, n.Op, false)
			w.Push(" " + n.Op.String() + " ")
			b.operand(w, t.Items[0], nodes.OpAdd, false)
			w.Push(" AND ")
			b.operand(w, t.Items[1], nodes.OpAdd, false)
			return
		}
		w.Fail(malformed("%s needs a (low, high) pair", n.Op))
		return
	case nodes.OpIn, nodes.OpNotIn:
		if t, ok := n.Right.(*nodes.TupleExpr); ok {
			if len(t.Items) == 0 {
				// IN () is not valid SQL; an empty list matches nothing.
				if n.Op == nodes.OpIn {
					w.Push("1 = 0")
				} else {
					w.Push("1 = 1")
				}
				return
			}
			b.operand(w, n.Left, n.Op, false)
			w.Push(" " + n.Op.String() + " (")
			sqlwriter.PushList(w, t.Items, ", ", func(w *sqlwriter.Writer, e nodes.Expr) { b.visit(w, e) })
			w.Push(")")
			return
		}
	case nodes.OpRegexp:
		b.writeInfix(w, n, "~")
		return
	}
	b.writeInfix(w, n, n.Op.String())
}

// writeInfix writes left OP right, parenthesizing nested binaries that
// bind more loosely than n.
func (b *baseBuilder) writeInfix(w *sqlwriter.Writer, n *nodes.BinaryExpr, op string) {
	b.operand(w, n.Left, n.Op, false)
	w.Push(" " + op + " ")
	b.operand(w, n.Right, n.Op, true)
}

func (b *baseBuilder) operand(w *sqlwriter.Writer, e nodes.Expr, parent nodes.BinOp, right bool) {
	if child, ok := e.(*nodes.BinaryExpr); ok {
		cp, pp := precedence(child.Op), precedence(parent)
		if cp < pp || (right && cp == pp) || (cp == 3 && pp == 3) {
			w.Push("(")
			b.visit(w, e)
			w.Push(")")
			return
		}
	}
	b.visit(w, e)
}

func (b *baseBuilder) VisitUnary(w *sqlwriter.Writer, n *nodes.UnaryExpr) {
	w.Push(n.Op.String() + " ")
	if child, ok := n.Expr.(*nodes.BinaryExpr); ok && (n.Op == nodes.OpNeg || precedence(child.Op) < 3) {
		w.Push("(")
		b.visit(w, n.Expr)
		w.Push(")")
		return
	}
	b.visit(w, n.Expr)
}

func (b *baseBuilder) VisitFunctionCall(w *sqlwriter.Writer, n *nodes.FunctionCall) {
	if !quoting.IsFunctionName(n.Name) {
		w.Fail(fmt.Errorf("%w: %q", ErrInvalidFunctionName, n.Name))
		return
	}
	w.Push(n.Name)
	w.Push("(")
	if n.Distinct {
		w.Push("DISTINCT ")
	}
	sqlwriter.PushList(w, n.Args, ", ", func(w *sqlwriter.Writer, e nodes.Expr) { b.visit(w, e) })
	w.Push(")")
}

func (b *baseBuilder) VisitConstant(w *sqlwriter.Writer, n *nodes.ConstantExpr) {
	w.Push(n.Keyword)
}

func (b *baseBuilder) VisitCustom(w *sqlwriter.Writer, n *nodes.CustomExpr) {
	next := 0
	inQuote := false
	start := 0
	for i := 0; i < len(n.SQL); i++ {
		switch n.SQL[i] {
		case '\'':
			inQuote = !inQuote
		case '?':
			if inQuote {
				continue
			}
			w.Push(n.SQL[start:i])
			start = i + 1
			if next >= len(n.Values) {
				w.Fail(malformed("custom SQL %q has more markers than values", n.SQL))
				return
			}
			w.PushValue(n.Values[next])
			next++
		}
	}
	w.Push(n.SQL[start:])
	if next != len(n.Values) {
		w.Fail(malformed("custom SQL %q has %d markers for %d values", n.SQL, next, len(n.Values)))
	}
}

func (b *baseBuilder) VisitSubQuery(w *sqlwriter.Writer, n *nodes.SubQueryExpr) {
	if kw := n.Op.Keyword(); kw != "" {
		w.Push(kw + " ")
	}
	w.Push("(")
	b.visitSub(w, n.Query)
	w.Push(")")
}

func (b *baseBuilder) VisitWindow(w *sqlwriter.Writer, n *nodes.WindowExpr) {
	b.visit(w, n.Func)
	w.Push(" OVER ")
	b.writeWindowDef(w, n.Window)
}

func (b *baseBuilder) VisitWindowNamed(w *sqlwriter.Writer, n *nodes.WindowNamedExpr) {
	b.visit(w, n.Func)
	w.Push(" OVER ")
	w.PushIdentifier(n.Name)
}

func (b *baseBuilder) VisitTuple(w *sqlwriter.Writer, n *nodes.TupleExpr) {
	w.Push("(")
	sqlwriter.PushList(w, n.Items, ", ", func(w *sqlwriter.Writer, e nodes.Expr) { b.visit(w, e) })
	w.Push(")")
}

func (b *baseBuilder) VisitCase(w *sqlwriter.Writer, n *nodes.CaseExpr) {
	if len(n.Whens) == 0 {
		w.Fail(malformed("CASE without WHEN"))
		return
	}
	w.Push("CASE")
	for _, wc := range n.Whens {
		w.Push(" WHEN ")
		b.visit(w, wc.Cond)
		w.Push(" THEN ")
		b.visit(w, wc.Result)
	}
	if n.Else != nil {
		w.Push(" ELSE ")
		b.visit(w, n.Else)
	}
	w.Push(" END")
}

func (b *baseBuilder) VisitCast(w *sqlwriter.Writer, n *nodes.CastExpr) {
	if !quoting.IsTypeName(n.TypeName) {
		w.Fail(malformed("invalid type name %q", n.TypeName))
		return
	}
	w.Push("CAST(")
	b.visit(w, n.Expr)
	w.Push(" AS " + n.TypeName + ")")
}

func (b *baseBuilder) VisitExcluded(w *sqlwriter.Writer, n *nodes.ExcludedExpr) {
	w.Push("EXCLUDED.")
	w.PushIdentifier(n.Column)
}

// --- Conditions ---

// blank reports whether c compiles to nothing.
func blank(c nodes.ConditionExpression) bool {
	cond, ok := c.(*nodes.Condition)
	if !ok {
		return c == nil
	}
	for _, it := range cond.Items {
		if !blank(it) {
			return false
		}
	}
	return true
}

func nonBlank(items []nodes.ConditionExpression) []nodes.ConditionExpression {
	out := make([]nodes.ConditionExpression, 0, len(items))
	for _, it := range items {
		if !blank(it) {
			out = append(out, it)
		}
	}
	return out
}

func (b *baseBuilder) VisitCondition(w *sqlwriter.Writer, n *nodes.Condition) {
	items := nonBlank(n.Items)
	if len(items) == 0 {
		return
	}
	if n.Negate {
		w.Push("NOT ")
	}
	if len(items) == 1 {
		b.conditionItem(w, items[0], n.Negate)
		return
	}
	sep := " AND "
	if n.Type == nodes.ConditionAny {
		sep = " OR "
	}
	w.Push("(")
	sqlwriter.PushList(w, items, sep, func(w *sqlwriter.Writer, c nodes.ConditionExpression) {
		b.conditionItem(w, c, n.Type == nodes.ConditionAll)
	})
	w.Push(")")
}

// conditionItem writes one member of an AND list or a negated group. A bare
// OR binary is parenthesized so the surrounding AND cannot capture it.
func (b *baseBuilder) conditionItem(w *sqlwriter.Writer, c nodes.ConditionExpression, tight bool) {
	if bin, ok := c.(*nodes.BinaryExpr); ok && tight && (bin.Op == nodes.OpOr || bin.Op == nodes.OpAnd) {
		w.Push("(")
		b.visit(w, c)
		w.Push(")")
		return
	}
	b.visit(w, c)
}

// --- Statements ---

func (b *baseBuilder) VisitSelect(w *sqlwriter.Writer, n *nodes.SelectStatement) {
	b.writeWith(w, n.With)
	b.clause(w, "SELECT")
	b.writeDistinct(w, n)
	b.writeProjections(w, n.Projections)
	if len(n.From) > 0 {
		b.clause(w, "FROM")
		sqlwriter.PushList(w, n.From, ", ", b.writeTableRef)
	}
	b.writeJoins(w, n.Joins)
	b.writeConditions(w, "WHERE", n.Where)
	if len(n.GroupBy) > 0 {
		b.clause(w, "GROUP BY")
		sqlwriter.PushList(w, n.GroupBy, ", ", func(w *sqlwriter.Writer, e nodes.Expr) { b.visit(w, e) })
	}
	b.writeConditions(w, "HAVING", n.Having)
	if len(n.OrderBy) > 0 {
		b.clause(w, "ORDER BY")
		b.writeOrderList(w, n.OrderBy)
	}
	b.writeWindowClause(w, n.Windows)
	b.writeLimitOffset(w, n.Limit, n.Offset)
	b.writeLock(w, n.Lock, n.Wait)
	b.writeSetOps(w, n.Unions)
}

func (b *baseBuilder) VisitInsert(w *sqlwriter.Writer, n *nodes.InsertStatement) {
	b.writeWith(w, n.With)
	if !b.caps.onConflict && n.OnConflict != nil && n.OnConflict.DoNothing {
		b.clause(w, "INSERT IGNORE INTO")
	} else {
		b.clause(w, "INSERT INTO")
	}
	if !b.writeTarget(w, n.Table) {
		return
	}
	if len(n.Columns) > 0 {
		w.Push(" (")
		sqlwriter.PushList(w, n.Columns, ", ", (*sqlwriter.Writer).PushIdentifier)
		w.Push(")")
	}

	switch {
	case n.Select != nil && len(n.Rows) > 0:
		w.Fail(malformed("INSERT with both VALUES and SELECT"))
		return
	case n.Select != nil:
		b.clauseBreak(w)
		b.visitSub(w, n.Select)
	case len(n.Rows) > 0:
		if !b.checkRows(w, n) {
			return
		}
		b.clause(w, "VALUES")
		sqlwriter.PushList(w, n.Rows, ", ", func(w *sqlwriter.Writer, row []nodes.Expr) {
			w.Push("(")
			sqlwriter.PushList(w, row, ", ", func(w *sqlwriter.Writer, e nodes.Expr) { b.visit(w, e) })
			w.Push(")")
		})
	case len(n.Columns) > 0:
		w.Fail(malformed("INSERT with columns but no rows"))
		return
	default:
		b.clauseBreak(w)
		w.Push(b.caps.defaultValues)
	}

	if n.OnConflict != nil && b.caps.onConflict {
		b.writeOnConflict(w, n.OnConflict)
	}
	b.writeReturning(w, n.Returning)
}

// checkRows verifies that every row has one value per column, or, without
// columns, that all rows have the same width.
func (b *baseBuilder) checkRows(w *sqlwriter.Writer, n *nodes.InsertStatement) bool {
	want := len(n.Columns)
	if want == 0 {
		want = len(n.Rows[0])
	}
	for i, row := range n.Rows {
		if len(row) != want || len(row) == 0 {
			w.Fail(malformed("INSERT row %d has %d values, want %d", i, len(row), want))
			return false
		}
	}
	return true
}

func (b *baseBuilder) VisitUpdate(w *sqlwriter.Writer, n *nodes.UpdateStatement) {
	b.writeWith(w, n.With)
	b.clause(w, "UPDATE")
	if !b.writeTarget(w, n.Table) {
		return
	}
	if len(n.Set) == 0 {
		w.Fail(malformed("UPDATE without SET"))
		return
	}
	b.clause(w, "SET")
	b.writeAssignments(w, n.Set)
	b.writeConditions(w, "WHERE", n.Where)
	b.writeReturning(w, n.Returning)
}

func (b *baseBuilder) VisitDelete(w *sqlwriter.Writer, n *nodes.DeleteStatement) {
	b.writeWith(w, n.With)
	b.clause(w, "DELETE FROM")
	if !b.writeTarget(w, n.Table) {
		return
	}
	b.writeConditions(w, "WHERE", n.Where)
	b.writeReturning(w, n.Returning)
}

// --- Clause writers ---

// writeTarget writes the table of a DML statement.
func (b *baseBuilder) writeTarget(w *sqlwriter.Writer, t *nodes.TableRef) bool {
	if t == nil || (t.Name == "" && t.SubQuery == nil) {
		w.Fail(ErrNoTable)
		return false
	}
	if t.SubQuery != nil {
		w.Fail(malformed("a derived table cannot be modified"))
		return false
	}
	b.writeTableRef(w, t)
	return true
}

func (b *baseBuilder) writeTableRef(w *sqlwriter.Writer, t *nodes.TableRef) {
	if t == nil {
		w.Fail(ErrNoTable)
		return
	}
	if t.SubQuery != nil {
		if t.Alias == "" {
			w.Fail(malformed("derived table without an alias"))
			return
		}
		w.Push("(")
		b.visitSub(w, t.SubQuery)
		w.Push(") AS ")
		w.PushIdentifier(t.Alias)
		return
	}
	if t.Name == "" {
		w.Fail(ErrNoTable)
		return
	}
	if t.Database != "" {
		w.PushIdentifier(t.Database)
		w.Push(".")
	}
	if t.Schema != "" {
		w.PushIdentifier(t.Schema)
		w.Push(".")
	}
	w.PushIdentifier(t.Name)
	if t.Alias != "" {
		w.Push(" AS ")
		w.PushIdentifier(t.Alias)
	}
}

func (b *baseBuilder) writeWith(w *sqlwriter.Writer, ctes []nodes.CommonTableExpression) {
	if len(ctes) == 0 {
		return
	}
	recursive := slices.ContainsFunc(ctes, func(c nodes.CommonTableExpression) bool { return c.Recursive })
	if recursive {
		w.PushKeyword("WITH RECURSIVE")
	} else {
		w.PushKeyword("WITH")
	}
	sqlwriter.PushList(w, ctes, ", ", func(w *sqlwriter.Writer, c nodes.CommonTableExpression) {
		if c.Name == "" {
			w.Fail(malformed("CTE without a name"))
			return
		}
		w.PushIdentifier(c.Name)
		if len(c.Columns) > 0 {
			w.Push(" (")
			sqlwriter.PushList(w, c.Columns, ", ", (*sqlwriter.Writer).PushIdentifier)
			w.Push(")")
		}
		w.Push(" AS (")
		b.visitSub(w, c.Query)
		w.Push(")")
	})
}

func (b *baseBuilder) writeDistinct(w *sqlwriter.Writer, n *nodes.SelectStatement) {
	switch n.Distinct {
	case nodes.DistinctAll:
		w.PushKeyword("ALL")
	case nodes.DistinctPlain:
		w.PushKeyword("DISTINCT")
	case nodes.DistinctRow:
		if !b.caps.distinctRow {
			b.unsupported(w, "DISTINCT ROW")
			return
		}
		w.PushKeyword("DISTINCTROW")
	case nodes.DistinctOn:
		if !b.caps.distinctOn {
			b.unsupported(w, "DISTINCT ON")
			return
		}
		if len(n.DistinctOn) == 0 {
			w.Fail(malformed("DISTINCT ON without expressions"))
			return
		}
		w.Push("DISTINCT ON (")
		sqlwriter.PushList(w, n.DistinctOn, ", ", func(w *sqlwriter.Writer, e nodes.Expr) { b.visit(w, e) })
		w.Push(") ")
	}
}

func (b *baseBuilder) writeProjections(w *sqlwriter.Writer, projections []nodes.SelectExpr) {
	if len(projections) == 0 {
		w.Push("*")
		return
	}
	sqlwriter.PushList(w, projections, ", ", func(w *sqlwriter.Writer, p nodes.SelectExpr) {
		b.visit(w, p.Expr)
		if p.Alias != "" {
			w.Push(" AS ")
			w.PushIdentifier(p.Alias)
		}
	})
}

func (b *baseBuilder) writeJoins(w *sqlwriter.Writer, joins []nodes.JoinExpr) {
	for _, j := range joins {
		switch {
		case j.Type == nodes.FullOuterJoin && !b.caps.fullJoin:
			b.unsupported(w, "FULL OUTER JOIN")
			return
		case j.Type == nodes.RightOuterJoin && !b.caps.rightJoin:
			b.unsupported(w, "RIGHT OUTER JOIN")
			return
		case j.Lateral && !b.caps.lateral:
			b.unsupported(w, "LATERAL")
			return
		}
		hasOn := !blank(j.On)
		if j.Type == nodes.CrossJoin && (hasOn || len(j.Using) > 0) {
			w.Fail(malformed("CROSS JOIN with a join condition"))
			return
		}
		if j.Type != nodes.CrossJoin && hasOn == (len(j.Using) > 0) {
			w.Fail(malformed("JOIN needs exactly one of ON or USING"))
			return
		}

		b.clause(w, joinTypeSQL[j.Type])
		if j.Lateral {
			w.PushKeyword("LATERAL")
		}
		b.writeTableRef(w, j.Table)
		if hasOn {
			w.Push(" ON ")
			b.visit(w, j.On)
		} else if len(j.Using) > 0 {
			w.Push(" USING (")
			sqlwriter.PushList(w, j.Using, ", ", (*sqlwriter.Writer).PushIdentifier)
			w.Push(")")
		}
	}
}

// writeConditions writes "keyword item AND item ..." for the non-blank
// items, or nothing when there are none.
func (b *baseBuilder) writeConditions(w *sqlwriter.Writer, keyword string, items []nodes.ConditionExpression) {
	items = nonBlank(items)
	if len(items) == 0 {
		return
	}
	b.clause(w, keyword)
	multi := len(items) > 1
	sqlwriter.PushList(w, items, " AND ", func(w *sqlwriter.Writer, c nodes.ConditionExpression) {
		b.conditionItem(w, c, multi)
	})
}

func (b *baseBuilder) writeAssignments(w *sqlwriter.Writer, set []nodes.Assignment) {
	sqlwriter.PushList(w, set, ", ", func(w *sqlwriter.Writer, a nodes.Assignment) {
		if a.Column == "" {
			w.Fail(malformed("assignment without a column"))
			return
		}
		w.PushIdentifier(a.Column)
		w.Push(" = ")
		b.visit(w, a.Value)
	})
}

func (b *baseBuilder) writeOrderList(w *sqlwriter.Writer, orders []nodes.OrderExpr) {
	sqlwriter.PushList(w, orders, ", ", b.writeOrder)
}

func (b *baseBuilder) writeOrder(w *sqlwriter.Writer, o nodes.OrderExpr) {
	dir := " ASC"
	if o.Direction == nodes.Desc {
		dir = " DESC"
	}
	if o.Nulls != nodes.NullsDefault && !b.caps.nativeNulls {
		// Emulated: false sorts before true, so IS NULL DESC puts NULLs first.
		b.visit(w, o.Expr)
		if o.Nulls == nodes.NullsFirst {
			w.Push(" IS NULL DESC, ")
		} else {
			w.Push(" IS NULL ASC, ")
		}
		b.visit(w, o.Expr)
		w.Push(dir)
		return
	}
	b.visit(w, o.Expr)
	w.Push(dir)
	switch o.Nulls {
	case nodes.NullsFirst:
		w.Push(" NULLS FIRST")
	case nodes.NullsLast:
		w.Push(" NULLS LAST")
	}
}

// writeWindowDef writes a window definition: (PARTITION BY ... ORDER BY ... frame).
func (b *baseBuilder) writeWindowDef(w *sqlwriter.Writer, win *nodes.WindowStatement) {
	w.Push("(")
	if win == nil {
		w.Push(")")
		return
	}
	if len(win.PartitionBy) > 0 {
		w.PushKeyword("PARTITION BY")
		sqlwriter.PushList(w, win.PartitionBy, ", ", func(w *sqlwriter.Writer, e nodes.Expr) { b.visit(w, e) })
	}
	if len(win.OrderBy) > 0 {
		w.PushKeyword("ORDER BY")
		b.writeOrderList(w, win.OrderBy)
	}
	if win.Frame != nil {
		b.writeFrame(w, win.Frame)
	}
	w.Push(")")
}

// writeFrame writes a window frame. Offsets are counts and are written
// inline.
func (b *baseBuilder) writeFrame(w *sqlwriter.Writer, f *nodes.FrameClause) {
	if f.Type == nodes.FrameGroups && !b.caps.groupsFrame {
		b.unsupported(w, "GROUPS window frames")
		return
	}
	if f.End == nil {
		w.PushKeyword(f.Type.String())
		w.Push(frameBound(f.Start))
		return
	}
	w.PushKeyword(f.Type.String() + " BETWEEN")
	w.Push(frameBound(f.Start))
	w.Push(" AND ")
	w.Push(frameBound(*f.End))
}

func frameBound(fb nodes.FrameBound) string {
	switch fb.Type {
	case nodes.BoundUnboundedPreceding:
		return "UNBOUNDED PRECEDING"
	case nodes.BoundPreceding:
		return strconv.FormatUint(fb.Offset, 10) + " PRECEDING"
	case nodes.BoundFollowing:
		return strconv.FormatUint(fb.Offset, 10) + " FOLLOWING"
	case nodes.BoundUnboundedFollowing:
		return "UNBOUNDED FOLLOWING"
	default:
		return "CURRENT ROW"
	}
}

func (b *baseBuilder) writeWindowClause(w *sqlwriter.Writer, windows []nodes.NamedWindow) {
	if len(windows) == 0 {
		return
	}
	b.clause(w, "WINDOW")
	sqlwriter.PushList(w, windows, ", ", func(w *sqlwriter.Writer, nw nodes.NamedWindow) {
		w.PushIdentifier(nw.Name)
		w.Push(" AS ")
		b.writeWindowDef(w, nw.Window)
	})
}

func (b *baseBuilder) writeLimitOffset(w *sqlwriter.Writer, limit, offset *uint64) {
	switch {
	case limit != nil:
		b.clause(w, "LIMIT")
		w.PushValue(value.Of(*limit))
	case offset != nil && b.caps.offsetOnly != "":
		b.clause(w, "LIMIT")
		w.Push(b.caps.offsetOnly)
	}
	if offset != nil {
		b.clause(w, "OFFSET")
		w.PushValue(value.Of(*offset))
	}
}

func (b *baseBuilder) writeLock(w *sqlwriter.Writer, lock nodes.LockMode, wait nodes.LockWait) {
	if lock == nodes.NoLock {
		return
	}
	if !slices.Contains(b.caps.lockModes, lock) {
		b.unsupported(w, lockModeSQL[lock])
		return
	}
	b.clauseBreak(w)
	w.Push(lockModeSQL[lock])
	if wait == nodes.LockWaitDefault {
		return
	}
	if !b.caps.lockWait {
		b.unsupported(w, "NOWAIT and SKIP LOCKED")
		return
	}
	if wait == nodes.NoWait {
		w.Push(" NOWAIT")
	} else {
		w.Push(" SKIP LOCKED")
	}
}

func (b *baseBuilder) writeSetOps(w *sqlwriter.Writer, ops []nodes.SetOperation) {
	for _, op := range ops {
		switch op.Type {
		case nodes.Intersect, nodes.Except:
			if !b.caps.intersect {
				b.unsupported(w, setOpTypeSQL[op.Type])
				return
			}
		case nodes.IntersectAll, nodes.ExceptAll:
			if !b.caps.setOpAll {
				b.unsupported(w, setOpTypeSQL[op.Type])
				return
			}
		}
		b.clause(w, setOpTypeSQL[op.Type])
		if op.Query != nil && len(op.Query.Unions) > 0 {
			w.Push("(")
			b.visitSub(w, op.Query)
			w.Push(")")
			continue
		}
		b.visitSub(w, op.Query)
	}
}

func (b *baseBuilder) writeOnConflict(w *sqlwriter.Writer, oc *nodes.OnConflict) {
	if !oc.DoNothing && len(oc.Updates) == 0 {
		w.Fail(malformed("conflict clause needs DO NOTHING or updates"))
		return
	}
	b.clauseBreak(w)
	w.Push("ON CONFLICT")
	if len(oc.Columns) > 0 {
		w.Push(" (")
		sqlwriter.PushList(w, oc.Columns, ", ", (*sqlwriter.Writer).PushIdentifier)
		w.Push(")")
	}
	if oc.DoNothing {
		w.Push(" DO NOTHING")
		return
	}
	if len(oc.Columns) == 0 {
		w.Fail(malformed("DO UPDATE needs conflict columns"))
		return
	}
	w.Push(" DO UPDATE SET ")
	b.writeAssignments(w, oc.Updates)
	b.writeConditions(w, "WHERE", oc.Where)
}

func (b *baseBuilder) writeReturning(w *sqlwriter.Writer, r *nodes.Returning) {
	if r == nil {
		return
	}
	if !b.caps.returning {
		b.unsupported(w, "RETURNING")
		return
	}
	if !r.All && len(r.Columns) == 0 {
		w.Fail(malformed("RETURNING without columns"))
		return
	}
	b.clause(w, "RETURNING")
	if r.All {
		w.Push("*")
		return
	}
	sqlwriter.PushList(w, r.Columns, ", ", func(w *sqlwriter.Writer, e nodes.Expr) { b.visit(w, e) })
}
