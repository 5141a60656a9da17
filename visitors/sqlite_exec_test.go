package visitors

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/bawdo/sqlweave/internal/testutil"
	"github.com/bawdo/sqlweave/nodes"
)

// The compiled statements run against a real SQLite engine, so the
// generated text has to parse and the values have to line up with the
// placeholders.

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	testutil.AssertNoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, email TEXT UNIQUE, visits INTEGER NOT NULL DEFAULT 0)`)
	testutil.AssertNoError(t, err)
	return db
}

func TestSQLiteExecRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)
	b := NewSQLiteBuilder()

	ins := nodes.NewInsert(nodes.NewTable("users"))
	ins.Columns = []string{"name", "email"}
	ins.Rows = [][]nodes.Expr{
		{nodes.Val("Alice"), nodes.Val("alice@example.com")},
		{nodes.Val("it's \"Bob\""), nodes.Val("bob@example.com")},
	}
	q, vals, err := b.BuildInsert(ins)
	testutil.AssertNoError(t, err)
	_, err = db.ExecContext(ctx, q, vals.Args()...)
	testutil.AssertNoError(t, err)

	upd := nodes.NewUpdate(nodes.NewTable("users"))
	upd.Set = []nodes.Assignment{nodes.Set("visits", nodes.Col("visits").Add(5))}
	upd.Where = []nodes.ConditionExpression{nodes.Col("email").EndsWith("@example.com")}
	q, vals, err = b.BuildUpdate(upd)
	testutil.AssertNoError(t, err)
	res, err := db.ExecContext(ctx, q, vals.Args()...)
	testutil.AssertNoError(t, err)
	n, _ := res.RowsAffected()
	testutil.AssertEqual(t, n, int64(2))

	s := where(sel(nodes.NewTable("users"), nodes.Col("name")),
		nodes.Col("visits").Between(1, 10),
		nodes.Col("name").Contains("\"Bob\""),
	)
	s.OrderBy = []nodes.OrderExpr{nodes.Col("id").Asc().NullsLast()}
	s.Offset = u64(0)
	q, vals, err = b.BuildSelect(s)
	testutil.AssertNoError(t, err)
	var name string
	testutil.AssertNoError(t, db.QueryRowContext(ctx, q, vals.Args()...).Scan(&name))
	testutil.AssertEqual(t, name, "it's \"Bob\"")

	del := nodes.NewDelete(nodes.NewTable("users"))
	del.Where = []nodes.ConditionExpression{nodes.Col("name").Eq("Alice")}
	del.Returning = nodes.ReturningColumns("email")
	q, vals, err = b.BuildDelete(del)
	testutil.AssertNoError(t, err)
	var email string
	testutil.AssertNoError(t, db.QueryRowContext(ctx, q, vals.Args()...).Scan(&email))
	testutil.AssertEqual(t, email, "alice@example.com")
}

func TestSQLiteExecUpsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)
	b := NewSQLiteBuilder()

	ins := nodes.NewInsert(nodes.NewTable("users"))
	ins.Columns = []string{"name", "email"}
	ins.Rows = [][]nodes.Expr{{nodes.Val("Carol"), nodes.Val("carol@example.com")}}
	ins.OnConflict = &nodes.OnConflict{
		Columns: []string{"email"},
		Updates: []nodes.Assignment{
			nodes.Set("visits", nodes.Col("visits").Add(1)),
			nodes.Set("name", nodes.Excluded("name")),
		},
	}
	for range 3 {
		q, vals, err := b.BuildInsert(ins)
		testutil.AssertNoError(t, err)
		_, err = db.ExecContext(ctx, q, vals.Args()...)
		testutil.AssertNoError(t, err)
	}

	count := sel(nodes.NewTable("users"), nodes.CountStar(), nodes.Max(nodes.Col("visits")))
	q, vals, err := b.BuildSelect(count)
	testutil.AssertNoError(t, err)
	var rows, visits int64
	testutil.AssertNoError(t, db.QueryRowContext(ctx, q, vals.Args()...).Scan(&rows, &visits))
	testutil.AssertEqual(t, rows, int64(1))
	testutil.AssertEqual(t, visits, int64(2))
}

func TestSQLiteExecSetOperationsAndCTE(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)
	b := NewSQLiteBuilder()

	ins := nodes.NewInsert(nodes.NewTable("users"))
	ins.Columns = []string{"name", "visits"}
	for i, name := range []string{"a", "b", "c", "d"} {
		ins.Rows = append(ins.Rows, []nodes.Expr{nodes.Val(name), nodes.Val(i)})
	}
	q, vals, err := b.BuildInsert(ins)
	testutil.AssertNoError(t, err)
	_, err = db.ExecContext(ctx, q, vals.Args()...)
	testutil.AssertNoError(t, err)

	busy := where(sel(nodes.NewTable("users"), nodes.Col("name")), nodes.Col("visits").GtEq(2))
	s := sel(nodes.NewTable("busy"), nodes.Col("name"))
	s.With = []nodes.CommonTableExpression{{Name: "busy", Query: busy}}
	s.Unions = []nodes.SetOperation{{
		Type:  nodes.Except,
		Query: where(sel(nodes.NewTable("users"), nodes.Col("name")), nodes.Col("name").Eq("d")),
	}}
	q, vals, err = b.BuildSelect(s)
	testutil.AssertNoError(t, err)

	rows, err := db.QueryContext(ctx, q, vals.Args()...)
	testutil.AssertNoError(t, err)
	defer rows.Close()
	var got []string
	for rows.Next() {
		var name string
		testutil.AssertNoError(t, rows.Scan(&name))
		got = append(got, name)
	}
	testutil.AssertNoError(t, rows.Err())
	if len(got) != 1 || got[0] != "c" {
		t.Errorf("expected [c], got %v", got)
	}
}
