package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/bawdo/sqlweave/internal/testutil"
	"github.com/bawdo/sqlweave/value"
	"github.com/bawdo/sqlweave/visitors"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// newTestSession creates a session for dialect d and runs commands,
// failing the test on the first error.
func newTestSession(t *testing.T, d string, commands ...string) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	sess, err := NewSession(&Config{Dialect: d}, &out, newLogger(false, io.Discard))
	testutil.AssertNoError(t, err)
	t.Cleanup(sess.Close)
	for _, cmd := range commands {
		if err := sess.Execute(cmd); err != nil {
			t.Fatalf("command %q failed: %v", cmd, err)
		}
	}
	return sess, &out
}

func compiled(t *testing.T, sess *Session) (string, value.Values) {
	t.Helper()
	sql, vals, err := sess.compile(sess.builder)
	testutil.AssertNoError(t, err)
	return sql, vals
}

func TestSelectCommands(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres",
		"from users",
		"select id, name as n",
		"where age >= 18",
		"order name desc",
		"limit 10",
	)
	sql, vals := compiled(t, sess)
	testutil.AssertEqual(t, sql, `SELECT "id", "name" AS "n" FROM "users" WHERE "age" >= $1 ORDER BY "name" DESC LIMIT $2`)
	testutil.AssertValues(t, vals, int64(18), uint64(10))
}

func TestDialectSwitchRecompiles(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres", "from users", "where name = 'bob'", "dialect mysql")
	sql, vals := compiled(t, sess)
	testutil.AssertEqual(t, sql, "SELECT * FROM `users` WHERE `name` = ?")
	testutil.AssertValues(t, vals, "bob")
}

func TestUnknownDialect(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite")
	testutil.AssertError(t, sess.Execute("dialect oracle"))
	testutil.AssertEqual(t, string(sess.dialect), "sqlite")
}

func TestWhereConditions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		where string
		want  string
	}{
		{"id = 1", `SELECT * FROM "t" WHERE "id" = ?`},
		{"name like 'a%'", `SELECT * FROM "t" WHERE "name" LIKE ?`},
		{"deleted_at is null", `SELECT * FROM "t" WHERE "deleted_at" IS NULL`},
		{"id in (1, 2, 3)", `SELECT * FROM "t" WHERE "id" IN (?, ?, ?)`},
		{"age between 18 and 65", `SELECT * FROM "t" WHERE "age" BETWEEN ? AND ?`},
		{"t.a = t.b", `SELECT * FROM "t" WHERE "t"."a" = "t"."b"`},
		{"a = 1 and b != 2", `SELECT * FROM "t" WHERE "a" = ? AND "b" <> ?`},
	}
	for _, tt := range tests {
		sess, _ := newTestSession(t, "sqlite", "from t", "where "+tt.where)
		sql, _ := compiled(t, sess)
		if sql != tt.want {
			t.Errorf("where %s:\n got %s\nwant %s", tt.where, sql, tt.want)
		}
	}
}

func TestJoinCommands(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite",
		"from users u",
		"select u.name, p.title",
		"join posts p on p.user_id = u.id",
		"left join tags using post_id",
	)
	sql, _ := compiled(t, sess)
	testutil.AssertEqual(t, sql, `SELECT "u"."name", "p"."title" FROM "users" AS "u" `+
		`INNER JOIN "posts" AS "p" ON "p"."user_id" = "u"."id" LEFT OUTER JOIN "tags" USING ("post_id")`)
}

func TestJoinNeedsCondition(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite", "from users")
	testutil.AssertError(t, sess.Execute("join posts"))
}

func TestGroupHaving(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres",
		"from orders",
		"select customer_id, count(*) as n",
		"group customer_id",
		"having count(*) > 5",
	)
	sql, vals := compiled(t, sess)
	testutil.AssertEqual(t, sql, `SELECT "customer_id", COUNT(*) AS "n" FROM "orders" GROUP BY "customer_id" HAVING COUNT(*) > $1`)
	testutil.AssertValues(t, vals, int64(5))
}

func TestSetOperationChain(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite",
		"from a", "select id", "union",
		"from b", "select id", "except",
		"from c", "select id",
	)
	sql, _ := compiled(t, sess)
	testutil.AssertEqual(t, sql, `SELECT "id" FROM "a" UNION SELECT "id" FROM "b" EXCEPT SELECT "id" FROM "c"`)
}

func TestSetOperationWithoutRightSide(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite", "from a", "union")
	_, _, err := sess.compile(sess.builder)
	if !errors.Is(err, errNoQuery) {
		t.Errorf("expected errNoQuery, got %v", err)
	}
}

func TestCTECommand(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres",
		"from posts", "select id", "where likes >= 5", "with hot",
		"from hot", "select id",
	)
	sql, vals := compiled(t, sess)
	testutil.AssertEqual(t, sql, `WITH "hot" AS (SELECT "id" FROM "posts" WHERE "likes" >= $1) SELECT "id" FROM "hot"`)
	testutil.AssertValues(t, vals, int64(5))
}

func TestCompileDoesNotMutateSession(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite", "from posts", "with p", "from p")
	first, _ := compiled(t, sess)
	second, _ := compiled(t, sess)
	testutil.AssertEqual(t, second, first)
	testutil.AssertEqual(t, len(sess.query.Statement.With), 0)
}

func TestLockCommands(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres", "from jobs", "limit 1", "for update", "skip locked")
	sql, _ := compiled(t, sess)
	testutil.AssertEqual(t, sql, `SELECT * FROM "jobs" LIMIT $1 FOR UPDATE SKIP LOCKED`)
}

func TestDistinctOnUnsupportedOnMySQL(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "mysql", "from events", "distinct on user_id")
	_, _, err := sess.compile(sess.builder)
	if !errors.Is(err, visitors.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestInsertCommands(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres",
		"insert into users",
		"columns name, email",
		"values 'Alice', 'a@x.com'",
		"values ('Bob', default)",
		"on conflict (email) do update name",
		"returning id",
	)
	sql, vals := compiled(t, sess)
	testutil.AssertEqual(t, sql, `INSERT INTO "users" ("name", "email") VALUES ($1, $2), ($3, DEFAULT) `+
		`ON CONFLICT ("email") DO UPDATE SET "name" = EXCLUDED."name" RETURNING "id"`)
	testutil.AssertValues(t, vals, "Alice", "a@x.com", "Bob")
}

func TestInsertDoNothingMySQL(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "mysql",
		"insert into users", "columns name", "values 'x'", "on conflict (name) do nothing")
	sql, _ := compiled(t, sess)
	testutil.AssertEqual(t, sql, "INSERT IGNORE INTO `users` (`name`) VALUES (?)")
}

func TestValuesWidthMismatch(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite", "insert into users", "columns a, b")
	testutil.AssertError(t, sess.Execute("values 1"))
}

func TestInsertHasNoWhere(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite", "insert into users")
	testutil.AssertError(t, sess.Execute("where id = 1"))
}

func TestUpdateCommands(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres",
		"update users",
		"set visits = visits + 1",
		"set seen_at = current_timestamp",
		"where id = 7",
		"returning *",
	)
	sql, vals := compiled(t, sess)
	testutil.AssertEqual(t, sql, `UPDATE "users" SET "visits" = "visits" + $1, "seen_at" = CURRENT_TIMESTAMP WHERE "id" = $2 RETURNING *`)
	testutil.AssertValues(t, vals, int64(1), int64(7))
}

func TestSetRequiresUpdate(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite", "from users")
	testutil.AssertError(t, sess.Execute("set a = 1"))
}

func TestDeleteCommands(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "mysql", "delete from app.logs", "where level = 'debug'")
	sql, vals := compiled(t, sess)
	testutil.AssertEqual(t, sql, "DELETE FROM `app`.`logs` WHERE `level` = ?")
	testutil.AssertValues(t, vals, "debug")
}

func TestReturningUnsupportedOnMySQL(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "mysql", "delete from logs", "returning id")
	_, _, err := sess.compile(sess.builder)
	if !errors.Is(err, visitors.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestSoftdeletePlugin(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "sqlite", "from users", "plugin softdelete")
	sql, _ := compiled(t, sess)
	testutil.AssertEqual(t, sql, `SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL`)
	if !strings.Contains(out.String(), "column: deleted_at") {
		t.Errorf("expected status in output, got %q", out.String())
	}

	testutil.AssertNoError(t, sess.Execute("plugin off"))
	sql, _ = compiled(t, sess)
	testutil.AssertEqual(t, sql, `SELECT * FROM "users"`)
}

func TestSoftdeletePluginAppliesToNewStatements(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite", "plugin softdelete removed_at on posts", "delete from posts")
	sql, _ := compiled(t, sess)
	testutil.AssertEqual(t, sql, `DELETE FROM "posts" WHERE "posts"."removed_at" IS NULL`)

	testutil.AssertNoError(t, sess.Execute("from users"))
	sql, _ = compiled(t, sess)
	testutil.AssertEqual(t, sql, `SELECT * FROM "users"`)
}

func TestPluginErrors(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite")
	testutil.AssertError(t, sess.Execute("plugin nope"))
	testutil.AssertError(t, sess.Execute("plugin off softdelete"))
	testutil.AssertError(t, sess.Execute("plugin softdelete .bad"))
}

func TestAllDialects(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "postgres", "from users", "where name ilike 'a%'")
	out.Reset()
	testutil.AssertNoError(t, sess.Execute("all"))
	got := out.String()
	for _, want := range []string{
		"-- postgres",
		`SELECT * FROM "users" WHERE "name" ILIKE $1`,
		"-- mysql",
		"-- sqlite",
		"Error:",
		"1: 'a%' (string)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestPrettyToggle(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "sqlite", "from users", "where id = 1", "pretty")
	out.Reset()
	testutil.AssertNoError(t, sess.Execute("sql"))
	if !strings.Contains(out.String(), "  SELECT *\n  FROM \"users\"\n  WHERE \"id\" = ?\n") {
		t.Errorf("unexpected pretty output:\n%s", out.String())
	}
}

func TestServerVersionCommand(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "mysql", "from a", "select id", "intersect", "from b", "select id")
	_, _, err := sess.compile(sess.builder)
	if !errors.Is(err, visitors.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported before upgrade, got %v", err)
	}
	testutil.AssertNoError(t, sess.Execute("version 8.0.31"))
	sql, _ := compiled(t, sess)
	testutil.AssertEqual(t, sql, "SELECT `id` FROM `a` INTERSECT SELECT `id` FROM `b`")
	testutil.AssertError(t, sess.Execute("version not-a-version"))
	testutil.AssertEqual(t, sess.serverVersion, "8.0.31")
}

func TestReset(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite", "from a", "with x", "from b", "union", "reset")
	testutil.AssertEqual(t, sess.mode, modeNone)
	testutil.AssertEqual(t, len(sess.ctes), 0)
	testutil.AssertEqual(t, len(sess.setOps), 0)
	testutil.AssertEqual(t, sess.prompt(), prompt)
}

func TestPromptShowsStatement(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "mysql", "update users")
	testutil.AssertEqual(t, sess.prompt(), "sqlweave(mysql:update)> ")
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite")
	for _, cmd := range []string{
		"select id",
		"where id = 1",
		"limit 5",
		"returning id",
		"sql",
		"all",
		"frobnicate",
		"from",
		"with x",
	} {
		if err := sess.Execute(cmd); err == nil {
			t.Errorf("expected %q to fail", cmd)
		}
	}
	testutil.AssertNoError(t, sess.Execute("from t"))
	testutil.AssertError(t, sess.Execute("limit -1"))
	testutil.AssertError(t, sess.Execute("where id ="))
}

func TestTrailingSemicolonAndCase(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "sqlite", "FROM Users;", "WHERE Id = 1;")
	sql, _ := compiled(t, sess)
	testutil.AssertEqual(t, sql, `SELECT * FROM "Users" WHERE "Id" = ?`)
}

func TestHelpListsCommands(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "sqlite", "help")
	for _, want := range []string{"insert into", "on conflict", "plugin softdelete", "explain"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help is missing %q", want)
		}
	}
	testutil.AssertNoError(t, sess.Execute("status"))
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	t.Parallel()
	_, err := NewSession(&Config{Dialect: "oracle"}, io.Discard, newLogger(false, io.Discard))
	testutil.AssertError(t, err)
	_, err = NewSession(&Config{Dialect: "mysql", ServerVersion: "x.y"}, io.Discard, newLogger(false, io.Discard))
	testutil.AssertError(t, err)
}
