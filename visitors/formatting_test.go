package visitors

import (
	"strings"
	"testing"

	"github.com/bawdo/sqlweave/internal/testutil"
	"github.com/bawdo/sqlweave/managers"
	"github.com/bawdo/sqlweave/nodes"
)

func prettyPG() *PostgresBuilder { return NewPostgresBuilder(WithPretty()) }

func prettySQL(t *testing.T, m *managers.SelectManager, b QueryBuilder) string {
	t.Helper()
	sql, _, err := m.ToSQL(b)
	testutil.AssertNoError(t, err)
	return sql
}

func TestPrettySelectSingleColumn(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := managers.NewSelectManager(users).Select(users.Col("id"))
	testutil.AssertEqual(t, prettySQL(t, m, prettyPG()), "SELECT \"users\".\"id\"\nFROM \"users\"")
}

func TestPrettySelectStar(t *testing.T) {
	t.Parallel()
	m := managers.NewSelectManager(nodes.NewTable("users"))
	testutil.AssertEqual(t, prettySQL(t, m, prettyPG()), "SELECT *\nFROM \"users\"")
}

func TestPrettyClausesOnOwnLines(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := managers.NewSelectManager(users).
		Select(users.Col("id"), users.Col("name")).
		Where(users.Col("active").Eq(true)).
		Group(users.Col("role")).
		Having(nodes.CountStar().Gt(1)).
		Order(users.Col("name").Asc()).
		Limit(10).
		Offset(5)

	want := "SELECT \"users\".\"id\", \"users\".\"name\"\n" +
		"FROM \"users\"\n" +
		"WHERE \"users\".\"active\" = $1\n" +
		"GROUP BY \"users\".\"role\"\n" +
		"HAVING COUNT(*) > $2\n" +
		"ORDER BY \"users\".\"name\" ASC\n" +
		"LIMIT $3\n" +
		"OFFSET $4"
	testutil.AssertEqual(t, prettySQL(t, m, prettyPG()), want)
}

func TestPrettyMySQLQuoting(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := managers.NewSelectManager(users).Select(users.Col("id"), users.Col("name"))
	got := prettySQL(t, m, NewMySQLBuilder(WithPretty()))
	testutil.AssertEqual(t, got, "SELECT `users`.`id`, `users`.`name`\nFROM `users`")
}

func TestPrettyJoins(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	comments := nodes.NewTable("comments")
	m := managers.NewSelectManager(users).
		Join(posts).On(posts.Col("user_id").Eq(users.Col("id"))).
		OuterJoin(comments).Using("post_id")

	want := "SELECT *\n" +
		"FROM \"users\"\n" +
		"INNER JOIN \"posts\" ON \"posts\".\"user_id\" = \"users\".\"id\"\n" +
		"LEFT OUTER JOIN \"comments\" USING (\"post_id\")"
	testutil.AssertEqual(t, prettySQL(t, m, prettyPG()), want)
}

func TestPrettySubqueryBreaksInside(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	authors := managers.NewSelectManager(posts).Select(posts.Col("user_id"))
	m := managers.NewSelectManager(users).Where(users.Col("id").InSubquery(authors.Statement))

	want := "SELECT *\n" +
		"FROM \"users\"\n" +
		"WHERE \"users\".\"id\" IN (SELECT \"posts\".\"user_id\"\nFROM \"posts\")"
	testutil.AssertEqual(t, prettySQL(t, m, prettyPG()), want)
}

func TestPrettyCTEAndSetOperation(t *testing.T) {
	t.Parallel()
	active := managers.NewSelectManager(nodes.NewTable("users")).Select(nodes.Col("id"))
	m := managers.NewSelectManager(nodes.NewTable("active")).
		Select(nodes.Col("id")).
		With("active", active).
		Union(managers.NewSelectManager(nodes.NewTable("admins")).Select(nodes.Col("id")))

	want := "WITH \"active\" AS (SELECT \"id\"\nFROM \"users\")\n" +
		"SELECT \"id\"\n" +
		"FROM \"active\"\n" +
		"UNION SELECT \"id\"\nFROM \"admins\""
	testutil.AssertEqual(t, prettySQL(t, m, prettyPG()), want)
}

func TestPrettyLock(t *testing.T) {
	t.Parallel()
	m := managers.NewSelectManager(nodes.NewTable("jobs")).ForUpdate().SkipLocked()
	testutil.AssertEqual(t, prettySQL(t, m, prettyPG()), "SELECT *\nFROM \"jobs\"\nFOR UPDATE SKIP LOCKED")
}

func TestPrettyDML(t *testing.T) {
	t.Parallel()
	b := prettyPG()

	ins := managers.NewInsertManager(nodes.NewTable("users")).
		Columns("name").
		Values("x").
		Returning("id")
	sql, _, err := ins.ToSQL(b)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, "INSERT INTO \"users\" (\"name\")\nVALUES ($1)\nRETURNING \"id\"")

	upd := managers.NewUpdateManager(nodes.NewTable("users")).Set("name", "y").Where(nodes.Col("id").Eq(1))
	sql, _, err = upd.ToSQL(b)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, "UPDATE \"users\"\nSET \"name\" = $1\nWHERE \"id\" = $2")

	del := managers.NewDeleteManager(nodes.NewTable("users")).Where(nodes.Col("id").Eq(1))
	sql, _, err = del.ToSQL(b)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, "DELETE FROM \"users\"\nWHERE \"id\" = $1")
}

func TestPrettyMatchesCompactText(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name          string
		pretty, plain QueryBuilder
	}{
		{"postgres", NewPostgresBuilder(WithPretty()), NewPostgresBuilder()},
		{"mysql", NewMySQLBuilder(WithPretty(), WithServerVersion("8.0.31")), NewMySQLBuilder(WithServerVersion("8.0.31"))},
		{"sqlite", NewSQLiteBuilder(WithPretty()), NewSQLiteBuilder()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			pretty, pv, err := tc.pretty.BuildSelect(complexSelect())
			testutil.AssertNoError(t, err)
			plain, cv, err := tc.plain.BuildSelect(complexSelect())
			testutil.AssertNoError(t, err)
			if !strings.Contains(pretty, "\n") {
				t.Fatalf("expected line breaks, got %q", pretty)
			}
			testutil.AssertEqual(t, strings.ReplaceAll(pretty, "\n", " "), plain)
			if !pv.Equal(cv) {
				t.Errorf("values differ: %v vs %v", pv, cv)
			}
		})
	}
}
