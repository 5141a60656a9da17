package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/sqlweave/internal/testutil"
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/plugins"
	"github.com/bawdo/sqlweave/visitors"
)

func pgSQL(t *testing.T, m *SelectManager) string {
	t.Helper()
	sql, _, err := m.ToSQL(visitors.NewPostgresBuilder())
	testutil.AssertNoError(t, err)
	return sql
}

// --- NewSelectManager ---

func TestNewSelectManagerSetsFrom(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)

	if len(m.Statement.From) != 1 || m.Statement.From[0] != users {
		t.Error("expected From to be the users table")
	}
	if len(m.Statement.Projections) != 0 || len(m.Statement.Where) != 0 || len(m.Statement.Joins) != 0 {
		t.Error("expected an empty statement")
	}
}

func TestNewSelectManagerNilFrom(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nil)
	if m.Statement.From != nil {
		t.Error("expected nil From")
	}
	m.Select(1)
	testutil.AssertEqual(t, pgSQL(t, m), `SELECT $1`)
}

// --- Select / Project ---

func TestSelectReplacesProjections(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)

	m.Select(users.Col("id"))
	m.Select(users.Col("name"), users.Col("email"))

	testutil.AssertEqual(t, pgSQL(t, m), `SELECT "users"."name", "users"."email" FROM "users"`)
}

func TestProjectIsAliasForSelect(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Project(users.Star())
	testutil.AssertEqual(t, pgSQL(t, m), `SELECT "users".* FROM "users"`)
}

func TestSelectAcceptsAliasesAndValues(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Select(
		nodes.CountStar().As("n"),
		nodes.Lower(users.Col("name")).As("lname"),
		"tag",
	)
	sql, vals, err := m.ToSQL(visitors.NewSQLiteBuilder())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, `SELECT COUNT(*) AS "n", LOWER("users"."name") AS "lname", ? FROM "users"`)
	testutil.AssertValues(t, vals, "tag")
}

// --- Distinct ---

func TestDistinctToggles(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Select(users.Col("name")).Distinct()
	testutil.AssertEqual(t, pgSQL(t, m), `SELECT DISTINCT "users"."name" FROM "users"`)

	m.Distinct(false)
	testutil.AssertEqual(t, pgSQL(t, m), `SELECT "users"."name" FROM "users"`)
}

func TestDistinctOn(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).DistinctOn(users.Col("email")).Select(users.Col("id"))
	testutil.AssertEqual(t, pgSQL(t, m), `SELECT DISTINCT ON ("users"."email") "users"."id" FROM "users"`)

	_, _, err := m.ToSQL(visitors.NewSQLiteBuilder())
	if !errors.Is(err, visitors.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestDistinctRow(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nodes.NewTable("t")).DistinctRow()
	sql, _, err := m.ToSQL(visitors.NewMySQLBuilder())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, "SELECT DISTINCTROW * FROM `t`")
}

// --- Where / From ---

func TestWhereAccumulates(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).
		Where(users.Col("active").Eq(true)).
		Where(users.Col("age").Gt(18), users.Col("name").Like("A%"))

	sql, vals, err := m.ToSQL(visitors.NewPostgresBuilder())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, `SELECT * FROM "users" WHERE "users"."active" = $1 AND "users"."age" > $2 AND "users"."name" LIKE $3`)
	testutil.AssertValues(t, vals, true, 18, "A%")
}

func TestWhereWithOrGroup(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).
		Where(users.Col("role").Eq("admin").Or(users.Col("role").Eq("owner"))).
		Where(users.Col("active").Eq(true))
	testutil.AssertEqual(t, pgSQL(t, m),
		`SELECT * FROM "users" WHERE ("users"."role" = $1 OR "users"."role" = $2) AND "users"."active" = $3`)
}

func TestFromReplacesList(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nodes.NewTable("a")).From(nodes.NewTable("b"), nodes.NewTable("c").As("x"))
	testutil.AssertEqual(t, pgSQL(t, m), `SELECT * FROM "b", "c" AS "x"`)
}

// --- Joins ---

func TestJoinOn(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts").As("p")
	m := NewSelectManager(users).
		Select(users.Col("name"), posts.Col("title")).
		Join(posts).On(posts.Col("user_id").Eq(users.Col("id")))
	testutil.AssertEqual(t, pgSQL(t, m),
		`SELECT "users"."name", "p"."title" FROM "users" INNER JOIN "posts" AS "p" ON "p"."user_id" = "users"."id"`)
}

func TestJoinTypes(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)
	m.OuterJoin(nodes.NewTable("posts")).Using("user_id")
	m.Join(nodes.NewTable("teams"), nodes.RightOuterJoin).On(nodes.True())
	m.Join(nodes.NewTable("orgs"), nodes.FullOuterJoin).On(nodes.True())
	m.CrossJoin(nodes.NewTable("dual"))
	testutil.AssertEqual(t, pgSQL(t, m),
		`SELECT * FROM "users" LEFT OUTER JOIN "posts" USING ("user_id") RIGHT OUTER JOIN "teams" ON TRUE `+
			`FULL OUTER JOIN "orgs" ON TRUE CROSS JOIN "dual"`)
}

func TestJoinWithoutConditionFails(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nodes.NewTable("users"))
	m.Join(nodes.NewTable("posts"))
	_, _, err := m.ToSQL(visitors.NewPostgresBuilder())
	if !errors.Is(err, visitors.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestLateralJoinSubquery(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	latest := NewSelectManager(posts).
		Select(posts.Col("title")).
		Where(posts.Col("user_id").Eq(users.Col("id"))).
		Order(posts.Col("created_at").Desc()).
		Limit(1)
	m := NewSelectManager(users).
		Select(users.Col("name"), nodes.TableCol("lp", "title")).
		LateralJoin(latest.As("lp"), nodes.LeftOuterJoin).On(nodes.True())

	sql, vals, err := m.ToSQL(visitors.NewPostgresBuilder())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, `SELECT "users"."name", "lp"."title" FROM "users" LEFT OUTER JOIN LATERAL `+
		`(SELECT "posts"."title" FROM "posts" WHERE "posts"."user_id" = "users"."id" ORDER BY "posts"."created_at" DESC LIMIT $1) AS "lp" ON TRUE`)
	testutil.AssertValues(t, vals, uint64(1))
}

// --- Grouping, windows, ordering ---

func TestGroupHaving(t *testing.T) {
	t.Parallel()
	orders := nodes.NewTable("orders")
	m := NewSelectManager(orders).
		Select(orders.Col("user_id"), nodes.Sum(orders.Col("total")).As("spent")).
		Group(orders.Col("user_id")).
		Having(nodes.Sum(orders.Col("total")).Gt(100))
	testutil.AssertEqual(t, pgSQL(t, m),
		`SELECT "orders"."user_id", SUM("orders"."total") AS "spent" FROM "orders" GROUP BY "orders"."user_id" HAVING SUM("orders"."total") > $1`)
}

func TestNamedWindow(t *testing.T) {
	t.Parallel()
	emp := nodes.NewTable("emp")
	m := NewSelectManager(emp).
		Select(emp.Col("name"), nodes.Rank().OverName("w").As("r")).
		Window("w", nodes.NewWindow().Partition(emp.Col("dept")).Order(emp.Col("salary").Desc()))
	testutil.AssertEqual(t, pgSQL(t, m),
		`SELECT "emp"."name", RANK() OVER "w" AS "r" FROM "emp" WINDOW "w" AS (PARTITION BY "emp"."dept" ORDER BY "emp"."salary" DESC)`)
}

func TestOrderLimitOffset(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).
		Order(users.Col("name").Asc(), users.Col("id").Desc().NullsLast()).
		Take(10).
		Offset(20)
	sql, vals, err := m.ToSQL(visitors.NewPostgresBuilder())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, `SELECT * FROM "users" ORDER BY "users"."name" ASC, "users"."id" DESC NULLS LAST LIMIT $1 OFFSET $2`)
	testutil.AssertValues(t, vals, uint64(10), uint64(20))
}

// --- Locking ---

func TestLockModes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		set  func(*SelectManager) *SelectManager
		want string
	}{
		{"for update", (*SelectManager).ForUpdate, `SELECT * FROM "jobs" FOR UPDATE`},
		{"for share", (*SelectManager).ForShare, `SELECT * FROM "jobs" FOR SHARE`},
		{"for no key update", (*SelectManager).ForNoKeyUpdate, `SELECT * FROM "jobs" FOR NO KEY UPDATE`},
		{"for key share", (*SelectManager).ForKeyShare, `SELECT * FROM "jobs" FOR KEY SHARE`},
		{"skip locked", func(m *SelectManager) *SelectManager { return m.ForUpdate().SkipLocked() }, `SELECT * FROM "jobs" FOR UPDATE SKIP LOCKED`},
		{"nowait", func(m *SelectManager) *SelectManager { return m.ForShare().NoWait() }, `SELECT * FROM "jobs" FOR SHARE NOWAIT`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := tc.set(NewSelectManager(nodes.NewTable("jobs")))
			testutil.AssertEqual(t, pgSQL(t, m), tc.want)
		})
	}
}

// --- CTEs and set operations ---

func TestWithCTE(t *testing.T) {
	t.Parallel()
	orders := nodes.NewTable("orders")
	big := NewSelectManager(orders).Select(orders.Col("user_id")).Where(orders.Col("total").Gt(500))
	m := NewSelectManager(nodes.NewTable("big")).With("big", big, "uid")

	sql, vals, err := m.ToSQL(visitors.NewPostgresBuilder())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, `WITH "big" ("uid") AS (SELECT "orders"."user_id" FROM "orders" WHERE "orders"."total" > $1) SELECT * FROM "big"`)
	testutil.AssertValues(t, vals, 500)
}

func TestWithRecursive(t *testing.T) {
	t.Parallel()
	tree := nodes.NewTable("tree")
	nodesT := nodes.NewTable("categories")
	seed := NewSelectManager(nodesT).Select(nodesT.Col("id")).Where(nodesT.Col("parent_id").IsNull())
	step := NewSelectManager(nodesT).
		Select(nodesT.Col("id")).
		Join(tree).On(nodesT.Col("parent_id").Eq(tree.Col("id")))
	seed.UnionAll(step)

	m := NewSelectManager(tree).WithRecursive("tree", seed, "id")
	testutil.AssertEqual(t, pgSQL(t, m),
		`WITH RECURSIVE "tree" ("id") AS (SELECT "categories"."id" FROM "categories" WHERE "categories"."parent_id" IS NULL `+
			`UNION ALL SELECT "categories"."id" FROM "categories" INNER JOIN "tree" ON "categories"."parent_id" = "tree"."id") SELECT * FROM "tree"`)
}

func TestSetOperations(t *testing.T) {
	t.Parallel()
	a := func() *SelectManager { return NewSelectManager(nodes.NewTable("a")).Select(nodes.Col("id")) }
	b := func() *SelectManager { return NewSelectManager(nodes.NewTable("b")).Select(nodes.Col("id")) }

	cases := []struct {
		m    *SelectManager
		want string
	}{
		{a().Union(b()), `SELECT "id" FROM "a" UNION SELECT "id" FROM "b"`},
		{a().UnionAll(b()), `SELECT "id" FROM "a" UNION ALL SELECT "id" FROM "b"`},
		{a().Intersect(b()), `SELECT "id" FROM "a" INTERSECT SELECT "id" FROM "b"`},
		{a().IntersectAll(b()), `SELECT "id" FROM "a" INTERSECT ALL SELECT "id" FROM "b"`},
		{a().Except(b()), `SELECT "id" FROM "a" EXCEPT SELECT "id" FROM "b"`},
		{a().ExceptAll(b()), `SELECT "id" FROM "a" EXCEPT ALL SELECT "id" FROM "b"`},
	}
	for _, tc := range cases {
		testutil.AssertEqual(t, pgSQL(t, tc.m), tc.want)
	}
}

func TestSubQueryHelpers(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	count := NewSelectManager(posts).
		Select(nodes.CountStar()).
		Where(posts.Col("user_id").Eq(users.Col("id")))
	m := NewSelectManager(users).Select(users.Col("id"), count.SubQuery().As("posts"))
	testutil.AssertEqual(t, pgSQL(t, m),
		`SELECT "users"."id", (SELECT COUNT(*) FROM "posts" WHERE "posts"."user_id" = "users"."id") AS "posts" FROM "users"`)
}

// --- Transformers ---

type whereTransformer struct {
	plugins.BaseTransformer
	cond nodes.ConditionExpression
}

func (w whereTransformer) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	s.Where = append(s.Where, w.cond)
	return s, nil
}

type errTransformer struct{ plugins.BaseTransformer }

var errPlugin = errors.New("plugin failed")

func (errTransformer) TransformSelect(*nodes.SelectStatement) (*nodes.SelectStatement, error) {
	return nil, errPlugin
}

func TestUseAppliesTransformersInOrder(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).
		Use(whereTransformer{cond: users.Col("a").Eq(1)}).
		Use(whereTransformer{cond: users.Col("b").Eq(2)})

	testutil.AssertEqual(t, len(m.Transformers()), 2)
	testutil.AssertEqual(t, pgSQL(t, m), `SELECT * FROM "users" WHERE "users"."a" = $1 AND "users"."b" = $2`)
}

func TestToSQLDoesNotMutateManager(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).
		Where(users.Col("active").Eq(true)).
		Use(whereTransformer{cond: users.Col("deleted_at").IsNull()})

	first := pgSQL(t, m)
	second := pgSQL(t, m)
	testutil.AssertEqual(t, first, second)
	testutil.AssertEqual(t, len(m.Statement.Where), 1)
}

func TestTransformerErrorStopsCompilation(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nodes.NewTable("users")).Use(errTransformer{})
	sql, vals, err := m.ToSQL(visitors.NewPostgresBuilder())
	if !errors.Is(err, errPlugin) {
		t.Fatalf("expected errPlugin, got %v", err)
	}
	if sql != "" || vals != nil {
		t.Errorf("expected empty output, got %q %v", sql, vals)
	}
}

func TestSameManagerAcrossDialects(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Select(users.Col("id")).Where(users.Col("name").Eq("x")).Limit(5)

	for _, tc := range []struct {
		b    Builder
		want string
	}{
		{visitors.NewPostgresBuilder(), `SELECT "users"."id" FROM "users" WHERE "users"."name" = $1 LIMIT $2`},
		{visitors.NewMySQLBuilder(), "SELECT `users`.`id` FROM `users` WHERE `users`.`name` = ? LIMIT ?"},
		{visitors.NewSQLiteBuilder(), `SELECT "users"."id" FROM "users" WHERE "users"."name" = ? LIMIT ?`},
	} {
		sql, vals, err := m.ToSQL(tc.b)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, sql, tc.want)
		testutil.AssertValues(t, vals, "x", uint64(5))
	}
}
