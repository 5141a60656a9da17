package main

import (
	"slices"
	"testing"

	"github.com/bawdo/sqlweave/internal/testutil"
	"github.com/bawdo/sqlweave/managers"
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/visitors"
)

func TestTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  []string
	}{
		{"users.age > 18", []string{"users.age", ">", "18"}},
		{"name = 'John Smith'", []string{"name", "=", "'John Smith'"}},
		{"a != b", []string{"a", "!=", "b"}},
		{"a <> b", []string{"a", "<>", "b"}},
		{"a>=b", []string{"a", ">=", "b"}},
		{"a || 'x'", []string{"a", "||", "'x'"}},
		{"count(*)", []string{"count", "(", "*", ")"}},
		{"t.* , b", []string{"t.*", ",", "b"}},
		{"'it''s'", []string{"'it''s'"}},
		{"id in (1,2)", []string{"id", "in", "(", "1", ",", "2", ")"}},
	}
	for _, tt := range tests {
		if got := tokenize(tt.input); !slices.Equal(got, tt.want) {
			t.Errorf("tokenize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSplitTopLevelCommas(t *testing.T) {
	t.Parallel()
	got := splitTopLevelCommas("a, coalesce(b, c), 'x,y' ,d")
	want := []string{"a", "coalesce(b, c)", "'x,y'", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	testutil.AssertEqual(t, len(splitTopLevelCommas("   ")), 0)
}

func TestParseValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		token string
		want  any
	}{
		{"'hello'", "hello"},
		{"'it''s'", "it's"},
		{"''", ""},
		{"42", int64(42)},
		{"3.5", 3.5},
		{".5", 0.5},
		{"TRUE", true},
		{"false", false},
	}
	for _, tt := range tests {
		got, err := parseValue(tt.token)
		testutil.AssertNoError(t, err)
		if got != tt.want {
			t.Errorf("parseValue(%q) = %#v, want %#v", tt.token, got, tt.want)
		}
	}
	for _, bad := range []string{"name", "inf", "nan", "'open"} {
		if _, err := parseValue(bad); err == nil {
			t.Errorf("parseValue(%q) should fail", bad)
		}
	}
}

func TestParseTableRef(t *testing.T) {
	t.Parallel()
	b := visitors.NewPostgresBuilder()
	tests := []struct {
		input string
		want  string
	}{
		{"users", `SELECT * FROM "users"`},
		{"users u", `SELECT * FROM "users" AS "u"`},
		{"users AS u", `SELECT * FROM "users" AS "u"`},
		{"app.users", `SELECT * FROM "app"."users"`},
		{"db.app.users x", `SELECT * FROM "db"."app"."users" AS "x"`},
	}
	for _, tt := range tests {
		tr, err := parseTableRef(tt.input)
		testutil.AssertNoError(t, err)
		testutil.AssertSQL(t, b, managers.NewSelectManager(tr).Statement, tt.want)
	}
	for _, bad := range []string{"", "a.b.c.d", "users as u extra"} {
		if _, err := parseTableRef(bad); err == nil {
			t.Errorf("parseTableRef(%q) should fail", bad)
		}
	}
}

func TestParseExpression(t *testing.T) {
	t.Parallel()
	b := visitors.NewPostgresBuilder()
	tests := []struct {
		input string
		want  string
	}{
		{"price * 2 + 1", `"price" * $1 + $2`},
		{"(price + 1) * 2", `("price" + $1) * $2`},
		{"-5", `$1`},
		{"-price", `- "price"`},
		{"first || ' ' || last", `"first" || $1 || "last"`},
		{"count(distinct user_id)", `COUNT(DISTINCT "user_id")`},
		{"coalesce(nickname, name)", `COALESCE("nickname", "name")`},
		{"s.t.c", `"s"."t"."c"`},
		{"current_date", `CURRENT_DATE`},
		{"null", `NULL`},
	}
	for _, tt := range tests {
		e, err := parseExpression(tt.input)
		testutil.AssertNoError(t, err)
		testutil.AssertSQL(t, b, e, tt.want)
	}
	for _, bad := range []string{"", "a +", "f(a b)", "(a", "a b", "x..y"} {
		if _, err := parseExpression(bad); err == nil {
			t.Errorf("parseExpression(%q) should fail", bad)
		}
	}
}

func TestParseNegativeLiteralIsBound(t *testing.T) {
	t.Parallel()
	e, err := parseExpression("-5")
	testutil.AssertNoError(t, err)
	_, vals := testutil.Compile(t, visitors.NewSQLiteBuilder(), e)
	testutil.AssertValues(t, vals, int64(-5))
}

func TestParseCondition(t *testing.T) {
	t.Parallel()
	b := visitors.NewPostgresBuilder()
	tests := []struct {
		input string
		want  string
	}{
		{"age >= 18", `"age" >= $1`},
		{"name not like 'a%'", `"name" NOT LIKE $1`},
		{"email is not null", `"email" IS NOT NULL`},
		{"id not in (1, 2)", `"id" NOT IN ($1, $2)`},
		{"n not between 1 and 3", `"n" NOT BETWEEN $1 AND $2`},
		{"not active", `NOT "active"`},
		{"(a + b) > 3", `("a" + "b") > $1`},
		{"name regexp '^a'", `"name" ~ $1`},
	}
	for _, tt := range tests {
		c, err := parseCondition(tt.input)
		testutil.AssertNoError(t, err)
		testutil.AssertSQL(t, b, c, tt.want)
	}
}

func TestParseConditionGroups(t *testing.T) {
	t.Parallel()
	c, err := parseCondition("a = 1 and (b = 2 or c = 3)")
	testutil.AssertNoError(t, err)
	cond, ok := c.(*nodes.Condition)
	if !ok {
		t.Fatalf("expected *nodes.Condition, got %T", c)
	}
	testutil.AssertEqual(t, len(cond.Items), 2)
	if _, ok := cond.Items[1].(*nodes.Condition); !ok {
		t.Errorf("expected nested group, got %T", cond.Items[1])
	}
}

func TestParseConditionErrors(t *testing.T) {
	t.Parallel()
	for _, bad := range []string{
		"",
		"a =",
		"a in ()",
		"a in 1",
		"a between 1",
		"not (a = 1 and b = 2)",
		"a = 1 b",
	} {
		if _, err := parseCondition(bad); err == nil {
			t.Errorf("parseCondition(%q) should fail", bad)
		}
	}
}

func TestParseSelectAndOrderItems(t *testing.T) {
	t.Parallel()
	se, err := parseSelectItem("count(*) as total")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, se.Alias, "total")

	_, err = parseSelectItem("a as")
	testutil.AssertError(t, err)

	o, err := parseOrderItem("created_at desc nulls last")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, o.Direction, nodes.Desc)
	testutil.AssertEqual(t, o.Nulls, nodes.NullsLast)

	o, err = parseOrderItem("name asc")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, o.Direction, nodes.Asc)

	_, err = parseOrderItem("name sideways")
	testutil.AssertError(t, err)
}
