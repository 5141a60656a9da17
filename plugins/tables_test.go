package plugins

import (
	"testing"

	"github.com/bawdo/sqlweave/nodes"
)

func TestCollectTablesFromTable(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	s := nodes.NewSelect()
	s.From = []*nodes.TableRef{users}

	rels := CollectTables(s)
	if len(rels) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(rels))
	}
	if rels[0].Name != "users" {
		t.Errorf("expected name 'users', got %q", rels[0].Name)
	}
	if rels[0].Table != users {
		t.Error("expected relation to be the table")
	}
}

func TestCollectTablesFromAlias(t *testing.T) {
	t.Parallel()
	u := nodes.NewTable("users").As("u")
	s := nodes.NewSelect()
	s.From = []*nodes.TableRef{u}

	rels := CollectTables(s)
	if len(rels) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(rels))
	}
	if rels[0].Name != "users" {
		t.Errorf("expected underlying name 'users', got %q", rels[0].Name)
	}
	if got := rels[0].Col("id").Ref.Table; got != "u" {
		t.Errorf("expected column owned by alias 'u', got %q", got)
	}
}

func TestCollectTablesIncludesJoins(t *testing.T) {
	t.Parallel()
	s := nodes.NewSelect()
	s.From = []*nodes.TableRef{nodes.NewTable("users")}
	s.Joins = []nodes.JoinExpr{
		{Type: nodes.InnerJoin, Table: nodes.NewTable("posts")},
		{Type: nodes.LeftOuterJoin, Table: nodes.NewTable("comments")},
	}

	rels := CollectTables(s)
	if len(rels) != 3 {
		t.Fatalf("expected 3 relations, got %d", len(rels))
	}
	want := []string{"users", "posts", "comments"}
	for i, r := range rels {
		if r.Name != want[i] {
			t.Errorf("relation %d: expected %q, got %q", i, want[i], r.Name)
		}
	}
}

func TestCollectTablesSkipsDerivedTables(t *testing.T) {
	t.Parallel()
	s := nodes.NewSelect()
	s.From = []*nodes.TableRef{nodes.NewSelect().As("sub"), nodes.NewTable("users")}

	rels := CollectTables(s)
	if len(rels) != 1 || rels[0].Name != "users" {
		t.Fatalf("expected only users, got %+v", rels)
	}
}

func TestCollectTablesEmpty(t *testing.T) {
	t.Parallel()
	if rels := CollectTables(nodes.NewSelect()); len(rels) != 0 {
		t.Errorf("expected no relations, got %d", len(rels))
	}
}

func TestTarget(t *testing.T) {
	t.Parallel()
	rel, ok := Target(nodes.SchemaTable("app", "users"))
	if !ok || rel.Name != "users" {
		t.Fatalf("expected users target, got %+v %v", rel, ok)
	}
	if col := rel.Col("deleted_at"); col.Ref.Schema != "app" {
		t.Errorf("expected schema-qualified column, got %+v", col.Ref)
	}
	if _, ok := Target(nil); ok {
		t.Error("expected nil table to have no target")
	}
}
