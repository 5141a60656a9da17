package dialect

import "testing"

func TestParseAliases(t *testing.T) {
	t.Parallel()
	cases := map[string]Name{
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		" pg ":       Postgres,
		"mysql":      MySQL,
		"mariadb":    MySQL,
		"sqlite3":    SQLite,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	t.Parallel()
	if _, err := Parse("oracle"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}
