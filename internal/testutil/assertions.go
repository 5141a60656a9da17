package testutil

import (
	"errors"
	"testing"

	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/sqlwriter"
	"github.com/bawdo/sqlweave/value"
)

// Builder is a dialect visitor that also supplies its writer style. Every
// query builder satisfies it.
type Builder interface {
	nodes.Visitor
	sqlwriter.Style
}

// AssertEqual checks that got == want and reports a descriptive error if not.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("expected:\n  %v\ngot:\n  %v", want, got)
	}
}

// Compile renders node with b into a fresh writer and fails the test on a
// compilation error.
func Compile(t *testing.T, b Builder, node nodes.Node) (string, value.Values) {
	t.Helper()
	w := sqlwriter.New(b)
	node.Accept(b, w)
	sql, vals, err := w.Finish()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sql, vals
}

// AssertSQL accepts a builder and node, renders the SQL, and compares it with the expected string.
func AssertSQL(t *testing.T, b Builder, node nodes.Node, expected string) {
	t.Helper()
	got, _ := Compile(t, b, node)
	if got != expected {
		t.Errorf("expected:\n  %s\ngot:\n  %s", expected, got)
	}
}

// AssertCompileError renders node with b and checks that it fails with an
// error matching target.
func AssertCompileError(t *testing.T, b Builder, node nodes.Node, target error) {
	t.Helper()
	w := sqlwriter.New(b)
	node.Accept(b, w)
	sql, vals, err := w.Finish()
	if !errors.Is(err, target) {
		t.Fatalf("expected error %v, got %v", target, err)
	}
	if sql != "" || vals != nil {
		t.Errorf("expected empty output on error, got %q %v", sql, vals)
	}
}

// AssertValues compares got with want, converting each wanted item with
// value.Of.
func AssertValues(t *testing.T, got value.Values, want ...any) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d: %v", len(want), len(got), got.Args())
	}
	for i, w := range want {
		if !value.Equal(got[i], value.Of(w)) {
			t.Errorf("value %d: expected %#v, got %#v", i, value.Of(w), got[i])
		}
	}
}

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error but got nil")
	}
}
