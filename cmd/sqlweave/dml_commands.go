package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bawdo/sqlweave/managers"
	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/plugins"
)

func (s *Session) cmdInsertInto(args string) error {
	t, err := parseTableRef(args)
	if err != nil {
		return fmt.Errorf("usage: insert into <table>: %w", err)
	}
	s.resetStatement(modeInsert)
	s.insert = managers.NewInsertManager(t)
	s.plugins.applyTo(func(tr plugins.Transformer) { s.insert.Use(tr) })
	info(s.out, "INSERT into %s", t.RefName())
	return nil
}

func (s *Session) cmdUpdate(args string) error {
	t, err := parseTableRef(args)
	if err != nil {
		return fmt.Errorf("usage: update <table>: %w", err)
	}
	s.resetStatement(modeUpdate)
	s.update = managers.NewUpdateManager(t)
	s.plugins.applyTo(func(tr plugins.Transformer) { s.update.Use(tr) })
	info(s.out, "UPDATE %s", t.RefName())
	return nil
}

func (s *Session) cmdDeleteFrom(args string) error {
	t, err := parseTableRef(args)
	if err != nil {
		return fmt.Errorf("usage: delete from <table>: %w", err)
	}
	s.resetStatement(modeDelete)
	s.del = managers.NewDeleteManager(t)
	s.plugins.applyTo(func(tr plugins.Transformer) { s.del.Use(tr) })
	info(s.out, "DELETE from %s", t.RefName())
	return nil
}

func (s *Session) requireInsert() (*managers.InsertManager, error) {
	if s.mode != modeInsert || s.insert == nil {
		return nil, errors.New("no INSERT in progress (use 'insert into <table>' first)")
	}
	return s.insert, nil
}

// splitNames splits a comma-separated identifier list, tolerating an
// optional surrounding pair of parentheses.
func splitNames(args string) []string {
	args = strings.TrimSpace(args)
	if strings.HasPrefix(args, "(") && strings.HasSuffix(args, ")") {
		args = args[1 : len(args)-1]
	}
	var out []string
	for _, part := range strings.Split(args, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *Session) cmdColumns(args string) error {
	m, err := s.requireInsert()
	if err != nil {
		return err
	}
	cols := splitNames(args)
	if len(cols) == 0 {
		return errors.New("usage: columns <col>, ...")
	}
	m.Columns(cols...)
	info(s.out, "Columns: %s", strings.Join(cols, ", "))
	return nil
}

func (s *Session) cmdValues(args string) error {
	m, err := s.requireInsert()
	if err != nil {
		return err
	}
	args = strings.TrimSpace(args)
	if strings.HasPrefix(args, "(") && strings.HasSuffix(args, ")") {
		args = args[1 : len(args)-1]
	}
	var row []any
	for _, item := range splitTopLevelCommas(args) {
		e, err := parseExpression(item)
		if err != nil {
			return fmt.Errorf("values %q: %w", item, err)
		}
		row = append(row, e)
	}
	if len(row) == 0 {
		return errors.New("usage: values <expr>, ...")
	}
	if cols := m.Statement.Columns; len(cols) > 0 && len(cols) != len(row) {
		return fmt.Errorf("row has %d values but %d columns are set", len(row), len(cols))
	}
	m.Values(row...)
	info(s.out, "Row %d added", len(m.Statement.Rows))
	return nil
}

// cmdOnConflict handles
//
//	on conflict (<cols>) do nothing
//	on conflict (<cols>) do update <col>, ...
//
// where each updated column takes the proposed row's value.
func (s *Session) cmdOnConflict(args string) error {
	m, err := s.requireInsert()
	if err != nil {
		return err
	}
	usage := errors.New("usage: on conflict (<cols>) do nothing | do update <col>, ...")
	lower := strings.ToLower(args)
	idx := strings.Index(lower, "do ")
	if idx < 0 {
		return usage
	}
	target := splitNames(args[:idx])
	action := strings.TrimSpace(lower[idx+3:])
	switch {
	case action == "nothing":
		m.OnConflict(target...).DoNothing()
		info(s.out, "ON CONFLICT DO NOTHING")
	case strings.HasPrefix(action, "update "):
		cols := splitNames(strings.TrimSpace(args[idx+3:])[len("update "):])
		if len(cols) == 0 {
			return usage
		}
		sets := make([]nodes.Assignment, len(cols))
		for i, c := range cols {
			sets[i] = nodes.Set(c, nodes.Excluded(c))
		}
		m.OnConflict(target...).DoUpdate(sets...)
		info(s.out, "ON CONFLICT DO UPDATE %s", strings.Join(cols, ", "))
	default:
		return usage
	}
	return nil
}

func (s *Session) cmdSet(args string) error {
	if s.mode != modeUpdate || s.update == nil {
		return errors.New("no UPDATE in progress (use 'update <table>' first)")
	}
	eq := strings.Index(args, "=")
	if eq <= 0 {
		return errors.New("usage: set <col> = <expr>")
	}
	col := strings.TrimSpace(args[:eq])
	if col == "" || strings.ContainsAny(col, " \t") {
		return fmt.Errorf("invalid column %q", col)
	}
	e, err := parseExpression(args[eq+1:])
	if err != nil {
		return fmt.Errorf("set %s: %w", col, err)
	}
	s.update.Set(col, e)
	info(s.out, "SET %s", col)
	return nil
}

func (s *Session) cmdReturning(args string) error {
	cols := splitNames(args)
	if len(cols) == 0 {
		return errors.New("usage: returning <col>, ... | *")
	}
	all := len(cols) == 1 && cols[0] == "*"
	switch s.mode {
	case modeInsert:
		if all {
			s.insert.ReturningAll()
		} else {
			s.insert.Returning(cols...)
		}
	case modeUpdate:
		if all {
			s.update.ReturningAll()
		} else {
			s.update.Returning(cols...)
		}
	case modeDelete:
		if all {
			s.del.ReturningAll()
		} else {
			s.del.Returning(cols...)
		}
	default:
		return errors.New("RETURNING needs an INSERT, UPDATE or DELETE in progress")
	}
	info(s.out, "RETURNING %s", strings.Join(cols, ", "))
	return nil
}
