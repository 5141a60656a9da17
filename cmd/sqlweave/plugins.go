package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/sqlweave/managers"
	"github.com/bawdo/sqlweave/plugins"
	"github.com/bawdo/sqlweave/plugins/softdelete"
)

// pluginEntry represents an enabled plugin in the registry.
type pluginEntry struct {
	name    string
	factory func() plugins.Transformer // fresh instance per manager
	status  func() string
}

// pluginRegistry holds the currently enabled plugins, applied in
// registration order.
type pluginRegistry struct {
	entries []pluginEntry
}

// register adds or replaces a plugin by name.
func (r *pluginRegistry) register(entry pluginEntry) {
	for i, e := range r.entries {
		if e.name == entry.name {
			r.entries[i] = entry
			return
		}
	}
	r.entries = append(r.entries, entry)
}

// deregister removes a plugin by name. Returns false if not found.
func (r *pluginRegistry) deregister(name string) bool {
	for i, e := range r.entries {
		if e.name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (r *pluginRegistry) names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// applyTo calls each plugin's factory and passes the result to use.
func (r *pluginRegistry) applyTo(use func(plugins.Transformer)) {
	for _, entry := range r.entries {
		use(entry.factory())
	}
}

// pluginConfigurer defines a known plugin that can be enabled via the plugin command.
type pluginConfigurer struct {
	name      string
	configure func(s *Session, args string) error
}

var knownPlugins = []pluginConfigurer{
	{name: "softdelete", configure: configureSoftdelete},
}

func (s *Session) pluginNames() []string {
	out := make([]string, len(knownPlugins))
	for i, p := range knownPlugins {
		out[i] = p.name
	}
	return out
}

func (s *Session) cmdPlugin(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return errors.New("usage: plugin <name> [args] | plugin off [name]")
	}
	name := strings.ToLower(fields[0])
	rest := strings.TrimSpace(args[len(fields[0]):])
	if name == "off" {
		return s.cmdPluginOff(rest)
	}
	for _, p := range knownPlugins {
		if p.name == name {
			if err := p.configure(s, rest); err != nil {
				return err
			}
			s.rebuildWithPlugins()
			return nil
		}
	}
	return fmt.Errorf("unknown plugin %q (available: %s)", name, strings.Join(s.pluginNames(), ", "))
}

func (s *Session) cmdPluginOff(name string) error {
	if name == "" {
		s.plugins.entries = nil
		s.rebuildWithPlugins()
		info(s.out, "All plugins disabled")
		return nil
	}
	if !s.plugins.deregister(name) {
		return fmt.Errorf("plugin %q is not enabled", name)
	}
	s.rebuildWithPlugins()
	info(s.out, "Plugin %s disabled", name)
	return nil
}

func (s *Session) cmdPlugins() {
	if len(s.plugins.entries) == 0 {
		info(s.out, "No plugins enabled")
		return
	}
	for _, e := range s.plugins.entries {
		_, _ = fmt.Fprintf(s.out, "  %s (%s)\n", e.name, e.status())
	}
}

// rebuildWithPlugins re-creates the active managers around their existing
// statements so the current plugin set applies. Queued set operations and
// CTEs keep the plugins they were built with.
func (s *Session) rebuildWithPlugins() {
	switch s.mode {
	case modeSelect:
		m := &managers.SelectManager{Statement: s.query.Statement}
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		s.query = m
	case modeInsert:
		m := &managers.InsertManager{Statement: s.insert.Statement}
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		s.insert = m
	case modeUpdate:
		m := &managers.UpdateManager{Statement: s.update.Statement}
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		s.update = m
	case modeDelete:
		m := &managers.DeleteManager{Statement: s.del.Statement}
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		s.del = m
	}
}

// configureSoftdelete parses the softdelete arguments and registers the
// plugin. Accepted forms: no args (deleted_at everywhere), a single column,
// "<col> on <t1> [t2 ...]", or "t1.col, t2.col" pairs.
func configureSoftdelete(s *Session, args string) error {
	rest := strings.TrimSpace(args)
	var opts []softdelete.Option
	var status string

	switch {
	case strings.Contains(rest, "."):
		var pairs []string
		for _, pair := range strings.Split(rest, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			dot := strings.IndexByte(pair, '.')
			if dot <= 0 || dot == len(pair)-1 {
				return fmt.Errorf("invalid table.column pair: %q", pair)
			}
			opts = append(opts, softdelete.WithTableColumn(pair[:dot], pair[dot+1:]))
			pairs = append(pairs, pair)
		}
		sort.Strings(pairs)
		status = strings.Join(pairs, ", ")

	case strings.Contains(strings.ToLower(rest), " on "):
		idx := strings.Index(strings.ToLower(rest), " on ")
		col := strings.TrimSpace(rest[:idx])
		tables := strings.Fields(rest[idx+4:])
		if col == "" || len(tables) == 0 {
			return errors.New("usage: plugin softdelete <column> on <table1> [table2 ...]")
		}
		opts = append(opts, softdelete.WithColumn(col), softdelete.WithTables(tables...))
		status = fmt.Sprintf("column: %s, tables: %s", col, strings.Join(tables, ", "))

	case rest != "":
		col := strings.Fields(rest)[0]
		opts = append(opts, softdelete.WithColumn(col))
		status = "column: " + col

	default:
		status = "column: deleted_at"
	}

	s.plugins.register(pluginEntry{
		name:    "softdelete",
		factory: func() plugins.Transformer { return softdelete.New(opts...) },
		status:  func() string { return status },
	})
	info(s.out, "Soft-delete enabled (%s)", status)
	return nil
}
