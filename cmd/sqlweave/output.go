package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/bawdo/sqlweave/dialect"
	"github.com/bawdo/sqlweave/value"
)

var (
	sqlColor     = color.New(color.FgCyan, color.Bold)
	valueColor   = color.New(color.FgYellow)
	infoColor    = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed, color.Bold)
	dialectColor = color.New(color.FgMagenta)
	bannerColor  = color.New(color.FgCyan)
)

func banner(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w)
	_, _ = bannerColor.Fprintln(w, msg)
	_, _ = fmt.Fprintln(w)
}

// info prints a short confirmation of a state change.
func info(w io.Writer, format string, args ...any) {
	_, _ = infoColor.Fprintf(w, "  "+format+"\n", args...)
}

func printError(w io.Writer, err error) {
	_, _ = errorColor.Fprintf(w, "  Error: %v\n", err)
}

// printStatement prints compiled SQL followed by its numbered values.
func printStatement(w io.Writer, sql string, vals value.Values) {
	for _, line := range strings.Split(sql, "\n") {
		_, _ = sqlColor.Fprintf(w, "  %s\n", line)
	}
	if vals.Len() == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "  Values:")
	for i, v := range vals {
		_, _ = valueColor.Fprintf(w, "    %d: %s\n", i+1, formatValue(v))
	}
}

func printDialectHeader(w io.Writer, d dialect.Name) {
	_, _ = dialectColor.Fprintf(w, "-- %s\n", d)
}

// formatValue renders a value for display with its kind, e.g. 'bob' (string).
func formatValue(v value.Value) string {
	if v.IsNull() {
		return fmt.Sprintf("NULL (%s)", v.Kind())
	}
	switch x := v.(type) {
	case value.String:
		return fmt.Sprintf("'%s' (%s)", strings.ReplaceAll(x.V, "'", "''"), v.Kind())
	case value.Char:
		return fmt.Sprintf("'%c' (%s)", x.V, v.Kind())
	case value.Bytes:
		return fmt.Sprintf("x'%x' (%s)", x.V, v.Kind())
	case value.JSON:
		return fmt.Sprintf("%s (%s)", x.V, v.Kind())
	case value.Array:
		parts := make([]string, len(x.V))
		for i, e := range x.V {
			parts[i] = formatValue(e)
		}
		return fmt.Sprintf("[%s] (%s of %s)", strings.Join(parts, ", "), v.Kind(), x.Elem)
	}
	return fmt.Sprintf("%v (%s)", v.Any(), v.Kind())
}
