// Package sqlwriter accumulates SQL text and bound parameters for a single
// statement compilation.
//
// Placeholders are not rendered as they are pushed. The writer records a
// slot for each value and numbers every slot once, in textual order, when
// Finish linearizes the statement. Fragments compiled into child writers
// (subqueries, CTEs, set operations) are spliced into their parent without
// any renumbering, so numbered placeholders stay strictly increasing no
// matter how deeply fragments nest.
package sqlwriter

import (
	"strings"

	"github.com/bawdo/sqlweave/value"
)

// Style is the per-dialect strategy for identifiers and placeholders.
type Style interface {
	EscapeIdentifier(name string) string
	// FormatPlaceholder renders the placeholder for the index-th bound
	// value, counting from 1.
	FormatPlaceholder(index int) string
}

type part struct {
	text  string
	param bool
}

// Writer is a single-use SQL accumulator. It is not safe for concurrent use.
type Writer struct {
	style  Style
	parts  []part
	buf    strings.Builder
	values value.Values
	last   byte
	err    error
}

// New returns an empty writer for the given style.
func New(style Style) *Writer {
	return &Writer{style: style}
}

// Sub returns an empty writer sharing w's style, for compiling a fragment
// that will later be passed to Splice.
func (w *Writer) Sub() *Writer {
	return New(w.style)
}

// Style returns the writer's dialect strategy.
func (w *Writer) Style() Style { return w.style }

// Push appends raw text.
func (w *Writer) Push(s string) {
	if s == "" {
		return
	}
	w.buf.WriteString(s)
	w.last = s[len(s)-1]
}

// PushSpace appends a single space.
func (w *Writer) PushSpace() {
	w.Push(" ")
}

// PushKeyword appends kw followed by a space. A separating space is written
// first unless the text so far is empty or already ends in whitespace or an
// opening parenthesis.
func (w *Writer) PushKeyword(kw string) {
	if w.last != 0 && w.last != ' ' && w.last != '\n' && w.last != '(' {
		w.Push(" ")
	}
	w.Push(kw)
	w.Push(" ")
}

// PushIdentifier appends name escaped by the dialect.
func (w *Writer) PushIdentifier(name string) {
	w.Push(w.style.EscapeIdentifier(name))
}

// PushValue records v and appends a placeholder slot bound to it.
func (w *Writer) PushValue(v value.Value) {
	w.flush()
	w.parts = append(w.parts, part{param: true})
	w.values = append(w.values, v)
	w.last = '?'
}

// AppendValues appends already-placed values without writing placeholder
// slots. Only Splice pairs it with the matching slots; calling it on its
// own breaks the placeholder and value parity.
func (w *Writer) AppendValues(vals value.Values) {
	w.values = append(w.values, vals...)
}

// Splice moves the text, placeholder slots, values and first error of
// child into w at the current position. The child must not be used
// afterwards.
func (w *Writer) Splice(child *Writer) {
	child.flush()
	if len(child.parts) == 0 && child.err == nil {
		return
	}
	w.flush()
	w.parts = append(w.parts, child.parts...)
	w.AppendValues(child.values)
	if child.last != 0 {
		w.last = child.last
	}
	if child.err != nil {
		w.Fail(child.err)
	}
	child.parts = nil
	child.values = nil
}

// PushList calls fn for each item, writing sep between consecutive items.
func PushList[T any](w *Writer, items []T, sep string, fn func(w *Writer, item T)) {
	for i, it := range items {
		if i > 0 {
			w.Push(sep)
		}
		fn(w, it)
	}
}

// Fail records err unless an earlier error is already recorded.
func (w *Writer) Fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Empty reports whether nothing has been written yet.
func (w *Writer) Empty() bool { return w.last == 0 }

// Err returns the first recorded error.
func (w *Writer) Err() error { return w.err }

// Len returns the number of values recorded so far.
func (w *Writer) Len() int { return len(w.values) }

// Finish numbers every placeholder slot in textual order and returns the
// SQL text with its values. If any error was recorded, Finish returns it
// with empty text and nil values.
func (w *Writer) Finish() (string, value.Values, error) {
	if w.err != nil {
		return "", nil, w.err
	}
	w.flush()
	var sb strings.Builder
	n := 0
	for _, p := range w.parts {
		if p.param {
			n++
			sb.WriteString(w.style.FormatPlaceholder(n))
			continue
		}
		sb.WriteString(p.text)
	}
	vals := make(value.Values, len(w.values))
	copy(vals, w.values)
	return sb.String(), vals, nil
}

func (w *Writer) flush() {
	if w.buf.Len() == 0 {
		return
	}
	w.parts = append(w.parts, part{text: w.buf.String()})
	w.buf.Reset()
}
