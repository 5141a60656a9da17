package visitors

import "github.com/bawdo/sqlweave/sqlwriter"

// clause starts a top-level clause such as FROM or WHERE.
func (b *baseBuilder) clause(w *sqlwriter.Writer, keyword string) {
	b.clauseBreak(w)
	w.PushKeyword(keyword)
}

// clauseBreak separates top-level clauses: a newline with WithPretty, a
// space otherwise. Nothing is written at the start of a statement, so
// nested SELECTs open directly after their parenthesis.
func (b *baseBuilder) clauseBreak(w *sqlwriter.Writer) {
	if w.Empty() {
		return
	}
	if b.pretty {
		w.Push("\n")
		return
	}
	w.PushSpace()
}
