package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// FrameType specifies ROWS, RANGE or GROUPS for a window frame.
type FrameType int

const (
	FrameRows FrameType = iota
	FrameRange
	FrameGroups
)

func (t FrameType) String() string {
	switch t {
	case FrameRange:
		return "RANGE"
	case FrameGroups:
		return "GROUPS"
	default:
		return "ROWS"
	}
}

// BoundType specifies a window frame boundary.
type BoundType int

const (
	BoundUnboundedPreceding BoundType = iota
	BoundPreceding
	BoundCurrentRow
	BoundFollowing
	BoundUnboundedFollowing
)

// FrameBound is a single frame boundary. Offset is only used by
// BoundPreceding and BoundFollowing; it is a count, not user text, and is
// rendered inline.
type FrameBound struct {
	Type   BoundType
	Offset uint64
}

func UnboundedPreceding() FrameBound { return FrameBound{Type: BoundUnboundedPreceding} }
func Preceding(n uint64) FrameBound  { return FrameBound{Type: BoundPreceding, Offset: n} }
func CurrentRow() FrameBound         { return FrameBound{Type: BoundCurrentRow} }
func Following(n uint64) FrameBound  { return FrameBound{Type: BoundFollowing, Offset: n} }
func UnboundedFollowing() FrameBound { return FrameBound{Type: BoundUnboundedFollowing} }

// FrameClause is ROWS|RANGE|GROUPS start, or BETWEEN start AND end when
// End is set.
type FrameClause struct {
	Type  FrameType
	Start FrameBound
	End   *FrameBound
}

// WindowStatement is the body of an OVER (...) or WINDOW name AS (...).
type WindowStatement struct {
	PartitionBy []Expr
	OrderBy     []OrderExpr
	Frame       *FrameClause
}

// NewWindow creates an empty window specification.
func NewWindow() *WindowStatement {
	return &WindowStatement{}
}

// Partition appends PARTITION BY expressions.
func (w *WindowStatement) Partition(exprs ...Expr) *WindowStatement {
	w.PartitionBy = append(w.PartitionBy, exprs...)
	return w
}

// Order appends ORDER BY terms.
func (w *WindowStatement) Order(orders ...OrderExpr) *WindowStatement {
	w.OrderBy = append(w.OrderBy, orders...)
	return w
}

// Rows sets a ROWS frame with start and optional end bound.
func (w *WindowStatement) Rows(start FrameBound, end ...FrameBound) *WindowStatement {
	return w.frame(FrameRows, start, end)
}

// Range sets a RANGE frame with start and optional end bound.
func (w *WindowStatement) Range(start FrameBound, end ...FrameBound) *WindowStatement {
	return w.frame(FrameRange, start, end)
}

// Groups sets a GROUPS frame with start and optional end bound.
func (w *WindowStatement) Groups(start FrameBound, end ...FrameBound) *WindowStatement {
	return w.frame(FrameGroups, start, end)
}

func (w *WindowStatement) frame(t FrameType, start FrameBound, end []FrameBound) *WindowStatement {
	f := &FrameClause{Type: t, Start: start}
	if len(end) > 0 {
		e := end[0]
		f.End = &e
	}
	w.Frame = f
	return w
}

// WindowExpr is func OVER (window).
type WindowExpr struct {
	Predications
	Func   Expr
	Window *WindowStatement
}

func (n *WindowExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitWindow(w, n) }

// WindowNamedExpr is func OVER name, referring to a WINDOW clause entry.
type WindowNamedExpr struct {
	Predications
	Func Expr
	Name string
}

func (n *WindowNamedExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitWindowNamed(w, n) }

// NamedWindow is one entry of a SELECT's WINDOW clause.
type NamedWindow struct {
	Name   string
	Window *WindowStatement
}
