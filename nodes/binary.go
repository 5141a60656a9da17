package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// BinOp is a binary operator.
type BinOp int

const (
	OpAnd BinOp = iota
	OpOr
	OpEq
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpLike
	OpNotLike
	OpILike
	OpNotILike
	OpIn
	OpNotIn
	OpBetween
	OpNotBetween
	OpIs
	OpIsNot
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpConcat
	OpRegexp
)

var binOpSQL = [...]string{
	OpAnd:        "AND",
	OpOr:         "OR",
	OpEq:         "=",
	OpNotEq:      "<>",
	OpLt:         "<",
	OpLtEq:       "<=",
	OpGt:         ">",
	OpGtEq:       ">=",
	OpLike:       "LIKE",
	OpNotLike:    "NOT LIKE",
	OpILike:      "ILIKE",
	OpNotILike:   "NOT ILIKE",
	OpIn:         "IN",
	OpNotIn:      "NOT IN",
	OpBetween:    "BETWEEN",
	OpNotBetween: "NOT BETWEEN",
	OpIs:         "IS",
	OpIsNot:      "IS NOT",
	OpAdd:        "+",
	OpSub:        "-",
	OpMul:        "*",
	OpDiv:        "/",
	OpMod:        "%",
	OpConcat:     "||",
	OpRegexp:     "REGEXP",
}

// String returns the operator's standard SQL spelling. Dialect builders
// may render some operators differently.
func (op BinOp) String() string {
	if op >= 0 && int(op) < len(binOpSQL) {
		return binOpSQL[op]
	}
	return "?op?"
}

// BinaryExpr is left OP right.
type BinaryExpr struct {
	Predications
	Left  Expr
	Op    BinOp
	Right Expr
}

// Binary creates left OP right.
func Binary(left Expr, op BinOp, right Expr) *BinaryExpr {
	n := &BinaryExpr{Left: left, Op: op, Right: right}
	n.self = n
	return n
}

func (n *BinaryExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitBinary(w, n) }

// UnOp is a prefix operator.
type UnOp int

const (
	OpNot UnOp = iota
	OpNeg
)

func (op UnOp) String() string {
	if op == OpNeg {
		return "-"
	}
	return "NOT"
}

// UnaryExpr is OP expr.
type UnaryExpr struct {
	Predications
	Op   UnOp
	Expr Expr
}

// Not creates NOT expr.
func Not(e Expr) *UnaryExpr {
	n := &UnaryExpr{Op: OpNot, Expr: e}
	n.self = n
	return n
}

// Neg creates - expr.
func Neg(e Expr) *UnaryExpr {
	n := &UnaryExpr{Op: OpNeg, Expr: e}
	n.self = n
	return n
}

func (n *UnaryExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitUnary(w, n) }
