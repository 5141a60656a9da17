package nodes

import "github.com/bawdo/sqlweave/internal/quoting"

// Predications provides comparison, arithmetic and wrapping methods to
// every expression type. The self field must be set to the embedding node
// so that the methods reference the correct left-hand side; the package
// constructors do this.
type Predications struct {
	self Expr
}

func (Predications) conditionExpression() {}
func (Predications) expr()                {}

func (p Predications) binary(op BinOp, right Expr) *BinaryExpr {
	return Binary(p.self, op, right)
}

// Eq creates self = val.
func (p Predications) Eq(val any) *BinaryExpr { return p.binary(OpEq, Lit(val)) }

// NotEq creates self <> val.
func (p Predications) NotEq(val any) *BinaryExpr { return p.binary(OpNotEq, Lit(val)) }

// Gt creates self > val.
func (p Predications) Gt(val any) *BinaryExpr { return p.binary(OpGt, Lit(val)) }

// GtEq creates self >= val.
func (p Predications) GtEq(val any) *BinaryExpr { return p.binary(OpGtEq, Lit(val)) }

// Lt creates self < val.
func (p Predications) Lt(val any) *BinaryExpr { return p.binary(OpLt, Lit(val)) }

// LtEq creates self <= val.
func (p Predications) LtEq(val any) *BinaryExpr { return p.binary(OpLtEq, Lit(val)) }

// Like creates self LIKE val.
func (p Predications) Like(val any) *BinaryExpr { return p.binary(OpLike, Lit(val)) }

// NotLike creates self NOT LIKE val.
func (p Predications) NotLike(val any) *BinaryExpr { return p.binary(OpNotLike, Lit(val)) }

// ILike creates self ILIKE val (PostgreSQL).
func (p Predications) ILike(val any) *BinaryExpr { return p.binary(OpILike, Lit(val)) }

// NotILike creates self NOT ILIKE val (PostgreSQL).
func (p Predications) NotILike(val any) *BinaryExpr { return p.binary(OpNotILike, Lit(val)) }

// Matches creates a regular expression match: ~ on PostgreSQL, REGEXP elsewhere.
func (p Predications) Matches(pattern any) *BinaryExpr { return p.binary(OpRegexp, Lit(pattern)) }

// Contains matches self against s as a literal substring.
func (p Predications) Contains(s string) *BinaryExpr {
	return p.likeEscaped("%" + quoting.EscapeLikePattern(s) + "%")
}

// StartsWith matches self against s as a literal prefix.
func (p Predications) StartsWith(s string) *BinaryExpr {
	return p.likeEscaped(quoting.EscapeLikePattern(s) + "%")
}

// EndsWith matches self against s as a literal suffix.
func (p Predications) EndsWith(s string) *BinaryExpr {
	return p.likeEscaped("%" + quoting.EscapeLikePattern(s))
}

func (p Predications) likeEscaped(pattern string) *BinaryExpr {
	return p.binary(OpLike, Custom("? ESCAPE '"+quoting.LikeEscape+"'", pattern))
}

// In creates self IN (vals...).
func (p Predications) In(vals ...any) *BinaryExpr { return p.binary(OpIn, Tuple(vals...)) }

// NotIn creates self NOT IN (vals...).
func (p Predications) NotIn(vals ...any) *BinaryExpr { return p.binary(OpNotIn, Tuple(vals...)) }

// InSubquery creates self IN (q).
func (p Predications) InSubquery(q *SelectStatement) *BinaryExpr {
	return p.binary(OpIn, newSubQuery(SubQueryIn, q))
}

// NotInSubquery creates self NOT IN (q).
func (p Predications) NotInSubquery(q *SelectStatement) *BinaryExpr {
	return p.binary(OpNotIn, newSubQuery(SubQueryNotIn, q))
}

// Between creates self BETWEEN low AND high.
func (p Predications) Between(low, high any) *BinaryExpr {
	return p.binary(OpBetween, Tuple(low, high))
}

// NotBetween creates self NOT BETWEEN low AND high.
func (p Predications) NotBetween(low, high any) *BinaryExpr {
	return p.binary(OpNotBetween, Tuple(low, high))
}

// IsNull creates self IS NULL.
func (p Predications) IsNull() *BinaryExpr { return p.binary(OpIs, Null()) }

// IsNotNull creates self IS NOT NULL.
func (p Predications) IsNotNull() *BinaryExpr { return p.binary(OpIsNot, Null()) }

// Add creates self + val.
func (p Predications) Add(val any) *BinaryExpr { return p.binary(OpAdd, Lit(val)) }

// Sub creates self - val.
func (p Predications) Sub(val any) *BinaryExpr { return p.binary(OpSub, Lit(val)) }

// Mul creates self * val.
func (p Predications) Mul(val any) *BinaryExpr { return p.binary(OpMul, Lit(val)) }

// Div creates self / val.
func (p Predications) Div(val any) *BinaryExpr { return p.binary(OpDiv, Lit(val)) }

// Mod creates self % val.
func (p Predications) Mod(val any) *BinaryExpr { return p.binary(OpMod, Lit(val)) }

// Concat creates self || val (CONCAT on MySQL).
func (p Predications) Concat(val any) *BinaryExpr { return p.binary(OpConcat, Lit(val)) }

// And creates (self AND other).
func (p Predications) And(other ConditionExpression) *Condition { return All(p.self, other) }

// Or creates (self OR other).
func (p Predications) Or(other ConditionExpression) *Condition { return Any(p.self, other) }

// Not creates NOT self.
func (p Predications) Not() *UnaryExpr { return Not(p.self) }

// Cast creates CAST(self AS typeName).
func (p Predications) Cast(typeName string) *CastExpr { return Cast(p.self, typeName) }

// Over applies self as a window function over w.
func (p Predications) Over(w *WindowStatement) *WindowExpr {
	n := &WindowExpr{Func: p.self, Window: w}
	n.self = n
	return n
}

// OverName applies self as a window function over the named window.
func (p Predications) OverName(name string) *WindowNamedExpr {
	n := &WindowNamedExpr{Func: p.self, Name: name}
	n.self = n
	return n
}

// Asc creates an ascending ORDER BY term.
func (p Predications) Asc() OrderExpr { return OrderExpr{Expr: p.self, Direction: Asc} }

// Desc creates a descending ORDER BY term.
func (p Predications) Desc() OrderExpr { return OrderExpr{Expr: p.self, Direction: Desc} }

// As creates an aliased projection.
func (p Predications) As(alias string) SelectExpr { return SelectExpr{Expr: p.self, Alias: alias} }
