package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// WhenClause is one WHEN cond THEN result arm.
type WhenClause struct {
	Cond   ConditionExpression
	Result Expr
}

// CaseExpr is CASE WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	Predications
	Whens []WhenClause
	Else  Expr
}

// Case starts an empty CASE expression.
func Case() *CaseExpr {
	n := &CaseExpr{}
	n.self = n
	return n
}

// When appends a WHEN cond THEN result arm. A non-expression result is bound.
func (n *CaseExpr) When(cond ConditionExpression, result any) *CaseExpr {
	n.Whens = append(n.Whens, WhenClause{Cond: cond, Result: Lit(result)})
	return n
}

// Otherwise sets the ELSE result.
func (n *CaseExpr) Otherwise(result any) *CaseExpr {
	n.Else = Lit(result)
	return n
}

func (n *CaseExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitCase(w, n) }

// CastExpr is CAST(expr AS type). TypeName is validated by the builder.
type CastExpr struct {
	Predications
	Expr     Expr
	TypeName string
}

// Cast creates CAST(e AS typeName).
func Cast(e Expr, typeName string) *CastExpr {
	n := &CastExpr{Expr: e, TypeName: typeName}
	n.self = n
	return n
}

func (n *CastExpr) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitCast(w, n) }
