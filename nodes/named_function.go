package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// FunctionCall is NAME(args...). Name is validated by the builder before
// it is emitted.
type FunctionCall struct {
	Predications
	Name     string
	Args     []Expr
	Distinct bool
}

// Func creates a call to the named function.
func Func(name string, args ...Expr) *FunctionCall {
	n := &FunctionCall{Name: name, Args: args}
	n.self = n
	return n
}

func (n *FunctionCall) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitFunctionCall(w, n) }

// Count creates COUNT(e).
func Count(e Expr) *FunctionCall { return Func("COUNT", e) }

// CountStar creates COUNT(*).
func CountStar() *FunctionCall { return Func("COUNT", Star()) }

// CountDistinct creates COUNT(DISTINCT e).
func CountDistinct(e Expr) *FunctionCall {
	n := Func("COUNT", e)
	n.Distinct = true
	return n
}

func Sum(e Expr) *FunctionCall { return Func("SUM", e) }
func Avg(e Expr) *FunctionCall { return Func("AVG", e) }
func Min(e Expr) *FunctionCall { return Func("MIN", e) }
func Max(e Expr) *FunctionCall { return Func("MAX", e) }

// Coalesce creates COALESCE(args...). Non-expression arguments are bound.
func Coalesce(args ...any) *FunctionCall { return Func("COALESCE", lits(args)...) }

func Lower(e Expr) *FunctionCall { return Func("LOWER", e) }
func Upper(e Expr) *FunctionCall { return Func("UPPER", e) }

// Window functions. They are only meaningful with Over or OverName.

func RowNumber() *FunctionCall   { return Func("ROW_NUMBER") }
func Rank() *FunctionCall        { return Func("RANK") }
func DenseRank() *FunctionCall   { return Func("DENSE_RANK") }
func PercentRank() *FunctionCall { return Func("PERCENT_RANK") }
func CumeDist() *FunctionCall    { return Func("CUME_DIST") }

// Ntile creates NTILE(buckets) with buckets bound.
func Ntile(buckets int64) *FunctionCall { return Func("NTILE", Val(buckets)) }

// Lead creates LEAD(e[, offset[, default]]). The optional arguments are
// bound unless they are already expressions.
func Lead(e Expr, offsetAndDefault ...any) *FunctionCall {
	return Func("LEAD", append([]Expr{e}, lits(offsetAndDefault)...)...)
}

// Lag creates LAG(e[, offset[, default]]).
func Lag(e Expr, offsetAndDefault ...any) *FunctionCall {
	return Func("LAG", append([]Expr{e}, lits(offsetAndDefault)...)...)
}

func FirstValue(e Expr) *FunctionCall { return Func("FIRST_VALUE", e) }
func LastValue(e Expr) *FunctionCall  { return Func("LAST_VALUE", e) }

// NthValue creates NTH_VALUE(e, n) with n bound.
func NthValue(e Expr, n int64) *FunctionCall { return Func("NTH_VALUE", e, Val(n)) }
