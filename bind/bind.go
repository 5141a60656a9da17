// Package bind converts compiled statement values into arguments for
// database/sql drivers.
//
// Postgres arguments are pgtype values from jackc/pgx, so NULLs keep their
// type and arrays travel as native Postgres arrays. MySQL and SQLite get
// plain driver.Value compatible Go values.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/bawdo/sqlweave/dialect"
	"github.com/bawdo/sqlweave/value"
)

// ErrUnbindable is returned when a value has no driver representation,
// such as a ragged multi-dimensional array or JSON holding NaN.
var ErrUnbindable = errors.New("bind: value cannot be bound")

// Args returns one driver argument per value, in placeholder order.
func Args(d dialect.Name, vals value.Values) ([]any, error) {
	conv := plainArg
	switch d {
	case dialect.Postgres:
		conv = pgArg
	case dialect.MySQL:
		conv = mysqlArg
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		arg, err := conv(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		out[i] = arg
	}
	return out, nil
}

func pgArg(v value.Value) (any, error) {
	if a, ok := v.(value.Array); ok {
		return pgArray(a)
	}
	return pgScalar(v), nil
}

func pgScalar(v value.Value) any {
	switch x := v.(type) {
	case value.Bool:
		return pgtype.Bool{Bool: x.V, Valid: x.Valid}
	case value.TinyInt:
		return pgtype.Int2{Int16: int16(x.V), Valid: x.Valid}
	case value.SmallInt:
		return pgtype.Int2{Int16: x.V, Valid: x.Valid}
	case value.TinyUnsigned:
		return pgtype.Int2{Int16: int16(x.V), Valid: x.Valid}
	case value.Int:
		return pgtype.Int4{Int32: x.V, Valid: x.Valid}
	case value.SmallUnsigned:
		return pgtype.Int4{Int32: int32(x.V), Valid: x.Valid}
	case value.BigInt:
		return pgtype.Int8{Int64: x.V, Valid: x.Valid}
	case value.Unsigned:
		return pgtype.Int8{Int64: int64(x.V), Valid: x.Valid}
	case value.BigUnsigned:
		if x.V > math.MaxInt64 {
			return pgNumeric(x)
		}
		return pgtype.Int8{Int64: int64(x.V), Valid: x.Valid}
	case value.Float:
		return pgtype.Float4{Float32: x.V, Valid: x.Valid}
	case value.Double:
		return pgtype.Float8{Float64: x.V, Valid: x.Valid}
	case value.String:
		return pgtype.Text{String: x.V, Valid: x.Valid}
	case value.Char:
		return pgtype.Text{String: string(x.V), Valid: x.Valid}
	case value.Bytes:
		if !x.Valid {
			return []byte(nil)
		}
		return x.V
	case value.Timestamp:
		return pgtype.Timestamptz{Time: x.V, Valid: x.Valid}
	case value.UUID:
		return pgtype.UUID{Bytes: x.V, Valid: x.Valid}
	case value.JSON:
		return pgJSON(x)
	}
	return v.Any()
}

func pgNumeric(x value.BigUnsigned) pgtype.Numeric {
	if !x.Valid {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: new(big.Int).SetUint64(x.V), Valid: true}
}

func pgJSON(x value.JSON) []byte {
	if !x.Valid {
		return nil
	}
	return []byte(x.V)
}

// pgArray builds a Postgres array typed by the innermost element kind.
// Nested arrays become a multi-dimensional array and must be rectangular.
func pgArray(a value.Array) (any, error) {
	if !a.Valid {
		return nil, nil
	}
	elems, elem := a.V, a.Elem
	var dims []pgtype.ArrayDimension
	if elem == value.KindArray {
		var err error
		if elems, elem, dims, err = flatten(a); err != nil {
			return nil, err
		}
	}
	switch elem {
	case value.KindBool:
		return typed[pgtype.Bool](elems, dims, elem, nil)
	case value.KindTinyInt, value.KindSmallInt, value.KindTinyUnsigned:
		return typed[pgtype.Int2](elems, dims, elem, nil)
	case value.KindInt, value.KindSmallUnsigned:
		return typed[pgtype.Int4](elems, dims, elem, nil)
	case value.KindBigInt, value.KindUnsigned:
		return typed[pgtype.Int8](elems, dims, elem, nil)
	case value.KindBigUnsigned:
		return typed(elems, dims, elem, func(v value.Value) (pgtype.Numeric, bool) {
			x, ok := v.(value.BigUnsigned)
			return pgNumeric(x), ok
		})
	case value.KindFloat:
		return typed[pgtype.Float4](elems, dims, elem, nil)
	case value.KindDouble:
		return typed[pgtype.Float8](elems, dims, elem, nil)
	case value.KindString, value.KindChar:
		return typed[pgtype.Text](elems, dims, elem, nil)
	case value.KindBytes:
		return typed[[]byte](elems, dims, elem, nil)
	case value.KindTimestamp:
		return typed[pgtype.Timestamptz](elems, dims, elem, nil)
	case value.KindUUID:
		return typed[pgtype.UUID](elems, dims, elem, nil)
	case value.KindJSON:
		return typed(elems, dims, elem, func(v value.Value) ([]byte, bool) {
			x, ok := v.(value.JSON)
			return pgJSON(x), ok
		})
	}
	return nil, fmt.Errorf("%w: %s array", ErrUnbindable, elem)
}

// typed converts elems into a FlatArray, or an Array when dims is set.
// A nil conv asserts the pgScalar result to T.
func typed[T any](elems []value.Value, dims []pgtype.ArrayDimension, kind value.Kind, conv func(value.Value) (T, bool)) (any, error) {
	if conv == nil {
		conv = func(v value.Value) (T, bool) {
			t, ok := pgScalar(v).(T)
			return t, ok
		}
	}
	out := make([]T, len(elems))
	for i, e := range elems {
		t, ok := conv(e)
		if !ok {
			return nil, fmt.Errorf("%w: %s element in %s array", ErrUnbindable, e.Kind(), kind)
		}
		out[i] = t
	}
	if dims == nil {
		return pgtype.FlatArray[T](out), nil
	}
	return pgtype.Array[T]{Elements: out, Dims: dims, Valid: true}, nil
}

// flatten walks a nested array in row-major order, returning its leaves,
// their kind and one dimension per level.
func flatten(a value.Array) ([]value.Value, value.Kind, []pgtype.ArrayDimension, error) {
	var dims []pgtype.ArrayDimension
	for cur := a; ; {
		dims = append(dims, pgtype.ArrayDimension{Length: int32(len(cur.V)), LowerBound: 1})
		if cur.Elem != value.KindArray {
			break
		}
		if len(cur.V) == 0 {
			return nil, 0, nil, fmt.Errorf("%w: empty nested array", ErrUnbindable)
		}
		next, ok := cur.V[0].(value.Array)
		if !ok || !next.Valid {
			return nil, 0, nil, fmt.Errorf("%w: NULL or non-array row in nested array", ErrUnbindable)
		}
		cur = next
	}
	var (
		leaves []value.Value
		leaf   value.Kind
		walk   func(value.Array, int) error
	)
	walk = func(arr value.Array, depth int) error {
		if !arr.Valid || len(arr.V) != int(dims[depth].Length) {
			return fmt.Errorf("%w: ragged nested array", ErrUnbindable)
		}
		if depth == len(dims)-1 {
			if arr.Elem == value.KindArray || (leaves != nil && arr.Elem != leaf) {
				return fmt.Errorf("%w: nested array mixes element kinds", ErrUnbindable)
			}
			leaf = arr.Elem
			leaves = append(leaves, arr.V...)
			return nil
		}
		for _, e := range arr.V {
			sub, ok := e.(value.Array)
			if !ok {
				return fmt.Errorf("%w: ragged nested array", ErrUnbindable)
			}
			if err := walk(sub, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(a, 0); err != nil {
		return nil, 0, nil, err
	}
	return leaves, leaf, dims, nil
}

func mysqlArg(v value.Value) (any, error) {
	if ts, ok := v.(value.Timestamp); ok {
		return mysql.NullTime{Time: ts.V, Valid: ts.Valid}, nil
	}
	return plainArg(v)
}

func plainArg(v value.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	switch x := v.(type) {
	case value.TinyInt:
		return int64(x.V), nil
	case value.SmallInt:
		return int64(x.V), nil
	case value.Int:
		return int64(x.V), nil
	case value.TinyUnsigned:
		return int64(x.V), nil
	case value.SmallUnsigned:
		return int64(x.V), nil
	case value.Unsigned:
		return int64(x.V), nil
	case value.Float:
		return float64(x.V), nil
	case value.Char:
		return string(x.V), nil
	case value.UUID:
		return x.V.String(), nil
	case value.JSON:
		return string(x.V), nil
	case value.Array:
		return jsonArg(x)
	}
	return v.Any(), nil
}

// jsonArg encodes an array's payloads as a JSON document.
func jsonArg(a value.Array) (any, error) {
	b, err := json.Marshal(a.Any())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnbindable, err)
	}
	return string(b), nil
}
