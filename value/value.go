// Package value defines the closed set of parameter kinds that can be
// bound to a compiled statement.
//
// Every variant follows the database/sql Null* shape: a payload field V
// and a Valid flag. The zero value of a variant is SQL NULL of that kind,
// so NULL never needs a separate type.
package value

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies a Value variant.
type Kind int

const (
	KindBool Kind = iota
	KindTinyInt
	KindSmallInt
	KindInt
	KindBigInt
	KindTinyUnsigned
	KindSmallUnsigned
	KindUnsigned
	KindBigUnsigned
	KindFloat
	KindDouble
	KindString
	KindChar
	KindBytes
	KindTimestamp
	KindUUID
	KindJSON
	KindArray
)

var kindNames = [...]string{
	KindBool:          "bool",
	KindTinyInt:       "tinyint",
	KindSmallInt:      "smallint",
	KindInt:           "int",
	KindBigInt:        "bigint",
	KindTinyUnsigned:  "tinyunsigned",
	KindSmallUnsigned: "smallunsigned",
	KindUnsigned:      "unsigned",
	KindBigUnsigned:   "bigunsigned",
	KindFloat:         "float",
	KindDouble:        "double",
	KindString:        "string",
	KindChar:          "char",
	KindBytes:         "bytes",
	KindTimestamp:     "timestamp",
	KindUUID:          "uuid",
	KindJSON:          "json",
	KindArray:         "array",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a single bindable parameter. The set of implementations is
// closed; callers switch on the concrete type or on Kind.
type Value interface {
	Kind() Kind
	IsNull() bool
	// Any returns the Go payload, or nil for NULL.
	Any() any
	sealed()
}

// Scalar variants.
type (
	Bool struct {
		V     bool
		Valid bool
	}
	TinyInt struct {
		V     int8
		Valid bool
	}
	SmallInt struct {
		V     int16
		Valid bool
	}
	Int struct {
		V     int32
		Valid bool
	}
	BigInt struct {
		V     int64
		Valid bool
	}
	TinyUnsigned struct {
		V     uint8
		Valid bool
	}
	SmallUnsigned struct {
		V     uint16
		Valid bool
	}
	Unsigned struct {
		V     uint32
		Valid bool
	}
	BigUnsigned struct {
		V     uint64
		Valid bool
	}
	Float struct {
		V     float32
		Valid bool
	}
	Double struct {
		V     float64
		Valid bool
	}
	String struct {
		V     string
		Valid bool
	}
	Char struct {
		V     rune
		Valid bool
	}
	Bytes struct {
		V     []byte
		Valid bool
	}
	Timestamp struct {
		V     time.Time
		Valid bool
	}
	UUID struct {
		V     uuid.UUID
		Valid bool
	}
	JSON struct {
		V     json.RawMessage
		Valid bool
	}
)

// Array is a typed list. Elem names the kind every element shares.
type Array struct {
	Elem  Kind
	V     []Value
	Valid bool
}

func (Bool) Kind() Kind          { return KindBool }
func (TinyInt) Kind() Kind       { return KindTinyInt }
func (SmallInt) Kind() Kind      { return KindSmallInt }
func (Int) Kind() Kind           { return KindInt }
func (BigInt) Kind() Kind        { return KindBigInt }
func (TinyUnsigned) Kind() Kind  { return KindTinyUnsigned }
func (SmallUnsigned) Kind() Kind { return KindSmallUnsigned }
func (Unsigned) Kind() Kind      { return KindUnsigned }
func (BigUnsigned) Kind() Kind   { return KindBigUnsigned }
func (Float) Kind() Kind         { return KindFloat }
func (Double) Kind() Kind        { return KindDouble }
func (String) Kind() Kind        { return KindString }
func (Char) Kind() Kind          { return KindChar }
func (Bytes) Kind() Kind         { return KindBytes }
func (Timestamp) Kind() Kind     { return KindTimestamp }
func (UUID) Kind() Kind          { return KindUUID }
func (JSON) Kind() Kind          { return KindJSON }
func (Array) Kind() Kind         { return KindArray }

func (v Bool) IsNull() bool          { return !v.Valid }
func (v TinyInt) IsNull() bool       { return !v.Valid }
func (v SmallInt) IsNull() bool      { return !v.Valid }
func (v Int) IsNull() bool           { return !v.Valid }
func (v BigInt) IsNull() bool        { return !v.Valid }
func (v TinyUnsigned) IsNull() bool  { return !v.Valid }
func (v SmallUnsigned) IsNull() bool { return !v.Valid }
func (v Unsigned) IsNull() bool      { return !v.Valid }
func (v BigUnsigned) IsNull() bool   { return !v.Valid }
func (v Float) IsNull() bool         { return !v.Valid }
func (v Double) IsNull() bool        { return !v.Valid }
func (v String) IsNull() bool        { return !v.Valid }
func (v Char) IsNull() bool          { return !v.Valid }
func (v Bytes) IsNull() bool         { return !v.Valid }
func (v Timestamp) IsNull() bool     { return !v.Valid }
func (v UUID) IsNull() bool          { return !v.Valid }
func (v JSON) IsNull() bool          { return !v.Valid }
func (v Array) IsNull() bool         { return !v.Valid }

func (v Bool) Any() any          { return payload(v.Valid, v.V) }
func (v TinyInt) Any() any       { return payload(v.Valid, v.V) }
func (v SmallInt) Any() any      { return payload(v.Valid, v.V) }
func (v Int) Any() any           { return payload(v.Valid, v.V) }
func (v BigInt) Any() any        { return payload(v.Valid, v.V) }
func (v TinyUnsigned) Any() any  { return payload(v.Valid, v.V) }
func (v SmallUnsigned) Any() any { return payload(v.Valid, v.V) }
func (v Unsigned) Any() any      { return payload(v.Valid, v.V) }
func (v BigUnsigned) Any() any   { return payload(v.Valid, v.V) }
func (v Float) Any() any         { return payload(v.Valid, v.V) }
func (v Double) Any() any        { return payload(v.Valid, v.V) }
func (v String) Any() any        { return payload(v.Valid, v.V) }
func (v Char) Any() any          { return payload(v.Valid, v.V) }
func (v Bytes) Any() any         { return payload(v.Valid, v.V) }
func (v Timestamp) Any() any     { return payload(v.Valid, v.V) }
func (v UUID) Any() any          { return payload(v.Valid, v.V) }
func (v JSON) Any() any          { return payload(v.Valid, v.V) }

// Any returns the elements' payloads as a []any.
func (v Array) Any() any {
	if !v.Valid {
		return nil
	}
	out := make([]any, len(v.V))
	for i, e := range v.V {
		out[i] = e.Any()
	}
	return out
}

func (Bool) sealed()          {}
func (TinyInt) sealed()       {}
func (SmallInt) sealed()      {}
func (Int) sealed()           {}
func (BigInt) sealed()        {}
func (TinyUnsigned) sealed()  {}
func (SmallUnsigned) sealed() {}
func (Unsigned) sealed()      {}
func (BigUnsigned) sealed()   {}
func (Float) sealed()         {}
func (Double) sealed()        {}
func (String) sealed()        {}
func (Char) sealed()          {}
func (Bytes) sealed()         {}
func (Timestamp) sealed()     {}
func (UUID) sealed()          {}
func (JSON) sealed()          {}
func (Array) sealed()         {}

func payload[T any](valid bool, v T) any {
	if !valid {
		return nil
	}
	return v
}

// Null returns the NULL value of the given kind.
func Null(k Kind) Value {
	switch k {
	case KindBool:
		return Bool{}
	case KindTinyInt:
		return TinyInt{}
	case KindSmallInt:
		return SmallInt{}
	case KindInt:
		return Int{}
	case KindBigInt:
		return BigInt{}
	case KindTinyUnsigned:
		return TinyUnsigned{}
	case KindSmallUnsigned:
		return SmallUnsigned{}
	case KindUnsigned:
		return Unsigned{}
	case KindBigUnsigned:
		return BigUnsigned{}
	case KindFloat:
		return Float{}
	case KindDouble:
		return Double{}
	case KindString:
		return String{}
	case KindChar:
		return Char{}
	case KindBytes:
		return Bytes{}
	case KindTimestamp:
		return Timestamp{}
	case KindUUID:
		return UUID{}
	case KindArray:
		return Array{}
	default:
		return JSON{}
	}
}

// Values is the ordered parameter list produced alongside compiled SQL.
// The Nth placeholder in the text binds to the Nth element.
type Values []Value

// Append adds vals to the end of the list.
func (vs *Values) Append(vals ...Value) {
	*vs = append(*vs, vals...)
}

// Len returns the number of values.
func (vs Values) Len() int { return len(vs) }

// Args returns the Go payloads in order, with nil for NULL.
func (vs Values) Args() []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v.Any()
	}
	return out
}

// Equal reports whether two lists hold equal values in the same order.
func (vs Values) Equal(other Values) bool {
	if len(vs) != len(other) {
		return false
	}
	for i := range vs {
		if !Equal(vs[i], other[i]) {
			return false
		}
	}
	return true
}
