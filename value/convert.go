package value

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
	rawType  = reflect.TypeOf(json.RawMessage(nil))
)

// nullKinds maps the nullable wrapper types Of understands to the variant
// they convert to.
var nullKinds = map[reflect.Type]Kind{
	reflect.TypeOf(uuid.NullUUID{}):   KindUUID,
	reflect.TypeOf(sql.NullBool{}):    KindBool,
	reflect.TypeOf(sql.NullByte{}):    KindTinyUnsigned,
	reflect.TypeOf(sql.NullInt16{}):   KindSmallInt,
	reflect.TypeOf(sql.NullInt32{}):   KindInt,
	reflect.TypeOf(sql.NullInt64{}):   KindBigInt,
	reflect.TypeOf(sql.NullFloat64{}): KindDouble,
	reflect.TypeOf(sql.NullString{}):  KindString,
	reflect.TypeOf(sql.NullTime{}):    KindTimestamp,
}

// Of converts a Go value into a Value. It never fails: types without a
// dedicated variant are encoded as JSON, and values that cannot be
// encoded fall back to their fmt representation as a String.
//
// An untyped nil becomes a NULL Int.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Int{}
	case Value:
		return x
	}
	// Pointers are resolved before the driver.Valuer check: value-receiver
	// Value methods panic on a nil pointer.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null(kindOf(rv.Type().Elem()))
		}
		elem := rv.Elem().Interface()
		if _, ok := elem.(driver.Valuer); !ok {
			if dv, ok := v.(driver.Valuer); ok {
				return ofValuer(dv)
			}
		}
		return Of(elem)
	}
	switch x := v.(type) {
	case bool:
		return Bool{V: x, Valid: true}
	case int:
		return BigInt{V: int64(x), Valid: true}
	case int8:
		return TinyInt{V: x, Valid: true}
	case int16:
		return SmallInt{V: x, Valid: true}
	case int32:
		return Int{V: x, Valid: true}
	case int64:
		return BigInt{V: x, Valid: true}
	case uint:
		return BigUnsigned{V: uint64(x), Valid: true}
	case uint8:
		return TinyUnsigned{V: x, Valid: true}
	case uint16:
		return SmallUnsigned{V: x, Valid: true}
	case uint32:
		return Unsigned{V: x, Valid: true}
	case uint64:
		return BigUnsigned{V: x, Valid: true}
	case float32:
		return Float{V: x, Valid: true}
	case float64:
		return Double{V: x, Valid: true}
	case string:
		return String{V: x, Valid: true}
	case []byte:
		if x == nil {
			return Bytes{}
		}
		return Bytes{V: x, Valid: true}
	case json.RawMessage:
		if x == nil {
			return JSON{}
		}
		return JSON{V: x, Valid: true}
	case time.Time:
		return Timestamp{V: x, Valid: true}
	case uuid.UUID:
		return UUID{V: x, Valid: true}
	case uuid.NullUUID:
		return UUID{V: x.UUID, Valid: x.Valid}
	case sql.NullBool:
		return Bool{V: x.Bool, Valid: x.Valid}
	case sql.NullByte:
		return TinyUnsigned{V: x.Byte, Valid: x.Valid}
	case sql.NullInt16:
		return SmallInt{V: x.Int16, Valid: x.Valid}
	case sql.NullInt32:
		return Int{V: x.Int32, Valid: x.Valid}
	case sql.NullInt64:
		return BigInt{V: x.Int64, Valid: x.Valid}
	case sql.NullFloat64:
		return Double{V: x.Float64, Valid: x.Valid}
	case sql.NullString:
		return String{V: x.String, Valid: x.Valid}
	case sql.NullTime:
		return Timestamp{V: x.Time, Valid: x.Valid}
	case driver.Valuer:
		return ofValuer(x)
	}
	return ofReflect(reflect.ValueOf(v))
}

func ofValuer(x driver.Valuer) Value {
	dv, err := x.Value()
	if err != nil {
		return String{V: fmt.Sprint(x), Valid: true}
	}
	if dv == nil {
		return Null(kindOf(reflect.TypeOf(x)))
	}
	return Of(dv)
}

func ofReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool{V: rv.Bool(), Valid: true}
	case reflect.Int, reflect.Int64:
		return BigInt{V: rv.Int(), Valid: true}
	case reflect.Int8:
		return TinyInt{V: int8(rv.Int()), Valid: true}
	case reflect.Int16:
		return SmallInt{V: int16(rv.Int()), Valid: true}
	case reflect.Int32:
		return Int{V: int32(rv.Int()), Valid: true}
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return BigUnsigned{V: rv.Uint(), Valid: true}
	case reflect.Uint8:
		return TinyUnsigned{V: uint8(rv.Uint()), Valid: true}
	case reflect.Uint16:
		return SmallUnsigned{V: uint16(rv.Uint()), Valid: true}
	case reflect.Uint32:
		return Unsigned{V: uint32(rv.Uint()), Valid: true}
	case reflect.Float32:
		return Float{V: float32(rv.Float()), Valid: true}
	case reflect.Float64:
		return Double{V: rv.Float(), Valid: true}
	case reflect.String:
		return String{V: rv.String(), Valid: true}
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if rv.IsNil() {
				return Bytes{}
			}
			return Bytes{V: rv.Bytes(), Valid: true}
		}
		elem := kindOf(rv.Type().Elem())
		if rv.IsNil() {
			return Array{Elem: elem}
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = Of(rv.Index(i).Interface())
		}
		if elem == KindJSON {
			return homogeneous(items, func() Value { return toJSON(rv.Interface()) })
		}
		return Array{Elem: elem, V: items, Valid: true}
	case reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = Of(rv.Index(i).Interface())
		}
		return Array{Elem: kindOf(rv.Type().Elem()), V: items, Valid: true}
	}
	return toJSON(rv.Interface())
}

// kindOf maps a static Go type to the variant Of would produce for it.
func kindOf(t reflect.Type) Kind {
	if t == nil {
		return KindJSON
	}
	switch t {
	case timeType:
		return KindTimestamp
	case uuidType:
		return KindUUID
	case rawType:
		return KindJSON
	}
	if k, ok := nullKinds[t]; ok {
		return k
	}
	switch t.Kind() {
	case reflect.Pointer:
		return kindOf(t.Elem())
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int64:
		return KindBigInt
	case reflect.Int8:
		return KindTinyInt
	case reflect.Int16:
		return KindSmallInt
	case reflect.Int32:
		return KindInt
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return KindBigUnsigned
	case reflect.Uint8:
		return KindTinyUnsigned
	case reflect.Uint16:
		return KindSmallUnsigned
	case reflect.Uint32:
		return KindUnsigned
	case reflect.Float32:
		return KindFloat
	case reflect.Float64:
		return KindDouble
	case reflect.String:
		return KindString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}
		return KindArray
	case reflect.Array:
		return KindArray
	}
	return KindJSON
}

func toJSON(v any) Value {
	raw, err := json.Marshal(v)
	if err != nil {
		return String{V: fmt.Sprint(v), Valid: true}
	}
	return JSON{V: raw, Valid: true}
}

// FromJSON converts data produced by encoding/json decoding into any (or
// json.Number when UseNumber is set) into the narrowest matching Value.
//
// Strings are tried as a canonical UUID, then as an RFC 3339 timestamp,
// before falling back to String. Integral numbers become BigInt and other
// numbers Double. JSON null becomes a NULL Int. Arrays whose non-null
// elements share one kind become an Array of that kind; objects, empty
// arrays and mixed arrays are kept as JSON.
func FromJSON(v any) Value {
	switch x := v.(type) {
	case nil:
		return Int{}
	case bool:
		return Bool{V: x, Valid: true}
	case float64:
		return number(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return BigInt{V: i, Valid: true}
		}
		if f, err := x.Float64(); err == nil {
			return Double{V: f, Valid: true}
		}
		return String{V: x.String(), Valid: true}
	case string:
		return fromString(x)
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = FromJSON(e)
		}
		return homogeneous(items, func() Value { return toJSON(x) })
	case map[string]any:
		return toJSON(x)
	}
	return Of(v)
}

func number(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && f >= math.MinInt64 && f < math.MaxInt64 {
		return BigInt{V: int64(f), Valid: true}
	}
	return Double{V: f, Valid: true}
}

func fromString(s string) Value {
	// uuid.Parse also accepts braced, urn and undashed forms; only the
	// canonical 36 character form is treated as a UUID.
	if len(s) == 36 {
		if u, err := uuid.Parse(s); err == nil {
			return UUID{V: u, Valid: true}
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{V: t, Valid: true}
	}
	return String{V: s, Valid: true}
}

// homogeneous builds an Array when every non-null item shares a kind,
// retyping null items to that kind. Otherwise it returns fallback().
func homogeneous(items []Value, fallback func() Value) Value {
	elem := Kind(-1)
	for _, it := range items {
		if it.IsNull() {
			continue
		}
		if elem == -1 {
			elem = it.Kind()
			continue
		}
		if it.Kind() != elem {
			return fallback()
		}
	}
	if elem == -1 || elem == KindJSON {
		return fallback()
	}
	for i, it := range items {
		if it.IsNull() {
			items[i] = Null(elem)
		}
	}
	return Array{Elem: elem, V: items, Valid: true}
}

// Equal reports whether a and b are the same variant with the same
// validity and payload.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.IsNull() != b.IsNull() {
		return false
	}
	if a.IsNull() {
		return true
	}
	switch x := a.(type) {
	case Bytes:
		return bytes.Equal(x.V, b.(Bytes).V)
	case JSON:
		return bytes.Equal(x.V, b.(JSON).V)
	case Timestamp:
		return x.V.Equal(b.(Timestamp).V)
	case Array:
		y := b.(Array)
		if x.Elem != y.Elem || len(x.V) != len(y.V) {
			return false
		}
		for i := range x.V {
			if !Equal(x.V[i], y.V[i]) {
				return false
			}
		}
		return true
	}
	return a.Any() == b.Any()
}
