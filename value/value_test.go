package value

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestZeroVariantIsNull(t *testing.T) {
	t.Parallel()
	for _, v := range []Value{Bool{}, BigInt{}, String{}, Bytes{}, Timestamp{}, UUID{}, JSON{}, Array{}} {
		if !v.IsNull() {
			t.Errorf("%s zero value should be NULL", v.Kind())
		}
		if v.Any() != nil {
			t.Errorf("%s zero value Any() = %v, want nil", v.Kind(), v.Any())
		}
	}
}

func TestNullMatchesKind(t *testing.T) {
	t.Parallel()
	for k := KindBool; k <= KindArray; k++ {
		n := Null(k)
		if n.Kind() != k {
			t.Errorf("Null(%s).Kind() = %s", k, n.Kind())
		}
		if !n.IsNull() {
			t.Errorf("Null(%s) is not NULL", k)
		}
	}
}

func TestOfScalars(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   any
		kind Kind
	}{
		{true, KindBool},
		{int8(1), KindTinyInt},
		{int16(1), KindSmallInt},
		{int32(1), KindInt},
		{1, KindBigInt},
		{int64(1), KindBigInt},
		{uint8(1), KindTinyUnsigned},
		{uint16(1), KindSmallUnsigned},
		{uint32(1), KindUnsigned},
		{uint64(1), KindBigUnsigned},
		{float32(1.5), KindFloat},
		{1.5, KindDouble},
		{"x", KindString},
		{[]byte("x"), KindBytes},
		{time.Unix(0, 0), KindTimestamp},
		{uuid.New(), KindUUID},
		{json.RawMessage(`{}`), KindJSON},
	}
	for _, c := range cases {
		got := Of(c.in)
		if got.Kind() != c.kind {
			t.Errorf("Of(%T).Kind() = %s, want %s", c.in, got.Kind(), c.kind)
		}
		if got.IsNull() {
			t.Errorf("Of(%T) should not be NULL", c.in)
		}
	}
}

func TestOfUntypedNil(t *testing.T) {
	t.Parallel()
	v := Of(nil)
	if v.Kind() != KindInt || !v.IsNull() {
		t.Errorf("Of(nil) = %#v, want NULL Int", v)
	}
}

func TestOfNilPointerKeepsKind(t *testing.T) {
	t.Parallel()
	var s *string
	v := Of(s)
	if v.Kind() != KindString || !v.IsNull() {
		t.Errorf("Of((*string)(nil)) = %#v, want NULL String", v)
	}
}

func TestOfPointerDereferences(t *testing.T) {
	t.Parallel()
	n := int32(7)
	if !Equal(Of(&n), Int{V: 7, Valid: true}) {
		t.Errorf("Of(&n) = %#v", Of(&n))
	}
}

func TestOfSQLNullTypes(t *testing.T) {
	t.Parallel()
	if v := Of(sql.NullString{}); v.Kind() != KindString || !v.IsNull() {
		t.Errorf("Of(sql.NullString{}) = %#v", v)
	}
	if v := Of(sql.NullInt64{Int64: 3, Valid: true}); !Equal(v, BigInt{V: 3, Valid: true}) {
		t.Errorf("Of(sql.NullInt64) = %#v", v)
	}
}

func TestOfNilPointerToValuer(t *testing.T) {
	t.Parallel()
	if v := Of((*uuid.UUID)(nil)); v.Kind() != KindUUID || !v.IsNull() {
		t.Errorf("Of((*uuid.UUID)(nil)) = %#v, want NULL UUID", v)
	}
	if v := Of((*sql.NullString)(nil)); v.Kind() != KindString || !v.IsNull() {
		t.Errorf("Of((*sql.NullString)(nil)) = %#v, want NULL String", v)
	}
	if v := Of((*sql.NullTime)(nil)); v.Kind() != KindTimestamp || !v.IsNull() {
		t.Errorf("Of((*sql.NullTime)(nil)) = %#v, want NULL Timestamp", v)
	}
}

func TestOfPointerToValuerKeepsVariant(t *testing.T) {
	t.Parallel()
	u := uuid.New()
	if !Equal(Of(&u), UUID{V: u, Valid: true}) {
		t.Errorf("Of(&uuid) = %#v, want UUID", Of(&u))
	}
	if v := Of(&sql.NullString{}); v.Kind() != KindString || !v.IsNull() {
		t.Errorf("Of(&sql.NullString{}) = %#v, want NULL String", v)
	}
	ns := sql.NullString{String: "x", Valid: true}
	if !Equal(Of(&ns), String{V: "x", Valid: true}) {
		t.Errorf("Of(&ns) = %#v", Of(&ns))
	}
}

func TestOfPointerReceiverValuer(t *testing.T) {
	t.Parallel()
	c := celsius(21)
	if !Equal(Of(&c), String{V: "21C", Valid: true}) {
		t.Errorf("Of(&c) = %#v", Of(&c))
	}
	if v := Of((*celsius)(nil)); v.Kind() != KindDouble || !v.IsNull() {
		t.Errorf("Of((*celsius)(nil)) = %#v, want NULL Double", v)
	}
}

type celsius float64

func (c *celsius) Value() (driver.Value, error) {
	return fmt.Sprintf("%gC", float64(*c)), nil
}

func TestOfValueIsIdentity(t *testing.T) {
	t.Parallel()
	in := String{V: "a", Valid: true}
	if !Equal(Of(in), in) {
		t.Error("Of(Value) should return it unchanged")
	}
}

func TestOfSliceBecomesArray(t *testing.T) {
	t.Parallel()
	v := Of([]int{1, 2, 3})
	arr, ok := v.(Array)
	if !ok {
		t.Fatalf("expected Array, got %T", v)
	}
	if arr.Elem != KindBigInt || len(arr.V) != 3 {
		t.Errorf("unexpected array %#v", arr)
	}
}

func TestOfStructBecomesJSON(t *testing.T) {
	t.Parallel()
	v := Of(struct {
		Name string `json:"name"`
	}{Name: "alice"})
	j, ok := v.(JSON)
	if !ok {
		t.Fatalf("expected JSON, got %T", v)
	}
	if string(j.V) != `{"name":"alice"}` {
		t.Errorf("unexpected JSON %s", j.V)
	}
}

func TestOfUnencodableFallsBackToString(t *testing.T) {
	t.Parallel()
	v := Of(make(chan int))
	if v.Kind() != KindString || v.IsNull() {
		t.Errorf("expected non-null String fallback, got %#v", v)
	}
}

func decode(t *testing.T, doc string) any {
	t.Helper()
	var out any
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		t.Fatalf("decode %s: %v", doc, err)
	}
	return out
}

func TestFromJSONStringDetection(t *testing.T) {
	t.Parallel()
	cases := []struct {
		doc  string
		kind Kind
	}{
		{`"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`, KindUUID},
		{`"2024-03-01T12:30:00Z"`, KindTimestamp},
		{`"2024-03-01T12:30:00.123+02:00"`, KindTimestamp},
		{`"6ba7b8109dad11d180b400c04fd430c8"`, KindString},
		{`"2024-03-01"`, KindString},
		{`"hello"`, KindString},
	}
	for _, c := range cases {
		if got := FromJSON(decode(t, c.doc)).Kind(); got != c.kind {
			t.Errorf("FromJSON(%s).Kind() = %s, want %s", c.doc, got, c.kind)
		}
	}
}

func TestFromJSONNumbers(t *testing.T) {
	t.Parallel()
	if v := FromJSON(decode(t, `42`)); !Equal(v, BigInt{V: 42, Valid: true}) {
		t.Errorf("42 -> %#v", v)
	}
	if v := FromJSON(decode(t, `4.5`)); !Equal(v, Double{V: 4.5, Valid: true}) {
		t.Errorf("4.5 -> %#v", v)
	}
	if v := FromJSON(json.Number("9007199254740993")); !Equal(v, BigInt{V: 9007199254740993, Valid: true}) {
		t.Errorf("json.Number -> %#v", v)
	}
}

func TestFromJSONNullIsNullInt(t *testing.T) {
	t.Parallel()
	v := FromJSON(nil)
	if v.Kind() != KindInt || !v.IsNull() {
		t.Errorf("FromJSON(nil) = %#v", v)
	}
}

func TestFromJSONHomogeneousArray(t *testing.T) {
	t.Parallel()
	v := FromJSON(decode(t, `["a", null, "b"]`))
	arr, ok := v.(Array)
	if !ok {
		t.Fatalf("expected Array, got %T", v)
	}
	if arr.Elem != KindString {
		t.Errorf("Elem = %s, want string", arr.Elem)
	}
	if arr.V[1].Kind() != KindString || !arr.V[1].IsNull() {
		t.Errorf("null element should be retyped to NULL String, got %#v", arr.V[1])
	}
}

func TestFromJSONMixedArrayIsJSON(t *testing.T) {
	t.Parallel()
	v := FromJSON(decode(t, `[1, "a"]`))
	j, ok := v.(JSON)
	if !ok {
		t.Fatalf("expected JSON, got %T", v)
	}
	if string(j.V) != `[1,"a"]` {
		t.Errorf("unexpected JSON %s", j.V)
	}
}

func TestFromJSONEmptyArrayIsJSON(t *testing.T) {
	t.Parallel()
	if v := FromJSON([]any{}); v.Kind() != KindJSON {
		t.Errorf("expected JSON, got %s", v.Kind())
	}
}

func TestFromJSONObjectIsJSON(t *testing.T) {
	t.Parallel()
	v := FromJSON(decode(t, `{"a": 1}`))
	j, ok := v.(JSON)
	if !ok {
		t.Fatalf("expected JSON, got %T", v)
	}
	if !strings.Contains(string(j.V), `"a":1`) {
		t.Errorf("unexpected JSON %s", j.V)
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !Equal(Timestamp{V: ts, Valid: true}, Timestamp{V: ts.In(time.FixedZone("x", 3600)), Valid: true}) {
		t.Error("timestamps for the same instant should be equal")
	}
	if Equal(BigInt{V: 1, Valid: true}, Int{V: 1, Valid: true}) {
		t.Error("different kinds should not be equal")
	}
	if !Equal(String{}, String{V: "ignored"}) {
		t.Error("two NULLs of the same kind should be equal")
	}
	if !Equal(Bytes{V: []byte("a"), Valid: true}, Bytes{V: []byte("a"), Valid: true}) {
		t.Error("equal bytes should be equal")
	}
}

func TestValuesArgs(t *testing.T) {
	t.Parallel()
	var vs Values
	vs.Append(Of("a"), String{})
	args := vs.Args()
	if vs.Len() != 2 || args[0] != "a" || args[1] != nil {
		t.Errorf("unexpected args %#v", args)
	}
}
