package value

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	obj := NewObj(
		Field{"id", NewString("1")},
		Field{"name", NewString("Alice")},
		Field{"address", NewObject(NewObj(
			Field{"city", NewString("Oslo")},
			Field{"zip", NewInt(1234)},
		))},
		Field{"score", NewNull()},
	)

	tests := []struct {
		name string
		path string
		want Kind
	}{
		{"top level", "name", String},
		{"nested", "address.city", String},
		{"nested int", "address.zip", Int},
		{"explicit null", "score", Null},
		{"missing top", "missing", Undefined},
		{"missing nested", "address.street", Undefined},
		{"index into scalar", "name.first", Undefined},
		{"index into null", "score.x", Undefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := obj.Lookup(tt.path)
			if got.Kind() != tt.want {
				t.Errorf("Lookup(%q).Kind() = %s, want %s", tt.path, got.Kind(), tt.want)
			}
		})
	}
}

func TestObjSetPreservesOrder(t *testing.T) {
	obj := &Obj{}
	obj.Set("b", NewInt(1))
	obj.Set("a", NewInt(2))
	obj.Set("b", NewInt(3)) // overwrite keeps position

	fields := obj.Fields()
	if len(fields) != 2 {
		t.Fatalf("len = %d, want 2", len(fields))
	}
	if fields[0].Name != "b" || fields[0].Value.Int() != 3 {
		t.Errorf("fields[0] = %s=%d, want b=3", fields[0].Name, fields[0].Value.Int())
	}
	if fields[1].Name != "a" {
		t.Errorf("fields[1].Name = %s, want a", fields[1].Name)
	}
}

func TestObjSetPath(t *testing.T) {
	obj := &Obj{}
	obj.SetPath("address.city", NewString("Oslo"))
	obj.SetPath("address.zip", NewInt(1234))

	if got := obj.Lookup("address.city").Str(); got != "Oslo" {
		t.Errorf("address.city = %q, want Oslo", got)
	}
	if got := obj.Lookup("address.zip").Int(); got != 1234 {
		t.Errorf("address.zip = %d, want 1234", got)
	}
	if obj.Len() != 1 {
		t.Errorf("top-level field count = %d, want 1", obj.Len())
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string verbatim", NewString("Hello"), "Hello"},
		{"int", NewInt(42), "42"},
		{"float", NewFloat(2.5), "2.5"},
		{"bool", NewBool(true), "true"},
		{"null", NewNull(), "null"},
		{"undefined", NewUndefined(), ""},
		{"array", NewArray(NewString("a"), NewInt(1)), `["a",1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONPreservesOrder(t *testing.T) {
	obj, err := DecodeJSONObject([]byte(`{"z":1,"a":{"m":true,"b":null},"k":[1,2.5,"x"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, f := range obj.Fields() {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "z,a,k" {
		t.Errorf("field order = %v, want [z a k]", names)
	}

	if got := obj.Lookup("z").Kind(); got != Int {
		t.Errorf("z kind = %s, want int", got)
	}
	arr := obj.Get("k")
	if arr.Kind() != Array || len(arr.Elems()) != 3 {
		t.Fatalf("k = %v, want 3-element array", arr.Kind())
	}
	if arr.Elems()[1].Kind() != Float {
		t.Errorf("k[1] kind = %s, want float", arr.Elems()[1].Kind())
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", `{"a":`},
		{"trailing", `{"a":1}{"b":2}`},
		{"not object", `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeJSONObject([]byte(tt.input)); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestEncodeJSONRoundTrip(t *testing.T) {
	src := `{"id":"1","n":3,"f":1.5,"ok":true,"nil":null,"tags":["a","b"],"nested":{"x":1}}`
	obj, err := DecodeJSONObject([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := string(EncodeJSON(NewObject(obj))); got != src {
		t.Errorf("round trip = %s, want %s", got, src)
	}
}
