// Package value holds the JSON-like value model every other layer
// operates on: a closed set of kinds, order-preserving objects, and
// dotted-path field access.
package value

import (
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// Undefined marks a value that does not exist, such as a missing
	// property path. It is distinct from JSON null.
	Undefined Kind = iota
	// Null is JSON null.
	Null
	// Bool is a JSON boolean.
	Bool
	// Int is a JSON number without a fractional part.
	Int
	// Float is a JSON number with a fractional part.
	Float
	// String is a JSON string.
	String
	// Array is a JSON array.
	Array
	// Object is a JSON object with field order preserved.
	Object
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the JSON-like kinds. The zero Value is
// Undefined.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Obj
}

// NewUndefined returns the undefined value.
func NewUndefined() Value { return Value{} }

// NewNull returns JSON null.
func NewNull() Value { return Value{kind: Null} }

// NewBool returns a boolean value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewInt returns an integer value.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewFloat returns a float value.
func NewFloat(f float64) Value { return Value{kind: Float, f: f} }

// NewString returns a string value.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewArray returns an array value.
func NewArray(elems ...Value) Value { return Value{kind: Array, arr: elems} }

// NewObject returns an object value wrapping obj. A nil obj yields an
// empty object.
func NewObject(obj *Obj) Value {
	if obj == nil {
		obj = &Obj{}
	}
	return Value{kind: Object, obj: obj}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsDefined reports whether the value exists (any kind but Undefined).
func (v Value) IsDefined() bool { return v.kind != Undefined }

// IsNull reports whether the value is JSON null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean payload. Valid only for Bool values.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload. Valid only for Int values.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload. Valid only for Float values.
func (v Value) Float() float64 { return v.f }

// Str returns the string payload. Valid only for String values.
func (v Value) Str() string { return v.s }

// Elems returns the array elements. Valid only for Array values.
func (v Value) Elems() []Value { return v.arr }

// Obj returns the object payload. Valid only for Object values.
func (v Value) Obj() *Obj { return v.obj }

// IsNumber reports whether the value is Int or Float.
func (v Value) IsNumber() bool { return v.kind == Int || v.kind == Float }

// AsFloat widens Int or Float to float64.
func (v Value) AsFloat() float64 {
	if v.kind == Int {
		return float64(v.i)
	}
	return v.f
}

// Text renders the value's textual form: the string payload verbatim
// for strings, JSON-shaped text for everything else. Function arguments
// coerce through this form.
func (v Value) Text() string {
	switch v.kind {
	case Undefined:
		return ""
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return v.s
	case Array:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.jsonText()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case Object:
		return v.obj.text()
	default:
		return ""
	}
}

// jsonText is Text with strings quoted, used inside composites.
func (v Value) jsonText() string {
	if v.kind == String {
		return strconv.Quote(v.s)
	}
	return v.Text()
}

// Field is a single named object member.
type Field struct {
	Name  string
	Value Value
}

// Obj is an insertion-ordered JSON object.
type Obj struct {
	fields []Field
}

// NewObj builds an object from fields, keeping their order.
func NewObj(fields ...Field) *Obj {
	return &Obj{fields: fields}
}

// Len returns the field count.
func (o *Obj) Len() int { return len(o.fields) }

// Fields returns the members in insertion order. Callers must not
// mutate the returned slice.
func (o *Obj) Fields() []Field { return o.fields }

// Get returns the named field's value, or Undefined when absent.
func (o *Obj) Get(name string) Value {
	for _, f := range o.fields {
		if f.Name == name {
			return f.Value
		}
	}
	return Value{}
}

// Has reports whether the named field exists.
func (o *Obj) Has(name string) bool {
	for _, f := range o.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Set writes a field, replacing in place when the name exists and
// appending otherwise, so first-write order is preserved.
func (o *Obj) Set(name string, v Value) {
	for i, f := range o.fields {
		if f.Name == name {
			o.fields[i].Value = v
			return
		}
	}
	o.fields = append(o.fields, Field{Name: name, Value: v})
}

// SetPath writes a value at a dotted path, materializing intermediate
// objects. An existing non-object intermediate is replaced.
func (o *Obj) SetPath(path string, v Value) {
	segs := strings.Split(path, ".")
	cur := o
	for _, seg := range segs[:len(segs)-1] {
		next := cur.Get(seg)
		if next.Kind() != Object {
			child := &Obj{}
			cur.Set(seg, NewObject(child))
			cur = child
			continue
		}
		cur = next.Obj()
	}
	cur.Set(segs[len(segs)-1], v)
}

// Lookup resolves a dotted path against the object. Any missing
// segment, or indexing into a non-object, yields Undefined.
func (o *Obj) Lookup(path string) Value {
	cur := NewObject(o)
	for _, seg := range strings.Split(path, ".") {
		if cur.Kind() != Object {
			return Value{}
		}
		cur = cur.Obj().Get(seg)
	}
	return cur
}

// Clone returns a deep copy of the object.
func (o *Obj) Clone() *Obj {
	out := &Obj{fields: make([]Field, len(o.fields))}
	for i, f := range o.fields {
		out.fields[i] = Field{Name: f.Name, Value: cloneValue(f.Value)}
	}
	return out
}

func cloneValue(v Value) Value {
	switch v.kind {
	case Array:
		elems := make([]Value, len(v.arr))
		for i, e := range v.arr {
			elems[i] = cloneValue(e)
		}
		return NewArray(elems...)
	case Object:
		return NewObject(v.obj.Clone())
	default:
		return v
	}
}

func (o *Obj) text() string {
	parts := make([]string, len(o.fields))
	for i, f := range o.fields {
		parts[i] = strconv.Quote(f.Name) + ":" + f.Value.jsonText()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
