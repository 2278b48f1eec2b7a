package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON parses a JSON document into a Value, preserving object
// field order. Numbers without a fractional part or exponent decode as
// Int, everything else as Float.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("decode json: %w", err)
	}

	// Trailing content after the first value is malformed input.
	if _, err := dec.Token(); err == nil {
		return Value{}, fmt.Errorf("decode json: trailing data after value")
	}
	return v, nil
}

// DecodeJSONObject parses a JSON document that must be an object.
func DecodeJSONObject(data []byte) (*Obj, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	if v.Kind() != Object {
		return nil, fmt.Errorf("decode json: expected object, got %s", v.Kind())
	}
	return v.Obj(), nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		return decodeNumber(t)
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeNumber(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := n.Int64()
		if err == nil {
			return NewInt(i), nil
		}
		// Out of int64 range, fall through to float.
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("number %q: %w", s, err)
	}
	return NewFloat(f), nil
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := &Obj{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, err
	}
	return NewObject(obj), nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return Value{}, err
	}
	return NewArray(elems...), nil
}

// EncodeJSON renders a Value as compact JSON with object field order
// preserved. Undefined encodes as null; it should normally be filtered
// out before encoding.
func EncodeJSON(v Value) []byte {
	var buf bytes.Buffer
	encodeValue(&buf, v)
	return buf.Bytes()
}

func encodeValue(buf *bytes.Buffer, v Value) {
	switch v.Kind() {
	case Undefined, Null:
		buf.WriteString("null")
	case Bool, Int, Float:
		buf.WriteString(v.Text())
	case String:
		b, _ := json.Marshal(v.Str())
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, e := range v.Elems() {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeValue(buf, e)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, f := range v.Obj().Fields() {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, _ := json.Marshal(f.Name)
			buf.Write(b)
			buf.WriteByte(':')
			encodeValue(buf, f.Value)
		}
		buf.WriteByte('}')
	}
}
