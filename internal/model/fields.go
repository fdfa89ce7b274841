package model

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// Value is a scalar copied from the source document without conversion:
// numbers keep their JSON literal, strings their decoded text.
type Value struct {
	text    string
	literal bool // number or boolean; encoded to JSON unquoted
}

// NumberValue wraps a JSON number literal such as "1999.5".
func NumberValue(literal string) Value {
	return Value{text: literal, literal: true}
}

// StringValue wraps a JSON string.
func StringValue(s string) Value {
	return Value{text: s}
}

// String returns the text as written to tables. A nil Value is an empty cell.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.literal {
		return []byte(v.text), nil
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v.text)
}

// optValue maps a gjson lookup to a field. A missing key, a JSON null, an
// object or an array yields nil; nothing fails.
func optValue(r gjson.Result) *Value {
	var v Value
	switch r.Type {
	case gjson.Number, gjson.True, gjson.False:
		v = NumberValue(r.Raw)
	case gjson.String:
		v = StringValue(r.Str)
	default:
		return nil
	}
	return &v
}

// object returns r when it is a JSON object and an empty result otherwise, so
// lookups through a missing intermediate key keep yielding nothing.
func object(r gjson.Result) gjson.Result {
	if r.IsObject() {
		return r
	}
	return gjson.Result{}
}
