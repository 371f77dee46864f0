package casting

import (
	"fmt"
	"reflect"

	. "github.com/dball/attributive/internal/types"
)

// StringType casts values to strings. Booleans cast to configurable
// tokens. Go strings are immutable, so this type serves both the string
// and immutable string kinds, differing only in name.
type StringType struct {
	Base
	trueStr  string
	falseStr string
}

func NewString() StringType {
	return StringType{Base{name: "string"}, "t", "f"}
}

func NewImmutableString(trueStr string, falseStr string) StringType {
	return StringType{Base{name: "immutable_string"}, trueStr, falseStr}
}

func (t StringType) Cast(raw any) any {
	if raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		if v {
			return t.trueStr
		}
		return t.falseStr
	default:
		return fmt.Sprint(v)
	}
}

func (t StringType) Deserialize(stored any) any {
	return t.Cast(stored)
}

func (t StringType) Serialize(value any) (stored any, err error) {
	stored = t.Cast(value)
	return
}

func (t StringType) Equal(other Type) bool {
	o, ok := other.(StringType)
	return ok && t.name == o.name && t.trueStr == o.trueStr && t.falseStr == o.falseStr
}

// falseValues are the raw values BooleanType recognizes as false. Every
// other non-nil, non-blank value casts to true.
var falseValues = map[any]Void{
	false:    {},
	0:        {},
	int64(0): {},
	"0":      {},
	"f":      {},
	"F":      {},
	"false":  {},
	"FALSE":  {},
	"off":    {},
	"OFF":    {},
}

// BooleanType casts values to booleans. The empty string casts to nil.
type BooleanType struct {
	Base
}

func NewBoolean() BooleanType {
	return BooleanType{Base{name: "boolean"}}
}

func (t BooleanType) Cast(raw any) any {
	if raw == nil {
		return nil
	}
	if s, ok := raw.(string); ok && s == "" {
		return nil
	}
	if !reflect.TypeOf(raw).Comparable() {
		return true
	}
	_, isFalse := falseValues[raw]
	return !isFalse
}

func (t BooleanType) Deserialize(stored any) any {
	return t.Cast(stored)
}
