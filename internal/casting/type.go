// Package casting provides the value coercion types and their registry.
package casting

import (
	"reflect"
)

// Type is an immutable value-semantics coercion unit. Cast and Serialize
// are pure functions of their argument plus the type's own configuration,
// so instances may be shared by reference across many attributes.
type Type interface {
	// Name is the symbolic kind of the type.
	Name() string
	// Cast coerces a raw value into the domain value. Nil passes through,
	// and invalid input degrades to nil or a best-effort value, never an
	// error.
	Cast(raw any) any
	// Serialize converts a domain value into its storage representation.
	Serialize(value any) (stored any, err error)
	// Deserialize converts a storage representation into a domain value.
	Deserialize(stored any) any
	// Changed reports whether the current cast value differs from the
	// original cast value.
	Changed(originalCast any, cast any, raw any) bool
	// ChangedInPlace reports whether a cast value was mutated after it was
	// read, comparing the original storage representation with the current
	// cast value.
	ChangedInPlace(rawOriginalForDatabase any, cast any) bool
	// Serializable reports whether the value may be serialized. When it
	// may not, whenInvalid is invoked with the offending cast value.
	Serializable(value any, whenInvalid func(value any)) bool
	// ValueConstructed reports whether the raw value was produced by this
	// type itself during mass assignment.
	ValueConstructed(raw any) bool
	// AssertValidValue fails if the raw value may not be assigned.
	AssertValidValue(raw any) error
	// Equal reports structural equality of type configurations.
	Equal(other Type) bool
}

// Base supplies the default behaviors. Concrete types embed it and
// override the narrow set of methods they change.
type Base struct {
	name string
}

func (base Base) Name() string {
	return base.name
}

func (base Base) Serialize(value any) (stored any, err error) {
	stored = value
	return
}

func (base Base) Changed(originalCast any, cast any, _ any) bool {
	return !reflect.DeepEqual(originalCast, cast)
}

func (base Base) ChangedInPlace(_ any, _ any) bool {
	return false
}

func (base Base) Serializable(_ any, _ func(value any)) bool {
	return true
}

func (base Base) ValueConstructed(_ any) bool {
	return false
}

func (base Base) AssertValidValue(_ any) error {
	return nil
}

func (base Base) Equal(other Type) bool {
	return base.name == other.Name()
}

// ValueType passes values through untouched. It is the type of attributes
// that declare no other.
type ValueType struct {
	Base
}

func NewValue() ValueType {
	return ValueType{Base{name: "value"}}
}

func (t ValueType) Cast(raw any) any {
	return raw
}

func (t ValueType) Deserialize(stored any) any {
	return t.Cast(stored)
}
