// Package attribute provides the typed attribute state machine.
package attribute

import (
	"fmt"
	"hash/fnv"
	"reflect"

	"github.com/dball/attributive/internal/casting"
	. "github.com/dball/attributive/internal/types"
)

// origin is the provenance of an attribute's raw value. It determines how
// the raw value casts and which change-detection rules apply.
type origin interface {
	kind() string
	typeCast(typ casting.Type, raw any) any
}

// fromDatabase raw values cast through Deserialize.
type fromDatabase struct{}

func (fromDatabase) kind() string { return "database" }

func (fromDatabase) typeCast(typ casting.Type, raw any) any {
	return typ.Deserialize(raw)
}

// fromUser raw values cast through Cast.
type fromUser struct{}

func (fromUser) kind() string { return "user" }

func (fromUser) typeCast(typ casting.Type, raw any) any {
	return typ.Cast(raw)
}

// withCast raw values are already cast.
type withCast struct{}

func (withCast) kind() string { return "cast" }

func (withCast) typeCast(_ casting.Type, raw any) any {
	return raw
}

// nullOrigin is the name-only sentinel for unknown attribute slots.
type nullOrigin struct{}

func (nullOrigin) kind() string { return "null" }

func (nullOrigin) typeCast(_ casting.Type, _ any) any {
	return nil
}

// uninitialized attributes have no value at all.
type uninitialized struct{}

func (uninitialized) kind() string { return "uninitialized" }

func (uninitialized) typeCast(_ casting.Type, _ any) any {
	return nil
}

// Attribute pairs a named raw value with the type that casts it.
// Instances are immutable once observed, except for the one-time
// memoization of the cast value, which is idempotent but not safe for
// concurrent use.
type Attribute struct {
	name     string
	raw      any
	typ      casting.Type
	origin   origin
	original *Attribute
	memo     Memo
}

// FromDatabase builds an attribute whose raw value came from storage.
func FromDatabase(name string, raw any, typ casting.Type) *Attribute {
	return &Attribute{name: name, raw: raw, typ: typ, origin: fromDatabase{}}
}

// FromUser builds an attribute whose raw value came from user input,
// chained to the attribute it replaced. Original may be nil.
func FromUser(name string, raw any, typ casting.Type, original *Attribute) *Attribute {
	return &Attribute{name: name, raw: raw, typ: typ, origin: fromUser{}, original: original}
}

// WithCastValue builds an attribute whose raw value is already the cast
// value. The value is memoized immediately.
func WithCastValue(name string, value any, typ casting.Type) (attr *Attribute) {
	attr = &Attribute{name: name, raw: value, typ: typ, origin: withCast{}}
	attr.memo.Set(value)
	return
}

// Null builds the sentinel attribute for a name the owner does not
// declare. Its value is always nil and it cannot be written.
func Null(name string) *Attribute {
	return &Attribute{name: name, typ: casting.NewValue(), origin: nullOrigin{}}
}

// Uninitialized builds the attribute a declaration starts with, before
// any load or assignment.
func Uninitialized(name string, typ casting.Type) *Attribute {
	return &Attribute{name: name, typ: typ, origin: uninitialized{}}
}

func (a *Attribute) Name() string {
	return a.name
}

func (a *Attribute) Type() casting.Type {
	return a.typ
}

func (a *Attribute) ValueBeforeTypeCast() any {
	return a.raw
}

// Value casts the raw value through the origin's coercion, at most once
// per instance.
func (a *Attribute) Value() any {
	if value, ok := a.memo.Get(); ok {
		return value
	}
	if _, ok := a.origin.(uninitialized); ok {
		return nil
	}
	value := a.origin.typeCast(a.typ, a.raw)
	a.memo.Set(value)
	return value
}

// ValueWithDefault is Value, except uninitialized attributes produce
// their value from the fallback, keyed by name. The fallback result is
// not memoized.
func (a *Attribute) ValueWithDefault(fallback func(name string) any) any {
	if _, ok := a.origin.(uninitialized); ok && fallback != nil {
		return fallback(a.name)
	}
	return a.Value()
}

// HasBeenRead reports whether the cast value was computed.
func (a *Attribute) HasBeenRead() bool {
	_, ok := a.memo.Get()
	return ok
}

// Initialized is false only for uninitialized attributes.
func (a *Attribute) Initialized() bool {
	_, ok := a.origin.(uninitialized)
	return !ok
}

// CameFromUser reports whether the raw value was supplied by a user, as
// opposed to being synthesized by the type during mass assignment.
func (a *Attribute) CameFromUser() bool {
	if _, ok := a.origin.(fromUser); !ok {
		return false
	}
	return !a.typ.ValueConstructed(a.raw)
}

// OriginalValue is the cast value of the first attribute in the
// reassignment chain. Uninitialized attributes report a sentinel
// distinguishable from nil and from any real value.
func (a *Attribute) OriginalValue() any {
	if a.original != nil {
		return a.original.OriginalValue()
	}
	if _, ok := a.origin.(uninitialized); ok {
		return UninitializedValue
	}
	return a.origin.typeCast(a.typ, a.raw)
}

// OriginalValueForDatabase is the storage representation of the original
// value.
func (a *Attribute) OriginalValueForDatabase() (value any, err error) {
	if a.original != nil {
		return a.original.OriginalValueForDatabase()
	}
	switch a.origin.(type) {
	case fromDatabase:
		value = a.raw
		return
	case uninitialized:
		return
	}
	return a.typ.Serialize(a.OriginalValue())
}

// ValueForDatabase serializes the cast value for persistence.
func (a *Attribute) ValueForDatabase() (value any, err error) {
	return a.typ.Serialize(a.Value())
}

// Changed reports whether the value differs from the original, either by
// reassignment or by in-place mutation after a read.
func (a *Attribute) Changed() bool {
	return a.changedFromAssignment() || a.ChangedInPlace()
}

func (a *Attribute) changedFromAssignment() bool {
	return a.original != nil && a.typ.Changed(a.OriginalValue(), a.Value(), a.raw)
}

// ChangedInPlace reports whether the cast value was mutated after it was
// read. Attributes built directly from cast values are never changed in
// place.
func (a *Attribute) ChangedInPlace() bool {
	switch a.origin.(type) {
	case fromDatabase, fromUser:
	default:
		return false
	}
	if !a.HasBeenRead() {
		return false
	}
	originalForDatabase, err := a.OriginalValueForDatabase()
	if err != nil {
		return false
	}
	return a.typ.ChangedInPlace(originalForDatabase, a.Value())
}

// WithValueFromUser replaces the attribute with a user assignment,
// chaining back to the first attribute in the reassignment chain so
// change tracking always compares against the true origin.
func (a *Attribute) WithValueFromUser(value any) (attr *Attribute, err error) {
	if _, ok := a.origin.(nullOrigin); ok {
		err = NewError(CodeMissingAttribute, "name", a.name)
		return
	}
	err = a.typ.AssertValidValue(value)
	if err != nil {
		return
	}
	original := a.original
	if original == nil {
		original = a
	}
	attr = FromUser(a.name, value, a.typ, original)
	return
}

// WithValueFromDatabase replaces the attribute with a storage load,
// resetting change tracking.
func (a *Attribute) WithValueFromDatabase(value any) (attr *Attribute, err error) {
	if _, ok := a.origin.(nullOrigin); ok {
		err = NewError(CodeMissingAttribute, "name", a.name)
		return
	}
	attr = FromDatabase(a.name, value, a.typ)
	return
}

// WithCastValue replaces the attribute with an already-cast value.
func (a *Attribute) WithCastValue(value any) (attr *Attribute, err error) {
	if _, ok := a.origin.(nullOrigin); ok {
		err = NewError(CodeMissingAttribute, "name", a.name)
		return
	}
	attr = WithCastValue(a.name, value, a.typ)
	return
}

// WithType re-types the attribute. A value mutated in place is first
// frozen into a user assignment so the mutation is not lost.
func (a *Attribute) WithType(typ casting.Type) (attr *Attribute, err error) {
	if _, ok := a.origin.(nullOrigin); ok {
		attr = WithCastValue(a.name, nil, typ)
		return
	}
	if a.ChangedInPlace() {
		attr, err = a.WithValueFromUser(a.Value())
		if err != nil {
			return
		}
		return attr.WithType(typ)
	}
	attr = &Attribute{name: a.name, raw: a.raw, typ: typ, origin: a.origin, original: a.original}
	if _, ok := a.origin.(withCast); ok {
		attr.memo.Set(a.raw)
	}
	return
}

// ForgettingAssignment produces a database attribute seeded with the
// current serialized value, resetting change tracking to the current
// state without a storage round trip.
func (a *Attribute) ForgettingAssignment() (attr *Attribute, err error) {
	value, err := a.ValueForDatabase()
	if err != nil {
		return
	}
	return a.WithValueFromDatabase(value)
}

// Equal is structural over (variant, name, raw value, type).
func (a *Attribute) Equal(other *Attribute) bool {
	return other != nil &&
		a.origin.kind() == other.origin.kind() &&
		a.name == other.name &&
		reflect.DeepEqual(a.raw, other.raw) &&
		a.typ.Equal(other.typ)
}

// Hash is consistent with Equal.
func (a *Attribute) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%s/%v/%s", a.origin.kind(), a.name, a.raw, a.typ.Name())
	return h.Sum64()
}

func (a *Attribute) String() string {
	return fmt.Sprintf("#attr[%s %s %v]", a.origin.kind(), a.name, a.raw)
}
