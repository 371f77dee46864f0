package attribute

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/dball/attributive/internal/casting"
)

// Declaration names an attribute and its type.
type Declaration struct {
	Name string
	Type casting.Type
}

// Set is a record's mapping of attribute names to attributes. Every
// declared slot starts uninitialized. A set is owned by exactly one
// record and is not safe for concurrent mutation.
type Set struct {
	attrs map[string]*Attribute
	keys  []string
}

func NewSet(decls ...Declaration) (set *Set) {
	set = &Set{
		attrs: make(map[string]*Attribute, len(decls)),
		keys:  make([]string, 0, len(decls)),
	}
	for _, decl := range decls {
		if _, ok := set.attrs[decl.Name]; !ok {
			set.keys = append(set.keys, decl.Name)
		}
		set.attrs[decl.Name] = Uninitialized(decl.Name, decl.Type)
	}
	return
}

// Keys are the declared attribute names, in declaration order.
func (set *Set) Keys() []string {
	return slices.Clone(set.keys)
}

// Fetch returns the named attribute, or a null attribute for names the
// set does not declare.
func (set *Set) Fetch(name string) (attr *Attribute) {
	attr, ok := set.attrs[name]
	if !ok {
		attr = Null(name)
	}
	return
}

// WriteFromDatabase replaces the named attribute with a storage load.
func (set *Set) WriteFromDatabase(name string, value any) (err error) {
	attr, err := set.Fetch(name).WithValueFromDatabase(value)
	if err != nil {
		return
	}
	set.attrs[name] = attr
	return
}

// WriteFromUser replaces the named attribute with a user assignment,
// preserving the change-tracking chain.
func (set *Set) WriteFromUser(name string, value any) (err error) {
	attr, err := set.Fetch(name).WithValueFromUser(value)
	if err != nil {
		return
	}
	set.attrs[name] = attr
	return
}

// WriteCastValue replaces the named attribute with an already-cast value.
func (set *Set) WriteCastValue(name string, value any) (err error) {
	attr, err := set.Fetch(name).WithCastValue(value)
	if err != nil {
		return
	}
	set.attrs[name] = attr
	return
}

// Values maps initialized attribute names to their cast values.
func (set *Set) Values() (values map[string]any) {
	values = make(map[string]any, len(set.keys))
	for _, name := range set.keys {
		attr := set.attrs[name]
		if attr.Initialized() {
			values[name] = attr.Value()
		}
	}
	return
}

// ValuesForDatabase maps initialized attribute names to their serialized
// values.
func (set *Set) ValuesForDatabase() (values map[string]any, err error) {
	values = make(map[string]any, len(set.keys))
	for _, name := range set.keys {
		attr := set.attrs[name]
		if !attr.Initialized() {
			continue
		}
		value, serializeErr := attr.ValueForDatabase()
		if serializeErr != nil {
			err = serializeErr
			values = nil
			return
		}
		values[name] = value
	}
	return
}

// Changed lists the names of changed attributes, in declaration order.
func (set *Set) Changed() (names []string) {
	for _, name := range set.keys {
		if set.attrs[name].Changed() {
			names = append(names, name)
		}
	}
	return
}

// ForgetAssignments resets change tracking on every initialized attribute
// to its current state. Uninitialized slots stay uninitialized.
func (set *Set) ForgetAssignments() (err error) {
	for _, name := range set.keys {
		attr := set.attrs[name]
		if !attr.Initialized() {
			continue
		}
		forgotten, forgetErr := attr.ForgettingAssignment()
		if forgetErr != nil {
			err = forgetErr
			return
		}
		set.attrs[name] = forgotten
	}
	return
}

// Reset returns a declared slot to uninitialized, keeping its type.
func (set *Set) Reset(name string) {
	attr, ok := set.attrs[name]
	if !ok {
		return
	}
	set.attrs[name] = Uninitialized(name, attr.Type())
}

// Clone copies the set. Attribute instances are shared: they are
// immutable apart from their idempotent memoization.
func (set *Set) Clone() *Set {
	return &Set{attrs: maps.Clone(set.attrs), keys: slices.Clone(set.keys)}
}
