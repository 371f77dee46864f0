// Package model contains the public types and functions for attributive.
package model

import (
	"github.com/dball/attributive/internal/attribute"
	"github.com/dball/attributive/internal/casting"
	"github.com/dball/attributive/internal/i18n"
	"github.com/dball/attributive/internal/validations"
)

// Name describes a model for message lookup.
type Name = validations.Name

// Options carries extra lookup and interpolation data for an error.
type Options = validations.Options

// Config configures a model definition.
type Config struct {
	// Name identifies the model in translated messages.
	Name Name
	// Ancestors are more general model names consulted for message
	// lookup after Name, most specific first.
	Ancestors []Name
	// Backend resolves message templates. If nil, no keys resolve and
	// only literal defaults render.
	Backend i18n.Backend
	// Registry resolves attribute type names. If nil, the default
	// registry is used.
	Registry *casting.Registry
}

// Field declares one typed attribute of a model.
type Field struct {
	// Name is the attribute name.
	Name string
	// Type is the registered type name, e.g. integer or decimal.
	Type string
	// Opts configure the type lookup, e.g. casting.Limit(6).
	Opts []casting.Option
}

// Definition is an analyzed model: its attribute declarations resolved
// against a type registry.
type Definition struct {
	config Config
	decls  []attribute.Declaration
}

// NewDefinition resolves the fields against the registry.
func NewDefinition(config Config, fields ...Field) (def *Definition, err error) {
	registry := config.Registry
	if registry == nil {
		registry = casting.NewDefaultRegistry()
	}
	decls := make([]attribute.Declaration, 0, len(fields))
	for _, field := range fields {
		typ, lookupErr := registry.Lookup(field.Type, field.Opts...)
		if lookupErr != nil {
			err = lookupErr
			return
		}
		decls = append(decls, attribute.Declaration{Name: field.Name, Type: typ})
	}
	def = &Definition{config: config, decls: decls}
	return
}

// NewRecord builds an empty record of this definition. Every attribute
// starts uninitialized.
func (def *Definition) NewRecord() (record *Record) {
	record = &Record{definition: def, attributes: attribute.NewSet(def.decls...)}
	record.errors = validations.NewErrors(record, def.config.Backend)
	return
}

// Record is one instance of a definition: a set of typed attributes plus
// the validation errors collected against them. Records are
// single-threaded; they are not safe for concurrent use.
type Record struct {
	definition *Definition
	attributes *attribute.Set
	errors     *validations.Errors
}

var _ validations.Model = (*Record)(nil)

// Attributes is the record's attribute set.
func (record *Record) Attributes() *attribute.Set {
	return record.attributes
}

// Errors is the record's validation error collection.
func (record *Record) Errors() *validations.Errors {
	return record.errors
}

// Load writes values as loaded from storage, resetting change tracking.
func (record *Record) Load(values map[string]any) (err error) {
	for name, value := range values {
		err = record.attributes.WriteFromDatabase(name, value)
		if err != nil {
			return
		}
	}
	return
}

// Assign writes one value as user input.
func (record *Record) Assign(name string, value any) error {
	return record.attributes.WriteFromUser(name, value)
}

// Get reads the cast value of one attribute.
func (record *Record) Get(name string) any {
	return record.attributes.Fetch(name).Value()
}

// Changed lists the names of changed attributes.
func (record *Record) Changed() []string {
	return record.attributes.Changed()
}

func (record *Record) ReadAttributeForValidation(attribute string) any {
	return record.attributes.Fetch(attribute).Value()
}

func (record *Record) ModelName() Name {
	return record.definition.config.Name
}

func (record *Record) HumanAttributeName(attribute string, defaultLabel string) string {
	return defaultLabel
}

func (record *Record) LookupAncestors() (names []Name) {
	names = append(names, record.definition.config.Name)
	names = append(names, record.definition.config.Ancestors...)
	return
}
