// Package validations provides the structured validation error collection
// and its message resolution chain.
package validations

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/dball/attributive/internal/i18n"
)

// Name describes a model for message lookup.
type Name struct {
	// Human is the human-readable model name.
	Human string
	// I18nKey is the model's segment in lookup keys.
	I18nKey string
}

// Model is the capability surface errors consume from their owning
// record.
type Model interface {
	// ReadAttributeForValidation returns the current value of the named
	// attribute.
	ReadAttributeForValidation(attribute string) any
	// ModelName describes the record's model.
	ModelName() Name
	// HumanAttributeName labels an attribute, given a default label.
	HumanAttributeName(attribute string, defaultLabel string) string
	// LookupAncestors describes the model and its ancestors, most
	// specific first.
	LookupAncestors() []Name
}

// Options carries extra lookup and interpolation data for an error.
type Options map[string]any

// MessageOption is the options key holding a message override: a literal
// string becomes the ultimate default, an i18n.Key redirects the primary
// lookup key.
const MessageOption = "message"

// BaseAttribute is the attribute name of errors on the record as a whole.
const BaseAttribute = "base"

// Error is one validation failure: a record reference, an attribute name,
// a symbolic error kind, and options. Errors are immutable after
// construction.
type Error struct {
	base      Model
	backend   i18n.Backend
	attribute string
	kind      string
	options   Options
}

func newError(base Model, backend i18n.Backend, attribute string, kind string, options Options) *Error {
	if backend == nil {
		backend = i18n.NullBackend{}
	}
	if options == nil {
		options = Options{}
	}
	return &Error{base: base, backend: backend, attribute: attribute, kind: kind, options: options}
}

func (err *Error) Base() Model {
	return err.base
}

func (err *Error) Attribute() string {
	return err.attribute
}

func (err *Error) Kind() string {
	return err.kind
}

func (err *Error) Options() Options {
	return maps.Clone(err.options)
}

// lookupKind is the kind used in lookup keys: a symbolic message override
// redirects it.
func (err *Error) lookupKind() string {
	if key, ok := err.options[MessageOption].(i18n.Key); ok {
		return string(key)
	}
	return err.kind
}

// messageKeys is the ordered candidate key list: per-ancestor attribute
// and model scoped keys, then the global attribute and message defaults.
func (err *Error) messageKeys() (keys []i18n.Key) {
	kind := err.lookupKind()
	if err.base != nil {
		for _, ancestor := range err.base.LookupAncestors() {
			keys = append(keys,
				i18n.Key("errors.models."+ancestor.I18nKey+".attributes."+err.attribute+"."+kind),
				i18n.Key("errors.models."+ancestor.I18nKey+"."+kind))
		}
	}
	keys = append(keys,
		i18n.Key("errors.attributes."+err.attribute+"."+kind),
		i18n.Key("errors.messages."+kind))
	return
}

// Message resolves the error's message through the candidate key chain. A
// literal message override is the ultimate default; when nothing resolves
// a diagnostic is returned rather than failing the validation pass.
func (err *Error) Message() string {
	keys := err.messageKeys()
	defaults := make([]any, 0, len(keys))
	for _, key := range keys[1:] {
		defaults = append(defaults, key)
	}
	if literal, ok := err.options[MessageOption].(string); ok {
		defaults = append(defaults, literal)
	}
	vars := err.interpolationVars()
	message, ok := err.backend.Translate(keys[0], defaults, vars)
	if !ok {
		return "translation missing: " + string(keys[0])
	}
	return message
}

func (err *Error) interpolationVars() (vars map[string]any) {
	vars = make(map[string]any, len(err.options)+4)
	for key, value := range err.options {
		if key == MessageOption {
			continue
		}
		vars[key] = value
	}
	if err.base == nil {
		if _, ok := vars["attribute"]; !ok {
			vars["attribute"] = Humanize(err.attribute)
		}
		return
	}
	vars["model"] = err.base.ModelName().Human
	vars["attribute"] = err.base.HumanAttributeName(err.attribute, Humanize(err.attribute))
	vars["object"] = err.base
	if err.attribute != BaseAttribute {
		vars["value"] = err.base.ReadAttributeForValidation(err.attribute)
	}
	return
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// FullMessage prefixes the message with the humanized attribute name per
// the configured format chain. Base errors return the bare message.
// Dotted attribute paths contribute namespace segments to the format
// lookup; index markers are stripped for the lookup but preserved in the
// fallback label.
func (err *Error) FullMessage() string {
	message := err.Message()
	if err.attribute == BaseAttribute {
		return message
	}
	lookupAttribute := indexPattern.ReplaceAllString(err.attribute, "")
	parts := strings.Split(lookupAttribute, ".")
	attributeName := parts[len(parts)-1]
	namespace := strings.Join(parts[:len(parts)-1], "/")
	var candidates []any
	if DefaultConfig.FullMessageFormatChain && err.base != nil {
		for _, ancestor := range err.base.LookupAncestors() {
			modelKey := "errors.models." + ancestor.I18nKey
			if namespace != "" {
				candidates = append(candidates,
					i18n.Key(modelKey+"/"+namespace+".attributes."+attributeName+".format"),
					i18n.Key(modelKey+"/"+namespace+".format"))
			} else {
				candidates = append(candidates,
					i18n.Key(modelKey+".attributes."+attributeName+".format"),
					i18n.Key(modelKey+".format"))
			}
		}
	}
	candidates = append(candidates, i18n.Key("errors.format"), fullMessageTemplate)
	label := Humanize(strings.ReplaceAll(err.attribute, ".", "_"))
	if err.base != nil {
		label = err.base.HumanAttributeName(err.attribute, label)
	}
	vars := map[string]any{"attribute": label, "message": message}
	full, ok := err.backend.Translate(candidates[0].(i18n.Key), candidates[1:], vars)
	if !ok {
		full = i18n.Interpolate(fullMessageTemplate, vars)
	}
	return full
}

const fullMessageTemplate = "%{attribute} %{message}"

// Match reports whether the error is against the attribute, with the kind
// if one is given, and carries every given option. The empty kind matches
// any kind.
func (err *Error) Match(attribute string, kind string, options Options) bool {
	if err.attribute != attribute {
		return false
	}
	if kind != "" && err.kind != kind {
		return false
	}
	for key, value := range options {
		if !reflect.DeepEqual(err.options[key], value) {
			return false
		}
	}
	return true
}

// StrictMatch is Match plus full-message equality against a freshly
// constructed error, detecting whether two different constructions render
// identically.
func (err *Error) StrictMatch(attribute string, kind string, options Options) bool {
	if !err.Match(attribute, kind, options) {
		return false
	}
	other := newError(err.base, err.backend, attribute, kind, options)
	return err.FullMessage() == other.FullMessage()
}

// Equal is structural over (base, attribute, kind, options).
func (err *Error) Equal(other *Error) bool {
	return other != nil &&
		err.base == other.base &&
		err.attribute == other.attribute &&
		err.kind == other.kind &&
		reflect.DeepEqual(err.options, other.options)
}

// Hash is consistent with Equal, over the error's value fields.
func (err *Error) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%s", err.attribute, err.kind)
	keys := maps.Keys(err.options)
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(h, "/%s=%v", key, err.options[key])
	}
	return h.Sum64()
}

// Copy deep-copies the error for a duplicated record.
func (err *Error) Copy(base Model) *Error {
	return newError(base, err.backend, err.attribute, err.kind, maps.Clone(err.options))
}

func (err *Error) String() string {
	return fmt.Sprintf("#error[%s %s %v]", err.attribute, err.kind, err.options)
}

// Humanize renders an attribute name as a human label.
func Humanize(attribute string) string {
	label := strings.ReplaceAll(attribute, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
