package validations

import (
	"golang.org/x/exp/slices"

	"github.com/dball/attributive/internal/i18n"
)

// DefaultKind is the kind of errors added without one.
const DefaultKind = "invalid"

// Errors is the ordered validation failure collection of one record.
// Insertion order is preserved and duplicates are allowed; downstream
// consumers may deduplicate for display. A collection is owned by exactly
// one record and is not safe for concurrent mutation.
type Errors struct {
	base    Model
	backend i18n.Backend
	errors  []*Error
}

func NewErrors(base Model, backend i18n.Backend) *Errors {
	if backend == nil {
		backend = i18n.NullBackend{}
	}
	return &Errors{base: base, backend: backend}
}

// Add appends a new error against the attribute and returns it. The empty
// kind defaults to invalid.
func (errs *Errors) Add(attribute string, kind string, options Options) (err *Error) {
	if kind == "" {
		kind = DefaultKind
	}
	err = newError(errs.base, errs.backend, attribute, kind, options)
	errs.errors = append(errs.errors, err)
	return
}

// Clear empties the collection, as at the start of a validation pass.
func (errs *Errors) Clear() {
	errs.errors = nil
}

// All returns the errors in insertion order.
func (errs *Errors) All() []*Error {
	return slices.Clone(errs.errors)
}

func (errs *Errors) Size() int {
	return len(errs.errors)
}

func (errs *Errors) IsEmpty() bool {
	return len(errs.errors) == 0
}

func (errs *Errors) First() (err *Error) {
	if len(errs.errors) > 0 {
		err = errs.errors[0]
	}
	return
}

// Each calls fn with every error in insertion order.
func (errs *Errors) Each(fn func(err *Error)) {
	for _, err := range errs.errors {
		fn(err)
	}
}

// Where filters by attribute, kind and options, per Error.Match.
func (errs *Errors) Where(attribute string, kind string, options Options) (matches []*Error) {
	for _, err := range errs.errors {
		if err.Match(attribute, kind, options) {
			matches = append(matches, err)
		}
	}
	return
}

// Include reports whether any error is against the attribute.
func (errs *Errors) Include(attribute string) bool {
	return slices.IndexFunc(errs.errors, func(err *Error) bool {
		return err.attribute == attribute
	}) >= 0
}

// OfKind reports whether any error is against the attribute with the
// kind.
func (errs *Errors) OfKind(attribute string, kind string) bool {
	if kind == "" {
		kind = DefaultKind
	}
	return slices.IndexFunc(errs.errors, func(err *Error) bool {
		return err.attribute == attribute && err.kind == kind
	}) >= 0
}

// MessagesFor returns the messages of every error against the attribute,
// in insertion order.
func (errs *Errors) MessagesFor(attribute string) (messages []string) {
	for _, err := range errs.errors {
		if err.attribute == attribute {
			messages = append(messages, err.Message())
		}
	}
	return
}

// FullMessages maps every error to its full message, in insertion order.
func (errs *Errors) FullMessages() (messages []string) {
	for _, err := range errs.errors {
		messages = append(messages, err.FullMessage())
	}
	return
}

// FullMessagesFor returns the full messages of every error against the
// attribute, in insertion order.
func (errs *Errors) FullMessagesFor(attribute string) (messages []string) {
	for _, err := range errs.errors {
		if err.attribute == attribute {
			messages = append(messages, err.FullMessage())
		}
	}
	return
}

// AsData groups messages by attribute, preserving insertion order within
// each attribute.
func (errs *Errors) AsData() (data map[string][]string) {
	data = map[string][]string{}
	for _, err := range errs.errors {
		data[err.attribute] = append(data[err.attribute], err.Message())
	}
	return
}

// CopyTo deep-copies the collection for a duplicated record.
func (errs *Errors) CopyTo(base Model) (copied *Errors) {
	copied = NewErrors(base, errs.backend)
	copied.errors = make([]*Error, 0, len(errs.errors))
	for _, err := range errs.errors {
		copied.errors = append(copied.errors, err.Copy(base))
	}
	return
}
