// Package i18n provides the message lookup capability the validation
// errors render through.
package i18n

import (
	"fmt"
	"regexp"
)

// Key is a hierarchical lookup key into a translation backend, e.g.
// errors.messages.blank.
type Key string

// Backend resolves keys to messages. Defaults are tried in order after
// the key: a Key element is looked up, a string element is used verbatim.
// Every resolved template has its %{var} markers interpolated from vars.
// Ok is false only when neither the key nor any default resolved.
type Backend interface {
	Translate(key Key, defaults []any, vars map[string]any) (message string, ok bool)
}

// NullBackend resolves no keys, so only literal defaults produce
// messages.
type NullBackend struct{}

var _ Backend = NullBackend{}

func (NullBackend) Translate(_ Key, defaults []any, vars map[string]any) (message string, ok bool) {
	for _, dflt := range defaults {
		if literal, isLiteral := dflt.(string); isLiteral {
			message = Interpolate(literal, vars)
			ok = true
			return
		}
	}
	return
}

var varPattern = regexp.MustCompile(`%\{(\w+)\}`)

// Interpolate substitutes %{var} markers from vars. Unknown vars are left
// in place.
func Interpolate(template string, vars map[string]any) string {
	return varPattern.ReplaceAllStringFunc(template, func(marker string) string {
		value, ok := vars[marker[2:len(marker)-1]]
		if !ok {
			return marker
		}
		return fmt.Sprint(value)
	})
}
