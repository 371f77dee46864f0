package i18n

import (
	"io/fs"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	. "github.com/dball/attributive/internal/types"
)

// catalogFile is the YAML shape of one locale catalog.
type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog is a backend over per-locale flat key-to-template maps. Lookups
// try the current locale, then its parents, then the base locale.
type Catalog struct {
	base     language.Tag
	locale   language.Tag
	messages map[language.Tag]map[Key]string
}

var _ Backend = (*Catalog)(nil)

func NewCatalog(baseLocale string) (catalog *Catalog, err error) {
	tag, parseErr := language.Parse(baseLocale)
	if parseErr != nil {
		err = NewError("i18n.invalidLocale", "locale", baseLocale, "cause", parseErr)
		return
	}
	catalog = &Catalog{
		base:     tag,
		locale:   tag,
		messages: map[language.Tag]map[Key]string{},
	}
	return
}

// SetLocale changes the locale lookups try first.
func (catalog *Catalog) SetLocale(locale string) (err error) {
	tag, parseErr := language.Parse(locale)
	if parseErr != nil {
		err = NewError("i18n.invalidLocale", "locale", locale, "cause", parseErr)
		return
	}
	catalog.locale = tag
	return
}

// Set binds one key to a template in a locale.
func (catalog *Catalog) Set(locale string, key Key, template string) (err error) {
	tag, parseErr := language.Parse(locale)
	if parseErr != nil {
		err = NewError("i18n.invalidLocale", "locale", locale, "cause", parseErr)
		return
	}
	messages, ok := catalog.messages[tag]
	if !ok {
		messages = map[Key]string{}
		catalog.messages[tag] = messages
	}
	messages[key] = template
	return
}

// Load merges one YAML catalog document.
func (catalog *Catalog) Load(data []byte) (err error) {
	var file catalogFile
	parseErr := yaml.Unmarshal(data, &file)
	if parseErr != nil {
		err = NewError("i18n.invalidCatalog", "cause", parseErr)
		return
	}
	if file.Locale == "" {
		err = NewError("i18n.missingLocale")
		return
	}
	if len(file.Messages) == 0 {
		err = NewError("i18n.missingMessages", "locale", file.Locale)
		return
	}
	for key, template := range file.Messages {
		err = catalog.Set(file.Locale, Key(key), template)
		if err != nil {
			return
		}
	}
	return
}

// LoadFS merges every catalog file matching the glob pattern.
func (catalog *Catalog) LoadFS(fsys fs.FS, pattern string) (err error) {
	paths, globErr := fs.Glob(fsys, pattern)
	if globErr != nil {
		err = NewError("i18n.invalidPattern", "pattern", pattern, "cause", globErr)
		return
	}
	for _, path := range paths {
		data, readErr := fs.ReadFile(fsys, path)
		if readErr != nil {
			err = NewError("i18n.unreadableCatalog", "path", path, "cause", readErr)
			return
		}
		err = catalog.Load(data)
		if err != nil {
			return
		}
	}
	return
}

func (catalog *Catalog) Translate(key Key, defaults []any, vars map[string]any) (message string, ok bool) {
	template, found := catalog.lookup(key)
	if found {
		message = Interpolate(template, vars)
		ok = true
		return
	}
	for _, dflt := range defaults {
		switch d := dflt.(type) {
		case Key:
			template, found = catalog.lookup(d)
			if found {
				message = Interpolate(template, vars)
				ok = true
				return
			}
		case string:
			message = Interpolate(d, vars)
			ok = true
			return
		}
	}
	return
}

func (catalog *Catalog) lookup(key Key) (template string, ok bool) {
	for tag := catalog.locale; ; tag = tag.Parent() {
		template, ok = catalog.messages[tag][key]
		if ok {
			return
		}
		if tag == language.Und {
			break
		}
	}
	if catalog.locale != catalog.base {
		template, ok = catalog.messages[catalog.base][key]
	}
	return
}
