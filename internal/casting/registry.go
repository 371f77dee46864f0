package casting

import (
	. "github.com/dball/attributive/internal/types"
)

// Options configure a type lookup.
type Options struct {
	// Limit is the serialized byte width for integer kinds.
	Limit int
	// Precision is the significant digit count for decimal kinds.
	Precision int
	// Scale is the rounding scale for decimal kinds. ScaleSet
	// distinguishes a zero scale from an absent one.
	Scale    int
	ScaleSet bool
	// TrueStr and FalseStr override the boolean string tokens. TokensSet
	// distinguishes empty tokens from absent ones.
	TrueStr   string
	FalseStr  string
	TokensSet bool
}

// Option adjusts lookup options.
type Option func(opts *Options)

func Limit(limit int) Option {
	return func(opts *Options) { opts.Limit = limit }
}

func Precision(precision int) Option {
	return func(opts *Options) { opts.Precision = precision }
}

func Scale(scale int) Option {
	return func(opts *Options) {
		opts.Scale = scale
		opts.ScaleSet = true
	}
}

func Tokens(trueStr string, falseStr string) Option {
	return func(opts *Options) {
		opts.TrueStr = trueStr
		opts.FalseStr = falseStr
		opts.TokensSet = true
	}
}

// Factory builds a type instance for a lookup.
type Factory func(opts Options) Type

// Registry maps symbolic kind names to type factories. Registries are not
// safe for concurrent registration.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register binds a factory to a name. The last registration for a name
// wins.
func (registry *Registry) Register(name string, factory Factory) {
	registry.factories[name] = factory
}

// Lookup builds the type registered under name.
func (registry *Registry) Lookup(name string, opts ...Option) (typ Type, err error) {
	factory, ok := registry.factories[name]
	if !ok {
		err = NewError(CodeUnknownType, "name", name)
		return
	}
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	typ = factory(options)
	return
}

// NewDefaultRegistry builds a registry with the system types registered.
func NewDefaultRegistry() (registry *Registry) {
	registry = NewRegistry()
	registry.Register("value", func(Options) Type { return NewValue() })
	registry.Register("string", func(Options) Type { return NewString() })
	registry.Register("immutable_string", func(opts Options) Type {
		if opts.TokensSet {
			return NewImmutableString(opts.TrueStr, opts.FalseStr)
		}
		return NewImmutableString("t", "f")
	})
	registry.Register("boolean", func(Options) Type { return NewBoolean() })
	registry.Register("integer", func(opts Options) Type {
		if opts.Limit > 0 {
			return NewIntegerWithLimit(opts.Limit)
		}
		return NewInteger()
	})
	registry.Register("big_integer", func(Options) Type { return NewBigInteger() })
	registry.Register("float", func(Options) Type { return NewFloat() })
	registry.Register("decimal", func(opts Options) Type {
		t := NewDecimal()
		if opts.Precision > 0 {
			t = t.WithPrecision(opts.Precision)
		}
		if opts.ScaleSet {
			t = t.WithScale(opts.Scale)
		}
		return t
	})
	return
}
