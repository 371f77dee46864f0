package casting

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	. "github.com/dball/attributive/internal/types"
)

func TestCastIsProjection(t *testing.T) {
	types := []Type{
		NewValue(),
		NewString(),
		NewImmutableString("t", "f"),
		NewBoolean(),
		NewInteger(),
		NewBigInteger(),
		NewFloat(),
		NewDecimal(),
	}
	values := []any{nil, true, false, 0, 42, -7, 3.14, "12", "12.5", "nope", ""}
	for _, typ := range types {
		for _, value := range values {
			once := typ.Cast(value)
			twice := typ.Cast(once)
			if d, ok := once.(decimal.Decimal); ok {
				assert.True(t, d.Equal(twice.(decimal.Decimal)), "%s cast of %v", typ.Name(), value)
				continue
			}
			if f, ok := once.(float64); ok && math.IsNaN(f) {
				assert.True(t, math.IsNaN(twice.(float64)))
				continue
			}
			assert.Equal(t, once, twice, "%s cast of %v", typ.Name(), value)
		}
	}
}

func TestInteger(t *testing.T) {
	typ := NewInteger()

	t.Run("casts", func(t *testing.T) {
		assert.Nil(t, typ.Cast(nil))
		assert.Equal(t, int64(1), typ.Cast(true))
		assert.Equal(t, int64(0), typ.Cast(false))
		assert.Equal(t, int64(5), typ.Cast(5))
		assert.Equal(t, int64(5), typ.Cast("5"))
		assert.Equal(t, int64(1), typ.Cast("1.7"))
		assert.Equal(t, int64(-1), typ.Cast(-1.7))
		assert.Nil(t, typ.Cast("not an integer"))
		assert.Nil(t, typ.Cast(struct{}{}))
	})

	t.Run("serialize enforces the default four byte range", func(t *testing.T) {
		stored, err := typ.Serialize(int64(1) << 31)
		assert.Nil(t, stored)
		assert.ErrorIs(t, err, ErrRange)

		stored, err = typ.Serialize(int64(1)<<31 - 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1)<<31-1, stored)

		stored, err = typ.Serialize(nil)
		assert.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("a wider limit widens the range", func(t *testing.T) {
		wide := NewIntegerWithLimit(6)
		stored, err := wide.Serialize(int64(1) << 31)
		assert.NoError(t, err)
		assert.Equal(t, int64(1)<<31, stored)
	})

	t.Run("serializable invokes the callback with the offender", func(t *testing.T) {
		var offender any
		ok := typ.Serializable(int64(1)<<31, func(value any) { offender = value })
		assert.False(t, ok)
		assert.Equal(t, int64(1)<<31, offender)
		assert.True(t, typ.Serializable(12, nil))
		assert.True(t, typ.Serializable(nil, nil))
	})

	t.Run("equality includes the limit", func(t *testing.T) {
		assert.True(t, NewInteger().Equal(NewIntegerWithLimit(4)))
		assert.False(t, NewInteger().Equal(NewIntegerWithLimit(6)))
		assert.False(t, NewInteger().Equal(NewFloat()))
	})
}

func TestBigInteger(t *testing.T) {
	typ := NewBigInteger()

	t.Run("casts beyond the int64 range", func(t *testing.T) {
		huge, ok := new(big.Int).SetString("92233720368547758080000", 10)
		assert.True(t, ok)
		assert.Equal(t, 0, typ.Cast("92233720368547758080000").(*big.Int).Cmp(huge))
		assert.Nil(t, typ.Cast("nope"))
	})

	t.Run("serialize has no bound", func(t *testing.T) {
		stored, err := typ.Serialize(new(big.Int).Lsh(big.NewInt(1), 100))
		assert.NoError(t, err)
		assert.Equal(t, 0, stored.(*big.Int).Cmp(new(big.Int).Lsh(big.NewInt(1), 100)))
	})

	t.Run("changed compares numerically", func(t *testing.T) {
		assert.False(t, typ.Changed(big.NewInt(5), typ.Cast("5"), "5"))
		assert.True(t, typ.Changed(big.NewInt(5), typ.Cast("6"), "6"))
	})
}

func TestFloat(t *testing.T) {
	typ := NewFloat()

	t.Run("recognizes the literal tokens", func(t *testing.T) {
		assert.Equal(t, math.Inf(1), typ.Cast("Infinity"))
		assert.Equal(t, math.Inf(-1), typ.Cast("-Infinity"))
		assert.True(t, math.IsNaN(typ.Cast("NaN").(float64)))
		assert.Equal(t, 1.5, typ.Cast("1.5"))
		assert.Nil(t, typ.Cast("nope"))
	})

	t.Run("non-finite floats round-trip through their tokens", func(t *testing.T) {
		for _, token := range []string{"Infinity", "-Infinity", "NaN"} {
			stored, err := typ.Serialize(typ.Cast(token))
			assert.NoError(t, err)
			assert.Equal(t, token, stored)
		}
		stored, err := typ.Serialize(2.5)
		assert.NoError(t, err)
		assert.Equal(t, 2.5, stored)
	})
}

func TestDecimal(t *testing.T) {
	typ := NewDecimal()

	t.Run("casts strings exactly", func(t *testing.T) {
		d := typ.Cast("0.0001").(decimal.Decimal)
		assert.True(t, d.Equal(decimal.RequireFromString("0.0001")))
		assert.Equal(t, "0.1E-3", SciString(d))
	})

	t.Run("renders the big-decimal scientific form", func(t *testing.T) {
		assert.Equal(t, "0.123E3", SciString(decimal.RequireFromString("123")))
		assert.Equal(t, "-0.15E1", SciString(decimal.RequireFromString("-1.5")))
		assert.Equal(t, "0.1E3", SciString(decimal.RequireFromString("100")))
		assert.Equal(t, "0.0", SciString(decimal.Zero))
	})

	t.Run("converts floats through their shortest representation", func(t *testing.T) {
		d := typ.Cast(0.1).(decimal.Decimal)
		assert.True(t, d.Equal(decimal.RequireFromString("0.1")))
	})

	t.Run("applies scale", func(t *testing.T) {
		scaled := NewDecimal().WithScale(2)
		d := scaled.Cast("1.2345").(decimal.Decimal)
		assert.Equal(t, "1.23", d.String())
		whole := NewDecimal().WithScale(0)
		assert.Equal(t, "1", whole.Cast("1.23").(decimal.Decimal).String())
	})

	t.Run("applies precision as significant digits", func(t *testing.T) {
		precise := NewDecimal().WithPrecision(4)
		d := precise.Cast("123.456").(decimal.Decimal)
		assert.Equal(t, "123.5", d.String())
	})

	t.Run("invalid input casts to nil", func(t *testing.T) {
		assert.Nil(t, typ.Cast("nope"))
		assert.Nil(t, typ.Cast(math.NaN()))
	})
}

func TestStrings(t *testing.T) {
	t.Run("booleans cast to the configured tokens", func(t *testing.T) {
		typ := NewString()
		assert.Equal(t, "t", typ.Cast(true))
		assert.Equal(t, "f", typ.Cast(false))
		assert.Equal(t, "12", typ.Cast(12))
		assert.Equal(t, "hi", typ.Cast("hi"))
		assert.Nil(t, typ.Cast(nil))

		custom := NewImmutableString("yes", "no")
		assert.Equal(t, "yes", custom.Cast(true))
		assert.Equal(t, "no", custom.Cast(false))
	})

	t.Run("boolean casts", func(t *testing.T) {
		typ := NewBoolean()
		assert.Nil(t, typ.Cast(nil))
		assert.Nil(t, typ.Cast(""))
		assert.Equal(t, false, typ.Cast("0"))
		assert.Equal(t, false, typ.Cast(0))
		assert.Equal(t, false, typ.Cast("off"))
		assert.Equal(t, true, typ.Cast("1"))
		assert.Equal(t, true, typ.Cast("anything"))
		assert.Equal(t, true, typ.Cast([]string{"even", "slices"}))
	})
}

func TestRegistry(t *testing.T) {
	registry := NewDefaultRegistry()

	t.Run("looks up registered types with options", func(t *testing.T) {
		typ, err := registry.Lookup("integer", Limit(6))
		assert.NoError(t, err)
		assert.Equal(t, 6, typ.(IntegerType).Limit())

		typ, err = registry.Lookup("decimal", Precision(4), Scale(2))
		assert.NoError(t, err)
		assert.Equal(t, 4, typ.(DecimalType).Precision())
	})

	t.Run("empty string tokens are honored when given", func(t *testing.T) {
		typ, err := registry.Lookup("immutable_string", Tokens("", "f"))
		assert.NoError(t, err)
		assert.Equal(t, "", typ.Cast(true))
		assert.Equal(t, "f", typ.Cast(false))

		typ, err = registry.Lookup("immutable_string")
		assert.NoError(t, err)
		assert.Equal(t, "t", typ.Cast(true))
	})

	t.Run("unknown names fail", func(t *testing.T) {
		_, err := registry.Lookup("nope")
		assert.ErrorIs(t, err, ErrUnknownType)
		var coded Error
		assert.True(t, errors.As(err, &coded))
		assert.Equal(t, "nope", coded.Context["name"])
	})

	t.Run("the last registration for a name wins", func(t *testing.T) {
		registry.Register("integer", func(Options) Type { return NewFloat() })
		typ, err := registry.Lookup("integer")
		assert.NoError(t, err)
		assert.Equal(t, "float", typ.Name())
	})
}
