package casting

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	. "github.com/dball/attributive/internal/types"
)

// defaultIntegerLimit is the serialized byte width of integers that do not
// configure one.
const defaultIntegerLimit = 4

// IntegerType casts values to int64 and enforces a byte-width range on
// serialization.
type IntegerType struct {
	Base
	limit int
}

func NewInteger() IntegerType {
	return IntegerType{Base{name: "integer"}, 0}
}

func NewIntegerWithLimit(limit int) IntegerType {
	return IntegerType{Base{name: "integer"}, limit}
}

// Limit is the serialized byte width.
func (t IntegerType) Limit() int {
	if t.limit <= 0 {
		return defaultIntegerLimit
	}
	return t.limit
}

func (t IntegerType) Cast(raw any) any {
	if raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return nil
		}
		return int64(v)
	case float32:
		return truncToInt64(float64(v))
	case float64:
		return truncToInt64(v)
	case string:
		return castIntegerString(v)
	case decimal.Decimal:
		return v.IntPart()
	default:
		return nil
	}
}

func (t IntegerType) Deserialize(stored any) any {
	return t.Cast(stored)
}

func (t IntegerType) Serialize(value any) (stored any, err error) {
	cast := t.Cast(value)
	if cast == nil {
		return
	}
	n := cast.(int64)
	min, max := t.bounds()
	if n < min || n > max {
		err = NewError(CodeRange, "value", n, "min", min, "max", max, "limit", t.Limit())
		return
	}
	stored = n
	return
}

func (t IntegerType) Serializable(value any, whenInvalid func(value any)) bool {
	cast := t.Cast(value)
	if cast == nil {
		return true
	}
	n := cast.(int64)
	min, max := t.bounds()
	if n >= min && n <= max {
		return true
	}
	if whenInvalid != nil {
		whenInvalid(cast)
	}
	return false
}

func (t IntegerType) Equal(other Type) bool {
	o, ok := other.(IntegerType)
	return ok && t.Limit() == o.Limit()
}

func (t IntegerType) bounds() (min int64, max int64) {
	limit := t.Limit()
	if limit >= 8 {
		min = math.MinInt64
		max = math.MaxInt64
		return
	}
	max = int64(1)<<(8*limit-1) - 1
	min = -max - 1
	return
}

func truncToInt64(f float64) any {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil
	}
	return int64(f)
}

func castIntegerString(s string) any {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return truncToInt64(f)
	}
	return nil
}

// BigIntegerType casts values to *big.Int and has no serialization bound.
type BigIntegerType struct {
	Base
}

func NewBigInteger() BigIntegerType {
	return BigIntegerType{Base{name: "big_integer"}}
}

func (t BigIntegerType) Cast(raw any) any {
	if raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case *big.Int:
		return new(big.Int).Set(v)
	case bool:
		if v {
			return big.NewInt(1)
		}
		return big.NewInt(0)
	case int:
		return big.NewInt(int64(v))
	case int8:
		return big.NewInt(int64(v))
	case int16:
		return big.NewInt(int64(v))
	case int32:
		return big.NewInt(int64(v))
	case int64:
		return big.NewInt(v)
	case uint:
		return new(big.Int).SetUint64(uint64(v))
	case uint8:
		return big.NewInt(int64(v))
	case uint16:
		return big.NewInt(int64(v))
	case uint32:
		return big.NewInt(int64(v))
	case uint64:
		return new(big.Int).SetUint64(v)
	case float32:
		return truncToBigInt(float64(v))
	case float64:
		return truncToBigInt(v)
	case string:
		s := strings.TrimSpace(v)
		if n, ok := new(big.Int).SetString(s, 10); ok {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return truncToBigInt(f)
		}
		return nil
	case decimal.Decimal:
		return v.BigInt()
	default:
		return nil
	}
}

func (t BigIntegerType) Deserialize(stored any) any {
	return t.Cast(stored)
}

func (t BigIntegerType) Serialize(value any) (stored any, err error) {
	cast := t.Cast(value)
	if cast != nil {
		stored = cast
	}
	return
}

func (t BigIntegerType) Changed(originalCast any, cast any, _ any) bool {
	a, aok := originalCast.(*big.Int)
	b, bok := cast.(*big.Int)
	if aok && bok {
		return a.Cmp(b) != 0
	}
	return !reflect.DeepEqual(originalCast, cast)
}

func truncToBigInt(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n, _ := big.NewFloat(f).Int(nil)
	return n
}

// FloatType casts values to float64, recognizing the Infinity, -Infinity
// and NaN literal tokens. Non-finite floats serialize back to their
// tokens so they round-trip through storage.
type FloatType struct {
	Base
}

func NewFloat() FloatType {
	return FloatType{Base{name: "float"}}
}

func (t FloatType) Cast(raw any) any {
	if raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case bool:
		if v {
			return float64(1)
		}
		return float64(0)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		return castFloatString(v)
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	default:
		return nil
	}
}

func (t FloatType) Deserialize(stored any) any {
	return t.Cast(stored)
}

func (t FloatType) Serialize(value any) (stored any, err error) {
	cast := t.Cast(value)
	if cast == nil {
		return
	}
	f := cast.(float64)
	switch {
	case math.IsNaN(f):
		stored = "NaN"
	case math.IsInf(f, 1):
		stored = "Infinity"
	case math.IsInf(f, -1):
		stored = "-Infinity"
	default:
		stored = f
	}
	return
}

func castFloatString(s string) any {
	s = strings.TrimSpace(s)
	switch s {
	case "Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	case "NaN":
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return f
}

// defaultDecimalPrecision is the significant digit count of decimals that
// do not configure one.
const defaultDecimalPrecision = 18

// DecimalType casts values to arbitrary-precision decimals, applying
// scale rounding and significant-digit precision when configured. Float
// inputs convert through their shortest decimal representation to avoid
// binary-fraction artifacts.
type DecimalType struct {
	Base
	precision int
	scale     int
	scaleSet  bool
}

func NewDecimal() DecimalType {
	return DecimalType{Base: Base{name: "decimal"}}
}

// WithPrecision bounds values to precision significant digits.
func (t DecimalType) WithPrecision(precision int) DecimalType {
	t.precision = precision
	return t
}

// WithScale rounds values to scale decimal places.
func (t DecimalType) WithScale(scale int) DecimalType {
	t.scale = scale
	t.scaleSet = true
	return t
}

// Precision is the significant digit count.
func (t DecimalType) Precision() int {
	if t.precision <= 0 {
		return defaultDecimalPrecision
	}
	return t.precision
}

func (t DecimalType) Cast(raw any) any {
	if raw == nil {
		return nil
	}
	d, ok := t.decimalOf(raw)
	if !ok {
		return nil
	}
	return t.apply(d)
}

func (t DecimalType) Deserialize(stored any) any {
	return t.Cast(stored)
}

func (t DecimalType) Serialize(value any) (stored any, err error) {
	cast := t.Cast(value)
	if cast != nil {
		stored = cast
	}
	return
}

func (t DecimalType) Changed(originalCast any, cast any, _ any) bool {
	a, aok := originalCast.(decimal.Decimal)
	b, bok := cast.(decimal.Decimal)
	if aok && bok {
		return !a.Equal(b)
	}
	return !reflect.DeepEqual(originalCast, cast)
}

func (t DecimalType) Equal(other Type) bool {
	o, ok := other.(DecimalType)
	return ok && t.Precision() == o.Precision() && t.scaleSet == o.scaleSet && t.scale == o.scale
}

func (t DecimalType) decimalOf(raw any) (d decimal.Decimal, ok bool) {
	ok = true
	switch v := raw.(type) {
	case decimal.Decimal:
		d = v
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			ok = false
			return
		}
		d = parsed
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			ok = false
			return
		}
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case bool:
		if v {
			d = decimal.NewFromInt(1)
		}
	case int:
		d = decimal.NewFromInt(int64(v))
	case int8:
		d = decimal.NewFromInt(int64(v))
	case int16:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case uint:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(v)), 0)
	case uint8:
		d = decimal.NewFromInt(int64(v))
	case uint16:
		d = decimal.NewFromInt(int64(v))
	case uint32:
		d = decimal.NewFromInt(int64(v))
	case uint64:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
	case *big.Int:
		d = decimal.NewFromBigInt(v, 0)
	default:
		ok = false
	}
	return
}

func (t DecimalType) apply(d decimal.Decimal) decimal.Decimal {
	if t.scaleSet {
		d = d.Round(int32(t.scale))
	}
	precision := t.Precision()
	digits := int(d.NumDigits())
	if digits > precision {
		integerDigits := digits + int(d.Exponent())
		d = d.Round(int32(precision - integerDigits))
	}
	return d
}

// SciString renders the big-decimal scientific form of a decimal, e.g.
// 0.1E-3 for 0.0001.
func SciString(d decimal.Decimal) string {
	if d.IsZero() {
		return "0.0"
	}
	sign := ""
	if d.Sign() < 0 {
		sign = "-"
	}
	coefficient := new(big.Int).Abs(d.Coefficient()).String()
	digits := strings.TrimRight(coefficient, "0")
	exponent := int(d.Exponent()) + len(coefficient)
	return fmt.Sprintf("%s0.%sE%d", sign, digits, exponent)
}
