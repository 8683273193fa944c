package datatypes

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
)

var (
	big0      = big.NewInt(0)
	big1      = big.NewInt(1)
	bigMinus1 = big.NewInt(-1)
	big10     = big.NewInt(10)
)

// bigPow2 returns ±2^exp + delta. With neg set the result is -2^exp.
func bigPow2(exp uint, delta int64, neg bool) *big.Int {
	v := new(big.Int).Lsh(big1, exp)
	if neg {
		return v.Neg(v)
	}
	return v.Add(v, big.NewInt(delta))
}

// packStrategy selects how an integer value is packed into a handle.
type packStrategy uint8

const (
	// packTwos stores two's complement values in [-2^41, 2^41-1].
	packTwos packStrategy = iota
	// packUnsigned stores non-negative values below 2^42.
	packUnsigned
	// packNegated stores the magnitude of non-positive values below 2^42.
	packNegated
)

// integerType implements xsd:integer and all of its derived types. Values
// are *big.Int and are never mutated once created.
type integerType struct {
	iri      string
	super    string
	min, max *big.Int // nil means unbounded
	pack     packStrategy
	// conversions to and from a supertype with a different value space
	toSuper   func(*big.Int) Value
	fromSuper func(Value) (*big.Int, error)
}

func newIntegerType(iri, super string, min, max *big.Int, pack packStrategy) integerType {
	return integerType{iri: iri, super: super, min: min, max: max, pack: pack}
}

// integerDatatype is xsd:integer, derived from xsd:decimal.
func integerDatatype() integerType {
	t := newIntegerType(XSDInteger, XSDDecimal, nil, nil, packTwos)
	t.toSuper = func(v *big.Int) Value { return DecimalFromInt(v) }
	t.fromSuper = func(v Value) (*big.Int, error) {
		d, ok := v.(Decimal)
		if !ok {
			return nil, wrongValueType(XSDDecimal, v)
		}
		if d.scale != 0 {
			return nil, fmt.Errorf("%w: %s is not integral", ErrInvalidValueForCast, d)
		}
		return d.Unscaled(), nil
	}
	return t
}

func (t integerType) IRI() string { return t.iri }

func (t integerType) Parse(lexical string) (Value, error) {
	s := strings.TrimSpace(lexical)
	if !isIntegerLexical(s) {
		return nil, invalidLiteral(t.iri, lexical, "not an integer")
	}
	v, ok := new(big.Int).SetString(strings.TrimPrefix(s, "+"), 10)
	if !ok {
		return nil, invalidLiteral(t.iri, lexical, "not an integer")
	}

	if !t.inRange(v) {
		if !LenientParsing() {
			return nil, invalidLiteral(t.iri, lexical, "out of range %s", t.rangeString())
		}
		v = t.clamp(v)
	}
	return v, nil
}

func (t integerType) Canonical(v Value) string {
	i, ok := v.(*big.Int)
	if !ok {
		return ""
	}
	return i.String()
}

func (t integerType) Validate(v Value) error {
	i, ok := v.(*big.Int)
	if !ok || i == nil {
		return wrongValueType(t.iri, v)
	}
	if !t.inRange(i) {
		return invalidValue(t.iri, i.String(), "outside range %s", t.rangeString())
	}
	return nil
}

func (t integerType) Compare(a, b Value) Ordering {
	ai, aok := a.(*big.Int)
	bi, bok := b.(*big.Int)
	if !aok || !bok {
		return Incomparable
	}
	return orderingOf(ai.Cmp(bi))
}

func (t integerType) EffectiveBoolean(v Value) bool {
	i, _ := v.(*big.Int)
	return i != nil && i.Sign() != 0
}

func (t integerType) Add(a, b Value) (Value, error) {
	return t.binary(a, b, func(z, x, y *big.Int) *big.Int { return z.Add(x, y) })
}

func (t integerType) Sub(a, b Value) (Value, error) {
	return t.binary(a, b, func(z, x, y *big.Int) *big.Int { return z.Sub(x, y) })
}

func (t integerType) Mul(a, b Value) (Value, error) {
	return t.binary(a, b, func(z, x, y *big.Int) *big.Int { return z.Mul(x, y) })
}

// Div truncates toward zero. Use the package level Div for the
// decimal-valued division of two integers.
func (t integerType) Div(a, b Value) (Value, error) {
	bi, ok := b.(*big.Int)
	if ok && bi.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	return t.binary(a, b, func(z, x, y *big.Int) *big.Int { return z.Quo(x, y) })
}

func (t integerType) Neg(a Value) (Value, error) {
	ai, ok := a.(*big.Int)
	if !ok {
		return nil, wrongValueType(t.iri, a)
	}
	return t.checked(new(big.Int).Neg(ai))
}

func (t integerType) Pos(a Value) (Value, error) {
	ai, ok := a.(*big.Int)
	if !ok {
		return nil, wrongValueType(t.iri, a)
	}
	return ai, nil
}

func (t integerType) Supertype() string { return t.super }

func (t integerType) ToSupertype(v Value) Value {
	i, _ := v.(*big.Int)
	if t.toSuper != nil {
		return t.toSuper(i)
	}
	return i
}

func (t integerType) FromSupertype(v Value) (Value, error) {
	var i *big.Int
	if t.fromSuper != nil {
		var err error
		if i, err = t.fromSuper(v); err != nil {
			return nil, err
		}
	} else {
		var ok bool
		if i, ok = v.(*big.Int); !ok {
			return nil, wrongValueType(t.super, v)
		}
	}
	if !t.inRange(i) {
		return nil, fmt.Errorf("%w: %s outside <%s> range %s", ErrInvalidValueForCast, i, t.iri, t.rangeString())
	}
	return i, nil
}

func (t integerType) TryPack(v Value) (uint64, bool) {
	i, ok := v.(*big.Int)
	if !ok || !i.IsInt64() {
		return 0, false
	}
	n := i.Int64()
	switch t.pack {
	case packUnsigned:
		if n < 0 {
			return 0, false
		}
		return uint64(n), encoding.FitsUnsigned(uint64(n), encoding.PayloadBits) // #nosec G115 - checked non-negative
	case packNegated:
		if n > 0 || n == math.MinInt64 {
			return 0, false
		}
		return uint64(-n), encoding.FitsUnsigned(uint64(-n), encoding.PayloadBits) // #nosec G115 - checked non-positive
	default:
		return encoding.PackSigned(n, encoding.PayloadBits)
	}
}

func (t integerType) Unpack(bits uint64) Value {
	bits &= encoding.PayloadMask
	switch t.pack {
	case packUnsigned:
		return new(big.Int).SetUint64(bits)
	case packNegated:
		return new(big.Int).Neg(new(big.Int).SetUint64(bits))
	default:
		return big.NewInt(encoding.UnpackSigned(bits, encoding.PayloadBits))
	}
}

func (t integerType) SpecializedStorage() bool { return true }

func (t integerType) binary(a, b Value, op func(z, x, y *big.Int) *big.Int) (Value, error) {
	ai, aok := a.(*big.Int)
	bi, bok := b.(*big.Int)
	if !aok {
		return nil, wrongValueType(t.iri, a)
	}
	if !bok {
		return nil, wrongValueType(t.iri, b)
	}
	return t.checked(op(new(big.Int), ai, bi))
}

func (t integerType) checked(v *big.Int) (Value, error) {
	if !t.inRange(v) {
		return nil, fmt.Errorf("%w: %s outside <%s> range %s", ErrOverOrUnderFlow, v, t.iri, t.rangeString())
	}
	return v, nil
}

func (t integerType) inRange(v *big.Int) bool {
	if t.min != nil && v.Cmp(t.min) < 0 {
		return false
	}
	if t.max != nil && v.Cmp(t.max) > 0 {
		return false
	}
	return true
}

func (t integerType) clamp(v *big.Int) *big.Int {
	if t.min != nil && v.Cmp(t.min) < 0 {
		return new(big.Int).Set(t.min)
	}
	if t.max != nil && v.Cmp(t.max) > 0 {
		return new(big.Int).Set(t.max)
	}
	return v
}

func (t integerType) rangeString() string {
	lo, hi := "-inf", "+inf"
	if t.min != nil {
		lo = t.min.String()
	}
	if t.max != nil {
		hi = t.max.String()
	}
	return "[" + lo + ", " + hi + "]"
}

func isIntegerLexical(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
