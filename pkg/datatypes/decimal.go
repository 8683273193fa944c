package datatypes

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
)

const (
	// DecimalMaxDigits is the number of significant digits a Decimal holds.
	DecimalMaxDigits = 38
	// DecimalMaxScale is the number of fractional digits a Decimal holds.
	DecimalMaxScale = 38
)

// decimal inlining layout: 36-bit two's complement unscaled value, 6-bit scale
const (
	decimalInlineUnscaledBits = 36
	decimalInlineScaleBits    = 6
)

// Decimal is a fixed-precision decimal number: unscaled * 10^-scale.
// Decimals are normalized (no trailing fractional zeros) and immutable.
// The zero value is 0.
type Decimal struct {
	unscaled *big.Int
	scale    int32
}

// NewDecimal builds unscaled * 10^-scale. Fractional digits beyond the
// precision are truncated; an integral part wider than DecimalMaxDigits
// yields ErrOverOrUnderFlow.
func NewDecimal(unscaled *big.Int, scale int32) (Decimal, error) {
	d, _, err := normalizeDecimal(unscaled, int64(scale))
	return d, err
}

// DecimalFromInt converts an integer exactly.
func DecimalFromInt(i *big.Int) Decimal {
	if i == nil {
		return Decimal{}
	}
	return Decimal{unscaled: new(big.Int).Set(i)}
}

// MaxDecimal returns the largest representable Decimal.
func MaxDecimal() Decimal {
	return Decimal{unscaled: new(big.Int).Sub(pow10(DecimalMaxDigits), big1)}
}

// ParseDecimal parses an xsd:decimal lexical form.
func ParseDecimal(lexical string) (Decimal, error) {
	v, err := decimalType{}.Parse(lexical)
	if err != nil {
		return Decimal{}, err
	}
	return v.(Decimal), nil
}

// Unscaled returns a copy of the unscaled value.
func (d Decimal) Unscaled() *big.Int { return new(big.Int).Set(d.u()) }

// Scale returns the number of fractional digits.
func (d Decimal) Scale() int32 { return d.scale }

// Sign returns -1, 0 or 1.
func (d Decimal) Sign() int { return d.u().Sign() }

// Rat returns d as an exact rational.
func (d Decimal) Rat() *big.Rat {
	return new(big.Rat).SetFrac(d.u(), pow10(int64(d.scale)))
}

// Cmp compares d and o numerically.
func (d Decimal) Cmp(o Decimal) int {
	x, y := alignDecimals(d, o)
	return x.Cmp(y)
}

// String returns the canonical lexical form, which always contains a
// decimal point with at least one digit on each side.
func (d Decimal) String() string {
	u := d.u()
	digits := new(big.Int).Abs(u).String()
	scale := int(d.scale)

	var intPart, frac string
	if scale == 0 {
		intPart, frac = digits, "0"
	} else {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		intPart, frac = digits[:len(digits)-scale], digits[len(digits)-scale:]
	}

	if u.Sign() < 0 {
		return "-" + intPart + "." + frac
	}
	return intPart + "." + frac
}

func (d Decimal) u() *big.Int {
	if d.unscaled == nil {
		return big0
	}
	return d.unscaled
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big10, big.NewInt(n), nil)
}

func alignDecimals(a, b Decimal) (*big.Int, *big.Int) {
	x, y := a.u(), b.u()
	switch {
	case a.scale < b.scale:
		x = new(big.Int).Mul(x, pow10(int64(b.scale-a.scale)))
	case b.scale < a.scale:
		y = new(big.Int).Mul(y, pow10(int64(a.scale-b.scale)))
	}
	return x, y
}

func maxScale(a, b Decimal) int32 {
	if a.scale > b.scale {
		return a.scale
	}
	return b.scale
}

func numDigits(u *big.Int) int64 {
	return int64(len(new(big.Int).Abs(u).String()))
}

// normalizeDecimal reduces u * 10^-scale to the canonical representation.
// The boolean result reports whether non-zero digits were truncated.
func normalizeDecimal(u *big.Int, scale int64) (Decimal, bool, error) {
	u = new(big.Int).Set(u)
	if scale < 0 {
		u.Mul(u, pow10(-scale))
		scale = 0
	}

	truncated := false
	drop := func(n int64) {
		var rem big.Int
		u.QuoRem(u, pow10(n), &rem)
		scale -= n
		if rem.Sign() != 0 {
			truncated = true
		}
	}

	stripTrailingZeros(u, &scale)
	if scale > DecimalMaxScale {
		drop(scale - DecimalMaxScale)
	}
	if digits := numDigits(u); digits > DecimalMaxDigits {
		if digits-scale > DecimalMaxDigits {
			return Decimal{}, truncated, ErrOverOrUnderFlow
		}
		drop(digits - DecimalMaxDigits)
	}
	stripTrailingZeros(u, &scale)

	if u.Sign() == 0 {
		scale = 0
	}
	return Decimal{unscaled: u, scale: int32(scale)}, truncated, nil // #nosec G115 - scale <= DecimalMaxScale
}

func stripTrailingZeros(u *big.Int, scale *int64) {
	var q, r big.Int
	for *scale > 0 && u.Sign() != 0 {
		q.QuoRem(u, big10, &r)
		if r.Sign() != 0 {
			return
		}
		u.Set(&q)
		*scale--
	}
}

// xsd:decimal. Values are Decimal.
type decimalType struct{}

func (decimalType) IRI() string { return XSDDecimal }

func (decimalType) Parse(lexical string) (Value, error) {
	s := strings.TrimSpace(lexical)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if (intPart == "" && frac == "") || !allDigits(intPart) || !allDigits(frac) {
		return nil, invalidLiteral(XSDDecimal, lexical, "not a decimal")
	}

	digits := intPart + frac
	u, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, invalidLiteral(XSDDecimal, lexical, "not a decimal")
	}
	if neg {
		u.Neg(u)
	}

	d, truncated, err := normalizeDecimal(u, int64(len(frac)))
	switch {
	case err != nil && LenientParsing():
		m := MaxDecimal()
		if neg {
			m.unscaled.Neg(m.unscaled)
		}
		return m, nil
	case err != nil:
		return nil, invalidLiteral(XSDDecimal, lexical, "more than %d integral digits", DecimalMaxDigits)
	case truncated && !LenientParsing():
		return nil, invalidLiteral(XSDDecimal, lexical, "more than %d significant digits", DecimalMaxDigits)
	}
	return d, nil
}

func (decimalType) Canonical(v Value) string {
	d, _ := v.(Decimal)
	return d.String()
}

func (decimalType) Validate(v Value) error {
	if _, ok := v.(Decimal); !ok {
		return wrongValueType(XSDDecimal, v)
	}
	return nil
}

func (decimalType) Compare(a, b Value) Ordering {
	ad, aok := a.(Decimal)
	bd, bok := b.(Decimal)
	if !aok || !bok {
		return Incomparable
	}
	return orderingOf(ad.Cmp(bd))
}

func (decimalType) EffectiveBoolean(v Value) bool {
	d, _ := v.(Decimal)
	return d.Sign() != 0
}

func (t decimalType) Add(a, b Value) (Value, error) {
	return t.binary(a, b, func(x, y Decimal) (*big.Int, int64, error) {
		ax, ay := alignDecimals(x, y)
		return new(big.Int).Add(ax, ay), int64(maxScale(x, y)), nil
	})
}

func (t decimalType) Sub(a, b Value) (Value, error) {
	return t.binary(a, b, func(x, y Decimal) (*big.Int, int64, error) {
		ax, ay := alignDecimals(x, y)
		return new(big.Int).Sub(ax, ay), int64(maxScale(x, y)), nil
	})
}

func (t decimalType) Mul(a, b Value) (Value, error) {
	return t.binary(a, b, func(x, y Decimal) (*big.Int, int64, error) {
		return new(big.Int).Mul(x.u(), y.u()), int64(x.scale) + int64(y.scale), nil
	})
}

// Div computes the quotient to DecimalMaxScale fractional digits,
// truncating the rest. Results too small to represent become 0.
func (t decimalType) Div(a, b Value) (Value, error) {
	return t.binary(a, b, func(x, y Decimal) (*big.Int, int64, error) {
		if y.Sign() == 0 {
			return nil, 0, ErrDivideByZero
		}
		shift := int64(DecimalMaxScale) + int64(y.scale) - int64(x.scale)
		n := new(big.Int).Mul(x.u(), pow10(shift))
		return n.Quo(n, y.u()), DecimalMaxScale, nil
	})
}

func (decimalType) Neg(a Value) (Value, error) {
	d, ok := a.(Decimal)
	if !ok {
		return nil, wrongValueType(XSDDecimal, a)
	}
	return Decimal{unscaled: new(big.Int).Neg(d.u()), scale: d.scale}, nil
}

func (decimalType) Pos(a Value) (Value, error) {
	d, ok := a.(Decimal)
	if !ok {
		return nil, wrongValueType(XSDDecimal, a)
	}
	return d, nil
}

func (decimalType) PromotedType() string { return XSDFloat }

func (decimalType) Promote(v Value) Value {
	d, _ := v.(Decimal)
	f, _ := d.Rat().Float32()
	return f
}

func (decimalType) TryPack(v Value) (uint64, bool) {
	d, ok := v.(Decimal)
	if !ok || !d.u().IsInt64() {
		return 0, false
	}
	var p encoding.Packer
	p.Signed(d.u().Int64(), decimalInlineUnscaledBits).Unsigned(uint64(d.scale), decimalInlineScaleBits) // #nosec G115 - scale is never negative
	return p.Result()
}

func (decimalType) Unpack(bits uint64) Value {
	u := encoding.NewUnpacker(bits)
	unscaled := u.Signed(decimalInlineUnscaledBits)
	scale := u.Unsigned(decimalInlineScaleBits)
	return Decimal{unscaled: big.NewInt(unscaled), scale: int32(scale)} // #nosec G115 - 6-bit value
}

func (decimalType) SpecializedStorage() bool { return true }

func (decimalType) binary(a, b Value, op func(x, y Decimal) (*big.Int, int64, error)) (Value, error) {
	x, aok := a.(Decimal)
	y, bok := b.(Decimal)
	if !aok {
		return nil, wrongValueType(XSDDecimal, a)
	}
	if !bok {
		return nil, wrongValueType(XSDDecimal, b)
	}
	u, scale, err := op(x, y)
	if err != nil {
		return nil, err
	}
	d, _, err := normalizeDecimal(u, scale)
	if err != nil {
		return nil, fmt.Errorf("%w: decimal result exceeds %d digits", ErrOverOrUnderFlow, DecimalMaxDigits)
	}
	return d, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
