package datatypes

import (
	"math/big"
	"strings"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
)

// rational inlining layout: 26-bit signed numerator, denominator-1 in 16 bits
const (
	rationalInlineNumBits = 26
	rationalInlineDenBits = 16
)

// rationalType implements owl:real and owl:rational. Values are *big.Rat in
// lowest terms and are never mutated once created. Both accept "n/d" as
// well as decimal lexical forms.
type rationalType struct {
	iri   string
	super string
}

func (t rationalType) IRI() string { return t.iri }

func (t rationalType) Parse(lexical string) (Value, error) {
	s := strings.TrimSpace(lexical)
	if num, den, ok := strings.Cut(s, "/"); ok {
		if !isIntegerLexical(num) || !allDigits(den) || den == "" {
			return nil, invalidLiteral(t.iri, lexical, "not a rational")
		}
		d, _ := new(big.Int).SetString(den, 10)
		if d.Sign() == 0 {
			return nil, invalidLiteral(t.iri, lexical, "zero denominator")
		}
		n, _ := new(big.Int).SetString(strings.TrimPrefix(num, "+"), 10)
		return new(big.Rat).SetFrac(n, d), nil
	}

	d, err := decimalType{}.Parse(s)
	if err != nil {
		return nil, invalidLiteral(t.iri, lexical, "not a rational")
	}
	return d.(Decimal).Rat(), nil
}

// Canonical renders "n/d" with a positive denominator, "n/1" for integers.
func (t rationalType) Canonical(v Value) string {
	r, ok := v.(*big.Rat)
	if !ok {
		return ""
	}
	return r.String()
}

func (t rationalType) Validate(v Value) error {
	if r, ok := v.(*big.Rat); !ok || r == nil {
		return wrongValueType(t.iri, v)
	}
	return nil
}

func (t rationalType) Compare(a, b Value) Ordering {
	x, aok := a.(*big.Rat)
	y, bok := b.(*big.Rat)
	if !aok || !bok {
		return Incomparable
	}
	return orderingOf(x.Cmp(y))
}

func (t rationalType) EffectiveBoolean(v Value) bool {
	r, _ := v.(*big.Rat)
	return r != nil && r.Sign() != 0
}

func (t rationalType) Add(a, b Value) (Value, error) {
	return t.binary(a, b, func(z, x, y *big.Rat) *big.Rat { return z.Add(x, y) })
}

func (t rationalType) Sub(a, b Value) (Value, error) {
	return t.binary(a, b, func(z, x, y *big.Rat) *big.Rat { return z.Sub(x, y) })
}

func (t rationalType) Mul(a, b Value) (Value, error) {
	return t.binary(a, b, func(z, x, y *big.Rat) *big.Rat { return z.Mul(x, y) })
}

func (t rationalType) Div(a, b Value) (Value, error) {
	if y, ok := b.(*big.Rat); ok && y.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	return t.binary(a, b, func(z, x, y *big.Rat) *big.Rat { return z.Quo(x, y) })
}

func (t rationalType) Neg(a Value) (Value, error) {
	x, ok := a.(*big.Rat)
	if !ok {
		return nil, wrongValueType(t.iri, a)
	}
	return new(big.Rat).Neg(x), nil
}

func (t rationalType) Pos(a Value) (Value, error) {
	x, ok := a.(*big.Rat)
	if !ok {
		return nil, wrongValueType(t.iri, a)
	}
	return x, nil
}

func (t rationalType) Supertype() string { return t.super }

func (t rationalType) ToSupertype(v Value) Value { return v }

func (t rationalType) FromSupertype(v Value) (Value, error) {
	r, ok := v.(*big.Rat)
	if !ok {
		return nil, wrongValueType(t.super, v)
	}
	return r, nil
}

func (t rationalType) TryPack(v Value) (uint64, bool) {
	r, ok := v.(*big.Rat)
	if !ok || !r.Num().IsInt64() || !r.Denom().IsUint64() {
		return 0, false
	}
	var p encoding.Packer
	p.Signed(r.Num().Int64(), rationalInlineNumBits).Unsigned(r.Denom().Uint64()-1, rationalInlineDenBits)
	return p.Result()
}

func (t rationalType) Unpack(bits uint64) Value {
	u := encoding.NewUnpacker(bits)
	num := u.Signed(rationalInlineNumBits)
	den := u.Unsigned(rationalInlineDenBits) + 1
	return new(big.Rat).SetFrac(big.NewInt(num), new(big.Int).SetUint64(den))
}

func (t rationalType) SpecializedStorage() bool { return true }

func (t rationalType) binary(a, b Value, op func(z, x, y *big.Rat) *big.Rat) (Value, error) {
	x, aok := a.(*big.Rat)
	y, bok := b.(*big.Rat)
	if !aok {
		return nil, wrongValueType(t.iri, a)
	}
	if !bok {
		return nil, wrongValueType(t.iri, b)
	}
	return op(new(big.Rat), x, y), nil
}
