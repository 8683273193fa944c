package datatypes

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// maxChain bounds supertype walks over runtime-registered datatypes that
// might form a cycle.
const maxChain = 64

// chainStep is one link of a promotion chain.
type chainStep struct {
	d *Descriptor
	// promoted is set when d was reached by numeric promotion rather than
	// by a supertype link. Promotion cannot be reversed.
	promoted bool
}

// Chain returns d followed by its supertypes, then the targets of numeric
// promotion. For xsd:int this is int, long, integer, decimal, float, double.
func Chain(d *Descriptor) []*Descriptor {
	steps := chainOf(d)
	out := make([]*Descriptor, len(steps))
	for i, s := range steps {
		out[i] = s.d
	}
	return out
}

func chainOf(d *Descriptor) []chainStep {
	var out []chainStep
	promoted := false
	for cur := d; cur != nil && len(out) < maxChain; {
		out = append(out, chainStep{d: cur, promoted: promoted})
		if s := cur.Supertype(); s != nil {
			cur, promoted = s, false
			continue
		}
		cur, promoted = cur.Promoted(), true
	}
	return out
}

// CommonType returns the first datatype of a's chain that also appears in
// b's chain, or nil if the two datatypes share none.
func CommonType(a, b *Descriptor) *Descriptor {
	if a == b {
		return a
	}
	cb := chainOf(b)
	for _, s := range chainOf(a) {
		if indexOf(cb, s.d) >= 0 {
			return s.d
		}
	}
	return nil
}

func indexOf(chain []chainStep, d *Descriptor) int {
	for i, s := range chain {
		if s.d == d {
			return i
		}
	}
	return -1
}

// lift converts v of datatype d upwards to target, which must be on d's chain.
func lift(d *Descriptor, v Value, target *Descriptor) (Value, error) {
	for i, cur := 0, d; cur != target; i++ {
		if cur == nil || i >= maxChain {
			return nil, fmt.Errorf("%w: <%s> does not reach <%s>", ErrInvalidValueForCast, d.iri, target.iri)
		}
		switch {
		case cur.sub != nil && cur.Supertype() != nil:
			var err error
			if cur, v, err = cur.CastToSupertype(v); err != nil {
				return nil, err
			}
		case cur.prom != nil:
			v = cur.prom.Promote(v)
			cur = cur.Promoted()
		default:
			cur = nil
		}
	}
	return v, nil
}

// lower converts v of datatype from down to its subtype to. Every step must
// be a supertype link.
func lower(from *Descriptor, v Value, to *Descriptor) (Value, error) {
	chain := chainOf(to)
	i := indexOf(chain, from)
	if i < 0 {
		return nil, fmt.Errorf("%w: <%s> is not a supertype of <%s>", ErrInvalidValueForCast, from.iri, to.iri)
	}
	for ; i > 0; i-- {
		if chain[i].promoted {
			return nil, fmt.Errorf("%w: cannot narrow <%s> to <%s>", ErrInvalidValueForCast, chain[i].d.iri, chain[i-1].d.iri)
		}
		var err error
		if v, err = chain[i-1].d.CastFromSupertype(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// unify converts a and b to their common datatype.
func unify(da *Descriptor, a Value, db *Descriptor, b Value) (*Descriptor, Value, Value, error) {
	c := CommonType(da, db)
	if c == nil {
		return nil, nil, nil, fmt.Errorf("%w: <%s> and <%s> have no common type", ErrInvalidValueForCast, da.iri, db.iri)
	}
	av, err := lift(da, a, c)
	if err != nil {
		return nil, nil, nil, err
	}
	bv, err := lift(db, b, c)
	if err != nil {
		return nil, nil, nil, err
	}
	return c, av, bv, nil
}

// Compare orders values of possibly different datatypes in their common
// datatype. Values without a common orderable datatype are Incomparable.
func Compare(da *Descriptor, a Value, db *Descriptor, b Value) Ordering {
	c, av, bv, err := unify(da, a, db, b)
	if err != nil {
		return Incomparable
	}
	return c.Compare(av, bv)
}

// Add returns a + b in the common datatype of the operands.
func Add(da *Descriptor, a Value, db *Descriptor, b Value) (*Descriptor, Value, error) {
	return arithmetic(da, a, db, b, (*Descriptor).Add)
}

// Sub returns a - b in the common datatype of the operands.
func Sub(da *Descriptor, a Value, db *Descriptor, b Value) (*Descriptor, Value, error) {
	return arithmetic(da, a, db, b, (*Descriptor).Sub)
}

// Mul returns a * b in the common datatype of the operands.
func Mul(da *Descriptor, a Value, db *Descriptor, b Value) (*Descriptor, Value, error) {
	return arithmetic(da, a, db, b, (*Descriptor).Mul)
}

// Div returns a / b. Dividing two integers yields an xsd:decimal.
func Div(da *Descriptor, a Value, db *Descriptor, b Value) (*Descriptor, Value, error) {
	c := CommonType(da, db)
	if c == nil {
		return nil, nil, fmt.Errorf("%w: <%s> and <%s> have no common type", ErrInvalidValueForCast, da.iri, db.iri)
	}
	if dec := Lookup(XSDDecimal); c != dec && reachesBySupertype(c, dec) {
		av, err := lift(da, a, dec)
		if err != nil {
			return nil, nil, err
		}
		bv, err := lift(db, b, dec)
		if err != nil {
			return nil, nil, err
		}
		v, err := dec.Div(av, bv)
		return dec, v, err
	}
	return arithmetic(da, a, db, b, (*Descriptor).Div)
}

// Neg returns -a, widening to a supertype when the result leaves the
// range of a's datatype.
func Neg(d *Descriptor, a Value) (*Descriptor, Value, error) {
	return widening(d, a, nil, func(c *Descriptor, x, _ Value) (Value, error) { return c.Neg(x) })
}

// Pos returns +a.
func Pos(d *Descriptor, a Value) (*Descriptor, Value, error) {
	v, err := d.Pos(a)
	return d, v, err
}

func arithmetic(da *Descriptor, a Value, db *Descriptor, b Value, op func(*Descriptor, Value, Value) (Value, error)) (*Descriptor, Value, error) {
	c, av, bv, err := unify(da, a, db, b)
	if err != nil {
		return nil, nil, err
	}
	return widening(c, av, bv, op)
}

// widening applies op in c. If the result overflows a bounded subtype the
// operation is retried in the supertype, so that 0 - 1 on
// xsd:nonNegativeInteger gives xsd:integer -1. Promotion never happens
// implicitly on overflow.
func widening(c *Descriptor, a, b Value, op func(*Descriptor, Value, Value) (Value, error)) (*Descriptor, Value, error) {
	for {
		v, err := op(c, a, b)
		if err == nil || !errors.Is(err, ErrOverOrUnderFlow) || c.sub == nil {
			if err != nil {
				return nil, nil, err
			}
			return c, v, nil
		}
		super, av, cerr := c.CastToSupertype(a)
		if cerr != nil {
			return nil, nil, err
		}
		if b != nil {
			b = c.sub.ToSupertype(b)
		}
		c, a = super, av
	}
}

func reachesBySupertype(d, target *Descriptor) bool {
	for i, cur := 0, d; cur != nil && i < maxChain; i, cur = i+1, cur.Supertype() {
		if cur == target {
			return true
		}
	}
	return false
}

// Cast converts v from one datatype to another. Conversions along the
// supertype chain are value based and re-validate the target's
// constraints; anything else goes through the canonical lexical form.
func Cast(from *Descriptor, v Value, to *Descriptor) (Value, error) {
	if from == to {
		return v, nil
	}
	if out, ok, err := narrowNumeric(v, to); ok {
		return out, err
	}
	if c := CommonType(from, to); c != nil {
		lifted, err := lift(from, v, c)
		if err != nil {
			return nil, err
		}
		if c == to {
			return lifted, nil
		}
		if canLower(c, to) {
			return lower(c, lifted, to)
		}
	}

	out, err := to.Parse(from.Canonical(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %q to <%s>: %v", ErrInvalidValueForCast, from.Canonical(v), to.iri, err)
	}
	return out, nil
}

// canLower reports whether every step from c down to to is a supertype link.
// narrowNumeric casts float, double and decimal values down to xsd:decimal
// or an integer type. Integer targets truncate toward zero and then apply
// their range. NaN and the infinities have no decimal value. ok is false
// when the cast is not a numeric narrowing.
func narrowNumeric(v Value, to *Descriptor) (out Value, ok bool, err error) {
	dec, integer := Lookup(XSDDecimal), Lookup(XSDInteger)
	if to != dec && !reachesBySupertype(to, integer) {
		return nil, false, nil
	}
	var r *big.Rat
	switch x := v.(type) {
	case float32:
		r = exactRat(float64(x))
	case float64:
		r = exactRat(x)
	case Decimal:
		r = x.Rat()
	default:
		return nil, false, nil
	}
	if r == nil {
		return nil, true, fmt.Errorf("%w: %v to <%s>", ErrInvalidValueForCast, v, to.iri)
	}

	if to == dec {
		n := new(big.Int).Mul(r.Num(), pow10(DecimalMaxScale))
		d, _, nerr := normalizeDecimal(n.Quo(n, r.Denom()), DecimalMaxScale)
		if nerr != nil {
			return nil, true, fmt.Errorf("%w: %v to <%s>: %v", ErrInvalidValueForCast, v, to.iri, nerr)
		}
		return d, true, nil
	}
	out, err = lower(integer, new(big.Int).Quo(r.Num(), r.Denom()), to)
	return out, true, err
}

func exactRat(f float64) *big.Rat {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return new(big.Rat).SetFloat64(f)
}

func canLower(c, to *Descriptor) bool {
	chain := chainOf(to)
	i := indexOf(chain, c)
	for ; i > 0; i-- {
		if chain[i].promoted {
			return false
		}
	}
	return i == 0
}
