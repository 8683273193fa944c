package datatypes

import (
	"fmt"

	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

// Descriptor bundles the capabilities of one datatype. Descriptors are built
// once at registration and are immutable afterwards.
type Descriptor struct {
	iri  string
	tag  identifier.LiteralType
	dt   Datatype
	ord  Orderable
	ebv  BooleanValued
	ar   Arithmetic
	sub  Subtyped
	prom Promotable
	inl  Inliner
	val  Validator
	sep  bool
}

func newDescriptor(dt Datatype, tag identifier.LiteralType) *Descriptor {
	d := &Descriptor{iri: dt.IRI(), tag: tag, dt: dt}
	d.ord, _ = dt.(Orderable)
	d.ebv, _ = dt.(BooleanValued)
	d.ar, _ = dt.(Arithmetic)
	if s, ok := dt.(Subtyped); ok && s.Supertype() != "" {
		d.sub = s
	}
	if p, ok := dt.(Promotable); ok && p.PromotedType() != "" {
		d.prom = p
	}
	d.inl, _ = dt.(Inliner)
	d.val, _ = dt.(Validator)
	if s, ok := dt.(Specialized); ok {
		d.sep = s.SpecializedStorage()
	}
	return d
}

// IRI returns the datatype IRI.
func (d *Descriptor) IRI() string { return d.iri }

// Tag returns the fixed literal type tag, or LiteralTypeDynamic.
func (d *Descriptor) Tag() identifier.LiteralType { return d.tag }

// IsFixed reports whether the datatype has a fixed tag.
func (d *Descriptor) IsFixed() bool { return d.tag.IsFixed() }

// Datatype returns the underlying implementation.
func (d *Descriptor) Datatype() Datatype { return d.dt }

// CanInline reports whether some values of the datatype fit in a handle.
func (d *Descriptor) CanInline() bool { return d.inl != nil }

// SpecializedStorage reports whether non-inlined values are interned by value.
func (d *Descriptor) SpecializedStorage() bool { return d.sep }

// IsOrderable reports whether the datatype defines an order.
func (d *Descriptor) IsOrderable() bool { return d.ord != nil }

// IsNumeric reports whether the datatype supports arithmetic.
func (d *Descriptor) IsNumeric() bool { return d.ar != nil }

// Parse converts a lexical form to a value.
func (d *Descriptor) Parse(lexical string) (Value, error) {
	return d.dt.Parse(lexical)
}

// Canonical renders the canonical lexical form of v.
func (d *Descriptor) Canonical(v Value) string {
	return d.dt.Canonical(v)
}

// CanonicalLexical parses lexical and renders it canonically.
func (d *Descriptor) CanonicalLexical(lexical string) (string, error) {
	v, err := d.dt.Parse(lexical)
	if err != nil {
		return "", err
	}
	return d.dt.Canonical(v), nil
}

// Validate checks that v is a value of the datatype that Parse could have
// produced. Datatypes without a Validator are checked by re-parsing the
// canonical form of v, which must reproduce itself.
func (d *Descriptor) Validate(v Value) error {
	if v == nil {
		return wrongValueType(d.iri, v)
	}
	if d.val != nil {
		return d.val.Validate(v)
	}
	lexical := d.dt.Canonical(v)
	w, err := d.dt.Parse(lexical)
	if err != nil {
		return invalidValue(d.iri, lexical, "%v", err)
	}
	if d.dt.Canonical(w) != lexical {
		return invalidValue(d.iri, lexical, "not a canonical value")
	}
	return nil
}

// Compare orders two values of this datatype. Datatypes without an order
// yield Incomparable.
func (d *Descriptor) Compare(a, b Value) Ordering {
	if d.ord == nil {
		return Incomparable
	}
	return d.ord.Compare(a, b)
}

// EffectiveBoolean returns the effective boolean value of v.
func (d *Descriptor) EffectiveBoolean(v Value) (bool, error) {
	if d.ebv == nil {
		return false, d.unsupported("effective boolean value")
	}
	return d.ebv.EffectiveBoolean(v), nil
}

// Add returns a + b.
func (d *Descriptor) Add(a, b Value) (Value, error) {
	if d.ar == nil {
		return nil, d.unsupported("add")
	}
	return d.ar.Add(a, b)
}

// Sub returns a - b.
func (d *Descriptor) Sub(a, b Value) (Value, error) {
	if d.ar == nil {
		return nil, d.unsupported("sub")
	}
	return d.ar.Sub(a, b)
}

// Mul returns a * b.
func (d *Descriptor) Mul(a, b Value) (Value, error) {
	if d.ar == nil {
		return nil, d.unsupported("mul")
	}
	return d.ar.Mul(a, b)
}

// Div returns a / b.
func (d *Descriptor) Div(a, b Value) (Value, error) {
	if d.ar == nil {
		return nil, d.unsupported("div")
	}
	return d.ar.Div(a, b)
}

// Neg returns -a.
func (d *Descriptor) Neg(a Value) (Value, error) {
	if d.ar == nil {
		return nil, d.unsupported("neg")
	}
	return d.ar.Neg(a)
}

// Pos returns +a.
func (d *Descriptor) Pos(a Value) (Value, error) {
	if d.ar == nil {
		return nil, d.unsupported("pos")
	}
	return d.ar.Pos(a)
}

// Supertype returns the descriptor of the direct supertype, or nil.
func (d *Descriptor) Supertype() *Descriptor {
	if d.sub == nil {
		return nil
	}
	return Lookup(d.sub.Supertype())
}

// CastToSupertype converts v to the direct supertype.
func (d *Descriptor) CastToSupertype(v Value) (*Descriptor, Value, error) {
	super := d.Supertype()
	if super == nil {
		return nil, nil, fmt.Errorf("%w: <%s> has no supertype", ErrInvalidValueForCast, d.iri)
	}
	return super, d.sub.ToSupertype(v), nil
}

// CastFromSupertype converts a value of the direct supertype to this
// datatype, re-validating this datatype's constraints.
func (d *Descriptor) CastFromSupertype(v Value) (Value, error) {
	if d.sub == nil {
		return nil, fmt.Errorf("%w: <%s> has no supertype", ErrInvalidValueForCast, d.iri)
	}
	return d.sub.FromSupertype(v)
}

// Promoted returns the descriptor numeric promotion leads to, or nil.
func (d *Descriptor) Promoted() *Descriptor {
	if d.prom == nil {
		return nil
	}
	return Lookup(d.prom.PromotedType())
}

// TryPack packs v into a handle payload if it fits.
func (d *Descriptor) TryPack(v Value) (uint64, bool) {
	if d.inl == nil {
		return 0, false
	}
	return d.inl.TryPack(v)
}

// Unpack restores a value packed by TryPack.
func (d *Descriptor) Unpack(bits uint64) (Value, error) {
	if d.inl == nil {
		return nil, d.unsupported("unpack")
	}
	return d.inl.Unpack(bits), nil
}

func (d *Descriptor) unsupported(op string) error {
	return fmt.Errorf("%w: %s on <%s>", ErrUnsupportedOperation, op, d.iri)
}

func (d *Descriptor) String() string {
	return d.iri
}
