// Package datatypes implements the literal datatype capability framework.
//
// Every datatype implements Datatype (parse and canonical rendering) and any
// subset of the optional capability interfaces below. Capabilities are
// discovered once, when the datatype is registered, and bundled into a
// Descriptor. Fixed datatypes are addressed by their 6-bit literal type tag;
// datatypes registered at runtime are addressed by IRI.
package datatypes

// Value is the typed value of a literal. Its concrete Go type is decided by
// the datatype, e.g. *big.Int for xsd:integer or Date for xsd:date.
type Value = any

// Datatype is the minimal contract of a literal datatype.
type Datatype interface {
	// IRI returns the datatype IRI.
	IRI() string
	// Parse converts a lexical form to a value. It consults LenientParsing.
	Parse(lexical string) (Value, error)
	// Canonical renders the unique canonical lexical form of v.
	Canonical(v Value) string
}

// Orderable datatypes define a (partial) order over their values.
type Orderable interface {
	Compare(a, b Value) Ordering
}

// BooleanValued datatypes define an effective boolean value.
type BooleanValued interface {
	EffectiveBoolean(v Value) bool
}

// Arithmetic datatypes are closed under the numeric operators.
type Arithmetic interface {
	Add(a, b Value) (Value, error)
	Sub(a, b Value) (Value, error)
	Mul(a, b Value) (Value, error)
	Div(a, b Value) (Value, error)
	Neg(a Value) (Value, error)
	Pos(a Value) (Value, error)
}

// Subtyped datatypes derive from exactly one supertype.
// An empty Supertype means the datatype is a root.
type Subtyped interface {
	Supertype() string
	ToSupertype(v Value) Value
	FromSupertype(v Value) (Value, error)
}

// Promotable datatypes convert losslessly enough to a wider numeric type.
type Promotable interface {
	PromotedType() string
	Promote(v Value) Value
}

// Inliner datatypes can pack some values into a 42-bit handle payload.
type Inliner interface {
	TryPack(v Value) (uint64, bool)
	Unpack(bits uint64) Value
}

// Validator datatypes check values that were built directly instead of
// by Parse. Validate accepts the values Parse can produce in strict mode.
type Validator interface {
	Validate(v Value) error
}

// Specialized datatypes store non-inlined values in a backend keyed by
// value instead of the generic lexical-form backend.
type Specialized interface {
	SpecializedStorage() bool
}
