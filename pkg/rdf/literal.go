package rdf

import (
	"fmt"

	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
	"github.com/aleksaelezovic/rdfcore/pkg/store"
)

// Literal is an interned literal. Results of arithmetic and casts are
// interned in the storage of the receiver.
type Literal struct {
	h    identifier.NodeBackendHandle
	s    *store.NodeStorage
	view store.LiteralView
}

// NewLiteral interns a typed literal in the default storage. An empty
// datatype means xsd:string.
func NewLiteral(lexical, datatype string) (Literal, error) {
	return NewLiteralIn(store.Default(), lexical, datatype)
}

// NewLiteralIn interns a typed literal in s.
func NewLiteralIn(s *store.NodeStorage, lexical, datatype string) (Literal, error) {
	return literalIn(s, lexical, datatype, "")
}

// NewLangLiteral interns a language-tagged string in the default storage.
func NewLangLiteral(lexical, lang string) (Literal, error) {
	return NewLangLiteralIn(store.Default(), lexical, lang)
}

// NewLangLiteralIn interns a language-tagged string in s.
func NewLangLiteralIn(s *store.NodeStorage, lexical, lang string) (Literal, error) {
	return literalIn(s, lexical, RDFLangString, lang)
}

// NewTypedLiteral interns a value of a registered datatype in the default
// storage.
func NewTypedLiteral(v datatypes.Value, datatype string) (Literal, error) {
	return NewTypedLiteralIn(store.Default(), v, datatype)
}

// NewTypedLiteralIn interns a value of a registered datatype in s.
func NewTypedLiteralIn(s *store.NodeStorage, v datatypes.Value, datatype string) (Literal, error) {
	desc := datatypes.Lookup(datatype)
	if desc == nil {
		return Literal{}, fmt.Errorf("%w: <%s>", store.ErrUnknownDatatype, datatype)
	}
	return valueIn(s, desc, v)
}

func literalIn(s *store.NodeStorage, lexical, datatype, lang string) (Literal, error) {
	h, err := s.FindOrMakeLiteral(lexical, datatype, lang)
	if err != nil {
		return Literal{}, err
	}
	return resolve(s, h)
}

func valueIn(s *store.NodeStorage, desc *datatypes.Descriptor, v datatypes.Value) (Literal, error) {
	h, err := s.FindOrMakeLiteralValue(desc, v)
	if err != nil {
		return Literal{}, err
	}
	return resolve(s, h)
}

func resolve(s *store.NodeStorage, h identifier.NodeBackendHandle) (Literal, error) {
	lv, err := s.Literal(h)
	if err != nil {
		return Literal{}, err
	}
	return Literal{h: h, s: s, view: lv}, nil
}

func (l Literal) Kind() identifier.TermKind { return identifier.KindLiteral }
func (l Literal) Handle() identifier.NodeBackendHandle { return l.h }

// Lexical returns the stored lexical form, canonical for registered datatypes.
func (l Literal) Lexical() string { return l.view.Lexical }

// Datatype returns the datatype IRI.
func (l Literal) Datatype() string { return l.view.Datatype }

// Language returns the normalized language tag, or "". Common tags are
// read from the handle.
func (l Literal) Language() string {
	if tag, ok := store.LanguageTagOf(l.h); ok {
		return tag
	}
	return l.view.Language
}

// Value returns the typed value, or nil for unregistered datatypes.
func (l Literal) Value() datatypes.Value { return l.view.Value }

// Descriptor returns the datatype descriptor, or nil for unregistered
// datatypes.
func (l Literal) Descriptor() *datatypes.Descriptor { return l.view.Descriptor }

// IsInlined reports whether the value lives in the handle.
func (l Literal) IsInlined() bool { return l.view.Inlined }

func (l Literal) String() string {
	s := `"` + escapeString(l.view.Lexical) + `"`
	switch {
	case l.view.Language != "":
		return s + "@" + l.view.Language
	case l.view.Datatype == XSDString:
		return s
	default:
		return s + "^^<" + escapeIRI(l.view.Datatype) + ">"
	}
}

func (l Literal) Equals(other Term) bool {
	o, ok := other.(Literal)
	if !ok {
		return false
	}
	return sameTerm(l.h, o.h, l.view.Lexical == o.view.Lexical &&
		l.view.Datatype == o.view.Datatype &&
		l.view.Language == o.view.Language)
}

// EffectiveBoolean returns the effective boolean value.
func (l Literal) EffectiveBoolean() (bool, error) {
	d, err := l.descriptor()
	if err != nil {
		return false, err
	}
	return d.EffectiveBoolean(l.view.Value)
}

// Compare orders two literals by value. Literals of unregistered datatypes
// only compare Equal to themselves.
func (l Literal) Compare(other Literal) datatypes.Ordering {
	if l.view.Descriptor == nil || other.view.Descriptor == nil {
		if l.Equals(other) {
			return datatypes.Equal
		}
		return datatypes.Incomparable
	}
	return datatypes.Compare(l.view.Descriptor, l.view.Value, other.view.Descriptor, other.view.Value)
}

// Add returns l + other.
func (l Literal) Add(other Literal) (Literal, error) { return l.binary(other, datatypes.Add) }

// Sub returns l - other.
func (l Literal) Sub(other Literal) (Literal, error) { return l.binary(other, datatypes.Sub) }

// Mul returns l * other.
func (l Literal) Mul(other Literal) (Literal, error) { return l.binary(other, datatypes.Mul) }

// Div returns l / other. Integer division yields xsd:decimal.
func (l Literal) Div(other Literal) (Literal, error) { return l.binary(other, datatypes.Div) }

// Neg returns -l.
func (l Literal) Neg() (Literal, error) { return l.unary(datatypes.Neg) }

// Pos returns +l.
func (l Literal) Pos() (Literal, error) { return l.unary(datatypes.Pos) }

// CastToSupertype converts l to the direct supertype of its datatype.
func (l Literal) CastToSupertype() (Literal, error) {
	d, err := l.descriptor()
	if err != nil {
		return Literal{}, err
	}
	super, v, err := d.CastToSupertype(l.view.Value)
	if err != nil {
		return Literal{}, err
	}
	return valueIn(l.s, super, v)
}

// Cast converts l to another registered datatype.
func (l Literal) Cast(datatype string) (Literal, error) {
	d, err := l.descriptor()
	if err != nil {
		return Literal{}, err
	}
	to := datatypes.Lookup(datatype)
	if to == nil {
		return Literal{}, fmt.Errorf("%w: <%s>", store.ErrUnknownDatatype, datatype)
	}
	v, err := datatypes.Cast(d, l.view.Value, to)
	if err != nil {
		return Literal{}, err
	}
	return valueIn(l.s, to, v)
}

type binaryOp func(*datatypes.Descriptor, datatypes.Value, *datatypes.Descriptor, datatypes.Value) (*datatypes.Descriptor, datatypes.Value, error)

func (l Literal) binary(other Literal, op binaryOp) (Literal, error) {
	a, err := l.descriptor()
	if err != nil {
		return Literal{}, err
	}
	b, err := other.descriptor()
	if err != nil {
		return Literal{}, err
	}
	d, v, err := op(a, l.view.Value, b, other.view.Value)
	if err != nil {
		return Literal{}, err
	}
	return valueIn(l.s, d, v)
}

func (l Literal) unary(op func(*datatypes.Descriptor, datatypes.Value) (*datatypes.Descriptor, datatypes.Value, error)) (Literal, error) {
	a, err := l.descriptor()
	if err != nil {
		return Literal{}, err
	}
	d, v, err := op(a, l.view.Value)
	if err != nil {
		return Literal{}, err
	}
	return valueIn(l.s, d, v)
}

func (l Literal) descriptor() (*datatypes.Descriptor, error) {
	if l.view.Descriptor == nil {
		return nil, fmt.Errorf("%w: <%s>", store.ErrUnknownDatatype, l.view.Datatype)
	}
	return l.view.Descriptor, nil
}
