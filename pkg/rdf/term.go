package rdf

import (
	"fmt"

	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
	"github.com/aleksaelezovic/rdfcore/pkg/store"
)

// Term is an interned RDF term. Terms are small values: a handle plus the
// content resolved when the term was built.
type Term interface {
	Kind() identifier.TermKind
	Handle() identifier.NodeBackendHandle
	String() string
	Equals(other Term) bool
}

// Datatype IRIs of the fixed datatypes
const (
	XSDString             = datatypes.XSDString
	RDFLangString         = datatypes.RDFLangString
	XSDBoolean            = datatypes.XSDBoolean
	XSDDecimal            = datatypes.XSDDecimal
	XSDFloat              = datatypes.XSDFloat
	XSDDouble             = datatypes.XSDDouble
	XSDInteger            = datatypes.XSDInteger
	XSDNonPositiveInteger = datatypes.XSDNonPositiveInteger
	XSDNegativeInteger    = datatypes.XSDNegativeInteger
	XSDLong               = datatypes.XSDLong
	XSDInt                = datatypes.XSDInt
	XSDShort              = datatypes.XSDShort
	XSDByte               = datatypes.XSDByte
	XSDNonNegativeInteger = datatypes.XSDNonNegativeInteger
	XSDPositiveInteger    = datatypes.XSDPositiveInteger
	XSDUnsignedLong       = datatypes.XSDUnsignedLong
	XSDUnsignedInt        = datatypes.XSDUnsignedInt
	XSDUnsignedShort      = datatypes.XSDUnsignedShort
	XSDUnsignedByte       = datatypes.XSDUnsignedByte
	XSDDate               = datatypes.XSDDate
	XSDTime               = datatypes.XSDTime
	XSDDateTime           = datatypes.XSDDateTime
	XSDDateTimeStamp      = datatypes.XSDDateTimeStamp
	XSDGYear              = datatypes.XSDGYear
	XSDGMonth             = datatypes.XSDGMonth
	XSDGDay               = datatypes.XSDGDay
	XSDGYearMonth         = datatypes.XSDGYearMonth
	XSDGMonthDay          = datatypes.XSDGMonthDay
	XSDDuration           = datatypes.XSDDuration
	XSDDayTimeDuration    = datatypes.XSDDayTimeDuration
	XSDYearMonthDuration  = datatypes.XSDYearMonthDuration
	XSDHexBinary          = datatypes.XSDHexBinary
	XSDBase64Binary       = datatypes.XSDBase64Binary
	OWLReal               = datatypes.OWLReal
	OWLRational           = datatypes.OWLRational
)

// IRI is a named node.
type IRI struct {
	h   identifier.NodeBackendHandle
	iri string
}

// NewIRI interns an IRI in the default storage.
func NewIRI(iri string) (IRI, error) {
	return NewIRIIn(store.Default(), iri)
}

// NewIRIIn interns an IRI in s.
func NewIRIIn(s *store.NodeStorage, iri string) (IRI, error) {
	h, err := s.FindOrMakeIRI(iri)
	if err != nil {
		return IRI{}, err
	}
	return IRI{h: h, iri: iri}, nil
}

func (n IRI) Kind() identifier.TermKind { return identifier.KindIRI }
func (n IRI) Handle() identifier.NodeBackendHandle { return n.h }

// Value returns the IRI string.
func (n IRI) Value() string { return n.iri }

func (n IRI) String() string { return "<" + escapeIRI(n.iri) + ">" }

func (n IRI) Equals(other Term) bool {
	o, ok := other.(IRI)
	return ok && sameTerm(n.h, o.h, n.iri == o.iri)
}

// BlankNode is a blank node.
type BlankNode struct {
	h     identifier.NodeBackendHandle
	label string
}

// NewBlankNode interns a labelled blank node in the default storage.
func NewBlankNode(label string) (BlankNode, error) {
	return NewBlankNodeIn(store.Default(), label)
}

// NewBlankNodeIn interns a labelled blank node in s.
func NewBlankNodeIn(s *store.NodeStorage, label string) (BlankNode, error) {
	h, err := s.FindOrMakeBlankNode(label)
	if err != nil {
		return BlankNode{}, err
	}
	return BlankNode{h: h, label: label}, nil
}

// NewFreshBlankNode creates a blank node with a random label in the
// default storage.
func NewFreshBlankNode() (BlankNode, error) {
	return NewFreshBlankNodeIn(store.Default())
}

// NewFreshBlankNodeIn creates a blank node with a random label in s.
func NewFreshBlankNodeIn(s *store.NodeStorage) (BlankNode, error) {
	return NewBlankNodeIn(s, store.FreshBlankNodeLabel())
}

func (b BlankNode) Kind() identifier.TermKind { return identifier.KindBlankNode }
func (b BlankNode) Handle() identifier.NodeBackendHandle { return b.h }

// Label returns the blank node label.
func (b BlankNode) Label() string { return b.label }

func (b BlankNode) String() string { return "_:" + b.label }

func (b BlankNode) Equals(other Term) bool {
	o, ok := other.(BlankNode)
	// Labels are scoped to their storage
	return ok && b.h == o.h
}

// Variable is a query variable.
type Variable struct {
	h    identifier.NodeBackendHandle
	view store.VariableView
}

// NewVariable interns a variable in the default storage.
func NewVariable(name string, anonymous bool) (Variable, error) {
	return NewVariableIn(store.Default(), name, anonymous)
}

// NewVariableIn interns a variable in s.
func NewVariableIn(s *store.NodeStorage, name string, anonymous bool) (Variable, error) {
	h, err := s.FindOrMakeVariable(name, anonymous)
	if err != nil {
		return Variable{}, err
	}
	return Variable{h: h, view: store.VariableView{Name: name, Anonymous: anonymous}}, nil
}

func (v Variable) Kind() identifier.TermKind { return identifier.KindVariable }
func (v Variable) Handle() identifier.NodeBackendHandle { return v.h }

// Name returns the variable name without the leading '?'.
func (v Variable) Name() string { return v.view.Name }

// IsAnonymous reports whether the variable was introduced by a parser.
func (v Variable) IsAnonymous() bool { return v.view.Anonymous }

func (v Variable) String() string { return "?" + v.view.Name }

func (v Variable) Equals(other Term) bool {
	o, ok := other.(Variable)
	return ok && sameTerm(v.h, o.h, v.view == o.view)
}

// FromHandle resolves a handle issued by any open storage.
func FromHandle(h identifier.NodeBackendHandle) (Term, error) {
	s, ok := store.Owner(h)
	if !ok {
		return nil, fmt.Errorf("%w: storage %d is not open", store.ErrForeignHandle, h.Storage())
	}

	switch h.Kind() {
	case identifier.KindIRI:
		iri, err := s.IRI(h)
		if err != nil {
			return nil, err
		}
		return IRI{h: h, iri: iri}, nil
	case identifier.KindBlankNode:
		label, err := s.BlankNode(h)
		if err != nil {
			return nil, err
		}
		return BlankNode{h: h, label: label}, nil
	case identifier.KindVariable:
		v, err := s.Variable(h)
		if err != nil {
			return nil, err
		}
		return Variable{h: h, view: v}, nil
	default:
		lv, err := s.Literal(h)
		if err != nil {
			return nil, err
		}
		return Literal{h: h, s: s, view: lv}, nil
	}
}

// sameTerm compares two handles. Handles of one storage are equal exactly
// when the terms are; across storages the content decides.
func sameTerm(a, b identifier.NodeBackendHandle, sameContent bool) bool {
	if a.Storage() == b.Storage() {
		return a == b
	}
	return sameContent
}
