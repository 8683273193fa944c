package store

import (
	"github.com/aleksaelezovic/rdfcore/internal/storage"
	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

// IRIView is the stored form of an IRI.
type IRIView struct {
	IRI string
}

func (v IRIView) Hash() uint64 { return storage.HashString(v.IRI) }
func (v IRIView) Equal(other IRIView) bool { return v.IRI == other.IRI }

// BlankNodeView is the stored form of a blank node.
type BlankNodeView struct {
	Label string
}

func (v BlankNodeView) Hash() uint64 { return storage.HashString(v.Label) }
func (v BlankNodeView) Equal(other BlankNodeView) bool { return v.Label == other.Label }

// VariableView is the stored form of a query variable. An anonymous
// variable and a named one with the same name are different terms.
type VariableView struct {
	Name      string
	Anonymous bool
}

func (v VariableView) Hash() uint64 {
	var seed uint64
	if v.Anonymous {
		seed = 1
	}
	return storage.HashFields(seed, v.Name)
}

func (v VariableView) Equal(other VariableView) bool {
	return v.Name == other.Name && v.Anonymous == other.Anonymous
}

// FallbackLiteralView is the stored form of a literal kept by lexical form.
// Datatype is the NodeID of the datatype IRI in the IRI backend; for fixed
// datatypes this equals the datatype tag.
type FallbackLiteralView struct {
	Datatype identifier.NodeID
	Lexical  string
	Lang     string
}

func (v FallbackLiteralView) Hash() uint64 {
	return storage.HashFields(uint64(v.Datatype), v.Lexical, v.Lang)
}

func (v FallbackLiteralView) Equal(other FallbackLiteralView) bool {
	return v.Datatype == other.Datatype && v.Lexical == other.Lexical && v.Lang == other.Lang
}

// ValueLiteralView is the stored form of a literal in a specialized backend.
// The datatype is implied by the backend, identity is the canonical form.
type ValueLiteralView struct {
	Canonical string
	Value     datatypes.Value
}

func (v ValueLiteralView) Hash() uint64 { return storage.HashString(v.Canonical) }

func (v ValueLiteralView) Equal(other ValueLiteralView) bool {
	return v.Canonical == other.Canonical
}

// LiteralView is what callers get back for a literal handle.
type LiteralView struct {
	// Lexical is the stored lexical form. For fixed datatypes it is canonical.
	Lexical string
	// Datatype is the datatype IRI.
	Datatype string
	// Language is the normalized language tag of an rdf:langString.
	Language string
	// Descriptor is nil when the datatype is not registered.
	Descriptor *datatypes.Descriptor
	// Value is the typed value, nil when Descriptor is nil.
	Value datatypes.Value
	// Inlined reports that the value lives in the handle itself.
	Inlined bool
}
