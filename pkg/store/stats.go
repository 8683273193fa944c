package store

import (
	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

// Stats is a point-in-time summary of a storage.
type Stats struct {
	Storage identifier.StorageID
	// Entries counts live views per backend kind. BackendIRI includes the
	// reserved datatype IRIs.
	Entries map[Backend]int
	// Specialized counts live views per specialized datatype IRI.
	Specialized map[string]int
	// Inlined counts literals that were resolved without a backend.
	Inlined uint64
	// Erased counts successful explicit erasures.
	Erased uint64
	// Rejected counts literal constructions that failed validation.
	Rejected uint64
}

// Stats collects the current entry counts and counters.
func (s *NodeStorage) Stats() Stats {
	st := Stats{
		Storage: s.id,
		Entries: map[Backend]int{
			BackendIRI:             s.iris.Len(),
			BackendBlankNode:       s.bnodes.Len(),
			BackendVariable:        s.variables.Len(),
			BackendFallbackLiteral: s.literals.Len(),
		},
		Specialized: make(map[string]int),
		Inlined:     s.inlined.Load(),
		Erased:      s.erased.Load(),
		Rejected:    s.rejected.Load(),
	}

	total := 0
	for tag, b := range s.special {
		if b == nil {
			continue
		}
		n := b.Len()
		st.Specialized[datatypes.IRIForTag(identifier.LiteralType(tag))] = n
		total += n
	}
	st.Entries[BackendSpecializedLiteral] = total
	return st
}

// Literals returns the number of literals held in backends.
func (st Stats) Literals() int {
	return st.Entries[BackendFallbackLiteral] + st.Entries[BackendSpecializedLiteral]
}
