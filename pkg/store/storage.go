package store

import (
	"errors"
)

var (
	// ErrForeignHandle is returned for a handle issued by another storage.
	ErrForeignHandle = errors.New("handle belongs to another storage")
	// ErrUnknownTerm is returned for handles whose term is not stored.
	ErrUnknownTerm = errors.New("term not found")
	// ErrKindMismatch is returned when a handle is decoded as the wrong kind.
	ErrKindMismatch = errors.New("handle has the wrong term kind")
	// ErrLanguageTag reports a malformed or misplaced language tag.
	ErrLanguageTag = errors.New("invalid language tag")
	// ErrNotErasable is returned by Erase for terms that must stay stored.
	ErrNotErasable = errors.New("term cannot be erased")
	// ErrUnknownDatatype is returned when a typed value needs a registered datatype.
	ErrUnknownDatatype = errors.New("datatype is not registered")
	// ErrStorageFull is returned when a backend id no longer fits a handle.
	ErrStorageFull = errors.New("storage id space exhausted")
	// ErrClosed is returned by every operation on a closed storage.
	ErrClosed = errors.New("storage is closed")
)

// Backend names one of the interning tables of a NodeStorage.
type Backend byte

const (
	// IRIs, including the reserved fixed datatype IRIs
	BackendIRI Backend = iota

	BackendBlankNode
	BackendVariable

	// Literals keyed by datatype, lexical form and language tag
	BackendFallbackLiteral

	// Literals of a fixed datatype keyed by canonical value
	BackendSpecializedLiteral

	// Total number of backend kinds
	BackendCount
)

func (b Backend) String() string {
	switch b {
	case BackendIRI:
		return "iri"
	case BackendBlankNode:
		return "blank_node"
	case BackendVariable:
		return "variable"
	case BackendFallbackLiteral:
		return "fallback_literal"
	case BackendSpecializedLiteral:
		return "specialized_literal"
	default:
		return "unknown"
	}
}

// Backends returns every backend kind in declaration order.
func Backends() []Backend {
	out := make([]Backend, 0, BackendCount)
	for b := Backend(0); b < BackendCount; b++ {
		out = append(out, b)
	}
	return out
}
