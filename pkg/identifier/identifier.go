// Package identifier defines the bit layout of term handles.
//
// A handle is a single 64-bit word plus the id of the storage instance that
// owns it:
//
//	bits  0..47  NodeID      (for literals: LiteralID bits 0..41, LiteralType bits 42..47)
//	bits 48..49  TermKind
//	bit  50      inlined flag (literals only)
//	bits 51..63  free tagging bits
//
// Encoding never fails. Inputs wider than their field are masked, callers are
// responsible for respecting the widths.
package identifier

import (
	"fmt"
)

// Field widths of the handle word.
const (
	NodeIDBits      = 48
	LiteralIDBits   = 42
	LiteralTypeBits = 6
	TermKindBits    = 2
	InlinedBits     = 1
	TaggingBits     = 13
)

// Field offsets inside the handle word.
const (
	nodeIDShift   = 0
	kindShift     = NodeIDBits
	inlinedShift  = kindShift + TermKindBits
	taggingShift  = inlinedShift + InlinedBits
	litTypeShift  = LiteralIDBits
	nodeIDMask    = uint64(1)<<NodeIDBits - 1
	literalIDMask = uint64(1)<<LiteralIDBits - 1
	litTypeMask   = uint64(1)<<LiteralTypeBits - 1
	kindMask      = uint64(1)<<TermKindBits - 1
	taggingMask   = uint64(1)<<TaggingBits - 1
)

// MaxNodeID is the largest NodeID that fits the handle word.
const MaxNodeID NodeID = NodeID(nodeIDMask)

// MaxLiteralID is the largest LiteralID that fits next to a LiteralType.
const MaxLiteralID LiteralID = LiteralID(literalIDMask)

// MaxTaggingBits is the largest value the free tagging bits can hold.
const MaxTaggingBits uint16 = uint16(taggingMask)

// TermKind is the 2-bit RDF term kind tag.
type TermKind uint8

const (
	// KindIRI marks an IRI handle.
	KindIRI TermKind = iota
	// KindLiteral marks a literal handle, inlined or stored.
	KindLiteral
	// KindBlankNode marks a blank node handle.
	KindBlankNode
	// KindVariable marks a query variable handle.
	KindVariable
)

func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindLiteral:
		return "literal"
	case KindBlankNode:
		return "bnode"
	case KindVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// NodeID is the 48-bit payload of a handle. 0 denotes the null term.
type NodeID uint64

// LiteralID is the 42-bit value part of a literal NodeID.
type LiteralID uint64

// LiteralType is the 6-bit datatype tag of a literal NodeID.
type LiteralType uint8

const (
	// LiteralTypeDynamic marks a literal whose datatype is an interned IRI.
	LiteralTypeDynamic LiteralType = 0
	// LiteralTypeReserved is never assigned.
	LiteralTypeReserved LiteralType = 1
	// FirstFixedLiteralType is the lowest tag a fixed datatype may use.
	FirstFixedLiteralType LiteralType = 2
	// LastFixedLiteralType is the highest tag a fixed datatype may use.
	LastFixedLiteralType LiteralType = 61
	// MaxLiteralType is the largest value of the 6-bit field.
	MaxLiteralType LiteralType = LiteralType(litTypeMask)
)

// IsFixed reports whether t lies in the fixed datatype range.
func (t LiteralType) IsFixed() bool {
	return t >= FirstFixedLiteralType && t <= LastFixedLiteralType
}

// IsDynamic reports whether t is the dynamic datatype tag.
func (t LiteralType) IsDynamic() bool {
	return t == LiteralTypeDynamic
}

// NewLiteralNodeID combines a LiteralID and a LiteralType into a NodeID.
func NewLiteralNodeID(id LiteralID, t LiteralType) NodeID {
	return NodeID((uint64(t)&litTypeMask)<<litTypeShift | uint64(id)&literalIDMask)
}

// LiteralID returns the value part of a literal NodeID.
func (n NodeID) LiteralID() LiteralID {
	return LiteralID(uint64(n) & literalIDMask)
}

// LiteralType returns the datatype tag of a literal NodeID.
func (n NodeID) LiteralType() LiteralType {
	return LiteralType(uint64(n) >> litTypeShift & litTypeMask)
}

// NodeBackendID is the encoded handle word.
type NodeBackendID uint64

// NewNodeBackendID encodes the handle word.
func NewNodeBackendID(id NodeID, kind TermKind, inlined bool, tagging uint16) NodeBackendID {
	w := uint64(id) & nodeIDMask
	w |= (uint64(kind) & kindMask) << kindShift
	if inlined {
		w |= 1 << inlinedShift
	}
	w |= (uint64(tagging) & taggingMask) << taggingShift
	return NodeBackendID(w)
}

// NodeID returns the 48-bit payload.
func (b NodeBackendID) NodeID() NodeID {
	return NodeID(uint64(b) >> nodeIDShift & nodeIDMask)
}

// Kind returns the term kind.
func (b NodeBackendID) Kind() TermKind {
	return TermKind(uint64(b) >> kindShift & kindMask)
}

// IsInlined reports whether the literal value lives in the handle itself.
func (b NodeBackendID) IsInlined() bool {
	return uint64(b)>>inlinedShift&1 == 1
}

// TaggingBits returns the free tagging bits.
func (b NodeBackendID) TaggingBits() uint16 {
	return uint16(uint64(b) >> taggingShift & taggingMask) // #nosec G115 - masked to 13 bits
}

// WithTaggingBits returns b with its tagging bits replaced.
func (b NodeBackendID) WithTaggingBits(tagging uint16) NodeBackendID {
	w := uint64(b) &^ (taggingMask << taggingShift)
	w |= (uint64(tagging) & taggingMask) << taggingShift
	return NodeBackendID(w)
}

// IsNull reports whether b denotes no term.
func (b NodeBackendID) IsNull() bool {
	return b.NodeID() == 0
}

// StorageID identifies a storage instance within the process. 0 is none.
type StorageID uint32

// NodeBackendHandle is the externally visible identity of a term.
// The zero value is the null handle.
type NodeBackendHandle struct {
	id      NodeBackendID
	storage StorageID
}

// NewHandle encodes a handle owned by storage.
func NewHandle(id NodeID, kind TermKind, storage StorageID, inlined bool, tagging uint16) NodeBackendHandle {
	return NodeBackendHandle{
		id:      NewNodeBackendID(id, kind, inlined, tagging),
		storage: storage,
	}
}

// HandleFromParts pairs an already encoded word with its storage.
func HandleFromParts(id NodeBackendID, storage StorageID) NodeBackendHandle {
	return NodeBackendHandle{id: id, storage: storage}
}

// ID returns the encoded word.
func (h NodeBackendHandle) ID() NodeBackendID { return h.id }

// Storage returns the owning storage instance id.
func (h NodeBackendHandle) Storage() StorageID { return h.storage }

// NodeID returns the 48-bit payload.
func (h NodeBackendHandle) NodeID() NodeID { return h.id.NodeID() }

// Kind returns the term kind.
func (h NodeBackendHandle) Kind() TermKind { return h.id.Kind() }

// IsInlined reports whether the literal value lives in the handle itself.
func (h NodeBackendHandle) IsInlined() bool { return h.id.IsInlined() }

// TaggingBits returns the free tagging bits.
func (h NodeBackendHandle) TaggingBits() uint16 { return h.id.TaggingBits() }

// IsNull reports whether h denotes no term.
func (h NodeBackendHandle) IsNull() bool { return h.id.IsNull() }

// IsIRI reports whether h is an IRI handle.
func (h NodeBackendHandle) IsIRI() bool { return !h.IsNull() && h.Kind() == KindIRI }

// IsLiteral reports whether h is a literal handle.
func (h NodeBackendHandle) IsLiteral() bool { return !h.IsNull() && h.Kind() == KindLiteral }

// IsBlankNode reports whether h is a blank node handle.
func (h NodeBackendHandle) IsBlankNode() bool { return !h.IsNull() && h.Kind() == KindBlankNode }

// IsVariable reports whether h is a variable handle.
func (h NodeBackendHandle) IsVariable() bool { return !h.IsNull() && h.Kind() == KindVariable }

// SetTaggingBits stores scratch bits in the handle. They must be cleared
// before the handle is compared or hashed.
func (h *NodeBackendHandle) SetTaggingBits(tagging uint16) {
	h.id = h.id.WithTaggingBits(tagging)
}

// ClearTaggingBits zeroes the scratch bits.
func (h *NodeBackendHandle) ClearTaggingBits() {
	h.id = h.id.WithTaggingBits(0)
}

// Compare orders handles by encoded word, then by storage id.
func (h NodeBackendHandle) Compare(o NodeBackendHandle) int {
	switch {
	case h.id < o.id:
		return -1
	case h.id > o.id:
		return 1
	case h.storage < o.storage:
		return -1
	case h.storage > o.storage:
		return 1
	default:
		return 0
	}
}

// Less reports whether h sorts before o.
func (h NodeBackendHandle) Less(o NodeBackendHandle) bool {
	return h.Compare(o) < 0
}

func (h NodeBackendHandle) String() string {
	if h.IsNull() {
		return "null"
	}
	if h.Kind() == KindLiteral {
		n := h.NodeID()
		return fmt.Sprintf("%s(type=%d id=%d inlined=%t storage=%d)",
			h.Kind(), n.LiteralType(), n.LiteralID(), h.IsInlined(), h.storage)
	}
	return fmt.Sprintf("%s(id=%d storage=%d)", h.Kind(), h.NodeID(), h.storage)
}
