package identifier

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeBackendID_FieldBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		id      NodeID
		kind    TermKind
		inlined bool
		tagging uint16
	}{
		{name: "all zero", id: 0, kind: KindIRI},
		{name: "max node id only", id: MaxNodeID, kind: KindIRI},
		{name: "node id one", id: 1, kind: KindIRI},
		{name: "literal kind only", kind: KindLiteral},
		{name: "bnode kind only", kind: KindBlankNode},
		{name: "variable kind only", kind: KindVariable},
		{name: "inlined only", inlined: true},
		{name: "max tagging only", tagging: MaxTaggingBits},
		{name: "tagging one", tagging: 1},
		{name: "everything max", id: MaxNodeID, kind: KindVariable, inlined: true, tagging: MaxTaggingBits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewNodeBackendID(tt.id, tt.kind, tt.inlined, tt.tagging)
			assert.Equal(t, tt.id, w.NodeID())
			assert.Equal(t, tt.kind, w.Kind())
			assert.Equal(t, tt.inlined, w.IsInlined())
			assert.Equal(t, tt.tagging, w.TaggingBits())
		})
	}
}

func TestNodeBackendID_FieldsDoNotOverlap(t *testing.T) {
	assert.Equal(t, NodeBackendID(1)<<48, NewNodeBackendID(0, KindLiteral, false, 0))
	assert.Equal(t, NodeBackendID(1)<<50, NewNodeBackendID(0, KindIRI, true, 0))
	assert.Equal(t, NodeBackendID(1)<<51, NewNodeBackendID(0, KindIRI, false, 1))
	assert.Equal(t, NodeBackendID(MaxNodeID), NewNodeBackendID(MaxNodeID, KindIRI, false, 0))
}

func TestNodeBackendID_MasksOversizedInput(t *testing.T) {
	w := NewNodeBackendID(NodeID(1)<<NodeIDBits|5, KindIRI, false, MaxTaggingBits+1)
	assert.Equal(t, NodeID(5), w.NodeID())
	assert.Equal(t, KindIRI, w.Kind())
	assert.Equal(t, uint16(0), w.TaggingBits())
}

func TestLiteralNodeID_RoundTrip(t *testing.T) {
	tests := []struct {
		id  LiteralID
		typ LiteralType
	}{
		{0, 0},
		{MaxLiteralID, 0},
		{0, MaxLiteralType},
		{1, FirstFixedLiteralType},
		{MaxLiteralID, LastFixedLiteralType},
		{MaxLiteralID, MaxLiteralType},
	}
	for _, tt := range tests {
		n := NewLiteralNodeID(tt.id, tt.typ)
		assert.Equal(t, tt.id, n.LiteralID())
		assert.Equal(t, tt.typ, n.LiteralType())
		assert.LessOrEqual(t, n, MaxNodeID)
	}
}

func TestLiteralType_Ranges(t *testing.T) {
	assert.True(t, LiteralTypeDynamic.IsDynamic())
	assert.False(t, LiteralTypeDynamic.IsFixed())
	assert.False(t, LiteralTypeReserved.IsFixed())
	assert.True(t, FirstFixedLiteralType.IsFixed())
	assert.True(t, LastFixedLiteralType.IsFixed())
	assert.False(t, (LastFixedLiteralType + 1).IsFixed())
}

func TestHandle_NullIsZeroValue(t *testing.T) {
	var h NodeBackendHandle
	assert.True(t, h.IsNull())
	assert.False(t, h.IsIRI())
	assert.Equal(t, "null", h.String())
}

func TestHandle_TaggingBits(t *testing.T) {
	h := NewHandle(42, KindBlankNode, 3, false, 0)
	orig := h

	h.SetTaggingBits(0x1abc)
	assert.Equal(t, uint16(0x1abc), h.TaggingBits())
	assert.NotEqual(t, orig, h)
	assert.Equal(t, NodeID(42), h.NodeID())
	assert.Equal(t, KindBlankNode, h.Kind())

	h.ClearTaggingBits()
	assert.Equal(t, orig, h)
}

func TestHandle_EqualityIncludesStorage(t *testing.T) {
	a := NewHandle(7, KindIRI, 1, false, 0)
	b := NewHandle(7, KindIRI, 1, false, 0)
	c := NewHandle(7, KindIRI, 2, false, 0)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 0, a.Compare(b))
	assert.Equal(t, -1, a.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
}

func TestHandle_OrderingIsLexicographic(t *testing.T) {
	handles := []NodeBackendHandle{
		NewHandle(2, KindIRI, 1, false, 0),
		NewHandle(1, KindIRI, 2, false, 0),
		NewHandle(1, KindIRI, 1, false, 0),
		NewHandle(1, KindLiteral, 1, false, 0),
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].Less(handles[j]) })

	require.Len(t, handles, 4)
	assert.Equal(t, NewHandle(1, KindIRI, 1, false, 0), handles[0])
	assert.Equal(t, NewHandle(1, KindIRI, 2, false, 0), handles[1])
	assert.Equal(t, NewHandle(2, KindIRI, 1, false, 0), handles[2])
	assert.Equal(t, NewHandle(1, KindLiteral, 1, false, 0), handles[3])
}

func TestHandle_KindPredicates(t *testing.T) {
	assert.True(t, NewHandle(1, KindIRI, 1, false, 0).IsIRI())
	assert.True(t, NewHandle(1, KindLiteral, 1, true, 0).IsLiteral())
	assert.True(t, NewHandle(1, KindBlankNode, 1, false, 0).IsBlankNode())
	assert.True(t, NewHandle(1, KindVariable, 1, false, 0).IsVariable())
	assert.True(t, NewHandle(1, KindLiteral, 1, true, 0).IsInlined())
}

func TestTermKind_String(t *testing.T) {
	assert.Equal(t, "iri", KindIRI.String())
	assert.Equal(t, "literal", KindLiteral.String())
	assert.Equal(t, "bnode", KindBlankNode.String())
	assert.Equal(t, "variable", KindVariable.String())
	assert.Equal(t, "unknown", TermKind(9).String())
}
