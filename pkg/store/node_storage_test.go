package store

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

func newTestStorage(t *testing.T, opts ...Option) *NodeStorage {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	s := New(opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNodeStorage_IRIs(t *testing.T) {
	s := newTestStorage(t)

	h1, err := s.FindOrMakeIRI("http://example.org/alice")
	require.NoError(t, err)
	h2, err := s.FindOrMakeIRI("http://example.org/alice")
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "interning is idempotent")
	assert.True(t, h1.IsIRI())
	assert.Equal(t, s.ID(), h1.Storage())

	found, ok := s.FindIRI("http://example.org/alice")
	require.True(t, ok)
	assert.Equal(t, h1, found)

	_, ok = s.FindIRI("http://example.org/bob")
	assert.False(t, ok)

	iri, err := s.IRI(h1)
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/alice", iri)
}

func TestNodeStorage_FixedDatatypesAreReserved(t *testing.T) {
	s := newTestStorage(t)

	for _, d := range datatypes.FixedDescriptors() {
		h, ok := s.FindIRI(d.IRI())
		require.True(t, ok, d.IRI())
		assert.Equal(t, identifier.NodeID(d.Tag()), h.NodeID(), d.IRI())

		err := s.Erase(h)
		assert.ErrorIs(t, err, ErrNotErasable, d.IRI())
	}

	h, err := s.FindOrMakeIRI("http://example.org/first")
	require.NoError(t, err)
	assert.False(t, isFixedDatatype(h.NodeID()))
}

func TestNodeStorage_BlankNodesAndVariables(t *testing.T) {
	s := newTestStorage(t)

	b, err := s.FindOrMakeBlankNode("b0")
	require.NoError(t, err)
	assert.True(t, b.IsBlankNode())
	label, err := s.BlankNode(b)
	require.NoError(t, err)
	assert.Equal(t, "b0", label)

	fresh1, err := s.MakeFreshBlankNode()
	require.NoError(t, err)
	fresh2, err := s.MakeFreshBlankNode()
	require.NoError(t, err)
	assert.NotEqual(t, fresh1, fresh2)

	named, err := s.FindOrMakeVariable("x", false)
	require.NoError(t, err)
	anon, err := s.FindOrMakeVariable("x", true)
	require.NoError(t, err)
	assert.NotEqual(t, named, anon, "anonymous and named variables differ")

	v, err := s.Variable(anon)
	require.NoError(t, err)
	assert.Equal(t, VariableView{Name: "x", Anonymous: true}, v)

	found, ok := s.FindVariable("x", false)
	require.True(t, ok)
	assert.Equal(t, named, found)
}

func TestFreshBlankNodeLabel(t *testing.T) {
	label := FreshBlankNodeLabel()
	assert.Regexp(t, `^b[0-9a-f]{32}$`, label)
	assert.NotEqual(t, label, FreshBlankNodeLabel())
}

func TestNodeStorage_CheckedHandles(t *testing.T) {
	s := newTestStorage(t)
	other := newTestStorage(t)

	h, err := s.FindOrMakeIRI("http://example.org/a")
	require.NoError(t, err)

	_, err = other.IRI(h)
	assert.ErrorIs(t, err, ErrForeignHandle)

	_, err = s.BlankNode(h)
	assert.ErrorIs(t, err, ErrKindMismatch)

	_, err = s.IRI(identifier.NodeBackendHandle{})
	assert.ErrorIs(t, err, ErrUnknownTerm)

	require.NoError(t, s.Erase(h))
	_, err = s.IRI(h)
	assert.ErrorIs(t, err, ErrUnknownTerm)
	assert.ErrorIs(t, s.Erase(h), ErrUnknownTerm)
}

func TestNodeStorage_EraseRecyclesIDs(t *testing.T) {
	s := newTestStorage(t)

	a, err := s.FindOrMakeBlankNode("a")
	require.NoError(t, err)
	_, err = s.FindOrMakeBlankNode("b")
	require.NoError(t, err)

	require.NoError(t, s.Erase(a))
	_, ok := s.FindBlankNode("a")
	assert.False(t, ok)

	c, err := s.FindOrMakeBlankNode("c")
	require.NoError(t, err)
	assert.Equal(t, a.NodeID(), c.NodeID(), "lowest free id is reused")
	assert.Equal(t, uint64(1), s.Stats().Erased)
}

func TestNodeStorage_Close(t *testing.T) {
	s := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	h, err := s.FindOrMakeIRI("http://example.org/a")
	require.NoError(t, err)

	got, ok := Lookup(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
	owner, ok := Owner(h)
	require.True(t, ok)
	assert.Same(t, s, owner)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), ErrClosed)

	_, ok = Lookup(s.ID())
	assert.False(t, ok)
	_, err = s.IRI(h)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.FindOrMakeIRI("http://example.org/b")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNew_UniqueIDs(t *testing.T) {
	a := newTestStorage(t)
	b := newTestStorage(t)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotZero(t, a.ID())
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Same(t, d, Default())
	assert.True(t, d.Synchronized())
}

func TestNodeStorage_Concurrent(t *testing.T) {
	s := newTestStorage(t, WithSynchronized(true))

	const workers = 16
	const terms = 200

	handles := make([][]identifier.NodeBackendHandle, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < terms; i++ {
				iri, err := s.FindOrMakeIRI(fmt.Sprintf("http://example.org/%d", i))
				if err != nil {
					t.Error(err)
					return
				}
				lit, err := s.FindOrMakeLiteral(fmt.Sprintf("value %d", i), "", "")
				if err != nil {
					t.Error(err)
					return
				}
				handles[w] = append(handles[w], iri, lit)
			}
		}(w)
	}
	wg.Wait()

	for w := 1; w < workers; w++ {
		assert.Equal(t, handles[0], handles[w])
	}
	st := s.Stats()
	assert.Equal(t, terms+len(datatypes.FixedDescriptors()), st.Entries[BackendIRI])
	assert.Equal(t, terms, st.Entries[BackendFallbackLiteral])
}
