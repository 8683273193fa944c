// Package store is the facade over the interning backends. It routes term
// construction to the right backend, inlines literal values that fit in a
// handle and decodes handles back into views.
//
// Handles are checked: a handle carries the id of the storage that issued it
// and lookups of foreign or erased ids fail with an error instead of
// returning unrelated content.
package store

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
	"github.com/aleksaelezovic/rdfcore/internal/storage"
	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

const (
	maxNodeID     = uint64(identifier.MaxNodeID)
	maxLiteralID  = uint64(identifier.MaxLiteralID)
	maxLangString = uint64(1)<<encoding.LanguageTagShift - 1
)

// Option configures a NodeStorage.
type Option func(*options)

type options struct {
	synchronized bool
	logger       *slog.Logger
}

// WithSynchronized selects the backend flavor. Synchronized backends guard
// each table with its own RWMutex and may be shared between goroutines.
func WithSynchronized(on bool) Option {
	return func(o *options) { o.synchronized = on }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NodeStorage owns the interning backends of one term space.
type NodeStorage struct {
	id           identifier.StorageID
	logger       *slog.Logger
	synchronized bool

	iris      storage.Backend[IRIView]
	bnodes    storage.Backend[BlankNodeView]
	variables storage.Backend[VariableView]
	literals  storage.Backend[FallbackLiteralView]
	special   [identifier.MaxLiteralType + 1]storage.Backend[ValueLiteralView]

	// dtMu is held shared while a literal and its datatype IRI are interned
	// and exclusively while an IRI is erased. dtRefs counts the fallback
	// literals naming each non-fixed datatype IRI.
	dtMu   sync.RWMutex
	refMu  sync.Mutex
	dtRefs map[identifier.NodeID]int64

	inlined  atomic.Uint64
	erased   atomic.Uint64
	rejected atomic.Uint64
	closed   atomic.Bool
}

// New creates a storage and registers it in the process registry.
func New(opts ...Option) *NodeStorage {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &NodeStorage{
		logger:       o.logger,
		synchronized: o.synchronized,
		iris:         storage.New[IRIView](o.synchronized),
		bnodes:       storage.New[BlankNodeView](o.synchronized),
		variables:    storage.New[VariableView](o.synchronized),
		literals:     storage.New[FallbackLiteralView](o.synchronized),
		dtRefs:       make(map[identifier.NodeID]int64),
	}

	for _, d := range datatypes.FixedDescriptors() {
		// Literals of fixed datatypes refer to their datatype by tag
		if !s.iris.Reserve(uint64(d.Tag()), IRIView{IRI: d.IRI()}) {
			panic(fmt.Sprintf("store: cannot reserve datatype <%s> at %d", d.IRI(), d.Tag()))
		}
		if d.SpecializedStorage() {
			s.special[d.Tag()] = storage.New[ValueLiteralView](o.synchronized)
		}
	}

	s.id = register(s)
	s.logger.Debug("created node storage",
		slog.Uint64("storage", uint64(s.id)),
		slog.Bool("synchronized", s.synchronized))
	return s
}

// ID returns the process-unique id stamped into every handle of s.
func (s *NodeStorage) ID() identifier.StorageID { return s.id }

// Synchronized reports the backend flavor.
func (s *NodeStorage) Synchronized() bool { return s.synchronized }

// Close unregisters the storage. Handles issued by it stop resolving.
func (s *NodeStorage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	unregister(s.id)
	s.logger.Debug("closed node storage", slog.Uint64("storage", uint64(s.id)))
	return nil
}

// FindOrMakeIRI interns an IRI.
func (s *NodeStorage) FindOrMakeIRI(iri string) (identifier.NodeBackendHandle, error) {
	if s.closed.Load() {
		return identifier.NodeBackendHandle{}, ErrClosed
	}
	id, _, err := intern(s.iris, IRIView{IRI: iri}, maxNodeID)
	if err != nil {
		return identifier.NodeBackendHandle{}, err
	}
	return s.handle(identifier.NodeID(id), identifier.KindIRI), nil
}

// FindIRI looks an IRI up without interning it.
func (s *NodeStorage) FindIRI(iri string) (identifier.NodeBackendHandle, bool) {
	id, ok := s.iris.FindID(IRIView{IRI: iri})
	if !ok || s.closed.Load() {
		return identifier.NodeBackendHandle{}, false
	}
	return s.handle(identifier.NodeID(id), identifier.KindIRI), true
}

// FindOrMakeBlankNode interns a blank node label.
func (s *NodeStorage) FindOrMakeBlankNode(label string) (identifier.NodeBackendHandle, error) {
	if s.closed.Load() {
		return identifier.NodeBackendHandle{}, ErrClosed
	}
	id, _, err := intern(s.bnodes, BlankNodeView{Label: label}, maxNodeID)
	if err != nil {
		return identifier.NodeBackendHandle{}, err
	}
	return s.handle(identifier.NodeID(id), identifier.KindBlankNode), nil
}

// FindBlankNode looks a blank node label up without interning it.
func (s *NodeStorage) FindBlankNode(label string) (identifier.NodeBackendHandle, bool) {
	id, ok := s.bnodes.FindID(BlankNodeView{Label: label})
	if !ok || s.closed.Load() {
		return identifier.NodeBackendHandle{}, false
	}
	return s.handle(identifier.NodeID(id), identifier.KindBlankNode), true
}

// MakeFreshBlankNode interns a blank node with a new random label.
func (s *NodeStorage) MakeFreshBlankNode() (identifier.NodeBackendHandle, error) {
	return s.FindOrMakeBlankNode(FreshBlankNodeLabel())
}

// FreshBlankNodeLabel returns a random label that is a valid N-Triples
// blank node label.
func FreshBlankNodeLabel() string {
	return "b" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FindOrMakeVariable interns a query variable.
func (s *NodeStorage) FindOrMakeVariable(name string, anonymous bool) (identifier.NodeBackendHandle, error) {
	if s.closed.Load() {
		return identifier.NodeBackendHandle{}, ErrClosed
	}
	id, _, err := intern(s.variables, VariableView{Name: name, Anonymous: anonymous}, maxNodeID)
	if err != nil {
		return identifier.NodeBackendHandle{}, err
	}
	return s.handle(identifier.NodeID(id), identifier.KindVariable), nil
}

// FindVariable looks a variable up without interning it.
func (s *NodeStorage) FindVariable(name string, anonymous bool) (identifier.NodeBackendHandle, bool) {
	id, ok := s.variables.FindID(VariableView{Name: name, Anonymous: anonymous})
	if !ok || s.closed.Load() {
		return identifier.NodeBackendHandle{}, false
	}
	return s.handle(identifier.NodeID(id), identifier.KindVariable), true
}

// IRI returns the IRI of h.
func (s *NodeStorage) IRI(h identifier.NodeBackendHandle) (string, error) {
	if err := s.check(h, identifier.KindIRI); err != nil {
		return "", err
	}
	v, ok := s.iris.FindView(uint64(h.NodeID()))
	if !ok {
		return "", fmt.Errorf("%w: iri %s", ErrUnknownTerm, h)
	}
	return v.IRI, nil
}

// BlankNode returns the label of h.
func (s *NodeStorage) BlankNode(h identifier.NodeBackendHandle) (string, error) {
	if err := s.check(h, identifier.KindBlankNode); err != nil {
		return "", err
	}
	v, ok := s.bnodes.FindView(uint64(h.NodeID()))
	if !ok {
		return "", fmt.Errorf("%w: blank node %s", ErrUnknownTerm, h)
	}
	return v.Label, nil
}

// Variable returns the variable of h.
func (s *NodeStorage) Variable(h identifier.NodeBackendHandle) (VariableView, error) {
	if err := s.check(h, identifier.KindVariable); err != nil {
		return VariableView{}, err
	}
	v, ok := s.variables.FindView(uint64(h.NodeID()))
	if !ok {
		return VariableView{}, fmt.Errorf("%w: variable %s", ErrUnknownTerm, h)
	}
	return v, nil
}

// Erase removes the term of h from its backend. Inlined literals, the
// reserved datatype IRIs and IRIs still used as the datatype of a stored
// literal cannot be erased. Handles of an erased term fail to resolve until
// the id is handed out again.
func (s *NodeStorage) Erase(h identifier.NodeBackendHandle) error {
	if err := s.check(h, h.Kind()); err != nil {
		return err
	}

	var ok bool
	switch h.Kind() {
	case identifier.KindIRI:
		if isFixedDatatype(h.NodeID()) {
			return fmt.Errorf("%w: <%s> is a fixed datatype", ErrNotErasable, datatypes.IRIForTag(identifier.LiteralType(h.NodeID())))
		}
		var err error
		if ok, err = s.eraseIRI(h); err != nil {
			return err
		}
	case identifier.KindBlankNode:
		ok = s.bnodes.Erase(uint64(h.NodeID()))
	case identifier.KindVariable:
		ok = s.variables.Erase(uint64(h.NodeID()))
	case identifier.KindLiteral:
		if h.IsInlined() {
			return fmt.Errorf("%w: inlined literal %s", ErrNotErasable, h)
		}
		ok = s.eraseLiteral(h.NodeID())
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTerm, h)
	}

	s.erased.Add(1)
	s.logger.Debug("erased term",
		slog.Uint64("storage", uint64(s.id)),
		slog.String("kind", h.Kind().String()),
		slog.Uint64("node_id", uint64(h.NodeID())))
	return nil
}

func (s *NodeStorage) eraseIRI(h identifier.NodeBackendHandle) (bool, error) {
	s.dtMu.Lock()
	defer s.dtMu.Unlock()
	if n := s.datatypeRefs(h.NodeID()); n > 0 {
		return false, fmt.Errorf("%w: %s is the datatype of %d literals", ErrNotErasable, h, n)
	}
	return s.iris.Erase(uint64(h.NodeID())), nil
}

func (s *NodeStorage) eraseLiteral(nid identifier.NodeID) bool {
	tag := nid.LiteralType()
	id := uint64(nid.LiteralID())
	var langIx uint64
	if tag == datatypes.TagLangString {
		id, langIx = encoding.SplitLanguageTag(id)
	}
	if b := s.specialized(tag); b != nil {
		return b.Erase(id)
	}
	// Do not let a stale handle erase a literal of another datatype
	v, ok := s.literals.FindView(id)
	if !ok || !s.ownsView(tag, v) || !ownsLanguageTag(tag, langIx, v) {
		return false
	}
	if !s.literals.Erase(id) {
		return false
	}
	if !isFixedDatatype(v.Datatype) {
		s.releaseDatatype(v.Datatype)
	}
	return true
}

func (s *NodeStorage) retainDatatype(dt identifier.NodeID) {
	s.refMu.Lock()
	s.dtRefs[dt]++
	s.refMu.Unlock()
}

func (s *NodeStorage) releaseDatatype(dt identifier.NodeID) {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	if s.dtRefs[dt] <= 1 {
		delete(s.dtRefs, dt)
		return
	}
	s.dtRefs[dt]--
}

func (s *NodeStorage) datatypeRefs(dt identifier.NodeID) int64 {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	return s.dtRefs[dt]
}

// ownsLanguageTag reports whether the tag index packed into a langString
// handle matches the tag of the stored view.
func ownsLanguageTag(tag identifier.LiteralType, ix uint64, v FallbackLiteralView) bool {
	if tag != datatypes.TagLangString {
		return true
	}
	packed, _ := encoding.PackLanguageTag(v.Lang)
	return packed == ix
}

// ownsView reports whether a fallback view may be addressed through tag.
func (s *NodeStorage) ownsView(tag identifier.LiteralType, v FallbackLiteralView) bool {
	if tag.IsDynamic() {
		return !isFixedDatatype(v.Datatype)
	}
	return v.Datatype == identifier.NodeID(tag)
}

// isFixedDatatype reports whether an IRI id is one of the reserved
// datatype IRIs.
func isFixedDatatype(id identifier.NodeID) bool {
	return id <= identifier.NodeID(identifier.LastFixedLiteralType) &&
		datatypes.ByTag(identifier.LiteralType(id)) != nil
}

// check validates owner and kind of h.
func (s *NodeStorage) check(h identifier.NodeBackendHandle, kind identifier.TermKind) error {
	switch {
	case s.closed.Load():
		return ErrClosed
	case h.IsNull():
		return fmt.Errorf("%w: null handle", ErrUnknownTerm)
	case h.Storage() != s.id:
		return fmt.Errorf("%w: %s owned by storage %d, not %d", ErrForeignHandle, h, h.Storage(), s.id)
	case h.Kind() != kind:
		return fmt.Errorf("%w: %s is a %s, not a %s", ErrKindMismatch, h, h.Kind(), kind)
	}
	return nil
}

func (s *NodeStorage) handle(id identifier.NodeID, kind identifier.TermKind) identifier.NodeBackendHandle {
	return identifier.NewHandle(id, kind, s.id, false, 0)
}

func (s *NodeStorage) specialized(tag identifier.LiteralType) storage.Backend[ValueLiteralView] {
	if !tag.IsFixed() {
		return nil
	}
	return s.special[tag]
}

// intern finds or makes v and keeps ids inside the field width of the
// handle that will carry them. created reports whether v is new.
func intern[V storage.View[V]](b storage.Backend[V], v V, limit uint64) (id uint64, created bool, err error) {
	id, created = b.Intern(v)
	if id > limit {
		b.Erase(id)
		return 0, false, fmt.Errorf("%w: id %d exceeds %d", ErrStorageFull, id, limit)
	}
	return id, created, nil
}
