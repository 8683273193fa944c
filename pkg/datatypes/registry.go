package datatypes

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

type registry struct {
	fixed      [int(identifier.MaxLiteralType) + 1]*Descriptor
	fixedByIRI map[string]identifier.LiteralType

	mu      sync.RWMutex
	dynamic []*Descriptor // sorted by IRI
}

var (
	reg     *registry
	regOnce sync.Once
)

func registryInstance() *registry {
	regOnce.Do(func() {
		reg = newRegistry(fixedDatatypes())
	})
	return reg
}

// newRegistry runs the registration pass over the fixed datatypes.
// Tag collisions and out-of-range tags are contract violations and panic.
func newRegistry(entries []fixedEntry) *registry {
	r := &registry{fixedByIRI: make(map[string]identifier.LiteralType, len(entries))}
	for _, e := range entries {
		if !e.tag.IsFixed() {
			panic(fmt.Sprintf("datatypes: fixed datatype <%s> has tag %d outside %d..%d",
				e.dt.IRI(), e.tag, identifier.FirstFixedLiteralType, identifier.LastFixedLiteralType))
		}
		if prev := r.fixed[e.tag]; prev != nil {
			panic(fmt.Sprintf("datatypes: tag %d assigned to both <%s> and <%s>", e.tag, prev.iri, e.dt.IRI()))
		}
		if _, dup := r.fixedByIRI[e.dt.IRI()]; dup {
			panic(fmt.Sprintf("datatypes: <%s> registered twice as fixed", e.dt.IRI()))
		}
		r.fixed[e.tag] = newDescriptor(e.dt, e.tag)
		r.fixedByIRI[e.dt.IRI()] = e.tag
	}
	return r
}

// ByTag returns the descriptor of a fixed tag, or nil.
func ByTag(tag identifier.LiteralType) *Descriptor {
	if !tag.IsFixed() {
		return nil
	}
	return registryInstance().fixed[tag]
}

// Lookup returns the descriptor for a datatype IRI, fixed or dynamic.
// It returns nil for unknown datatypes.
func Lookup(iri string) *Descriptor {
	r := registryInstance()
	if tag, ok := r.fixedByIRI[iri]; ok {
		return r.fixed[tag]
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.search(iri); ok {
		return r.dynamic[i]
	}
	return nil
}

// Register adds a datatype at runtime. Registering an IRI twice replaces
// the earlier registration. Fixed datatypes cannot be replaced.
func Register(dt Datatype) (*Descriptor, error) {
	r := registryInstance()
	iri := dt.IRI()
	if _, ok := r.fixedByIRI[iri]; ok {
		return nil, fmt.Errorf("%w: <%s>", ErrFixedDatatype, iri)
	}

	d := newDescriptor(dt, identifier.LiteralTypeDynamic)

	r.mu.Lock()
	if i, ok := r.search(iri); ok {
		r.dynamic[i] = d
	} else {
		r.dynamic = append(r.dynamic, nil)
		copy(r.dynamic[i+1:], r.dynamic[i:])
		r.dynamic[i] = d
	}
	r.mu.Unlock()

	slog.Debug("registered datatype", slog.String("iri", iri))
	return d, nil
}

// Unregister removes a runtime datatype.
func Unregister(iri string) bool {
	r := registryInstance()
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.search(iri)
	if !ok {
		return false
	}
	r.dynamic = append(r.dynamic[:i], r.dynamic[i+1:]...)
	return true
}

// Registered returns the IRIs of the runtime datatypes in sorted order.
func Registered() []string {
	r := registryInstance()
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.dynamic))
	for i, d := range r.dynamic {
		out[i] = d.iri
	}
	return out
}

// search must be called with mu held.
func (r *registry) search(iri string) (int, bool) {
	i := sort.Search(len(r.dynamic), func(i int) bool { return r.dynamic[i].iri >= iri })
	return i, i < len(r.dynamic) && r.dynamic[i].iri == iri
}
