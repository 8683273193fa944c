package store

import (
	"errors"
	"fmt"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

// route is the resolved placement of one literal.
type route struct {
	tag     identifier.LiteralType
	inlined bool
	bits    uint64

	// special is set for literals of a datatype with its own backend
	special *ValueLiteralView
	view    FallbackLiteralView
	langIx  uint64
	limit   uint64
}

// FindOrMakeLiteral interns a literal from its lexical form. An empty
// datatype means xsd:string, or rdf:langString when lang is set. Lexical
// forms of registered datatypes are validated and stored canonically; a
// failed parse leaves the storage untouched.
func (s *NodeStorage) FindOrMakeLiteral(lexical, datatype, lang string) (identifier.NodeBackendHandle, error) {
	if s.closed.Load() {
		return identifier.NodeBackendHandle{}, ErrClosed
	}
	s.dtMu.RLock()
	defer s.dtMu.RUnlock()
	r, err := s.routeLexical(lexical, datatype, lang, true)
	if err != nil {
		s.rejected.Add(1)
		return identifier.NodeBackendHandle{}, err
	}
	return s.makeLiteral(r)
}

// FindLiteral looks a literal up without interning it. Inlinable values
// are always found.
func (s *NodeStorage) FindLiteral(lexical, datatype, lang string) (identifier.NodeBackendHandle, bool) {
	if s.closed.Load() {
		return identifier.NodeBackendHandle{}, false
	}
	r, err := s.routeLexical(lexical, datatype, lang, false)
	if err != nil {
		return identifier.NodeBackendHandle{}, false
	}
	return s.findLiteral(r)
}

// FindOrMakeLiteralValue interns a typed value of a registered datatype.
// Values that are not of the datatype's Go type or break its constraints
// fail with datatypes.ErrInvalidValueForCast and leave the storage
// untouched.
func (s *NodeStorage) FindOrMakeLiteralValue(desc *datatypes.Descriptor, v datatypes.Value) (identifier.NodeBackendHandle, error) {
	if s.closed.Load() {
		return identifier.NodeBackendHandle{}, ErrClosed
	}
	if desc == nil {
		return identifier.NodeBackendHandle{}, fmt.Errorf("%w: nil descriptor", ErrUnknownDatatype)
	}
	if err := desc.Validate(v); err != nil {
		s.rejected.Add(1)
		return identifier.NodeBackendHandle{}, err
	}

	s.dtMu.RLock()
	defer s.dtMu.RUnlock()
	dt := identifier.NodeID(desc.Tag())
	if !desc.IsFixed() {
		h, err := s.FindOrMakeIRI(desc.IRI())
		if err != nil {
			return identifier.NodeBackendHandle{}, err
		}
		dt = h.NodeID()
	}
	r, err := s.routeValue(desc, v, dt)
	if err != nil {
		return identifier.NodeBackendHandle{}, err
	}
	return s.makeLiteral(r)
}

// Literal decodes a literal handle.
func (s *NodeStorage) Literal(h identifier.NodeBackendHandle) (LiteralView, error) {
	if err := s.check(h, identifier.KindLiteral); err != nil {
		return LiteralView{}, err
	}
	nid := h.NodeID()
	tag := nid.LiteralType()
	id := uint64(nid.LiteralID())

	if h.IsInlined() {
		desc := datatypes.ByTag(tag)
		if desc == nil {
			return LiteralView{}, fmt.Errorf("%w: inlined literal with tag %d", ErrUnknownTerm, tag)
		}
		v, err := desc.Unpack(id)
		if err != nil {
			return LiteralView{}, fmt.Errorf("%w: %s: %w", ErrUnknownTerm, h, err)
		}
		return LiteralView{
			Lexical:    desc.Canonical(v),
			Datatype:   desc.IRI(),
			Descriptor: desc,
			Value:      v,
			Inlined:    true,
		}, nil
	}

	if b := s.specialized(tag); b != nil {
		sv, ok := b.FindView(id)
		if !ok {
			return LiteralView{}, fmt.Errorf("%w: literal %s", ErrUnknownTerm, h)
		}
		desc := datatypes.ByTag(tag)
		return LiteralView{Lexical: sv.Canonical, Datatype: desc.IRI(), Descriptor: desc, Value: sv.Value}, nil
	}

	var langIx uint64
	if tag == datatypes.TagLangString {
		id, langIx = encoding.SplitLanguageTag(id)
	}
	fv, ok := s.literals.FindView(id)
	if !ok || !s.ownsView(tag, fv) || !ownsLanguageTag(tag, langIx, fv) {
		return LiteralView{}, fmt.Errorf("%w: literal %s", ErrUnknownTerm, h)
	}
	return s.fallbackView(fv)
}

// LanguageTagOf returns the language tag packed into a langString handle
// without a storage lookup. It reports false for other handles and for tags
// outside the common set, which only the storage knows.
func LanguageTagOf(h identifier.NodeBackendHandle) (string, bool) {
	nid := h.NodeID()
	if h.IsNull() || h.Kind() != identifier.KindLiteral || h.IsInlined() || nid.LiteralType() != datatypes.TagLangString {
		return "", false
	}
	_, ix := encoding.SplitLanguageTag(uint64(nid.LiteralID()))
	return encoding.UnpackLanguageTag(ix)
}

func (s *NodeStorage) fallbackView(fv FallbackLiteralView) (LiteralView, error) {
	lv := LiteralView{Lexical: fv.Lexical, Language: fv.Lang}
	if isFixedDatatype(fv.Datatype) {
		lv.Descriptor = datatypes.ByTag(identifier.LiteralType(fv.Datatype))
		lv.Datatype = lv.Descriptor.IRI()
	} else {
		iv, ok := s.iris.FindView(uint64(fv.Datatype))
		if !ok {
			return LiteralView{}, fmt.Errorf("%w: datatype iri %d", ErrUnknownTerm, fv.Datatype)
		}
		lv.Datatype = iv.IRI
		lv.Descriptor = datatypes.Lookup(iv.IRI)
	}
	if lv.Descriptor == nil {
		return lv, nil
	}

	if lv.Descriptor.Tag() == datatypes.TagLangString {
		lv.Value = datatypes.LangString{Lexical: fv.Lexical, Tag: fv.Lang}
		return lv, nil
	}
	v, err := lv.Descriptor.Parse(fv.Lexical)
	if err != nil {
		// A datatype registered after the literal was stored may reject it
		lv.Descriptor = nil
		return lv, nil
	}
	lv.Value = v
	return lv, nil
}

// LiteralValue returns the descriptor and typed value of a literal handle.
func (s *NodeStorage) LiteralValue(h identifier.NodeBackendHandle) (*datatypes.Descriptor, datatypes.Value, error) {
	lv, err := s.Literal(h)
	if err != nil {
		return nil, nil, err
	}
	if lv.Descriptor == nil {
		return nil, nil, fmt.Errorf("%w: <%s>", ErrUnknownDatatype, lv.Datatype)
	}
	return lv.Descriptor, lv.Value, nil
}

// routeLexical resolves a lexical literal. With create unset, datatype IRIs
// are only looked up.
func (s *NodeStorage) routeLexical(lexical, datatype, lang string, create bool) (route, error) {
	if lang != "" {
		if datatype != "" && datatype != datatypes.RDFLangString {
			return route{}, fmt.Errorf("%w: language tag on <%s>", ErrLanguageTag, datatype)
		}
		tag, err := datatypes.NormalizeLanguageTag(lang)
		if err != nil {
			return route{}, fmt.Errorf("%w: %q: %w", ErrLanguageTag, lang, err)
		}
		return langRoute(datatypes.LangString{Lexical: lexical, Tag: tag}), nil
	}

	switch datatype {
	case "":
		datatype = datatypes.XSDString
	case datatypes.RDFLangString:
		return route{}, fmt.Errorf("%w: rdf:langString without a language tag", ErrLanguageTag)
	}

	desc := datatypes.Lookup(datatype)
	if desc != nil && desc.IsFixed() {
		v, err := desc.Parse(lexical)
		if err != nil {
			return route{}, err
		}
		return s.routeValue(desc, v, identifier.NodeID(desc.Tag()))
	}

	// Parse before interning so a rejected lexical form leaves no IRI behind
	var v datatypes.Value
	if desc != nil {
		var err error
		if v, err = desc.Parse(lexical); err != nil {
			return route{}, err
		}
	}

	var dt identifier.NodeBackendHandle
	if create {
		var err error
		if dt, err = s.FindOrMakeIRI(datatype); err != nil {
			return route{}, err
		}
	} else {
		var ok bool
		if dt, ok = s.FindIRI(datatype); !ok {
			return route{}, errUnknownDatatypeIRI
		}
	}

	if desc == nil {
		return route{
			tag:   identifier.LiteralTypeDynamic,
			view:  FallbackLiteralView{Datatype: dt.NodeID(), Lexical: lexical},
			limit: maxLiteralID,
		}, nil
	}
	return s.routeValue(desc, v, dt.NodeID())
}

var errUnknownDatatypeIRI = errors.New("datatype iri not interned")

// routeValue resolves a typed value. dt is the IRI id of the datatype.
func (s *NodeStorage) routeValue(desc *datatypes.Descriptor, v datatypes.Value, dt identifier.NodeID) (route, error) {
	tag := desc.Tag()
	if tag == datatypes.TagLangString {
		ls, ok := v.(datatypes.LangString)
		if !ok {
			return route{}, fmt.Errorf("%w: %T is not a language-tagged string", datatypes.ErrInvalidLiteral, v)
		}
		lang, err := datatypes.NormalizeLanguageTag(ls.Tag)
		if err != nil {
			return route{}, fmt.Errorf("%w: %q: %w", ErrLanguageTag, ls.Tag, err)
		}
		return langRoute(datatypes.LangString{Lexical: ls.Lexical, Tag: lang}), nil
	}

	if desc.IsFixed() {
		if bits, ok := desc.TryPack(v); ok {
			return route{tag: tag, inlined: true, bits: bits}, nil
		}
	}

	canonical := desc.Canonical(v)
	if s.specialized(tag) != nil {
		return route{
			tag:     tag,
			special: &ValueLiteralView{Canonical: canonical, Value: v},
			limit:   maxLiteralID,
		}, nil
	}
	return route{
		tag:   tag,
		view:  FallbackLiteralView{Datatype: dt, Lexical: canonical},
		limit: maxLiteralID,
	}, nil
}

// langRoute places a language-tagged string. Common tags travel in the
// top bits of the literal id.
func langRoute(ls datatypes.LangString) route {
	ix, _ := encoding.PackLanguageTag(ls.Tag)
	return route{
		tag: datatypes.TagLangString,
		view: FallbackLiteralView{
			Datatype: identifier.NodeID(datatypes.TagLangString),
			Lexical:  ls.Lexical,
			Lang:     ls.Tag,
		},
		langIx: ix,
		limit:  maxLangString,
	}
}

func (s *NodeStorage) makeLiteral(r route) (identifier.NodeBackendHandle, error) {
	if r.inlined {
		s.inlined.Add(1)
		return s.literalHandle(r, r.bits), nil
	}

	if r.special != nil {
		id, _, err := intern(s.special[r.tag], *r.special, r.limit)
		if err != nil {
			return identifier.NodeBackendHandle{}, err
		}
		return s.literalHandle(r, id), nil
	}

	id, created, err := intern(s.literals, r.view, r.limit)
	if err != nil {
		return identifier.NodeBackendHandle{}, err
	}
	if created && !isFixedDatatype(r.view.Datatype) {
		s.retainDatatype(r.view.Datatype)
	}
	return s.literalHandle(r, id), nil
}

func (s *NodeStorage) findLiteral(r route) (identifier.NodeBackendHandle, bool) {
	if r.inlined {
		return s.literalHandle(r, r.bits), true
	}

	var (
		id uint64
		ok bool
	)
	if r.special != nil {
		id, ok = s.special[r.tag].FindID(*r.special)
	} else {
		id, ok = s.literals.FindID(r.view)
	}
	if !ok {
		return identifier.NodeBackendHandle{}, false
	}
	return s.literalHandle(r, id), true
}

func (s *NodeStorage) literalHandle(r route, id uint64) identifier.NodeBackendHandle {
	if r.langIx != 0 {
		id = encoding.WithLanguageTag(id, r.langIx)
	}
	nid := identifier.NewLiteralNodeID(identifier.LiteralID(id), r.tag)
	return identifier.NewHandle(nid, identifier.KindLiteral, s.id, r.inlined, 0)
}
