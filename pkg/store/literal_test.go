package store

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

func TestLiteral_Inlined(t *testing.T) {
	s := newTestStorage(t)

	tests := []struct {
		lexical, datatype, canonical string
	}{
		{"42", datatypes.XSDInteger, "42"},
		{"+007", datatypes.XSDInteger, "7"},
		{"true", datatypes.XSDBoolean, "true"},
		{"2024-02-29", datatypes.XSDDate, "2024-02-29"},
		{"P1D", datatypes.XSDDayTimeDuration, "P1D"},
		{"1.50", datatypes.XSDDecimal, "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.lexical, func(t *testing.T) {
			h, err := s.FindOrMakeLiteral(tt.lexical, tt.datatype, "")
			require.NoError(t, err)
			assert.True(t, h.IsInlined())
			assert.Equal(t, datatypes.Lookup(tt.datatype).Tag(), h.NodeID().LiteralType())

			lv, err := s.Literal(h)
			require.NoError(t, err)
			assert.True(t, lv.Inlined)
			assert.Equal(t, tt.canonical, lv.Lexical)
			assert.Equal(t, tt.datatype, lv.Datatype)

			found, ok := s.FindLiteral(tt.lexical, tt.datatype, "")
			require.True(t, ok)
			assert.Equal(t, h, found)
		})
	}

	st := s.Stats()
	assert.Zero(t, st.Literals(), "inlined literals never reach a backend")
	assert.Equal(t, uint64(len(tests)), st.Inlined)
}

func TestLiteral_EraseThenRecreate(t *testing.T) {
	s := newTestStorage(t)
	const large = "87960930222089"

	h, err := s.FindOrMakeLiteral(large, datatypes.XSDInteger, "")
	require.NoError(t, err)
	require.False(t, h.IsInlined())
	assert.Equal(t, 1, s.Stats().Specialized[datatypes.XSDInteger])

	require.NoError(t, s.Erase(h))
	_, err = s.Literal(h)
	assert.ErrorIs(t, err, ErrUnknownTerm)
	_, ok := s.FindLiteral(large, datatypes.XSDInteger, "")
	assert.False(t, ok)

	again, err := s.FindOrMakeLiteral(large, datatypes.XSDInteger, "")
	require.NoError(t, err)
	repeat, err := s.FindOrMakeLiteral(large, datatypes.XSDInteger, "")
	require.NoError(t, err)
	assert.Equal(t, again, repeat)

	desc, v, err := s.LiteralValue(again)
	require.NoError(t, err)
	assert.Equal(t, datatypes.XSDInteger, desc.IRI())
	assert.Equal(t, 0, v.(*big.Int).Cmp(big.NewInt(87960930222089)))
}

func TestLiteral_CanonicalIdentity(t *testing.T) {
	s := newTestStorage(t)

	a, err := s.FindOrMakeLiteral("100000000000000000000", datatypes.XSDInteger, "")
	require.NoError(t, err)
	b, err := s.FindOrMakeLiteral("+0100000000000000000000", datatypes.XSDInteger, "")
	require.NoError(t, err)
	assert.Equal(t, a, b, "equal values share one handle")

	c, err := s.FindOrMakeLiteral("0.1", datatypes.XSDDouble, "")
	require.NoError(t, err)
	d, err := s.FindOrMakeLiteral("1.0E-1", datatypes.XSDDouble, "")
	require.NoError(t, err)
	assert.Equal(t, c, d)

	lv, err := s.Literal(c)
	require.NoError(t, err)
	assert.Equal(t, "1.0E-1", lv.Lexical)
	assert.False(t, lv.Inlined)
}

func TestLiteral_Strings(t *testing.T) {
	s := newTestStorage(t)

	plain, err := s.FindOrMakeLiteral("hello", "", "")
	require.NoError(t, err)
	typed, err := s.FindOrMakeLiteral("hello", datatypes.XSDString, "")
	require.NoError(t, err)
	assert.Equal(t, plain, typed)
	assert.False(t, plain.IsInlined())
	assert.Equal(t, datatypes.TagString, plain.NodeID().LiteralType())

	lv, err := s.Literal(plain)
	require.NoError(t, err)
	assert.Equal(t, LiteralView{
		Lexical:    "hello",
		Datatype:   datatypes.XSDString,
		Descriptor: datatypes.Lookup(datatypes.XSDString),
		Value:      "hello",
	}, lv)
}

func TestLiteral_LanguageTagged(t *testing.T) {
	s := newTestStorage(t)

	en, err := s.FindOrMakeLiteral("chat", "", "EN")
	require.NoError(t, err)
	en2, err := s.FindOrMakeLiteral("chat", datatypes.RDFLangString, "en")
	require.NoError(t, err)
	assert.Equal(t, en, en2, "language tags are case-insensitive")
	assert.Equal(t, datatypes.TagLangString, en.NodeID().LiteralType())

	_, ix := encoding.SplitLanguageTag(uint64(en.NodeID().LiteralID()))
	assert.Equal(t, uint64(1), ix, "common tags travel in the literal id")

	fr, err := s.FindOrMakeLiteral("chat", "", "fr")
	require.NoError(t, err)
	assert.NotEqual(t, en, fr)

	rare, err := s.FindOrMakeLiteral("chat", "", "gsw-CH")
	require.NoError(t, err)
	_, ix = encoding.SplitLanguageTag(uint64(rare.NodeID().LiteralID()))
	assert.Zero(t, ix)

	lv, err := s.Literal(rare)
	require.NoError(t, err)
	assert.Equal(t, "chat", lv.Lexical)
	assert.Equal(t, "gsw-ch", lv.Language)
	assert.Equal(t, datatypes.RDFLangString, lv.Datatype)
	assert.Equal(t, datatypes.LangString{Lexical: "chat", Tag: "gsw-ch"}, lv.Value)

	h, err := s.FindOrMakeLiteralValue(datatypes.Lookup(datatypes.RDFLangString),
		datatypes.LangString{Lexical: "chat", Tag: "En"})
	require.NoError(t, err)
	assert.Equal(t, en, h)
}

func TestLiteral_LanguageTagErrors(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.FindOrMakeLiteral("x", datatypes.XSDInteger, "en")
	assert.ErrorIs(t, err, ErrLanguageTag)

	_, err = s.FindOrMakeLiteral("x", datatypes.RDFLangString, "")
	assert.ErrorIs(t, err, ErrLanguageTag)

	_, err = s.FindOrMakeLiteral("x", "", "not a tag")
	assert.ErrorIs(t, err, ErrLanguageTag)
}

func TestLiteral_InvalidLeavesStorageUntouched(t *testing.T) {
	s := newTestStorage(t)
	before := s.Stats()

	for _, tt := range []struct{ lexical, datatype string }{
		{"abc", datatypes.XSDInteger},
		{"-5", datatypes.XSDNonNegativeInteger},
		{"2022-02-30", datatypes.XSDDate},
		{"maybe", datatypes.XSDBoolean},
	} {
		_, err := s.FindOrMakeLiteral(tt.lexical, tt.datatype, "")
		assert.ErrorIs(t, err, datatypes.ErrInvalidLiteral, tt.lexical)
	}

	after := s.Stats()
	assert.Equal(t, before.Entries, after.Entries)
	assert.Equal(t, uint64(4), after.Rejected)
}

func TestLiteral_UnknownDatatype(t *testing.T) {
	s := newTestStorage(t)
	const dt = "http://example.org/unknown"

	_, ok := s.FindLiteral("x", dt, "")
	assert.False(t, ok)
	_, ok = s.FindIRI(dt)
	assert.False(t, ok, "find never interns the datatype")

	h, err := s.FindOrMakeLiteral("x", dt, "")
	require.NoError(t, err)
	assert.Equal(t, identifier.LiteralTypeDynamic, h.NodeID().LiteralType())
	assert.False(t, h.IsInlined())

	found, ok := s.FindLiteral("x", dt, "")
	require.True(t, ok)
	assert.Equal(t, h, found)

	lv, err := s.Literal(h)
	require.NoError(t, err)
	assert.Equal(t, "x", lv.Lexical)
	assert.Equal(t, dt, lv.Datatype)
	assert.Nil(t, lv.Descriptor)

	_, _, err = s.LiteralValue(h)
	assert.ErrorIs(t, err, ErrUnknownDatatype)
}

type upperType struct{}

func (upperType) IRI() string { return "http://example.org/upper" }
func (upperType) Parse(lexical string) (datatypes.Value, error) { return strings.ToUpper(lexical), nil }
func (upperType) Canonical(v datatypes.Value) string { return v.(string) }

func TestLiteral_RegisteredDatatype(t *testing.T) {
	desc, err := datatypes.Register(upperType{})
	require.NoError(t, err)
	t.Cleanup(func() { datatypes.Unregister(upperType{}.IRI()) })

	s := newTestStorage(t)
	a, err := s.FindOrMakeLiteral("abc", upperType{}.IRI(), "")
	require.NoError(t, err)
	b, err := s.FindOrMakeLiteral("ABC", upperType{}.IRI(), "")
	require.NoError(t, err)
	assert.Equal(t, a, b, "stored in canonical form")
	assert.Equal(t, identifier.LiteralTypeDynamic, a.NodeID().LiteralType())

	c, err := s.FindOrMakeLiteralValue(desc, "ABC")
	require.NoError(t, err)
	assert.Equal(t, a, c)

	d, v, err := s.LiteralValue(a)
	require.NoError(t, err)
	assert.Same(t, desc, d)
	assert.Equal(t, "ABC", v)
}

func TestLiteral_StaleHandleOfOtherDatatype(t *testing.T) {
	s := newTestStorage(t)

	str, err := s.FindOrMakeLiteral("x", "", "")
	require.NoError(t, err)
	require.NoError(t, s.Erase(str))

	// The freed fallback slot now holds a language-tagged string
	lang, err := s.FindOrMakeLiteral("y", "", "en")
	require.NoError(t, err)
	id, _ := encoding.SplitLanguageTag(uint64(lang.NodeID().LiteralID()))
	require.Equal(t, uint64(str.NodeID().LiteralID()), id)

	_, err = s.Literal(str)
	assert.ErrorIs(t, err, ErrUnknownTerm)
	assert.ErrorIs(t, s.Erase(str), ErrUnknownTerm)

	lv, err := s.Literal(lang)
	require.NoError(t, err)
	assert.Equal(t, "y", lv.Lexical)
}

func TestLiteral_EraseInlined(t *testing.T) {
	s := newTestStorage(t)
	h, err := s.FindOrMakeLiteral("1", datatypes.XSDInteger, "")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Erase(h), ErrNotErasable)
}

func TestLiteral_Lenient(t *testing.T) {
	datatypes.SetLenientParsing(true)
	t.Cleanup(func() { datatypes.SetLenientParsing(false) })

	s := newTestStorage(t)
	h, err := s.FindOrMakeLiteral("2022-02-30", datatypes.XSDDate, "")
	require.NoError(t, err)
	lv, err := s.Literal(h)
	require.NoError(t, err)
	assert.Equal(t, "2022-02-28", lv.Lexical)

	h, err = s.FindOrMakeLiteral("-5", datatypes.XSDNonNegativeInteger, "")
	require.NoError(t, err)
	lv, err = s.Literal(h)
	require.NoError(t, err)
	assert.Equal(t, "0", lv.Lexical)
}

func TestLiteral_InvalidTypedValues(t *testing.T) {
	s := newTestStorage(t)
	before := s.Stats()

	tests := []struct {
		name     string
		datatype string
		v        datatypes.Value
	}{
		{"int for integer", datatypes.XSDInteger, 42},
		{"string for integer", datatypes.XSDInteger, "not a number"},
		{"nil integer", datatypes.XSDInteger, (*big.Int)(nil)},
		{"byte out of range", datatypes.XSDByte, big.NewInt(1000)},
		{"negative nonNegativeInteger", datatypes.XSDNonNegativeInteger, big.NewInt(-1)},
		{"february 30", datatypes.XSDDate, datatypes.Date{Year: 2022, Month: 2, Day: 30}},
		{"hour 25", datatypes.XSDTime, datatypes.Time{Hour: 25}},
		{"dateTimeStamp without timezone", datatypes.XSDDateTimeStamp, datatypes.DateTime{Year: 2024, Month: 1, Day: 1}},
		{"dayTimeDuration with months", datatypes.XSDDayTimeDuration, datatypes.Duration{Months: 1}},
		{"duration of mixed sign", datatypes.XSDDuration, datatypes.Duration{Months: 1, Seconds: -1}},
		{"float64 for float", datatypes.XSDFloat, 1.5},
		{"string for boolean", datatypes.XSDBoolean, "true"},
		{"malformed language tag", datatypes.RDFLangString, datatypes.LangString{Lexical: "x", Tag: "not a tag"}},
		{"nil value", datatypes.XSDString, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.FindOrMakeLiteralValue(datatypes.Lookup(tt.datatype), tt.v)
			assert.ErrorIs(t, err, datatypes.ErrInvalidValueForCast)
		})
	}

	after := s.Stats()
	assert.Equal(t, before.Entries, after.Entries)
	assert.Zero(t, after.Inlined)
	assert.Equal(t, uint64(len(tests)), after.Rejected)
}

func TestLiteral_TypedValuesMatchParsed(t *testing.T) {
	s := newTestStorage(t)

	tests := []struct {
		datatype, lexical string
		v                 datatypes.Value
	}{
		{datatypes.XSDByte, "-128", big.NewInt(-128)},
		{datatypes.XSDDate, "2024-02-29", datatypes.Date{Year: 2024, Month: 2, Day: 29}},
		{datatypes.XSDDayTimeDuration, "-P1D", datatypes.Duration{Seconds: -86400}},
		{datatypes.XSDFloat, "1.5", float32(1.5)},
		{datatypes.XSDInteger, "87960930222089", big.NewInt(87960930222089)},
	}
	for _, tt := range tests {
		t.Run(tt.datatype, func(t *testing.T) {
			typed, err := s.FindOrMakeLiteralValue(datatypes.Lookup(tt.datatype), tt.v)
			require.NoError(t, err)
			parsed, err := s.FindOrMakeLiteral(tt.lexical, tt.datatype, "")
			require.NoError(t, err)
			assert.Equal(t, parsed, typed)
		})
	}
}

func TestLiteral_EraseReferencedDatatype(t *testing.T) {
	s := newTestStorage(t)
	const dt = "http://example.org/custom"

	x, err := s.FindOrMakeLiteral("x", dt, "")
	require.NoError(t, err)
	_, err = s.FindOrMakeLiteral("x", dt, "")
	require.NoError(t, err)
	y, err := s.FindOrMakeLiteral("y", dt, "")
	require.NoError(t, err)
	iri, ok := s.FindIRI(dt)
	require.True(t, ok)

	assert.ErrorIs(t, s.Erase(iri), ErrNotErasable)
	require.NoError(t, s.Erase(x))
	assert.ErrorIs(t, s.Erase(iri), ErrNotErasable, "still the datatype of y")

	lv, err := s.Literal(y)
	require.NoError(t, err)
	assert.Equal(t, dt, lv.Datatype)

	require.NoError(t, s.Erase(y))
	require.NoError(t, s.Erase(iri))
	_, ok = s.FindIRI(dt)
	assert.False(t, ok)

	again, err := s.FindOrMakeLiteral("x", dt, "")
	require.NoError(t, err)
	iri, ok = s.FindIRI(dt)
	require.True(t, ok)
	assert.ErrorIs(t, s.Erase(iri), ErrNotErasable)
	lv, err = s.Literal(again)
	require.NoError(t, err)
	assert.Equal(t, dt, lv.Datatype)
}

func TestLanguageTagOf(t *testing.T) {
	s := newTestStorage(t)

	en, err := s.FindOrMakeLiteral("chat", "", "EN")
	require.NoError(t, err)
	tag, ok := LanguageTagOf(en)
	require.True(t, ok)
	assert.Equal(t, "en", tag)

	rare, err := s.FindOrMakeLiteral("chat", "", "gsw-CH")
	require.NoError(t, err)
	_, ok = LanguageTagOf(rare)
	assert.False(t, ok, "uncommon tags are only stored")

	str, err := s.FindOrMakeLiteral("chat", "", "")
	require.NoError(t, err)
	_, ok = LanguageTagOf(str)
	assert.False(t, ok)

	iri, err := s.FindOrMakeIRI("http://example.org/a")
	require.NoError(t, err)
	_, ok = LanguageTagOf(iri)
	assert.False(t, ok)
	_, ok = LanguageTagOf(identifier.NodeBackendHandle{})
	assert.False(t, ok)
}

func TestLiteral_PackedLanguageTagMustMatch(t *testing.T) {
	s := newTestStorage(t)
	en, err := s.FindOrMakeLiteral("chat", "", "en")
	require.NoError(t, err)

	id, _ := encoding.SplitLanguageTag(uint64(en.NodeID().LiteralID()))
	de, _ := encoding.PackLanguageTag("de")
	forged := identifier.NewHandle(
		identifier.NewLiteralNodeID(identifier.LiteralID(encoding.WithLanguageTag(id, de)), datatypes.TagLangString),
		identifier.KindLiteral, s.ID(), false, 0)

	_, err = s.Literal(forged)
	assert.ErrorIs(t, err, ErrUnknownTerm)
	assert.ErrorIs(t, s.Erase(forged), ErrUnknownTerm)

	lv, err := s.Literal(en)
	require.NoError(t, err)
	assert.Equal(t, "en", lv.Language)
}
