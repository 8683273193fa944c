package rdf

import (
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
	"github.com/aleksaelezovic/rdfcore/pkg/store"
)

func newStorage(t *testing.T) *store.NodeStorage {
	t.Helper()
	s := store.New(store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIRI(t *testing.T) {
	s := newStorage(t)

	a, err := NewIRIIn(s, "http://example.org/resource")
	require.NoError(t, err)
	b, err := NewIRIIn(s, "http://example.org/resource")
	require.NoError(t, err)
	c, err := NewIRIIn(s, "http://example.org/different")
	require.NoError(t, err)

	assert.Equal(t, identifier.KindIRI, a.Kind())
	assert.Equal(t, "<http://example.org/resource>", a.String())
	assert.Equal(t, "http://example.org/resource", a.Value())
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.Equal(t, a.Handle(), b.Handle())

	lit, err := NewLiteralIn(s, "test", "")
	require.NoError(t, err)
	assert.False(t, a.Equals(lit))
}

func TestIRI_AcrossStorages(t *testing.T) {
	a, err := NewIRIIn(newStorage(t), "http://example.org/x")
	require.NoError(t, err)
	b, err := NewIRIIn(newStorage(t), "http://example.org/x")
	require.NoError(t, err)

	assert.NotEqual(t, a.Handle(), b.Handle())
	assert.True(t, a.Equals(b), "content decides across storages")
}

func TestBlankNodesAndVariables(t *testing.T) {
	s := newStorage(t)

	b1, err := NewBlankNodeIn(s, "b1")
	require.NoError(t, err)
	again, err := NewBlankNodeIn(s, "b1")
	require.NoError(t, err)
	assert.Equal(t, "_:b1", b1.String())
	assert.True(t, b1.Equals(again))

	fresh, err := NewFreshBlankNodeIn(s)
	require.NoError(t, err)
	assert.False(t, b1.Equals(fresh))
	assert.NotEmpty(t, fresh.Label())

	v, err := NewVariableIn(s, "x", false)
	require.NoError(t, err)
	assert.Equal(t, "?x", v.String())
	assert.Equal(t, identifier.KindVariable, v.Kind())
	anon, err := NewVariableIn(s, "x", true)
	require.NoError(t, err)
	assert.False(t, v.Equals(anon))
	assert.True(t, anon.IsAnonymous())
}

func TestLiteral_String(t *testing.T) {
	s := newStorage(t)

	tests := []struct {
		name     string
		lexical  string
		datatype string
		lang     string
		want     string
	}{
		{"plain", "hello", "", "", `"hello"`},
		{"escapes", "a\"b\\c\nd\te", "", "", `"a\"b\\c\nd\te"`},
		{"control", "bell\x07", "", "", `"bell\u0007"`},
		{"language", "chat", "", "FR", `"chat"@fr`},
		{"integer", "+01", XSDInteger, "", `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"double", "1e3", XSDDouble, "", `"1.0E3"^^<http://www.w3.org/2001/XMLSchema#double>`},
		{"unknown", "x y", "http://example.org/dt", "", `"x y"^^<http://example.org/dt>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				l   Literal
				err error
			)
			if tt.lang != "" {
				l, err = NewLangLiteralIn(s, tt.lexical, tt.lang)
			} else {
				l, err = NewLiteralIn(s, tt.lexical, tt.datatype)
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.String())
		})
	}
}

func TestEscapeIRI(t *testing.T) {
	assert.Equal(t, "http://example.org/a", escapeIRI("http://example.org/a"))
	assert.Equal(t, `http://example.org/a\u0020b\u003E`, escapeIRI("http://example.org/a b>"))
}

func TestLiteral_Accessors(t *testing.T) {
	s := newStorage(t)

	l, err := NewLiteralIn(s, "42", XSDInt)
	require.NoError(t, err)
	assert.Equal(t, "42", l.Lexical())
	assert.Equal(t, XSDInt, l.Datatype())
	assert.Empty(t, l.Language())
	assert.True(t, l.IsInlined())
	assert.Equal(t, big.NewInt(42), l.Value())
	assert.Equal(t, XSDInt, l.Descriptor().IRI())

	ebv, err := l.EffectiveBoolean()
	require.NoError(t, err)
	assert.True(t, ebv)

	_, err = NewLiteralIn(s, "forty-two", XSDInt)
	assert.ErrorIs(t, err, datatypes.ErrInvalidLiteral)
}

func TestLiteral_CompareAndArithmetic(t *testing.T) {
	s := newStorage(t)
	lit := func(lexical, datatype string) Literal {
		t.Helper()
		l, err := NewLiteralIn(s, lexical, datatype)
		require.NoError(t, err)
		return l
	}

	one := lit("1", XSDInteger)
	half := lit("0.5", XSDDecimal)
	assert.Equal(t, datatypes.Greater, one.Compare(half))
	assert.Equal(t, datatypes.Equal, one.Compare(lit("1.0", XSDDecimal)))
	assert.Equal(t, datatypes.Incomparable, one.Compare(lit("1", XSDString)))

	sum, err := one.Add(half)
	require.NoError(t, err)
	assert.Equal(t, XSDDecimal, sum.Datatype())
	assert.Equal(t, "1.5", sum.Lexical())

	q, err := one.Div(lit("4", XSDInteger))
	require.NoError(t, err)
	assert.Equal(t, "0.25", q.Lexical())

	_, err = one.Div(lit("0", XSDInteger))
	assert.ErrorIs(t, err, datatypes.ErrDivideByZero)

	neg, err := lit("5", XSDUnsignedByte).Neg()
	require.NoError(t, err)
	assert.Equal(t, `"-5"^^<http://www.w3.org/2001/XMLSchema#integer>`, neg.String())

	d, err := lit("3", XSDDouble).Mul(lit("2", XSDInteger))
	require.NoError(t, err)
	assert.Equal(t, "6.0E0", d.Lexical())

	p, err := one.Pos()
	require.NoError(t, err)
	assert.True(t, p.Equals(one))

	diff, err := lit("0", XSDNonNegativeInteger).Sub(lit("1", XSDNonNegativeInteger))
	require.NoError(t, err)
	assert.Equal(t, XSDInteger, diff.Datatype())
}

func TestLiteral_Casts(t *testing.T) {
	s := newStorage(t)

	b, err := NewLiteralIn(s, "7", XSDByte)
	require.NoError(t, err)

	up, err := b.CastToSupertype()
	require.NoError(t, err)
	assert.Equal(t, XSDShort, up.Datatype())

	dbl, err := b.Cast(XSDDouble)
	require.NoError(t, err)
	assert.Equal(t, "7.0E0", dbl.Lexical())

	_, err = b.Cast("http://example.org/nope")
	assert.ErrorIs(t, err, store.ErrUnknownDatatype)

	str, err := NewLiteralIn(s, "2024-01-01", XSDString)
	require.NoError(t, err)
	date, err := str.Cast(XSDDate)
	require.NoError(t, err)
	assert.True(t, date.IsInlined())
}

func TestLiteral_Unregistered(t *testing.T) {
	s := newStorage(t)

	l, err := NewLiteralIn(s, "x", "http://example.org/dt")
	require.NoError(t, err)
	assert.Nil(t, l.Value())
	assert.Nil(t, l.Descriptor())
	assert.Equal(t, datatypes.Equal, l.Compare(l))

	_, err = l.EffectiveBoolean()
	assert.ErrorIs(t, err, store.ErrUnknownDatatype)
	_, err = l.Add(l)
	assert.ErrorIs(t, err, store.ErrUnknownDatatype)
}

func TestNewTypedLiteral(t *testing.T) {
	s := newStorage(t)

	l, err := NewTypedLiteralIn(s, big.NewInt(-3), XSDInteger)
	require.NoError(t, err)
	assert.Equal(t, "-3", l.Lexical())

	parsed, err := NewLiteralIn(s, "-3", XSDInteger)
	require.NoError(t, err)
	assert.Equal(t, parsed.Handle(), l.Handle())

	_, err = NewTypedLiteralIn(s, 1, "http://example.org/dt")
	assert.ErrorIs(t, err, store.ErrUnknownDatatype)

	for _, tt := range []struct {
		v        datatypes.Value
		datatype string
	}{
		{42, XSDInteger},
		{"not a number", XSDInteger},
		{big.NewInt(1000), XSDByte},
		{datatypes.Date{Year: 2022, Month: 2, Day: 30}, XSDDate},
	} {
		_, err = NewTypedLiteralIn(s, tt.v, tt.datatype)
		assert.ErrorIs(t, err, datatypes.ErrInvalidValueForCast, "%v", tt.v)
	}
}

func TestLiteral_LanguageFromHandle(t *testing.T) {
	s := newStorage(t)

	fr, err := NewLangLiteralIn(s, "bonjour", "FR")
	require.NoError(t, err)
	assert.Equal(t, "fr", fr.Language())
	tag, ok := store.LanguageTagOf(fr.Handle())
	require.True(t, ok)
	assert.Equal(t, "fr", tag)

	rare, err := NewLangLiteralIn(s, "grüezi", "gsw")
	require.NoError(t, err)
	assert.Equal(t, "gsw", rare.Language())
}

func TestFromHandle(t *testing.T) {
	s := newStorage(t)

	iri, err := NewIRIIn(s, "http://example.org/a")
	require.NoError(t, err)
	lang, err := NewLangLiteralIn(s, "hallo", "de")
	require.NoError(t, err)
	bnode, err := NewBlankNodeIn(s, "n")
	require.NoError(t, err)
	v, err := NewVariableIn(s, "v", false)
	require.NoError(t, err)

	for _, want := range []Term{iri, lang, bnode, v} {
		got, err := FromHandle(want.Handle())
		require.NoError(t, err)
		assert.True(t, want.Equals(got), want.String())
		assert.Equal(t, want.String(), got.String())
	}

	_, err = FromHandle(identifier.NewHandle(1, identifier.KindIRI, 0, false, 0))
	assert.ErrorIs(t, err, store.ErrForeignHandle)
}

func TestDefaultStorage(t *testing.T) {
	a, err := NewIRI("http://example.org/default")
	require.NoError(t, err)
	assert.Equal(t, store.Default().ID(), a.Handle().Storage())

	l, err := NewLiteral("true", XSDBoolean)
	require.NoError(t, err)
	assert.True(t, l.IsInlined())

	ll, err := NewLangLiteral("hi", "en")
	require.NoError(t, err)
	assert.Equal(t, "en", ll.Language())

	b, err := NewBlankNode("x")
	require.NoError(t, err)
	fresh, err := NewFreshBlankNode()
	require.NoError(t, err)
	assert.False(t, b.Equals(fresh))

	v, err := NewVariable("s", false)
	require.NoError(t, err)
	assert.Equal(t, "s", v.Name())

	tl, err := NewTypedLiteral(true, XSDBoolean)
	require.NoError(t, err)
	assert.True(t, tl.Equals(l))
}
