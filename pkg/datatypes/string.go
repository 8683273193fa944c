package datatypes

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// xsd:string. Every lexical form is valid and canonical.
type stringType struct{}

func (stringType) IRI() string { return XSDString }

func (stringType) Parse(lexical string) (Value, error) { return lexical, nil }

func (stringType) Canonical(v Value) string {
	s, _ := v.(string)
	return s
}

func (stringType) Validate(v Value) error {
	if _, ok := v.(string); !ok {
		return wrongValueType(XSDString, v)
	}
	return nil
}

func (stringType) Compare(a, b Value) Ordering {
	as, aok := a.(string)
	bs, bok := b.(string)
	if !aok || !bok {
		return Incomparable
	}
	return orderingOf(strings.Compare(as, bs))
}

func (stringType) EffectiveBoolean(v Value) bool {
	s, _ := v.(string)
	return s != ""
}

// LangString is the value of an rdf:langString literal.
type LangString struct {
	Lexical string
	// Tag is the normalized (lowercase) language tag.
	Tag string
}

// rdf:langString. The lexical form used by Parse and Canonical is
// "text@tag", split at the last '@'.
type langStringType struct{}

func (langStringType) IRI() string { return RDFLangString }

func (langStringType) Parse(lexical string) (Value, error) {
	at := strings.LastIndexByte(lexical, '@')
	if at < 0 {
		return nil, invalidLiteral(RDFLangString, lexical, "missing language tag")
	}
	tag, err := NormalizeLanguageTag(lexical[at+1:])
	if err != nil {
		return nil, invalidLiteral(RDFLangString, lexical, "%v", err)
	}
	return LangString{Lexical: lexical[:at], Tag: tag}, nil
}

func (langStringType) Canonical(v Value) string {
	ls, _ := v.(LangString)
	return ls.Lexical + "@" + ls.Tag
}

// Compare orders values with the same language tag by lexical form.
// Values with different tags are incomparable.
func (langStringType) Validate(v Value) error {
	x, ok := v.(LangString)
	if !ok {
		return wrongValueType(RDFLangString, v)
	}
	if _, err := NormalizeLanguageTag(x.Tag); err != nil {
		return invalidValue(RDFLangString, x.Lexical+"@"+x.Tag, "%v", err)
	}
	return nil
}

func (langStringType) Compare(a, b Value) Ordering {
	al, aok := a.(LangString)
	bl, bok := b.(LangString)
	if !aok || !bok || al.Tag != bl.Tag {
		return Incomparable
	}
	return orderingOf(strings.Compare(al.Lexical, bl.Lexical))
}

func (langStringType) EffectiveBoolean(v Value) bool {
	ls, _ := v.(LangString)
	return ls.Lexical != ""
}

// NormalizeLanguageTag validates a BCP47 language tag and lowercases it.
func NormalizeLanguageTag(tag string) (string, error) {
	if tag == "" {
		return "", errors.New("empty language tag")
	}
	if _, err := language.Parse(tag); err != nil {
		// Well-formed tags with unregistered subtags are still valid RDF
		var unknown language.ValueError
		if !errors.As(err, &unknown) {
			return "", err
		}
	}
	return strings.ToLower(tag), nil
}
