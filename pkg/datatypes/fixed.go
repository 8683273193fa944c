package datatypes

import (
	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

// Namespaces of the fixed datatypes.
const (
	XSD = "http://www.w3.org/2001/XMLSchema#"
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	OWL = "http://www.w3.org/2002/07/owl#"
)

// Fixed datatype IRIs.
const (
	XSDString             = XSD + "string"
	RDFLangString         = RDF + "langString"
	XSDBoolean            = XSD + "boolean"
	XSDDecimal            = XSD + "decimal"
	XSDFloat              = XSD + "float"
	XSDDouble             = XSD + "double"
	XSDInteger            = XSD + "integer"
	XSDNonPositiveInteger = XSD + "nonPositiveInteger"
	XSDNegativeInteger    = XSD + "negativeInteger"
	XSDLong               = XSD + "long"
	XSDInt                = XSD + "int"
	XSDShort              = XSD + "short"
	XSDByte               = XSD + "byte"
	XSDNonNegativeInteger = XSD + "nonNegativeInteger"
	XSDPositiveInteger    = XSD + "positiveInteger"
	XSDUnsignedLong       = XSD + "unsignedLong"
	XSDUnsignedInt        = XSD + "unsignedInt"
	XSDUnsignedShort      = XSD + "unsignedShort"
	XSDUnsignedByte       = XSD + "unsignedByte"
	XSDDate               = XSD + "date"
	XSDTime               = XSD + "time"
	XSDDateTime           = XSD + "dateTime"
	XSDDateTimeStamp      = XSD + "dateTimeStamp"
	XSDGYear              = XSD + "gYear"
	XSDGMonth             = XSD + "gMonth"
	XSDGDay               = XSD + "gDay"
	XSDGYearMonth         = XSD + "gYearMonth"
	XSDGMonthDay          = XSD + "gMonthDay"
	XSDDuration           = XSD + "duration"
	XSDDayTimeDuration    = XSD + "dayTimeDuration"
	XSDYearMonthDuration  = XSD + "yearMonthDuration"
	XSDHexBinary          = XSD + "hexBinary"
	XSDBase64Binary       = XSD + "base64Binary"
	OWLReal               = OWL + "real"
	OWLRational           = OWL + "rational"
)

// Fixed literal type tags. The numbering is part of the handle format and
// must never change.
const (
	TagString identifier.LiteralType = iota + identifier.FirstFixedLiteralType
	TagLangString
	TagBoolean
	TagDecimal
	TagFloat
	TagDouble
	TagInteger
	TagNonPositiveInteger
	TagNegativeInteger
	TagLong
	TagInt
	TagShort
	TagByte
	TagNonNegativeInteger
	TagPositiveInteger
	TagUnsignedLong
	TagUnsignedInt
	TagUnsignedShort
	TagUnsignedByte
	TagDate
	TagTime
	TagDateTime
	TagDateTimeStamp
	TagGYear
	TagGMonth
	TagGDay
	TagGYearMonth
	TagGMonthDay
	TagDuration
	TagDayTimeDuration
	TagYearMonthDuration
	TagHexBinary
	TagBase64Binary
	TagOWLReal
	TagOWLRational
)

type fixedEntry struct {
	tag identifier.LiteralType
	dt  Datatype
}

// fixedDatatypes is the closed set of datatypes with compile-time tags.
func fixedDatatypes() []fixedEntry {
	return []fixedEntry{
		{TagString, stringType{}},
		{TagLangString, langStringType{}},
		{TagBoolean, booleanType{}},
		{TagDecimal, decimalType{}},
		{TagFloat, floatType[float32]{iri: XSDFloat, bitSize: 32, promoted: XSDDouble}},
		{TagDouble, floatType[float64]{iri: XSDDouble, bitSize: 64}},
		{TagInteger, integerDatatype()},
		{TagNonPositiveInteger, newIntegerType(XSDNonPositiveInteger, XSDInteger, nil, big0, packNegated)},
		{TagNegativeInteger, newIntegerType(XSDNegativeInteger, XSDNonPositiveInteger, nil, bigMinus1, packNegated)},
		{TagLong, newIntegerType(XSDLong, XSDInteger, bigPow2(63, -1, true), bigPow2(63, -1, false), packTwos)},
		{TagInt, newIntegerType(XSDInt, XSDLong, bigPow2(31, -1, true), bigPow2(31, -1, false), packTwos)},
		{TagShort, newIntegerType(XSDShort, XSDInt, bigPow2(15, -1, true), bigPow2(15, -1, false), packTwos)},
		{TagByte, newIntegerType(XSDByte, XSDShort, bigPow2(7, -1, true), bigPow2(7, -1, false), packTwos)},
		{TagNonNegativeInteger, newIntegerType(XSDNonNegativeInteger, XSDInteger, big0, nil, packUnsigned)},
		{TagPositiveInteger, newIntegerType(XSDPositiveInteger, XSDNonNegativeInteger, big1, nil, packUnsigned)},
		{TagUnsignedLong, newIntegerType(XSDUnsignedLong, XSDNonNegativeInteger, big0, bigPow2(64, -1, false), packUnsigned)},
		{TagUnsignedInt, newIntegerType(XSDUnsignedInt, XSDUnsignedLong, big0, bigPow2(32, -1, false), packUnsigned)},
		{TagUnsignedShort, newIntegerType(XSDUnsignedShort, XSDUnsignedInt, big0, bigPow2(16, -1, false), packUnsigned)},
		{TagUnsignedByte, newIntegerType(XSDUnsignedByte, XSDUnsignedShort, big0, bigPow2(8, -1, false), packUnsigned)},
		{TagDate, dateDatatype()},
		{TagTime, timeDatatype()},
		{TagDateTime, dateTimeDatatype(XSDDateTime, false)},
		{TagDateTimeStamp, dateTimeDatatype(XSDDateTimeStamp, true)},
		{TagGYear, gYearDatatype()},
		{TagGMonth, gMonthDatatype()},
		{TagGDay, gDayDatatype()},
		{TagGYearMonth, gYearMonthDatatype()},
		{TagGMonthDay, gMonthDayDatatype()},
		{TagDuration, durationType{kind: durationFull}},
		{TagDayTimeDuration, orderedDurationType{durationType{kind: durationDayTime}}},
		{TagYearMonthDuration, orderedDurationType{durationType{kind: durationYearMonth}}},
		{TagHexBinary, binaryType{iri: XSDHexBinary, hex: true}},
		{TagBase64Binary, binaryType{iri: XSDBase64Binary}},
		{TagOWLReal, rationalType{iri: OWLReal}},
		{TagOWLRational, rationalType{iri: OWLRational, super: OWLReal}},
	}
}

// TagForIRI returns the fixed tag of a datatype IRI.
func TagForIRI(iri string) (identifier.LiteralType, bool) {
	r := registryInstance()
	tag, ok := r.fixedByIRI[iri]
	return tag, ok
}

// IRIForTag returns the IRI of a fixed tag, or "" if the tag is unassigned.
func IRIForTag(tag identifier.LiteralType) string {
	d := ByTag(tag)
	if d == nil {
		return ""
	}
	return d.iri
}

// FixedDescriptors returns the fixed datatypes in tag order.
func FixedDescriptors() []*Descriptor {
	r := registryInstance()
	out := make([]*Descriptor, 0, len(r.fixedByIRI))
	for _, d := range r.fixed {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
