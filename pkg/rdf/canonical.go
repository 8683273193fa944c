package rdf

import (
	"fmt"
	"strings"
)

// escapeString escapes a lexical form for canonical N-Triples output:
// the named escapes \t \b \n \r \f \" \\, and \uXXXX for the remaining
// control characters and the noncharacters U+FFFE and U+FFFF.
func escapeString(s string) string {
	if !strings.ContainsFunc(s, needsStringEscape) {
		return s
	}

	var builder strings.Builder
	builder.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\t':
			builder.WriteString(`\t`)
		case '\b':
			builder.WriteString(`\b`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\f':
			builder.WriteString(`\f`)
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		default:
			if needsStringEscape(r) {
				fmt.Fprintf(&builder, `\u%04X`, r)
			} else {
				builder.WriteRune(r)
			}
		}
	}
	return builder.String()
}

func needsStringEscape(r rune) bool {
	return r < 0x20 || r == '"' || r == '\\' || r == 0x7F || r == 0xFFFE || r == 0xFFFF
}

// escapeIRI escapes the characters an IRIREF may not contain as \uXXXX.
func escapeIRI(iri string) string {
	if !strings.ContainsFunc(iri, needsIRIEscape) {
		return iri
	}

	var builder strings.Builder
	builder.Grow(len(iri) + 8)
	for _, r := range iri {
		if needsIRIEscape(r) {
			fmt.Fprintf(&builder, `\u%04X`, r)
		} else {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func needsIRIEscape(r rune) bool {
	return r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r)
}
