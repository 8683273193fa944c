package datatypes

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
)

// binary inlining layout: 3-bit length followed by up to four bytes
const (
	binaryInlineMaxLen  = 4
	binaryInlineLenBits = 3
)

// binaryType implements xsd:hexBinary and xsd:base64Binary. Values are
// []byte and are never mutated once created.
type binaryType struct {
	iri string
	hex bool
}

func (t binaryType) IRI() string { return t.iri }

func (t binaryType) Parse(lexical string) (Value, error) {
	var (
		b   []byte
		err error
	)
	if t.hex {
		b, err = hex.DecodeString(strings.TrimSpace(lexical))
	} else {
		b, err = base64.StdEncoding.DecodeString(strings.Map(dropSpace, lexical))
	}
	if err != nil {
		return nil, invalidLiteral(t.iri, lexical, "%v", err)
	}
	return b, nil
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}

// Canonical uses upper case digits for hexBinary and padded standard
// base64 without line breaks.
func (t binaryType) Canonical(v Value) string {
	b, _ := v.([]byte)
	if t.hex {
		return strings.ToUpper(hex.EncodeToString(b))
	}
	return base64.StdEncoding.EncodeToString(b)
}

// Compare only decides equality; binary values have no order.
func (t binaryType) Validate(v Value) error {
	if _, ok := v.([]byte); !ok {
		return wrongValueType(t.iri, v)
	}
	return nil
}

func (t binaryType) Compare(a, b Value) Ordering {
	x, aok := a.([]byte)
	y, bok := b.([]byte)
	if aok && bok && bytes.Equal(x, y) {
		return Equal
	}
	return Incomparable
}

func (t binaryType) TryPack(v Value) (uint64, bool) {
	b, ok := v.([]byte)
	if !ok || len(b) > binaryInlineMaxLen {
		return 0, false
	}
	var p encoding.Packer
	p.Unsigned(uint64(len(b)), binaryInlineLenBits)
	for _, c := range b {
		p.Unsigned(uint64(c), 8)
	}
	return p.Result()
}

func (t binaryType) Unpack(bits uint64) Value {
	u := encoding.NewUnpacker(bits)
	n := int(u.Unsigned(binaryInlineLenBits)) // #nosec G115 - 3-bit field
	b := make([]byte, min(n, binaryInlineMaxLen))
	for i := range b {
		b[i] = byte(u.Unsigned(8)) // #nosec G115 - 8-bit field
	}
	return b
}

func (t binaryType) SpecializedStorage() bool { return true }
