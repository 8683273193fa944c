package datatypes

import (
	"strings"
)

// xsd:boolean. Values are Go bools; false orders before true.
type booleanType struct{}

func (booleanType) IRI() string { return XSDBoolean }

func (booleanType) Parse(lexical string) (Value, error) {
	switch strings.TrimSpace(lexical) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return nil, invalidLiteral(XSDBoolean, lexical, "expected true, false, 1 or 0")
	}
}

func (booleanType) Canonical(v Value) string {
	if b, _ := v.(bool); b {
		return "true"
	}
	return "false"
}

func (booleanType) Validate(v Value) error {
	if _, ok := v.(bool); !ok {
		return wrongValueType(XSDBoolean, v)
	}
	return nil
}

func (booleanType) Compare(a, b Value) Ordering {
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	if !aok || !bok {
		return Incomparable
	}
	switch {
	case ab == bb:
		return Equal
	case !ab:
		return Less
	default:
		return Greater
	}
}

func (booleanType) EffectiveBoolean(v Value) bool {
	b, _ := v.(bool)
	return b
}

func (booleanType) TryPack(v Value) (uint64, bool) {
	b, ok := v.(bool)
	if !ok {
		return 0, false
	}
	if b {
		return 1, true
	}
	return 0, true
}

func (booleanType) Unpack(bits uint64) Value {
	return bits&1 == 1
}
