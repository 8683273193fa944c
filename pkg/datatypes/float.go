package datatypes

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var floatLexical = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// double inlining keeps the upper 42 bits of the IEEE representation
const doubleInlineShift = 64 - 42

// floatType implements xsd:float (F = float32) and xsd:double (F = float64).
// Arithmetic follows IEEE 754 and never fails.
type floatType[F float32 | float64] struct {
	iri      string
	bitSize  int
	promoted string
}

func (t floatType[F]) IRI() string { return t.iri }

func (t floatType[F]) Parse(lexical string) (Value, error) {
	s := strings.TrimSpace(lexical)
	switch s {
	case "INF", "+INF":
		return F(math.Inf(1)), nil
	case "-INF":
		return F(math.Inf(-1)), nil
	case "NaN":
		return F(math.NaN()), nil
	}
	if !floatLexical.MatchString(s) {
		return nil, invalidLiteral(t.iri, lexical, "not a floating point number")
	}
	f, err := strconv.ParseFloat(s, t.bitSize)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, invalidLiteral(t.iri, lexical, "%v", err)
	}
	return F(f), nil
}

// Canonical renders a mantissa with exactly one integral digit and at least
// one fractional digit, followed by a bare exponent: 1.5E1, -0.0E0, INF.
func (t floatType[F]) Canonical(v Value) string {
	f, ok := v.(F)
	if !ok {
		return ""
	}
	x := float64(f)
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "INF"
	case math.IsInf(x, -1):
		return "-INF"
	}

	s := strconv.FormatFloat(x, 'E', -1, t.bitSize)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}

// Compare treats NaN as incomparable with everything, itself included.
func (t floatType[F]) Validate(v Value) error {
	if _, ok := v.(F); !ok {
		return wrongValueType(t.iri, v)
	}
	return nil
}

func (t floatType[F]) Compare(a, b Value) Ordering {
	x, aok := a.(F)
	y, bok := b.(F)
	if !aok || !bok || isNaN(x) || isNaN(y) {
		return Incomparable
	}
	switch {
	case x < y:
		return Less
	case x > y:
		return Greater
	default:
		return Equal
	}
}

func (t floatType[F]) EffectiveBoolean(v Value) bool {
	f, _ := v.(F)
	return !isNaN(f) && f != 0
}

func (t floatType[F]) Add(a, b Value) (Value, error) {
	return t.binary(a, b, func(x, y F) F { return x + y })
}

func (t floatType[F]) Sub(a, b Value) (Value, error) {
	return t.binary(a, b, func(x, y F) F { return x - y })
}

func (t floatType[F]) Mul(a, b Value) (Value, error) {
	return t.binary(a, b, func(x, y F) F { return x * y })
}

func (t floatType[F]) Div(a, b Value) (Value, error) {
	return t.binary(a, b, func(x, y F) F { return x / y })
}

func (t floatType[F]) Neg(a Value) (Value, error) {
	x, ok := a.(F)
	if !ok {
		return nil, wrongValueType(t.iri, a)
	}
	return -x, nil
}

func (t floatType[F]) Pos(a Value) (Value, error) {
	x, ok := a.(F)
	if !ok {
		return nil, wrongValueType(t.iri, a)
	}
	return x, nil
}

func (t floatType[F]) PromotedType() string { return t.promoted }

func (t floatType[F]) Promote(v Value) Value {
	f, _ := v.(F)
	return float64(f)
}

// TryPack always succeeds for xsd:float. xsd:double values pack when the
// low 22 bits of their representation are zero.
func (t floatType[F]) TryPack(v Value) (uint64, bool) {
	switch f := v.(type) {
	case float32:
		return uint64(math.Float32bits(f)), true
	case float64:
		bits := math.Float64bits(f)
		if bits&(1<<doubleInlineShift-1) != 0 {
			return 0, false
		}
		return bits >> doubleInlineShift, true
	default:
		return 0, false
	}
}

func (t floatType[F]) Unpack(bits uint64) Value {
	if t.bitSize == 32 {
		return math.Float32frombits(uint32(bits)) // #nosec G115 - low 32 bits
	}
	return math.Float64frombits(bits << doubleInlineShift)
}

func isNaN[F float32 | float64](f F) bool {
	return math.IsNaN(float64(f))
}

func (t floatType[F]) binary(a, b Value, op func(x, y F) F) (Value, error) {
	x, aok := a.(F)
	y, bok := b.(F)
	if !aok {
		return nil, wrongValueType(t.iri, a)
	}
	if !bok {
		return nil, wrongValueType(t.iri, b)
	}
	return op(x, y), nil
}
