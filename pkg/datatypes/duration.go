package datatypes

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
)

// Duration is the value of xsd:duration and its two subtypes. The month
// and second components never have opposite signs; Nanos carries the sign
// of Seconds.
type Duration struct {
	Months  int64
	Seconds int64
	Nanos   int32
}

// Negative reports whether the duration is below zero.
func (d Duration) Negative() bool {
	return d.Months < 0 || d.Seconds < 0 || d.Nanos < 0
}

// IsZero reports whether every component is zero.
func (d Duration) IsZero() bool {
	return d.Months == 0 && d.Seconds == 0 && d.Nanos == 0
}

// String renders the canonical form. Zero components are omitted and the
// zero duration is PT0S.
func (d Duration) String() string {
	if d.IsZero() {
		return "PT0S"
	}
	var b strings.Builder
	if d.Negative() {
		b.WriteByte('-')
	}
	b.WriteByte('P')

	months, secs, nanos := absInt64(d.Months), absInt64(d.Seconds), int(absInt64(int64(d.Nanos)))
	writeComponent(&b, months/12, 'Y')
	writeComponent(&b, months%12, 'M')
	writeComponent(&b, secs/secondsPerDay, 'D')

	secs %= secondsPerDay
	if secs != 0 || nanos != 0 {
		b.WriteByte('T')
		writeComponent(&b, secs/3600, 'H')
		writeComponent(&b, secs%3600/60, 'M')
		if s := secs % 60; s != 0 || nanos != 0 {
			b.WriteString(strconv.FormatInt(s, 10))
			b.WriteString(formatFraction(nanos))
			b.WriteByte('S')
		}
	}
	return b.String()
}

func writeComponent(b *strings.Builder, v int64, unit byte) {
	if v != 0 {
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte(unit)
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Reference points for the duration partial order.
var durationReferences = [4][3]int{
	{1696, 9, 1},
	{1697, 2, 1},
	{1903, 3, 1},
	{1903, 7, 1},
}

// compareDurations orders durations by adding them to four reference
// dateTimes. If the reference points disagree the durations are incomparable,
// as for P1M and P30D.
func compareDurations(a, b Duration) Ordering {
	if a.Months == b.Months {
		return orderingOf(cmpInstant(a.Seconds, int(a.Nanos), b.Seconds, int(b.Nanos)))
	}
	if a.Seconds == b.Seconds && a.Nanos == b.Nanos {
		return orderingOf(cmpInt64(a.Months, b.Months))
	}

	var result Ordering
	for i, ref := range durationReferences {
		as, an := shiftReference(ref, a)
		bs, bn := shiftReference(ref, b)
		o := orderingOf(cmpInstant(as, an, bs, bn))
		if i > 0 && o != result {
			return Incomparable
		}
		result = o
	}
	return result
}

// shiftReference adds d to the reference date, pinning the day of month
// when the target month is shorter.
func shiftReference(ref [3]int, d Duration) (int64, int) {
	total := int64(ref[0])*12 + int64(ref[1]-1) + d.Months
	y := floorDiv(total, 12)
	m := int(total-y*12) + 1
	day := min(ref[2], daysIn(int(y), m))

	secs := daysFromCivil(int(y), m, day)*secondsPerDay + d.Seconds
	nanos := int(d.Nanos)
	if nanos < 0 {
		secs--
		nanos += 1e9
	}
	return secs, nanos
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

type durationKind uint8

const (
	durationFull durationKind = iota
	durationDayTime
	durationYearMonth
)

var durationLexical = regexp.MustCompile(
	`^(-)?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:\.(\d+))?S)?)?$`)

// durationType implements xsd:duration, xsd:dayTimeDuration and
// xsd:yearMonthDuration.
type durationType struct {
	kind durationKind
}

func (t durationType) IRI() string {
	switch t.kind {
	case durationDayTime:
		return XSDDayTimeDuration
	case durationYearMonth:
		return XSDYearMonthDuration
	default:
		return XSDDuration
	}
}

func (t durationType) Parse(lexical string) (Value, error) {
	s := strings.TrimSpace(lexical)
	m := durationLexical.FindStringSubmatch(s)
	if m == nil || strings.HasSuffix(s, "P") || strings.HasSuffix(s, "T") {
		return nil, invalidLiteral(t.IRI(), lexical, "not a duration")
	}
	years, months, days := m[2], m[3], m[4]
	hours, minutes, seconds, fraction := m[5], m[6], m[7], m[8]

	hasTime := hours != "" || minutes != "" || seconds != ""
	switch {
	case t.kind == durationDayTime && (years != "" || months != ""):
		return nil, invalidLiteral(t.IRI(), lexical, "year and month components are not allowed")
	case t.kind == durationYearMonth && (days != "" || hasTime):
		return nil, invalidLiteral(t.IRI(), lexical, "day and time components are not allowed")
	}

	var d Duration
	ok := true
	acc := func(total *int64, digits string, factor int64) {
		if digits == "" || !ok {
			return
		}
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || v > (math.MaxInt64-*total)/factor {
			ok = false
			return
		}
		*total += v * factor
	}
	acc(&d.Months, years, 12)
	acc(&d.Months, months, 1)
	acc(&d.Seconds, days, secondsPerDay)
	acc(&d.Seconds, hours, 3600)
	acc(&d.Seconds, minutes, 60)
	acc(&d.Seconds, seconds, 1)
	if !ok {
		return nil, invalidLiteral(t.IRI(), lexical, "component too large")
	}
	if fraction != "" {
		if len(fraction) > 9 {
			fraction = fraction[:9]
		}
		ns, _ := strconv.Atoi(fraction + strings.Repeat("0", 9-len(fraction)))
		d.Nanos = int32(ns) // #nosec G115 - below 1e9
	}

	if m[1] == "-" {
		d = negateDuration(d)
	}
	return d, nil
}

func (t durationType) Canonical(v Value) string {
	d, ok := v.(Duration)
	if !ok {
		return ""
	}
	if d.IsZero() && t.kind == durationYearMonth {
		return "P0M"
	}
	return d.String()
}

// Validate accepts the durations Parse produces: components share one sign,
// nanoseconds stay below a second and the subtypes carry only their own
// components.
func (t durationType) Validate(v Value) error {
	d, ok := v.(Duration)
	if !ok {
		return wrongValueType(t.IRI(), v)
	}
	neg, pos := d.Months < 0 || d.Seconds < 0 || d.Nanos < 0, d.Months > 0 || d.Seconds > 0 || d.Nanos > 0
	switch {
	case neg && pos:
		return invalidValue(t.IRI(), d.String(), "components of mixed sign")
	case d.Months == math.MinInt64 || d.Seconds == math.MinInt64:
		return invalidValue(t.IRI(), d.String(), "component too large")
	case d.Nanos <= -1e9 || d.Nanos >= 1e9:
		return invalidValue(t.IRI(), d.String(), "nanoseconds outside one second")
	}
	if _, err := t.FromSupertype(d); err != nil {
		return err
	}
	return nil
}

func (t durationType) Compare(a, b Value) Ordering {
	x, aok := a.(Duration)
	y, bok := b.(Duration)
	if !aok || !bok {
		return Incomparable
	}
	return compareDurations(x, y)
}

func (t durationType) Supertype() string {
	if t.kind == durationFull {
		return ""
	}
	return XSDDuration
}

func (t durationType) ToSupertype(v Value) Value { return v }

func (t durationType) FromSupertype(v Value) (Value, error) {
	d, ok := v.(Duration)
	if !ok {
		return nil, wrongValueType(XSDDuration, v)
	}
	switch {
	case t.kind == durationDayTime && d.Months != 0:
		return nil, fmt.Errorf("%w: %s has a month component", ErrInvalidValueForCast, d)
	case t.kind == durationYearMonth && (d.Seconds != 0 || d.Nanos != 0):
		return nil, fmt.Errorf("%w: %s has a day or time component", ErrInvalidValueForCast, d)
	}
	return d, nil
}

// TryPack stores the single component of the subtypes in sign-magnitude
// form. Full durations share one sign bit between both magnitudes.
// Durations with fractional seconds are never inlined.
func (t durationType) TryPack(v Value) (uint64, bool) {
	d, ok := v.(Duration)
	if !ok || d.Nanos != 0 {
		return 0, false
	}
	var p encoding.Packer
	switch t.kind {
	case durationDayTime:
		if d.Months != 0 {
			return 0, false
		}
		p.SignMagnitude(d.Seconds, encoding.PayloadBits)
	case durationYearMonth:
		if d.Seconds != 0 {
			return 0, false
		}
		p.SignMagnitude(d.Months, encoding.PayloadBits)
	default:
		months, secs := uint64(absInt64(d.Months)), uint64(absInt64(d.Seconds)) // #nosec G115 - magnitudes
		p.Bool(d.Negative()).Unsigned(months, 13).Unsigned(secs, 28)
	}
	return p.Result()
}

func (t durationType) Unpack(bits uint64) Value {
	u := encoding.NewUnpacker(bits)
	switch t.kind {
	case durationDayTime:
		return Duration{Seconds: u.SignMagnitude(encoding.PayloadBits)}
	case durationYearMonth:
		return Duration{Months: u.SignMagnitude(encoding.PayloadBits)}
	}
	neg := u.Bool()
	d := Duration{
		Months:  int64(u.Unsigned(13)), // #nosec G115 - 13-bit field
		Seconds: int64(u.Unsigned(28)), // #nosec G115 - 28-bit field
	}
	if neg {
		d = negateDuration(d)
	}
	return d
}

func negateDuration(d Duration) Duration {
	return Duration{Months: -d.Months, Seconds: -d.Seconds, Nanos: -d.Nanos}
}

// orderedDurationType adds addition and subtraction to the totally ordered
// duration subtypes.
type orderedDurationType struct {
	durationType
}

func (t orderedDurationType) Add(a, b Value) (Value, error) {
	x, y, err := t.operands(a, b)
	if err != nil {
		return nil, err
	}
	return addDurations(x, y)
}

func (t orderedDurationType) Sub(a, b Value) (Value, error) {
	x, y, err := t.operands(a, b)
	if err != nil {
		return nil, err
	}
	return addDurations(x, negateDuration(y))
}

func (t orderedDurationType) Mul(a, b Value) (Value, error) {
	return nil, fmt.Errorf("%w: mul on <%s>", ErrUnsupportedOperation, t.IRI())
}

func (t orderedDurationType) Div(a, b Value) (Value, error) {
	return nil, fmt.Errorf("%w: div on <%s>", ErrUnsupportedOperation, t.IRI())
}

func (t orderedDurationType) Neg(a Value) (Value, error) {
	d, ok := a.(Duration)
	if !ok {
		return nil, wrongValueType(t.IRI(), a)
	}
	return negateDuration(d), nil
}

func (t orderedDurationType) Pos(a Value) (Value, error) {
	d, ok := a.(Duration)
	if !ok {
		return nil, wrongValueType(t.IRI(), a)
	}
	return d, nil
}

func (t orderedDurationType) operands(a, b Value) (Duration, Duration, error) {
	x, aok := a.(Duration)
	y, bok := b.(Duration)
	if !aok {
		return Duration{}, Duration{}, wrongValueType(t.IRI(), a)
	}
	if !bok {
		return Duration{}, Duration{}, wrongValueType(t.IRI(), b)
	}
	return x, y, nil
}

func addDurations(a, b Duration) (Value, error) {
	months, ok1 := addChecked(a.Months, b.Months)
	secs, ok2 := addChecked(a.Seconds, b.Seconds)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: %s + %s", ErrOverOrUnderFlow, a, b)
	}
	nanos := int64(a.Nanos) + int64(b.Nanos)
	secs += nanos / 1e9
	nanos %= 1e9
	switch {
	case secs > 0 && nanos < 0:
		secs--
		nanos += 1e9
	case secs < 0 && nanos > 0:
		secs++
		nanos -= 1e9
	}
	return Duration{Months: months, Seconds: secs, Nanos: int32(nanos)}, nil // #nosec G115 - |nanos| < 1e9
}

func addChecked(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}
