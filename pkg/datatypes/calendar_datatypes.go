package datatypes

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
)

type calendarValue interface {
	String() string
	zone() Timezone
	moment() moment
}

// calendarType implements the date and time datatypes. Each datatype
// supplies its grammar and its packed layout; parsing, comparison and
// canonical rendering are shared.
type calendarType[T calendarValue] struct {
	iri          string
	super        string
	needTimezone bool
	scan         func(c *calScanner, f *fieldCheck) T
	pack         func(v T, p *encoding.Packer)
	unpack       func(u *encoding.Unpacker) T
}

func (t calendarType[T]) IRI() string { return t.iri }

func (t calendarType[T]) Parse(lexical string) (Value, error) {
	c := &calScanner{s: strings.TrimSpace(lexical)}
	f := &fieldCheck{lenient: LenientParsing()}
	v := t.scan(c, f)
	switch {
	case !c.done():
		return nil, invalidLiteral(t.iri, lexical, "malformed lexical form")
	case f.bad != "":
		return nil, invalidLiteral(t.iri, lexical, "%s", f.bad)
	case t.needTimezone && !v.zone().Set:
		return nil, invalidLiteral(t.iri, lexical, "timezone required")
	}
	return v, nil
}

func (t calendarType[T]) Canonical(v Value) string {
	x, ok := v.(T)
	if !ok {
		return ""
	}
	return x.String()
}

// Validate rescans the canonical form of v strictly. Field values that
// Parse would reject or rewrite do not reproduce themselves.
func (t calendarType[T]) Validate(v Value) error {
	x, ok := v.(T)
	if !ok {
		return wrongValueType(t.iri, v)
	}
	lexical := x.String()
	c := &calScanner{s: lexical}
	f := &fieldCheck{}
	y := t.scan(c, f)
	switch {
	case !c.done():
		return invalidValue(t.iri, lexical, "malformed fields")
	case f.bad != "":
		return invalidValue(t.iri, lexical, "%s", f.bad)
	case t.needTimezone && !x.zone().Set:
		return invalidValue(t.iri, lexical, "timezone required")
	case y.String() != lexical:
		return invalidValue(t.iri, lexical, "not a canonical value")
	}
	return nil
}

func (t calendarType[T]) Compare(a, b Value) Ordering {
	x, aok := a.(T)
	y, bok := b.(T)
	if !aok || !bok {
		return Incomparable
	}
	return compareMoments(x.moment(), y.moment())
}

func (t calendarType[T]) Supertype() string { return t.super }

func (t calendarType[T]) ToSupertype(v Value) Value { return v }

func (t calendarType[T]) FromSupertype(v Value) (Value, error) {
	x, ok := v.(T)
	if !ok {
		return nil, wrongValueType(t.super, v)
	}
	if t.needTimezone && !x.zone().Set {
		return nil, fmt.Errorf("%w: <%s> requires a timezone", ErrInvalidValueForCast, t.iri)
	}
	return x, nil
}

func (t calendarType[T]) TryPack(v Value) (uint64, bool) {
	x, ok := v.(T)
	if !ok {
		return 0, false
	}
	var p encoding.Packer
	t.pack(x, &p)
	return p.Result()
}

func (t calendarType[T]) Unpack(bits uint64) Value {
	return t.unpack(encoding.NewUnpacker(bits))
}

// date: 21-bit year, month, day, timezone
func dateDatatype() calendarType[Date] {
	return calendarType[Date]{
		iri: XSDDate,
		scan: func(c *calScanner, f *fieldCheck) Date {
			var d Date
			d.Year = c.year()
			c.lit("-")
			d.Month = c.digits(2)
			c.lit("-")
			d.Day = c.digits(2)
			d.TZ = c.timezone(f)
			f.date(d.Year, &d.Month, &d.Day)
			return d
		},
		pack: func(d Date, p *encoding.Packer) {
			packZone(p.Signed(int64(d.Year), 21).Unsigned(uint64(d.Month), 4).Unsigned(uint64(d.Day), 5), d.TZ) // #nosec G115 - validated fields
		},
		unpack: func(u *encoding.Unpacker) Date {
			return Date{
				Year:  int(u.Signed(21)),
				Month: int(u.Unsigned(4)), // #nosec G115 - 4-bit field
				Day:   int(u.Unsigned(5)), // #nosec G115 - 5-bit field
				TZ:    unpackZone(u),
			}
		},
	}
}

// time: hour, minute, second, milliseconds, timezone
func timeDatatype() calendarType[Time] {
	return calendarType[Time]{
		iri: XSDTime,
		scan: func(c *calScanner, f *fieldCheck) Time {
			var t Time
			t.Hour = c.digits(2)
			c.lit(":")
			t.Minute = c.digits(2)
			c.lit(":")
			t.Second = c.digits(2)
			t.Nanosecond = c.fraction()
			t.TZ = c.timezone(f)
			f.clock(&t.Hour, &t.Minute, &t.Second, t.Nanosecond)
			return t
		},
		pack: func(t Time, p *encoding.Packer) {
			if t.Nanosecond%1e6 != 0 {
				p.Fail()
				return
			}
			p.Unsigned(uint64(t.Hour), 5).Unsigned(uint64(t.Minute), 6).Unsigned(uint64(t.Second), 6) // #nosec G115 - validated fields
			packZone(p.Unsigned(uint64(t.Nanosecond/1e6), 10), t.TZ)                                   // #nosec G115 - below 1000
		},
		unpack: func(u *encoding.Unpacker) Time {
			t := Time{
				Hour:   int(u.Unsigned(5)), // #nosec G115 - small fields
				Minute: int(u.Unsigned(6)), // #nosec G115
				Second: int(u.Unsigned(6)), // #nosec G115
			}
			t.Nanosecond = int(u.Unsigned(10)) * 1e6 // #nosec G115 - 10-bit field
			t.TZ = unpackZone(u)
			return t
		},
	}
}

// dateTime: whole seconds on the local timeline (34 bits), quarter-hour timezone
func dateTimeDatatype(iri string, stamp bool) calendarType[DateTime] {
	t := calendarType[DateTime]{
		iri:          iri,
		needTimezone: stamp,
		scan: func(c *calScanner, f *fieldCheck) DateTime {
			var d DateTime
			d.Year = c.year()
			c.lit("-")
			d.Month = c.digits(2)
			c.lit("-")
			d.Day = c.digits(2)
			c.lit("T")
			d.Hour = c.digits(2)
			c.lit(":")
			d.Minute = c.digits(2)
			c.lit(":")
			d.Second = c.digits(2)
			d.Nanosecond = c.fraction()
			d.TZ = c.timezone(f)
			f.date(d.Year, &d.Month, &d.Day)
			if f.clock(&d.Hour, &d.Minute, &d.Second, d.Nanosecond) && f.bad == "" {
				d.Year, d.Month, d.Day = civilFromDays(daysFromCivil(d.Year, d.Month, d.Day) + 1)
			}
			return d
		},
		pack: func(d DateTime, p *encoding.Packer) {
			tz, ok := encoding.PackQuarterTimezone(int(d.TZ.Offset), d.TZ.Set)
			if d.Nanosecond != 0 || !ok {
				p.Fail()
				return
			}
			p.Signed(d.localSeconds(), 34).Unsigned(tz, encoding.QuarterTimezoneBits)
		},
		unpack: func(u *encoding.Unpacker) DateTime {
			secs := u.Signed(34)
			off, set := encoding.UnpackQuarterTimezone(u.Unsigned(encoding.QuarterTimezoneBits))
			return dateTimeFromLocalSeconds(secs, Timezone{Offset: int16(off), Set: set}) // #nosec G115 - |off| <= 14:00
		},
	}
	if stamp {
		t.super = XSDDateTime
	}
	return t
}

// gYear: 30-bit year, timezone
func gYearDatatype() calendarType[GYear] {
	return calendarType[GYear]{
		iri: XSDGYear,
		scan: func(c *calScanner, f *fieldCheck) GYear {
			y := c.year()
			return GYear{Year: y, TZ: c.timezone(f)}
		},
		pack: func(g GYear, p *encoding.Packer) {
			packZone(p.Signed(int64(g.Year), 30), g.TZ)
		},
		unpack: func(u *encoding.Unpacker) GYear {
			y := int(u.Signed(30))
			return GYear{Year: y, TZ: unpackZone(u)}
		},
	}
}

// gMonth: "--MM", month, timezone
func gMonthDatatype() calendarType[GMonth] {
	return calendarType[GMonth]{
		iri: XSDGMonth,
		scan: func(c *calScanner, f *fieldCheck) GMonth {
			c.lit("--")
			g := GMonth{Month: c.digits(2)}
			g.TZ = c.timezone(f)
			f.clamp("month", &g.Month, 1, 12)
			return g
		},
		pack: func(g GMonth, p *encoding.Packer) {
			packZone(p.Unsigned(uint64(g.Month), 4), g.TZ) // #nosec G115 - validated month
		},
		unpack: func(u *encoding.Unpacker) GMonth {
			m := int(u.Unsigned(4)) // #nosec G115 - 4-bit field
			return GMonth{Month: m, TZ: unpackZone(u)}
		},
	}
}

// gDay: "---DD", day, timezone
func gDayDatatype() calendarType[GDay] {
	return calendarType[GDay]{
		iri: XSDGDay,
		scan: func(c *calScanner, f *fieldCheck) GDay {
			c.lit("---")
			g := GDay{Day: c.digits(2)}
			g.TZ = c.timezone(f)
			f.clamp("day", &g.Day, 1, 31)
			return g
		},
		pack: func(g GDay, p *encoding.Packer) {
			packZone(p.Unsigned(uint64(g.Day), 5), g.TZ) // #nosec G115 - validated day
		},
		unpack: func(u *encoding.Unpacker) GDay {
			d := int(u.Unsigned(5)) // #nosec G115 - 5-bit field
			return GDay{Day: d, TZ: unpackZone(u)}
		},
	}
}

// gYearMonth: 26-bit year, month, timezone
func gYearMonthDatatype() calendarType[GYearMonth] {
	return calendarType[GYearMonth]{
		iri: XSDGYearMonth,
		scan: func(c *calScanner, f *fieldCheck) GYearMonth {
			var g GYearMonth
			g.Year = c.year()
			c.lit("-")
			g.Month = c.digits(2)
			g.TZ = c.timezone(f)
			f.clamp("month", &g.Month, 1, 12)
			return g
		},
		pack: func(g GYearMonth, p *encoding.Packer) {
			packZone(p.Signed(int64(g.Year), 26).Unsigned(uint64(g.Month), 4), g.TZ) // #nosec G115 - validated month
		},
		unpack: func(u *encoding.Unpacker) GYearMonth {
			y := int(u.Signed(26))
			m := int(u.Unsigned(4)) // #nosec G115 - 4-bit field
			return GYearMonth{Year: y, Month: m, TZ: unpackZone(u)}
		},
	}
}

// gMonthDay: "--MM-DD", month, day, timezone. February 29 is valid.
func gMonthDayDatatype() calendarType[GMonthDay] {
	return calendarType[GMonthDay]{
		iri: XSDGMonthDay,
		scan: func(c *calScanner, f *fieldCheck) GMonthDay {
			var g GMonthDay
			c.lit("--")
			g.Month = c.digits(2)
			c.lit("-")
			g.Day = c.digits(2)
			g.TZ = c.timezone(f)
			f.date(referenceYear, &g.Month, &g.Day)
			return g
		},
		pack: func(g GMonthDay, p *encoding.Packer) {
			packZone(p.Unsigned(uint64(g.Month), 4).Unsigned(uint64(g.Day), 5), g.TZ) // #nosec G115 - validated fields
		},
		unpack: func(u *encoding.Unpacker) GMonthDay {
			m := int(u.Unsigned(4)) // #nosec G115 - 4-bit field
			d := int(u.Unsigned(5)) // #nosec G115 - 5-bit field
			return GMonthDay{Month: m, Day: d, TZ: unpackZone(u)}
		},
	}
}
