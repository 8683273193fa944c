package datatypes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aleksaelezovic/rdfcore/internal/encoding"
)

// Timezone is an optional offset from UTC in minutes.
type Timezone struct {
	Offset int16
	Set    bool
}

// UTC is the zero offset.
var UTC = Timezone{Set: true}

// NewTimezone returns the offset h:m east of UTC. A negative hour (or a
// negative minute with zero hour) gives an offset west of UTC.
func NewTimezone(hours, minutes int) Timezone {
	if hours < 0 {
		minutes = -minutes
	}
	return Timezone{Offset: int16(hours*60 + minutes), Set: true} // #nosec G115 - |offset| <= 14:00
}

// String renders "", "Z" or a signed "hh:mm" offset.
func (tz Timezone) String() string {
	switch {
	case !tz.Set:
		return ""
	case tz.Offset == 0:
		return "Z"
	}
	sign, off := '+', int(tz.Offset)
	if off < 0 {
		sign, off = '-', -off
	}
	return fmt.Sprintf("%c%02d:%02d", sign, off/60, off%60)
}

// Date is the value of xsd:date.
type Date struct {
	Year  int
	Month int
	Day   int
	TZ    Timezone
}

func (d Date) String() string {
	return formatYear(d.Year) + fmt.Sprintf("-%02d-%02d", d.Month, d.Day) + d.TZ.String()
}

func (d Date) zone() Timezone { return d.TZ }

func (d Date) moment() moment {
	return moment{secs: daysFromCivil(d.Year, d.Month, d.Day) * secondsPerDay, tz: d.TZ}
}

// Time is the value of xsd:time. 24:00:00 is normalized to 00:00:00.
type Time struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	TZ         Timezone
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second) + formatFraction(t.Nanosecond) + t.TZ.String()
}

func (t Time) zone() Timezone { return t.TZ }

func (t Time) moment() moment {
	return moment{
		secs:  daysFromCivil(referenceYear, 12, 31)*secondsPerDay + clockSeconds(t.Hour, t.Minute, t.Second),
		nanos: t.Nanosecond,
		tz:    t.TZ,
	}
}

// DateTime is the value of xsd:dateTime and xsd:dateTimeStamp.
type DateTime struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	TZ         Timezone
}

func (d DateTime) String() string {
	return formatYear(d.Year) + fmt.Sprintf("-%02d-%02dT%02d:%02d:%02d", d.Month, d.Day, d.Hour, d.Minute, d.Second) +
		formatFraction(d.Nanosecond) + d.TZ.String()
}

func (d DateTime) zone() Timezone { return d.TZ }

func (d DateTime) moment() moment {
	return moment{secs: d.localSeconds(), nanos: d.Nanosecond, tz: d.TZ}
}

// localSeconds counts seconds since 1970-01-01T00:00:00 on the local timeline.
func (d DateTime) localSeconds() int64 {
	return daysFromCivil(d.Year, d.Month, d.Day)*secondsPerDay + clockSeconds(d.Hour, d.Minute, d.Second)
}

func dateTimeFromLocalSeconds(secs int64, tz Timezone) DateTime {
	days := floorDiv(secs, secondsPerDay)
	rem := secs - days*secondsPerDay
	y, m, d := civilFromDays(days)
	return DateTime{
		Year: y, Month: m, Day: d,
		Hour: int(rem / 3600), Minute: int(rem % 3600 / 60), Second: int(rem % 60),
		TZ: tz,
	}
}

// GYear is the value of xsd:gYear.
type GYear struct {
	Year int
	TZ   Timezone
}

func (g GYear) String() string { return formatYear(g.Year) + g.TZ.String() }
func (g GYear) zone() Timezone { return g.TZ }
func (g GYear) moment() moment { return dateMoment(g.Year, 1, 1, g.TZ) }

// GMonth is the value of xsd:gMonth.
type GMonth struct {
	Month int
	TZ    Timezone
}

func (g GMonth) String() string { return fmt.Sprintf("--%02d", g.Month) + g.TZ.String() }
func (g GMonth) zone() Timezone { return g.TZ }
func (g GMonth) moment() moment { return dateMoment(referenceYear, g.Month, 1, g.TZ) }

// GDay is the value of xsd:gDay.
type GDay struct {
	Day int
	TZ  Timezone
}

func (g GDay) String() string { return fmt.Sprintf("---%02d", g.Day) + g.TZ.String() }
func (g GDay) zone() Timezone { return g.TZ }
func (g GDay) moment() moment { return dateMoment(referenceYear, 12, g.Day, g.TZ) }

// GYearMonth is the value of xsd:gYearMonth.
type GYearMonth struct {
	Year  int
	Month int
	TZ    Timezone
}

func (g GYearMonth) String() string {
	return formatYear(g.Year) + fmt.Sprintf("-%02d", g.Month) + g.TZ.String()
}
func (g GYearMonth) zone() Timezone { return g.TZ }
func (g GYearMonth) moment() moment { return dateMoment(g.Year, g.Month, 1, g.TZ) }

// GMonthDay is the value of xsd:gMonthDay.
type GMonthDay struct {
	Month int
	Day   int
	TZ    Timezone
}

func (g GMonthDay) String() string { return fmt.Sprintf("--%02d-%02d", g.Month, g.Day) + g.TZ.String() }
func (g GMonthDay) zone() Timezone { return g.TZ }
func (g GMonthDay) moment() moment { return dateMoment(referenceYear, g.Month, g.Day, g.TZ) }

const (
	secondsPerDay = 86400
	// referenceYear is a leap year used to place partial dates on the timeline.
	referenceYear = 1972
	// timezoneSlack is the widest offset an unzoned value may carry.
	timezoneSlack = encoding.MaxTimezoneMinutes * 60
	maxYearDigits = 9
)

// moment places a calendar value on the local timeline.
type moment struct {
	secs  int64
	nanos int
	tz    Timezone
}

func dateMoment(y, m, d int, tz Timezone) moment {
	return moment{secs: daysFromCivil(y, m, d) * secondsPerDay, tz: tz}
}

func (m moment) utc() int64 {
	return m.secs - int64(m.tz.Offset)*60
}

// compareMoments orders two moments. A zoned and an unzoned moment are
// ordered only if they differ by more than 14 hours.
func compareMoments(a, b moment) Ordering {
	if a.tz.Set == b.tz.Set {
		return orderingOf(cmpInstant(a.utc(), a.nanos, b.utc(), b.nanos))
	}
	if !a.tz.Set {
		return reverseOrdering(compareMoments(b, a))
	}
	if cmpInstant(a.utc(), a.nanos, b.secs-timezoneSlack, b.nanos) < 0 {
		return Less
	}
	if cmpInstant(a.utc(), a.nanos, b.secs+timezoneSlack, b.nanos) > 0 {
		return Greater
	}
	return Incomparable
}

func cmpInstant(as int64, an int, bs int64, bn int) int {
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

func reverseOrdering(o Ordering) Ordering {
	switch o {
	case Less:
		return Greater
	case Greater:
		return Less
	default:
		return o
	}
}

func clockSeconds(h, m, s int) int64 {
	return int64(h)*3600 + int64(m)*60 + int64(s)
}

// daysFromCivil returns the number of days from 1970-01-01 to y-m-d in the
// proleptic Gregorian calendar. Year 0 is 1 BCE.
func daysFromCivil(y, m, d int) int64 {
	yy := int64(y)
	if m <= 2 {
		yy--
	}
	era := floorDiv(yy, 400)
	yoe := yy - era*400
	mp := (int64(m) + 9) % 12
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(z int64) (y, m, d int) {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = int(doy - (153*mp+2)/5 + 1)
	if mp < 10 {
		m = int(mp + 3)
	} else {
		m = int(mp - 9)
	}
	y = int(yoe + era*400)
	if m <= 2 {
		y++
	}
	return y, m, d
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func daysIn(y, m int) int {
	switch m {
	case 2:
		if isLeapYear(y) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func formatYear(y int) string {
	if y < 0 {
		return fmt.Sprintf("-%04d", -y)
	}
	return fmt.Sprintf("%04d", y)
}

func formatFraction(ns int) string {
	if ns == 0 {
		return ""
	}
	return "." + strings.TrimRight(fmt.Sprintf("%09d", ns), "0")
}

// fieldCheck validates calendar fields. In lenient mode out-of-range fields
// are clamped instead of reported.
type fieldCheck struct {
	lenient bool
	bad     string
}

func (f *fieldCheck) clamp(name string, v *int, lo, hi int) {
	if *v >= lo && *v <= hi {
		return
	}
	if !f.lenient {
		if f.bad == "" {
			f.bad = fmt.Sprintf("%s %d outside %d..%d", name, *v, lo, hi)
		}
		return
	}
	*v = min(max(*v, lo), hi)
}

func (f *fieldCheck) date(y int, m, d *int) {
	f.clamp("month", m, 1, 12)
	f.clamp("day", d, 1, daysIn(y, *m))
}

// clock validates a time of day and reports whether it was 24:00:00,
// which is rewritten to 00:00:00.
func (f *fieldCheck) clock(h, m, s *int, ns int) bool {
	if *h == 24 && *m == 0 && *s == 0 && ns == 0 {
		*h = 0
		return true
	}
	f.clamp("hour", h, 0, 23)
	f.clamp("minute", m, 0, 59)
	f.clamp("second", s, 0, 59)
	return false
}

// calScanner reads the fields of a calendar lexical form left to right.
type calScanner struct {
	s      string
	pos    int
	failed bool
}

func (c *calScanner) peek(b byte) bool {
	return !c.failed && c.pos < len(c.s) && c.s[c.pos] == b
}

func (c *calScanner) lit(str string) {
	if c.failed || !strings.HasPrefix(c.s[c.pos:], str) {
		c.failed = true
		return
	}
	c.pos += len(str)
}

// digits reads exactly n decimal digits.
func (c *calScanner) digits(n int) int {
	if c.failed || c.pos+n > len(c.s) {
		c.failed = true
		return 0
	}
	v := 0
	for i := 0; i < n; i++ {
		ch := c.s[c.pos+i]
		if ch < '0' || ch > '9' {
			c.failed = true
			return 0
		}
		v = v*10 + int(ch-'0')
	}
	c.pos += n
	return v
}

// year reads an optionally negative year of at least four digits.
func (c *calScanner) year() int {
	neg := c.peek('-')
	if neg {
		c.pos++
	}
	start := c.pos
	for c.pos < len(c.s) && c.s[c.pos] >= '0' && c.s[c.pos] <= '9' {
		c.pos++
	}
	d := c.s[start:c.pos]
	if c.failed || len(d) < 4 || len(d) > maxYearDigits || (len(d) > 4 && d[0] == '0') {
		c.failed = true
		return 0
	}
	y, _ := strconv.Atoi(d)
	if neg {
		return -y
	}
	return y
}

// fraction reads optional fractional seconds as nanoseconds. Digits past
// nanosecond precision are truncated.
func (c *calScanner) fraction() int {
	if !c.peek('.') {
		return 0
	}
	c.pos++
	start := c.pos
	for c.pos < len(c.s) && c.s[c.pos] >= '0' && c.s[c.pos] <= '9' {
		c.pos++
	}
	d := c.s[start:c.pos]
	if d == "" {
		c.failed = true
		return 0
	}
	if len(d) > 9 {
		d = d[:9]
	}
	ns, _ := strconv.Atoi(d + strings.Repeat("0", 9-len(d)))
	return ns
}

// timezone reads an optional "Z" or "±hh:mm" suffix.
func (c *calScanner) timezone(f *fieldCheck) Timezone {
	if c.peek('Z') {
		c.pos++
		return UTC
	}
	if !c.peek('+') && !c.peek('-') {
		return Timezone{}
	}
	neg := c.s[c.pos] == '-'
	c.pos++
	h := c.digits(2)
	c.lit(":")
	m := c.digits(2)
	f.clamp("timezone hour", &h, 0, 14)
	f.clamp("timezone minute", &m, 0, 59)
	if h == 14 {
		f.clamp("timezone minute", &m, 0, 0)
	}
	off := h*60 + m
	if neg {
		off = -off
	}
	return Timezone{Offset: int16(off), Set: true} // #nosec G115 - |off| <= 14:00 after checks
}

func (c *calScanner) done() bool {
	return !c.failed && c.pos == len(c.s)
}

func packZone(p *encoding.Packer, tz Timezone) *encoding.Packer {
	return p.Timezone(int(tz.Offset), tz.Set)
}

func unpackZone(u *encoding.Unpacker) Timezone {
	off, ok := u.Timezone()
	return Timezone{Offset: int16(off), Set: ok} // #nosec G115 - 11-bit value
}
