package encoding

// TimezoneBits is the width of an optional timezone offset field:
// one presence bit followed by 11 bits of offset in minutes.
const TimezoneBits = 12

// MaxTimezoneMinutes is the largest allowed offset from UTC (14:00).
const MaxTimezoneMinutes = 14 * 60

// PackTimezone encodes an optional offset in minutes.
func PackTimezone(minutes int, present bool) (uint64, bool) {
	if !present {
		return 0, true
	}
	if minutes < -MaxTimezoneMinutes || minutes > MaxTimezoneMinutes {
		return 0, false
	}
	return 1 | uint64(minutes+MaxTimezoneMinutes)<<1, true // #nosec G115 - non-negative after shift
}

// UnpackTimezone reverses PackTimezone.
func UnpackTimezone(bits uint64) (minutes int, present bool) {
	if bits&1 == 0 {
		return 0, false
	}
	return int(bits>>1&mask(TimezoneBits-1)) - MaxTimezoneMinutes, true // #nosec G115 - 11-bit value
}

// QuarterTimezoneBits is the width of an optional offset stored in
// 15-minute units: one presence bit followed by 7 bits.
const QuarterTimezoneBits = 8

// PackQuarterTimezone encodes an optional offset that is a whole number of
// quarter hours. It fails for any other offset.
func PackQuarterTimezone(minutes int, present bool) (uint64, bool) {
	if !present {
		return 0, true
	}
	if minutes%15 != 0 || minutes < -MaxTimezoneMinutes || minutes > MaxTimezoneMinutes {
		return 0, false
	}
	return 1 | uint64(minutes/15+MaxTimezoneMinutes/15)<<1, true // #nosec G115 - non-negative after shift
}

// UnpackQuarterTimezone reverses PackQuarterTimezone.
func UnpackQuarterTimezone(bits uint64) (minutes int, present bool) {
	if bits&1 == 0 {
		return 0, false
	}
	return (int(bits>>1&mask(QuarterTimezoneBits-1)) - MaxTimezoneMinutes/15) * 15, true // #nosec G115 - 7-bit value
}
