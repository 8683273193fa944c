// Package encoding packs literal values into the 42-bit payload of a handle.
//
// Fields are laid out from the least significant bit upwards in the order
// they are written. A Packer records failure instead of returning errors so
// that datatypes can write all their fields and check once.
package encoding

// PayloadBits is the width available to an inlined literal value.
const PayloadBits = 42

// PayloadMask selects the inlined payload.
const PayloadMask = uint64(1)<<PayloadBits - 1

// Packer accumulates bit fields into a payload.
type Packer struct {
	bits   uint64
	used   uint
	failed bool
}

// Unsigned appends v using width bits. The packer fails if v does not fit.
func (p *Packer) Unsigned(v uint64, width uint) *Packer {
	if !FitsUnsigned(v, width) {
		p.failed = true
		return p
	}
	p.put(v, width)
	return p
}

// Signed appends v in two's complement using width bits.
func (p *Packer) Signed(v int64, width uint) *Packer {
	packed, ok := PackSigned(v, width)
	if !ok {
		p.failed = true
		return p
	}
	p.put(packed, width)
	return p
}

// Bool appends a single bit.
func (p *Packer) Bool(b bool) *Packer {
	var v uint64
	if b {
		v = 1
	}
	p.put(v, 1)
	return p
}

// SignMagnitude appends v as a width-1 bit magnitude followed by a sign bit.
func (p *Packer) SignMagnitude(v int64, width uint) *Packer {
	packed, ok := PackSignMagnitude(v, width)
	if !ok {
		p.failed = true
		return p
	}
	p.put(packed, width)
	return p
}

// Timezone appends a 12-bit optional timezone offset given in minutes.
func (p *Packer) Timezone(minutes int, present bool) *Packer {
	v, ok := PackTimezone(minutes, present)
	if !ok {
		p.failed = true
		return p
	}
	p.put(v, TimezoneBits)
	return p
}

// Fail marks the packer as failed.
func (p *Packer) Fail() *Packer {
	p.failed = true
	return p
}

// Result returns the payload, or false if any field overflowed.
func (p *Packer) Result() (uint64, bool) {
	if p.failed || p.used > PayloadBits {
		return 0, false
	}
	return p.bits, true
}

func (p *Packer) put(v uint64, width uint) {
	if p.used+width > PayloadBits {
		p.failed = true
		return
	}
	p.bits |= (v & mask(width)) << p.used
	p.used += width
}

// Unpacker reads fields in the order a Packer wrote them.
type Unpacker struct {
	bits uint64
	pos  uint
}

// NewUnpacker starts reading payload from the least significant bit.
func NewUnpacker(payload uint64) *Unpacker {
	return &Unpacker{bits: payload & PayloadMask}
}

// Unsigned reads width bits.
func (u *Unpacker) Unsigned(width uint) uint64 {
	v := u.bits >> u.pos & mask(width)
	u.pos += width
	return v
}

// Signed reads width bits as a two's complement integer.
func (u *Unpacker) Signed(width uint) int64 {
	return UnpackSigned(u.Unsigned(width), width)
}

// Bool reads a single bit.
func (u *Unpacker) Bool() bool {
	return u.Unsigned(1) == 1
}

// SignMagnitude reads width bits written by Packer.SignMagnitude.
func (u *Unpacker) SignMagnitude(width uint) int64 {
	return UnpackSignMagnitude(u.Unsigned(width), width)
}

// Timezone reads a 12-bit optional timezone offset.
func (u *Unpacker) Timezone() (minutes int, present bool) {
	return UnpackTimezone(u.Unsigned(TimezoneBits))
}

// FitsUnsigned reports whether v can be stored in width bits.
func FitsUnsigned(v uint64, width uint) bool {
	return width >= 64 || v < uint64(1)<<width
}

// FitsSigned reports whether v lies in [-2^(width-1), 2^(width-1)-1].
func FitsSigned(v int64, width uint) bool {
	if width >= 64 {
		return true
	}
	limit := int64(1) << (width - 1)
	return v >= -limit && v < limit
}

// PackSigned encodes v in two's complement using width bits.
func PackSigned(v int64, width uint) (uint64, bool) {
	if !FitsSigned(v, width) {
		return 0, false
	}
	return uint64(v) & mask(width), true // #nosec G115 - intentional bit-pattern conversion
}

// UnpackSigned sign-extends a width-bit two's complement value.
func UnpackSigned(bits uint64, width uint) int64 {
	shift := 64 - width
	return int64(bits<<shift) >> shift // #nosec G115 - intentional bit-pattern conversion
}

// PackSignMagnitude encodes v as a sign bit above a width-1 bit magnitude.
func PackSignMagnitude(v int64, width uint) (uint64, bool) {
	neg := v < 0
	mag := uint64(v) // #nosec G115 - magnitude computed below
	if neg {
		mag = uint64(-(v + 1)) + 1 // #nosec G115 - v+1 cannot overflow
	}
	if !FitsUnsigned(mag, width-1) {
		return 0, false
	}
	if neg {
		return mag | 1<<(width-1), true
	}
	return mag, true
}

// UnpackSignMagnitude reverses PackSignMagnitude.
func UnpackSignMagnitude(bits uint64, width uint) int64 {
	mag := int64(bits & mask(width-1)) // #nosec G115 - masked below 2^63
	if bits>>(width-1)&1 == 1 {
		return -mag
	}
	return mag
}

func mask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<width - 1
}
