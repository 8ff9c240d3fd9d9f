package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// IsSet reports whether bit index of b is 1.
func IsSet(index, b uint8) bool {
	return b>>index&1 == 1
}

// Set will return the passed byte with the bit at the specified index Set to 1.
func Set(index, byte uint8) uint8 {
	return byte | (1 << index)
}

// Clear will return the passed byte with the bit at the specified index Set to 0.
func Clear(index, byte uint8) uint8 {
	return byte & ^(1 << index)
}

// SetTo sets or clears the bit at index depending on on.
func SetTo(index, byte uint8, on bool) uint8 {
	if on {
		return Set(index, byte)
	}
	return Clear(index, byte)
}

// GetBitValue returns a byte set to the value of the bit at the specified index.
func GetBitValue(index, byte uint8) uint8 {
	return (byte >> index) & 1
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// SamePage reports whether two addresses share the same 256 byte page.
func SamePage(a, b uint16) bool {
	return a&0xFF00 == b&0xFF00
}

// Reverse mirrors the bit order of a byte, used for horizontally flipped sprites.
func Reverse(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
