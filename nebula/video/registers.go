package video

import "github.com/nebulaemu/nebula/nebula/bit"

// Control is PPUCTRL ($2000).
//
//	7  bit  0
//	VPHB SINN
//	|||| ||++- base nametable
//	|||| |+--- VRAM increment (0: +1 across, 1: +32 down)
//	|||| +---- sprite pattern table for 8x8 sprites
//	|||+------ background pattern table
//	||+------- sprite height (0: 8, 1: 16)
//	|+-------- master/slave select, unused here
//	+--------- NMI at start of vblank
type Control uint8

func (c Control) nametable() uint16 {
	return uint16(c & 0x03)
}

func (c Control) increment() uint16 {
	if bit.IsSet(2, uint8(c)) {
		return 32
	}
	return 1
}

func (c Control) spriteTable() uint16 {
	return uint16(bit.GetBitValue(3, uint8(c))) << 12
}

func (c Control) backgroundTable() uint16 {
	return uint16(bit.GetBitValue(4, uint8(c))) << 12
}

func (c Control) spriteHeight() int {
	if bit.IsSet(5, uint8(c)) {
		return 16
	}
	return 8
}

func (c Control) nmiEnabled() bool {
	return bit.IsSet(7, uint8(c))
}

// Mask is PPUMASK ($2001).
//
//	7  bit  0
//	BGRs bMmG
//	|||| |||+- greyscale
//	|||| ||+-- background in leftmost 8 pixels
//	|||| |+--- sprites in leftmost 8 pixels
//	|||| +---- background enable
//	|||+------ sprite enable
//	+++------- color emphasis, not emulated
type Mask uint8

func (m Mask) greyscale() bool          { return bit.IsSet(0, uint8(m)) }
func (m Mask) showBackgroundLeft() bool { return bit.IsSet(1, uint8(m)) }
func (m Mask) showSpritesLeft() bool    { return bit.IsSet(2, uint8(m)) }
func (m Mask) showBackground() bool     { return bit.IsSet(3, uint8(m)) }
func (m Mask) showSprites() bool        { return bit.IsSet(4, uint8(m)) }

func (m Mask) renderingEnabled() bool {
	return m.showBackground() || m.showSprites()
}

// Status is PPUSTATUS ($2002). The low 5 bits are not driven and read back
// whatever was last written to any PPU register.
type Status uint8

const (
	statusOverflow = 5
	statusSprite0  = 6
	statusVBlank   = 7
)

func (s Status) vblank() bool     { return bit.IsSet(statusVBlank, uint8(s)) }
func (s Status) sprite0Hit() bool { return bit.IsSet(statusSprite0, uint8(s)) }
func (s Status) overflow() bool   { return bit.IsSet(statusOverflow, uint8(s)) }

func (s *Status) set(index uint8, on bool) {
	*s = Status(bit.SetTo(index, uint8(*s), on))
}

// loopy v/t layout:
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++- coarse X
//	||| || +++++------- coarse Y
//	||| ++------------- nametable select
//	+++---------------- fine Y
const (
	coarseXMask   uint16 = 0x001F
	coarseYMask   uint16 = 0x03E0
	nametableMask uint16 = 0x0C00
	fineYMask     uint16 = 0x7000

	horizontalBits        = coarseXMask | 0x0400
	addressMask    uint16 = 0x7FFF
)

func coarseX(v uint16) uint16 { return v & coarseXMask }
func coarseY(v uint16) uint16 { return (v & coarseYMask) >> 5 }
func fineY(v uint16) uint16   { return (v & fineYMask) >> 12 }

// incrementX moves v one tile right, wrapping into the horizontally
// adjacent nametable after coarse X 31.
func incrementX(v uint16) uint16 {
	if coarseX(v) == 31 {
		return (v &^ coarseXMask) ^ 0x0400
	}
	return v + 1
}

// incrementY moves v one pixel down. Coarse Y 29 is the last tile row and
// wraps into the vertically adjacent nametable; 30 and 31 (attribute rows)
// wrap to 0 without switching.
func incrementY(v uint16) uint16 {
	if v&fineYMask != fineYMask {
		return v + 0x1000
	}
	v &^= fineYMask
	y := coarseY(v)
	switch y {
	case 29:
		y = 0
		v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	return (v &^ coarseYMask) | y<<5
}
