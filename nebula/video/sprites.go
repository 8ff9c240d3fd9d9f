package video

import "github.com/nebulaemu/nebula/nebula/bit"

const (
	oamSprites     = 64
	spritesPerLine = 8
)

// Sprite is a decoded OAM entry.
type Sprite struct {
	Y         uint8 // top line minus one, as stored in OAM
	TileIndex uint8
	Flags     uint8
	X         uint8
	OAMIndex  int
}

func (s Sprite) Palette() uint8 { return s.Flags & 0x03 }
func (s Sprite) BehindBG() bool { return bit.IsSet(5, s.Flags) }
func (s Sprite) FlipX() bool    { return bit.IsSet(6, s.Flags) }
func (s Sprite) FlipY() bool    { return bit.IsSet(7, s.Flags) }

func (p *PPU) sprite(index int) Sprite {
	base := index * 4
	return Sprite{
		Y:         p.oam[base],
		TileIndex: p.oam[base+1],
		Flags:     p.oam[base+2],
		X:         p.oam[base+3],
		OAMIndex:  index,
	}
}

// evaluateSprites selects the sprites to draw on the line after line.
// The ninth match sets the overflow flag instead of being recorded.
func (p *PPU) evaluateSprites(line int) {
	p.lineSpriteCount = 0
	height := p.ctrl.spriteHeight()

	for i := range oamSprites {
		top := int(p.oam[i*4])
		if line < top || line >= top+height {
			continue
		}
		if p.lineSpriteCount == spritesPerLine {
			p.status.set(statusOverflow, true)
			break
		}
		p.lineSprites[p.lineSpriteCount] = uint8(i)
		p.lineSpriteCount++
	}
}

// spritePatternRow returns the address of the pattern row of s that lands
// on screen line y.
func (p *PPU) spritePatternRow(s Sprite, y int) uint16 {
	height := p.ctrl.spriteHeight()
	row := (y - (int(s.Y) + 1)) % height
	if s.FlipY() {
		row = height - 1 - row
	}

	if height == 8 {
		return p.ctrl.spriteTable() + uint16(s.TileIndex)*16 + uint16(row)
	}

	// 8x16: bit 0 of the tile picks the table, the bottom half is the next tile
	table := uint16(s.TileIndex&1) << 12
	tile := uint16(s.TileIndex &^ 1)
	if row >= 8 {
		tile++
		row -= 8
	}
	return table + tile*16 + uint16(row)
}

// spritePixel finds the first opaque sprite pixel at x on line y among the
// selected sprites. It returns the 5-bit palette entry (0x10-0x1F), whether
// the sprite sits behind the background, and whether it is sprite 0.
func (p *PPU) spritePixel(x, y int) (entry uint8, behind, zero, ok bool) {
	for i := 0; i < p.lineSpriteCount; i++ {
		s := p.sprite(int(p.lineSprites[i]))
		dx := x - int(s.X)
		if dx < 0 || dx >= 8 {
			continue
		}

		row := p.spritePatternRow(s, y)
		lo, hi := p.read(row), p.read(row+8)
		if s.FlipX() {
			lo, hi = bit.Reverse(lo), bit.Reverse(hi)
		}
		shift := 7 - dx
		color := (lo>>shift)&1 | (hi>>shift)&1<<1
		if color == 0 {
			continue
		}

		return 0x10 | s.Palette()<<2 | color, s.BehindBG(), s.OAMIndex == 0, true
	}
	return 0, false, false, false
}

// LineSprites returns the OAM indices selected for the current line.
func (p *PPU) LineSprites() []uint8 {
	out := make([]uint8, p.lineSpriteCount)
	copy(out, p.lineSprites[:p.lineSpriteCount])
	return out
}
