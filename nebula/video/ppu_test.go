package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulaemu/nebula/nebula/addr"
	"github.com/nebulaemu/nebula/nebula/fault"
	"github.com/nebulaemu/nebula/nebula/memory"
)

type fakeCart struct {
	chr       [0x2000]uint8
	mirroring memory.Mirroring
}

func (c *fakeCart) ReadCHR(address uint16) uint8         { return c.chr[address] }
func (c *fakeCart) WriteCHR(address uint16, value uint8) { c.chr[address] = value }
func (c *fakeCart) Mirroring() memory.Mirroring          { return c.mirroring }

type fakeIRQ struct {
	nmis int
}

func (f *fakeIRQ) RequestInterrupt(interrupt addr.Interrupt) {
	if interrupt == addr.NMI {
		f.nmis++
	}
}

func newTestPPU(mirroring memory.Mirroring) (*PPU, *fakeCart, *fakeIRQ) {
	cart := &fakeCart{mirroring: mirroring}
	irq := &fakeIRQ{}
	return New(cart, irq), cart, irq
}

func setAddress(p *PPU, address uint16) {
	p.WriteRegister(addr.PPUADDR, uint8(address>>8))
	p.WriteRegister(addr.PPUADDR, uint8(address))
}

func stepUntil(t *testing.T, p *PPU, scanline, dot int) {
	t.Helper()
	for i := 0; i < dotsPerLine*linesPerFrame*2; i++ {
		if p.scanline == scanline && p.dot == dot {
			return
		}
		p.Step()
	}
	t.Fatalf("never reached scanline %d dot %d", scanline, dot)
}

func TestOAMRoundTrip(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorHorizontal)

	p.WriteRegister(addr.OAMADDR, 0)
	for i := range 256 {
		p.WriteRegister(addr.OAMDATA, uint8(255-i))
	}
	assert.Equal(t, uint8(0), p.GetOAMAddr(), "OAMADDR wraps after 256 writes")

	for i := range 256 {
		p.WriteRegister(addr.OAMADDR, uint8(i))
		assert.Equal(t, uint8(255-i), p.ReadRegister(addr.OAMDATA))
		assert.Equal(t, uint8(i), p.GetOAMAddr(), "reads don't increment")
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorHorizontal)

	for i := uint16(0); i < 32; i++ {
		if i >= 0x10 && i%4 == 0 {
			continue
		}
		setAddress(p, addr.PaletteBase+i)
		p.WriteRegister(addr.PPUDATA, uint8(0x20+i))
	}

	for i := uint16(0); i < 32; i++ {
		if i >= 0x10 && i%4 == 0 {
			continue
		}
		setAddress(p, addr.PaletteBase+i)
		assert.Equal(t, uint8(0x20+i), p.ReadRegister(addr.PPUDATA), "palette 0x%02X", i)
	}
}

func TestPaletteBackdropMirrors(t *testing.T) {
	tests := []struct {
		write, read uint16
	}{
		{0x3F10, 0x3F00},
		{0x3F14, 0x3F04},
		{0x3F18, 0x3F08},
		{0x3F1C, 0x3F0C},
		{0x3F00, 0x3F10},
		{0x3F04, 0x3F34}, // palette RAM repeats every 32 bytes
	}

	for _, tt := range tests {
		p, _, _ := newTestPPU(memory.MirrorHorizontal)
		setAddress(p, tt.write)
		p.WriteRegister(addr.PPUDATA, 0x2A)
		setAddress(p, tt.read)
		assert.Equal(t, uint8(0x2A), p.ReadRegister(addr.PPUDATA), "write 0x%04X read 0x%04X", tt.write, tt.read)
	}

	// 0x3F11 is not a mirror
	p, _, _ := newTestPPU(memory.MirrorHorizontal)
	setAddress(p, 0x3F11)
	p.WriteRegister(addr.PPUDATA, 0x15)
	assert.Equal(t, uint8(0x00), p.PeekPalette(0x01))
	assert.Equal(t, uint8(0x15), p.PeekPalette(0x11))
}

func TestPPUDATABufferedRead(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorVertical)

	setAddress(p, 0x2105)
	p.WriteRegister(addr.PPUDATA, 0xAB)
	p.WriteRegister(addr.PPUDATA, 0xCD)

	setAddress(p, 0x2105)
	_ = p.ReadRegister(addr.PPUDATA) // stale buffer
	assert.Equal(t, uint8(0xAB), p.ReadRegister(addr.PPUDATA))
	assert.Equal(t, uint8(0xCD), p.ReadRegister(addr.PPUDATA))
}

func TestPPUDATAPaletteReadFillsBufferFromNametable(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorVertical)

	setAddress(p, 0x2F00) // 0x3F00 - 0x1000
	p.WriteRegister(addr.PPUDATA, 0x77)
	setAddress(p, 0x3F00)
	p.WriteRegister(addr.PPUDATA, 0x0F)

	setAddress(p, 0x3F00)
	assert.Equal(t, uint8(0x0F), p.ReadRegister(addr.PPUDATA), "palette reads are immediate")

	setAddress(p, 0x2000)
	assert.Equal(t, uint8(0x77), p.ReadRegister(addr.PPUDATA), "buffer holds the byte under the palette")
}

func TestPPUDATAIncrement(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorHorizontal)

	setAddress(p, 0x2000)
	p.WriteRegister(addr.PPUDATA, 1)
	assert.Equal(t, uint16(0x2001), p.GetV())

	p.WriteRegister(addr.PPUCTRL, 0x04)
	p.WriteRegister(addr.PPUDATA, 1)
	assert.Equal(t, uint16(0x2021), p.GetV())
}

func TestStatusReadIdempotence(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorHorizontal)
	stepUntil(t, p, vblankStartLine, 2)
	p.status.set(statusSprite0, true)
	p.WriteRegister(addr.PPUADDR, 0x21) // leaves w set

	first := p.ReadRegister(addr.PPUSTATUS)
	assert.False(t, p.w)
	second := p.ReadRegister(addr.PPUSTATUS)

	assert.Equal(t, uint8(0x80), first&0x80)
	assert.Equal(t, uint8(0x00), second&0x80, "vblank is cleared by the first read")
	assert.Equal(t, first&0x7F, second&0x7F, "sprite 0 hit, overflow and open bus bits are unchanged")
	assert.Equal(t, uint8(0x40), second&0x40)
}

func TestSpriteEvaluationOverflow(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorHorizontal)
	for i := range oamSprites {
		p.oam[i*4] = 0xF0 // off screen
	}
	for i := range 9 {
		p.oam[i*4] = 10
		p.oam[i*4+3] = uint8(i * 8)
	}

	p.evaluateSprites(12)

	assert.Equal(t, []uint8{0, 1, 2, 3, 4, 5, 6, 7}, p.LineSprites())
	assert.True(t, p.status.overflow())
}

func TestSpriteEvaluationHeight(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorHorizontal)
	for i := range oamSprites {
		p.oam[i*4] = 0xF0
	}
	p.oam[0] = 20

	p.evaluateSprites(30)
	assert.Empty(t, p.LineSprites(), "8 pixel sprites end at line 27")

	p.WriteRegister(addr.PPUCTRL, 0x20)
	p.evaluateSprites(30)
	assert.Equal(t, []uint8{0}, p.LineSprites())
	assert.False(t, p.status.overflow())
}

func TestNametableMirroring(t *testing.T) {
	tests := []struct {
		name      string
		mirroring memory.Mirroring
		same      [][2]uint16
		different [][2]uint16
	}{
		{
			name:      "horizontal",
			mirroring: memory.MirrorHorizontal,
			same:      [][2]uint16{{0x2000, 0x2400}, {0x2800, 0x2C00}, {0x2010, 0x3010}},
			different: [][2]uint16{{0x2000, 0x2800}},
		},
		{
			name:      "vertical",
			mirroring: memory.MirrorVertical,
			same:      [][2]uint16{{0x2000, 0x2800}, {0x2400, 0x2C00}, {0x2C10, 0x3C10}},
			different: [][2]uint16{{0x2000, 0x2400}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newTestPPU(tt.mirroring)
			for _, pair := range tt.same {
				p.write(pair[0], 0x5A)
				assert.Equal(t, uint8(0x5A), p.read(pair[1]), "0x%04X -> 0x%04X", pair[0], pair[1])
				p.write(pair[0], 0)
			}
			for _, pair := range tt.different {
				p.write(pair[0], 0x5A)
				assert.Equal(t, uint8(0), p.read(pair[1]), "0x%04X -/> 0x%04X", pair[0], pair[1])
				p.write(pair[0], 0)
			}
		})
	}
}

func TestUnsupportedMirroringIsFatal(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorFourScreen)

	defer func() {
		fe, ok := recover().(*fault.Error)
		require.True(t, ok)
		assert.Equal(t, fault.UnsupportedMirroring, fe.Kind)
	}()
	p.read(0x2400)
}

func TestScrollRegisters(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorHorizontal)

	p.WriteRegister(addr.PPUCTRL, 0x00)
	p.WriteRegister(addr.PPUSCROLL, 0x7D)
	assert.Equal(t, uint16(0x000F), p.GetT())
	assert.Equal(t, uint8(5), p.GetFineX())

	p.WriteRegister(addr.PPUSCROLL, 0x5E)
	assert.Equal(t, uint16(0x616F), p.GetT())

	p.WriteRegister(addr.PPUADDR, 0x3D)
	assert.Equal(t, uint16(0x3D6F), p.GetT())
	p.WriteRegister(addr.PPUADDR, 0xF0)
	assert.Equal(t, uint16(0x3DF0), p.GetT())
	assert.Equal(t, uint16(0x3DF0), p.GetV())

	p.WriteRegister(addr.PPUCTRL, 0x03)
	assert.Equal(t, uint16(0x0C00), p.GetT()&nametableMask)
}

func TestIncrementWrap(t *testing.T) {
	assert.Equal(t, uint16(0x0001), incrementX(0x0000))
	assert.Equal(t, uint16(0x0400), incrementX(0x001F))
	assert.Equal(t, uint16(0x0000), incrementX(0x041F))

	assert.Equal(t, uint16(0x1000), incrementY(0x0000))
	assert.Equal(t, uint16(0x0020), incrementY(0x7000))
	assert.Equal(t, uint16(0x0800), incrementY(0x7000|29<<5), "row 29 switches nametable")
	assert.Equal(t, uint16(0x0000), incrementY(0x7000|31<<5), "row 31 wraps without switching")
}

func TestVBlankNMI(t *testing.T) {
	p, _, irq := newTestPPU(memory.MirrorHorizontal)
	p.WriteRegister(addr.PPUCTRL, 0x80)

	stepUntil(t, p, vblankStartLine, 1)
	assert.Equal(t, 0, irq.nmis)
	p.Step()
	assert.Equal(t, 1, irq.nmis)
	assert.True(t, p.status.vblank())

	stepUntil(t, p, preRenderLine, 2)
	assert.False(t, p.status.vblank())
	assert.Equal(t, 1, irq.nmis)
}

func TestNMIOnEnableDuringVBlank(t *testing.T) {
	p, _, irq := newTestPPU(memory.MirrorHorizontal)
	stepUntil(t, p, 250, 0)
	assert.Equal(t, 0, irq.nmis)

	p.WriteRegister(addr.PPUCTRL, 0x80)
	assert.Equal(t, 1, irq.nmis)

	p.WriteRegister(addr.PPUCTRL, 0x80)
	assert.Equal(t, 1, irq.nmis, "already enabled: no new edge")
}

func TestOddFrameSkip(t *testing.T) {
	p, _, _ := newTestPPU(memory.MirrorHorizontal)
	p.WriteRegister(addr.PPUMASK, 0x08)

	frameLength := func() int {
		stepUntil(t, p, 0, 0)
		n := 0
		p.Step()
		n++
		for p.scanline != 0 || p.dot != 0 {
			p.Step()
			n++
		}
		return n
	}

	stepUntil(t, p, 0, 0)
	a := frameLength()
	b := frameLength()
	assert.ElementsMatch(t, []int{89342, 89341}, []int{a, b})
}

// drawTestScene sets up a solid background tile 1 across the first nametable
// and sprite 0 at (16, 16) using tile 2, with distinct palettes.
func drawTestScene(p *PPU, cart *fakeCart) {
	for row := range 8 {
		cart.chr[1*16+row] = 0xFF   // tile 1: color 1 everywhere
		cart.chr[2*16+row+8] = 0xFF // tile 2: color 2 everywhere
	}
	for i := uint16(0); i < 960; i++ {
		p.write(0x2000+i, 1)
	}
	p.write(0x3F00, 0x0F)
	p.write(0x3F01, 0x21)
	p.write(0x3F12, 0x16)

	for i := range oamSprites {
		p.oam[i*4] = 0xF0
	}
	p.oam[0] = 15 // drawn from line 16
	p.oam[1] = 2
	p.oam[2] = 0
	p.oam[3] = 16
}

func TestRenderFrame(t *testing.T) {
	p, cart, _ := newTestPPU(memory.MirrorHorizontal)
	drawTestScene(p, cart)
	p.WriteRegister(addr.PPUMASK, 0x1E)

	// one frame to load scroll into v, another to render cleanly
	stepUntil(t, p, postRenderLine, 2)
	require.True(t, p.ConsumeFrame())
	stepUntil(t, p, postRenderLine, 2)
	require.True(t, p.ConsumeFrame())
	assert.False(t, p.ConsumeFrame())

	frame := p.GetCurrentFrame()
	assert.Equal(t, uint8(0x21), frame.GetIndex(0, 0))
	assert.Equal(t, SystemPalette[0x21], frame.GetPixel(0, 0))
	assert.Equal(t, uint8(0x16), frame.GetIndex(16, 16), "sprite in front")
	assert.Equal(t, uint8(0x16), frame.GetIndex(23, 23))
	assert.Equal(t, uint8(0x21), frame.GetIndex(24, 16))
	assert.Equal(t, uint8(0x21), frame.GetIndex(16, 15), "sprite starts one line below its Y")
	assert.True(t, p.status.sprite0Hit())
	assert.Equal(t, uint64(2), p.FrameCount())
}

func TestSpriteBehindBackground(t *testing.T) {
	p, cart, _ := newTestPPU(memory.MirrorHorizontal)
	drawTestScene(p, cart)
	p.oam[2] = 0x20
	p.WriteRegister(addr.PPUMASK, 0x1E)

	stepUntil(t, p, postRenderLine, 2)
	stepUntil(t, p, postRenderLine, 2)

	assert.Equal(t, uint8(0x21), p.GetCurrentFrame().GetIndex(16, 16))
	assert.True(t, p.status.sprite0Hit(), "hit is reported even when the sprite is hidden")
}

func TestNoSprite0HitOnTransparentBackground(t *testing.T) {
	p, cart, _ := newTestPPU(memory.MirrorHorizontal)
	drawTestScene(p, cart)
	p.WriteRegister(addr.PPUMASK, 0x14) // sprites only

	stepUntil(t, p, postRenderLine, 2)
	stepUntil(t, p, postRenderLine, 2)

	assert.Equal(t, uint8(0x16), p.GetCurrentFrame().GetIndex(16, 16))
	assert.Equal(t, uint8(0x0F), p.GetCurrentFrame().GetIndex(0, 0), "backdrop")
	assert.False(t, p.status.sprite0Hit())
}
