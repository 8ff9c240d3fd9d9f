package video

import (
	"fmt"
	"log/slog"

	"github.com/nebulaemu/nebula/nebula/addr"
	"github.com/nebulaemu/nebula/nebula/memory"
)

const (
	dotsPerLine     = 341
	linesPerFrame   = 262
	visibleLines    = 240
	postRenderLine  = 240
	vblankStartLine = 241
	preRenderLine   = 261
)

// Cartridge is the PPU's view of the mapper: pattern tables and wiring.
type Cartridge interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	Mirroring() memory.Mirroring
}

// InterruptLine receives the NMI raised at the start of vblank.
type InterruptLine interface {
	RequestInterrupt(interrupt addr.Interrupt)
}

// PPU is the 2C02 picture processing unit. Step advances one dot; one frame
// is 262 lines of 341 dots, with the odd-frame skip on the pre-render line.
type PPU struct {
	cart Cartridge
	irq  InterruptLine

	ctrl   Control
	mask   Mask
	status Status
	// latch holds the last value written to any register (PPU open bus)
	latch uint8

	// loopy registers
	v uint16
	t uint16
	x uint8
	w bool

	oamAddr    uint8
	readBuffer uint8

	nametables [2048]uint8
	palette    [32]uint8
	oam        [256]uint8

	lineSprites     [spritesPerLine]uint8
	lineSpriteCount int

	scanline int
	dot      int
	oddFrame bool

	back       *FrameBuffer
	front      *FrameBuffer
	frameReady bool
	frameCount uint64
}

// New creates a PPU reading pattern data from cart and signalling NMI on irq.
func New(cart Cartridge, irq InterruptLine) *PPU {
	p := &PPU{
		cart:  cart,
		irq:   irq,
		back:  NewFrameBuffer(),
		front: NewFrameBuffer(),
	}
	p.Reset()
	return p
}

// Reset puts the PPU at the start of the pre-render line with rendering off.
// VRAM, palette and OAM contents are kept.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.latch = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.oamAddr = 0
	p.readBuffer = 0
	p.lineSpriteCount = 0
	p.scanline = preRenderLine
	p.dot = 0
	p.oddFrame = false
	p.frameReady = false
}

// Step advances the PPU by one dot.
func (p *PPU) Step() {
	switch {
	case p.scanline < visibleLines:
		p.visibleDot()
	case p.scanline == postRenderLine:
		if p.dot == 1 {
			p.publishFrame()
		}
	case p.scanline < preRenderLine:
		if p.scanline == vblankStartLine && p.dot == 1 {
			p.status.set(statusVBlank, true)
			if p.ctrl.nmiEnabled() {
				p.irq.RequestInterrupt(addr.NMI)
			}
		}
	default:
		p.preRenderDot()
	}

	p.dot++
	if p.dot == dotsPerLine {
		p.dot = 0
		p.scanline++
		if p.scanline == linesPerFrame {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *PPU) visibleDot() {
	if p.dot >= 1 && p.dot <= 256 {
		p.renderPixel(p.dot-1, p.scanline)
	}

	rendering := p.mask.renderingEnabled()
	switch p.dot {
	case 256:
		if rendering {
			p.v = incrementY(p.v)
		}
	case 257:
		if rendering {
			p.v = (p.v &^ horizontalBits) | (p.t & horizontalBits)
		}
	case 340:
		if rendering {
			p.evaluateSprites(p.scanline)
		}
	}
}

func (p *PPU) preRenderDot() {
	rendering := p.mask.renderingEnabled()
	switch {
	case p.dot == 1:
		p.status.set(statusVBlank, false)
		p.status.set(statusSprite0, false)
		p.status.set(statusOverflow, false)
		// no sprites on line 0: sprite data lags one line behind evaluation
		p.lineSpriteCount = 0
	case p.dot == 257 && rendering:
		p.v = (p.v &^ horizontalBits) | (p.t & horizontalBits)
	case p.dot >= 280 && p.dot <= 304 && rendering:
		p.v = (p.v & horizontalBits) | (p.t &^ horizontalBits)
	case p.dot == 339 && rendering && p.oddFrame:
		p.dot++
	}
}

// renderPixel computes the pixel at (x, y) from the background at v and the
// sprites selected for this line.
func (p *PPU) renderPixel(x, y int) {
	var entry uint8
	bgOpaque := false

	if p.mask.showBackground() {
		fine := (int(p.x) + x) % 8
		if p.mask.showBackgroundLeft() || x >= 8 {
			entry = p.backgroundPixel(fine)
			bgOpaque = entry&0x03 != 0
		}
		if fine == 7 {
			p.v = incrementX(p.v)
		}
	}

	if p.mask.showSprites() && (p.mask.showSpritesLeft() || x >= 8) {
		if spr, behind, zero, ok := p.spritePixel(x, y); ok {
			if !behind || !bgOpaque {
				entry = spr
			}
			if zero && bgOpaque && x != 255 {
				p.status.set(statusSprite0, true)
			}
		}
	}

	color := p.read(addr.PaletteBase + uint16(entry))
	if p.mask.greyscale() {
		color &= 0x30
	}
	p.back.SetPixel(uint(x), uint(y), color)
}

// backgroundPixel returns the 4-bit background palette entry under v at
// the given fine X. Transparent pixels return 0 so they show the backdrop.
func (p *PPU) backgroundPixel(fine int) uint8 {
	tile := uint16(p.read(addr.NametableBase | (p.v & 0x0FFF)))
	row := p.ctrl.backgroundTable() + tile*16 + fineY(p.v)

	shift := 7 - fine
	low := (p.read(row) >> shift) & 1
	high := (p.read(row+8) >> shift) & 1
	entry := low | high<<1
	if entry == 0 {
		return 0
	}

	attrAddr := 0x23C0 | (p.v & nametableMask) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
	attribute := p.read(attrAddr)
	// each attribute byte covers 4x4 tiles as four 2x2 quadrants
	quadrant := ((p.v >> 4) & 0x04) | (p.v & 0x02)
	return entry | ((attribute>>quadrant)&0x03)<<2
}

func (p *PPU) publishFrame() {
	p.front.CopyFrom(p.back)
	p.frameReady = true
	p.frameCount++
	slog.Debug("Frame published", "frame", p.frameCount)
}

// ReadRegister implements the CPU side of $2000-$2007.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case addr.PPUSTATUS:
		value := uint8(p.status)&0xE0 | p.latch&0x1F
		p.status.set(statusVBlank, false)
		p.w = false
		p.latch = value
		return value
	case addr.OAMDATA:
		p.latch = p.oam[p.oamAddr]
		return p.latch
	case addr.PPUDATA:
		p.latch = p.readData()
		return p.latch
	default:
		slog.Warn("Read from write-only PPU register", "addr", fmt.Sprintf("0x%04X", address))
		return p.latch
	}
}

// WriteRegister implements the CPU side of $2000-$2007.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	p.latch = value
	switch address {
	case addr.PPUCTRL:
		wasEnabled := p.ctrl.nmiEnabled()
		p.ctrl = Control(value)
		p.t = (p.t &^ nametableMask) | p.ctrl.nametable()<<10
		// enabling NMI during vblank fires it immediately
		if !wasEnabled && p.ctrl.nmiEnabled() && p.status.vblank() {
			p.irq.RequestInterrupt(addr.NMI)
		}
	case addr.PPUMASK:
		p.mask = Mask(value)
	case addr.PPUSTATUS:
		slog.Debug("Write to read-only PPUSTATUS ignored", "value", fmt.Sprintf("0x%02X", value))
	case addr.OAMADDR:
		p.oamAddr = value
	case addr.OAMDATA:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case addr.PPUSCROLL:
		if !p.w {
			p.t = (p.t &^ coarseXMask) | uint16(value>>3)
			p.x = value & 0x07
		} else {
			p.t = (p.t &^ (fineYMask | coarseYMask)) | uint16(value&0x07)<<12 | uint16(value&0xF8)<<2
		}
		p.w = !p.w
	case addr.PPUADDR:
		if !p.w {
			p.t = (p.t & 0x00FF) | uint16(value&0x3F)<<8
		} else {
			p.t = (p.t & 0xFF00) | uint16(value)
			p.v = p.t
		}
		p.w = !p.w
	case addr.PPUDATA:
		p.write(p.v, value)
		p.v = (p.v + p.ctrl.increment()) & addressMask
	}
}

// readData returns the buffered PPUDATA value. Palette reads bypass the
// buffer, which is filled with the nametable byte underneath instead.
func (p *PPU) readData() uint8 {
	address := p.v & ppuAddrMask
	var value uint8
	if address < addr.PaletteBase {
		value = p.readBuffer
		p.readBuffer = p.read(address)
	} else {
		value = p.read(address)
		p.readBuffer = p.read(address - 0x1000)
	}
	p.v = (p.v + p.ctrl.increment()) & addressMask
	return value
}

// GetCurrentFrame returns the last completed frame.
func (p *PPU) GetCurrentFrame() *FrameBuffer {
	return p.front
}

// ConsumeFrame reports whether a frame was published since the last call.
func (p *PPU) ConsumeFrame() bool {
	ready := p.frameReady
	p.frameReady = false
	return ready
}

// Debug getter methods
func (p *PPU) Scanline() int      { return p.scanline }
func (p *PPU) Dot() int           { return p.dot }
func (p *PPU) FrameCount() uint64 { return p.frameCount }
func (p *PPU) GetCtrl() uint8     { return uint8(p.ctrl) }
func (p *PPU) GetMask() uint8     { return uint8(p.mask) }
func (p *PPU) GetStatus() uint8   { return uint8(p.status) }
func (p *PPU) GetV() uint16       { return p.v }
func (p *PPU) GetT() uint16       { return p.t }
func (p *PPU) GetFineX() uint8    { return p.x }
func (p *PPU) GetOAMAddr() uint8  { return p.oamAddr }

// OAM returns a copy of sprite memory.
func (p *PPU) OAM() [256]uint8 {
	return p.oam
}

// PeekPalette reads palette RAM at index (0-31) honoring the backdrop mirrors.
func (p *PPU) PeekPalette(index uint8) uint8 {
	return p.palette[paletteIndex(uint16(index))]
}
