package video

import (
	"github.com/nebulaemu/nebula/nebula/addr"
	"github.com/nebulaemu/nebula/nebula/fault"
	"github.com/nebulaemu/nebula/nebula/memory"
)

const (
	nametableSize = 0x400
	ppuAddrMask   = 0x3FFF
)

// nametableOffset maps 0x2000-0x3EFF onto the 2 KiB of internal VRAM
// according to the cartridge wiring. 0x3000-0x3EFF mirrors 0x2000-0x2EFF.
func (p *PPU) nametableOffset(address uint16) uint16 {
	relative := (address - addr.NametableBase) & 0x0FFF
	table := relative / nametableSize
	offset := relative % nametableSize

	switch mirroring := p.cart.Mirroring(); mirroring {
	case memory.MirrorHorizontal:
		// $2000=$2400 (A), $2800=$2C00 (B)
		return (table>>1)*nametableSize + offset
	case memory.MirrorVertical:
		// $2000=$2800 (A), $2400=$2C00 (B)
		return (table&1)*nametableSize + offset
	default:
		panic(fault.New(fault.UnsupportedMirroring, address, "%s", mirroring))
	}
}

// read performs a PPU bus read without side effects.
func (p *PPU) read(address uint16) uint8 {
	address &= ppuAddrMask
	switch {
	case address <= addr.PatternEnd:
		return p.cart.ReadCHR(address)
	case address < addr.PaletteBase:
		return p.nametables[p.nametableOffset(address)]
	default:
		return p.palette[paletteIndex(address)]
	}
}

func (p *PPU) write(address uint16, value uint8) {
	address &= ppuAddrMask
	switch {
	case address <= addr.PatternEnd:
		p.cart.WriteCHR(address, value)
	case address < addr.PaletteBase:
		p.nametables[p.nametableOffset(address)] = value
	default:
		p.palette[paletteIndex(address)] = value
	}
}
