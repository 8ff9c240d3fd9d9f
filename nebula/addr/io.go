package addr

// memory map boundaries
const (
	RAMStart uint16 = 0x0000
	RAMEnd   uint16 = 0x1FFF
	// RAMMask folds the four mirrors of the 2 KiB work RAM.
	RAMMask uint16 = 0x07FF

	PPURegStart uint16 = 0x2000
	PPURegEnd   uint16 = 0x3FFF

	IORegEnd uint16 = 0x4017

	ExpansionStart uint16 = 0x4018
	ExpansionEnd   uint16 = 0x5FFF

	SRAMStart uint16 = 0x6000
	SRAMEnd   uint16 = 0x7FFF

	PRGStart uint16 = 0x8000
)

// ppu registers, mirrored every 8 bytes up to 0x3FFF
const (
	// PPUCTRL holds nametable select, increment, pattern tables, sprite size and NMI enable.
	PPUCTRL uint16 = 0x2000
	// PPUMASK enables background/sprite rendering and clipping.
	PPUMASK uint16 = 0x2001
	// PPUSTATUS (readonly) holds vblank, sprite-0 hit and sprite overflow.
	PPUSTATUS uint16 = 0x2002
	// OAMADDR sets the OAM pointer.
	OAMADDR uint16 = 0x2003
	// OAMDATA reads or writes OAM at OAMADDR.
	OAMDATA uint16 = 0x2004
	// PPUSCROLL takes two writes: X then Y.
	PPUSCROLL uint16 = 0x2005
	// PPUADDR takes two writes: high byte then low byte.
	PPUADDR uint16 = 0x2006
	// PPUDATA reads or writes VRAM at v.
	PPUDATA uint16 = 0x2007
)

// apu registers
const (
	Pulse1Ctrl  uint16 = 0x4000 // duty, loop/halt, constant volume, volume
	Pulse1Sweep uint16 = 0x4001
	Pulse1Lo    uint16 = 0x4002 // timer low
	Pulse1Hi    uint16 = 0x4003 // length index, timer high

	Pulse2Ctrl  uint16 = 0x4004
	Pulse2Sweep uint16 = 0x4005
	Pulse2Lo    uint16 = 0x4006
	Pulse2Hi    uint16 = 0x4007

	TriangleLinear uint16 = 0x4008
	TriangleLo     uint16 = 0x400A
	TriangleHi     uint16 = 0x400B

	NoiseCtrl   uint16 = 0x400C
	NoisePeriod uint16 = 0x400E
	NoiseLength uint16 = 0x400F

	DMCCtrl   uint16 = 0x4010
	DMCLoad   uint16 = 0x4011
	DMCAddr   uint16 = 0x4012
	DMCLength uint16 = 0x4013

	// APUStatus enables channels on write, reports length counters and frame IRQ on read.
	APUStatus uint16 = 0x4015
	// FrameCounter selects sequencer mode and IRQ inhibit (write only, shares 0x4017 with JOY2 reads).
	FrameCounter uint16 = 0x4017
)

// misc io
const (
	// OAMDMA copies a 256 byte CPU page into OAM.
	OAMDMA uint16 = 0x4014
	// JOY1 strobes both controllers on write and shifts controller 1 on read.
	JOY1 uint16 = 0x4016
	// JOY2 shifts controller 2 on read.
	JOY2 uint16 = 0x4017
)

// interrupt vectors
const (
	NMIVector   uint16 = 0xFFFA
	ResetVector uint16 = 0xFFFC
	IRQVector   uint16 = 0xFFFE
)

// ppu address space
const (
	PatternEnd    uint16 = 0x1FFF
	NametableBase uint16 = 0x2000
	NametableEnd  uint16 = 0x3EFF
	PaletteBase   uint16 = 0x3F00
)

// Interrupt is an enum that represents one of the possible interrupt lines.
type Interrupt uint8

const (
	// NMI is raised by the PPU when vblank starts and NMI output is enabled.
	NMI Interrupt = iota + 1
	// IRQ is raised by the APU frame sequencer (and by mappers on other boards).
	IRQ
)

func (i Interrupt) String() string {
	switch i {
	case NMI:
		return "NMI"
	case IRQ:
		return "IRQ"
	default:
		return "unknown"
	}
}
