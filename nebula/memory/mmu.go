package memory

import (
	"fmt"
	"log/slog"

	"github.com/nebulaemu/nebula/nebula/addr"
	"github.com/nebulaemu/nebula/nebula/fault"
)

// RegisterDevice is a memory mapped chip (PPU or APU) reached through a
// small window of registers.
type RegisterDevice interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// DMAStaller is the CPU as seen by OAM DMA: the transfer suspends it for
// 513 or 514 cycles depending on cycle parity.
type DMAStaller interface {
	Stall(cycles int)
	Cycles() uint64
}

const (
	oamDMACycles = 513
	oamSize      = 256
)

type memRegion uint8

const (
	regionRAM memRegion = iota
	regionPPU
	regionIO
	regionExpansion
	regionSRAM
	regionPRG
)

// MMU routes CPU reads and writes across the NES address space. It owns
// the 2 KiB work RAM and the controllers; everything else is reached through
// the mapper or a RegisterDevice.
type MMU struct {
	ram       [0x800]byte
	mapper    *Mapper
	regionMap [256]memRegion

	PPU     RegisterDevice
	APU     RegisterDevice
	Joypads [2]*Joypad

	cpu     DMAStaller
	openBus uint8
}

// New creates a bus over the given mapper. PPU, APU and CPU are attached
// afterwards with Attach, since they are built on top of the bus.
func New(mapper *Mapper) *MMU {
	mmu := &MMU{
		mapper:  mapper,
		Joypads: [2]*Joypad{NewJoypad(), NewJoypad()},
	}
	initRegionMap(mmu)
	return mmu
}

// NewWithCartridge creates a bus for the cartridge, choosing its mapper.
func NewWithCartridge(cart *Cartridge) (*MMU, error) {
	mapper, err := NewMapper(cart)
	if err != nil {
		return nil, err
	}
	return New(mapper), nil
}

// Attach connects the chips the bus forwards to.
func (m *MMU) Attach(ppu, apu RegisterDevice, cpu DMAStaller) {
	m.PPU = ppu
	m.APU = apu
	m.cpu = cpu
}

// Mapper returns the cartridge mapper, shared with the PPU.
func (m *MMU) Mapper() *Mapper {
	return m.mapper
}

func initRegionMap(m *MMU) {
	for i := 0x00; i <= 0x1F; i++ {
		m.regionMap[i] = regionRAM
	}
	for i := 0x20; i <= 0x3F; i++ {
		m.regionMap[i] = regionPPU
	}
	m.regionMap[0x40] = regionIO
	for i := 0x41; i <= 0x5F; i++ {
		m.regionMap[i] = regionExpansion
	}
	for i := 0x60; i <= 0x7F; i++ {
		m.regionMap[i] = regionSRAM
	}
	for i := 0x80; i <= 0xFF; i++ {
		m.regionMap[i] = regionPRG
	}
}

func (m *MMU) Read(address uint16) byte {
	var value byte
	switch m.regionMap[address>>8] {
	case regionRAM:
		value = m.ram[address&addr.RAMMask]
	case regionPPU:
		value = m.PPU.ReadRegister(addr.PPUCTRL | address&0x7)
	case regionIO:
		value = m.readIO(address)
	case regionExpansion:
		panic(fault.New(fault.UnmappedAccess, address, "read from expansion area"))
	case regionSRAM:
		value = m.mapper.ReadSRAM(address)
	case regionPRG:
		value = m.mapper.ReadPRG(address)
	default:
		panic(fmt.Sprintf("Attempted read at unmapped address: 0x%X", address))
	}
	m.openBus = value
	return value
}

func (m *MMU) Write(address uint16, value byte) {
	m.openBus = value
	switch m.regionMap[address>>8] {
	case regionRAM:
		m.ram[address&addr.RAMMask] = value
	case regionPPU:
		m.PPU.WriteRegister(addr.PPUCTRL|address&0x7, value)
	case regionIO:
		m.writeIO(address, value)
	case regionExpansion:
		panic(&fault.Error{Kind: fault.UnmappedAccess, Addr: address, Value: value, Msg: "write to expansion area"})
	case regionSRAM:
		m.mapper.WriteSRAM(address, value)
	case regionPRG:
		m.mapper.WritePRG(address, value)
	default:
		panic(fmt.Sprintf("Attempted write at unmapped address: 0x%X", address))
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.APUStatus:
		return m.APU.ReadRegister(address)
	case address == addr.JOY1:
		return m.Joypads[0].Read()
	case address == addr.JOY2:
		return m.Joypads[1].Read()
	case address <= addr.IORegEnd:
		// write-only APU registers and the DMA port
		slog.Debug("Read from write-only register", "addr", fmt.Sprintf("0x%04X", address))
		return m.openBus
	default:
		panic(fault.New(fault.UnmappedAccess, address, "read from disabled test registers"))
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.OAMDMA:
		m.oamDMA(value)
	case address == addr.JOY1:
		m.Joypads[0].Write(value)
		m.Joypads[1].Write(value)
	case address <= addr.IORegEnd:
		// 0x4000-0x4013, 0x4015 and 0x4017 (frame counter)
		m.APU.WriteRegister(address, value)
	default:
		panic(&fault.Error{Kind: fault.UnmappedAccess, Addr: address, Value: value, Msg: "write to disabled test registers"})
	}
}

// oamDMA copies page value<<8 into OAM through OAMDATA, so the copy starts at
// the current OAMADDR and wraps, then suspends the CPU.
func (m *MMU) oamDMA(page uint8) {
	src := uint16(page) << 8
	for i := range uint16(oamSize) {
		m.PPU.WriteRegister(addr.OAMDATA, m.dmaRead(src+i))
	}

	if m.cpu == nil {
		return
	}
	stall := oamDMACycles
	if m.cpu.Cycles()%2 == 1 {
		stall++
	}
	m.cpu.Stall(stall)
}

// dmaRead fetches one DMA source byte. The DMA unit does not drive the
// APU, controller or test ports, so page $40 reads as open bus and leaves
// the frame IRQ flag and controller shift registers alone.
func (m *MMU) dmaRead(address uint16) byte {
	if m.regionMap[address>>8] == regionIO {
		return m.openBus
	}
	return m.Read(address)
}

// Peek reads memory without side effects, for disassembly and debug views.
// Registers and unmapped ranges read as 0.
func (m *MMU) Peek(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionRAM:
		return m.ram[address&addr.RAMMask]
	case regionSRAM:
		if m.mapper.cart.battery == nil {
			return 0
		}
		return m.mapper.ReadSRAM(address)
	case regionPRG:
		return m.mapper.ReadPRG(address)
	default:
		return 0
	}
}

// Reset clears work RAM and controller shift state. Battery RAM survives.
func (m *MMU) Reset() {
	m.ram = [0x800]byte{}
	m.openBus = 0
	for _, j := range m.Joypads {
		j.Write(0)
	}
}
