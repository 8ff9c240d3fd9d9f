package memory

import (
	"fmt"

	"github.com/nebulaemu/nebula/nebula/addr"
	"github.com/nebulaemu/nebula/nebula/fault"
)

// MapperKind tags the mapper variant. The set is closed: adding a board
// means adding a kind and a case to every switch below.
type MapperKind uint8

const (
	// KindNROM is mapper 0: fixed 16 or 32 KiB PRG, 8 KiB CHR, no registers.
	KindNROM MapperKind = iota
)

func (k MapperKind) String() string {
	switch k {
	case KindNROM:
		return "NROM"
	default:
		return fmt.Sprintf("MapperKind(%d)", uint8(k))
	}
}

// Mapper translates CPU and PPU addresses into cartridge offsets.
// It holds a reference to the cartridge but does not own it.
type Mapper struct {
	kind MapperKind
	cart *Cartridge

	// NROM
	prgMask uint16
}

// NewMapper picks the variant for the cartridge's mapper number.
func NewMapper(cart *Cartridge) (*Mapper, error) {
	switch cart.mapperID {
	case 0:
		m := &Mapper{kind: KindNROM, cart: cart, prgMask: 0x7FFF}
		if len(cart.PRG) == prgBankSize {
			m.prgMask = 0x3FFF
		}
		return m, nil
	default:
		return nil, fault.New(fault.UnsupportedContainer, 0, "mapper %d", cart.mapperID)
	}
}

// Kind reports the mapper variant.
func (m *Mapper) Kind() MapperKind {
	return m.kind
}

// Cartridge returns the cartridge behind the mapper.
func (m *Mapper) Cartridge() *Cartridge {
	return m.cart
}

// ReadPRG reads the CPU range 0x8000-0xFFFF.
func (m *Mapper) ReadPRG(address uint16) uint8 {
	switch m.kind {
	case KindNROM:
		return m.cart.PRG[(address-addr.PRGStart)&m.prgMask]
	}
	panic(fault.New(fault.UnmappedAccess, address, "no PRG mapping"))
}

// WritePRG handles CPU writes to 0x8000-0xFFFF. NROM has no registers
// there, so any write is fatal.
func (m *Mapper) WritePRG(address uint16, value uint8) {
	switch m.kind {
	case KindNROM:
		panic(&fault.Error{Kind: fault.UnmappedAccess, Addr: address, Value: value, Msg: "write to NROM PRG ROM"})
	}
}

// ReadSRAM reads battery RAM at 0x6000-0x7FFF.
func (m *Mapper) ReadSRAM(address uint16) uint8 {
	if m.cart.battery == nil {
		panic(fault.New(fault.MissingBatteryRAM, address, "read"))
	}
	return m.cart.battery[address-addr.SRAMStart]
}

// WriteSRAM writes battery RAM at 0x6000-0x7FFF.
func (m *Mapper) WriteSRAM(address uint16, value uint8) {
	if m.cart.battery == nil {
		panic(&fault.Error{Kind: fault.MissingBatteryRAM, Addr: address, Value: value, Msg: "write"})
	}
	m.cart.battery[address-addr.SRAMStart] = value
}

// ReadCHR reads the PPU pattern range 0x0000-0x1FFF.
func (m *Mapper) ReadCHR(address uint16) uint8 {
	switch m.kind {
	case KindNROM:
		return m.cart.CHR[address&addr.PatternEnd]
	}
	panic(fault.New(fault.UnmappedAccess, address, "no CHR mapping"))
}

// WriteCHR writes the pattern tables, which only works with CHR-RAM.
func (m *Mapper) WriteCHR(address uint16, value uint8) {
	if !m.cart.chrRAM {
		panic(&fault.Error{Kind: fault.UnmappedAccess, Addr: address, Value: value, Msg: "write to CHR ROM"})
	}
	m.cart.CHR[address&addr.PatternEnd] = value
}

// Mirroring reports the nametable layout the PPU should use.
func (m *Mapper) Mirroring() Mirroring {
	return m.cart.mirroring
}
