package memory

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nebulaemu/nebula/nebula/bit"
	"github.com/nebulaemu/nebula/nebula/fault"
)

const (
	headerSize    = 16
	prgBankSize   = 0x4000
	chrBankSize   = 0x2000
	batteryRAMLen = 0x2000
)

// iNES header offsets and flags
const (
	prgCountOffset = 4
	chrCountOffset = 5
	flags6Offset   = 6
	flags7Offset   = 7

	flags6Vertical   = 0
	flags6Battery    = 1
	flags6Trainer    = 2
	flags6FourScreen = 3
)

var inesMagic = []byte{'N', 'E', 'S', 0x1A}

// Mirroring is the nametable wiring of a cartridge.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorSingleScreen
	MirrorFourScreen
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorSingleScreen:
		return "single-screen"
	case MirrorFourScreen:
		return "four-screen"
	default:
		return fmt.Sprintf("mirroring(%d)", uint8(m))
	}
}

// Cartridge owns the PRG and CHR bytes of a loaded iNES image and the
// optional battery RAM. Only battery RAM and CHR-RAM change after load.
type Cartridge struct {
	PRG []byte
	CHR []byte

	chrRAM    bool
	battery   []byte
	mirroring Mirroring
	mapperID  uint8
}

// NewCartridge creates a blank one-bank NROM cartridge with CHR-RAM,
// useful for tests and for running without a ROM.
func NewCartridge() *Cartridge {
	return &Cartridge{
		PRG:    make([]byte, prgBankSize),
		CHR:    make([]byte, chrBankSize),
		chrRAM: true,
	}
}

// NewCartridgeWithData parses an iNES image.
func NewCartridgeWithData(data []byte) (*Cartridge, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], inesMagic) {
		return nil, fault.New(fault.UnsupportedContainer, 0, "missing iNES magic")
	}

	flags6 := data[flags6Offset]
	flags7 := data[flags7Offset]

	if flags7&0x0C == 0x08 {
		return nil, fault.New(fault.UnsupportedContainer, 0, "NES 2.0 header")
	}
	if bit.IsSet(flags6Trainer, flags6) {
		return nil, fault.New(fault.UnsupportedContainer, 0, "trainer present")
	}

	mapperID := (flags7 & 0xF0) | (flags6 >> 4)
	if mapperID != 0 {
		return nil, fault.New(fault.UnsupportedContainer, 0, "mapper %d", mapperID)
	}

	prgSize := int(data[prgCountOffset]) * prgBankSize
	chrSize := int(data[chrCountOffset]) * chrBankSize
	if prgSize == 0 {
		return nil, fault.New(fault.UnsupportedContainer, 0, "no PRG banks")
	}
	if len(data) < headerSize+prgSize+chrSize {
		return nil, fault.New(fault.UnsupportedContainer, 0,
			"truncated image: have %d bytes, header declares %d", len(data), headerSize+prgSize+chrSize)
	}

	cart := &Cartridge{
		PRG:       make([]byte, prgSize),
		mirroring: MirrorHorizontal,
		mapperID:  mapperID,
	}
	copy(cart.PRG, data[headerSize:headerSize+prgSize])

	if chrSize == 0 {
		cart.CHR = make([]byte, chrBankSize)
		cart.chrRAM = true
	} else {
		cart.CHR = make([]byte, chrSize)
		copy(cart.CHR, data[headerSize+prgSize:])
	}

	if bit.IsSet(flags6Vertical, flags6) {
		cart.mirroring = MirrorVertical
	}
	if bit.IsSet(flags6FourScreen, flags6) {
		cart.mirroring = MirrorFourScreen
	}
	if bit.IsSet(flags6Battery, flags6) {
		cart.battery = make([]byte, batteryRAMLen)
	}

	slog.Info("Loaded cartridge",
		"prg_banks", data[prgCountOffset],
		"chr_banks", data[chrCountOffset],
		"chr_ram", cart.chrRAM,
		"mirroring", cart.mirroring,
		"battery", cart.battery != nil)

	return cart, nil
}

// LoadCartridge reads and parses the iNES file at path. When the cartridge
// has battery RAM, an existing save file next to it is loaded as well.
func LoadCartridge(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}

	cart, err := NewCartridgeWithData(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if cart.HasBattery() {
		if err := cart.LoadBattery(SavePath(path)); err != nil {
			return nil, err
		}
	}

	return cart, nil
}

// SavePath is the battery RAM file used for the ROM at romPath.
func SavePath(romPath string) string {
	return romPath + ".sav"
}

// Mirroring reports the nametable wiring declared by the header.
func (c *Cartridge) Mirroring() Mirroring {
	return c.mirroring
}

// MapperID is the iNES mapper number.
func (c *Cartridge) MapperID() uint8 {
	return c.mapperID
}

// HasCHRRAM reports whether the pattern tables are writable.
func (c *Cartridge) HasCHRRAM() bool {
	return c.chrRAM
}

// HasBattery reports whether 0x6000-0x7FFF is backed by battery RAM.
func (c *Cartridge) HasBattery() bool {
	return c.battery != nil
}

// Battery returns the battery RAM, nil when absent.
func (c *Cartridge) Battery() []byte {
	return c.battery
}

// LoadBattery fills the battery RAM from path. A missing file is not an error.
func (c *Cartridge) LoadBattery(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading save: %w", err)
	}
	n := copy(c.battery, data)
	slog.Info("Loaded battery RAM", "path", path, "bytes", n)
	return nil
}

// SaveBattery writes the battery RAM to path. It does nothing when the
// cartridge has no battery.
func (c *Cartridge) SaveBattery(path string) error {
	if c.battery == nil {
		return nil
	}
	if err := os.WriteFile(path, c.battery, 0o644); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	slog.Info("Saved battery RAM", "path", path)
	return nil
}
