package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulaemu/nebula/nebula/fault"
)

func mustMapper(t *testing.T, img []byte) *Mapper {
	t.Helper()
	cart, err := NewCartridgeWithData(img)
	require.NoError(t, err)
	m, err := NewMapper(cart)
	require.NoError(t, err)
	return m
}

func TestNROMPRGMirroring(t *testing.T) {
	t.Run("one bank mirrors upper half", func(t *testing.T) {
		m := mustMapper(t, buildImage(1, 1, 0, 0))
		assert.Equal(t, KindNROM, m.Kind())
		for _, a := range []uint16{0x8000, 0x8123, 0xBFFF} {
			assert.Equal(t, m.ReadPRG(a), m.ReadPRG(a+0x4000), "0x%04X", a)
		}
		assert.Equal(t, uint8(0xFC), m.ReadPRG(0xFFFC))
	})

	t.Run("two banks are flat", func(t *testing.T) {
		cart, err := NewCartridgeWithData(buildImage(2, 1, 0, 0))
		require.NoError(t, err)
		cart.PRG[0x4000] = 0xAA
		m, err := NewMapper(cart)
		require.NoError(t, err)

		assert.Equal(t, uint8(0x00), m.ReadPRG(0x8000))
		assert.Equal(t, uint8(0xAA), m.ReadPRG(0xC000))
	})
}

func TestNROMWritesAreFatal(t *testing.T) {
	m := mustMapper(t, buildImage(1, 1, 0, 0))

	assertFault(t, fault.UnmappedAccess, func() { m.WritePRG(0x8000, 1) })
	assertFault(t, fault.UnmappedAccess, func() { m.WriteCHR(0x0000, 1) })
	assertFault(t, fault.MissingBatteryRAM, func() { m.ReadSRAM(0x6000) })
	assertFault(t, fault.MissingBatteryRAM, func() { m.WriteSRAM(0x7FFF, 1) })
}

func TestCHRRAMIsWritable(t *testing.T) {
	m := mustMapper(t, buildImage(1, 0, 0, 0))
	m.WriteCHR(0x1ABC, 0x42)
	assert.Equal(t, uint8(0x42), m.ReadCHR(0x1ABC))
}

func TestBatteryRAM(t *testing.T) {
	m := mustMapper(t, buildImage(1, 1, 0x02, 0))
	m.WriteSRAM(0x6000, 0x11)
	m.WriteSRAM(0x7FFF, 0x22)
	assert.Equal(t, uint8(0x11), m.ReadSRAM(0x6000))
	assert.Equal(t, uint8(0x22), m.ReadSRAM(0x7FFF))
}

func assertFault(t *testing.T, kind fault.Kind, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		fe, ok := r.(*fault.Error)
		if assert.True(t, ok, "expected *fault.Error panic, got %v", r) {
			assert.Equal(t, kind, fe.Kind)
		}
	}()
	f()
}
