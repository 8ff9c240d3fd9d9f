package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulaemu/nebula/nebula/fault"
)

type fakeDevice struct {
	reads  []uint16
	writes map[uint16][]uint8
	value  uint8
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{writes: map[uint16][]uint8{}}
}

func (f *fakeDevice) ReadRegister(address uint16) uint8 {
	f.reads = append(f.reads, address)
	return f.value
}

func (f *fakeDevice) WriteRegister(address uint16, value uint8) {
	f.writes[address] = append(f.writes[address], value)
}

type fakeCPU struct {
	cycles  uint64
	stalled int
}

func (f *fakeCPU) Stall(cycles int) { f.stalled += cycles }
func (f *fakeCPU) Cycles() uint64   { return f.cycles }

func newTestMMU(t *testing.T, flags6 uint8) (*MMU, *fakeDevice, *fakeDevice, *fakeCPU) {
	t.Helper()
	cart, err := NewCartridgeWithData(buildImage(1, 1, flags6, 0))
	require.NoError(t, err)
	mmu, err := NewWithCartridge(cart)
	require.NoError(t, err)

	ppu, apu, cpu := newFakeDevice(), newFakeDevice(), &fakeCPU{}
	mmu.Attach(ppu, apu, cpu)
	return mmu, ppu, apu, cpu
}

func TestRAMMirroring(t *testing.T) {
	mmu, _, _, _ := newTestMMU(t, 0)

	mmu.Write(0x0012, 0x34)
	for _, mirror := range []uint16{0x0012, 0x0812, 0x1012, 0x1812} {
		assert.Equal(t, uint8(0x34), mmu.Read(mirror), "0x%04X", mirror)
	}

	mmu.Write(0x1FFF, 0x77)
	assert.Equal(t, uint8(0x77), mmu.Read(0x07FF))
}

func TestPPURegisterMirroring(t *testing.T) {
	mmu, ppu, _, _ := newTestMMU(t, 0)

	mmu.Write(0x3456, 0x99) // 0x3456 & 7 = 6 -> PPUADDR
	assert.Equal(t, []uint8{0x99}, ppu.writes[0x2006])

	mmu.Read(0x2FFA) // -> PPUSTATUS
	assert.Equal(t, []uint16{0x2002}, ppu.reads)
}

func TestAPUAndControllerRouting(t *testing.T) {
	mmu, _, apu, _ := newTestMMU(t, 0)

	mmu.Write(0x4002, 0x0F)
	mmu.Write(0x4017, 0x80)
	assert.Equal(t, []uint8{0x0F}, apu.writes[0x4002])
	assert.Equal(t, []uint8{0x80}, apu.writes[0x4017])

	apu.value = 0x41
	assert.Equal(t, uint8(0x41), mmu.Read(0x4015))

	mmu.Joypads[1].Press(ButtonA)
	mmu.Write(0x4016, 1)
	mmu.Write(0x4016, 0)
	assert.Equal(t, uint8(0x40), mmu.Read(0x4016))
	assert.Equal(t, uint8(0x41), mmu.Read(0x4017), "0x4017 reads controller 2, not the APU")
}

func TestWriteOnlyRegistersReadOpenBus(t *testing.T) {
	mmu, _, _, _ := newTestMMU(t, 0)

	mmu.Write(0x0000, 0x5C)
	mmu.Read(0x0000)
	assert.Equal(t, uint8(0x5C), mmu.Read(0x4000))
}

func TestOAMDMA(t *testing.T) {
	tests := []struct {
		name   string
		cycles uint64
		stall  int
	}{
		{"even cycle", 100, 513},
		{"odd cycle", 101, 514},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmu, ppu, _, cpu := newTestMMU(t, 0)
			cpu.cycles = tt.cycles
			for i := range uint16(256) {
				mmu.Write(0x0200+i, uint8(i))
			}

			mmu.Write(0x4014, 0x02)

			got := ppu.writes[0x2004]
			require.Len(t, got, 256)
			assert.Equal(t, uint8(0), got[0])
			assert.Equal(t, uint8(255), got[255])
			assert.Equal(t, tt.stall, cpu.stalled)
		})
	}
}

func TestOAMDMAFromIOPage(t *testing.T) {
	mmu, ppu, apu, _ := newTestMMU(t, 0)
	mmu.Joypads[0].Press(ButtonA)
	mmu.Write(0x4016, 1)
	mmu.Write(0x4016, 0)

	require.NotPanics(t, func() { mmu.Write(0x4014, 0x40) })

	got := ppu.writes[0x2004]
	require.Len(t, got, 256)
	for i, v := range got {
		assert.Equal(t, uint8(0x40), v, "byte %d reads open bus", i)
	}
	assert.Empty(t, apu.reads, "$4015 is not read by DMA")
	assert.Equal(t, uint8(0x41), mmu.Read(0x4016), "controller shift untouched")
}

func TestPRGAndSRAM(t *testing.T) {
	mmu, _, _, _ := newTestMMU(t, 0x02)

	assert.Equal(t, uint8(0xFC), mmu.Read(0xFFFC))
	mmu.Write(0x6010, 0xAB)
	assert.Equal(t, uint8(0xAB), mmu.Read(0x6010))
	assert.Equal(t, uint8(0xAB), mmu.Peek(0x6010))
}

func TestFatalAccesses(t *testing.T) {
	mmu, _, _, _ := newTestMMU(t, 0)

	assertFault(t, fault.UnmappedAccess, func() { mmu.Read(0x4800) })
	assertFault(t, fault.UnmappedAccess, func() { mmu.Write(0x5000, 1) })
	assertFault(t, fault.UnmappedAccess, func() { mmu.Read(0x4018) })
	assertFault(t, fault.UnmappedAccess, func() { mmu.Write(0x8000, 1) })
	assertFault(t, fault.MissingBatteryRAM, func() { mmu.Read(0x6000) })

	assert.NotPanics(t, func() { mmu.Peek(0x6000) })
	assert.NotPanics(t, func() { mmu.Peek(0x4800) })
}
