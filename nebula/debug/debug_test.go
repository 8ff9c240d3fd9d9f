package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulaemu/nebula/nebula/audio"
	"github.com/nebulaemu/nebula/nebula/video"
)

type flatMemory map[uint16]uint8

func (m flatMemory) Peek(addr uint16) uint8 { return m[addr] }

var program = []uint8{
	0xA9, 0x01, // LDA #$01
	0x8D, 0x00, 0x20, // STA $2000
	0xEA,             // NOP
	0x4C, 0x00, 0x80, // JMP $8000
}

func TestSnapshotAround(t *testing.T) {
	mem := flatMemory{0x0000: 0x11, 0x0001: 0x22, 0xFFFF: 0x99}

	snap := SnapshotAround(mem, 0x0001, 8, 2)
	assert.Equal(t, uint16(0), snap.StartAddr)
	assert.Equal(t, []uint8{0x11, 0x22, 0, 0}, snap.Bytes)

	snap = SnapshotAround(mem, 0xFFFE, 1, 8)
	assert.Equal(t, uint16(0xFFFD), snap.StartAddr)
	assert.Equal(t, []uint8{0, 0, 0x99}, snap.Bytes)
}

func TestCreateDisassembly(t *testing.T) {
	snap := &MemorySnapshot{StartAddr: 0x8000, Bytes: program}

	lines := CreateDisassembly(snap, 0x8002, 3)
	require.Len(t, lines, 3)
	assert.Equal(t, "LDA #$01", lines[0].Instruction)
	assert.Equal(t, uint16(0x8002), lines[1].Address)
	assert.Equal(t, "STA $2000", lines[1].Instruction)
	assert.True(t, lines[1].IsCurrent)
	assert.Equal(t, "NOP", lines[2].Instruction)
}

func TestCreateDisassemblyOutsideSnapshot(t *testing.T) {
	snap := &MemorySnapshot{StartAddr: 0x8000, Bytes: program}

	lines := CreateDisassembly(snap, 0xC000, 10)
	require.Len(t, lines, 5)
	assert.Equal(t, "JMP $8000", lines[3].Instruction)
	last := lines[len(lines)-1]
	assert.True(t, last.IsCurrent)
	assert.Equal(t, uint16(0xC000), last.Address)

	assert.Nil(t, CreateDisassembly(nil, 0, 10))
}

type fakeChannels struct{}

func (fakeChannels) ChannelStates() [4]audio.ChannelState {
	return [4]audio.ChannelState{
		{Timer: 253, Length: 10, Volume: 15, Duty: 2},
		{Muted: true},
		{Timer: 126, Length: 1},
		{Timer: 4, Length: 3, Volume: 7},
	}
}
func (fakeChannels) FrameIRQ() bool           { return true }
func (fakeChannels) SamplesGenerated() uint64 { return 42 }
func (fakeChannels) DroppedSamples() uint64   { return 256 }
func (fakeChannels) FrameIRQCount() uint64    { return 3 }

func TestExtractAudioData(t *testing.T) {
	data := ExtractAudioData(fakeChannels{})

	assert.True(t, data.FrameIRQ)
	assert.Equal(t, uint64(42), data.SamplesGenerated)
	assert.Equal(t, uint64(256), data.DroppedSamples)
	assert.Equal(t, uint64(3), data.FrameIRQCount)
	assert.Equal(t, audio.SampleRate, data.SampleRate)

	p1 := data.Channels[0]
	assert.True(t, p1.Enabled)
	assert.InDelta(t, 440.4, p1.Frequency, 0.1)
	assert.Equal(t, "A4", p1.Note)

	assert.True(t, data.Channels[1].Muted)
	assert.Contains(t, data.Channels[1].String(), "muted")
	assert.Equal(t, "A4", data.Channels[2].Note)
	assert.Equal(t, "Noise", data.Channels[3].Note)
}

func TestFrequencyToNote(t *testing.T) {
	assert.Equal(t, "A4", frequencyToNote(440))
	assert.Equal(t, "C4", frequencyToNote(261.63))
	assert.Equal(t, "--", frequencyToNote(5))
}

func TestSaveFramePNG(t *testing.T) {
	frame := video.NewFrameBuffer()
	for y := uint(0); y < frame.Height(); y++ {
		for x := uint(0); x < frame.Width(); x++ {
			frame.SetPixel(x, y, 0x16)
		}
	}

	path, err := SaveFramePNGToDir(frame, "test", t.TempDir(), 2)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())

	r, g, b, a := img.At(511, 479).RGBA()
	want := video.SystemPalette[0x16]
	assert.Equal(t, want>>24, r>>8)
	assert.Equal(t, want>>16&0xFF, g>>8)
	assert.Equal(t, want>>8&0xFF, b>>8)
	assert.Equal(t, uint32(0xFF), a>>8)
}

func TestWAVRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	rec := NewWAVRecorder(path)
	rec.Append([]uint8{128, 255, 0, 128})
	rec.Append(make([]uint8, 96))
	assert.Equal(t, 100, rec.Len())
	require.NoError(t, rec.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(audio.SampleRate), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(8), dec.BitDepth)
}
