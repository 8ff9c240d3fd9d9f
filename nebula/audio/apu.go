package audio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/nebulaemu/nebula/nebula/addr"
	"github.com/nebulaemu/nebula/nebula/bit"
)

// InterruptLine receives the frame IRQ. The line is released when the
// program acknowledges the flag.
type InterruptLine interface {
	RequestInterrupt(interrupt addr.Interrupt)
	ClearInterrupt(interrupt addr.Interrupt)
}

// APU implements the NES Audio Processing Unit (2A03).
// Reference: https://www.nesdev.org/wiki/APU
type APU struct {
	irq InterruptLine

	pulse1   pulse
	pulse2   pulse
	triangle triangle
	noise    noise
	dmc      dmc

	// enabled holds the $4015 channel enable bits (pulse1, pulse2, triangle, noise, dmc)
	enabled uint8

	// Frame sequencer state
	fiveStep     bool
	inhibitIRQ   bool
	frameIRQ     bool
	frameCycles  int
	oddCPUCycle  bool
	apuCycles    uint64
	sampleCycles int

	// mu guards the mute flags, which are toggled from input handlers
	mu    sync.Mutex
	muted [4]bool

	sampleMu       sync.Mutex
	sampleBuffer   []uint8
	lastSample     uint8
	droppedSamples uint64

	debugStats struct {
		quarterClocks    uint64
		halfClocks       uint64
		frameIRQs        uint64
		samplesGenerated uint64
	}
}

// New creates an APU raising frame IRQs on irq.
func New(irq InterruptLine) *APU {
	a := &APU{
		irq:          irq,
		sampleBuffer: make([]uint8, 0, maxBufferSize+1),
	}
	a.Reset()
	return a
}

// Reset silences all channels and restarts the frame sequencer in 4-step mode.
func (a *APU) Reset() {
	a.pulse1 = pulse{onesComplement: true}
	a.pulse2 = pulse{}
	a.triangle = triangle{}
	a.noise = newNoise()
	a.dmc = dmc{}
	a.enabled = 0
	a.fiveStep, a.inhibitIRQ, a.frameIRQ = false, false, false
	a.frameCycles = 0
	a.oddCPUCycle = false
	a.apuCycles = 0
	a.sampleCycles = 0

	a.sampleMu.Lock()
	a.sampleBuffer = a.sampleBuffer[:0]
	a.lastSample = 0
	a.sampleMu.Unlock()
}

// Step advances the APU by one CPU cycle. Triangle and noise timers run at
// the CPU rate; everything else runs once per APU cycle (every other step).
func (a *APU) Step() {
	a.triangle.clockTimer()
	a.noise.clockTimer()

	a.oddCPUCycle = !a.oddCPUCycle
	if !a.oddCPUCycle {
		return
	}

	a.apuCycles++
	a.pulse1.clockTimer()
	a.pulse2.clockTimer()
	a.clockFrameSequencer()

	a.sampleCycles++
	if a.sampleCycles == sampleInterval {
		a.sampleCycles = 0
		a.generateSample()
	}
}

// clockFrameSequencer advances the frame counter by one APU cycle.
//
//	cycle   4-step          5-step
//	3729    quarter         quarter
//	7457    quarter, half   quarter, half
//	11186   quarter         quarter
//	14915   both, IRQ, 0    -
//	18641   -               both, 0
func (a *APU) clockFrameSequencer() {
	a.frameCycles++
	switch a.frameCycles {
	case frameStep1, frameStep3:
		a.quarterFrame()
	case frameStep2:
		a.quarterFrame()
		a.halfFrame()
	case frameStep4:
		if a.fiveStep {
			return
		}
		a.quarterFrame()
		a.halfFrame()
		if !a.inhibitIRQ {
			a.frameIRQ = true
			a.debugStats.frameIRQs++
			a.irq.RequestInterrupt(addr.IRQ)
		}
		a.frameCycles = 0
	case frameStep5:
		a.quarterFrame()
		a.halfFrame()
		a.frameCycles = 0
	}
}

// quarterFrame clocks the envelopes and the triangle linear counter.
func (a *APU) quarterFrame() {
	a.debugStats.quarterClocks++
	a.pulse1.envelope.clock()
	a.pulse2.envelope.clock()
	a.noise.envelope.clock()
	a.triangle.clockLinear()
}

// halfFrame clocks the length counters and the sweep units.
func (a *APU) halfFrame() {
	a.debugStats.halfClocks++
	a.pulse1.clockLength()
	a.pulse2.clockLength()
	a.triangle.clockLength()
	a.noise.clockLength()
	a.clearDisabledLengths()

	a.pulse1.clockSweep()
	a.pulse2.clockSweep()
}

func (a *APU) clearDisabledLengths() {
	if !bit.IsSet(0, a.enabled) {
		a.pulse1.length = 0
	}
	if !bit.IsSet(1, a.enabled) {
		a.pulse2.length = 0
	}
	if !bit.IsSet(2, a.enabled) {
		a.triangle.length = 0
	}
	if !bit.IsSet(3, a.enabled) {
		a.noise.length = 0
	}
}

func (a *APU) generateSample() {
	p1 := a.pulse1.sample()
	p2 := a.pulse2.sample()
	tri := a.triangle.sample()
	n := a.noise.sample()

	a.mu.Lock()
	if a.muted[0] {
		p1 = 0
	}
	if a.muted[1] {
		p2 = 0
	}
	if a.muted[2] {
		tri = 0
	}
	if a.muted[3] {
		n = 0
	}
	a.mu.Unlock()

	sample := mix(p1, p2, tri, n, a.dmc.sample())
	a.debugStats.samplesGenerated++

	a.sampleMu.Lock()
	a.sampleBuffer = append(a.sampleBuffer, sample)
	if len(a.sampleBuffer) > maxBufferSize {
		a.droppedSamples += dropChunk
		a.sampleBuffer = append(a.sampleBuffer[:0], a.sampleBuffer[dropChunk:]...)
	}
	a.lastSample = sample
	a.sampleMu.Unlock()
}

// ReadRegister reads $4015: length counter status in bits 0-3 and the frame
// IRQ flag in bit 6, which the read clears.
func (a *APU) ReadRegister(address uint16) uint8 {
	if address != addr.APUStatus {
		slog.Warn("Read from write-only APU register", "addr", fmt.Sprintf("0x%04X", address))
		return 0
	}

	var status uint8
	status = bit.SetTo(0, status, a.pulse1.length > 0)
	status = bit.SetTo(1, status, a.pulse2.length > 0)
	status = bit.SetTo(2, status, a.triangle.length > 0)
	status = bit.SetTo(3, status, a.noise.length > 0)
	status = bit.SetTo(6, status, a.frameIRQ)
	a.acknowledgeFrameIRQ()
	return status
}

func (a *APU) acknowledgeFrameIRQ() {
	if a.frameIRQ {
		a.frameIRQ = false
		a.irq.ClearInterrupt(addr.IRQ)
	}
}

// WriteRegister handles $4000-$4013, $4015 and $4017.
func (a *APU) WriteRegister(address uint16, value uint8) {
	switch address {
	case addr.Pulse1Ctrl:
		a.pulse1.writeControl(value)
	case addr.Pulse1Sweep:
		a.pulse1.writeSweep(value)
	case addr.Pulse1Lo:
		a.pulse1.writeTimerLow(value)
	case addr.Pulse1Hi:
		a.pulse1.writeTimerHigh(value)
	case addr.Pulse2Ctrl:
		a.pulse2.writeControl(value)
	case addr.Pulse2Sweep:
		a.pulse2.writeSweep(value)
	case addr.Pulse2Lo:
		a.pulse2.writeTimerLow(value)
	case addr.Pulse2Hi:
		a.pulse2.writeTimerHigh(value)
	case addr.TriangleLinear:
		a.triangle.writeLinear(value)
	case addr.TriangleLo:
		a.triangle.writeTimerLow(value)
	case addr.TriangleHi:
		a.triangle.writeTimerHigh(value)
	case addr.NoiseCtrl:
		a.noise.writeControl(value)
	case addr.NoisePeriod:
		a.noise.writePeriod(value)
	case addr.NoiseLength:
		a.noise.writeLength(value)
	case addr.DMCCtrl, addr.DMCLoad, addr.DMCAddr, addr.DMCLength:
		a.dmc.write(address-addr.DMCCtrl, value)
	case addr.APUStatus:
		a.enabled = value & 0x1F
		a.clearDisabledLengths()
	case addr.FrameCounter:
		a.writeFrameCounter(value)
	default:
		// 0x4009 and 0x400D are unused
		slog.Debug("Write to unused APU register", "addr", fmt.Sprintf("0x%04X", address), "value", value)
	}
}

func (a *APU) writeFrameCounter(value uint8) {
	a.fiveStep = bit.IsSet(7, value)
	a.inhibitIRQ = bit.IsSet(6, value)
	if a.inhibitIRQ {
		a.acknowledgeFrameIRQ()
	}
	a.frameCycles = 0
	if a.fiveStep {
		a.quarterFrame()
		a.halfFrame()
	}
}

// GetSamples drains up to count samples from the buffer.
func (a *APU) GetSamples(count int) []uint8 {
	a.sampleMu.Lock()
	defer a.sampleMu.Unlock()

	samples := make([]uint8, count)
	n := copy(samples, a.sampleBuffer)
	for i := n; i < count; i++ {
		samples[i] = a.lastSample
	}
	a.sampleBuffer = a.sampleBuffer[:copy(a.sampleBuffer, a.sampleBuffer[n:])]
	return samples
}

// Samples drains every buffered sample.
func (a *APU) Samples() []uint8 {
	a.sampleMu.Lock()
	defer a.sampleMu.Unlock()

	samples := make([]uint8, len(a.sampleBuffer))
	copy(samples, a.sampleBuffer)
	a.sampleBuffer = a.sampleBuffer[:0]
	return samples
}

// MuteChannel mutes or unmutes a channel (ChannelPulse1..ChannelNoise).
func (a *APU) MuteChannel(channel int, muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if channel >= ChannelPulse1 && channel <= ChannelNoise {
		a.muted[channel-1] = muted
	}
}

// ToggleChannel toggles muting for a specific channel
func (a *APU) ToggleChannel(channel int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if channel >= ChannelPulse1 && channel <= ChannelNoise {
		a.muted[channel-1] = !a.muted[channel-1]
	}
}

// SoloChannel mutes all channels except the specified one
func (a *APU) SoloChannel(channel int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.muted {
		a.muted[i] = i != channel-1
	}
}

func (a *APU) UnmuteAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.muted = [4]bool{}
}

// GetChannelStatus reports, per channel, whether it is unmuted and has a
// running length counter.
func (a *APU) GetChannelStatus() (pulse1, pulse2, triangle, noise bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return !a.muted[0] && a.pulse1.length > 0,
		!a.muted[1] && a.pulse2.length > 0,
		!a.muted[2] && a.triangle.length > 0,
		!a.muted[3] && a.noise.length > 0
}

// Debug getters
func (a *APU) Cycles() uint64           { return a.apuCycles }
func (a *APU) FrameIRQ() bool           { return a.frameIRQ }
func (a *APU) Pulse1Timer() uint16      { return a.pulse1.timer }
func (a *APU) Pulse1Length() uint8      { return a.pulse1.length }
func (a *APU) QuarterClocks() uint64    { return a.debugStats.quarterClocks }
func (a *APU) HalfClocks() uint64       { return a.debugStats.halfClocks }
func (a *APU) SamplesGenerated() uint64 { return a.debugStats.samplesGenerated }
func (a *APU) FrameIRQCount() uint64    { return a.debugStats.frameIRQs }

// DroppedSamples counts samples discarded because the sink fell behind.
func (a *APU) DroppedSamples() uint64 {
	a.sampleMu.Lock()
	defer a.sampleMu.Unlock()
	return a.droppedSamples
}

// ChannelState is a read-only view of one channel for debug displays.
type ChannelState struct {
	Timer  uint16
	Length uint8
	Volume uint8
	Duty   uint8
	Muted  bool
}

// ChannelStates returns pulse1, pulse2, triangle and noise in that order.
// Triangle reports its linear counter as Volume.
func (a *APU) ChannelStates() [4]ChannelState {
	a.mu.Lock()
	muted := a.muted
	a.mu.Unlock()

	return [4]ChannelState{
		{Timer: a.pulse1.timer, Length: a.pulse1.length, Volume: a.pulse1.envelope.level(), Duty: a.pulse1.duty, Muted: muted[0]},
		{Timer: a.pulse2.timer, Length: a.pulse2.length, Volume: a.pulse2.envelope.level(), Duty: a.pulse2.duty, Muted: muted[1]},
		{Timer: a.triangle.timer, Length: a.triangle.length, Volume: a.triangle.linearCounter, Muted: muted[2]},
		{Timer: a.noise.period, Length: a.noise.length, Volume: a.noise.envelope.level(), Muted: muted[3]},
	}
}
