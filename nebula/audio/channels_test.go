package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeDecay(t *testing.T) {
	e := envelope{volume: 0, start: true}

	e.clock()
	assert.Equal(t, uint8(15), e.level())
	for want := 14; want >= 0; want-- {
		e.clock()
		assert.Equal(t, uint8(want), e.level())
	}
	e.clock()
	assert.Equal(t, uint8(0), e.level(), "no loop: stays at 0")

	e.loop = true
	e.clock()
	assert.Equal(t, uint8(15), e.level(), "loop reloads to 15")
}

func TestEnvelopeDividerPeriod(t *testing.T) {
	e := envelope{volume: 2, start: true}
	e.clock() // decay=15 divider=2

	outputs := make([]uint8, 0, 6)
	for range 6 {
		e.clock()
		outputs = append(outputs, e.level())
	}
	assert.Equal(t, []uint8{15, 15, 14, 14, 14, 13}, outputs)
}

func TestEnvelopeConstantVolume(t *testing.T) {
	e := envelope{}
	e.write(0x17)
	e.start = true

	for range 20 {
		e.clock()
		assert.Equal(t, uint8(7), e.level())
	}
}

func TestSweep(t *testing.T) {
	tests := []struct {
		name  string
		ones  bool
		sweep uint8
		timer uint16
		want  uint16
	}{
		{"add", false, 0x81, 0x100, 0x180},
		{"negate pulse 2", false, 0x89, 0x100, 0x080},
		{"negate pulse 1 subtracts one more", true, 0x89, 0x100, 0x07F},
		{"disabled", false, 0x01, 0x100, 0x100},
		{"zero shift", false, 0x80, 0x100, 0x100},
		{"muted low timer", false, 0x81, 0x007, 0x007},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pulse{onesComplement: tt.ones}
			p.writeSweep(tt.sweep)
			p.timer = tt.timer

			p.clockSweep() // reload, divider 0 so it applies on this clock
			assert.Equal(t, tt.want, p.timer)
		})
	}
}

func TestSweepDividerReload(t *testing.T) {
	p := pulse{}
	p.writeSweep(0xA1) // period 2, shift 1
	p.timer = 0x40

	p.clockSweep()
	assert.Equal(t, uint16(0x60), p.timer)
	p.clockSweep()
	p.clockSweep()
	assert.Equal(t, uint16(0x60), p.timer, "divider counts down from 2")
	p.clockSweep()
	assert.Equal(t, uint16(0x90), p.timer)
}

func TestPulseMute(t *testing.T) {
	p := pulse{timer: 7}
	assert.True(t, p.muted())
	p.timer = 8
	assert.False(t, p.muted())
	p.timer = 0x800
	assert.True(t, p.muted())
}

func TestPulseSequencer(t *testing.T) {
	p := pulse{}
	p.writeControl(0x00) // 12.5%
	p.writeTimerLow(0)
	p.writeTimerHigh(0)

	var out []bool
	for range 8 {
		p.clockTimer()
		out = append(out, p.output)
	}
	assert.Equal(t, []bool{false, true, false, false, false, false, false, false}, out)
}

func TestTriangleSequenceNeedsBothCounters(t *testing.T) {
	tri := triangle{}
	tri.writeLinear(0x7F)
	tri.writeTimerLow(0)
	tri.writeTimerHigh(0x08)

	tri.clockTimer()
	assert.Equal(t, uint8(0), tri.step, "linear counter not loaded yet")

	tri.clockLinear()
	assert.Equal(t, uint8(0x7F), tri.linearCounter)
	assert.False(t, tri.linearReload)

	tri.clockTimer()
	tri.clockTimer()
	assert.Equal(t, uint8(2), tri.step)
	assert.Equal(t, uint8(13), tri.sample())
}

func TestTriangleLinearCounterControl(t *testing.T) {
	tri := triangle{}
	tri.writeLinear(0x83)
	tri.writeTimerHigh(0x08)

	for range 4 {
		tri.clockLinear()
		assert.Equal(t, uint8(3), tri.linearCounter, "control keeps reloading")
	}

	tri.writeLinear(0x03)
	tri.clockLinear()
	tri.clockLinear()
	assert.Equal(t, uint8(2), tri.linearCounter)
}

func TestNoiseLFSR(t *testing.T) {
	n := newNoise()
	n.period = 0

	n.clockTimer()
	// 1: feedback = 1^0 -> bit 14
	assert.Equal(t, uint16(0x4000), n.shift)
	n.clockTimer()
	assert.Equal(t, uint16(0x2000), n.shift)

	n = newNoise()
	n.period = 0
	n.mode = true
	n.shift = 0x41
	n.clockTimer()
	// bit0=1 bit6=1 -> feedback 0
	assert.Equal(t, uint16(0x20), n.shift)
}

func TestNoiseSilentWhileBit0Set(t *testing.T) {
	n := newNoise()
	n.writeControl(0x1F)
	n.writeLength(0x08)
	n.envelope.clock()

	n.shift = 1
	assert.Equal(t, uint8(0), n.sample())
	n.shift = 2
	assert.Equal(t, uint8(15), n.sample())
}
