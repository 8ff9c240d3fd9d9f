package audio

// Frame sequencer timing, in APU cycles (one APU cycle = two CPU cycles).
// Reference: https://www.nesdev.org/wiki/APU_Frame_Counter
const (
	frameStep1 = 3729
	frameStep2 = 7457
	frameStep3 = 11186
	frameStep4 = 14915
	frameStep5 = 18641
)

const (
	cpuFrequency = 1789773

	// sampleInterval is the number of APU cycles between output samples.
	sampleInterval = 20

	// SampleRate is the rate samples are produced at, in whole Hz:
	// 1789773 Hz / 2 / 20. Sinks must play at this rate or the buffer drifts.
	SampleRate = cpuFrequency / 2 / sampleInterval

	// maxBufferSize bounds the backlog to about 90 ms. Past it the oldest
	// dropChunk samples (under 6 ms) are discarded.
	maxBufferSize = 4096
	dropChunk     = 256
)

// lengthTable maps the 5-bit length index written to register 3 of a
// channel to the length counter load value.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// dutyPatterns holds the 12.5%, 25%, 50% and 25% negated waveforms.
// The sequencer outputs bit 7 and rotates left on every timer expiry.
var dutyPatterns = [4]uint8{
	0b01000000,
	0b01100000,
	0b01111000,
	0b10011111,
}

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// noisePeriods are timer reload values, in CPU cycles.
var noisePeriods = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// Channel indices used by the debug mute controls.
const (
	ChannelPulse1 = iota + 1
	ChannelPulse2
	ChannelTriangle
	ChannelNoise
)
