package debug

import (
	"fmt"
	"math"

	"github.com/nebulaemu/nebula/nebula/audio"
)

const cpuFrequency = 1789773.0

var channelNames = [4]string{"Pulse 1", "Pulse 2", "Triangle", "Noise"}

type ChannelStatus struct {
	Name      string
	Enabled   bool // length counter running
	Muted     bool
	Frequency float64
	Volume    uint8
	DutyCycle uint8
	Note      string
}

type AudioData struct {
	Channels         [4]ChannelStatus
	FrameIRQ         bool
	FrameIRQCount    uint64
	SamplesGenerated uint64
	DroppedSamples   uint64
	SampleRate       int
}

// ChannelSource is the slice of the APU the debug views need.
type ChannelSource interface {
	ChannelStates() [4]audio.ChannelState
	FrameIRQ() bool
	FrameIRQCount() uint64
	SamplesGenerated() uint64
	DroppedSamples() uint64
}

func ExtractAudioData(src ChannelSource) *AudioData {
	data := &AudioData{
		FrameIRQ:         src.FrameIRQ(),
		FrameIRQCount:    src.FrameIRQCount(),
		SamplesGenerated: src.SamplesGenerated(),
		DroppedSamples:   src.DroppedSamples(),
		SampleRate:       audio.SampleRate,
	}

	for i, st := range src.ChannelStates() {
		ch := &data.Channels[i]
		ch.Name = channelNames[i]
		ch.Enabled = st.Length > 0
		ch.Muted = st.Muted
		ch.Volume = st.Volume
		ch.DutyCycle = st.Duty

		switch i {
		case 0, 1:
			ch.Frequency = cpuFrequency / (16 * float64(st.Timer+1))
		case 2:
			ch.Frequency = cpuFrequency / (32 * float64(st.Timer+1))
		case 3:
			if st.Timer > 0 {
				ch.Frequency = cpuFrequency / float64(st.Timer)
			}
			ch.Note = "Noise"
			continue
		}
		ch.Note = frequencyToNote(ch.Frequency)
	}

	return data
}

func (c ChannelStatus) String() string {
	state := "off"
	switch {
	case c.Muted:
		state = "muted"
	case c.Enabled:
		state = "on"
	}
	return fmt.Sprintf("%-8s %-5s vol=%2d %8.1fHz %s", c.Name, state, c.Volume, c.Frequency, c.Note)
}

func frequencyToNote(freq float64) string {
	if freq < 20 || freq > 20000 {
		return "--"
	}

	notes := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	midi := int(math.Round(12*math.Log2(freq/440.0))) + 69
	octave := midi/12 - 1
	if octave < 0 || octave > 9 {
		return "--"
	}

	return fmt.Sprintf("%s%d", notes[midi%12], octave)
}
