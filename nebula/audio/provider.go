package audio

// Provider is what an audio sink needs from the APU.
type Provider interface {
	// GetSamples returns exactly count unsigned 8-bit mono samples,
	// repeating the last one when fewer are buffered.
	GetSamples(count int) []uint8

	// Audio debugging controls

	ToggleChannel(channel int)
	SoloChannel(channel int)
	UnmuteAll()
	GetChannelStatus() (pulse1, pulse2, triangle, noise bool)
}

var _ Provider = (*APU)(nil)
