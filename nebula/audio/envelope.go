package audio

// envelope produces a 4-bit volume that either stays constant or decays
// from 15 once per quarter-frame clock, optionally looping.
type envelope struct {
	start          bool
	loop           bool
	constantVolume bool
	volume         uint8 // fixed volume, or divider period
	divider        uint8
	decay          uint8
}

// write applies the low six bits shared by pulse and noise register 0.
func (e *envelope) write(value uint8) {
	e.loop = value&0x20 != 0
	e.constantVolume = value&0x10 != 0
	e.volume = value & 0x0F
}

func (e *envelope) clock() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.volume
	} else if e.divider == 0 {
		e.divider = e.volume
		if e.decay > 0 {
			e.decay--
		} else if e.loop {
			e.decay = 15
		}
	} else {
		e.divider--
	}
}

func (e *envelope) level() uint8 {
	if e.constantVolume {
		return e.volume
	}
	return e.decay
}
