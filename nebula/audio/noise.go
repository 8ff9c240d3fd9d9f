package audio

type noise struct {
	mode    bool
	period  uint16
	counter uint16
	shift   uint16 // 15-bit LFSR

	length   uint8
	halt     bool
	envelope envelope
}

func newNoise() noise {
	return noise{shift: 1, period: noisePeriods[0]}
}

func (n *noise) writeControl(value uint8) {
	n.halt = value&0x20 != 0
	n.envelope.write(value)
}

func (n *noise) writePeriod(value uint8) {
	n.mode = value&0x80 != 0
	n.period = noisePeriods[value&0x0F]
}

func (n *noise) writeLength(value uint8) {
	n.length = lengthTable[value>>3]
	n.envelope.start = true
}

// clockTimer runs once per CPU cycle. On expiry the register shifts right
// feeding bit0 XOR bit1 (bit6 in mode 1) into bit 14.
func (n *noise) clockTimer() {
	if n.counter > 0 {
		n.counter--
		return
	}
	n.counter = n.period

	tap := uint16(1)
	if n.mode {
		tap = 6
	}
	feedback := (n.shift & 1) ^ ((n.shift >> tap) & 1)
	n.shift = n.shift>>1 | feedback<<14
}

func (n *noise) clockLength() {
	if !n.halt && n.length > 0 {
		n.length--
	}
}

func (n *noise) sample() uint8 {
	if n.shift&1 != 0 || n.length == 0 {
		return 0
	}
	return n.envelope.level()
}
