package audio

type sweep struct {
	enabled bool
	period  uint8
	negate  bool
	shift   uint8
	reload  bool
	divider uint8
}

type pulse struct {
	// onesComplement is set for pulse 1, whose negated sweep subtracts one more.
	onesComplement bool

	duty     uint8
	sequence uint8
	timer    uint16 // reload value (11 bits, may grow past 0x7FF through sweep)
	counter  uint16
	output   bool
	length   uint8
	halt     bool
	envelope envelope
	sweep    sweep
}

func (p *pulse) writeControl(value uint8) {
	p.duty = value >> 6
	p.halt = value&0x20 != 0
	p.envelope.write(value)
}

func (p *pulse) writeSweep(value uint8) {
	p.sweep.enabled = value&0x80 != 0
	p.sweep.period = (value >> 4) & 0x07
	p.sweep.negate = value&0x08 != 0
	p.sweep.shift = value & 0x07
	p.sweep.reload = true
}

func (p *pulse) writeTimerLow(value uint8) {
	p.timer = (p.timer & 0xFF00) | uint16(value)
}

func (p *pulse) writeTimerHigh(value uint8) {
	p.timer = (p.timer & 0x00FF) | uint16(value&0x07)<<8
	p.length = lengthTable[value>>3]
	p.sequence = dutyPatterns[p.duty]
	p.envelope.start = true
}

func (p *pulse) muted() bool {
	return p.timer < 8 || p.timer > 0x7FF
}

// clockTimer runs once per APU cycle.
func (p *pulse) clockTimer() {
	if p.counter > 0 {
		p.counter--
		return
	}
	p.counter = p.timer
	p.output = p.sequence&0x80 != 0
	p.sequence = p.sequence<<1 | p.sequence>>7
}

func (p *pulse) clockLength() {
	if !p.halt && p.length > 0 {
		p.length--
	}
}

func (p *pulse) clockSweep() {
	s := &p.sweep
	if s.divider == 0 && s.enabled && s.shift != 0 && !p.muted() {
		delta := int(p.timer >> s.shift)
		if s.negate {
			delta = -delta
			if p.onesComplement {
				delta--
			}
		}
		target := int(p.timer) + delta
		if target < 0 {
			target = 0
		}
		p.timer = uint16(target)
	}

	if s.divider == 0 || s.reload {
		s.reload = false
		s.divider = s.period
	} else {
		s.divider--
	}
}

// sample returns the 4-bit channel output.
func (p *pulse) sample() uint8 {
	if p.muted() || p.length == 0 || !p.output {
		return 0
	}
	return p.envelope.level()
}
