package audio

type triangle struct {
	timer   uint16
	counter uint16
	step    uint8

	length uint8
	// control doubles as the length counter halt flag
	control bool

	linearLoad    uint8
	linearCounter uint8
	linearReload  bool
}

func (t *triangle) writeLinear(value uint8) {
	t.control = value&0x80 != 0
	t.linearLoad = value & 0x7F
}

func (t *triangle) writeTimerLow(value uint8) {
	t.timer = (t.timer & 0xFF00) | uint16(value)
}

func (t *triangle) writeTimerHigh(value uint8) {
	t.timer = (t.timer & 0x00FF) | uint16(value&0x07)<<8
	t.length = lengthTable[value>>3]
	t.linearReload = true
}

// clockTimer runs once per CPU cycle. The sequence only advances while both
// counters are non-zero.
func (t *triangle) clockTimer() {
	if t.counter > 0 {
		t.counter--
		return
	}
	t.counter = t.timer
	if t.length > 0 && t.linearCounter > 0 {
		t.step = (t.step + 1) % 32
	}
}

func (t *triangle) clockLinear() {
	if t.linearReload {
		t.linearCounter = t.linearLoad
	} else if t.linearCounter > 0 {
		t.linearCounter--
	}
	if !t.control {
		t.linearReload = false
	}
}

func (t *triangle) clockLength() {
	if !t.control && t.length > 0 {
		t.length--
	}
}

func (t *triangle) sample() uint8 {
	if t.length == 0 || t.linearCounter == 0 {
		return 0
	}
	return triangleSequence[t.step]
}
