package audio

// dmc only latches its registers. Sample playback is not emulated, so the
// channel always outputs 0.
type dmc struct {
	irqEnabled bool
	loop       bool
	rate       uint8
	level      uint8
	address    uint8
	length     uint8
}

func (d *dmc) write(register uint16, value uint8) {
	switch register {
	case 0:
		d.irqEnabled = value&0x80 != 0
		d.loop = value&0x40 != 0
		d.rate = value & 0x0F
	case 1:
		d.level = value & 0x7F
	case 2:
		d.address = value
	case 3:
		d.length = value
	}
}

func (d *dmc) sample() uint8 {
	return 0
}
