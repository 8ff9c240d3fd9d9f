package memory

// Button is a bit position in the controller shift register, in the order
// the console reads them out.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Joypad is a standard controller: 8 button latches behind a parallel-in
// serial-out shift register.
//
// While strobe is high the register is continuously reloaded and reads keep
// returning button A. Once strobe goes low, each read shifts one button out.
// After all eight, the register reads 1 like an official pad.
type Joypad struct {
	buttons uint8 // 1 -> pressed
	shift   uint8
	strobe  bool
}

// NewJoypad creates a controller with no buttons held.
func NewJoypad() *Joypad {
	return &Joypad{}
}

// Write handles a write to the strobe port (only bit 0 matters).
func (j *Joypad) Write(value uint8) {
	j.strobe = value&1 == 1
	if j.strobe {
		j.shift = j.buttons
	}
}

// Read returns the next serial bit. The upper bits are open bus and
// usually hold 0x40 (the high byte of the port address).
func (j *Joypad) Read() uint8 {
	if j.strobe {
		return j.buttons&1 | 0x40
	}
	ret := j.shift & 1
	j.shift = j.shift>>1 | 0x80
	return ret | 0x40
}

// Press marks a button as held.
func (j *Joypad) Press(b Button) {
	j.buttons |= 1 << b
	if j.strobe {
		j.shift = j.buttons
	}
}

// Release marks a button as not held.
func (j *Joypad) Release(b Button) {
	j.buttons &^= 1 << b
	if j.strobe {
		j.shift = j.buttons
	}
}

// State returns the raw button latches, bit n set for Button(n) held.
func (j *Joypad) State() uint8 {
	return j.buttons
}
