package audio

// Non-linear mixer lookup tables.
// Reference: https://www.nesdev.org/wiki/APU_Mixer
var (
	pulseTable [31]float32
	tndTable   [203]float32
)

func init() {
	for i := 1; i < len(pulseTable); i++ {
		pulseTable[i] = float32(95.52 / (8128.0/float64(i) + 100))
	}
	for i := 1; i < len(tndTable); i++ {
		tndTable[i] = float32(163.67 / (24329.0/float64(i) + 100))
	}
}

// mix combines the 4-bit channel outputs into one unsigned 8-bit sample.
func mix(pulse1, pulse2, tri, noise, dmc uint8) uint8 {
	out := pulseTable[pulse1+pulse2] + tndTable[3*int(tri)+2*int(noise)+int(dmc)]
	if out >= 1 {
		return 255
	}
	return uint8(out * 255)
}
