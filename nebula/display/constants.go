package display

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
	// RGBARShift is the bit shift for the red component in RGBA format
	RGBARShift = 24
	// RGBAGShift is the bit shift for the green component in RGBA format
	RGBAGShift = 16
	// RGBABShift is the bit shift for the blue component in RGBA format
	RGBABShift = 8
	// RGBAColorMask is the mask for extracting color components
	RGBAColorMask = 0xFF
	// FullAlpha is the alpha value for fully opaque pixels
	FullAlpha = 255
)

// Output scaling
const (
	// DefaultPixelScale is the default scaling factor for PNG snapshots
	DefaultPixelScale = 2
	// DefaultWindowWidth is the scaled NES output width
	DefaultWindowWidth = 256 * DefaultPixelScale
	// DefaultWindowHeight is the scaled NES output height
	DefaultWindowHeight = 240 * DefaultPixelScale
)

// Components splits a 0xRRGGBBAA pixel.
func Components(pixel uint32) (r, g, b uint8) {
	return uint8(pixel >> RGBARShift & RGBAColorMask),
		uint8(pixel >> RGBAGShift & RGBAColorMask),
		uint8(pixel >> RGBABShift & RGBAColorMask)
}
