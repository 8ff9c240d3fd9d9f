package video

const (
	FramebufferWidth  = 256
	FramebufferHeight = 240
)

// FrameBuffer holds one picture both as system palette indices and as
// RGBA (0xRRGGBBAA) translated through SystemPalette.
type FrameBuffer struct {
	width   uint
	height  uint
	indices []uint8
	buffer  []uint32
}

// NewFrameBuffer creates a frame buffer with the NES output size.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:   FramebufferWidth,
		height:  FramebufferHeight,
		indices: make([]uint8, FramebufferWidth*FramebufferHeight),
		buffer:  make([]uint32, FramebufferWidth*FramebufferHeight),
	}
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

// GetIndex returns the system palette index of a pixel.
func (fb *FrameBuffer) GetIndex(x, y uint) uint8 {
	return fb.indices[y*fb.width+x]
}

// SetPixel stores a system palette index and its RGBA color.
func (fb *FrameBuffer) SetPixel(x, y uint, index uint8) {
	i := y*fb.width + x
	fb.indices[i] = index & 0x3F
	fb.buffer[i] = SystemPalette[index&0x3F]
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// Indices exposes the palette index plane.
func (fb *FrameBuffer) Indices() []uint8 {
	return fb.indices
}

// CopyFrom overwrites fb with src. Both must have the same size.
func (fb *FrameBuffer) CopyFrom(src *FrameBuffer) {
	copy(fb.indices, src.indices)
	copy(fb.buffer, src.buffer)
}
