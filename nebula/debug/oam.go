package debug

import (
	"fmt"
)

const (
	OAMSpriteCount    = 64
	OAMBytesPerSprite = 4
	MaxSpritesPerLine = 8
)

// Sprite attribute bit positions
const (
	AttrFlipY              = 7
	AttrFlipX              = 6
	AttrBackgroundPriority = 5
)

// SpriteInfo is one decoded OAM entry. Y is the first screen line the
// sprite covers, one below the value stored in OAM.
type SpriteInfo struct {
	Index      int
	Y          int
	X          int
	TileIndex  uint8
	Attributes uint8
	IsVisible  bool
}

type SpriteAttributes struct {
	BackgroundPriority bool
	FlipY              bool
	FlipX              bool
	PaletteNumber      int
}

type OAMData struct {
	Sprites       []SpriteInfo
	CurrentLine   int
	ActiveSprites int
	SpriteHeight  int
}

// ExtractOAMData decodes a raw OAM image and marks the sprites covering
// currentLine.
func ExtractOAMData(oam [256]uint8, currentLine int, spriteHeight int) *OAMData {
	data := &OAMData{
		Sprites:      make([]SpriteInfo, OAMSpriteCount),
		CurrentLine:  currentLine,
		SpriteHeight: spriteHeight,
	}

	for i := range OAMSpriteCount {
		base := i * OAMBytesPerSprite
		top := int(oam[base]) + 1
		visible := top <= currentLine && currentLine < top+spriteHeight
		if visible {
			data.ActiveSprites++
		}

		data.Sprites[i] = SpriteInfo{
			Index:      i,
			Y:          top,
			X:          int(oam[base+3]),
			TileIndex:  oam[base+1],
			Attributes: oam[base+2],
			IsVisible:  visible,
		}
	}

	return data
}

func (s *SpriteInfo) DecodeAttributes() SpriteAttributes {
	return SpriteAttributes{
		BackgroundPriority: (s.Attributes & (1 << AttrBackgroundPriority)) != 0,
		FlipY:              (s.Attributes & (1 << AttrFlipY)) != 0,
		FlipX:              (s.Attributes & (1 << AttrFlipX)) != 0,
		PaletteNumber:      int(s.Attributes & 0x03),
	}
}

func (s *SpriteInfo) String() string {
	status := "OFF"
	if s.IsVisible {
		status = "ACTIVE"
	}
	return fmt.Sprintf("Sprite %2d: Y=%3d X=%3d  Tile=0x%02X Flags=0x%02X [%s]",
		s.Index, s.Y, s.X, s.TileIndex, s.Attributes, status)
}

func (data *OAMData) GetVisibleSprites() []SpriteInfo {
	visible := make([]SpriteInfo, 0, data.ActiveSprites)
	for _, sprite := range data.Sprites {
		if sprite.IsVisible {
			visible = append(visible, sprite)
		}
	}
	return visible
}

func (data *OAMData) FormatSummary() string {
	return fmt.Sprintf("Current Line: %d | Active Sprites: %d/%d | Height: %dpx",
		data.CurrentLine, data.ActiveSprites, MaxSpritesPerLine, data.SpriteHeight)
}
