package skelfile

import (
	"encoding/hex"
	"errors"
)

// Color is an 8-bit per channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Default colors used where a format leaves a color out.
var (
	White            = Color{0xff, 0xff, 0xff, 0xff}
	DefaultBoneColor = Color{0x98, 0x98, 0x98, 0xff}
	DefaultSkinColor = Color{0xfe, 0x9e, 0x4f, 0xff}
	BoundingBoxColor = Color{0x60, 0xf0, 0x00, 0xff}
	PathColor        = Color{0xff, 0x7f, 0x00, 0xff}
	PointColor       = Color{0xf1, 0xf1, 0x00, 0xff}
	ClippingColor    = Color{0xce, 0x3a, 0x3a, 0xff}
)

var errColorMalformed = errors.New("malformed color")

// RGBA returns the color packed as 0xRRGGBBAA.
func (c Color) RGBA() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// ColorFromRGBA unpacks a color from 0xRRGGBBAA.
func ColorFromRGBA(v uint32) Color {
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// Channel returns the i-th channel, in RGBA order, normalized to [0, 1].
func (c Color) Channel(i int) float32 {
	switch i {
	case 0:
		return float32(c.R) / 255
	case 1:
		return float32(c.G) / 255
	case 2:
		return float32(c.B) / 255
	case 3:
		return float32(c.A) / 255
	}
	return 0
}

// Hex formats the color as "rrggbbaa".
func (c Color) Hex() string {
	return hex.EncodeToString([]byte{c.R, c.G, c.B, c.A})
}

// HexRGB formats the color as "rrggbb", dropping alpha.
func (c Color) HexRGB() string {
	return hex.EncodeToString([]byte{c.R, c.G, c.B})
}

// ParseColor parses "rrggbbaa" or "rrggbb". A missing alpha channel is
// opaque.
func ParseColor(s string) (c Color, err error) {
	if len(s) != 8 && len(s) != 6 {
		return c, errColorMalformed
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return c, errColorMalformed
	}
	c = Color{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}
