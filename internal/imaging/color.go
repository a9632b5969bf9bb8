package imaging

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// FloatColor holds the raw float samples of a pixel. Values may fall outside
// 0-1 after a transform.
type FloatColor struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// HSLColor represents a color in HSL color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a pixel value in several representations.
//
// Float carries the exact samples; Hex, RGB and HSL are derived from the
// samples clamped to 0-1.
type ColorResult struct {
	Float FloatColor `json:"float"`
	Hex   string     `json:"hex"`
	RGB   RGBColor   `json:"rgb"`
	HSL   HSLColor   `json:"hsl"`
}

// SampleColor reads the pixel at (x, y).
//
// Coordinates are 0-based with origin at top-left. Returns an error if the
// coordinates are outside the image.
func SampleColor(img *Image, x, y int) (*ColorResult, error) {
	if img.Empty() {
		return nil, fmt.Errorf("no image to sample")
	}
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	px := img.Pixel(x, y)
	f := FloatColor{A: 1}
	switch {
	case img.Channels >= 3:
		f.R, f.G, f.B = px[0], px[1], px[2]
	default:
		f.R, f.G, f.B = px[0], px[0], px[0]
	}
	if img.Channels >= 4 {
		f.A = px[3]
	}

	c := colorful.Color{R: float64(f.R), G: float64(f.G), B: float64(f.B)}.Clamped()
	r8, g8, b8 := c.RGB255()
	h, s, l := c.Hsl()

	return &ColorResult{
		Float: f,
		Hex:   fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB:   RGBColor{R: r8, G: g8, B: b8},
		HSL:   HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}
