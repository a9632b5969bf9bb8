package imaging

import (
	"fmt"
	"math"
)

// PixelFormat describes the channel layout of an Image.
type PixelFormat int

const (
	FormatGray PixelFormat = iota
	FormatRGB
	FormatRGBA
	FormatUnknown
)

// String returns the lowercase name of the layout.
func (f PixelFormat) String() string {
	switch f {
	case FormatGray:
		return "gray"
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	default:
		return "unknown"
	}
}

// Image is an interleaved floating point pixel buffer.
//
// Pixels are stored row-major, Channels values per pixel, with nominal range
// 0-1. Values outside that range are kept as-is: transforms may legitimately
// produce them and they are only clamped on encode.
//
// Color transforms operate on the first three channels. A fourth channel, when
// present, is alpha and is carried through untouched by transforms but is
// blended like any other channel by Combine.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []float32

	// Source describes the file the image was decoded from, if any.
	Source SourceInfo
}

// SourceInfo records metadata about the encoded file behind an Image.
type SourceInfo struct {
	Path       string
	Format     string
	ColorDepth string
	HasAlpha   bool
}

// New allocates a zeroed image.
func New(width, height, channels int) *Image {
	if width < 0 || height < 0 || channels < 0 {
		width, height, channels = 0, 0, 0
	}
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float32, width*height*channels),
	}
}

// Empty reports whether the image holds no pixels. A nil image is empty.
func (m *Image) Empty() bool {
	return m == nil || m.Width == 0 || m.Height == 0 || m.Channels == 0
}

// Count returns the number of pixels.
func (m *Image) Count() int {
	if m == nil {
		return 0
	}
	return m.Width * m.Height
}

// Format returns the channel layout.
func (m *Image) Format() PixelFormat {
	switch m.Channels {
	case 1:
		return FormatGray
	case 3:
		return FormatRGB
	case 4:
		return FormatRGBA
	default:
		return FormatUnknown
	}
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	if m == nil {
		return nil
	}
	c := *m
	c.Pix = make([]float32, len(m.Pix))
	copy(c.Pix, m.Pix)
	return &c
}

// Pixel returns the channel values of pixel (x, y) as a slice aliasing Pix.
func (m *Image) Pixel(x, y int) []float32 {
	i := (y*m.Width + x) * m.Channels
	return m.Pix[i : i+m.Channels : i+m.Channels]
}

// SameShape reports whether o has the same dimensions and channel count.
func (m *Image) SameShape(o *Image) bool {
	return m.Width == o.Width && m.Height == o.Height && m.Channels == o.Channels
}

// Equal reports whether both images have the same shape and identical pixels.
func (m *Image) Equal(o *Image) bool {
	if m == nil || o == nil {
		return m == o
	}
	if !m.SameShape(o) {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != o.Pix[i] && !(isNaN(m.Pix[i]) && isNaN(o.Pix[i])) {
			return false
		}
	}
	return true
}

// MapRGB rewrites the first three channels of every pixel with fn. Images with
// fewer than three channels are left unchanged.
func (m *Image) MapRGB(fn func(r, g, b float32) (float32, float32, float32)) {
	if m.Channels < 3 {
		return
	}
	for i := 0; i+2 < len(m.Pix); i += m.Channels {
		m.Pix[i], m.Pix[i+1], m.Pix[i+2] = fn(m.Pix[i], m.Pix[i+1], m.Pix[i+2])
	}
}

// Term is one weighted image of a linear combination.
type Term struct {
	Image  *Image
	Weight float32
}

// Combine returns the per-sample weighted sum of the given terms. All images
// must share the same shape.
func Combine(terms ...Term) (*Image, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("combine: no terms")
	}
	first := terms[0].Image
	for _, t := range terms[1:] {
		if !first.SameShape(t.Image) {
			return nil, fmt.Errorf("combine: shape mismatch %dx%dx%d vs %dx%dx%d",
				first.Width, first.Height, first.Channels,
				t.Image.Width, t.Image.Height, t.Image.Channels)
		}
	}

	out := New(first.Width, first.Height, first.Channels)
	out.Source = first.Source
	for i := range out.Pix {
		var v float32
		for _, t := range terms {
			v += t.Image.Pix[i] * t.Weight
		}
		out.Pix[i] = v
	}
	return out, nil
}

// Mix returns a*(1-t) + b*t.
func Mix(a, b *Image, t float32) (*Image, error) {
	return Combine(Term{a, 1 - t}, Term{b, t})
}

func isNaN(v float32) bool {
	return math.IsNaN(float64(v))
}
