package colorspace

import (
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// encoding converts between one color encoding and go-colorful's Color.
// Hue components are normalized to 0-1.
type encoding struct {
	decode func(a, b, c float64) colorful.Color
	encode func(colorful.Color) (float64, float64, float64)
}

var encodings = map[string]encoding{
	"srgb": {
		decode: func(r, g, b float64) colorful.Color { return colorful.Color{R: r, G: g, B: b} },
		encode: func(c colorful.Color) (float64, float64, float64) { return c.R, c.G, c.B },
	},
	"linear": {
		decode: colorful.LinearRgb,
		encode: func(c colorful.Color) (float64, float64, float64) { return c.LinearRgb() },
	},
	"xyz": {
		decode: colorful.Xyz,
		encode: func(c colorful.Color) (float64, float64, float64) { return c.Xyz() },
	},
	"lab": {
		decode: colorful.Lab,
		encode: func(c colorful.Color) (float64, float64, float64) { return c.Lab() },
	},
	"hsv": {
		decode: func(h, s, v float64) colorful.Color { return colorful.Hsv(h*360, s, v) },
		encode: func(c colorful.Color) (float64, float64, float64) {
			h, s, v := c.Hsv()
			return h / 360, s, v
		},
	},
	"hsl": {
		decode: func(h, s, l float64) colorful.Color { return colorful.Hsl(h*360, s, l) },
		encode: func(c colorful.Color) (float64, float64, float64) {
			h, s, l := c.Hsl()
			return h / 360, s, l
		},
	},
}

// Encodings lists the encoding names a color space may use.
func Encodings() []string {
	names := make([]string, 0, len(encodings))
	for n := range encodings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func lookupEncoding(name string) (encoding, error) {
	e, ok := encodings[name]
	if !ok {
		return encoding{}, fmt.Errorf("unknown encoding %q", name)
	}
	return e, nil
}
