package lut

import (
	"fmt"
	"sort"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
)

// LUT1D is a per-channel curve sampled at Size evenly spaced inputs covering
// [Min, Max].
type LUT1D struct {
	Min  float32
	Max  float32
	Data [][3]float32
}

// Size returns the number of samples.
func (l *LUT1D) Size() int {
	return len(l.Data)
}

// FromRamp builds a 1D table from a processed ramp image: sample i of the
// table is pixel i of the ramp. The ramp must have at least 3 channels.
func FromRamp(ramp *imaging.Image, min, max float32) (*LUT1D, error) {
	if ramp.Empty() || ramp.Channels < 3 {
		return nil, fmt.Errorf("ramp must be a non-empty RGB image")
	}
	n := ramp.Count()
	l := &LUT1D{Min: min, Max: max, Data: make([][3]float32, n)}
	for i := 0; i < n; i++ {
		p := ramp.Pix[i*ramp.Channels:]
		l.Data[i] = [3]float32{p[0], p[1], p[2]}
	}
	return l, nil
}

// Eval returns the value of channel c at input v using linear interpolation.
// Inputs outside the domain take the end samples.
func (l *LUT1D) Eval(c int, v float32) float32 {
	n := len(l.Data)
	if n == 0 {
		return v
	}
	if n == 1 {
		return l.Data[0][c]
	}
	x := (v - l.Min) / (l.Max - l.Min) * float32(n-1)
	if !(x > 0) {
		return l.Data[0][c]
	}
	if x >= float32(n-1) {
		return l.Data[n-1][c]
	}
	i := int(x)
	f := x - float32(i)
	return l.Data[i][c]*(1-f) + l.Data[i+1][c]*f
}

// Invert returns the input that channel c maps to v. The curve must be
// monotone; its direction is taken from the end samples. Values beyond the
// curve range map to the domain ends.
func (l *LUT1D) Invert(c int, v float32) float32 {
	n := len(l.Data)
	if n < 2 {
		return v
	}
	first, last := l.Data[0][c], l.Data[n-1][c]
	if last < first {
		return l.invertDecreasing(c, v)
	}
	if v <= first {
		return l.Min
	}
	if v >= last {
		return l.Max
	}

	// First sample strictly above v; the segment [i-1, i] brackets v.
	i := sort.Search(n, func(k int) bool { return l.Data[k][c] > v })
	lo, hi := l.Data[i-1][c], l.Data[i][c]
	f := float32(0)
	if hi > lo {
		f = (v - lo) / (hi - lo)
	}
	return l.input(i-1, f)
}

func (l *LUT1D) invertDecreasing(c int, v float32) float32 {
	n := len(l.Data)
	if v >= l.Data[0][c] {
		return l.Min
	}
	if v <= l.Data[n-1][c] {
		return l.Max
	}

	// First sample strictly below v.
	i := sort.Search(n, func(k int) bool { return l.Data[k][c] < v })
	hi, lo := l.Data[i-1][c], l.Data[i][c]
	f := float32(0)
	if hi > lo {
		f = (hi - v) / (hi - lo)
	}
	return l.input(i-1, f)
}

// input maps a fractional sample position i+f back to the domain.
func (l *LUT1D) input(i int, f float32) float32 {
	x := (float32(i) + f) / float32(len(l.Data)-1)
	return l.Min + x*(l.Max-l.Min)
}

// Apply runs the table forward on the RGB channels of img in place.
func (l *LUT1D) Apply(img *imaging.Image) {
	img.MapRGB(func(r, g, b float32) (float32, float32, float32) {
		return l.Eval(0, r), l.Eval(1, g), l.Eval(2, b)
	})
}

// ApplyInverse runs the inverse table on the RGB channels of img in place.
func (l *LUT1D) ApplyInverse(img *imaging.Image) {
	img.MapRGB(func(r, g, b float32) (float32, float32, float32) {
		return l.Invert(0, r), l.Invert(1, g), l.Invert(2, b)
	})
}

// IsIdentity reports whether every sample equals its own input within tol.
func (l *LUT1D) IsIdentity(tol float32) bool {
	n := len(l.Data)
	for i, s := range l.Data {
		in := l.Min
		if n > 1 {
			in = l.Min + (l.Max-l.Min)*float32(i)/float32(n-1)
		}
		for c := 0; c < 3; c++ {
			d := s[c] - in
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}
