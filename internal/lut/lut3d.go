package lut

import (
	"fmt"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
)

// Interpolation selects how a 3D table is sampled between nodes.
type Interpolation int

const (
	InterpBest Interpolation = iota
	InterpNearest
	InterpLinear
	InterpTetrahedral
)

// ParseInterpolation maps the user facing names "Best", "Nearest", "Linear"
// and "Tetrahedral" to an Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "Best", "":
		return InterpBest, nil
	case "Nearest":
		return InterpNearest, nil
	case "Linear":
		return InterpLinear, nil
	case "Tetrahedral":
		return InterpTetrahedral, nil
	default:
		return InterpBest, fmt.Errorf("unknown interpolation %q", s)
	}
}

// String returns the user facing name.
func (i Interpolation) String() string {
	switch i {
	case InterpNearest:
		return "Nearest"
	case InterpLinear:
		return "Linear"
	case InterpTetrahedral:
		return "Tetrahedral"
	default:
		return "Best"
	}
}

// LUT3D is a size^3 lattice of RGB outputs, stored red-fastest.
type LUT3D struct {
	N      int
	Min    [3]float32
	Max    [3]float32
	Data   [][3]float32
	Interp Interpolation
}

// NewLUT3D returns an identity table of the given size over [0, 1].
func NewLUT3D(n int) *LUT3D {
	l := &LUT3D{N: n, Max: [3]float32{1, 1, 1}, Data: make([][3]float32, n*n*n)}
	s := float32(n - 1)
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				l.Data[l.index(r, g, b)] = [3]float32{float32(r) / s, float32(g) / s, float32(b) / s}
			}
		}
	}
	return l
}

// FromLattice builds a table from a lattice image produced by
// imaging.Lattice(n, ...) and then processed. Only the first n^3 pixels are
// read.
func FromLattice(img *imaging.Image, n int) (*LUT3D, error) {
	count := n * n * n
	if img.Empty() || img.Channels < 3 || img.Count() < count {
		return nil, fmt.Errorf("lattice image too small for size %d", n)
	}
	l := &LUT3D{N: n, Max: [3]float32{1, 1, 1}, Data: make([][3]float32, count)}
	for i := 0; i < count; i++ {
		p := img.Pix[i*img.Channels:]
		l.Data[i] = [3]float32{p[0], p[1], p[2]}
	}
	return l, nil
}

func (l *LUT3D) index(r, g, b int) int {
	return r + g*l.N + b*l.N*l.N
}

func (l *LUT3D) coord(c int, v float32) float32 {
	x := (v - l.Min[c]) / (l.Max[c] - l.Min[c]) * float32(l.N-1)
	if !(x > 0) {
		return 0
	}
	if x > float32(l.N-1) {
		return float32(l.N - 1)
	}
	return x
}

// Eval samples the table at (r, g, b).
func (l *LUT3D) Eval(r, g, b float32) [3]float32 {
	x, y, z := l.coord(0, r), l.coord(1, g), l.coord(2, b)

	switch l.Interp {
	case InterpNearest:
		return l.Data[l.index(int(x+0.5), int(y+0.5), int(z+0.5))]
	case InterpLinear:
		return l.trilinear(x, y, z)
	default:
		return l.tetrahedral(x, y, z)
	}
}

func (l *LUT3D) cell(x, y, z float32) (r0, g0, b0, r1, g1, b1 int, fr, fg, fb float32) {
	last := l.N - 1
	r0, g0, b0 = int(x), int(y), int(z)
	if r0 >= last {
		r0 = last - 1
	}
	if g0 >= last {
		g0 = last - 1
	}
	if b0 >= last {
		b0 = last - 1
	}
	return r0, g0, b0, r0 + 1, g0 + 1, b0 + 1, x - float32(r0), y - float32(g0), z - float32(b0)
}

func (l *LUT3D) trilinear(x, y, z float32) [3]float32 {
	r0, g0, b0, r1, g1, b1, fr, fg, fb := l.cell(x, y, z)
	var out [3]float32
	for c := 0; c < 3; c++ {
		c00 := lerp(l.Data[l.index(r0, g0, b0)][c], l.Data[l.index(r1, g0, b0)][c], fr)
		c10 := lerp(l.Data[l.index(r0, g1, b0)][c], l.Data[l.index(r1, g1, b0)][c], fr)
		c01 := lerp(l.Data[l.index(r0, g0, b1)][c], l.Data[l.index(r1, g0, b1)][c], fr)
		c11 := lerp(l.Data[l.index(r0, g1, b1)][c], l.Data[l.index(r1, g1, b1)][c], fr)
		out[c] = lerp(lerp(c00, c10, fg), lerp(c01, c11, fg), fb)
	}
	return out
}

func (l *LUT3D) tetrahedral(x, y, z float32) [3]float32 {
	r0, g0, b0, r1, g1, b1, fr, fg, fb := l.cell(x, y, z)
	c000 := l.Data[l.index(r0, g0, b0)]
	c111 := l.Data[l.index(r1, g1, b1)]

	var (
		w0, w1, w2, w3 float32
		n1, n2         [3]float32
	)
	switch {
	case fr > fg && fg > fb:
		n1, n2 = l.Data[l.index(r1, g0, b0)], l.Data[l.index(r1, g1, b0)]
		w0, w1, w2, w3 = 1-fr, fr-fg, fg-fb, fb
	case fr > fg && fr > fb:
		n1, n2 = l.Data[l.index(r1, g0, b0)], l.Data[l.index(r1, g0, b1)]
		w0, w1, w2, w3 = 1-fr, fr-fb, fb-fg, fg
	case fr > fg:
		n1, n2 = l.Data[l.index(r0, g0, b1)], l.Data[l.index(r1, g0, b1)]
		w0, w1, w2, w3 = 1-fb, fb-fr, fr-fg, fg
	case fb > fg:
		n1, n2 = l.Data[l.index(r0, g0, b1)], l.Data[l.index(r0, g1, b1)]
		w0, w1, w2, w3 = 1-fb, fb-fg, fg-fr, fr
	case fb > fr:
		n1, n2 = l.Data[l.index(r0, g1, b0)], l.Data[l.index(r0, g1, b1)]
		w0, w1, w2, w3 = 1-fg, fg-fb, fb-fr, fr
	default:
		n1, n2 = l.Data[l.index(r0, g1, b0)], l.Data[l.index(r1, g1, b0)]
		w0, w1, w2, w3 = 1-fg, fg-fr, fr-fb, fb
	}

	var out [3]float32
	for c := 0; c < 3; c++ {
		out[c] = w0*c000[c] + w1*n1[c] + w2*n2[c] + w3*c111[c]
	}
	return out
}

// Apply runs the table on the RGB channels of img in place.
func (l *LUT3D) Apply(img *imaging.Image) {
	img.MapRGB(func(r, g, b float32) (float32, float32, float32) {
		o := l.Eval(r, g, b)
		return o[0], o[1], o[2]
	})
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
