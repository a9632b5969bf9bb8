package lut

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
)

func identity1D(n int) *LUT1D {
	l := &LUT1D{Min: 0, Max: 1, Data: make([][3]float32, n)}
	for i := range l.Data {
		v := float32(i) / float32(n-1)
		l.Data[i] = [3]float32{v, v, v}
	}
	return l
}

func TestLUT1DEval(t *testing.T) {
	l := &LUT1D{Min: 0, Max: 1, Data: [][3]float32{{0, 0, 1}, {0.5, 1, 0.5}, {1, 1, 0}}}

	assert.InDelta(t, 0.25, l.Eval(0, 0.25), 1e-6)
	assert.InDelta(t, 0.5, l.Eval(1, 0.25), 1e-6)
	assert.InDelta(t, 0.75, l.Eval(2, 0.25), 1e-6)

	// Clamped outside the domain.
	assert.Equal(t, float32(0), l.Eval(0, -1))
	assert.Equal(t, float32(1), l.Eval(0, 2))
}

func TestLUT1DInvert(t *testing.T) {
	// Square curve sampled densely.
	n := 1024
	l := &LUT1D{Min: 0, Max: 1, Data: make([][3]float32, n)}
	for i := range l.Data {
		x := float32(i) / float32(n-1)
		l.Data[i] = [3]float32{x * x, x * x, x * x}
	}

	for _, x := range []float32{0.1, 0.3, 0.5, 0.9} {
		y := l.Eval(0, x)
		assert.InDelta(t, x, l.Invert(0, y), 1e-3, "x=%v", x)
	}
	assert.Equal(t, float32(0), l.Invert(0, -0.5))
	assert.Equal(t, float32(1), l.Invert(0, 1.5))
}

func TestLUT1DInvertFlatSegment(t *testing.T) {
	l := &LUT1D{Min: 0, Max: 1, Data: [][3]float32{{0, 0, 0}, {0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {1, 1, 1}}}
	got := l.Invert(0, 0.5)
	assert.InDelta(t, 2.0/3.0, got, 1e-6)
}

func TestLUT1DInvertDecreasing(t *testing.T) {
	n := 256
	l := &LUT1D{Min: 0, Max: 1, Data: make([][3]float32, n)}
	for i := range l.Data {
		x := float32(i) / float32(n-1)
		l.Data[i] = [3]float32{1 - x, 1 - x*x, 1 - x}
	}

	for _, x := range []float32{0, 0.1, 0.45, 0.8, 1} {
		assert.InDelta(t, x, l.Invert(0, l.Eval(0, x)), 1e-4, "linear x=%v", x)
		assert.InDelta(t, x, l.Invert(1, l.Eval(1, x)), 1e-2, "square x=%v", x)
	}
	assert.Equal(t, float32(0), l.Invert(0, 1.5))
	assert.Equal(t, float32(1), l.Invert(0, -0.5))
}

func TestLUT1DApplyRoundTrip(t *testing.T) {
	ramp := imaging.Ramp1D(256, 0, 1, imaging.RampNeutral)
	curve := ramp.Clone()
	curve.MapRGB(func(r, g, b float32) (float32, float32, float32) {
		return r * r, g * g, b * b
	})
	l, err := FromRamp(curve, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 256, l.Size())

	img := imaging.New(3, 1, 3)
	copy(img.Pix, []float32{0.2, 0.4, 0.6, 0.5, 0.5, 0.5, 0.9, 0.1, 0.3})
	orig := img.Clone()

	l.Apply(img)
	assert.InDelta(t, 0.04, img.Pix[0], 1e-3)
	l.ApplyInverse(img)
	for i := range img.Pix {
		assert.InDelta(t, orig.Pix[i], img.Pix[i], 2e-3)
	}
}

func TestFromRampRejectsGray(t *testing.T) {
	_, err := FromRamp(imaging.New(4, 1, 1), 0, 1)
	assert.Error(t, err)
}

func TestLUT1DIsIdentity(t *testing.T) {
	assert.True(t, identity1D(16).IsIdentity(1e-6))
	l := identity1D(16)
	l.Data[3][1] += 0.01
	assert.False(t, l.IsIdentity(1e-3))
}

func TestLUT3DIdentity(t *testing.T) {
	for _, interp := range []Interpolation{InterpNearest, InterpLinear, InterpTetrahedral} {
		l := NewLUT3D(17)
		l.Interp = interp
		got := l.Eval(0.25, 0.5, 0.75)
		assert.InDelta(t, 0.25, got[0], 1e-5, interp.String())
		assert.InDelta(t, 0.5, got[1], 1e-5, interp.String())
		assert.InDelta(t, 0.75, got[2], 1e-5, interp.String())
	}
}

func TestLUT3DInterpolatesLinearFunction(t *testing.T) {
	// A lattice holding an affine function is reproduced exactly by both
	// trilinear and tetrahedral sampling.
	l := NewLUT3D(5)
	for i, v := range l.Data {
		l.Data[i] = [3]float32{0.5*v[0] + 0.25*v[1], v[2], 1 - v[0]}
	}
	for _, interp := range []Interpolation{InterpLinear, InterpTetrahedral} {
		l.Interp = interp
		for _, p := range [][3]float32{{0.1, 0.7, 0.3}, {0.9, 0.2, 0.6}, {0.33, 0.33, 0.8}, {1, 1, 1}} {
			got := l.Eval(p[0], p[1], p[2])
			assert.InDelta(t, 0.5*p[0]+0.25*p[1], got[0], 1e-5)
			assert.InDelta(t, p[2], got[1], 1e-5)
			assert.InDelta(t, 1-p[0], got[2], 1e-5)
		}
	}
}

func TestLUT3DNearest(t *testing.T) {
	l := NewLUT3D(3)
	l.Interp = InterpNearest
	got := l.Eval(0.2, 0.3, 0.8)
	assert.Equal(t, [3]float32{0, 0.5, 1}, got)
}

func TestLUT3DClampsOutOfDomain(t *testing.T) {
	l := NewLUT3D(9)
	got := l.Eval(-1, 2, 0.5)
	assert.InDelta(t, 0, got[0], 1e-6)
	assert.InDelta(t, 1, got[1], 1e-6)
}

func TestFromLattice(t *testing.T) {
	img := imaging.Lattice(4, 10)
	l, err := FromLattice(img, 4)
	require.NoError(t, err)
	assert.Equal(t, NewLUT3D(4).Data, l.Data)

	_, err = FromLattice(imaging.New(2, 2, 3), 4)
	assert.Error(t, err)
}

func TestParseInterpolation(t *testing.T) {
	for _, name := range []string{"Best", "Nearest", "Linear", "Tetrahedral"} {
		i, err := ParseInterpolation(name)
		require.NoError(t, err)
		assert.Equal(t, name, i.String())
	}
	_, err := ParseInterpolation("Cubic")
	assert.Error(t, err)
}

func TestWriteCube3DLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCube3D(&buf, NewLUT3D(2)))

	want := "LUT_3D_SIZE 2\n" +
		"DOMAIN_MIN 0.000000 0.000000 0.000000\n" +
		"DOMAIN_MAX 1.000000 1.000000 1.000000\n" +
		"\n" +
		"0.000000 0.000000 0.000000\n" +
		"1.000000 0.000000 0.000000\n" +
		"0.000000 1.000000 0.000000\n" +
		"1.000000 1.000000 0.000000\n" +
		"0.000000 0.000000 1.000000\n" +
		"1.000000 0.000000 1.000000\n" +
		"0.000000 1.000000 1.000000\n" +
		"1.000000 1.000000 1.000000\n"
	assert.Equal(t, want, buf.String())
}

func TestReadCube3D(t *testing.T) {
	var buf bytes.Buffer
	src := NewLUT3D(3)
	src.Data[5] = [3]float32{0.25, 0.125, 0.75}
	require.NoError(t, WriteCube3D(&buf, src))

	f, err := ReadCube(&buf)
	require.NoError(t, err)
	require.NotNil(t, f.Cube)
	assert.Nil(t, f.Shaper)
	assert.Equal(t, 3, f.Cube.N)
	assert.Equal(t, src.Data, f.Cube.Data)
}

func TestReadCube1DWithTitle(t *testing.T) {
	in := `# comment
TITLE "Square"
LUT_1D_SIZE 3
LUT_1D_INPUT_RANGE 0.0 2.0
0 0 0
0.25 0.25 0.25
1 1 1
`
	f, err := ReadCube(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "Square", f.Title)
	require.NotNil(t, f.Shaper)
	assert.Nil(t, f.Cube)
	assert.Equal(t, float32(2), f.Shaper.Max)
	assert.InDelta(t, 0.25, f.Shaper.Eval(0, 1), 1e-6)
}

func TestReadCubeErrors(t *testing.T) {
	cases := map[string]string{
		"no size":     "0 0 0\n",
		"short":       "LUT_3D_SIZE 2\n0 0 0\n",
		"bad number":  "LUT_1D_SIZE 2\n0 0 x\n1 1 1\n",
		"bad size":    "LUT_3D_SIZE one\n",
		"two values":  "LUT_1D_SIZE 2\n0 0\n1 1 1\n",
		"flat domain": "LUT_1D_SIZE 2\nDOMAIN_MIN 1 1 1\n0 0 0\n1 1 1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCube(strings.NewReader(in))
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestSPI1D(t *testing.T) {
	in := `Version 1
From 0.0 1.0
Length 3
Components 1
{
    0.0
    0.25
    1.0
}
`
	l, err := ReadSPI1D(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, l.Size())
	assert.Equal(t, [3]float32{0.25, 0.25, 0.25}, l.Data[1])

	var buf bytes.Buffer
	require.NoError(t, WriteSPI1D(&buf, l))
	back, err := ReadSPI1D(&buf)
	require.NoError(t, err)
	assert.Equal(t, l.Data, back.Data)
}

func TestSPI1DErrors(t *testing.T) {
	_, err := ReadSPI1D(strings.NewReader("Version 1\nFrom 0 1\n{\n0\n}\n"))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ReadSPI1D(strings.NewReader("Version 1\nLength 3\nComponents 1\n{\n0\n1\n}\n"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	cube := filepath.Join(dir, "look.CUBE")
	fh, err := os.Create(cube)
	require.NoError(t, err)
	require.NoError(t, WriteCube3D(fh, NewLUT3D(2)))
	require.NoError(t, fh.Close())

	f, err := Load(cube)
	require.NoError(t, err)
	assert.NotNil(t, f.Cube)

	spi := filepath.Join(dir, "curve.spi1d")
	fh, err = os.Create(spi)
	require.NoError(t, err)
	require.NoError(t, WriteSPI1D(fh, identity1D(4)))
	require.NoError(t, fh.Close())

	f, err = Load(spi)
	require.NoError(t, err)
	assert.NotNil(t, f.Shaper)

	other := filepath.Join(dir, "x.3dl")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	_, err = Load(other)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Load(filepath.Join(dir, "missing.cube"))
	assert.Error(t, err)
}
