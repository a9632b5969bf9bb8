package filetransform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/lut"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
)

func writeCube(t *testing.T, dir, name string, l *lut.LUT3D) string {
	t.Helper()
	path := filepath.Join(dir, name)
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, lut.WriteCube3D(fh, l))
	require.NoError(t, fh.Close())
	return path
}

func writeSPI(t *testing.T, dir, name string, l *lut.LUT1D) string {
	t.Helper()
	path := filepath.Join(dir, name)
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, lut.WriteSPI1D(fh, l))
	require.NoError(t, fh.Close())
	return path
}

// invertedCube maps every color to its complement.
func invertedCube(n int) *lut.LUT3D {
	l := lut.NewLUT3D(n)
	for i, v := range l.Data {
		l.Data[i] = [3]float32{1 - v[0], 1 - v[1], 1 - v[2]}
	}
	return l
}

func squareCurve(n int) *lut.LUT1D {
	l := &lut.LUT1D{Min: 0, Max: 1, Data: make([][3]float32, n)}
	for i := range l.Data {
		x := float32(i) / float32(n-1)
		l.Data[i] = [3]float32{x * x, x * x, x * x}
	}
	return l
}

func pixel(r, g, b float32) *imaging.Image {
	img := imaging.New(1, 1, 3)
	copy(img.Pix, []float32{r, g, b})
	return img
}

func newOp(t *testing.T) (*operator.Operator, *Kernel) {
	t.Helper()
	op, err := New()
	require.NoError(t, err)
	return op, op.Kernel().(*Kernel)
}

func TestEmptyIsIdentity(t *testing.T) {
	op, _ := newOp(t)
	assert.True(t, op.IsIdentity())
	assert.Equal(t, Name, op.Name())
	assert.Equal(t, "FT", op.Label())
	assert.Contains(t, op.Description(), "no active table")
}

func TestParameters(t *testing.T) {
	op, _ := newOp(t)
	assert.Equal(t, []string{ParamLUT, ParamInterpolation, ParamDirection}, op.Parameters().Categories()["File"])
}

func TestLoadCubeThroughParameter(t *testing.T) {
	path := writeCube(t, t.TempDir(), "invert.cube", invertedCube(5))
	op, _ := newOp(t)

	updates := 0
	op.Updated().Subscribe(func(*operator.Operator) { updates++ })
	require.NoError(t, op.SetParameter(ParamLUT, path))
	assert.Equal(t, 1, updates)

	assert.False(t, op.IsIdentity())
	assert.Equal(t, "FT - invert.cube", op.Label())

	out := op.Apply(pixel(0.2, 0.5, 0.9))
	assert.InDelta(t, 0.8, out.Pix[0], 1e-5)
	assert.InDelta(t, 0.5, out.Pix[1], 1e-5)
	assert.InDelta(t, 0.1, out.Pix[2], 1e-5)
}

func TestLoadPathIsQuiet(t *testing.T) {
	path := writeCube(t, t.TempDir(), "invert.cube", invertedCube(3))
	op, _ := newOp(t)

	updates := 0
	op.Updated().Subscribe(func(*operator.Operator) { updates++ })
	require.NoError(t, op.LoadPath(path))
	assert.Equal(t, 0, updates)
	assert.Equal(t, path, op.Parameter(ParamLUT).String())
	assert.False(t, op.IsIdentity())
}

func TestBestInterpolationIsTetrahedral(t *testing.T) {
	path := writeCube(t, t.TempDir(), "invert.cube", invertedCube(3))
	op, k := newOp(t)
	require.NoError(t, op.LoadPath(path))
	assert.Equal(t, lut.InterpTetrahedral, k.file.Cube.Interp)

	require.NoError(t, op.SetParameter(ParamInterpolation, "Nearest"))
	assert.Equal(t, lut.InterpNearest, k.file.Cube.Interp)
}

func TestInverse3DFallsBackToIdentity(t *testing.T) {
	path := writeCube(t, t.TempDir(), "invert.cube", invertedCube(3))
	op, _ := newOp(t)
	require.NoError(t, op.LoadPath(path))

	require.NoError(t, op.SetParameter(ParamDirection, "Inverse"))
	assert.True(t, op.IsIdentity())

	// The file stays loaded and comes back with the forward direction.
	require.NoError(t, op.SetParameter(ParamDirection, "Forward"))
	assert.False(t, op.IsIdentity())
}

func TestSPI1DInverse(t *testing.T) {
	path := writeSPI(t, t.TempDir(), "square.spi1d", squareCurve(1024))
	op, _ := newOp(t)
	require.NoError(t, op.LoadPath(path))

	out := op.Apply(pixel(0.5, 0.3, 0.9))
	assert.InDelta(t, 0.25, out.Pix[0], 1e-3)

	require.NoError(t, op.SetParameter(ParamDirection, "Inverse"))
	out = op.Apply(pixel(0.25, 0.09, 0.81))
	assert.InDelta(t, 0.5, out.Pix[0], 1e-3)
	assert.InDelta(t, 0.3, out.Pix[1], 1e-3)
	assert.InDelta(t, 0.9, out.Pix[2], 1e-3)
}

func TestIdentityCurveIsIdentity(t *testing.T) {
	id := &lut.LUT1D{Min: 0, Max: 1, Data: [][3]float32{{0, 0, 0}, {0.5, 0.5, 0.5}, {1, 1, 1}}}
	path := writeSPI(t, t.TempDir(), "id.spi1d", id)
	op, _ := newOp(t)
	require.NoError(t, op.LoadPath(path))
	assert.True(t, op.IsIdentity())
}

func TestBadFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.cube")
	require.NoError(t, os.WriteFile(bad, []byte("LUT_3D_SIZE 2\n0 0 0\n"), 0o644))

	op, _ := newOp(t)
	assert.ErrorIs(t, op.LoadPath(bad), lut.ErrInvalidFormat)
	assert.True(t, op.IsIdentity())

	// Setting it through the parameter logs and stays a no-op.
	require.NoError(t, op.SetParameter(ParamLUT, filepath.Join(dir, "missing.cube")))
	assert.True(t, op.IsIdentity())
}

func TestClaims(t *testing.T) {
	op, _ := newOp(t)
	assert.True(t, op.Claims("/a/b/look.cube"))
	assert.True(t, op.Claims("curve.SPI1D"))
	assert.False(t, op.Claims("script.js"))
	assert.False(t, op.Claims("cube"))
}
