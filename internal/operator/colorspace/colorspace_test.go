package colorspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/lut"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
	"github.com/ironsheep/look-tools-mcp/internal/param"
)

func pixel(r, g, b float32) *imaging.Image {
	img := imaging.New(1, 1, 3)
	copy(img.Pix, []float32{r, g, b})
	return img
}

func newOp(t *testing.T) *operator.Operator {
	t.Helper()
	op, err := New()
	require.NoError(t, err)
	return op
}

func TestBuiltinDefaults(t *testing.T) {
	op := newOp(t)
	assert.True(t, op.IsIdentity())
	assert.Equal(t, "CSC - builtin", op.Label())

	src, ok := param.Get[*param.Select](op.Parameters(), ParamSource)
	require.True(t, ok)
	assert.Equal(t, "sRGB", src.Value())
	assert.Len(t, src.Choices(), 6)
	assert.Len(t, src.Descriptions(), 6)

	look, _ := param.Get[*param.Select](op.Parameters(), ParamLook)
	assert.Equal(t, []string{""}, look.Choices())
}

func TestSRGBToLinear(t *testing.T) {
	op := newOp(t)
	require.NoError(t, op.SetParameter(ParamDestination, "Linear sRGB"))
	assert.False(t, op.IsIdentity())

	out := op.Apply(pixel(0.5, 1, 0))
	assert.InDelta(t, 0.2140, out.Pix[0], 1e-4)
	assert.InDelta(t, 1, out.Pix[1], 1e-6)
	assert.InDelta(t, 0, out.Pix[2], 1e-6)

	require.NoError(t, op.SetParameter(ParamDirection, "Inverse"))
	back := op.Apply(out)
	assert.InDelta(t, 0.5, back.Pix[0], 1e-5)
}

func TestHSVNormalizesHue(t *testing.T) {
	op := newOp(t)
	require.NoError(t, op.SetParameter(ParamDestination, "HSV"))
	out := op.Apply(pixel(0, 0, 1))
	assert.InDelta(t, 240.0/360.0, out.Pix[0], 1e-5)
	assert.InDelta(t, 1, out.Pix[1], 1e-6)
	assert.InDelta(t, 1, out.Pix[2], 1e-6)
}

func TestUnknownSpaceFallsBack(t *testing.T) {
	op := newOp(t)
	require.NoError(t, op.SetParameter(ParamDestination, "Linear sRGB"))
	require.NoError(t, op.SetParameter(ParamSource, "ACES"))
	assert.True(t, op.IsIdentity())
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	curve := &lut.LUT1D{Min: 0, Max: 1, Data: make([][3]float32, 256)}
	for i := range curve.Data {
		x := float32(i) / 255
		curve.Data[i] = [3]float32{x * x, x * x, x * x}
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "looks"), 0o755))
	fh, err := os.Create(filepath.Join(dir, "looks", "square.spi1d"))
	require.NoError(t, err)
	require.NoError(t, lut.WriteSPI1D(fh, curve))
	require.NoError(t, fh.Close())

	cfg := `name: studio
colorspaces:
  - name: lin
    family: Scene
    encoding: linear
  - name: display
    family: Display
    encoding: srgb
  - name: linear_alias
    family: Utility/Aliases
    encoding: linear
looks:
  - name: square
    process_space: display
    lut: looks/square.spi1d
    description: squares display values
`
	path := filepath.Join(dir, "studio"+ConfigSuffix)
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t)
	op := newOp(t)
	assert.True(t, op.Claims(path))
	assert.False(t, op.Claims("studio.yaml"))

	updates := 0
	op.Updated().Subscribe(func(*operator.Operator) { updates++ })
	require.NoError(t, op.LoadPath(path))
	assert.Equal(t, 0, updates)
	assert.Equal(t, "CSC - studio.colorspace.yaml", op.Label())

	src, _ := param.Get[*param.Select](op.Parameters(), ParamSource)
	assert.Equal(t, []string{"lin", "display"}, src.Choices(), "aliases hidden")
	assert.Equal(t, "lin", src.Value())
	assert.True(t, op.IsIdentity())
}

func TestLookInProcessSpace(t *testing.T) {
	op := newOp(t)
	require.NoError(t, op.LoadPath(writeConfig(t)))
	require.NoError(t, op.SetParameter(ParamSource, "display"))
	require.NoError(t, op.SetParameter(ParamDestination, "display"))
	require.NoError(t, op.SetParameter(ParamLook, "square"))
	assert.False(t, op.IsIdentity())

	out := op.Apply(pixel(0.5, 0.2, 1))
	assert.InDelta(t, 0.25, out.Pix[0], 1e-3)
	assert.InDelta(t, 0.04, out.Pix[1], 1e-3)
	assert.InDelta(t, 1, out.Pix[2], 1e-3)

	require.NoError(t, op.SetParameter(ParamDirection, "Inverse"))
	back := op.Apply(out)
	assert.InDelta(t, 0.5, back.Pix[0], 1e-3)
}

func TestConfigViaParameter(t *testing.T) {
	path := writeConfig(t)
	op := newOp(t)
	updates := 0
	op.Updated().Subscribe(func(*operator.Operator) { updates++ })

	require.NoError(t, op.SetParameter(ParamConfig, path))
	assert.Equal(t, 1, updates)
	assert.Equal(t, "studio", op.Kernel().(*Kernel).Config().Name)
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"no spaces":      "name: x\n",
		"bad encoding":   "colorspaces:\n  - name: a\n    encoding: cmyk\n",
		"duplicate":      "colorspaces:\n  - name: a\n    encoding: srgb\n  - name: a\n    encoding: xyz\n",
		"look no lut":    "colorspaces:\n  - name: a\n    encoding: srgb\nlooks:\n  - name: l\n",
		"look bad space": "colorspaces:\n  - name: a\n    encoding: srgb\nlooks:\n  - name: l\n    lut: x.cube\n    process_space: b\n",
		"not yaml":       "colorspaces: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+ConfigSuffix)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err)

			op := newOp(t)
			assert.Error(t, op.LoadPath(path))
			assert.True(t, op.IsIdentity())
		})
	}
}

func TestEncodings(t *testing.T) {
	assert.Equal(t, []string{"hsl", "hsv", "lab", "linear", "srgb", "xyz"}, Encodings())
}
