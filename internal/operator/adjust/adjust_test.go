package adjust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
)

func newOp(t *testing.T) *operator.Operator {
	t.Helper()
	op, err := New()
	require.NoError(t, err)
	return op
}

func TestDefaultsAreIdentity(t *testing.T) {
	op := newOp(t)
	assert.True(t, op.IsIdentity())
	assert.Equal(t, []string{ParamGamma, ParamSaturation, ParamHue, ParamBrightness},
		op.Parameters().Categories()["Adjust"])
}

func TestSaturationRemovesColor(t *testing.T) {
	op := newOp(t)
	require.NoError(t, op.SetParameter(ParamSaturation, "-1"))
	assert.False(t, op.IsIdentity())

	img := imaging.New(1, 1, 3)
	copy(img.Pix, []float32{1, 0, 0})
	out := op.Apply(img)
	assert.InDelta(t, out.Pix[0], out.Pix[1], 1.0/255)
	assert.InDelta(t, out.Pix[1], out.Pix[2], 1.0/255)
}

func TestGammaBrightens(t *testing.T) {
	op := newOp(t)
	require.NoError(t, op.SetParameter(ParamGamma, "2.2"))

	img := imaging.New(1, 1, 4)
	copy(img.Pix, []float32{0.5, 0.5, 0.5, 0.25})
	out := op.Apply(img)
	assert.Greater(t, out.Pix[0], float32(0.6))
	assert.Equal(t, float32(0.25), out.Pix[3], "alpha untouched")
	assert.Equal(t, 4, out.Channels)
}

func TestLabel(t *testing.T) {
	op := newOp(t)
	require.NoError(t, op.SetParameter(ParamHue, "30"))
	assert.Equal(t, "Adjust - g1.00 s+0.00 h+30 b+0.00", op.Label())
}

func TestGrayFailsThrough(t *testing.T) {
	op := newOp(t)
	require.NoError(t, op.SetParameter(ParamBrightness, "0.5"))
	img := imaging.New(2, 2, 1)
	assert.True(t, img.Equal(op.Apply(img)))
}
