package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/param"
)

func TestDefaultIsIdentity(t *testing.T) {
	op, err := New()
	require.NoError(t, err)
	assert.True(t, op.IsIdentity())
	assert.Equal(t, "Matrix", op.Label())
	assert.Contains(t, op.Description(), "direction: Forward")
}

func TestForwardAndInverse(t *testing.T) {
	op, err := New()
	require.NoError(t, err)

	// Scale red by 2 and add 0.1 to blue through the alpha column.
	require.NoError(t, op.SetParameter(ParamMatrix,
		"2 0 0 0  0 1 0 0  0 0 1 0.1  0 0 0 1"))
	assert.False(t, op.IsIdentity())

	img := imaging.New(1, 1, 3)
	copy(img.Pix, []float32{0.2, 0.4, 0.6})
	out := op.Apply(img)
	assert.InDelta(t, 0.4, out.Pix[0], 1e-6)
	assert.InDelta(t, 0.4, out.Pix[1], 1e-6)
	assert.InDelta(t, 0.7, out.Pix[2], 1e-6)

	require.NoError(t, op.SetParameter(ParamDirection, "Inverse"))
	back := op.Apply(out)
	for i := range img.Pix {
		assert.InDelta(t, img.Pix[i], back.Pix[i], 1e-6)
	}
}

func TestAlphaRow(t *testing.T) {
	op, err := New()
	require.NoError(t, err)
	require.NoError(t, op.SetParameter(ParamMatrix,
		"1 0 0 0  0 1 0 0  0 0 1 0  0 0 0 0.5"))

	img := imaging.New(1, 1, 4)
	copy(img.Pix, []float32{0.1, 0.2, 0.3, 1})
	out := op.Apply(img)
	assert.InDelta(t, 0.5, out.Pix[3], 1e-6)
	assert.InDelta(t, 0.1, out.Pix[0], 1e-6)
}

func TestSingularInverseFallsBack(t *testing.T) {
	op, err := New()
	require.NoError(t, err)
	require.NoError(t, op.SetParameter(ParamMatrix,
		"1 1 0 0  1 1 0 0  0 0 1 0  0 0 0 1"))
	assert.False(t, op.IsIdentity())

	require.NoError(t, op.SetParameter(ParamDirection, "Inverse"))
	assert.True(t, op.IsIdentity())

	k := op.Kernel().(*Kernel)
	assert.Equal(t, param.Identity4, k.m)
}

func TestGrayImageFails(t *testing.T) {
	op, err := New()
	require.NoError(t, err)
	require.NoError(t, op.SetParameter(ParamMatrix,
		"2 0 0 0  0 2 0 0  0 0 2 0  0 0 0 1"))

	img := imaging.New(2, 1, 1)
	img.Pix[0] = 0.5
	out := op.Apply(img)
	assert.True(t, img.Equal(out), "failed kernel passes through")
}
