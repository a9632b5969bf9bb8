package registry

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
)

// extKernel claims files with one extension and remembers what it loaded.
type extKernel struct {
	name   string
	ext    string
	loaded string
	fail   bool
}

func (k *extKernel) Name() string                  { return k.name }
func (k *extKernel) Label() string                 { return k.loaded }
func (k *extKernel) Bind(*operator.Operator) error { return nil }
func (k *extKernel) Apply(*imaging.Image) error    { return nil }
func (k *extKernel) IsIdentity() bool              { return k.loaded == "" }
func (k *extKernel) Claims(path string) bool       { return strings.HasSuffix(path, k.ext) }

func (k *extKernel) LoadPath(path string) error {
	if k.fail {
		return errors.New("load failed")
	}
	k.loaded = path
	return nil
}

func factory(name, ext string) operator.Factory {
	return func(opts ...operator.Option) (*operator.Operator, error) {
		return operator.New(&extKernel{name: name, ext: ext}, opts...)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	assert.True(t, r.Register(factory("LUT File", ".cube")))
	assert.False(t, r.Register(factory("LUT File", ".other")))

	// The original prototype is kept.
	assert.True(t, r.Prototype("LUT File").Claims("a.cube"))
	assert.False(t, r.Prototype("LUT File").Claims("a.other"))
	assert.Equal(t, []string{"LUT File"}, r.Names())
}

func TestRegisterFailingFactory(t *testing.T) {
	r := New()
	assert.False(t, r.Register(func(...operator.Option) (*operator.Operator, error) {
		return nil, errors.New("broken")
	}))
	assert.Empty(t, r.Names())
}

func TestCreateFromName(t *testing.T) {
	r := New()
	require.True(t, r.Register(factory("Matrix", ".mtx")))

	a, err := r.CreateFromName("Matrix")
	require.NoError(t, err)
	b, err := r.CreateFromName("Matrix")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.NotSame(t, r.Prototype("Matrix"), a)
	assert.Equal(t, "Matrix", a.Name())

	_, err = r.CreateFromName("matrix")
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestCreateFromPath(t *testing.T) {
	r := New()
	require.True(t, r.Register(factory("Script Transform", ".js")))
	require.True(t, r.Register(factory("LUT File", ".cube")))

	op, err := r.CreateFromPath(filepath.Join("looks", "warm.cube"))
	require.NoError(t, err)
	assert.Equal(t, "LUT File", op.Name())
	assert.Equal(t, filepath.Join("looks", "warm.cube"), op.Label())

	op, err = r.CreateFromPath("x.png")
	assert.Nil(t, op)
	assert.ErrorIs(t, err, ErrUnclaimedPath)
}

func TestCreateFromPathOrder(t *testing.T) {
	// Both claim .cube; the lexically first name wins.
	r := New()
	require.True(t, r.Register(factory("Zeta", ".cube")))
	require.True(t, r.Register(factory("Alpha", ".cube")))

	for i := 0; i < 5; i++ {
		op, err := r.CreateFromPath("a.cube")
		require.NoError(t, err)
		assert.Equal(t, "Alpha", op.Name())
	}
}

func TestCreateFromPathLoadFailure(t *testing.T) {
	r := New()
	require.True(t, r.Register(func(opts ...operator.Option) (*operator.Operator, error) {
		return operator.New(&extKernel{name: "Broken", ext: ".cube", fail: true}, opts...)
	}))
	op, err := r.CreateFromPath("a.cube")
	assert.Nil(t, op)
	assert.Error(t, err)
}

func TestOptionsReachOperators(t *testing.T) {
	seen := 0
	r := New(func(*operator.Operator) { seen++ })
	require.True(t, r.Register(factory("A", ".a")))
	_, err := r.CreateFromName("A")
	require.NoError(t, err)
	assert.Equal(t, 2, seen, "prototype and instance")
}
