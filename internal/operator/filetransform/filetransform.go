// Package filetransform provides the "LUT File" operator, which applies a 1D
// or 3D lookup table read from a .cube or .spi1d file.
package filetransform

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/lut"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
	"github.com/ironsheep/look-tools-mcp/internal/param"
)

// Name is the operator type name.
const Name = "LUT File"

// Parameter names.
const (
	ParamLUT           = "LUT"
	ParamInterpolation = "Interpolation"
	ParamDirection     = "Direction"
)

const category = "File"

var errInverse3D = errors.New("3D LUTs cannot be inverted")

// Kernel applies a LUT file. A file that fails to load or configure leaves
// the kernel as a no-op until a valid one is set.
type Kernel struct {
	op     *operator.Operator
	path   *param.Path
	interp *param.Select
	dir    *param.Select

	file    *lut.File
	active  bool
	inverse bool
}

// New creates a LUT File operator with no file loaded.
func New(opts ...operator.Option) (*operator.Operator, error) {
	return operator.New(&Kernel{}, opts...)
}

// Name returns the registered type name.
func (k *Kernel) Name() string { return Name }

// Label is "FT - " followed by the file name.
func (k *Kernel) Label() string {
	if k.path == nil || k.path.Value() == "" {
		return "FT"
	}
	return "FT - " + filepath.Base(k.path.Value())
}

// Description describes the operator for tool listings.
func (k *Kernel) Description() string {
	var b strings.Builder
	b.WriteString("LUT File Transform\n")
	if !k.active {
		b.WriteString("no active table")
		return b.String()
	}
	fmt.Fprintf(&b, "src: %s\n", k.path.Value())
	if s := k.file.Shaper; s != nil {
		fmt.Fprintf(&b, "1D: %d samples, domain %g-%g\n", s.Size(), s.Min, s.Max)
	}
	if c := k.file.Cube; c != nil {
		fmt.Fprintf(&b, "3D: %d^3 nodes, interpolation %s\n", c.N, c.Interp)
	}
	fmt.Fprintf(&b, "direction: %s", k.dir.Value())
	return b.String()
}

// Bind adds the file, interpolation and direction parameters to op.
func (k *Kernel) Bind(op *operator.Operator) error {
	k.op = op
	filter := fmt.Sprintf("LUT files (*%s)", strings.Join(lut.Extensions(), " *"))

	var err error
	if k.path, err = operator.AddParameter(op, category, param.NewPath(ParamLUT, "", "Choose a LUT", filter, param.PathFile)); err != nil {
		return err
	}
	if k.interp, err = operator.AddParameter(op, category, param.NewSelect(ParamInterpolation, []string{"Best", "Nearest", "Linear", "Tetrahedral"}, "Best")); err != nil {
		return err
	}
	if k.dir, err = operator.AddParameter(op, category, param.NewSelect(ParamDirection, []string{"Forward", "Inverse"}, "Forward")); err != nil {
		return err
	}
	return nil
}

// ParameterChanged reloads the file or reconfigures the loaded table.
func (k *Kernel) ParameterChanged(p param.Parameter) {
	var err error
	switch p.Name() {
	case ParamLUT:
		err = k.load(k.path.Value())
	case ParamInterpolation, ParamDirection:
		err = k.configure()
	default:
		return
	}
	if err != nil {
		k.active = false
		log := k.op.Logger()
		log.Warn().Err(err).Str("lut", k.path.Value()).Msg("lut setup failed")
	}
}

// Claims reports whether path has a supported LUT extension.
func (k *Kernel) Claims(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range lut.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadPath loads path and records it in the LUT parameter without
// announcing the change.
func (k *Kernel) LoadPath(path string) error {
	g := k.op.Quiet()
	defer g.Release()

	k.path.SetValue(path)
	if err := k.load(path); err != nil {
		k.active = false
		return err
	}
	return nil
}

func (k *Kernel) load(path string) error {
	k.file, k.active = nil, false
	if path == "" {
		return nil
	}
	f, err := lut.Load(path)
	if err != nil {
		return err
	}
	k.file = f
	return k.configure()
}

// configure applies the interpolation and direction to the loaded file and
// activates it.
func (k *Kernel) configure() error {
	k.active = false
	if k.file == nil {
		return nil
	}
	interp, err := lut.ParseInterpolation(k.interp.Value())
	if err != nil {
		return err
	}
	k.inverse = k.dir.Value() == "Inverse"
	if k.file.Cube != nil {
		if k.inverse {
			return errInverse3D
		}
		// Best means tetrahedral for 3D tables.
		if interp == lut.InterpBest {
			interp = lut.InterpTetrahedral
		}
		k.file.Cube.Interp = interp
	}
	k.active = true
	return nil
}

// Apply runs the loaded table on img.
func (k *Kernel) Apply(img *imaging.Image) error {
	if !k.active {
		return nil
	}
	if s := k.file.Shaper; s != nil {
		if k.inverse {
			s.ApplyInverse(img)
		} else {
			s.Apply(img)
		}
	}
	if c := k.file.Cube; c != nil {
		c.Apply(img)
	}
	return nil
}

// IsIdentity is true with no usable file, or with a 1D-only file whose curve
// is the identity.
func (k *Kernel) IsIdentity() bool {
	if !k.active {
		return true
	}
	if k.file.Cube == nil && k.file.Shaper != nil {
		return k.file.Shaper.IsIdentity(1e-6)
	}
	return false
}
