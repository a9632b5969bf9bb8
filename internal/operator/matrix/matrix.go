// Package matrix provides the "Matrix" operator, a 4x4 matrix applied to
// RGBA samples.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
	"github.com/ironsheep/look-tools-mcp/internal/param"
)

// Name is the operator type name.
const Name = "Matrix"

// Parameter names.
const (
	ParamMatrix    = "Matrix"
	ParamDirection = "Direction"
)

const category = "Matrix"

// Kernel multiplies each pixel, as a column vector (r, g, b, a), by a row
// major 4x4 matrix. Images without alpha use a = 1 and keep three channels.
type Kernel struct {
	op     *operator.Operator
	matrix *param.Matrix
	dir    *param.Select

	m        param.Matrix4
	identity bool
}

// New creates a Matrix operator holding the identity.
func New(opts ...operator.Option) (*operator.Operator, error) {
	return operator.New(&Kernel{identity: true}, opts...)
}

// Name returns the registered type name.
func (k *Kernel) Name() string { return Name }
// Label returns "Matrix".
func (k *Kernel) Label() string { return "Matrix" }

// Description describes the operator for tool listings.
func (k *Kernel) Description() string {
	return fmt.Sprintf("Matrix Transform\ndirection: %s\nmatrix: %s", k.dir.Value(), k.matrix.String())
}

// Bind adds the matrix and direction parameters to op.
func (k *Kernel) Bind(op *operator.Operator) error {
	k.op = op
	var err error
	if k.matrix, err = operator.AddParameter(op, category, param.NewMatrix(ParamMatrix)); err != nil {
		return err
	}
	if k.dir, err = operator.AddParameter(op, category, param.NewSelect(ParamDirection, []string{"Forward", "Inverse"}, "Forward")); err != nil {
		return err
	}
	return k.rebuild()
}

// ParameterChanged recomputes the active matrix, inverting it when asked.
func (k *Kernel) ParameterChanged(p param.Parameter) {
	if p.Name() != ParamMatrix && p.Name() != ParamDirection {
		return
	}
	if err := k.rebuild(); err != nil {
		k.m, k.identity = param.Identity4, true
		log := k.op.Logger()
		log.Warn().Err(err).Msg("matrix setup failed")
	}
}

// rebuild computes the matrix to apply from the parameters.
func (k *Kernel) rebuild() error {
	v := k.matrix.Value()
	data := make([]float64, 16)
	for i, f := range v {
		data[i] = float64(f)
	}
	m := mat.NewDense(4, 4, data)

	if k.dir.Value() == "Inverse" {
		var inv mat.Dense
		if err := inv.Inverse(m); err != nil {
			return fmt.Errorf("failed to invert matrix: %w", err)
		}
		m = &inv
	}

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			k.m[r*4+c] = float32(m.At(r, c))
		}
	}
	k.identity = mat.EqualApprox(m, identity, 1e-9)
	return nil
}

var identity = mat.NewDiagDense(4, []float64{1, 1, 1, 1})

// Apply multiplies every pixel by the active matrix. Alpha is taken as 1
// for RGB images.
func (k *Kernel) Apply(img *imaging.Image) error {
	if img.Channels < 3 {
		return fmt.Errorf("matrix needs RGB samples, got %d channels", img.Channels)
	}
	m := k.m
	hasAlpha := img.Channels >= 4
	for i := 0; i+img.Channels <= len(img.Pix); i += img.Channels {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		a := float32(1)
		if hasAlpha {
			a = img.Pix[i+3]
		}
		img.Pix[i] = m[0]*r + m[1]*g + m[2]*b + m[3]*a
		img.Pix[i+1] = m[4]*r + m[5]*g + m[6]*b + m[7]*a
		img.Pix[i+2] = m[8]*r + m[9]*g + m[10]*b + m[11]*a
		if hasAlpha {
			img.Pix[i+3] = m[12]*r + m[13]*g + m[14]*b + m[15]*a
		}
	}
	return nil
}

// IsIdentity reports whether the active matrix is the identity.
func (k *Kernel) IsIdentity() bool { return k.identity }
