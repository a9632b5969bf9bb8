package operator

import (
	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/param"
)

// Kernel is the color transform wrapped by an Operator.
type Kernel interface {
	// Name is the stable type name, shared by every instance.
	Name() string

	// Label is a short instance description derived from the current
	// parameters, such as the loaded file name.
	Label() string

	// Bind adds the kernel parameters to op. It is called once by New.
	Bind(op *Operator) error

	// Apply transforms img in place.
	Apply(img *imaging.Image) error

	// IsIdentity reports whether Apply would leave images unchanged.
	IsIdentity() bool
}

// Describer is implemented by kernels with a long description.
type Describer interface {
	Description() string
}

// ParameterHandler is implemented by kernels that rebuild state when one of
// the operator parameters changes.
type ParameterHandler interface {
	ParameterChanged(p param.Parameter)
}

// PathLoader is implemented by kernels that can be configured from a file.
type PathLoader interface {
	// Claims reports whether the kernel recognizes path.
	Claims(path string) bool

	// LoadPath configures the kernel from path.
	LoadPath(path string) error
}
