package operator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ironsheep/look-tools-mcp/internal/event"
	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/param"
)

// Names of the baseline parameters.
const (
	ParamEnabled  = "Enabled"
	ParamOpacity  = "Opacity"
	ParamContrast = "Contrast"
	ParamColor    = "Color"
)

// DefaultRampSize is the number of samples of the ramp used to measure the
// tone curve of a kernel.
const DefaultRampSize = 8192

var (
	// ErrUnknownParameter is returned when an operator has no parameter of
	// the requested name.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrNotLoadable is returned by LoadPath for kernels that cannot be
	// configured from files.
	ErrNotLoadable = errors.New("operator cannot load files")
)

// Factory builds a fresh operator of one kernel type.
type Factory func(opts ...Option) (*Operator, error)

// Option configures an Operator.
type Option func(*Operator)

// WithLogger sets the logger used to report kernel failures.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Operator) { o.log = log }
}

// WithRampSize sets the ramp length used by isolation.
func WithRampSize(n int) Option {
	return func(o *Operator) {
		if n >= 2 {
			o.rampSize = n
		}
	}
}

// Operator is one stage of a pipeline.
type Operator struct {
	id       uuid.UUID
	kernel   Kernel
	params   *param.Set
	log      zerolog.Logger
	rampSize int

	enabled  *param.Bool
	opacity  *param.Slider
	contrast *param.Slider
	color    *param.Slider

	bus          *event.Bus
	paramUpdated *event.Channel[param.Parameter]
	updated      *event.Channel[*Operator]
}

// New builds an operator around k: the baseline parameters are added, then
// the kernel binds its own.
func New(k Kernel, opts ...Option) (*Operator, error) {
	o := &Operator{
		id:       uuid.New(),
		kernel:   k,
		params:   param.NewSet(),
		log:      zerolog.Nop(),
		rampSize: DefaultRampSize,
		bus:      event.NewBus(),
	}
	o.paramUpdated = event.NewChannel[param.Parameter](o.bus, "param-updated")
	o.updated = event.NewChannel[*Operator](o.bus, "updated")
	for _, opt := range opts {
		opt(o)
	}

	var err error
	if o.enabled, err = AddParameter(o, "", param.NewBool(ParamEnabled, true)); err != nil {
		return nil, err
	}
	if o.opacity, err = AddParameter(o, "", param.NewSlider(ParamOpacity, 100, 0, 100, 1)); err != nil {
		return nil, err
	}
	if o.contrast, err = AddParameter(o, "", param.NewSlider(ParamContrast, 100, 0, 100, 1)); err != nil {
		return nil, err
	}
	if o.color, err = AddParameter(o, "", param.NewSlider(ParamColor, 100, 0, 100, 1)); err != nil {
		return nil, err
	}

	if h, ok := k.(ParameterHandler); ok {
		o.paramUpdated.Subscribe(h.ParameterChanged)
	}
	if err := k.Bind(o); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", k.Name(), err)
	}
	return o, nil
}

// AddParameter adds p to the operator under category and forwards its
// changes to the operator channels.
func AddParameter[T param.Parameter](o *Operator, category string, p T) (T, error) {
	p, err := param.Add(o.params, category, p)
	if err != nil {
		return p, err
	}
	p.ValueChanged().Subscribe(o.parameterUpdated)
	p.SpecChanged().Subscribe(o.parameterUpdated)
	return p, nil
}

func (o *Operator) parameterUpdated(p param.Parameter) {
	// The kernel must be consistent before listeners recompute.
	o.paramUpdated.Emit(p)
	o.updated.Emit(o)
}

// ID returns the instance id.
func (o *Operator) ID() uuid.UUID { return o.id }

// Name returns the kernel type name.
func (o *Operator) Name() string { return o.kernel.Name() }

// Label returns the instance label, or the type name when the kernel has
// none.
func (o *Operator) Label() string {
	if l := o.kernel.Label(); l != "" {
		return l
	}
	return o.kernel.Name()
}

// Description returns the kernel description, or "" when it has none.
func (o *Operator) Description() string {
	if d, ok := o.kernel.(Describer); ok {
		return d.Description()
	}
	return ""
}

// Logger returns the operator logger, for kernels to report setup failures.
func (o *Operator) Logger() zerolog.Logger { return o.log }

// Kernel returns the wrapped kernel.
func (o *Operator) Kernel() Kernel { return o.kernel }

// Parameters returns the baseline and kernel parameters.
func (o *Operator) Parameters() *param.Set { return o.params }

// Parameter returns the parameter named name, or nil.
func (o *Operator) Parameter(name string) param.Parameter {
	return o.params.Get(name)
}

// SetParameter parses value into the parameter named name.
func (o *Operator) SetParameter(name, value string) error {
	p := o.params.Get(name)
	if p == nil {
		return fmt.Errorf("%w: %q on %s", ErrUnknownParameter, name, o.Name())
	}
	return p.Parse(value)
}

// Enabled returns the switch that turns the stage into an identity.
func (o *Operator) Enabled() *param.Bool { return o.enabled }

// Opacity returns the 0-100 mix between the stage input and its result.
func (o *Operator) Opacity() *param.Slider { return o.opacity }

// Contrast returns the 0-100 weight of the tone part of the transform.
func (o *Operator) Contrast() *param.Slider { return o.contrast }

// Color returns the 0-100 weight of the chromatic part of the transform.
func (o *Operator) Color() *param.Slider { return o.color }

// Bus returns the bus owning ParamUpdated and Updated.
func (o *Operator) Bus() *event.Bus { return o.bus }

// ParamUpdated fires first on every parameter change.
func (o *Operator) ParamUpdated() *event.Channel[param.Parameter] { return o.paramUpdated }

// Updated fires after ParamUpdated, once the kernel is up to date.
func (o *Operator) Updated() *event.Channel[*Operator] { return o.updated }

// Quiet mutes both operator channels until the guard is released.
func (o *Operator) Quiet() *event.Guard {
	return o.bus.Hold()
}

// IsIdentity reports whether the stage is disabled or its kernel is a no-op.
func (o *Operator) IsIdentity() bool {
	return !o.enabled.Value() || o.kernel.IsIdentity()
}

// Claims reports whether the kernel recognizes path.
func (o *Operator) Claims(path string) bool {
	l, ok := o.kernel.(PathLoader)
	return ok && l.Claims(path)
}

// LoadPath configures the kernel from path.
func (o *Operator) LoadPath(path string) error {
	l, ok := o.kernel.(PathLoader)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotLoadable, o.Name())
	}
	return l.LoadPath(path)
}

// Transform runs the bare kernel on a copy of img, without isolation or
// opacity. A failing kernel yields an unchanged copy.
func (o *Operator) Transform(img *imaging.Image) *imaging.Image {
	out := img.Clone()
	if err := o.safeApply(out); err != nil {
		o.log.Warn().Err(err).
			Str("operator", o.Name()).
			Str("label", o.Label()).
			Msg("kernel failed, passing image through")
		return img.Clone()
	}
	return out
}

func (o *Operator) safeApply(img *imaging.Image) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("kernel panic: %v", r)
		}
	}()
	start := time.Now()
	err = o.kernel.Apply(img)
	o.log.Trace().
		Str("operator", o.Name()).
		Dur("elapsed", time.Since(start)).
		Int("pixels", img.Count()).
		Msg("kernel applied")
	return err
}
