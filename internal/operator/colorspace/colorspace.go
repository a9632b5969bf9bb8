// Package colorspace provides the "Color Space" operator: a conversion from
// a source to a destination color space, optionally through a look.
//
// Color spaces and looks come from a Config, either the built-in one or a
// .colorspace.yaml file:
//
//	name: studio
//	colorspaces:
//	  - name: Linear sRGB
//	    family: Scene
//	    encoding: linear
//	  - name: sRGB
//	    family: Display
//	    encoding: srgb
//	looks:
//	  - name: warm
//	    process_space: Linear sRGB
//	    lut: looks/warm.cube
//
// Encodings are srgb, linear, xyz, lab, hsv and hsl; the math is done by
// go-colorful.
package colorspace

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
const Name = "Color Space"

// Parameter names.
const (
	ParamConfig      = "Config File"
	ParamSource      = "Source"
	ParamDestination = "Destination"
	ParamLook        = "Look"
	ParamDirection   = "Direction"
)

const category = "Color Space"

var errInverseLook = errors.New("looks with a 3D LUT cannot be inverted")

// step is one pass of the conversion chain.
type step func(img *imaging.Image)

// Kernel converts between two spaces of its config.
type Kernel struct {
	op     *operator.Operator
	file   *param.Path
	src    *param.Select
	dst    *param.Select
	look   *param.Select
	dir    *param.Select
	config *Config

	steps    []step
	identity bool
}

// New creates a Color Space operator on the built-in config.
func New(opts ...operator.Option) (*operator.Operator, error) {
	return operator.New(&Kernel{config: DefaultConfig(), identity: true}, opts...)
}

// Name returns the registered type name.
func (k *Kernel) Name() string { return Name }

// Label is "CSC - " followed by the config file or config name.
func (k *Kernel) Label() string {
	if k.file != nil && k.file.Value() != "" {
		return "CSC - " + filepath.Base(k.file.Value())
	}
	return "CSC - " + k.config.Name
}

// Description describes the operator for tool listings.
func (k *Kernel) Description() string {
	return fmt.Sprintf("Color Space Transform\nconfig: %s\n%s -> %s\nlook: %q\ndirection: %s",
		k.config.Name, k.src.Value(), k.dst.Value(), k.look.Value(), k.dir.Value())
}

// Bind adds the config file, space, look and direction parameters to op.
func (k *Kernel) Bind(op *operator.Operator) error {
	k.op = op
	filter := fmt.Sprintf("Color space config (*%s)", ConfigSuffix)

	var err error
	if k.file, err = operator.AddParameter(op, category, param.NewPath(ParamConfig, "", "Choose a color space config", filter, param.PathFile)); err != nil {
		return err
	}
	if k.src, err = operator.AddParameter(op, category, param.NewSelect(ParamSource, nil, "")); err != nil {
		return err
	}
	if k.dst, err = operator.AddParameter(op, category, param.NewSelect(ParamDestination, nil, "")); err != nil {
		return err
	}
	if k.look, err = operator.AddParameter(op, category, param.NewSelect(ParamLook, nil, "")); err != nil {
		return err
	}
	if k.dir, err = operator.AddParameter(op, category, param.NewSelect(ParamDirection, []string{"Forward", "Inverse"}, "Forward")); err != nil {
		return err
	}
	k.useConfig(k.config, "")
	return k.rebuild()
}

// Config returns the active configuration.
func (k *Kernel) Config() *Config { return k.config }

// ParameterChanged rebuilds the conversion steps.
func (k *Kernel) ParameterChanged(p param.Parameter) {
	var err error
	switch p.Name() {
	case ParamConfig:
		err = k.setConfig(k.file.Value())
	case ParamSource, ParamDestination, ParamLook, ParamDirection:
		err = k.rebuild()
	default:
		return
	}
	if err != nil {
		k.steps, k.identity = nil, true
		log := k.op.Logger()
		log.Warn().Err(err).Str("config", k.file.Value()).Msg("color space setup failed")
	}
}

// Claims reports whether path is a color space config file.
func (k *Kernel) Claims(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ConfigSuffix)
}

// LoadPath loads the config at path without announcing the change.
func (k *Kernel) LoadPath(path string) error {
	if err := k.setConfig(path); err != nil {
		k.steps, k.identity = nil, true
		return err
	}
	return nil
}

// setConfig loads path, or the built-in config when path is empty, and
// resets the space choices. Parameter updates are muted meanwhile.
func (k *Kernel) setConfig(path string) error {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return err
		}
	}
	k.useConfig(cfg, path)
	return k.rebuild()
}

func (k *Kernel) useConfig(cfg *Config, path string) {
	g := k.op.Quiet()
	defer g.Release()

	k.config = cfg
	k.file.SetValue(path)

	names, descs := cfg.choices()
	k.src.SetChoices(names, descs)
	k.dst.SetChoices(names, descs)
	first := ""
	if len(names) > 0 {
		first = names[0]
	}
	k.src.SetValue(first)
	k.dst.SetValue(first)

	looks, lookDescs := cfg.lookChoices()
	k.look.SetChoices(looks, lookDescs)
	k.look.SetValue("")
}

// rebuild turns the current parameters into conversion steps.
func (k *Kernel) rebuild() error {
	k.steps, k.identity = nil, true

	src, ok := k.config.Space(k.src.Value())
	if !ok {
		return fmt.Errorf("unknown source space %q", k.src.Value())
	}
	dst, ok := k.config.Space(k.dst.Value())
	if !ok {
		return fmt.Errorf("unknown destination space %q", k.dst.Value())
	}
	inverse := k.dir.Value() == "Inverse"
	if inverse {
		src, dst = dst, src
	}

	if k.look.Value() == "" {
		if src.Encoding == dst.Encoding {
			return nil
		}
		s, err := convert(src, dst)
		if err != nil {
			return err
		}
		k.steps, k.identity = []step{s}, false
		return nil
	}

	look, ok := k.config.Look(k.look.Value())
	if !ok {
		return fmt.Errorf("unknown look %q", k.look.Value())
	}
	process := src
	if look.ProcessSpace != "" {
		process, _ = k.config.Space(look.ProcessSpace)
	}
	f, err := lut.Load(k.config.lutPath(look))
	if err != nil {
		return fmt.Errorf("look %q: %w", look.Name, err)
	}
	grade, err := lookStep(f, inverse)
	if err != nil {
		return fmt.Errorf("look %q: %w", look.Name, err)
	}

	var steps []step
	if src.Encoding != process.Encoding {
		s, err := convert(src, process)
		if err != nil {
			return err
		}
		steps = append(steps, s)
	}
	steps = append(steps, grade)
	if process.Encoding != dst.Encoding {
		s, err := convert(process, dst)
		if err != nil {
			return err
		}
		steps = append(steps, s)
	}
	k.steps, k.identity = steps, false
	return nil
}

func convert(from, to Space) (step, error) {
	dec, err := lookupEncoding(from.Encoding)
	if err != nil {
		return nil, err
	}
	enc, err := lookupEncoding(to.Encoding)
	if err != nil {
		return nil, err
	}
	return func(img *imaging.Image) {
		img.MapRGB(func(r, g, b float32) (float32, float32, float32) {
			c := dec.decode(float64(r), float64(g), float64(b))
			x, y, z := enc.encode(c)
			return float32(x), float32(y), float32(z)
		})
	}, nil
}

func lookStep(f *lut.File, inverse bool) (step, error) {
	if inverse {
		if f.Cube != nil {
			return nil, errInverseLook
		}
		return f.Shaper.ApplyInverse, nil
	}
	return func(img *imaging.Image) {
		if f.Shaper != nil {
			f.Shaper.Apply(img)
		}
		if f.Cube != nil {
			f.Cube.Apply(img)
		}
	}, nil
}

// Apply runs the conversion steps in order.
func (k *Kernel) Apply(img *imaging.Image) error {
	for _, s := range k.steps {
		s(img)
	}
	return nil
}

// IsIdentity reports whether no conversion step is active.
func (k *Kernel) IsIdentity() bool { return k.identity }

