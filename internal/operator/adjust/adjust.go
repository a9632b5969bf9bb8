// Package adjust provides the "Adjust" operator: gamma, saturation, hue and
// brightness controls backed by bild/adjust.
//
// bild works on 8-bit RGBA, so the operator clamps to 0-1 and quantizes to
// 256 levels per channel. Alpha is carried through unchanged.
package adjust

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"

	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
	"github.com/ironsheep/look-tools-mcp/internal/param"
)

// Name is the operator type name.
const Name = "Adjust"

// Parameter names.
const (
	ParamGamma      = "Gamma"
	ParamSaturation = "Saturation"
	ParamHue        = "Hue"
	ParamBrightness = "Brightness"
)

const category = "Adjust"

// Kernel applies gamma, saturation, hue and brightness with bild.
type Kernel struct {
	gamma      *param.Slider
	saturation *param.Slider
	hue        *param.Slider
	brightness *param.Slider
}

// New creates an Adjust operator at its neutral settings.
func New(opts ...operator.Option) (*operator.Operator, error) {
	return operator.New(&Kernel{}, opts...)
}

// Name returns the registered type name.
func (k *Kernel) Name() string { return Name }

// Label lists the four slider values.
func (k *Kernel) Label() string {
	return fmt.Sprintf("Adjust - g%.2f s%+.2f h%+.0f b%+.2f",
		k.gamma.Value(), k.saturation.Value(), k.hue.Value(), k.brightness.Value())
}

// Bind adds the adjustment sliders to op.
func (k *Kernel) Bind(op *operator.Operator) error {
	var err error
	if k.gamma, err = operator.AddParameter(op, category, param.NewSlider(ParamGamma, 1, 0.1, 5, 0.01)); err != nil {
		return err
	}
	k.gamma.SetScale(param.ScaleLog)
	if k.saturation, err = operator.AddParameter(op, category, param.NewSlider(ParamSaturation, 0, -1, 1, 0.01)); err != nil {
		return err
	}
	if k.hue, err = operator.AddParameter(op, category, param.NewSlider(ParamHue, 0, -180, 180, 1)); err != nil {
		return err
	}
	if k.brightness, err = operator.AddParameter(op, category, param.NewSlider(ParamBrightness, 0, -1, 1, 0.01)); err != nil {
		return err
	}
	return nil
}

// IsIdentity reports whether every slider is neutral.
func (k *Kernel) IsIdentity() bool {
	return k.gamma.Value() == 1 && k.saturation.Value() == 0 &&
		int(k.hue.Value()) == 0 && k.brightness.Value() == 0
}

// Apply runs the adjustments on the RGB channels of img.
func (k *Kernel) Apply(img *imaging.Image) error {
	if img.Channels < 3 {
		return fmt.Errorf("adjust needs RGB samples, got %d channels", img.Channels)
	}
	if k.gamma.Value() <= 0 {
		return fmt.Errorf("gamma must be positive, got %g", k.gamma.Value())
	}

	// bild works on premultiplied colors; adjust an opaque copy so alpha
	// cannot skew the result.
	rgb := imaging.New(img.Width, img.Height, 3)
	for i := 0; i < img.Count(); i++ {
		copy(rgb.Pix[i*3:i*3+3], img.Pix[i*img.Channels:])
	}
	var src image.Image = rgb.ToNRGBA64()
	if g := k.gamma.Value(); g != 1 {
		src = adjust.Gamma(src, float64(g))
	}
	if s := k.saturation.Value(); s != 0 {
		src = adjust.Saturation(src, float64(s))
	}
	if h := int(k.hue.Value()); h != 0 {
		src = adjust.Hue(src, h)
	}
	if b := k.brightness.Value(); b != 0 {
		src = adjust.Brightness(src, float64(b))
	}

	out := imaging.FromImage(src)
	for i := 0; i < img.Count(); i++ {
		copy(img.Pix[i*img.Channels:i*img.Channels+3], out.Pix[i*out.Channels:i*out.Channels+3])
	}
	return nil
}
