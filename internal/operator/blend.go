package operator

import (
	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/lut"
)

// Apply returns img transformed by the stage, honoring the isolation and
// opacity sliders. img is not modified. Callers skip stages for which
// IsIdentity is true.
func (o *Operator) Apply(img *imaging.Image) *imaging.Image {
	cts := o.contrast.Value() / 100
	col := o.color.Value() / 100

	var out *imaging.Image
	if cts != 1 || col != 1 {
		out = o.isolate(img, cts, col)
	} else {
		out = o.Transform(img)
	}

	if opacity := o.opacity.Value() / 100; opacity != 1 {
		out = o.combine(out, imaging.Term{Image: img, Weight: 1 - opacity}, imaging.Term{Image: out, Weight: opacity})
	}
	return out
}

// isolate mixes the original, contrast-only and color-only renditions of img
// according to the slider values cts and col.
func (o *Operator) isolate(orig *imaging.Image, cts, col float32) *imaging.Image {
	applied := o.Transform(orig)

	curve, err := o.ToneCurve()
	if err != nil {
		o.log.Warn().Err(err).Str("operator", o.Name()).Msg("tone curve unavailable, isolation skipped")
		return applied
	}

	contrast := orig.Clone()
	curve.Apply(contrast)

	color := orig.Clone()
	curve.ApplyInverse(color)
	color = o.Transform(color)

	switch {
	case cts == 1 && col == 1:
		return applied

	case cts == 0 && col == 0:
		return orig.Clone()

	case cts == 0 || col == 0:
		a := max(cts, col)
		return o.combine(applied,
			imaging.Term{Image: orig, Weight: 1 - a},
			imaging.Term{Image: contrast, Weight: cts},
			imaging.Term{Image: color, Weight: col})

	case cts == 1 || col == 1:
		// Each partial is weighted by how much of the other one is missing.
		a := min(cts, col)
		return o.combine(applied,
			imaging.Term{Image: applied, Weight: a},
			imaging.Term{Image: contrast, Weight: 1 - col},
			imaging.Term{Image: color, Weight: 1 - cts})

	default:
		// Blend from whichever end is closer so no weight goes negative.
		source, aContrast, aColor := orig, cts, col
		if cts+col > 1 {
			source, aContrast, aColor = applied, 1-col, 1-cts
		}
		aSource := 1 - (aColor + aContrast)
		return o.combine(applied,
			imaging.Term{Image: source, Weight: aSource},
			imaging.Term{Image: contrast, Weight: aContrast},
			imaging.Term{Image: color, Weight: aColor})
	}
}

// ToneCurve measures the per-channel response of the kernel by running it on
// a neutral 0-1 ramp.
func (o *Operator) ToneCurve() (*lut.LUT1D, error) {
	ramp := imaging.Ramp1D(o.rampSize, 0, 1, imaging.RampNeutral)
	return lut.FromRamp(o.Transform(ramp), 0, 1)
}

// combine returns the weighted sum of terms, or fallback when the images do
// not share a shape (a kernel that changed the image size).
func (o *Operator) combine(fallback *imaging.Image, terms ...imaging.Term) *imaging.Image {
	out, err := imaging.Combine(terms...)
	if err != nil {
		o.log.Warn().Err(err).Str("operator", o.Name()).Msg("blend failed")
		return fallback
	}
	return out
}
