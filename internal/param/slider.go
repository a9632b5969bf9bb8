package param

import (
	"fmt"
	"strconv"
)

// Scale is how a slider maps its position to its value.
type Scale int

const (
	ScaleLinear Scale = iota
	ScaleLog
)

// String returns the lowercase scale name.
func (s Scale) String() string {
	if s == ScaleLog {
		return "log"
	}
	return "linear"
}

// Legend controls whether a slider shows tick labels.
type Legend int

const (
	LegendShowTicks Legend = iota
	LegendNone
)

// Slider is a bounded number. The bounds are display hints: SetValue does not
// clamp.
type Slider struct {
	base
	value  float32
	def    float32
	min    float32
	max    float32
	step   float32
	scale  Scale
	legend Legend
}

// NewSlider creates a linear Slider with ticks shown.
func NewSlider(name string, value, min, max, step float32) *Slider {
	p := &Slider{value: value, def: value, min: min, max: max, step: step}
	p.init(p, name)
	return p
}

// Kind returns KindSlider.
func (p *Slider) Kind() Kind       { return KindSlider }
func (p *Slider) Value() float32   { return p.value }
func (p *Slider) Default() float32 { return p.def }
func (p *Slider) Min() float32     { return p.min }
func (p *Slider) Max() float32     { return p.max }
func (p *Slider) Step() float32    { return p.step }
func (p *Slider) Scale() Scale     { return p.scale }
func (p *Slider) Legend() Legend   { return p.legend }
func (p *Slider) Reset()           { p.SetValue(p.def) }

// String formats the value with strconv.
func (p *Slider) String() string {
	return strconv.FormatFloat(float64(p.value), 'g', -1, 32)
}

// SetValue stores v and emits ValueChanged.
func (p *Slider) SetValue(v float32) {
	p.value = v
	p.emitValue()
}

// Parse reads a float value.
func (p *Slider) Parse(s string) error {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
	}
	p.SetValue(float32(v))
	return nil
}

// SetDefault changes the reset value and emits SpecChanged.
func (p *Slider) SetDefault(v float32) {
	p.def = v
	p.emitSpec()
}

// SetMin changes the lower bound and emits SpecChanged.
func (p *Slider) SetMin(v float32) {
	p.min = v
	p.emitSpec()
}

// SetMax changes the upper bound and emits SpecChanged.
func (p *Slider) SetMax(v float32) {
	p.max = v
	p.emitSpec()
}

// SetStep changes the increment and emits SpecChanged.
func (p *Slider) SetStep(v float32) {
	p.step = v
	p.emitSpec()
}

// SetScale changes the scale and emits SpecChanged.
func (p *Slider) SetScale(v Scale) {
	p.scale = v
	p.emitSpec()
}

// SetLegend changes the tick display. It only affects presentation and does
// not emit.
func (p *Slider) SetLegend(v Legend) {
	p.legend = v
}
