package param

import (
	"fmt"
	"strconv"
)

// Bool is a checkbox.
type Bool struct {
	base
	value bool
	def   bool
}

// NewBool creates a Bool whose value and default are v.
func NewBool(name string, v bool) *Bool {
	p := &Bool{value: v, def: v}
	p.init(p, name)
	return p
}

// Kind returns KindBool.
func (p *Bool) Kind() Kind     { return KindBool }
func (p *Bool) Value() bool    { return p.value }
func (p *Bool) Default() bool  { return p.def }
func (p *Bool) String() string { return strconv.FormatBool(p.value) }
func (p *Bool) Reset()         { p.SetValue(p.def) }

// SetValue stores v and emits ValueChanged.
func (p *Bool) SetValue(v bool) {
	p.value = v
	p.emitValue()
}

// SetDefault changes the reset value and emits SpecChanged.
func (p *Bool) SetDefault(v bool) {
	p.def = v
	p.emitSpec()
}

// Parse accepts the strconv.ParseBool forms.
func (p *Bool) Parse(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, s)
	}
	p.SetValue(v)
	return nil
}
