package param

// Text is a free form string.
type Text struct {
	base
	value string
	def   string
}

// NewText creates a free text parameter.
func NewText(name, v string) *Text {
	p := &Text{value: v, def: v}
	p.init(p, name)
	return p
}

// Kind returns KindText.
func (p *Text) Kind() Kind      { return KindText }
func (p *Text) Value() string   { return p.value }
func (p *Text) Default() string { return p.def }
func (p *Text) String() string  { return p.value }
func (p *Text) Reset()          { p.SetValue(p.def) }

// SetValue stores v and emits ValueChanged.
func (p *Text) SetValue(v string) {
	p.value = v
	p.emitValue()
}

// SetDefault changes the reset value and emits SpecChanged.
func (p *Text) SetDefault(v string) {
	p.def = v
	p.emitSpec()
}

// Parse stores s as is.
func (p *Text) Parse(s string) error {
	p.SetValue(s)
	return nil
}
