package param

// Select is a choice among named options. SetValue accepts any string,
// including ones missing from the choice list.
type Select struct {
	base
	value        string
	def          string
	choices      []string
	descriptions []string
}

// NewSelect creates a Select. The default is def, or the first choice when
// def is empty.
func NewSelect(name string, choices []string, def string) *Select {
	if def == "" && len(choices) > 0 {
		def = choices[0]
	}
	p := &Select{value: def, def: def, choices: append([]string(nil), choices...)}
	p.init(p, name)
	return p
}

// Kind returns KindSelect.
func (p *Select) Kind() Kind      { return KindSelect }
func (p *Select) Value() string   { return p.value }
func (p *Select) Default() string { return p.def }
func (p *Select) String() string  { return p.value }
func (p *Select) Reset()          { p.SetValue(p.def) }

// Choices returns a copy of the allowed values.
func (p *Select) Choices() []string {
	return append([]string(nil), p.choices...)
}

// Descriptions returns the per-choice descriptions, which may be empty.
func (p *Select) Descriptions() []string {
	return append([]string(nil), p.descriptions...)
}

// SetValue stores v and emits ValueChanged.
func (p *Select) SetValue(v string) {
	p.value = v
	p.emitValue()
}

// Parse selects s without checking it against the choices.
func (p *Select) Parse(s string) error {
	p.SetValue(s)
	return nil
}

// SetDefault changes the reset value and emits SpecChanged.
func (p *Select) SetDefault(v string) {
	p.def = v
	p.emitSpec()
}

// SetChoices replaces the choice list. descriptions must be empty or match
// choices one to one; otherwise nothing changes and false is returned.
func (p *Select) SetChoices(choices, descriptions []string) bool {
	if len(descriptions) != 0 && len(descriptions) != len(choices) {
		return false
	}
	p.choices = append([]string(nil), choices...)
	p.descriptions = append([]string(nil), descriptions...)
	p.emitSpec()
	return true
}

// Has reports whether v is one of the declared choices.
func (p *Select) Has(v string) bool {
	for _, c := range p.choices {
		if c == v {
			return true
		}
	}
	return false
}
