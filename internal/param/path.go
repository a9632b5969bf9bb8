package param

// PathKind tells whether a Path names a file or a folder.
type PathKind int

const (
	PathFile PathKind = iota
	PathFolder
)

// String returns the lowercase kind name.
func (k PathKind) String() string {
	if k == PathFolder {
		return "folder"
	}
	return "file"
}

// Path holds a file system path, plus the hints a file picker needs.
type Path struct {
	base
	value       string
	def         string
	description string
	filters     string
	kind        PathKind
}

// NewPath creates a Path. filters uses the "Label (*.a *.b)" form.
func NewPath(name, value, description, filters string, kind PathKind) *Path {
	p := &Path{value: value, def: value, description: description, filters: filters, kind: kind}
	p.init(p, name)
	return p
}

// Kind returns KindPath.
func (p *Path) Kind() Kind          { return KindPath }
func (p *Path) Value() string       { return p.value }
func (p *Path) Default() string     { return p.def }
func (p *Path) Description() string { return p.description }
func (p *Path) Filters() string     { return p.filters }
func (p *Path) PathKind() PathKind  { return p.kind }
func (p *Path) String() string      { return p.value }
func (p *Path) Reset()              { p.SetValue(p.def) }

// SetValue stores v and emits ValueChanged.
func (p *Path) SetValue(v string) {
	p.value = v
	p.emitValue()
}

// Parse stores s as is.
func (p *Path) Parse(s string) error {
	p.SetValue(s)
	return nil
}

// SetDescription changes the chooser prompt and emits SpecChanged.
func (p *Path) SetDescription(v string) {
	p.description = v
	p.emitSpec()
}

// SetFilters changes the file filters and emits SpecChanged.
func (p *Path) SetFilters(v string) {
	p.filters = v
	p.emitSpec()
}

// SetPathKind changes what the path names and emits SpecChanged.
func (p *Path) SetPathKind(v PathKind) {
	p.kind = v
	p.emitSpec()
}
