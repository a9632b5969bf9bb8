package param

import (
	"errors"
	"fmt"

	"github.com/ironsheep/look-tools-mcp/internal/event"
)

var (
	// ErrDuplicateName is returned when a set already holds a parameter of
	// the same name.
	ErrDuplicateName = errors.New("duplicate parameter name")

	// ErrInvalidValue is returned when a serialized value cannot be parsed.
	ErrInvalidValue = errors.New("invalid parameter value")
)

// Kind tags the concrete variant of a Parameter.
type Kind int

const (
	KindBool Kind = iota
	KindPath
	KindSlider
	KindSelect
	KindMatrix
	KindText
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindPath:
		return "path"
	case KindSlider:
		return "slider"
	case KindSelect:
		return "select"
	case KindMatrix:
		return "matrix"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Store is a flat key/value store parameters persist themselves into. Keys
// are parameter names.
type Store interface {
	Value(key string) (string, bool)
	SetValue(key, value string) error
}

// Parameter is the behavior shared by every variant.
type Parameter interface {
	Name() string
	DisplayName() string
	SetDisplayName(name string)
	Kind() Kind

	// String returns the serialized value; Parse sets the value from that
	// form and emits ValueChanged on success.
	String() string
	Parse(s string) error

	// Reset restores the default value.
	Reset()

	Load(s Store) error
	Save(s Store) error

	Bus() *event.Bus
	ValueChanged() *event.Channel[Parameter]
	SpecChanged() *event.Channel[Parameter]
}

// base carries the name, display name and channels of a parameter. self is
// the concrete variant so emitted payloads and Load/Save dispatch on it.
type base struct {
	self         Parameter
	name         string
	display      string
	bus          *event.Bus
	valueChanged *event.Channel[Parameter]
	specChanged  *event.Channel[Parameter]
}

func (b *base) init(self Parameter, name string) {
	b.self = self
	b.name = name
	b.bus = event.NewBus()
	b.valueChanged = event.NewChannel[Parameter](b.bus, "value")
	b.specChanged = event.NewChannel[Parameter](b.bus, "spec")
}

// Name returns the unique parameter name.
func (b *base) Name() string { return b.name }

// DisplayName returns the label shown to users, falling back to the name.
func (b *base) DisplayName() string {
	if b.display == "" {
		return b.name
	}
	return b.display
}

// SetDisplayName changes the label shown to users.
func (b *base) SetDisplayName(name string) {
	b.display = name
	b.specChanged.Emit(b.self)
}

// Bus returns the bus owning ValueChanged and SpecChanged.
func (b *base) Bus() *event.Bus                         { return b.bus }
func (b *base) ValueChanged() *event.Channel[Parameter] { return b.valueChanged }
func (b *base) SpecChanged() *event.Channel[Parameter]  { return b.specChanged }

// Load sets the value from s. A missing key leaves the value unchanged.
func (b *base) Load(s Store) error {
	v, ok := s.Value(b.name)
	if !ok {
		return nil
	}
	if err := b.self.Parse(v); err != nil {
		return fmt.Errorf("failed to load %q: %w", b.name, err)
	}
	return nil
}

// Save writes the serialized value to s.
func (b *base) Save(s Store) error {
	if err := s.SetValue(b.name, b.self.String()); err != nil {
		return fmt.Errorf("failed to save %q: %w", b.name, err)
	}
	return nil
}

func (b *base) emitValue() { b.valueChanged.Emit(b.self) }
func (b *base) emitSpec()  { b.specChanged.Emit(b.self) }

// MemoryStore is a Store backed by a map.
type MemoryStore map[string]string

// Value returns the stored value for key.
func (m MemoryStore) Value(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// SetValue stores value under key.
func (m MemoryStore) SetValue(key, value string) error {
	m[key] = value
	return nil
}
