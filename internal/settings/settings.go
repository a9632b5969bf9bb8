package settings

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ironsheep/look-tools-mcp/internal/param"
)

// Application setting names.
const (
	DefaultScriptFolder     = "Default Script Folder"
	DefaultColorSpaceConfig = "Default Color Space Config"
	DefaultImage            = "Default Image"
	ImageBaseFolder         = "Image Base Folder"
	LookBaseFolder          = "Look Base Folder"
	LookTonemapLUT          = "Look Tonemap LUT"
)

// ErrUnknownSetting is returned by Set for a name that was never added.
var ErrUnknownSetting = errors.New("unknown setting")

// Settings is a parameter set bound to a store. Parameters take their stored
// value when added and save themselves whenever their value changes.
type Settings struct {
	params *param.Set
	store  param.Store
	log    zerolog.Logger
}

// New binds an empty set to store. A nil store keeps values in memory.
func New(store param.Store, log zerolog.Logger) *Settings {
	if store == nil {
		store = param.MemoryStore{}
	}
	return &Settings{params: param.NewSet(), store: store, log: log}
}

// Add loads p from the store, adds it under category and saves it on every
// value change.
func Add[T param.Parameter](s *Settings, category string, p T) (T, error) {
	if err := p.Load(s.store); err != nil {
		s.log.Warn().Err(err).Str("setting", p.Name()).Msg("ignoring stored value")
	}
	p, err := param.Add(s.params, category, p)
	if err != nil {
		return p, err
	}
	p.ValueChanged().Subscribe(s.persist)
	return p, nil
}

func (s *Settings) persist(p param.Parameter) {
	if err := p.Save(s.store); err != nil {
		s.log.Warn().Err(err).Str("setting", p.Name()).Msg("setting not saved")
	}
}

// Parameters returns the settings parameters.
func (s *Settings) Parameters() *param.Set { return s.params }

// Store returns the backing store.
func (s *Settings) Store() param.Store { return s.store }

// Get returns the parameter named name, or nil.
func (s *Settings) Get(name string) param.Parameter { return s.params.Get(name) }

// String returns the serialized value of name, or "" when absent.
func (s *Settings) String(name string) string {
	if p := s.params.Get(name); p != nil {
		return p.String()
	}
	return ""
}

// Set parses value into the setting named name. The new value is saved.
func (s *Settings) Set(name, value string) error {
	p := s.params.Get(name)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	return p.Parse(value)
}

// NewApp returns the application settings bound to store.
func NewApp(store param.Store, log zerolog.Logger) (*Settings, error) {
	s := New(store, log)
	paths := []struct {
		name, description, filters string
		kind                       param.PathKind
	}{
		{DefaultScriptFolder, "Folder searched for script includes", "", param.PathFolder},
		{DefaultColorSpaceConfig, "Color space configuration", "Color space (*.colorspace.yaml)", param.PathFile},
		{DefaultImage, "Image loaded at startup", "Images (*.png *.jpg *.jpeg *.tif *.tiff *.bmp *.gif)", param.PathFile},
		{ImageBaseFolder, "Folder for relative image paths", "", param.PathFolder},
		{LookBaseFolder, "Folder for relative look paths", "", param.PathFolder},
		{LookTonemapLUT, "LUT appended to every look", "LUT (*.cube *.spi1d)", param.PathFile},
	}
	for _, p := range paths {
		if _, err := Add(s, param.DefaultCategory, param.NewPath(p.name, "", p.description, p.filters, p.kind)); err != nil {
			return nil, err
		}
	}
	return s, nil
}
