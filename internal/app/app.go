// Package app wires the look engine together: configuration, settings, the
// operator registry, the pipeline and its metrics, and the image cache. One
// App is built at startup and handed to the server and the CLI.
package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ironsheep/look-tools-mcp/internal/config"
	"github.com/ironsheep/look-tools-mcp/internal/imaging"
	"github.com/ironsheep/look-tools-mcp/internal/logging"
	"github.com/ironsheep/look-tools-mcp/internal/look"
	"github.com/ironsheep/look-tools-mcp/internal/operator"
	"github.com/ironsheep/look-tools-mcp/internal/operator/adjust"
	"github.com/ironsheep/look-tools-mcp/internal/operator/colorspace"
	"github.com/ironsheep/look-tools-mcp/internal/operator/filetransform"
	"github.com/ironsheep/look-tools-mcp/internal/operator/matrix"
	"github.com/ironsheep/look-tools-mcp/internal/operator/script"
	"github.com/ironsheep/look-tools-mcp/internal/param"
	"github.com/ironsheep/look-tools-mcp/internal/pipeline"
	"github.com/ironsheep/look-tools-mcp/internal/registry"
	"github.com/ironsheep/look-tools-mcp/internal/settings"
)

// ErrNoImage is returned by operations that need a loaded image.
var ErrNoImage = errors.New("no image loaded")

// App is the application context.
type App struct {
	Config   config.Config
	Log      zerolog.Logger
	Settings *settings.Settings
	Registry *registry.Registry
	Pipeline *pipeline.Pipeline
	Images   *imaging.ImageCache

	metrics  *prometheus.Registry
	source   *imaging.Image
	lookPath string
}

// New builds the context. store backs the settings; nil keeps them in
// memory. The image named by the Default Image setting is loaded when set.
func New(cfg config.Config, log zerolog.Logger, store param.Store) (*App, error) {
	s, err := settings.NewApp(store, logging.Component(log, "settings"))
	if err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		Settings: s,
		Images:   imaging.NewImageCache(),
		metrics:  prometheus.NewRegistry(),
	}
	a.Registry = registry.New(
		operator.WithLogger(logging.Component(log, "operator")),
		operator.WithRampSize(cfg.RampSize),
	)
	for _, f := range []operator.Factory{
		filetransform.New,
		matrix.New,
		a.newColorSpace,
		a.newScript,
		adjust.New,
	} {
		if !a.Registry.Register(f) {
			return nil, fmt.Errorf("failed to register operator factory")
		}
	}

	a.Pipeline = pipeline.New("main",
		pipeline.WithLogger(logging.Component(log, "pipeline")),
		pipeline.WithMetrics(pipeline.NewMetrics(a.metrics)),
	)

	if p := s.String(settings.DefaultImage); p != "" {
		if _, err := a.LoadImage(p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("default image not loaded")
		}
	}
	return a, nil
}

// newColorSpace creates a Color Space operator on the configured default
// config file.
func (a *App) newColorSpace(opts ...operator.Option) (*operator.Operator, error) {
	op, err := colorspace.New(opts...)
	if err != nil {
		return nil, err
	}
	if p := a.Settings.String(settings.DefaultColorSpaceConfig); p != "" {
		if err := op.LoadPath(p); err != nil {
			a.Log.Warn().Err(err).Str("config", p).Msg("default color space config not loaded")
		}
	}
	return op, nil
}

// newScript creates a Script Transform operator searching the configured
// default script folder.
func (a *App) newScript(opts ...operator.Option) (*operator.Operator, error) {
	op, err := script.New(opts...)
	if err != nil {
		return nil, err
	}
	if dir := a.Settings.String(settings.DefaultScriptFolder); dir != "" {
		op.Kernel().(*script.Kernel).SetBase(dir)
	}
	return op, nil
}

// Gatherer exposes the metrics registry.
func (a *App) Gatherer() prometheus.Gatherer { return a.metrics }

// Source returns the full resolution image, or nil.
func (a *App) Source() *imaging.Image { return a.source }

// LookPath returns the path of the last look loaded, or "".
func (a *App) LookPath() string { return a.lookPath }

// LoadImage decodes path, relative to the Image Base Folder setting, and
// feeds a proxy no larger than the configured proxy size to the pipeline.
// The previous image is evicted from the cache.
func (a *App) LoadImage(path string) (*imaging.Image, error) {
	path = resolve(a.Settings.String(settings.ImageBaseFolder), path)
	img, err := a.Images.Load(path)
	if err != nil {
		return nil, err
	}
	if a.source != nil && a.source.Source.Path != path {
		a.Images.Evict(a.source.Source.Path)
	}
	a.source = img
	a.Pipeline.SetInput(img.Fit(a.Config.ProxyWidth, a.Config.ProxyHeight))
	a.Log.Info().
		Str("path", path).
		Int("width", img.Width).
		Int("height", img.Height).
		Msg("image loaded")
	return img, nil
}

// LoadLook replaces the pipeline operators with the look at path, relative
// to the Look Base Folder setting. When the Look Tonemap LUT setting names a
// file, it is appended as a last stage.
func (a *App) LoadLook(path string) (*look.Look, error) {
	path = resolve(a.Settings.String(settings.LookBaseFolder), path)
	l, err := look.Load(path)
	if err != nil {
		return nil, err
	}
	ops, err := l.Build(a.Registry, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if tm := a.Settings.String(settings.LookTonemapLUT); tm != "" {
		op, err := a.Registry.CreateFromPath(tm)
		if err != nil {
			return nil, fmt.Errorf("failed to load tonemap lut: %w", err)
		}
		ops = append(ops, op)
	}

	a.Pipeline.Reset()
	a.Pipeline.SetName(l.Name)
	for _, op := range ops {
		a.Pipeline.Add(op)
	}
	a.lookPath = path
	a.Log.Info().Str("look", l.Name).Int("stages", len(ops)).Msg("look loaded")
	return l, nil
}

// SaveLook writes the current pipeline as a look file.
func (a *App) SaveLook(path string) error {
	l, err := look.FromPipeline(a.Pipeline, a.Registry)
	if err != nil {
		return err
	}
	path = resolve(a.Settings.String(settings.LookBaseFolder), path)
	if err := l.Save(path); err != nil {
		return err
	}
	a.lookPath = path
	return nil
}

// Render folds the full resolution image through the pipeline.
func (a *App) Render() (*imaging.Image, error) {
	if a.source == nil {
		return nil, ErrNoImage
	}
	return a.Pipeline.ComputeImage(a.source), nil
}

// SaveOutput renders the full resolution image and writes it to path.
func (a *App) SaveOutput(path string) error {
	out, err := a.Render()
	if err != nil {
		return err
	}
	return out.Save(path)
}

// ExportLUT writes the pipeline as a size^3 .cube file. A size of 0 uses the
// configured LUT size.
func (a *App) ExportLUT(path string, size int) error {
	if size == 0 {
		size = a.Config.LUTSize
	}
	return a.Pipeline.ExportLUT(path, size)
}

func resolve(dir, path string) string {
	if path == "" || dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
