// Package look reads and writes look files: a named, ordered list of
// operators with their parameter values, stored as YAML, JSON or TOML.
//
//	name: Film print
//	operators:
//	  - type: Matrix
//	    parameters:
//	      Opacity: "50"
//	  - path: luts/print.cube
//
// A stage names either an operator type or a file that some operator type
// recognizes. Relative paths, in "path" and in path parameters, resolve
// against the folder of the look file.
package look

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/look-tools-mcp/internal/operator"
	"github.com/ironsheep/look-tools-mcp/internal/param"
	"github.com/ironsheep/look-tools-mcp/internal/pipeline"
	"github.com/ironsheep/look-tools-mcp/internal/registry"
)

// ErrInvalidStage is returned for a stage with neither or both of type and
// path.
var ErrInvalidStage = errors.New("stage needs exactly one of type or path")

// Look is a declarative pipeline.
type Look struct {
	Name      string  `json:"name" yaml:"name" toml:"name"`
	Operators []Stage `json:"operators" yaml:"operators" toml:"operators"`
}

// Stage describes one operator.
type Stage struct {
	Type       string            `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Path       string            `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters,omitempty"`
}

// Load reads a look file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (*Look, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read look: %w", err)
	}
	var l Look
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &l)
	case ".json":
		err = json.Unmarshal(b, &l)
	case ".toml":
		err = toml.Unmarshal(b, &l)
	default:
		return nil, fmt.Errorf("unsupported look extension: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse look %s: %w", path, err)
	}
	if l.Name == "" {
		l.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &l, nil
}

// Save writes l to path, encoding by extension.
func (l *Look) Save(path string) error {
	var (
		b   []byte
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		b, err = yaml.Marshal(l)
	case ".json":
		b, err = json.MarshalIndent(l, "", "  ")
	case ".toml":
		b, err = toml.Marshal(l)
	default:
		return fmt.Errorf("unsupported look extension: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode look: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write look: %w", err)
	}
	return nil
}

// Build creates the operators of l with reg. Relative paths resolve against
// dir.
func (l *Look) Build(reg *registry.Registry, dir string) ([]*operator.Operator, error) {
	ops := make([]*operator.Operator, 0, len(l.Operators))
	for i, s := range l.Operators {
		op, err := s.build(reg, dir)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Populate replaces the operators of p with those of l.
func (l *Look) Populate(p *pipeline.Pipeline, reg *registry.Registry, dir string) error {
	ops, err := l.Build(reg, dir)
	if err != nil {
		return err
	}
	p.Reset()
	p.SetName(l.Name)
	for _, op := range ops {
		p.Add(op)
	}
	return nil
}

func (s Stage) build(reg *registry.Registry, dir string) (*operator.Operator, error) {
	var (
		op  *operator.Operator
		err error
	)
	switch {
	case (s.Type == "") == (s.Path == ""):
		return nil, ErrInvalidStage
	case s.Type != "":
		op, err = reg.CreateFromName(s.Type)
	default:
		op, err = reg.CreateFromPath(resolve(dir, s.Path))
	}
	if err != nil {
		return nil, err
	}
	if err := apply(op, s.Parameters, dir); err != nil {
		return nil, err
	}
	return op, nil
}

// apply sets values in the declaration order of the operator parameters, so
// that parameters other parameters depend on are set first.
func apply(op *operator.Operator, values map[string]string, dir string) error {
	seen := 0
	for _, p := range op.Parameters().All() {
		v, ok := values[p.Name()]
		if !ok {
			continue
		}
		seen++
		if p.Kind() == param.KindPath {
			v = resolve(dir, v)
		}
		if err := p.Parse(v); err != nil {
			return fmt.Errorf("failed to set %q on %s: %w", p.Name(), op.Name(), err)
		}
	}
	if seen == len(values) {
		return nil
	}
	var unknown []string
	for name := range values {
		if op.Parameter(name) == nil {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: %s on %s", operator.ErrUnknownParameter, strings.Join(unknown, ", "), op.Name())
}

func resolve(dir, path string) string {
	if path == "" || dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// FromPipeline describes the operators of p. Only parameters that differ
// from a fresh operator of the same type are recorded.
func FromPipeline(p *pipeline.Pipeline, reg *registry.Registry) (*Look, error) {
	l := &Look{Name: p.Name()}
	for _, op := range p.Operators() {
		fresh, err := reg.CreateFromName(op.Name())
		if err != nil {
			return nil, err
		}
		s := Stage{Type: op.Name()}
		for _, prm := range op.Parameters().All() {
			v := prm.String()
			if ref := fresh.Parameter(prm.Name()); ref != nil && ref.String() == v {
				continue
			}
			if s.Parameters == nil {
				s.Parameters = map[string]string{}
			}
			s.Parameters[prm.Name()] = v
		}
		l.Operators = append(l.Operators, s)
	}
	return l, nil
}
