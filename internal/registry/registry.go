// Package registry keeps the catalog of operator types and builds operators
// by type name or by recognizing a file.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ironsheep/look-tools-mcp/internal/operator"
)

var (
	// ErrUnknownOperator is returned when no operator type has the given
	// name.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnclaimedPath is returned when no operator type recognizes a path.
	ErrUnclaimedPath = errors.New("no operator recognizes path")
)

type entry struct {
	factory   operator.Factory
	prototype *operator.Operator
}

// Registry maps operator type names to factories. Each type keeps one
// prototype instance, used to read its name and to ask whether it claims a
// file; prototypes are never applied to images.
type Registry struct {
	entries map[string]entry
	opts    []operator.Option
}

// New returns an empty registry. opts are passed to every operator it
// creates.
func New(opts ...operator.Option) *Registry {
	return &Registry{entries: make(map[string]entry), opts: opts}
}

// Register adds the type built by f. It returns false, leaving the registry
// unchanged, when a type of the same name is already registered or when f
// fails.
func (r *Registry) Register(f operator.Factory) bool {
	proto, err := f(r.opts...)
	if err != nil || proto == nil {
		return false
	}
	name := proto.Name()
	if _, ok := r.entries[name]; ok {
		return false
	}
	r.entries[name] = entry{factory: f, prototype: proto}
	return true
}

// Names returns the registered type names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Has reports whether an operator type is registered as name.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Prototype returns the prototype of the named type, or nil. It must not be
// added to a pipeline.
func (r *Registry) Prototype(name string) *operator.Operator {
	return r.entries[name].prototype
}

// CreateFromName builds a new operator of the named type.
func (r *Registry) CreateFromName(name string) (*operator.Operator, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, name)
	}
	op, err := e.factory(r.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	return op, nil
}

// CreateFromPath builds an operator of the first type, in lexical name
// order, whose prototype claims path, and configures it from path.
func (r *Registry) CreateFromPath(path string) (*operator.Operator, error) {
	for _, name := range r.Names() {
		if !r.entries[name].prototype.Claims(path) {
			continue
		}
		op, err := r.CreateFromName(name)
		if err != nil {
			return nil, err
		}
		if err := op.LoadPath(path); err != nil {
			return nil, fmt.Errorf("failed to load %s into %s: %w", path, name, err)
		}
		return op, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnclaimedPath, path)
}
