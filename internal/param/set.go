package param

import "fmt"

// DefaultCategory is used when a parameter is added without a category.
const DefaultCategory = "Global"

type entry struct {
	param    Parameter
	category string
}

// Set is an ordered collection of uniquely named parameters, each tagged with
// a display category fixed at insertion.
type Set struct {
	entries []entry
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{}
}

// Add appends p under category and returns it with its concrete type. A
// duplicate name leaves the set unchanged and returns the zero value together
// with ErrDuplicateName.
func Add[T Parameter](s *Set, category string, p T) (T, error) {
	if err := s.Add(category, p); err != nil {
		var zero T
		return zero, err
	}
	return p, nil
}

// Get returns the parameter named name if it exists and has type T.
func Get[T Parameter](s *Set, name string) (T, bool) {
	p, ok := s.Get(name).(T)
	return p, ok
}

// Add appends p under category, or DefaultCategory when category is empty.
func (s *Set) Add(category string, p Parameter) error {
	if s.Has(p.Name()) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name())
	}
	if category == "" {
		category = DefaultCategory
	}
	s.entries = append(s.entries, entry{param: p, category: category})
	return nil
}

// Get returns the parameter named name, or nil.
func (s *Set) Get(name string) Parameter {
	if i := s.index(name); i >= 0 {
		return s.entries[i].param
	}
	return nil
}

// Has reports whether a parameter is named name.
func (s *Set) Has(name string) bool {
	return s.index(name) >= 0
}

// Delete removes the parameter named name and reports whether it existed.
func (s *Set) Delete(name string) bool {
	i := s.index(name)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Len returns the number of parameters.
func (s *Set) Len() int {
	return len(s.entries)
}

// All returns the parameters in insertion order.
func (s *Set) All() []Parameter {
	out := make([]Parameter, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.param
	}
	return out
}

// Category returns the category of the parameter named name.
func (s *Set) Category(name string) (string, bool) {
	if i := s.index(name); i >= 0 {
		return s.entries[i].category, true
	}
	return "", false
}

// Categories maps each category to the names it holds, in insertion order.
func (s *Set) Categories() map[string][]string {
	out := make(map[string][]string)
	for _, e := range s.entries {
		out[e.category] = append(out[e.category], e.param.Name())
	}
	return out
}

// CategoryOrder lists categories in order of first appearance.
func (s *Set) CategoryOrder() []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range s.entries {
		if !seen[e.category] {
			seen[e.category] = true
			out = append(out, e.category)
		}
	}
	return out
}

// LoadAll loads every parameter from st, stopping at the first error.
func (s *Set) LoadAll(st Store) error {
	for _, e := range s.entries {
		if err := e.param.Load(st); err != nil {
			return err
		}
	}
	return nil
}

// SaveAll saves every parameter to st, stopping at the first error.
func (s *Set) SaveAll(st Store) error {
	for _, e := range s.entries {
		if err := e.param.Save(st); err != nil {
			return err
		}
	}
	return nil
}

func (s *Set) index(name string) int {
	for i, e := range s.entries {
		if e.param.Name() == name {
			return i
		}
	}
	return -1
}
