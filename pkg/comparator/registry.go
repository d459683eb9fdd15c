package comparator

import (
	"fmt"
	"sort"
	"sync"
)

// Names of the built-in comparators.
const (
	NameEqual          = "equal"
	NameNotEqual       = "not_equal"
	NameLess           = "less"
	NameLessOrEqual    = "less_equal"
	NameGreater        = "greater"
	NameGreaterOrEqual = "greater_equal"
	NameDeepEqual      = "deep_equal"
)

// Registry maps names to comparators. It is safe for concurrent
// use.
type Registry struct {
	mu          sync.RWMutex
	comparators map[string]Comparator
}

// NewRegistry creates a Registry with all built-in comparators
// registered.
func NewRegistry() *Registry {
	r := &Registry{comparators: make(map[string]Comparator)}
	r.registerDefaults()
	return r
}

// Default is the package-level registry.
var Default = NewRegistry()

func (r *Registry) registerDefaults() {
	r.comparators[NameEqual] = Equal
	r.comparators[NameNotEqual] = NotEqual
	r.comparators[NameLess] = Less
	r.comparators[NameLessOrEqual] = LessOrEqual
	r.comparators[NameGreater] = Greater
	r.comparators[NameGreaterOrEqual] = GreaterOrEqual
	r.comparators[NameDeepEqual] = DeepEqual
}

// Register adds a comparator under name. Returns an error if the
// name is already taken or c is nil.
func (r *Registry) Register(name string, c Comparator) error {
	if c == nil {
		return fmt.Errorf("comparator %s: nil comparator", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comparators[name]; exists {
		return fmt.Errorf(
			"comparator already registered: %s", name,
		)
	}
	r.comparators[name] = c
	return nil
}

// Get returns the comparator registered under name.
func (r *Registry) Get(name string) (Comparator, error) {
	r.mu.RLock()
	c, exists := r.comparators[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown comparator: %s", name)
	}
	return c, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.comparators[name]
	return exists
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.comparators))
	for name := range r.comparators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
