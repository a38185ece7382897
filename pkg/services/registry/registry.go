package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/reporter/pkg/models/domain"
)

var (
	ErrAlreadyRegistered = errors.New("report is already registered")
	ErrNotRegistered     = errors.New("report is not registered")
)

// Registry maps report names to their definitions
type Registry struct {
	mu      sync.RWMutex
	reports map[string]domain.Definition
}

// New creates an empty report registry
func New() *Registry {
	return &Registry{
		reports: make(map[string]domain.Definition),
	}
}

// Register adds a report definition under its name
func (r *Registry) Register(def domain.Definition) error {
	if def == nil {
		return fmt.Errorf("report definition cannot be nil")
	}
	name := def.Name()
	if name == "" {
		return fmt.Errorf("report name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[name]; exists {
		return fmt.Errorf("report %q: %w", name, ErrAlreadyRegistered)
	}

	r.reports[name] = def
	return nil
}

// Unregister removes the report with the given name
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[name]; !exists {
		return fmt.Errorf("report %q: %w", name, ErrNotRegistered)
	}

	delete(r.reports, name)
	return nil
}

// Get looks up a report definition by name
func (r *Registry) Get(name string) (domain.Definition, error) {
	r.mu.RLock()
	def, exists := r.reports[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("report %q: %w", name, ErrNotRegistered)
	}
	return def, nil
}

// ListNames returns the names of all registered reports, sorted
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.reports))
	for name := range r.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListAll returns every registered definition, sorted by name
func (r *Registry) ListAll() []domain.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]domain.Definition, 0, len(r.reports))
	for _, def := range r.reports {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name() < defs[j].Name()
	})
	return defs
}

// ByFrequency groups the registered definitions under each frequency they support.
// A definition supporting several frequencies appears in each group.
func (r *Registry) ByFrequency() map[domain.Frequency][]domain.Definition {
	groups := make(map[domain.Frequency][]domain.Definition, len(domain.AllFrequencies))
	for _, def := range r.ListAll() {
		for _, f := range domain.AllFrequencies {
			if domain.Supports(def, f) {
				groups[f] = append(groups[f], def)
			}
		}
	}
	return groups
}
