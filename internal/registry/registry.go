package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/anvil-dev/anvil/internal/extension"
)

// Entry describes one registered extension.
type Entry struct {
	Category     string   `yaml:"category"`
	Description  string   `yaml:"description"`
	Protected    bool     `yaml:"protected,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// Registry is the catalog of known extensions keyed by name.
type Registry struct {
	Version    int              `yaml:"version"`
	Extensions map[string]Entry `yaml:"extensions"`
}

// Load reads and parses a registry file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	if reg.Extensions == nil {
		reg.Extensions = make(map[string]Entry)
	}
	return &reg, nil
}

// Get returns the entry for name and whether it exists.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.Extensions[name]
	return e, ok
}

// Names returns all registered extension names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Extensions))
	for name := range r.Extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByCategory returns the sorted names of extensions in the given category.
func (r *Registry) ByCategory(category string) []string {
	var names []string
	for name, e := range r.Extensions {
		if e.Category == category {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ProtectedNames returns the sorted names of protected extensions.
func (r *Registry) ProtectedNames() []string {
	var names []string
	for name, e := range r.Extensions {
		if e.Protected {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Search returns the sorted names of extensions whose name or description
// contains the term, case-insensitively. An empty term matches everything.
func (r *Registry) Search(term string) []string {
	term = strings.ToLower(term)
	var names []string
	for name, e := range r.Extensions {
		if strings.Contains(strings.ToLower(name), term) ||
			strings.Contains(strings.ToLower(e.Description), term) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Validate checks that every entry has a valid name and category and that
// every dependency refers to another registered extension.
func (r *Registry) Validate() []error {
	var errs []error
	for _, name := range r.Names() {
		e := r.Extensions[name]
		if !extension.ValidName(name) {
			errs = append(errs, fmt.Errorf("registry entry %q: invalid name", name))
		}
		if e.Category != "" && !validCategory(e.Category) {
			errs = append(errs, fmt.Errorf("registry entry %q: unknown category %q", name, e.Category))
		}
		for _, dep := range e.Dependencies {
			if dep == name {
				errs = append(errs, fmt.Errorf("registry entry %q: depends on itself", name))
				continue
			}
			if _, ok := r.Extensions[dep]; !ok {
				errs = append(errs, fmt.Errorf("registry entry %q: dependency %q is not registered", name, dep))
			}
		}
	}
	return errs
}

// CrossCheck compares loaded definitions against registry entries. A
// definition that declares a dependency its registry entry omits would be
// resolved out of order, since installation order comes from the registry
// graph; such drift is reported here so it surfaces before it bites.
func (r *Registry) CrossCheck(defs map[string]*extension.Definition) []error {
	var errs []error
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		def := defs[name]
		entry, ok := r.Extensions[name]
		if !ok {
			errs = append(errs, fmt.Errorf("definition %q is not registered", name))
			continue
		}
		declared := make(map[string]bool, len(entry.Dependencies))
		for _, dep := range entry.Dependencies {
			declared[dep] = true
		}
		for _, dep := range def.Metadata.Dependencies {
			if !declared[dep] {
				errs = append(errs, fmt.Errorf("definition %q declares dependency %q missing from its registry entry", name, dep))
			}
		}
	}
	return errs
}

func validCategory(c string) bool {
	for _, known := range extension.ValidCategories {
		if c == known {
			return true
		}
	}
	return false
}
