package registry

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"
)

// Profile is a named bundle of extensions installed together.
type Profile struct {
	Description string   `yaml:"description"`
	Extensions  []string `yaml:"extensions"`
}

// Profiles maps profile names to their definitions.
type Profiles struct {
	Version  int                `yaml:"version"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadProfiles reads and parses a profiles file.
func LoadProfiles(path string) (*Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles %s: %w", path, err)
	}
	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profiles %s: %w", path, err)
	}
	if p.Profiles == nil {
		p.Profiles = make(map[string]Profile)
	}
	return &p, nil
}

// Get returns the named profile and whether it exists.
func (p *Profiles) Get(name string) (Profile, bool) {
	prof, ok := p.Profiles[name]
	return prof, ok
}

// Names returns all profile names, sorted.
func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.Profiles))
	for name := range p.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every profile member is a registered extension.
func (p *Profiles) Validate(reg *Registry) []error {
	var errs []error
	for _, name := range p.Names() {
		prof := p.Profiles[name]
		for _, ext := range prof.Extensions {
			if _, ok := reg.Get(ext); !ok {
				errs = append(errs, fmt.Errorf("profile %q: extension %q is not registered", name, ext))
			}
		}
	}
	return errs
}
