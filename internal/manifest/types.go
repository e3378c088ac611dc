package manifest

import (
	"fmt"
	"time"
)

// SchemaVersion is the current manifest document version.
const SchemaVersion = 1

// Entry records one extension the environment has seen. An inactive entry
// is an extension that was installed and later removed.
type Entry struct {
	Name      string `yaml:"name"`
	Active    bool   `yaml:"active"`
	Category  string `yaml:"category,omitempty"`
	Protected bool   `yaml:"protected,omitempty"`
}

// Manifest is the on-disk environment state document. Extensions keeps
// first-added order.
type Manifest struct {
	Version    int       `yaml:"version"`
	Generated  time.Time `yaml:"generated"`
	Extensions []Entry   `yaml:"extensions"`
}

// NamingError reports a name that violates the manifest naming rules.
// It is raised before any write, so the manifest on disk is untouched.
type NamingError struct {
	Name string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("invalid extension name %q: must match ^[a-z0-9-]+$ and contain at least one letter or digit", e.Name)
}

// PermissionError reports an operation rejected because the entry is
// protected.
type PermissionError struct {
	Name string
	Op   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("cannot %s %q: entry is protected", e.Op, e.Name)
}

// find returns the index of name in m.Extensions, or -1.
func (m *Manifest) find(name string) int {
	for i, e := range m.Extensions {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the entry for name and whether it exists.
func (m *Manifest) Get(name string) (Entry, bool) {
	if i := m.find(name); i >= 0 {
		return m.Extensions[i], true
	}
	return Entry{}, false
}

// Active returns the entries currently active, in manifest order.
func (m *Manifest) Active() []Entry {
	var out []Entry
	for _, e := range m.Extensions {
		if e.Active {
			out = append(out, e)
		}
	}
	return out
}
