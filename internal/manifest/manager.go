package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"go.yaml.in/yaml/v3"

	"github.com/anvil-dev/anvil/internal/extension"
	"github.com/anvil-dev/anvil/internal/platform"
	"github.com/anvil-dev/anvil/internal/registry"
	"github.com/anvil-dev/anvil/internal/userdata"
)

// Manager serializes reads and writes of the manifest file.
type Manager struct {
	path   string
	logger *log.Logger
}

// NewManager returns a Manager for the manifest at path. A nil logger gets
// a default stderr logger.
func NewManager(path string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "manifest"})
	}
	return &Manager{path: path, logger: logger}
}

// Path returns the manifest file location.
func (m *Manager) Path() string { return m.path }

// Load reads the manifest. A missing file yields an empty manifest rather
// than an error, so first use needs no setup step.
func (m *Manager) Load() (*Manifest, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return &Manifest{Version: SchemaVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", m.path, err)
	}
	var doc Manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", m.path, err)
	}
	return &doc, nil
}

// Initialize seeds the manifest with the registry's protected and
// base-category extensions. Already-present entries are left alone, so
// re-running is harmless.
func (m *Manager) Initialize(reg *registry.Registry) error {
	return m.update(func(doc *Manifest) error {
		for _, name := range reg.Names() {
			entry, _ := reg.Get(name)
			if !entry.Protected && entry.Category != extension.CategoryBase {
				continue
			}
			if doc.find(name) >= 0 {
				continue
			}
			doc.Extensions = append(doc.Extensions, Entry{
				Name:      name,
				Active:    true,
				Category:  entry.Category,
				Protected: entry.Protected,
			})
			m.logger.Debug("seeded entry", "extension", name, "protected", entry.Protected)
		}
		return nil
	})
}

// Add marks an extension active, appending a new entry or reactivating an
// existing one. An invalid name fails with NamingError before anything is
// read or written.
func (m *Manager) Add(name, category string, protected bool) error {
	if !extension.ValidName(name) {
		return &NamingError{Name: name}
	}
	return m.update(func(doc *Manifest) error {
		if i := doc.find(name); i >= 0 {
			doc.Extensions[i].Active = true
			doc.Extensions[i].Category = category
			if protected {
				doc.Extensions[i].Protected = true
			}
			m.logger.Debug("reactivated entry", "extension", name)
			return nil
		}
		doc.Extensions = append(doc.Extensions, Entry{
			Name:      name,
			Active:    true,
			Category:  category,
			Protected: protected,
		})
		m.logger.Debug("added entry", "extension", name)
		return nil
	})
}

// Remove deactivates an extension. The entry stays in the manifest as
// history. Protected entries cannot be deactivated.
func (m *Manager) Remove(name string) error {
	if !extension.ValidName(name) {
		return &NamingError{Name: name}
	}
	return m.update(func(doc *Manifest) error {
		i := doc.find(name)
		if i < 0 {
			return fmt.Errorf("extension %q is not in the manifest", name)
		}
		if doc.Extensions[i].Protected {
			return &PermissionError{Name: name, Op: "remove"}
		}
		doc.Extensions[i].Active = false
		m.logger.Debug("deactivated entry", "extension", name)
		return nil
	})
}

// List returns manifest entries in manifest order. With all set, inactive
// entries are included.
func (m *Manager) List(all bool) ([]Entry, error) {
	doc, err := m.Load()
	if err != nil {
		return nil, err
	}
	if all {
		return doc.Extensions, nil
	}
	return doc.Active(), nil
}

// update applies fn to the manifest under the cross-process lock and writes
// the result atomically. If fn fails, nothing is written.
func (m *Manager) update(fn func(*Manifest) error) error {
	lock, err := acquireLock(m.path + ".lock")
	if err != nil {
		return err
	}
	defer lock.release()

	doc, err := m.Load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}

	doc.Version = SchemaVersion
	doc.Generated = time.Now().UTC()
	return writeAtomic(m.path, doc)
}

// writeAtomic marshals doc to a temp file in the manifest's directory and
// renames it into place, so readers see either the old document or the new
// one, never a partial write.
func writeAtomic(path string, doc *Manifest) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, userdata.DirPermSecure); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp manifest: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp manifest: %w", err)
	}
	if err := platform.Chmod(tmpPath, userdata.FilePermSecure); err != nil {
		return fmt.Errorf("setting manifest permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing manifest: %w", err)
	}
	return nil
}
