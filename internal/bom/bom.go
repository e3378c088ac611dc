package bom

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/anvil-dev/anvil/internal/extension"
	"github.com/anvil-dev/anvil/internal/manifest"
	"github.com/anvil-dev/anvil/internal/userdata"
)

// SchemaVersion is the current BOM document version.
const SchemaVersion = 1

// DynamicVersion marks a component whose version is only known after
// installation.
const DynamicVersion = "dynamic"

// Component is one entry in the bill of materials.
type Component struct {
	Extension string `yaml:"extension"`
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	Type      string `yaml:"type,omitempty"`
	Source    string `yaml:"source"`
}

// Document is the generated bill of materials.
type Document struct {
	Version    int         `yaml:"version"`
	Generated  time.Time   `yaml:"generated"`
	Total      int         `yaml:"total"`
	Components []Component `yaml:"components"`
}

// Tracker records versions resolved at install time and generates BOM
// documents from the manifest's active extensions.
type Tracker struct {
	resolvedPath string
}

// NewTracker returns a Tracker persisting resolved versions at path.
func NewTracker(resolvedPath string) *Tracker {
	return &Tracker{resolvedPath: resolvedPath}
}

type resolvedVersions map[string]string

func resolvedKey(ext, component, source string) string {
	return ext + "|" + component + "|" + source
}

// RecordResolved stores the version observed for a component at install or
// upgrade time.
func (t *Tracker) RecordResolved(ext, component, source, version string) error {
	versions, err := t.loadResolved()
	if err != nil {
		return err
	}
	versions[resolvedKey(ext, component, source)] = version

	data, err := yaml.Marshal(versions)
	if err != nil {
		return fmt.Errorf("marshaling resolved versions: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(t.resolvedPath), userdata.DirPermSecure); err != nil {
		return fmt.Errorf("creating bom directory: %w", err)
	}
	if err := os.WriteFile(t.resolvedPath, data, userdata.FilePermSecure); err != nil {
		return fmt.Errorf("writing resolved versions: %w", err)
	}
	return nil
}

func (t *Tracker) loadResolved() (resolvedVersions, error) {
	data, err := os.ReadFile(t.resolvedPath)
	if os.IsNotExist(err) {
		return make(resolvedVersions), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading resolved versions %s: %w", t.resolvedPath, err)
	}
	versions := make(resolvedVersions)
	if err := yaml.Unmarshal(data, &versions); err != nil {
		return nil, fmt.Errorf("parsing resolved versions %s: %w", t.resolvedPath, err)
	}
	return versions, nil
}

// Generate builds a BOM document covering the active manifest entries.
// Components are emitted in manifest order, then declaration order, and
// deduplicated on extension, name, and source. Dynamic versions are
// replaced with recorded ones when available.
func (t *Tracker) Generate(entries []manifest.Entry, loader *extension.Loader) (*Document, error) {
	versions, err := t.loadResolved()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version:   SchemaVersion,
		Generated: time.Now().UTC(),
	}
	seen := make(map[string]bool)

	for _, entry := range entries {
		if !entry.Active {
			continue
		}
		def, err := loader.LoadOne(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("loading %s for bom: %w", entry.Name, err)
		}
		if def.BOM == nil {
			continue
		}
		for _, tool := range def.BOM.Tools {
			key := resolvedKey(entry.Name, tool.Name, tool.Source)
			if seen[key] {
				continue
			}
			seen[key] = true

			version := tool.Version
			if version == "" {
				version = DynamicVersion
			}
			if version == DynamicVersion {
				if recorded, ok := versions[key]; ok {
					version = recorded
				}
			}
			doc.Components = append(doc.Components, Component{
				Extension: entry.Name,
				Name:      tool.Name,
				Version:   version,
				Type:      tool.Type,
				Source:    tool.Source,
			})
		}
	}

	doc.Total = len(doc.Components)
	return doc, nil
}

// Write persists a generated document to path.
func Write(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling bom: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), userdata.DirPermSecure); err != nil {
		return fmt.Errorf("creating bom directory: %w", err)
	}
	if err := os.WriteFile(path, data, userdata.FilePermSecure); err != nil {
		return fmt.Errorf("writing bom %s: %w", path, err)
	}
	return nil
}
