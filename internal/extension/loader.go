package extension

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"
)

// DefinitionFile is the document name expected inside each extension
// directory.
const DefinitionFile = "extension.yaml"

// LoadError reports a definition document that could not be loaded. Path is
// the originating document; Field, when known, is the offending field path.
type LoadError struct {
	Name  string
	Path  string
	Field string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("loading %s (%s): field %s: %v", e.Name, e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("loading %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads extension definitions from a root directory laid out as
// <root>/<name>/extension.yaml.
type Loader struct {
	root string
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{root: dir}
}

// Root returns the directory the loader reads from.
func (l *Loader) Root() string { return l.root }

// Dir returns the directory holding the named extension's definition and
// resources (scripts, templates).
func (l *Loader) Dir(name string) string {
	return filepath.Join(l.root, name)
}

// LoadOne reads and parses a single extension definition. The definition's
// declared name must match the directory name.
func (l *Loader) LoadOne(name string) (*Definition, error) {
	path := filepath.Join(l.root, name, DefinitionFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Name: name, Path: path, Err: err}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &LoadError{Name: name, Path: path, Err: err}
	}

	if def.Metadata.Name != name {
		return nil, &LoadError{
			Name:  name,
			Path:  path,
			Field: "metadata.name",
			Err:   fmt.Errorf("definition declares %q but directory is %q", def.Metadata.Name, name),
		}
	}

	return &def, nil
}

// LoadAll reads every extension definition under the root directory.
// A malformed definition fails only that extension: it is reported in the
// returned error slice and the remaining definitions still load.
func (l *Loader) LoadAll() (map[string]*Definition, []error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, []error{fmt.Errorf("reading extensions directory %s: %w", l.root, err)}
	}

	defs := make(map[string]*Definition)
	var errs []error

	// Sort for deterministic error ordering; map iteration order is not
	// relied on by callers.
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		def, err := l.LoadOne(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defs[name] = def
	}

	return defs, errs
}

// Names returns the sorted names of all extension directories under the
// root, without parsing their definitions.
func (l *Loader) Names() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("reading extensions directory %s: %w", l.root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
