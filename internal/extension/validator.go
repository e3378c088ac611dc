package extension

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Result holds the validation outcome for a single extension definition.
// Issues are blocking; Warnings (such as failed domain probes) are not.
type Result struct {
	Name     string
	Issues   []ValidationIssue
	Warnings []string
}

// Valid reports whether the definition passed all blocking checks.
func (r Result) Valid() bool {
	return len(r.Issues) == 0
}

// Validator checks extension definitions against the embedded schema and the
// semantic rules. When probe is set it additionally resolves each declared
// download domain and reports failures as warnings.
type Validator struct {
	loader *Loader
	probe  bool
}

// NewValidator returns a Validator over the given loader's extension root.
func NewValidator(loader *Loader, probe bool) *Validator {
	return &Validator{loader: loader, probe: probe}
}

// ValidateOne validates a single extension by name. The error return covers
// unreadable or unparseable definitions; validation findings come back in
// the Result.
func (v *Validator) ValidateOne(ctx context.Context, name string) (Result, error) {
	res := Result{Name: name}

	path := filepath.Join(v.loader.Dir(name), DefinitionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return res, &LoadError{Name: name, Path: path, Err: err}
	}

	issues, err := ValidateSchema(data)
	if err != nil {
		return res, &LoadError{Name: name, Path: path, Err: err}
	}
	res.Issues = issues
	if len(issues) > 0 {
		// Semantic checks assume a schema-valid document.
		return res, nil
	}

	def, err := v.loader.LoadOne(name)
	if err != nil {
		return res, err
	}
	res.Issues = ValidateDefinition(def)

	if v.probe && def.Requirements != nil && len(def.Requirements.Domains) > 0 {
		res.Warnings = ProbeDomains(ctx, def.Requirements.Domains)
	}
	return res, nil
}

// ValidateAll validates every extension under the loader's root and returns
// one Result per extension, sorted by name. Definitions that cannot be read
// at all surface as a Result with a single issue rather than aborting the
// sweep.
func (v *Validator) ValidateAll(ctx context.Context) ([]Result, error) {
	names, err := v.loader.Names()
	if err != nil {
		return nil, fmt.Errorf("listing extensions: %w", err)
	}

	results := make([]Result, 0, len(names))
	for _, name := range names {
		res, err := v.ValidateOne(ctx, name)
		if err != nil {
			res = Result{Name: name, Issues: []ValidationIssue{{Message: err.Error()}}}
		}
		results = append(results, res)
	}
	return results, nil
}
