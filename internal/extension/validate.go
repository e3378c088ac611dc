package extension

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ValidateDefinition runs the semantic checks that the JSON schema cannot
// express: method/block consistency, self-dependencies, duplicate entries,
// and semver-parseable versions. It assumes the definition already passed
// schema validation, so it does not re-check required fields.
func ValidateDefinition(def *Definition) []ValidationIssue {
	var issues []ValidationIssue

	name := def.Metadata.Name
	if !ValidName(name) {
		issues = append(issues, ValidationIssue{
			Path:    "/metadata/name",
			Message: fmt.Sprintf("name %q must match ^[a-z0-9-]+$ and contain at least one letter or digit", name),
		})
	}

	if def.Metadata.Version != "" {
		if _, err := semver.NewVersion(def.Metadata.Version); err != nil {
			issues = append(issues, ValidationIssue{
				Path:    "/metadata/version",
				Message: fmt.Sprintf("version %q is not valid semver: %v", def.Metadata.Version, err),
			})
		}
	}

	seenDeps := make(map[string]bool)
	for i, dep := range def.Metadata.Dependencies {
		path := fmt.Sprintf("/metadata/dependencies/%d", i)
		if dep == name {
			issues = append(issues, ValidationIssue{
				Path:    path,
				Message: fmt.Sprintf("extension %q cannot depend on itself", name),
			})
		}
		if seenDeps[dep] {
			issues = append(issues, ValidationIssue{
				Path:    path,
				Message: fmt.Sprintf("duplicate dependency %q", dep),
			})
		}
		seenDeps[dep] = true
	}

	issues = append(issues, validateInstall(&def.Install)...)

	if def.Upgrade != nil {
		if def.Upgrade.Strategy == UpgradeInPlace && def.Upgrade.Script == nil {
			issues = append(issues, ValidationIssue{
				Path:    "/upgrade",
				Message: "in-place upgrade strategy requires an upgrade script",
			})
		}
		if def.Upgrade.Strategy == UpgradeReinstall && def.Upgrade.Script != nil {
			issues = append(issues, ValidationIssue{
				Path:    "/upgrade/script",
				Message: "reinstall upgrade strategy does not use a script",
			})
		}
	}

	if def.Requirements != nil {
		issues = append(issues, validateDomains(def.Requirements.Domains)...)
	}

	if def.BOM != nil {
		seenTools := make(map[string]bool)
		for i, tool := range def.BOM.Tools {
			key := tool.Name + "|" + tool.Source
			if seenTools[key] {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("/bom/tools/%d", i),
					Message: fmt.Sprintf("duplicate tool %q from source %q", tool.Name, tool.Source),
				})
			}
			seenTools[key] = true
		}
	}

	return issues
}

// validateInstall checks that exactly the block matching the declared method
// is present.
func validateInstall(spec *InstallSpec) []ValidationIssue {
	var issues []ValidationIssue

	type block struct {
		name    string
		present bool
	}
	blocks := []block{
		{MethodMise, spec.Mise != nil},
		{MethodApt, spec.Apt != nil},
		{MethodScript, spec.Script != nil},
	}

	matched := false
	for _, b := range blocks {
		if b.name == spec.Method {
			matched = true
			if !b.present {
				issues = append(issues, ValidationIssue{
					Path:    "/install",
					Message: fmt.Sprintf("method %q requires an install.%s block", spec.Method, b.name),
				})
			}
			continue
		}
		if b.present {
			issues = append(issues, ValidationIssue{
				Path:    "/install/" + b.name,
				Message: fmt.Sprintf("install.%s block conflicts with method %q", b.name, spec.Method),
			})
		}
	}
	if !matched && spec.Method != "" {
		issues = append(issues, ValidationIssue{
			Path:    "/install/method",
			Message: fmt.Sprintf("unknown install method %q", spec.Method),
		})
	}

	if spec.Method == MethodMise && spec.Mise != nil && len(spec.Mise.Tools) == 0 {
		issues = append(issues, ValidationIssue{
			Path:    "/install/mise/tools",
			Message: "mise install declares no tools",
		})
	}

	return issues
}
