package extension

import (
	"strings"
	"testing"
)

func validDefinition() *Definition {
	return &Definition{
		Metadata: Metadata{
			Name:        "go-toolchain",
			Version:     "1.2.0",
			Description: "Go compiler and tooling",
			Category:    CategoryLanguage,
		},
		Install: InstallSpec{
			Method: MethodMise,
			Mise:   &MiseInstall{Tools: map[string]string{"go": "1.25.0"}},
		},
		Validate: ValidateSpec{
			Commands: []CommandCheck{{Name: "go", VersionFlag: "version"}},
		},
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	issues := ValidateDefinition(validDefinition())
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidateDefinition_BadVersion(t *testing.T) {
	def := validDefinition()
	def.Metadata.Version = "not-a-version"
	issues := ValidateDefinition(def)
	if !hasIssueAt(issues, "/metadata/version") {
		t.Errorf("expected issue at /metadata/version, got %v", issues)
	}
}

func TestValidateDefinition_SelfDependency(t *testing.T) {
	def := validDefinition()
	def.Metadata.Dependencies = []string{"base-system", "go-toolchain"}
	issues := ValidateDefinition(def)
	if !hasIssueAt(issues, "/metadata/dependencies/1") {
		t.Errorf("expected self-dependency issue, got %v", issues)
	}
}

func TestValidateDefinition_DuplicateDependency(t *testing.T) {
	def := validDefinition()
	def.Metadata.Dependencies = []string{"base-system", "base-system"}
	issues := ValidateDefinition(def)
	if !hasIssueAt(issues, "/metadata/dependencies/1") {
		t.Errorf("expected duplicate dependency issue, got %v", issues)
	}
}

func TestValidateDefinition_MethodBlockMismatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
		path   string
	}{
		{
			name: "missing block for method",
			mutate: func(d *Definition) {
				d.Install.Mise = nil
			},
			path: "/install",
		},
		{
			name: "extra block for other method",
			mutate: func(d *Definition) {
				d.Install.Apt = &AptInstall{Packages: []string{"curl"}}
			},
			path: "/install/apt",
		},
		{
			name: "mise with no tools",
			mutate: func(d *Definition) {
				d.Install.Mise = &MiseInstall{}
			},
			path: "/install/mise/tools",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(def)
			issues := ValidateDefinition(def)
			if !hasIssueAt(issues, tt.path) {
				t.Errorf("expected issue at %s, got %v", tt.path, issues)
			}
		})
	}
}

func TestValidateDefinition_UpgradeStrategy(t *testing.T) {
	def := validDefinition()
	def.Upgrade = &UpgradeSpec{Strategy: UpgradeInPlace}
	issues := ValidateDefinition(def)
	if !hasIssueAt(issues, "/upgrade") {
		t.Errorf("expected issue for in-place upgrade without script, got %v", issues)
	}

	def.Upgrade = &UpgradeSpec{
		Strategy: UpgradeReinstall,
		Script:   &ScriptSpec{Path: "scripts/upgrade.sh"},
	}
	issues = ValidateDefinition(def)
	if !hasIssueAt(issues, "/upgrade/script") {
		t.Errorf("expected issue for reinstall upgrade with script, got %v", issues)
	}
}

func TestValidateDefinition_DuplicateBOMTool(t *testing.T) {
	def := validDefinition()
	def.BOM = &BOMSpec{Tools: []BOMTool{
		{Name: "go", Version: "1.25.0", Source: "mise"},
		{Name: "go", Version: "1.25.0", Source: "mise"},
	}}
	issues := ValidateDefinition(def)
	if !hasIssueAt(issues, "/bom/tools/1") {
		t.Errorf("expected duplicate BOM tool issue, got %v", issues)
	}
}

func TestValidateDefinition_Domains(t *testing.T) {
	tests := []struct {
		domain string
		valid  bool
	}{
		{"go.dev", true},
		{"proxy.golang.org", true},
		{"registry-1.docker.io", true},
		{"localhost", false},
		{"https://go.dev", false},
		{"go.dev/dl", false},
		{".go.dev", false},
		{"go.dev.", false},
		{"-bad.example.com", false},
		{"under_score.example.com", false},
		{strings.Repeat("a", 64) + ".example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			def := validDefinition()
			def.Requirements = &Requirements{Domains: []string{tt.domain}}
			issues := ValidateDefinition(def)
			if tt.valid && len(issues) != 0 {
				t.Errorf("expected %q valid, got %v", tt.domain, issues)
			}
			if !tt.valid && !hasIssueAt(issues, "/requirements/domains/0") {
				t.Errorf("expected %q invalid, got %v", tt.domain, issues)
			}
		})
	}
}

func TestValidateDefinition_DuplicateDomain(t *testing.T) {
	def := validDefinition()
	def.Requirements = &Requirements{Domains: []string{"go.dev", "go.dev"}}
	issues := ValidateDefinition(def)
	if !hasIssueAt(issues, "/requirements/domains/1") {
		t.Errorf("expected duplicate domain issue, got %v", issues)
	}
}

func hasIssueAt(issues []ValidationIssue, path string) bool {
	for _, i := range issues {
		if i.Path == path {
			return true
		}
	}
	return false
}
