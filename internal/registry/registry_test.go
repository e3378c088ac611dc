package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anvil-dev/anvil/internal/extension"
)

const testRegistry = `version: 1
extensions:
  base-system:
    category: base
    description: Core shell utilities and certificates
    protected: true
  git:
    category: base
    description: Version control
    protected: true
    dependencies: [base-system]
  go-toolchain:
    category: language
    description: Go compiler and tooling
    dependencies: [base-system]
  docker:
    category: infrastructure
    description: Container runtime
    dependencies: [base-system]
`

const testProfiles = `version: 1
profiles:
  backend:
    description: Backend development
    extensions: [go-toolchain, docker]
  minimal:
    description: Bare essentials
    extensions: [git]
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Load(writeTemp(t, "registry.yaml", testRegistry))
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestLoad(t *testing.T) {
	reg := loadTestRegistry(t)
	if len(reg.Extensions) != 4 {
		t.Fatalf("expected 4 extensions, got %d", len(reg.Extensions))
	}
	e, ok := reg.Get("git")
	if !ok {
		t.Fatal("git not found")
	}
	if !e.Protected {
		t.Error("git should be protected")
	}
	if len(e.Dependencies) != 1 || e.Dependencies[0] != "base-system" {
		t.Errorf("git dependencies = %v", e.Dependencies)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing registry")
	}
}

func TestByCategory(t *testing.T) {
	reg := loadTestRegistry(t)
	base := reg.ByCategory("base")
	want := []string{"base-system", "git"}
	if len(base) != len(want) {
		t.Fatalf("base = %v, want %v", base, want)
	}
	for i := range want {
		if base[i] != want[i] {
			t.Fatalf("base = %v, want %v", base, want)
		}
	}
}

func TestProtectedNames(t *testing.T) {
	reg := loadTestRegistry(t)
	prot := reg.ProtectedNames()
	if len(prot) != 2 || prot[0] != "base-system" || prot[1] != "git" {
		t.Errorf("protected = %v", prot)
	}
}

func TestSearch(t *testing.T) {
	reg := loadTestRegistry(t)

	if got := reg.Search("container"); len(got) != 1 || got[0] != "docker" {
		t.Errorf("Search(container) = %v", got)
	}
	if got := reg.Search("GO"); len(got) != 1 || got[0] != "go-toolchain" {
		t.Errorf("Search(GO) = %v", got)
	}
	if got := reg.Search(""); len(got) != 4 {
		t.Errorf("Search(\"\") = %v", got)
	}
	if got := reg.Search("nothing-matches"); len(got) != 0 {
		t.Errorf("Search(nothing-matches) = %v", got)
	}
}

func TestValidate(t *testing.T) {
	reg := loadTestRegistry(t)
	if errs := reg.Validate(); len(errs) != 0 {
		t.Fatalf("expected clean registry, got %v", errs)
	}

	reg.Extensions["broken"] = Entry{
		Category:     "games",
		Dependencies: []string{"broken", "missing"},
	}
	errs := reg.Validate()
	if len(errs) != 3 {
		t.Errorf("expected 3 errors (category, self-dep, unknown dep), got %v", errs)
	}
}

func TestCrossCheck(t *testing.T) {
	reg := loadTestRegistry(t)
	defs := map[string]*extension.Definition{
		"git": {Metadata: extension.Metadata{
			Name:         "git",
			Dependencies: []string{"base-system"},
		}},
	}
	if errs := reg.CrossCheck(defs); len(errs) != 0 {
		t.Fatalf("expected agreement, got %v", errs)
	}

	// A definition-declared dependency the registry entry omits would be
	// ordered wrong at install time.
	defs["go-toolchain"] = &extension.Definition{Metadata: extension.Metadata{
		Name:         "go-toolchain",
		Dependencies: []string{"base-system", "git"},
	}}
	errs := reg.CrossCheck(defs)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "git") {
		t.Errorf("error does not name the missing dependency: %v", errs[0])
	}

	defs["rogue"] = &extension.Definition{Metadata: extension.Metadata{Name: "rogue"}}
	errs = reg.CrossCheck(defs)
	if len(errs) != 2 {
		t.Errorf("expected unregistered definition to be reported, got %v", errs)
	}
}

func TestProfiles(t *testing.T) {
	profs, err := LoadProfiles(writeTemp(t, "profiles.yaml", testProfiles))
	if err != nil {
		t.Fatal(err)
	}

	names := profs.Names()
	if len(names) != 2 || names[0] != "backend" || names[1] != "minimal" {
		t.Errorf("names = %v", names)
	}

	backend, ok := profs.Get("backend")
	if !ok {
		t.Fatal("backend not found")
	}
	if len(backend.Extensions) != 2 {
		t.Errorf("backend extensions = %v", backend.Extensions)
	}

	reg := loadTestRegistry(t)
	if errs := profs.Validate(reg); len(errs) != 0 {
		t.Errorf("expected valid profiles, got %v", errs)
	}

	profs.Profiles["bad"] = Profile{Extensions: []string{"not-registered"}}
	if errs := profs.Validate(reg); len(errs) != 1 {
		t.Errorf("expected 1 error, got %v", errs)
	}
}
