package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anvil-dev/anvil/internal/registry"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "manifest.yaml"), nil)
}

func TestLoad_MissingFile(t *testing.T) {
	m := testManager(t)
	doc, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Extensions) != 0 {
		t.Errorf("expected empty manifest, got %v", doc.Extensions)
	}
}

func TestAdd(t *testing.T) {
	m := testManager(t)
	if err := m.Add("go-toolchain", "language", false); err != nil {
		t.Fatal(err)
	}

	doc, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	e, ok := doc.Get("go-toolchain")
	if !ok {
		t.Fatal("entry not found after Add")
	}
	if !e.Active || e.Category != "language" || e.Protected {
		t.Errorf("entry = %+v", e)
	}
	if doc.Version != SchemaVersion {
		t.Errorf("version = %d", doc.Version)
	}
	if doc.Generated.IsZero() {
		t.Error("generated timestamp not set")
	}
}

func TestAdd_PreservesOrder(t *testing.T) {
	m := testManager(t)
	names := []string{"base-system", "git", "go-toolchain"}
	for _, n := range names {
		if err := m.Add(n, "base", false); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := m.List(true)
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range names {
		if entries[i].Name != n {
			t.Fatalf("entries = %v, want order %v", entries, names)
		}
	}
}

func TestAdd_InvalidName(t *testing.T) {
	m := testManager(t)
	if err := m.Add("seed", "base", false); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(m.Path())
	if err != nil {
		t.Fatal(err)
	}

	for _, bad := range []string{"", "Bad", "has space", "under_score", "---", "dot.name"} {
		var nameErr *NamingError
		if err := m.Add(bad, "base", false); !errors.As(err, &nameErr) {
			t.Errorf("Add(%q): expected NamingError, got %v", bad, err)
		}
	}

	after, err := os.ReadFile(m.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("manifest changed after rejected names")
	}
}

func TestRemove(t *testing.T) {
	m := testManager(t)
	if err := m.Add("jq", "utilities", false); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove("jq"); err != nil {
		t.Fatal(err)
	}

	doc, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	e, ok := doc.Get("jq")
	if !ok {
		t.Fatal("entry deleted; removal must only deactivate")
	}
	if e.Active {
		t.Error("entry still active after Remove")
	}

	active, err := m.List(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("active = %v", active)
	}
}

func TestRemove_Protected(t *testing.T) {
	m := testManager(t)
	if err := m.Add("base-system", "base", true); err != nil {
		t.Fatal(err)
	}

	err := m.Remove("base-system")
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}

	e, _ := mustGet(t, m, "base-system")
	if !e.Active {
		t.Error("protected entry was deactivated")
	}
}

func TestRemove_Unknown(t *testing.T) {
	m := testManager(t)
	if err := m.Remove("ghost"); err == nil {
		t.Fatal("expected error removing unknown extension")
	}
}

func TestAdd_Reactivates(t *testing.T) {
	m := testManager(t)
	if err := m.Add("jq", "utilities", false); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove("jq"); err != nil {
		t.Fatal(err)
	}
	if err := m.Add("jq", "utilities", false); err != nil {
		t.Fatal(err)
	}

	entries, err := m.List(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected single entry after reinstall, got %v", entries)
	}
	if !entries[0].Active {
		t.Error("entry inactive after reinstall")
	}
}

func TestInitialize(t *testing.T) {
	reg := &registry.Registry{Extensions: map[string]registry.Entry{
		"base-system": {Category: "base", Protected: true},
		"curl":        {Category: "base"},
		"vault":       {Category: "security", Protected: true},
		"jq":          {Category: "utilities"},
	}}

	m := testManager(t)
	if err := m.Initialize(reg); err != nil {
		t.Fatal(err)
	}

	// Protected and base-category entries are seeded; jq is neither.
	entries, err := m.List(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 seeded entries, got %v", entries)
	}
	for _, e := range entries {
		if e.Name == "jq" {
			t.Error("jq should not be seeded")
		}
		if !e.Active {
			t.Errorf("seeded entry inactive: %+v", e)
		}
	}

	doc, _ := m.Load()
	if e, _ := doc.Get("curl"); e.Protected {
		t.Error("curl seeded as protected without the registry flag")
	}
	if e, _ := doc.Get("vault"); !e.Protected {
		t.Error("vault lost its protected flag")
	}

	// Idempotent.
	if err := m.Initialize(reg); err != nil {
		t.Fatal(err)
	}
	entries, _ = m.List(true)
	if len(entries) != 3 {
		t.Errorf("expected 3 entries after re-init, got %v", entries)
	}
}

func mustGet(t *testing.T, m *Manager, name string) (Entry, bool) {
	t.Helper()
	doc, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	e, ok := doc.Get(name)
	if !ok {
		t.Fatalf("entry %q not found", name)
	}
	return e, ok
}
