package userdata

import (
	"path/filepath"
	"testing"
)

func TestRootEnvOverride(t *testing.T) {
	t.Setenv("ANVIL_HOME", "/tmp/anvil-test-home")

	root, err := Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root != "/tmp/anvil-test-home" {
		t.Errorf("Root = %q, want env override", root)
	}
}

func TestExtensionsRootDefault(t *testing.T) {
	t.Setenv("ANVIL_HOME", "/tmp/anvil-test-home")

	got, err := GetExtensionsRoot()
	if err != nil {
		t.Fatalf("GetExtensionsRoot: %v", err)
	}
	want := filepath.Join("/tmp/anvil-test-home", ExtensionsDir)
	if got != want {
		t.Errorf("GetExtensionsRoot = %q, want %q", got, want)
	}
}

func TestExtensionsRootEnvOverride(t *testing.T) {
	t.Setenv("ANVIL_EXTENSIONS", "/tmp/custom-extensions")

	got, err := GetExtensionsRoot()
	if err != nil {
		t.Fatalf("GetExtensionsRoot: %v", err)
	}
	if got != "/tmp/custom-extensions" {
		t.Errorf("GetExtensionsRoot = %q, want env override", got)
	}
}

func TestManifestPathDefault(t *testing.T) {
	t.Setenv("ANVIL_HOME", "/tmp/anvil-test-home")

	got, err := GetManifestPath()
	if err != nil {
		t.Fatalf("GetManifestPath: %v", err)
	}
	want := filepath.Join("/tmp/anvil-test-home", ManifestFile)
	if got != want {
		t.Errorf("GetManifestPath = %q, want %q", got, want)
	}
}

func TestEnsureRootCreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("ANVIL_HOME", filepath.Join(tmp, "home"))

	root, err := EnsureRoot()
	if err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}
	if root != filepath.Join(tmp, "home") {
		t.Errorf("EnsureRoot = %q", root)
	}
}
