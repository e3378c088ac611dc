package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestChmod_TightensStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(path, 0o600); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("state file mode = %o, want %o", perm, 0o600)
	}
}

func TestChmod_StateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "anvil-home")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(dir, 0o700); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("state dir mode = %o, want %o", perm, 0o700)
	}
}
