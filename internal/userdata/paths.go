package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/anvil-dev/anvil/internal/branding"
)

// Directory and file name constants for the userdata convention.
const (
	ExtensionsDir   = "extensions"
	ManifestFile    = "manifest.yaml"
	RegistryFile    = "registry.yaml"
	ProfilesFile    = "profiles.yaml"
	BomFile         = "bom.yaml"
	BomResolvedFile = "bom-resolved.yaml"
)

// Permission constants.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
	DirPermNormal  os.FileMode = 0755
)

// Root returns the Anvil home directory. It checks the ANVIL_HOME
// environment variable first, then falls back to ~/.anvil.
func Root() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetExtensionsRoot returns the directory holding extension definition
// directories (one subdirectory per extension). It checks ANVIL_EXTENSIONS
// first, then falls back to ~/.anvil/extensions.
func GetExtensionsRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("EXTENSIONS")); v != "" {
		return v, nil
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ExtensionsDir), nil
}

// GetManifestPath returns the path to the installation manifest.
// It checks ANVIL_MANIFEST first, then falls back to ~/.anvil/manifest.yaml.
func GetManifestPath() (string, error) {
	if v := os.Getenv(branding.EnvVar("MANIFEST")); v != "" {
		return v, nil
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ManifestFile), nil
}

// GetRegistryPath returns the path to the extension registry document.
func GetRegistryPath() (string, error) {
	if v := os.Getenv(branding.EnvVar("REGISTRY")); v != "" {
		return v, nil
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, RegistryFile), nil
}

// GetProfilesPath returns the path to the profiles document.
func GetProfilesPath() (string, error) {
	if v := os.Getenv(branding.EnvVar("PROFILES")); v != "" {
		return v, nil
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ProfilesFile), nil
}

// GetBomPath returns the path to the generated bill of materials document.
func GetBomPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, BomFile), nil
}

// GetBomResolvedPath returns the path to the file recording concrete
// component versions captured during installs and upgrades.
func GetBomResolvedPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, BomResolvedFile), nil
}

// GetShellFragmentDir returns the directory where per-scope shell profile
// fragments are written. It checks ANVIL_SHELL_DIR first, then falls back
// to the user's home directory (where .bashrc and .profile live).
func GetShellFragmentDir() (string, error) {
	if v := os.Getenv(branding.EnvVar("SHELL_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return home, nil
}

// EnsureRoot creates the Anvil home directory if it does not exist.
func EnsureRoot() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(root, DirPermNormal); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", root, err)
	}
	return root, nil
}
