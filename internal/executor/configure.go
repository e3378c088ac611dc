package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anvil-dev/anvil/internal/extension"
	"github.com/anvil-dev/anvil/internal/userdata"
)

// scopeFileName maps an environment scope to its shell file. Session
// variables live in a file sourced by the current shell setup and are also
// applied to this process.
func scopeFileName(scope string) (string, error) {
	switch scope {
	case extension.ScopeBashrc:
		return ".bashrc", nil
	case extension.ScopeProfile:
		return ".profile", nil
	case extension.ScopeSession:
		return ".anvil-session", nil
	default:
		return "", fmt.Errorf("unknown environment scope %q", scope)
	}
}

// applyEnvironment upserts each declared variable into its scope file.
// Re-running configuration rewrites the same lines rather than appending
// duplicates.
func (e *Executor) applyEnvironment(vars []extension.EnvVar) error {
	dir, err := userdata.GetShellFragmentDir()
	if err != nil {
		return err
	}

	// Fragment files are shared across extensions; upserts from concurrent
	// workers must not interleave their read-modify-write cycles.
	e.envMu.Lock()
	defer e.envMu.Unlock()

	for _, v := range vars {
		file, err := scopeFileName(v.Scope)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, file)
		if err := upsertExportLine(path, v.Key, v.Value); err != nil {
			return fmt.Errorf("writing %s to %s: %w", v.Key, path, err)
		}
		if v.Scope == extension.ScopeSession {
			os.Setenv(v.Key, os.ExpandEnv(v.Value))
		}
		e.logger.Debug("environment variable set", "key", v.Key, "scope", v.Scope)
	}
	return nil
}

// upsertExportLine rewrites the export line for key if one exists, or
// appends one. The rest of the file is preserved byte for byte.
func upsertExportLine(path, key, value string) error {
	line := fmt.Sprintf("export %s=%q", key, value)
	prefix := "export " + key + "="

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}

	replaced := false
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), prefix) {
			lines[i] = line
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, line)
	}

	out := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(path, []byte(out), 0o644)
}
