package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/anvil-dev/anvil/internal/branding"
	"github.com/anvil-dev/anvil/internal/extension"
)

// defaultValidateTimeout bounds a single validation command.
const defaultValidateTimeout = 30 * time.Second

// validationPath returns the PATH used for validation lookups. Freshly
// installed tools often live in directories the parent shell has not picked
// up yet, so the well-known install locations are prepended.
func validationPath() string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".local", "share", "mise", "shims"),
			filepath.Join(home, ".local", "bin"),
			filepath.Join(home, ".npm-global", "bin"),
		)
	}
	if extra := os.Getenv(branding.EnvVar("VALIDATION_EXTRA_PATHS")); extra != "" {
		dirs = append(dirs, filepath.SplitList(extra)...)
	}
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)
	return strings.Join(dirs, string(os.PathListSeparator))
}

// runChecks executes every validation command for an extension. All checks
// run even after a failure so the report names every broken command.
func (e *Executor) runChecks(ctx context.Context, name string, spec extension.ValidateSpec, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultValidateTimeout
	}
	searchPath := validationPath()

	var failures []string
	for _, check := range spec.Commands {
		if err := e.runCheck(ctx, check, searchPath, timeout); err != nil {
			failures = append(failures, err.Error())
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("%s: %s", name, strings.Join(failures, "; "))
	}
	return nil
}

func (e *Executor) runCheck(ctx context.Context, check extension.CommandCheck, searchPath string, timeout time.Duration) error {
	bin, err := lookPathIn(searchPath, check.Name)
	if err != nil {
		return fmt.Errorf("command %q not found", check.Name)
	}
	if check.VersionFlag == "" {
		return nil
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(checkCtx, bin, strings.Fields(check.VersionFlag)...)
	cmd.Env = append(os.Environ(), "PATH="+searchPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("command %q failed: %v", check.Name, err)
	}

	if check.ExpectedPattern != "" {
		re, err := regexp.Compile(check.ExpectedPattern)
		if err != nil {
			return fmt.Errorf("command %q has invalid expected pattern: %v", check.Name, err)
		}
		if !re.Match(out) {
			return fmt.Errorf("command %q output did not match %q", check.Name, check.ExpectedPattern)
		}
	}
	return nil
}

// lookPathIn resolves name against an explicit PATH value instead of the
// process environment.
func lookPathIn(searchPath, name string) (string, error) {
	if strings.Contains(name, string(os.PathSeparator)) {
		return name, nil
	}
	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s not found in PATH", name)
}
