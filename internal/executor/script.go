package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/anvil-dev/anvil/internal/extension"
)

// defaultScriptTimeout bounds scripts that declare no timeout of their own.
const defaultScriptTimeout = 10 * time.Minute

// runScript executes an extension-provided shell script with the built-in
// interpreter. The script path is resolved relative to the extension
// directory and must stay inside it.
func (e *Executor) runScript(ctx context.Context, extDir string, spec *extension.ScriptSpec, env []string) error {
	scriptPath := filepath.Join(extDir, spec.Path)
	rel, err := filepath.Rel(extDir, scriptPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("script path %q escapes the extension directory", spec.Path)
	}

	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(string(src)), spec.Path)
	if err != nil {
		return fmt.Errorf("parsing script %s: %w", spec.Path, err)
	}

	timeout := defaultScriptTimeout
	if spec.Timeout > 0 {
		timeout = time.Duration(spec.Timeout) * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := []interp.RunnerOption{
		interp.Dir(extDir),
		interp.Env(expand.ListEnviron(append(os.Environ(), env...)...)),
		interp.StdIO(nil, e.stdout, e.stderr),
	}
	if len(spec.Args) > 0 {
		// "--" keeps args that look like shell options out of interp.Params.
		opts = append(opts, interp.Params(append([]string{"--"}, spec.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("creating interpreter: %w", err)
	}

	if err := runner.Run(runCtx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return fmt.Errorf("script %s exited with status %d", spec.Path, int(exitStatus))
		}
		if runCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("script %s timed out after %s", spec.Path, timeout)
		}
		return fmt.Errorf("running script %s: %w", spec.Path, err)
	}
	return nil
}
