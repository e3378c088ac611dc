package executor

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/anvil-dev/anvil/internal/extension"
)

// runMiseInstall installs and globally pins each declared tool. Tools are
// processed in name order so repeated runs behave identically.
func (e *Executor) runMiseInstall(ctx context.Context, spec *extension.MiseInstall) error {
	tools := make([]string, 0, len(spec.Tools))
	for tool := range spec.Tools {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	for _, tool := range tools {
		pin := tool + "@" + spec.Tools[tool]
		if err := e.runCommand(ctx, "mise", "use", "--global", pin); err != nil {
			return fmt.Errorf("installing %s: %w", pin, err)
		}
	}

	if spec.ReshimAfterInstall {
		if err := e.runCommand(ctx, "mise", "reshim"); err != nil {
			return fmt.Errorf("reshim: %w", err)
		}
	}
	return nil
}

// runMiseRemove unpins and uninstalls the declared tools.
func (e *Executor) runMiseRemove(ctx context.Context, spec *extension.MiseRemove) error {
	for _, tool := range spec.Tools {
		if err := e.runCommand(ctx, "mise", "unuse", "--global", tool); err != nil {
			return fmt.Errorf("unpinning %s: %w", tool, err)
		}
		if err := e.runCommand(ctx, "mise", "uninstall", tool); err != nil {
			return fmt.Errorf("uninstalling %s: %w", tool, err)
		}
	}
	return nil
}

// miseResolvedVersion asks mise which version of a tool is active. Used to
// pin down "dynamic" versions in the bill of materials.
func miseResolvedVersion(ctx context.Context, tool string) (string, error) {
	out, err := exec.CommandContext(ctx, "mise", "current", tool).Output()
	if err != nil {
		return "", fmt.Errorf("querying current %s version: %w", tool, err)
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "", fmt.Errorf("mise reports no active version for %s", tool)
	}
	return version, nil
}

// runCommand runs an external command with output wired to the executor's
// streams.
func (e *Executor) runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}
