package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/anvil-dev/anvil/internal/extension"
)

// runAptInstall installs the declared packages, skipping ones dpkg already
// knows. With UpdateFirst set, the package index is refreshed first.
func (e *Executor) runAptInstall(ctx context.Context, spec *extension.AptInstall) error {
	var missing []string
	for _, pkg := range spec.Packages {
		if !dpkgInstalled(ctx, pkg) {
			missing = append(missing, pkg)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if spec.UpdateFirst {
		if err := e.runApt(ctx, "update"); err != nil {
			return fmt.Errorf("apt update: %w", err)
		}
	}

	args := append([]string{"install", "-y"}, missing...)
	if err := e.runApt(ctx, args...); err != nil {
		return fmt.Errorf("apt install: %w", err)
	}
	return nil
}

// runAptRemove removes the declared packages. Purge also drops their
// configuration files.
func (e *Executor) runAptRemove(ctx context.Context, spec *extension.AptRemove) error {
	verb := "remove"
	if spec.Purge {
		verb = "purge"
	}
	args := append([]string{verb, "-y"}, spec.Packages...)
	if err := e.runApt(ctx, args...); err != nil {
		return fmt.Errorf("apt %s: %w", verb, err)
	}
	return nil
}

// runApt invokes apt-get, under sudo when not running as root.
func (e *Executor) runApt(ctx context.Context, args ...string) error {
	name := "apt-get"
	if os.Geteuid() != 0 {
		args = append([]string{"apt-get"}, args...)
		name = "sudo"
	}
	return e.runCommand(ctx, name, args...)
}

// dpkgInstalled reports whether a package is already installed.
func dpkgInstalled(ctx context.Context, pkg string) bool {
	return exec.CommandContext(ctx, "dpkg", "-s", pkg).Run() == nil
}
