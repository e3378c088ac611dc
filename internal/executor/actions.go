package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anvil-dev/anvil/internal/bom"
	"github.com/anvil-dev/anvil/internal/extension"
	"github.com/anvil-dev/anvil/internal/manifest"
)

// defaultInstallTimeout bounds an extension install or upgrade that
// declares no timeout of its own.
const defaultInstallTimeout = 30 * time.Minute

// install brings an extension to its desired state: install method,
// environment configuration, validation, manifest entry, and resolved BOM
// versions. An extension whose checks already pass is only re-registered.
func (e *Executor) install(ctx context.Context, def *extension.Definition) (noop bool, err error) {
	name := def.Metadata.Name

	// A definition with no validation commands cannot attest its own
	// presence, so the install method always runs for it.
	if len(def.Validate.Commands) > 0 && e.validateDef(ctx, def) == nil {
		// Desired state already holds; make sure the manifest agrees.
		if err := e.registerInstalled(def); err != nil {
			return false, err
		}
		return true, nil
	}

	ictx, cancel := context.WithTimeout(ctx, e.installTimeout(def))
	defer cancel()

	if err := e.runInstallMethod(ictx, def); err != nil {
		return false, err
	}
	if def.Configure != nil {
		if err := e.applyEnvironment(def.Configure.Environment); err != nil {
			return false, err
		}
	}
	if err := e.validateDef(ictx, def); err != nil {
		return false, fmt.Errorf("post-install validation: %w", err)
	}
	if err := e.registerInstalled(def); err != nil {
		return false, err
	}
	e.recordResolvedVersions(ictx, def)

	e.logger.Info("installed", "extension", name, "version", def.Metadata.Version)
	return false, nil
}

func (e *Executor) runInstallMethod(ctx context.Context, def *extension.Definition) error {
	switch def.Install.Method {
	case extension.MethodMise:
		return e.runMiseInstall(ctx, def.Install.Mise)
	case extension.MethodApt:
		return e.runAptInstall(ctx, def.Install.Apt)
	case extension.MethodScript:
		return e.runScript(ctx, e.loader.Dir(def.Metadata.Name), def.Install.Script, nil)
	default:
		return fmt.Errorf("unknown install method %q", def.Install.Method)
	}
}

// registerInstalled marks the extension active in the manifest, carrying
// the registry's protection flag when the extension is registered.
func (e *Executor) registerInstalled(def *extension.Definition) error {
	name := def.Metadata.Name
	protected := false
	if entry, ok := e.reg.Get(name); ok {
		protected = entry.Protected
	}
	return e.manifest.Add(name, def.Metadata.Category, protected)
}

// configure applies only the environment configuration.
func (e *Executor) configure(def *extension.Definition) (noop bool, err error) {
	if def.Configure == nil || len(def.Configure.Environment) == 0 {
		return true, nil
	}
	return false, e.applyEnvironment(def.Configure.Environment)
}

// validateDef runs the extension's validation checks.
func (e *Executor) validateDef(ctx context.Context, def *extension.Definition) error {
	var timeout time.Duration
	if def.Requirements != nil && def.Requirements.ValidateTimeout > 0 {
		timeout = time.Duration(def.Requirements.ValidateTimeout) * time.Second
	}
	return e.runChecks(ctx, def.Metadata.Name, def.Validate, timeout)
}

// upgrade re-applies an extension according to its upgrade strategy and
// refreshes recorded versions. Without an upgrade block, reinstall is the
// default.
func (e *Executor) upgrade(ctx context.Context, def *extension.Definition) error {
	strategy := extension.UpgradeReinstall
	if def.Upgrade != nil {
		strategy = def.Upgrade.Strategy
	}

	uctx, cancel := context.WithTimeout(ctx, e.installTimeout(def))
	defer cancel()

	switch strategy {
	case extension.UpgradeReinstall:
		// Tear down the installed payload without touching the manifest:
		// the extension stays active through the upgrade.
		if def.Remove != nil {
			if err := e.runRemoveSteps(uctx, def); err != nil {
				return fmt.Errorf("removing old version: %w", err)
			}
		}
		if err := e.runInstallMethod(uctx, def); err != nil {
			return err
		}
	case extension.UpgradeInPlace:
		if def.Upgrade == nil || def.Upgrade.Script == nil {
			return fmt.Errorf("in-place upgrade declared without a script")
		}
		if err := e.runScript(uctx, e.loader.Dir(def.Metadata.Name), def.Upgrade.Script, nil); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown upgrade strategy %q", strategy)
	}

	if def.Configure != nil {
		if err := e.applyEnvironment(def.Configure.Environment); err != nil {
			return err
		}
	}
	if err := e.validateDef(uctx, def); err != nil {
		return fmt.Errorf("post-upgrade validation: %w", err)
	}
	e.recordResolvedVersions(uctx, def)

	e.logger.Info("upgraded", "extension", def.Metadata.Name)
	return nil
}

// remove deactivates an extension. Protection is checked before any
// payload is touched, so a protected extension survives intact.
func (e *Executor) remove(ctx context.Context, def *extension.Definition) error {
	name := def.Metadata.Name

	doc, err := e.manifest.Load()
	if err != nil {
		return err
	}
	if entry, ok := doc.Get(name); ok && entry.Protected {
		return &manifest.PermissionError{Name: name, Op: "remove"}
	}

	if def.Remove != nil {
		if err := e.runRemoveSteps(ctx, def); err != nil {
			return err
		}
	}
	if err := e.manifest.Remove(name); err != nil {
		return err
	}

	e.logger.Info("removed", "extension", name)
	return nil
}

func (e *Executor) runRemoveSteps(ctx context.Context, def *extension.Definition) error {
	spec := def.Remove
	if spec.Mise != nil {
		if err := e.runMiseRemove(ctx, spec.Mise); err != nil {
			return err
		}
	}
	if spec.Apt != nil {
		if err := e.runAptRemove(ctx, spec.Apt); err != nil {
			return err
		}
	}
	if spec.Script != nil {
		if err := e.runScript(ctx, e.loader.Dir(def.Metadata.Name), spec.Script, nil); err != nil {
			return err
		}
	}
	return e.removePaths(spec.Paths)
}

// removePaths deletes extension-owned files. Paths are home-relative; a
// path that resolves outside the home directory is refused.
func (e *Executor) removePaths(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	for _, p := range paths {
		expanded := strings.TrimPrefix(p, "~/")
		full := filepath.Join(home, expanded)
		rel, err := filepath.Rel(home, full)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return fmt.Errorf("path %q resolves outside the home directory", p)
		}
		if err := os.RemoveAll(full); err != nil {
			return fmt.Errorf("removing %s: %w", full, err)
		}
	}
	return nil
}

// recordResolvedVersions pins down "dynamic" BOM versions using the tool
// source. Failures are logged, not fatal: the bill of materials keeps the
// dynamic marker until the next successful run.
func (e *Executor) recordResolvedVersions(ctx context.Context, def *extension.Definition) {
	if def.BOM == nil || e.tracker == nil {
		return
	}
	for _, tool := range def.BOM.Tools {
		if tool.Version != "" && tool.Version != bom.DynamicVersion {
			continue
		}
		if tool.Source != extension.MethodMise {
			continue
		}
		version, err := miseResolvedVersion(ctx, tool.Name)
		if err != nil {
			e.logger.Warn("could not resolve tool version", "tool", tool.Name, "error", err)
			continue
		}
		if err := e.tracker.RecordResolved(def.Metadata.Name, tool.Name, tool.Source, version); err != nil {
			e.logger.Warn("could not record tool version", "tool", tool.Name, "error", err)
		}
	}
}

func (e *Executor) installTimeout(def *extension.Definition) time.Duration {
	if def.Requirements != nil && def.Requirements.InstallTimeout > 0 {
		return time.Duration(def.Requirements.InstallTimeout) * time.Second
	}
	return defaultInstallTimeout
}
