package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/anvil-dev/anvil/internal/bom"
	"github.com/anvil-dev/anvil/internal/extension"
	"github.com/anvil-dev/anvil/internal/manifest"
	"github.com/anvil-dev/anvil/internal/registry"
)

// Executor drives actions over extensions. Workers above one enables
// concurrent execution of extensions with no dependency relationship;
// manifest writes stay serialized through the manifest manager's lock.
type Executor struct {
	loader   *extension.Loader
	reg      *registry.Registry
	manifest *manifest.Manager
	tracker  *bom.Tracker
	logger   *log.Logger

	stdout io.Writer
	stderr io.Writer

	// envMu serializes shell-fragment writes: concurrent extensions may
	// target the same scope file.
	envMu sync.Mutex

	// Workers caps concurrent extensions. Zero or one means sequential.
	Workers int
}

// New returns an Executor wired to the given stores. A nil logger gets a
// default stderr logger.
func New(loader *extension.Loader, reg *registry.Registry, mgr *manifest.Manager, tracker *bom.Tracker, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "executor"})
	}
	return &Executor{
		loader:   loader,
		reg:      reg,
		manifest: mgr,
		tracker:  tracker,
		logger:   logger,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// SetOutput redirects command and script output.
func (e *Executor) SetOutput(stdout, stderr io.Writer) {
	e.stdout = stdout
	e.stderr = stderr
}

// Execute applies action to each named extension. Names must already be in
// dependency order (see the resolver); the report lists outcomes in the
// same order. A failure skips dependents; under FailFast it aborts the
// whole remainder. Cancellation marks unstarted extensions skipped, so the
// manifest only ever reflects completed work.
func (e *Executor) Execute(ctx context.Context, names []string, action Action, policy FailPolicy) *BatchReport {
	if e.Workers > 1 {
		return e.executeConcurrent(ctx, names, action, policy)
	}

	report := &BatchReport{Action: action, Items: make([]ItemReport, len(names))}
	failed := make(map[string]bool)
	abortCause := ""

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			report.Items[i] = ItemReport{Name: name, Outcome: OutcomeSkipped, Reason: "canceled"}
			continue
		}
		if abortCause != "" {
			report.Items[i] = ItemReport{Name: name, Outcome: OutcomeSkipped, Reason: fmt.Sprintf("aborted after %s failed", abortCause)}
			continue
		}
		if dep := e.failedDependency(name, failed); dep != "" {
			report.Items[i] = ItemReport{Name: name, Outcome: OutcomeSkipped, Reason: fmt.Sprintf("dependency %s failed", dep)}
			continue
		}

		item := e.runOne(ctx, name, action)
		report.Items[i] = item
		if item.Outcome == OutcomeFailed {
			failed[name] = true
			if policy == FailFast {
				abortCause = name
			}
		}
	}
	return report
}

// executeConcurrent schedules extensions in dependency waves: each wave
// holds extensions whose in-batch dependencies are all done, and runs them
// under a bounded errgroup.
func (e *Executor) executeConcurrent(ctx context.Context, names []string, action Action, policy FailPolicy) *BatchReport {
	report := &BatchReport{Action: action, Items: make([]ItemReport, len(names))}

	index := make(map[string]int, len(names))
	inBatch := make(map[string]bool, len(names))
	for i, name := range names {
		index[name] = i
		inBatch[name] = true
	}

	done := make(map[string]bool)
	failed := make(map[string]bool)
	pending := append([]string(nil), names...)
	aborted := false

	for len(pending) > 0 {
		var ready, blocked, rest []string
		for _, name := range pending {
			switch {
			case aborted:
				rest = append(rest, name)
			case e.failedDependency(name, failed) != "":
				blocked = append(blocked, name)
			case e.depsDone(name, inBatch, done):
				ready = append(ready, name)
			default:
				rest = append(rest, name)
			}
		}

		for _, name := range blocked {
			dep := e.failedDependency(name, failed)
			report.Items[index[name]] = ItemReport{Name: name, Outcome: OutcomeSkipped, Reason: fmt.Sprintf("dependency %s failed", dep)}
			done[name] = true
		}
		if aborted || (len(ready) == 0 && len(blocked) == 0) {
			reason := "aborted after earlier failure"
			if !aborted {
				reason = "unresolvable execution order"
			}
			for _, name := range rest {
				report.Items[index[name]] = ItemReport{Name: name, Outcome: OutcomeSkipped, Reason: reason}
			}
			break
		}

		var g errgroup.Group
		g.SetLimit(e.Workers)
		for _, name := range ready {
			g.Go(func() error {
				report.Items[index[name]] = e.runOne(ctx, name, action)
				return nil
			})
		}
		g.Wait()

		for _, name := range ready {
			done[name] = true
			if report.Items[index[name]].Outcome == OutcomeFailed {
				failed[name] = true
				if policy == FailFast {
					aborted = true
				}
			}
		}
		pending = rest
	}
	return report
}

// depsDone reports whether every in-batch dependency of name has finished.
func (e *Executor) depsDone(name string, inBatch, done map[string]bool) bool {
	entry, ok := e.reg.Get(name)
	if !ok {
		return true
	}
	for _, dep := range entry.Dependencies {
		if inBatch[dep] && !done[dep] {
			return false
		}
	}
	return true
}

// failedDependency returns the first transitive dependency of name found in
// failed, or empty.
func (e *Executor) failedDependency(name string, failed map[string]bool) string {
	if len(failed) == 0 {
		return ""
	}
	seen := make(map[string]bool)
	var walk func(string) string
	walk = func(n string) string {
		if seen[n] {
			return ""
		}
		seen[n] = true
		entry, ok := e.reg.Get(n)
		if !ok {
			return ""
		}
		for _, dep := range entry.Dependencies {
			if failed[dep] {
				return dep
			}
			if hit := walk(dep); hit != "" {
				return hit
			}
		}
		return ""
	}
	return walk(name)
}

// runOne applies a single action to a single extension and classifies the
// result.
func (e *Executor) runOne(ctx context.Context, name string, action Action) ItemReport {
	start := time.Now()
	item := ItemReport{Name: name}

	def, err := e.loader.LoadOne(name)
	if err != nil {
		item.Outcome = OutcomeFailed
		item.Err = &ExecutionError{Name: name, Action: action, Err: err}
		item.Reason = err.Error()
		item.Duration = time.Since(start)
		return item
	}

	e.logger.Debug("executing", "action", action, "extension", name)

	var opErr error
	noop := false
	switch action {
	case ActionInstall:
		noop, opErr = e.install(ctx, def)
	case ActionConfigure:
		noop, opErr = e.configure(def)
	case ActionValidate:
		opErr = e.validateDef(ctx, def)
	case ActionUpgrade:
		opErr = e.upgrade(ctx, def)
	case ActionRemove:
		opErr = e.remove(ctx, def)
	default:
		opErr = fmt.Errorf("unknown action %q", action)
	}

	item.Duration = time.Since(start)
	switch {
	case opErr != nil:
		item.Outcome = OutcomeFailed
		item.Err = &ExecutionError{Name: name, Action: action, Err: opErr}
		item.Reason = opErr.Error()
	case noop:
		item.Outcome = OutcomeNoOp
		item.Reason = "already satisfied"
	default:
		item.Outcome = OutcomeSuccess
	}
	return item
}
