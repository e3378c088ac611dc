package resolver

import (
	"fmt"
	"strings"

	"github.com/anvil-dev/anvil/internal/registry"
)

// ReferenceError reports a name that does not exist in the registry.
type ReferenceError struct {
	Name string
	// Referrer is the extension whose dependency list named it, or empty
	// when the name was requested directly.
	Referrer string
}

func (e *ReferenceError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("extension %q (required by %q) is not registered", e.Name, e.Referrer)
	}
	return fmt.Sprintf("extension %q is not registered", e.Name)
}

// CycleError reports a dependency cycle. Path holds the full cycle, first
// and last element identical, e.g. [a b a].
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

// Resolver computes execution order from registry dependency edges.
type Resolver struct {
	reg *registry.Registry
}

// New returns a Resolver over the given registry.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve returns the requested extensions plus their transitive
// dependencies in dependency-first order. Each name appears exactly once.
// The walk is depth-first over declared dependency order, roots in request
// order, so the result is deterministic.
func (r *Resolver) Resolve(names []string) ([]string, error) {
	w := &walker{
		reg:     r.reg,
		seen:    make(map[string]bool),
		onStack: make(map[string]bool),
	}
	for _, name := range names {
		if err := w.visit(name, ""); err != nil {
			return nil, err
		}
	}
	return w.order, nil
}

// ResolveProfile flattens a profile and resolves its members. Members are
// processed in profile-declared order with first-seen deduplication, so a
// shared dependency keeps the position of its first appearance.
func (r *Resolver) ResolveProfile(profiles *registry.Profiles, name string) ([]string, error) {
	prof, ok := profiles.Get(name)
	if !ok {
		return nil, fmt.Errorf("profile %q is not defined", name)
	}
	return r.Resolve(dedupe(prof.Extensions))
}

// Dependents returns the names of registered extensions that transitively
// depend on name. Used to skip dependent branches after a failure.
func (r *Resolver) Dependents(name string) []string {
	var out []string
	for _, candidate := range r.reg.Names() {
		if candidate == name {
			continue
		}
		if r.dependsOn(candidate, name, make(map[string]bool)) {
			out = append(out, candidate)
		}
	}
	return out
}

func (r *Resolver) dependsOn(from, target string, seen map[string]bool) bool {
	if seen[from] {
		return false
	}
	seen[from] = true
	entry, ok := r.reg.Get(from)
	if !ok {
		return false
	}
	for _, dep := range entry.Dependencies {
		if dep == target || r.dependsOn(dep, target, seen) {
			return true
		}
	}
	return false
}

type walker struct {
	reg     *registry.Registry
	seen    map[string]bool
	onStack map[string]bool
	stack   []string
	order   []string
}

func (w *walker) visit(name, referrer string) error {
	if w.onStack[name] {
		return &CycleError{Path: cycleFrom(w.stack, name)}
	}
	if w.seen[name] {
		return nil
	}

	entry, ok := w.reg.Get(name)
	if !ok {
		return &ReferenceError{Name: name, Referrer: referrer}
	}

	w.onStack[name] = true
	w.stack = append(w.stack, name)

	for _, dep := range entry.Dependencies {
		if dep == name {
			// Self-reference is a one-element cycle.
			return &CycleError{Path: []string{name, name}}
		}
		if err := w.visit(dep, name); err != nil {
			return err
		}
	}

	w.stack = w.stack[:len(w.stack)-1]
	delete(w.onStack, name)
	w.seen[name] = true
	w.order = append(w.order, name)
	return nil
}

// cycleFrom extracts the cycle portion of the walk stack, closing it with
// the repeated name.
func cycleFrom(stack []string, name string) []string {
	for i, s := range stack {
		if s == name {
			cycle := make([]string, 0, len(stack)-i+1)
			cycle = append(cycle, stack[i:]...)
			return append(cycle, name)
		}
	}
	return []string{name, name}
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
