package resolver

import (
	"errors"
	"reflect"
	"testing"

	"github.com/anvil-dev/anvil/internal/registry"
)

func regOf(entries map[string][]string) *registry.Registry {
	exts := make(map[string]registry.Entry, len(entries))
	for name, deps := range entries {
		exts[name] = registry.Entry{Category: "utilities", Dependencies: deps}
	}
	return &registry.Registry{Version: 1, Extensions: exts}
}

func TestResolve_Diamond(t *testing.T) {
	// d depends on b and c, both of which depend on a.
	r := New(regOf(map[string][]string{
		"a": nil,
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	}))

	got, err := r.Resolve([]string{"d"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(d) = %v, want %v", got, want)
	}
}

func TestResolve_RequestOrderDeterminism(t *testing.T) {
	r := New(regOf(map[string][]string{
		"a": nil,
		"b": nil,
	}))

	got, err := r.Resolve([]string{"b", "a"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(b, a) = %v, want %v", got, want)
	}
}

func TestResolve_NoDuplicates(t *testing.T) {
	r := New(regOf(map[string][]string{
		"a": nil,
		"b": {"a"},
		"c": {"a", "b"},
	}))

	got, err := r.Resolve([]string{"b", "c", "b"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_UnknownName(t *testing.T) {
	r := New(regOf(map[string][]string{"a": nil}))

	_, err := r.Resolve([]string{"ghost"})
	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if refErr.Name != "ghost" || refErr.Referrer != "" {
		t.Errorf("ReferenceError = %+v", refErr)
	}
}

func TestResolve_UnknownDependency(t *testing.T) {
	r := New(regOf(map[string][]string{"a": {"ghost"}}))

	_, err := r.Resolve([]string{"a"})
	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if refErr.Name != "ghost" || refErr.Referrer != "a" {
		t.Errorf("ReferenceError = %+v", refErr)
	}
}

func TestResolve_Cycle(t *testing.T) {
	r := New(regOf(map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	}))

	_, err := r.Resolve([]string{"a"})
	var cycErr *CycleError
	if !errors.As(err, &cycErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	want := []string{"a", "b", "c", "a"}
	if !reflect.DeepEqual(cycErr.Path, want) {
		t.Errorf("cycle path = %v, want %v", cycErr.Path, want)
	}
}

func TestResolve_SelfReference(t *testing.T) {
	r := New(regOf(map[string][]string{"a": {"a"}}))

	_, err := r.Resolve([]string{"a"})
	var cycErr *CycleError
	if !errors.As(err, &cycErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	want := []string{"a", "a"}
	if !reflect.DeepEqual(cycErr.Path, want) {
		t.Errorf("cycle path = %v, want %v", cycErr.Path, want)
	}
}

func TestResolve_CycleNotEnteredFromOutside(t *testing.T) {
	// a is clean even though the registry elsewhere has a cycle.
	r := New(regOf(map[string][]string{
		"a": nil,
		"x": {"y"},
		"y": {"x"},
	}))

	got, err := r.Resolve([]string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Resolve(a) = %v", got)
	}
}

func TestResolveProfile(t *testing.T) {
	r := New(regOf(map[string][]string{
		"a": nil,
		"b": {"a"},
		"c": {"a"},
	}))
	profs := &registry.Profiles{Profiles: map[string]registry.Profile{
		"dev": {Extensions: []string{"b", "c", "b"}},
	}}

	got, err := r.ResolveProfile(profs, "dev")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveProfile = %v, want %v", got, want)
	}

	if _, err := r.ResolveProfile(profs, "absent"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestDependents(t *testing.T) {
	r := New(regOf(map[string][]string{
		"a": nil,
		"b": {"a"},
		"c": {"b"},
		"d": nil,
	}))

	got := r.Dependents("a")
	want := []string{"b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dependents(a) = %v, want %v", got, want)
	}
	if got := r.Dependents("d"); len(got) != 0 {
		t.Errorf("Dependents(d) = %v", got)
	}
}
