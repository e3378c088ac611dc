// Package registry reads the extension registry and profile catalogs.
//
// The registry (registry.yaml) is the authoritative list of extensions the
// environment knows about: category, description, protection flag, and
// dependency edges. Profiles (profiles.yaml) are named bundles of extensions
// installed together.
package registry
