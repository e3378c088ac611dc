// Package extension defines the extension definition model and its loader.
// Definitions are read-only YAML documents; one malformed definition never
// prevents the rest of the set from loading.
package extension
