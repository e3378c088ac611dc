// Package manifest maintains the record of which extensions are active in
// the environment.
//
// The manifest file is the single source of truth for environment state.
// Every write goes through a cross-process file lock and lands atomically
// via a temp file rename, so a crashed or concurrent process can never
// leave a half-written manifest behind. Entries are never deleted:
// removal deactivates, preserving install history.
package manifest
