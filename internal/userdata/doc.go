// Package userdata resolves the on-disk layout of Anvil's state under the
// user's home directory (~/.anvil/ by default). Every path can be overridden
// through an ANVIL_* environment variable, which is how tests redirect state
// into temporary directories.
package userdata
