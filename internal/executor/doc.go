// Package executor applies declarative extension actions to the system.
//
// Callers hand it a dependency-ordered list of extension names and an
// action; it drives each extension's install method, environment
// configuration, and validation checks, and reports a per-extension
// outcome. Execution is declarative: an extension whose validation checks
// already pass is reported as satisfied without re-running its installer.
package executor
