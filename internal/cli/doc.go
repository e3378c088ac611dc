// Package cli defines the anvil command tree. Commands stay thin: they
// resolve user input into extension names, delegate to the resolver and
// executor, and render the resulting reports.
package cli
