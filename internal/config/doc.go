// Package config manages user-level settings stored at ~/.anvil/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the default fail policy and worker count for batch execution.
package config