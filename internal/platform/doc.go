// Package platform provides cross-platform filesystem operations, currently
// permission management. On Unix systems it uses chmod directly; on Windows
// permission bits are a no-op.
package platform
