//go:build linux

package manifest

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// fileLock holds a blocking exclusive flock on the manifest lock file,
// serializing writes across processes. The zero-byte lock file is harmless
// if orphaned: the kernel releases the flock when the fd is closed,
// including on process crash.
type fileLock struct {
	file *os.File
}

// acquireLock opens (or creates) the lock file next to the manifest and
// blocks until the exclusive lock is available.
func acquireLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}
	return &fileLock{file: f}, nil
}

// release unlocks and closes the lock file. Safe to call more than once.
func (l *fileLock) release() {
	if l == nil || l.file == nil {
		return
	}
	// LOCK_UN before Close for explicitness; Close also releases the flock.
	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	l.file.Close()
	l.file = nil
}
