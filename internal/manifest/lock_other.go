//go:build !linux

package manifest

import "sync"

// Without flock we can only serialize writers inside this process. That
// covers the CLI's own concurrency; concurrent anvil processes on non-Linux
// platforms race, which is acceptable for a single-user tool.
var processLock sync.Mutex

type fileLock struct{}

func acquireLock(path string) (*fileLock, error) {
	processLock.Lock()
	return &fileLock{}, nil
}

func (l *fileLock) release() {
	processLock.Unlock()
}
