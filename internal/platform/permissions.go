package platform

import (
	"os"
	"runtime"
)

// Chmod applies Unix permission bits. On Windows the call is a no-op:
// state files there rely on NTFS ACLs instead.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}
