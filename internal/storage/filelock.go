package storage

import (
	"fmt"
	"os"
	"syscall"
)

// lockFile acquires an exclusive file lock (LOCK_EX) on the given file path.
// It returns an unlock function that must be called to release the lock.
// syscall.Flock is Unix-specific; the single-process usage pattern does not
// depend on it, the lock only serializes the load-mutate-persist cycle when
// more than one process points at the same store file.
func lockFile(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquiring file lock: %w", err)
	}

	return func() error {
		defer f.Close()
		return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	}, nil
}
