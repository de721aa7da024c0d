package snapshot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
)

const lockFileSuffix = ".lock"

// fileLock serializes snapshot refreshes between processes sharing a cache path.
type fileLock struct {
	lock *flock.Flock
	path string
}

func newFileLock(snapshotPath string) *fileLock {
	lockPath := snapshotPath + lockFileSuffix
	return &fileLock{lock: flock.New(lockPath), path: lockPath}
}

// Lock acquires the lock, waiting if another process holds it.
func (l *fileLock) Lock(logger *slog.Logger) error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock on %s: %w", l.path, err)
	}

	if !locked {
		logger.Info("another process is refreshing the snapshot, waiting", "lock", l.path)
		if err := l.lock.Lock(); err != nil {
			return fmt.Errorf("acquire lock on %s after waiting: %w", l.path, err)
		}
	}
	return nil
}

// Unlock releases the lock. A missing lock file means it was never held.
func (l *fileLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("release lock on %s: %w", l.path, err)
	}
	return nil
}
