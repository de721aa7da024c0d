package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"TNSBot/internal/domain"
	"TNSBot/internal/ports"
)

// Cache decides whether the local catalog export can be reused.
type Cache struct {
	fetcher ports.SnapshotFetcher
	now     func() time.Time
	logger  *slog.Logger
}

var _ ports.SnapshotProvider = (*Cache)(nil)

// NewCache wires the download collaborator. A nil clock means time.Now.
func NewCache(fetcher ports.SnapshotFetcher, now func() time.Time, logger *slog.Logger) *Cache {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{fetcher: fetcher, now: now, logger: logger}
}

// EnsureFresh returns path when the file there is at most maxAge old.
// Otherwise it fetches a replacement exactly once and returns the fetched path.
func (c *Cache) EnsureFresh(ctx context.Context, path string, maxAge time.Duration) (string, error) {
	stale, err := c.isStale(path, maxAge)
	if err != nil {
		return "", err
	}
	if !stale {
		c.logger.Info("snapshot is recent enough to keep", "path", path)
		return path, nil
	}

	lock := newFileLock(path)
	if err := lock.Lock(c.logger); err != nil {
		return "", err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			c.logger.Warn("release snapshot lock", "error", err)
		}
	}()

	// another process may have refreshed it while we waited
	stale, err = c.isStale(path, maxAge)
	if err != nil {
		return "", err
	}
	if !stale {
		return path, nil
	}

	if c.fetcher == nil {
		return "", fmt.Errorf("%w: snapshot fetcher is not configured", domain.ErrConfiguration)
	}

	c.logger.Info("downloading new snapshot", "path", path)
	fetched, err := c.fetcher.Fetch(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) || errors.Is(err, domain.ErrFetch) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	return fetched, nil
}

func (c *Cache) isStale(path string, maxAge time.Duration) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat snapshot %s: %w", path, err)
	}
	return c.now().Sub(info.ModTime()) > maxAge, nil
}
