package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TNSBot/internal/domain"
	"TNSBot/internal/ports"
)

// TickerScheduler runs a job right away and then once per interval.
// Jobs run on a single goroutine, so a slow job delays the next tick
// instead of overlapping with it.
type TickerScheduler struct {
	every time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

var _ ports.Scheduler = (*TickerScheduler)(nil)

// NewTickerScheduler builds a scheduler firing every interval.
func NewTickerScheduler(every time.Duration) *TickerScheduler {
	return &TickerScheduler{every: every}
}

// Start begins ticking until ctx is cancelled or Stop is called.
func (s *TickerScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if s.every <= 0 {
		return fmt.Errorf("%w: repeat interval must be positive, got %s", domain.ErrConfiguration, s.every)
	}
	if job == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.every)
		defer ticker.Stop()

		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine and waits for a running job to return.
func (s *TickerScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
