package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IdleExpirer drops in-memory fill sessions that have gone idle
type IdleExpirer interface {
	ExpireIdle(ctx context.Context) int
}

// SessionReaper expires idle fill sessions every interval
type SessionReaper struct {
	interval time.Duration
	sessions IdleExpirer
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	reaped  int
}

// NewSessionReaper creates the worker. A non-positive interval defaults to fifteen minutes.
func NewSessionReaper(interval time.Duration, sessions IdleExpirer, logger *zap.Logger) *SessionReaper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &SessionReaper{
		interval: interval,
		sessions: sessions,
		logger:   logger,
	}
}

// Name returns the worker name
func (r *SessionReaper) Name() string {
	return "SessionReaper"
}

// Start begins the sweep loop. There is nothing to reap at startup.
func (r *SessionReaper) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("session reaper already running")
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.running = true

	r.logger.Info("SessionReaper started", zap.Duration("interval", r.interval))

	go r.loop(ctx)
	return nil
}

// Stop ends the loop and waits for an in-flight sweep
func (r *SessionReaper) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	cancel()
	<-done

	r.logger.Info("SessionReaper stopped", zap.Int("reaped_total", r.Reaped()))
	return nil
}

func (r *SessionReaper) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce expires idle sessions and returns how many went
func (r *SessionReaper) RunOnce(ctx context.Context) int {
	n := r.sessions.ExpireIdle(ctx)

	r.mu.Lock()
	r.reaped += n
	r.mu.Unlock()
	return n
}

// Reaped returns the total number of sessions expired since construction
func (r *SessionReaper) Reaped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reaped
}
