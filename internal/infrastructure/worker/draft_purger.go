package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Purger deletes drafts last saved before cutoff
type Purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// DraftPurgerConfig controls draft expiry
type DraftPurgerConfig struct {
	// Retention is how long an untouched draft is kept
	Retention time.Duration

	// Interval between sweeps after the initial one
	Interval time.Duration
}

// DraftPurger sweeps expired drafts once on start and then every Interval
type DraftPurger struct {
	config DraftPurgerConfig
	store  Purger
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	purged  int64
	lastErr error
}

// NewDraftPurger creates the worker. A non-positive Interval defaults to one hour.
func NewDraftPurger(config DraftPurgerConfig, store Purger, logger *zap.Logger) *DraftPurger {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	return &DraftPurger{
		config: config,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Name returns the worker name
func (p *DraftPurger) Name() string {
	return "DraftPurger"
}

// Start runs one sweep synchronously, then continues on a ticker until Stop or ctx ends
func (p *DraftPurger) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("draft purger already running")
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.running = true
	p.mu.Unlock()

	p.RunOnce(ctx)

	p.logger.Info("DraftPurger started",
		zap.Duration("retention", p.config.Retention),
		zap.Duration("interval", p.config.Interval))

	go p.loop(ctx)
	return nil
}

// Stop ends the loop and waits for an in-flight sweep
func (p *DraftPurger) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done

	p.logger.Info("DraftPurger stopped", zap.Int64("purged_total", p.Purged()))
	return nil
}

func (p *DraftPurger) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce deletes drafts older than the retention window and returns how many went
func (p *DraftPurger) RunOnce(ctx context.Context) int64 {
	if p.config.Retention <= 0 {
		return 0
	}

	n, err := p.store.Purge(ctx, p.now().Add(-p.config.Retention))

	p.mu.Lock()
	p.lastErr = err
	if err == nil {
		p.purged += n
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("Failed to purge expired drafts", zap.Error(err))
		return 0
	}
	if n > 0 {
		p.logger.Info("Purged expired drafts", zap.Int64("count", n))
	}
	return n
}

// Purged returns the total number of drafts removed since construction
func (p *DraftPurger) Purged() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.purged
}

// LastError returns the error of the most recent sweep, if any
func (p *DraftPurger) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
