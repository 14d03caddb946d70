package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/claim-forms/internal/domain/event"
)

// ErrClosed is returned when dispatching on a closed dispatcher
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher routes events to registered handlers
type Dispatcher interface {
	// SubscribeNamed registers a handler that runs inline with Dispatch
	SubscribeNamed(eventType event.Type, name string, handler Handler)

	// SubscribeAsync registers a handler that runs in a background goroutine
	// detached from the dispatching context's cancellation
	SubscribeAsync(eventType event.Type, name string, handler Handler)

	// Dispatch runs every inline handler for the event in registration order,
	// then starts the async ones. All inline handlers run even if one fails;
	// the failures are joined. Async failures are only logged.
	Dispatch(ctx context.Context, evt *event.Event) error

	// ListHandlers returns registered handlers for an event type
	ListHandlers(eventType event.Type) []HandlerInfo

	// Close shuts down the dispatcher and waits for async handlers
	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	logger   Logger

	wg     sync.WaitGroup
	closed atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers: make(map[event.Type][]HandlerInfo),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *eventDispatcher) SubscribeNamed(eventType event.Type, name string, handler Handler) {
	d.subscribe(HandlerInfo{Name: name, EventType: eventType, Handler: handler})
}

func (d *eventDispatcher) SubscribeAsync(eventType event.Type, name string, handler Handler) {
	d.subscribe(HandlerInfo{Name: name, EventType: eventType, Handler: handler, Async: true})
}

func (d *eventDispatcher) subscribe(info HandlerInfo) {
	d.mu.Lock()
	d.handlers[info.EventType] = append(d.handlers[info.EventType], info)
	d.mu.Unlock()

	d.logInfo("Handler registered", "event_type", info.EventType, "handler_name", info.Name, "async", info.Async)
}

// Dispatch runs the inline handlers for the event, then starts the async ones
func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return ErrClosed
	}

	handlers := d.snapshot(evt.Type)
	d.logInfo("Dispatching event", "event_type", evt.Type, "event_id", evt.ID, "handler_count", len(handlers))

	var errs []error
	var async []HandlerInfo
	for _, h := range handlers {
		if h.Async {
			async = append(async, h)
			continue
		}
		if err := d.safeExecute(ctx, evt, h); err != nil {
			d.logError("Handler error", "event_type", evt.Type, "event_id", evt.ID, "handler_name", h.Name, "error", err)
			errs = append(errs, fmt.Errorf("handler %s: %w", h.Name, err))
		}
	}
	d.runAsync(ctx, evt, async)
	return errors.Join(errs...)
}

func (d *eventDispatcher) runAsync(ctx context.Context, evt *event.Event, handlers []HandlerInfo) {
	if len(handlers) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, h := range handlers {
		d.wg.Add(1)
		go func(h HandlerInfo) {
			defer d.wg.Done()
			if err := d.safeExecute(ctx, evt, h); err != nil {
				d.logError("Async handler error", "event_type", evt.Type, "event_id", evt.ID, "handler_name", h.Name, "error", err)
			}
		}(h)
	}
}

// ListHandlers returns registered handlers for an event type, without the handler funcs
func (d *eventDispatcher) ListHandlers(eventType event.Type) []HandlerInfo {
	handlers := d.snapshot(eventType)
	for i := range handlers {
		handlers[i].Handler = nil
	}
	return handlers
}

// Close shuts down the dispatcher and waits for async handlers to complete
func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already closed")
	}
	d.logInfo("Closing dispatcher, waiting for async handlers")
	d.wg.Wait()
	d.logInfo("Dispatcher closed")
	return nil
}

func (d *eventDispatcher) snapshot(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]HandlerInfo(nil), d.handlers[eventType]...)
}

// safeExecute runs a handler with panic recovery
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return info.Handler(ctx, evt)
}

func (d *eventDispatcher) logInfo(msg string, kv ...interface{}) {
	if d.logger != nil {
		d.logger.Info(msg, kv...)
	}
}

func (d *eventDispatcher) logError(msg string, kv ...interface{}) {
	if d.logger != nil {
		d.logger.Error(msg, kv...)
	}
}
