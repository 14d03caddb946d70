package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/garyjia/claim-forms/internal/domain/event"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func newEvent(t event.Type) *event.Event {
	return event.NewEvent(t, "submission-1", map[string]any{event.KeyJobID: "J1"})
}

func TestListHandlers(t *testing.T) {
	d := NewDispatcher()
	noop := func(ctx context.Context, evt *event.Event) error { return nil }
	d.SubscribeNamed(event.TypeSubmissionCreated, "clear-draft", noop)
	d.SubscribeAsync(event.TypeSubmissionCreated, "audit-log", noop)

	handlers := d.ListHandlers(event.TypeSubmissionCreated)
	if len(handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d", len(handlers))
	}
	if handlers[0].Name != "clear-draft" || handlers[0].Async {
		t.Errorf("first handler = %+v", handlers[0])
	}
	if handlers[1].Name != "audit-log" || !handlers[1].Async {
		t.Errorf("second handler = %+v", handlers[1])
	}
	for _, h := range handlers {
		if h.Handler != nil {
			t.Error("ListHandlers should not expose handler funcs")
		}
	}
	if got := d.ListHandlers(event.TypeFormDeleted); len(got) != 0 {
		t.Errorf("expected no handlers, got %d", len(got))
	}
}

func TestDispatch(t *testing.T) {
	t.Run("runs handlers in order", func(t *testing.T) {
		d := NewDispatcher()
		var order []string
		d.SubscribeNamed(event.TypeSubmissionCreated, "first", func(ctx context.Context, evt *event.Event) error {
			order = append(order, "first")
			return nil
		})
		d.SubscribeNamed(event.TypeSubmissionCreated, "second", func(ctx context.Context, evt *event.Event) error {
			order = append(order, "second")
			return nil
		})

		if err := d.Dispatch(context.Background(), newEvent(event.TypeSubmissionCreated)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fmt.Sprint(order) != "[first second]" {
			t.Errorf("order = %v", order)
		}
	})

	t.Run("continues after failure and joins errors", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		sentinel := errors.New("boom")
		var ran atomic.Bool
		d.SubscribeNamed(event.TypeSubmissionDeleted, "failing", func(ctx context.Context, evt *event.Event) error {
			return sentinel
		})
		d.SubscribeNamed(event.TypeSubmissionDeleted, "after", func(ctx context.Context, evt *event.Event) error {
			ran.Store(true)
			return nil
		})

		err := d.Dispatch(context.Background(), newEvent(event.TypeSubmissionDeleted))
		if !errors.Is(err, sentinel) {
			t.Errorf("expected joined error to wrap sentinel, got %v", err)
		}
		if !ran.Load() {
			t.Error("second handler should still run")
		}
		if logger.ErrorCount() != 1 {
			t.Errorf("expected 1 logged error, got %d", logger.ErrorCount())
		}
	})

	t.Run("recovers from panic", func(t *testing.T) {
		d := NewDispatcher()
		d.SubscribeNamed(event.TypeFormDeleted, "panics", func(ctx context.Context, evt *event.Event) error {
			panic("bad handler")
		})

		if err := d.Dispatch(context.Background(), newEvent(event.TypeFormDeleted)); err == nil {
			t.Error("expected panic to surface as error")
		}
	})

	t.Run("no handlers", func(t *testing.T) {
		d := NewDispatcher()
		if err := d.Dispatch(context.Background(), newEvent(event.TypeFormCreated)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("closed", func(t *testing.T) {
		d := NewDispatcher()
		_ = d.Close()
		if err := d.Dispatch(context.Background(), newEvent(event.TypeFormCreated)); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	})
}

func TestDispatch_AsyncHandlers(t *testing.T) {
	t.Run("handlers finish before Close returns", func(t *testing.T) {
		d := NewDispatcher()
		var count atomic.Int32
		for i := 0; i < 3; i++ {
			d.SubscribeAsync(event.TypeSubmissionCreated, fmt.Sprintf("slow-%d", i), func(ctx context.Context, evt *event.Event) error {
				time.Sleep(5 * time.Millisecond)
				count.Add(1)
				return nil
			})
		}

		if err := d.Dispatch(context.Background(), newEvent(event.TypeSubmissionCreated)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := d.Close(); err != nil {
			t.Fatalf("Close() failed: %v", err)
		}
		if count.Load() != 3 {
			t.Errorf("expected 3 handler runs, got %d", count.Load())
		}
	})

	t.Run("does not hold up dispatch", func(t *testing.T) {
		d := NewDispatcher()
		release := make(chan struct{})
		var inlineRan atomic.Bool
		d.SubscribeAsync(event.TypeSubmissionCreated, "blocked", func(ctx context.Context, evt *event.Event) error {
			<-release
			return nil
		})
		d.SubscribeNamed(event.TypeSubmissionCreated, "inline", func(ctx context.Context, evt *event.Event) error {
			inlineRan.Store(true)
			return nil
		})

		if err := d.Dispatch(context.Background(), newEvent(event.TypeSubmissionCreated)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !inlineRan.Load() {
			t.Error("inline handler should run before Dispatch returns")
		}
		close(release)
		_ = d.Close()
	})

	t.Run("failures are logged, not returned", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		d.SubscribeAsync(event.TypeSubmissionDeleted, "failing", func(ctx context.Context, evt *event.Event) error {
			return errors.New("boom")
		})

		if err := d.Dispatch(context.Background(), newEvent(event.TypeSubmissionDeleted)); err != nil {
			t.Errorf("async failure leaked into Dispatch: %v", err)
		}
		_ = d.Close()
		if logger.ErrorCount() != 1 {
			t.Errorf("expected 1 logged error, got %d", logger.ErrorCount())
		}
	})

	t.Run("survives cancelled request context", func(t *testing.T) {
		d := NewDispatcher()
		var ctxErr atomic.Value
		d.SubscribeAsync(event.TypeSubmissionCreated, "ctx-check", func(ctx context.Context, evt *event.Event) error {
			if err := ctx.Err(); err != nil {
				ctxErr.Store(err)
			}
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = d.Dispatch(ctx, newEvent(event.TypeSubmissionCreated))
		_ = d.Close()

		if v := ctxErr.Load(); v != nil {
			t.Errorf("handler saw cancelled context: %v", v)
		}
	})
}

func TestClose_Twice(t *testing.T) {
	d := NewDispatcher()
	if err := d.Close(); err != nil {
		t.Fatalf("first Close() failed: %v", err)
	}
	if err := d.Close(); err == nil {
		t.Error("second Close() should fail")
	}
}
