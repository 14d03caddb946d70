package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPurger struct {
	mu        sync.Mutex
	cutoffs   []time.Time
	purgeFunc func(cutoff time.Time) (int64, error)
}

func (m *mockPurger) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	m.cutoffs = append(m.cutoffs, cutoff)
	m.mu.Unlock()
	if m.purgeFunc != nil {
		return m.purgeFunc(cutoff)
	}
	return 0, nil
}

func (m *mockPurger) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

type mockWorker struct {
	name     string
	startErr error
	stopErr  error
	events   *[]string
}

func (w *mockWorker) Start(context.Context) error {
	*w.events = append(*w.events, "start "+w.name)
	return w.startErr
}

func (w *mockWorker) Stop() error {
	*w.events = append(*w.events, "stop "+w.name)
	return w.stopErr
}

func (w *mockWorker) Name() string { return w.name }

func TestManager_Lifecycle(t *testing.T) {
	var events []string
	m := NewManager(zap.NewNop())
	m.Register(&mockWorker{name: "a", events: &events})
	m.Register(&mockWorker{name: "b", startErr: errors.New("boom"), events: &events})
	m.Register(&mockWorker{name: "c", events: &events})
	assert.Equal(t, 3, m.Count())

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.Running())
	assert.Error(t, m.StartAll(context.Background()))

	require.NoError(t, m.StopAll())
	assert.False(t, m.Running())
	assert.Equal(t, []string{"start a", "start b", "start c", "stop c", "stop b", "stop a"}, events)

	assert.NoError(t, m.StopAll(), "stopping twice is a no-op")
}

func TestManager_StopErrors(t *testing.T) {
	var events []string
	m := NewManager(zap.NewNop())
	m.Register(&mockWorker{name: "a", stopErr: errors.New("stuck"), events: &events})

	require.NoError(t, m.StartAll(context.Background()))
	err := m.StopAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stuck")
}

func TestDraftPurger_RunOnce(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("uses retention cutoff", func(t *testing.T) {
		store := &mockPurger{purgeFunc: func(time.Time) (int64, error) { return 3, nil }}
		p := NewDraftPurger(DraftPurgerConfig{Retention: 48 * time.Hour}, store, zap.NewNop())
		p.now = func() time.Time { return now }

		assert.Equal(t, int64(3), p.RunOnce(context.Background()))
		p.RunOnce(context.Background())
		assert.Equal(t, int64(6), p.Purged())
		require.Len(t, store.cutoffs, 2)
		assert.Equal(t, now.Add(-48*time.Hour), store.cutoffs[0])
	})

	t.Run("zero retention keeps everything", func(t *testing.T) {
		store := &mockPurger{}
		p := NewDraftPurger(DraftPurgerConfig{}, store, zap.NewNop())
		assert.Zero(t, p.RunOnce(context.Background()))
		assert.Zero(t, store.calls())
	})

	t.Run("errors are recorded", func(t *testing.T) {
		store := &mockPurger{purgeFunc: func(time.Time) (int64, error) { return 0, errors.New("locked") }}
		p := NewDraftPurger(DraftPurgerConfig{Retention: time.Hour}, store, zap.NewNop())
		assert.Zero(t, p.RunOnce(context.Background()))
		assert.EqualError(t, p.LastError(), "locked")
		assert.Zero(t, p.Purged())
	})
}

func TestDraftPurger_StartStop(t *testing.T) {
	store := &mockPurger{purgeFunc: func(time.Time) (int64, error) { return 1, nil }}
	p := NewDraftPurger(DraftPurgerConfig{Retention: time.Hour, Interval: 5 * time.Millisecond}, store, zap.NewNop())

	require.NoError(t, p.Start(context.Background()))
	assert.GreaterOrEqual(t, store.calls(), 1, "first sweep runs on start")
	assert.Error(t, p.Start(context.Background()))

	assert.Eventually(t, func() bool { return store.calls() >= 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, p.Stop())
	after := store.calls()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, store.calls(), "no sweeps after stop")
	assert.NoError(t, p.Stop())
}

type mockExpirer struct {
	mu         sync.Mutex
	calls      int
	expireFunc func() int
}

func (m *mockExpirer) ExpireIdle(context.Context) int {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.expireFunc != nil {
		return m.expireFunc()
	}
	return 0
}

func (m *mockExpirer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestSessionReaper_RunOnce(t *testing.T) {
	sessions := &mockExpirer{expireFunc: func() int { return 3 }}
	r := NewSessionReaper(time.Hour, sessions, zap.NewNop())

	assert.Equal(t, 3, r.RunOnce(context.Background()))
	assert.Equal(t, 3, r.RunOnce(context.Background()))
	assert.Equal(t, 6, r.Reaped())
}

func TestSessionReaper_StartStop(t *testing.T) {
	sessions := &mockExpirer{}
	r := NewSessionReaper(5*time.Millisecond, sessions, zap.NewNop())

	require.NoError(t, r.Start(context.Background()))
	assert.Error(t, r.Start(context.Background()), "already running")
	assert.Zero(t, sessions.count(), "no sweep at startup")

	assert.Eventually(t, func() bool { return sessions.count() >= 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, r.Stop())
	after := sessions.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, sessions.count(), "no sweeps after stop")
	assert.NoError(t, r.Stop(), "second stop is a no-op")
}
