package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type mockFormSource struct {
	loadFunc func(ctx context.Context) ([]*entity.FormDefinition, error)
}

func (m *mockFormSource) Load(ctx context.Context) ([]*entity.FormDefinition, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return nil, nil
}

type mockMirror struct {
	mu          sync.Mutex
	saved       []*entity.FormSubmission
	deleted     []string
	saveFunc    func(ctx context.Context, s *entity.FormSubmission) error
	deleteFunc  func(ctx context.Context, id string) error
	clearFunc   func(ctx context.Context) (int64, error)
	loadAllFunc func(ctx context.Context) ([]*entity.FormSubmission, error)
}

func (m *mockMirror) Save(ctx context.Context, s *entity.FormSubmission) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, s); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, s)
	return nil
}

func (m *mockMirror) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockMirror) DeleteAll(ctx context.Context) (int64, error) {
	if m.clearFunc != nil {
		return m.clearFunc(ctx)
	}
	return 0, nil
}

func (m *mockMirror) LoadAll(ctx context.Context) ([]*entity.FormSubmission, error) {
	if m.loadAllFunc != nil {
		return m.loadAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockMirror) Ping(ctx context.Context) error { return nil }

func (m *mockMirror) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

type mockInspector struct {
	firstPageSizeFunc func(ctx context.Context, template string) (port.PageSize, bool, error)
}

func (m *mockInspector) FirstPageSize(ctx context.Context, template string) (port.PageSize, bool, error) {
	if m.firstPageSizeFunc != nil {
		return m.firstPageSizeFunc(ctx, template)
	}
	return port.PageSize{}, false, nil
}

type mockExporter struct {
	forms       map[string]*entity.FormDefinition
	submissions []*entity.FormSubmission
	exportFunc  func(w io.Writer) error
}

func (m *mockExporter) Export(w io.Writer, forms map[string]*entity.FormDefinition, submissions []*entity.FormSubmission) error {
	m.forms = forms
	m.submissions = submissions
	if m.exportFunc != nil {
		return m.exportFunc(w)
	}
	return nil
}

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

var (
	admin = Identity{UserID: "admin-1", Admin: true}
	alice = Identity{UserID: "user-alice"}
	bob   = Identity{UserID: "user-bob"}
)
