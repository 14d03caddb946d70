// Package memory holds process-local stores used when no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

type draft struct {
	data      entity.SubmissionData
	updatedAt time.Time
}

// DraftStore keeps drafts in a map. Stored and returned data are copies.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]draft
	now    func() time.Time
}

// NewDraftStore creates an empty store
func NewDraftStore() *DraftStore {
	return &DraftStore{
		drafts: make(map[string]draft),
		now:    time.Now,
	}
}

// Load returns the draft for key
func (s *DraftStore) Load(ctx context.Context, key string) (entity.SubmissionData, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[key]
	if !ok {
		return nil, false, nil
	}
	return d.data.Clone(), true, nil
}

// Save replaces the draft for key
func (s *DraftStore) Save(ctx context.Context, key string, data entity.SubmissionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[key] = draft{data: data.Clone(), updatedAt: s.now()}
	return nil
}

// Delete removes the draft for key
func (s *DraftStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, key)
	return nil
}

// Purge removes drafts last saved before cutoff
func (s *DraftStore) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, d := range s.drafts {
		if d.updatedAt.Before(cutoff) {
			delete(s.drafts, key)
			n++
		}
	}
	return n, nil
}

var _ port.DraftStore = (*DraftStore)(nil)
