package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
	"github.com/garyjia/claim-forms/pkg/database"
)

// DraftStore keeps form drafts in the form_drafts table as JSON
type DraftStore struct {
	db     *database.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewDraftStore creates a draft store on an opened database
func NewDraftStore(db *database.DB, logger *zap.Logger) *DraftStore {
	return &DraftStore{db: db, logger: logger, now: time.Now}
}

// Load returns the draft for key
func (s *DraftStore) Load(ctx context.Context, key string) (entity.SubmissionData, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM form_drafts WHERE draft_key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load draft %s: %w", key, err)
	}

	var data entity.SubmissionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		// A corrupt draft is discarded rather than blocking the fill
		s.logger.Error("Discarding unreadable draft", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}
	return data.Normalize(), true, nil
}

// Save upserts the draft for key
func (s *DraftStore) Save(ctx context.Context, key string, data entity.SubmissionData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form_drafts (draft_key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(draft_key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, key, string(raw), s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", key, err)
	}
	return nil
}

// Delete removes the draft for key. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM form_drafts WHERE draft_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", key, err)
	}
	return nil
}

// Purge removes drafts untouched since before cutoff and returns how many were removed
func (s *DraftStore) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM form_drafts WHERE updated_at < ?`, cutoff.UTC())
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge drafts: %w", err)
	}
	if removed > 0 {
		s.logger.Info("Purged stale drafts", zap.Int64("count", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}

var _ port.DraftStore = (*DraftStore)(nil)
