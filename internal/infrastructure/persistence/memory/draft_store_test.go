package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/claim-forms/internal/domain/entity"
)

func TestDraftStore(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore()

	_, ok, err := store.Load(ctx, "form_J1_f1")
	require.NoError(t, err)
	assert.False(t, ok)

	data := entity.SubmissionData{"client": "Jane", "items": []string{"a"}}
	require.NoError(t, store.Save(ctx, "form_J1_f1", data))

	// mutating the caller's copy does not reach the store
	data["client"] = "changed"
	data["items"].([]string)[0] = "changed"

	got, ok, err := store.Load(ctx, "form_J1_f1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entity.SubmissionData{"client": "Jane", "items": []string{"a"}}, got)

	require.NoError(t, store.Delete(ctx, "form_J1_f1"))
	_, ok, err = store.Load(ctx, "form_J1_f1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDraftStore_Purge(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore()
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base.Add(-48 * time.Hour) }
	require.NoError(t, store.Save(ctx, "old", entity.SubmissionData{"a": "1"}))
	store.now = func() time.Time { return base }
	require.NoError(t, store.Save(ctx, "fresh", entity.SubmissionData{"a": "2"}))

	n, err := store.Purge(ctx, base.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, _ := store.Load(ctx, "old")
	assert.False(t, ok)
	_, ok, _ = store.Load(ctx, "fresh")
	assert.True(t, ok)
}
