package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

func TestDocument_BSONRoundTrip(t *testing.T) {
	updated := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	sub := &entity.FormSubmission{
		ID:          "submission-4",
		JobID:       "J1",
		FormID:      entity.FormIDLiability,
		FormType:    entity.FormTypeLiability,
		SubmittedBy: "staff-2",
		Data: entity.SubmissionData{
			"client":                  "Jane",
			"agree":                   true,
			"selectedAssessmentItems": []string{"Roof Entry", "Waterproofing"},
		},
		Signature:        "data:image/png;base64,AAAA",
		SubmittedAt:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		SubmissionNumber: 2,
		UpdatedAt:        &updated,
		UpdatedBy:        "admin-1",
	}

	raw, err := bson.Marshal(toDocument(sub))
	require.NoError(t, err)

	var decoded submissionDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	got := decoded.toEntity()

	assert.Equal(t, sub.ID, got.ID)
	assert.Equal(t, sub.Data, got.Data)
	assert.True(t, sub.SubmittedAt.Equal(got.SubmittedAt))
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, updated.Equal(*got.UpdatedAt))
	assert.Equal(t, sub.SubmissionNumber, got.SubmissionNumber)
	assert.Equal(t, sub.Signature, got.Signature)

	var asMap bson.M
	require.NoError(t, bson.Unmarshal(raw, &asMap))
	assert.NotContains(t, asMap, "_id", "object id is left to the server")
	assert.Equal(t, "submission-4", asMap["id"])
}

func TestFromBSON(t *testing.T) {
	assert.Equal(t, []string{"a", "1"}, fromBSON(primitive.A{"a", int32(1)}))
	assert.Equal(t, "7", fromBSON(int32(7)))
	assert.Equal(t, "7", fromBSON(int64(7)))
	assert.Equal(t, "2.5", fromBSON(2.5))
	assert.Equal(t, "", fromBSON(nil))
	assert.Equal(t, "2024-01-02T00:00:00Z", fromBSON(primitive.NewDateTimeFromTime(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))))
}

func TestNoopMirror(t *testing.T) {
	ctx := context.Background()
	var m NoopMirror

	assert.ErrorIs(t, m.Save(ctx, &entity.FormSubmission{}), port.ErrMirrorDisabled)
	assert.ErrorIs(t, m.Ping(ctx), port.ErrMirrorDisabled)
	all, err := m.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
