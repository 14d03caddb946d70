// Package mongo mirrors form submissions into MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// DefaultCollection is the collection submissions are mirrored into
const DefaultCollection = "formsubmissions"

// Config holds the connection settings
type Config struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// SubmissionMirror stores submissions in a MongoDB collection, one document per submission id
type SubmissionMirror struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
}

// Connect opens a client, verifies the server is reachable and ensures the id index
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*SubmissionMirror, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	m := &SubmissionMirror{
		client:     client,
		collection: client.Database(cfg.Database).Collection(collection),
		logger:     logger,
	}

	_, err = m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("id_unique"),
	})
	if err != nil {
		logger.Error("Failed to ensure submission id index", zap.Error(err))
	}

	logger.Info("MongoDB connection established",
		zap.String("database", cfg.Database),
		zap.String("collection", collection))
	return m, nil
}

// Save upserts the submission by id
func (m *SubmissionMirror) Save(ctx context.Context, s *entity.FormSubmission) error {
	_, err := m.collection.ReplaceOne(ctx,
		bson.M{"id": s.ID},
		toDocument(s),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save submission %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes the submission by id
func (m *SubmissionMirror) Delete(ctx context.Context, id string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete submission %s: %w", id, err)
	}
	return nil
}

// DeleteAll empties the collection
func (m *SubmissionMirror) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to clear submissions: %w", err)
	}
	return res.DeletedCount, nil
}

// LoadAll returns every submission, newest first
func (m *SubmissionMirror) LoadAll(ctx context.Context) ([]*entity.FormSubmission, error) {
	cur, err := m.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer cur.Close(ctx)

	out := []*entity.FormSubmission{}
	for cur.Next(ctx) {
		var doc submissionDocument
		if err := cur.Decode(&doc); err != nil {
			m.logger.Error("Skipping undecodable submission document", zap.Error(err))
			continue
		}
		out = append(out, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}
	return out, nil
}

// Ping checks the primary is reachable
func (m *SubmissionMirror) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (m *SubmissionMirror) Close(ctx context.Context) error {
	m.logger.Info("Closing MongoDB connection")
	return m.client.Disconnect(ctx)
}

var _ port.SubmissionMirror = (*SubmissionMirror)(nil)
