package sqlite

import (
	"context"
	"embed"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/claim-forms/pkg/database"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Open connects to the draft database and brings its schema up to date
func Open(ctx context.Context, cfg database.Config, logger *zap.Logger) (*database.DB, error) {
	db, err := database.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if _, err := database.NewMigrator(db, logger).Run(ctx, migrationFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate draft database: %w", err)
	}
	return db, nil
}
