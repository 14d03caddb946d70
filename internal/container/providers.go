package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/claim-forms/internal/application/dispatcher"
	"github.com/garyjia/claim-forms/internal/application/formfill"
	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/infrastructure/export"
	"github.com/garyjia/claim-forms/internal/infrastructure/formsource"
	"github.com/garyjia/claim-forms/internal/infrastructure/persistence/memory"
	mongostore "github.com/garyjia/claim-forms/internal/infrastructure/persistence/mongo"
	"github.com/garyjia/claim-forms/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/claim-forms/internal/infrastructure/storage"
	"github.com/garyjia/claim-forms/internal/infrastructure/worker"
	"github.com/garyjia/claim-forms/pkg/database"
)

// DraftBundle holds the draft store and its database, if any.
type DraftBundle struct {
	Store port.DraftStore
	DB    *database.DB
}

// MirrorBundle holds the submission mirror. Client is nil when Mongo is disabled or unreachable.
type MirrorBundle struct {
	Mirror port.SubmissionMirror
	Client *mongostore.SubmissionMirror
	Err    error
}

// StorageBundle holds template and export components.
type StorageBundle struct {
	Templates *storage.TemplateStore
	Inspector port.TemplateInspector
	Exporter  port.SubmissionExporter
}

// ProvideDraftStore opens the configured draft store.
func ProvideDraftStore(ctx context.Context, cfg *DraftsConfig, logger *zap.Logger) (*DraftBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("drafts config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	var bundle DraftBundle
	switch cfg.Driver {
	case DraftDriverMemory:
		bundle.Store = memory.NewDraftStore()
	case DraftDriverSQLite:
		db, err := sqlite.Open(ctx, database.Config{
			Path:            cfg.Path,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return nil, err
		}
		bundle.DB = db
		bundle.Store = sqlite.NewDraftStore(db, logger)
	default:
		return nil, fmt.Errorf("unknown draft driver %q", cfg.Driver)
	}

	return &bundle, nil
}

// ProvideWorkers registers the background jobs. Drafts are purged only when
// the store supports expiry and a retention window is set. Idle fill sessions
// are reaped only when a session TTL is set.
func ProvideWorkers(cfg *DraftsConfig, drafts port.DraftStore, sessions worker.IdleExpirer, logger *zap.Logger) *worker.Manager {
	workers := worker.NewManager(logger)
	if p, ok := drafts.(worker.Purger); ok && cfg.Retention > 0 {
		workers.Register(worker.NewDraftPurger(worker.DraftPurgerConfig{
			Retention: cfg.Retention,
			Interval:  cfg.PurgeInterval,
		}, p, logger))
	}
	if sessions != nil && cfg.SessionTTL > 0 {
		workers.Register(worker.NewSessionReaper(cfg.ReapInterval, sessions, logger))
	}
	return workers
}

// ProvideMirror connects to MongoDB when enabled. A failed connection is logged
// and submissions fall back to process-local storage.
func ProvideMirror(ctx context.Context, cfg *MongoConfig, logger *zap.Logger) *MirrorBundle {
	if !cfg.Enabled {
		logger.Info("MongoDB disabled, submissions are kept in memory only")
		return &MirrorBundle{Mirror: mongostore.NoopMirror{}}
	}

	client, err := mongostore.Connect(ctx, mongostore.Config{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Collection:     cfg.Collection,
		ConnectTimeout: cfg.ConnectTimeout,
	}, logger)
	if err != nil {
		logger.Error("MongoDB unavailable, submissions are kept in memory only", zap.Error(err))
		return &MirrorBundle{Mirror: mongostore.NoopMirror{}, Err: err}
	}
	return &MirrorBundle{Mirror: client, Client: client}
}

// ProvideStorage creates the template store, PDF inspector and spreadsheet exporter.
func ProvideStorage(cfg *FormsConfig, logger *zap.Logger) *StorageBundle {
	templates := storage.NewTemplateStore(cfg.TemplateDir, logger)
	return &StorageBundle{
		Templates: templates,
		Inspector: storage.NewPDFInspector(templates, logger),
		Exporter:  export.NewXLSXExporter(logger),
	}
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	return dispatcher.NewDispatcher(dispatcher.WithLogger(&zapLoggerAdapter{logger: logger}))
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Forms       *FormsConfig
	Submissions *SubmissionsConfig
	Mongo       *MongoConfig
	SessionTTL  time.Duration
	Drafts      port.DraftStore
	Mirror      port.SubmissionMirror
	Storage     *StorageBundle
	Dispatcher  dispatcher.Dispatcher
	Logger      *zap.Logger
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Forms       service.FormService
	Submissions service.SubmissionService
	Signatures  service.SignatureService
	Export      service.ExportService
	Engine      *formfill.Engine
	Sessions    formfill.SessionManager
}

// ProvideServices creates all application services and registers event subscribers.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	svcLogger := &zapLoggerAdapter{logger: deps.Logger}

	forms := service.NewFormService(
		formsource.NewFileSource(deps.Forms.PredefinedPath, deps.Logger),
		deps.Dispatcher,
		svcLogger,
	)

	policy := service.DefaultSubmissionPolicy()
	policy.MaterialListFormID = deps.Forms.MaterialListFormID
	policy.DisplayedCap = deps.Submissions.DisplayedCap
	if deps.Mongo.WriteTimeout > 0 {
		policy.MirrorTimeout = deps.Mongo.WriteTimeout
	}
	submissions := service.NewSubmissionService(
		deps.Mirror,
		forms,
		deps.Dispatcher,
		svcLogger,
		service.WithSubmissionPolicy(policy),
	)

	engine := formfill.NewEngine()
	sessions := formfill.NewSessionManager(
		engine,
		forms,
		submissions,
		deps.Drafts,
		svcLogger,
		formfill.WithMandatorySignature(deps.Submissions.MandatorySignature),
		formfill.WithSessionTTL(deps.SessionTTL),
	)

	formfill.RegisterSubscribers(deps.Dispatcher, deps.Drafts, svcLogger)

	return &ServiceBundle{
		Forms:       forms,
		Submissions: submissions,
		Signatures:  service.NewSignatureService(forms, deps.Storage.Inspector, svcLogger),
		Export:      service.NewExportService(submissions, forms, deps.Storage.Exporter, svcLogger),
		Engine:      engine,
		Sessions:    sessions,
	}, nil
}
