package container

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/claim-forms/internal/application/dispatcher"
	"github.com/garyjia/claim-forms/internal/application/port"
	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/domain/event"
	mongostore "github.com/garyjia/claim-forms/internal/infrastructure/persistence/mongo"
	"github.com/garyjia/claim-forms/internal/infrastructure/worker"
	"github.com/garyjia/claim-forms/pkg/database"
	"github.com/garyjia/claim-forms/pkg/utils"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	draftDB     *database.DB
	drafts      port.DraftStore
	mirror      port.SubmissionMirror
	mongoClient *mongostore.SubmissionMirror
	mongoErr    error

	// Infrastructure - Storage
	storage *StorageBundle

	// Application
	dispatcher dispatcher.Dispatcher
	services   *ServiceBundle
	workers    *worker.Manager

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Draft store
// 2. Submission mirror
// 3. Template storage and exporter
// 4. Event dispatcher
// 5. Application services
// 6. Form registry and submission store contents
// 7. Background workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	// Step 1: Draft store
	drafts, err := ProvideDraftStore(ctx, &c.config.Drafts, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize draft store: %w", err)
	}
	c.drafts = drafts.Store
	c.draftDB = drafts.DB
	c.logger.Info("Draft store initialized", zap.String("driver", c.config.Drafts.Driver))

	// Step 2: Submission mirror
	mirror := ProvideMirror(ctx, &c.config.Mongo, c.logger)
	c.mirror = mirror.Mirror
	c.mongoClient = mirror.Client
	c.mongoErr = mirror.Err

	// Step 3: Storage
	c.storage = ProvideStorage(&c.config.Forms, c.logger)
	c.logger.Info("Storage initialized", zap.String("template_dir", c.config.Forms.TemplateDir))

	// Step 4: Dispatcher
	c.dispatcher = ProvideDispatcher(c.logger)

	// Step 5: Services
	services, err := ProvideServices(&ServiceDeps{
		Forms:       &c.config.Forms,
		Submissions: &c.config.Submissions,
		Mongo:       &c.config.Mongo,
		SessionTTL:  c.config.Drafts.SessionTTL,
		Drafts:      c.drafts,
		Mirror:      c.mirror,
		Storage:     c.storage,
		Dispatcher:  c.dispatcher,
		Logger:      c.logger,
	})
	if err != nil {
		c.closeResources()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.services = services
	c.logger.Info("Application services initialized")

	// Step 6: Load registry and submissions
	if err := c.services.Forms.Load(ctx); err != nil {
		c.closeResources()
		return fmt.Errorf("failed to load forms: %w", err)
	}
	if err := c.services.Submissions.Load(ctx); err != nil {
		c.closeResources()
		return fmt.Errorf("failed to load submissions: %w", err)
	}

	// Step 7: Workers
	c.workers = ProvideWorkers(&c.config.Drafts, c.drafts, c.services.Sessions, c.logger)
	if err := c.workers.StartAll(ctx); err != nil {
		c.closeResources()
		return fmt.Errorf("failed to start workers: %w", err)
	}

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	errs := c.closeResources()

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors: %w", len(errs), errors.Join(errs...))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

func (c *Container) closeResources() []error {
	var errs []error

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
		c.workers = nil
	}

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
		c.dispatcher = nil
	}

	if c.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.mongoClient.Close(ctx); err != nil {
			c.logger.Error("Failed to close MongoDB", zap.Error(err))
			errs = append(errs, fmt.Errorf("close mongo: %w", err))
		}
		cancel()
		c.mongoClient = nil
	}

	if c.draftDB != nil {
		if err := c.draftDB.Close(); err != nil {
			c.logger.Error("Failed to close draft database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close draft database: %w", err))
		}
		c.draftDB = nil
	}

	return errs
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components. A disabled mirror is healthy.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	set := func(name string, h ComponentHealth) {
		status.Components[name] = h
		if !h.Healthy {
			status.Overall = false
		}
	}

	switch {
	case c.draftDB != nil:
		if err := c.draftDB.PingContext(ctx); err != nil {
			set("drafts", ComponentHealth{Healthy: false, Message: fmt.Sprintf("ping failed: %v", err)})
		} else {
			set("drafts", ComponentHealth{Healthy: true, Message: "sqlite"})
		}
	case c.drafts != nil:
		set("drafts", ComponentHealth{Healthy: true, Message: "in-memory"})
	default:
		set("drafts", ComponentHealth{Healthy: false, Message: "not initialized"})
	}

	switch {
	case c.mongoClient != nil:
		if err := c.mongoClient.Ping(ctx); err != nil {
			set("mongo", ComponentHealth{Healthy: false, Message: fmt.Sprintf("ping failed: %v", err)})
		} else {
			set("mongo", ComponentHealth{Healthy: true})
		}
	case c.mongoErr != nil:
		set("mongo", ComponentHealth{Healthy: false, Message: fmt.Sprintf("connect failed: %v", c.mongoErr)})
	default:
		set("mongo", ComponentHealth{Healthy: true, Message: "disabled"})
	}

	if c.dispatcher != nil {
		handlers := 0
		for _, t := range event.Types() {
			handlers += len(c.dispatcher.ListHandlers(t))
		}
		set("dispatcher", ComponentHealth{Healthy: true, Message: fmt.Sprintf("handlers: %d", handlers)})
	} else {
		set("dispatcher", ComponentHealth{Healthy: false, Message: "not initialized"})
	}

	if c.workers != nil && c.workers.Running() {
		set("workers", ComponentHealth{Healthy: true, Message: fmt.Sprintf("running: %d", c.workers.Count())})
	} else {
		set("workers", ComponentHealth{Healthy: false, Message: "not running"})
	}

	if c.storage != nil && c.services != nil {
		set("templates", c.templateHealth(ctx))
	}

	if c.services != nil {
		set("services", ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("forms: %d", len(c.services.Forms.List(ctx, service.FormFilter{}))),
		})
	} else {
		set("services", ComponentHealth{Healthy: false, Message: "not initialized"})
	}

	return status
}

// templateHealth lists the PDF templates on disk and the form templates that
// are absent. Missing templates only disable placement bounds checks, so they
// do not degrade the service.
func (c *Container) templateHealth(ctx context.Context) ComponentHealth {
	templates := c.storage.Templates
	onDisk, err := templates.List(ctx)
	if err != nil {
		return ComponentHealth{Healthy: false, Message: err.Error()}
	}

	seen := make(map[string]bool)
	var missing []string
	for _, f := range c.services.Forms.List(ctx, service.FormFilter{}) {
		if f.PDFTemplate == "" || seen[f.PDFTemplate] {
			continue
		}
		seen[f.PDFTemplate] = true
		ok, err := templates.Exists(ctx, f.PDFTemplate)
		if err != nil || !ok {
			missing = append(missing, f.PDFTemplate)
		}
	}
	sort.Strings(missing)

	msg := fmt.Sprintf("%s: %d on disk", templates.BaseDir(), len(onDisk))
	if len(missing) > 0 {
		msg += fmt.Sprintf(", missing: %s", strings.Join(missing, ", "))
	}
	return ComponentHealth{Healthy: true, Message: msg}
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Drafts returns the draft store.
func (c *Container) Drafts() port.DraftStore {
	return c.drafts
}

// Storage returns template and export components.
func (c *Container) Storage() *StorageBundle {
	return c.storage
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}

// KeyValueLogger returns the container logger behind the key/value Logger
// interface used by services and the HTTP layer.
func (c *Container) KeyValueLogger() service.Logger {
	return &zapLoggerAdapter{logger: c.logger}
}

// zapLoggerAdapter adapts zap.Logger to the service and dispatcher Logger interfaces.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, utils.KeysAndValuesToFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, utils.KeysAndValuesToFields(keysAndValues...)...)
}
