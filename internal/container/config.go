// Package container provides dependency injection and lifecycle management
// for the claim forms service.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
type Config struct {
	// Drafts configures the form draft store
	Drafts DraftsConfig

	// Mongo configures the durable submission mirror
	Mongo MongoConfig

	// Forms configures the form registry and PDF templates
	Forms FormsConfig

	// Submissions configures submission behaviour
	Submissions SubmissionsConfig

	// Server configuration
	Server ServerConfig
}

// Draft store drivers
const (
	DraftDriverSQLite = "sqlite"
	DraftDriverMemory = "memory"
)

// DraftsConfig holds draft store settings.
type DraftsConfig struct {
	// Driver is "sqlite" or "memory"
	Driver string

	// Path to the SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Retention purges drafts untouched for longer. Zero keeps everything.
	Retention time.Duration

	// PurgeInterval is the time between purge sweeps after the one at startup
	PurgeInterval time.Duration

	// SessionTTL expires fill sessions idle for longer. Zero keeps them until submit or discard.
	SessionTTL time.Duration

	// ReapInterval is the time between idle session sweeps
	ReapInterval time.Duration
}

// MongoConfig holds MongoDB settings.
type MongoConfig struct {
	// Enabled turns the mirror on; when false submissions are process-local
	Enabled bool

	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration

	// WriteTimeout bounds each mirror write
	WriteTimeout time.Duration
}

// FormsConfig holds form registry settings.
type FormsConfig struct {
	// PredefinedPath is the JSON file of externally maintained forms
	PredefinedPath string

	// TemplateDir holds the PDF templates forms are rendered onto
	TemplateDir string

	// MaterialListFormID is the form whose submitters may edit their own submissions
	MaterialListFormID string
}

// SubmissionsConfig holds submission settings.
type SubmissionsConfig struct {
	// DisplayedCap is the denominator shown in "submission N/cap"
	DisplayedCap int

	// MandatorySignature blocks submit on signature forms until a signature is captured
	MandatorySignature bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Mode            string

	// TokenPrefix precedes the user id in bearer tokens
	TokenPrefix string

	// AdminUserID is the administrator identity
	AdminUserID string

	// AnonymousSubmitter is recorded for submissions made without a token
	AnonymousSubmitter string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Drafts: DraftsConfig{
			Driver:          DraftDriverSQLite,
			Path:            "data/drafts.db",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			Retention:       30 * 24 * time.Hour,
			PurgeInterval:   time.Hour,
			SessionTTL:      24 * time.Hour,
			ReapInterval:    15 * time.Minute,
		},
		Mongo: MongoConfig{
			Database:       "claimforms",
			Collection:     "formsubmissions",
			ConnectTimeout: 10 * time.Second,
			WriteTimeout:   5 * time.Second,
		},
		Forms: FormsConfig{
			PredefinedPath:     "configs/predefined_forms.json",
			TemplateDir:        "templates",
			MaterialListFormID: "material-list-form",
		},
		Submissions: SubmissionsConfig{
			DisplayedCap: 3,
		},
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			ReadTimeout:        30 * time.Second,
			WriteTimeout:       30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			Mode:               "release",
			TokenPrefix:        "mock-token-",
			AdminUserID:        "admin-1",
			AnonymousSubmitter: "admin-1",
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	switch c.Drafts.Driver {
	case DraftDriverSQLite:
		if c.Drafts.Path == "" {
			return fmt.Errorf("drafts.path is required for the sqlite driver")
		}
	case DraftDriverMemory:
	default:
		return fmt.Errorf("unknown drafts.driver %q", c.Drafts.Driver)
	}

	if c.Mongo.Enabled {
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required when mongo is enabled")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo.database is required when mongo is enabled")
		}
	}

	if c.Forms.MaterialListFormID == "" {
		return fmt.Errorf("forms.material_list_form_id is required")
	}
	if c.Submissions.DisplayedCap <= 0 {
		return fmt.Errorf("submissions.displayed_cap must be positive")
	}
	if c.Server.AdminUserID == "" {
		return fmt.Errorf("auth.admin_user_id is required")
	}

	return nil
}
