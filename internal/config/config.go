package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/garyjia/claim-forms/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Mongo       MongoConfig       `mapstructure:"mongo"`
	Drafts      DraftsConfig      `mapstructure:"drafts"`
	Forms       FormsConfig       `mapstructure:"forms"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Submissions SubmissionsConfig `mapstructure:"submissions"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
}

// MongoConfig holds the durable submission store settings.
// With Enabled false submissions live in memory only.
type MongoConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URI            string        `mapstructure:"uri" validate:"required_if=Enabled true"`
	Database       string        `mapstructure:"database" validate:"required_if=Enabled true"`
	Collection     string        `mapstructure:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

// DraftsConfig holds draft persistence settings
type DraftsConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=sqlite memory"`
	Path            string        `mapstructure:"path" validate:"required_if=Driver sqlite"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Retention       time.Duration `mapstructure:"retention"`
	PurgeInterval   time.Duration `mapstructure:"purge_interval"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	ReapInterval    time.Duration `mapstructure:"reap_interval"`
}

// FormsConfig holds form registry settings
type FormsConfig struct {
	PredefinedPath     string `mapstructure:"predefined_path"`
	TemplateDir        string `mapstructure:"template_dir"`
	MaterialListFormID string `mapstructure:"material_list_form_id" validate:"required"`
}

// AuthConfig holds the bearer token convention
type AuthConfig struct {
	TokenPrefix        string `mapstructure:"token_prefix" validate:"required"`
	AdminUserID        string `mapstructure:"admin_user_id" validate:"required"`
	AnonymousSubmitter string `mapstructure:"anonymous_submitter"`
}

// SubmissionsConfig holds submission behaviour settings
type SubmissionsConfig struct {
	DisplayedCap       int  `mapstructure:"displayed_cap" validate:"gt=0"`
	MandatorySignature bool `mapstructure:"mandatory_signature"`
}

// Load reads .env (when present), the YAML file at configPath and environment overrides.
// An empty configPath uses defaults and environment only.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.mode", "release")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	// Mongo defaults
	v.SetDefault("mongo.enabled", false)
	v.SetDefault("mongo.database", "claimforms")
	v.SetDefault("mongo.collection", "formsubmissions")
	v.SetDefault("mongo.connect_timeout", 10*time.Second)
	v.SetDefault("mongo.write_timeout", 5*time.Second)

	// Draft defaults
	v.SetDefault("drafts.driver", "sqlite")
	v.SetDefault("drafts.path", "data/drafts.db")
	v.SetDefault("drafts.max_open_conns", 4)
	v.SetDefault("drafts.max_idle_conns", 2)
	v.SetDefault("drafts.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("drafts.retention", 30*24*time.Hour)
	v.SetDefault("drafts.purge_interval", time.Hour)
	v.SetDefault("drafts.session_ttl", 24*time.Hour)
	v.SetDefault("drafts.reap_interval", 15*time.Minute)

	// Form defaults
	v.SetDefault("forms.predefined_path", "configs/predefined_forms.json")
	v.SetDefault("forms.template_dir", "templates")
	v.SetDefault("forms.material_list_form_id", "material-list-form")

	// Auth defaults
	v.SetDefault("auth.token_prefix", "mock-token-")
	v.SetDefault("auth.admin_user_id", "admin-1")
	v.SetDefault("auth.anonymous_submitter", "admin-1")

	// Submission defaults
	v.SetDefault("submissions.displayed_cap", 3)
	v.SetDefault("submissions.mandatory_signature", false)
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("mongo.uri", "MONGO_URI", "MONGODB_URI")
	_ = v.BindEnv("mongo.enabled", "MONGO_ENABLED")
	_ = v.BindEnv("mongo.database", "MONGO_DATABASE")
	_ = v.BindEnv("drafts.path", "DRAFTS_PATH")
	_ = v.BindEnv("auth.admin_user_id", "AUTH_ADMIN_USER_ID")
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.Auth.AnonymousSubmitter == "" {
		c.Auth.AnonymousSubmitter = c.Auth.AdminUserID
	}
	return nil
}

// Address returns the host:port the server listens on
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Logging converts to the logger constructor's config
func (c *LoggerConfig) Logging() utils.LoggerConfig {
	return utils.LoggerConfig{
		Level:      c.Level,
		OutputPath: c.OutputPath,
		Format:     c.Format,
	}
}
