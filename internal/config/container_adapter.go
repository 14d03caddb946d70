package config

import (
	"github.com/garyjia/claim-forms/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Drafts: container.DraftsConfig{
			Driver:          c.Drafts.Driver,
			Path:            c.Drafts.Path,
			MaxOpenConns:    c.Drafts.MaxOpenConns,
			MaxIdleConns:    c.Drafts.MaxIdleConns,
			ConnMaxLifetime: c.Drafts.ConnMaxLifetime,
			Retention:       c.Drafts.Retention,
			PurgeInterval:   c.Drafts.PurgeInterval,
			SessionTTL:      c.Drafts.SessionTTL,
			ReapInterval:    c.Drafts.ReapInterval,
		},
		Mongo: container.MongoConfig{
			Enabled:        c.Mongo.Enabled,
			URI:            c.Mongo.URI,
			Database:       c.Mongo.Database,
			Collection:     c.Mongo.Collection,
			ConnectTimeout: c.Mongo.ConnectTimeout,
			WriteTimeout:   c.Mongo.WriteTimeout,
		},
		Forms: container.FormsConfig{
			PredefinedPath:     c.Forms.PredefinedPath,
			TemplateDir:        c.Forms.TemplateDir,
			MaterialListFormID: c.Forms.MaterialListFormID,
		},
		Submissions: container.SubmissionsConfig{
			DisplayedCap:       c.Submissions.DisplayedCap,
			MandatorySignature: c.Submissions.MandatorySignature,
		},
		Server: container.ServerConfig{
			Host:               c.Server.Host,
			Port:               c.Server.Port,
			ReadTimeout:        c.Server.ReadTimeout,
			WriteTimeout:       c.Server.WriteTimeout,
			ShutdownTimeout:    c.Server.ShutdownTimeout,
			Mode:               c.Server.Mode,
			TokenPrefix:        c.Auth.TokenPrefix,
			AdminUserID:        c.Auth.AdminUserID,
			AnonymousSubmitter: c.Auth.AnonymousSubmitter,
		},
	}
}
