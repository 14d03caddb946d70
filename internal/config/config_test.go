package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.False(t, cfg.Mongo.Enabled)
	assert.Equal(t, "formsubmissions", cfg.Mongo.Collection)
	assert.Equal(t, 5*time.Second, cfg.Mongo.WriteTimeout)
	assert.Equal(t, "sqlite", cfg.Drafts.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Drafts.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.Drafts.ReapInterval)
	assert.Equal(t, "mock-token-", cfg.Auth.TokenPrefix)
	assert.Equal(t, "admin-1", cfg.Auth.AdminUserID)
	assert.Equal(t, "admin-1", cfg.Auth.AnonymousSubmitter)
	assert.Equal(t, 3, cfg.Submissions.DisplayedCap)
	assert.Equal(t, "material-list-form", cfg.Forms.MaterialListFormID)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  mode: debug
mongo:
  enabled: true
  uri: mongodb://file:27017
  write_timeout: 2s
drafts:
  driver: memory
  session_ttl: 2h
auth:
  admin_user_id: boss
  anonymous_submitter: ""
`)
	t.Setenv("MONGO_URI", "mongodb://env:27017")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.True(t, cfg.Mongo.Enabled)
	assert.Equal(t, "mongodb://env:27017", cfg.Mongo.URI)
	assert.Equal(t, 2*time.Second, cfg.Mongo.WriteTimeout)
	assert.Equal(t, "memory", cfg.Drafts.Driver)
	assert.Equal(t, "boss", cfg.Auth.AdminUserID)
	assert.Equal(t, "boss", cfg.Auth.AnonymousSubmitter, "anonymous submitter defaults to the admin")

	cc := cfg.ToContainerConfig()
	require.NoError(t, cc.Validate())
	assert.Equal(t, "boss", cc.Server.AdminUserID)
	assert.Equal(t, "memory", cc.Drafts.Driver)
	assert.Equal(t, 2*time.Hour, cc.Drafts.SessionTTL)
	assert.Equal(t, 2*time.Second, cc.Mongo.WriteTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "mongo enabled without uri",
			content: "mongo:\n  enabled: true\n",
			wantMsg: "Config.Mongo.URI",
		},
		{
			name:    "unknown draft driver",
			content: "drafts:\n  driver: redis\n",
			wantMsg: "Config.Drafts.Driver",
		},
		{
			name:    "bad port",
			content: "server:\n  port: 0\n",
			wantMsg: "Config.Server.Port",
		},
		{
			name:    "zero cap",
			content: "submissions:\n  displayed_cap: 0\n",
			wantMsg: "Config.Submissions.DisplayedCap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MONGO_URI", "")
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
