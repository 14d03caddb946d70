package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FailuresReturnExitCode(t *testing.T) {
	t.Run("unreadable config", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Equal(t, 1, run())
	})

	t.Run("container start failure is logged and flushed", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))
		logPath := filepath.Join(dir, "server.log")

		cfgPath := filepath.Join(dir, "config.yaml")
		cfg := "logger:\n  level: error\n  output_path: " + logPath + "\n" +
			"drafts:\n  driver: sqlite\n  path: " + filepath.Join(blocker, "drafts.db") + "\n" +
			"forms:\n  predefined_path: " + filepath.Join(dir, "none.json") + "\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
		t.Setenv("CONFIG_PATH", cfgPath)

		assert.Equal(t, 1, run())

		logged, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(logged), "Failed to start container")
	})
}
