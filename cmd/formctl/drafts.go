package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garyjia/claim-forms/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/claim-forms/pkg/database"
)

var purgeOlderThan time.Duration

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Maintain the form draft store",
}

var draftsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete drafts not touched within --older-than",
	RunE:  runDraftsPurge,
}

func init() {
	draftsPurgeCmd.Flags().DurationVar(&purgeOlderThan, "older-than", 0, "Age cutoff; defaults to drafts.retention from the config")
	draftsCmd.AddCommand(draftsPurgeCmd)
	rootCmd.AddCommand(draftsCmd)
}

func runDraftsPurge(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Drafts.Driver != "sqlite" {
		return fmt.Errorf("drafts driver %q keeps nothing on disk", cfg.Drafts.Driver)
	}

	age := purgeOlderThan
	if age <= 0 {
		age = cfg.Drafts.Retention
	}
	if age <= 0 {
		return fmt.Errorf("no cutoff: pass --older-than or set drafts.retention")
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := sqlite.Open(cmd.Context(), database.Config{Path: cfg.Drafts.Path}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := sqlite.NewDraftStore(db, logger).Purge(cmd.Context(), time.Now().Add(-age))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "purged %d draft(s) older than %s\n", n, age)
	return nil
}
