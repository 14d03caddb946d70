package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/container"
)

var (
	exportOut    string
	exportFilter service.SubmissionFilter
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write submissions to an XLSX workbook",
	Long:  "Starts the service components from the config, loads submissions from MongoDB and writes the filtered set to a spreadsheet.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "form-submissions.xlsx", "Output workbook path")
	exportCmd.Flags().StringVar(&exportFilter.JobID, "job-id", "", "Only submissions for this job")
	exportCmd.Flags().StringVar(&exportFilter.FormID, "form-id", "", "Only submissions of this form")
	exportCmd.Flags().StringVar(&exportFilter.SubmittedBy, "submitted-by", "", "Only submissions by this user")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return err
	}
	if err := c.Start(cmd.Context()); err != nil {
		return err
	}
	defer c.Close()

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOut, err)
	}

	n, err := c.Services().Export.Export(cmd.Context(), f, exportFilter)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(exportOut)
		return fmt.Errorf("failed to export submissions: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d submission(s) to %s\n", n, exportOut)
	return nil
}
