package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/garyjia/claim-forms/internal/application/formfill"
	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/infrastructure/formsource"
	"github.com/garyjia/claim-forms/internal/infrastructure/storage"
)

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Inspect form definitions",
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List core and predefined forms",
	RunE:  runFormsList,
}

var formsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a predefined forms file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormsValidate,
}

func init() {
	formsCmd.AddCommand(formsListCmd, formsValidateCmd)
	rootCmd.AddCommand(formsCmd)
}

func runFormsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	forms := service.NewFormService(formsource.NewFileSource(cfg.Forms.PredefinedPath, logger), nil, nil)
	if err := forms.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load forms: %w", err)
	}

	engine := formfill.NewEngine()
	templates := storage.NewTemplateStore(cfg.Forms.TemplateDir, logger)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tFIELDS\tSIGNATURE\tTEMPLATE")
	for _, f := range forms.List(cmd.Context(), service.FormFilter{}) {
		signature := "-"
		if engine.RequiresSignature(f) {
			signature = "required"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			f.ID, f.Name, f.FormType, len(f.Fields), signature, templateStatus(cmd, templates, f.PDFTemplate))
	}
	return tw.Flush()
}

// templateStatus shows the template name, flagged when it is not on disk
func templateStatus(cmd *cobra.Command, templates *storage.TemplateStore, name string) string {
	if name == "" {
		return "-"
	}
	ok, err := templates.Exists(cmd.Context(), name)
	if err != nil || !ok {
		return name + " (missing)"
	}
	return name
}

func runFormsValidate(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read forms file: %w", err)
	}

	forms, err := formsource.Parse(content, time.Now())
	if err != nil {
		var schemaErr *formsource.SchemaError
		if errors.As(err, &schemaErr) {
			for _, e := range schemaErr.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
			}
		}
		return fmt.Errorf("%s is invalid: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d form(s) OK\n", args[0], len(forms))
	return nil
}
