package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/garyjia/claim-forms/internal/formschema"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Infer form fields from pasted label: value text",
	Long:  "Reads label: value lines from a file, or stdin when no file or \"-\" is given, and prints the inferred fields as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	var (
		content []byte
		err     error
	)
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read schema text: %w", err)
	}

	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"fields": formschema.Parse(string(content)),
	})
}
