package main

import (
	"github.com/spf13/cobra"

	"github.com/garyjia/claim-forms/internal/catalog"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

var signaturesCmd = &cobra.Command{
	Use:   "signatures [formType]",
	Short: "Print the stock signature placements",
	Long:  "Prints every stock placement, or the placement for one form type. Unmapped types report the default placement.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		placements := catalog.SignaturePlacements()
		if len(args) == 0 {
			return writeJSON(cmd.OutOrStdout(), placements)
		}
		p, ok := placements[args[0]]
		if !ok {
			p = entity.DefaultSignaturePlacement
		}
		return writeJSON(cmd.OutOrStdout(), p)
	},
}

func init() {
	rootCmd.AddCommand(signaturesCmd)
}
