package cmd

import (
	"github.com/spf13/cobra"

	"github.com/greenee/ecarbon/internal/guidelines"
	"github.com/greenee/ecarbon/internal/output"
)

var guidelinesCmd = &cobra.Command{
	Use:   "guidelines",
	Short: "Print the sustainable web guidelines",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		output.Guidelines(cmd.OutOrStdout(), guidelines.All())
	},
}

func init() {
	rootCmd.AddCommand(guidelinesCmd)
}
