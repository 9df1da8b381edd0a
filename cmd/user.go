package cmd

import (
	"github.com/spf13/cobra"

	"github.com/greenee/ecarbon/internal/output"
	"github.com/greenee/ecarbon/internal/views"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show your measurement history and total reduction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		v := views.LoadUserPage(cmd.Context(), client)
		output.UserPage(cmd.OutOrStdout(), v, client.LoginURL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
}
