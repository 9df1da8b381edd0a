package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenee/ecarbon/internal/output"
	"github.com/greenee/ecarbon/internal/views"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the backend thinks you are",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		s := views.ProbeSession(cmd.Context(), client)
		output.Session(cmd.OutOrStdout(), s, client.LoginURL())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current backend session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(logoutCmd)
}
