package cmd

import (
	"github.com/spf13/cobra"

	"github.com/greenee/ecarbon/internal/banner"
	"github.com/greenee/ecarbon/internal/web"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as a website",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		banner.PrintBanner()
		if servePort != "" {
			cfg.Port = servePort
		}
		return web.New(cfg).ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default from PORT, then 3000)")
	rootCmd.AddCommand(serveCmd)
}
