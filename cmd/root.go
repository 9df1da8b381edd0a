// Package cmd wires the dashboard's commands. Every command talks to the
// measurement backend through one API client; the session cookie, base URL
// and timeouts come from the environment and can be overridden per run.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/config"
)

var (
	cfg config.Config

	flagAPIBase string
	flagCookie  string
	flagTimeout time.Duration
	flagRetries int
)

var rootCmd = &cobra.Command{
	Use:   "ecarbon",
	Short: "Measure the carbon footprint of websites",
	Long: `eCarbon measures how much CO₂ a visit to a web page emits, grades the
page, and shows rankings, global statistics and your own reduction history.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if flagAPIBase != "" {
			cfg.BaseURL = flagAPIBase
		}
		if flagCookie != "" {
			cfg.SessionCookie = flagCookie
		}
		if flagTimeout > 0 {
			cfg.Timeout = flagTimeout
		}
		if flagRetries > 0 {
			cfg.Retries = flagRetries
		}
	},
}

// newClient builds the API client for the resolved configuration.
func newClient() (*api.Client, error) {
	return api.New(cfg.APIConfig())
}

func Execute() {
	rootCmd.PersistentFlags().StringVar(&flagAPIBase, "api-base", "", "backend base URL (default from ECARBON_API_BASE)")
	rootCmd.PersistentFlags().StringVar(&flagCookie, "cookie", "", "session cookie, e.g. 'JSESSIONID=...'")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-request timeout")
	rootCmd.PersistentFlags().IntVar(&flagRetries, "retries", 0, "retry count for transient failures")
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
