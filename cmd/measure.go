package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/banner"
	"github.com/greenee/ecarbon/internal/output"
	"github.com/greenee/ecarbon/internal/report"
	"github.com/greenee/ecarbon/internal/views"
)

var (
	measureYes    bool
	measureSave   bool
	measureJSON   bool
	measureReport string
)

var measureCmd = &cobra.Command{
	Use:   "measure <url>",
	Short: "Measure the carbon footprint of a web page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !measureJSON {
			banner.PrintBanner()
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		flow := views.NewMeasureFlow(client)
		if err := flow.Submit(args[0]); err != nil {
			return err
		}

		if !measureYes && !measureJSON && !confirm(cmd, flow.URL()) {
			flow.Cancel()
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if !measureJSON {
			fmt.Fprintf(cmd.OutOrStdout(), "Measuring %s ...\n", flow.URL())
		}
		res, err := flow.Confirm(cmd.Context())
		if errors.Is(err, api.ErrNotReady) {
			return fmt.Errorf("the measurement is still running, try again in a moment")
		}
		if err != nil {
			return err
		}
		if measureJSON {
			jw := output.NewJSONLWriter(cmd.OutOrStdout())
			if err := jw.Write(res); err != nil {
				return err
			}
			if err := jw.Close(); err != nil {
				return err
			}
		} else {
			output.Measurement(cmd.OutOrStdout(), res)
		}

		if measureSave {
			switch err := client.SaveMeasurementToUser(cmd.Context()); {
			case errors.Is(err, api.ErrAuthRequired):
				fmt.Fprintf(cmd.OutOrStdout(), "Log in to save this measurement to your history:\n  %s\n", client.LoginURL())
			case err != nil:
				return err
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "Saved to your history.")
			}
		}

		if measureReport != "" {
			f, err := os.Create(measureReport)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if err := report.Write(f, report.Page{Result: res, GeneratedAt: time.Now()}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", measureReport)
		}
		return nil
	},
}

// confirm asks on the terminal before the measurement starts; anything but
// y/yes cancels.
func confirm(cmd *cobra.Command, url string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "Measure %s? [y/N] ", url)
	sc := bufio.NewScanner(cmd.InOrStdin())
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}

func init() {
	measureCmd.Flags().BoolVarP(&measureYes, "yes", "y", false, "skip the confirmation prompt")
	measureCmd.Flags().BoolVar(&measureJSON, "json", false, "print the raw result as a JSON line")
	measureCmd.Flags().BoolVar(&measureSave, "save", false, "save the measurement to your history (requires login)")
	measureCmd.Flags().StringVarP(&measureReport, "report", "r", "", "write an HTML report to this file")
	rootCmd.AddCommand(measureCmd)
}
