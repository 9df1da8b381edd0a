package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/greenee/ecarbon/internal/model"
	"github.com/greenee/ecarbon/internal/output"
	"github.com/greenee/ecarbon/internal/util"
	"github.com/greenee/ecarbon/internal/views"
)

var (
	statsWeek     string
	statsCategory string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show global emission statistics and savings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		week := statsWeek
		if week == "" {
			week = util.WeekMonday(time.Now())
		}
		v := views.LoadStats(cmd.Context(), client, week, model.PlaceCategory(statsCategory))
		output.Stats(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsWeek, "week", "w", "", "week start date (YYYY-MM-DD, a Monday); defaults to this week")
	statsCmd.Flags().StringVarP(&statsCategory, "category", "c", string(model.CategoryUniversity), "place category (UNIVERSITY or PUBLIC_INSTITUTION)")
	rootCmd.AddCommand(statsCmd)
}
