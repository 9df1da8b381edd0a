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
	rankingWeek     string
	rankingCategory string
	rankingJSON     bool
)

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Show the weekly emission leaderboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		week := rankingWeek
		if week == "" {
			week = util.WeekMonday(time.Now())
		}
		v := views.LoadRanking(cmd.Context(), client, week, model.PlaceCategory(rankingCategory))
		if rankingJSON {
			jw := output.NewJSONLWriter(cmd.OutOrStdout())
			for _, p := range v.Places {
				if err := jw.Write(p); err != nil {
					return err
				}
			}
			return jw.Close()
		}
		output.Ranking(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	rankingCmd.Flags().StringVarP(&rankingWeek, "week", "w", "", "week start date (YYYY-MM-DD, a Monday); defaults to this week")
	rankingCmd.Flags().StringVarP(&rankingCategory, "category", "c", string(model.CategoryUniversity), "place category (UNIVERSITY or PUBLIC_INSTITUTION)")
	rankingCmd.Flags().BoolVar(&rankingJSON, "json", false, "print rows as JSON lines")
	rootCmd.AddCommand(rankingCmd)
}
