package views

import (
	"context"
	"errors"
	"sort"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/model"
)

// RankingView is the rendered state of the leaderboard page. Exactly one of
// Err / Empty / Places carries meaning after LoadRanking returns.
type RankingView struct {
	UpdatedAt string
	Places    []model.TopEmissionPlace
	Empty     bool
	Err       string
}

// LoadRanking fetches one leaderboard snapshot. A 204 becomes the empty
// state (no error banner); any other failure becomes a user-visible message
// with no automatic retry. The server-assigned rank order is preserved
// as-is.
func LoadRanking(ctx context.Context, c *api.Client, weekStartDate string, category model.PlaceCategory) RankingView {
	rk, err := c.Ranking(ctx, weekStartDate, category)
	switch {
	case errors.Is(err, api.ErrNoData):
		return RankingView{Empty: true}
	case err != nil:
		return RankingView{Err: err.Error()}
	case len(rk.TopEmissionPlaces) == 0:
		return RankingView{Empty: true, UpdatedAt: rk.UpdatedAt}
	default:
		return RankingView{UpdatedAt: rk.UpdatedAt, Places: rk.TopEmissionPlaces}
	}
}

// SortCountryAverages re-sorts the country average sub-table descending by
// average emission. This is the one list the client orders itself; the
// main leaderboard order is the server's. The sort is stable so equal
// averages keep their server order.
func SortCountryAverages(avgs []model.CountryCarbonAvg) {
	sort.SliceStable(avgs, func(i, j int) bool {
		return avgs[i].AverageCarbon > avgs[j].AverageCarbon
	})
}
