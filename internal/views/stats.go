package views

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/model"
	"github.com/greenee/ecarbon/internal/util"
)

// StatsView is the rendered state of the aggregate statistics page.
// Stats and Savings are independent fetches; either may be nil (empty
// snapshot or failed fetch) without taking the other down.
type StatsView struct {
	Stats      *model.GlobalStats
	Savings    *model.CarbonSavings
	StatsErr   string
	SavingsErr string
}

// LoadStats fetches the aggregate breakdown and the savings series
// concurrently; neither fetch blocks the other. Empty snapshots (204) are
// normal: the page renders empty charts, not an error. The weekly series
// is sorted date-ascending before charting because the backend does not
// guarantee order, and the country-average sub-table is re-sorted
// descending client-side.
func LoadStats(ctx context.Context, c *api.Client, weekStartDate string, category model.PlaceCategory) StatsView {
	var (
		view StatsView
		wg   sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stats, err := c.GlobalStats(ctx, weekStartDate, category)
		switch {
		case errors.Is(err, api.ErrNoData):
		case err != nil:
			view.StatsErr = err.Error()
		default:
			SortCountryAverages(stats.CountryCarbonAvgs)
			view.Stats = stats
		}
	}()
	go func() {
		defer wg.Done()
		savings, err := c.CarbonSavings(ctx)
		switch {
		case errors.Is(err, api.ErrNoData):
		case err != nil:
			view.SavingsErr = err.Error()
		default:
			SortWeeklySavings(savings.WeeklySavingsGraph)
			view.Savings = savings
		}
	}()
	wg.Wait()

	return view
}

// SortWeeklySavings orders the weekly series by ascending week start date.
func SortWeeklySavings(series []model.WeeklySavings) {
	sort.SliceStable(series, func(i, j int) bool {
		return util.ParseISODate(series[i].WeekStartDate).
			Before(util.ParseISODate(series[j].WeekStartDate))
	})
}

// Markers filters the stats markers down to those with plausible
// coordinates so a bad row cannot break map rendering.
func (v StatsView) Markers() []model.EmissionMapMarker {
	if v.Stats == nil {
		return nil
	}
	out := make([]model.EmissionMapMarker, 0, len(v.Stats.EmissionMapMarkers))
	for _, m := range v.Stats.EmissionMapMarkers {
		if m.InBounds() {
			out = append(out, m)
		}
	}
	return out
}
