package views

import (
	"context"
	"errors"
	"sort"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/model"
	"github.com/greenee/ecarbon/internal/util"
)

// ReductionPoint is one charted point of the byte-reduction series with its
// gram equivalent derived client-side.
type ReductionPoint struct {
	Date           string
	ReductionBytes int64
	ReductionGrams float64
}

// UserPageView is the rendered state of the profile/history page. The
// backend supplies no rank for a user, so none is shown; a fabricated
// number would be worse than no number.
type UserPageView struct {
	AuthRequired bool
	Err          string

	BytesSeries []ReductionPoint
	CountSeries []model.DateReductionCount

	TotalBytes int64
	TotalGrams float64
	TotalCount int64
}

// LoadUserPage fetches the per-user reduction history. An unauthenticated
// redirect becomes AuthRequired (the caller routes to login); anything else
// non-2xx becomes a user-visible message. Both series are sorted
// date-ascending before charting.
func LoadUserPage(ctx context.Context, c *api.Client) UserPageView {
	page, err := c.UserPage(ctx)
	switch {
	case errors.Is(err, api.ErrAuthRequired):
		return UserPageView{AuthRequired: true}
	case err != nil:
		return UserPageView{Err: err.Error()}
	}

	view := UserPageView{
		TotalBytes: page.TotalReductionBytes,
		TotalGrams: model.GramsFromBytes(page.TotalReductionBytes),
		TotalCount: page.TotalReductionCount,
	}

	view.BytesSeries = make([]ReductionPoint, 0, len(page.ReductionBytesGraph))
	for _, p := range page.ReductionBytesGraph {
		view.BytesSeries = append(view.BytesSeries, ReductionPoint{
			Date:           p.Date,
			ReductionBytes: p.ReductionByte,
			ReductionGrams: model.GramsFromBytes(p.ReductionByte),
		})
	}
	sort.SliceStable(view.BytesSeries, func(i, j int) bool {
		return util.ParseISODate(view.BytesSeries[i].Date).
			Before(util.ParseISODate(view.BytesSeries[j].Date))
	})

	view.CountSeries = append(view.CountSeries, page.ReductionCountGraph...)
	sort.SliceStable(view.CountSeries, func(i, j int) bool {
		return util.ParseISODate(view.CountSeries[i].Date).
			Before(util.ParseISODate(view.CountSeries[j].Date))
	})

	return view
}
