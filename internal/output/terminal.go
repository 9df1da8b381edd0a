// Package output renders resolved view states for the terminal. Every
// renderer takes an explicit io.Writer so commands and tests decide where
// the text goes.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/greenee/ecarbon/internal/grade"
	"github.com/greenee/ecarbon/internal/model"
	"github.com/greenee/ecarbon/internal/views"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	faint   = color.New(color.Faint)
	warn    = color.New(color.FgYellow)
	fail    = color.New(color.FgRed)
	good    = color.New(color.FgGreen)
)

// Measurement prints one measurement result: grade badge, weight,
// percentile and the everyday equivalents. Missing equivalents render as
// dashes, never as zeros.
func Measurement(w io.Writer, res *model.MeasurementResult) {
	heading.Fprintf(w, "\n  %s\n", res.URL)
	fmt.Fprintf(w, "  Grade:        %s\n", grade.Sprint(res.Grade))
	fmt.Fprintf(w, "  Emission:     %.2f g CO₂ per visit\n", res.CarbonEmission)
	fmt.Fprintf(w, "  Page weight:  %.2f MB\n", res.MBWeight())
	if res.CleanerThan > 0 {
		good.Fprintf(w, "  Cleaner than: top %d%% of measured pages\n", res.CleanerThan)
	}
	if res.GlobalAvgCarbon > 0 {
		faint.Fprintf(w, "  Global avg:   %.2f g CO₂\n", res.GlobalAvgCarbon)
	}

	fmt.Fprintf(w, "\n  A year of monthly visits equals:\n")
	if eq := res.Equivalents; eq != nil {
		fmt.Fprintf(w, "    ☕ %d cups of coffee\n", eq.CoffeeCups)
		fmt.Fprintf(w, "    🚗 %d km by electric car\n", eq.EvKm)
		fmt.Fprintf(w, "    🔋 %d phone charges\n", eq.PhoneCharges)
		fmt.Fprintf(w, "    🌳 %d trees to absorb it\n", eq.Trees)
	} else {
		faint.Fprintf(w, "    ☕ -   🚗 -   🔋 -   🌳 -\n")
	}

	if len(res.ResourceBreakdown) > 0 {
		fmt.Fprintf(w, "\n  Transfer by resource type:\n")
		for _, rp := range res.ResourceBreakdown {
			fmt.Fprintf(w, "    %-12s %8s  %5.1f%%\n", rp.ResourceType, formatBytes(rp.Size), rp.Percentage)
		}
	}
	fmt.Fprintln(w)
}

// Ranking prints the leaderboard table in the server's rank order.
func Ranking(w io.Writer, v views.RankingView) {
	switch {
	case v.Err != "":
		fail.Fprintf(w, "  [!] Could not load the ranking: %s\n", v.Err)
		return
	case v.Empty:
		warn.Fprintf(w, "  No ranking yet for this week. Measurements published so far will appear after the weekly rollup.\n")
		return
	}

	if v.UpdatedAt != "" {
		faint.Fprintf(w, "  Updated %s\n", v.UpdatedAt)
	}
	fmt.Fprintf(w, "  %4s  %-32s %-16s %10s  %s\n", "Rank", "Place", "Country", "g CO₂", "Grade")
	for _, p := range v.Places {
		rank := fmt.Sprintf("%d", p.Rank)
		if medal := grade.Medal(p.Rank); medal != "" {
			rank = medal
		}
		fmt.Fprintf(w, "  %4s  %-32s %-16s %10.2f  %s\n",
			rank, clip(p.PlaceName, 32), p.Country, p.CarbonEmission, grade.Sprint(p.Grade))
	}
}

// Stats prints the aggregate page: top places, country averages and the
// savings series. Each half renders independently.
func Stats(w io.Writer, v views.StatsView) {
	if v.StatsErr != "" {
		fail.Fprintf(w, "  [!] Could not load global statistics: %s\n", v.StatsErr)
	} else if v.Stats != nil {
		heading.Fprintf(w, "\n  Week of %s\n", v.Stats.WeekStartDate)
		if v.Stats.AverageEmissionOfTopPlaces > 0 {
			fmt.Fprintf(w, "  Average emission of top places: %.2f g CO₂\n", v.Stats.AverageEmissionOfTopPlaces)
		}
		if len(v.Stats.CountryCarbonAvgs) > 0 {
			fmt.Fprintf(w, "\n  Country averages:\n")
			for _, c := range v.Stats.CountryCarbonAvgs {
				fmt.Fprintf(w, "    %-16s %8.2f g CO₂\n", c.Country, c.AverageCarbon)
			}
		}
		if markers := v.Markers(); len(markers) > 0 {
			faint.Fprintf(w, "\n  %d places on the emission map\n", len(markers))
		}
	} else {
		warn.Fprintf(w, "  No statistics yet for this week.\n")
	}

	if v.SavingsErr != "" {
		fail.Fprintf(w, "  [!] Could not load the savings series: %s\n", v.SavingsErr)
	} else if v.Savings != nil {
		heading.Fprintf(w, "\n  Savings for %s\n", v.Savings.URL)
		fmt.Fprintf(w, "  Total saved: %.2f g CO₂\n", v.Savings.TotalSavingsInGrams)
		for _, p := range v.Savings.WeeklySavingsGraph {
			fmt.Fprintf(w, "    %s  %8.2f g\n", p.WeekStartDate, p.SavingsInGrams)
		}
	}
	fmt.Fprintln(w)
}

// UserPage prints the personal reduction history.
func UserPage(w io.Writer, v views.UserPageView, loginURL string) {
	switch {
	case v.AuthRequired:
		warn.Fprintf(w, "  Log in to see your measurement history:\n")
		fmt.Fprintf(w, "    %s\n", loginURL)
		return
	case v.Err != "":
		fail.Fprintf(w, "  [!] Could not load your page: %s\n", v.Err)
		return
	}

	heading.Fprintf(w, "\n  Your impact\n")
	fmt.Fprintf(w, "  Data reduced:  %s (≈ %.2f g CO₂)\n", formatBytes(v.TotalBytes), v.TotalGrams)
	fmt.Fprintf(w, "  Measurements:  %d\n", v.TotalCount)
	if len(v.BytesSeries) > 0 {
		fmt.Fprintf(w, "\n  Reduction by day:\n")
		for _, p := range v.BytesSeries {
			fmt.Fprintf(w, "    %s  %10s  %6.2f g\n", p.Date, formatBytes(p.ReductionBytes), p.ReductionGrams)
		}
	}
	fmt.Fprintln(w)
}

// Session prints who the backend thinks we are.
func Session(w io.Writer, s views.Session, loginURL string) {
	if s.State == views.SessionLoggedIn && s.User != nil {
		good.Fprintf(w, "  Logged in as %s <%s>\n", s.User.Username, s.User.Email)
		return
	}
	fmt.Fprintf(w, "  Not logged in. Open this URL in a browser to sign in with Google:\n")
	fmt.Fprintf(w, "    %s\n", loginURL)
}

// Guidelines prints the sustainable-web guideline catalogue grouped by
// category.
func Guidelines(w io.Writer, items []model.GuidelineItem) {
	var last string
	for _, it := range items {
		if it.CategoryName != last {
			heading.Fprintf(w, "\n  %s\n", it.CategoryName)
			last = it.CategoryName
		}
		fmt.Fprintf(w, "   - %s\n", it.Guideline)
	}
	fmt.Fprintln(w)
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// formatBytes renders a byte count with a binary unit, matching the
// gram conversion which is also base-1024.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	// EB is enough for any int64 count.
	units := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(b)/float64(div)), ".0") + " " + units[exp]
}
