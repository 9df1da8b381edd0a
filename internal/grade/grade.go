// Package grade maps the backend's categorical grades and raw emission
// values to display colors. Grades are opaque values assigned server-side;
// every mapping here is total and falls back to a neutral color for
// anything unrecognized.
package grade

import "github.com/fatih/color"

// fallbackHex is used for any grade the palette does not know.
const fallbackHex = "#9ca3af"

var gradeHex = map[string]string{
	"A+": "#34d399",
	"A":  "#10b981",
	"B":  "#059669",
	"C":  "#047857",
	"D":  "#f59e0b",
	"E":  "#f97316",
	"F":  "#ef4444",
}

var gradeColor = map[string]*color.Color{
	"A+": color.New(color.FgHiGreen, color.Bold),
	"A":  color.New(color.FgGreen, color.Bold),
	"B":  color.New(color.FgGreen),
	"C":  color.New(color.FgYellow),
	"D":  color.New(color.FgHiYellow),
	"E":  color.New(color.FgHiRed),
	"F":  color.New(color.FgRed, color.Bold),
}

// Hex returns the badge color for a grade as a CSS hex value.
func Hex(g string) string {
	if hex, ok := gradeHex[g]; ok {
		return hex
	}
	return fallbackHex
}

// Sprint returns the grade wrapped in its terminal color.
func Sprint(g string) string {
	if c, ok := gradeColor[g]; ok {
		return c.Sprint(g)
	}
	if g == "" {
		return "-"
	}
	return g
}

// MarkerHex buckets a raw emission value (g CO2 per page) into the map
// marker palette. Thresholds at 1/2/3/4 g; anything above is flagged red.
func MarkerHex(carbonEmission float64) string {
	switch {
	case carbonEmission < 1:
		return "#34d399"
	case carbonEmission < 2:
		return "#10b981"
	case carbonEmission < 3:
		return "#059669"
	case carbonEmission < 4:
		return "#047857"
	default:
		return "#ef4444"
	}
}

// Medal returns the medal annotation for the top three ranks.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return ""
	}
}
