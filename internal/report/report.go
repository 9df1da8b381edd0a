// Package report renders a self-contained HTML report for a measurement.
// Charts are rasterized to PNG and embedded as data URIs so the file has no
// external references and can be mailed or archived as-is.
package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/greenee/ecarbon/internal/grade"
	"github.com/greenee/ecarbon/internal/model"
	"github.com/greenee/ecarbon/internal/util"
	"github.com/greenee/ecarbon/internal/views"
)

// Page is the full context for one report.
type Page struct {
	Title       string
	GeneratedAt time.Time

	Result  *model.MeasurementResult
	Savings *model.CarbonSavings
	History *views.UserPageView
}

// view is the template-facing projection of Page with colors and charts
// pre-computed.
type view struct {
	Title       string
	GeneratedAt time.Time

	Result   *model.MeasurementResult
	GradeHex template.CSS
	MB       string

	BreakdownChart template.URL
	SavingsChart   template.URL
	Savings        *model.CarbonSavings
	HistoryChart   template.URL
	History        *views.UserPageView
}

// Write renders p as HTML into w. A chart that cannot be drawn (for
// example a single-point series) is skipped, never fatal: the textual
// report is the contract, the pictures are decoration.
func Write(w io.Writer, p Page) error {
	v := view{
		Title:       p.Title,
		GeneratedAt: p.GeneratedAt,
		Result:      p.Result,
		Savings:     p.Savings,
		History:     p.History,
	}
	if v.Title == "" {
		v.Title = "eCarbon Report"
	}
	if v.GeneratedAt.IsZero() {
		v.GeneratedAt = time.Now()
	}
	if p.Result != nil {
		v.GradeHex = template.CSS(grade.Hex(p.Result.Grade))
		v.MB = fmt.Sprintf("%.2f", p.Result.MBWeight())
		v.BreakdownChart = breakdownChart(p.Result.ResourceBreakdown)
	}
	if p.Savings != nil {
		v.SavingsChart = savingsChart(p.Savings.WeeklySavingsGraph)
	}
	if p.History != nil {
		v.HistoryChart = historyChart(p.History.BytesSeries)
	}
	return pageTpl.Execute(w, v)
}

func chartURI(render func(io.Writer) error) template.URL {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
}

func breakdownChart(breakdown []model.ResourcePercentage) template.URL {
	if len(breakdown) == 0 {
		return ""
	}
	bars := make([]chart.Value, 0, len(breakdown))
	for _, rp := range breakdown {
		bars = append(bars, chart.Value{
			Label: rp.ResourceType,
			Value: rp.Percentage,
		})
	}
	bc := chart.BarChart{
		Title:    "Transfer share by resource type (%)",
		Width:    640,
		Height:   320,
		BarWidth: 48,
		Bars:     bars,
		Background: chart.Style{
			Padding: chart.Box{Top: 32, Left: 16, Right: 16, Bottom: 16},
		},
	}
	return chartURI(func(w io.Writer) error { return bc.Render(chart.PNG, w) })
}

func savingsChart(series []model.WeeklySavings) template.URL {
	// The renderer rejects a single point.
	if len(series) < 2 {
		return ""
	}
	xs := make([]time.Time, 0, len(series))
	ys := make([]float64, 0, len(series))
	for _, p := range series {
		xs = append(xs, util.ParseISODate(p.WeekStartDate))
		ys = append(ys, p.SavingsInGrams)
	}
	return lineChart("Weekly savings (g CO₂)", xs, ys, drawing.ColorFromHex("10b981"))
}

func historyChart(series []views.ReductionPoint) template.URL {
	if len(series) < 2 {
		return ""
	}
	xs := make([]time.Time, 0, len(series))
	ys := make([]float64, 0, len(series))
	for _, p := range series {
		xs = append(xs, util.ParseISODate(p.Date))
		ys = append(ys, p.ReductionGrams)
	}
	return lineChart("Daily reduction (g CO₂)", xs, ys, drawing.ColorFromHex("059669"))
}

func lineChart(title string, xs []time.Time, ys []float64, col drawing.Color) template.URL {
	lc := chart.Chart{
		Title:  title,
		Width:  640,
		Height: 320,
		Background: chart.Style{
			Padding: chart.Box{Top: 32, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{
			chart.TimeSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: col,
					StrokeWidth: 2,
					DotColor:    col,
					DotWidth:    3,
				},
			},
		},
	}
	return chartURI(func(w io.Writer) error { return lc.Render(chart.PNG, w) })
}

var pageTpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 48rem; color: #1f2937; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
.badge { display: inline-block; padding: .3rem .9rem; border-radius: .5rem; color: #fff; font-weight: 700; background: {{.GradeHex}}; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: .35rem .6rem; border-bottom: 1px solid #e5e7eb; }
.meta { color: #6b7280; font-size: .85rem; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>

{{with .Result}}
<h2>{{.URL}}</h2>
<p><span class="badge">{{.Grade}}</span></p>
<table>
<tr><th>Carbon per visit</th><td>{{printf "%.2f" .CarbonEmission}} g CO₂</td></tr>
<tr><th>Page weight</th><td>{{$.MB}} MB</td></tr>
{{if gt .CleanerThan 0}}<tr><th>Cleaner than</th><td>top {{.CleanerThan}}% of measured pages</td></tr>{{end}}
{{if gt .GlobalAvgCarbon 0.0}}<tr><th>Global average</th><td>{{printf "%.2f" .GlobalAvgCarbon}} g CO₂</td></tr>{{end}}
</table>
{{with .Equivalents}}
<h2>A year of monthly visits equals</h2>
<table>
<tr><th>☕ Coffee</th><td>{{.CoffeeCups}} cups</td></tr>
<tr><th>🚗 Electric car</th><td>{{.EvKm}} km</td></tr>
<tr><th>🔋 Phone charges</th><td>{{.PhoneCharges}}</td></tr>
<tr><th>🌳 Trees</th><td>{{.Trees}}</td></tr>
</table>
{{end}}
{{end}}

{{if .BreakdownChart}}<p><img src="{{.BreakdownChart}}" alt="resource breakdown"></p>{{end}}

{{with .Savings}}
<h2>Savings for {{.URL}}</h2>
<p>Total saved: {{printf "%.2f" .TotalSavingsInGrams}} g CO₂</p>
{{end}}
{{if .SavingsChart}}<p><img src="{{.SavingsChart}}" alt="weekly savings"></p>{{end}}

{{with .History}}
<h2>Your impact</h2>
<table>
<tr><th>Data reduced</th><td>{{printf "%.2f" .TotalGrams}} g CO₂</td></tr>
<tr><th>Measurements</th><td>{{.TotalCount}}</td></tr>
</table>
{{end}}
{{if .HistoryChart}}<p><img src="{{.HistoryChart}}" alt="reduction history"></p>{{end}}

</body>
</html>
`))
