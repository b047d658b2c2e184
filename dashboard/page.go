package dashboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/spektr-org/irisdash/engine"
	"github.com/spektr-org/irisdash/render"
)

// ============================================================================
// PAGE — HTML view model and template
// ============================================================================

const noDataNote = "Not enough data to draw this chart."

// chartView is one rendered chart on the page.
type chartView struct {
	Title   string
	Img     template.URL // PNG data URI; empty when Note is set
	Note    string
	Caption string
}

type pageData struct {
	Title    string
	Subtitle string
	Nav      string
	RunID    string

	Sidebar   *sidebar
	ExportURL string

	Summary     string
	Text        *engine.TextData
	Preview     *engine.TableData
	Stats       *engine.TableData
	Correlation *engine.TableData

	Distributions []chartView
	Pair          *chartView
	Boxes         []chartView
	Heatmap       *chartView
}

// renderChart draws cfg and wraps it for the page. Failures of one chart
// become a note instead of failing the request.
func renderChart(cfg *engine.ChartConfig, width, height int, runID string) chartView {
	cv := chartView{Title: cfg.Title}
	img, err := render.PNG(cfg, width, height)
	switch {
	case errors.Is(err, render.ErrNoData):
		cv.Note = noDataNote
	case err != nil:
		log.Printf("⚠️  [%s] %s chart %q: %v", runID, cfg.ChartType, cfg.Title, err)
		cv.Note = "This chart could not be drawn."
	default:
		cv.Img = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(img))
	}
	return cv
}

// boxCaption lists the median of every box.
func boxCaption(cfg *engine.ChartConfig) string {
	parts := make([]string, 0, len(cfg.Series))
	for _, s := range cfg.Series {
		if len(s.Values) == 0 {
			continue
		}
		bs := engine.ComputeBoxStats(s.Values)
		part := fmt.Sprintf("%s %.2f", s.Name, bs.Median)
		if n := len(bs.Outliers); n > 0 {
			part += fmt.Sprintf(" (%d outliers)", n)
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return ""
	}
	return "Median: " + strings.Join(parts, ", ")
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"num": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { --bg: #fff; --fg: #262730; --side: #f0f2f6; --border: #dee2e6; --muted: #6c757d; --accent: #ff4b4b; }
* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; color: var(--fg); background: var(--bg); line-height: 1.5; display: flex; }
aside { width: 300px; min-height: 100vh; background: var(--side); padding: 1rem; font-size: .875rem; flex-shrink: 0; }
aside h2 { font-size: 1rem; margin: 1rem 0 .5rem; }
aside fieldset { border: 1px solid var(--border); border-radius: 6px; margin: 0 0 .75rem; padding: .5rem; }
aside input[type=number] { width: 5.5rem; }
aside button { background: var(--accent); color: #fff; border: 0; border-radius: 4px; padding: .4rem 1rem; cursor: pointer; }
main { flex: 1; padding: 1.5rem 2rem; max-width: 1100px; }
nav a { margin-right: 1rem; color: var(--muted); }
nav a.active { color: var(--fg); font-weight: 600; }
h1 { font-size: 1.75rem; margin: .5rem 0; }
h2 { font-size: 1.25rem; margin-top: 2rem; border-bottom: 1px solid var(--border); }
table { border-collapse: collapse; font-size: .8125rem; margin: .5rem 0; }
th, td { padding: .25rem .6rem; border-bottom: 1px solid var(--border); }
td.right, th.right { text-align: right; font-variant-numeric: tabular-nums; }
.muted { color: var(--muted); font-size: .8125rem; }
.highlights { background: var(--side); border-left: 4px solid var(--accent); padding: .5rem 1rem; margin: 1rem 0; }
.note { padding: 1rem; background: var(--side); border-radius: 6px; color: var(--muted); }
figure { margin: 1rem 0; }
figure img { max-width: 100%; }
</style>
</head>
<body>
{{with .Sidebar}}
<aside>
<form method="get" action="/">
  <h2>Choose features</h2>
  {{range .Ranges}}
  <fieldset>
    <label><input type="checkbox" name="feature" value="{{.Key}}"{{if .Selected}} checked{{end}}> {{.Label}}</label><br>
    <label>Min <input type="number" step="0.1" name="min_{{.Key}}" min="{{num .Min}}" max="{{num .Max}}" value="{{num .Lo}}"></label>
    <label>Max <input type="number" step="0.1" name="max_{{.Key}}" min="{{num .Min}}" max="{{num .Max}}" value="{{num .Hi}}"></label>
  </fieldset>
  {{end}}
  <h2>Choose species</h2>
  {{range .Species}}<label><input type="checkbox" name="species" value="{{.Value}}"{{if .Selected}} checked{{end}}> {{.Label}}</label><br>{{end}}

  <h2>Distributions</h2>
  {{range .DistFeatures}}<label><input type="checkbox" name="dist_feature" value="{{.Value}}"{{if .Selected}} checked{{end}}> {{.Label}}</label><br>{{end}}
  <label><input type="radio" name="dist_mode" value="grouped"{{if eq .DistMode "grouped"}} checked{{end}}> Per species</label>
  <label><input type="radio" name="dist_mode" value="combined"{{if eq .DistMode "combined"}} checked{{end}}> All together</label>

  <h2>Feature relationship</h2>
  <label>X axis <select name="pair_x">{{range .PairX}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select></label><br>
  <label>Y axis <select name="pair_y">{{range .PairY}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select></label><br>
  <label><input type="radio" name="pair_mode" value="grouped"{{if eq .PairMode "grouped"}} checked{{end}}> Per species</label>
  <label><input type="radio" name="pair_mode" value="combined"{{if eq .PairMode "combined"}} checked{{end}}> All together</label><br>
  <label>Chart <select name="pair_kind">
    <option value="scatter"{{if eq .PairKind "scatter"}} selected{{end}}>Scatter</option>
    <option value="line"{{if eq .PairKind "line"}} selected{{end}}>Line</option>
  </select></label>

  <h2>Box plots</h2>
  {{range .BoxFeatures}}<label><input type="checkbox" name="box_feature" value="{{.Value}}"{{if .Selected}} checked{{end}}> {{.Label}}</label><br>{{end}}
  <label><input type="radio" name="box_mode" value="grouped"{{if eq .BoxMode "grouped"}} checked{{end}}> Per species</label>
  <label><input type="radio" name="box_mode" value="combined"{{if eq .BoxMode "combined"}} checked{{end}}> All together</label>

  <p><button type="submit">Apply</button></p>
</form>
</aside>
{{end}}
<main>
<nav>
  <a href="/"{{if eq .Nav "explore"}} class="active"{{end}}>Explorer</a>
  <a href="/overview"{{if eq .Nav "overview"}} class="active"{{end}}>Overview</a>
</nav>
<h1>{{.Title}}</h1>
<p class="muted">{{.Subtitle}}</p>
{{with .Text}}
<div class="highlights">
<strong>{{.Value}}</strong>
{{if .Details}}<ul>{{range .Details}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}

{{with .Preview}}
<h2>{{.Title}}</h2>
{{template "table" .}}
{{end}}
{{if .ExportURL}}<p><a href="{{.ExportURL}}">Download filtered rows (CSV)</a></p>{{end}}

{{with .Stats}}
<h2>{{.Title}}</h2>
{{template "table" .}}
{{end}}

{{if .Distributions}}<h2>Distributions</h2>{{end}}
{{range .Distributions}}{{template "chart" .}}{{end}}

{{with .Pair}}<h2>Relationship between two features</h2>{{template "chart" .}}{{end}}

{{if .Boxes}}<h2>Box plots per species</h2>{{end}}
{{range .Boxes}}{{template "chart" .}}{{end}}

{{with .Correlation}}
<h2>{{.Title}}</h2>
{{template "table" .}}
{{end}}
{{with .Heatmap}}{{template "chart" .}}{{end}}

<p class="muted">{{.Summary}} · run {{.RunID}}</p>
</main>
</body>
</html>

{{define "table"}}
<table>
<thead><tr>{{range .Columns}}<th class="{{.Align}}">{{.Label}}</th>{{end}}</tr></thead>
<tbody>
{{$cols := .Columns}}
{{range .Rows}}<tr>{{range $i, $cell := .}}<td class="{{(index $cols $i).Align}}">{{$cell}}</td>{{end}}</tr>
{{end}}
</tbody>
</table>
{{with .Summary}}<p class="muted">{{.Label}}</p>{{end}}
{{end}}

{{define "chart"}}
<figure>
{{if .Note}}<h3>{{.Title}}</h3><div class="note">{{.Note}}</div>
{{else}}<img src="{{.Img}}" alt="{{.Title}}">{{end}}
{{with .Caption}}<figcaption class="muted">{{.}}</figcaption>{{end}}
</figure>
{{end}}
`
