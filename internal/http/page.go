package httpapi

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fairyhunter13/slope-calculator/internal/model"
	"github.com/fairyhunter13/slope-calculator/internal/obs"
)

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"num": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
}).Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Slope Between Two Points</title>
    <style>
      body { font-family: sans-serif; max-width: 1040px; margin: 2em auto; }
      .cols { display: flex; gap: 3em; }
      .banner { padding: .6em 1em; border-radius: 4px; margin: .5em 0; }
      .success { background: #e6f4ea; color: #137333; }
      .error { background: #fce8e6; color: #a50e0e; }
      .info { background: #e8f0fe; color: #174ea6; }
      img { max-width: 100%; }
    </style>
  </head>
  <body>
    <h1>Slope Between Two Points</h1>
    <p>Enter the coordinates of two points to compute the slope of the line through them.</p>
    <form method="get" action="/" onchange="this.submit()">
      <div class="cols">
        <fieldset>
          <legend>Point 1</legend>
          <label>x1 <input type="number" name="x1" step="{{num .Step}}" value="{{num .Inputs.X1}}"></label>
          <label>y1 <input type="number" name="y1" step="{{num .Step}}" value="{{num .Inputs.Y1}}"></label>
        </fieldset>
        <fieldset>
          <legend>Point 2</legend>
          <label>x2 <input type="number" name="x2" step="{{num .Step}}" value="{{num .Inputs.X2}}"></label>
          <label>y2 <input type="number" name="y2" step="{{num .Step}}" value="{{num .Inputs.Y2}}"></label>
        </fieldset>
      </div>
      <input type="hidden" name="show_plot" value="false">
      <label><input type="checkbox" name="show_plot" value="true" {{if .Inputs.ShowPlot}}checked{{end}}> Show plot</label>
      <noscript><button type="submit">Compute</button></noscript>
    </form>

    <h2>Results</h2>
    {{with .Result}}
    {{if eq .Status "error"}}
    <div class="banner error">{{.Message}}</div>
    <p><strong>Line equation:</strong> {{.Equation.String}}</p>
    {{else}}
    <div class="banner success"><strong>Slope (m):</strong> {{.SlopeText}}</div>
    <p><strong>Line equation:</strong> {{.Equation.String}}</p>
    <div class="banner info">{{.InterpretationText}}</div>
    {{end}}
    {{end}}

    {{if .PlotURL}}
    <h2>Plot</h2>
    <img src="{{.PlotURL}}" alt="{{.LineLabel}}">
    {{end}}

    <details>
      <summary>More information</summary>
      <p><strong>Slope formula:</strong> {{.Info.Formula}}</p>
      <p><strong>Interpretation:</strong></p>
      <ul>
        {{range .Info.Rules}}<li>If {{.Condition}}: {{.Meaning}}</li>
        {{end}}
      </ul>
    </details>
  </body>
</html>
`))

type pageData struct {
	model.View
	PlotURL   string
	LineLabel string
}

// plotURL builds the image link for the given inputs.
func plotURL(in model.Inputs) string {
	q := url.Values{}
	q.Set("x1", strconv.FormatFloat(in.X1, 'f', -1, 64))
	q.Set("y1", strconv.FormatFloat(in.Y1, 'f', -1, 64))
	q.Set("x2", strconv.FormatFloat(in.X2, 'f', -1, 64))
	q.Set("y2", strconv.FormatFloat(in.Y2, 'f', -1, 64))
	return "/api/v1/plot.png?" + q.Encode()
}

// pageHandler renders the interactive form. Every change of an input
// resubmits the form and the whole page is recomputed.
func (a *App) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	q := r.URL.Query()
	// The hidden show_plot=false precedes the checkbox, so the last value wins.
	if vs := q["show_plot"]; len(vs) > 1 {
		q.Set("show_plot", vs[len(vs)-1])
	}
	in, err := inputsFromQuery(q, a.Defaults())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	data := pageData{View: a.compute(in)}
	if data.Plot != nil {
		data.PlotURL = plotURL(in)
		data.LineLabel = data.Plot.LineLabel
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		obs.Logger.Error("page_render_error", "request_id", RequestIDFromContext(r.Context()), "error", err)
	}
}
