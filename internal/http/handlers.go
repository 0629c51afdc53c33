package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cast"

	"github.com/fairyhunter13/slope-calculator/internal/config"
	httpopenapi "github.com/fairyhunter13/slope-calculator/internal/http/openapi"
	"github.com/fairyhunter13/slope-calculator/internal/model"
	"github.com/fairyhunter13/slope-calculator/internal/obs"
	"github.com/fairyhunter13/slope-calculator/internal/plot"
	"github.com/fairyhunter13/slope-calculator/internal/session"
	"github.com/fairyhunter13/slope-calculator/internal/view"
)

var (
	computations   = expvar.NewInt("slope_computations")
	verticalLines  = expvar.NewInt("slope_vertical_lines")
	plotsServed    = expvar.NewInt("plots_served")
	sessionEvents  = expvar.NewInt("session_events")
	staleEvents    = expvar.NewInt("session_events_stale")
	errInvalidJSON = errors.New("invalid json")
)

type App struct {
	Cfg      config.Config
	Sessions *session.Store
	Plots    *plot.Cache
	closing  atomic.Bool
	started  time.Time
}

func NewApp(cfg config.Config, sessions *session.Store, plots *plot.Cache) *App {
	return &App{Cfg: cfg, Sessions: sessions, Plots: plots, started: time.Now()}
}

func (a *App) StartShutdown() {
	a.closing.Store(true)
}

// Defaults are the form inputs used for any value a client leaves out.
func (a *App) Defaults() model.Inputs {
	return model.Inputs{
		X1:       a.Cfg.DefaultX1,
		Y1:       a.Cfg.DefaultY1,
		X2:       a.Cfg.DefaultX2,
		Y2:       a.Cfg.DefaultY2,
		ShowPlot: a.Cfg.DefaultShowPlot,
	}
}

func (a *App) compute(in model.Inputs) model.View {
	v := view.Compute(in, a.Cfg.InputStep)
	computations.Add(1)
	if !v.Result.Slope.IsDefined() {
		verticalLines.Add(1)
	}
	return v
}

// inputsFromQuery overlays query parameters onto the defaults. An empty
// parameter keeps the default; anything else must be numeric.
func inputsFromQuery(q url.Values, def model.Inputs) (model.Inputs, error) {
	in := def
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"x1", &in.X1}, {"y1", &in.Y1}, {"x2", &in.X2}, {"y2", &in.Y2}} {
		raw := strings.TrimSpace(q.Get(f.name))
		if raw == "" {
			continue
		}
		v, err := session.ParseFloat(raw)
		if err != nil {
			return def, errors.Join(session.ErrInvalidValue, errors.New(f.name+" must be a number"))
		}
		*f.dst = v
	}
	if q.Has("show_plot") {
		b, err := cast.ToBoolE(q.Get("show_plot"))
		if err != nil {
			return def, errors.Join(session.ErrInvalidValue, errors.New("show_plot must be a boolean"))
		}
		in.ShowPlot = b
	}
	return in, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Join(errInvalidJSON, err)
	}
	return nil
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(strings.ToLower(ct), "application/json")
}

// writeJSON encodes v before committing the status so that an encoding
// failure still reaches the client as a JSON error.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		obs.Logger.Error("json_encode_error", "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "encode_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (a *App) slopeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if !isJSON(r) {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var patch model.InputsPatch
	if err := decodeJSON(r, &patch); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	v := a.compute(patch.Apply(a.Defaults()))
	writeJSON(w, http.StatusOK, v)
	obs.Logger.Info("slope_computed",
		"request_id", RequestIDFromContext(r.Context()),
		"status", v.Result.Status,
		"slope", v.Result.SlopeText,
		"equation", v.Result.Equation.String(),
	)
}

func (a *App) plotHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	ext := strings.TrimPrefix(r.URL.Path, "/api/v1/plot.")
	f, err := plot.ParseFormat(ext)
	if err != nil {
		WriteJSONError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	in, err := inputsFromQuery(r.URL.Query(), a.Defaults())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	p1, p2 := in.Points()
	img, err := a.Plots.GetOrRender(p1, p2, f)
	if errors.Is(err, plot.ErrUnrenderable) {
		obs.Logger.Warn("plot_unrenderable", "request_id", RequestIDFromContext(r.Context()), "error", err)
		WriteJSONError(w, http.StatusUnprocessableEntity, "unrenderable_plot", err.Error())
		return
	}
	if err != nil {
		obs.Logger.Error("plot_render_error", "request_id", RequestIDFromContext(r.Context()), "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "render_error", err.Error())
		return
	}
	etag := `"` + img.Key.String() + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, max-age=60")
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	plotsServed.Add(1)
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(img.Data)
}

func (a *App) infoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, view.Info())
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if a.closing.Load() {
		status = "shutting_down"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	hits, misses, entries := a.Plots.Stats()
	m := map[string]any{
		"computations":       computations.Value(),
		"vertical_lines":     verticalLines.Value(),
		"plots_served":       plotsServed.Value(),
		"plot_cache_hits":    hits,
		"plot_cache_misses":  misses,
		"plot_cache_entries": entries,
		"sessions_active":    a.Sessions.Len(),
		"session_events":     sessionEvents.Value(),
		"stale_events":       staleEvents.Value(),
		"uptime_sec":         time.Since(a.started).Seconds(),
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Slope Calculator API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
