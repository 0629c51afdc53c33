package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", app.pageHandler)
	mux.HandleFunc("/api/v1/slope", app.slopeHandler)
	mux.HandleFunc("/api/v1/plot.png", app.plotHandler)
	mux.HandleFunc("/api/v1/plot.svg", app.plotHandler)
	mux.HandleFunc("/api/v1/info", app.infoHandler)
	mux.HandleFunc(sessionsPath, app.createSessionHandler)
	mux.HandleFunc(sessionsPath+"/", app.sessionHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/debug/metrics", app.metricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	return WithRequestID(WithLogging(WithRecover(mux)))
}
