// Package main boots the Slope Calculator HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/slope-calculator/internal/config"
	httpapi "github.com/fairyhunter13/slope-calculator/internal/http"
	"github.com/fairyhunter13/slope-calculator/internal/obs"
	"github.com/fairyhunter13/slope-calculator/internal/plot"
	"github.com/fairyhunter13/slope-calculator/internal/session"
)

func main() {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting",
		"input_step", cfg.InputStep,
		"plot_width", cfg.PlotWidth,
		"plot_height", cfg.PlotHeight,
	)

	sessions := session.New(cfg.SessionTTL)
	plots := plot.NewCache(cfg.PlotCacheTTL, plot.Size{Width: cfg.PlotWidth, Height: cfg.PlotHeight})

	app := httpapi.NewApp(cfg, sessions, plots)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Info("shutdown_begin", "sessions_active", sessions.Len())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	hits, misses, _ := plots.Stats()
	obs.Logger.Info("service_stopped", "plot_cache_hits", hits, "plot_cache_misses", misses)
}
