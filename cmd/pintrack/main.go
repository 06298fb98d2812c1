package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/pintrack/internal/config"
	"github.com/claude/pintrack/internal/geo"
	"github.com/claude/pintrack/internal/kv"
	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/persist"
	"github.com/claude/pintrack/internal/server"
	"github.com/claude/pintrack/internal/session"
	"github.com/claude/pintrack/internal/view"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit (postgres backend)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("PinTrack starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *migrateOnly {
		if cfg.Storage.Backend != config.BackendPostgres {
			log.Info("migrate-only: nothing to migrate", "backend", cfg.Storage.Backend)
			return
		}
		if err := kv.RunMigrations(cfg.Storage.Postgres.DSN()); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied, exiting")
		return
	}

	ctx := context.Background()
	store, closeStore, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	log.Info("storage opened", "backend", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendMemory {
		log.Warn("memory backend: workouts are lost on restart")
	}

	views := server.Views{Map: view.NewMap(), Form: view.NewForm(), List: view.NewList()}
	ctrl := session.New(ctx, session.Deps{
		Persist:  persist.New(store, cfg.Storage.Key, log),
		Map:      views.Map,
		Form:     views.Form,
		Renderer: views.List,
		Zoom:     cfg.Map.Zoom,
		Log:      log,
	})

	// The map only appears once a position is known.
	go func() {
		if err := ctrl.Locate(ctx, locator(cfg.Map)); err != nil {
			log.Warn("map not initialized", "error", err)
		}
	}()

	srv := server.New(ctrl, views, cfg.Auth.APIKey, log)

	// Start server, tsnet or plain HTTP
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

func locator(cfg config.MapConfig) session.Locator {
	if cfg.Home == nil {
		return geo.Unavailable{}
	}
	return geo.Fixed{At: models.Coordinates{Lat: cfg.Home.Lat, Lng: cfg.Home.Lng}}
}
