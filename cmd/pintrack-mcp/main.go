package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/pintrack/internal/config"
	"github.com/claude/pintrack/internal/geo"
	"github.com/claude/pintrack/internal/kv"
	"github.com/claude/pintrack/internal/mcp"
	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/persist"
	"github.com/claude/pintrack/internal/session"
	"github.com/claude/pintrack/internal/view"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remote := flag.String("server", "", "base URL of a running pintrack server; empty runs in-process")
	apiKey := flag.String("api-key", os.Getenv("PINTRACK_AUTH_API_KEY"), "API key for -server")
	flag.Parse()

	// stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *remote != "" {
		ds = mcp.NewHTTPClient(*remote, *apiKey)
		log.Info("PinTrack MCP starting", "version", Version, "mode", "remote", "server", *remote)
	} else {
		local, closeStore, err := newLocal(*configPath, log)
		if err != nil {
			log.Error("failed to start local session", "error", err)
			os.Exit(1)
		}
		defer closeStore()
		ds = local
		log.Info("PinTrack MCP starting", "version", Version, "mode", "local")
	}

	if err := server.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

// newLocal builds an in-process session over the configured storage. The
// map is initialized from map.home, or a default position when none is set.
func newLocal(path string, log *slog.Logger) (mcp.Local, func(), error) {
	cfg, err := config.Load(path)
	if err != nil {
		return mcp.Local{}, nil, err
	}

	ctx := context.Background()
	store, closeFunc, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return mcp.Local{}, nil, err
	}

	ctrl := session.New(ctx, session.Deps{
		Persist:  persist.New(store, cfg.Storage.Key, log),
		Map:      view.NewMap(),
		Form:     view.NewForm(),
		Renderer: view.NewList(),
		Zoom:     cfg.Map.Zoom,
		Log:      log,
	})

	home := models.Coordinates{}
	if cfg.Map.Home != nil {
		home = models.Coordinates{Lat: cfg.Map.Home.Lat, Lng: cfg.Map.Home.Lng}
	}
	if err := ctrl.Locate(ctx, geo.Fixed{At: home}); err != nil {
		closeFunc()
		return mcp.Local{}, nil, fmt.Errorf("initializing map: %w", err)
	}
	return mcp.Local{Ctrl: ctrl}, closeFunc, nil
}
