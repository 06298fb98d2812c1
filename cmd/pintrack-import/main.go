package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/pintrack/internal/config"
	"github.com/claude/pintrack/internal/importer"
	"github.com/claude/pintrack/internal/kv"
	"github.com/claude/pintrack/internal/persist"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("path", "", "path to a browser workoutSave export, .json or .json.gz (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to storage")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: pintrack-import -config config.yaml -path workoutSave.json [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := importer.ReadExport(*exportPath)
	if err != nil {
		log.Error("failed to read export", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, closeStore, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if *dryRun {
		log.Info("DRY RUN mode, nothing will be written")
	}
	// A running pintrack server keeps its own copy and overwrites the
	// stored collection on its next save. Reset would delete the import.
	log.Warn("stop pintrack before importing and start it again afterwards; " +
		"if it must keep running, POST /api/v1/reload right after the import and never /api/v1/reset")

	imp := importer.New(persist.New(store, cfg.Storage.Key, log), log, *dryRun)
	stats, err := imp.Import(ctx, data)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		closeStore()
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"read", stats.Read,
		"inserted", stats.Inserted,
		"duplicated", stats.Duplicated,
		"rejected", stats.Rejected,
	)
	if len(stats.RejectedEntries) > 0 {
		log.Info("rejected entries (see warnings above)", "positions", stats.RejectedEntries)
	}
}
