package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lawnchairsociety/tilegen/internal/config"
	"github.com/lawnchairsociety/tilegen/internal/database"
	"github.com/lawnchairsociety/tilegen/internal/layout"
	"github.com/lawnchairsociety/tilegen/internal/logger"
	"github.com/lawnchairsociety/tilegen/internal/preview"
	"github.com/lawnchairsociety/tilegen/internal/tileset"
	"github.com/lawnchairsociety/tilegen/internal/wfc"
)

type options struct {
	configPath string
	appPath    string
	outDir     string
	strategy   string
	seed       uint64
	store      bool
	serve      bool
	legend     bool
	quiet      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.txt", "Path to run config (KEY=VALUE text or YAML)")
	flag.StringVar(&opts.appPath, "app", "tilegen.yaml", "Path to application config YAML file")
	loggingConfig := flag.String("logging", "logging.yaml", "Path to logging config YAML file")
	flag.StringVar(&opts.outDir, "out", "", "Directory for the layout YAML (default from app config, \"-\" to skip)")
	flag.StringVar(&opts.strategy, "strategy", "", "Override placement_strategy ("+fmt.Sprint(wfc.StrategyNames())+")")
	flag.Uint64Var(&opts.seed, "seed", 0, "Override seed (0 keeps the configured seed)")
	flag.BoolVar(&opts.store, "db", false, "Store the run in the configured database")
	flag.BoolVar(&opts.serve, "serve", false, "Serve the layout to websocket viewers until interrupted")
	flag.BoolVar(&opts.legend, "legend", true, "Print the tile legend under the map")
	flag.BoolVar(&opts.quiet, "quiet", false, "Do not print the map")
	flag.Parse()

	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading logging config: %v\n", err)
		os.Exit(1)
	}
	closer, err := logger.Initialize(logConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	if err := run(opts); err != nil {
		logger.Error("Run failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if closer != nil {
			closer.Close()
		}
		os.Exit(1)
	}
}

func run(opts options) error {
	runCfg, err := config.LoadRunConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.strategy != "" {
		runCfg.Strategy = opts.strategy
	}
	if opts.seed != 0 {
		runCfg.Seed = opts.seed
	}
	if err := runCfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", opts.configPath, err)
	}

	appCfg, err := config.LoadAppConfig(opts.appPath)
	if err != nil {
		return err
	}

	tileSetDir := runCfg.TileSetDir(opts.configPath)
	catalog, err := tileset.Load(tileSetDir, tileset.FileModelLoader{})
	if err != nil {
		return err
	}
	logger.Info("Tile set loaded", "dir", tileSetDir, "variants", catalog.Len())

	sink := wfc.SinkFunc(func(model wfc.Model, at wfc.Vec3) {
		logger.Debug("Tile placed",
			"model", model.Path,
			"rotation", model.Rotation*90,
			"x", at.X,
			"y", at.Y)
	})

	generated, err := wfc.NewGenerator(catalog, runCfg.GenerateConfig(), sink).Generate()
	if err != nil {
		return err
	}
	result := layout.FromGenerated(generated, catalog, runCfg.TileSet)

	outDir := opts.outDir
	if outDir == "" {
		outDir = appCfg.Output.Dir
	}
	if outDir != "-" {
		path := filepath.Join(outDir, layout.FileName(result))
		if err := layout.WriteYAML(result, path); err != nil {
			return err
		}
		logger.Info("Layout written", "path", path, "digest", result.Digest())
	}

	if !opts.quiet {
		fmt.Printf("Seed: %d  Strategy: %s  Placed: %d/%d  Contradictions: %d\n",
			result.Seed, result.Strategy, result.Stats.Placed, result.Size*result.Size, result.Stats.Contradictions)
		if err := layout.RenderASCII(os.Stdout, result, opts.legend); err != nil {
			return err
		}
	}

	if opts.store {
		if err := storeRun(appCfg.Database, result); err != nil {
			return err
		}
	}

	if opts.serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := preview.NewServer(appCfg.Preview)
		server.Publish(result)
		return server.ListenAndServe(ctx, appCfg.Preview.Listen)
	}

	return nil
}

func storeRun(cfg config.DatabaseConfig, l *layout.Layout) error {
	db, err := database.OpenWithConfig(database.FromAppConfig(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveRun(l)
	if errors.Is(err, database.ErrDuplicateRun) {
		logger.Info("Identical run already stored", "id", id)
		return nil
	}
	return err
}
