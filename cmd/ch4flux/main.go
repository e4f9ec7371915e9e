package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/chrissnell/ch4flux/internal/app"
	"github.com/chrissnell/ch4flux/internal/config"
	"github.com/chrissnell/ch4flux/internal/log"
	"go.uber.org/zap"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	dir := flag.String("dir", ".", "Directory holding the chamber .txt records")
	file := flag.String("file", "", "Process a single record instead of the whole directory")
	window := flag.Int("window", 5, "Half-width in samples of the window examined around each event")
	output := flag.String("output", "", "Output directory (default \"<dir>/Processed data\")")
	cfgFile := flag.String("config", "", "Optional YAML configuration file")
	preset := flag.String("preset", config.PresetAdaptive, "Parameter preset: 'adaptive' or 'fixed'")
	workers := flag.Int("workers", 1, "Number of records processed in parallel")
	positiveOnly := flag.Bool("positive-only", true, "Keep only segments with a rising concentration")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	logFile := flag.String("log-file", "", "Also write JSON logs to this rotating file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ch4flux %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug, log.FileOptions{Path: *logFile}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := loadConfig(*cfgFile, *preset)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Flags given on the command line win over the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			cfg.Events.Window = *window
		case "workers":
			cfg.Workers = *workers
		case "positive-only":
			cfg.Flux.PositiveOnly = *positiveOnly
		case "output":
			cfg.Output.Dir = *output
		}
	})
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = filepath.Join(*dir, "Processed data")
	}

	files, err := inputs(*dir, *file)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		log.Warnf("no .txt records found in %s", *dir)
		return
	}

	logger := log.GetZapLogger().WithOptions(zap.AddCallerSkip(-1)).Sugar()
	application, err := app.New(cfg, logger)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	stats, err := application.Run(context.Background(), files)
	if err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Processed %d file(s), skipped %d, failed %d. Results in %s\n",
		stats.Processed, stats.Skipped, stats.Failed, cfg.Output.Dir)
}

func loadConfig(cfgFile, preset string) (config.Config, error) {
	if cfgFile == "" {
		return config.Preset(preset)
	}

	filename, _ := filepath.Abs(cfgFile)
	cfg, err := config.Load(filename)
	if err != nil {
		return config.Config{}, fmt.Errorf("error reading config file %s: %w", filename, err)
	}
	return cfg, nil
}

func inputs(dir, file string) ([]string, error) {
	if file == "" {
		return app.Discover(dir)
	}
	if !filepath.IsAbs(file) {
		if _, err := os.Stat(file); err != nil {
			file = filepath.Join(dir, file)
		}
	}
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("input file: %w", err)
	}
	return []string{file}, nil
}
