package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/chrissnell/ch4flux/internal/config"
	"github.com/chrissnell/ch4flux/internal/pipeline"
	"github.com/chrissnell/ch4flux/internal/series"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchStats counts the outcome of every input file of a run.
type BatchStats struct {
	Processed int
	Skipped   int // unusable input data
	Failed    int // processing or output errors
}

// App processes a batch of chamber records.
type App struct {
	cfg      config.Config
	pipeline *pipeline.Pipeline
	runID    string
	logger   *zap.SugaredLogger
}

// New creates an application for cfg.
func New(cfg config.Config, logger *zap.SugaredLogger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &App{
		cfg:      cfg,
		pipeline: p,
		runID:    runID,
		logger:   logger,
	}, nil
}

// RunID identifies this batch in logs and reports.
func (a *App) RunID() string {
	return a.runID
}

// Run processes every file with up to cfg.Workers files in flight. A bad file
// never stops the batch; the returned error is reserved for interruption.
func (a *App) Run(ctx context.Context, files []string) (BatchStats, error) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var processed, skipped, failed atomic.Int64
	started := time.Now()

	a.logger.Infow("starting batch", "files", len(files), "workers", a.cfg.Workers, "output", a.cfg.Output.Dir)

	var g errgroup.Group
	g.SetLimit(a.cfg.Workers)

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		file := file
		g.Go(func() error {
			err := a.processFile(ctx, file)
			switch {
			case err == nil:
				processed.Add(1)
			case errors.Is(err, series.ErrData):
				skipped.Add(1)
				a.logger.Warnf("skipping %s: %v", file, err)
			default:
				failed.Add(1)
				a.logger.Errorf("failed to process %s: %v", file, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	stats := BatchStats{
		Processed: int(processed.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	}
	a.logger.Infow("batch complete",
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("batch interrupted: %w", err)
	}
	return stats, nil
}

func (a *App) processFile(ctx context.Context, file string) error {
	if a.cfg.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.FileTimeout)
		defer cancel()
	}

	ts, err := series.Load(file, series.DefaultSchema)
	if err != nil {
		return err
	}

	result, err := a.pipeline.Process(ctx, ts)
	if err != nil {
		return err
	}

	return a.writeArtifacts(ctx, BaseName(file), result)
}

// Discover lists the .txt files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// BaseName strips the directory and extension from an input path.
func BaseName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
