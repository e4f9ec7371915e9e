package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chrissnell/ch4flux/internal/charts"
	"github.com/chrissnell/ch4flux/internal/events"
	"github.com/chrissnell/ch4flux/internal/pipeline"
	"github.com/chrissnell/ch4flux/internal/report"
)

// Output subdirectories.
const (
	DataDir      = "data"
	ReportsDir   = "reports"
	PlotsDir     = "plots"
	PeakPlotsDir = "peak_plots"
)

// Paths are the artifacts produced for one input.
type Paths struct {
	Table           string
	Report          string
	FinalComparison string
	Peaks           string
	Segments        string
	PeakSteps       string
}

// ArtifactPaths derives the output paths of base under dir.
func ArtifactPaths(dir, base string) Paths {
	return Paths{
		Table:           filepath.Join(dir, DataDir, base+"_processed.csv"),
		Report:          filepath.Join(dir, ReportsDir, base+"_report.txt"),
		FinalComparison: filepath.Join(dir, PlotsDir, base+"_final_comparison.png"),
		Peaks:           filepath.Join(dir, PlotsDir, base+"_peaks.png"),
		Segments:        filepath.Join(dir, PlotsDir, base+"_segments.png"),
		PeakSteps:       filepath.Join(dir, PeakPlotsDir, base+"_peak_steps.png"),
	}
}

func (a *App) writeArtifacts(ctx context.Context, base string, r *pipeline.Result) error {
	paths := ArtifactPaths(a.cfg.Output.Dir, base)
	for _, dir := range []string{DataDir, ReportsDir, PlotsDir, PeakPlotsDir} {
		if err := os.MkdirAll(filepath.Join(a.cfg.Output.Dir, dir), 0o755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	ts := r.Series
	format := report.FormatOptions{Precision: a.cfg.Report.Precision}
	err := report.WriteFile(paths.Table, func(w io.Writer) error {
		return report.WriteTable(w, ts, r.Corrected.Final, format)
	})
	if err != nil {
		return fmt.Errorf("error writing %s: %w", paths.Table, err)
	}

	summary := report.Summary{
		Source:  ts.Source,
		RunID:   a.runID,
		Peaks:   len(r.Detection.Peaks),
		Records: r.Flux.Records,
		Stats:   r.Flux.Stats,
		Events:  r.Events,
	}
	err = report.WriteFile(paths.Report, func(w io.Writer) error {
		return report.WriteText(w, summary)
	})
	if err != nil {
		return fmt.Errorf("error writing %s: %w", paths.Report, err)
	}

	if !a.cfg.Report.Plots {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	valid := r.Detection.Peaks
	plots := []struct {
		path string
		draw func() error
	}{
		{paths.FinalComparison, func() error {
			return charts.FinalComparison(paths.FinalComparison, base, ts.Time, ts.CH4, r.Corrected.Final)
		}},
		{paths.Peaks, func() error {
			return charts.Peaks(paths.Peaks, base, ts.Time, r.Smoothed, r.Detection.Threshold, valid)
		}},
		{paths.Segments, func() error {
			return charts.Segments(paths.Segments, base, ts.Time, r.Corrected.Final, r.Flux.Records)
		}},
		{paths.PeakSteps, func() error {
			return charts.PeakSteps(paths.PeakSteps, base, ts.Time, ts.CH4, events.StepResponse(ts.CH4, valid), valid)
		}},
	}
	for _, p := range plots {
		if err := p.draw(); err != nil {
			return fmt.Errorf("error writing %s: %w", p.path, err)
		}
	}

	a.logger.Debugf("wrote artifacts for %s to %s", base, a.cfg.Output.Dir)
	return nil
}
