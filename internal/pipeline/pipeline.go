// Package pipeline runs the chamber processing chain: conditioning, event
// detection, baseline correction, flux estimation and event summary.
package pipeline

import (
	"context"
	"fmt"

	"github.com/chrissnell/ch4flux/internal/baseline"
	"github.com/chrissnell/ch4flux/internal/config"
	"github.com/chrissnell/ch4flux/internal/dsp"
	"github.com/chrissnell/ch4flux/internal/events"
	"github.com/chrissnell/ch4flux/internal/flux"
	"github.com/chrissnell/ch4flux/internal/peaks"
	"github.com/chrissnell/ch4flux/internal/series"
	"go.uber.org/zap"
)

// Result is everything computed for one record.
type Result struct {
	Series    *series.TimeSeries
	Smoothed  []float64
	Detection peaks.Detection
	Corrected baseline.Result
	Flux      flux.Estimate
	Events    events.Summary
}

// Pipeline holds the configured components. It keeps no per-record state and is
// safe for concurrent use.
type Pipeline struct {
	conditioner *dsp.Conditioner
	detector    peaks.Detector
	corrector   *baseline.Corrector
	estimator   *flux.Estimator
	eventWindow int
	eventSource string
	logger      *zap.SugaredLogger
}

// New builds a pipeline from cfg.
func New(cfg config.Config, logger *zap.SugaredLogger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conditioner := dsp.NewConditioner(logger)
	conditioner.Order = cfg.Conditioning.Order
	conditioner.LowCutHz = cfg.Conditioning.LowCutHz
	conditioner.HighCutHz = cfg.Conditioning.HighCutHz
	conditioner.WindowDivisor = cfg.Conditioning.WindowDivisor
	conditioner.DespikeKernel = cfg.Conditioning.DespikeKernel

	var detector peaks.Detector
	switch cfg.Detection.Strategy {
	case config.StrategyFixed:
		detector = peaks.NewFixed(cfg.Detection.FixedDistance, cfg.Detection.FixedProminence, logger)
	default:
		detector = peaks.NewAdaptive(logger)
	}

	corrector := baseline.NewCorrector(logger)
	corrector.WindowDivisor = cfg.Baseline.WindowDivisor
	corrector.ManualDivisors = append([]int(nil), cfg.Baseline.ManualDivisors...)
	corrector.AutoDivisor = cfg.Baseline.AutoDivisor
	corrector.FillNeighbors = cfg.Baseline.FillNeighbors

	estimator := flux.NewEstimator(cfg.Chamber, logger)
	estimator.Guard = cfg.Flux.Guard
	estimator.MinRSquared = cfg.Flux.MinRSquared
	estimator.PositiveOnly = cfg.Flux.PositiveOnly

	return &Pipeline{
		conditioner: conditioner,
		detector:    detector,
		corrector:   corrector,
		estimator:   estimator,
		eventWindow: cfg.Events.Window,
		eventSource: cfg.Events.Source,
		logger:      logger,
	}, nil
}

// Process runs every stage over ts. ctx is checked between stages so a
// per-record deadline stops work early. ts is not modified.
func (p *Pipeline) Process(ctx context.Context, ts *series.TimeSeries) (*Result, error) {
	if err := ts.Validate(); err != nil {
		return nil, err
	}

	smoothed, err := p.conditioner.Condition(ts.Time, ts.CH4)
	if err != nil {
		return nil, fmt.Errorf("%s: conditioning: %w", ts.Source, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detection := p.detector.Detect(smoothed)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	corrected := p.corrector.Correct(ts.CH4, detection.Peaks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	estimate := p.estimator.Estimate(flux.Channels{
		Time:          ts.Time,
		Concentration: corrected.Final,
		Temperature:   ts.Temperature,
		Pressure:      ts.Pressure,
	}, detection.Peaks)

	source := corrected.Final
	if p.eventSource == config.SourceRaw {
		source = ts.CH4
	}
	summary := events.Summarize(ts.Time, source, detection.Peaks, p.eventWindow)
	if summary.Capped() {
		p.logger.Debugf("%s: event jumps sum to %.4f ppm, capped at final concentration %.4f ppm",
			ts.Source, summary.MeasuredConcentration, summary.FinalConcentration)
	}

	p.logger.Infow("processed record",
		"source", ts.Source,
		"samples", ts.Len(),
		"peaks", len(detection.Peaks),
		"segments", len(estimate.Segments),
		"flux_records", len(estimate.Records),
		"events", summary.EventCount,
	)

	return &Result{
		Series:    ts,
		Smoothed:  smoothed,
		Detection: detection,
		Corrected: corrected,
		Flux:      estimate,
		Events:    summary,
	}, nil
}
