// Package dsp provides the filters and smoothers used to condition chamber
// concentration series before event detection.
package dsp

import (
	"fmt"
	"math"

	"github.com/chrissnell/ch4flux/internal/series"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Filtered values within roundoffFloor of zero, relative to the largest input
// magnitude, are filter residue and are set to zero.
const roundoffFloor = 1e-9

// Conditioner band-limits and smooths a raw concentration series.
type Conditioner struct {
	Order         int     // Butterworth prototype order
	LowCutHz      float64 // lower band edge
	HighCutHz     float64 // upper band edge
	WindowDivisor int     // moving-average window is len(series)/WindowDivisor
	DespikeKernel int     // odd median kernel applied first; values below 3 disable it

	logger *zap.SugaredLogger
}

// NewConditioner returns a Conditioner with the band and smoothing used by the
// chamber pipeline: 4th order, 0.01-0.15 Hz, window N/50.
func NewConditioner(logger *zap.SugaredLogger) *Conditioner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Conditioner{
		Order:         4,
		LowCutHz:      0.01,
		HighCutHz:     0.15,
		WindowDivisor: 50,
		logger:        logger,
	}
}

// Condition filters x (sampled at times t) with a zero-phase band-pass and then a
// centered moving average. The output has the same length as x.
func (c *Conditioner) Condition(t, x []float64) ([]float64, error) {
	if len(x) != len(t) {
		return nil, fmt.Errorf("%w: %d samples but %d timestamps", series.ErrData, len(x), len(t))
	}
	fs, err := series.SampleRate(t)
	if err != nil {
		return nil, err
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("sample %d is %v: %w", i, v, series.ErrNonFinite)
		}
	}

	input := x
	if c.DespikeKernel >= 3 && c.DespikeKernel%2 == 1 {
		input = MedFilt(x, c.DespikeKernel)
		c.logger.Debugf("applied median despike: kernel=%d", c.DespikeKernel)
	}

	b, a, err := ButterBandpass(c.Order, c.LowCutHz, c.HighCutHz, fs)
	if err != nil {
		return nil, err
	}
	filtered, err := FiltFilt(b, a, input)
	if err != nil {
		return nil, err
	}
	floor := roundoffFloor * floats.Norm(x, math.Inf(1))
	for i, v := range filtered {
		if math.Abs(v) <= floor {
			filtered[i] = 0
		}
	}

	window := Window(len(x), c.WindowDivisor)
	c.logger.Debugf("band-pass %.3f-%.3f Hz at fs=%.3f Hz, smoothing window=%d", c.LowCutHz, c.HighCutHz, fs, window)

	return MovingAverage(filtered, window), nil
}
