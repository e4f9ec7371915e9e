// Package baseline removes the concentration steps that ebullition events leave
// in a chamber record.
//
// Two correction paths run over the raw signal. Both shift the record after each
// event down by the jump measured across that event; they differ only in how they
// are smoothed afterwards. The manual path goes through several rounds of
// moving-average and gap filling at alternating scales, the automatic path is
// averaged with the raw record and smoothed once. The final signal is the mean of
// the two.
package baseline

import (
	"github.com/chrissnell/ch4flux/internal/dsp"
	"go.uber.org/zap"
)

// Result holds the corrected signals, all aligned with the raw input.
type Result struct {
	Manual []float64
	Auto   []float64
	Final  []float64
	Window int // correction window in samples
}

// Corrector configures the correction and its smoothing schedule. Every divisor
// d yields a window of len(signal)/d samples, floored to 1.
type Corrector struct {
	WindowDivisor   int   // correction window
	ManualDivisors  []int // smoothing rounds of the manual path, in order
	AutoDivisor     int   // single smoothing of the automatic path
	FillNeighbors   int   // samples on each side used to fill undefined values
	HeadSmoothWidth int   // window used to rebuild the head of the manual path

	logger *zap.SugaredLogger
}

// NewCorrector returns the chamber pipeline's corrector.
func NewCorrector(logger *zap.SugaredLogger) *Corrector {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Corrector{
		WindowDivisor:   50,
		ManualDivisors:  []int{50, 25, 50, 100},
		AutoDivisor:     25,
		FillNeighbors:   5,
		HeadSmoothWidth: 2,
		logger:          logger,
	}
}

// Correct returns the manual, automatic and blended corrections of raw for the
// given valid peaks. raw and peaks are not modified.
func (c *Corrector) Correct(raw []float64, peaks []int) Result {
	n := len(raw)
	window := dsp.Window(n, c.WindowDivisor)

	manual := c.smoothManual(raw, removeSteps(raw, peaks, window), window)
	auto := c.smoothAuto(raw, removeSteps(raw, peaks, window))

	final := make([]float64, n)
	for i := range final {
		final[i] = (manual[i] + auto[i]) / 2
	}

	c.logger.Debugf("baseline corrected: samples=%d peaks=%d window=%d", n, len(peaks), window)

	return Result{
		Manual: manual,
		Auto:   auto,
		Final:  final,
		Window: window,
	}
}

// removeSteps walks the peaks in order, except the last one. For each peak the
// record from window samples before it to the end is re-smoothed and shifted
// down by the raw jump across that window. Later iterations act on the output
// of earlier ones, so corrections accumulate toward the end of the record.
func removeSteps(raw []float64, peaks []int, window int) []float64 {
	out := make([]float64, len(raw))
	copy(out, raw)

	for i := 0; i < len(peaks)-1; i++ {
		start := peaks[i] - window
		if start < 0 {
			start = 0
		}
		jump := raw[peaks[i]] - raw[start]

		tail := dsp.MovingAverage(out[start:], window)
		for j, v := range tail {
			out[start+j] = v - jump
		}
	}
	return out
}

func (c *Corrector) smoothManual(raw, corrected []float64, window int) []float64 {
	n := len(raw)
	out := corrected
	for _, d := range c.ManualDivisors {
		out = dsp.MovingAverage(out, dsp.Window(n, d))
		out = dsp.FillLocalMean(out, c.FillNeighbors)
	}

	// The corrected head depends on samples before the record starts; rebuild it
	// from the raw head instead.
	head := window
	if head > n {
		head = n
	}
	copy(out[:head], dsp.MovingAverage(raw[:head], c.HeadSmoothWidth))
	return out
}

func (c *Corrector) smoothAuto(raw, corrected []float64) []float64 {
	n := len(raw)
	out := make([]float64, n)
	for i := range out {
		out[i] = (raw[i] + corrected[i]) / 2
	}
	out = dsp.FillLocalMean(out, c.FillNeighbors)
	return dsp.MovingAverage(out, dsp.Window(n, c.AutoDivisor))
}
