package peaks

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Detection is the outcome of running a Detector over a conditioned signal.
type Detection struct {
	Maxima      []int   // every local maximum found by the unconstrained pass
	Threshold   float64 // minimum height a valid peak must reach
	MinDistance int     // minimum spacing between valid peaks, in samples
	Peaks       []int   // valid peak set, strictly increasing
}

// Detector finds valid event peaks in a conditioned signal.
type Detector interface {
	Detect(signal []float64) Detection
}

// Adaptive derives its height threshold and peak spacing from the population
// of local maxima in each signal, so files with different noise floors and
// event densities need no tuning.
type Adaptive struct {
	logger *zap.SugaredLogger
}

// NewAdaptive creates an adaptive two-pass detector.
func NewAdaptive(logger *zap.SugaredLogger) *Adaptive {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Adaptive{logger: logger}
}

// Detect runs the calibration pass and then the constrained selection pass.
func (d *Adaptive) Detect(signal []float64) Detection {
	maxima := LocalMaxima(signal)
	if len(maxima) == 0 {
		threshold := 0.0
		if len(signal) > 0 {
			threshold = stat.Mean(signal, nil)
		}
		d.logger.Debugf("no local maxima in %d samples", len(signal))
		return Detection{Threshold: threshold, MinDistance: 1}
	}

	amplitudes := make([]float64, len(maxima))
	for i, m := range maxima {
		amplitudes[i] = signal[m]
	}
	mean, variance := stat.PopMeanVariance(amplitudes, nil)
	threshold := mean + math.Sqrt(variance)/3

	var strong []int
	for _, m := range maxima {
		if signal[m] > threshold {
			strong = append(strong, m)
		}
	}

	minDistance := 1
	if len(strong) >= 2 {
		gaps := make([]float64, len(strong)-1)
		for i := 1; i < len(strong); i++ {
			gaps[i-1] = float64(strong[i] - strong[i-1])
		}
		gapMean, gapVariance := stat.PopMeanVariance(gaps, nil)
		if md := int(math.RoundToEven(gapMean - math.Sqrt(gapVariance))); md > 1 {
			minDistance = md
		}
	}

	valid := SelectByDistance(signal, AboveHeight(signal, maxima, threshold), minDistance)

	d.logger.Debugf("adaptive detection: maxima=%d threshold=%.4f strong=%d min_distance=%d valid=%d",
		len(maxima), threshold, len(strong), minDistance, len(valid))

	return Detection{
		Maxima:      maxima,
		Threshold:   threshold,
		MinDistance: minDistance,
		Peaks:       valid,
	}
}

// Fixed selects peaks with a static spacing and prominence.
type Fixed struct {
	Distance   int
	Prominence float64

	logger *zap.SugaredLogger
}

// NewFixed creates a detector with static parameters. The chamber default is
// a 30-sample spacing and 0.5 ppm prominence.
func NewFixed(distance int, prominence float64, logger *zap.SugaredLogger) *Fixed {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Fixed{Distance: distance, Prominence: prominence, logger: logger}
}

// Detect applies the spacing rule first and the prominence rule second.
func (d *Fixed) Detect(signal []float64) Detection {
	maxima := LocalMaxima(signal)
	spaced := SelectByDistance(signal, maxima, d.Distance)

	prominences := Prominences(signal, spaced)
	valid := make([]int, 0, len(spaced))
	for i, p := range spaced {
		if prominences[i] >= d.Prominence {
			valid = append(valid, p)
		}
	}

	d.logger.Debugf("fixed detection: maxima=%d spaced=%d valid=%d", len(maxima), len(spaced), len(valid))

	// No height rule applies.
	return Detection{
		Maxima:      maxima,
		Threshold:   math.Inf(-1),
		MinDistance: d.Distance,
		Peaks:       valid,
	}
}
