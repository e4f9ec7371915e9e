// Package flux estimates diffusive methane flux from the quiescent stretches of
// a corrected chamber record.
package flux

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerateSegment is returned when a segment is too short to regress.
var ErrDegenerateSegment = errors.New("segment has fewer than 2 samples")

// Channels are the aligned inputs of the estimator.
type Channels struct {
	Time          []float64 // s
	Concentration []float64 // ppm
	Temperature   []float64 // °C
	Pressure      []float64 // mmHg
}

// Record is a segment whose regression passed the quality rules.
type Record struct {
	Segment         Segment
	Slope           float64 // ppm/s
	Intercept       float64 // ppm
	RSquared        float64
	MeanTemperature float64 // °C
	MeanPressure    float64 // mmHg
	Flux            float64 // µmol·m⁻²·h⁻¹
}

// Estimate is the estimator output for one record.
type Estimate struct {
	Segments []Segment // every candidate segment, retained or not
	Records  []Record  // retained segments, in segment order
	Stats    Stats     // distribution of retained fluxes
}

// Fluxes returns the flux of every retained record.
func (e Estimate) Fluxes() []float64 {
	out := make([]float64, len(e.Records))
	for i, r := range e.Records {
		out[i] = r.Flux
	}
	return out
}

// Estimator partitions a record around events and regresses each segment.
type Estimator struct {
	Guard        int     // samples skipped on each side of an event
	MinRSquared  float64 // records need r² strictly above this
	PositiveOnly bool    // also require a rising concentration
	Chamber      Chamber

	logger *zap.SugaredLogger
}

// NewEstimator returns an estimator with a 10-sample guard and an r² cutoff of 0.7.
func NewEstimator(chamber Chamber, logger *zap.SugaredLogger) *Estimator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Estimator{
		Guard:       10,
		MinRSquared: 0.7,
		Chamber:     chamber,
		logger:      logger,
	}
}

// Fit regresses concentration on time over seg by ordinary least squares.
// r² is 0 when the concentration is constant over the segment.
func Fit(t, c []float64, seg Segment) (slope, intercept, rSquared float64, err error) {
	if seg.Start < 0 || seg.End > len(t) || seg.End > len(c) {
		return 0, 0, 0, fmt.Errorf("segment [%d, %d) outside %d samples", seg.Start, seg.End, len(t))
	}
	if seg.Len() < 2 {
		return 0, 0, 0, ErrDegenerateSegment
	}

	x := t[seg.Start:seg.End]
	y := c[seg.Start:seg.End]

	intercept, slope = stat.LinearRegression(x, y, nil, false)
	rSquared = stat.RSquared(x, y, nil, intercept, slope)
	switch {
	case math.IsNaN(rSquared) || rSquared < 0:
		rSquared = 0
	case rSquared > 1:
		rSquared = 1
	}
	return slope, intercept, rSquared, nil
}

// Estimate segments the record around peaks, fits every segment and keeps the
// ones that pass the quality rules. An empty Records slice is a valid outcome.
func (e *Estimator) Estimate(ch Channels, peaks []int) Estimate {
	n := len(ch.Concentration)
	segments := Segments(peaks, n, e.Guard)

	var records []Record
	for _, seg := range segments {
		slope, intercept, r2, err := Fit(ch.Time, ch.Concentration, seg)
		if err != nil {
			e.logger.Debugf("skipping segment [%d, %d): %v", seg.Start, seg.End, err)
			continue
		}
		if r2 <= e.MinRSquared {
			e.logger.Debugf("rejecting segment [%d, %d): r²=%.3f", seg.Start, seg.End, r2)
			continue
		}
		if e.PositiveOnly && slope <= 0 {
			e.logger.Debugf("rejecting segment [%d, %d): slope=%.5f", seg.Start, seg.End, slope)
			continue
		}

		temperature := stat.Mean(ch.Temperature[seg.Start:seg.End], nil)
		pressure := stat.Mean(ch.Pressure[seg.Start:seg.End], nil)

		records = append(records, Record{
			Segment:         seg,
			Slope:           slope,
			Intercept:       intercept,
			RSquared:        r2,
			MeanTemperature: temperature,
			MeanPressure:    pressure,
			Flux:            Convert(slope, temperature, pressure, e.Chamber),
		})
	}

	est := Estimate{Segments: segments, Records: records}
	est.Stats = Describe(est.Fluxes())

	e.logger.Debugf("flux estimate: segments=%d retained=%d", len(segments), len(records))
	return est
}
