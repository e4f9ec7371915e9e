// Package series holds the chamber time series and its tab-separated input format.
package series

import (
	"fmt"
)

// TimeSeries is one chamber record: parallel channels sampled at the same instants.
type TimeSeries struct {
	Source      string
	Header      string // banner line preceding the column names
	Time        []float64
	CH4         []float64
	Temperature []float64
	Pressure    []float64

	// Columns and Records hold the input table verbatim so the processed table
	// can carry every original column through.
	Columns []string
	Records [][]string
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int {
	return len(ts.Time)
}

// SampleRate returns the sampling frequency in Hz derived from the first interval.
func (ts *TimeSeries) SampleRate() (float64, error) {
	return SampleRate(ts.Time)
}

// SampleRate returns 1 / (t[1] - t[0]).
func SampleRate(t []float64) (float64, error) {
	if len(t) < 2 {
		return 0, ErrTooFewSamples
	}
	dt := t[1] - t[0]
	if dt <= 0 {
		return 0, fmt.Errorf("first sample interval %g s: %w", dt, ErrNonIncreasingTime)
	}
	return 1 / dt, nil
}

// Validate checks the structural invariants of the series.
func (ts *TimeSeries) Validate() error {
	n := len(ts.Time)
	if len(ts.CH4) != n || len(ts.Temperature) != n || len(ts.Pressure) != n {
		return &ParseError{Source: ts.Source, Err: fmt.Errorf("channel lengths differ (time=%d, ch4=%d, temp=%d, pressure=%d)",
			n, len(ts.CH4), len(ts.Temperature), len(ts.Pressure))}
	}
	if n < 2 {
		return &ParseError{Source: ts.Source, Err: ErrTooFewSamples}
	}
	for i := 1; i < n; i++ {
		if ts.Time[i] <= ts.Time[i-1] {
			return &ParseError{Source: ts.Source, Column: "time", Err: fmt.Errorf("sample %d (t=%g after t=%g): %w",
				i, ts.Time[i], ts.Time[i-1], ErrNonIncreasingTime)}
		}
	}
	return nil
}
