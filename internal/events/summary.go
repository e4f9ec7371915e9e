// Package events quantifies the ebullition events found in a chamber record.
package events

import (
	"gonum.org/v1/gonum/floats"
)

// DefaultWindow is the half-width, in samples, examined around each peak.
const DefaultWindow = 5

// Event is the concentration jump measured around one peak.
type Event struct {
	Peak     int
	Start    int     // first sample of the window
	End      int     // last sample of the window
	Baseline float64 // concentration at Start
	Height   float64 // highest concentration in the window
	Delta    float64 // Height - Baseline
	Duration float64 // seconds between Start and End
}

// Summary aggregates the events of one record.
type Summary struct {
	TotalAdjustedConcentration float64 // ppm released by events, at most FinalConcentration
	MeasuredConcentration      float64 // sum of event jumps before the cap, ppm
	FinalConcentration         float64 // highest concentration observed, ppm
	PercentContribution        float64 // share of FinalConcentration explained by events
	EventCount                 int
	TotalDuration              float64 // s
	AverageDuration            float64 // s
	EventsPerHour              float64
	Events                     []Event // events with a positive jump
}

// Measure examines [peak-window, peak+window], clamped to the record, for one peak.
func Measure(t, c []float64, peak, window int) Event {
	start := peak - window
	if start < 0 {
		start = 0
	}
	end := peak + window
	if end > len(c)-1 {
		end = len(c) - 1
	}

	ev := Event{Peak: peak, Start: start, End: end, Baseline: c[start]}
	ev.Height = floats.Max(c[start : end+1])
	ev.Delta = ev.Height - ev.Baseline
	if d := t[end] - t[start]; d > 0 {
		ev.Duration = d
	}
	return ev
}

// Summarize measures every peak and aggregates the ones with a positive jump.
// Jumps that are zero or negative are treated as noise and contribute nothing.
// The total is capped at the highest concentration observed, so the percent
// contribution never exceeds 100; the uncapped sum stays in MeasuredConcentration. Rates and percentages are 0 when their
// denominator is not positive.
func Summarize(t, c []float64, peaks []int, window int) Summary {
	var s Summary
	if len(c) == 0 {
		return s
	}
	if window < 0 {
		window = 0
	}

	for _, p := range peaks {
		if p < 0 || p >= len(c) {
			continue
		}
		ev := Measure(t, c, p, window)
		if ev.Delta <= 0 {
			continue
		}
		s.Events = append(s.Events, ev)
		s.TotalAdjustedConcentration += ev.Delta
		s.TotalDuration += ev.Duration
	}
	s.EventCount = len(s.Events)
	s.MeasuredConcentration = s.TotalAdjustedConcentration

	if s.EventCount > 0 {
		s.AverageDuration = s.TotalDuration / float64(s.EventCount)
	}
	if hours := s.TotalDuration / 3600; hours > 0 {
		s.EventsPerHour = float64(s.EventCount) / hours
	}

	s.FinalConcentration = floats.Max(c)
	if s.FinalConcentration > 0 {
		if s.TotalAdjustedConcentration > s.FinalConcentration {
			s.TotalAdjustedConcentration = s.FinalConcentration
		}
		s.PercentContribution = s.TotalAdjustedConcentration / s.FinalConcentration * 100
	}
	return s
}

// Capped reports whether the event total was lowered to FinalConcentration.
func (s Summary) Capped() bool {
	return s.MeasuredConcentration > s.TotalAdjustedConcentration
}

// StepResponse holds each peak's raw concentration until the next peak, and the
// last one until the end of the record. Samples before the first peak are 0.
func StepResponse(c []float64, peaks []int) []float64 {
	out := make([]float64, len(c))
	for i, p := range peaks {
		end := len(c)
		if i+1 < len(peaks) {
			end = peaks[i+1]
		}
		for j := p; j < end; j++ {
			out[j] = c[p]
		}
	}
	return out
}
