package charts

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chrissnell/ch4flux/internal/flux"
)

func TestCharts(t *testing.T) {
	n := 300
	tm := make([]float64, n)
	raw := make([]float64, n)
	smooth := make([]float64, n)
	for i := range tm {
		tm[i] = float64(i)
		raw[i] = 2 + 0.01*float64(i)
		if i >= 150 {
			raw[i] += 5
		}
		smooth[i] = math.Exp(-math.Pow(float64(i-150)/10, 2))
	}
	smooth[0] = math.NaN()
	records := []flux.Record{
		{Segment: flux.Segment{Start: 0, End: 140}, Slope: 0.01, Intercept: 2},
		{Segment: flux.Segment{Start: 160, End: 299}, Slope: 0.01, Intercept: 7},
		{Segment: flux.Segment{Start: 290, End: 400}},
	}

	dir := t.TempDir()
	tests := []struct {
		name string
		draw func(path string) error
	}{
		{"final comparison", func(p string) error { return FinalComparison(p, "rec", tm, raw, raw) }},
		{"peaks", func(p string) error { return Peaks(p, "rec", tm, smooth, 0.3, []int{150}) }},
		{"peaks without threshold", func(p string) error { return Peaks(p, "rec", tm, smooth, math.Inf(-1), nil) }},
		{"segments", func(p string) error { return Segments(p, "rec", tm, raw, records) }},
		{"peak steps", func(p string) error { return PeakSteps(p, "rec", tm, raw, raw, []int{150, 1000}) }},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, string(rune('a'+i))+".png")
			if err := tt.draw(path); err != nil {
				t.Fatalf("draw error = %v", err)
			}
			info, err := os.Stat(path)
			if err != nil || info.Size() == 0 {
				t.Errorf("no image written: %v", err)
			}
		})
	}
}
