package dsp

import (
	"math"
	"math/rand"
	"testing"
)

func equalWithNaN(a, b []float64, epsilon float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			if !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
				return false
			}
			continue
		}
		if math.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, divisor, want int
	}{
		{1000, 50, 20},
		{1000, 25, 40},
		{1049, 50, 20},
		{49, 50, 1},
		{0, 50, 1},
		{10, 0, 1},
	}
	for _, tt := range tests {
		if got := Window(tt.n, tt.divisor); got != tt.want {
			t.Errorf("Window(%d, %d) = %d, want %d", tt.n, tt.divisor, got, tt.want)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name     string
		data     []float64
		window   int
		expected []float64
	}{
		{
			name:     "window of one is identity",
			data:     []float64{3, -1, 4, 1, 5},
			window:   1,
			expected: []float64{3, -1, 4, 1, 5},
		},
		{
			name:     "odd window shrinks at the ends",
			data:     []float64{1, 2, 3, 4, 5},
			window:   3,
			expected: []float64{1.5, 2, 3, 4, 4.5},
		},
		{
			name:     "even window takes the extra sample from the left",
			data:     []float64{1, 2, 3, 4, 5},
			window:   4,
			expected: []float64{1.5, 2, 2.5, 3.5, 4},
		},
		{
			name:     "window longer than the series",
			data:     []float64{2, 4, 6},
			window:   10,
			expected: []float64{4, 4, 4},
		},
		{
			name:     "undefined values are skipped",
			data:     []float64{1, nan, 3},
			window:   3,
			expected: []float64{1, 2, 3},
		},
		{
			name:     "all-undefined window stays undefined",
			data:     []float64{nan, nan, nan, 6},
			window:   3,
			expected: []float64{nan, nan, 6, 6},
		},
		{
			name:     "empty",
			data:     []float64{},
			window:   5,
			expected: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]float64(nil), tt.data...)
			got := MovingAverage(tt.data, tt.window)
			if !equalWithNaN(got, tt.expected, 1e-12) {
				t.Errorf("MovingAverage() = %v, want %v", got, tt.expected)
			}
			if !equalWithNaN(tt.data, input, 0) {
				t.Errorf("input modified: %v", tt.data)
			}
		})
	}
}

func TestMovingAverageMatchesDirectSum(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(400)
		window := 2 + rng.Intn(120)
		x := make([]float64, n)
		for i := range x {
			x[i] = 100 + 20*rng.NormFloat64()
		}
		// A run of undefined values longer than some windows.
		if n > 40 {
			for i := 10; i < 35; i++ {
				x[i] = math.NaN()
			}
		}

		got := MovingAverage(x, window)
		want := movingAverageDirect(x, window)
		if !equalWithNaN(got, want, 1e-9) {
			t.Fatalf("n=%d window=%d: sliding and direct averages differ", n, window)
		}
	}
}

func TestMovingAverageInfinite(t *testing.T) {
	x := []float64{1, math.Inf(1), 3, 4, 5, 6}
	got := MovingAverage(x, 3)
	if !math.IsInf(got[0], 1) || !math.IsInf(got[2], 1) {
		t.Errorf("MovingAverage() = %v, want +Inf around the infinite sample", got)
	}
	if got[4] != 5 || got[5] != 5.5 {
		t.Errorf("MovingAverage() = %v, want finite tail 5, 5.5", got)
	}
}

func TestFillLocalMean(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name      string
		data      []float64
		neighbors int
		expected  []float64
	}{
		{
			name:      "gap filled from both sides",
			data:      []float64{1, nan, 3},
			neighbors: 1,
			expected:  []float64{1, 2, 3},
		},
		{
			name:      "uses only original neighbors",
			data:      []float64{nan, nan, 4, 8},
			neighbors: 2,
			expected:  []float64{4, 6, 4, 8},
		},
		{
			name:      "no defined neighbor",
			data:      []float64{nan, nan},
			neighbors: 5,
			expected:  []float64{nan, nan},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FillLocalMean(tt.data, tt.neighbors)
			if !equalWithNaN(got, tt.expected, 1e-12) {
				t.Errorf("FillLocalMean() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMedFilt(t *testing.T) {
	tests := []struct {
		name       string
		data       []float64
		kernelSize int
		expected   []float64
	}{
		{
			name:       "single spike removed",
			data:       []float64{1, 9, 1, 1},
			kernelSize: 3,
			expected:   []float64{1, 1, 1, 1},
		},
		{
			name:       "edges replicate",
			data:       []float64{5, 1, 2},
			kernelSize: 3,
			expected:   []float64{5, 2, 2},
		},
		{
			name:       "kernel of one",
			data:       []float64{3, 1, 2},
			kernelSize: 1,
			expected:   []float64{3, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MedFilt(tt.data, tt.kernelSize)
			if !equalWithNaN(got, tt.expected, 0) {
				t.Errorf("MedFilt() = %v, want %v", got, tt.expected)
			}
		})
	}
}
