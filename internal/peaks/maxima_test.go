package peaks

import (
	"math"
	"reflect"
	"testing"
)

func TestLocalMaxima(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected []int
	}{
		{
			name:     "isolated and flat tops",
			data:     []float64{0, 1, 0, 2, 2, 0, 3, 3, 3, 0, 1},
			expected: []int{1, 3, 7},
		},
		{
			name:     "edges are never maxima",
			data:     []float64{5, 1, 1, 6},
			expected: nil,
		},
		{
			name:     "plateau running into the end",
			data:     []float64{0, 1, 1},
			expected: nil,
		},
		{
			name:     "shoulder is not a peak",
			data:     []float64{0, 2, 2, 3, 1},
			expected: []int{3},
		},
		{
			name:     "monotonic",
			data:     []float64{1, 2, 3, 4},
			expected: nil,
		},
		{
			name:     "too short",
			data:     []float64{1, 2},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalMaxima(tt.data)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("LocalMaxima() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSelectByDistance(t *testing.T) {
	x := []float64{0, 5, 0, 3, 0, 4, 0, 0, 3.5, 0}
	peaks := []int{1, 3, 5, 8}

	tests := []struct {
		distance int
		expected []int
	}{
		{distance: 1, expected: []int{1, 3, 5, 8}},
		{distance: 3, expected: []int{1, 5, 8}},
		{distance: 4, expected: []int{1, 5}},
		{distance: 10, expected: []int{1}},
	}

	for _, tt := range tests {
		got := SelectByDistance(x, peaks, tt.distance)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("SelectByDistance(distance=%d) = %v, want %v", tt.distance, got, tt.expected)
		}
	}
}

func TestAboveHeight(t *testing.T) {
	x := []float64{0, 1, 0, 2, 0, 3, 0}
	got := AboveHeight(x, []int{1, 3, 5}, 2)
	if !reflect.DeepEqual(got, []int{3, 5}) {
		t.Errorf("AboveHeight() = %v, want [3 5]", got)
	}
}

func TestProminences(t *testing.T) {
	x := []float64{0, 2, 1, 3, 0, 1.5, 0.5}
	got := Prominences(x, []int{1, 3, 5})
	expected := []float64{1, 3, 1}
	for i := range expected {
		if math.Abs(got[i]-expected[i]) > 1e-12 {
			t.Errorf("prominence of peak %d = %v, want %v", i, got[i], expected[i])
		}
	}
}
