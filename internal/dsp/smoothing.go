package dsp

import (
	"math"
	"sort"
)

// Window returns n/divisor floored to 1, the window rule used for every
// length-relative smoothing step.
func Window(n, divisor int) int {
	if divisor <= 0 {
		return 1
	}
	w := n / divisor
	if w < 1 {
		return 1
	}
	return w
}

// MovingAverage applies a centered moving average of the given window.
// Windows shrink near the ends, so the output has the input's length. For even
// windows the extra sample is taken from the left. NaN values are skipped; an
// output is NaN only when its whole window is NaN. A window of 1 returns a copy.
//
// The window sum slides along the series, so the cost does not depend on the
// window length.
func MovingAverage(x []float64, window int) []float64 {
	n := len(x)
	out := make([]float64, n)
	if window <= 1 {
		copy(out, x)
		return out
	}
	for _, v := range x {
		if math.IsInf(v, 0) {
			return movingAverageDirect(x, window)
		}
	}

	right := (window - 1) / 2
	left := window - 1 - right

	sum := 0.0
	count := 0
	for j := 0; j < right && j < n; j++ {
		if !math.IsNaN(x[j]) {
			sum += x[j]
			count++
		}
	}
	for i := 0; i < n; i++ {
		if j := i + right; j < n && !math.IsNaN(x[j]) {
			sum += x[j]
			count++
		}
		if j := i - left - 1; j >= 0 && !math.IsNaN(x[j]) {
			sum -= x[j]
			count--
		}
		if count == 0 {
			sum = 0
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

// movingAverageDirect sums every window from scratch. It serves inputs holding
// infinities, which a sliding sum cannot remove again.
func movingAverageDirect(x []float64, window int) []float64 {
	n := len(x)
	out := make([]float64, n)
	right := (window - 1) / 2
	left := window - 1 - right

	for i := 0; i < n; i++ {
		lo := i - left
		if lo < 0 {
			lo = 0
		}
		hi := i + right
		if hi > n-1 {
			hi = n - 1
		}

		sum := 0.0
		count := 0
		for j := lo; j <= hi; j++ {
			if math.IsNaN(x[j]) {
				continue
			}
			sum += x[j]
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

// FillLocalMean replaces each NaN with the mean of the defined values among the
// `neighbors` samples on each side of it in the input. Values with no defined
// neighbor stay NaN.
func FillLocalMean(x []float64, neighbors int) []float64 {
	n := len(x)
	out := make([]float64, n)
	copy(out, x)

	for i := 0; i < n; i++ {
		if !math.IsNaN(x[i]) {
			continue
		}
		lo := i - neighbors
		if lo < 0 {
			lo = 0
		}
		hi := i + neighbors
		if hi > n-1 {
			hi = n - 1
		}

		sum := 0.0
		count := 0
		for j := lo; j <= hi; j++ {
			if j == i || math.IsNaN(x[j]) {
				continue
			}
			sum += x[j]
			count++
		}
		if count > 0 {
			out[i] = sum / float64(count)
		}
	}
	return out
}

// MedFilt applies a median filter. Samples beyond the ends are replaced by the
// nearest end sample. kernelSize must be a positive odd integer.
func MedFilt(data []float64, kernelSize int) []float64 {
	if kernelSize < 1 || kernelSize%2 == 0 {
		panic("kernelSize must be positive odd integer")
	}
	n := len(data)
	if n == 0 {
		return nil
	}

	half := kernelSize / 2
	result := make([]float64, n)
	window := make([]float64, kernelSize)

	for i := 0; i < n; i++ {
		for j := -half; j <= half; j++ {
			idx := i + j
			if idx < 0 {
				idx = 0
			} else if idx >= n {
				idx = n - 1
			}
			window[j+half] = data[idx]
		}

		sort.Float64s(window)
		result[i] = window[half]
	}
	return result
}
