// Package peaks locates ebullition-event candidates in a conditioned signal.
package peaks

import (
	"sort"
)

// LocalMaxima returns the indices of every local maximum of x in increasing order.
// A flat top reports its midpoint (rounded down). The first and last samples are
// never maxima.
func LocalMaxima(x []float64) []int {
	var maxima []int
	n := len(x)
	i := 1
	for i < n-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < n-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				maxima = append(maxima, (i+ahead-1)/2)
				i = ahead
			}
		}
		i++
	}
	return maxima
}

// AboveHeight keeps the peaks whose value is at least minHeight.
func AboveHeight(x []float64, peaks []int, minHeight float64) []int {
	kept := make([]int, 0, len(peaks))
	for _, p := range peaks {
		if x[p] >= minHeight {
			kept = append(kept, p)
		}
	}
	return kept
}

// SelectByDistance enforces a minimum spacing between peaks. Peaks are visited
// from highest to lowest; each surviving peak removes every other peak closer
// than distance samples. The result stays in index order.
func SelectByDistance(x []float64, peaks []int, distance int) []int {
	if distance <= 1 || len(peaks) < 2 {
		out := make([]int, len(peaks))
		copy(out, peaks)
		return out
	}

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}

	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[peaks[order[a]]] < x[peaks[order[b]]]
	})

	for k := len(order) - 1; k >= 0; k-- {
		j := order[k]
		if !keep[j] {
			continue
		}
		for l := j - 1; l >= 0 && peaks[j]-peaks[l] < distance; l-- {
			keep[l] = false
		}
		for r := j + 1; r < len(peaks) && peaks[r]-peaks[j] < distance; r++ {
			keep[r] = false
		}
	}

	out := make([]int, 0, len(peaks))
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// Prominences returns how far each peak rises above the higher of the two
// lowest points separating it from taller terrain on either side.
func Prominences(x []float64, peaks []int) []float64 {
	out := make([]float64, len(peaks))
	for k, p := range peaks {
		leftMin := x[p]
		for i := p; i >= 0 && x[i] <= x[p]; i-- {
			if x[i] < leftMin {
				leftMin = x[i]
			}
		}
		rightMin := x[p]
		for i := p; i < len(x) && x[i] <= x[p]; i++ {
			if x[i] < rightMin {
				rightMin = x[i]
			}
		}
		base := leftMin
		if rightMin > base {
			base = rightMin
		}
		out[k] = x[p] - base
	}
	return out
}
