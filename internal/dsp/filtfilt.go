package dsp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LFilter runs the IIR filter (b, a) over x in transposed direct form II,
// starting from state zi (nil for a zero state). a[0] must be non-zero.
func LFilter(b, a, x, zi []float64) []float64 {
	b, a = normalize(b, a)
	order := len(a) - 1

	z := make([]float64, order)
	copy(z, zi)

	y := make([]float64, len(x))
	for n, xn := range x {
		yn := b[0]*xn + safeState(z, 0)
		for i := 0; i < order-1; i++ {
			z[i] = b[i+1]*xn + z[i+1] - a[i+1]*yn
		}
		if order > 0 {
			z[order-1] = b[order]*xn - a[order]*yn
		}
		y[n] = yn
	}
	return y
}

func safeState(z []float64, i int) float64 {
	if i < len(z) {
		return z[i]
	}
	return 0
}

// normalize pads b and a to equal length and scales both so a[0] == 1.
func normalize(b, a []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	nb := make([]float64, n)
	na := make([]float64, n)
	copy(nb, b)
	copy(na, a)
	if a0 := na[0]; a0 != 1 {
		for i := range nb {
			nb[i] /= a0
			na[i] /= a0
		}
	}
	return nb, na
}

// LFilterZi returns the initial state of LFilter that corresponds to the
// steady state of a unit step input.
func LFilterZi(b, a []float64) ([]float64, error) {
	b, a = normalize(b, a)
	m := len(a) - 1
	if m == 0 {
		return nil, nil
	}

	// (I - companion(a)^T) zi = b[1:] - a[1:]*b[0]
	lhs := mat.NewDense(m, m, nil)
	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		lhs.Set(i, 0, a[i+1])
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}
	for i := 0; i < m; i++ {
		lhs.Set(i, i, lhs.At(i, i)+1)
		if i+1 < m {
			lhs.Set(i, i+1, lhs.At(i, i+1)-1)
		}
	}

	var zi mat.VecDense
	if err := zi.SolveVec(lhs, rhs); err != nil {
		return nil, fmt.Errorf("solving filter initial conditions: %w", err)
	}
	return mat.Col(nil, 0, &zi), nil
}

// FiltFilt applies (b, a) forward and backward for zero phase distortion.
// The input is extended at both ends by odd reflection of up to 3*len(a)
// samples, and each pass starts from the steady state scaled to its first sample.
func FiltFilt(b, a, x []float64) ([]float64, error) {
	if len(x) == 0 {
		return []float64{}, nil
	}
	taps := len(a)
	if len(b) > taps {
		taps = len(b)
	}
	edge := 3 * taps
	if edge > len(x)-1 {
		edge = len(x) - 1
	}

	zi, err := LFilterZi(b, a)
	if err != nil {
		return nil, err
	}

	ext := oddExtend(x, edge)

	y := LFilter(b, a, ext, scaled(zi, ext[0]))
	reverse(y)
	y = LFilter(b, a, y, scaled(zi, y[0]))
	reverse(y)

	out := make([]float64, len(x))
	copy(out, y[edge:edge+len(x)])
	return out, nil
}

func oddExtend(x []float64, edge int) []float64 {
	n := len(x)
	ext := make([]float64, 0, n+2*edge)
	for j := edge; j >= 1; j-- {
		ext = append(ext, 2*x[0]-x[j])
	}
	ext = append(ext, x...)
	for j := 1; j <= edge; j++ {
		ext = append(ext, 2*x[n-1]-x[n-1-j])
	}
	return ext
}

func scaled(v []float64, k float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] * k
	}
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
