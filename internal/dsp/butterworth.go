package dsp

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/chrissnell/ch4flux/internal/series"
)

// ErrInvalidCutoff is returned when band edges are not inside (0, Nyquist).
var ErrInvalidCutoff = fmt.Errorf("%w: cutoff frequencies must satisfy 0 < low < high < nyquist", series.ErrData)

// ButterBandpass designs a digital Butterworth band-pass filter.
// order is the order of the low-pass prototype, so the returned transfer function
// has 2*order+1 numerator and denominator coefficients with a[0] == 1.
// Cutoffs and sample rate are in Hz.
func ButterBandpass(order int, lowHz, highHz, sampleRate float64) (b, a []float64, err error) {
	if order < 1 {
		return nil, nil, fmt.Errorf("filter order %d must be positive", order)
	}
	nyquist := 0.5 * sampleRate
	low := lowHz / nyquist
	high := highHz / nyquist
	if !(low > 0 && low < high && high < 1) {
		return nil, nil, fmt.Errorf("band %g-%g Hz at %g Hz sampling: %w", lowHz, highHz, sampleRate, ErrInvalidCutoff)
	}

	// Pre-warp the normalized edges for the bilinear transform (design rate 2).
	const designRate = 2.0
	w1 := 2 * designRate * math.Tan(math.Pi*low/designRate)
	w2 := 2 * designRate * math.Tan(math.Pi*high/designRate)

	zeros, poles, gain := butterPrototype(order)
	zeros, poles, gain = lowpassToBandpass(zeros, poles, gain, math.Sqrt(w1*w2), w2-w1)
	zeros, poles, gain = bilinear(zeros, poles, gain, designRate)

	bc := poly(zeros)
	ac := poly(poles)
	b = make([]float64, len(bc))
	a = make([]float64, len(ac))
	for i := range bc {
		b[i] = gain * real(bc[i])
	}
	for i := range ac {
		a[i] = real(ac[i])
	}
	return b, a, nil
}

// butterPrototype returns the analog low-pass prototype with unit cutoff.
func butterPrototype(order int) (zeros, poles []complex128, gain float64) {
	poles = make([]complex128, order)
	for k := 0; k < order; k++ {
		m := float64(-order + 1 + 2*k)
		poles[k] = -cmplx.Exp(complex(0, math.Pi*m/float64(2*order)))
	}
	return nil, poles, 1
}

// lowpassToBandpass moves a unit-cutoff low-pass onto center w0 with bandwidth bw.
func lowpassToBandpass(zeros, poles []complex128, gain, w0, bw float64) ([]complex128, []complex128, float64) {
	degree := len(poles) - len(zeros)
	w0sq := complex(w0*w0, 0)
	half := complex(bw/2, 0)

	split := func(roots []complex128) []complex128 {
		out := make([]complex128, 0, 2*len(roots))
		for _, r := range roots {
			s := r * half
			out = append(out, s+cmplx.Sqrt(s*s-w0sq))
		}
		for _, r := range roots {
			s := r * half
			out = append(out, s-cmplx.Sqrt(s*s-w0sq))
		}
		return out
	}

	bz := split(zeros)
	for i := 0; i < degree; i++ {
		bz = append(bz, 0)
	}
	return bz, split(poles), gain * math.Pow(bw, float64(degree))
}

// bilinear maps analog zeros, poles and gain to the z-plane.
func bilinear(zeros, poles []complex128, gain, rate float64) ([]complex128, []complex128, float64) {
	degree := len(poles) - len(zeros)
	fs2 := complex(2*rate, 0)

	num := complex(1, 0)
	den := complex(1, 0)
	dz := make([]complex128, 0, len(zeros)+degree)
	for _, z := range zeros {
		dz = append(dz, (fs2+z)/(fs2-z))
		num *= fs2 - z
	}
	for i := 0; i < degree; i++ {
		dz = append(dz, -1)
	}
	dp := make([]complex128, 0, len(poles))
	for _, p := range poles {
		dp = append(dp, (fs2+p)/(fs2-p))
		den *= fs2 - p
	}
	return dz, dp, gain * real(num/den)
}

// poly expands prod(x - r) into coefficients, highest power first.
func poly(roots []complex128) []complex128 {
	c := make([]complex128, 1, len(roots)+1)
	c[0] = 1
	for _, r := range roots {
		c = append(c, 0)
		for i := len(c) - 1; i > 0; i-- {
			c[i] -= r * c[i-1]
		}
	}
	return c
}
