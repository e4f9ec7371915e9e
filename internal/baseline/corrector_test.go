package baseline

import (
	"math"
	"testing"
)

// steps is a 1000-sample ramp of 0.01 per sample with two +10 steps.
func steps() []float64 {
	x := make([]float64, 1000)
	for i := range x {
		x[i] = 2 + 0.01*float64(i)
		if i >= 300 {
			x[i] += 10
		}
		if i >= 700 {
			x[i] += 10
		}
	}
	return x
}

func TestCorrectShapes(t *testing.T) {
	raw := steps()
	orig := append([]float64(nil), raw...)
	peaks := []int{310, 710}

	res := NewCorrector(nil).Correct(raw, peaks)

	if res.Window != 20 {
		t.Errorf("Window = %d, want 20", res.Window)
	}
	for name, s := range map[string][]float64{"manual": res.Manual, "auto": res.Auto, "final": res.Final} {
		if len(s) != len(raw) {
			t.Errorf("%s has %d samples, want %d", name, len(s), len(raw))
		}
	}
	for i := range res.Final {
		if math.IsNaN(res.Final[i]) {
			t.Fatalf("final[%d] is NaN", i)
		}
		if want := (res.Manual[i] + res.Auto[i]) / 2; math.Abs(res.Final[i]-want) > 1e-12 {
			t.Fatalf("final[%d] = %v, want mean of paths %v", i, res.Final[i], want)
		}
	}
	for i := range raw {
		if raw[i] != orig[i] {
			t.Fatalf("raw[%d] modified", i)
		}
	}
}

func TestCorrectRemovesSteps(t *testing.T) {
	raw := steps()
	res := NewCorrector(nil).Correct(raw, []int{310, 710})

	tests := []struct {
		name    string
		index   int
		shift   float64
		epsilon float64
	}{
		{name: "before first event", index: 200, shift: 0, epsilon: 0.05},
		{name: "between events", index: 500, shift: 7.66625, epsilon: 0.01},
		{name: "after last event", index: 900, shift: 7.66625, epsilon: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := raw[tt.index] - res.Final[tt.index]
			if math.Abs(got-tt.shift) > tt.epsilon {
				t.Errorf("raw - final at %d = %v, want %v", tt.index, got, tt.shift)
			}
		})
	}
}

func TestCorrectFewPeaks(t *testing.T) {
	raw := make([]float64, 500)
	for i := range raw {
		raw[i] = 5
	}

	for _, peaks := range [][]int{nil, {250}} {
		res := NewCorrector(nil).Correct(raw, peaks)
		for i, v := range res.Final {
			if v != 5 {
				t.Fatalf("peaks %v: final[%d] = %v, want 5", peaks, i, v)
			}
		}
	}

	window := 10
	for _, peaks := range [][]int{nil, {250}} {
		ramp := make([]float64, 100)
		for i := range ramp {
			ramp[i] = float64(i)
		}
		got := removeSteps(ramp, peaks, window)
		for i := range ramp {
			if got[i] != ramp[i] {
				t.Fatalf("removeSteps with peaks %v changed sample %d", peaks, i)
			}
		}
	}
}

func TestRemoveStepsClampsStart(t *testing.T) {
	raw := []float64{1, 1, 5, 5, 5, 5, 9, 9}
	got := removeSteps(raw, []int{2, 6}, 4)

	// Only the first peak is applied. Its window start clamps to 0, so the
	// whole record is re-smoothed and lowered by raw[2] - raw[0].
	smoothed := []float64{1, 7.0 / 3, 3, 4, 5, 6, 7, 23.0 / 3}
	for i := range smoothed {
		if want := smoothed[i] - 4; math.Abs(got[i]-want) > 1e-12 {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestRemoveStepsLayersCorrections(t *testing.T) {
	raw := []float64{0, 0, 0, 4, 4, 4, 8, 8, 8, 12, 12, 12}
	got := removeSteps(raw, []int{3, 6, 9}, 2)

	// Peak 3: samples 1.. are averaged in pairs and lowered by raw[3] - raw[1] = 4.
	//   [0, -4, -4, -2, 0, 0, 2, 4, 4, 6, 8, 8]
	// Peak 6: samples 4.. of that output are averaged in pairs and lowered by
	// raw[6] - raw[4] = 4, not by the already corrected difference of 2.
	// Peak 9 is the last and is not applied.
	want := []float64{0, -4, -4, -2, -4, -4, -3, -1, 0, 1, 3, 4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func BenchmarkCorrectDayRecord(b *testing.B) {
	raw := make([]float64, 86400)
	for i := range raw {
		raw[i] = 2 + 0.001*float64(i)
	}
	var peaks []int
	for p := 1000; p < len(raw); p += 1000 {
		peaks = append(peaks, p)
	}
	c := NewCorrector(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Correct(raw, peaks)
	}
}
