package flux

// Segment is the half-open sample range [Start, End).
type Segment struct {
	Start int
	End   int
}

// Len returns the number of samples in the segment.
func (s Segment) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Segments splits n samples into the quiescent stretches between events,
// leaving guard samples on each side of every peak. Without peaks the whole
// record is one segment. The trailing segment stops one sample short of the end.
func Segments(peaks []int, n, guard int) []Segment {
	if n <= 0 {
		return nil
	}
	if len(peaks) == 0 {
		return []Segment{{Start: 0, End: n}}
	}

	var segments []Segment
	add := func(start, end int) {
		if start < 0 {
			start = 0
		}
		if end > n {
			end = n
		}
		if end > start {
			segments = append(segments, Segment{Start: start, End: end})
		}
	}

	add(0, peaks[0]-guard)
	for i := 0; i < len(peaks)-1; i++ {
		add(peaks[i]+guard, peaks[i+1]-guard)
	}
	add(peaks[len(peaks)-1]+guard, n-1)

	return segments
}
