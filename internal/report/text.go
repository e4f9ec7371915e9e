package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chrissnell/ch4flux/internal/events"
	"github.com/chrissnell/ch4flux/internal/flux"
)

// Summary is the content of the human-readable report for one record.
type Summary struct {
	Source  string
	RunID   string
	Peaks   int
	Records []flux.Record
	Stats   flux.Stats
	Events  events.Summary
}

// FluxLine renders one retained segment.
func FluxLine(r flux.Record) string {
	return fmt.Sprintf("- Slope: %.4f ppm/s | r²: %.3f | T: %.1f°C | P: %.1f mmHg | Diffusive Flux: %.2f µmol/m²·h",
		r.Slope, r.RSquared, r.MeanTemperature, r.MeanPressure, r.Flux)
}

// WriteText writes the report: retained segments, flux statistics and the
// event summary.
func WriteText(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Diffusive flux report: %s\n", s.Source)
	if s.RunID != "" {
		fmt.Fprintf(bw, "Run: %s\n", s.RunID)
	}
	fmt.Fprintf(bw, "Valid peaks: %d\n\n", s.Peaks)

	fmt.Fprintf(bw, "Retained segments (%d):\n", len(s.Records))
	if len(s.Records) == 0 {
		fmt.Fprintln(bw, "No segment passed the quality rules.")
	}
	for _, r := range s.Records {
		fmt.Fprintln(bw, FluxLine(r))
		fmt.Fprintf(bw, "  samples %d-%d\n", r.Segment.Start, r.Segment.End)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Diffusive flux statistics (µmol/m²·h):")
	st := s.Stats
	fmt.Fprintf(bw, "count  %d\n", st.Count)
	if st.Count > 0 {
		for _, row := range []struct {
			label string
			value float64
		}{
			{"mean", st.Mean},
			{"std", st.Std},
			{"min", st.Min},
			{"25%", st.Q25},
			{"50%", st.Median},
			{"75%", st.Q75},
			{"max", st.Max},
		} {
			fmt.Fprintf(bw, "%-6s %.4f\n", row.label, row.value)
		}
	}

	ev := s.Events
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Ebullition summary:")
	fmt.Fprintf(bw, "total_adjusted_concentration_ppm: %.4f\n", ev.TotalAdjustedConcentration)
	fmt.Fprintf(bw, "final_concentration_ppm: %.4f\n", ev.FinalConcentration)
	if ev.Capped() {
		fmt.Fprintf(bw, "measured_event_concentration_ppm: %.4f\n", ev.MeasuredConcentration)
	}
	fmt.Fprintf(bw, "percent_contribution: %.2f\n", ev.PercentContribution)
	fmt.Fprintf(bw, "event_count: %d\n", ev.EventCount)
	fmt.Fprintf(bw, "total_event_duration_s: %.2f\n", ev.TotalDuration)
	fmt.Fprintf(bw, "average_event_duration_s: %.2f\n", ev.AverageDuration)
	fmt.Fprintf(bw, "events_per_hour: %.4f\n", ev.EventsPerHour)

	return bw.Flush()
}
