// Package charts renders the diagnostic PNG figures of one processed record.
package charts

import (
	"fmt"
	"image/color"
	"math"

	"github.com/chrissnell/ch4flux/internal/flux"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	width  = 12 * vg.Inch
	height = 5 * vg.Inch
)

var (
	rawColor       = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	smoothColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	correctedColor = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	peakColor      = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	fitColor       = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// xys pairs t with y, dropping undefined samples.
func xys(t, y []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(y))
	for i := range y {
		if i >= len(t) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: t[i], Y: y[i]})
	}
	return pts
}

// at picks y at the given indices.
func at(t, y []float64, idx []int) plotter.XYs {
	pts := make(plotter.XYs, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(y) || i >= len(t) {
			continue
		}
		pts = append(pts, plotter.XY{X: t[i], Y: y[i]})
	}
	return pts
}

func newPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, name string, pts plotter.XYs, c color.Color, w vg.Length) error {
	if len(pts) == 0 {
		return nil
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = w
	p.Add(l)
	if name != "" {
		p.Legend.Add(name, l)
	}
	return nil
}

func addMarkers(p *plot.Plot, name string, pts plotter.XYs, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(4)
	p.Add(s)
	p.Legend.Add(name, s)
	return nil
}

// FinalComparison overlays the raw and the final corrected concentration.
func FinalComparison(path, source string, t, raw, final []float64) error {
	p := newPlot(source+": raw vs corrected", "CH4 (ppm)")
	if err := addLine(p, "Raw", xys(t, raw), rawColor, vg.Points(1)); err != nil {
		return err
	}
	if err := addLine(p, "Corrected", xys(t, final), correctedColor, vg.Points(1.5)); err != nil {
		return err
	}
	return p.Save(width, height, path)
}

// Peaks draws the conditioned signal, the detection threshold and the valid peaks.
func Peaks(path, source string, t, smoothed []float64, threshold float64, valid []int) error {
	p := newPlot(source+": detected events", "Filtered CH4 (ppm)")
	if err := addLine(p, "Filtered", xys(t, smoothed), smoothColor, vg.Points(1)); err != nil {
		return err
	}
	if !math.IsInf(threshold, 0) && !math.IsNaN(threshold) && len(t) > 0 {
		line := plotter.XYs{{X: t[0], Y: threshold}, {X: t[len(t)-1], Y: threshold}}
		if err := addLine(p, "Threshold", line, fitColor, vg.Points(1)); err != nil {
			return err
		}
	}
	if err := addMarkers(p, "Peaks", at(t, smoothed, valid), peakColor); err != nil {
		return err
	}
	return p.Save(width, height, path)
}

// Segments draws the corrected concentration with the regression line of every
// retained flux record.
func Segments(path, source string, t, final []float64, records []flux.Record) error {
	p := newPlot(source+": flux segments", "CH4 (ppm)")
	if err := addLine(p, "Corrected", xys(t, final), correctedColor, vg.Points(1)); err != nil {
		return err
	}
	for i, r := range records {
		seg := r.Segment
		if seg.Start < 0 || seg.End > len(t) || seg.Len() < 2 {
			continue
		}
		t0, t1 := t[seg.Start], t[seg.End-1]
		fit := plotter.XYs{
			{X: t0, Y: r.Intercept + r.Slope*t0},
			{X: t1, Y: r.Intercept + r.Slope*t1},
		}
		name := ""
		if i == 0 {
			name = "OLS fit"
		}
		if err := addLine(p, name, fit, fitColor, vg.Points(2)); err != nil {
			return err
		}
	}
	return p.Save(width, height, path)
}

// PeakSteps draws the raw concentration against its step response at the peaks.
func PeakSteps(path, source string, t, raw, steps []float64, valid []int) error {
	p := newPlot(source+": peak steps", "CH4 (ppm)")
	if err := addLine(p, "Raw", xys(t, raw), rawColor, vg.Points(1)); err != nil {
		return err
	}
	if err := addLine(p, "Step response", xys(t, steps), smoothColor, vg.Points(1.5)); err != nil {
		return err
	}
	if err := addMarkers(p, "Peaks", at(t, raw, valid), peakColor); err != nil {
		return err
	}
	return p.Save(width, height, path)
}
