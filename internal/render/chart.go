// Package render draws analysis reports as PNG charts and PDF documents.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"signal-metrics/internal/analysis"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToPlot is returned when no series has a plottable point.
var ErrNothingToPlot = errors.New("nothing to plot")

var (
	datasetColors = []drawing.Color{chart.ColorBlue, chart.ColorOrange}
	modelColors   = []drawing.Color{chart.ColorGreen, chart.ColorRed}
	dashed        = []float64{6, 4}
)

// Title is the heading used for a report's chart and PDF.
func Title(r *analysis.Report) string {
	return fmt.Sprintf("%s vs %s", r.X, r.Y)
}

// Chart builds the chart for a report: one scatter series per dataset and a
// dashed line per model overlay.
func Chart(r *analysis.Report, width, height int) (chart.Chart, error) {
	var series []chart.Series
	var xs, ys []float64

	for i, s := range r.Series {
		if len(s.Points.X) == 0 {
			continue
		}
		xs = append(xs, s.Points.X...)
		ys = append(ys, s.Points.Y...)

		style := chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    3,
			DotColor:    datasetColors[i%len(datasetColors)],
		}
		if len(s.Color) == len(s.Points.X) {
			style.DotColorProvider = viridis(s.Color)
		}
		name := s.Name
		if r.Z != "" {
			name = fmt.Sprintf("%s (colour: %s)", s.Name, r.Z)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			Style:   style,
			XValues: s.Points.X,
			YValues: s.Points.Y,
		})
	}

	for i, s := range r.Series {
		for j, m := range s.Models {
			if len(m.Curve.X) == 0 {
				continue
			}
			xs = append(xs, m.Curve.X...)
			ys = append(ys, m.Curve.Y...)

			color := modelColors[j%len(modelColors)]
			if i > 0 {
				color = color.WithAlpha(150)
			}
			series = append(series, chart.ContinuousSeries{
				Name: m.Curve.Name,
				Style: chart.Style{
					StrokeColor:     color,
					StrokeWidth:     2,
					StrokeDashArray: dashed,
				},
				XValues: m.Curve.X,
				YValues: m.Curve.Y,
			})
		}
	}

	if len(series) == 0 {
		return chart.Chart{}, ErrNothingToPlot
	}

	ch := chart.Chart{
		Title:      Title(r),
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  r.X,
			Range: paddedRange(xs),
		},
		YAxis: chart.YAxis{
			Name:  r.Y,
			Range: paddedRange(ys),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}

// PNG renders the report's chart to w.
func PNG(w io.Writer, r *analysis.Report, width, height int) error {
	ch, err := Chart(r, width, height)
	if err != nil {
		return err
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func viridis(values []float64) chart.DotColorProvider {
	lo, hi := bounds(values)
	return func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
		if index < 0 || index >= len(values) {
			return chart.ColorBlack
		}
		if lo == hi {
			return chart.Viridis(0.5, 0, 1)
		}
		return chart.Viridis(values[index], lo, hi)
	}
}

// paddedRange widens a degenerate range so a single value can still be
// drawn.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := bounds(values)
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.05, 1)
		lo, hi = lo-pad, hi+pad
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
