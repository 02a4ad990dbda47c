package calculator

import (
	"fmt"
	"math"

	"signal-metrics/internal/dataset"
	"signal-metrics/internal/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GridPoints is the number of evenly spaced samples used to compare two
// datasets over their shared x range.
const GridPoints = 100

// InterpolatedDiff compares yField of two tables over the x range they
// share. Both curves are linearly interpolated on a common grid of
// GridPoints samples and the mean absolute difference is returned along
// with the grid and both interpolated series.
func InterpolatedDiff(a, b *dataset.Table, xField, yField string) (models.InterpolatedComparison, error) {
	var res models.InterpolatedComparison

	pa, err := tablePoints(a, xField, yField)
	if err != nil {
		return res, err
	}
	pb, err := tablePoints(b, xField, yField)
	if err != nil {
		return res, err
	}

	xMin := math.Max(pa.Min(), pb.Min())
	xMax := math.Min(pa.Max(), pb.Max())
	if xMin > xMax {
		return res, fmt.Errorf("%w: [%g, %g] and [%g, %g]", ErrEmptyOverlap, pa.Min(), pa.Max(), pb.Min(), pb.Max())
	}

	grid := floats.Span(make([]float64, GridPoints), xMin, xMax)
	res.Grid = grid
	res.YA = pa.at(grid)
	res.YB = pb.at(grid)
	diffs := make([]float64, len(grid))
	for i := range grid {
		diffs[i] = math.Abs(res.YA[i] - res.YB[i])
	}
	res.AvgDiff = stat.Mean(diffs, nil)
	return res, nil
}

// DiffVsModel compares measured yField values against model predictions.
//
// Only rows with xField > 0 take part. modelValues must already be aligned
// with the table: either one value per such row (as FSPL returns) or one
// value per table row (as TwoRay returns). Rows with a missing measurement
// are skipped together with their model value.
func DiffVsModel(t *dataset.Table, modelValues []float64, xField, yField string) (models.ModelComparison, error) {
	var res models.ModelComparison

	xs, ok := t.Column(xField)
	if !ok {
		return res, missingField(xField)
	}
	ys, ok := t.Column(yField)
	if !ok {
		return res, missingField(yField)
	}

	valid := 0
	for _, x := range xs {
		if x > 0 {
			valid++
		}
	}
	fullRows := len(modelValues) == len(xs)
	if len(modelValues) != valid && !fullRows {
		return res, fmt.Errorf("%w: got %d values for %d rows (%d with %s > 0)",
			ErrLengthMismatch, len(modelValues), len(xs), valid, xField)
	}

	var diffs, magnitudes []float64
	k := 0
	for i, x := range xs {
		if !(x > 0) {
			continue
		}
		m := modelValues[k]
		if fullRows {
			m = modelValues[i]
		}
		k++
		if !isFinite(ys[i]) || !isFinite(m) {
			continue
		}
		diffs = append(diffs, math.Abs(ys[i]-m))
		magnitudes = append(magnitudes, math.Abs(ys[i]))
	}
	if len(diffs) == 0 {
		return res, fmt.Errorf("%w: no rows with %s > 0 and a measured %s", ErrDegenerateStatistic, xField, yField)
	}

	actualMean := stat.Mean(magnitudes, nil)
	if actualMean == 0 {
		return res, fmt.Errorf("%w: mean |%s| is zero", ErrDegenerateStatistic, yField)
	}

	res.AvgDiff = stat.Mean(diffs, nil)
	res.PercentFadeRate = res.AvgDiff / actualMean * 100
	return res, nil
}

func tablePoints(t *dataset.Table, xField, yField string) (curvePoints, error) {
	xs, ok := t.Column(xField)
	if !ok {
		return curvePoints{}, missingField(xField)
	}
	ys, ok := t.Column(yField)
	if !ok {
		return curvePoints{}, missingField(yField)
	}
	pts := newCurvePoints(xs, ys)
	if pts.Len() == 0 {
		return curvePoints{}, &FieldError{Field: yField, Row: -1, Err: ErrInsufficientData}
	}
	return pts, nil
}
