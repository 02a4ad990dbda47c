package calculator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// curvePoints holds the usable (x, y) pairs of a table, sorted by x with
// duplicate x values merged.
type curvePoints struct {
	xs, ys []float64
}

// newCurvePoints drops pairs with a missing coordinate, sorts by x and
// replaces runs of equal x with the mean of their y values.
func newCurvePoints(xs, ys []float64) curvePoints {
	idx := make([]int, 0, len(xs))
	for i := range xs {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	var pts curvePoints
	for start := 0; start < len(idx); {
		end := start
		sum := 0.0
		for end < len(idx) && xs[idx[end]] == xs[idx[start]] {
			sum += ys[idx[end]]
			end++
		}
		pts.xs = append(pts.xs, xs[idx[start]])
		pts.ys = append(pts.ys, sum/float64(end-start))
		start = end
	}
	return pts
}

func (p curvePoints) Len() int { return len(p.xs) }

func (p curvePoints) Min() float64 { return p.xs[0] }

func (p curvePoints) Max() float64 { return p.xs[len(p.xs)-1] }

// predictor fits a piecewise linear interpolator. Values outside the x range
// take the nearest end value.
func (p curvePoints) predictor() interp.Predictor {
	if p.Len() == 1 {
		return interp.Constant(p.ys[0])
	}
	var pl interp.PiecewiseLinear
	// Fit only fails on unsorted or short input, which newCurvePoints rules out.
	_ = pl.Fit(p.xs, p.ys)
	return &pl
}

// at evaluates the curve at each of xs.
func (p curvePoints) at(xs []float64) []float64 {
	pred := p.predictor()
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = pred.Predict(x)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
