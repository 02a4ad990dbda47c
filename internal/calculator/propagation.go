package calculator

import (
	"math"

	"signal-metrics/internal/models"
)

// twoRayMinDistance keeps the d^4 term away from its singularity.
const twoRayMinDistance = 1.0 // meters

// FSPL evaluates free space path loss in dB:
//
//	20·log10(d) + 20·log10(f) + 20·log10(4π/c) − offset
//
// Distances that are not positive have no defined loss and are left out,
// so the result can be shorter than the input.
func FSPL(distances []float64, p models.FSPLParams) []float64 {
	out := make([]float64, 0, len(distances))
	for _, d := range distances {
		if !(d > 0) {
			continue
		}
		out = append(out, fsplAt(d, p))
	}
	return out
}

// FSPLCurve pairs the FSPL prediction with the distances it was evaluated
// at and negates it so it reads as a received level next to RSSI.
func FSPLCurve(distances []float64, p models.FSPLParams) models.Curve {
	curve := models.Curve{Name: "FSPL Prediction"}
	for _, d := range distances {
		if !(d > 0) {
			continue
		}
		curve.X = append(curve.X, d)
		curve.Y = append(curve.Y, -fsplAt(d, p))
	}
	return curve
}

func fsplAt(d float64, p models.FSPLParams) float64 {
	return 20*math.Log10(d) + 20*math.Log10(p.FrequencyHz) + 20*math.Log10(4*math.Pi/p.SpeedOfLight) - p.OffsetDB
}

// TwoRay evaluates the two-ray ground reflection model in dB:
//
//	offset + 10·log10((ht²·hr²) / d⁴)
//
// Distances under one meter are clamped, so the result always has the same
// length as the input.
func TwoRay(distances []float64, p models.TwoRayParams) []float64 {
	out := make([]float64, len(distances))
	heights := p.TxHeightM * p.TxHeightM * p.RxHeightM * p.RxHeightM
	for i, d := range distances {
		if d < twoRayMinDistance {
			d = twoRayMinDistance
		}
		out[i] = p.OffsetDB + 10*math.Log10(heights/math.Pow(d, 4))
	}
	return out
}

// TwoRayCurve pairs the two-ray prediction with its distances.
func TwoRayCurve(distances []float64, p models.TwoRayParams) models.Curve {
	x := make([]float64, len(distances))
	copy(x, distances)
	return models.Curve{
		Name: "Two-Ray Ground Reflection Prediction",
		X:    x,
		Y:    TwoRay(distances, p),
	}
}
