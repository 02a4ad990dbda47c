package calculator

import (
	"math"

	"signal-metrics/internal/dataset"
	"signal-metrics/internal/models"
)

// AnnotateDistances returns a copy of t with a "Distance (Meters)" column
// holding each row's surface distance from the reference point.
//
// With models.ReferenceStart the anchor is row 0. With models.ReferenceEnd
// distances are first measured from row 0 and then flipped about their
// maximum, so the farthest sample reads 0.
func AnnotateDistances(t *dataset.Table, ref models.ReferenceMode, method models.DistanceMethod) (*dataset.Table, error) {
	lats, ok := t.Column(dataset.LatColumn)
	if !ok {
		return nil, missingField(dataset.LatColumn)
	}
	lons, ok := t.Column(dataset.LonColumn)
	if !ok {
		return nil, missingField(dataset.LonColumn)
	}
	if t.Len() == 0 {
		return nil, ErrEmptyTable
	}

	for i := range lats {
		if err := checkCoordinate(dataset.LatColumn, i, lats[i], 90); err != nil {
			return nil, err
		}
		if err := checkCoordinate(dataset.LonColumn, i, lons[i], 180); err != nil {
			return nil, err
		}
	}

	distances := Distances(lats, lons, distanceFunc(method))
	if ref == models.ReferenceEnd {
		distances = FlipDistances(distances)
	}

	return t.WithColumn(dataset.DistanceColumn, distances)
}

// Distances measures every point from the first one. The caller guarantees
// at least one point and valid coordinates. Long tracks are split across
// CPUs; each output index is written by exactly one goroutine.
func Distances(lats, lons []float64, dist DistanceFunc) []float64 {
	out := make([]float64, len(lats))
	lat0, lon0 := lats[0], lons[0]
	forEachChunk(len(lats), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = dist(lat0, lon0, lats[i], lons[i])
		}
	})
	return out
}

// FlipDistances maps every value d to max-d.
func FlipDistances(distances []float64) []float64 {
	maxDistance := 0.0
	for _, d := range distances {
		maxDistance = math.Max(maxDistance, d)
	}
	out := make([]float64, len(distances))
	for i, d := range distances {
		out[i] = maxDistance - d
	}
	return out
}

func checkCoordinate(field string, row int, v, limit float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return &FieldError{Field: field, Row: row, Value: v, Err: ErrInvalidCoordinate}
	}
	return nil
}
