package calculator

import (
	"signal-metrics/internal/models"

	"github.com/tidwall/geodesic"
)

// Geodesic returns the WGS-84 ellipsoidal surface distance in meters.
func Geodesic(lat1, lon1, lat2, lon2 float64) float64 {
	var s12 float64
	geodesic.WGS84.Inverse(lat1, lon1, lat2, lon2, &s12, nil, nil)
	return s12
}

// DistanceFunc measures the surface distance between two points in meters.
type DistanceFunc func(lat1, lon1, lat2, lon2 float64) float64

func distanceFunc(method models.DistanceMethod) DistanceFunc {
	if method == models.MethodHaversine {
		return Haversine
	}
	return Geodesic
}
