package models

// ReferenceMode selects the anchor that distances are measured from.
type ReferenceMode string

const (
	// ReferenceStart measures from the first sample (the tower).
	ReferenceStart ReferenceMode = "start"
	// ReferenceEnd flips distances so the farthest sample becomes 0.
	ReferenceEnd ReferenceMode = "end"
)

func (r ReferenceMode) Valid() bool {
	return r == ReferenceStart || r == ReferenceEnd
}

// DistanceMethod names the surface distance formula.
type DistanceMethod string

const (
	MethodGeodesic  DistanceMethod = "geodesic"
	MethodHaversine DistanceMethod = "haversine"
)

func (m DistanceMethod) Valid() bool {
	return m == MethodGeodesic || m == MethodHaversine
}

type FSPLParams struct {
	FrequencyHz  float64 `json:"frequency_hz" yaml:"frequency_hz"`
	OffsetDB     float64 `json:"offset_db" yaml:"offset_db"`
	SpeedOfLight float64 `json:"speed_of_light" yaml:"speed_of_light"`
}

type TwoRayParams struct {
	TxHeightM float64 `json:"tx_height_m" yaml:"tx_height_m"`
	RxHeightM float64 `json:"rx_height_m" yaml:"rx_height_m"`
	OffsetDB  float64 `json:"offset_db" yaml:"offset_db"`
}

func DefaultFSPLParams() FSPLParams {
	return FSPLParams{FrequencyHz: 5.18e9, OffsetDB: 30, SpeedOfLight: 3e8}
}

func DefaultTwoRayParams() TwoRayParams {
	return TwoRayParams{TxHeightM: 8, RxHeightM: 2, OffsetDB: 30}
}

// Curve is a named series of points ready for plotting.
type Curve struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

type InterpolatedComparison struct {
	AvgDiff float64   `json:"avg_diff"`
	Grid    []float64 `json:"grid"`
	YA      []float64 `json:"y_a"`
	YB      []float64 `json:"y_b"`
}

type ModelComparison struct {
	AvgDiff         float64 `json:"avg_diff"`
	PercentFadeRate float64 `json:"percent_fade_rate"`
}
