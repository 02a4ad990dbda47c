// Package analysis turns one or two loaded datasets and a metric selection
// into the series and statistics the dashboard plots.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"signal-metrics/internal/calculator"
	"signal-metrics/internal/config"
	"signal-metrics/internal/dataset"
	"signal-metrics/internal/models"
)

// MaxDatasets is the number of files that can be compared at once.
const MaxDatasets = 2

// ErrInvalidRequest marks problems with the request itself rather than
// with the data.
var ErrInvalidRequest = errors.New("invalid request")

type Request struct {
	X         string               `json:"x"`
	Y         string               `json:"y"`
	Z         string               `json:"z,omitempty"`
	Reference models.ReferenceMode `json:"reference,omitempty"`
	Model     ModelOverrides       `json:"model"`
}

// ModelOverrides replaces configured model parameters for one analysis.
// Nil fields keep the configured value. The offset applies to both models.
type ModelOverrides struct {
	FrequencyHz *float64 `json:"frequency_hz,omitempty"`
	OffsetDB    *float64 `json:"offset_db,omitempty"`
	TxHeightM   *float64 `json:"tx_height_m,omitempty"`
	RxHeightM   *float64 `json:"rx_height_m,omitempty"`
}

type Report struct {
	X         string               `json:"x"`
	Y         string               `json:"y"`
	Z         string               `json:"z,omitempty"`
	Reference models.ReferenceMode `json:"reference"`
	Series    []Series             `json:"series"`
	// FSPL and TwoRay are the parameters used for the model overlays, set
	// only when the overlays were produced.
	FSPL   *models.FSPLParams   `json:"fspl,omitempty"`
	TwoRay *models.TwoRayParams `json:"two_ray,omitempty"`
	// Comparison is set when two datasets are analysed together.
	Comparison *models.InterpolatedComparison `json:"comparison,omitempty"`
}

// Series is one dataset's measured points plus any model overlays.
type Series struct {
	Name   string        `json:"name"`
	Points models.Curve  `json:"points"`
	Color  []float64     `json:"color,omitempty"`
	Models []ModelResult `json:"models,omitempty"`
}

type ModelResult struct {
	Curve      models.Curve           `json:"curve"`
	Comparison models.ModelComparison `json:"comparison"`
}

// Analyzer runs analyses with deployment-wide defaults.
type Analyzer struct {
	method     models.DistanceMethod
	rssiColumn string
	fspl       models.FSPLParams
	twoRay     models.TwoRayParams
}

func NewAnalyzer(cfg *config.Config) *Analyzer {
	return &Analyzer{
		method:     cfg.Analysis.DistanceMethod,
		rssiColumn: cfg.Analysis.RSSIColumn,
		fspl:       cfg.Models.FSPL,
		twoRay:     cfg.Models.TwoRay,
	}
}

func (a *Analyzer) DistanceMethod() models.DistanceMethod { return a.method }

// Params resolves the model parameters for a request.
func (a *Analyzer) Params(m ModelOverrides) (models.FSPLParams, models.TwoRayParams) {
	fspl, twoRay := a.fspl, a.twoRay
	if m.FrequencyHz != nil {
		fspl.FrequencyHz = *m.FrequencyHz
	}
	if m.OffsetDB != nil {
		fspl.OffsetDB = *m.OffsetDB
		twoRay.OffsetDB = *m.OffsetDB
	}
	if m.TxHeightM != nil {
		twoRay.TxHeightM = *m.TxHeightM
	}
	if m.RxHeightM != nil {
		twoRay.RxHeightM = *m.RxHeightM
	}
	return fspl, twoRay
}

// MetricOptions lists the metrics that can be selected: the first dataset's
// columns.
func MetricOptions(datasets []Dataset) []string {
	if len(datasets) == 0 {
		return nil
	}
	return datasets[0].Table.Columns()
}

// ModelsApply reports whether the propagation models are overlaid for the
// selected axes.
func (a *Analyzer) ModelsApply(x, y string) bool {
	return x == dataset.DistanceColumn && y == a.rssiColumn
}

// Run analyses the datasets for the requested axes.
func (a *Analyzer) Run(datasets []Dataset, req Request) (*Report, error) {
	if req.Reference == "" {
		req.Reference = models.ReferenceStart
	}
	fspl, twoRay := a.Params(req.Model)
	if err := validate(datasets, req, fspl, twoRay); err != nil {
		return nil, err
	}

	report := &Report{X: req.X, Y: req.Y, Reference: req.Reference}
	if len(datasets) == 1 {
		report.Z = req.Z
	}
	if a.ModelsApply(req.X, req.Y) {
		report.FSPL, report.TwoRay = &fspl, &twoRay
	}

	tables := make([]*dataset.Table, len(datasets))
	for i, ds := range datasets {
		tbl, err := a.prepare(ds.Table, req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ds.Name, err)
		}
		tables[i] = tbl

		series, err := a.series(ds.Name, tbl, req, fspl, twoRay, len(datasets) > 1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ds.Name, err)
		}
		report.Series = append(report.Series, series)
	}

	if len(tables) == 2 {
		cmp, err := calculator.InterpolatedDiff(tables[0], tables[1], req.X, req.Y)
		if err != nil {
			return nil, err
		}
		report.Comparison = &cmp
	}

	return report, nil
}

func validate(datasets []Dataset, req Request, fspl models.FSPLParams, twoRay models.TwoRayParams) error {
	switch {
	case len(datasets) == 0:
		return fmt.Errorf("%w: no datasets loaded", ErrInvalidRequest)
	case len(datasets) > MaxDatasets:
		return fmt.Errorf("%w: at most %d datasets can be analysed together", ErrInvalidRequest, MaxDatasets)
	case req.X == "" || req.Y == "":
		return fmt.Errorf("%w: x and y metrics are required", ErrInvalidRequest)
	case !req.Reference.Valid():
		return fmt.Errorf("%w: reference must be start or end, got %q", ErrInvalidRequest, req.Reference)
	}
	if err := config.ValidateFSPL(fspl); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := config.ValidateTwoRay(twoRay); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// prepare re-measures distances from the requested reference when distance
// is on an axis and checks that the selected columns exist.
func (a *Analyzer) prepare(tbl *dataset.Table, req Request) (*dataset.Table, error) {
	if req.X == dataset.DistanceColumn || req.Y == dataset.DistanceColumn {
		var err error
		tbl, err = calculator.AnnotateDistances(tbl, req.Reference, a.method)
		if err != nil {
			return nil, err
		}
	}
	for _, col := range []string{req.X, req.Y} {
		if !tbl.HasColumn(col) {
			return nil, &calculator.FieldError{Field: col, Row: -1, Err: calculator.ErrMissingField}
		}
	}
	return tbl, nil
}

func (a *Analyzer) series(name string, tbl *dataset.Table, req Request, fp models.FSPLParams, tp models.TwoRayParams, multi bool) (Series, error) {
	xs, _ := tbl.Column(req.X)
	ys, _ := tbl.Column(req.Y)

	s := Series{Name: name, Points: models.Curve{Name: name}}

	var zs []float64
	if req.Z != "" && !multi {
		col, ok := tbl.Column(req.Z)
		if !ok {
			return s, &calculator.FieldError{Field: req.Z, Row: -1, Err: calculator.ErrMissingField}
		}
		zs = col
	}

	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		if zs != nil && math.IsNaN(zs[i]) {
			continue
		}
		s.Points.X = append(s.Points.X, xs[i])
		s.Points.Y = append(s.Points.Y, ys[i])
		if zs != nil {
			s.Color = append(s.Color, zs[i])
		}
	}

	if !a.ModelsApply(req.X, req.Y) {
		return s, nil
	}

	suffix := ""
	if multi {
		suffix = " (" + name + ")"
	}

	fspl := calculator.FSPLCurve(xs, fp)
	fspl.Name += suffix
	fsplCmp, err := calculator.DiffVsModel(tbl, fspl.Y, req.X, req.Y)
	if err != nil {
		return s, fmt.Errorf("FSPL: %w", err)
	}

	twoRay := calculator.TwoRayCurve(xs, tp)
	twoRay.Name += suffix
	twoRayCmp, err := calculator.DiffVsModel(tbl, twoRay.Y, req.X, req.Y)
	if err != nil {
		return s, fmt.Errorf("Two-Ray: %w", err)
	}

	s.Models = []ModelResult{
		{Curve: fspl, Comparison: fsplCmp},
		{Curve: twoRay, Comparison: twoRayCmp},
	}
	return s, nil
}
