package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"signal-metrics/internal/analysis"
	"signal-metrics/internal/models"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func sampleReport() *analysis.Report {
	fspl := models.DefaultFSPLParams()
	twoRay := models.DefaultTwoRayParams()
	return &analysis.Report{
		X:         "Distance (Meters)",
		Y:         "WIFI_RSSI_DBM",
		Z:         "WIFI_SNR_DB",
		Reference: models.ReferenceStart,
		FSPL:      &fspl,
		TwoRay:    &twoRay,
		Series: []analysis.Series{{
			Name:   "run1",
			Points: models.Curve{Name: "run1", X: []float64{0, 90, 230, 480}, Y: []float64{-40, -52, -61, -70}},
			Color:  []float64{35, 28, 20, 12},
			Models: []analysis.ModelResult{
				{
					Curve:      models.Curve{Name: "FSPL Prediction", X: []float64{90, 230, 480}, Y: []float64{-55, -63, -70}},
					Comparison: models.ModelComparison{AvgDiff: 2.67, PercentFadeRate: 4.3},
				},
				{
					Curve:      models.Curve{Name: "Two-Ray Ground Reflection Prediction", X: []float64{0, 90, 230, 480}, Y: []float64{-30, -68, -84, -97}},
					Comparison: models.ModelComparison{AvgDiff: 21.9, PercentFadeRate: 35.6},
				},
			},
		}},
	}
}

func TestPNGSignature(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG(&buf, sampleReport(), 800, 480); err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Fatalf("output is not a PNG")
	}
}

func TestPNGSinglePoint(t *testing.T) {
	r := &analysis.Report{
		X: "a", Y: "b",
		Series: []analysis.Series{{Name: "one", Points: models.Curve{X: []float64{5}, Y: []float64{-60}}}},
	}
	var buf bytes.Buffer
	if err := PNG(&buf, r, 400, 300); err != nil {
		t.Fatalf("PNG: %v", err)
	}
}

func TestChartSeries(t *testing.T) {
	ch, err := Chart(sampleReport(), 800, 480)
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if ch.Title != "Distance (Meters) vs WIFI_RSSI_DBM" {
		t.Errorf("title = %q", ch.Title)
	}
	if len(ch.Series) != 3 {
		t.Errorf("series = %d, want 3", len(ch.Series))
	}
	if ch.XAxis.Name != "Distance (Meters)" || ch.YAxis.Name != "WIFI_RSSI_DBM" {
		t.Errorf("axis names = %q, %q", ch.XAxis.Name, ch.YAxis.Name)
	}
}

func TestChartEmpty(t *testing.T) {
	r := &analysis.Report{X: "a", Y: "b", Series: []analysis.Series{{Name: "empty"}}}
	if _, err := Chart(r, 400, 300); !errors.Is(err, ErrNothingToPlot) {
		t.Fatalf("err = %v, want ErrNothingToPlot", err)
	}
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := PDF(&buf, sampleReport(), 1000, 600); err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestSummary(t *testing.T) {
	r := sampleReport()
	r.Series = append(r.Series, analysis.Series{Name: "run2"})
	r.Comparison = &models.InterpolatedComparison{AvgDiff: 1.5}

	lines := Summary(r)
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[1], "FSPL Prediction") || !strings.Contains(lines[1], "2.67 dB") {
		t.Errorf("FSPL line = %q", lines[1])
	}
	if !strings.Contains(lines[3], "run1 vs run2") || !strings.Contains(lines[3], "1.50") {
		t.Errorf("comparison line = %q", lines[3])
	}
	if want := "Colour scale WIFI_SNR_DB: 12.00 (dark purple) to 35.00 (yellow)"; lines[4] != want {
		t.Errorf("colour line = %q, want %q", lines[4], want)
	}
}

func TestSummaryWithoutColour(t *testing.T) {
	r := sampleReport()
	r.Z = ""
	for _, line := range Summary(r) {
		if strings.HasPrefix(line, "Colour scale") {
			t.Fatalf("unexpected colour line %q", line)
		}
	}
}
