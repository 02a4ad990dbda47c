package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"signal-metrics/internal/analysis"

	"github.com/go-pdf/fpdf"
)

const chartImage = "chart"

// PDF writes a one page landscape document with the report's chart and its
// statistics.
func PDF(w io.Writer, r *analysis.Report, width, height int) error {
	var img bytes.Buffer
	if err := PNG(&img, r, width, height); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(Title(r), true)
	pdf.SetCreator("signal-metrics", false)
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	contentW := pageW - left - right

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, tr(Title(r)), "", 1, "C", false, 0, "")

	pdf.RegisterImageOptionsReader(chartImage, fpdf.ImageOptions{ImageType: "PNG"}, &img)
	imgW := contentW
	imgH := imgW * float64(height) / float64(width)
	if maxH := 130.0; imgH > maxH {
		imgH = maxH
		imgW = imgH * float64(width) / float64(height)
	}
	pdf.ImageOptions(chartImage, left+(contentW-imgW)/2, pdf.GetY(), imgW, imgH, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if lines := Summary(r); len(lines) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentW, 5, tr(strings.Join(lines, "\n")), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Summary formats the report's statistics one line each.
func Summary(r *analysis.Report) []string {
	var lines []string
	if r.FSPL != nil && r.TwoRay != nil {
		lines = append(lines, fmt.Sprintf(
			"Models: f = %.3g GHz, offset = %.1f dB, ht = %.1f m, hr = %.1f m, reference = %s",
			r.FSPL.FrequencyHz/1e9, r.FSPL.OffsetDB, r.TwoRay.TxHeightM, r.TwoRay.RxHeightM, r.Reference))
	}
	for _, s := range r.Series {
		for _, m := range s.Models {
			lines = append(lines, fmt.Sprintf("%s vs %s: average difference %.2f dB, fade rate %.2f%%",
				s.Name, m.Curve.Name, m.Comparison.AvgDiff, m.Comparison.PercentFadeRate))
		}
	}
	if r.Comparison != nil && len(r.Series) == 2 {
		lines = append(lines, fmt.Sprintf("%s vs %s: average %s difference %.2f",
			r.Series[0].Name, r.Series[1].Name, r.Y, r.Comparison.AvgDiff))
	}
	if r.Z != "" {
		for _, s := range r.Series {
			if len(s.Color) == 0 || len(s.Color) != len(s.Points.X) {
				continue
			}
			lo, hi := bounds(s.Color)
			lines = append(lines, fmt.Sprintf("Colour scale %s: %.2f (dark purple) to %.2f (yellow)", r.Z, lo, hi))
		}
	}
	return lines
}
