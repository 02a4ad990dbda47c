package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"signal-metrics/internal/dataset"
	"signal-metrics/internal/excel"
)

const track = "GPS_LAT_DEG,GPS_LON_DEG,WIFI_RSSI_DBM\n" +
	"29.5593,-95.0900,-40\n" +
	"29.5600,-95.0890,-52\n" +
	"29.5610,-95.0875,-61\n" +
	"29.5625,-95.0850,-70\n"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTrack(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(track), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestAnalyzePrintsModelStatistics(t *testing.T) {
	dir := t.TempDir()
	csv := writeTrack(t, dir, "walk.csv")
	pdf := filepath.Join(dir, "plot.pdf")
	xlsx := filepath.Join(dir, "walk.xlsx")

	out, err := runCLI(t, "analyze", csv, "--frequency", "2.4e9", "--reference", "end", "--pdf", pdf, "--xlsx", xlsx)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Distance (Meters) vs WIFI_RSSI_DBM") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "FSPL Prediction: average difference") {
		t.Errorf("missing FSPL statistics:\n%s", out)
	}
	if !strings.Contains(out, "f = 2.4 GHz") || !strings.Contains(out, "reference = end") {
		t.Errorf("flags not applied:\n%s", out)
	}

	data, err := os.ReadFile(pdf)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("pdf not written: %v", err)
	}

	f, err := os.Open(xlsx)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	tbl, err := excel.ReadTable(f, "")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Value(tbl.Len()-1, dataset.DistanceColumn) != 0 {
		t.Fatalf("end reference should put the last sample at 0, got %v", tbl.Value(tbl.Len()-1, dataset.DistanceColumn))
	}
}

func TestAnalyzeTwoFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTrack(t, dir, "a.csv")
	b := writeTrack(t, dir, "b.csv")

	out, err := runCLI(t, "analyze", a, b)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	if !strings.Contains(out, "File_a.csv vs File_b.csv: average WIFI_RSSI_DBM difference 0.00") {
		t.Errorf("missing comparison:\n%s", out)
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	csv := writeTrack(t, dir, "walk.csv")

	if _, err := runCLI(t, "analyze", csv, "--y", "NOPE"); err == nil {
		t.Errorf("expected an error for an unknown column")
	}
	if _, err := runCLI(t, "analyze", csv, "--reference", "middle"); err == nil {
		t.Errorf("expected an error for an unknown reference")
	}
	if _, err := runCLI(t, "analyze"); err == nil {
		t.Errorf("expected an error without files")
	}
}
