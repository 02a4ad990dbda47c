package analysis

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"signal-metrics/internal/calculator"
	"signal-metrics/internal/dataset"
	"signal-metrics/internal/excel"
	"signal-metrics/internal/models"
)

// Dataset is a loaded measurement file and its display name.
type Dataset struct {
	Name  string
	Table *dataset.Table
}

// Format returns the file format implied by a file name: "csv" or "xlsx".
func Format(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return "csv", nil
	case ".xlsx", ".xlsm":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", ErrInvalidRequest, filepath.Ext(filename))
	}
}

// DefaultName is the display name used when the user gives none.
func DefaultName(filename string) string {
	return "File_" + filepath.Base(filename)
}

// Load parses a measurement file, drops columns with no values and adds the
// distance column measured from the first sample when the file carries GPS
// coordinates.
func Load(name, filename string, r io.Reader, method models.DistanceMethod) (Dataset, error) {
	format, err := Format(filename)
	if err != nil {
		return Dataset{}, err
	}

	var tbl *dataset.Table
	switch format {
	case "xlsx":
		tbl, err = excel.ReadTable(r, "")
	default:
		tbl, err = dataset.ReadCSV(r)
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	tbl = tbl.DropEmptyColumns()
	if tbl.HasColumn(dataset.LatColumn) && tbl.HasColumn(dataset.LonColumn) {
		tbl, err = calculator.AnnotateDistances(tbl, models.ReferenceStart, method)
		if err != nil {
			return Dataset{}, err
		}
	}

	if name == "" {
		name = DefaultName(filename)
	}
	return Dataset{Name: name, Table: tbl}, nil
}
