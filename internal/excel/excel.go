package excel

import (
	"fmt"
	"io"
	"math"

	"signal-metrics/internal/dataset"

	"github.com/xuri/excelize/v2"
)

// ReadTable loads a measurement sheet from an XLSX workbook. The first row
// is the header. An empty sheet name selects the first sheet.
func ReadTable(r io.Reader, sheetName string) (*dataset.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	header := trimHeader(rows[0])
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		records = append(records, row)
	}
	return dataset.FromRecords(header, records)
}

// WriteTable writes t as a single sheet workbook to w.
func WriteTable(w io.Writer, t *dataset.Table, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Use Stream Writer for performance
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	names := t.Columns()
	header := make([]interface{}, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r := 0; r < t.Len(); r++ {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		row := make([]interface{}, len(names))
		for c, n := range names {
			v := t.Value(r, n)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[c] = nil
				continue
			}
			row[c] = v
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// trimHeader drops trailing empty header cells that spreadsheet tools leave
// behind after deleted columns.
func trimHeader(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
