package dataset

import (
	"fmt"
	"math"
)

// Well-known column names used by the field loggers.
const (
	LatColumn      = "GPS_LAT_DEG"
	LonColumn      = "GPS_LON_DEG"
	DistanceColumn = "Distance (Meters)"
	RSSIColumn     = "WIFI_RSSI_DBM"
)

// Table is an immutable column-oriented set of numeric measurements.
// Missing cells are NaN.
type Table struct {
	names   []string
	columns map[string][]float64
	rows    int
}

// New builds a table from column names and equally sized value slices.
// The slices are copied.
func New(names []string, values [][]float64) (*Table, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("got %d column names for %d columns", len(names), len(values))
	}
	t := &Table{
		names:   make([]string, 0, len(names)),
		columns: make(map[string][]float64, len(names)),
	}
	for i, name := range names {
		if _, dup := t.columns[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		if i == 0 {
			t.rows = len(values[i])
		} else if len(values[i]) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", name, len(values[i]), t.rows)
		}
		col := make([]float64, len(values[i]))
		copy(col, values[i])
		t.names = append(t.names, name)
		t.columns[name] = col
	}
	return t, nil
}

// FromRecords builds a table from a header and string records. Cells that
// don't parse as numbers are stored as NaN.
func FromRecords(header []string, records [][]string) (*Table, error) {
	values := make([][]float64, len(header))
	for c := range header {
		values[c] = make([]float64, len(records))
	}
	for r, rec := range records {
		for c := range header {
			v := math.NaN()
			if c < len(rec) {
				if f, err := ParseNumber(rec[c]); err == nil {
					v = f
				}
			}
			values[c][r] = v
		}
	}
	return New(header, values)
}

func (t *Table) Len() int { return t.rows }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	col, ok := t.columns[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, true
}

// Value returns a single cell.
func (t *Table) Value(row int, name string) float64 {
	return t.columns[name][row]
}

// WithColumn returns a copy of t with the named column set. An existing
// column of that name is replaced in place, otherwise it is appended.
func (t *Table) WithColumn(name string, values []float64) (*Table, error) {
	if len(values) != t.rows {
		return nil, fmt.Errorf("column %q has %d rows, want %d", name, len(values), t.rows)
	}
	names := t.Columns()
	if !t.HasColumn(name) {
		names = append(names, name)
	}
	cols := make([][]float64, len(names))
	for i, n := range names {
		if n == name {
			cols[i] = values
			continue
		}
		cols[i] = t.columns[n]
	}
	return New(names, cols)
}

// DropEmptyColumns returns a copy without columns whose values are all
// missing.
func (t *Table) DropEmptyColumns() *Table {
	var names []string
	var cols [][]float64
	for _, n := range t.names {
		col := t.columns[n]
		for _, v := range col {
			if !math.IsNaN(v) {
				names = append(names, n)
				cols = append(cols, col)
				break
			}
		}
	}
	out, _ := New(names, cols)
	return out
}

// Head returns the first n rows as maps keyed by column name. Missing
// values are nil so the rows encode cleanly as JSON.
func (t *Table) Head(n int) []map[string]any {
	if n > t.rows {
		n = t.rows
	}
	rows := make([]map[string]any, n)
	for r := 0; r < n; r++ {
		row := make(map[string]any, len(t.names))
		for _, name := range t.names {
			v := t.columns[name][r]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[name] = nil
			} else {
				row[name] = v
			}
		}
		rows[r] = row
	}
	return rows
}
