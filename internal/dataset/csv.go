package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jszwec/csvutil"
)

const utf8BOM = "\ufeff"

// gpsRow holds the typed coordinate columns. Every other column is parsed
// from the raw record.
type gpsRow struct {
	Lat float64 `csv:"GPS_LAT_DEG"`
	Lon float64 `csv:"GPS_LON_DEG"`
}

// cellUnmarshalers decodes numeric cells with ParseNumber. Empty cells are
// missing values.
var cellUnmarshalers = csvutil.UnmarshalFunc(func(data []byte, v *float64) error {
	if strings.TrimSpace(string(data)) == "" {
		*v = math.NaN()
		return nil
	}
	f, err := ParseNumber(string(data))
	if err != nil {
		return err
	}
	*v = f
	return nil
})

// paddedReader pads short records to the header width with empty cells and
// rejects records wider than the header.
type paddedReader struct {
	r     *csv.Reader
	width int
	n     int // fields in the last record before padding
}

func (p *paddedReader) Read() ([]string, error) {
	record, err := p.r.Read()
	if err != nil {
		return nil, err
	}
	p.n = len(record)
	if p.width == 0 {
		return record, nil
	}
	if len(record) > p.width {
		line, _ := p.r.FieldPos(0)
		return nil, fmt.Errorf("line %d: %d fields, header has %d", line, len(record), p.width)
	}
	for len(record) < p.width {
		record = append(record, "")
	}
	return record, nil
}

// FieldPos reports positions for padded cells at the end of the real record.
func (p *paddedReader) FieldPos(field int) (line, column int) {
	if field >= p.n {
		field = p.n - 1
	}
	return p.r.FieldPos(field)
}

// ReadCSV loads a CSV measurement file with a header row. A leading UTF-8 BOM
// is ignored and short rows are padded with missing values. Unparseable
// coordinates fail with their line and column; other unparseable cells are
// missing values.
func ReadCSV(r io.Reader) (*Table, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	reader := &paddedReader{r: csvReader}

	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv has no header row")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if err := dec.NormalizeHeader(func(s string) string { return strings.TrimPrefix(s, utf8BOM) }); err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	dec.WithUnmarshalers(cellUnmarshalers)
	header := dec.Header()
	reader.width = len(header)

	values := make([][]float64, len(header))
	for {
		var row gpsRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		record := dec.Record()
		for c, name := range header {
			v := math.NaN()
			switch name {
			case LatColumn:
				v = row.Lat
			case LonColumn:
				v = row.Lon
			default:
				if f, err := ParseNumber(record[c]); err == nil {
					v = f
				}
			}
			values[c] = append(values[c], v)
		}
	}

	for c := range values {
		if values[c] == nil {
			values[c] = []float64{}
		}
	}
	return New(header, values)
}
