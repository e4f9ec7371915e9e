package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Schema names the required input columns. Matching ignores case and surrounding space.
type Schema struct {
	Time        []string
	CH4         []string
	Temperature []string
	Pressure    []string
}

// DefaultSchema matches the sensor logger's export.
var DefaultSchema = Schema{
	Time:        []string{"time(s)"},
	CH4:         []string{"CH4(ppm)"},
	Temperature: []string{"Temp", "temp"},
	Pressure:    []string{"Pressure(Hg_mm)"},
}

// columnIndex holds the resolved position of each required column.
type columnIndex struct {
	time, ch4, temp, pressure int
}

func (s Schema) resolve(source string, columns []string) (columnIndex, error) {
	find := func(label string, names []string) (int, error) {
		for _, name := range names {
			for i, c := range columns {
				if strings.EqualFold(strings.TrimSpace(c), name) {
					return i, nil
				}
			}
		}
		return -1, &ParseError{Source: source, Line: 2, Column: names[0],
			Err: fmt.Errorf("required %s column not found in %v", label, columns)}
	}

	var idx columnIndex
	var err error
	if idx.time, err = find("time", s.Time); err != nil {
		return idx, err
	}
	if idx.ch4, err = find("concentration", s.CH4); err != nil {
		return idx, err
	}
	if idx.temp, err = find("temperature", s.Temperature); err != nil {
		return idx, err
	}
	if idx.pressure, err = find("pressure", s.Pressure); err != nil {
		return idx, err
	}
	return idx, nil
}

// Load reads a tab-separated chamber file from disk.
func Load(path string, schema Schema) (*TimeSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, filepath.Base(path), schema)
}

// Read parses a chamber table: a banner line, a line of column names, then
// tab-separated numeric rows.
func Read(r io.Reader, source string, schema Schema) (*TimeSeries, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	banner, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &EmptyInputError{Source: source}
	}
	if err != nil {
		return nil, &ParseError{Source: source, Line: 1, Err: err}
	}

	columns, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &EmptyInputError{Source: source}
	}
	if err != nil {
		return nil, &ParseError{Source: source, Line: 2, Err: err}
	}

	idx, err := schema.resolve(source, columns)
	if err != nil {
		return nil, err
	}

	ts := &TimeSeries{
		Source:  source,
		Header:  strings.Join(banner, "\t"),
		Columns: columns,
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			line := 0
			if errors.As(err, &csvErr) {
				line = csvErr.Line
			}
			return nil, &ParseError{Source: source, Line: line, Err: err}
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		values := [4]float64{}
		for k, col := range []int{idx.time, idx.ch4, idx.temp, idx.pressure} {
			if col >= len(record) {
				return nil, &ParseError{Source: source, Line: line, Column: columns[col],
					Err: fmt.Errorf("row has %d fields", len(record))}
			}
			cell := strings.TrimSpace(record[col])
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &ParseError{Source: source, Line: line, Column: columns[col], Err: err}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ParseError{Source: source, Line: line, Column: columns[col],
					Err: fmt.Errorf("%q: %w", cell, ErrNonFinite)}
			}
			values[k] = v
		}

		ts.Time = append(ts.Time, values[0])
		ts.CH4 = append(ts.CH4, values[1])
		ts.Temperature = append(ts.Temperature, values[2])
		ts.Pressure = append(ts.Pressure, values[3])
		ts.Records = append(ts.Records, record)
	}

	if ts.Len() == 0 {
		return nil, &EmptyInputError{Source: source}
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}

	return ts, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
