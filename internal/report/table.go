// Package report writes the processed table and the text report for one record.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/chrissnell/ch4flux/internal/series"
)

// FinalColumn is the column appended to the processed table.
const FinalColumn = "CH4_final (ppm)"

// FormatOptions controls how numbers are rendered in the processed table.
type FormatOptions struct {
	// Precision is the number of decimals; a negative value gives the shortest
	// representation that round-trips.
	Precision int
}

// DefaultFormat renders numbers exactly.
var DefaultFormat = FormatOptions{Precision: -1}

// Float formats v. Undefined values render as an empty cell.
func (o FormatOptions) Float(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', o.Precision, 64)
}

// WriteTable writes the input columns followed by the final corrected
// concentration as comma-separated values.
func WriteTable(w io.Writer, ts *series.TimeSeries, final []float64, opts FormatOptions) error {
	if len(final) != ts.Len() {
		return fmt.Errorf("final signal has %d samples, series has %d", len(final), ts.Len())
	}

	columns, records := ts.Columns, ts.Records
	if len(records) != ts.Len() {
		columns, records = channelTable(ts, opts)
	}

	writer := csv.NewWriter(w)

	header := make([]string, 0, len(columns)+1)
	header = append(header, columns...)
	header = append(header, FinalColumn)
	if err := writer.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, record := range records {
		for j := range columns {
			row[j] = ""
			if j < len(record) {
				row[j] = record[j]
			}
		}
		row[len(columns)] = opts.Float(final[i])
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// channelTable renders the four parsed channels when the verbatim input table
// is not available.
func channelTable(ts *series.TimeSeries, opts FormatOptions) ([]string, [][]string) {
	schema := series.DefaultSchema
	columns := []string{schema.Time[0], schema.CH4[0], schema.Temperature[0], schema.Pressure[0]}
	records := make([][]string, ts.Len())
	for i := range records {
		records[i] = []string{
			opts.Float(ts.Time[i]),
			opts.Float(ts.CH4[i]),
			opts.Float(ts.Temperature[i]),
			opts.Float(ts.Pressure[i]),
		}
	}
	return columns, records
}

// WriteFile creates path and hands it to write. The file is closed on every
// path; a close failure is reported when write itself succeeded.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return write(file)
}
