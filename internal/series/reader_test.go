package series

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const banner = "LGR export 2024-06-03 09:12\n"

func TestRead(t *testing.T) {
	input := banner +
		"time(s)\tCH4(ppm)\tTemp\tPressure(Hg_mm)\tH2O(ppm)\n" +
		"0\t2.01\t21.5\t760.1\t9100\n" +
		"1\t2.02\t21.5\t760.2\t\n" +
		"\n" +
		"2\t2.04\t21.6\t760.0\t9102\n"

	ts, err := Read(strings.NewReader(input), "site1.txt", DefaultSchema)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if ts.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ts.Len())
	}
	if ts.Header != "LGR export 2024-06-03 09:12" {
		t.Errorf("Header = %q", ts.Header)
	}
	if len(ts.Columns) != 5 || ts.Columns[4] != "H2O(ppm)" {
		t.Errorf("Columns = %v", ts.Columns)
	}
	if len(ts.Records) != 3 || ts.Records[1][4] != "" || ts.Records[2][4] != "9102" {
		t.Errorf("Records = %v", ts.Records)
	}

	wantCH4 := []float64{2.01, 2.02, 2.04}
	for i, want := range wantCH4 {
		if math.Abs(ts.CH4[i]-want) > 1e-12 {
			t.Errorf("CH4[%d] = %v, want %v", i, ts.CH4[i], want)
		}
	}
	if ts.Temperature[2] != 21.6 || ts.Pressure[1] != 760.2 || ts.Time[2] != 2 {
		t.Errorf("unexpected channel values: %+v", ts)
	}

	fs, err := ts.SampleRate()
	if err != nil || fs != 1 {
		t.Errorf("SampleRate() = %v, %v; want 1", fs, err)
	}
}

func TestReadColumnMatching(t *testing.T) {
	input := banner +
		"Pressure(Hg_mm)\t temp \tch4(ppm)\tTIME(S)\n" +
		"760\t20\t2.5\t0.0\n" +
		"760\t20\t2.6\t0.5\n"

	ts, err := Read(strings.NewReader(input), "reordered.txt", DefaultSchema)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ts.Time[1] != 0.5 || ts.CH4[1] != 2.6 || ts.Temperature[0] != 20 || ts.Pressure[0] != 760 {
		t.Errorf("columns resolved incorrectly: time=%v ch4=%v", ts.Time, ts.CH4)
	}
	fs, _ := ts.SampleRate()
	if fs != 2 {
		t.Errorf("SampleRate() = %v, want 2", fs)
	}
}

func TestReadErrors(t *testing.T) {
	header := "time(s)\tCH4(ppm)\tTemp\tPressure(Hg_mm)\n"

	tests := []struct {
		name     string
		input    string
		empty    bool
		line     int
		column   string
		sentinel error
	}{
		{
			name:  "zero bytes",
			input: "",
			empty: true,
		},
		{
			name:  "banner only",
			input: banner,
			empty: true,
		},
		{
			name:  "header only",
			input: banner + header,
			empty: true,
		},
		{
			name:   "missing pressure column",
			input:  banner + "time(s)\tCH4(ppm)\tTemp\n0\t2\t20\n",
			line:   2,
			column: "Pressure(Hg_mm)",
		},
		{
			name:   "non-numeric cell",
			input:  banner + header + "0\t2.0\t20\t760\n1\tn/a\t20\t760\n",
			line:   4,
			column: "CH4(ppm)",
		},
		{
			name:     "NaN cell",
			input:    banner + header + "0\t2.0\t20\t760\n1\tNaN\t20\t760\n2\t2.2\t20\t760\n",
			line:     4,
			column:   "CH4(ppm)",
			sentinel: ErrNonFinite,
		},
		{
			name:     "infinite cell",
			input:    banner + header + "0\t2.0\t20\t760\n1\t2.1\t20\t-Inf\n",
			line:     4,
			column:   "Pressure(Hg_mm)",
			sentinel: ErrNonFinite,
		},
		{
			name:     "infinity spelled out",
			input:    banner + header + "0\t2.0\tInfinity\t760\n1\t2.1\t20\t760\n",
			line:     3,
			column:   "Temp",
			sentinel: ErrNonFinite,
		},
		{
			name:     "single sample",
			input:    banner + header + "0\t2.0\t20\t760\n",
			sentinel: ErrTooFewSamples,
		},
		{
			name:     "time goes backwards",
			input:    banner + header + "0\t2.0\t20\t760\n2\t2.0\t20\t760\n1\t2.0\t20\t760\n",
			column:   "time",
			sentinel: ErrNonIncreasingTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), "bad.txt", DefaultSchema)
			if err == nil {
				t.Fatal("Read() succeeded, want error")
			}
			if !errors.Is(err, ErrData) {
				t.Errorf("errors.Is(%v, ErrData) = false", err)
			}

			var emptyErr *EmptyInputError
			if got := errors.As(err, &emptyErr); got != tt.empty {
				t.Fatalf("EmptyInputError = %v, want %v (err: %v)", got, tt.empty, err)
			}
			if tt.empty {
				return
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error %T is not a *ParseError: %v", err, err)
			}
			if parseErr.Line != tt.line {
				t.Errorf("Line = %d, want %d", parseErr.Line, tt.line)
			}
			if parseErr.Column != tt.column {
				t.Errorf("Column = %q, want %q", parseErr.Column, tt.column)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chamber_01.txt")
	data := banner + "time(s)\tCH4(ppm)\tTemp\tPressure(Hg_mm)\r\n0\t2\t20\t760\r\n1\t2.1\t20\t760\r\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	ts, err := Load(path, DefaultSchema)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ts.Source != "chamber_01.txt" || ts.Len() != 2 {
		t.Errorf("Load() = source %q, %d samples", ts.Source, ts.Len())
	}

	if _, err := Load(filepath.Join(dir, "missing.txt"), DefaultSchema); err == nil || errors.Is(err, ErrData) {
		t.Errorf("Load(missing) error = %v, want a non-data error", err)
	}
}

func TestSampleRate(t *testing.T) {
	tests := []struct {
		name    string
		time    []float64
		want    float64
		wantErr error
	}{
		{name: "one hertz", time: []float64{0, 1, 2}, want: 1},
		{name: "ten hertz", time: []float64{5, 5.1}, want: 10},
		{name: "one sample", time: []float64{0}, wantErr: ErrTooFewSamples},
		{name: "repeated stamp", time: []float64{3, 3}, wantErr: ErrNonIncreasingTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SampleRate(tt.time)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SampleRate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SampleRate() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SampleRate() = %v, want %v", got, tt.want)
			}
		})
	}
}
