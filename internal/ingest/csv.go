// Package ingest parses uploaded smartwatch activity CSV files into a Dataset.
//
// The expected file carries exactly the columns Date, Steps, Heart Rate (bpm),
// Calories Burned and Sleep Duration (hours). Column order in the file is
// free; lookup is by header name, matched exactly.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/healthlens/healthlens/pkg/models"
)

// SchemaError reports required columns missing from the uploaded file.
// It is the one precondition failure surfaced to the user before any
// pipeline stage runs.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(models.RequiredColumns()))
	for i, col := range models.RequiredColumns() {
		quoted[i] = "'" + col + "'"
	}
	return fmt.Sprintf("CSV file must contain the following columns: %s (missing: %s)",
		strings.Join(quoted, ", "), strings.Join(e.Missing, ", "))
}

// ParseCSV reads a smartwatch activity CSV into a Dataset, preserving file
// row order. The header is validated before any row is parsed; a missing
// required column yields a *SchemaError and no rows are read. A file with a
// valid header and no data rows yields an empty Dataset.
func ParseCSV(r io.Reader) (models.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: models.RequiredColumns()}
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	idx, missing := columnIndex(header)
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var ds models.Dataset
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", row+1, err)
		}
		row++

		rec, err := parseRecord(fields, idx, row)
		if err != nil {
			return nil, err
		}
		ds = append(ds, rec)
	}

	return ds, nil
}

// columnIndex maps required column names to their positions in the header,
// returning the names that could not be found. Matching is exact; stray BOM
// bytes on the first cell are stripped first.
func columnIndex(header []string) (map[string]int, []string) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}

	idx := make(map[string]int, len(models.RequiredColumns()))
	var missing []string
	for _, col := range models.RequiredColumns() {
		i, ok := pos[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	return idx, missing
}

func parseRecord(fields []string, idx map[string]int, row int) (models.MetricRecord, error) {
	var rec models.MetricRecord

	cell := func(col string) (string, error) {
		i := idx[col]
		if i >= len(fields) {
			return "", fmt.Errorf("row %d: missing value for column %q", row, col)
		}
		return strings.TrimSpace(fields[i]), nil
	}

	date, err := cell(models.ColumnDate)
	if err != nil {
		return rec, err
	}
	rec.Date = date

	stepsStr, err := cell(models.ColumnSteps)
	if err != nil {
		return rec, err
	}
	steps, err := strconv.Atoi(stepsStr)
	if err != nil {
		return rec, fmt.Errorf("row %d: invalid %s value %q", row, models.ColumnSteps, stepsStr)
	}
	rec.Steps = steps

	numeric := []struct {
		col string
		dst *float64
	}{
		{models.ColumnHeartRate, &rec.HeartRate},
		{models.ColumnCalories, &rec.Calories},
		{models.ColumnSleep, &rec.SleepHours},
	}
	for _, n := range numeric {
		s, err := cell(n.col)
		if err != nil {
			return rec, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, fmt.Errorf("row %d: invalid %s value %q", row, n.col, s)
		}
		*n.dst = v
	}

	return rec, nil
}
