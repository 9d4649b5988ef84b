package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/richxcame/devcert-dashboard/internal/developers"
)

const utf8BOM = "\uFEFF"

// Result is the outcome of parsing one CSV source
type Result struct {
	ValidRecords []developers.DeveloperRecord `json:"valid_records"`
	// Errors holds either one structural error or the row-level errors
	Errors []string `json:"errors"`
	// MissingColumns is set when the structural check failed
	MissingColumns []string `json:"missing_columns,omitempty"`
	TotalRows      int      `json:"total_rows"`
}

// Structural reports whether the whole source was rejected for missing columns
func (r *Result) Structural() bool {
	return len(r.MissingColumns) > 0
}

// Importer parses CSV exports of developer records
type Importer struct {
	now func() time.Time
}

// NewImporter creates an importer that stamps records lacking createdAt with the current time
func NewImporter() *Importer {
	return &Importer{now: time.Now}
}

// ParseString parses CSV text
func (imp *Importer) ParseString(s string) (*Result, error) {
	return imp.Parse(strings.NewReader(s))
}

// Parse reads a CSV source whose first row is the header. Missing required
// columns reject the whole source with a single error; row problems are
// collected per row. Only failures of the source itself return an error.
func (imp *Importer) Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}

	cols := buildColumnIndex(headers)
	if missing := cols.missingColumns(); len(missing) > 0 {
		return &Result{
			ValidRecords:   []developers.DeveloperRecord{},
			Errors:         []string{"Missing required columns: " + strings.Join(missing, ", ")},
			MissingColumns: missing,
		}, nil
	}

	result := &Result{
		ValidRecords: []developers.DeveloperRecord{},
		Errors:       []string{},
	}
	now := imp.now().UTC()

	for index := 0; ; index++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		result.TotalRows++
		// header is row 1 and rows are 1-indexed
		lineRef := index + 2

		if cols.text(row, ColEmail) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Missing Email", lineRef))
			continue
		}

		rec, err := mapRow(row, cols, now)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Error parsing data", lineRef))
			continue
		}
		result.ValidRecords = append(result.ValidRecords, rec)
	}

	return result, nil
}
