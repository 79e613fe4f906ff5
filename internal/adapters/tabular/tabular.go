// Package tabular reads raw spreadsheet sources into typed row records.
//
// A source is either an xlsx workbook (read with excelize) or a CSV
// file, chosen by file extension. The first row is the header; headers
// are matched case-insensitively against a declared column set, extra
// columns are ignored, and a missing required column is fatal for the
// whole run. Rows whose key fields are entirely blank are skipped as
// non-data and counted.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a raw sheet: one header row plus data records in source order.
type Table struct {
	// Sheet names the source for error messages: "history" or
	// "contacts", plus the file it came from.
	Sheet   string
	Headers []string
	// Records holds raw cell text; Records[i] is physical row i+2.
	Records [][]string
}

// RowNum converts a record index to the 1-based physical row number.
func (t *Table) RowNum(recordIdx int) int { return recordIdx + 2 }

// ReadTable loads the named sheet from path. CSV files ignore the sheet
// name. Unreadable files, unknown sheets, and empty tables are fatal.
func ReadTable(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path, sheet)
	case ".csv":
		return readCSV(path, sheet)
	default:
		return nil, fmt.Errorf("%w: unsupported source %q", ErrOpenSource, path)
	}
}

func readXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenSource, path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q in %s: %v", ErrOpenSource, sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q in %s is empty", ErrEmptySource, sheet, path)
	}

	return &Table{
		Sheet:   fmt.Sprintf("%s!%s", filepath.Base(path), sheet),
		Headers: rows[0],
		Records: rows[1:],
	}, nil
}

func readCSV(path, sheet string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenSource, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrOpenSource, path, err)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrEmptySource, path)
	}

	name := filepath.Base(path)
	if sheet != "" {
		name = fmt.Sprintf("%s!%s", name, sheet)
	}
	return &Table{Sheet: name, Headers: rows[0], Records: rows[1:]}, nil
}
