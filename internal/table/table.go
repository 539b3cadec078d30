// Package table reads and writes the CSV result files the tools exchange.
// Files are UTF-8 with a byte order mark so spreadsheet tools detect the
// encoding; the mark is optional on read.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrColumnNotFound is returned when a named column is not in the header.
var ErrColumnNotFound = errors.New("column not found")

// Table is a header plus rows of string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// New creates an empty table with the given header.
func New(header ...string) *Table {
	return &Table{Header: header}
}

// Read parses CSV from r. A leading UTF-8 BOM is stripped. The first record
// is the header; rows may be shorter or longer than the header.
func Read(r io.Reader) (*Table, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// ReadFile reads a CSV file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write encodes the table as CSV with a UTF-8 BOM.
func (t *Table) Write(w io.Writer) error {
	enc := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(enc)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile writes the table to path, creating parent directories.
func (t *Table) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns every value of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = cell(row, idx)
	}
	return values, nil
}

// Get returns the named column of row, or "" when absent.
func (t *Table) Get(row []string, name string) string {
	return cell(row, t.Index(name))
}

// Append adds a row built from a column -> value map. Unknown columns are
// ignored.
func (t *Table) Append(values map[string]string) {
	row := make([]string, len(t.Header))
	for i, h := range t.Header {
		row[i] = values[h]
	}
	t.Rows = append(t.Rows, row)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
