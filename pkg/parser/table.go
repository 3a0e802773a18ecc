package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrMissingColumns  = errors.New("missing required columns")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a parsed CSV table with a named header.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable builds a table, padding short rows to the header width.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		Header: header,
		Rows:   rows,
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	for i, row := range t.Rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			t.Rows[i] = padded
		}
	}
	return t
}

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Value returns the cell of row i in the named column, or "" when absent.
func (t *Table) Value(i int, name string) string {
	idx := t.Index(name)
	if idx < 0 || idx >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][idx]
}

// Require reports every named column missing from the header.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if t.Index(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// ParseSurveyTable parses an SPF survey table: one title line followed by the
// column header and data rows. Blank lines are ignored.
func (p *Parser) ParseSurveyTable(data []byte) (*Table, error) {
	return p.ParseTable(data, ',', 1)
}

// ParseTable reads delimited text, skipping skip leading records before the header.
func (p *Parser) ParseTable(data []byte, delimiter rune, skip int) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.FieldsPerRecord = -1 // title lines and ragged rows are validated manually
	r.LazyQuotes = true

	var header []string
	var rows [][]string
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line++
		if line <= skip {
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if header == nil {
			header = rec
			continue
		}
		rows = append(rows, rec)
	}
	if header == nil {
		return nil, fmt.Errorf("csv has no header row")
	}

	p.logger.Debug("parsed table", "columns", len(header), "rows", len(rows))
	return NewTable(header, rows), nil
}
