package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yurifrl/spfmerge/pkg/models"
)

// Header returns the output header of a panel.
func Header(p *models.Panel) []string {
	header := []string{models.ColSource, models.ColTargetPeriod, models.ColPoint}
	return append(header, p.Columns()...)
}

// Create renders a panel as comma-delimited CSV with a header row.
// Null points and absent extra columns are written as empty cells.
func Create(p *models.Panel) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header(p)); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	columns := p.Columns()
	record := make([]string, 3+len(columns))
	for _, r := range p.Rows {
		record[0] = fmt.Sprintf("%d", r.ForecasterID)
		record[1] = r.TargetPeriod
		record[2] = ""
		if r.Point.Valid {
			record[2] = r.Point.Decimal.String()
		}
		for i, col := range columns {
			record[3+i] = r.Extra[col]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile replaces path with data, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
