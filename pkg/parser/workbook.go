package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const maxWorkbookRows = 100000

// ParseWorkbook reads the first sheet of an .xls or .xlsx file into a table,
// skipping skip leading rows before the header.
func (p *Parser) ParseWorkbook(data []byte, fileType FileType, skip int) (*Table, error) {
	var rows [][]string
	var err error

	switch fileType {
	case XLS:
		rows, err = p.readXLS(data)
	case XLSX:
		rows, err = p.readXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported workbook type %q", fileType)
	}
	if err != nil {
		return nil, err
	}

	var header []string
	var body [][]string
	for i, row := range rows {
		if i < skip {
			continue
		}
		if isBlank(row) {
			continue
		}
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
		if header == nil {
			header = row
			continue
		}
		body = append(body, row)
	}
	if header == nil {
		return nil, fmt.Errorf("no data found in sheet")
	}

	p.logger.Debug("parsed workbook", "type", fileType, "columns", len(header), "rows", len(body))
	return NewTable(header, body), nil
}

func (p *Parser) readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := workbook.ReadAllCells(maxWorkbookRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}
	return rows, nil
}

func (p *Parser) readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
