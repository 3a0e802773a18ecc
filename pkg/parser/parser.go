package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

type FileType string

const (
	CSV  FileType = "csv"
	XLS  FileType = "xls"
	XLSX FileType = "xlsx"
)

type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// DetectType picks the reader for a file from its extension.
func DetectType(filename string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return CSV, nil
	case ".xls":
		return XLS, nil
	case ".xlsx":
		return XLSX, nil
	default:
		return "", fmt.Errorf("unknown file type for %s", filename)
	}
}
