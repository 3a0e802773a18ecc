package service

import (
	"fmt"
	"os"
	"sort"

	"github.com/yurifrl/spfmerge/pkg/period"
)

// SelectFiles lists the survey vintage files of dir, newest first.
// Names that do not look like YYYYQ#.csv are skipped.
func SelectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if period.VintagePattern.MatchString(entry.Name()) {
			files = append(files, entry.Name())
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}
