// Package merge pairs forecast panels with realized macroeconomic series.
package merge

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/yurifrl/spfmerge/pkg/config"
	"github.com/yurifrl/spfmerge/pkg/csv"
	"github.com/yurifrl/spfmerge/pkg/models"
	"github.com/yurifrl/spfmerge/pkg/parser"
)

type Merger struct {
	logger *log.Logger
	parser *parser.Parser
}

func New(logger *log.Logger) *Merger {
	return &Merger{
		logger: logger,
		parser: parser.New(logger),
	}
}

// Run merges the panel at panelPath with the realized series of cfg and
// writes the result to cfg.Merged. It returns the number of merged rows.
func (m *Merger) Run(panelPath string, cfg config.Series) (int, error) {
	forecasts, err := m.LoadPanel(panelPath)
	if err != nil {
		return 0, err
	}
	realized, err := m.LoadSeries(cfg)
	if err != nil {
		return 0, err
	}

	merged, err := Merge(forecasts, realized, cfg)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := merged.WriteCSV(&buf); err != nil {
		return 0, fmt.Errorf("failed to render merged data: %w", err)
	}
	if err := csv.WriteFile(cfg.Merged, buf.Bytes()); err != nil {
		return 0, err
	}

	m.logger.Info("data merged and saved", "output", cfg.Merged, "rows", merged.Nrow())
	return merged.Nrow(), nil
}

// LoadPanel reads a panel written by the forecast pipelines.
func (m *Merger) LoadPanel(path string) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read panel: %w", err)
	}
	table, err := m.parser.ParseTable(data, ',', 0)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse panel %s: %w", path, err)
	}
	return frame(table)
}

// LoadSeries reads the realized series of cfg from CSV, XLS or XLSX.
func (m *Merger) LoadSeries(cfg config.Series) (dataframe.DataFrame, error) {
	fileType, err := parser.DetectType(cfg.Series)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	data, err := os.ReadFile(cfg.Series)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read series: %w", err)
	}

	skip := 0
	if cfg.TitleLine {
		skip = 1
	}

	var table *parser.Table
	switch fileType {
	case parser.CSV:
		table, err = m.parser.ParseTable(data, cfg.Comma(), skip)
	default:
		table, err = m.parser.ParseWorkbook(data, fileType, skip)
	}
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse series %s: %w", cfg.Series, err)
	}

	m.logger.Debug("loaded realized series", "file", cfg.Series, "type", fileType, "rows", table.Len())
	return frame(table)
}

// Merge inner-joins forecasts with the realized rows whose period carries one
// of cfg.Markers, keeping TARGET_PERIOD, FCT_SOURCE, POINT and the observed
// value. Forecast periods without a realized counterpart are dropped.
func Merge(forecasts, realized dataframe.DataFrame, cfg config.Series) (dataframe.DataFrame, error) {
	if err := requireColumns(forecasts, models.ColTargetPeriod, models.ColSource, models.ColPoint); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("forecast panel: %w", err)
	}
	if err := requireColumns(realized, cfg.PeriodColumn, cfg.ValueColumn); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("realized series: %w", err)
	}

	observed := realized.
		Select([]string{cfg.PeriodColumn, cfg.ValueColumn}).
		Rename(cfg.ObservedColumn, cfg.ValueColumn).
		Rename(models.ColTargetPeriod, cfg.PeriodColumn)
	if len(cfg.Markers) > 0 {
		observed = observed.Filter(dataframe.F{
			Colname:    models.ColTargetPeriod,
			Comparator: series.CompFunc,
			Comparando: hasMarker(cfg.Markers),
		})
	}
	if observed.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to prepare realized series: %w", observed.Err)
	}

	merged := forecasts.
		InnerJoin(observed, models.ColTargetPeriod).
		Select([]string{models.ColTargetPeriod, models.ColSource, models.ColPoint, cfg.ObservedColumn})
	if merged.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to merge: %w", merged.Err)
	}
	return merged, nil
}

func hasMarker(markers []string) func(series.Element) bool {
	return func(el series.Element) bool {
		label := el.String()
		for _, marker := range markers {
			if strings.Contains(label, marker) {
				return true
			}
		}
		return false
	}
}

func requireColumns(df dataframe.DataFrame, names ...string) error {
	if df.Err != nil {
		return df.Err
	}
	have := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		have[name] = true
	}
	var missing []string
	for _, name := range names {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", parser.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// frame loads a table as an all-string dataframe so labels and values are
// written back exactly as read.
func frame(table *parser.Table) (dataframe.DataFrame, error) {
	records := make([][]string, 0, table.Len()+1)
	records = append(records, table.Header)
	for _, row := range table.Rows {
		records = append(records, row[:len(table.Header)])
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to load table: %w", df.Err)
	}
	return df, nil
}
