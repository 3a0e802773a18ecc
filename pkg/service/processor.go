package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/spfmerge/pkg/config"
	"github.com/yurifrl/spfmerge/pkg/csv"
	"github.com/yurifrl/spfmerge/pkg/models"
	"github.com/yurifrl/spfmerge/pkg/panel"
	"github.com/yurifrl/spfmerge/pkg/parser"
	"github.com/yurifrl/spfmerge/pkg/period"
)

// Indicator names one of the three surveyed series.
type Indicator string

const (
	Inflation    Indicator = "inflation"
	GDP          Indicator = "gdp"
	Unemployment Indicator = "unemployment"
)

// Rule returns the horizon rule used to pick the target period of ind.
func (ind Indicator) Rule() (period.Rule, error) {
	switch ind {
	case Inflation:
		return period.ThreeQuarters, nil
	case GDP:
		return period.GDPQuarter, nil
	case Unemployment:
		return period.UnemploymentMonth, nil
	default:
		return "", fmt.Errorf("unknown indicator %q", ind)
	}
}

// Series returns the configuration block of ind.
func (ind Indicator) Series(cfg *config.Config) (config.Series, error) {
	switch ind {
	case Inflation:
		return cfg.Inflation, nil
	case GDP:
		return cfg.GDP, nil
	case Unemployment:
		return cfg.Unemployment, nil
	default:
		return config.Series{}, fmt.Errorf("unknown indicator %q", ind)
	}
}

var coreColumns = []string{models.ColTargetPeriod, models.ColSource, models.ColPoint}

// Processor turns the survey vintages into one forecast panel per indicator.
type Processor struct {
	config *config.Config
	logger *log.Logger
	parser *parser.Parser
}

// NewProcessor returns a Processor reading and writing the paths of config.
func NewProcessor(config *config.Config, logger *log.Logger) *Processor {
	return &Processor{
		config: config,
		logger: logger,
		parser: parser.New(logger),
	}
}

// Process builds the long-format panel of ind from the forecasts directory
// and writes it to the configured panel file. An empty panel is not written.
func (p *Processor) Process(ind Indicator) (*models.Panel, error) {
	series, err := ind.Series(p.config)
	if err != nil {
		return nil, err
	}

	pnl, err := p.BuildPanel(ind)
	if err != nil {
		return nil, err
	}

	if pnl.Empty() {
		p.logger.Info("no data found to merge", "indicator", ind)
		return pnl, nil
	}

	data, err := csv.Create(pnl)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s panel: %w", ind, err)
	}
	outFile := p.config.PanelPath(series)
	if err := csv.WriteFile(outFile, data); err != nil {
		return nil, err
	}

	p.logger.Info("data merged and saved", "indicator", ind, "output", outFile, "rows", pnl.Len())
	return pnl, nil
}

// BuildPanel accumulates the densified period blocks of every vintage file.
func (p *Processor) BuildPanel(ind Indicator) (*models.Panel, error) {
	rule, err := ind.Rule()
	if err != nil {
		return nil, err
	}

	dir := p.config.ForecastsDir
	files, err := SelectFiles(dir)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("selected vintage files", "indicator", ind, "dir", dir, "count", len(files))

	pnl := models.NewPanel()
	for _, name := range files {
		vintage, err := period.ParseVintage(name)
		if err != nil {
			return nil, err
		}
		target, err := vintage.Target(rule)
		if err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}

		err = p.processFile(ind, pnl, data, target)
		switch {
		case errors.Is(err, parser.ErrSectionNotFound):
			p.logger.Warn("no relevant data section found, skipping", "file", name)
		case errors.Is(err, parser.ErrMissingColumns):
			p.logger.Warn("required columns are missing, skipping", "file", name, "error", err)
		case err != nil:
			return nil, fmt.Errorf("failed to process %s: %w", name, err)
		}
	}
	return pnl, nil
}

func (p *Processor) processFile(ind Indicator, pnl *models.Panel, data []byte, target string) error {
	switch ind {
	case Inflation:
		return p.processInflation(pnl, data, target)
	case GDP:
		return p.processGDP(pnl, data, target)
	case Unemployment:
		return p.processUnemployment(pnl, data, target)
	default:
		return fmt.Errorf("unknown indicator %q", ind)
	}
}

// processInflation reads the HICP block of a survey file. Only the core
// columns are kept and rows with a blank core value are dropped.
func (p *Processor) processInflation(pnl *models.Panel, data []byte, target string) error {
	section, ok := parser.ExtractSection(string(data), parser.InflationSection, parser.InflationStops)
	if !ok {
		return parser.ErrSectionNotFound
	}

	table, err := p.parser.ParseSurveyTable([]byte(section))
	if err != nil {
		return err
	}
	if err := table.Require(coreColumns...); err != nil {
		return err
	}

	var matched []int
	for i := range table.Rows {
		if table.Value(i, models.ColTargetPeriod) == "" ||
			table.Value(i, models.ColSource) == "" ||
			table.Value(i, models.ColPoint) == "" {
			continue
		}
		if table.Value(i, models.ColTargetPeriod) == target {
			matched = append(matched, i)
		}
	}

	return p.appendBlock(pnl, table, matched, target, nil)
}

// processGDP takes the first contiguous block of rows for the target
// quarter. A file without that block contributes nothing.
func (p *Processor) processGDP(pnl *models.Panel, data []byte, target string) error {
	table, err := p.parser.ParseSurveyTable(data)
	if err != nil {
		return err
	}
	if err := table.Require(coreColumns...); err != nil {
		return err
	}

	periods := make([]string, table.Len())
	for i := range table.Rows {
		periods[i] = table.Value(i, models.ColTargetPeriod)
	}
	matched := scanBlock(periods, target)
	if len(matched) == 0 {
		p.logger.Debug("target period block not found", "target", target)
		return nil
	}

	return p.appendBlock(pnl, table, matched, target, extraColumns(table))
}

// processUnemployment filters rows on the target month. Blank periods never
// match since target labels are never empty.
func (p *Processor) processUnemployment(pnl *models.Panel, data []byte, target string) error {
	table, err := p.parser.ParseSurveyTable(data)
	if err != nil {
		return err
	}
	if err := table.Require(coreColumns...); err != nil {
		return err
	}

	var matched []int
	for i := range table.Rows {
		if table.Value(i, models.ColTargetPeriod) == target {
			matched = append(matched, i)
		}
	}

	return p.appendBlock(pnl, table, matched, target, extraColumns(table))
}

// appendBlock converts the matched rows, densifies them onto the panel and
// appends the resulting block.
func (p *Processor) appendBlock(pnl *models.Panel, table *parser.Table, matched []int, target string, extras []string) error {
	rows := make([]models.ForecastRow, 0, len(matched))
	for _, i := range matched {
		id, err := panel.ParseForecasterID(table.Value(i, models.ColSource))
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		point, err := panel.ParsePoint(table.Value(i, models.ColPoint))
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}

		r := models.ForecastRow{TargetPeriod: target, ForecasterID: id, Point: point}
		if len(extras) > 0 {
			r.Extra = make(map[string]string, len(extras))
			for _, col := range extras {
				r.Extra[col] = table.Value(i, col)
			}
		}
		rows = append(rows, r)
	}

	res := panel.Densify(target, rows, p.config.PanelSize)
	if res.Duplicates > 0 {
		p.logger.Warn("duplicate forecaster answers dropped", "target", target, "count", res.Duplicates)
	}
	if res.Outside > 0 {
		p.logger.Warn("forecasters outside the panel dropped", "target", target, "count", res.Outside, "panel_size", p.config.PanelSize)
	}

	pnl.AddColumns(extras...)
	pnl.Append(res.Rows...)
	p.logger.Debug("appended period block", "target", target, "answers", len(rows), "rows", len(res.Rows))
	return nil
}

// extraColumns lists the non-core columns of table in source order.
func extraColumns(table *parser.Table) []string {
	var extras []string
	for _, name := range table.Header {
		switch name {
		case models.ColTargetPeriod, models.ColSource, models.ColPoint, "":
			continue
		}
		extras = append(extras, name)
	}
	return extras
}
