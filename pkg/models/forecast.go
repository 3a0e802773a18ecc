package models

import (
	"github.com/shopspring/decimal"
)

// Column names shared by every survey table.
const (
	ColTargetPeriod = "TARGET_PERIOD"
	ColSource       = "FCT_SOURCE"
	ColPoint        = "POINT"
)

// ForecastRow is one forecaster's answer for one target period.
type ForecastRow struct {
	TargetPeriod string
	ForecasterID int
	Point        decimal.NullDecimal
	// Extra holds additional source columns carried through to the output.
	Extra map[string]string
}

// Panel is a long-format table of forecast rows accumulated across vintages.
type Panel struct {
	columns []string
	seen    map[string]bool
	Rows    []ForecastRow
}

// NewPanel returns an empty panel.
func NewPanel() *Panel {
	return &Panel{seen: make(map[string]bool)}
}

// AddColumns registers extra columns, keeping first-seen order.
func (p *Panel) AddColumns(names ...string) {
	for _, name := range names {
		if p.seen[name] {
			continue
		}
		p.seen[name] = true
		p.columns = append(p.columns, name)
	}
}

// Columns returns the extra column names in output order.
func (p *Panel) Columns() []string {
	return p.columns
}

// Append adds a densified period block to the panel.
func (p *Panel) Append(rows ...ForecastRow) {
	p.Rows = append(p.Rows, rows...)
}

func (p *Panel) Len() int {
	return len(p.Rows)
}

func (p *Panel) Empty() bool {
	return len(p.Rows) == 0
}
