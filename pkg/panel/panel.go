// Package panel aligns sparse survey answers onto the fixed forecaster panel.
package panel

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/spfmerge/pkg/models"
)

// DefaultSize is the number of forecaster identifiers in the SPF panel.
const DefaultSize = 150

// Result is a densified period block.
type Result struct {
	Rows []models.ForecastRow
	// Duplicates counts input rows dropped because their forecaster already
	// had an answer for the period.
	Duplicates int
	// Outside counts input rows whose forecaster is not in 1..size.
	Outside int
}

var maxID = decimal.NewFromInt(math.MaxInt32)

// nullTokens are the cell values read as a missing point forecast.
var nullTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// ParseForecasterID coerces a raw FCT_SOURCE cell ("12", "12.0", " 12 ") to
// an integer identifier.
func ParseForecasterID(raw string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid forecaster id %q: %w", raw, err)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("forecaster id %q is not an integer", raw)
	}
	if d.Abs().GreaterThan(maxID) {
		return 0, fmt.Errorf("forecaster id %q is out of range", raw)
	}
	return int(d.IntPart()), nil
}

// ParsePoint reads an optional point forecast; blank cells and the usual
// spreadsheet NA markers are null.
func ParsePoint(raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if nullTokens[raw] {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid point forecast %q: %w", raw, err)
	}
	return decimal.NewNullDecimal(d), nil
}

// Densify left-joins rows onto the panel {1..size} for one target period.
// The result has exactly size rows in forecaster order; forecasters without
// a matching row carry a null point. Rows for other periods are ignored.
func Densify(period string, rows []models.ForecastRow, size int) Result {
	byID := make(map[int]models.ForecastRow, len(rows))
	var res Result
	for _, r := range rows {
		if r.TargetPeriod != period {
			continue
		}
		if r.ForecasterID < 1 || r.ForecasterID > size {
			res.Outside++
			continue
		}
		if _, dup := byID[r.ForecasterID]; dup {
			res.Duplicates++
			continue
		}
		byID[r.ForecasterID] = r
	}

	res.Rows = make([]models.ForecastRow, size)
	for id := 1; id <= size; id++ {
		if r, ok := byID[id]; ok {
			res.Rows[id-1] = r
			continue
		}
		res.Rows[id-1] = models.ForecastRow{TargetPeriod: period, ForecasterID: id}
	}
	return res
}
