package period

import (
	"fmt"
	"regexp"
	"strconv"
)

// VintagePattern matches survey vintage filenames such as 2021Q3.csv.
var VintagePattern = regexp.MustCompile(`^(\d{4})Q([1-4])\.csv$`)

// Rule selects the forecast horizon used for an indicator.
type Rule string

const (
	// ThreeQuarters targets the quarter-end month three quarters ahead (inflation).
	ThreeQuarters Rule = "three_quarters"
	// GDPQuarter targets a quarter label two quarters ahead (GDP).
	GDPQuarter Rule = "gdp_quarter"
	// UnemploymentMonth targets fixed survey months (unemployment).
	UnemploymentMonth Rule = "unemployment_month"
)

var quarterEndMonths = [4]string{"Mar", "Jun", "Sep", "Dec"}

// Q1 targets November of the same year, the others a month of the next year.
var unemploymentMonths = [4]string{"Nov", "Feb", "May", "Aug"}

// Vintage identifies a survey round.
type Vintage struct {
	Year    int
	Quarter int // 1..4
}

func (v Vintage) String() string {
	return fmt.Sprintf("%dQ%d", v.Year, v.Quarter)
}

// ParseVintage reads the survey year and quarter from a filename like 2020Q4.csv.
func ParseVintage(filename string) (Vintage, error) {
	m := VintagePattern.FindStringSubmatch(filename)
	if m == nil {
		return Vintage{}, fmt.Errorf("filename %q is not a survey vintage", filename)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return Vintage{}, fmt.Errorf("failed to parse year in %q: %w", filename, err)
	}
	quarter, _ := strconv.Atoi(m[2])
	return Vintage{Year: year, Quarter: quarter}, nil
}

// Target returns the target period label of the vintage under rule.
func (v Vintage) Target(rule Rule) (string, error) {
	if v.Quarter < 1 || v.Quarter > 4 {
		return "", fmt.Errorf("invalid quarter %d", v.Quarter)
	}
	switch rule {
	case ThreeQuarters:
		return ThreeQuartersAhead(v.Year, v.Quarter), nil
	case GDPQuarter:
		return GDPHorizon(v.Year, v.Quarter), nil
	case UnemploymentMonth:
		return UnemploymentHorizon(v.Year, v.Quarter), nil
	default:
		return "", fmt.Errorf("unknown horizon rule %q", rule)
	}
}

// ThreeQuartersAhead maps a vintage to the quarter-end month three quarters
// later, e.g. (2020, 4) -> "2021Sep".
func ThreeQuartersAhead(year, quarter int) string {
	idx := quarter - 1
	target := (idx + 3) % 4
	return fmt.Sprintf("%d%s", year+(idx+3)/4, quarterEndMonths[target])
}

// GDPHorizon maps Q1->Q3 and Q2->Q4 of the same year, Q3->Q1 and Q4->Q2 of
// the next year, e.g. (2021, 3) -> "2022Q1".
func GDPHorizon(year, quarter int) string {
	target := (quarter+1)%4 + 1
	if quarter >= 3 {
		year++
	}
	return fmt.Sprintf("%dQ%d", year, target)
}

// UnemploymentHorizon maps a vintage to the month targeted by the
// unemployment survey question, e.g. (2021, 2) -> "2022Feb".
func UnemploymentHorizon(year, quarter int) string {
	if quarter != 1 {
		year++
	}
	return fmt.Sprintf("%d%s", year, unemploymentMonths[quarter-1])
}
