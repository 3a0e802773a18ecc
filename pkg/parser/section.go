package parser

import "strings"

const InflationSection = "INFLATION EXPECTATIONS; YEAR-ON-YEAR CHANGE IN HICP"

// InflationStops are the block headers that may follow the inflation block.
var InflationStops = []string{
	"CORE INFLATION EXPECTATIONS",
	"GROWTH EXPECTATIONS",
	"EXPECTED UNEMPLOYMENT RATE",
}

// ExtractSection returns the text from the first occurrence of header up to,
// but excluding, the nearest following stop header or the end of content.
func ExtractSection(content, header string, stops []string) (string, bool) {
	start := strings.Index(content, header)
	if start < 0 {
		return "", false
	}
	rest := content[start:]

	end := len(rest)
	for _, stop := range stops {
		// a stop may not overlap the section header itself
		if i := strings.Index(rest[len(header):], stop); i >= 0 && len(header)+i < end {
			end = len(header) + i
		}
	}
	return rest[:end], true
}
