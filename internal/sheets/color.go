package sheets

import (
	"strconv"
	"strings"

	sheetsapi "google.golang.org/api/sheets/v4"
)

// hexColor parses "RRGGBB" (with or without "#"). Invalid input yields black.
func hexColor(hex string) *sheetsapi.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return &sheetsapi.Color{}
	}
	return &sheetsapi.Color{
		Red:   float64(v>>16&0xFF) / 255,
		Green: float64(v>>8&0xFF) / 255,
		Blue:  float64(v&0xFF) / 255,
	}
}

// normalizeHex returns the upper-case "RRGGBB" form excelize expects.
func normalizeHex(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
}
