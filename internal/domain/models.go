package domain

import "strings"

// Market is one survey market, keyed by PKEY such as "2023_KR".
type Market struct {
	Key         string
	CountryCode string
	Name        string
}

// ShortCode is the second "_"-separated part of the key ("2023_KR" gives "KR"),
// or the whole key when it has no "_".
func (m Market) ShortCode() string {
	parts := strings.Split(m.Key, "_")
	if len(parts) < 2 {
		return m.Key
	}
	return parts[1]
}

// Tab is the display name of the market's spreadsheet tab, e.g. "82. KR".
func (m Market) Tab() string {
	return m.CountryCode + ". " + m.ShortCode()
}

// QuotaRow is one quota bucket. Series is empty for non-series rows.
type QuotaRow struct {
	Market   string
	QID      string
	QID2     string
	Answer   string
	Label    string
	Series   string
	Order    string
	Quota    float64
	Achieved float64
}

// CompletionRow is the achieved count for one quota key.
type CompletionRow struct {
	Market string
	QID    string
	QID2   string
	Answer string
	Series string
	Count  float64
}

// ConversionRow carries completions for a derived dimension marker (age band, region).
type ConversionRow struct {
	Code  string
	Count float64
}

// BrandDetailRow is one owner count of a brand for a segment.
type BrandDetailRow struct {
	BrandCode string
	Label     string
	Count     float64
}
