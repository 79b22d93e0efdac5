package quotasheet

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// toDecimal reads NaN and infinities as zero; decimal cannot represent them.
func toDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Percent renders achieved as a share of quota, two decimals and a trailing "%".
// A zero quota always renders as "0.00%".
func Percent(achieved, quota float64) string {
	q := toDecimal(quota)
	if q.IsZero() {
		return "0.00%"
	}
	return toDecimal(achieved).
		Div(q).
		Mul(hundred).
		StringFixed(2) + "%"
}

// Remaining is quota minus achieved. Over-achievement yields a negative value.
func Remaining(quota, achieved float64) float64 {
	return toDecimal(quota).Sub(toDecimal(achieved)).InexactFloat64()
}

// Sum adds values with decimal precision so totals do not drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(toDecimal(v))
	}
	return total.InexactFloat64()
}

// QuoteTab returns the tab title in the form accepted inside an A1 range.
func QuoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// SplitRange is the inverse of the "<tab>!<cells>" notation produced by Batch.
func SplitRange(a1 string) (tab, cells string) {
	i := strings.LastIndex(a1, "!")
	if i < 0 {
		return "", a1
	}
	tab, cells = a1[:i], a1[i+1:]
	if len(tab) >= 2 && strings.HasPrefix(tab, "'") && strings.HasSuffix(tab, "'") {
		tab = strings.ReplaceAll(tab[1:len(tab)-1], "''", "'")
	}
	return tab, cells
}
