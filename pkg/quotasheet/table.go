package quotasheet

import "fmt"

const (
	HeaderQuota     = "Quota"
	HeaderAchieved  = "Achie.(N)"
	HeaderPercent   = "Achie.(%)"
	HeaderRemaining = "Remaining"
	HeaderTotal     = "Total"
	HeaderTotalPct  = "Total(%)"
	TotalLabel      = "Total"
)

// tupleWidth is the number of numeric columns one quota series occupies.
const tupleWidth = 4

// Row is one quota bucket as the builders see it.
type Row struct {
	Answer   string
	Label    string
	Quota    float64
	Achieved float64
}

// Title is the label cell of a data row: "<answer>. <label>".
func (r Row) Title() string {
	return r.Answer + ". " + r.Label
}

// Series is one labelled column group of a cross-tab.
type Series struct {
	Label string
	Rows  []Row
}

// BrandCount is one segment count of the owner-brand detail table.
type BrandCount struct {
	Code  string
	Label string
	Count float64
}

// Group is a labelled span of value columns in a two-row header.
type Group struct {
	Label string
	Width int
}

// Table is a rectangular grid of cells ready to be placed on a sheet.
// Cells hold either a string or a float64.
type Table struct {
	Name        string
	Rows        [][]interface{}
	Banner      string
	HeaderRows  int
	Groups      []Group
	LabelColumn bool
	Zones       Zone
}

// IsEmpty reports whether the table has no cells and must be omitted.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

func (t *Table) Height() int {
	if t.IsEmpty() {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Width() int {
	if t.IsEmpty() {
		return 0
	}
	return len(t.Rows[0])
}

// BannerRows is 1 when the table carries a banner row above its header.
func (t *Table) BannerRows() int {
	if t.Banner == "" {
		return 0
	}
	return 1
}

// LeadingRows counts the banner and header rows.
func (t *Table) LeadingRows() int {
	return t.BannerRows() + t.HeaderRows
}

// MissingLookupError reports a detail record whose brand has no quota row.
type MissingLookupError struct {
	Table string
	Key   string
}

func (e *MissingLookupError) Error() string {
	return fmt.Sprintf("table %q: no quota row for brand code %q", e.Table, e.Key)
}

type Option func(*tableConfig)

type tableConfig struct {
	stripLabel bool
	banner     string
	suppress   Zone
}

// WithoutLabelColumn drops the leading label column, for tables shown beside one that has it.
func WithoutLabelColumn() Option {
	return func(c *tableConfig) { c.stripLabel = true }
}

// WithBanner adds a title row spanning the table width above the header.
func WithBanner(title string) Option {
	return func(c *tableConfig) { c.banner = title }
}

// WithoutZones disables styling for the given zones.
func WithoutZones(z Zone) Option {
	return func(c *tableConfig) { c.suppress |= z }
}

func (c tableConfig) apply(t *Table) {
	if c.stripLabel {
		for i, row := range t.Rows {
			t.Rows[i] = row[1:]
		}
		t.LabelColumn = false
		t.Zones &^= ZoneFirstColumn | ZoneBorder
	}
	if c.banner != "" {
		banner := make([]interface{}, len(t.Rows[0]))
		banner[0] = c.banner
		for i := 1; i < len(banner); i++ {
			banner[i] = ""
		}
		t.Rows = append([][]interface{}{banner}, t.Rows...)
		t.Banner = c.banner
	}
	t.Zones &^= c.suppress
}

func newTable(name string, headerRows int, opts []Option) (*Table, tableConfig) {
	var cfg tableConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Table{Name: name, HeaderRows: headerRows, LabelColumn: true, Zones: AllZones}, cfg
}

func tuple(quota, achieved float64) []interface{} {
	return []interface{}{quota, achieved, Percent(achieved, quota), Remaining(quota, achieved)}
}

// BuildTable renders one quota dimension: a header, one row per bucket and a totals row.
// No rows yields an empty table.
func BuildTable(name string, rows []Row, opts ...Option) *Table {
	t, cfg := newTable(name, 1, opts)
	if len(rows) == 0 {
		return t
	}

	cells := make([][]interface{}, 0, len(rows)+2)
	cells = append(cells, []interface{}{name, HeaderQuota, HeaderAchieved, HeaderPercent, HeaderRemaining})

	quotas := make([]float64, 0, len(rows))
	achieved := make([]float64, 0, len(rows))
	for _, r := range rows {
		quotas = append(quotas, r.Quota)
		achieved = append(achieved, r.Achieved)
		cells = append(cells, append([]interface{}{r.Title()}, tuple(r.Quota, r.Achieved)...))
	}
	cells = append(cells, append([]interface{}{TotalLabel}, tuple(Sum(quotas...), Sum(achieved...))...))

	t.Rows = cells
	cfg.apply(t)
	return t
}

// BuildCrossTab renders several series side by side under a two-row header.
// Rows follow the first-seen order of answer codes across all series; a series
// without a given answer contributes zeros.
func BuildCrossTab(name string, series []Series, opts ...Option) *Table {
	t, cfg := newTable(name, 2, opts)

	var order []Row
	seen := make(map[string]bool)
	indexes := make([]map[string]Row, len(series))
	for i, s := range series {
		indexes[i] = make(map[string]Row, len(s.Rows))
		for _, r := range s.Rows {
			if _, ok := indexes[i][r.Answer]; !ok {
				indexes[i][r.Answer] = r
			}
			if !seen[r.Answer] {
				seen[r.Answer] = true
				order = append(order, r)
			}
		}
	}
	if len(order) == 0 {
		return t
	}

	groupRow := []interface{}{name}
	labelRow := []interface{}{name}
	for _, s := range series {
		groupRow = append(groupRow, s.Label, s.Label, s.Label, s.Label)
		labelRow = append(labelRow, HeaderQuota, HeaderAchieved, HeaderPercent, HeaderRemaining)
		t.Groups = append(t.Groups, Group{Label: s.Label, Width: tupleWidth})
	}

	cells := [][]interface{}{groupRow, labelRow}
	quotaTotals := make([][]float64, len(series))
	achievedTotals := make([][]float64, len(series))
	for _, key := range order {
		row := []interface{}{key.Title()}
		for i := range series {
			r := indexes[i][key.Answer]
			quotaTotals[i] = append(quotaTotals[i], r.Quota)
			achievedTotals[i] = append(achievedTotals[i], r.Achieved)
			row = append(row, tuple(r.Quota, r.Achieved)...)
		}
		cells = append(cells, row)
	}

	totals := []interface{}{TotalLabel}
	for i := range series {
		totals = append(totals, tuple(Sum(quotaTotals[i]...), Sum(achievedTotals[i]...))...)
	}
	t.Rows = append(cells, totals)
	cfg.apply(t)
	return t
}

// BuildOwnerBrandTable renders owner counts per brand and segment. Details are
// grouped by brand code in first-seen order, each record filling the next segment
// column. Quota and achieved come from brandQuotas; a brand without one is a
// *MissingLookupError.
func BuildOwnerBrandTable(name string, details []BrandCount, brandQuotas []Row, segments []Row, opts ...Option) (*Table, error) {
	t, cfg := newTable(name, 1, opts)
	if len(details) == 0 {
		return t, nil
	}

	quotaByBrand := make(map[string]Row, len(brandQuotas))
	for _, r := range brandQuotas {
		if _, ok := quotaByBrand[r.Answer]; !ok {
			quotaByBrand[r.Answer] = r
		}
	}

	var codes []string
	counts := make(map[string][]float64)
	labels := make(map[string]string)
	for _, d := range details {
		if _, ok := counts[d.Code]; !ok {
			if _, found := quotaByBrand[d.Code]; !found {
				return nil, &MissingLookupError{Table: name, Key: d.Code}
			}
			codes = append(codes, d.Code)
			labels[d.Code] = d.Label
			counts[d.Code] = []float64{}
		}
		counts[d.Code] = append(counts[d.Code], d.Count)
	}

	header := []interface{}{name, HeaderQuota}
	for _, s := range segments {
		header = append(header, s.Label)
	}
	header = append(header, HeaderTotal, HeaderTotalPct)
	cells := [][]interface{}{header}

	var quotaCol, achievedCol []float64
	segmentCols := make([][]float64, len(segments))
	for _, code := range codes {
		brand := quotaByBrand[code]
		row := []interface{}{Row{Answer: code, Label: labels[code]}.Title(), brand.Quota}
		values := counts[code]
		for i := range segments {
			var v float64
			if i < len(values) {
				v = values[i]
			}
			segmentCols[i] = append(segmentCols[i], v)
			row = append(row, v)
		}
		row = append(row, brand.Achieved, Percent(brand.Achieved, brand.Quota))
		quotaCol = append(quotaCol, brand.Quota)
		achievedCol = append(achievedCol, brand.Achieved)
		cells = append(cells, row)
	}

	totals := []interface{}{TotalLabel, Sum(quotaCol...)}
	for i := range segments {
		totals = append(totals, Sum(segmentCols[i]...))
	}
	quota, achieved := Sum(quotaCol...), Sum(achievedCol...)
	totals = append(totals, achieved, Percent(achieved, quota))
	t.Rows = append(cells, totals)
	cfg.apply(t)
	return t, nil
}
