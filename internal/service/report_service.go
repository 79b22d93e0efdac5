package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/locvowork/quota_tracker/internal/domain"
	"github.com/locvowork/quota_tracker/internal/logger"
	"github.com/locvowork/quota_tracker/pkg/quotasheet"
)

const (
	// tableGap is the number of blank rows between stacked tables.
	tableGap = 1
	// bandGap is the number of blank columns between the demographic stack and the brand band.
	bandGap = 1
)

// Config controls which markets are reported and how.
type Config struct {
	// IncludeMarkets restricts the run to these markets when non-empty. Entries
	// match either the full key ("2023_KR") or the short code ("KR").
	IncludeMarkets []string
	ExcludeMarkets []string
	// ParallelFetch issues the per-market requests concurrently.
	ParallelFetch bool
	Styles        quotasheet.StyleSet
}

// MarketFailure records why a market was left out of the run.
type MarketFailure struct {
	Market string
	Err    error
}

// RunSummary describes the outcome of one run.
type RunSummary struct {
	Markets []string
	Skipped []MarketFailure
	Values  int
	Merges  int
	Styles  int
}

// ReportService fetches every market, lays out its tables and writes them to the sink.
type ReportService struct {
	source domain.QuotaSource
	sink   domain.SheetSink
	cfg    Config
}

func NewReportService(source domain.QuotaSource, sink domain.SheetSink, cfg Config) *ReportService {
	return &ReportService{source: source, sink: sink, cfg: cfg}
}

// Run processes markets one after another. A market that fails to fetch or
// lay out is logged and skipped; a sink failure aborts the run.
func (s *ReportService) Run(ctx context.Context) (*RunSummary, error) {
	markets, err := s.source.Markets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	markets = s.filterMarkets(markets)
	logger.InfoLog(ctx, "Reporting %d markets", len(markets))

	summary := &RunSummary{}
	batch := &quotasheet.Batch{}
	for _, m := range markets {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run aborted before market %s: %w", m.Key, err)
		}

		mctx := logger.WithLogger(ctx, map[string]interface{}{"market": m.Key})
		logger.InfoLog(mctx, "Fetching data for %s...", m.Name)

		plan, err := s.BuildMarket(mctx, m)
		if err != nil {
			var lookupErr *quotasheet.MissingLookupError
			if errors.As(err, &lookupErr) {
				logger.ErrorLog(mctx, "Data contract violation, skipping market (lookup key %s)", err, lookupErr.Key)
			} else {
				logger.WarnLog(mctx, "Skipping market", err)
			}
			summary.Skipped = append(summary.Skipped, MarketFailure{Market: m.Key, Err: err})
			continue
		}
		if plan.IsEmpty() {
			logger.WarnLog(mctx, "Market %s has no data, nothing to write", m.Key)
			continue
		}
		batch.Add(plan)
		summary.Markets = append(summary.Markets, plan.Tab)
	}

	if batch.Len() == 0 {
		logger.WarnLog(ctx, "No market produced any table, nothing to upload")
		return summary, nil
	}
	if err := s.upload(ctx, batch, summary); err != nil {
		logger.ErrorLog(ctx, "Upload failed", err)
		return summary, err
	}
	logger.InfoLog(ctx, "Uploaded %d tabs: %d ranges, %d merges, %d styles",
		len(summary.Markets), summary.Values, summary.Merges, summary.Styles)
	return summary, nil
}

// BuildMarket fetches one market and returns its validated sheet plan.
func (s *ReportService) BuildMarket(ctx context.Context, m domain.Market) (*quotasheet.SheetPlan, error) {
	data, err := s.fetchMarket(ctx, m.Key)
	if err != nil {
		return nil, err
	}
	tables, err := buildTables(data)
	if err != nil {
		return nil, fmt.Errorf("market %s: %w", m.Key, err)
	}
	plan := composeSheet(m.Tab(), tables)
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("market %s: %w", m.Key, err)
	}
	return plan, nil
}

func (s *ReportService) upload(ctx context.Context, batch *quotasheet.Batch, summary *RunSummary) error {
	values, err := batch.ValueRanges()
	if err != nil {
		return fmt.Errorf("failed to build value ranges: %w", err)
	}

	ids, err := s.sink.EnsureTabs(ctx, batch.Tabs())
	if err != nil {
		return fmt.Errorf("failed to ensure tabs: %w", err)
	}
	if err := s.sink.WriteValues(ctx, values); err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}
	summary.Values = len(values)

	merges, err := batch.MergeRequests(ids)
	if err != nil {
		return err
	}
	if len(merges) > 0 {
		if err := s.sink.ApplyMerges(ctx, merges); err != nil {
			return fmt.Errorf("failed to apply merges: %w", err)
		}
	}
	summary.Merges = len(merges)

	styles, err := batch.StyleRequests(ids, s.cfg.Styles)
	if err != nil {
		return err
	}
	if len(styles) > 0 {
		if err := s.sink.ApplyStyles(ctx, styles); err != nil {
			return fmt.Errorf("failed to apply styles: %w", err)
		}
	}
	summary.Styles = len(styles)
	return nil
}

func (s *ReportService) filterMarkets(markets []domain.Market) []domain.Market {
	include := toSet(s.cfg.IncludeMarkets)
	exclude := toSet(s.cfg.ExcludeMarkets)

	var out []domain.Market
	for _, m := range markets {
		if len(include) > 0 && !matchMarket(include, m) {
			continue
		}
		if matchMarket(exclude, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[strings.ToUpper(v)] = true
		}
	}
	return set
}

func matchMarket(set map[string]bool, m domain.Market) bool {
	return set[strings.ToUpper(m.Key)] || set[strings.ToUpper(m.ShortCode())]
}

// marketData holds every row family fetched for one market.
type marketData struct {
	quotas            []domain.QuotaRow
	completions       []domain.CompletionRow
	seriesQuotas      []domain.QuotaRow
	seriesCompletions []domain.CompletionRow
	ageConversions    []domain.ConversionRow
	regionConversions []domain.ConversionRow
	ownerBrand        []domain.BrandDetailRow
}

func (s *ReportService) fetchMarket(ctx context.Context, key string) (*marketData, error) {
	d := &marketData{}
	fetches := []func(context.Context) error{
		func(ctx context.Context) (err error) {
			d.quotas, err = s.source.Quotas(ctx, key)
			return wrapFetch("quotas", key, err)
		},
		func(ctx context.Context) (err error) {
			d.completions, err = s.source.Completions(ctx, key)
			return wrapFetch("completions", key, err)
		},
		func(ctx context.Context) (err error) {
			d.seriesQuotas, err = s.source.SeriesQuotas(ctx, key)
			return wrapFetch("series quotas", key, err)
		},
		func(ctx context.Context) (err error) {
			d.seriesCompletions, err = s.source.SeriesCompletions(ctx, key)
			return wrapFetch("series completions", key, err)
		},
		func(ctx context.Context) (err error) {
			d.ageConversions, err = s.source.AgeConversions(ctx, key)
			return wrapFetch("age conversions", key, err)
		},
		func(ctx context.Context) (err error) {
			d.regionConversions, err = s.source.RegionConversions(ctx, key)
			return wrapFetch("region conversions", key, err)
		},
		func(ctx context.Context) (err error) {
			d.ownerBrand, err = s.source.OwnerBrandDetails(ctx, key)
			return wrapFetch("owner brand details", key, err)
		},
	}

	if s.cfg.ParallelFetch {
		g, gctx := errgroup.WithContext(ctx)
		for _, fetch := range fetches {
			fetch := fetch
			g.Go(func() error { return fetch(gctx) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return d, nil
	}

	for _, fetch := range fetches {
		if err := fetch(ctx); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func wrapFetch(what, key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to fetch %s for %s: %w", what, key, err)
}

// marketTables are the tables of one tab, in composition order.
type marketTables struct {
	gender, age, region, brand        *quotasheet.Table
	segTotal, segOwner, segIntender   *quotasheet.Table
	mainBrand, mainEngine             *quotasheet.Table
	ownerBrand, segBooster, evBooster *quotasheet.Table
}

func buildTables(d *marketData) (*marketTables, error) {
	quotas := JoinCompletions(d.quotas, d.completions)
	series := JoinCompletions(d.seriesQuotas, d.seriesCompletions)

	ownerSeries := OwnerRows(series)
	intenderSeries := IntenderRows(series)

	t := &marketTables{
		gender: quotasheet.BuildTable("Gender", sheetRows(GenderRows(quotas))),
		age:    quotasheet.BuildTable("Age", sheetRows(ApplyConversions(AgeRows(quotas), d.ageConversions))),
		region: quotasheet.BuildTable("Region", sheetRows(ApplyConversions(RegionRows(quotas), d.regionConversions))),
		brand:  quotasheet.BuildTable("Brand", sheetRows(BrandRows(quotas))),

		segTotal: quotasheet.BuildTable("Main Segment", sheetRows(SegmentRows(quotas)),
			quotasheet.WithBanner("Total")),
		segOwner: quotasheet.BuildTable("Owner", sheetRows(SegmentRows(ownerSeries)),
			quotasheet.WithoutLabelColumn(), quotasheet.WithBanner("Owner")),
		segIntender: quotasheet.BuildTable("Intender", sheetRows(SegmentRows(intenderSeries)),
			quotasheet.WithoutLabelColumn(), quotasheet.WithBanner("Intender")),

		mainBrand: quotasheet.BuildCrossTab("Main - Brand", []quotasheet.Series{
			{Label: "Total", Rows: sheetRows(BrandRows(quotas))},
			{Label: "Owner", Rows: sheetRows(BrandRows(ownerSeries))},
			{Label: "Intender", Rows: sheetRows(BrandRows(intenderSeries))},
		}),
		mainEngine: quotasheet.BuildCrossTab("Main - Engine", []quotasheet.Series{
			{Label: "Total", Rows: sheetRows(EngineRows(quotas))},
			{Label: "Owner", Rows: sheetRows(EngineRows(ownerSeries))},
			{Label: "Intender", Rows: sheetRows(EngineRows(intenderSeries))},
		}),

		segBooster: quotasheet.BuildTable("Seg Booster", sheetRows(SegmentBoosterRows(series))),
		evBooster:  quotasheet.BuildTable("EV Booster", sheetRows(EVBoosterRows(series))),
	}

	ownerBrand, err := quotasheet.BuildOwnerBrandTable("Owner Brand",
		brandCounts(d.ownerBrand),
		sheetRows(BrandRows(ownerSeries)),
		sheetRows(SegmentRows(ownerSeries)))
	if err != nil {
		return nil, err
	}
	t.ownerBrand = ownerBrand
	return t, nil
}

// composeSheet lays out the tab: the demographic stack on the left, Brand to
// its right, and the wide tables below whichever of the two ends lower.
func composeSheet(tab string, t *marketTables) *quotasheet.SheetPlan {
	plan := quotasheet.NewSheetPlan(tab)

	left := quotasheet.NewBand(1, 1, tableGap)
	plan.Stack(left, t.gender, t.age, t.region)

	right := quotasheet.NewBand(1, left.NextColumn(bandGap), tableGap)
	plan.Stack(right, t.brand)

	wide := quotasheet.NewBand(quotasheet.Below(tableGap, left, right), 1, tableGap)
	plan.Group(wide, 0, t.segTotal, t.segOwner, t.segIntender)
	plan.Stack(wide, t.mainBrand, t.mainEngine, t.ownerBrand, t.segBooster, t.evBooster)
	return plan
}
