package domain

import (
	"context"

	"github.com/locvowork/quota_tracker/pkg/quotasheet"
)

// QuotaSource defines the data access the report needs per market.
type QuotaSource interface {
	Markets(ctx context.Context) ([]Market, error)
	Quotas(ctx context.Context, market string) ([]QuotaRow, error)
	Completions(ctx context.Context, market string) ([]CompletionRow, error)
	SeriesQuotas(ctx context.Context, market string) ([]QuotaRow, error)
	SeriesCompletions(ctx context.Context, market string) ([]CompletionRow, error)
	AgeConversions(ctx context.Context, market string) ([]ConversionRow, error)
	RegionConversions(ctx context.Context, market string) ([]ConversionRow, error)
	OwnerBrandDetails(ctx context.Context, market string) ([]BrandDetailRow, error)
}

// SheetSink is the destination spreadsheet. Each method is one batched call.
type SheetSink interface {
	// EnsureTabs creates missing tabs and returns the sheet id of every title.
	EnsureTabs(ctx context.Context, titles []string) (map[string]int64, error)
	WriteValues(ctx context.Context, ranges []quotasheet.ValueRange) error
	ApplyMerges(ctx context.Context, merges []quotasheet.MergeRequest) error
	ApplyStyles(ctx context.Context, styles []quotasheet.StyleRequest) error
}
