package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/locvowork/quota_tracker/pkg/quotasheet"
)

// ErrNoSpreadsheetID is returned when the Google sink is built without a target spreadsheet.
var ErrNoSpreadsheetID = errors.New("sheets: spreadsheet id is not configured")

// Config holds the Google Sheets destination and its service account.
type Config struct {
	SpreadsheetID            string
	ServiceAccountEmail      string
	ServiceAccountPrivateKey string
	ServiceAccountFile       string
}

// GoogleSink writes batches to a Google spreadsheet, one API call per batch kind.
type GoogleSink struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewGoogleSink authenticates with the configured service account unless
// opts already carry credentials or an endpoint.
func NewGoogleSink(ctx context.Context, cfg Config, opts ...option.ClientOption) (*GoogleSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, ErrNoSpreadsheetID
	}
	if len(opts) == 0 {
		ts, err := TokenSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithTokenSource(ts))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleSink{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

func (g *GoogleSink) EnsureTabs(ctx context.Context, titles []string) (map[string]int64, error) {
	spreadsheet, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	existing := make(map[string]int64, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil {
			existing[s.Properties.Title] = s.Properties.SheetId
		}
	}

	var reqs []*sheetsapi.Request
	pending := make(map[string]bool)
	for _, title := range titles {
		if _, ok := existing[title]; ok || pending[title] {
			continue
		}
		pending[title] = true
		reqs = append(reqs, &sheetsapi.Request{
			AddSheet: &sheetsapi.AddSheetRequest{Properties: &sheetsapi.SheetProperties{Title: title}},
		})
	}
	if len(reqs) > 0 {
		resp, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
			Requests: reqs,
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to add tabs: %w", err)
		}
		for _, reply := range resp.Replies {
			if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
				existing[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
			}
		}
	}

	ids := make(map[string]int64, len(titles))
	for _, title := range titles {
		id, ok := existing[title]
		if !ok {
			return nil, fmt.Errorf("tab %q missing after creation", title)
		}
		ids[title] = id
	}
	return ids, nil
}

func (g *GoogleSink) WriteValues(ctx context.Context, ranges []quotasheet.ValueRange) error {
	if len(ranges) == 0 {
		return nil
	}
	data := make([]*sheetsapi.ValueRange, 0, len(ranges))
	for _, r := range ranges {
		data = append(data, &sheetsapi.ValueRange{Range: r.Range, MajorDimension: "ROWS", Values: r.Values})
	}
	_, err := g.svc.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update values: %w", err)
	}
	return nil
}

func (g *GoogleSink) ApplyMerges(ctx context.Context, merges []quotasheet.MergeRequest) error {
	reqs := make([]*sheetsapi.Request, 0, len(merges))
	for _, m := range merges {
		reqs = append(reqs, &sheetsapi.Request{
			MergeCells: &sheetsapi.MergeCellsRequest{
				Range:     gridRange(m.SheetID, m.Rect),
				MergeType: string(m.Type),
			},
		})
	}
	return g.batchUpdate(ctx, reqs)
}

func (g *GoogleSink) ApplyStyles(ctx context.Context, styles []quotasheet.StyleRequest) error {
	var reqs []*sheetsapi.Request
	for _, s := range styles {
		reqs = append(reqs, styleRequests(s)...)
	}
	return g.batchUpdate(ctx, reqs)
}

func (g *GoogleSink) batchUpdate(ctx context.Context, reqs []*sheetsapi.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to batch update spreadsheet: %w", err)
	}
	return nil
}

// gridRange converts an inclusive 1-based region to the API's 0-based half-open range.
func gridRange(sheetID int64, r quotasheet.Region) *sheetsapi.GridRange {
	return &sheetsapi.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(r.Row.Start - 1),
		EndRowIndex:      int64(r.Row.End),
		StartColumnIndex: int64(r.Col.Start - 1),
		EndColumnIndex:   int64(r.Col.End),
		// zero values are meaningful here and must not be dropped
		ForceSendFields: []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

func styleRequests(s quotasheet.StyleRequest) []*sheetsapi.Request {
	var reqs []*sheetsapi.Request
	if format, fields := cellFormat(s.Style); len(fields) > 0 {
		reqs = append(reqs, &sheetsapi.Request{
			RepeatCell: &sheetsapi.RepeatCellRequest{
				Range:  gridRange(s.SheetID, s.Rect),
				Cell:   &sheetsapi.CellData{UserEnteredFormat: format},
				Fields: strings.Join(fields, ","),
			},
		})
	}
	if b := s.Style.Border; b != nil {
		border := &sheetsapi.Border{Style: borderStyle(b.Style), Color: hexColor(b.Color)}
		reqs = append(reqs, &sheetsapi.Request{
			UpdateBorders: &sheetsapi.UpdateBordersRequest{
				Range:  gridRange(s.SheetID, s.Rect),
				Top:    border,
				Bottom: border,
				Left:   border,
				Right:  border,
			},
		})
	}
	return reqs
}

func cellFormat(tmpl quotasheet.StyleTemplate) (*sheetsapi.CellFormat, []string) {
	format := &sheetsapi.CellFormat{}
	var fields []string
	if tmpl.Fill != nil && tmpl.Fill.Color != "" {
		format.BackgroundColor = hexColor(tmpl.Fill.Color)
		fields = append(fields, "userEnteredFormat.backgroundColor")
	}
	if tmpl.Font != nil {
		format.TextFormat = &sheetsapi.TextFormat{Bold: tmpl.Font.Bold, ForceSendFields: []string{"Bold"}}
		if tmpl.Font.Color != "" {
			format.TextFormat.ForegroundColor = hexColor(tmpl.Font.Color)
		}
		fields = append(fields, "userEnteredFormat.textFormat")
	}
	if tmpl.Alignment != nil {
		if tmpl.Alignment.Horizontal != "" {
			format.HorizontalAlignment = strings.ToUpper(tmpl.Alignment.Horizontal)
			fields = append(fields, "userEnteredFormat.horizontalAlignment")
		}
		if tmpl.Alignment.Vertical != "" {
			format.VerticalAlignment = strings.ToUpper(tmpl.Alignment.Vertical)
			fields = append(fields, "userEnteredFormat.verticalAlignment")
		}
	}
	return format, fields
}

func borderStyle(style string) string {
	if style == "" {
		return "SOLID"
	}
	return strings.ToUpper(style)
}
