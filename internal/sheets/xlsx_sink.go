package sheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/locvowork/quota_tracker/pkg/quotasheet"
)

var borderStyles = map[string]int{
	"solid":        1,
	"solid_medium": 2,
	"dashed":       3,
	"dotted":       4,
	"solid_thick":  5,
	"double":       6,
}

type cell struct {
	sheet string
	col   int
	row   int
}

// XLSXSink writes batches to a local workbook. Styles are accumulated per cell
// and the file is written by Close.
type XLSXSink struct {
	path   string
	file   *excelize.File
	titles map[int64]string
	styles map[cell]*excelize.Style
	// placeholder is the default sheet of a new workbook, renamed to the first tab added.
	placeholder string
}

// NewXLSXSink opens the workbook at path, or starts a new one if it does not exist.
func NewXLSXSink(path string) (*XLSXSink, error) {
	var placeholder string
	f, err := excelize.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		f, err = excelize.NewFile(), nil
		placeholder = f.GetSheetName(0)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &XLSXSink{
		path:        path,
		file:        f,
		titles:      make(map[int64]string),
		styles:      make(map[cell]*excelize.Style),
		placeholder: placeholder,
	}, nil
}

func (x *XLSXSink) EnsureTabs(ctx context.Context, titles []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(titles))
	for _, title := range titles {
		idx, err := x.file.GetSheetIndex(title)
		if err != nil {
			return nil, fmt.Errorf("tab %q: %w", title, err)
		}
		if idx == -1 {
			if idx, err = x.addSheet(title); err != nil {
				return nil, fmt.Errorf("failed to add tab %q: %w", title, err)
			}
		}
		ids[title] = int64(idx)
		x.titles[int64(idx)] = title
	}
	return ids, nil
}

func (x *XLSXSink) addSheet(title string) (int, error) {
	if x.placeholder == "" {
		return x.file.NewSheet(title)
	}
	if err := x.file.SetSheetName(x.placeholder, title); err != nil {
		return -1, err
	}
	x.placeholder = ""
	return x.file.GetSheetIndex(title)
}

func (x *XLSXSink) WriteValues(ctx context.Context, ranges []quotasheet.ValueRange) error {
	for _, r := range ranges {
		tab, cells := quotasheet.SplitRange(r.Range)
		start := strings.SplitN(cells, ":", 2)[0]
		col, row, err := excelize.CellNameToCoordinates(start)
		if err != nil {
			return fmt.Errorf("range %q: %w", r.Range, err)
		}
		for i := range r.Values {
			axis, err := excelize.CoordinatesToCellName(col, row+i)
			if err != nil {
				return err
			}
			if err := x.file.SetSheetRow(tab, axis, &r.Values[i]); err != nil {
				return fmt.Errorf("range %q: %w", r.Range, err)
			}
		}
	}
	return nil
}

func (x *XLSXSink) ApplyMerges(ctx context.Context, merges []quotasheet.MergeRequest) error {
	for _, m := range merges {
		sheet, ok := x.titles[m.SheetID]
		if !ok {
			return fmt.Errorf("unknown sheet id %d", m.SheetID)
		}
		for _, rect := range splitMerge(m.Merge) {
			if rect.Width() < 2 && rect.Height() < 2 {
				continue
			}
			top, err := excelize.CoordinatesToCellName(rect.Col.Start, rect.Row.Start)
			if err != nil {
				return err
			}
			bottom, err := excelize.CoordinatesToCellName(rect.Col.End, rect.Row.End)
			if err != nil {
				return err
			}
			if err := x.file.MergeCell(sheet, top, bottom); err != nil {
				return fmt.Errorf("failed to merge %s:%s on %q: %w", top, bottom, sheet, err)
			}
		}
	}
	return nil
}

// splitMerge expands a merge kind into the plain rectangles excelize understands.
func splitMerge(m quotasheet.Merge) []quotasheet.Region {
	r := m.Rect
	switch m.Type {
	case quotasheet.MergeRows:
		rects := make([]quotasheet.Region, 0, r.Height())
		for row := r.Row.Start; row <= r.Row.End; row++ {
			rects = append(rects, quotasheet.Rect(row, r.Col.Start, row, r.Col.End))
		}
		return rects
	case quotasheet.MergeColumns:
		rects := make([]quotasheet.Region, 0, r.Width())
		for col := r.Col.Start; col <= r.Col.End; col++ {
			rects = append(rects, quotasheet.Rect(r.Row.Start, col, r.Row.End, col))
		}
		return rects
	}
	return []quotasheet.Region{r}
}

// ApplyStyles folds every zone into the per-cell styles; later requests win.
func (x *XLSXSink) ApplyStyles(ctx context.Context, styles []quotasheet.StyleRequest) error {
	for _, s := range styles {
		sheet, ok := x.titles[s.SheetID]
		if !ok {
			return fmt.Errorf("unknown sheet id %d", s.SheetID)
		}
		r := s.Rect
		for row := r.Row.Start; row <= r.Row.End; row++ {
			for col := r.Col.Start; col <= r.Col.End; col++ {
				x.applyTemplate(cell{sheet: sheet, col: col, row: row}, r, s.Style)
			}
		}
	}
	return nil
}

func (x *XLSXSink) applyTemplate(c cell, r quotasheet.Region, tmpl quotasheet.StyleTemplate) {
	style, ok := x.styles[c]
	if !ok {
		style = &excelize.Style{}
		x.styles[c] = style
	}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{Bold: tmpl.Font.Bold, Color: normalizeHex(tmpl.Font.Color)}
	}
	if tmpl.Fill != nil && tmpl.Fill.Color != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{normalizeHex(tmpl.Fill.Color)}, Pattern: 1}
	}
	if tmpl.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: strings.ToLower(tmpl.Alignment.Horizontal),
			Vertical:   excelVertical(tmpl.Alignment.Vertical),
		}
	}
	if b := tmpl.Border; b != nil {
		kind, ok := borderStyles[strings.ToLower(b.Style)]
		if !ok {
			kind = 1
		}
		edges := map[string]bool{
			"top":    c.row == r.Row.Start,
			"bottom": c.row == r.Row.End,
			"left":   c.col == r.Col.Start,
			"right":  c.col == r.Col.End,
		}
		for _, edge := range []string{"top", "bottom", "left", "right"} {
			if edges[edge] {
				style.Border = setBorder(style.Border, excelize.Border{Type: edge, Color: normalizeHex(b.Color), Style: kind})
			}
		}
	}
}

func setBorder(borders []excelize.Border, b excelize.Border) []excelize.Border {
	for i := range borders {
		if borders[i].Type == b.Type {
			borders[i] = b
			return borders
		}
	}
	return append(borders, b)
}

func excelVertical(v string) string {
	switch strings.ToLower(v) {
	case "middle":
		return "center"
	default:
		return strings.ToLower(v)
	}
}

// Close writes the accumulated styles and saves the workbook.
func (x *XLSXSink) Close() error {
	cells := make([]cell, 0, len(x.styles))
	for c := range x.styles {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if a.sheet != b.sheet {
			return a.sheet < b.sheet
		}
		if a.row != b.row {
			return a.row < b.row
		}
		return a.col < b.col
	})

	for _, c := range cells {
		id, err := x.file.NewStyle(x.styles[c])
		if err != nil {
			return fmt.Errorf("failed to create style: %w", err)
		}
		axis, err := excelize.CoordinatesToCellName(c.col, c.row)
		if err != nil {
			return err
		}
		if err := x.file.SetCellStyle(c.sheet, axis, axis, id); err != nil {
			return fmt.Errorf("failed to style %s!%s: %w", c.sheet, axis, err)
		}
	}
	x.styles = make(map[cell]*excelize.Style)

	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return x.file.Close()
}

// Path is where Close writes the workbook.
func (x *XLSXSink) Path() string {
	return x.path
}
