package quotasheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Span is a 1-based inclusive range of rows or columns.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start + 1
}

func (s Span) overlaps(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

// Region is the rectangle a table occupies. Coordinates are 1-based and
// inclusive; an empty region marks an omitted table and occupies nothing.
type Region struct {
	Row   Span
	Col   Span
	empty bool
}

// Rect builds a non-empty region from inclusive bounds.
func Rect(rowStart, colStart, rowEnd, colEnd int) Region {
	return Region{Row: Span{rowStart, rowEnd}, Col: Span{colStart, colEnd}}
}

func (r Region) Empty() bool {
	return r.empty
}

func (r Region) Height() int {
	if r.empty {
		return 0
	}
	return r.Row.Len()
}

func (r Region) Width() int {
	if r.empty {
		return 0
	}
	return r.Col.Len()
}

// Overlaps reports whether two non-empty regions share a cell.
func (r Region) Overlaps(o Region) bool {
	if r.empty || o.empty {
		return false
	}
	return r.Row.overlaps(o.Row) && r.Col.overlaps(o.Col)
}

// A1 renders the region as "B3:F9".
func (r Region) A1() (string, error) {
	start, err := excelize.CoordinatesToCellName(r.Col.Start, r.Row.Start)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(r.Col.End, r.Row.End)
	if err != nil {
		return "", err
	}
	return start + ":" + end, nil
}

func (r Region) String() string {
	if r.empty {
		return fmt.Sprintf("empty@R%dC%d", r.Row.Start, r.Col.Start)
	}
	if a1, err := r.A1(); err == nil {
		return a1
	}
	return fmt.Sprintf("R%dC%d:R%dC%d", r.Row.Start, r.Col.Start, r.Row.End, r.Col.End)
}

// ColumnName converts a 1-based column number to its letter name: 1 is A, 27 is AA.
func ColumnName(n int) (string, error) {
	return excelize.ColumnNumberToName(n)
}
