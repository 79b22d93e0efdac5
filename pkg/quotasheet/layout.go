package quotasheet

import "fmt"

// Place assigns a table its region with the top-left cell at (row, col).
// An empty table gets a zero-height marker at the same position.
func Place(row, col int, t *Table) Region {
	if t.IsEmpty() {
		return Region{Row: Span{row, row}, Col: Span{col, col}, empty: true}
	}
	return Rect(row, col, row+t.Height()-1, col+t.Width()-1)
}

// Band stacks tables vertically from a fixed column, leaving gap blank rows
// between consecutive tables. Empty tables never move the cursor.
type Band struct {
	row    int
	col    int
	gap    int
	next   int
	end    int
	right  int
	placed bool
}

func NewBand(row, col, gap int) *Band {
	return &Band{row: row, col: col, gap: gap, next: row, end: row - 1, right: col - 1}
}

// Next is the row the next table will start on.
func (b *Band) Next() int { return b.next }

// End is the last row occupied by the band.
func (b *Band) End() int { return b.end }

// Right is the last column occupied by the band.
func (b *Band) Right() int { return b.right }

// Placed reports whether any non-empty table landed in the band.
func (b *Band) Placed() bool { return b.placed }

// NextColumn is the first column of a band placed colGap blank columns to the right.
func (b *Band) NextColumn(colGap int) int {
	if !b.placed {
		return b.col
	}
	return b.right + colGap + 1
}

// Add places t at the cursor.
func (b *Band) Add(t *Table) Region {
	r := Place(b.next, b.col, t)
	if r.Empty() {
		return r
	}
	b.include(r)
	b.advance()
	return r
}

// AddGroup places tables side by side in one row of the band with colGap blank
// columns between them. Header bottoms are aligned, so a table with fewer
// leading rows starts lower. Empty members take no columns.
func (b *Band) AddGroup(colGap int, tables ...*Table) []Region {
	lead := 0
	for _, t := range tables {
		if !t.IsEmpty() && t.LeadingRows() > lead {
			lead = t.LeadingRows()
		}
	}

	regions := make([]Region, len(tables))
	col := b.col
	placed := false
	for i, t := range tables {
		if t.IsEmpty() {
			regions[i] = Place(b.next, col, t)
			continue
		}
		r := Place(b.next+lead-t.LeadingRows(), col, t)
		regions[i] = r
		col = r.Col.End + colGap + 1
		b.include(r)
		placed = true
	}
	if placed {
		b.advance()
	}
	return regions
}

func (b *Band) include(r Region) {
	if r.Row.End > b.end {
		b.end = r.Row.End
	}
	if r.Col.End > b.right {
		b.right = r.Col.End
	}
	b.placed = true
}

func (b *Band) advance() {
	b.next = b.end + b.gap + 1
}

// Below returns the first row after all bands, leaving gap blank rows. When
// no band holds a table it is the top row of the earliest band.
func Below(gap int, bands ...*Band) int {
	row, top := 0, 0
	for i, b := range bands {
		if i == 0 || b.row < top {
			top = b.row
		}
		if b.placed && b.end+gap+1 > row {
			row = b.end + gap + 1
		}
	}
	if row == 0 {
		return top
	}
	return row
}

// Placement pairs a table with the region assigned to it.
type Placement struct {
	Table  *Table
	Region Region
}

// SheetPlan is the set of tables placed on one tab.
type SheetPlan struct {
	Tab        string
	Placements []Placement
}

func NewSheetPlan(tab string) *SheetPlan {
	return &SheetPlan{Tab: tab}
}

// Put records a placement; empty tables are dropped.
func (p *SheetPlan) Put(t *Table, r Region) {
	if t.IsEmpty() || r.Empty() {
		return
	}
	p.Placements = append(p.Placements, Placement{Table: t, Region: r})
}

// Stack adds tables one below the other in b.
func (p *SheetPlan) Stack(b *Band, tables ...*Table) {
	for _, t := range tables {
		p.Put(t, b.Add(t))
	}
}

// Group adds tables side by side in b.
func (p *SheetPlan) Group(b *Band, colGap int, tables ...*Table) {
	regions := b.AddGroup(colGap, tables...)
	for i, t := range tables {
		p.Put(t, regions[i])
	}
}

// IsEmpty reports whether no table was placed.
func (p *SheetPlan) IsEmpty() bool {
	return len(p.Placements) == 0
}

// OverlapError reports two tables sharing cells on the same tab.
type OverlapError struct {
	Tab    string
	First  string
	Second string
	Region Region
	Other  Region
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("tab %q: table %q at %s overlaps table %q at %s", e.Tab, e.First, e.Region, e.Second, e.Other)
}

// Validate rejects plans whose regions overlap.
func (p *SheetPlan) Validate() error {
	for i := 0; i < len(p.Placements); i++ {
		for j := i + 1; j < len(p.Placements); j++ {
			a, b := p.Placements[i], p.Placements[j]
			if a.Region.Overlaps(b.Region) {
				return &OverlapError{Tab: p.Tab, First: a.Table.Name, Second: b.Table.Name, Region: a.Region, Other: b.Region}
			}
		}
	}
	return nil
}
