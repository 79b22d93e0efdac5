package quotasheet

// Zone is a styled area of a placed table.
type Zone uint8

const (
	ZoneHeader Zone = 1 << iota
	ZoneFirstColumn
	ZoneFooter
	ZoneBorder

	AllZones = ZoneHeader | ZoneFirstColumn | ZoneFooter | ZoneBorder
)

// zoneOrder is the order styles are emitted in; later zones win on shared cells.
var zoneOrder = []Zone{ZoneHeader, ZoneFirstColumn, ZoneFooter, ZoneBorder}

func (z Zone) String() string {
	switch z {
	case ZoneHeader:
		return "header"
	case ZoneFirstColumn:
		return "first_column"
	case ZoneFooter:
		return "footer"
	case ZoneBorder:
		return "border"
	}
	return "zones"
}

// MergeType mirrors the merge kinds of the Sheets API.
type MergeType string

const (
	MergeAll     MergeType = "MERGE_ALL"
	MergeRows    MergeType = "MERGE_ROWS"
	MergeColumns MergeType = "MERGE_COLUMNS"
)

// Merge is a cell merge with absolute coordinates.
type Merge struct {
	Rect Region
	Type MergeType
}

// ZoneRect is the absolute rectangle of one style zone.
type ZoneRect struct {
	Zone Zone
	Rect Region
}

// MergesFor lists the merges of table t placed at r: the banner across the
// table width, the label cell down both header rows of a cross-tab and each
// group label across its span.
func MergesFor(r Region, t *Table) []Merge {
	if r.Empty() || t.IsEmpty() {
		return nil
	}
	var merges []Merge
	top := r.Row.Start
	if t.BannerRows() > 0 {
		if r.Width() > 1 {
			merges = append(merges, Merge{Rect: Rect(top, r.Col.Start, top, r.Col.End), Type: MergeRows})
		}
		top++
	}
	if t.HeaderRows < 2 {
		return merges
	}

	col := r.Col.Start
	if t.LabelColumn {
		merges = append(merges, Merge{Rect: Rect(top, col, top+t.HeaderRows-1, col), Type: MergeColumns})
		col++
	}
	for _, g := range t.Groups {
		if g.Width > 1 {
			merges = append(merges, Merge{Rect: Rect(top, col, top, col+g.Width-1), Type: MergeRows})
		}
		col += g.Width
	}
	return merges
}

// ZonesFor lists the style zones of table t placed at r, honouring its Zones mask.
func ZonesFor(r Region, t *Table) []ZoneRect {
	if r.Empty() || t.IsEmpty() {
		return nil
	}
	headerEnd := r.Row.Start + t.LeadingRows() - 1

	var zones []ZoneRect
	for _, z := range zoneOrder {
		if t.Zones&z == 0 {
			continue
		}
		switch z {
		case ZoneHeader:
			if t.LeadingRows() > 0 {
				zones = append(zones, ZoneRect{Zone: z, Rect: Rect(r.Row.Start, r.Col.Start, headerEnd, r.Col.End)})
			}
		case ZoneFirstColumn:
			if r.Row.End-1 >= headerEnd+1 {
				zones = append(zones, ZoneRect{Zone: z, Rect: Rect(headerEnd+1, r.Col.Start, r.Row.End-1, r.Col.Start)})
			}
		case ZoneFooter:
			zones = append(zones, ZoneRect{Zone: z, Rect: Rect(r.Row.End, r.Col.Start, r.Row.End, r.Col.End)})
		case ZoneBorder:
			zones = append(zones, ZoneRect{Zone: z, Rect: r})
		}
	}
	return zones
}
