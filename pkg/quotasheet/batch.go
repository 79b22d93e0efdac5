package quotasheet

import "fmt"

// ValueRange is a block of cell values addressed by "<tab>!<A1 range>".
type ValueRange struct {
	Range  string
	Values [][]interface{}
}

type MergeRequest struct {
	SheetID int64
	Merge
}

// StyleRequest applies a resolved template to one zone rectangle.
type StyleRequest struct {
	SheetID int64
	Zone    Zone
	Rect    Region
	Style   StyleTemplate
}

// Batch collects the sheet plans of a run and turns them into sink requests.
type Batch struct {
	plans []*SheetPlan
}

func (b *Batch) Add(p *SheetPlan) {
	if p == nil || p.IsEmpty() {
		return
	}
	b.plans = append(b.plans, p)
}

func (b *Batch) Len() int {
	return len(b.plans)
}

// Tabs lists the tab titles in plan order without duplicates.
func (b *Batch) Tabs() []string {
	seen := make(map[string]bool, len(b.plans))
	var tabs []string
	for _, p := range b.plans {
		if !seen[p.Tab] {
			seen[p.Tab] = true
			tabs = append(tabs, p.Tab)
		}
	}
	return tabs
}

// ValueRanges returns one value range per placed table.
func (b *Batch) ValueRanges() ([]ValueRange, error) {
	var ranges []ValueRange
	for _, p := range b.plans {
		for _, pl := range p.Placements {
			a1, err := pl.Region.A1()
			if err != nil {
				return nil, fmt.Errorf("tab %q table %q: %w", p.Tab, pl.Table.Name, err)
			}
			ranges = append(ranges, ValueRange{
				Range:  QuoteTab(p.Tab) + "!" + a1,
				Values: pl.Table.Rows,
			})
		}
	}
	return ranges, nil
}

// MergeRequests resolves every plan's merges against the tab ids returned by the sink.
func (b *Batch) MergeRequests(ids map[string]int64) ([]MergeRequest, error) {
	var reqs []MergeRequest
	for _, p := range b.plans {
		id, ok := ids[p.Tab]
		if !ok {
			return nil, fmt.Errorf("no sheet id for tab %q", p.Tab)
		}
		for _, pl := range p.Placements {
			for _, m := range MergesFor(pl.Region, pl.Table) {
				reqs = append(reqs, MergeRequest{SheetID: id, Merge: m})
			}
		}
	}
	return reqs, nil
}

// StyleRequests resolves every plan's style zones with the templates of styles.
func (b *Batch) StyleRequests(ids map[string]int64, styles StyleSet) ([]StyleRequest, error) {
	var reqs []StyleRequest
	for _, p := range b.plans {
		id, ok := ids[p.Tab]
		if !ok {
			return nil, fmt.Errorf("no sheet id for tab %q", p.Tab)
		}
		for _, pl := range p.Placements {
			for _, z := range ZonesFor(pl.Region, pl.Table) {
				reqs = append(reqs, StyleRequest{SheetID: id, Zone: z.Zone, Rect: z.Rect, Style: styles.For(z.Zone)})
			}
		}
	}
	return reqs, nil
}
