package report

import "sort"

// TimelineGroup is one calendar day of activity, labeled for display.
type TimelineGroup struct {
	DayLabel string
	Items    []Transaction
}

// dayLabelLayout renders like "Mon, Jan 2".
const dayLabelLayout = "Mon, Jan 2"

// BuildTimeline groups transactions by calendar day, newest day first.
// Within a group, items keep the order they arrived in (expenses first, then
// sales, when fed from Build). Groups are ordered by the date of their
// first item; that representative is safe because every item in a group
// shares the same calendar day.
func BuildTimeline(txs []Transaction) []TimelineGroup {
	byLabel := make(map[string]*TimelineGroup)
	var order []*TimelineGroup
	for _, tx := range txs {
		label := tx.Date.Format(dayLabelLayout)
		g, ok := byLabel[label]
		if !ok {
			g = &TimelineGroup{DayLabel: label}
			byLabel[label] = g
			order = append(order, g)
		}
		g.Items = append(g.Items, tx)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Items[0].Date.After(order[j].Items[0].Date)
	})

	groups := make([]TimelineGroup, len(order))
	for i, g := range order {
		groups[i] = *g
	}
	return groups
}

// Recent returns the newest max transactions as a flat list, newest first.
// The sort is stable, so same-day records keep their arrival order.
func Recent(txs []Transaction, max int) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	return sorted
}
