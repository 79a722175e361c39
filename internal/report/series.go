package report

import (
	"sort"

	"farmledger/internal/core"
)

// Granularity is the bucket width of the chart series.
type Granularity string

const (
	ByDay   Granularity = "DAY"
	ByMonth Granularity = "MONTH"
)

// GranularityFor picks the bucket width from the period mode: year and
// quarter views bucket by month, everything else by day. Keeps chart point
// counts bounded (at most 12 month buckets, at most 31 day buckets).
func GranularityFor(mode Mode) Granularity {
	if mode == Year || mode == Quarter {
		return ByMonth
	}
	return ByDay
}

// SeriesPoint is one chart bucket with separate income and expense sums.
type SeriesPoint struct {
	Label   string
	Income  core.Money
	Expense core.Money

	// sortKey is the minimum transaction timestamp seen in the bucket.
	// Labels repeat across years ("Jan" of 2023 and 2024), so the numeric
	// timestamp is the only reliable order key; tracking the minimum keeps
	// the order correct however the records arrive.
	sortKey int64
}

// BuildSeries folds transactions into ordered buckets keyed by day or month
// label per the mode's granularity, emitted ascending by earliest
// transaction in each bucket.
func BuildSeries(txs []Transaction, mode Mode) []SeriesPoint {
	gran := GranularityFor(mode)

	buckets := make(map[string]*SeriesPoint)
	for _, tx := range txs {
		label := bucketLabel(tx.Date, gran)
		p, ok := buckets[label]
		if !ok {
			p = &SeriesPoint{Label: label, sortKey: tx.Date.Unix()}
			buckets[label] = p
		} else if ts := tx.Date.Unix(); ts < p.sortKey {
			p.sortKey = ts
		}
		switch tx.Kind {
		case Income:
			p.Income = p.Income.Add(tx.Amount)
		case Expense:
			p.Expense = p.Expense.Add(tx.Amount)
		}
	}

	points := make([]SeriesPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].sortKey < points[j].sortKey
	})
	return points
}

func bucketLabel(d core.Date, gran Granularity) string {
	if gran == ByMonth {
		return d.Format("Jan")
	}
	return d.Format("02 Jan")
}
