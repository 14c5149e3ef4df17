package dashboard

import "github.com/adtracksaver/adtrack/internal"

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

type TrendPoint struct {
	internal.HistoryEntry
	Trend Trend `json:"trend"`
}

// Trends classifies every history entry against the one before it. The first
// entry is compared with itself and is therefore always flat.
func Trends(history []internal.HistoryEntry) []TrendPoint {
	points := make([]TrendPoint, len(history))
	for i, entry := range history {
		previous := entry.Count
		if i > 0 {
			previous = history[i-1].Count
		}
		points[i] = TrendPoint{HistoryEntry: entry, Trend: compare(entry.Count, previous)}
	}
	return points
}

// ShowHistory reports whether a history has anything worth listing.
func ShowHistory(history []internal.HistoryEntry) bool {
	return len(history) > 1
}

func compare(current, previous int) Trend {
	switch {
	case current > previous:
		return TrendUp
	case current < previous:
		return TrendDown
	default:
		return TrendFlat
	}
}
