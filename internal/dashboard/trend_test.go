package dashboard

import (
	"testing"
	"time"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/stretchr/testify/assert"
)

func history(counts ...int) []internal.HistoryEntry {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]internal.HistoryEntry, len(counts))
	for i, c := range counts {
		out[i] = internal.HistoryEntry{Count: c, ChangedAt: internal.Timestamp(base.Add(time.Duration(i) * time.Hour))}
	}
	return out
}

func TestTrends(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   []Trend
	}{
		{"empty", nil, []Trend{}},
		{"single entry is flat", []int{10}, []Trend{TrendFlat}},
		{"increase", []int{10, 15}, []Trend{TrendFlat, TrendUp}},
		{"decrease", []int{10, 4}, []Trend{TrendFlat, TrendDown}},
		{"mixed", []int{10, 15, 15, 2, 3}, []Trend{TrendFlat, TrendUp, TrendFlat, TrendDown, TrendUp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := Trends(history(tt.counts...))
			got := make([]Trend, len(points))
			for i, p := range points {
				got[i] = p.Trend
				assert.Equal(t, tt.counts[i], p.Count)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShowHistory(t *testing.T) {
	assert.False(t, ShowHistory(nil))
	assert.False(t, ShowHistory(history(1)))
	assert.True(t, ShowHistory(history(1, 1)))
}
