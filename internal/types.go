package internal

import "slices"

type HistoryEntry struct {
	Count     int       `json:"count"`
	ChangedAt Timestamp `json:"changed_at"`
}

// MonitoredLink is one tracked competitor ad-library entry.
type MonitoredLink struct {
	ID         string         `json:"id"`
	URL        string         `json:"url"`
	Site       string         `json:"site"`
	AdsCount   int            `json:"ads_count"`
	Tags       string         `json:"tags"`
	Niches     []string       `json:"niches"`
	AddedAt    Timestamp      `json:"added_at"`
	AdsHistory []HistoryEntry `json:"ads_history"`
}

// Clone returns a deep copy so callers never share slices with stored records.
func (l *MonitoredLink) Clone() *MonitoredLink {
	if l == nil {
		return nil
	}
	out := *l
	out.Niches = slices.Clone(l.Niches)
	out.AdsHistory = slices.Clone(l.AdsHistory)
	if out.Niches == nil {
		out.Niches = []string{}
	}
	return &out
}

// Candidate is what the entry form hands to the dashboard on submit.
// History and timestamps are assigned by the dashboard.
type Candidate struct {
	URL      string   `json:"url"`
	Site     string   `json:"site"`
	AdsCount int      `json:"ads_count"`
	Tags     string   `json:"tags"`
	Niches   []string `json:"niches"`
}
