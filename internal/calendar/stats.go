package calendar

import "math"

// Stats summarizes a displayed month.
type Stats struct {
	TotalEntries    int `json:"totalEntries"`
	DaysWithEntries int `json:"daysWithEntries"`
	CompletionRate  int `json:"completionRate"`
	TotalDays       int `json:"totalDays"`
}

// MonthStats computes the summary of m.
//
// The three counts use different scopes, and clients depend on them: TotalEntries counts
// entries in the month of the grid's first cell (weeks[0][0]), which is the
// previous month whenever the 1st is not a Monday; DaysWithEntries counts
// HasEntry cells over the whole grid, padding days included; TotalDays is
// the length of the displayed month only. CompletionRate can therefore
// exceed 100.
func MonthStats[E Dated](m Month, entries []E) Stats {
	stats := Stats{TotalDays: m.TotalDays}
	if len(m.Weeks) == 0 {
		return stats
	}

	stats.TotalEntries = len(EntriesForMonth(m.Weeks[0][0].Date, entries))
	for _, day := range m.Days() {
		if day.HasEntry {
			stats.DaysWithEntries++
		}
	}
	if m.TotalDays > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.DaysWithEntries) / float64(m.TotalDays) * 100))
	}
	return stats
}
