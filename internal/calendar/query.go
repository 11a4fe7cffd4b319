package calendar

// Dated is anything pinned to a calendar day, typically a journal entry.
type Dated interface {
	EntryDate() Date
}

// All day-level queries compare EntryDate() values with ==, the same rule
// CreateMonth uses for Day.HasEntry.

// HasEntriesOnDate reports whether any entry falls on d.
func HasEntriesOnDate[E Dated](d Date, entries []E) bool {
	for _, e := range entries {
		if e.EntryDate() == d {
			return true
		}
	}
	return false
}

// CountEntriesOnDate returns how many entries fall on d.
func CountEntriesOnDate[E Dated](d Date, entries []E) int {
	n := 0
	for _, e := range entries {
		if e.EntryDate() == d {
			n++
		}
	}
	return n
}

// EntriesOnDate returns the entries falling on d, in input order.
func EntriesOnDate[E Dated](d Date, entries []E) []E {
	return filter(entries, func(e E) bool { return e.EntryDate() == d })
}

// EntriesForMonth returns the entries in the same year and month as d.
func EntriesForMonth[E Dated](d Date, entries []E) []E {
	return filter(entries, func(e E) bool { return e.EntryDate().SameMonth(d) })
}

// EntriesForPeriod returns the entries between start and end, both included.
func EntriesForPeriod[E Dated](start, end Date, entries []E) []E {
	return filter(entries, func(e E) bool { return e.EntryDate().Between(start, end) })
}

// Streak counts consecutive days with at least one entry, ending today.
// When today has no entry yet the run ending yesterday still counts.
func Streak[E Dated](entries []E, today Date) int {
	days := entryDays(entries)

	cursor := today
	if _, ok := days[cursor]; !ok {
		cursor = cursor.AddDays(-1)
	}

	n := 0
	for {
		if _, ok := days[cursor]; !ok {
			return n
		}
		n++
		cursor = cursor.AddDays(-1)
	}
}

func entryDays[E Dated](entries []E) map[Date]struct{} {
	set := make(map[Date]struct{}, len(entries))
	for _, e := range entries {
		set[e.EntryDate()] = struct{}{}
	}
	return set
}

func filter[E any](in []E, keep func(E) bool) []E {
	out := make([]E, 0, len(in))
	for _, e := range in {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
