package calendar

import "strings"

// Style is a presentation token for a grid cell.
type Style string

const (
	StyleSelected     Style = "selected"
	StyleToday        Style = "today"
	StyleHasEntry     Style = "has-entry"
	StyleCurrentMonth Style = "current-month"
	StyleDimmed       Style = "dimmed"
)

// DayStyle picks the style of a cell. Precedence: selected, today,
// has entry, current month, dimmed.
func DayStyle(day Day) Style {
	switch {
	case day.IsSelected:
		return StyleSelected
	case day.IsToday:
		return StyleToday
	case day.HasEntry:
		return StyleHasEntry
	case day.IsCurrentMonth:
		return StyleCurrentMonth
	default:
		return StyleDimmed
	}
}

// DayTooltip joins the applicable descriptors in the order today, has
// entries, weekend. With none of them it falls back to the long date.
func DayTooltip(day Day, names Names) string {
	names = namesOrDefault(names)

	var parts []string
	if day.IsToday {
		parts = append(parts, names.Phrase(PhraseToday))
	}
	if day.HasEntry {
		parts = append(parts, names.Phrase(PhraseHasEntries))
	}
	if IsWeekend(day.Date) {
		parts = append(parts, names.Phrase(PhraseWeekend))
	}
	if len(parts) == 0 {
		return names.LongDate(day.Date)
	}
	return strings.Join(parts, names.Separator())
}

// RelativeLabel describes d from the point of view of today: "today",
// "yesterday", the weekday name inside the current week, the day and month
// inside the current year, the full date otherwise.
func RelativeLabel(d, today Date, names Names) string {
	names = namesOrDefault(names)

	switch {
	case d == today:
		return names.Phrase(PhraseToday)
	case d == today.AddDays(-1):
		return names.Phrase(PhraseYesterday)
	case IsCurrentWeek(d, today):
		return names.Weekday(d.Weekday())
	case d.Year == today.Year:
		return names.DayMonth(d)
	default:
		return names.LongDate(d)
	}
}
