package calendar

import (
	"fmt"
	"time"
)

// Phrase identifies a short localized label used in tooltips and relative dates.
type Phrase string

const (
	PhraseToday      Phrase = "today"
	PhraseYesterday  Phrase = "yesterday"
	PhraseHasEntries Phrase = "has_entries"
	PhraseWeekend    Phrase = "weekend"
)

// Names supplies every piece of localized text the engine produces.
// The grid arithmetic never depends on it.
type Names interface {
	// Weekday returns the full weekday name ("понедельник", "Monday").
	Weekday(w time.Weekday) string
	// WeekdayShort returns the abbreviated weekday name ("Пн", "Mon").
	WeekdayShort(w time.Weekday) string
	// Month returns the standalone month name ("Март", "March").
	Month(m time.Month) string
	// MonthYear labels a displayed month ("Март 2024").
	MonthYear(year int, m time.Month) string
	// LongDate formats "dd MMMM yyyy" ("15 марта 2024").
	LongDate(d Date) string
	// DayMonth formats "dd MMMM" ("15 марта").
	DayMonth(d Date) string
	// Phrase returns the label for p.
	Phrase(p Phrase) string
	// Separator joins tooltip parts.
	Separator() string
}

// EnglishNames renders text from the standard library's English names.
// It is the fallback when no locale is injected.
type EnglishNames struct{}

var _ Names = EnglishNames{}

func (EnglishNames) Weekday(w time.Weekday) string { return w.String() }

func (EnglishNames) WeekdayShort(w time.Weekday) string { return w.String()[:3] }

func (EnglishNames) Month(m time.Month) string { return m.String() }

func (EnglishNames) MonthYear(year int, m time.Month) string {
	return fmt.Sprintf("%s %d", m, year)
}

func (EnglishNames) LongDate(d Date) string {
	return fmt.Sprintf("%02d %s %d", d.Day, d.Month, d.Year)
}

func (EnglishNames) DayMonth(d Date) string {
	return fmt.Sprintf("%02d %s", d.Day, d.Month)
}

func (EnglishNames) Phrase(p Phrase) string {
	switch p {
	case PhraseToday:
		return "Today"
	case PhraseYesterday:
		return "Yesterday"
	case PhraseHasEntries:
		return "Has entries"
	case PhraseWeekend:
		return "Weekend"
	}
	return string(p)
}

func (EnglishNames) Separator() string { return ", " }

func namesOrDefault(n Names) Names {
	if n == nil {
		return EnglishNames{}
	}
	return n
}
