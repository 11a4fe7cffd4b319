package calendar

import (
	"time"

	"github.com/dvenki/dvenki/internal/config"
)

// Day is one cell of the month grid.
type Day struct {
	Date           Date   `json:"date"`
	IsCurrentMonth bool   `json:"isCurrentMonth"`
	IsToday        bool   `json:"isToday"`
	HasEntry       bool   `json:"hasEntry"`
	IsSelected     bool   `json:"isSelected"` // set by callers, never by the engine
	DayNumber      int    `json:"dayNumber"`
	Weekday        string `json:"weekday"`
}

// Month is a displayed month: whole Monday-to-Sunday weeks covering the
// month, padded with days of the adjacent months.
type Month struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	MonthName string     `json:"monthName"`
	Weeks     [][7]Day   `json:"weeks"`
	TotalDays int        `json:"totalDays"`
}

// Days returns the grid flattened in chronological order.
func (m Month) Days() []Day {
	days := make([]Day, 0, len(m.Weeks)*config.DaysPerWeek)
	for _, w := range m.Weeks {
		days = append(days, w[:]...)
	}
	return days
}

// Options carries what the grid needs from the outside world.
type Options struct {
	// Today is the caller's current date; it drives Day.IsToday.
	Today Date
	// Names localizes weekday and month labels. Nil means EnglishNames.
	Names Names
}

// CreateMonth builds the grid of the month containing ref.
// Only ref's year and month matter.
func CreateMonth[E Dated](ref Date, entries []E, opts Options) Month {
	names := namesOrDefault(opts.Names)

	monthStart := ref.StartOfMonth()
	monthEnd := ref.EndOfMonth()
	gridStart := monthStart.StartOfWeek()
	gridEnd := monthEnd.EndOfWeek()

	withEntries := entryDays(entries)

	var (
		weeks [][7]Day
		week  [7]Day
		slot  int
	)
	for day := gridStart; !day.After(gridEnd); day = day.AddDays(1) {
		_, has := withEntries[day]
		week[slot] = Day{
			Date:           day,
			IsCurrentMonth: day.SameMonth(ref),
			IsToday:        day == opts.Today,
			HasEntry:       has,
			DayNumber:      day.Day,
			Weekday:        names.Weekday(day.Weekday()),
		}
		slot++
		if slot == config.DaysPerWeek {
			weeks = append(weeks, week)
			week = [7]Day{}
			slot = 0
		}
	}

	return Month{
		Year:      ref.Year,
		Month:     ref.Month,
		MonthName: names.MonthYear(ref.Year, ref.Month),
		Weeks:     weeks,
		TotalDays: monthEnd.Day,
	}
}

// PreviousMonth returns the same day one month earlier, clamped to the
// length of the earlier month.
func PreviousMonth(d Date) Date {
	return d.AddMonths(-1)
}

// NextMonth returns the same day one month later, clamped to the length of
// the later month.
func NextMonth(d Date) Date {
	return d.AddMonths(1)
}

// WeekOf returns the Monday-to-Sunday week containing d.
func WeekOf(d Date) [7]Date {
	var week [7]Date
	start := d.StartOfWeek()
	for i := range week {
		week[i] = start.AddDays(i)
	}
	return week
}

// IsCurrentWeek reports whether d falls in the Monday-first week containing now.
func IsCurrentWeek(d, now Date) bool {
	return d.Between(now.StartOfWeek(), now.EndOfWeek())
}

// IsWeekend reports whether d is a Saturday or a Sunday.
func IsWeekend(d Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekNumber numbers weeks from the one holding January 1, counting weeks
// as Sunday-started rows of a wall calendar.
func WeekNumber(d Date) int {
	jan1 := Date{Year: d.Year, Month: time.January, Day: 1}
	elapsed := d.YearDay() - 1
	// ceil((elapsed + weekday(jan1) + 1) / 7)
	return (elapsed + int(jan1.Weekday()) + config.DaysPerWeek) / config.DaysPerWeek
}

// WeekdayNames returns the short weekday names starting from Monday, for
// grid headers.
func WeekdayNames(names Names) []string {
	names = namesOrDefault(names)
	out := make([]string, 0, config.DaysPerWeek)
	for i := range config.DaysPerWeek {
		out = append(out, names.WeekdayShort(time.Weekday((i+1)%config.DaysPerWeek)))
	}
	return out
}

// MonthNames returns the twelve standalone month names, January first.
func MonthNames(names Names) []string {
	names = namesOrDefault(names)
	out := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, names.Month(m))
	}
	return out
}
