package calendar

// Calendar binds the pure grid functions to a clock and a locale.
// It is the only place where "now" is read.
type Calendar struct {
	Clock Clock
	Names Names
}

// New returns a Calendar on the real clock.
func New(names Names) *Calendar {
	return &Calendar{Clock: RealClock{}, Names: names}
}

// Today returns the current date in the clock's location.
func (c *Calendar) Today() Date {
	if c.Clock == nil {
		return DateOf(RealClock{}.Now())
	}
	return DateOf(c.Clock.Now())
}

// Options snapshots the clock once for a render pass.
func (c *Calendar) Options() Options {
	return Options{Today: c.Today(), Names: c.Names}
}

// Month builds the grid for the month containing ref. Methods cannot carry
// type parameters, so entries come in as Dated values.
func (c *Calendar) Month(ref Date, entries []Dated) Month {
	return CreateMonth(ref, entries, c.Options())
}

// IsCurrentWeek reports whether d is in this week.
func (c *Calendar) IsCurrentWeek(d Date) bool {
	return IsCurrentWeek(d, c.Today())
}

// Relative labels d relative to today.
func (c *Calendar) Relative(d Date) string {
	return RelativeLabel(d, c.Today(), c.Names)
}

// Tooltip describes a grid cell.
func (c *Calendar) Tooltip(day Day) string {
	return DayTooltip(day, c.Names)
}

// AsDated widens a typed slice for the Calendar methods.
func AsDated[E Dated](entries []E) []Dated {
	out := make([]Dated, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}
