package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/journal"
	"github.com/emersion/go-ical"
)

// Options tune a single rendering pass.
type Options struct {
	// IncludePrivate exports unpublished entries too.
	IncludePrivate bool
	// ReminderTrigger is an ISO 8601 duration (e.g. "-PT1H"). Empty disables alarms.
	ReminderTrigger string
}

// Generator converts journal entries into an iCalendar feed.
type Generator struct {
	Clock calendar.Clock // Interface for time mocking.

	// FormatSummary allows the caller to inject localized event titles.
	FormatSummary func(title string, date calendar.Date, mood int) string
}

// Render builds the ICS document. It returns the data and the number of
// exported entries dated today.
func (g *Generator) Render(ctx context.Context, entries []journal.Entry, opts Options) ([]byte, int, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompExport)

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Local date decides "today"; UTC only for the stamp.
	now := g.now()
	today := calendar.DateOf(now)
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	stats := struct{ total, exported, today int }{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		stats.total++
		if !e.Published && !opts.IncludePrivate {
			continue
		}

		event := g.createEvent(e, now.Location(), opts.ReminderTrigger)
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)
		stats.exported++

		if e.Date == today {
			stats.today++
			log.Debug(config.MsgEntryToday, config.LogKeyID, e.ID)
		}
	}

	if len(cal.Children) == 0 {
		g.logSuccess(stats)
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(stats)
	log.Debug("Render finished", config.LogKeyDuration, time.Since(start).Milliseconds())
	return buf.Bytes(), stats.today, nil
}

func (g *Generator) now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock.Now()
}

// createEvent maps one entry to an all-day VEVENT.
func (g *Generator) createEvent(e journal.Entry, loc *time.Location, reminderTrigger string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, e.ID, config.ICalDomain))

	summary := e.Title
	if g.FormatSummary != nil {
		summary = g.FormatSummary(e.Title, e.Date, e.Mood)
	} else if summary == "" {
		summary = fmt.Sprintf(config.FallbackSummary, e.Date)
	}
	event.Props.SetText(config.PropSummary, summary)

	if e.Content != "" {
		event.Props.SetText(config.PropDescription, e.Content)
	}
	if e.Mood != config.NoMood {
		event.Props.SetText(config.PropCategories, fmt.Sprintf(config.FormatMoodCat, e.Mood))
	}

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(e.Date.In(loc))
	event.Props.Set(dtStartProp)

	if reminderTrigger != "" {
		addAlarm(event, reminderTrigger, summary)
	}
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

func (g *Generator) logSuccess(stats struct{ total, exported, today int }) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompExport,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.total),
			slog.Int(config.LogKeyExported, stats.exported),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
}
