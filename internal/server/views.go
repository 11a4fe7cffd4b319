package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/journal"
	"github.com/dvenki/dvenki/internal/locale"
)

// dayView is a grid cell with its presentation resolved.
type dayView struct {
	calendar.Day
	Style   calendar.Style `json:"style"`
	Tooltip string         `json:"tooltip"`
}

type monthView struct {
	Year      int           `json:"year"`
	Month     time.Month    `json:"month"`
	MonthName string        `json:"monthName"`
	TotalDays int           `json:"totalDays"`
	Language  string        `json:"language"`
	Weekdays  []string      `json:"weekdays"`
	Selected  calendar.Date `json:"selected"`
	Previous  calendar.Date `json:"previous"`
	Next      calendar.Date `json:"next"`
	Weeks     [][7]dayView  `json:"weeks"`
}

type statsView struct {
	calendar.Stats
	Month      string `json:"month"`
	StreakDays int    `json:"streakDays"`
}

type dayEntriesView struct {
	Date    calendar.Date   `json:"date"`
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Entries []journal.Entry `json:"entries"`
}

// handleMonth renders the grid of the month holding ?date= (today when
// absent). The requested date is marked selected.
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	cal, ok := s.requestCalendar(w, r)
	if !ok {
		return
	}
	opts := cal.Options()
	selected, ok := s.requestDate(w, r, opts.Today)
	if !ok {
		return
	}

	// The first cell may belong to the previous month; stats need all of it.
	from := selected.StartOfMonth().StartOfWeek().StartOfMonth()
	to := selected.EndOfMonth().EndOfWeek()
	entries, err := s.Store.Range(r.Context(), from, to)
	if err != nil {
		s.internalError(w, err)
		return
	}

	m := calendar.CreateMonth(selected, entries, opts)
	view := monthView{
		Year:      m.Year,
		Month:     m.Month,
		MonthName: m.MonthName,
		TotalDays: m.TotalDays,
		Language:  lang(cal),
		Weekdays:  calendar.WeekdayNames(cal.Names),
		Selected:  selected,
		Previous:  calendar.PreviousMonth(selected),
		Next:      calendar.NextMonth(selected),
		Weeks:     make([][7]dayView, len(m.Weeks)),
	}
	for i, week := range m.Weeks {
		for j, day := range week {
			day.IsSelected = day.Date == selected
			view.Weeks[i][j] = dayView{
				Day:     day,
				Style:   calendar.DayStyle(day),
				Tooltip: cal.Tooltip(day),
			}
		}
	}

	slog.Debug(config.MsgMonthServed,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyMonth, m.MonthName,
		config.LogKeyCount, len(entries),
	)
	writeJSON(w, view)
}

// handleStats summarizes the month holding ?date= and the current streak.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	cal, ok := s.requestCalendar(w, r)
	if !ok {
		return
	}
	opts := cal.Options()
	ref, ok := s.requestDate(w, r, opts.Today)
	if !ok {
		return
	}

	entries, err := s.Store.All(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}

	m := calendar.CreateMonth(ref, entries, opts)
	writeJSON(w, statsView{
		Stats:      calendar.MonthStats(m, entries),
		Month:      m.MonthName,
		StreakDays: calendar.Streak(entries, opts.Today),
	})
}

// handleDay lists the entries of ?date=.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	cal, ok := s.requestCalendar(w, r)
	if !ok {
		return
	}
	opts := cal.Options()
	d, ok := s.requestDate(w, r, opts.Today)
	if !ok {
		return
	}

	entries, err := s.Store.Range(r.Context(), d, d)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}

	writeJSON(w, dayEntriesView{
		Date:    d,
		Label:   calendar.RelativeLabel(d, opts.Today, opts.Names),
		Count:   calendar.CountEntriesOnDate(d, entries),
		Entries: entries,
	})
}

// requestCalendar binds the clock to the language of ?lang=, or of the
// Accept-Language header.
func (s *Server) requestCalendar(w http.ResponseWriter, r *http.Request) (*calendar.Calendar, bool) {
	if s.Store == nil || s.Locales == nil {
		s.internalError(w, nil)
		return nil, false
	}
	l := r.URL.Query().Get(config.QueryLang)
	if l == "" {
		l = r.Header.Get(config.HeaderAcceptLanguage)
	}
	clock := s.Clock
	if clock == nil {
		clock = calendar.RealClock{}
	}
	return &calendar.Calendar{Clock: clock, Names: s.Locales.Translator(l)}, true
}

// requestDate parses ?date=, defaulting to today. Malformed dates are a 400.
func (s *Server) requestDate(w http.ResponseWriter, r *http.Request, today calendar.Date) (calendar.Date, bool) {
	raw := r.URL.Query().Get(config.QueryDate)
	if raw == "" {
		return today, true
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		slog.Debug(config.HTTPMsgBadDate,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyValue, raw,
		)
		http.Error(w, config.HTTPMsgBadDate, http.StatusBadRequest)
		return calendar.Date{}, false
	}
	return d, true
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	slog.Error(config.ErrLoadEntries,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyError, err,
	)
	http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
}

func lang(cal *calendar.Calendar) string {
	if t, ok := cal.Names.(*locale.Translator); ok {
		return t.Lang()
	}
	return config.DefaultLanguage
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
