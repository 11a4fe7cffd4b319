package journal

import (
	"errors"
	"strings"
	"time"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New(config.ErrEntryNotFound)
	ErrEmptyContent   = errors.New(config.ErrEmptyContent)
	ErrInvalidMood    = errors.New(config.ErrMoodRange)
	ErrMissingJournal = errors.New(config.ErrMissingJournal)
)

// Entry is a dated journal entry. JSON tags follow the rows of the hosted
// data API so imported payloads decode directly; entry_date is parsed into
// a calendar.Date on the way in.
type Entry struct {
	ID        string        `json:"id"`
	JournalID string        `json:"journal_id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Date      calendar.Date `json:"entry_date"`
	Mood      int           `json:"mood"` // 0 when unset
	Images    []string      `json:"images"`
	Published bool          `json:"is_published"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// EntryDate implements calendar.Dated.
func (e Entry) EntryDate() calendar.Date {
	return e.Date
}

// Validate checks the invariants every stored entry satisfies.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Content) == "" {
		return ErrEmptyContent
	}
	if e.JournalID == "" {
		return ErrMissingJournal
	}
	if e.Mood != config.NoMood && (e.Mood < config.MinMood || e.Mood > config.MaxMood) {
		return ErrInvalidMood
	}
	return nil
}

// NewEntryParams are the user-supplied fields of a new entry.
type NewEntryParams struct {
	JournalID string
	UserID    string
	Title     string
	Content   string
	Date      calendar.Date // zero means the day of now
	Mood      int
	Images    []string
	Published bool
}

// NewEntry validates p and stamps a fresh entry at now.
func NewEntry(p NewEntryParams, now time.Time) (Entry, error) {
	date := p.Date
	if date.IsZero() {
		date = calendar.DateOf(now)
	}

	e := Entry{
		ID:        uuid.NewString(),
		JournalID: p.JournalID,
		UserID:    p.UserID,
		Title:     strings.TrimSpace(p.Title),
		Content:   p.Content,
		Date:      date,
		Mood:      p.Mood,
		Images:    p.Images,
		Published: p.Published,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}
