package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/journal"
	"github.com/dvenki/dvenki/internal/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// steppingClock advances by step on every read.
type steppingClock struct {
	mu    sync.Mutex
	next  time.Time
	step  time.Duration
	reads int
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	c.reads++
	return now
}

// failingStore answers every query with an error.
type failingStore struct{ *journal.MemoryStore }

func (failingStore) Range(context.Context, calendar.Date, calendar.Date) ([]journal.Entry, error) {
	return nil, errors.New("disk I/O error")
}

func (failingStore) All(context.Context) ([]journal.Entry, error) {
	return nil, errors.New("disk I/O error")
}

func entry(id, date string) journal.Entry {
	return journal.Entry{
		ID:        id,
		JournalID: "j1",
		Content:   "content of " + id,
		Date:      calendar.MustParseDate(date),
		Published: true,
	}
}

// newTestServer returns a server whose "now" is 2024-03-20 (a Wednesday).
func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := locale.Load()
	require.NoError(t, err)

	store := journal.NewMemoryStore(
		entry("feb27", "2024-02-27"),
		entry("mar15a", "2024-03-15"),
		entry("mar15b", "2024-03-15"),
		entry("mar19", "2024-03-19"),
		entry("mar20", "2024-03-20"),
	)
	srv := New("0", store, cat)
	srv.Clock = MockClock{CurrentTime: time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)}
	return srv
}

func get(t *testing.T, h http.Handler, target string, v any) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

// -----------------------------------------------------------------------------
// Feed Handler
// -----------------------------------------------------------------------------

// TestHandler_ServingContent verifies headers and body when data is available.
func TestHandler_ServingContent(t *testing.T) {
	srv := New("0", nil, nil)
	expectedICS := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")
	srv.Update(expectedICS)

	req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, expectedICS, body)
}

// TestHandler_Caching verifies If-None-Match yields 304 Not Modified.
func TestHandler_Caching(t *testing.T) {
	srv := New("0", nil, nil)
	srv.Update([]byte("DATA_VERSION_1"))

	w1 := httptest.NewRecorder()
	srv.handleCalendarRequest(w1, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
	etag := w1.Result().Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag, "Server must provide an ETag")

	req2 := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	req2.Header.Set(config.HeaderIfNoneMatch, etag)
	w2 := httptest.NewRecorder()
	srv.handleCalendarRequest(w2, req2)

	resp2 := w2.Result()
	defer func() { _ = resp2.Body.Close() }()

	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)
	body, _ := io.ReadAll(resp2.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")
}

func TestHandler_IfModifiedSince(t *testing.T) {
	srv := New("0", nil, nil)
	srv.Update([]byte("DATA"))

	req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	req.Header.Set(config.HeaderIfModifiedSince, time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	w := httptest.NewRecorder()
	srv.handleCalendarRequest(w, req)

	assert.Equal(t, http.StatusNotModified, w.Code)
}

// TestHandler_MethodNotAllowed ensures strictly GET and HEAD are accepted.
func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := New("0", nil, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, config.RouteCalendar, nil))

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(config.HeaderAllow))
}

// TestHandler_Initializing verifies the 503 behavior before the first refresh.
func TestHandler_Initializing(t *testing.T) {
	srv := New("0", nil, nil)

	w := httptest.NewRecorder()
	srv.handleCalendarRequest(w, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

// -----------------------------------------------------------------------------
// JSON Views
// -----------------------------------------------------------------------------

func TestMonth_GridAndPresentation(t *testing.T) {
	srv := newTestServer(t)

	var view monthView
	resp := get(t, srv.Handler(), "/api/month?date=2024-03-15&lang=en", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))

	assert.Equal(t, "en", view.Language)
	assert.Equal(t, "March 2024", view.MonthName)
	assert.Equal(t, 31, view.TotalDays)
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, view.Weekdays)
	assert.Equal(t, calendar.NewDate(2024, 2, 15), view.Previous)
	assert.Equal(t, calendar.NewDate(2024, 4, 15), view.Next)

	// Feb 26 .. Mar 31
	require.Len(t, view.Weeks, 5)
	first := view.Weeks[0][0]
	assert.Equal(t, calendar.NewDate(2024, 2, 26), first.Date)
	assert.Equal(t, calendar.StyleDimmed, first.Style)

	padded := view.Weeks[0][1]
	assert.True(t, padded.HasEntry)
	assert.Equal(t, calendar.StyleHasEntry, padded.Style)
	assert.Equal(t, "Has entries", padded.Tooltip)

	selected := view.Weeks[2][4]
	assert.Equal(t, calendar.NewDate(2024, 3, 15), selected.Date)
	assert.True(t, selected.IsSelected)
	assert.Equal(t, calendar.StyleSelected, selected.Style)

	today := view.Weeks[3][2]
	assert.True(t, today.IsToday)
	assert.Equal(t, calendar.StyleToday, today.Style)
	assert.Equal(t, "Today, Has entries", today.Tooltip)

	sunday := view.Weeks[1][6]
	assert.Equal(t, calendar.NewDate(2024, 3, 10), sunday.Date)
	assert.Equal(t, "Weekend", sunday.Tooltip)

	plain := view.Weeks[1][0]
	assert.Equal(t, "04 March 2024", plain.Tooltip)
}

func TestMonth_DefaultsToTodayAndRussian(t *testing.T) {
	srv := newTestServer(t)

	var view monthView
	resp := get(t, srv.Handler(), "/api/month", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "ru", view.Language)
	assert.Equal(t, "Март 2024", view.MonthName)
	assert.Equal(t, calendar.NewDate(2024, 3, 20), view.Selected)
	assert.Equal(t, "Пн", view.Weekdays[0])
}

func TestMonth_AcceptLanguageHeader(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/month?date=2024-05-01", nil)
	req.Header.Set(config.HeaderAcceptLanguage, "en-GB,en;q=0.8")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var view monthView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Equal(t, "May 2024", view.MonthName)
}

// TestViews_ReadClockOnce checks that the selected date and the today cell
// come from the same instant, even when a request straddles midnight.
func TestViews_ReadClockOnce(t *testing.T) {
	for _, route := range []string{"/api/month", "/api/stats", "/api/day"} {
		t.Run(route, func(t *testing.T) {
			srv := newTestServer(t)
			clock := &steppingClock{next: time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC), step: time.Second}
			srv.Clock = clock

			resp := get(t, srv.Handler(), route, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, 1, clock.reads)
		})
	}

	srv := newTestServer(t)
	srv.Clock = &steppingClock{next: time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC), step: time.Second}

	var view monthView
	resp := get(t, srv.Handler(), "/api/month", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, calendar.NewDate(2024, 3, 31), view.Selected)

	last := view.Weeks[len(view.Weeks)-1][6]
	assert.Equal(t, calendar.NewDate(2024, 3, 31), last.Date)
	assert.True(t, last.IsToday)
	assert.True(t, last.IsSelected)
}

func TestStats(t *testing.T) {
	srv := newTestServer(t)

	var view statsView
	resp := get(t, srv.Handler(), "/api/stats?date=2024-03-01", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Grid starts on Feb 26, so the total counts February.
	assert.Equal(t, 1, view.TotalEntries)
	assert.Equal(t, 4, view.DaysWithEntries)
	assert.Equal(t, 31, view.TotalDays)
	assert.Equal(t, 13, view.CompletionRate)
	assert.Equal(t, 2, view.StreakDays)
}

func TestDay(t *testing.T) {
	srv := newTestServer(t)

	var view dayEntriesView
	resp := get(t, srv.Handler(), "/api/day?date=2024-03-15&lang=en", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 2, view.Count)
	assert.Len(t, view.Entries, 2)
	assert.Equal(t, "15 March", view.Label)

	resp = get(t, srv.Handler(), "/api/day?date=2024-03-19&lang=en", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Yesterday", view.Label)

	resp = get(t, srv.Handler(), "/api/day?date=2024-03-01", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, view.Count)
	assert.NotNil(t, view.Entries)
}

func TestViews_BadDate(t *testing.T) {
	srv := newTestServer(t)
	for _, route := range []string{"/api/month", "/api/stats", "/api/day"} {
		t.Run(route, func(t *testing.T) {
			resp := get(t, srv.Handler(), route+"?date=31.02.2024", nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestViews_StoreError(t *testing.T) {
	cat, err := locale.Load()
	require.NoError(t, err)
	srv := New("0", failingStore{journal.NewMemoryStore()}, cat)

	for _, route := range []string{"/api/month", "/api/stats", "/api/day"} {
		t.Run(route, func(t *testing.T) {
			resp := get(t, srv.Handler(), route, nil)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		})
	}
}

func TestViews_MethodRouting(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/month", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition runs writers and readers of the feed cache
// concurrently. Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := New("0", nil, nil)
	var wg sync.WaitGroup

	end := time.Now().Add(500 * time.Millisecond)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			i := 0
			for time.Now().Before(end) {
				srv.Update([]byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				i++
				time.Sleep(1 * time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				srv.handleCalendarRequest(w, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))

				if code := w.Code; code != http.StatusOK && code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

// TestServer_Lifecycle verifies network binding and graceful shutdown.
func TestServer_Lifecycle(t *testing.T) {
	const port = "18099"

	srv := New(port, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://127.0.0.1:" + port + config.RouteCalendar

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Update([]byte("BEGIN:VCALENDAR\nEND:VCALENDAR"))

	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}

func TestServer_StartRequiresPort(t *testing.T) {
	err := New("", nil, nil).Start(context.Background())
	assert.EqualError(t, err, config.ErrPortRequired)
}
