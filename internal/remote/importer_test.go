package remote_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/journal"
	"github.com/dvenki/dvenki/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFetcher is a testify mock implementing remote.Fetcher.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, apiKey string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, apiKey)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

const rowsPayload = `[
  {"id":"a","journal_id":"j1","user_id":"u1","title":"Morning","content":"ran 5k","entry_date":"2024-03-15","mood":4,"images":null,"is_published":true,"created_at":"2024-03-15T07:00:00Z","updated_at":"2024-03-15T07:00:00Z"},
  {"id":"b","journal_id":"j1","user_id":"u1","title":null,"content":"late note","entry_date":"2024-03-15T23:30:00+03:00","mood":null,"images":["x.png"],"is_published":false,"created_at":"2024-03-15T20:30:00Z","updated_at":"2024-03-15T20:30:00Z"},
  {"id":"bad-date","journal_id":"j1","content":"?","entry_date":"15.03.2024"},
  {"id":"bad-mood","journal_id":"j1","content":"x","entry_date":"2024-03-16","mood":9}
]`

func TestImporter_Import(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://api.example.com/entries", "k").
		Return(io.NopCloser(strings.NewReader(rowsPayload)), nil)

	store := journal.NewMemoryStore()
	im := &remote.Importer{Fetcher: fetcher, Store: store}

	n, err := im.Import(context.Background(), "https://api.example.com/entries", "k")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "rows with a malformed date or mood are skipped")
	fetcher.AssertExpectations(t)

	all, err := store.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, calendar.NewDate(2024, 3, 15), all[1].Date, "timestamp keeps the date as written")
	assert.Equal(t, []string{"x.png"}, all[1].Images)
	assert.False(t, all[1].Published)
}

func TestImporter_AssignsMissingID(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(`[{"journal_id":"j1","content":"c","entry_date":"2024-01-01"}]`)), nil)

	store := journal.NewMemoryStore()
	n, err := (&remote.Importer{Fetcher: fetcher, Store: store}).Import(context.Background(), "http://x", "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, _ := store.All(context.Background())
	require.Len(t, all, 1)
	assert.NotEmpty(t, all[0].ID)
}

func TestImporter_Errors(t *testing.T) {
	netErr := errors.New("connection refused")

	tests := []struct {
		name    string
		setup   func(f *MockFetcher)
		url     string
		wantErr string
	}{
		{
			name:    "EmptyURL",
			setup:   func(f *MockFetcher) {},
			url:     "",
			wantErr: config.ErrURLEmpty,
		},
		{
			name: "FetchFails",
			setup: func(f *MockFetcher) {
				f.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(nil, netErr)
			},
			url:     "http://x",
			wantErr: "connection refused",
		},
		{
			name: "NotAnArray",
			setup: func(f *MockFetcher) {
				f.On("Fetch", mock.Anything, mock.Anything, mock.Anything).
					Return(io.NopCloser(strings.NewReader(`{"message":"JWT expired"}`)), nil)
			},
			url:     "http://x",
			wantErr: config.ErrRowsDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := new(MockFetcher)
			tt.setup(f)

			n, err := (&remote.Importer{Fetcher: f, Store: journal.NewMemoryStore()}).
				Import(context.Background(), tt.url, "")

			require.Error(t, err)
			assert.Zero(t, n)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImporter_MissingDependencies(t *testing.T) {
	_, err := (&remote.Importer{Store: journal.NewMemoryStore()}).Import(context.Background(), "http://x", "")
	assert.EqualError(t, err, config.ErrFetcherMissing)

	_, err = (&remote.Importer{Fetcher: new(MockFetcher)}).Import(context.Background(), "http://x", "")
	assert.EqualError(t, err, config.ErrStoreMissing)
}
