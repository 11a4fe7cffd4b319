package remote_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHTTPFetcher_Fetch_Success verifies headers and body of a download.
func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	const apiKey = "anon-key"
	expectedBody := `[{"id":"e1"}]`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiKey, r.Header.Get(config.HeaderAPIKey))
		assert.Equal(t, "Bearer "+apiKey, r.Header.Get(config.HeaderAuthorization))
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent), "User-Agent mismatch")
		assert.Equal(t, "entry_date.asc", r.URL.Query().Get("order"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(expectedBody))
	}))
	defer ts.Close()

	fetcher := remote.NewHTTPFetcher()
	rc, err := fetcher.Fetch(context.Background(), ts.URL+"/rest/v1/entries?order=entry_date.asc", apiKey)

	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, expectedBody, string(body))
}

func TestHTTPFetcher_Fetch_NoKeyNoAuthHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(config.HeaderAPIKey))
		assert.Empty(t, r.Header.Get(config.HeaderAuthorization))
		_, _ = w.Write([]byte("[]"))
	}))
	defer ts.Close()

	rc, err := remote.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "")
	require.NoError(t, err)
	_ = rc.Close()
}

func TestHTTPFetcher_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404"},
		{"ServerError", http.StatusInternalServerError, "500"},
		{"Unauthorized", http.StatusUnauthorized, "401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			rc, err := remote.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "k")

			assert.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), config.ErrHTTPStatus)
		})
	}
}

// TestHTTPFetcher_Fetch_Timeout ensures the client respects context deadlines.
func TestHTTPFetcher_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := remote.NewHTTPFetcher().Fetch(ctx, ts.URL, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPFetcher_Fetch_InvalidURL(t *testing.T) {
	_, err := remote.NewHTTPFetcher().Fetch(context.Background(), string([]byte{0x7f}), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidURL)
}

func TestHTTPFetcher_Fetch_ProtocolSecurity(t *testing.T) {
	_, err := remote.NewHTTPFetcher().Fetch(context.Background(), "ftp://example.com/entries.json", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}
