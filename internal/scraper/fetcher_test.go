package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankscli/internal/config"
	apperrors "bankscli/internal/errors"
	"bankscli/internal/shared/testutil"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	page := testutil.RankingPageHTML(testutil.RankingTableHTML("", testutil.DefaultBankRows))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.Header.Get("User-Agent"), config.AppName)
		w.Write([]byte(page))
	}))
	defer server.Close()

	logger, _ := testutil.NewTestLogger(t)
	body, err := NewHTTPFetcher(0, logger).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, page, body)
}

func TestHTTPFetcher_IgnoresStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("<html>gone</html>"))
	}))
	defer server.Close()

	body, err := NewHTTPFetcher(0, nil).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html>gone</html>", body)
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewHTTPFetcher(0, nil).Fetch(context.Background(), url)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNetwork))
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := NewHTTPFetcher(50*time.Millisecond, nil).Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNetwork))
}

func TestHTTPFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(0, nil).Fetch(ctx, "http://127.0.0.1:1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	tests := []struct {
		mode    string
		want    interface{}
		wantErr bool
	}{
		{mode: config.FetchModeHTTP, want: &HTTPFetcher{}},
		{mode: "", want: &HTTPFetcher{}},
		{mode: config.FetchModeBrowser, want: &BrowserFetcher{}},
		{mode: "ftp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			f, err := New(tt.mode, time.Second, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}
}
