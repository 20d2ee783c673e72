package scraper

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"bankscli/internal/config"
	apperrors "bankscli/internal/errors"
)

// HTTPFetcher performs a single GET per call
type HTTPFetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPFetcher creates a fetcher. A zero timeout means the request only
// ends when the server closes it or ctx is cancelled.
func NewHTTPFetcher(timeout time.Duration, logger *slog.Logger) *HTTPFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger.With("component", "http_fetcher"),
	}
}

// Fetch returns the response body as text. The status code is not inspected.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperrors.NewNetworkError("failed to build request for "+url, err)
	}
	req.Header.Set("User-Agent", config.AppName+"/"+config.AppVersion)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", apperrors.NewNetworkError("failed to fetch "+url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewNetworkError("failed to read response body from "+url, err)
	}

	f.logger.DebugContext(ctx, "Fetched page",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))

	return string(body), nil
}
