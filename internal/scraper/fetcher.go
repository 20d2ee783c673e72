package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bankscli/internal/config"
	apperrors "bankscli/internal/errors"
)

// Fetcher retrieves the HTML text behind a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// New returns the fetcher for the configured mode
func New(mode string, timeout time.Duration, logger *slog.Logger) (Fetcher, error) {
	switch mode {
	case config.FetchModeHTTP, "":
		return NewHTTPFetcher(timeout, logger), nil
	case config.FetchModeBrowser:
		return NewBrowserFetcher(timeout, logger), nil
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unsupported fetch mode %q", mode), nil)
	}
}
