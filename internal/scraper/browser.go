package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	apperrors "bankscli/internal/errors"
)

// BrowserFetcher renders the page in headless Chrome before returning it
type BrowserFetcher struct {
	timeout     time.Duration
	logger      *slog.Logger
	allocatorOp []chromedp.ExecAllocatorOption
}

// NewBrowserFetcher creates a chromedp backed fetcher
func NewBrowserFetcher(timeout time.Duration, logger *slog.Logger) *BrowserFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", true))
	return &BrowserFetcher{
		timeout:     timeout,
		logger:      logger.With("component", "browser_fetcher"),
		allocatorOp: opts,
	}
}

// Fetch navigates to url and returns the outer HTML of the document
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOp...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var html string
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", apperrors.NewNetworkError("failed to render "+url, err)
	}

	f.logger.DebugContext(ctx, "Rendered page",
		slog.String("url", url),
		slog.Int("bytes", len(html)),
		slog.Duration("duration", time.Since(start)))

	return html, nil
}
