// Package scraper retrieves the raw HTML of the bank ranking page.
//
// Two fetchers are provided. HTTPFetcher performs one plain GET and returns the
// body whatever the status code. BrowserFetcher drives a headless Chrome through
// chromedp and returns the rendered document, for pages that build their tables
// with JavaScript.
//
// Neither fetcher retries. A transport failure is returned as a NETWORK AppError
// and aborts the run.
package scraper
