// Package fetcher downloads web pages with retry, per-host rate limiting,
// and a shared TTL response cache.
package fetcher

import (
	"context"
)

// Page is the text content of a fetched URL.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       string
}

// Client fetches the text content of a URL. Implementations fail with a
// *resilience.FetchError on non-recoverable failure.
type Client interface {
	FetchPage(ctx context.Context, url string) (*Page, error)
}
