package fetcher

import (
	"context"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"github.com/sells-group/subrecon/internal/resilience"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 2 << 20 // 2 MiB

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent     string
	Timeout       time.Duration
	MaxRetries    int
	HostRateLimit rate.Limit
}

// HTTPClient implements Client using net/http with retry and per-host
// rate limiting.
type HTTPClient struct {
	client *http.Client
	opts   HTTPOptions

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPClient creates an HTTPClient with the given options.
func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	if opts.Timeout == 0 {
		opts.Timeout = 25 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 2
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; SubreconBot/1.0)"
	}
	if opts.HostRateLimit <= 0 {
		opts.HostRateLimit = 4
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiterFor returns the rate limiter for the URL's host, creating one on
// first use. Limiters persist for the process lifetime.
func (f *HTTPClient) limiterFor(rawURL string) *rate.Limiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(f.opts.HostRateLimit, int(f.opts.HostRateLimit))
		f.limiters[host] = lim
	}
	return lim
}

// FetchPage downloads the URL and returns its decoded text content.
// Transient failures (timeouts, 429, 5xx) are retried with backoff; the final
// failure and all non-2xx terminal statuses surface as *resilience.FetchError.
func (f *HTTPClient) FetchPage(ctx context.Context, rawURL string) (*Page, error) {
	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = f.opts.MaxRetries + 1
	retryCfg.OnRetry = resilience.RetryLogger("fetcher", "get")

	page, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*Page, error) {
		return f.fetchOnce(ctx, rawURL)
	})
	if err != nil {
		var fe *resilience.FetchError
		if !errors.As(err, &fe) {
			err = &resilience.FetchError{URL: rawURL, Err: err}
		}
		return nil, err
	}
	return page, nil
}

func (f *HTTPClient) fetchOnce(ctx context.Context, rawURL string) (*Page, error) {
	if err := f.limiterFor(rawURL).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetcher: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &resilience.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		// Transient network errors retry; everything else is terminal.
		if resilience.IsTransient(err) {
			return nil, resilience.NewTransientError(err, 0)
		}
		return nil, &resilience.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("http %d from %s", resp.StatusCode, rawURL), resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &resilience.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &resilience.FetchError{URL: rawURL, Err: err}
	}

	text := decodeCharset(body, resp.Header.Get("Content-Type"))

	zap.L().Debug("fetcher: page fetched",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(text)),
	)

	return &Page{
		URL:        rawURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       text,
	}, nil
}

// decodeCharset converts the body to UTF-8 using the charset declared in the
// Content-Type header. Unknown or missing charsets fall through to the raw
// bytes, which covers UTF-8 and ASCII pages.
func decodeCharset(body []byte, contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}
	name := strings.ToLower(params["charset"])
	if name == "" || name == "utf-8" || name == "us-ascii" {
		return string(body)
	}
	enc, err := htmlindex.Get(name)
	if err != nil || enc == nil {
		return string(body)
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
