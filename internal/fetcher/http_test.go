package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/subrecon/internal/resilience"
)

func newTestClient() *HTTPClient {
	return NewHTTPClient(HTTPOptions{
		MaxRetries:    1,
		HostRateLimit: 1000,
	})
}

func TestFetchPage_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "SubreconBot")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	page, err := newTestClient().FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, page.URL)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.Body, "hello")
}

func TestFetchPage_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient().FetchPage(context.Background(), srv.URL)
	require.Error(t, err)

	var fe *resilience.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
}

func TestFetchPage_RetriesServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html>recovered</html>"))
	}))
	defer srv.Close()

	page, err := newTestClient().FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, page.Body, "recovered")
	assert.Equal(t, 2, calls)
}

func TestFetchPage_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient().FetchPage(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, resilience.IsFetchError(err))
}

func TestFetchPage_FollowsRedirect(t *testing.T) {
	var finalURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/home", http.StatusMovedPermanently)
			return
		}
		finalURL = r.URL.Path
		w.Write([]byte("<html>landed</html>"))
	}))
	defer srv.Close()

	page, err := newTestClient().FetchPage(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "/home", finalURL)
	assert.Contains(t, page.FinalURL, "/home")
}

func TestDecodeCharset_Latin1(t *testing.T) {
	// "café" in ISO-8859-1.
	body := []byte{'c', 'a', 'f', 0xe9}
	text := decodeCharset(body, "text/html; charset=iso-8859-1")
	assert.Equal(t, "café", text)
}

func TestDecodeCharset_UnknownFallsThrough(t *testing.T) {
	body := []byte("plain ascii")
	assert.Equal(t, "plain ascii", decodeCharset(body, "text/html; charset=bogus"))
	assert.Equal(t, "plain ascii", decodeCharset(body, ""))
}
