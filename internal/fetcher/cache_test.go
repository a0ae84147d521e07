package fetcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/subrecon/internal/resilience"
)

func TestPageCache_PutGet(t *testing.T) {
	c := NewPageCache(10, time.Minute)
	page := &Page{URL: "https://a.com", Body: "hello"}
	c.Put("https://a.com", page)

	got := c.Get("https://a.com")
	assert.Equal(t, page, got)
}

func TestPageCache_Miss(t *testing.T) {
	c := NewPageCache(10, time.Minute)
	assert.Nil(t, c.Get("https://missing.com"))
}

func TestPageCache_TTLExpiry(t *testing.T) {
	c := NewPageCache(10, time.Nanosecond)
	c.Put("https://a.com", &Page{URL: "https://a.com"})
	time.Sleep(time.Millisecond)
	assert.Nil(t, c.Get("https://a.com"))
}

func TestPageCache_EvictsOldest(t *testing.T) {
	c := NewPageCache(2, time.Minute)
	c.Put("https://a.com", &Page{URL: "https://a.com"})
	c.Put("https://b.com", &Page{URL: "https://b.com"})
	c.Put("https://c.com", &Page{URL: "https://c.com"})

	assert.Nil(t, c.Get("https://a.com"))
	assert.NotNil(t, c.Get("https://b.com"))
	assert.NotNil(t, c.Get("https://c.com"))
}

func TestPageCache_GetRefreshesLRU(t *testing.T) {
	c := NewPageCache(2, time.Minute)
	c.Put("https://a.com", &Page{URL: "https://a.com"})
	c.Put("https://b.com", &Page{URL: "https://b.com"})
	c.Get("https://a.com")
	c.Put("https://c.com", &Page{URL: "https://c.com"})

	assert.NotNil(t, c.Get("https://a.com"))
	assert.Nil(t, c.Get("https://b.com"))
}

func TestPageCache_Stats(t *testing.T) {
	c := NewPageCache(10, time.Minute)
	c.Put("https://a.com", &Page{URL: "https://a.com"})
	c.Get("https://a.com")
	c.Get("https://missing.com")

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

type stubClient struct {
	calls int
	pages map[string]*Page
}

func (s *stubClient) FetchPage(_ context.Context, url string) (*Page, error) {
	s.calls++
	if page, ok := s.pages[url]; ok {
		return page, nil
	}
	return nil, &resilience.FetchError{URL: url, StatusCode: 404}
}

func TestCachingClient_CachesSuccess(t *testing.T) {
	stub := &stubClient{pages: map[string]*Page{
		"https://a.com": {URL: "https://a.com", Body: "hi"},
	}}
	client := NewCachingClient(stub, NewPageCache(10, time.Minute))

	first, err := client.FetchPage(context.Background(), "https://a.com")
	assert.NoError(t, err)
	second, err := client.FetchPage(context.Background(), "https://a.com")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.calls)
}

func TestCachingClient_DoesNotCacheFailure(t *testing.T) {
	stub := &stubClient{pages: map[string]*Page{}}
	client := NewCachingClient(stub, NewPageCache(10, time.Minute))

	_, err := client.FetchPage(context.Background(), "https://missing.com")
	assert.Error(t, err)
	_, err = client.FetchPage(context.Background(), "https://missing.com")
	assert.Error(t, err)

	assert.Equal(t, 2, stub.calls)
}
