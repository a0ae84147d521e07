package discovery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/subrecon/internal/fetcher"
	"github.com/sells-group/subrecon/internal/model"
)

// Backend is one free search engine. Implementations are best-effort: a
// failed or empty search never aborts discovery, the next backend is tried.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string) ([]model.CandidateLink, error)
}

// duckduckgoLite scrapes the DuckDuckGo Lite HTML results page.
type duckduckgoLite struct {
	client  fetcher.Client
	baseURL string
}

// NewDuckDuckGoLite creates the primary search backend.
func NewDuckDuckGoLite(client fetcher.Client) Backend {
	return &duckduckgoLite{client: client, baseURL: "https://lite.duckduckgo.com/lite/"}
}

// NewDuckDuckGoLiteWithBase creates the backend against a custom base URL.
// Used by tests to point at a stub server.
func NewDuckDuckGoLiteWithBase(client fetcher.Client, base string) Backend {
	return &duckduckgoLite{client: client, baseURL: base}
}

func (d *duckduckgoLite) Name() string { return "duckduckgo" }

func (d *duckduckgoLite) Search(ctx context.Context, query string) ([]model.CandidateLink, error) {
	doc, err := fetchDoc(ctx, d.client, d.baseURL+"?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	var links []model.CandidateLink
	doc.Find(".result").Each(func(_ int, row *goquery.Selection) {
		anchor := row.Find(".result-link").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		links = append(links, model.CandidateLink{
			URL:         href,
			Title:       strings.TrimSpace(anchor.Text()),
			Description: strings.TrimSpace(row.Find(".result-snippet").First().Text()),
			Source:      d.Name(),
		})
	})
	return links, nil
}

// brave scrapes the Brave Search results page.
type brave struct {
	client  fetcher.Client
	baseURL string
}

// NewBrave creates the first fallback backend.
func NewBrave(client fetcher.Client) Backend {
	return &brave{client: client, baseURL: "https://search.brave.com/search"}
}

// NewBraveWithBase creates the backend against a custom base URL.
func NewBraveWithBase(client fetcher.Client, base string) Backend {
	return &brave{client: client, baseURL: base}
}

func (b *brave) Name() string { return "brave" }

func (b *brave) Search(ctx context.Context, query string) ([]model.CandidateLink, error) {
	doc, err := fetchDoc(ctx, b.client, b.baseURL+"?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	return anchorsIn(doc, ".result a", b.Name()), nil
}

// mojeek scrapes the Mojeek results page.
type mojeek struct {
	client  fetcher.Client
	baseURL string
}

// NewMojeek creates the second fallback backend.
func NewMojeek(client fetcher.Client) Backend {
	return &mojeek{client: client, baseURL: "https://www.mojeek.com/search"}
}

// NewMojeekWithBase creates the backend against a custom base URL.
func NewMojeekWithBase(client fetcher.Client, base string) Backend {
	return &mojeek{client: client, baseURL: base}
}

func (m *mojeek) Name() string { return "mojeek" }

func (m *mojeek) Search(ctx context.Context, query string) ([]model.CandidateLink, error) {
	doc, err := fetchDoc(ctx, m.client, m.baseURL+"?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	return anchorsIn(doc, ".results a", m.Name()), nil
}

// maxPerBackend caps how many anchors a single results page contributes.
const maxPerBackend = 20

func fetchDoc(ctx context.Context, client fetcher.Client, searchURL string) (*goquery.Document, error) {
	page, err := client.FetchPage(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		return nil, eris.Wrap(err, "discovery: parse results page")
	}
	return doc, nil
}

func anchorsIn(doc *goquery.Document, selector, source string) []model.CandidateLink {
	var links []model.CandidateLink
	doc.Find(selector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return true
		}
		links = append(links, model.CandidateLink{
			URL:    href,
			Title:  strings.TrimSpace(a.Text()),
			Source: source,
		})
		return len(links) < maxPerBackend
	})
	return links
}
