// Package extract fetches candidate websites and parses them into
// structured business profiles.
package extract

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/subrecon/internal/fetcher"
	"github.com/sells-group/subrecon/internal/model"
)

// Extractor turns candidate URLs into BusinessProfile records.
type Extractor struct {
	client      fetcher.Client
	concurrency int
}

// New creates an Extractor. Concurrency bounds simultaneous fetches.
func New(client fetcher.Client, concurrency int) *Extractor {
	if concurrency <= 0 {
		concurrency = 20
	}
	return &Extractor{client: client, concurrency: concurrency}
}

// ExtractProfiles processes all URLs concurrently. Fetch failures degrade to
// minimal profiles (domain-derived name only); profiles missing a business
// name or website are dropped from the output. Input order is not preserved.
func (e *Extractor) ExtractProfiles(ctx context.Context, urls []string) []model.BusinessProfile {
	log := zap.L().With(zap.String("stage", "extract"))

	var (
		mu       sync.Mutex
		profiles []model.BusinessProfile
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, u := range urls {
		u := u
		g.Go(func() error {
			profile := e.extractOne(gCtx, u)
			if !profile.Valid() {
				log.Debug("dropping invalid profile", zap.String("url", u))
				return nil
			}
			mu.Lock()
			profiles = append(profiles, profile)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	log.Info("extraction complete",
		zap.Int("urls", len(urls)),
		zap.Int("profiles", len(profiles)),
	)
	return profiles
}

// extractOne fetches and parses a single site. Any failure produces a
// minimal profile rather than an error; one bad URL never affects siblings.
func (e *Extractor) extractOne(ctx context.Context, rawURL string) model.BusinessProfile {
	page, err := e.client.FetchPage(ctx, rawURL)
	if err != nil {
		zap.L().Warn("extract: fetch failed",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return minimalProfile(rawURL)
	}

	profile := ParsePage(rawURL, page.Body)
	profile.LastChecked = time.Now().UTC()
	return profile
}

// minimalProfile is the fallback when a site cannot be fetched: only the
// website and a domain-derived name survive. It intentionally fails the
// business-name validation unless the domain yields a usable name.
func minimalProfile(rawURL string) model.BusinessProfile {
	return model.BusinessProfile{
		BusinessName: domainName(rawURL),
		Website:      rawURL,
		EvidenceURL:  rawURL,
		LastChecked:  time.Now().UTC(),
	}
}

var titleCaser = cases.Title(language.AmericanEnglish)

// domainName titleizes the registrable part of the URL's host:
// "https://acme-electrical.com" -> "Acme Electrical".
func domainName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	base, _, _ := strings.Cut(host, ".")
	if base == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(base, "-", " "))
}
