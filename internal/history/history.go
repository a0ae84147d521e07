// Package history scans candidate websites for evidence of recent in-region
// project work. It enriches business profiles with recent and older project
// counts plus ranked evidence snippets, and filters out profiles with no
// recent in-region activity.
package history

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/subrecon/internal/extract"
	"github.com/sells-group/subrecon/internal/fetcher"
	"github.com/sells-group/subrecon/internal/model"
)

const (
	defaultConcurrency = 8
	defaultRecentYears = 5
	defaultWindowChars = 250
)

// Parser enriches profiles with in-region project history.
type Parser struct {
	client      fetcher.Client
	concurrency int
	maxLinks    int
	recentYears int
	window      int
	now         func() time.Time
}

// Options tunes the parser. Zero values take defaults.
type Options struct {
	Concurrency int
	MaxLinks    int
	RecentYears int
	WindowChars int
}

func NewParser(client fetcher.Client, opts Options) *Parser {
	p := &Parser{
		client:      client,
		concurrency: opts.Concurrency,
		maxLinks:    opts.MaxLinks,
		recentYears: opts.RecentYears,
		window:      opts.WindowChars,
		now:         time.Now,
	}
	if p.concurrency <= 0 {
		p.concurrency = defaultConcurrency
	}
	if p.maxLinks <= 0 || p.maxLinks > maxProjectLinks {
		p.maxLinks = maxProjectLinks
	}
	if p.recentYears <= 0 {
		p.recentYears = defaultRecentYears
	}
	if p.window <= 0 {
		p.window = defaultWindowChars
	}
	return p
}

// EnrichProfiles scans each profile's website for in-region project
// evidence. It returns the profiles with at least one recent project, plus
// the full enriched set so callers can fall back when filtering removes
// everything. Both slices preserve input order.
func (p *Parser) EnrichProfiles(ctx context.Context, profiles []model.BusinessProfile, state string) (kept, all []model.BusinessProfile) {
	terms := termsForState(state)

	all = make([]model.BusinessProfile, len(profiles))
	copy(all, profiles)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i := range all {
		i := i
		g.Go(func() error {
			enriched := p.enrichOne(ctx, all[i], terms)
			mu.Lock()
			all[i] = enriched
			mu.Unlock()
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	for _, prof := range all {
		if prof.TXProjectsPast5Yrs > 0 {
			kept = append(kept, prof)
		}
	}

	zap.L().Info("history: profiles enriched",
		zap.Int("profiles", len(all)),
		zap.Int("with_recent_projects", len(kept)),
	)
	return kept, all
}

func (p *Parser) enrichOne(ctx context.Context, prof model.BusinessProfile, terms []string) model.BusinessProfile {
	nowYear := p.now().Year()
	cutoff := nowYear - p.recentYears
	maxYear := nowYear + 1

	page, err := p.client.FetchPage(ctx, prof.Website)
	if err != nil {
		zap.L().Debug("history: root fetch failed",
			zap.String("url", prof.Website),
			zap.Error(err),
		)
		prof.TXProjectsPast5Yrs = 0
		return prof
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		prof.TXProjectsPast5Yrs = 0
		return prof
	}

	res := scanText(extract.VisibleText(doc), page.FinalURL, terms, p.window, cutoff, maxYear)

	links := projectLinks(doc, page.FinalURL)
	if len(links) > p.maxLinks {
		links = links[:p.maxLinks]
	}
	for _, link := range links {
		sub, err := p.client.FetchPage(ctx, link)
		if err != nil {
			zap.L().Debug("history: project page fetch failed",
				zap.String("url", link),
				zap.Error(err),
			)
			continue
		}
		subDoc, err := goquery.NewDocumentFromReader(strings.NewReader(sub.Body))
		if err != nil {
			continue
		}
		res.merge(scanText(extract.VisibleText(subDoc), sub.FinalURL, terms, p.window, cutoff, maxYear))
	}

	// Content sections can sit far apart in full-page text order; scanning
	// them individually catches region and year mentions that interleaved
	// markup pushed outside the window.
	if res.Recent == 0 {
		res.merge(p.scanSections(doc, page.FinalURL, terms, cutoff, maxYear))
	}

	sort.SliceStable(res.Evidence, func(i, j int) bool {
		return res.Evidence[i].Quality > res.Evidence[j].Quality
	})

	prof.ProjectEvidence = res.Evidence
	prof.TXOlderProjects = res.Older
	if res.Recent > 0 {
		prof.TXProjectsPast5Yrs = max(1, res.Recent)
	} else {
		prof.TXProjectsPast5Yrs = 0
	}
	return prof
}

// Section class/id fragments that mark likely project content.
var sectionNameHints = []string{"project", "portfolio", "work", "case", "gallery"}

// scanSections scans named content sections for region+year co-occurrence.
// If no section carries a project-related class or id, every section-like
// element is scanned.
func (p *Parser) scanSections(doc *goquery.Document, pageURL string, terms []string, cutoff, maxYear int) scanResult {
	var res scanResult

	candidates := doc.Find("div, section, article")
	named := candidates.FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		attrs := strings.ToLower(class + " " + id)
		return containsAny(attrs, sectionNameHints)
	})
	if named.Length() > 0 {
		candidates = named
	}

	candidates.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" || !containsAny(strings.ToLower(text), projectTypeKeywords) {
			return
		}
		res.merge(scanText(text, pageURL, terms, p.window, cutoff, maxYear))
	})

	return res
}
