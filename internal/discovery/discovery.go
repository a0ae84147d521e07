// Package discovery turns a research request into a bounded list of
// candidate business URLs using free web search backends.
package discovery

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/subrecon/internal/model"
	"github.com/sells-group/subrecon/internal/resilience"
)

// Service fans a single query out to search backends in fixed priority
// order, normalizing and deduplicating results by root domain.
type Service struct {
	backends  []Backend
	blocklist map[string]bool
	target    int
	retries   int
}

// Options configures a discovery Service.
type Options struct {
	TargetCandidates int
	MaxRetries       int
	DomainBlocklist  []string
}

// NewService creates a Service querying the given backends in order.
func NewService(backends []Backend, opts Options) *Service {
	if opts.TargetCandidates <= 0 {
		opts.TargetCandidates = 20
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 2
	}
	blocklist := make(map[string]bool, len(opts.DomainBlocklist))
	for _, d := range opts.DomainBlocklist {
		blocklist[strings.ToLower(strings.TrimSpace(d))] = true
	}
	return &Service{
		backends:  backends,
		blocklist: blocklist,
		target:    opts.TargetCandidates,
		retries:   opts.MaxRetries,
	}
}

// FindCandidates returns up to the target number of candidate links for the
// request. A blank request (no trade, city, or state) returns an empty list
// without any network calls. Backend failures are logged and skipped; an
// empty result is a valid, non-fatal outcome.
func (s *Service) FindCandidates(ctx context.Context, req model.ResearchRequest) []model.CandidateLink {
	log := zap.L().With(zap.String("stage", "discovery"))

	query := BuildQuery(req)
	if query == "" {
		log.Warn("empty search query, skipping discovery")
		return nil
	}
	log.Info("searching", zap.String("query", query))

	var (
		candidates []model.CandidateLink
		seen       = make(map[string]bool)
	)

	for _, backend := range s.backends {
		if len(candidates) >= s.target {
			break
		}
		if ctx.Err() != nil {
			break
		}

		retryCfg := resilience.DefaultRetryConfig()
		retryCfg.MaxAttempts = s.retries + 1
		retryCfg.OnRetry = resilience.RetryLogger("discovery", backend.Name())

		results, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) ([]model.CandidateLink, error) {
			return backend.Search(ctx, query)
		})
		if err != nil {
			log.Warn("backend search failed",
				zap.String("backend", backend.Name()),
				zap.Error(err),
			)
			continue
		}

		added := 0
		for _, r := range results {
			if len(candidates) >= s.target {
				break
			}
			normalized, domain, ok := normalizeCandidateURL(r.URL)
			if !ok {
				continue
			}
			if s.blocked(domain) || seen[domain] {
				continue
			}
			seen[domain] = true
			r.URL = normalized
			candidates = append(candidates, r)
			added++
		}
		log.Info("backend complete",
			zap.String("backend", backend.Name()),
			zap.Int("results", len(results)),
			zap.Int("accepted", added),
		)
	}

	if len(candidates) < s.target {
		log.Warn("below candidate target",
			zap.Int("found", len(candidates)),
			zap.Int("target", s.target),
		)
	}
	return candidates
}

// normalizeCandidateURL reduces a result URL to its scheme+root-domain form
// with any www. prefix stripped. Returns ok=false for non-http URLs.
func normalizeCandidateURL(raw string) (normalized, domain string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", "", false
	}
	domain = strings.TrimPrefix(host, "www.")
	return u.Scheme + "://" + domain, domain, true
}

// blocked checks the domain and its parent domains against the blocklist, so
// "m.facebook.com" is rejected by a "facebook.com" entry.
func (s *Service) blocked(domain string) bool {
	for d := domain; d != ""; {
		if s.blocklist[d] {
			return true
		}
		idx := strings.Index(d, ".")
		if idx < 0 {
			break
		}
		d = d[idx+1:]
	}
	return false
}
