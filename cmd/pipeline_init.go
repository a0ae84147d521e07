package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/subrecon/internal/config"
	"github.com/sells-group/subrecon/internal/discovery"
	"github.com/sells-group/subrecon/internal/extract"
	"github.com/sells-group/subrecon/internal/fetcher"
	"github.com/sells-group/subrecon/internal/history"
	"github.com/sells-group/subrecon/internal/license"
	"github.com/sells-group/subrecon/internal/pipeline"
	"github.com/sells-group/subrecon/internal/score"
)

// buildFetcher assembles the shared HTTP client with its page cache.
func buildFetcher(c *config.Config) fetcher.Client {
	httpClient := fetcher.NewHTTPClient(fetcher.HTTPOptions{
		UserAgent:     c.Fetch.UserAgent,
		Timeout:       time.Duration(c.Fetch.TimeoutSecs) * time.Second,
		MaxRetries:    c.Fetch.MaxRetries,
		HostRateLimit: rate.Limit(c.Fetch.HostRateLimit),
	})
	cache := fetcher.NewPageCache(c.Fetch.CacheEntries, time.Duration(c.Fetch.CacheTTLMins)*time.Minute)
	return fetcher.NewCachingClient(httpClient, cache)
}

// buildPipeline wires every stage from config. The license registry load is
// fatal: without it no verification is possible.
func buildPipeline(c *config.Config) (*pipeline.Pipeline, error) {
	client := buildFetcher(c)

	disc := discovery.NewService(
		[]discovery.Backend{
			discovery.NewDuckDuckGoLite(client),
			discovery.NewBrave(client),
			discovery.NewMojeek(client),
		},
		discovery.Options{
			TargetCandidates: c.Discovery.TargetCandidates,
			MaxRetries:       c.Discovery.MaxRetries,
			DomainBlocklist:  c.Discovery.DomainBlocklist,
		},
	)

	extractor := extract.New(client, c.Extract.Concurrency)

	registry, err := license.LoadRegistry(c.License.RegistryPath)
	if err != nil {
		return nil, eris.Wrap(err, "load license registry")
	}
	verifier := license.NewVerifier(registry, license.VerifierOptions{
		MatchThreshold: c.License.MatchThreshold,
		PartialCutoff:  c.License.PartialCutoff,
		MatchWorkers:   c.License.MatchWorkers,
	})

	parser := history.NewParser(client, history.Options{
		Concurrency: c.History.Concurrency,
		MaxLinks:    c.History.MaxLinks,
		RecentYears: c.History.RecentYears,
		WindowChars: c.History.WindowChars,
	})

	weights, err := loadWeights(c)
	if err != nil {
		return nil, err
	}
	scorer, err := score.NewScorer(weights)
	if err != nil {
		return nil, err
	}

	return pipeline.New(disc, extractor, verifier, parser, scorer, c.Pipeline.Budget()), nil
}

// loadWeights takes the weights file when configured, falling back to the
// individual config values.
func loadWeights(c *config.Config) (score.Weights, error) {
	if c.Score.WeightsFile != "" {
		w, err := score.LoadWeights(c.Score.WeightsFile)
		if err != nil {
			return score.Weights{}, err
		}
		zap.L().Info("weights loaded from file", zap.String("path", c.Score.WeightsFile))
		return w, nil
	}
	return score.Weights{
		Experience: c.Score.ExperienceWeight,
		License:    c.Score.LicenseWeight,
		Bonding:    c.Score.BondingWeight,
		Geography:  c.Score.GeographyWeight,
		Reputation: c.Score.ReputationWeight,
	}, nil
}
