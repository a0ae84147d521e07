// Package pipeline chains discovery, extraction, license verification,
// project-history enrichment and scoring into a single research run.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/subrecon/internal/discovery"
	"github.com/sells-group/subrecon/internal/extract"
	"github.com/sells-group/subrecon/internal/history"
	"github.com/sells-group/subrecon/internal/license"
	"github.com/sells-group/subrecon/internal/model"
	"github.com/sells-group/subrecon/internal/score"
)

const defaultBudget = 300 * time.Second

// Pipeline wires the research stages together.
type Pipeline struct {
	discovery *discovery.Service
	extractor *extract.Extractor
	verifier  *license.Verifier
	history   *history.Parser
	scorer    *score.Scorer
	budget    time.Duration
}

// New assembles a pipeline. Budget caps the wall-clock time of one run;
// zero takes the default.
func New(d *discovery.Service, e *extract.Extractor, v *license.Verifier, h *history.Parser, s *score.Scorer, budget time.Duration) *Pipeline {
	if budget <= 0 {
		budget = defaultBudget
	}
	return &Pipeline{
		discovery: d,
		extractor: e,
		verifier:  v,
		history:   h,
		scorer:    s,
		budget:    budget,
	}
}

// Execute runs the full research pipeline for one request. Stages run
// strictly in sequence; an empty discovery or extraction result
// short-circuits to an empty ranked list. When the time budget expires
// between stages, remaining enrichment is skipped and the profiles
// completed so far are scored and returned.
func (p *Pipeline) Execute(ctx context.Context, req model.ResearchRequest) (*model.ResearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()

	zap.L().Info("pipeline: research started",
		zap.String("trade", req.Trade),
		zap.String("city", req.City),
		zap.String("state", req.State),
	)

	candidates := p.discovery.FindCandidates(ctx, req)
	if len(candidates) == 0 {
		zap.L().Warn("pipeline: no candidates discovered")
		return p.finish(start, nil, 0), nil
	}

	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = c.URL
	}

	if expired(ctx) {
		zap.L().Warn("pipeline: budget exhausted after discovery")
		return p.finish(start, nil, len(candidates)), nil
	}

	profiles := p.extractor.ExtractProfiles(ctx, urls)
	if len(profiles) == 0 {
		zap.L().Warn("pipeline: no profiles extracted",
			zap.Int("candidates", len(candidates)),
		)
		return p.finish(start, nil, len(candidates)), nil
	}

	if expired(ctx) {
		zap.L().Warn("pipeline: budget exhausted after extraction")
		return p.score(start, profiles, req, len(candidates)), nil
	}

	profiles = p.verifier.VerifyBatch(ctx, profiles)

	if expired(ctx) {
		zap.L().Warn("pipeline: budget exhausted after verification")
		return p.score(start, profiles, req, len(candidates)), nil
	}

	kept, all := p.history.EnrichProfiles(ctx, profiles, req.State)
	if len(kept) > 0 {
		profiles = kept
	} else {
		// Filtering on recent project evidence removed everything; rank the
		// enriched pre-filter set instead of returning nothing.
		zap.L().Info("pipeline: history filter removed all profiles, keeping pre-filter set",
			zap.Int("profiles", len(all)),
		)
		profiles = all
	}

	return p.score(start, profiles, req, len(candidates)), nil
}

func (p *Pipeline) score(start time.Time, profiles []model.BusinessProfile, req model.ResearchRequest, candidates int) *model.ResearchResult {
	ranked := p.scorer.CalculateScores(profiles, req)
	return p.finish(start, ranked, candidates)
}

func (p *Pipeline) finish(start time.Time, profiles []model.BusinessProfile, candidates int) *model.ResearchResult {
	records := make([]model.Record, len(profiles))
	for i := range profiles {
		records[i] = profiles[i].Record()
	}
	res := &model.ResearchResult{
		Profiles:        profiles,
		Records:         records,
		CandidatesFound: candidates,
		Elapsed:         time.Since(start),
		Timestamp:       time.Now().UTC(),
	}
	if candidates > 0 {
		res.SuccessRate = float64(len(profiles)) / float64(candidates)
	}

	zap.L().Info("pipeline: research finished",
		zap.Int("candidates", candidates),
		zap.Int("profiles", len(profiles)),
		zap.Float64("success_rate", res.SuccessRate),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}

func expired(ctx context.Context) bool {
	return ctx.Err() != nil
}
