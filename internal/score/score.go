// Package score ranks business profiles by a weighted composite of
// experience, licensing, bonding capacity, geography and reputation.
package score

import (
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/subrecon/internal/model"
)

const (
	projectCountFactor = 0.2
	qualityFloor       = 0.7
	qualitySpan        = 0.3
	unknownQuality     = 0.5

	licenseBase       = 0.2
	licenseExpirySpan = 0.8
	expiryHorizonDays = 365.0

	geoStateFloor     = 0.3
	geoDistanceScale  = 300.0
	maxDistancePoints = 1.0

	maxScore = 100
)

// Scorer computes composite suitability scores. Scoring is deterministic:
// the same profiles and request always produce the same scores and order.
type Scorer struct {
	weights Weights
	now     func() time.Time
}

// NewScorer builds a scorer, validating the weights.
func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights, now: time.Now}, nil
}

// CalculateScores scores every profile against the request and returns them
// ranked highest first. No profile is dropped.
func (s *Scorer) CalculateScores(profiles []model.BusinessProfile, req model.ResearchRequest) []model.BusinessProfile {
	out := make([]model.BusinessProfile, len(profiles))
	copy(out, profiles)

	for i := range out {
		s.scoreOne(&out[i], req)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rankLess(out[j], out[i])
	})

	zap.L().Info("score: profiles ranked", zap.Int("profiles", len(out)))
	return out
}

func (s *Scorer) scoreOne(p *model.BusinessProfile, req model.ResearchRequest) {
	b := model.ScoreBreakdown{
		Experience: s.experienceComponent(p),
		License:    s.licenseComponent(p),
		Bonding:    bondingComponent(p.BondAmount, req.MinBond),
		Geography:  geographyComponent(p, req),
		Reputation: reputationComponent(p),
	}

	total := s.weights.Experience*b.Experience +
		s.weights.License*b.License +
		s.weights.Bonding*b.Bonding +
		s.weights.Geography*b.Geography +
		s.weights.Reputation*b.Reputation

	score := int(math.Round(total * 100))
	if score > maxScore {
		score = maxScore
	}

	p.Score = score
	p.ScoreBreakdown = b
}

// experienceComponent scales recent project count, saturating at five
// projects, by the best evidence quality.
func (s *Scorer) experienceComponent(p *model.BusinessProfile) float64 {
	base := math.Min(1.0, float64(p.TXProjectsPast5Yrs)*projectCountFactor)
	quality := unknownQuality
	if len(p.ProjectEvidence) > 0 {
		best := 0
		for _, ev := range p.ProjectEvidence {
			if ev.Quality > best {
				best = ev.Quality
			}
		}
		quality = float64(best) / 5.0
	}
	return base * (qualityFloor + qualitySpan*quality)
}

// licenseComponent rewards active licenses with remaining validity. An
// active license is worth at least the base; a full year or more until
// expiry is worth the maximum.
func (s *Scorer) licenseComponent(p *model.BusinessProfile) float64 {
	if !p.LicActive {
		return 0
	}
	days := p.LicExpiryDate.Sub(s.now()).Hours() / 24
	if days < 0 {
		days = 0
	}
	return licenseExpirySpan*math.Min(1.0, days/expiryHorizonDays) + licenseBase
}

// bondingComponent is zero below half the required bond, then ramps
// linearly to full credit at twice the requirement.
func bondingComponent(bond, minBond int64) float64 {
	if minBond <= 0 {
		if bond > 0 {
			return 1.0
		}
		return 0
	}
	half := 0.5 * float64(minBond)
	if float64(bond) < half {
		return 0
	}
	v := (float64(bond) - half) / (1.5 * float64(minBond))
	if v < 0 {
		v = 0
	}
	if v > maxDistancePoints {
		v = maxDistancePoints
	}
	return v
}

func geographyComponent(p *model.BusinessProfile, req model.ResearchRequest) float64 {
	if strings.EqualFold(strings.TrimSpace(p.City), strings.TrimSpace(req.City)) && p.City != "" {
		return 1.0
	}
	if strings.EqualFold(strings.TrimSpace(p.State), strings.TrimSpace(req.State)) && p.State != "" {
		factor := 1.0 - distanceMiles(p.City, req.City)/geoDistanceScale
		return math.Max(geoStateFloor, factor)
	}
	return 0
}

// reputationComponent sums bonus signals, capped at 1.0.
func reputationComponent(p *model.BusinessProfile) float64 {
	v := 0.0
	if p.PositiveReviews > 5 {
		v += 0.3
	}
	if p.YearsInBusiness > 5 {
		v += 0.2
	}
	if p.Awards {
		v += 0.2
	}
	if p.UnionStatus == model.UnionMember {
		v += 0.3
	}
	if v > 1.0 {
		v = 1.0
	}
	return v
}

// rankLess reports whether a ranks below b: lower total score, then the
// tie-break chain of experience, license, bond amount and years in
// business, all descending.
func rankLess(a, b model.BusinessProfile) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	if a.ScoreBreakdown.Experience != b.ScoreBreakdown.Experience {
		return a.ScoreBreakdown.Experience < b.ScoreBreakdown.Experience
	}
	if a.ScoreBreakdown.License != b.ScoreBreakdown.License {
		return a.ScoreBreakdown.License < b.ScoreBreakdown.License
	}
	if a.BondAmount != b.BondAmount {
		return a.BondAmount < b.BondAmount
	}
	return a.YearsInBusiness < b.YearsInBusiness
}
