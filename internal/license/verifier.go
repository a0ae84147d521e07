package license

import (
	"context"
	"regexp"
	"strings"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/subrecon/internal/model"
)

// Match score thresholds, 0-100. A token-set score at or above MatchThreshold
// accepts immediately; below it, a partial-ratio score at or above
// PartialCutoff still accepts, catching registry names that embed the
// business name inside a longer legal entity string.
const (
	defaultMatchThreshold = 85
	defaultPartialCutoff  = 90
	defaultMatchWorkers   = 4
)

const exactNumberScore = 100

// Verifier matches business profiles against a loaded registry.
type Verifier struct {
	registry  *Registry
	threshold int
	cutoff    int
	workers   int
	now       func() time.Time
}

// VerifierOptions tunes match thresholds and worker count. Zero values take
// defaults.
type VerifierOptions struct {
	MatchThreshold int
	PartialCutoff  int
	MatchWorkers   int
}

// NewVerifier builds a verifier over reg.
func NewVerifier(reg *Registry, opts VerifierOptions) *Verifier {
	v := &Verifier{
		registry:  reg,
		threshold: opts.MatchThreshold,
		cutoff:    opts.PartialCutoff,
		workers:   opts.MatchWorkers,
		now:       time.Now,
	}
	if v.threshold <= 0 {
		v.threshold = defaultMatchThreshold
	}
	if v.cutoff <= 0 {
		v.cutoff = defaultPartialCutoff
	}
	if v.workers <= 0 {
		v.workers = defaultMatchWorkers
	}
	return v
}

// VerifyBatch annotates each profile with registry match results. The
// returned slice has the same length and order as the input. Matching is
// CPU-bound string comparison, so the worker limit is independent of any
// network concurrency setting.
func (v *Verifier) VerifyBatch(ctx context.Context, profiles []model.BusinessProfile) []model.BusinessProfile {
	out := make([]model.BusinessProfile, len(profiles))
	copy(out, profiles)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)

	for i := range out {
		i := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			v.verifyOne(&out[i])
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	matched := 0
	for i := range out {
		if out[i].LicMatchScore > 0 {
			matched++
		}
	}
	zap.L().Info("license: batch verified",
		zap.Int("profiles", len(out)),
		zap.Int("matched", matched),
	)
	return out
}

func (v *Verifier) verifyOne(p *model.BusinessProfile) {
	// An explicit license number from the business's own site short-circuits
	// fuzzy matching when the registry confirms it.
	if num := explicitNumber(p.LicensingText); num != "" {
		if rec, ok := v.registry.lookupNumber(num); ok {
			v.applyMatch(p, rec, exactNumberScore)
			return
		}
	}

	name := NormalizeName(p.BusinessName)
	if name == "" {
		name = NameFromDomain(p.Domain())
	}
	if name == "" {
		v.applyNoMatch(p)
		return
	}

	rec, score, ok := v.bestMatch(name)
	if !ok {
		v.applyNoMatch(p)
		return
	}
	v.applyMatch(p, rec, score)
}

var licTokenRe = regexp.MustCompile(`(?i)\b[A-Z0-9][A-Z0-9-]{4,14}\b`)

// explicitNumber pulls a license-number-shaped token out of the licensing
// text. A qualifying token must carry at least one digit, which rules out
// ordinary words.
func explicitNumber(text string) string {
	for _, tok := range licTokenRe.FindAllString(text, -1) {
		if strings.ContainsAny(tok, "0123456789") {
			return strings.ToUpper(tok)
		}
	}
	return ""
}

// bestMatch scans the registry in two passes: the highest token-set score at
// or above the threshold wins outright; partial-ratio matches are considered
// only when no record cleared the token-set bar.
func (v *Verifier) bestMatch(name string) (Record, int, bool) {
	var (
		best      Record
		bestScore int
	)
	for _, rec := range v.registry.records {
		if score := fuzzy.TokenSetRatio(name, rec.BusinessName); score >= v.threshold && score > bestScore {
			best = rec
			bestScore = score
		}
	}
	if bestScore > 0 {
		return best, bestScore, true
	}

	for _, rec := range v.registry.records {
		if score := fuzzy.PartialRatio(name, rec.BusinessName); score >= v.cutoff && score > bestScore {
			best = rec
			bestScore = score
		}
	}
	if bestScore == 0 {
		return Record{}, 0, false
	}
	return best, bestScore, true
}

func (v *Verifier) applyMatch(p *model.BusinessProfile, rec Record, score int) {
	p.LicNumber = rec.LicenseNumber
	p.LicMatchScore = score

	expiry, ok := ParseExpiry(rec.ExpirationDate)
	if !ok {
		// Unparseable expiry cannot confirm an active license.
		p.LicActive = false
		p.LicExpiryDate = time.Time{}
		return
	}
	p.LicExpiryDate = expiry
	p.LicActive = expiry.After(v.now())
}

func (v *Verifier) applyNoMatch(p *model.BusinessProfile) {
	p.LicActive = false
	p.LicNumber = "Unknown"
	p.LicMatchScore = 0
	p.LicExpiryDate = time.Time{}
}
