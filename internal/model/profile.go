// Package model defines the data types threaded through the research pipeline.
package model

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// UnionStatus describes a contractor's union affiliation as stated on its site.
type UnionStatus string

const (
	UnionUnknown  UnionStatus = "unknown"
	UnionMember   UnionStatus = "union"
	UnionNonUnion UnionStatus = "non-union"
)

// CandidateLink is a raw search result produced by discovery. Candidates are
// unique by normalized root domain within a single discovery run.
type CandidateLink struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// ProjectEvidence is one detected project reference: a snippet co-locating an
// in-region place name with a recent year, with a 1-5 confidence rating.
type ProjectEvidence struct {
	URL     string `json:"url"`
	Text    string `json:"text"`
	Years   []int  `json:"years"`
	Quality int    `json:"quality"`
}

// ScoreBreakdown holds the per-factor scoring components, informational only.
type ScoreBreakdown struct {
	Experience float64 `json:"experience"`
	License    float64 `json:"license"`
	Bonding    float64 `json:"bonding"`
	Geography  float64 `json:"geography"`
	Reputation float64 `json:"reputation"`
}

// BusinessProfile is the central record accumulated across pipeline stages.
// Fields are only added to or overridden with better data; no stage clears a
// field set by an earlier one, and nothing mutates a profile after scoring.
type BusinessProfile struct {
	// Identity
	BusinessName string `json:"business_name"`
	Website      string `json:"website"`

	// Contact
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	// Location
	HQAddress string `json:"hq_address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`

	// Licensing
	LicensingText string    `json:"licensing_text,omitempty"`
	LicNumber     string    `json:"lic_number,omitempty"`
	LicActive     bool      `json:"lic_active"`
	LicMatchScore int       `json:"lic_match_score"`
	LicExpiryDate time.Time `json:"lic_expiry_date,omitzero"`

	// Bonding
	BondAmount int64 `json:"bond_amount"`

	// Project history
	TXProjectsPast5Yrs int               `json:"tx_projects_past_5yrs"`
	TXOlderProjects    int               `json:"tx_older_projects"`
	ProjectEvidence    []ProjectEvidence `json:"project_evidence,omitempty"`
	ProjectSnippets    []string          `json:"project_snippets,omitempty"`

	// Misc signals feeding the reputation component.
	UnionStatus     UnionStatus `json:"union_status,omitempty"`
	YearsInBusiness int         `json:"years_in_business,omitempty"`
	PositiveReviews int         `json:"positive_reviews,omitempty"`
	Awards          bool        `json:"awards,omitempty"`

	// Evidence / audit
	EvidenceText string    `json:"evidence_text,omitempty"`
	EvidenceURL  string    `json:"evidence_url,omitempty"`
	LastChecked  time.Time `json:"last_checked,omitzero"`

	// Derived output
	Score          int            `json:"score"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
}

// Valid reports whether the profile may appear in stage output: both a
// business name and a resolvable website are mandatory.
func (p *BusinessProfile) Valid() bool {
	return strings.TrimSpace(p.BusinessName) != "" && strings.TrimSpace(p.Website) != ""
}

// Domain returns the profile website's host with any www. prefix removed,
// or "" if the website does not parse.
func (p *BusinessProfile) Domain() string {
	u, err := url.Parse(p.Website)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// Record is the flat persistence shape handed to the document store.
type Record struct {
	Name               string `json:"name"`
	Website            string `json:"website"`
	City               string `json:"city"`
	State              string `json:"state"`
	LicActive          bool   `json:"lic_active"`
	LicNumber          string `json:"lic_number"`
	BondAmount         int64  `json:"bond_amount"`
	TXProjectsPast5Yrs int    `json:"tx_projects_past_5yrs"`
	Score              int    `json:"score"`
	EvidenceURL        string `json:"evidence_url"`
	EvidenceText       string `json:"evidence_text"`
	LastChecked        string `json:"last_checked"`
}

// maxEvidenceLen caps the serialized evidence excerpt.
const maxEvidenceLen = 500

// TruncateRunes cuts s to at most limit bytes without splitting a UTF-8
// sequence.
func TruncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Record flattens the profile for persistence. Missing strings become "",
// missing numerics 0, and evidence text is truncated to 500 bytes.
func (p *BusinessProfile) Record() Record {
	evidence := TruncateRunes(p.EvidenceText, maxEvidenceLen)
	lastChecked := ""
	if !p.LastChecked.IsZero() {
		lastChecked = p.LastChecked.UTC().Format(time.RFC3339)
	}
	return Record{
		Name:               p.BusinessName,
		Website:            p.Website,
		City:               p.City,
		State:              p.State,
		LicActive:          p.LicActive,
		LicNumber:          p.LicNumber,
		BondAmount:         p.BondAmount,
		TXProjectsPast5Yrs: p.TXProjectsPast5Yrs,
		Score:              p.Score,
		EvidenceURL:        p.EvidenceURL,
		EvidenceText:       evidence,
		LastChecked:        lastChecked,
	}
}
