package model

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ResearchRequest is the caller's input, immutable for the duration of a run.
type ResearchRequest struct {
	Trade    string   `json:"trade"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	MinBond  int64    `json:"min_bond"`
	Keywords []string `json:"keywords,omitempty"`
}

const (
	minFieldLen   = 2
	maxFieldLen   = 50
	maxKeywordLen = 20
)

// Validate checks field length constraints. A failing request must be
// rejected before any pipeline stage executes.
func (r ResearchRequest) Validate() error {
	var errs []string

	if n := len(strings.TrimSpace(r.Trade)); n < minFieldLen || n > maxFieldLen {
		errs = append(errs, fmt.Sprintf("trade must be %d-%d characters", minFieldLen, maxFieldLen))
	}
	if n := len(strings.TrimSpace(r.City)); n < minFieldLen || n > maxFieldLen {
		errs = append(errs, fmt.Sprintf("city must be %d-%d characters", minFieldLen, maxFieldLen))
	}
	if len(strings.TrimSpace(r.State)) != 2 {
		errs = append(errs, "state must be exactly 2 characters")
	}
	if r.MinBond <= 0 {
		errs = append(errs, "min_bond must be a positive integer")
	}
	for _, kw := range r.Keywords {
		if len(kw) > maxKeywordLen {
			errs = append(errs, fmt.Sprintf("keyword %q exceeds %d characters", kw, maxKeywordLen))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("model: invalid research request: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Blank reports whether trade, city, and state are all empty. Discovery
// returns an empty candidate list for blank requests without touching the
// network.
func (r ResearchRequest) Blank() bool {
	return strings.TrimSpace(r.Trade) == "" &&
		strings.TrimSpace(r.City) == "" &&
		strings.TrimSpace(r.State) == ""
}
