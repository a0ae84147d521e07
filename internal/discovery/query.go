package discovery

import (
	"fmt"
	"strings"

	"github.com/sells-group/subrecon/internal/model"
)

// licenseTerms are OR'd into every query to bias results toward licensed
// contractors without assuming any particular registration status.
var licenseTerms = []string{"licensed", "certified", "registered"}

// jurisdictionHints appends a region-specific licensing-authority phrase for
// states with a well-known registry.
var jurisdictionHints = map[string]string{
	"TX": `(tdlr OR "texas department of licensing")`,
}

// BuildQuery combines the request into a single free-text search query:
// trade+"contractor", a quoted locality phrase, an OR-group of license terms,
// and an OR-group of caller keywords (defaulting to "commercial").
func BuildQuery(req model.ResearchRequest) string {
	var parts []string

	trade := strings.TrimSpace(req.Trade)
	if trade != "" {
		parts = append(parts, trade+" contractor")
	}

	city := strings.TrimSpace(req.City)
	state := strings.TrimSpace(req.State)
	switch {
	case city != "" && state != "":
		parts = append(parts, fmt.Sprintf("%q", city+", "+state))
	case city != "":
		parts = append(parts, city)
	case state != "":
		parts = append(parts, state)
	}

	if len(parts) == 0 {
		return ""
	}

	parts = append(parts, orGroup(licenseTerms))

	keywords := req.Keywords
	if len(keywords) == 0 {
		keywords = []string{"commercial"}
	}
	parts = append(parts, orGroup(keywords))

	if hint, ok := jurisdictionHints[strings.ToUpper(state)]; ok {
		parts = append(parts, hint)
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

func orGroup(terms []string) string {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	return "(" + strings.Join(cleaned, " OR ") + ")"
}
