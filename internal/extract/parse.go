package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/subrecon/internal/model"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)

	// Street address ending in a 2-letter state and 5-digit ZIP.
	addressRe = regexp.MustCompile(`\d+\s+[A-Za-z0-9 .]+?\b(?:Avenue|Ave|Street|St|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Court|Ct|Parkway|Pkwy|Highway|Hwy)\b\.?,?[A-Za-z0-9 .,]*?\b[A-Z]{2}\s+\d{5}\b`)

	// A licensing verb within 50 characters of a license-number-shaped token.
	// The token must carry a digit so plain prose ("licensed and insured")
	// does not fire.
	licensingRe = regexp.MustCompile(`(?i:\b(?:licen[cs]ed|certified|registered)\b.{0,50}?\b(?:lic(?:ense)?|reg(?:istration)?|cert(?:ification)?)?\s*[#:]?\s*)\b(\d[A-Z0-9-]{4,14}|[A-Z][A-Z0-9-]{0,12}\d[A-Z0-9-]{0,12})\b`)

	// Currency amount immediately followed by the word "bond".
	bondRe = regexp.MustCompile(`(?i)\$?\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*(million|thousand|[MK])?\s+bond`)

	// Trailing site-name separators and boilerplate in <title>/<h1> text.
	titleSuffixRe  = regexp.MustCompile(`\s*[|\x{2013}\x{2014}-]\s*[^|\x{2013}\x{2014}-]*$`)
	boilerplateSet = map[string]bool{"home": true, "welcome": true, "homepage": true, "index": true}
)

// projectKeywords mark sentences describing completed work.
var projectKeywords = []string{
	"project", "portfolio", "completed", "construction",
	"built", "developed", "renovation", "client",
}

const (
	maxProjectSnippets = 5
	minSnippetLen      = 20
	maxSnippetLen      = 500
	sectionExcerptLen  = 300
	evidenceFallback   = 500
)

// ParsePage parses an HTML document into a BusinessProfile. Individual field
// failures degrade that field to its zero value; the profile always carries
// at least the website.
func ParsePage(pageURL, html string) model.BusinessProfile {
	profile := model.BusinessProfile{
		Website:     pageURL,
		EvidenceURL: pageURL,
		UnionStatus: model.UnionUnknown,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		zap.L().Warn("extract: unparseable html", zap.String("url", pageURL), zap.Error(err))
		profile.BusinessName = domainName(pageURL)
		return profile
	}

	text := VisibleText(doc)

	profile.BusinessName = extractName(doc, pageURL)
	profile.Email = extractEmail(doc, text)
	profile.Phone = extractPhone(doc, text)

	if addr := addressRe.FindString(text); addr != "" {
		profile.HQAddress = strings.TrimSpace(addr)
		profile.City, profile.State = splitCityState(profile.HQAddress)
	}

	if m := licensingRe.FindString(text); m != "" {
		profile.LicensingText = strings.TrimSpace(m)
	}

	if amount, ok := ParseBond(text); ok {
		profile.BondAmount = amount
	}

	profile.UnionStatus = unionStatus(text)
	profile.ProjectSnippets = projectSnippets(text)
	profile.EvidenceText = evidenceText(doc, text)

	return profile
}

// VisibleText returns the document's rendered text with scripts and styles
// removed and whitespace collapsed.
func VisibleText(doc *goquery.Document) string {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript, svg").Remove()
	body := clone.Find("body")
	text := body.Text()
	if strings.TrimSpace(text) == "" {
		text = clone.Text()
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// extractName walks the documented fallback chain for the business name:
// site-name meta, application-name meta, cleaned h1/title, logo alt text,
// and finally the titleized domain.
func extractName(doc *goquery.Document, pageURL string) string {
	for _, sel := range []string{
		`meta[property="og:site_name"]`,
		`meta[name="application-name"]`,
	} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if name := strings.TrimSpace(content); name != "" {
				return name
			}
		}
	}

	for _, sel := range []string{"h1", "title"} {
		if name := cleanTitle(doc.Find(sel).First().Text()); name != "" {
			return name
		}
	}

	// Logo or brand element: element text first, then image alt.
	for _, sel := range []string{".logo", "#logo", ".brand", ".navbar-brand"} {
		node := doc.Find(sel).First()
		if name := strings.TrimSpace(node.Text()); name != "" {
			return name
		}
		if alt, ok := node.Find("img").First().Attr("alt"); ok {
			if name := strings.TrimSpace(alt); name != "" {
				return name
			}
		}
	}
	if alt, ok := doc.Find(`img[alt*="logo"], img[class*="logo"]`).First().Attr("alt"); ok {
		if name := cleanTitle(alt); name != "" {
			return name
		}
	}

	return domainName(pageURL)
}

// cleanTitle strips trailing site-name suffixes after | or dash separators
// and rejects boilerplate words like "Home".
func cleanTitle(raw string) string {
	name := strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
	if name == "" {
		return ""
	}
	if stripped := strings.TrimSpace(titleSuffixRe.ReplaceAllString(name, "")); stripped != "" {
		name = stripped
	}
	if boilerplateSet[strings.ToLower(name)] {
		return ""
	}
	return name
}

func extractEmail(doc *goquery.Document, text string) string {
	if href, ok := doc.Find(`a[href^="mailto:"]`).First().Attr("href"); ok {
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.Index(addr, "?"); i >= 0 {
			addr = addr[:i]
		}
		if addr = strings.TrimSpace(addr); addr != "" {
			return addr
		}
	}
	if v := strings.TrimSpace(doc.Find(`[itemprop="email"]`).First().Text()); v != "" {
		return v
	}
	return emailRe.FindString(text)
}

func extractPhone(doc *goquery.Document, text string) string {
	if href, ok := doc.Find(`a[href^="tel:"]`).First().Attr("href"); ok {
		if v := strings.TrimSpace(strings.TrimPrefix(href, "tel:")); v != "" {
			return NormalizePhone(v)
		}
	}
	if v := strings.TrimSpace(doc.Find(`[itemprop="telephone"]`).First().Text()); v != "" {
		return NormalizePhone(v)
	}
	if m := phoneRe.FindString(text); m != "" {
		return NormalizePhone(m)
	}
	return ""
}

// splitCityState derives city and state from the address tail by splitting
// on commas: the last segment is "state zip", the one before it the city.
// Best-effort only; malformed addresses yield empty values.
func splitCityState(address string) (city, state string) {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return "", ""
	}
	last := strings.Fields(strings.TrimSpace(parts[len(parts)-1]))
	if len(last) > 0 && len(last[0]) == 2 {
		state = strings.ToUpper(last[0])
	}
	city = strings.TrimSpace(parts[len(parts)-2])
	// City segment may still carry street text when the address had no
	// comma after the street; keep only the trailing words in that case.
	if words := strings.Fields(city); len(words) > 3 {
		city = strings.Join(words[len(words)-2:], " ")
	}
	return city, state
}

func unionStatus(text string) model.UnionStatus {
	lower := strings.ToLower(text)
	// "non-union" contains "union", so it is checked first.
	if strings.Contains(lower, "non-union") || strings.Contains(lower, "nonunion") {
		return model.UnionNonUnion
	}
	if strings.Contains(lower, "union") {
		return model.UnionMember
	}
	return model.UnionUnknown
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+`)

// projectSnippets keeps sentences of reasonable length containing at least
// two distinct project-related keywords, capped at five.
func projectSnippets(text string) []string {
	var snippets []string
	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < minSnippetLen || len(sentence) > maxSnippetLen {
			continue
		}
		lower := strings.ToLower(sentence)
		distinct := 0
		for _, kw := range projectKeywords {
			if strings.Contains(lower, kw) {
				distinct++
			}
		}
		if distinct >= 2 {
			snippets = append(snippets, sentence)
			if len(snippets) >= maxProjectSnippets {
				break
			}
		}
	}
	return snippets
}

// evidenceText concatenates excerpts of named content sections, falling back
// to the first 500 bytes of visible text. Excerpts are cut on rune boundaries.
func evidenceText(doc *goquery.Document, text string) string {
	var parts []string
	for _, sel := range []string{"#about", "#services", ".projects", "#portfolio"} {
		section := strings.TrimSpace(whitespaceRe.ReplaceAllString(doc.Find(sel).First().Text(), " "))
		if section == "" {
			continue
		}
		parts = append(parts, model.TruncateRunes(section, sectionExcerptLen))
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return model.TruncateRunes(text, evidenceFallback)
}
