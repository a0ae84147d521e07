package history

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sells-group/subrecon/internal/model"
)

var yearRe = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// Keywords that raise evidence quality when they appear near a region+year
// co-occurrence.
var (
	projectTypeKeywords = []string{
		"project", "construction", "renovation", "completed", "built",
		"installation", "contract", "facility", "build-out",
	}
	sectionContextKeywords = []string{
		"portfolio", "case study", "our work", "recent work", "featured",
	}
)

const (
	minPlausibleYear = 1950
	baseQuality      = 2
	maxQuality       = 5
)

// scanResult accumulates co-occurrence findings across one or more pages.
type scanResult struct {
	Recent   int
	Older    int
	Evidence []model.ProjectEvidence
}

func (r *scanResult) merge(other scanResult) {
	r.Recent += other.Recent
	r.Older += other.Older
	r.Evidence = append(r.Evidence, other.Evidence...)
}

// scanText finds co-occurrences of an in-region place-name token and a year
// token within a bounded character window. Each year occurrence with a
// region term in range counts once; years inside the recency horizon
// produce an evidence snippet with the matched term and year bracketed.
func scanText(text, pageURL string, terms []string, window, cutoffYear, maxYear int) scanResult {
	var res scanResult
	// ASCII-only lowering: Unicode case mapping can change byte length
	// (e.g. the Kelvin sign), which would break the window offsets computed
	// against text. Region terms and keywords are ASCII.
	lower := lowerASCII(text)

	for _, loc := range yearRe.FindAllStringIndex(text, -1) {
		year, _ := strconv.Atoi(text[loc[0]:loc[1]])
		if year < minPlausibleYear || year > maxYear {
			continue
		}

		start := loc[0] - window/2
		if start < 0 {
			start = 0
		}
		end := loc[1] + window/2
		if end > len(text) {
			end = len(text)
		}

		termIdx, termLen := findRegionTerm(lower[start:end], terms)
		if termIdx < 0 {
			continue
		}

		if year < cutoffYear {
			res.Older++
			continue
		}
		res.Recent++

		years := windowYears(text[start:end], cutoffYear, maxYear)
		snippet := bracketSnippet(text[start:end], termIdx, termLen, loc[0]-start, loc[1]-loc[0])
		res.Evidence = append(res.Evidence, model.ProjectEvidence{
			URL:     pageURL,
			Text:    snippet,
			Years:   years,
			Quality: evidenceQuality(lower[start:end], len(years)),
		})
	}

	return res
}

// lowerASCII lowercases A-Z only, preserving byte offsets exactly.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// findRegionTerm locates the first region term in the lowercased window,
// requiring word boundaries on both sides. Returns (-1, 0) when absent.
func findRegionTerm(windowLower string, terms []string) (int, int) {
	best := -1
	bestLen := 0
	for _, term := range terms {
		t := strings.ToLower(term)
		from := 0
		for {
			idx := strings.Index(windowLower[from:], t)
			if idx < 0 {
				break
			}
			abs := from + idx
			if boundedAt(windowLower, abs, len(t)) {
				if best < 0 || abs < best {
					best = abs
					bestLen = len(t)
				}
				break
			}
			from = abs + 1
		}
	}
	return best, bestLen
}

func boundedAt(s string, idx, length int) bool {
	if idx > 0 && isWordByte(s[idx-1]) {
		return false
	}
	end := idx + length
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// windowYears collects distinct in-horizon years mentioned in the window,
// ascending.
func windowYears(window string, cutoffYear, maxYear int) []int {
	seen := map[int]bool{}
	for _, m := range yearRe.FindAllString(window, -1) {
		y, _ := strconv.Atoi(m)
		if y >= cutoffYear && y <= maxYear {
			seen[y] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// bracketSnippet wraps the matched region term and year in square brackets
// for display. Offsets are relative to the window text.
func bracketSnippet(window string, termIdx, termLen, yearIdx, yearLen int) string {
	type span struct{ start, end int }
	spans := []span{{termIdx, termIdx + termLen}, {yearIdx, yearIdx + yearLen}}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start > spans[j].start })

	out := window
	for _, s := range spans {
		if s.start < 0 || s.end > len(out) || s.start >= s.end {
			continue
		}
		out = out[:s.start] + "[" + out[s.start:s.end] + "]" + out[s.end:]
	}
	return strings.TrimSpace(out)
}

func evidenceQuality(windowLower string, distinctYears int) int {
	q := baseQuality
	if containsAny(windowLower, projectTypeKeywords) {
		q++
	}
	if distinctYears > 1 {
		q++
	}
	if containsAny(windowLower, sectionContextKeywords) {
		q++
	}
	if q > maxQuality {
		q = maxQuality
	}
	return q
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
