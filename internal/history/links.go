package history

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxProjectLinks = 12

// Link keywords that mark a navigation target as likely project history.
var projectLinkKeywords = []string{
	"project", "portfolio", "case-study", "case_study", "casestudy",
	"news", "completed", "our-work", "gallery", "experience",
}

var socialDomains = []string{
	"facebook.com", "twitter.com", "x.com", "instagram.com",
	"linkedin.com", "youtube.com", "pinterest.com", "tiktok.com",
}

// projectLinks collects same-domain anchors whose URL path or anchor text
// mentions a project keyword. Empty, fragment-only, javascript: and mailto:
// targets are skipped, as are social-media domains. Results are
// deduplicated and capped.
func projectLinks(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var links []string

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(strings.ToLower(href), "javascript:") ||
			strings.HasPrefix(strings.ToLower(href), "mailto:") {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		if !sameHost(base.Hostname(), resolved.Hostname()) {
			return true
		}
		if isSocialHost(resolved.Hostname()) {
			return true
		}

		anchor := strings.ToLower(strings.TrimSpace(s.Text()))
		path := strings.ToLower(resolved.Path)
		if !containsAny(path, projectLinkKeywords) && !containsAny(anchor, projectLinkKeywords) {
			return true
		}

		resolved.Fragment = ""
		key := resolved.String()
		if seen[key] {
			return true
		}
		seen[key] = true
		links = append(links, key)
		return len(links) < maxProjectLinks
	})

	return links
}

func sameHost(baseHost, host string) bool {
	baseHost = strings.TrimPrefix(strings.ToLower(baseHost), "www.")
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return baseHost == host
}

func isSocialHost(host string) bool {
	host = strings.ToLower(host)
	for _, d := range socialDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
