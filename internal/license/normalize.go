package license

import (
	"regexp"
	"strings"
)

// legalSuffixes lists common legal entity suffixes to strip during name normalization.
var legalSuffixes = []string{
	" LLC", " L.L.C.", " L.L.C",
	" INC", " INC.", " INCORPORATED",
	" CORP", " CORP.", " CORPORATION",
	" LTD", " LTD.", " LIMITED",
	" LP", " L.P.", " L.P",
	" LLP", " L.L.P.", " L.L.P",
	" PC", " P.C.", " P.C",
	" PA", " P.A.", " P.A",
	" CO", " CO.",
	" PLC", " P.L.C.",
	" DBA", " D/B/A",
	" PLLC",
}

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// NormalizeName standardizes a business name for registry matching:
// trimmed, uppercased, legal suffixes removed, punctuation stripped, and
// multiple spaces collapsed.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = strings.ToUpper(name)

	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}

	name = strings.NewReplacer(
		",", "",
		".", "",
		"'", "",
		"\"", "",
		"&", "AND",
		"-", " ",
	).Replace(name)

	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// commonTLDs are stripped when deriving a lookup name from a domain.
var commonTLDs = []string{".com", ".net", ".org", ".us", ".biz", ".co", ".io"}

// NameFromDomain derives a registry lookup name from a website host:
// "www.acme-electrical.com" -> "ACME ELECTRICAL".
func NameFromDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "www.")
	for _, tld := range commonTLDs {
		if strings.HasSuffix(host, tld) {
			host = strings.TrimSuffix(host, tld)
			break
		}
	}
	host = strings.ReplaceAll(host, "-", " ")
	return NormalizeName(host)
}
