package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/subrecon/internal/model"
)

const samplePage = `<html>
<head>
	<meta property="og:site_name" content="Acme Electrical">
	<title>Acme Electrical | Home</title>
</head>
<body>
	<h1>Acme Electrical</h1>
	<p>Licensed electrical contractor, License #TECL-12345 serving Houston.</p>
	<p>Contact us at <a href="mailto:info@acme-electrical.com?subject=quote">email</a>
	or <a href="tel:555.123.4567">call</a>.</p>
	<p>Visit us at 1200 Main Street, Houston, TX 77002.</p>
	<p>We carry a $2.5 million bond and are a proud union shop.</p>
	<div id="about">Acme has served commercial clients across Texas since 1998.</div>
</body>
</html>`

func TestParsePage_FullProfile(t *testing.T) {
	p := ParsePage("https://acme-electrical.com", samplePage)

	assert.Equal(t, "Acme Electrical", p.BusinessName)
	assert.Equal(t, "info@acme-electrical.com", p.Email)
	assert.Equal(t, "(555) 123-4567", p.Phone)
	assert.Equal(t, "Houston", p.City)
	assert.Equal(t, "TX", p.State)
	assert.Contains(t, p.LicensingText, "TECL-12345")
	assert.Equal(t, int64(2_500_000), p.BondAmount)
	assert.Equal(t, model.UnionMember, p.UnionStatus)
	assert.Contains(t, p.EvidenceText, "commercial clients")
	assert.Equal(t, "https://acme-electrical.com", p.EvidenceURL)
}

func TestParsePage_EmptyDocument(t *testing.T) {
	p := ParsePage("https://acme-electrical.com", "<html><body></body></html>")
	assert.Equal(t, "Acme Electrical", p.BusinessName)
	assert.Equal(t, "https://acme-electrical.com", p.Website)
	assert.Equal(t, model.UnionUnknown, p.UnionStatus)
}

func TestParsePage_LicensingTextRequiresNumber(t *testing.T) {
	p := ParsePage("https://acme.com",
		`<html><body><p>Fully licensed and insured electrical contractors serving Houston.</p></body></html>`)
	assert.Empty(t, p.LicensingText)

	p = ParsePage("https://acme.com",
		`<html><body><p>Licensed master electrician, registration MEL-40221 on file.</p></body></html>`)
	assert.Contains(t, p.LicensingText, "MEL-40221")
}

func TestExtractName_TitleFallback(t *testing.T) {
	p := ParsePage("https://example.com", `<html><head><title>Lone Star Wiring | Houston Electricians</title></head><body></body></html>`)
	assert.Equal(t, "Lone Star Wiring", p.BusinessName)
}

func TestExtractName_BoilerplateTitleSkipped(t *testing.T) {
	p := ParsePage("https://lonestar-wiring.com", `<html><head><title>Home</title></head><body></body></html>`)
	assert.Equal(t, "Lonestar Wiring", p.BusinessName)
}

func TestExtractName_LogoAlt(t *testing.T) {
	p := ParsePage("https://example.com", `<html><body><div class="logo"><img alt="Brazos Mechanical"></div></body></html>`)
	assert.Equal(t, "Brazos Mechanical", p.BusinessName)
}

func TestExtractEmail_RegexFallback(t *testing.T) {
	p := ParsePage("https://example.com", `<html><head><title>Acme</title></head><body>Reach sales@acme.com today</body></html>`)
	assert.Equal(t, "sales@acme.com", p.Email)
}

func TestUnionStatus_NonUnionBeforeUnion(t *testing.T) {
	assert.Equal(t, model.UnionNonUnion, unionStatus("we are a non-union shop"))
	assert.Equal(t, model.UnionNonUnion, unionStatus("proudly NONUNION since 1990"))
	assert.Equal(t, model.UnionMember, unionStatus("IBEW union members"))
	assert.Equal(t, model.UnionUnknown, unionStatus("family owned since 1990"))
}

func TestSplitCityState(t *testing.T) {
	city, state := splitCityState("1200 Main Street, Houston, TX 77002")
	assert.Equal(t, "Houston", city)
	assert.Equal(t, "TX", state)
}

func TestSplitCityState_NoComma(t *testing.T) {
	city, state := splitCityState("1200 Main Street TX 77002")
	assert.Equal(t, "", city)
	assert.Equal(t, "", state)
}

func TestProjectSnippets_RequiresTwoKeywords(t *testing.T) {
	text := "We completed a major hospital construction project in 2023. " +
		"Our team is friendly and professional. " +
		"Another renovation project was developed for a retail client downtown."
	snippets := projectSnippets(text)
	assert.Len(t, snippets, 2)
	assert.Contains(t, snippets[0], "hospital construction")
}

func TestProjectSnippets_Cap(t *testing.T) {
	sentence := "We completed this construction project for a client. "
	snippets := projectSnippets(strings.Repeat(sentence, 10))
	assert.Len(t, snippets, maxProjectSnippets)
}

func TestEvidenceText_FallbackTruncates(t *testing.T) {
	long := strings.Repeat("x", 600)
	p := ParsePage("https://example.com", "<html><head><title>Acme</title></head><body>"+long+"</body></html>")
	assert.Len(t, p.EvidenceText, evidenceFallback)
}

func TestEvidenceText_FallbackKeepsRuneBoundary(t *testing.T) {
	// A two-byte rune straddles the fallback cut; it must be dropped whole
	// rather than split mid-sequence.
	long := strings.Repeat("x", evidenceFallback-1) + strings.Repeat("é", 60)
	p := ParsePage("https://example.com", "<html><head><title>Acme</title></head><body>"+long+"</body></html>")
	assert.True(t, utf8.ValidString(p.EvidenceText))
	assert.Equal(t, evidenceFallback-1, len(p.EvidenceText))
}

func TestDomainName(t *testing.T) {
	assert.Equal(t, "Acme Electrical", domainName("https://www.acme-electrical.com"))
	assert.Equal(t, "Lonestar", domainName("https://lonestar.com/projects"))
	assert.Equal(t, "", domainName("not a url"))
}
