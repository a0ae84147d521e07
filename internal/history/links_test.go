package history

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestProjectLinks_KeywordInPathOrAnchor(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<a href="/projects">Our Projects</a>
		<a href="/about">About Us</a>
		<a href="/recent-work">Completed Work</a>
	</body></html>`)

	links := projectLinks(doc, "https://acme.com")
	assert.Equal(t, []string{
		"https://acme.com/projects",
		"https://acme.com/recent-work",
	}, links)
}

func TestProjectLinks_SkipsJunkTargets(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<a href="javascript:void(0)">Projects</a>
		<a href="mailto:info@acme.com">Projects</a>
		<a href="#projects">Projects</a>
		<a href="">Projects</a>
		<a href="/portfolio">Portfolio</a>
	</body></html>`)

	links := projectLinks(doc, "https://acme.com")
	assert.Equal(t, []string{"https://acme.com/portfolio"}, links)
}

func TestProjectLinks_SameDomainOnly(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<a href="https://other.com/projects">Projects</a>
		<a href="https://www.acme.com/projects">Projects</a>
	</body></html>`)

	links := projectLinks(doc, "https://acme.com")
	assert.Equal(t, []string{"https://www.acme.com/projects"}, links)
}

func TestProjectLinks_SkipsSocialDomains(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<a href="https://facebook.com/acme">Our projects on Facebook</a>
	</body></html>`)

	links := projectLinks(doc, "https://facebook.com")
	assert.Empty(t, links)
}

func TestProjectLinks_DedupesAndCaps(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString(`<a href="/projects">Projects</a><a href="/projects">Projects</a>`)
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, `<a href="/projects/%d">Project %d</a>`, i, i)
	}
	sb.WriteString("</body></html>")

	links := projectLinks(docFrom(t, sb.String()), "https://acme.com")
	assert.Len(t, links, maxProjectLinks)
	assert.Equal(t, "https://acme.com/projects", links[0])
}
