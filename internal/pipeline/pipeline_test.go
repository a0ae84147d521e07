package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/subrecon/internal/discovery"
	"github.com/sells-group/subrecon/internal/extract"
	"github.com/sells-group/subrecon/internal/fetcher"
	"github.com/sells-group/subrecon/internal/history"
	"github.com/sells-group/subrecon/internal/license"
	"github.com/sells-group/subrecon/internal/model"
	"github.com/sells-group/subrecon/internal/resilience"
	"github.com/sells-group/subrecon/internal/score"
)

const searchBase = "https://search.test/lite"

// stubClient serves canned pages keyed by URL. Search URLs are matched with
// their query string stripped so tests do not depend on query encoding.
type stubClient struct {
	pages map[string]string
}

func (s *stubClient) FetchPage(_ context.Context, url string) (*fetcher.Page, error) {
	body, ok := s.pages[url]
	if !ok {
		if idx := strings.Index(url, "?"); idx > 0 {
			body, ok = s.pages[url[:idx]]
		}
	}
	if !ok {
		return nil, &resilience.FetchError{URL: url, StatusCode: 404}
	}
	return &fetcher.Page{URL: url, FinalURL: url, StatusCode: 200, Body: body}, nil
}

const registryCSV = `LICENSE NUMBER,BUSINESS NAME,CITY,EXPIRATION DATE
TECL-12345,Acme Electrical LLC,HOUSTON,06/15/2099
TECL-99999,Lone Star Wiring Inc,DALLAS,01/01/2099
`

const resultsPage = `<html><body><table>
	<tr class="result">
		<td><a class="result-link" href="https://www.acme-electrical.com">Acme Electrical</a></td>
		<td class="result-snippet">Commercial electrical contractor in Houston.</td>
	</tr>
</table></body></html>`

const acmePage = `<html><head>
	<title>Acme Electrical | Home</title>
	<meta property="og:site_name" content="Acme Electrical">
</head><body>
	<h1>Acme Electrical</h1>
	<p>Licensed electrical contractor, License #TECL-12345.</p>
	<p>1200 Main Street, Houston, TX 77002</p>
	<p>We carry a $2.5 million bond for commercial construction work.</p>
	<p>Our crews completed a Houston office tower project in 2025.</p>
</body></html>`

func newTestPipeline(t *testing.T, pages map[string]string) *Pipeline {
	t.Helper()

	client := &stubClient{pages: pages}

	svc := discovery.NewService(
		[]discovery.Backend{discovery.NewDuckDuckGoLiteWithBase(client, searchBase)},
		discovery.Options{TargetCandidates: 20, MaxRetries: 1},
	)

	reg, err := license.ReadRegistry(strings.NewReader(registryCSV))
	require.NoError(t, err)

	scorer, err := score.NewScorer(score.DefaultWeights())
	require.NoError(t, err)

	return New(
		svc,
		extract.New(client, 2),
		license.NewVerifier(reg, license.VerifierOptions{}),
		history.NewParser(client, history.Options{Concurrency: 2}),
		scorer,
		time.Minute,
	)
}

func testRequest() model.ResearchRequest {
	return model.ResearchRequest{
		Trade:   "electrical",
		City:    "Houston",
		State:   "TX",
		MinBond: 1_000_000,
	}
}

func TestExecute_InvalidRequest(t *testing.T) {
	p := newTestPipeline(t, map[string]string{})

	_, err := p.Execute(context.Background(), model.ResearchRequest{})
	assert.Error(t, err)
}

func TestExecute_NoCandidates(t *testing.T) {
	p := newTestPipeline(t, map[string]string{
		searchBase: "<html><body></body></html>",
	})

	res, err := p.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Zero(t, res.CandidatesFound)
	assert.Zero(t, res.SuccessRate)
	assert.Empty(t, res.Profiles)
	assert.False(t, res.Timestamp.IsZero())
}

func TestExecute_FullRun(t *testing.T) {
	p := newTestPipeline(t, map[string]string{
		searchBase:                    resultsPage,
		"https://acme-electrical.com": acmePage,
	})

	res, err := p.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, res.CandidatesFound)
	assert.InDelta(t, 1.0, res.SuccessRate, 1e-9)
	require.Len(t, res.Profiles, 1)

	got := res.Profiles[0]
	assert.Equal(t, "Acme Electrical", got.BusinessName)
	assert.Equal(t, "TECL-12345", got.LicNumber)
	assert.True(t, got.LicActive)
	assert.Equal(t, int64(2_500_000), got.BondAmount)
	assert.Equal(t, "Houston", got.City)
	assert.Equal(t, "TX", got.State)
	assert.GreaterOrEqual(t, got.TXProjectsPast5Yrs, 1)
	assert.Greater(t, got.Score, 0)

	// The flat persistence projection mirrors the ranked profiles.
	require.Len(t, res.Records, 1)
	assert.Equal(t, got.BusinessName, res.Records[0].Name)
	assert.Equal(t, got.LicNumber, res.Records[0].LicNumber)
	assert.Equal(t, got.Score, res.Records[0].Score)
	assert.Equal(t, got.BondAmount, res.Records[0].BondAmount)
}

func TestExecute_HistoryFallbackKeepsProfiles(t *testing.T) {
	// No project years anywhere, so every profile is filtered out and the
	// pre-filter set is ranked instead.
	page := strings.Replace(acmePage,
		"Our crews completed a Houston office tower project in 2025.",
		"Our crews handle office tower work across the region.", 1)
	p := newTestPipeline(t, map[string]string{
		searchBase:                    resultsPage,
		"https://acme-electrical.com": page,
	})

	res, err := p.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 1)
	assert.Zero(t, res.Profiles[0].TXProjectsPast5Yrs)
	assert.True(t, res.Profiles[0].LicActive)
	assert.Greater(t, res.Profiles[0].Score, 0)
}
