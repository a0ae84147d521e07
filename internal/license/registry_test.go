package license

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/subrecon/internal/resilience"
)

const headeredCSV = `LICENSE NUMBER,BUSINESS NAME,CITY,EXPIRATION DATE
TECL-12345,Acme Electrical LLC,Houston,06/15/2027
TECL-99999,Lone Star Wiring Inc,Dallas,01/01/2020
,No Number Co,Austin,12/31/2026
TECL-55555,,Waco,12/31/2026
`

func TestReadRegistry_HeaderHeuristics(t *testing.T) {
	reg, err := ReadRegistry(strings.NewReader(headeredCSV))
	require.NoError(t, err)

	// Row with an empty business name is skipped.
	assert.Equal(t, 3, reg.Len())

	cols := reg.Columns()
	assert.Equal(t, 0, cols.Number)
	assert.Equal(t, 1, cols.Name)
	assert.Equal(t, 3, cols.Expiry)
}

func TestReadRegistry_NormalizesNames(t *testing.T) {
	reg, err := ReadRegistry(strings.NewReader(headeredCSV))
	require.NoError(t, err)

	rec, ok := reg.lookupNumber("TECL-12345")
	require.True(t, ok)
	assert.Equal(t, "ACME ELECTRICAL", rec.BusinessName)
	assert.Equal(t, "Acme Electrical LLC", rec.RawName)
	assert.Equal(t, "06/15/2027", rec.ExpirationDate)
}

func TestReadRegistry_LookupNumberCaseInsensitive(t *testing.T) {
	reg, err := ReadRegistry(strings.NewReader(headeredCSV))
	require.NoError(t, err)

	_, ok := reg.lookupNumber("tecl-12345")
	assert.True(t, ok)
	_, ok = reg.lookupNumber("TECL-00000")
	assert.False(t, ok)
}

func TestReadRegistry_PositionalFallback(t *testing.T) {
	// No recognizable headers: first row is data, positional columns apply.
	csv := `TECL-11111,Brazos Mechanical,x,x,x,x,x,x,2026-01-01
TECL-22222,Gulf Coast Plumbing,x,x,x,x,x,x,2026-06-01
`
	reg, err := ReadRegistry(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	rec, ok := reg.lookupNumber("TECL-11111")
	require.True(t, ok)
	assert.Equal(t, "BRAZOS MECHANICAL", rec.BusinessName)
	assert.Equal(t, "2026-01-01", rec.ExpirationDate)
}

func TestReadRegistry_Empty(t *testing.T) {
	_, err := ReadRegistry(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadRegistry_MissingFileFatal(t *testing.T) {
	_, err := LoadRegistry("/nonexistent/registry.csv")
	require.Error(t, err)

	var rle *resilience.RegistryLoadError
	assert.ErrorAs(t, err, &rle)
}

func TestLoadRegistry_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.csv")
	require.NoError(t, os.WriteFile(path, []byte(headeredCSV), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
}
