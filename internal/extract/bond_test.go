package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBond_Millions(t *testing.T) {
	amount, ok := ParseBond("bonded for a $2.5 million bond program")
	assert.True(t, ok)
	assert.Equal(t, int64(2_500_000), amount)
}

func TestParseBond_ShortMillions(t *testing.T) {
	amount, ok := ParseBond("we carry a $2M bond")
	assert.True(t, ok)
	assert.Equal(t, int64(2_000_000), amount)
}

func TestParseBond_Thousands(t *testing.T) {
	amount, ok := ParseBond("up to a $500K bond")
	assert.True(t, ok)
	assert.Equal(t, int64(500_000), amount)

	amount, ok = ParseBond("a 750 thousand bond")
	assert.True(t, ok)
	assert.Equal(t, int64(750_000), amount)
}

func TestParseBond_PlainAmount(t *testing.T) {
	amount, ok := ParseBond("holding a $1,000,000 bond with Travelers")
	assert.True(t, ok)
	assert.Equal(t, int64(1_000_000), amount)
}

func TestParseBond_NoKeyword(t *testing.T) {
	_, ok := ParseBond("we completed $2.5 million in projects last year")
	assert.False(t, ok)
}

func TestParseBond_NoAmount(t *testing.T) {
	_, ok := ParseBond("fully bonded and insured")
	assert.False(t, ok)
}
