package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone_Dots(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", NormalizePhone("555.123.4567"))
}

func TestNormalizePhone_Dashes(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", NormalizePhone("555-123-4567"))
}

func TestNormalizePhone_AlreadyFormatted(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", NormalizePhone("(555) 123-4567"))
}

func TestNormalizePhone_CountryCode(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", NormalizePhone("+15551234567"))
	assert.Equal(t, "(555) 123-4567", NormalizePhone("1-555-123-4567"))
}

func TestNormalizePhone_Unparseable(t *testing.T) {
	assert.Equal(t, "12345", NormalizePhone("12345"))
	assert.Equal(t, "call us", NormalizePhone("call us"))
	assert.Equal(t, "", NormalizePhone(""))
}

func TestNormalizePhone_ElevenDigitsNoCountryCode(t *testing.T) {
	// 11 digits not starting with 1 cannot be a US number.
	assert.Equal(t, "25551234567", NormalizePhone("25551234567"))
}
