package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRequest() ResearchRequest {
	return ResearchRequest{
		Trade:   "electrical",
		City:    "Houston",
		State:   "TX",
		MinBond: 1_000_000,
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validRequest().Validate())
}

func TestValidate_KeywordsOK(t *testing.T) {
	req := validRequest()
	req.Keywords = []string{"commercial", "industrial"}
	assert.NoError(t, req.Validate())
}

func TestValidate_TradeTooShort(t *testing.T) {
	req := validRequest()
	req.Trade = "e"
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "trade")
}

func TestValidate_TradeTooLong(t *testing.T) {
	req := validRequest()
	req.Trade = strings.Repeat("x", 51)
	assert.Error(t, req.Validate())
}

func TestValidate_CityTooShort(t *testing.T) {
	req := validRequest()
	req.City = "H"
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "city")
}

func TestValidate_StateWrongLength(t *testing.T) {
	req := validRequest()
	req.State = "Texas"
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "state")
}

func TestValidate_MinBondZero(t *testing.T) {
	req := validRequest()
	req.MinBond = 0
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "min_bond")
}

func TestValidate_KeywordTooLong(t *testing.T) {
	req := validRequest()
	req.Keywords = []string{strings.Repeat("k", 21)}
	assert.Error(t, req.Validate())
}

func TestValidate_MultipleErrorsJoined(t *testing.T) {
	req := ResearchRequest{Trade: "e", City: "H", State: "Texas", MinBond: -1}
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "trade")
	assert.Contains(t, err.Error(), "city")
	assert.Contains(t, err.Error(), "state")
	assert.Contains(t, err.Error(), "min_bond")
}

func TestBlank(t *testing.T) {
	assert.True(t, ResearchRequest{}.Blank())
	assert.True(t, ResearchRequest{Trade: "  "}.Blank())
	assert.False(t, ResearchRequest{Trade: "electrical"}.Blank())
	assert.False(t, ResearchRequest{State: "TX"}.Blank())
}
