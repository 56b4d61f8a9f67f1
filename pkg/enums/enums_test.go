package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignStatusParseAndTerminal(t *testing.T) {
	for _, s := range validCampaignStatuses {
		parsed, err := ParseCampaignStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
		assert.NotEmpty(t, s.Label(), "status %s has no label", s)
	}

	_, err := ParseCampaignStatus("recruiting")
	assert.Error(t, err, "parsing is case sensitive")

	assert.True(t, CampaignStatusCancelled.IsTerminal())
	assert.True(t, CampaignStatusCompleted.IsTerminal())
	assert.False(t, CampaignStatusShipped.IsTerminal())
	assert.False(t, CampaignStatus("BOGUS").IsValid())
}

func TestCancelReasonManualSet(t *testing.T) {
	assert.True(t, CancelReasonLeaderCancelled.IsManual())
	assert.True(t, CancelReasonPaymentFailed.IsManual())
	assert.True(t, CancelReasonProductUnavailable.IsManual())
	assert.True(t, CancelReasonRecruitmentFailed.IsManual())
	assert.False(t, CancelReasonSystemCancelled.IsManual())
	assert.False(t, CancelReason("NOPE").IsManual())
}

func TestOptionsCoverEveryValue(t *testing.T) {
	assert.Len(t, CampaignStatusOptions(), 8)
	assert.Len(t, CancelReasonOptions(), 5)

	categories := ProductCategoryOptions()
	assert.Len(t, categories, 16)
	for _, opt := range categories {
		assert.NotEmpty(t, opt.Label, "category %s has no label", opt.Key)
	}
}

func TestParseProductCategory(t *testing.T) {
	c, err := ParseProductCategory("PLANT")
	require.NoError(t, err)
	assert.Equal(t, ProductCategoryPlant, c)

	_, err = ParseProductCategory("SPACESHIP")
	assert.Error(t, err)
}
