package notifications

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonggu-lab/gonggu-backend/pkg/config"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
)

func testCampaign() *models.Campaign {
	return &models.Campaign{
		ID:             uuid.MustParse("0b7f5f3e-8f1f-4a55-9e3f-0f0e1f2a3b4c"),
		LeaderID:       uuid.New(),
		Title:          "제주 감귤 10kg",
		EstimatedPrice: 4334,
	}
}

func testComposer() *Composer {
	return NewComposer(config.NotifyConfig{FrontURL: "https://gonggu.example/"})
}

func TestComposerRecruitmentCompleteTargetsLeader(t *testing.T) {
	campaign := testCampaign()
	msg := testComposer().RecruitmentComplete(campaign)

	assert.Equal(t, campaign.LeaderID, msg.RecipientID)
	assert.Equal(t, enums.NotificationTypeRecruitmentComplete, msg.Type)
	assert.Contains(t, msg.Body, "[제주 감귤 10kg]")
	assert.Equal(t, "https://gonggu.example/group-buying/detail/0b7f5f3e-8f1f-4a55-9e3f-0f0e1f2a3b4c", msg.URL)
}

func TestComposerStatusChanged(t *testing.T) {
	campaign := testCampaign()
	recipients := []uuid.UUID{uuid.New(), uuid.New()}
	c := testComposer()

	msgs := c.StatusChanged(campaign, enums.CampaignStatusPaymentInProgress, recipients)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Body, "[4334]원")
	assert.Contains(t, msgs[0].Body, "24시간")
	assert.Equal(t, recipients[1], msgs[1].RecipientID)

	cancelled := c.StatusChanged(campaign, enums.CampaignStatusCancelled, recipients)
	require.Len(t, cancelled, 2)
	assert.Equal(t, enums.NotificationTypeCampaignCancelled, cancelled[0].Type)

	assert.Nil(t, c.StatusChanged(campaign, enums.CampaignStatusOrderPending, recipients))
	assert.Nil(t, c.StatusChanged(campaign, enums.CampaignStatusOrdered, nil))
}

func TestComposerCancelledBodyDependsOnReason(t *testing.T) {
	campaign := testCampaign()
	recipients := []uuid.UUID{uuid.New()}
	c := testComposer()

	leader := c.Cancelled(campaign, enums.CancelReasonLeaderCancelled, recipients)
	payment := c.Cancelled(campaign, enums.CancelReasonPaymentFailed, recipients)
	product := c.Cancelled(campaign, enums.CancelReasonProductUnavailable, recipients)
	require.Len(t, leader, 1)
	require.Len(t, payment, 1)
	require.Len(t, product, 1)
	assert.NotEqual(t, leader[0].Body, payment[0].Body)
	assert.NotEqual(t, payment[0].Body, product[0].Body)
	assert.Nil(t, c.Cancelled(campaign, enums.CancelReasonSystemCancelled, recipients))
}

func TestComposerDepositReminder(t *testing.T) {
	msgs := testComposer().DepositReminder(testCampaign(), 5, []uuid.UUID{uuid.New()})
	require.Len(t, msgs, 1)
	assert.Equal(t, enums.NotificationTypeDepositReminder, msgs[0].Type)
	assert.Contains(t, msgs[0].Body, "약 5시간")
}

func TestComposerAutoCancelled(t *testing.T) {
	c := testComposer()
	campaign := testCampaign()
	recipients := []uuid.UUID{uuid.New()}

	payment := c.AutoCancelled(campaign, enums.CancelReasonPaymentFailed, recipients)
	system := c.AutoCancelled(campaign, enums.CancelReasonSystemCancelled, recipients)
	require.Len(t, payment, 1)
	require.Len(t, system, 1)
	assert.Contains(t, payment[0].Body, "미입금자")
	assert.Contains(t, system[0].Body, "목표 수량")
}
