package participants

import (
	"github.com/google/uuid"

	participantsvc "github.com/gonggu-lab/gonggu-backend/internal/participants"
)

type joinRequest struct {
	Count         int    `json:"count" validate:"required,min=1"`
	RefundBank    string `json:"refundBank" validate:"required"`
	RefundAccount string `json:"refundAccount" validate:"required"`
}

func (r joinRequest) toInput(campaignID, userID uuid.UUID) participantsvc.JoinInput {
	return participantsvc.JoinInput{
		CampaignID: campaignID,
		UserID:     userID,
		Count:      r.Count,
		Refund:     participantsvc.RefundInfo{Bank: r.RefundBank, Account: r.RefundAccount},
	}
}

// modifyRequest changes the pledge count. Refund details are replaced only
// when both are sent.
type modifyRequest struct {
	Count         int     `json:"count" validate:"required,min=1"`
	RefundBank    *string `json:"refundBank" validate:"required_with=RefundAccount"`
	RefundAccount *string `json:"refundAccount" validate:"required_with=RefundBank"`
}

func (r modifyRequest) toInput(campaignID, userID uuid.UUID) participantsvc.ModifyInput {
	input := participantsvc.ModifyInput{
		CampaignID: campaignID,
		UserID:     userID,
		Count:      r.Count,
	}
	if r.RefundBank != nil && r.RefundAccount != nil {
		input.Refund = &participantsvc.RefundInfo{Bank: *r.RefundBank, Account: *r.RefundAccount}
	}
	return input
}
