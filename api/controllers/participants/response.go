package participants

import (
	"time"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
)

type ParticipantView struct {
	ID            uuid.UUID `json:"id"`
	CampaignID    uuid.UUID `json:"campaignId"`
	UserID        uuid.UUID `json:"userId"`
	Count         int       `json:"count"`
	IsPaid        bool      `json:"isPaid"`
	RefundBank    *string   `json:"refundBank,omitempty"`
	RefundAccount *string   `json:"refundAccount,omitempty"`
	JoinedAt      time.Time `json:"joinedAt"`
}

func newParticipantView(p *models.Participant) ParticipantView {
	return ParticipantView{
		ID:            p.ID,
		CampaignID:    p.CampaignID,
		UserID:        p.UserID,
		Count:         p.Count,
		IsPaid:        p.IsPaid,
		RefundBank:    p.RefundBank,
		RefundAccount: p.RefundAccount,
		JoinedAt:      p.JoinedAt,
	}
}

// RosterView is the leader's deposit checklist.
type RosterView struct {
	Participants []ParticipantView `json:"participants"`
	TotalCount   int               `json:"totalCount"`
	PaidCount    int               `json:"paidCount"`
}

func newRosterView(rows []models.Participant) RosterView {
	out := RosterView{Participants: make([]ParticipantView, 0, len(rows))}
	for i := range rows {
		out.Participants = append(out.Participants, newParticipantView(&rows[i]))
		out.TotalCount += rows[i].Count
		if rows[i].IsPaid {
			out.PaidCount++
		}
	}
	return out
}
