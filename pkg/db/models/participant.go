package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant is one user's pledge in one campaign. (campaign_id, user_id) is unique.
type Participant struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CampaignID    uuid.UUID `gorm:"column:campaign_id;type:uuid;not null;uniqueIndex:participants_campaign_user_key,priority:1"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:participants_campaign_user_key,priority:2"`
	Count         int       `gorm:"column:count;not null"`
	IsPaid        bool      `gorm:"column:is_paid;not null"`
	RefundBank    *string   `gorm:"column:refund_bank"`
	RefundAccount *string   `gorm:"column:refund_account"`
	JoinedAt      time.Time `gorm:"column:joined_at;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Participant) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now().UTC()
	}
	return nil
}
