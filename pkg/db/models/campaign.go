package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/gonggu-lab/gonggu-backend/pkg/db/types"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
)

// Campaign is a leader-organized group purchase.
type Campaign struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	LeaderID       uuid.UUID             `gorm:"column:leader_id;type:uuid;not null"`
	Title          string                `gorm:"column:title;not null"`
	ProductURL     string                `gorm:"column:product_url;not null"`
	Description    string                `gorm:"column:description;not null"`
	FixedCount     int                   `gorm:"column:fixed_count;not null"`
	TotalPrice     int64                 `gorm:"column:total_price;not null"`
	ShippingFee    int64                 `gorm:"column:shipping_fee;not null"`
	EstimatedPrice int64                 `gorm:"column:estimated_price;not null"`
	Account        string                `gorm:"column:account;not null"`
	Bank           string                `gorm:"column:bank;not null"`
	StartDate      time.Time             `gorm:"column:start_date;not null"`
	EndDate        time.Time             `gorm:"column:end_date;not null"`
	Category       enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Status         enums.CampaignStatus  `gorm:"column:status;type:text;not null"`
	CancelReason   *enums.CancelReason   `gorm:"column:cancel_reason;type:text"`
	NonDepositors  dbtypes.UUIDArray     `gorm:"column:non_depositors"`
	PickupPlace    *string               `gorm:"column:pickup_place"`
	PickupTime     *string               `gorm:"column:pickup_time"`
	IsReminderSent bool                  `gorm:"column:is_reminder_sent;not null"`
	// Version is bumped by every pledge change and guards concurrent pledges.
	Version   int64     `gorm:"column:version;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Campaign) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsLeader reports whether userID organizes the campaign.
func (c *Campaign) IsLeader(userID uuid.UUID) bool {
	return c != nil && c.LeaderID == userID
}
