package campaigns

import (
	"time"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type CreateInput struct {
	LeaderID    uuid.UUID
	Title       string
	ProductURL  string
	Description string
	FixedCount  int
	TotalPrice  int64
	ShippingFee int64
	Account     string
	Bank        string
	EndDate     time.Time
	Category    enums.ProductCategory
	LeaderCount int
}

// UpdateInput carries a partial edit. Nil fields are left untouched.
type UpdateInput struct {
	CampaignID  uuid.UUID
	ActorID     uuid.UUID
	Title       *string
	ProductURL  *string
	Description *string
	TotalPrice  *int64
	ShippingFee *int64
	Account     *string
	Bank        *string
	EndDate     *time.Time
	Category    *enums.ProductCategory
	LeaderCount *int
	PickupPlace *string
	PickupTime  *string
}

type TransitionInput struct {
	CampaignID uuid.UUID
	Target     enums.CampaignStatus
	ActorID    uuid.UUID
}

type CancelInput struct {
	CampaignID    uuid.UUID
	ActorID       uuid.UUID
	Reason        enums.CancelReason
	NonDepositors []uuid.UUID
}

type ListFilter struct {
	Keyword  string
	Category enums.ProductCategory
	Status   enums.CampaignStatus
	Limit    int
	Offset   int

	LeaderID        *uuid.UUID
	ExcludeLeaderID *uuid.UUID
	IDs             []uuid.UUID
}

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// View is the API shape of a campaign plus its live pledge total.
type View struct {
	ID             uuid.UUID             `json:"id"`
	LeaderID       uuid.UUID             `json:"leaderId"`
	Title          string                `json:"title"`
	ProductURL     string                `json:"productUrl"`
	Description    string                `json:"description"`
	FixedCount     int                   `json:"fixedCount"`
	CurrentCount   int                   `json:"currentCount"`
	TotalPrice     int64                 `json:"totalPrice"`
	ShippingFee    int64                 `json:"shippingFee"`
	EstimatedPrice int64                 `json:"estimatedPrice"`
	Account        string                `json:"account"`
	Bank           string                `json:"bank"`
	StartDate      time.Time             `json:"startDate"`
	EndDate        time.Time             `json:"endDate"`
	Category       enums.ProductCategory `json:"category"`
	Status         enums.CampaignStatus  `json:"status"`
	CancelReason   *enums.CancelReason   `json:"cancelReason,omitempty"`
	NonDepositors  []uuid.UUID           `json:"nonDepositors,omitempty"`
	PickupPlace    *string               `json:"pickupPlace,omitempty"`
	PickupTime     *string               `json:"pickupTime,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

func newView(c *models.Campaign, currentCount int) View {
	return View{
		ID:             c.ID,
		LeaderID:       c.LeaderID,
		Title:          c.Title,
		ProductURL:     c.ProductURL,
		Description:    c.Description,
		FixedCount:     c.FixedCount,
		CurrentCount:   currentCount,
		TotalPrice:     c.TotalPrice,
		ShippingFee:    c.ShippingFee,
		EstimatedPrice: c.EstimatedPrice,
		Account:        c.Account,
		Bank:           c.Bank,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Category:       c.Category,
		Status:         c.Status,
		CancelReason:   c.CancelReason,
		NonDepositors:  []uuid.UUID(c.NonDepositors),
		PickupPlace:    c.PickupPlace,
		PickupTime:     c.PickupTime,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ViewerPledge is the viewer's own pledge on a campaign detail page.
type ViewerPledge struct {
	Count  int  `json:"count"`
	IsPaid bool `json:"isPaid"`
}

// Detail is the campaign page as seen by one viewer.
type Detail struct {
	View
	LeaderCount   int           `json:"leaderCount"`
	IsOwner       bool          `json:"isOwner"`
	IsParticipant bool          `json:"isParticipant"`
	Pledge        *ViewerPledge `json:"participantInfo,omitempty"`
}
