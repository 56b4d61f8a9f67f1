package campaigns

import (
	"time"

	"github.com/google/uuid"

	campaignsvc "github.com/gonggu-lab/gonggu-backend/internal/campaigns"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

type createRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	ProductURL  string    `json:"productUrl" validate:"required,url"`
	Description string    `json:"description" validate:"required"`
	FixedCount  int       `json:"fixedCount" validate:"required,min=1"`
	TotalPrice  int64     `json:"totalPrice" validate:"gte=0"`
	ShippingFee int64     `json:"shippingFee" validate:"gte=0"`
	Account     string    `json:"account" validate:"required"`
	Bank        string    `json:"bank" validate:"required"`
	EndDate     time.Time `json:"endDate"`
	Category    string    `json:"category" validate:"required"`
	LeaderCount int       `json:"leaderCount" validate:"required,min=1"`
}

func (r createRequest) toInput(leaderID uuid.UUID) (campaignsvc.CreateInput, error) {
	category, err := enums.ParseProductCategory(r.Category)
	if err != nil {
		return campaignsvc.CreateInput{}, invalidField("category", err)
	}
	return campaignsvc.CreateInput{
		LeaderID:    leaderID,
		Title:       r.Title,
		ProductURL:  r.ProductURL,
		Description: r.Description,
		FixedCount:  r.FixedCount,
		TotalPrice:  r.TotalPrice,
		ShippingFee: r.ShippingFee,
		Account:     r.Account,
		Bank:        r.Bank,
		EndDate:     r.EndDate,
		Category:    category,
		LeaderCount: r.LeaderCount,
	}, nil
}

type updateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	ProductURL  *string    `json:"productUrl" validate:"omitempty,url"`
	Description *string    `json:"description"`
	TotalPrice  *int64     `json:"totalPrice" validate:"omitempty,gte=0"`
	ShippingFee *int64     `json:"shippingFee" validate:"omitempty,gte=0"`
	Account     *string    `json:"account"`
	Bank        *string    `json:"bank"`
	EndDate     *time.Time `json:"endDate"`
	Category    *string    `json:"category"`
	LeaderCount *int       `json:"leaderCount" validate:"omitempty,min=1"`
	PickupPlace *string    `json:"pickupPlace"`
	PickupTime  *string    `json:"pickupTime"`
}

func (r updateRequest) toInput(campaignID, actorID uuid.UUID) (campaignsvc.UpdateInput, error) {
	input := campaignsvc.UpdateInput{
		CampaignID:  campaignID,
		ActorID:     actorID,
		Title:       r.Title,
		ProductURL:  r.ProductURL,
		Description: r.Description,
		TotalPrice:  r.TotalPrice,
		ShippingFee: r.ShippingFee,
		Account:     r.Account,
		Bank:        r.Bank,
		EndDate:     r.EndDate,
		LeaderCount: r.LeaderCount,
		PickupPlace: r.PickupPlace,
		PickupTime:  r.PickupTime,
	}
	if r.Category != nil {
		category, err := enums.ParseProductCategory(*r.Category)
		if err != nil {
			return campaignsvc.UpdateInput{}, invalidField("category", err)
		}
		input.Category = &category
	}
	return input, nil
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type cancelRequest struct {
	Reason        string      `json:"reason" validate:"required"`
	NonDepositors []uuid.UUID `json:"nonDepositors"`
}

func invalidField(field string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").
		WithDetails(map[string]string{field: err.Error()})
}
