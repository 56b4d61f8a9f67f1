// Package campaigns owns campaign records and every change to their status.
package campaigns

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/internal/ledger"
	"github.com/gonggu-lab/gonggu-backend/internal/lifecycle"
	"github.com/gonggu-lab/gonggu-backend/internal/notifications"
	"github.com/gonggu-lab/gonggu-backend/internal/participants"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
	"github.com/gonggu-lab/gonggu-backend/pkg/metrics"
	"github.com/gonggu-lab/gonggu-backend/pkg/types"
)

type ServiceParams struct {
	DB           participants.TxRunner
	Repo         Repository
	Participants participants.Repository
	Ledger       ledger.Service
	Notifier     notifications.Sender
	Composer     *notifications.Composer
	Logger       *logger.Logger
	Metrics      *metrics.CampaignMetrics
	Now          func() time.Time
}

// Service implements campaign CRUD and the lifecycle state machine.
type Service struct {
	db           participants.TxRunner
	repo         Repository
	participants participants.Repository
	ledger       ledger.Service
	notifier     notifications.Sender
	composer     *notifications.Composer
	logg         *logger.Logger
	metrics      *metrics.CampaignMetrics
	now          func() time.Time
}

var _ participants.StatusChanger = (*Service)(nil)

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.DB == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Repo == nil:
		return nil, fmt.Errorf("campaigns repository required")
	case params.Participants == nil:
		return nil, fmt.Errorf("participants repository required")
	case params.Ledger == nil:
		return nil, fmt.Errorf("capacity ledger required")
	case params.Notifier == nil:
		return nil, fmt.Errorf("notifier required")
	case params.Composer == nil:
		return nil, fmt.Errorf("notification composer required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		db:           params.DB,
		repo:         params.Repo,
		participants: params.Participants,
		ledger:       params.Ledger,
		notifier:     params.Notifier,
		composer:     params.Composer,
		logg:         params.Logger,
		metrics:      params.Metrics,
		now:          now,
	}, nil
}

// EstimatePrice is the per-unit price: ceil((total + shipping) / fixed).
func EstimatePrice(totalPrice, shippingFee int64, fixedCount int) int64 {
	if fixedCount <= 0 {
		return 0
	}
	sum := decimal.NewFromInt(totalPrice).Add(decimal.NewFromInt(shippingFee))
	return sum.Div(decimal.NewFromInt(int64(fixedCount))).Ceil().IntPart()
}

// Create opens a recruiting campaign and records the leader's own pledge,
// already paid, in the same transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	now := s.now()
	campaign := &models.Campaign{
		LeaderID:       input.LeaderID,
		Title:          strings.TrimSpace(input.Title),
		ProductURL:     strings.TrimSpace(input.ProductURL),
		Description:    strings.TrimSpace(input.Description),
		FixedCount:     input.FixedCount,
		TotalPrice:     input.TotalPrice,
		ShippingFee:    input.ShippingFee,
		EstimatedPrice: EstimatePrice(input.TotalPrice, input.ShippingFee, input.FixedCount),
		Account:        strings.TrimSpace(input.Account),
		Bank:           strings.TrimSpace(input.Bank),
		StartDate:      now,
		EndDate:        input.EndDate.UTC(),
		Category:       input.Category,
		Status:         enums.CampaignStatusRecruiting,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, campaign); err != nil {
			return err
		}
		return s.participants.WithTx(tx).Create(ctx, &models.Participant{
			CampaignID: campaign.ID,
			UserID:     input.LeaderID,
			Count:      input.LeaderCount,
			IsPaid:     true,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithCampaignID(ctx, campaign.ID.String()), "campaign created")

	if lifecycle.ShouldAutoConfirm(campaign.Status, input.LeaderCount, campaign.FixedCount) {
		if err := s.AutoConfirm(ctx, campaign.ID); err != nil {
			return nil, err
		}
		campaign.Status = enums.CampaignStatusConfirmed
	}

	view := newView(campaign, input.LeaderCount)
	return &view, nil
}

func (s *Service) validateCreate(input CreateInput) error {
	problems := map[string]string{}
	if input.LeaderID == uuid.Nil {
		problems["leaderId"] = "required"
	}
	if strings.TrimSpace(input.Title) == "" {
		problems["title"] = "required"
	}
	if !isHTTPURL(input.ProductURL) {
		problems["productUrl"] = "must be an http(s) url"
	}
	if strings.TrimSpace(input.Description) == "" {
		problems["description"] = "required"
	}
	if input.FixedCount < 1 {
		problems["fixedCount"] = "must be at least 1"
	}
	if input.TotalPrice < 0 {
		problems["totalPrice"] = "must not be negative"
	}
	if input.ShippingFee < 0 {
		problems["shippingFee"] = "must not be negative"
	}
	if strings.TrimSpace(input.Account) == "" {
		problems["account"] = "required"
	}
	if strings.TrimSpace(input.Bank) == "" {
		problems["bank"] = "required"
	}
	if !input.EndDate.After(s.now()) {
		problems["endDate"] = "must be in the future"
	}
	if !input.Category.IsValid() {
		problems["category"] = "unknown category"
	}
	if input.LeaderCount < 1 || input.LeaderCount > input.FixedCount {
		problems["leaderCount"] = "must be between 1 and fixedCount"
	}
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign").WithDetails(problems)
	}
	return nil
}

// Update applies a leader's partial edit. RECRUITING campaigns accept every
// field, CONFIRMED only price fields and SHIPPED only pickup fields.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*View, error) {
	err := ledger.RetryPledge(ctx, s.metrics, func(ctx context.Context) error {
		return s.db.WithTx(ctx, func(tx *gorm.DB) error {
			return s.applyUpdate(ctx, tx, input)
		})
	})
	if err != nil {
		return nil, err
	}

	if input.LeaderCount != nil {
		total, err := s.ledger.TotalPledged(ctx, input.CampaignID)
		if err != nil {
			return nil, err
		}
		campaign, err := s.repo.FindByID(ctx, input.CampaignID)
		if err != nil {
			return nil, err
		}
		if lifecycle.ShouldAutoConfirm(campaign.Status, total, campaign.FixedCount) {
			if err := s.AutoConfirm(ctx, campaign.ID); err != nil {
				return nil, err
			}
		}
	}

	campaign, err := s.repo.FindByID(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, campaign)
}

func (s *Service) applyUpdate(ctx context.Context, tx *gorm.DB, input UpdateInput) error {
	repo := s.repo.WithTx(tx)
	led := s.ledger.WithTx(tx)

	campaign, err := led.Snapshot(ctx, input.CampaignID)
	if err != nil {
		return err
	}
	if !campaign.IsLeader(input.ActorID) {
		return errNotLeader()
	}

	fields, err := s.editableFields(campaign, input)
	if err != nil {
		return err
	}
	if err := repo.UpdateFields(ctx, campaign.ID, fields); err != nil {
		return err
	}

	if input.LeaderCount == nil {
		return nil
	}
	if *input.LeaderCount < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "leaderCount must be at least 1")
	}
	parts := s.participants.WithTx(tx)
	leader, err := parts.Find(ctx, campaign.ID, campaign.LeaderID)
	if err != nil {
		return err
	}
	prior, err := led.TotalPledged(ctx, campaign.ID)
	if err != nil {
		return err
	}
	if _, err := led.Reserve(ctx, campaign.ID, *input.LeaderCount-leader.Count, prior); err != nil {
		return err
	}
	leader.Count = *input.LeaderCount
	if err := parts.Save(ctx, leader); err != nil {
		return err
	}
	return led.Seal(ctx, campaign)
}

func (s *Service) editableFields(campaign *models.Campaign, input UpdateInput) (map[string]any, error) {
	var allowed map[string]bool
	switch campaign.Status {
	case enums.CampaignStatusRecruiting:
		allowed = nil
	case enums.CampaignStatusConfirmed:
		allowed = map[string]bool{"totalPrice": true, "shippingFee": true}
	case enums.CampaignStatusShipped:
		allowed = map[string]bool{"pickupPlace": true, "pickupTime": true}
	default:
		return nil, errNotEditable(campaign.Status, "")
	}

	fields := map[string]any{}
	set := func(name, column string, value any) error {
		if allowed != nil && !allowed[name] {
			return errNotEditable(campaign.Status, name)
		}
		fields[column] = value
		return nil
	}

	type edit struct {
		name, column string
		present      bool
		value        func() any
	}
	edits := []edit{
		{"title", "title", input.Title != nil, func() any { return strings.TrimSpace(*input.Title) }},
		{"productUrl", "product_url", input.ProductURL != nil, func() any { return strings.TrimSpace(*input.ProductURL) }},
		{"description", "description", input.Description != nil, func() any { return strings.TrimSpace(*input.Description) }},
		{"totalPrice", "total_price", input.TotalPrice != nil, func() any { return *input.TotalPrice }},
		{"shippingFee", "shipping_fee", input.ShippingFee != nil, func() any { return *input.ShippingFee }},
		{"account", "account", input.Account != nil, func() any { return strings.TrimSpace(*input.Account) }},
		{"bank", "bank", input.Bank != nil, func() any { return strings.TrimSpace(*input.Bank) }},
		{"endDate", "end_date", input.EndDate != nil, func() any { return input.EndDate.UTC() }},
		{"category", "category", input.Category != nil, func() any { return *input.Category }},
		{"pickupPlace", "pickup_place", input.PickupPlace != nil, func() any { return strings.TrimSpace(*input.PickupPlace) }},
		{"pickupTime", "pickup_time", input.PickupTime != nil, func() any { return strings.TrimSpace(*input.PickupTime) }},
	}
	for _, e := range edits {
		if !e.present {
			continue
		}
		if err := set(e.name, e.column, e.value()); err != nil {
			return nil, err
		}
	}
	if input.LeaderCount != nil && allowed != nil {
		return nil, errNotEditable(campaign.Status, "leaderCount")
	}

	if err := s.validateEdit(input); err != nil {
		return nil, err
	}

	if input.TotalPrice != nil || input.ShippingFee != nil {
		total, shipping := campaign.TotalPrice, campaign.ShippingFee
		if input.TotalPrice != nil {
			total = *input.TotalPrice
		}
		if input.ShippingFee != nil {
			shipping = *input.ShippingFee
		}
		fields["estimated_price"] = EstimatePrice(total, shipping, campaign.FixedCount)
	}
	return fields, nil
}

func (s *Service) validateEdit(input UpdateInput) error {
	problems := map[string]string{}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		problems["title"] = "must not be empty"
	}
	if input.ProductURL != nil && !isHTTPURL(*input.ProductURL) {
		problems["productUrl"] = "must be an http(s) url"
	}
	if input.TotalPrice != nil && *input.TotalPrice < 0 {
		problems["totalPrice"] = "must not be negative"
	}
	if input.ShippingFee != nil && *input.ShippingFee < 0 {
		problems["shippingFee"] = "must not be negative"
	}
	if input.EndDate != nil && !input.EndDate.After(s.now()) {
		problems["endDate"] = "must be in the future"
	}
	if input.Category != nil && !input.Category.IsValid() {
		problems["category"] = "unknown category"
	}
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign update").WithDetails(problems)
	}
	return nil
}

// Get renders the detail page for viewerID; uuid.Nil is an anonymous viewer.
func (s *Service) Get(ctx context.Context, id, viewerID uuid.UUID) (*Detail, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.view(ctx, campaign)
	if err != nil {
		return nil, err
	}

	detail := &Detail{View: *view}
	if leader, err := s.participants.Find(ctx, id, campaign.LeaderID); err == nil {
		detail.LeaderCount = leader.Count
	} else if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}

	if viewerID == uuid.Nil {
		return detail, nil
	}
	if campaign.IsLeader(viewerID) {
		detail.IsOwner = true
		return detail, nil
	}
	pledge, err := s.participants.Find(ctx, id, viewerID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return detail, nil
		}
		return nil, err
	}
	detail.IsParticipant = true
	detail.Pledge = &ViewerPledge{Count: pledge.Count, IsPaid: pledge.IsPaid}
	return detail, nil
}

// List searches campaigns newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) (*types.Page[View], error) {
	filter = filter.normalized()
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	pledged, err := s.repo.SumPledgedByCampaign(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]View, 0, len(rows))
	for i := range rows {
		items = append(items, newView(&rows[i], pledged[rows[i].ID]))
	}
	return &types.Page[View]{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// ListByLeader lists the campaigns a user organizes.
func (s *Service) ListByLeader(ctx context.Context, leaderID uuid.UUID, limit, offset int) (*types.Page[View], error) {
	return s.List(ctx, ListFilter{LeaderID: &leaderID, Limit: limit, Offset: offset})
}

// ListParticipated lists the campaigns a user joined without leading them.
func (s *Service) ListParticipated(ctx context.Context, userID uuid.UUID, limit, offset int) (*types.Page[View], error) {
	ids, err := s.participants.CampaignIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return s.List(ctx, ListFilter{IDs: ids, ExcludeLeaderID: &userID, Limit: limit, Offset: offset})
}

func (s *Service) view(ctx context.Context, campaign *models.Campaign) (*View, error) {
	total, err := s.ledger.TotalPledged(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	view := newView(campaign, total)
	return &view, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
