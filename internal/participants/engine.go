// Package participants mediates every pledge change against a campaign.
package participants

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/internal/ledger"
	"github.com/gonggu-lab/gonggu-backend/internal/lifecycle"
	"github.com/gonggu-lab/gonggu-backend/internal/notifications"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
	"github.com/gonggu-lab/gonggu-backend/pkg/metrics"
)

// TxRunner is satisfied by *db.Client.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StatusChanger performs the automatic transitions a pledge change can cause.
type StatusChanger interface {
	AutoConfirm(ctx context.Context, campaignID uuid.UUID) error
	AutoOrderPending(ctx context.Context, campaignID uuid.UUID) error
}

type EngineParams struct {
	DB       TxRunner
	Repo     Repository
	Ledger   ledger.Service
	Status   StatusChanger
	Notifier notifications.Sender
	Composer *notifications.Composer
	Logger   *logger.Logger
	Metrics  *metrics.CampaignMetrics
}

// Engine runs join, modify, withdraw and payment confirmation.
type Engine struct {
	db       TxRunner
	repo     Repository
	ledger   ledger.Service
	status   StatusChanger
	notifier notifications.Sender
	composer *notifications.Composer
	logg     *logger.Logger
	metrics  *metrics.CampaignMetrics
}

func NewEngine(params EngineParams) (*Engine, error) {
	switch {
	case params.DB == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Repo == nil:
		return nil, fmt.Errorf("participants repository required")
	case params.Ledger == nil:
		return nil, fmt.Errorf("capacity ledger required")
	case params.Status == nil:
		return nil, fmt.Errorf("status changer required")
	case params.Notifier == nil:
		return nil, fmt.Errorf("notifier required")
	case params.Composer == nil:
		return nil, fmt.Errorf("notification composer required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &Engine{
		db:       params.DB,
		repo:     params.Repo,
		ledger:   params.Ledger,
		status:   params.Status,
		notifier: params.Notifier,
		composer: params.Composer,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

type RefundInfo struct {
	Bank    string
	Account string
}

type JoinInput struct {
	CampaignID uuid.UUID
	UserID     uuid.UUID
	Count      int
	Refund     RefundInfo
}

type ModifyInput struct {
	CampaignID uuid.UUID
	UserID     uuid.UUID
	Count      int
	Refund     *RefundInfo
}

// Join records a new pledge. A pledge that fills the campaign confirms it.
func (e *Engine) Join(ctx context.Context, input JoinInput) (*models.Participant, error) {
	if err := validatePledge(input.CampaignID, input.UserID, input.Count); err != nil {
		return nil, err
	}

	var created *models.Participant
	err := ledger.RetryPledge(ctx, e.metrics, func(ctx context.Context) error {
		return e.db.WithTx(ctx, func(tx *gorm.DB) error {
			repo := e.repo.WithTx(tx)
			led := e.ledger.WithTx(tx)

			exists, err := repo.Exists(ctx, input.CampaignID, input.UserID)
			if err != nil {
				return err
			}
			if exists {
				return errAlreadyJoined()
			}

			prior, err := led.TotalPledged(ctx, input.CampaignID)
			if err != nil {
				return err
			}
			campaign, err := led.Reserve(ctx, input.CampaignID, input.Count, prior)
			if err != nil {
				return err
			}
			if !lifecycle.AcceptsPledgeChanges(campaign.Status) {
				return errPledgesClosed()
			}

			participant := &models.Participant{
				CampaignID:    input.CampaignID,
				UserID:        input.UserID,
				Count:         input.Count,
				RefundBank:    optionalString(input.Refund.Bank),
				RefundAccount: optionalString(input.Refund.Account),
			}
			if err := repo.Create(ctx, participant); err != nil {
				return err
			}
			if err := led.Seal(ctx, campaign); err != nil {
				return err
			}
			created = participant
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	e.afterPledge(ctx, input.CampaignID)
	return created, nil
}

// Modify changes the quantity (and optionally the refund account) of an
// existing pledge while the campaign is recruiting.
func (e *Engine) Modify(ctx context.Context, input ModifyInput) (*models.Participant, error) {
	if err := validatePledge(input.CampaignID, input.UserID, input.Count); err != nil {
		return nil, err
	}

	var updated *models.Participant
	err := ledger.RetryPledge(ctx, e.metrics, func(ctx context.Context) error {
		return e.db.WithTx(ctx, func(tx *gorm.DB) error {
			repo := e.repo.WithTx(tx)
			led := e.ledger.WithTx(tx)

			current, err := led.Snapshot(ctx, input.CampaignID)
			if err != nil {
				return err
			}
			if !lifecycle.AcceptsPledgeChanges(current.Status) {
				return errPledgesClosed()
			}
			participant, err := repo.Find(ctx, input.CampaignID, input.UserID)
			if err != nil {
				return err
			}

			prior, err := led.TotalPledged(ctx, input.CampaignID)
			if err != nil {
				return err
			}
			campaign, err := led.Reserve(ctx, input.CampaignID, input.Count-participant.Count, prior)
			if err != nil {
				return err
			}

			participant.Count = input.Count
			if input.Refund != nil {
				participant.RefundBank = optionalString(input.Refund.Bank)
				participant.RefundAccount = optionalString(input.Refund.Account)
			}
			if err := repo.Save(ctx, participant); err != nil {
				return err
			}
			if err := led.Seal(ctx, campaign); err != nil {
				return err
			}
			updated = participant
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	e.afterPledge(ctx, input.CampaignID)
	return updated, nil
}

// Withdraw deletes a non-leader pledge while the campaign is recruiting.
func (e *Engine) Withdraw(ctx context.Context, campaignID, userID uuid.UUID) error {
	if campaignID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "campaign id and user id are required")
	}

	return ledger.RetryPledge(ctx, e.metrics, func(ctx context.Context) error {
		return e.db.WithTx(ctx, func(tx *gorm.DB) error {
			repo := e.repo.WithTx(tx)
			led := e.ledger.WithTx(tx)

			campaign, err := led.Snapshot(ctx, campaignID)
			if err != nil {
				return err
			}
			if _, err := repo.Find(ctx, campaignID, userID); err != nil {
				return err
			}
			if campaign.IsLeader(userID) {
				return errLeaderWithdraw()
			}
			if !lifecycle.AcceptsPledgeChanges(campaign.Status) {
				return errPledgesClosed()
			}
			if err := repo.Delete(ctx, campaignID, userID); err != nil {
				return err
			}
			return led.Seal(ctx, campaign)
		})
	})
}

// ConfirmPayment marks the caller's deposit as made. The last deposit moves
// the campaign to ORDER_PENDING.
func (e *Engine) ConfirmPayment(ctx context.Context, campaignID, userID uuid.UUID) (*models.Participant, error) {
	if campaignID == uuid.Nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id and user id are required")
	}

	campaign, err := e.ledger.Snapshot(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.AcceptsPaymentConfirmation(campaign.Status) {
		return nil, errPaymentWindowClosed()
	}
	participant, err := e.repo.Find(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}

	if !participant.IsPaid {
		participant.IsPaid = true
		if err := e.repo.Save(ctx, participant); err != nil {
			return nil, err
		}
		e.notifier.Dispatch(ctx, e.composer.PaymentConfirmed(campaign, participant))
	}

	unpaid, err := e.repo.CountUnpaid(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if unpaid == 0 {
		if err := e.status.AutoOrderPending(ctx, campaignID); err != nil {
			return nil, err
		}
	}
	return participant, nil
}

// List returns the roster of a campaign in join order.
func (e *Engine) List(ctx context.Context, campaignID uuid.UUID) ([]models.Participant, error) {
	if _, err := e.ledger.Snapshot(ctx, campaignID); err != nil {
		return nil, err
	}
	return e.repo.ListByCampaign(ctx, campaignID)
}

// afterPledge is the post-condition of every committed pledge change: a
// recruiting campaign whose total reached the target is confirmed. Failures
// are logged; the recruitment sweep repairs a full campaign left recruiting.
func (e *Engine) afterPledge(ctx context.Context, campaignID uuid.UUID) {
	logCtx := e.logg.WithCampaignID(ctx, campaignID.String())

	campaign, err := e.ledger.Snapshot(ctx, campaignID)
	if err != nil {
		e.logg.Error(logCtx, "reload campaign after pledge", err)
		return
	}
	total, err := e.ledger.TotalPledged(ctx, campaignID)
	if err != nil {
		e.logg.Error(logCtx, "recount pledges after pledge", err)
		return
	}
	if !lifecycle.ShouldAutoConfirm(campaign.Status, total, campaign.FixedCount) {
		return
	}
	if err := e.status.AutoConfirm(ctx, campaignID); err != nil {
		e.logg.Error(logCtx, "auto confirm campaign", err)
	}
}

func validatePledge(campaignID, userID uuid.UUID, count int) error {
	if campaignID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "campaign id and user id are required")
	}
	if count < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "count must be at least 1")
	}
	return nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
