package campaigns

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/internal/lifecycle"
	"github.com/gonggu-lab/gonggu-backend/internal/notifications"
	"github.com/gonggu-lab/gonggu-backend/internal/participants"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	dbtypes "github.com/gonggu-lab/gonggu-backend/pkg/db/types"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
	"github.com/gonggu-lab/gonggu-backend/pkg/metrics"
)

// RequestTransition moves a campaign one step along the status graph on
// behalf of its leader and tells every participant about it.
func (s *Service) RequestTransition(ctx context.Context, input TransitionInput) (*View, error) {
	campaign, err := s.repo.FindByID(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsLeader(input.ActorID) {
		return nil, errNotLeader()
	}
	if campaign.Status.IsTerminal() {
		return nil, errTerminal(campaign.Status)
	}
	if !lifecycle.CanTransition(campaign.Status, input.Target) {
		return nil, errInvalidTransition(campaign.Status, input.Target)
	}

	from := campaign.Status
	if input.Target == enums.CampaignStatusCancelled {
		err = s.cancel(ctx, campaign, enums.CancelReasonLeaderCancelled, nil, metrics.TriggerLeader)
	} else {
		err = s.transition(ctx, campaign, input.Target, metrics.TriggerLeader)
	}
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"campaign_id": campaign.ID.String(),
		"from":        string(from),
		"to":          string(campaign.Status),
	})
	s.logg.Info(logCtx, "campaign status changed by leader")

	s.notifyParticipants(ctx, campaign, func(recipients []uuid.UUID) []notifications.Message {
		return s.composer.StatusChanged(campaign, campaign.Status, recipients)
	})
	return s.view(ctx, campaign)
}

// Cancel is the leader's explicit cancellation with a reason.
func (s *Service) Cancel(ctx context.Context, input CancelInput) (*View, error) {
	campaign, err := s.repo.FindByID(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsLeader(input.ActorID) {
		return nil, errNotLeader()
	}
	if !lifecycle.CanCancel(campaign.Status) {
		return nil, errNotCancellable(campaign.Status)
	}
	if !input.Reason.IsManual() || !lifecycle.AcceptsCancelReason(campaign.Status, input.Reason) {
		return nil, errInvalidCancelReason(campaign.Status, input.Reason)
	}

	var nonDepositors dbtypes.UUIDArray
	if input.Reason == enums.CancelReasonPaymentFailed {
		nonDepositors = dbtypes.UUIDArray(input.NonDepositors)
	}
	if err := s.cancel(ctx, campaign, input.Reason, nonDepositors, metrics.TriggerLeader); err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"campaign_id": campaign.ID.String(),
		"reason":      string(input.Reason),
	})
	s.logg.Info(logCtx, "campaign cancelled by leader")

	s.notifyParticipants(ctx, campaign, func(recipients []uuid.UUID) []notifications.Message {
		return s.composer.Cancelled(campaign, input.Reason, recipients)
	})
	return s.view(ctx, campaign)
}

// AutoConfirm closes recruitment once pledges reach the target. It is a no-op
// when the campaign already left RECRUITING.
func (s *Service) AutoConfirm(ctx context.Context, campaignID uuid.UUID) error {
	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status != enums.CampaignStatusRecruiting {
		return nil
	}
	if err := s.transition(ctx, campaign, enums.CampaignStatusConfirmed, metrics.TriggerSystem); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			return nil
		}
		return err
	}

	s.logg.Info(s.logg.WithCampaignID(ctx, campaign.ID.String()), "campaign recruitment completed")
	s.notifier.Dispatch(ctx, s.composer.RecruitmentComplete(campaign))
	return nil
}

// AutoOrderPending moves a fully paid campaign to ORDER_PENDING. It is a no-op
// while any deposit is outstanding or when the campaign already moved on.
func (s *Service) AutoOrderPending(ctx context.Context, campaignID uuid.UUID) error {
	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status != enums.CampaignStatusPaymentInProgress {
		return nil
	}
	unpaid, err := s.participants.CountUnpaid(ctx, campaignID)
	if err != nil {
		return err
	}
	if unpaid > 0 {
		return nil
	}
	if err := s.transition(ctx, campaign, enums.CampaignStatusOrderPending, metrics.TriggerSystem); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			return nil
		}
		return err
	}

	s.logg.Info(s.logg.WithCampaignID(ctx, campaign.ID.String()), "all deposits confirmed")
	s.notifier.Dispatch(ctx, s.composer.PaymentComplete(campaign))
	return nil
}

// SystemCancel is the scheduler's cancellation. Only SYSTEM_CANCELLED and
// PAYMENT_FAILED are accepted; PAYMENT_FAILED records the unpaid users.
func (s *Service) SystemCancel(ctx context.Context, campaign *models.Campaign, reason enums.CancelReason) error {
	if reason != enums.CancelReasonSystemCancelled && reason != enums.CancelReasonPaymentFailed {
		return errInvalidCancelReason(campaign.Status, reason)
	}
	if !lifecycle.CanCancel(campaign.Status) {
		return errNotCancellable(campaign.Status)
	}

	var nonDepositors dbtypes.UUIDArray
	if reason == enums.CancelReasonPaymentFailed {
		unpaid, err := s.participants.ListUnpaid(ctx, campaign.ID)
		if err != nil {
			return err
		}
		nonDepositors = dbtypes.UUIDArray(participants.UserIDs(unpaid))
	}
	if err := s.cancel(ctx, campaign, reason, nonDepositors, metrics.TriggerScheduler); err != nil {
		return err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"campaign_id": campaign.ID.String(),
		"reason":      string(reason),
	})
	s.logg.Info(logCtx, "campaign cancelled automatically")

	s.notifyParticipants(ctx, campaign, func(recipients []uuid.UUID) []notifications.Message {
		return s.composer.AutoCancelled(campaign, reason, recipients)
	})
	return nil
}

// RemindUnpaid sends the deposit reminder to every unpaid participant. The
// reminder flag is claimed first, so concurrent sweeps send it at most once.
// It reports whether this call sent the reminder.
func (s *Service) RemindUnpaid(ctx context.Context, campaign *models.Campaign, hoursLeft int) (bool, error) {
	claimed, err := s.repo.MarkReminderSent(ctx, campaign.ID)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}
	campaign.IsReminderSent = true

	unpaid, err := s.participants.ListUnpaid(ctx, campaign.ID)
	if err != nil {
		return true, err
	}
	if len(unpaid) == 0 {
		return true, nil
	}
	s.notifier.Dispatch(ctx, s.composer.DepositReminder(campaign, hoursLeft, participants.UserIDs(unpaid))...)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"campaign_id": campaign.ID.String(),
		"recipients":  len(unpaid),
		"hours_left":  hoursLeft,
	})
	s.logg.Info(logCtx, "deposit reminder sent")
	return true, nil
}

// CompleteShipped silently completes every campaign that has been SHIPPED for
// at least the completion grace period. Running it twice changes nothing.
func (s *Service) CompleteShipped(ctx context.Context, now time.Time) (int64, error) {
	completed, err := s.repo.CompleteShippedBefore(ctx, lifecycle.CompletionCutoff(now))
	if err != nil {
		return 0, err
	}
	s.metrics.AddTransitions(string(enums.CampaignStatusShipped), string(enums.CampaignStatusCompleted), metrics.TriggerScheduler, completed)
	return completed, nil
}

// FindByStatuses exposes the scheduler's working set.
func (s *Service) FindByStatuses(ctx context.Context, statuses ...enums.CampaignStatus) ([]models.Campaign, error) {
	return s.repo.FindByStatuses(ctx, statuses...)
}

func (s *Service) transition(ctx context.Context, campaign *models.Campaign, to enums.CampaignStatus, trigger string) error {
	from := campaign.Status
	if !lifecycle.CanTransition(from, to) {
		return errInvalidTransition(from, to)
	}
	ok, err := s.repo.UpdateStatus(ctx, campaign.ID, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return errStatusRace()
	}
	campaign.Status = to
	s.metrics.IncTransition(string(from), string(to), trigger)
	return nil
}

func (s *Service) cancel(ctx context.Context, campaign *models.Campaign, reason enums.CancelReason, nonDepositors dbtypes.UUIDArray, trigger string) error {
	from := campaign.Status
	if !lifecycle.CanCancel(from) {
		return errNotCancellable(from)
	}
	ok, err := s.repo.Cancel(ctx, campaign.ID, from, reason, nonDepositors)
	if err != nil {
		return err
	}
	if !ok {
		return errStatusRace()
	}
	campaign.Status = enums.CampaignStatusCancelled
	campaign.CancelReason = &reason
	campaign.NonDepositors = nonDepositors
	s.metrics.IncTransition(string(from), string(enums.CampaignStatusCancelled), trigger)
	return nil
}

// notifyParticipants hands one message per participant to the dispatcher.
// Failing to load the roster is logged; the status change already committed.
func (s *Service) notifyParticipants(ctx context.Context, campaign *models.Campaign, build func(recipients []uuid.UUID) []notifications.Message) {
	roster, err := s.participants.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		s.logg.Error(s.logg.WithCampaignID(ctx, campaign.ID.String()), "load participants for notification", err)
		return
	}
	msgs := build(participants.UserIDs(roster))
	if len(msgs) == 0 {
		return
	}
	s.notifier.Dispatch(ctx, msgs...)
}
