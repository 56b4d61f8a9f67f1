package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/gonggu-lab/gonggu-backend/internal/lifecycle"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
)

const (
	recruitmentSweepName     = "recruitment-sweep"
	defaultRecruitmentSpec   = "*/10 * * * *"
	defaultSweepConcurrency  = 8
	defaultBusinessHourStart = 9
	defaultBusinessHourEnd   = 19
)

// campaignReconciler is the slice of the campaigns service the sweep drives.
type campaignReconciler interface {
	FindByStatuses(ctx context.Context, statuses ...enums.CampaignStatus) ([]models.Campaign, error)
	AutoConfirm(ctx context.Context, campaignID uuid.UUID) error
	AutoOrderPending(ctx context.Context, campaignID uuid.UUID) error
	SystemCancel(ctx context.Context, campaign *models.Campaign, reason enums.CancelReason) error
	RemindUnpaid(ctx context.Context, campaign *models.Campaign, hoursLeft int) (bool, error)
}

type pledgeTotals interface {
	TotalPledged(ctx context.Context, campaignID uuid.UUID) (int, error)
}

type unpaidCounter interface {
	CountUnpaid(ctx context.Context, campaignID uuid.UUID) (int64, error)
}

type RecruitmentSweepJobParams struct {
	Logger       *logger.Logger
	Campaigns    campaignReconciler
	Ledger       pledgeTotals
	Participants unpaidCounter
	Schedule     string
	Location     *time.Location
	// Weekdays only, within [BusinessHourStart, BusinessHourEnd) local time.
	BusinessHourStart int
	BusinessHourEnd   int
	Concurrency       int
}

func NewRecruitmentSweepJob(params RecruitmentSweepJobParams) (Job, error) {
	switch {
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	case params.Campaigns == nil:
		return nil, fmt.Errorf("campaigns service required")
	case params.Ledger == nil:
		return nil, fmt.Errorf("capacity ledger required")
	case params.Participants == nil:
		return nil, fmt.Errorf("participants repository required")
	}
	job := &recruitmentSweepJob{
		logg:         params.Logger,
		campaigns:    params.Campaigns,
		ledger:       params.Ledger,
		participants: params.Participants,
		schedule:     params.Schedule,
		loc:          params.Location,
		openHour:     params.BusinessHourStart,
		closeHour:    params.BusinessHourEnd,
		concurrency:  params.Concurrency,
		now:          time.Now,
	}
	if job.schedule == "" {
		job.schedule = defaultRecruitmentSpec
	}
	if job.loc == nil {
		job.loc = time.UTC
	}
	if job.openHour == 0 && job.closeHour == 0 {
		job.openHour, job.closeHour = defaultBusinessHourStart, defaultBusinessHourEnd
	}
	if job.concurrency <= 0 {
		job.concurrency = defaultSweepConcurrency
	}
	return job, nil
}

type recruitmentSweepJob struct {
	logg         *logger.Logger
	campaigns    campaignReconciler
	ledger       pledgeTotals
	participants unpaidCounter
	schedule     string
	loc          *time.Location
	openHour     int
	closeHour    int
	concurrency  int
	now          func() time.Time
}

func (j *recruitmentSweepJob) Name() string     { return recruitmentSweepName }
func (j *recruitmentSweepJob) Schedule() string { return j.schedule }

func (j *recruitmentSweepJob) Run(ctx context.Context) error {
	now := j.now().In(j.loc)
	if !j.inBusinessHours(now) {
		j.logg.Debug(ctx, "outside business hours; sweep skipped")
		return nil
	}

	campaigns, err := j.campaigns.FindByStatuses(ctx, enums.CampaignStatusRecruiting, enums.CampaignStatusPaymentInProgress)
	if err != nil {
		return fmt.Errorf("load campaigns to reconcile: %w", err)
	}

	var (
		mu       sync.Mutex
		combined error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)
	for i := range campaigns {
		campaign := &campaigns[i]
		g.Go(func() error {
			if err := j.reconcile(gctx, campaign, now); err != nil {
				mu.Lock()
				combined = multierr.Append(combined, fmt.Errorf("campaign %s: %w", campaign.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"campaigns": len(campaigns),
		"failures":  len(multierr.Errors(combined)),
	})
	j.logg.Info(logCtx, "recruitment sweep complete")
	return combined
}

func (j *recruitmentSweepJob) inBusinessHours(now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return now.Hour() >= j.openHour && now.Hour() < j.closeHour
}

func (j *recruitmentSweepJob) reconcile(ctx context.Context, campaign *models.Campaign, now time.Time) error {
	ctx = j.logg.WithCampaignID(ctx, campaign.ID.String())
	switch campaign.Status {
	case enums.CampaignStatusRecruiting:
		return j.reconcileRecruiting(ctx, campaign, now)
	case enums.CampaignStatusPaymentInProgress:
		return j.reconcilePayment(ctx, campaign, now)
	}
	return nil
}

func (j *recruitmentSweepJob) reconcileRecruiting(ctx context.Context, campaign *models.Campaign, now time.Time) error {
	total, err := j.ledger.TotalPledged(ctx, campaign.ID)
	if err != nil {
		return err
	}
	if lifecycle.RecruitmentExpired(now, campaign.EndDate, total, campaign.FixedCount) {
		j.logg.Info(j.logg.WithField(ctx, "total_pledged", total), "recruitment deadline passed short of target")
		return ignoreRace(j.campaigns.SystemCancel(ctx, campaign, enums.CancelReasonSystemCancelled))
	}
	if lifecycle.ShouldAutoConfirm(campaign.Status, total, campaign.FixedCount) {
		j.logg.Info(ctx, "full campaign still recruiting; confirming")
		return j.campaigns.AutoConfirm(ctx, campaign.ID)
	}
	return nil
}

func (j *recruitmentSweepJob) reconcilePayment(ctx context.Context, campaign *models.Campaign, now time.Time) error {
	unpaid, err := j.participants.CountUnpaid(ctx, campaign.ID)
	if err != nil {
		return err
	}
	if unpaid == 0 {
		return j.campaigns.AutoOrderPending(ctx, campaign.ID)
	}
	if lifecycle.PaymentOverdue(now, campaign.UpdatedAt, unpaid) {
		j.logg.Info(j.logg.WithField(ctx, "unpaid", unpaid), "deposit deadline passed")
		return ignoreRace(j.campaigns.SystemCancel(ctx, campaign, enums.CancelReasonPaymentFailed))
	}
	if hours, due := lifecycle.ReminderDue(now, campaign.UpdatedAt, campaign.IsReminderSent); due {
		_, err := j.campaigns.RemindUnpaid(ctx, campaign, hours)
		return err
	}
	return nil
}

// ignoreRace drops the conflict raised when a user action moved the campaign
// between the sweep's read and its write.
func ignoreRace(err error) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		return nil
	}
	return err
}
