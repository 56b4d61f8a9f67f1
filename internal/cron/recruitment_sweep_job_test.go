package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/internal/campaigns"
	"github.com/gonggu-lab/gonggu-backend/internal/ledger"
	"github.com/gonggu-lab/gonggu-backend/internal/notifications"
	"github.com/gonggu-lab/gonggu-backend/internal/participants"
	"github.com/gonggu-lab/gonggu-backend/pkg/config"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/dbtest"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
)

var seoul = time.FixedZone("KST", 9*60*60)

// Wednesday, inside business hours.
var sweepNow = time.Date(2026, time.March, 4, 11, 0, 0, 0, seoul)

type fakeReconciler struct {
	mu        sync.Mutex
	campaigns []models.Campaign
	findCalls int
	confirmed []uuid.UUID
	ordered   []uuid.UUID
	cancelled map[uuid.UUID]enums.CancelReason
	reminded  map[uuid.UUID]int
	cancelErr error
}

func newFakeReconciler(campaigns ...models.Campaign) *fakeReconciler {
	return &fakeReconciler{
		campaigns: campaigns,
		cancelled: map[uuid.UUID]enums.CancelReason{},
		reminded:  map[uuid.UUID]int{},
	}
}

func (f *fakeReconciler) FindByStatuses(ctx context.Context, statuses ...enums.CampaignStatus) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	return append([]models.Campaign(nil), f.campaigns...), nil
}

func (f *fakeReconciler) AutoConfirm(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, id)
	return nil
}

func (f *fakeReconciler) AutoOrderPending(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ordered = append(f.ordered, id)
	return nil
}

func (f *fakeReconciler) SystemCancel(ctx context.Context, campaign *models.Campaign, reason enums.CancelReason) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled[campaign.ID] = reason
	return nil
}

func (f *fakeReconciler) RemindUnpaid(ctx context.Context, campaign *models.Campaign, hoursLeft int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminded[campaign.ID] = hoursLeft
	return true, nil
}

type fakeTotals struct {
	totals map[uuid.UUID]int
	unpaid map[uuid.UUID]int64
	failOn uuid.UUID
}

func (f fakeTotals) TotalPledged(ctx context.Context, id uuid.UUID) (int, error) {
	if id == f.failOn {
		return 0, errors.New("db unavailable")
	}
	return f.totals[id], nil
}

func (f fakeTotals) CountUnpaid(ctx context.Context, id uuid.UUID) (int64, error) {
	if id == f.failOn {
		return 0, errors.New("db unavailable")
	}
	return f.unpaid[id], nil
}

func newSweep(t *testing.T, reconciler campaignReconciler, totals fakeTotals, now time.Time) *recruitmentSweepJob {
	t.Helper()
	job, err := NewRecruitmentSweepJob(RecruitmentSweepJobParams{
		Logger:       logger.Nop(),
		Campaigns:    reconciler,
		Ledger:       totals,
		Participants: totals,
		Location:     seoul,
	})
	require.NoError(t, err)
	sweep := job.(*recruitmentSweepJob)
	sweep.now = func() time.Time { return now }
	return sweep
}

func TestRecruitmentSweepOnlyRunsOnWeekdayBusinessHours(t *testing.T) {
	cases := map[string]time.Time{
		"saturday":     time.Date(2026, time.March, 7, 11, 0, 0, 0, seoul),
		"sunday":       time.Date(2026, time.March, 8, 11, 0, 0, 0, seoul),
		"before open":  time.Date(2026, time.March, 4, 8, 59, 0, 0, seoul),
		"at close":     time.Date(2026, time.March, 4, 19, 0, 0, 0, seoul),
		"seoul evening": time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC),
	}
	for name, now := range cases {
		t.Run(name, func(t *testing.T) {
			reconciler := newFakeReconciler()
			require.NoError(t, newSweep(t, reconciler, fakeTotals{}, now).Run(context.Background()))
			assert.Zero(t, reconciler.findCalls)
		})
	}

	reconciler := newFakeReconciler()
	require.NoError(t, newSweep(t, reconciler, fakeTotals{}, time.Date(2026, time.March, 4, 9, 0, 0, 0, seoul)).Run(context.Background()))
	assert.Equal(t, 1, reconciler.findCalls)
}

func TestRecruitmentSweepDecisions(t *testing.T) {
	now := sweepNow.UTC()
	expired := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusRecruiting, FixedCount: 10, EndDate: now.Add(-time.Minute)}
	open := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusRecruiting, FixedCount: 10, EndDate: now.Add(time.Hour)}
	full := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusRecruiting, FixedCount: 10, EndDate: now.Add(-time.Minute)}
	overdue := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusPaymentInProgress, UpdatedAt: now.Add(-25 * time.Hour)}
	closing := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusPaymentInProgress, UpdatedAt: now.Add(-20*time.Hour - 30*time.Minute)}
	reminded := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusPaymentInProgress, UpdatedAt: now.Add(-20 * time.Hour), IsReminderSent: true}
	early := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusPaymentInProgress, UpdatedAt: now.Add(-2 * time.Hour)}
	paid := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusPaymentInProgress, UpdatedAt: now.Add(-30 * time.Hour)}

	totals := fakeTotals{
		totals: map[uuid.UUID]int{expired.ID: 4, open.ID: 4, full.ID: 10},
		unpaid: map[uuid.UUID]int64{overdue.ID: 1, closing.ID: 2, reminded.ID: 2, early.ID: 2},
	}
	reconciler := newFakeReconciler(expired, open, full, overdue, closing, reminded, early, paid)

	require.NoError(t, newSweep(t, reconciler, totals, sweepNow).Run(context.Background()))

	assert.Equal(t, map[uuid.UUID]enums.CancelReason{
		expired.ID: enums.CancelReasonSystemCancelled,
		overdue.ID: enums.CancelReasonPaymentFailed,
	}, reconciler.cancelled)
	assert.Equal(t, []uuid.UUID{full.ID}, reconciler.confirmed)
	assert.Equal(t, []uuid.UUID{paid.ID}, reconciler.ordered)
	assert.Equal(t, map[uuid.UUID]int{closing.ID: 4}, reconciler.reminded)
}

func TestRecruitmentSweepIsolatesCampaignFailures(t *testing.T) {
	now := sweepNow.UTC()
	broken := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusRecruiting, FixedCount: 10, EndDate: now.Add(-time.Hour)}
	cancelFails := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusPaymentInProgress, UpdatedAt: now.Add(-30 * time.Hour)}
	healthy := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusRecruiting, FixedCount: 10, EndDate: now.Add(-time.Hour)}

	reconciler := newFakeReconciler(broken, cancelFails, healthy)
	totals := fakeTotals{
		totals: map[uuid.UUID]int{healthy.ID: 10},
		unpaid: map[uuid.UUID]int64{cancelFails.ID: 1},
		failOn: broken.ID,
	}
	reconciler.cancelErr = pkgerrors.New(pkgerrors.CodeInternal, "write failed")

	err := newSweep(t, reconciler, totals, sweepNow).Run(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, []uuid.UUID{healthy.ID}, reconciler.confirmed)
}

func TestRecruitmentSweepTreatsRaceAsDone(t *testing.T) {
	now := sweepNow.UTC()
	expired := models.Campaign{ID: uuid.New(), Status: enums.CampaignStatusRecruiting, FixedCount: 10, EndDate: now.Add(-time.Hour)}
	reconciler := newFakeReconciler(expired)
	reconciler.cancelErr = pkgerrors.New(pkgerrors.CodeConflict, "campaign status changed concurrently")

	require.NoError(t, newSweep(t, reconciler, fakeTotals{}, sweepNow).Run(context.Background()))
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []notifications.Message
}

func (r *recordingSender) Dispatch(ctx context.Context, msgs ...notifications.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msgs...)
}

func (r *recordingSender) count(typ enums.NotificationType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if m.Type == typ {
			n++
		}
	}
	return n
}

type sweepStack struct {
	conn      *gorm.DB
	campaigns *campaigns.Service
	sender    *recordingSender
	sweep     *recruitmentSweepJob
	shipping  *shippingCompletionJob
}

func newSweepStack(t *testing.T, now time.Time) *sweepStack {
	t.Helper()
	client, conn := dbtest.OpenClient(t)
	partRepo := participants.NewRepository(conn)
	led, err := ledger.NewService(ledger.NewRepository(conn))
	require.NoError(t, err)
	sender := &recordingSender{}

	svc, err := campaigns.NewService(campaigns.ServiceParams{
		DB:           client,
		Repo:         campaigns.NewRepository(conn),
		Participants: partRepo,
		Ledger:       led,
		Notifier:     sender,
		Composer:     notifications.NewComposer(config.NotifyConfig{FrontURL: "https://gonggu.example"}),
		Logger:       logger.Nop(),
		Now:          func() time.Time { return now.UTC() },
	})
	require.NoError(t, err)

	job, err := NewRecruitmentSweepJob(RecruitmentSweepJobParams{
		Logger:       logger.Nop(),
		Campaigns:    svc,
		Ledger:       led,
		Participants: partRepo,
		Location:     seoul,
	})
	require.NoError(t, err)
	sweep := job.(*recruitmentSweepJob)
	sweep.now = func() time.Time { return now }

	shipJob, err := NewShippingCompletionJob(ShippingCompletionJobParams{Logger: logger.Nop(), Campaigns: svc})
	require.NoError(t, err)
	shipping := shipJob.(*shippingCompletionJob)
	shipping.now = func() time.Time { return now }

	return &sweepStack{conn: conn, campaigns: svc, sender: sender, sweep: sweep, shipping: shipping}
}

func (s *sweepStack) seed(t *testing.T, status enums.CampaignStatus, fixed int, endDate, updatedAt time.Time, pledges ...models.Participant) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{
		LeaderID:    uuid.New(),
		Title:       "제주 감귤 10kg",
		ProductURL:  "https://example.com/tangerine",
		Description: "winter tangerines",
		FixedCount:  fixed,
		TotalPrice:  40000,
		Account:     "110-000-000000",
		Bank:        "신한",
		StartDate:   endDate.Add(-7 * 24 * time.Hour),
		EndDate:     endDate,
		Category:    enums.ProductCategoryFood,
		Status:      status,
	}
	require.NoError(t, s.conn.Create(campaign).Error)
	for i := range pledges {
		pledges[i].CampaignID = campaign.ID
		if pledges[i].UserID == uuid.Nil {
			pledges[i].UserID = uuid.New()
		}
		require.NoError(t, s.conn.Create(&pledges[i]).Error)
	}
	require.NoError(t, s.conn.Model(&models.Campaign{}).Where("id = ?", campaign.ID).UpdateColumn("updated_at", updatedAt.UTC()).Error)
	return campaign
}

func (s *sweepStack) reload(t *testing.T, id uuid.UUID) *models.Campaign {
	t.Helper()
	var campaign models.Campaign
	require.NoError(t, s.conn.Where("id = ?", id).Take(&campaign).Error)
	return &campaign
}

func TestSweepCancelsOverdueDeposits(t *testing.T) {
	stack := newSweepStack(t, sweepNow)
	now := sweepNow.UTC()
	campaign := stack.seed(t, enums.CampaignStatusPaymentInProgress, 10, now.Add(-48*time.Hour), now.Add(-25*time.Hour),
		models.Participant{Count: 3, IsPaid: true},
		models.Participant{Count: 4, IsPaid: true},
		models.Participant{Count: 3},
	)

	require.NoError(t, stack.sweep.Run(context.Background()))

	stored := stack.reload(t, campaign.ID)
	assert.Equal(t, enums.CampaignStatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelReason)
	assert.Equal(t, enums.CancelReasonPaymentFailed, *stored.CancelReason)
	assert.Len(t, stored.NonDepositors, 1)
	assert.Equal(t, 3, stack.sender.count(enums.NotificationTypeCampaignCancelled))
	assert.Zero(t, stack.sender.count(enums.NotificationTypeDepositReminder))

	require.NoError(t, stack.sweep.Run(context.Background()))
	assert.Equal(t, 3, stack.sender.count(enums.NotificationTypeCampaignCancelled))
	assert.Equal(t, enums.CampaignStatusCancelled, stack.reload(t, campaign.ID).Status)
}

func TestSweepCancelsExpiredRecruitment(t *testing.T) {
	stack := newSweepStack(t, sweepNow)
	now := sweepNow.UTC()
	short := stack.seed(t, enums.CampaignStatusRecruiting, 10, now.Add(-time.Hour), now.Add(-2*time.Hour),
		models.Participant{Count: 4, IsPaid: true},
	)
	running := stack.seed(t, enums.CampaignStatusRecruiting, 10, now.Add(time.Hour), now.Add(-2*time.Hour),
		models.Participant{Count: 4, IsPaid: true},
	)

	require.NoError(t, stack.sweep.Run(context.Background()))

	stored := stack.reload(t, short.ID)
	assert.Equal(t, enums.CampaignStatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelReason)
	assert.Equal(t, enums.CancelReasonSystemCancelled, *stored.CancelReason)
	assert.Empty(t, stored.NonDepositors)
	assert.Equal(t, enums.CampaignStatusRecruiting, stack.reload(t, running.ID).Status)
	assert.Equal(t, 1, stack.sender.count(enums.NotificationTypeCampaignCancelled))
}

func TestSweepRemindsOncePerDeadline(t *testing.T) {
	stack := newSweepStack(t, sweepNow)
	now := sweepNow.UTC()
	anchor := now.Add(-19 * time.Hour)
	campaign := stack.seed(t, enums.CampaignStatusPaymentInProgress, 10, now.Add(-48*time.Hour), anchor,
		models.Participant{Count: 3, IsPaid: true},
		models.Participant{Count: 4},
		models.Participant{Count: 3},
	)

	for i := 0; i < 3; i++ {
		require.NoError(t, stack.sweep.Run(context.Background()))
	}

	assert.Equal(t, 2, stack.sender.count(enums.NotificationTypeDepositReminder))
	stored := stack.reload(t, campaign.ID)
	assert.True(t, stored.IsReminderSent)
	assert.Equal(t, enums.CampaignStatusPaymentInProgress, stored.Status)
	assert.True(t, anchor.Equal(stored.UpdatedAt))
}

func TestShippingCompletionSweep(t *testing.T) {
	stack := newSweepStack(t, sweepNow)
	now := sweepNow.UTC()
	due := stack.seed(t, enums.CampaignStatusShipped, 10, now.Add(-10*24*time.Hour), now.Add(-72*time.Hour))
	recent := stack.seed(t, enums.CampaignStatusShipped, 10, now.Add(-10*24*time.Hour), now.Add(-71*time.Hour))

	require.NoError(t, stack.shipping.Run(context.Background()))
	require.NoError(t, stack.shipping.Run(context.Background()))

	assert.Equal(t, enums.CampaignStatusCompleted, stack.reload(t, due.ID).Status)
	assert.Equal(t, enums.CampaignStatusShipped, stack.reload(t, recent.ID).Status)
	assert.Empty(t, stack.sender.msgs)
}
