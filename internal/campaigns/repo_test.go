package campaigns

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	dbtypes "github.com/gonggu-lab/gonggu-backend/pkg/db/types"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

func TestRepositoryUpdateStatusIsGuardedByCurrentStatus(t *testing.T) {
	f := newFixture(t)
	campaign := f.seed(t, enums.CampaignStatusConfirmed, 10, 10)
	repo := NewRepository(f.conn)

	ok, err := repo.UpdateStatus(context.Background(), campaign.ID, enums.CampaignStatusRecruiting, enums.CampaignStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UpdateStatus(context.Background(), campaign.ID, enums.CampaignStatusConfirmed, enums.CampaignStatusPaymentInProgress)
	require.NoError(t, err)
	assert.True(t, ok)

	stored := f.reload(t, campaign.ID)
	assert.Equal(t, enums.CampaignStatusPaymentInProgress, stored.Status)
	assert.True(t, stored.UpdatedAt.After(campaign.UpdatedAt) || stored.UpdatedAt.Equal(campaign.UpdatedAt))
}

func TestRepositoryCancelStoresReasonAndNonDepositors(t *testing.T) {
	f := newFixture(t)
	campaign := f.seed(t, enums.CampaignStatusOrderPending, 10, 10)
	repo := NewRepository(f.conn)
	missing := uuid.New()

	ok, err := repo.Cancel(context.Background(), campaign.ID, enums.CampaignStatusOrderPending, enums.CancelReasonPaymentFailed, dbtypes.UUIDArray{missing})
	require.NoError(t, err)
	require.True(t, ok)

	stored := f.reload(t, campaign.ID)
	assert.Equal(t, enums.CampaignStatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelReason)
	assert.Equal(t, enums.CancelReasonPaymentFailed, *stored.CancelReason)
	assert.Equal(t, dbtypes.UUIDArray{missing}, stored.NonDepositors)

	ok, err = repo.Cancel(context.Background(), campaign.ID, enums.CampaignStatusOrderPending, enums.CancelReasonLeaderCancelled, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryMarkReminderSentOnce(t *testing.T) {
	f := newFixture(t)
	campaign := f.seed(t, enums.CampaignStatusPaymentInProgress, 10, 10)
	repo := NewRepository(f.conn)

	first, err := repo.MarkReminderSent(context.Background(), campaign.ID)
	require.NoError(t, err)
	second, err := repo.MarkReminderSent(context.Background(), campaign.ID)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := NewRepository(f.conn).FindByID(context.Background(), uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRepositorySumPledgedByCampaign(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, enums.CampaignStatusRecruiting, 10, 2, 3, 1)
	b := f.seed(t, enums.CampaignStatusRecruiting, 10, 4)
	empty := uuid.New()

	sums, err := NewRepository(f.conn).SumPledgedByCampaign(context.Background(), []uuid.UUID{a.ID, b.ID, empty})
	require.NoError(t, err)
	assert.Equal(t, 6, sums[a.ID])
	assert.Equal(t, 4, sums[b.ID])
	assert.Zero(t, sums[empty])
}

func TestRepositoryFindByStatuses(t *testing.T) {
	f := newFixture(t)
	recruiting := f.seed(t, enums.CampaignStatusRecruiting, 10, 2)
	paying := f.seed(t, enums.CampaignStatusPaymentInProgress, 10, 10)
	f.seed(t, enums.CampaignStatusCompleted, 10, 10)

	found, err := NewRepository(f.conn).FindByStatuses(context.Background(), enums.CampaignStatusRecruiting, enums.CampaignStatusPaymentInProgress)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(found))
	for _, c := range found {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{recruiting.ID, paying.ID}, ids)

	none, err := NewRepository(f.conn).FindByStatuses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, none)
	var count int64
	require.NoError(t, f.conn.Model(&models.Campaign{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}
