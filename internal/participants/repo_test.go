package participants

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/dbtest"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

func TestRepositoryCreateDuplicateIsAlreadyJoined(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	campaignID, userID := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(context.Background(), &models.Participant{CampaignID: campaignID, UserID: userID, Count: 1}))
	err := repo.Create(context.Background(), &models.Participant{CampaignID: campaignID, UserID: userID, Count: 2})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeAlreadyJoined), "got %v", err)
}

func TestRepositoryUnpaidQueries(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	campaignID := uuid.New()
	paid := &models.Participant{CampaignID: campaignID, UserID: uuid.New(), Count: 1, IsPaid: true}
	unpaid := &models.Participant{CampaignID: campaignID, UserID: uuid.New(), Count: 2}
	require.NoError(t, repo.Create(context.Background(), paid))
	require.NoError(t, repo.Create(context.Background(), unpaid))

	count, err := repo.CountUnpaid(context.Background(), campaignID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	list, err := repo.ListUnpaid(context.Background(), campaignID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, unpaid.UserID, list[0].UserID)

	unpaid.IsPaid = true
	require.NoError(t, repo.Save(context.Background(), unpaid))
	count, err = repo.CountUnpaid(context.Background(), campaignID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepositoryCampaignIDsByUser(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	user := uuid.New()
	first, second := uuid.New(), uuid.New()
	require.NoError(t, repo.Create(context.Background(), &models.Participant{CampaignID: first, UserID: user, Count: 1}))
	require.NoError(t, repo.Create(context.Background(), &models.Participant{CampaignID: second, UserID: user, Count: 1}))
	require.NoError(t, repo.Create(context.Background(), &models.Participant{CampaignID: uuid.New(), UserID: uuid.New(), Count: 1}))

	ids, err := repo.CampaignIDsByUser(context.Background(), user)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, ids)
}

func TestRepositoryDeleteMissing(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUserIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	got := UserIDs([]models.Participant{{UserID: a}, {UserID: b}})
	assert.Equal(t, []uuid.UUID{a, b}, got)
}
