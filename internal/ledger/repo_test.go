package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/dbtest"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

func seedCampaign(t *testing.T, conn *gorm.DB, fixed int, counts ...int) *models.Campaign {
	t.Helper()
	now := time.Now().UTC()
	campaign := &models.Campaign{
		LeaderID:    uuid.New(),
		Title:       "생수 2L 공구",
		ProductURL:  "https://example.com/water",
		Description: "nightly water run",
		FixedCount:  fixed,
		TotalPrice:  12000,
		Account:     "110-000-000000",
		Bank:        "신한",
		StartDate:   now,
		EndDate:     now.Add(48 * time.Hour),
		Category:    enums.ProductCategoryFood,
		Status:      enums.CampaignStatusRecruiting,
	}
	require.NoError(t, conn.Create(campaign).Error)
	for _, count := range counts {
		require.NoError(t, conn.Create(&models.Participant{
			CampaignID: campaign.ID,
			UserID:     uuid.New(),
			Count:      count,
		}).Error)
	}
	return campaign
}

func TestRepositorySumPledged(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	campaign := seedCampaign(t, conn, 10, 3, 4)
	seedCampaign(t, conn, 10, 9)

	total, err := repo.SumPledged(context.Background(), campaign.ID)
	require.NoError(t, err)
	require.Equal(t, 7, total)

	empty, err := repo.SumPledged(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Zero(t, empty)
}

func TestRepositoryFindCampaignNotFound(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))

	_, err := repo.FindCampaign(context.Background(), uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRepositoryBumpVersionStale(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	campaign := seedCampaign(t, conn, 10)

	ok, err := repo.BumpVersion(context.Background(), campaign.ID, 0)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.BumpVersion(context.Background(), campaign.ID, 0)
	require.NoError(t, err)
	require.False(t, ok, "a second writer holding the old version must lose")

	reloaded, err := repo.FindCampaign(context.Background(), campaign.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), reloaded.Version)
}

func TestRepositoryBumpVersionKeepsUpdatedAt(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	campaign := seedCampaign(t, conn, 10)
	anchor := time.Now().UTC().Add(-20 * time.Hour).Truncate(time.Second)
	require.NoError(t, conn.Model(&models.Campaign{}).
		Where("id = ?", campaign.ID).
		UpdateColumn("updated_at", anchor).Error)

	_, err := repo.BumpVersion(context.Background(), campaign.ID, 0)
	require.NoError(t, err)

	reloaded, err := repo.FindCampaign(context.Background(), campaign.ID)
	require.NoError(t, err)
	require.True(t, anchor.Equal(reloaded.UpdatedAt), "updated_at moved to %s", reloaded.UpdatedAt)
}

func TestLedgerSealInsideTransactionRollsBackOverflow(t *testing.T) {
	client, conn := dbtest.OpenClient(t)
	campaign := seedCampaign(t, conn, 5, 5)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	err = client.WithTx(context.Background(), func(tx *gorm.DB) error {
		txLedger := svc.WithTx(tx)
		snap, err := txLedger.Snapshot(context.Background(), campaign.ID)
		if err != nil {
			return err
		}
		// skip Reserve to simulate a writer that checked against a stale total
		if err := tx.Create(&models.Participant{CampaignID: campaign.ID, UserID: uuid.New(), Count: 1}).Error; err != nil {
			return err
		}
		return txLedger.Seal(context.Background(), snap)
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCapacityExceeded))

	total, err := svc.TotalPledged(context.Background(), campaign.ID)
	require.NoError(t, err)
	require.Equal(t, 5, total)
}
