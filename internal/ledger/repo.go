package ledger

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

// Repository reads pledge totals and guards the campaign version token.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCampaign(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error)
	SumPledged(ctx context.Context, campaignID uuid.UUID) (int, error)
	BumpVersion(ctx context.Context, campaignID uuid.UUID, version int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindCampaign(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).Where("id = ?", campaignID).Take(&campaign).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}
	return &campaign, nil
}

func (r *repository) SumPledged(ctx context.Context, campaignID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("campaign_id = ?", campaignID).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum pledged quantity")
	}
	return int(total), nil
}

// BumpVersion increments the version only if it still equals version. It
// leaves updated_at alone because the payment deadline is anchored on it.
func (r *repository) BumpVersion(ctx context.Context, campaignID uuid.UUID, version int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND version = ?", campaignID, version).
		UpdateColumn("version", gorm.Expr("version + 1"))
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "bump campaign version")
	}
	return res.RowsAffected == 1, nil
}
