package campaigns

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	dbtypes "github.com/gonggu-lab/gonggu-backend/pkg/db/types"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a campaigns repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, campaign *models.Campaign) error {
	if err := r.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create campaign")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&campaign).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCampaignNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}
	return &campaign, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update campaign")
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.CampaignStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "update campaign status")
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, from enums.CampaignStatus, reason enums.CancelReason, nonDepositors dbtypes.UUIDArray) (bool, error) {
	fields := map[string]any{
		"status":        enums.CampaignStatusCancelled,
		"cancel_reason": reason,
	}
	if len(nonDepositors) > 0 {
		fields["non_depositors"] = nonDepositors
	}
	res := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "cancel campaign")
	}
	return res.RowsAffected == 1, nil
}

// MarkReminderSent flips is_reminder_sent once. It bypasses updated_at so
// the payment deadline computed from it does not move.
func (r *repository) MarkReminderSent(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND is_reminder_sent = ?", id, false).
		UpdateColumn("is_reminder_sent", true)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "mark reminder sent")
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CompleteShippedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("status = ? AND updated_at <= ?", enums.CampaignStatusShipped, cutoff).
		Update("status", enums.CampaignStatusCompleted)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "complete shipped campaigns")
	}
	return res.RowsAffected, nil
}

func (r *repository) FindByStatuses(ctx context.Context, statuses ...enums.CampaignStatus) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if len(statuses) == 0 {
		return campaigns, nil
	}
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&campaigns).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaigns by status")
	}
	return campaigns, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Campaign, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Campaign{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LeaderID != nil {
		query = query.Where("leader_id = ?", *filter.LeaderID)
	}
	if filter.IDs != nil {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.ExcludeLeaderID != nil {
		query = query.Where("leader_id <> ?", *filter.ExcludeLeaderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count campaigns")
	}

	var campaigns []models.Campaign
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&campaigns).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaigns")
	}
	return campaigns, total, nil
}

type pledgedRow struct {
	CampaignID uuid.UUID
	Total      int64
}

func (r *repository) SumPledgedByCampaign(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []pledgedRow
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Select("campaign_id, COALESCE(SUM(count), 0) AS total").
		Where("campaign_id IN ?", ids).
		Group("campaign_id").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum pledged quantities")
	}
	for _, row := range rows {
		out[row.CampaignID] = int(row.Total)
	}
	return out, nil
}
