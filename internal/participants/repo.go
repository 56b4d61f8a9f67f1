package participants

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/pkg/db"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

// Repository persists participant pledges.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, participant *models.Participant) error
	Find(ctx context.Context, campaignID, userID uuid.UUID) (*models.Participant, error)
	Exists(ctx context.Context, campaignID, userID uuid.UUID) (bool, error)
	Save(ctx context.Context, participant *models.Participant) error
	Delete(ctx context.Context, campaignID, userID uuid.UUID) error
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Participant, error)
	ListUnpaid(ctx context.Context, campaignID uuid.UUID) ([]models.Participant, error)
	CountUnpaid(ctx context.Context, campaignID uuid.UUID) (int64, error)
	CampaignIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a participant repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, participant *models.Participant) error {
	if err := r.db.WithContext(ctx).Create(participant).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return errAlreadyJoined()
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create participant")
	}
	return nil
}

func (r *repository) Find(ctx context.Context, campaignID, userID uuid.UUID) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Take(&participant).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotParticipating()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load participant")
	}
	return &participant, nil
}

func (r *repository) Exists(ctx context.Context, campaignID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check participant")
	}
	return count > 0, nil
}

func (r *repository) Save(ctx context.Context, participant *models.Participant) error {
	err := r.db.WithContext(ctx).
		Model(participant).
		Select("count", "is_paid", "refund_bank", "refund_account", "updated_at").
		Updates(participant).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update participant")
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, campaignID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Delete(&models.Participant{})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "delete participant")
	}
	if res.RowsAffected == 0 {
		return errNotParticipating()
	}
	return nil
}

func (r *repository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list participants")
	}
	return participants, nil
}

func (r *repository) ListUnpaid(ctx context.Context, campaignID uuid.UUID) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND is_paid = ?", campaignID, false).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list unpaid participants")
	}
	return participants, nil
}

func (r *repository) CountUnpaid(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("campaign_id = ? AND is_paid = ?", campaignID, false).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count unpaid participants")
	}
	return count, nil
}

func (r *repository) CampaignIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("user_id = ?", userID).
		Order("joined_at DESC").
		Pluck("campaign_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list joined campaigns")
	}
	return ids, nil
}

// UserIDs projects participants onto their user ids.
func UserIDs(participants []models.Participant) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		out = append(out, p.UserID)
	}
	return out
}
