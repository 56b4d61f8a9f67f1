package campaigns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	dbtypes "github.com/gonggu-lab/gonggu-backend/pkg/db/types"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
)

// Repository is the persistence boundary for campaigns. Every status write is
// guarded by the status the caller observed, so a lost race reports false
// instead of overwriting a newer status.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.CampaignStatus) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID, from enums.CampaignStatus, reason enums.CancelReason, nonDepositors dbtypes.UUIDArray) (bool, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) (bool, error)
	CompleteShippedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	FindByStatuses(ctx context.Context, statuses ...enums.CampaignStatus) ([]models.Campaign, error)
	List(ctx context.Context, filter ListFilter) ([]models.Campaign, int64, error)
	SumPledgedByCampaign(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
}
