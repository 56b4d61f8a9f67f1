// Package ledger answers how much of a campaign's fixed quantity is pledged
// and refuses pledge changes that would overflow it.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

const capacityExceededMessage = "recruitment closed or quota exceeded"

// ErrConcurrentPledge reports that another pledge committed against the same
// campaign between the capacity check and the seal.
var ErrConcurrentPledge = pkgerrors.New(pkgerrors.CodeConflict, "campaign changed by a concurrent pledge")

// CapacityDetails is attached to CAPACITY_EXCEEDED errors.
type CapacityDetails struct {
	FixedCount   int `json:"fixedCount"`
	TotalPledged int `json:"totalPledged"`
	Requested    int `json:"requested"`
}

// Service gates pledge changes against the campaign's fixed quantity.
//
// A pledge change runs reserve, then the participant write, then Seal, all
// inside one transaction obtained through WithTx.
type Service interface {
	WithTx(tx *gorm.DB) Service
	TotalPledged(ctx context.Context, campaignID uuid.UUID) (int, error)
	Snapshot(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error)
	Reserve(ctx context.Context, campaignID uuid.UUID, delta, priorTotal int) (*models.Campaign, error)
	Seal(ctx context.Context, snapshot *models.Campaign) error
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) TotalPledged(ctx context.Context, campaignID uuid.UUID) (int, error) {
	if campaignID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	return s.repo.SumPledged(ctx, campaignID)
}

func (s *service) Snapshot(ctx context.Context, campaignID uuid.UUID) (*models.Campaign, error) {
	if campaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	return s.repo.FindCampaign(ctx, campaignID)
}

// Reserve checks priorTotal+delta against the fixed quantity. Releases and
// no-op changes always pass.
func (s *service) Reserve(ctx context.Context, campaignID uuid.UUID, delta, priorTotal int) (*models.Campaign, error) {
	snapshot, err := s.Snapshot(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if delta <= 0 {
		return snapshot, nil
	}
	if priorTotal+delta > snapshot.FixedCount {
		return nil, capacityExceeded(snapshot.FixedCount, priorTotal, delta)
	}
	return snapshot, nil
}

// Seal bumps the campaign version read in snapshot and re-checks the total.
// Once the version row is updated no other pledge for the campaign can seal
// until this transaction ends, so the re-read total is authoritative.
func (s *service) Seal(ctx context.Context, snapshot *models.Campaign) error {
	if snapshot == nil {
		return fmt.Errorf("campaign snapshot required")
	}
	ok, err := s.repo.BumpVersion(ctx, snapshot.ID, snapshot.Version)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConcurrentPledge
	}
	snapshot.Version++

	total, err := s.repo.SumPledged(ctx, snapshot.ID)
	if err != nil {
		return err
	}
	if total > snapshot.FixedCount {
		return capacityExceeded(snapshot.FixedCount, total, 0)
	}
	return nil
}

func capacityExceeded(fixed, total, requested int) error {
	return pkgerrors.New(pkgerrors.CodeCapacityExceeded, capacityExceededMessage).
		WithDetails(CapacityDetails{FixedCount: fixed, TotalPledged: total, Requested: requested})
}
