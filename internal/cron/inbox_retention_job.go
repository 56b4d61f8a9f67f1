package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
)

const (
	inboxRetentionName    = "inbox-retention"
	defaultInboxSpec      = "30 3 * * *"
	defaultInboxRetention = 30 * 24 * time.Hour
)

type inboxPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type InboxRetentionJobParams struct {
	Logger     *logger.Logger
	Repository inboxPruner
	Retention  time.Duration
	Schedule   string
}

// NewInboxRetentionJob prunes read inbox notifications older than the retention window.
func NewInboxRetentionJob(params InboxRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultInboxRetention
	}
	schedule := params.Schedule
	if schedule == "" {
		schedule = defaultInboxSpec
	}
	return &inboxRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		schedule:  schedule,
		now:       time.Now,
	}, nil
}

type inboxRetentionJob struct {
	logg      *logger.Logger
	repo      inboxPruner
	retention time.Duration
	schedule  string
	now       func() time.Time
}

func (j *inboxRetentionJob) Name() string     { return inboxRetentionName }
func (j *inboxRetentionJob) Schedule() string { return j.schedule }

func (j *inboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("inbox retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"retention":    j.retention.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "inbox retention complete")
	return nil
}
