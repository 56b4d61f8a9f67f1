package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
)

const (
	shippingCompletionName = "shipping-completion"
	defaultShippingSpec    = "0 0 * * *"
)

type shippedCompleter interface {
	CompleteShipped(ctx context.Context, now time.Time) (int64, error)
}

type ShippingCompletionJobParams struct {
	Logger    *logger.Logger
	Campaigns shippedCompleter
	Schedule  string
}

func NewShippingCompletionJob(params ShippingCompletionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Campaigns == nil {
		return nil, fmt.Errorf("campaigns service required")
	}
	schedule := params.Schedule
	if schedule == "" {
		schedule = defaultShippingSpec
	}
	return &shippingCompletionJob{
		logg:      params.Logger,
		campaigns: params.Campaigns,
		schedule:  schedule,
		now:       time.Now,
	}, nil
}

type shippingCompletionJob struct {
	logg      *logger.Logger
	campaigns shippedCompleter
	schedule  string
	now       func() time.Time
}

func (j *shippingCompletionJob) Name() string     { return shippingCompletionName }
func (j *shippingCompletionJob) Schedule() string { return j.schedule }

func (j *shippingCompletionJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	completed, err := j.campaigns.CompleteShipped(ctx, now)
	if err != nil {
		return fmt.Errorf("complete shipped campaigns: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "completed", completed), "shipping completion sweep complete")
	return nil
}
