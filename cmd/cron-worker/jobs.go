package main

import (
	"time"

	"github.com/gonggu-lab/gonggu-backend/internal/app"
	"github.com/gonggu-lab/gonggu-backend/internal/cron"
	"github.com/gonggu-lab/gonggu-backend/pkg/config"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
)

func buildRegistry(cfg *config.Config, logg *logger.Logger, core *app.Core, loc *time.Location) (*cron.Registry, error) {
	sweep, err := cron.NewRecruitmentSweepJob(cron.RecruitmentSweepJobParams{
		Logger:            logg,
		Campaigns:         core.Campaigns,
		Ledger:            core.Ledger,
		Participants:      core.ParticipantDB,
		Schedule:          cfg.Cron.RecruitmentSweepSpec,
		Location:          loc,
		BusinessHourStart: cfg.Cron.BusinessHourStart,
		BusinessHourEnd:   cfg.Cron.BusinessHourEnd,
		Concurrency:       cfg.Cron.SweepConcurrency,
	})
	if err != nil {
		return nil, err
	}

	shipping, err := cron.NewShippingCompletionJob(cron.ShippingCompletionJobParams{
		Logger:    logg,
		Campaigns: core.Campaigns,
		Schedule:  cfg.Cron.ShippingSweepSpec,
	})
	if err != nil {
		return nil, err
	}

	retention, err := cron.NewInboxRetentionJob(cron.InboxRetentionJobParams{
		Logger:     logg,
		Repository: core.Inbox,
		Retention:  cfg.Notify.InboxRetention,
		Schedule:   cfg.Cron.InboxRetentionSpec,
	})
	if err != nil {
		return nil, err
	}

	return cron.NewRegistry(sweep, shipping, retention)
}
