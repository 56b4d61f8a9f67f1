// Package app assembles the campaign domain services shared by the api and
// cron-worker binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/gonggu-lab/gonggu-backend/internal/campaigns"
	"github.com/gonggu-lab/gonggu-backend/internal/ledger"
	"github.com/gonggu-lab/gonggu-backend/internal/notifications"
	"github.com/gonggu-lab/gonggu-backend/internal/participants"
	"github.com/gonggu-lab/gonggu-backend/pkg/config"
	"github.com/gonggu-lab/gonggu-backend/pkg/db"
	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
	"github.com/gonggu-lab/gonggu-backend/pkg/metrics"
	"github.com/gonggu-lab/gonggu-backend/pkg/pubsub"
)

type CoreParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         *db.Client
	Registerer prometheus.Registerer
}

// Core holds the wired domain services.
type Core struct {
	Campaigns     *campaigns.Service
	Participants  *participants.Engine
	Ledger        ledger.Service
	ParticipantDB participants.Repository
	Notifications notifications.Service
	Inbox         notifications.Repository
	Metrics       *metrics.CampaignMetrics

	pubsub *pubsub.Client
	topic  *pubsub.TopicPublisher
}

func NewCore(ctx context.Context, params CoreParams) (*Core, error) {
	switch {
	case params.Config == nil:
		return nil, errors.New("config is required")
	case params.Logger == nil:
		return nil, errors.New("logger is required")
	case params.DB == nil:
		return nil, errors.New("database client is required")
	}
	cfg, logg, conn := params.Config, params.Logger, params.DB.DB()

	core := &Core{}
	if params.Registerer != nil {
		core.Metrics = metrics.NewCampaignMetrics(params.Registerer)
	}

	inbox := notifications.NewRepository(conn)
	inboxSink, err := notifications.NewInboxSink(inbox)
	if err != nil {
		return nil, err
	}
	sinks := []notifications.Sink{inboxSink}

	if topic := strings.TrimSpace(cfg.Notify.PushTopic); topic != "" {
		client, err := pubsub.NewClient(ctx, cfg.GCP, logg)
		if err != nil {
			return nil, fmt.Errorf("push sink: %w", err)
		}
		core.pubsub = client
		publisher, err := client.Topic(topic)
		if err != nil {
			_ = core.Close()
			return nil, fmt.Errorf("push sink: %w", err)
		}
		core.topic = publisher
		pushSink, err := notifications.NewPushSink(publisher)
		if err != nil {
			_ = core.Close()
			return nil, err
		}
		sinks = append(sinks, pushSink)
	}

	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Logger:      logg,
		Sinks:       sinks,
		Metrics:     core.Metrics,
		Concurrency: cfg.Notify.Concurrency,
	})
	if err != nil {
		_ = core.Close()
		return nil, err
	}
	composer := notifications.NewComposer(cfg.Notify)

	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn))
	if err != nil {
		_ = core.Close()
		return nil, err
	}
	participantRepo := participants.NewRepository(conn)

	campaignSvc, err := campaigns.NewService(campaigns.ServiceParams{
		DB:           params.DB,
		Repo:         campaigns.NewRepository(conn),
		Participants: participantRepo,
		Ledger:       ledgerSvc,
		Notifier:     dispatcher,
		Composer:     composer,
		Logger:       logg,
		Metrics:      core.Metrics,
	})
	if err != nil {
		_ = core.Close()
		return nil, err
	}

	engine, err := participants.NewEngine(participants.EngineParams{
		DB:       params.DB,
		Repo:     participantRepo,
		Ledger:   ledgerSvc,
		Status:   campaignSvc,
		Notifier: dispatcher,
		Composer: composer,
		Logger:   logg,
		Metrics:  core.Metrics,
	})
	if err != nil {
		_ = core.Close()
		return nil, err
	}

	notificationSvc, err := notifications.NewService(inbox)
	if err != nil {
		_ = core.Close()
		return nil, err
	}

	core.Campaigns = campaignSvc
	core.Participants = engine
	core.Ledger = ledgerSvc
	core.ParticipantDB = participantRepo
	core.Notifications = notificationSvc
	core.Inbox = inbox
	return core, nil
}

// Close flushes the push topic and releases the Pub/Sub client.
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	if c.topic != nil {
		c.topic.Stop()
	}
	var err error
	if c.pubsub != nil {
		err = multierr.Append(err, c.pubsub.Close())
	}
	return err
}
