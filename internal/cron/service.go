package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
	"github.com/gonggu-lab/gonggu-backend/pkg/metrics"
)

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Locker   Locker
	Metrics  *metrics.CronJobMetrics
	Location *time.Location
}

// Service runs every registered job on its crontab schedule. A job never
// overlaps itself inside one worker, and the per-job lock keeps other worker
// instances from running it at the same time.
type Service struct {
	logg      *logger.Logger
	registry  *Registry
	locker    Locker
	metrics   *metrics.CronJobMetrics
	scheduler gocron.Scheduler
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("locker required")
	}
	registry := params.Registry
	if registry == nil {
		registry = &Registry{}
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Service{
		logg:      params.Logger,
		registry:  registry,
		locker:    params.Locker,
		metrics:   params.Metrics,
		scheduler: scheduler,
	}, nil
}

// Run schedules every job and blocks until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.schedule(ctx); err != nil {
		_ = s.scheduler.Shutdown()
		return err
	}
	s.scheduler.Start()
	s.logg.Info(ctx, "cron scheduler started")

	<-ctx.Done()
	s.logg.Info(ctx, "cron service context canceled")
	if err := s.scheduler.Shutdown(); err != nil {
		s.logg.Error(ctx, "cron scheduler shutdown", err)
	}
	return ctx.Err()
}

func (s *Service) schedule(ctx context.Context) error {
	for _, job := range s.registry.Jobs() {
		_, err := s.scheduler.NewJob(
			gocron.CronJob(job.Schedule(), false),
			gocron.NewTask(func() { s.runJob(ctx, job) }),
			gocron.WithName(job.Name()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("schedule job %s: %w", job.Name(), err)
		}
		jobCtx := s.logg.WithFields(ctx, map[string]any{"job": job.Name(), "schedule": job.Schedule()})
		s.logg.Info(jobCtx, "job scheduled")
	}
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithJob(ctx, job.Name())
	jobCtx = s.logg.WithField(jobCtx, "event", "cron.job")

	lock, err := s.locker.For(job.Name())
	if err != nil {
		s.logg.Error(jobCtx, "build job lock", err)
		s.recordFailure(job.Name())
		return
	}
	locked, err := lock.Acquire(jobCtx)
	if err != nil {
		s.logg.Error(jobCtx, "lock acquire", err)
		s.recordFailure(job.Name())
		return
	}
	if !locked {
		s.logg.Info(jobCtx, "another cron instance is running this job; skipping")
		s.recordSkipped(job.Name())
		return
	}
	defer func() {
		if relErr := lock.Release(jobCtx); relErr != nil {
			s.logg.Error(jobCtx, "failed to release cron lock", relErr)
		}
	}()

	s.logg.Info(jobCtx, "job start")
	start := time.Now()
	err = job.Run(jobCtx)
	duration := time.Since(start)
	s.observeDuration(job.Name(), duration)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		s.recordFailure(job.Name())
		return
	}
	s.logg.Info(jobCtx, "job completed")
	s.recordSuccess(job.Name())
}

func (s *Service) observeDuration(job string, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(job, duration)
}

func (s *Service) recordSuccess(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncSuccess(job)
}

func (s *Service) recordFailure(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncFailure(job)
}

func (s *Service) recordSkipped(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncSkipped(job)
}
