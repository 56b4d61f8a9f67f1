package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
	"github.com/gonggu-lab/gonggu-backend/pkg/metrics"
)

type fakeLock struct {
	acquired bool
	releases int
	err      error
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.acquired = false
	f.releases++
	return nil
}

type fakeLocker struct {
	locks map[string]*fakeLock
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{locks: map[string]*fakeLock{}}
}

func (f *fakeLocker) For(job string) (Lock, error) {
	lock, ok := f.locks[job]
	if !ok {
		lock = &fakeLock{}
		f.locks[job] = lock
	}
	return lock, nil
}

type testJob struct {
	name     string
	schedule string
	err      error
	runs     int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Schedule() string {
	if t.schedule == "" {
		return "*/10 * * * *"
	}
	return t.schedule
}

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newTestService(t *testing.T, locker Locker, jobs ...Job) *Service {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	service, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: registry,
		Locker:   locker,
		Metrics:  metrics.NewCronJobMetrics(prometheus.NewRegistry()),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return service
}

func TestServiceRunJobReleasesLockEvenOnFailure(t *testing.T) {
	locker := newFakeLocker()
	success := &testJob{name: "success"}
	failure := &testJob{name: "fail", err: errors.New("boom")}
	service := newTestService(t, locker, success, failure)

	ctx := context.Background()
	service.runJob(ctx, success)
	service.runJob(ctx, failure)

	if success.runs != 1 || failure.runs != 1 {
		t.Fatalf("expected each job to run once, got %d and %d", success.runs, failure.runs)
	}
	for name, lock := range locker.locks {
		if lock.acquired {
			t.Fatalf("lock for %s still held", name)
		}
		if lock.releases != 1 {
			t.Fatalf("lock for %s released %d times", name, lock.releases)
		}
	}
}

func TestServiceRunJobSkipsWhenLockHeld(t *testing.T) {
	locker := newFakeLocker()
	locker.locks["sweep"] = &fakeLock{acquired: true}
	job := &testJob{name: "sweep"}
	service := newTestService(t, locker, job)

	service.runJob(context.Background(), job)

	if job.runs != 0 {
		t.Fatalf("expected job to be skipped, ran %d", job.runs)
	}
}

func TestServiceRunJobSkipsWhenLockErrors(t *testing.T) {
	locker := newFakeLocker()
	locker.locks["sweep"] = &fakeLock{err: errors.New("redis down")}
	job := &testJob{name: "sweep"}
	service := newTestService(t, locker, job)

	service.runJob(context.Background(), job)

	if job.runs != 0 {
		t.Fatalf("expected job not to run, ran %d", job.runs)
	}
}

func TestServiceRejectsInvalidSchedule(t *testing.T) {
	service := newTestService(t, newFakeLocker(), &testJob{name: "broken", schedule: "every tuesday"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := service.Run(ctx); err == nil || errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected schedule error, got %v", err)
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	service := newTestService(t, newFakeLocker(), &testJob{name: "idle", schedule: "0 0 1 1 *"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := service.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewServiceRequiresLocker(t *testing.T) {
	if _, err := NewService(ServiceParams{Logger: logger.Nop()}); err == nil {
		t.Fatal("expected error without locker")
	}
}
