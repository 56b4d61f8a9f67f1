package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
)

type fakeCompleter struct {
	now time.Time
	err error
}

func (f *fakeCompleter) CompleteShipped(ctx context.Context, now time.Time) (int64, error) {
	f.now = now
	return 2, f.err
}

func TestShippingCompletionJobPassesUTCNow(t *testing.T) {
	completer := &fakeCompleter{}
	job, err := NewShippingCompletionJob(ShippingCompletionJobParams{Logger: logger.Nop(), Campaigns: completer})
	require.NoError(t, err)
	ship := job.(*shippingCompletionJob)
	ship.now = func() time.Time { return sweepNow }

	require.NoError(t, job.Run(context.Background()))
	assert.True(t, completer.now.Equal(sweepNow))
	assert.Equal(t, time.UTC, completer.now.Location())
	assert.Equal(t, defaultShippingSpec, job.Schedule())
	assert.Equal(t, "shipping-completion", job.Name())
}

func TestShippingCompletionJobWrapsErrors(t *testing.T) {
	job, err := NewShippingCompletionJob(ShippingCompletionJobParams{
		Logger:    logger.Nop(),
		Campaigns: &fakeCompleter{err: errors.New("boom")},
		Schedule:  "5 0 * * *",
	})
	require.NoError(t, err)
	assert.Equal(t, "5 0 * * *", job.Schedule())
	require.Error(t, job.Run(context.Background()))
}
