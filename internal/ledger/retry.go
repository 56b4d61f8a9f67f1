package ledger

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/gonggu-lab/gonggu-backend/pkg/metrics"
)

const (
	pledgeRetryBase     = 20 * time.Millisecond
	pledgeRetryAttempts = 4
)

// RetryPledge runs fn and re-runs it while it loses the seal to a concurrent
// pledge. Any other outcome, success included, is returned as is.
func RetryPledge(ctx context.Context, m *metrics.CampaignMetrics, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(pledgeRetryAttempts, retry.NewExponential(pledgeRetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if stdErrors.Is(err, ErrConcurrentPledge) {
			m.IncPledgeRetry()
			return retry.RetryableError(err)
		}
		return err
	})
}
