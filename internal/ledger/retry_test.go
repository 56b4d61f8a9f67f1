package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

func TestRetryPledgeRetriesLostSeal(t *testing.T) {
	calls := 0
	err := RetryPledge(context.Background(), nil, func(context.Context) error {
		calls++
		if calls < 3 {
			return ErrConcurrentPledge
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryPledgeGivesUp(t *testing.T) {
	calls := 0
	err := RetryPledge(context.Background(), nil, func(context.Context) error {
		calls++
		return ErrConcurrentPledge
	})
	require.ErrorIs(t, err, ErrConcurrentPledge)
	require.Equal(t, pledgeRetryAttempts+1, calls)
}

func TestRetryPledgeDoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := RetryPledge(context.Background(), nil, func(context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)

	calls = 0
	full := pkgerrors.New(pkgerrors.CodeCapacityExceeded, "full")
	err = RetryPledge(context.Background(), nil, func(context.Context) error {
		calls++
		return full
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCapacityExceeded))
	require.Equal(t, 1, calls)
}
