package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitterAwaitsAllRefreshes(t *testing.T) {
	var listDone, statsDone int32
	sub := NewSubmitter(
		func(ctx context.Context) error {
			time.Sleep(30 * time.Millisecond)
			atomic.StoreInt32(&listDone, 1)
			return nil
		},
		func(ctx context.Context) error {
			time.Sleep(60 * time.Millisecond)
			atomic.StoreInt32(&statsDone, 1)
			return nil
		},
	)

	err := sub.Submit(context.Background(), func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&listDone))
	assert.Equal(t, int32(1), atomic.LoadInt32(&statsDone))
	assert.False(t, sub.Submitting())
}

func TestSubmitterRefusesReentry(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	sub := NewSubmitter(func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- sub.Submit(context.Background(), func(ctx context.Context) error { return nil })
	}()
	<-started

	// Still refreshing: the dialog cannot be submitted again
	assert.True(t, sub.Submitting())
	err := sub.Submit(context.Background(), func(ctx context.Context) error {
		t.Fatal("second mutation must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, sub.Submitting())
}

func TestSubmitterMutationFailureSkipsRefresh(t *testing.T) {
	var refreshed int32
	sub := NewSubmitter(func(ctx context.Context) error {
		atomic.AddInt32(&refreshed, 1)
		return nil
	})

	mutationErr := &APIError{Status: 400, Message: "A beneficiary with this email already exists"}
	err := sub.Submit(context.Background(), func(ctx context.Context) error { return mutationErr })
	assert.ErrorIs(t, err, mutationErr)
	assert.Zero(t, atomic.LoadInt32(&refreshed))
	assert.False(t, sub.Submitting())
}

func TestSubmitterReportsRefreshFailure(t *testing.T) {
	sub := NewSubmitter(func(ctx context.Context) error {
		return &NetworkError{Op: "GET", Err: errors.New("reset")}
	})

	err := sub.Submit(context.Background(), func(ctx context.Context) error { return nil })
	var refreshErr *RefreshError
	require.True(t, errors.As(err, &refreshErr))
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}
