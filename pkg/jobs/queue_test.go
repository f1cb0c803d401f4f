package jobs

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestQueueRunsEveryJob(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []int
	)
	q := NewQueue[int]("test", func(_ context.Context, j Job[int]) error {
		mu.Lock()
		seen = append(seen, j.Payload)
		mu.Unlock()
		return nil
	}, nil, QueueConfig{Workers: 3})
	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Enqueue(Job[int]{ID: strconv.Itoa(i), Payload: i}))
	}
	require.NoError(t, q.Wait(waitCtx(t)))

	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, seen)
}

func TestQueueRetriesThenGivesUp(t *testing.T) {
	var calls atomic.Int32
	var gaveUp Job[string]
	var lastErr error

	q := NewQueue[string]("test", func(context.Context, Job[string]) error {
		calls.Add(1)
		return errors.New("backend down")
	}, func(j Job[string], err error) {
		gaveUp, lastErr = j, err
	}, QueueConfig{MaxRetries: 2, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[string]{ID: "a", Payload: "GET /students"}))
	require.NoError(t, q.Wait(waitCtx(t)))

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "a", gaveUp.ID)
	assert.Equal(t, 3, gaveUp.Attempt)
	assert.EqualError(t, lastErr, "backend down")
}

func TestQueueRetrySucceeds(t *testing.T) {
	var calls atomic.Int32
	q := NewQueue[string]("test", func(_ context.Context, j Job[string]) error {
		calls.Add(1)
		if j.Attempt == 0 {
			return errors.New("flaky")
		}
		return nil
	}, func(Job[string], error) {
		t.Error("job should not give up")
	}, QueueConfig{RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[string]{ID: "a"}))
	require.NoError(t, q.Wait(waitCtx(t)))
	assert.Equal(t, int32(2), calls.Load())
}

func TestEnqueueBeforeStart(t *testing.T) {
	q := NewQueue[int]("idle", func(context.Context, Job[int]) error { return nil }, nil, QueueConfig{})
	assert.Error(t, q.Enqueue(Job[int]{ID: "x"}))
	assert.NoError(t, q.Wait(waitCtx(t)))
}
