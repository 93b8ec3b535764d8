package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karopastal/Open-Knesset/common/logger"
)

func TestMemoryQueuePublishSubscribe(t *testing.T) {
	q := NewMemoryQueue(logger.New("error", "json"))
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []int64
	done := make(chan struct{})

	err := q.Subscribe(ctx, JobClassifyVote, func(ctx context.Context, job Job) error {
		mu.Lock()
		got = append(got, job.ID)
		if len(got) == 3 {
			close(done)
		}
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, q.Publish(ctx, Job{Kind: JobClassifyVote, ID: id}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs were not consumed")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestMemoryQueueKindsAreIndependent(t *testing.T) {
	q := NewMemoryQueue(logger.New("error", "json"))
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	classified := make(chan int64, 1)
	err := q.Subscribe(ctx, JobClassifyVote, func(ctx context.Context, job Job) error {
		classified <- job.ID
		return nil
	})
	require.NoError(t, err)

	// A stage job must not reach the classification subscriber
	require.NoError(t, q.Publish(ctx, Job{Kind: JobRecomputeStage, ID: 7}))
	require.NoError(t, q.Publish(ctx, Job{Kind: JobClassifyVote, ID: 8}))

	select {
	case id := <-classified:
		assert.Equal(t, int64(8), id)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not consumed")
	}
}

func TestMemoryQueueFullDropsJob(t *testing.T) {
	q := NewMemoryQueue(logger.New("error", "json"))
	defer q.Close()

	ctx := context.Background()
	for i := int64(0); i < 1500; i++ {
		// Publish never blocks, even with no subscriber draining
		require.NoError(t, q.Publish(ctx, Job{Kind: JobRecomputeStage, ID: i}))
	}
}
