package queue

import (
	"context"
	"sync"

	"github.com/karopastal/Open-Knesset/common/logger"
)

// JobKind identifies a recompute pipeline job
type JobKind string

const (
	JobClassifyVote   JobKind = "classify-vote"
	JobRecomputeStage JobKind = "recompute-stage"
)

// Job is a unit of recompute work, keyed by the entity it targets
type Job struct {
	Kind JobKind
	ID   int64
}

// Handler processes jobs of one kind
type Handler func(ctx context.Context, job Job) error

// Queue interface for the recompute pipeline
type Queue interface {
	Publish(ctx context.Context, job Job) error
	Subscribe(ctx context.Context, kind JobKind, handler Handler) error
	Close() error
}

// MemoryQueue is an in-memory queue for single-process deployments
type MemoryQueue struct {
	kinds map[JobKind]chan Job
	mu    sync.RWMutex
	log   *logger.Logger
}

// NewMemoryQueue creates a new in-memory queue
func NewMemoryQueue(log *logger.Logger) *MemoryQueue {
	return &MemoryQueue{
		kinds: make(map[JobKind]chan Job),
		log:   log,
	}
}

func (q *MemoryQueue) channel(kind JobKind) chan Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch, exists := q.kinds[kind]
	if !exists {
		ch = make(chan Job, 1000)
		q.kinds[kind] = ch
	}
	return ch
}

// Publish enqueues a job
func (q *MemoryQueue) Publish(ctx context.Context, job Job) error {
	ch := q.channel(job.Kind)

	select {
	case ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Channel full; drop and warn. Jobs are idempotent recomputes, a
		// dropped one is re-triggered by the next data change.
		q.log.Warn("queue full, dropping job", "kind", job.Kind, "id", job.ID)
		return nil
	}
}

// Subscribe consumes jobs of one kind until the context is cancelled
func (q *MemoryQueue) Subscribe(ctx context.Context, kind JobKind, handler Handler) error {
	ch := q.channel(kind)

	q.log.Info("subscribing to jobs", "kind", kind)

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.log.Info("subscription cancelled", "kind", kind)
				return
			case job := <-ch:
				if err := handler(ctx, job); err != nil {
					q.log.Error("job failed", "kind", job.Kind, "id", job.ID, "error", err)
				}
			}
		}
	}()

	return nil
}

// Close closes the queue
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.kinds = make(map[JobKind]chan Job)
	return nil
}
